package billing

import (
	"strings"

	"github.com/klinika/dentis/internal/domain/catalog"
	"github.com/klinika/dentis/internal/domain/doctor"
)

// Summary is the revenue allocator's output for one doctor over a set
// of transactions.
type Summary struct {
	GrossRevenue    int64 `json:"gross_revenue"`
	TechnicianCosts int64 `json:"technician_costs"`
	NetRevenue      int64 `json:"net_revenue"`
	DoctorSalary    int64 `json:"doctor_salary"`
}

// Allocate computes gross revenue, allocated technician cost, net
// revenue and the target doctor's payout over a set of transactions.
//
// Gross and net cover every transaction passed in; the salary sums only
// over transactions attributed to the target. Per transaction the
// allocated cost is serviceCost * min(amount, listPrice) / listPrice —
// a partial payment is charged a proportionally smaller technician
// cost, capped at the full cost; unmatched service labels cost nothing.
// Each transaction's payout term is clamped at zero so an allocated
// cost exceeding the amount never produces a negative salary.
func Allocate(txns []*Transaction, target *doctor.Doctor, clinicDoctors []*doctor.Doctor, services []*catalog.Service) Summary {
	var s Summary
	for _, t := range txns {
		cost := allocatedCost(t, services)
		s.GrossRevenue += t.Amount
		s.TechnicianCosts += cost

		if target == nil || !attributedTo(t, target, clinicDoctors) {
			continue
		}
		if share := (t.Amount - cost) * int64(target.Percentage) / 100; share > 0 {
			s.DoctorSalary += share
		}
	}
	s.NetRevenue = s.GrossRevenue - s.TechnicianCosts
	return s
}

func allocatedCost(t *Transaction, services []*catalog.Service) int64 {
	svc := matchService(t.ServiceLabel, services)
	if svc == nil || svc.TechnicianCost <= 0 || svc.Price <= 0 {
		return 0
	}
	amount := t.Amount
	if amount > svc.Price {
		amount = svc.Price
	}
	return svc.TechnicianCost * amount / svc.Price
}

// matchService resolves a transaction's service label against the
// catalog: case-insensitive, trimmed, settlement suffixes stripped.
func matchService(label string, services []*catalog.Service) *catalog.Service {
	name := NormalizeLabel(label)
	for _, svc := range services {
		if strings.EqualFold(strings.TrimSpace(svc.Name), name) {
			return svc
		}
	}
	return nil
}

// NormalizeLabel strips the settlement suffixes appended by Settle and
// Repay so the underlying service name is recoverable.
func NormalizeLabel(label string) string {
	for _, suffix := range []string{suffixDebtClosed, suffixPartial, suffixDebt} {
		label = strings.TrimSuffix(strings.TrimSpace(label), suffix)
	}
	return strings.TrimSpace(label)
}

// attributedTo decides whether a transaction's revenue belongs to the
// target doctor. A single-doctor clinic claims everything; otherwise
// precedence is explicit doctor id, then case-insensitive substring
// match of "lastName firstName" against the stored doctor name, then
// unattributed. The name fallback exists for legacy identifier-less
// rows only — new writes always carry a doctor id.
func attributedTo(t *Transaction, target *doctor.Doctor, clinicDoctors []*doctor.Doctor) bool {
	if len(clinicDoctors) == 1 && clinicDoctors[0].ID == target.ID {
		return true
	}
	if t.DoctorID != nil {
		return *t.DoctorID == target.ID
	}
	if t.DoctorName != "" {
		return strings.Contains(strings.ToLower(t.DoctorName), strings.ToLower(target.FullName()))
	}
	return false
}
