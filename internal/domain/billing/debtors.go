package billing

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/klinika/dentis/pkg/dateutil"
)

// DebtorView is one row of the clinic's "who owes how much, for how
// long" ranking.
type DebtorView struct {
	PatientID   *uuid.UUID `json:"patient_id,omitempty"`
	PatientName string     `json:"patient_name"`
	Amount      int64      `json:"amount"`
	OldestDate  time.Time  `json:"oldest_date"`
	DaysOverdue int        `json:"days_overdue"`
}

// AggregateDebtors groups outstanding (pending/overdue) transactions by
// patient display name — legacy rows may lack a patient id, so the name
// is the grouping key. Per patient: amount is the sum of outstanding
// postings, the date is the earliest contributing one (oldest debt
// drives the days-overdue figure). Rows come back sorted by amount
// descending.
func AggregateDebtors(txns []*Transaction, now time.Time) []DebtorView {
	byName := make(map[string]*DebtorView)
	var order []string

	for _, t := range txns {
		if !t.Status.Outstanding() {
			continue
		}
		v, ok := byName[t.PatientName]
		if !ok {
			v = &DebtorView{PatientName: t.PatientName, OldestDate: t.Date}
			byName[t.PatientName] = v
			order = append(order, t.PatientName)
		}
		v.Amount += t.Amount
		if t.Date.Before(v.OldestDate) {
			v.OldestDate = t.Date
		}
		if v.PatientID == nil && t.PatientID != nil {
			v.PatientID = t.PatientID
		}
	}

	views := make([]DebtorView, 0, len(order))
	for _, name := range order {
		v := byName[name]
		if days := dateutil.DaysBetween(v.OldestDate, now); days > 0 {
			v.DaysOverdue = days
		}
		views = append(views, *v)
	}

	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Amount > views[j].Amount
	})
	return views
}
