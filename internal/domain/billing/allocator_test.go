package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/klinika/dentis/internal/domain/catalog"
	"github.com/klinika/dentis/internal/domain/doctor"
)

func newDoctor(last, first string, pct int) *doctor.Doctor {
	return &doctor.Doctor{ID: uuid.New(), LastName: last, FirstName: first, Percentage: pct}
}

func txn(amount int64, label string, doctorID *uuid.UUID, doctorName string) *Transaction {
	return &Transaction{Amount: amount, ServiceLabel: label, DoctorID: doctorID, DoctorName: doctorName, Status: StatusPaid}
}

func TestAllocate_ProportionalTechnicianCost(t *testing.T) {
	// Worked example: list price 300 000, technician cost 50 000, partial
	// payment of 150 000 → allocated cost 25 000.
	d := newDoctor("Rasulova", "Nilufar", 40)
	services := []*catalog.Service{{Name: "Koronka", Price: 300_000, TechnicianCost: 50_000}}
	txns := []*Transaction{txn(150_000, "Koronka (Qisman to'lov)", &d.ID, "")}

	s := Allocate(txns, d, []*doctor.Doctor{d, newDoctor("X", "Y", 0)}, services)

	assert.Equal(t, int64(150_000), s.GrossRevenue)
	assert.Equal(t, int64(25_000), s.TechnicianCosts)
	assert.Equal(t, int64(125_000), s.NetRevenue)
	assert.Equal(t, int64(50_000), s.DoctorSalary) // 40% of 125 000
}

func TestAllocate_CostCappedAtFullServiceCost(t *testing.T) {
	d := newDoctor("Rasulova", "Nilufar", 50)
	services := []*catalog.Service{{Name: "Plomba", Price: 200_000, TechnicianCost: 30_000}}
	// Overridden price above the list price must not inflate the cost.
	txns := []*Transaction{txn(250_000, "Plomba", &d.ID, "")}

	s := Allocate(txns, d, []*doctor.Doctor{d, newDoctor("X", "Y", 0)}, services)

	assert.Equal(t, int64(30_000), s.TechnicianCosts)
	assert.Equal(t, int64(220_000), s.NetRevenue)
}

func TestAllocate_UnmatchedServiceCostsNothing(t *testing.T) {
	d := newDoctor("Rasulova", "Nilufar", 30)
	services := []*catalog.Service{{Name: "Plomba", Price: 200_000, TechnicianCost: 30_000}}
	txns := []*Transaction{txn(80_000, "Eski xizmat", &d.ID, "")}

	s := Allocate(txns, d, []*doctor.Doctor{d, newDoctor("X", "Y", 0)}, services)

	assert.Zero(t, s.TechnicianCosts)
	assert.Equal(t, int64(80_000), s.NetRevenue)
	assert.Equal(t, int64(24_000), s.DoctorSalary)
}

func TestAllocate_SalaryNeverNegative(t *testing.T) {
	d := newDoctor("Rasulova", "Nilufar", 60)
	// Cost equal to the price: a tiny payment nets out below zero after
	// integer division; the payout term must clamp at zero.
	services := []*catalog.Service{{Name: "Protez", Price: 100_000, TechnicianCost: 100_000}}
	txns := []*Transaction{txn(50_000, "Protez", &d.ID, "")}

	s := Allocate(txns, d, []*doctor.Doctor{d, newDoctor("X", "Y", 0)}, services)

	assert.Equal(t, int64(50_000), s.TechnicianCosts)
	assert.Zero(t, s.NetRevenue)
	assert.GreaterOrEqual(t, s.DoctorSalary, int64(0))
	assert.Zero(t, s.DoctorSalary)
}

func TestAllocate_SingleDoctorShortcut(t *testing.T) {
	d := newDoctor("Rasulova", "Nilufar", 25)
	other := uuid.New()
	// Transaction references some other doctor id, but a single-doctor
	// clinic attributes everything to its one practitioner.
	txns := []*Transaction{txn(100_000, "Plomba", &other, "")}

	s := Allocate(txns, d, []*doctor.Doctor{d}, nil)

	assert.Equal(t, int64(25_000), s.DoctorSalary)
}

func TestAllocate_NameFallbackForLegacyRows(t *testing.T) {
	d := newDoctor("Rasulova", "Nilufar", 50)
	colleague := newDoctor("Karimov", "Bek", 50)
	doctors := []*doctor.Doctor{d, colleague}

	txns := []*Transaction{
		// Legacy row: no id, full name embedded in free text.
		txn(100_000, "Plomba", nil, "shifokor RASULOVA NILUFAR (eski)"),
		// Different doctor's legacy row.
		txn(200_000, "Plomba", nil, "Karimov Bek"),
		// Unattributable.
		txn(300_000, "Plomba", nil, ""),
	}

	s := Allocate(txns, d, doctors, nil)

	assert.Equal(t, int64(600_000), s.GrossRevenue)
	assert.Equal(t, int64(50_000), s.DoctorSalary)
}

func TestAllocate_IDTakesPrecedenceOverName(t *testing.T) {
	d := newDoctor("Rasulova", "Nilufar", 50)
	colleague := newDoctor("Karimov", "Bek", 50)

	// Explicit id wins even when the stored name says otherwise.
	txns := []*Transaction{txn(100_000, "Plomba", &colleague.ID, "Rasulova Nilufar")}

	s := Allocate(txns, d, []*doctor.Doctor{d, colleague}, nil)
	assert.Zero(t, s.DoctorSalary)

	s = Allocate(txns, colleague, []*doctor.Doctor{d, colleague}, nil)
	assert.Equal(t, int64(50_000), s.DoctorSalary)
}

func TestNormalizeLabel(t *testing.T) {
	assert.Equal(t, "Plomba", NormalizeLabel("Plomba (Qisman to'lov)"))
	assert.Equal(t, "Plomba", NormalizeLabel("Plomba (Qarz)"))
	assert.Equal(t, "Plomba", NormalizeLabel("Plomba (Qarz) (Qarz yopildi)"))
	assert.Equal(t, "Plomba", NormalizeLabel("  Plomba  "))
}

func TestAllocate_MatchIsCaseInsensitiveAndTrimmed(t *testing.T) {
	d := newDoctor("Rasulova", "Nilufar", 0)
	services := []*catalog.Service{{Name: " Koronka ", Price: 300_000, TechnicianCost: 50_000}}
	txns := []*Transaction{txn(300_000, "koronka", &d.ID, "")}

	s := Allocate(txns, d, []*doctor.Doctor{d, newDoctor("X", "Y", 0)}, services)
	assert.Equal(t, int64(50_000), s.TechnicianCosts)
}
