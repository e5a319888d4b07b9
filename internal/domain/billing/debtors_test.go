package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2025, time.June, d, 0, 0, 0, 0, time.UTC)
}

func outstanding(name string, amount int64, date time.Time, status Status) *Transaction {
	return &Transaction{PatientName: name, Amount: amount, Date: date, Status: status}
}

func TestAggregateDebtors_GroupingAndRanking(t *testing.T) {
	now := day(20)
	txns := []*Transaction{
		outstanding("Karimov Anvar", 40_000, day(10), StatusPending),
		outstanding("Karimov Anvar", 60_000, day(15), StatusOverdue),
		outstanding("Tosheva Madina", 250_000, day(18), StatusPending),
		outstanding("Yusupov Olim", 30_000, day(1), StatusPending),
		// Paid rows never appear in the ranking.
		outstanding("Karimov Anvar", 1_000_000, day(5), StatusPaid),
	}

	views := AggregateDebtors(txns, now)
	require.Len(t, views, 3)

	// Descending by amount.
	assert.Equal(t, "Tosheva Madina", views[0].PatientName)
	assert.Equal(t, int64(250_000), views[0].Amount)
	assert.Equal(t, "Karimov Anvar", views[1].PatientName)
	assert.Equal(t, int64(100_000), views[1].Amount)
	assert.Equal(t, "Yusupov Olim", views[2].PatientName)

	// Oldest contributing date drives days overdue.
	assert.Equal(t, day(10), views[1].OldestDate)
	assert.Equal(t, 10, views[1].DaysOverdue)
	assert.Equal(t, 19, views[2].DaysOverdue)
	assert.Equal(t, 2, views[0].DaysOverdue)
}

func TestAggregateDebtors_LegacyRowsWithoutID(t *testing.T) {
	now := day(20)
	pid := uuid.New()
	txns := []*Transaction{
		// Legacy row, name only.
		outstanding("Karimov Anvar", 40_000, day(10), StatusPending),
		// Newer row for the same patient carries the id; the view adopts it.
		&Transaction{PatientName: "Karimov Anvar", PatientID: &pid, Amount: 10_000, Date: day(12), Status: StatusPending},
	}

	views := AggregateDebtors(txns, now)
	require.Len(t, views, 1)
	assert.Equal(t, int64(50_000), views[0].Amount)
	require.NotNil(t, views[0].PatientID)
	assert.Equal(t, pid, *views[0].PatientID)
}

func TestAggregateDebtors_SameDayDebtIsNotOverdue(t *testing.T) {
	views := AggregateDebtors([]*Transaction{
		outstanding("Karimov Anvar", 40_000, day(20), StatusPending),
	}, day(20))

	require.Len(t, views, 1)
	assert.Zero(t, views[0].DaysOverdue)
}

func TestAggregateDebtors_Empty(t *testing.T) {
	assert.Empty(t, AggregateDebtors(nil, time.Now()))
	assert.Empty(t, AggregateDebtors([]*Transaction{
		outstanding("Karimov Anvar", 40_000, day(10), StatusPaid),
	}, day(20)))
}
