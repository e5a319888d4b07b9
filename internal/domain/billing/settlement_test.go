package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settleReq(paid, debt int64) SettleRequest {
	pid := uuid.New()
	did := uuid.New()
	return SettleRequest{
		ClinicID:     uuid.New(),
		PatientID:    &pid,
		PatientName:  "Karimov Anvar",
		DoctorID:     &did,
		DoctorName:   "Rasulova Nilufar",
		Date:         time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC),
		ServiceLabel: "Plomba",
		Method:       MethodCash,
		Paid:         paid,
		Debt:         debt,
		CreatedBy:    uuid.New(),
	}
}

func TestSettle_FullyPaid(t *testing.T) {
	txns, err := Settle(settleReq(100_000, 0))
	require.NoError(t, err)
	require.Len(t, txns, 1)

	assert.Equal(t, StatusPaid, txns[0].Status)
	assert.Equal(t, int64(100_000), txns[0].Amount)
	assert.Equal(t, "Plomba", txns[0].ServiceLabel)
}

func TestSettle_FullDebt(t *testing.T) {
	txns, err := Settle(settleReq(0, 100_000))
	require.NoError(t, err)
	require.Len(t, txns, 1)

	assert.Equal(t, StatusPending, txns[0].Status)
	assert.Equal(t, int64(100_000), txns[0].Amount)
	assert.Equal(t, "Plomba", txns[0].ServiceLabel)
}

func TestSettle_PartialPayment(t *testing.T) {
	req := settleReq(60_000, 40_000)
	txns, err := Settle(req)
	require.NoError(t, err)
	require.Len(t, txns, 2)

	paid, pending := txns[0], txns[1]
	assert.Equal(t, StatusPaid, paid.Status)
	assert.Equal(t, int64(60_000), paid.Amount)
	assert.Equal(t, "Plomba (Qisman to'lov)", paid.ServiceLabel)

	assert.Equal(t, StatusPending, pending.Status)
	assert.Equal(t, int64(40_000), pending.Amount)
	assert.Equal(t, "Plomba (Qarz)", pending.ServiceLabel)

	// Both postings carry the same date and doctor attribution.
	assert.Equal(t, paid.Date, pending.Date)
	assert.Equal(t, paid.DoctorID, pending.DoctorID)
	assert.Equal(t, req.DoctorName, pending.DoctorName)
}

// Conservation: whatever the split, emitted amounts sum to paid+debt
// exactly and every posting is strictly positive.
func TestSettle_Conservation(t *testing.T) {
	cases := []struct{ paid, debt int64 }{
		{1, 0}, {0, 1}, {1, 1},
		{100_000, 0}, {0, 250_000}, {60_000, 40_000},
		{999_999, 1}, {1, 999_999}, {500_000, 500_000},
	}

	for _, c := range cases {
		txns, err := Settle(settleReq(c.paid, c.debt))
		require.NoError(t, err, "paid=%d debt=%d", c.paid, c.debt)

		var sum int64
		for _, tx := range txns {
			assert.Positive(t, tx.Amount)
			sum += tx.Amount
		}
		assert.Equal(t, c.paid+c.debt, sum, "paid=%d debt=%d", c.paid, c.debt)

		wantCount := 1
		if c.paid > 0 && c.debt > 0 {
			wantCount = 2
		}
		assert.Len(t, txns, wantCount)
	}
}

func TestSettle_Invalid(t *testing.T) {
	_, err := Settle(settleReq(0, 0))
	assert.ErrorIs(t, err, ErrNothingToSettle)

	_, err = Settle(settleReq(-10, 50))
	assert.ErrorIs(t, err, ErrNegativeAmount)

	req := settleReq(100, 0)
	req.Method = "barter"
	_, err = Settle(req)
	assert.ErrorIs(t, err, ErrInvalidMethod)
}

func TestRepay_SplitKeepsConservation(t *testing.T) {
	now := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	orig := &Transaction{
		Status:       StatusPending,
		Amount:       40_000,
		ServiceLabel: "Plomba (Qarz)",
		Method:       MethodCash,
		PatientName:  "Karimov Anvar",
	}

	created, err := Repay(orig, 15_000, now, uuid.New())
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, StatusPaid, created.Status)
	assert.Equal(t, int64(15_000), created.Amount)
	assert.Equal(t, "Plomba (Qarz) (Qarz yopildi)", created.ServiceLabel)
	assert.Equal(t, now, created.Date)

	assert.Equal(t, StatusPending, orig.Status)
	assert.Equal(t, int64(25_000), orig.Amount)

	// Original pending total is conserved across the split.
	assert.Equal(t, int64(40_000), created.Amount+orig.Amount)
}

func TestRepay_FullAmountFlipsOriginal(t *testing.T) {
	orig := &Transaction{Status: StatusPending, Amount: 40_000, ServiceLabel: "Plomba (Qarz)", Fingerprint: "abc123"}

	created, err := Repay(orig, 40_000, time.Now(), uuid.New())
	require.NoError(t, err)

	assert.Nil(t, created)
	assert.Equal(t, StatusPaid, orig.Status)
	assert.Equal(t, int64(40_000), orig.Amount)
	assert.Empty(t, orig.Fingerprint, "flipped row would collide with the settlement's paid posting")
}

func TestRepay_OverpaymentOverwritesAmount(t *testing.T) {
	orig := &Transaction{Status: StatusOverdue, Amount: 40_000, ServiceLabel: "Plomba (Qarz)"}

	created, err := Repay(orig, 45_000, time.Now(), uuid.New())
	require.NoError(t, err)

	assert.Nil(t, created)
	assert.Equal(t, StatusPaid, orig.Status)
	assert.Equal(t, int64(45_000), orig.Amount)
}

func TestRepay_Invalid(t *testing.T) {
	paid := &Transaction{Status: StatusPaid, Amount: 40_000}
	_, err := Repay(paid, 10_000, time.Now(), uuid.New())
	assert.ErrorIs(t, err, ErrNotOutstanding)

	pending := &Transaction{Status: StatusPending, Amount: 40_000}
	_, err = Repay(pending, 0, time.Now(), uuid.New())
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestFingerprint_OrderIndependentAndDistinct(t *testing.T) {
	clinic := uuid.New()
	pid := uuid.New()
	day := time.Date(2025, time.June, 10, 14, 30, 0, 0, time.UTC)
	a, b := uuid.New(), uuid.New()

	fp1 := Fingerprint(clinic, &pid, day, 100_000, []uuid.UUID{a, b})
	fp2 := Fingerprint(clinic, &pid, day, 100_000, []uuid.UUID{b, a})
	assert.Equal(t, fp1, fp2)

	// Same day at a different hour is still the same episode key.
	fp3 := Fingerprint(clinic, &pid, day.Add(3*time.Hour), 100_000, []uuid.UUID{a, b})
	assert.Equal(t, fp1, fp3)

	// Different total is a different episode.
	fp4 := Fingerprint(clinic, &pid, day, 120_000, []uuid.UUID{a, b})
	assert.NotEqual(t, fp1, fp4)

	// Legacy path without a patient id still yields a stable key.
	fp5 := Fingerprint(clinic, nil, day, 100_000, []uuid.UUID{a, b})
	assert.NotEqual(t, fp1, fp5)
	assert.Equal(t, fp5, Fingerprint(clinic, nil, day, 100_000, []uuid.UUID{a, b}))
}
