package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	planModel "sekolahku_backend/internals/features/finance/payment_plans/model"
)

var testNow = time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

func newInstallment(amount string, due time.Time) planModel.Installment {
	return planModel.Installment{
		InstallmentID:         uuid.New(),
		InstallmentAmount:     decimal.RequireFromString(amount),
		InstallmentPaidAmount: decimal.Zero,
		InstallmentDueDate:    due,
		InstallmentStatus:     planModel.InstallmentStatusPending,
	}
}

func TestApplyPayment_PartialThenPaid(t *testing.T) {
	inst := newInstallment("50000", testNow.Add(48*time.Hour))

	// pembayaran pertama: 20000 → partial
	inst, err := ApplyPayment(inst, decimal.RequireFromString("20000"), testNow)
	require.NoError(t, err)
	assert.Equal(t, planModel.InstallmentStatusPartial, inst.InstallmentStatus)
	assert.True(t, inst.InstallmentPaidAmount.Equal(decimal.RequireFromString("20000")))
	assert.Nil(t, inst.InstallmentPaidDate)

	// pembayaran kedua: 30000 → paid, paid_date diisi
	inst, err = ApplyPayment(inst, decimal.RequireFromString("30000"), testNow)
	require.NoError(t, err)
	assert.Equal(t, planModel.InstallmentStatusPaid, inst.InstallmentStatus)
	assert.True(t, inst.InstallmentPaidAmount.Equal(decimal.RequireFromString("50000")))
	require.NotNil(t, inst.InstallmentPaidDate)
	assert.Equal(t, testNow, *inst.InstallmentPaidDate)
}

func TestApplyPayment_ExactSinglePayment(t *testing.T) {
	inst := newInstallment("75000.50", testNow)

	inst, err := ApplyPayment(inst, decimal.RequireFromString("75000.50"), testNow)
	require.NoError(t, err)
	assert.Equal(t, planModel.InstallmentStatusPaid, inst.InstallmentStatus)
}

func TestApplyPayment_RejectsNonPositiveAmount(t *testing.T) {
	inst := newInstallment("50000", testNow)

	_, err := ApplyPayment(inst, decimal.Zero, testNow)
	assert.ErrorIs(t, err, ErrNonPositiveAmount)

	_, err = ApplyPayment(inst, decimal.RequireFromString("-1"), testNow)
	assert.ErrorIs(t, err, ErrNonPositiveAmount)
}

func TestApplyPayment_RejectsOverpayment(t *testing.T) {
	inst := newInstallment("50000", testNow)
	inst.InstallmentPaidAmount = decimal.RequireFromString("40000")
	inst.InstallmentStatus = planModel.InstallmentStatusPartial

	_, err := ApplyPayment(inst, decimal.RequireFromString("10000.01"), testNow)
	assert.ErrorIs(t, err, ErrExceedsRemaining)
}

func TestApplyPayment_RejectsAlreadyPaid(t *testing.T) {
	inst := newInstallment("50000", testNow)
	inst.InstallmentPaidAmount = inst.InstallmentAmount
	inst.InstallmentStatus = planModel.InstallmentStatusPaid

	_, err := ApplyPayment(inst, decimal.RequireFromString("1"), testNow)
	assert.ErrorIs(t, err, ErrInstallmentAlready)
}

func TestApplyPayment_OverdueUpgradesNeverRevertsToPending(t *testing.T) {
	inst := newInstallment("50000", testNow.Add(-72*time.Hour))
	inst.InstallmentStatus = planModel.InstallmentStatusOverdue

	inst, err := ApplyPayment(inst, decimal.RequireFromString("10000"), testNow)
	require.NoError(t, err)
	assert.Equal(t, planModel.InstallmentStatusPartial, inst.InstallmentStatus)

	inst, err = ApplyPayment(inst, decimal.RequireFromString("40000"), testNow)
	require.NoError(t, err)
	assert.Equal(t, planModel.InstallmentStatusPaid, inst.InstallmentStatus)
}

func TestApplyPayment_PaidDateSetOnlyOnce(t *testing.T) {
	earlier := testNow.Add(-24 * time.Hour)
	inst := newInstallment("50000", testNow)
	inst.InstallmentPaidAmount = decimal.RequireFromString("49000")
	inst.InstallmentStatus = planModel.InstallmentStatusPartial
	inst.InstallmentPaidDate = &earlier // pernah tercatat sebelumnya

	inst, err := ApplyPayment(inst, decimal.RequireFromString("1000"), testNow)
	require.NoError(t, err)
	assert.Equal(t, earlier, *inst.InstallmentPaidDate)
}

func TestIsEnrollmentCompleted_OutOfOrderPayments(t *testing.T) {
	i1 := newInstallment("10000", testNow)
	i2 := newInstallment("10000", testNow)
	i3 := newInstallment("10000", testNow)

	// bayar nomor 3 dulu, belum completed
	assert.False(t, IsEnrollmentCompleted(
		[]planModel.Installment{i1, i2, i3}, i3.InstallmentID, planModel.InstallmentStatusPaid))

	// nomor 1 & 3 sudah paid di DB, nomor 2 baru paid sekarang → completed
	i1.InstallmentStatus = planModel.InstallmentStatusPaid
	i3.InstallmentStatus = planModel.InstallmentStatusPaid
	assert.True(t, IsEnrollmentCompleted(
		[]planModel.Installment{i1, i2, i3}, i2.InstallmentID, planModel.InstallmentStatusPaid))
}

func TestIsEnrollmentCompleted_EmptyNeverCompletes(t *testing.T) {
	assert.False(t, IsEnrollmentCompleted(nil, uuid.New(), planModel.InstallmentStatusPaid))
}

func TestIsOverdueAt(t *testing.T) {
	past := testNow.Add(-time.Hour)
	future := testNow.Add(time.Hour)

	cases := []struct {
		name   string
		status planModel.InstallmentStatus
		due    time.Time
		want   bool
	}{
		{"pending past due", planModel.InstallmentStatusPending, past, true},
		{"partial past due", planModel.InstallmentStatusPartial, past, true},
		{"paid past due stays untouched", planModel.InstallmentStatusPaid, past, false},
		{"already overdue", planModel.InstallmentStatusOverdue, past, false},
		{"pending not yet due", planModel.InstallmentStatusPending, future, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inst := newInstallment("100", tc.due)
			inst.InstallmentStatus = tc.status
			assert.Equal(t, tc.want, IsOverdueAt(inst, testNow))
		})
	}
}

func TestIsUpcomingAt(t *testing.T) {
	in3Days := testNow.Add(3 * 24 * time.Hour)
	in8Days := testNow.Add(8 * 24 * time.Hour)
	past := testNow.Add(-time.Hour)

	cases := []struct {
		name   string
		status planModel.InstallmentStatus
		due    time.Time
		want   bool
	}{
		{"pending due in 3 days", planModel.InstallmentStatusPending, in3Days, true},
		{"partial due in 3 days", planModel.InstallmentStatusPartial, in3Days, true},
		{"outside 7 day window", planModel.InstallmentStatusPending, in8Days, false},
		{"already past due", planModel.InstallmentStatusPending, past, false},
		{"paid in window", planModel.InstallmentStatusPaid, in3Days, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inst := newInstallment("100", tc.due)
			inst.InstallmentStatus = tc.status
			assert.Equal(t, tc.want, IsUpcomingAt(inst, testNow))
		})
	}
}
