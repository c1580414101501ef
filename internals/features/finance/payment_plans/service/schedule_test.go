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

func TestSplitAmount_SumMatchesTotalExactly(t *testing.T) {
	cases := []struct {
		name  string
		total string
		n     int
	}{
		{"single installment", "100000", 1},
		{"uneven three-way split", "100000", 3},
		{"uneven seven-way split", "100000", 7},
		{"fractional total", "3333.35", 3},
		{"tiny total", "0.01", 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			total := decimal.RequireFromString(tc.total)
			parts, err := SplitAmount(total, tc.n)
			require.NoError(t, err)
			require.Len(t, parts, tc.n)

			sum := decimal.Zero
			for _, p := range parts {
				sum = sum.Add(p)
			}
			assert.True(t, sum.Equal(total), "sum %s != total %s", sum, total)
		})
	}
}

func TestSplitAmount_RemainderGoesToLastInstallment(t *testing.T) {
	parts, err := SplitAmount(decimal.RequireFromString("100000"), 3)
	require.NoError(t, err)

	assert.True(t, parts[0].Equal(decimal.RequireFromString("33333.33")))
	assert.True(t, parts[1].Equal(decimal.RequireFromString("33333.33")))
	assert.True(t, parts[2].Equal(decimal.RequireFromString("33333.34")))
}

func TestSplitAmount_RejectsNonPositiveCount(t *testing.T) {
	_, err := SplitAmount(decimal.RequireFromString("100"), 0)
	assert.ErrorIs(t, err, ErrEmptyDueDates)
}

func TestBuildInstallments_NumberingFollowsInputOrder(t *testing.T) {
	schoolID := uuid.New()
	enrollmentID := uuid.New()
	due := []time.Time{
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), // sengaja tidak urut
		time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}

	rows, err := BuildInstallments(schoolID, enrollmentID, decimal.RequireFromString("150000"), due)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	for i, row := range rows {
		assert.Equal(t, i+1, row.InstallmentNumber)
		assert.Equal(t, due[i], row.InstallmentDueDate)
		assert.Equal(t, planModel.InstallmentStatusPending, row.InstallmentStatus)
		assert.True(t, row.InstallmentPaidAmount.IsZero())
		assert.Equal(t, schoolID, row.InstallmentSchoolID)
		assert.Equal(t, enrollmentID, row.InstallmentStudentPaymentPlanID)
	}
}

func TestBuildInstallments_EmptyDueDates(t *testing.T) {
	_, err := BuildInstallments(uuid.New(), uuid.New(), decimal.RequireFromString("100"), nil)
	assert.ErrorIs(t, err, ErrEmptyDueDates)
}
