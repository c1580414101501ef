package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	planModel "sekolahku_backend/internals/features/finance/payment_plans/model"
)

var (
	ErrEmptyDueDates = errors.New("due_dates tidak boleh kosong")
)

// SplitAmount membagi total menjadi n bagian sama besar (2 desimal).
// Sisa pembulatan (minor units) ditambahkan ke bagian TERAKHIR sehingga
// jumlah seluruh bagian selalu persis sama dengan total.
// Contoh: 100000 / 3 → [33333.33, 33333.33, 33333.34]
func SplitAmount(total decimal.Decimal, n int) ([]decimal.Decimal, error) {
	if n <= 0 {
		return nil, ErrEmptyDueDates
	}
	per := total.Div(decimal.NewFromInt(int64(n))).Truncate(2)
	parts := make([]decimal.Decimal, n)
	for i := 0; i < n-1; i++ {
		parts[i] = per
	}
	// bagian terakhir menyerap sisa
	parts[n-1] = total.Sub(per.Mul(decimal.NewFromInt(int64(n - 1))))
	return parts, nil
}

// BuildInstallments membuat baris installment untuk satu enrollment:
// nomor 1..N mengikuti urutan dueDates input, status pending, paid 0.
func BuildInstallments(schoolID, enrollmentID uuid.UUID, total decimal.Decimal, dueDates []time.Time) ([]planModel.Installment, error) {
	if len(dueDates) == 0 {
		return nil, ErrEmptyDueDates
	}
	amounts, err := SplitAmount(total, len(dueDates))
	if err != nil {
		return nil, err
	}
	rows := make([]planModel.Installment, len(dueDates))
	for i, due := range dueDates {
		rows[i] = planModel.Installment{
			InstallmentSchoolID:             schoolID,
			InstallmentStudentPaymentPlanID: enrollmentID,
			InstallmentNumber:               i + 1,
			InstallmentAmount:               amounts[i],
			InstallmentPaidAmount:           decimal.Zero,
			InstallmentDueDate:              due,
			InstallmentStatus:               planModel.InstallmentStatusPending,
		}
	}
	return rows, nil
}
