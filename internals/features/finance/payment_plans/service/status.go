package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	planModel "sekolahku_backend/internals/features/finance/payment_plans/model"
)

// UpcomingWindow: jendela "segera jatuh tempo" untuk listing & summary.
const UpcomingWindow = 7 * 24 * time.Hour

var (
	ErrNonPositiveAmount  = errors.New("jumlah pembayaran harus > 0")
	ErrExceedsRemaining   = errors.New("payment exceeds remaining balance")
	ErrInstallmentAlready = errors.New("installment sudah lunas")
)

// ApplyPayment: fungsi transisi murni untuk pembayaran.
// pending|partial|overdue → partial|paid, satu arah, tidak pernah kembali
// ke pending, dan paid_amount tidak pernah turun.
// Overpayment ditolak (paid_amount ≤ amount jadi invariant).
func ApplyPayment(inst planModel.Installment, amount decimal.Decimal, now time.Time) (planModel.Installment, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return inst, ErrNonPositiveAmount
	}
	if inst.InstallmentStatus == planModel.InstallmentStatusPaid {
		return inst, ErrInstallmentAlready
	}
	newPaid := inst.InstallmentPaidAmount.Add(amount)
	if newPaid.GreaterThan(inst.InstallmentAmount) {
		return inst, ErrExceedsRemaining
	}

	inst.InstallmentPaidAmount = newPaid
	if newPaid.GreaterThanOrEqual(inst.InstallmentAmount) {
		inst.InstallmentStatus = planModel.InstallmentStatusPaid
		if inst.InstallmentPaidDate == nil {
			t := now
			inst.InstallmentPaidDate = &t
		}
	} else {
		inst.InstallmentStatus = planModel.InstallmentStatusPartial
	}
	return inst, nil
}

// IsEnrollmentCompleted: watcher, true jika SEMUA installment paid,
// memakai status terbaru untuk baris yang baru diubah (updatedID).
func IsEnrollmentCompleted(installments []planModel.Installment, updatedID uuid.UUID, updatedStatus planModel.InstallmentStatus) bool {
	if len(installments) == 0 {
		return false
	}
	for _, inst := range installments {
		st := inst.InstallmentStatus
		if inst.InstallmentID == updatedID {
			st = updatedStatus
		}
		if st != planModel.InstallmentStatusPaid {
			return false
		}
	}
	return true
}

// IsOverdueAt: kandidat sweep, lewat jatuh tempo & belum lunas.
func IsOverdueAt(inst planModel.Installment, now time.Time) bool {
	if !inst.InstallmentDueDate.Before(now) {
		return false
	}
	return inst.InstallmentStatus == planModel.InstallmentStatusPending ||
		inst.InstallmentStatus == planModel.InstallmentStatusPartial
}

// IsUpcomingAt: jatuh tempo dalam [now, now+7 hari] & belum lunas.
func IsUpcomingAt(inst planModel.Installment, now time.Time) bool {
	due := inst.InstallmentDueDate
	if due.Before(now) || due.After(now.Add(UpcomingWindow)) {
		return false
	}
	return inst.InstallmentStatus == planModel.InstallmentStatusPending ||
		inst.InstallmentStatus == planModel.InstallmentStatusPartial
}
