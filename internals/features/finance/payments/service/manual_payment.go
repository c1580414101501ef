// file: internals/features/finance/payments/service/manual_payment.go
package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sekolahku_backend/internals/features/finance/payments/model"
)

// NewManualPayment membuat baris audit untuk pembayaran yang dicatat admin
// (kasir). Method kosong dianggap cash; "gateway" khusus jalur checkout online.
func NewManualPayment(
	schoolID, installmentID uuid.UUID,
	amount decimal.Decimal,
	method, note *string,
	now time.Time,
) model.InstallmentPayment {
	m := model.InstallmentPaymentMethodCash
	if method != nil && *method != "" {
		m = *method
	}
	return model.InstallmentPayment{
		InstallmentPaymentSchoolID:      schoolID,
		InstallmentPaymentInstallmentID: installmentID,
		InstallmentPaymentAmount:        amount,
		InstallmentPaymentStatus:        model.InstallmentPaymentStatusPaid,
		InstallmentPaymentMethod:        m,
		InstallmentPaymentNote:          note,
		InstallmentPaymentRequestedAt:   &now,
		InstallmentPaymentPaidAt:        &now,
	}
}
