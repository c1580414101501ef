// file: internals/features/finance/payments/dto/installment_payment_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	model "sekolahku_backend/internals/features/finance/payments/model"
)

/* =========================================================
   REQUEST: checkout cicilan via gateway
   ========================================================= */

type CheckoutInstallmentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`

	CustomerName  string `json:"customer_name" validate:"required,max=120"`
	CustomerEmail string `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone string `json:"customer_phone" validate:"omitempty,max=30"`
}

/* =========================================================
   REQUEST: notifikasi callback Midtrans
   (field mengikuti payload HTTP notification PSP)
   ========================================================= */

type MidtransNotificationRequest struct {
	OrderID           string `json:"order_id" validate:"required"`
	TransactionStatus string `json:"transaction_status" validate:"required"`
	FraudStatus       string `json:"fraud_status"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	StatusCode        string `json:"status_code"`
}

// Settled: transaksi dianggap lunas di sisi PSP.
func (r *MidtransNotificationRequest) Settled() bool {
	if r.TransactionStatus == "settlement" {
		return true
	}
	return r.TransactionStatus == "capture" && r.FraudStatus != "challenge" && r.FraudStatus != "deny"
}

// Terminal: transaksi berakhir tanpa dibayar.
func (r *MidtransNotificationRequest) Terminal() (string, bool) {
	switch r.TransactionStatus {
	case "deny", "failure":
		return model.InstallmentPaymentStatusFailed, true
	case "expire":
		return model.InstallmentPaymentStatusExpired, true
	case "cancel":
		return model.InstallmentPaymentStatusCanceled, true
	}
	return "", false
}

/* =========================================================
   RESPONSE
   ========================================================= */

type InstallmentPaymentResponse struct {
	InstallmentPaymentID            uuid.UUID `json:"installment_payment_id"`
	InstallmentPaymentSchoolID      uuid.UUID `json:"installment_payment_school_id"`
	InstallmentPaymentInstallmentID uuid.UUID `json:"installment_payment_installment_id"`

	InstallmentPaymentAmount decimal.Decimal `json:"installment_payment_amount"`
	InstallmentPaymentStatus string          `json:"installment_payment_status"`
	InstallmentPaymentMethod string          `json:"installment_payment_method"`
	InstallmentPaymentNote   *string         `json:"installment_payment_note,omitempty"`

	InstallmentPaymentExternalID  *string `json:"installment_payment_external_id,omitempty"`
	InstallmentPaymentSnapToken   *string `json:"installment_payment_snap_token,omitempty"`
	InstallmentPaymentCheckoutURL *string `json:"installment_payment_checkout_url,omitempty"`

	InstallmentPaymentRequestedAt *time.Time `json:"installment_payment_requested_at,omitempty"`
	InstallmentPaymentPaidAt      *time.Time `json:"installment_payment_paid_at,omitempty"`

	InstallmentPaymentCreatedAt time.Time `json:"installment_payment_created_at"`
}

func FromModelInstallmentPayment(m *model.InstallmentPayment) *InstallmentPaymentResponse {
	return &InstallmentPaymentResponse{
		InstallmentPaymentID:            m.InstallmentPaymentID,
		InstallmentPaymentSchoolID:      m.InstallmentPaymentSchoolID,
		InstallmentPaymentInstallmentID: m.InstallmentPaymentInstallmentID,
		InstallmentPaymentAmount:        m.InstallmentPaymentAmount,
		InstallmentPaymentStatus:        m.InstallmentPaymentStatus,
		InstallmentPaymentMethod:        m.InstallmentPaymentMethod,
		InstallmentPaymentNote:          m.InstallmentPaymentNote,
		InstallmentPaymentExternalID:    m.InstallmentPaymentExternalID,
		InstallmentPaymentSnapToken:     m.InstallmentPaymentSnapToken,
		InstallmentPaymentCheckoutURL:   m.InstallmentPaymentCheckoutURL,
		InstallmentPaymentRequestedAt:   m.InstallmentPaymentRequestedAt,
		InstallmentPaymentPaidAt:        m.InstallmentPaymentPaidAt,
		InstallmentPaymentCreatedAt:     m.InstallmentPaymentCreatedAt,
	}
}
