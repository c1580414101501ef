// file: internals/features/finance/payments/model/installment_payment_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* ===================== Enums (string) ===================== */

const (
	InstallmentPaymentStatusInitiated = "initiated"
	InstallmentPaymentStatusPending   = "pending"
	InstallmentPaymentStatusPaid      = "paid"
	InstallmentPaymentStatusFailed    = "failed"
	InstallmentPaymentStatusExpired   = "expired"
	InstallmentPaymentStatusCanceled  = "canceled"
)

const (
	InstallmentPaymentMethodGateway      = "gateway"
	InstallmentPaymentMethodCash         = "cash"
	InstallmentPaymentMethodBankTransfer = "bank_transfer"
	InstallmentPaymentMethodOther        = "other"
)

/* ===================== Model ===================== */

type InstallmentPayment struct {
	InstallmentPaymentID uuid.UUID `gorm:"column:installment_payment_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"installment_payment_id"`

	// Tenant
	InstallmentPaymentSchoolID uuid.UUID `gorm:"column:installment_payment_school_id;type:uuid;not null;index" json:"installment_payment_school_id"`

	// Cicilan yang dibayar
	InstallmentPaymentInstallmentID uuid.UUID `gorm:"column:installment_payment_installment_id;type:uuid;not null;index" json:"installment_payment_installment_id"`

	// Nominal
	InstallmentPaymentAmount decimal.Decimal `gorm:"column:installment_payment_amount;type:decimal(18,2);not null;check:installment_payment_amount>0" json:"installment_payment_amount"`

	// Status & metode
	InstallmentPaymentStatus string `gorm:"column:installment_payment_status;type:varchar(20);not null;default:'initiated';index" json:"installment_payment_status"`
	InstallmentPaymentMethod string `gorm:"column:installment_payment_method;type:varchar(20);not null;default:'gateway'" json:"installment_payment_method"`

	// Catatan bebas dari admin (pembayaran manual)
	InstallmentPaymentNote *string `gorm:"column:installment_payment_note;type:varchar(255)" json:"installment_payment_note,omitempty"`

	// Info gateway
	InstallmentPaymentExternalID  *string `gorm:"column:installment_payment_external_id;uniqueIndex" json:"installment_payment_external_id,omitempty"` // order_id di PSP
	InstallmentPaymentSnapToken   *string `gorm:"column:installment_payment_snap_token" json:"installment_payment_snap_token,omitempty"`
	InstallmentPaymentCheckoutURL *string `gorm:"column:installment_payment_checkout_url" json:"installment_payment_checkout_url,omitempty"`

	// payload callback mentah dari PSP
	InstallmentPaymentProviderPayload datatypes.JSON `gorm:"column:installment_payment_provider_payload;type:jsonb" json:"installment_payment_provider_payload,omitempty"`

	// Timestamps penting
	InstallmentPaymentRequestedAt *time.Time `gorm:"column:installment_payment_requested_at;type:timestamptz" json:"installment_payment_requested_at,omitempty"`
	InstallmentPaymentPaidAt      *time.Time `gorm:"column:installment_payment_paid_at;type:timestamptz" json:"installment_payment_paid_at,omitempty"`

	InstallmentPaymentCreatedAt time.Time `gorm:"column:installment_payment_created_at;type:timestamptz;not null;default:now()" json:"installment_payment_created_at"`
	InstallmentPaymentUpdatedAt time.Time `gorm:"column:installment_payment_updated_at;type:timestamptz;not null;default:now()" json:"installment_payment_updated_at"`
}

func (InstallmentPayment) TableName() string { return "installment_payments" }

func (m *InstallmentPayment) BeforeCreate(tx *gorm.DB) (err error) {
	if m.InstallmentPaymentID == uuid.Nil {
		m.InstallmentPaymentID = uuid.New()
	}
	now := time.Now()
	if m.InstallmentPaymentCreatedAt.IsZero() {
		m.InstallmentPaymentCreatedAt = now
	}
	m.InstallmentPaymentUpdatedAt = now
	return
}

func (m *InstallmentPayment) BeforeUpdate(tx *gorm.DB) (err error) {
	m.InstallmentPaymentUpdatedAt = time.Now()
	return
}
