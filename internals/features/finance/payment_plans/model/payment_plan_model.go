package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

/* ==============================================
   MODEL: template rencana pembayaran (per tenant)
============================================== */

type PaymentPlan struct {
	// PK
	PaymentPlanID uuid.UUID `gorm:"column:payment_plan_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"payment_plan_id"`

	// Tenant
	PaymentPlanSchoolID uuid.UUID `gorm:"column:payment_plan_school_id;type:uuid;not null;index;uniqueIndex:uniq_plan_school_name,priority:1" json:"payment_plan_school_id"`

	// Identitas template
	// Unik per tenant hanya untuk baris hidup: plan yang sudah di-soft-delete
	// tidak memblokir pembuatan ulang dengan nama sama.
	PaymentPlanName             string          `gorm:"column:payment_plan_name;type:varchar(120);not null;uniqueIndex:uniq_plan_school_name,priority:2,where:payment_plan_deleted_at IS NULL" json:"payment_plan_name"`
	PaymentPlanTotalAmount      decimal.Decimal `gorm:"column:payment_plan_total_amount;type:decimal(18,2);not null;check:payment_plan_total_amount>=0" json:"payment_plan_total_amount"`
	PaymentPlanInstallmentCount int             `gorm:"column:payment_plan_installment_count;type:int;not null;check:payment_plan_installment_count>0" json:"payment_plan_installment_count"`

	// Opsional: terikat term/semester
	PaymentPlanTermID *uuid.UUID `gorm:"column:payment_plan_term_id;type:uuid;index" json:"payment_plan_term_id,omitempty"`

	// Audit
	PaymentPlanCreatedAt time.Time      `gorm:"column:payment_plan_created_at;type:timestamptz;not null;default:now();index" json:"payment_plan_created_at"`
	PaymentPlanUpdatedAt time.Time      `gorm:"column:payment_plan_updated_at;type:timestamptz;not null;default:now()" json:"payment_plan_updated_at"`
	PaymentPlanDeletedAt gorm.DeletedAt `gorm:"column:payment_plan_deleted_at;type:timestamptz;index" json:"-"`
}

func (PaymentPlan) TableName() string { return "payment_plans" }

func (m *PaymentPlan) BeforeCreate(tx *gorm.DB) (err error) {
	if m.PaymentPlanID == uuid.Nil {
		m.PaymentPlanID = uuid.New()
	}
	now := time.Now()
	if m.PaymentPlanCreatedAt.IsZero() {
		m.PaymentPlanCreatedAt = now
	}
	m.PaymentPlanUpdatedAt = now
	return nil
}

func (m *PaymentPlan) BeforeUpdate(tx *gorm.DB) (err error) {
	m.PaymentPlanUpdatedAt = time.Now()
	return nil
}
