package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

/* ==============================
   ENUM: status installment
============================== */

type InstallmentStatus string

const (
	InstallmentStatusPending InstallmentStatus = "pending"
	InstallmentStatusPartial InstallmentStatus = "partial"
	InstallmentStatusPaid    InstallmentStatus = "paid"
	InstallmentStatusOverdue InstallmentStatus = "overdue"
)

/* ==============================================
   MODEL: cicilan per enrollment
   invariant: installment_paid_amount ≤ installment_amount
============================================== */

type Installment struct {
	// PK
	InstallmentID uuid.UUID `gorm:"column:installment_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"installment_id"`

	// Tenant
	InstallmentSchoolID uuid.UUID `gorm:"column:installment_school_id;type:uuid;not null;index" json:"installment_school_id"`

	// FK → student_payment_plans (owner)
	InstallmentStudentPaymentPlanID uuid.UUID `gorm:"column:installment_student_payment_plan_id;type:uuid;not null;index;uniqueIndex:uniq_enrollment_number,priority:1" json:"installment_student_payment_plan_id"`

	// Nomor urut 1..N mengikuti urutan due date input
	InstallmentNumber int `gorm:"column:installment_number;type:int;not null;check:installment_number>0;uniqueIndex:uniq_enrollment_number,priority:2" json:"installment_number"`

	// Nominal
	InstallmentAmount     decimal.Decimal `gorm:"column:installment_amount;type:decimal(18,2);not null;check:installment_amount>=0" json:"installment_amount"`
	InstallmentPaidAmount decimal.Decimal `gorm:"column:installment_paid_amount;type:decimal(18,2);not null;default:0" json:"installment_paid_amount"`

	// Jatuh tempo + status
	InstallmentDueDate  time.Time         `gorm:"column:installment_due_date;type:timestamptz;not null;index" json:"installment_due_date"`
	InstallmentStatus   InstallmentStatus `gorm:"column:installment_status;type:varchar(20);not null;default:'pending';index" json:"installment_status"`
	InstallmentPaidDate *time.Time        `gorm:"column:installment_paid_date;type:timestamptz" json:"installment_paid_date,omitempty"`

	// Reminder state
	InstallmentReminderSent   bool       `gorm:"column:installment_reminder_sent;not null;default:false" json:"installment_reminder_sent"`
	InstallmentReminderSentAt *time.Time `gorm:"column:installment_reminder_sent_at;type:timestamptz" json:"installment_reminder_sent_at,omitempty"`

	// Audit
	InstallmentCreatedAt time.Time `gorm:"column:installment_created_at;type:timestamptz;not null;default:now()" json:"installment_created_at"`
	InstallmentUpdatedAt time.Time `gorm:"column:installment_updated_at;type:timestamptz;not null;default:now()" json:"installment_updated_at"`
}

func (Installment) TableName() string { return "installments" }

func (m *Installment) BeforeCreate(tx *gorm.DB) (err error) {
	if m.InstallmentID == uuid.Nil {
		m.InstallmentID = uuid.New()
	}
	now := time.Now()
	if m.InstallmentStatus == "" {
		m.InstallmentStatus = InstallmentStatusPending
	}
	if m.InstallmentCreatedAt.IsZero() {
		m.InstallmentCreatedAt = now
	}
	m.InstallmentUpdatedAt = now
	return nil
}

func (m *Installment) BeforeUpdate(tx *gorm.DB) (err error) {
	m.InstallmentUpdatedAt = time.Now()
	return nil
}
