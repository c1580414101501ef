package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

/* ==============================
   ENUM: status enrollment
============================== */

type StudentPaymentPlanStatus string

const (
	StudentPaymentPlanStatusActive    StudentPaymentPlanStatus = "active"
	StudentPaymentPlanStatusCompleted StudentPaymentPlanStatus = "completed"
)

/* ==============================================
   MODEL: enrollment murid ke payment plan
   (1 murid max 1 enrollment per plan)
============================================== */

type StudentPaymentPlan struct {
	// PK
	StudentPaymentPlanID uuid.UUID `gorm:"column:student_payment_plan_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"student_payment_plan_id"`

	// Tenant
	StudentPaymentPlanSchoolID uuid.UUID `gorm:"column:student_payment_plan_school_id;type:uuid;not null;index" json:"student_payment_plan_school_id"`

	// FK → school_students + payment_plans (unik per pasangan)
	StudentPaymentPlanSchoolStudentID uuid.UUID `gorm:"column:student_payment_plan_school_student_id;type:uuid;not null;index;uniqueIndex:uniq_student_plan,priority:1" json:"student_payment_plan_school_student_id"`
	StudentPaymentPlanPaymentPlanID   uuid.UUID `gorm:"column:student_payment_plan_payment_plan_id;type:uuid;not null;index;uniqueIndex:uniq_student_plan,priority:2" json:"student_payment_plan_payment_plan_id"`

	// Total final (boleh override total template)
	StudentPaymentPlanTotalAmount decimal.Decimal `gorm:"column:student_payment_plan_total_amount;type:decimal(18,2);not null;check:student_payment_plan_total_amount>=0" json:"student_payment_plan_total_amount"`

	// Status: active → completed (one-way, hanya oleh completion watcher)
	StudentPaymentPlanStatus StudentPaymentPlanStatus `gorm:"column:student_payment_plan_status;type:varchar(20);not null;default:'active';index" json:"student_payment_plan_status"`

	// Relasi: enrollment memiliki installments (dibuat & dihapus bersama)
	Installments []Installment `gorm:"foreignKey:InstallmentStudentPaymentPlanID;references:StudentPaymentPlanID;constraint:OnDelete:CASCADE" json:"installments,omitempty"`

	// Audit
	StudentPaymentPlanCreatedAt time.Time `gorm:"column:student_payment_plan_created_at;type:timestamptz;not null;default:now();index" json:"student_payment_plan_created_at"`
	StudentPaymentPlanUpdatedAt time.Time `gorm:"column:student_payment_plan_updated_at;type:timestamptz;not null;default:now()" json:"student_payment_plan_updated_at"`
}

func (StudentPaymentPlan) TableName() string { return "student_payment_plans" }

func (m *StudentPaymentPlan) BeforeCreate(tx *gorm.DB) (err error) {
	if m.StudentPaymentPlanID == uuid.Nil {
		m.StudentPaymentPlanID = uuid.New()
	}
	now := time.Now()
	if m.StudentPaymentPlanStatus == "" {
		m.StudentPaymentPlanStatus = StudentPaymentPlanStatusActive
	}
	if m.StudentPaymentPlanCreatedAt.IsZero() {
		m.StudentPaymentPlanCreatedAt = now
	}
	m.StudentPaymentPlanUpdatedAt = now
	return nil
}

func (m *StudentPaymentPlan) BeforeUpdate(tx *gorm.DB) (err error) {
	m.StudentPaymentPlanUpdatedAt = time.Now()
	return nil
}
