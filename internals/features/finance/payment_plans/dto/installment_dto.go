// file: internals/features/finance/payment_plans/dto/installment_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	model "sekolahku_backend/internals/features/finance/payment_plans/model"
)

/* =========================================================
   REQUEST: catat pembayaran cicilan
   ========================================================= */

type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`

	// opsional, dicatat ke installment_payments (default cash)
	Method *string `json:"method,omitempty" validate:"omitempty,oneof=cash bank_transfer other"`
	Note   *string `json:"note,omitempty" validate:"omitempty,max=255"`
}

/* =========================================================
   RESPONSE: cicilan + dekorasi siswa & plan
   ========================================================= */

type InstallmentResponse struct {
	InstallmentID                   uuid.UUID `json:"installment_id"`
	InstallmentSchoolID             uuid.UUID `json:"installment_school_id"`
	InstallmentStudentPaymentPlanID uuid.UUID `json:"installment_student_payment_plan_id"`

	InstallmentNumber     int             `json:"installment_number"`
	InstallmentAmount     decimal.Decimal `json:"installment_amount"`
	InstallmentPaidAmount decimal.Decimal `json:"installment_paid_amount"`

	InstallmentDueDate  time.Time               `json:"installment_due_date"`
	InstallmentStatus   model.InstallmentStatus `json:"installment_status"`
	InstallmentPaidDate *time.Time              `json:"installment_paid_date,omitempty"`

	InstallmentReminderSent   bool       `json:"installment_reminder_sent"`
	InstallmentReminderSentAt *time.Time `json:"installment_reminder_sent_at,omitempty"`

	// dekorasi join (listing admin)
	SchoolStudentID        *uuid.UUID `json:"school_student_id,omitempty"`
	SchoolStudentName      string     `json:"school_student_name,omitempty"`
	SchoolStudentNumber    string     `json:"school_student_number,omitempty"`
	SchoolStudentPhone     *string    `json:"school_student_phone,omitempty"`
	SchoolStudentClassName *string    `json:"school_student_class_name,omitempty"`
	PaymentPlanName        string     `json:"payment_plan_name,omitempty"`

	InstallmentCreatedAt time.Time `json:"installment_created_at"`
	InstallmentUpdatedAt time.Time `json:"installment_updated_at"`
}

func FromModelInstallment(m *model.Installment) *InstallmentResponse {
	return &InstallmentResponse{
		InstallmentID:                   m.InstallmentID,
		InstallmentSchoolID:             m.InstallmentSchoolID,
		InstallmentStudentPaymentPlanID: m.InstallmentStudentPaymentPlanID,
		InstallmentNumber:               m.InstallmentNumber,
		InstallmentAmount:               m.InstallmentAmount,
		InstallmentPaidAmount:           m.InstallmentPaidAmount,
		InstallmentDueDate:              m.InstallmentDueDate,
		InstallmentStatus:               m.InstallmentStatus,
		InstallmentPaidDate:             m.InstallmentPaidDate,
		InstallmentReminderSent:         m.InstallmentReminderSent,
		InstallmentReminderSentAt:       m.InstallmentReminderSentAt,
		InstallmentCreatedAt:            m.InstallmentCreatedAt,
		InstallmentUpdatedAt:            m.InstallmentUpdatedAt,
	}
}

/* =========================================================
   RESPONSE: ringkasan finansial per sekolah
   ========================================================= */

type FinanceSummaryResponse struct {
	TotalStudentsEnrolled int64 `json:"total_students_enrolled"`
	ActivePlans           int64 `json:"active_plans"`
	CompletedPlans        int64 `json:"completed_plans"`

	TotalExpected  decimal.Decimal `json:"total_expected"`
	TotalCollected decimal.Decimal `json:"total_collected"`
	TotalOutstand  decimal.Decimal `json:"total_outstanding"`

	OverdueInstallments  int64 `json:"overdue_installments"`
	UpcomingInstallments int64 `json:"upcoming_installments"`
}
