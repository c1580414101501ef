// file: internals/features/finance/payment_plans/dto/student_payment_plan_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	model "sekolahku_backend/internals/features/finance/payment_plans/model"
)

/* =========================================================
   REQUEST: Enroll siswa ke plan
   ========================================================= */

type EnrollStudentRequest struct {
	SchoolStudentID uuid.UUID `json:"school_student_id" validate:"required"`

	// RFC3339, satu tanggal per cicilan. Jumlahnya harus sama dengan
	// payment_plan_installment_count.
	DueDates []string `json:"due_dates" validate:"required,min=1,dive,required"`

	// override total plan untuk siswa ini (mis. beasiswa / diskon)
	TotalAmount *decimal.Decimal `json:"total_amount,omitempty"`
}

func (r *EnrollStudentRequest) ParseDueDates() ([]time.Time, error) {
	out := make([]time.Time, 0, len(r.DueDates))
	for _, s := range r.DueDates {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, err
		}
		out = append(out, t.UTC())
	}
	return out, nil
}

/* =========================================================
   RESPONSE
   ========================================================= */

type StudentPaymentPlanResponse struct {
	StudentPaymentPlanID       uuid.UUID `json:"student_payment_plan_id"`
	StudentPaymentPlanSchoolID uuid.UUID `json:"student_payment_plan_school_id"`

	StudentPaymentPlanSchoolStudentID uuid.UUID `json:"student_payment_plan_school_student_id"`
	StudentPaymentPlanPaymentPlanID   uuid.UUID `json:"student_payment_plan_payment_plan_id"`

	StudentPaymentPlanTotalAmount decimal.Decimal                `json:"student_payment_plan_total_amount"`
	StudentPaymentPlanStatus      model.StudentPaymentPlanStatus `json:"student_payment_plan_status"`

	// dekorasi tampilan (join, bukan kolom)
	PaymentPlanName   string `json:"payment_plan_name,omitempty"`
	SchoolStudentName string `json:"school_student_name,omitempty"`

	Installments []InstallmentResponse `json:"installments,omitempty"`

	StudentPaymentPlanCreatedAt time.Time `json:"student_payment_plan_created_at"`
	StudentPaymentPlanUpdatedAt time.Time `json:"student_payment_plan_updated_at"`
}

func FromModelStudentPaymentPlan(m *model.StudentPaymentPlan, planName string) *StudentPaymentPlanResponse {
	resp := &StudentPaymentPlanResponse{
		StudentPaymentPlanID:              m.StudentPaymentPlanID,
		StudentPaymentPlanSchoolID:        m.StudentPaymentPlanSchoolID,
		StudentPaymentPlanSchoolStudentID: m.StudentPaymentPlanSchoolStudentID,
		StudentPaymentPlanPaymentPlanID:   m.StudentPaymentPlanPaymentPlanID,
		StudentPaymentPlanTotalAmount:     m.StudentPaymentPlanTotalAmount,
		StudentPaymentPlanStatus:          m.StudentPaymentPlanStatus,
		PaymentPlanName:                   planName,
		StudentPaymentPlanCreatedAt:       m.StudentPaymentPlanCreatedAt,
		StudentPaymentPlanUpdatedAt:       m.StudentPaymentPlanUpdatedAt,
	}
	if len(m.Installments) > 0 {
		resp.Installments = make([]InstallmentResponse, 0, len(m.Installments))
		for i := range m.Installments {
			resp.Installments = append(resp.Installments, *FromModelInstallment(&m.Installments[i]))
		}
	}
	return resp
}
