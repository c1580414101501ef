// file: internals/features/finance/payment_plans/dto/payment_plan_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	model "sekolahku_backend/internals/features/finance/payment_plans/model"
)

/* =========================================================
   REQUEST: Create
   ========================================================= */

type CreatePaymentPlanRequest struct {
	PaymentPlanName             string          `json:"payment_plan_name" validate:"required,max=120"`
	PaymentPlanTotalAmount      decimal.Decimal `json:"payment_plan_total_amount" validate:"required"`
	PaymentPlanInstallmentCount int             `json:"payment_plan_installment_count" validate:"required,min=1"`

	PaymentPlanTermID *uuid.UUID `json:"payment_plan_term_id,omitempty"`
}

func (r *CreatePaymentPlanRequest) ToModel(schoolID uuid.UUID) *model.PaymentPlan {
	return &model.PaymentPlan{
		PaymentPlanSchoolID:         schoolID,
		PaymentPlanName:             r.PaymentPlanName,
		PaymentPlanTotalAmount:      r.PaymentPlanTotalAmount,
		PaymentPlanInstallmentCount: r.PaymentPlanInstallmentCount,
		PaymentPlanTermID:           r.PaymentPlanTermID,
	}
}

/* =========================================================
   RESPONSE
   ========================================================= */

type PaymentPlanResponse struct {
	PaymentPlanID       uuid.UUID `json:"payment_plan_id"`
	PaymentPlanSchoolID uuid.UUID `json:"payment_plan_school_id"`

	PaymentPlanName             string          `json:"payment_plan_name"`
	PaymentPlanTotalAmount      decimal.Decimal `json:"payment_plan_total_amount"`
	PaymentPlanInstallmentCount int             `json:"payment_plan_installment_count"`

	PaymentPlanTermID *uuid.UUID `json:"payment_plan_term_id,omitempty"`

	// jumlah siswa yang terdaftar di plan ini (agregat, bukan kolom)
	PaymentPlanEnrollmentCount int64 `json:"payment_plan_enrollment_count"`

	PaymentPlanCreatedAt time.Time `json:"payment_plan_created_at"`
	PaymentPlanUpdatedAt time.Time `json:"payment_plan_updated_at"`
}

func FromModelPaymentPlan(m *model.PaymentPlan, enrollmentCount int64) *PaymentPlanResponse {
	return &PaymentPlanResponse{
		PaymentPlanID:               m.PaymentPlanID,
		PaymentPlanSchoolID:         m.PaymentPlanSchoolID,
		PaymentPlanName:             m.PaymentPlanName,
		PaymentPlanTotalAmount:      m.PaymentPlanTotalAmount,
		PaymentPlanInstallmentCount: m.PaymentPlanInstallmentCount,
		PaymentPlanTermID:           m.PaymentPlanTermID,
		PaymentPlanEnrollmentCount:  enrollmentCount,
		PaymentPlanCreatedAt:        m.PaymentPlanCreatedAt,
		PaymentPlanUpdatedAt:        m.PaymentPlanUpdatedAt,
	}
}
