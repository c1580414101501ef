// file: internals/features/finance/payment_plans/controller/payment_plan_controller.go
package controller

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "sekolahku_backend/internals/features/finance/payment_plans/dto"
	planModel "sekolahku_backend/internals/features/finance/payment_plans/model"
	helper "sekolahku_backend/internals/helpers"
	helperAuth "sekolahku_backend/internals/helpers/auth"
)

/* =========================================================
   BOOTSTRAP
   ========================================================= */

type PaymentPlanHandler struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewPaymentPlanHandler(db *gorm.DB) *PaymentPlanHandler {
	return &PaymentPlanHandler{
		DB:        db,
		Validator: validator.New(),
	}
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "unique constraint")
}

/* =========================================================
   LIST (terbaru dulu, dengan jumlah siswa terdaftar)
   GET /api/a/:school_id/payment-plans
   ========================================================= */

func (h *PaymentPlanHandler) List(c *fiber.Ctx) error {
	schoolID, err := helperAuth.EnsurePathSchoolMatch(c)
	if err != nil {
		return err
	}

	p := helper.ParseFiber(c, "payment_plan_created_at", "desc", helper.AdminOpts)

	var total int64
	if err := h.DB.Model(&planModel.PaymentPlan{}).
		Where("payment_plan_school_id = ?", schoolID).
		Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var plans []planModel.PaymentPlan
	if err := h.DB.
		Where("payment_plan_school_id = ?", schoolID).
		Order("payment_plan_created_at DESC").
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&plans).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	// hitung enrollment per plan dalam satu query
	counts := map[uuid.UUID]int64{}
	if len(plans) > 0 {
		ids := make([]uuid.UUID, 0, len(plans))
		for i := range plans {
			ids = append(ids, plans[i].PaymentPlanID)
		}
		type row struct {
			PlanID uuid.UUID `gorm:"column:plan_id"`
			Total  int64     `gorm:"column:total"`
		}
		var rows []row
		if err := h.DB.Model(&planModel.StudentPaymentPlan{}).
			Select("student_payment_plan_payment_plan_id AS plan_id, COUNT(*) AS total").
			Where("student_payment_plan_payment_plan_id IN ?", ids).
			Group("student_payment_plan_payment_plan_id").
			Scan(&rows).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
		for _, r := range rows {
			counts[r.PlanID] = r.Total
		}
	}

	out := make([]dto.PaymentPlanResponse, 0, len(plans))
	for i := range plans {
		out = append(out, *dto.FromModelPaymentPlan(&plans[i], counts[plans[i].PaymentPlanID]))
	}

	return helper.JsonList(c, "payment plans fetched", out, helper.BuildMeta(total, p))
}

/* =========================================================
   CREATE
   POST /api/a/:school_id/payment-plans
   ========================================================= */

func (h *PaymentPlanHandler) Create(c *fiber.Ctx) error {
	schoolID, err := helperAuth.EnsurePathSchoolMatch(c)
	if err != nil {
		return err
	}

	var req dto.CreatePaymentPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := h.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}
	if !req.PaymentPlanTotalAmount.IsPositive() {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "payment_plan_total_amount must be > 0")
	}

	m := req.ToModel(schoolID)
	if err := h.DB.Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "payment plan with the same name already exists")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonCreated(c, "payment plan created", dto.FromModelPaymentPlan(m, 0))
}

/* =========================================================
   DELETE (soft delete; ditolak jika masih ada siswa terdaftar)
   DELETE /api/a/:school_id/payment-plans/:id
   ========================================================= */

func (h *PaymentPlanHandler) Delete(c *fiber.Ctx) error {
	schoolID, err := helperAuth.EnsurePathSchoolMatch(c)
	if err != nil {
		return err
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var m planModel.PaymentPlan
		if err := tx.
			First(&m, "payment_plan_id = ? AND payment_plan_school_id = ?", id, schoolID).
			Error; err != nil {
			return err
		}

		var enrolled int64
		if err := tx.Model(&planModel.StudentPaymentPlan{}).
			Where("student_payment_plan_payment_plan_id = ?", id).
			Count(&enrolled).Error; err != nil {
			return err
		}
		if enrolled > 0 {
			return &planInUseError{count: enrolled}
		}

		return tx.Delete(&m).Error
	})
	if err != nil {
		var inUse *planInUseError
		if errors.As(err, &inUse) {
			return helper.JsonError(c, fiber.StatusConflict,
				fmt.Sprintf("cannot delete plan: %d students enrolled", inUse.count))
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "payment plan not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonDeleted(c, "payment plan deleted", fiber.Map{"payment_plan_id": id})
}

type planInUseError struct{ count int64 }

func (e *planInUseError) Error() string {
	return fmt.Sprintf("plan has %d enrollments", e.count)
}
