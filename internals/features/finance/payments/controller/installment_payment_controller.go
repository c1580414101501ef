// file: internals/features/finance/payments/controller/installment_payment_controller.go
package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	planModel "sekolahku_backend/internals/features/finance/payment_plans/model"
	planService "sekolahku_backend/internals/features/finance/payment_plans/service"
	dto "sekolahku_backend/internals/features/finance/payments/dto"
	model "sekolahku_backend/internals/features/finance/payments/model"
	service "sekolahku_backend/internals/features/finance/payments/service"
	helper "sekolahku_backend/internals/helpers"
	helperAuth "sekolahku_backend/internals/helpers/auth"
)

/* =========================================================
   BOOTSTRAP
   ========================================================= */

type InstallmentPaymentHandler struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Now       helper.NowFunc
}

func NewInstallmentPaymentHandler(db *gorm.DB) *InstallmentPaymentHandler {
	return &InstallmentPaymentHandler{
		DB:        db,
		Validator: validator.New(),
		Now:       helper.DefaultNow,
	}
}

/* =========================================================
   CHECKOUT (buat Snap token untuk bayar cicilan online)
   POST /api/u/installments/:id/checkout
   ========================================================= */

func (h *InstallmentPaymentHandler) Checkout(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolIDFromToken(c)
	if err != nil {
		return err
	}

	installmentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var req dto.CheckoutInstallmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := h.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}
	if !req.Amount.IsPositive() {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "amount must be > 0")
	}

	var inst planModel.Installment
	if err := h.DB.
		First(&inst, "installment_id = ? AND installment_school_id = ?", installmentID, schoolID).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "installment not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if inst.InstallmentStatus == planModel.InstallmentStatusPaid {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "installment is already paid")
	}
	remaining := inst.InstallmentAmount.Sub(inst.InstallmentPaidAmount)
	if req.Amount.GreaterThan(remaining) {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "payment exceeds remaining balance")
	}

	now := h.Now()
	orderID := "INST-" + uuid.NewString()
	payment := model.InstallmentPayment{
		InstallmentPaymentSchoolID:      schoolID,
		InstallmentPaymentInstallmentID: inst.InstallmentID,
		InstallmentPaymentAmount:        req.Amount,
		InstallmentPaymentStatus:        model.InstallmentPaymentStatusInitiated,
		InstallmentPaymentMethod:        model.InstallmentPaymentMethodGateway,
		InstallmentPaymentExternalID:    &orderID,
		InstallmentPaymentRequestedAt:   &now,
	}
	if err := h.DB.Create(&payment).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	token, redirectURL, err := service.GenerateSnapToken(payment,
		"Cicilan SPP", service.CustomerInput{
			Name:  req.CustomerName,
			Email: req.CustomerEmail,
			Phone: req.CustomerPhone,
		})
	if err != nil {
		// gagal di PSP: tandai failed supaya tidak menggantung
		_ = h.DB.Model(&payment).
			Update("installment_payment_status", model.InstallmentPaymentStatusFailed).Error
		return helper.JsonError(c, fiber.StatusBadGateway, "payment gateway error: "+err.Error())
	}

	payment.InstallmentPaymentSnapToken = &token
	payment.InstallmentPaymentCheckoutURL = &redirectURL
	payment.InstallmentPaymentStatus = model.InstallmentPaymentStatusPending
	if err := h.DB.Save(&payment).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonCreated(c, "checkout created", dto.FromModelInstallmentPayment(&payment))
}

/* =========================================================
   MIDTRANS CALLBACK (idempoten; settle → transisi cicilan)
   POST /api/w/payments/midtrans/callback
   Server-to-server, tanpa JWT; autentikasi via signature_key.
   ========================================================= */

func (h *InstallmentPaymentHandler) MidtransCallback(c *fiber.Ctx) error {
	var notif dto.MidtransNotificationRequest
	if err := c.BodyParser(&notif); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := h.Validator.Struct(&notif); err != nil {
		return helper.JsonValidationError(c, err)
	}
	if !service.VerifySignature(notif.OrderID, notif.StatusCode, notif.GrossAmount, notif.SignatureKey) {
		return helper.JsonError(c, fiber.StatusUnauthorized, "invalid signature")
	}

	now := h.Now()
	rawPayload := datatypes.JSON(c.Body())

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var payment model.InstallmentPayment
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&payment, "installment_payment_external_id = ?", notif.OrderID).
			Error; err != nil {
			return err
		}

		// callback bisa datang berulang; yang sudah final diabaikan
		if payment.InstallmentPaymentStatus == model.InstallmentPaymentStatusPaid {
			return nil
		}

		if status, done := notif.Terminal(); done {
			payment.InstallmentPaymentStatus = status
			payment.InstallmentPaymentProviderPayload = rawPayload
			return tx.Save(&payment).Error
		}
		if !notif.Settled() {
			// pending / challenge: simpan payload saja
			payment.InstallmentPaymentProviderPayload = rawPayload
			return tx.Save(&payment).Error
		}

		var inst planModel.Installment
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&inst, "installment_id = ?", payment.InstallmentPaymentInstallmentID).
			Error; err != nil {
			return err
		}

		next, err := planService.ApplyPayment(inst, payment.InstallmentPaymentAmount, now)
		if err != nil {
			return err
		}
		if err := tx.Save(&next).Error; err != nil {
			return err
		}

		if next.InstallmentStatus == planModel.InstallmentStatusPaid {
			// kunci diambil urut nomor supaya dua pembayaran paralel tidak deadlock
			var siblings []planModel.Installment
			if err := tx.
				Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("installment_student_payment_plan_id = ?", next.InstallmentStudentPaymentPlanID).
				Order("installment_number ASC").
				Find(&siblings).Error; err != nil {
				return err
			}
			if planService.IsEnrollmentCompleted(siblings, next.InstallmentID, next.InstallmentStatus) {
				if err := tx.Model(&planModel.StudentPaymentPlan{}).
					Where("student_payment_plan_id = ?", next.InstallmentStudentPaymentPlanID).
					Updates(map[string]interface{}{
						"student_payment_plan_status":     planModel.StudentPaymentPlanStatusCompleted,
						"student_payment_plan_updated_at": now,
					}).Error; err != nil {
					return err
				}
			}
		}

		payment.InstallmentPaymentStatus = model.InstallmentPaymentStatusPaid
		payment.InstallmentPaymentPaidAt = &now
		payment.InstallmentPaymentProviderPayload = rawPayload
		return tx.Save(&payment).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "payment not found")
		}
		log.Printf("[ERROR] midtrans callback order_id=%s: %v", notif.OrderID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "callback processed", fiber.Map{"order_id": notif.OrderID})
}

/* =========================================================
   LIST (riwayat pembayaran per cicilan)
   GET /api/a/:school_id/installments/:id/payments
   ========================================================= */

func (h *InstallmentPaymentHandler) ListByInstallment(c *fiber.Ctx) error {
	schoolID, err := helperAuth.EnsurePathSchoolMatch(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var payments []model.InstallmentPayment
	if err := h.DB.
		Where("installment_payment_school_id = ? AND installment_payment_installment_id = ?", schoolID, id).
		Order("installment_payment_created_at DESC").
		Find(&payments).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]dto.InstallmentPaymentResponse, 0, len(payments))
	for i := range payments {
		out = append(out, *dto.FromModelInstallmentPayment(&payments[i]))
	}

	return helper.JsonOK(c, "installment payments fetched", out)
}
