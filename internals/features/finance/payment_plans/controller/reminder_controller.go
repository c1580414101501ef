// file: internals/features/finance/payment_plans/controller/reminder_controller.go
package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	dto "sekolahku_backend/internals/features/finance/payment_plans/dto"
	planModel "sekolahku_backend/internals/features/finance/payment_plans/model"
	notifModel "sekolahku_backend/internals/features/notifications/model"
	notifService "sekolahku_backend/internals/features/notifications/service"
	studentModel "sekolahku_backend/internals/features/school/students/model"
	helper "sekolahku_backend/internals/helpers"
	helperAuth "sekolahku_backend/internals/helpers/auth"
)

/* =========================================================
   BOOTSTRAP
   ========================================================= */

type ReminderHandler struct {
	DB     *gorm.DB
	Sender *notifService.WhatsAppSender
	Now    helper.NowFunc
}

func NewReminderHandler(db *gorm.DB, sender *notifService.WhatsAppSender) *ReminderHandler {
	return &ReminderHandler{
		DB:     db,
		Sender: sender,
		Now:    helper.DefaultNow,
	}
}

/* =========================================================
   SEND REMINDER (WA ke wali; flag tetap diset walau gagal kirim)
   POST /api/a/:school_id/installments/:id/remind
   ========================================================= */

func (h *ReminderHandler) SendReminder(c *fiber.Ctx) error {
	schoolID, err := helperAuth.EnsurePathSchoolMatch(c)
	if err != nil {
		return err
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	// urutan cek: cicilan dulu (404) sebelum masalah konfigurasi (400)
	var inst planModel.Installment
	if err := h.DB.
		First(&inst, "installment_id = ? AND installment_school_id = ?", id, schoolID).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "installment not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if inst.InstallmentStatus == planModel.InstallmentStatusPaid {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "installment is already paid")
	}
	if !h.Sender.Configured() {
		return helper.JsonError(c, fiber.StatusBadRequest, notifService.ErrNotConfigured.Error())
	}

	// ambil siswa + plan lewat enrollment
	var enrollment planModel.StudentPaymentPlan
	if err := h.DB.
		First(&enrollment, "student_payment_plan_id = ?", inst.InstallmentStudentPaymentPlanID).
		Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	var student studentModel.SchoolStudent
	if err := h.DB.
		First(&student, "school_student_id = ?", enrollment.StudentPaymentPlanSchoolStudentID).
		Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if student.SchoolStudentPhone == nil || *student.SchoolStudentPhone == "" {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "student has no phone number on file")
	}
	var plan planModel.PaymentPlan
	if err := h.DB.Unscoped().
		First(&plan, "payment_plan_id = ?", enrollment.StudentPaymentPlanPaymentPlanID).
		Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	now := h.Now()
	remaining := inst.InstallmentAmount.Sub(inst.InstallmentPaidAmount)
	message := notifService.ReminderMessage(
		student.SchoolStudentName, plan.PaymentPlanName,
		inst.InstallmentNumber, remaining.StringFixed(2), inst.InstallmentDueDate,
	)

	result, err := h.Sender.Send(c.Context(), *student.SchoolStudentPhone, message)
	if err != nil {
		if errors.Is(err, notifService.ErrNotConfigured) {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	outcome := notifModel.NotificationOutcomeSent
	if !result.Sent {
		outcome = notifModel.NotificationOutcomeFailed
		log.Printf("[ERROR] reminder delivery failed installment=%s school=%s", inst.InstallmentID, schoolID)
	}

	logRow := notifModel.NotificationLog{
		NotificationLogSchoolID:         schoolID,
		NotificationLogInstallmentID:    inst.InstallmentID,
		NotificationLogRecipient:        *student.SchoolStudentPhone,
		NotificationLogMessage:          message,
		NotificationLogOutcome:          outcome,
		NotificationLogProviderResponse: datatypes.JSON(result.Response),
	}
	if err := h.DB.Create(&logRow).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	// flag tetap dicatat meski provider gagal, supaya tidak spam ulang
	if err := h.DB.Model(&planModel.Installment{}).
		Where("installment_id = ?", inst.InstallmentID).
		Updates(map[string]interface{}{
			"installment_reminder_sent":    true,
			"installment_reminder_sent_at": now,
			"installment_updated_at":       now,
		}).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	inst.InstallmentReminderSent = true
	inst.InstallmentReminderSentAt = &now

	return helper.JsonOK(c, "reminder processed", fiber.Map{
		"installment": dto.FromModelInstallment(&inst),
		"outcome":     outcome,
	})
}
