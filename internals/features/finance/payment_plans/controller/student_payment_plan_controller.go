// file: internals/features/finance/payment_plans/controller/student_payment_plan_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "sekolahku_backend/internals/features/finance/payment_plans/dto"
	planModel "sekolahku_backend/internals/features/finance/payment_plans/model"
	service "sekolahku_backend/internals/features/finance/payment_plans/service"
	studentModel "sekolahku_backend/internals/features/school/students/model"
	helper "sekolahku_backend/internals/helpers"
	helperAuth "sekolahku_backend/internals/helpers/auth"
)

/* =========================================================
   BOOTSTRAP
   ========================================================= */

type StudentPaymentPlanHandler struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewStudentPaymentPlanHandler(db *gorm.DB) *StudentPaymentPlanHandler {
	return &StudentPaymentPlanHandler{
		DB:        db,
		Validator: validator.New(),
	}
}

/* =========================================================
   ENROLL (satu transaksi: enrollment + jadwal cicilan)
   POST /api/a/:school_id/payment-plans/:id/enroll
   ========================================================= */

func (h *StudentPaymentPlanHandler) Enroll(c *fiber.Ctx) error {
	schoolID, err := helperAuth.EnsurePathSchoolMatch(c)
	if err != nil {
		return err
	}

	planID, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var req dto.EnrollStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := h.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	dueDates, err := req.ParseDueDates()
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "due_dates must be RFC3339 timestamps")
	}
	if req.TotalAmount != nil && !req.TotalAmount.IsPositive() {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "total_amount must be > 0")
	}

	var (
		enrollment  planModel.StudentPaymentPlan
		planName    string
		studentName string
	)

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var plan planModel.PaymentPlan
		if err := tx.
			First(&plan, "payment_plan_id = ? AND payment_plan_school_id = ?", planID, schoolID).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errPlanNotFound
			}
			return err
		}
		planName = plan.PaymentPlanName

		var student studentModel.SchoolStudent
		if err := tx.
			First(&student, "school_student_id = ? AND school_student_school_id = ?", req.SchoolStudentID, schoolID).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errStudentNotFound
			}
			return err
		}
		if !student.SchoolStudentIsActive {
			return errStudentInactive
		}
		studentName = student.SchoolStudentName

		total := plan.PaymentPlanTotalAmount
		if req.TotalAmount != nil {
			total = *req.TotalAmount
		}

		enrollment = planModel.StudentPaymentPlan{
			StudentPaymentPlanSchoolID:        schoolID,
			StudentPaymentPlanSchoolStudentID: req.SchoolStudentID,
			StudentPaymentPlanPaymentPlanID:   planID,
			StudentPaymentPlanTotalAmount:     total,
			StudentPaymentPlanStatus:          planModel.StudentPaymentPlanStatusActive,
		}
		if err := tx.Create(&enrollment).Error; err != nil {
			if isUniqueViolation(err) {
				return errAlreadyEnrolled
			}
			return err
		}

		installments, err := service.BuildInstallments(schoolID, enrollment.StudentPaymentPlanID, total, dueDates)
		if err != nil {
			return err
		}
		if err := tx.Create(&installments).Error; err != nil {
			return err
		}
		enrollment.Installments = installments
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, errPlanNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "payment plan not found")
		case errors.Is(err, errStudentNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "student not found")
		case errors.Is(err, errStudentInactive):
			return helper.JsonError(c, fiber.StatusUnprocessableEntity, "student is not active")
		case errors.Is(err, errAlreadyEnrolled):
			return helper.JsonError(c, fiber.StatusConflict, "student already enrolled in this plan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	resp := dto.FromModelStudentPaymentPlan(&enrollment, planName)
	resp.SchoolStudentName = studentName
	return helper.JsonCreated(c, "student enrolled", resp)
}

/* =========================================================
   LIST BY STUDENT (enrollment + cicilan urut nomor)
   GET /api/a/:school_id/students/:student_id/payment-plans
   ========================================================= */

func (h *StudentPaymentPlanHandler) ListByStudent(c *fiber.Ctx) error {
	schoolID, err := helperAuth.EnsurePathSchoolMatch(c)
	if err != nil {
		return err
	}

	studentID, err := parseUUIDParam(c, "student_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid student_id")
	}

	var enrollments []planModel.StudentPaymentPlan
	if err := h.DB.
		Preload("Installments", func(db *gorm.DB) *gorm.DB {
			return db.Order("installment_number ASC")
		}).
		Where("student_payment_plan_school_id = ? AND student_payment_plan_school_student_id = ?", schoolID, studentID).
		Order("student_payment_plan_created_at DESC").
		Find(&enrollments).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	// nama plan untuk dekorasi
	names := map[uuid.UUID]string{}
	if len(enrollments) > 0 {
		ids := make([]uuid.UUID, 0, len(enrollments))
		for i := range enrollments {
			ids = append(ids, enrollments[i].StudentPaymentPlanPaymentPlanID)
		}
		type row struct {
			ID   uuid.UUID `gorm:"column:payment_plan_id"`
			Name string    `gorm:"column:payment_plan_name"`
		}
		var rows []row
		if err := h.DB.Model(&planModel.PaymentPlan{}).
			Select("payment_plan_id, payment_plan_name").
			Where("payment_plan_id IN ?", ids).
			Scan(&rows).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
		for _, r := range rows {
			names[r.ID] = r.Name
		}
	}

	out := make([]dto.StudentPaymentPlanResponse, 0, len(enrollments))
	for i := range enrollments {
		e := &enrollments[i]
		out = append(out, *dto.FromModelStudentPaymentPlan(e, names[e.StudentPaymentPlanPaymentPlanID]))
	}

	return helper.JsonOK(c, "student payment plans fetched", out)
}

/* =========================================================
   sentinel errors (dipetakan ke status HTTP di atas)
   ========================================================= */

var (
	errPlanNotFound    = errors.New("payment plan not found")
	errStudentNotFound = errors.New("student not found")
	errStudentInactive = errors.New("student is not active")
	errAlreadyEnrolled = errors.New("student already enrolled in this plan")
)
