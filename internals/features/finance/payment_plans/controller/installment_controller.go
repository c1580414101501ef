// file: internals/features/finance/payment_plans/controller/installment_controller.go
package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dto "sekolahku_backend/internals/features/finance/payment_plans/dto"
	planModel "sekolahku_backend/internals/features/finance/payment_plans/model"
	service "sekolahku_backend/internals/features/finance/payment_plans/service"
	paymentService "sekolahku_backend/internals/features/finance/payments/service"
	helper "sekolahku_backend/internals/helpers"
	helperAuth "sekolahku_backend/internals/helpers/auth"
)

/* =========================================================
   BOOTSTRAP
   ========================================================= */

type InstallmentHandler struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Now       helper.NowFunc
}

func NewInstallmentHandler(db *gorm.DB) *InstallmentHandler {
	return &InstallmentHandler{
		DB:        db,
		Validator: validator.New(),
		Now:       helper.DefaultNow,
	}
}

/* =========================================================
   RECORD PAYMENT (kunci baris, terapkan transisi, cek lunas)
   POST /api/a/:school_id/installments/:id/pay
   ========================================================= */

func (h *InstallmentHandler) RecordPayment(c *fiber.Ctx) error {
	schoolID, err := helperAuth.EnsurePathSchoolMatch(c)
	if err != nil {
		return err
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var req dto.RecordPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := h.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	now := h.Now()

	var (
		updated             planModel.Installment
		enrollmentCompleted bool
	)

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var inst planModel.Installment
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&inst, "installment_id = ? AND installment_school_id = ?", id, schoolID).
			Error; err != nil {
			return err
		}

		next, err := service.ApplyPayment(inst, req.Amount, now)
		if err != nil {
			return err
		}
		if err := tx.Save(&next).Error; err != nil {
			return err
		}
		updated = next

		// jejak audit per pembayaran (metode + catatan dari request)
		audit := paymentService.NewManualPayment(
			schoolID, next.InstallmentID, req.Amount, req.Method, req.Note, now)
		if err := tx.Create(&audit).Error; err != nil {
			return err
		}

		if next.InstallmentStatus != planModel.InstallmentStatusPaid {
			return nil
		}

		// tandai enrollment completed jika semua cicilan lunas;
		// kunci diambil urut nomor supaya dua pembayaran paralel tidak deadlock
		var siblings []planModel.Installment
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("installment_student_payment_plan_id = ?", next.InstallmentStudentPaymentPlanID).
			Order("installment_number ASC").
			Find(&siblings).Error; err != nil {
			return err
		}
		if !service.IsEnrollmentCompleted(siblings, next.InstallmentID, next.InstallmentStatus) {
			return nil
		}
		enrollmentCompleted = true
		return tx.Model(&planModel.StudentPaymentPlan{}).
			Where("student_payment_plan_id = ?", next.InstallmentStudentPaymentPlanID).
			Updates(map[string]interface{}{
				"student_payment_plan_status":     planModel.StudentPaymentPlanStatusCompleted,
				"student_payment_plan_updated_at": now,
			}).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "installment not found")
		case errors.Is(err, service.ErrNonPositiveAmount),
			errors.Is(err, service.ErrExceedsRemaining),
			errors.Is(err, service.ErrInstallmentAlready):
			return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	if enrollmentCompleted {
		log.Printf("[INFO] enrollment %s completed (school=%s)", updated.InstallmentStudentPaymentPlanID, schoolID)
	}

	return helper.JsonUpdated(c, "payment recorded", fiber.Map{
		"installment":          dto.FromModelInstallment(&updated),
		"enrollment_completed": enrollmentCompleted,
	})
}

/* =========================================================
   LIST (filter: status / upcoming / overdue) + dekorasi
   GET /api/a/:school_id/installments?status=&upcoming=&overdue=
   ========================================================= */

func (h *InstallmentHandler) List(c *fiber.Ctx) error {
	schoolID, err := helperAuth.EnsurePathSchoolMatch(c)
	if err != nil {
		return err
	}

	p := helper.ParseFiber(c, "installment_due_date", "asc", helper.AdminOpts)
	now := h.Now()

	q := h.DB.Model(&planModel.Installment{}).
		Where("installment_school_id = ?", schoolID)

	if s := c.Query("status"); s != "" {
		switch planModel.InstallmentStatus(s) {
		case planModel.InstallmentStatusPending, planModel.InstallmentStatusPartial,
			planModel.InstallmentStatusPaid, planModel.InstallmentStatusOverdue:
			q = q.Where("installment_status = ?", s)
		default:
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid status filter")
		}
	}

	// predikat SQL di bawah harus sejalan dengan service.IsUpcomingAt
	if c.Query("upcoming") == "true" {
		q = q.Where(
			"installment_status IN ? AND installment_due_date >= ? AND installment_due_date <= ?",
			[]planModel.InstallmentStatus{planModel.InstallmentStatusPending, planModel.InstallmentStatusPartial},
			now, now.Add(service.UpcomingWindow),
		)
	}
	if c.Query("overdue") == "true" {
		// termasuk baris yang belum disapu sweeper; sejalan dengan service.IsOverdueAt
		q = q.Where(
			"(installment_status = ? OR (installment_status IN ? AND installment_due_date < ?))",
			planModel.InstallmentStatusOverdue,
			[]planModel.InstallmentStatus{planModel.InstallmentStatusPending, planModel.InstallmentStatusPartial},
			now,
		)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var installments []planModel.Installment
	if err := q.
		Order("installment_due_date ASC, installment_number ASC").
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&installments).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	out, err := h.decorate(installments)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonList(c, "installments fetched", out, helper.BuildMeta(total, p))
}

// decorate melengkapi baris cicilan dengan nama siswa & nama plan.
func (h *InstallmentHandler) decorate(installments []planModel.Installment) ([]dto.InstallmentResponse, error) {
	out := make([]dto.InstallmentResponse, 0, len(installments))
	if len(installments) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, 0, len(installments))
	for i := range installments {
		ids = append(ids, installments[i].InstallmentStudentPaymentPlanID)
	}

	type row struct {
		EnrollmentID uuid.UUID `gorm:"column:student_payment_plan_id"`
		StudentID    uuid.UUID `gorm:"column:school_student_id"`
		StudentName  string    `gorm:"column:school_student_name"`
		StudentNum   string    `gorm:"column:school_student_number"`
		StudentPhone *string   `gorm:"column:school_student_phone"`
		StudentClass *string   `gorm:"column:school_student_class_name"`
		PlanName     string    `gorm:"column:payment_plan_name"`
	}
	var rows []row
	if err := h.DB.Table("student_payment_plans").
		Select(`student_payment_plans.student_payment_plan_id,
			school_students.school_student_id,
			school_students.school_student_name,
			school_students.school_student_number,
			school_students.school_student_phone,
			school_students.school_student_class_name,
			payment_plans.payment_plan_name`).
		Joins("JOIN school_students ON school_students.school_student_id = student_payment_plans.student_payment_plan_school_student_id").
		Joins("JOIN payment_plans ON payment_plans.payment_plan_id = student_payment_plans.student_payment_plan_payment_plan_id").
		Where("student_payment_plans.student_payment_plan_id IN ?", ids).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	byEnrollment := make(map[uuid.UUID]row, len(rows))
	for _, r := range rows {
		byEnrollment[r.EnrollmentID] = r
	}

	for i := range installments {
		resp := dto.FromModelInstallment(&installments[i])
		if r, ok := byEnrollment[installments[i].InstallmentStudentPaymentPlanID]; ok {
			sid := r.StudentID
			resp.SchoolStudentID = &sid
			resp.SchoolStudentName = r.StudentName
			resp.SchoolStudentNumber = r.StudentNum
			resp.SchoolStudentPhone = r.StudentPhone
			resp.SchoolStudentClassName = r.StudentClass
			resp.PaymentPlanName = r.PlanName
		}
		out = append(out, *resp)
	}
	return out, nil
}

/* =========================================================
   SWEEP OVERDUE (satu UPDATE massal, idempoten)
   POST /api/a/:school_id/installments/sweep-overdue
   ========================================================= */

func (h *InstallmentHandler) SweepOverdue(c *fiber.Ctx) error {
	schoolID, err := helperAuth.EnsurePathSchoolMatch(c)
	if err != nil {
		return err
	}

	now := h.Now()

	// kondisi WHERE harus sejalan dengan service.IsOverdueAt
	res := h.DB.Model(&planModel.Installment{}).
		Where(
			"installment_school_id = ? AND installment_status IN ? AND installment_due_date < ?",
			schoolID,
			[]planModel.InstallmentStatus{planModel.InstallmentStatusPending, planModel.InstallmentStatusPartial},
			now,
		).
		Updates(map[string]interface{}{
			"installment_status":     planModel.InstallmentStatusOverdue,
			"installment_updated_at": now,
		})
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, res.Error.Error())
	}

	log.Printf("[INFO] overdue sweep school=%s marked=%d", schoolID, res.RowsAffected)

	return helper.JsonOK(c, "overdue sweep completed", fiber.Map{
		"marked_overdue": res.RowsAffected,
	})
}

/* =========================================================
   SUMMARY (agregat keuangan per sekolah)
   GET /api/a/:school_id/payment-plans/summary
   ========================================================= */

func (h *InstallmentHandler) Summary(c *fiber.Ctx) error {
	schoolID, err := helperAuth.EnsurePathSchoolMatch(c)
	if err != nil {
		return err
	}

	now := h.Now()
	var out dto.FinanceSummaryResponse

	if err := h.DB.Model(&planModel.StudentPaymentPlan{}).
		Where("student_payment_plan_school_id = ?", schoolID).
		Count(&out.TotalStudentsEnrolled).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if err := h.DB.Model(&planModel.StudentPaymentPlan{}).
		Where("student_payment_plan_school_id = ? AND student_payment_plan_status = ?",
			schoolID, planModel.StudentPaymentPlanStatusActive).
		Count(&out.ActivePlans).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	out.CompletedPlans = out.TotalStudentsEnrolled - out.ActivePlans

	type sums struct {
		Expected  decimal.Decimal `gorm:"column:expected"`
		Collected decimal.Decimal `gorm:"column:collected"`
	}
	var s sums
	if err := h.DB.Model(&planModel.Installment{}).
		Select("COALESCE(SUM(installment_amount),0) AS expected, COALESCE(SUM(installment_paid_amount),0) AS collected").
		Where("installment_school_id = ?", schoolID).
		Scan(&s).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	out.TotalExpected = s.Expected
	out.TotalCollected = s.Collected
	out.TotalOutstand = s.Expected.Sub(s.Collected)

	// overdue dihitung dari due date, bukan hanya hasil sweeper
	// (predikat sejalan dengan service.IsOverdueAt / service.IsUpcomingAt)
	if err := h.DB.Model(&planModel.Installment{}).
		Where(
			"installment_school_id = ? AND (installment_status = ? OR (installment_status IN ? AND installment_due_date < ?))",
			schoolID,
			planModel.InstallmentStatusOverdue,
			[]planModel.InstallmentStatus{planModel.InstallmentStatusPending, planModel.InstallmentStatusPartial},
			now,
		).
		Count(&out.OverdueInstallments).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if err := h.DB.Model(&planModel.Installment{}).
		Where(
			"installment_school_id = ? AND installment_status IN ? AND installment_due_date >= ? AND installment_due_date <= ?",
			schoolID,
			[]planModel.InstallmentStatus{planModel.InstallmentStatusPending, planModel.InstallmentStatusPartial},
			now, now.Add(service.UpcomingWindow),
		).
		Count(&out.UpcomingInstallments).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "finance summary fetched", out)
}
