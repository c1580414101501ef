// file: internals/features/school/students/controller/school_student_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "sekolahku_backend/internals/features/school/students/dto"
	model "sekolahku_backend/internals/features/school/students/model"
	helper "sekolahku_backend/internals/helpers"
	helperAuth "sekolahku_backend/internals/helpers/auth"
)

/* =========================================================
   BOOTSTRAP
   ========================================================= */

type SchoolStudentHandler struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewSchoolStudentHandler(db *gorm.DB) *SchoolStudentHandler {
	return &SchoolStudentHandler{
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
   LIST (search nama/nomor, filter kelas & status aktif)
   GET /api/a/:school_id/students
   ========================================================= */

func (h *SchoolStudentHandler) List(c *fiber.Ctx) error {
	schoolID, err := helperAuth.EnsurePathSchoolMatch(c)
	if err != nil {
		return err
	}

	p := helper.ParseFiber(c, "school_student_name", "asc", helper.AdminOpts)

	q := h.DB.Model(&model.SchoolStudent{}).
		Where("school_student_school_id = ?", schoolID)

	if search := strings.TrimSpace(c.Query("q")); search != "" {
		like := "%" + search + "%"
		q = q.Where("(school_student_name ILIKE ? OR school_student_number ILIKE ?)", like, like)
	}
	if class := strings.TrimSpace(c.Query("class_name")); class != "" {
		q = q.Where("school_student_class_name = ?", class)
	}
	if active := c.Query("is_active"); active != "" {
		q = q.Where("school_student_is_active = ?", active == "true")
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var students []model.SchoolStudent
	if err := q.
		Order("school_student_name ASC").
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&students).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]dto.SchoolStudentResponse, 0, len(students))
	for i := range students {
		out = append(out, *dto.FromModelSchoolStudent(&students[i]))
	}

	return helper.JsonList(c, "students fetched", out, helper.BuildMeta(total, p))
}

/* =========================================================
   GET BY ID
   GET /api/a/:school_id/students/:id
   ========================================================= */

func (h *SchoolStudentHandler) GetByID(c *fiber.Ctx) error {
	schoolID, err := helperAuth.EnsurePathSchoolMatch(c)
	if err != nil {
		return err
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var m model.SchoolStudent
	if err := h.DB.
		First(&m, "school_student_id = ? AND school_student_school_id = ?", id, schoolID).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "student not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "student fetched", dto.FromModelSchoolStudent(&m))
}

/* =========================================================
   CREATE
   POST /api/a/:school_id/students
   ========================================================= */

func (h *SchoolStudentHandler) Create(c *fiber.Ctx) error {
	schoolID, err := helperAuth.EnsurePathSchoolMatch(c)
	if err != nil {
		return err
	}

	var req dto.CreateSchoolStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := h.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	m := req.ToModel(schoolID)
	if err := h.DB.Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "student number already registered")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonCreated(c, "student created", dto.FromModelSchoolStudent(m))
}

/* =========================================================
   UPDATE (partial)
   PATCH /api/a/:school_id/students/:id
   ========================================================= */

func (h *SchoolStudentHandler) Update(c *fiber.Ctx) error {
	schoolID, err := helperAuth.EnsurePathSchoolMatch(c)
	if err != nil {
		return err
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var req dto.UpdateSchoolStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json")
	}
	if err := h.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var m model.SchoolStudent
	if err := h.DB.
		First(&m, "school_student_id = ? AND school_student_school_id = ?", id, schoolID).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "student not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	req.ApplyTo(&m)
	if err := h.DB.Save(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "student number already registered")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonUpdated(c, "student updated", dto.FromModelSchoolStudent(&m))
}

/* =========================================================
   DELETE (soft delete)
   DELETE /api/a/:school_id/students/:id
   ========================================================= */

func (h *SchoolStudentHandler) Delete(c *fiber.Ctx) error {
	schoolID, err := helperAuth.EnsurePathSchoolMatch(c)
	if err != nil {
		return err
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	res := h.DB.
		Where("school_student_id = ? AND school_student_school_id = ?", id, schoolID).
		Delete(&model.SchoolStudent{})
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "student not found")
	}

	return helper.JsonDeleted(c, "student deleted", fiber.Map{"school_student_id": id})
}
