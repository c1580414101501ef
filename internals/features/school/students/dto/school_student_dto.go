// file: internals/features/school/students/dto/school_student_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	model "sekolahku_backend/internals/features/school/students/model"
)

/* =========================================================
   REQUEST: Create / Update
   ========================================================= */

type CreateSchoolStudentRequest struct {
	SchoolStudentName   string  `json:"school_student_name" validate:"required,max=120"`
	SchoolStudentNumber string  `json:"school_student_number" validate:"required,max=40"`
	SchoolStudentPhone  *string `json:"school_student_phone,omitempty" validate:"omitempty,max=30"`

	SchoolStudentClassName *string `json:"school_student_class_name,omitempty" validate:"omitempty,max=60"`
	SchoolStudentIsActive  *bool   `json:"school_student_is_active,omitempty"`
}

func (r *CreateSchoolStudentRequest) ToModel(schoolID uuid.UUID) *model.SchoolStudent {
	m := &model.SchoolStudent{
		SchoolStudentSchoolID:  schoolID,
		SchoolStudentName:      strings.TrimSpace(r.SchoolStudentName),
		SchoolStudentNumber:    strings.TrimSpace(r.SchoolStudentNumber),
		SchoolStudentPhone:     r.SchoolStudentPhone,
		SchoolStudentClassName: r.SchoolStudentClassName,
		SchoolStudentIsActive:  true,
	}
	if r.SchoolStudentIsActive != nil {
		m.SchoolStudentIsActive = *r.SchoolStudentIsActive
	}
	return m
}

type UpdateSchoolStudentRequest struct {
	SchoolStudentName   *string `json:"school_student_name,omitempty" validate:"omitempty,max=120"`
	SchoolStudentNumber *string `json:"school_student_number,omitempty" validate:"omitempty,max=40"`
	SchoolStudentPhone  *string `json:"school_student_phone,omitempty" validate:"omitempty,max=30"`

	SchoolStudentClassName *string `json:"school_student_class_name,omitempty" validate:"omitempty,max=60"`
	SchoolStudentIsActive  *bool   `json:"school_student_is_active,omitempty"`
}

func (r *UpdateSchoolStudentRequest) ApplyTo(m *model.SchoolStudent) {
	if r.SchoolStudentName != nil {
		m.SchoolStudentName = strings.TrimSpace(*r.SchoolStudentName)
	}
	if r.SchoolStudentNumber != nil {
		m.SchoolStudentNumber = strings.TrimSpace(*r.SchoolStudentNumber)
	}
	if r.SchoolStudentPhone != nil {
		m.SchoolStudentPhone = r.SchoolStudentPhone
	}
	if r.SchoolStudentClassName != nil {
		m.SchoolStudentClassName = r.SchoolStudentClassName
	}
	if r.SchoolStudentIsActive != nil {
		m.SchoolStudentIsActive = *r.SchoolStudentIsActive
	}
}

/* =========================================================
   RESPONSE
   ========================================================= */

type SchoolStudentResponse struct {
	SchoolStudentID       uuid.UUID `json:"school_student_id"`
	SchoolStudentSchoolID uuid.UUID `json:"school_student_school_id"`

	SchoolStudentName   string  `json:"school_student_name"`
	SchoolStudentNumber string  `json:"school_student_number"`
	SchoolStudentPhone  *string `json:"school_student_phone,omitempty"`

	SchoolStudentClassName *string `json:"school_student_class_name,omitempty"`
	SchoolStudentIsActive  bool    `json:"school_student_is_active"`

	SchoolStudentCreatedAt time.Time `json:"school_student_created_at"`
	SchoolStudentUpdatedAt time.Time `json:"school_student_updated_at"`
}

func FromModelSchoolStudent(m *model.SchoolStudent) *SchoolStudentResponse {
	return &SchoolStudentResponse{
		SchoolStudentID:        m.SchoolStudentID,
		SchoolStudentSchoolID:  m.SchoolStudentSchoolID,
		SchoolStudentName:      m.SchoolStudentName,
		SchoolStudentNumber:    m.SchoolStudentNumber,
		SchoolStudentPhone:     m.SchoolStudentPhone,
		SchoolStudentClassName: m.SchoolStudentClassName,
		SchoolStudentIsActive:  m.SchoolStudentIsActive,
		SchoolStudentCreatedAt: m.SchoolStudentCreatedAt,
		SchoolStudentUpdatedAt: m.SchoolStudentUpdatedAt,
	}
}
