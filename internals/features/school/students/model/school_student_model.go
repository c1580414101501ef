// file: internals/features/school/students/model/school_student_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SchoolStudent struct {
	// PK
	SchoolStudentID uuid.UUID `gorm:"column:school_student_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"school_student_id"`

	// Tenant
	SchoolStudentSchoolID uuid.UUID `gorm:"column:school_student_school_id;type:uuid;not null;index;uniqueIndex:uniq_student_school_number,priority:1" json:"school_student_school_id"`

	// Identitas
	SchoolStudentName   string  `gorm:"column:school_student_name;type:varchar(120);not null" json:"school_student_name"`
	SchoolStudentNumber string  `gorm:"column:school_student_number;type:varchar(40);not null;uniqueIndex:uniq_student_school_number,priority:2" json:"school_student_number"`
	SchoolStudentPhone  *string `gorm:"column:school_student_phone;type:varchar(30)" json:"school_student_phone,omitempty"`

	// Kelas (free text, bukan FK)
	SchoolStudentClassName *string `gorm:"column:school_student_class_name;type:varchar(60)" json:"school_student_class_name,omitempty"`

	SchoolStudentIsActive bool `gorm:"column:school_student_is_active;not null;default:true" json:"school_student_is_active"`

	// Audit
	SchoolStudentCreatedAt time.Time      `gorm:"column:school_student_created_at;type:timestamptz;not null;default:now();index" json:"school_student_created_at"`
	SchoolStudentUpdatedAt time.Time      `gorm:"column:school_student_updated_at;type:timestamptz;not null;default:now()" json:"school_student_updated_at"`
	SchoolStudentDeletedAt gorm.DeletedAt `gorm:"column:school_student_deleted_at;type:timestamptz;index" json:"-"`
}

func (SchoolStudent) TableName() string { return "school_students" }

func (m *SchoolStudent) BeforeCreate(tx *gorm.DB) (err error) {
	if m.SchoolStudentID == uuid.Nil {
		m.SchoolStudentID = uuid.New()
	}
	now := time.Now()
	if m.SchoolStudentCreatedAt.IsZero() {
		m.SchoolStudentCreatedAt = now
	}
	m.SchoolStudentUpdatedAt = now
	return
}

func (m *SchoolStudent) BeforeUpdate(tx *gorm.DB) (err error) {
	m.SchoolStudentUpdatedAt = time.Now()
	return
}
