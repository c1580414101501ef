// file: internals/features/notifications/model/notification_log_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotificationOutcome string

const (
	NotificationOutcomeSent   NotificationOutcome = "sent"
	NotificationOutcomeFailed NotificationOutcome = "failed"
)

type NotificationLog struct {
	// PK
	NotificationLogID uuid.UUID `gorm:"column:notification_log_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"notification_log_id"`

	// Tenant
	NotificationLogSchoolID uuid.UUID `gorm:"column:notification_log_school_id;type:uuid;not null;index" json:"notification_log_school_id"`

	// Target
	NotificationLogInstallmentID uuid.UUID `gorm:"column:notification_log_installment_id;type:uuid;not null;index" json:"notification_log_installment_id"`
	NotificationLogRecipient     string    `gorm:"column:notification_log_recipient;type:varchar(30);not null" json:"notification_log_recipient"`

	NotificationLogMessage string              `gorm:"column:notification_log_message;type:text;not null" json:"notification_log_message"`
	NotificationLogOutcome NotificationOutcome `gorm:"column:notification_log_outcome;type:varchar(10);not null;index" json:"notification_log_outcome"`

	// respons mentah provider untuk audit
	NotificationLogProviderResponse datatypes.JSON `gorm:"column:notification_log_provider_response;type:jsonb" json:"notification_log_provider_response,omitempty"`

	NotificationLogCreatedAt time.Time `gorm:"column:notification_log_created_at;type:timestamptz;not null;default:now();index" json:"notification_log_created_at"`
}

func (NotificationLog) TableName() string { return "notification_logs" }

func (m *NotificationLog) BeforeCreate(tx *gorm.DB) (err error) {
	if m.NotificationLogID == uuid.Nil {
		m.NotificationLogID = uuid.New()
	}
	if m.NotificationLogCreatedAt.IsZero() {
		m.NotificationLogCreatedAt = time.Now()
	}
	return
}
