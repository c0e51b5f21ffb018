package audit

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionLogin              = "auth.login"
	ActionLogout             = "auth.logout"
	ActionUserCreated        = "user.created"
	ActionUserUpdated        = "user.updated"
	ActionUserDeleted        = "user.deleted"
	ActionUserHardDeleted    = "user.hard_deleted"
	ActionPasswordChanged    = "user.password_changed"
	ActionPasswordReset      = "user.password_reset"
	ActionFormSubmitted      = "onboarding.form_submitted"
	ActionFormUpdated        = "onboarding.form_updated"
	ActionFormDeleted        = "onboarding.form_deleted"
	ActionOnboardingApproved = "onboarding.approved"
	ActionOnboardingRejected = "onboarding.rejected"
	ActionMasterAdded        = "master.added"
	ActionMasterUpdated      = "master.updated"
	ActionManagerAssigned    = "master.manager_assigned"
	ActionMasterDeleted      = "master.deleted"
	ActionAttendanceMarked   = "attendance.marked"
	ActionAttendanceUpdated  = "attendance.updated"
	ActionAttendanceDeleted  = "attendance.deleted"
	ActionAttendanceExported = "attendance.exported"
)

type AuditLog struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ActorID   *uuid.UUID `gorm:"type:uuid"`
	Action    string     `gorm:"not null"`
	TargetID  *string
	Details   []byte `gorm:"type:jsonb"`
	IPAddress string
	UserAgent string
	RequestID string
	CreatedAt time.Time
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
