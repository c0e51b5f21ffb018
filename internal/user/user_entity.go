package user

import (
	"time"

	"github.com/Jstali/employee-onboarding-sub000/internal/lifecycle"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Name         string           `gorm:"column:name;type:varchar(255);not null"`
	Email        string           `gorm:"column:email;type:varchar(255);not null"`
	PasswordHash string           `gorm:"column:password_hash;type:text;not null"`
	Role         string           `gorm:"column:role;type:varchar(20);not null"`
	EmployeeType *string          `gorm:"column:employee_type;type:varchar(20)"`
	Status       lifecycle.Status `gorm:"column:status;type:varchar(20);not null"`
	ManagerID    *uuid.UUID       `gorm:"column:manager_id;type:uuid"`
	Department   *string          `gorm:"column:department;type:varchar(100)"`
	JoinDate     *time.Time       `gorm:"column:join_date;type:date"`
	IsFirstLogin bool             `gorm:"column:is_first_login;not null"`
	CreatedAt    time.Time        `gorm:"column:created_at"`
	UpdatedAt    time.Time        `gorm:"column:updated_at"`

	// Generated from status by the database.
	FormSubmitted bool `gorm:"column:form_submitted;->"`
	HRApproved    bool `gorm:"column:hr_approved;->"`
	Onboarded     bool `gorm:"column:onboarded;->"`

	// Only populated by queries that join the roster.
	InRoster bool `gorm:"column:in_roster;->;-:migration"`
}

func (User) TableName() string {
	return "users"
}

func (u User) State() lifecycle.State {
	return lifecycle.Derive(u.Status, u.InRoster)
}
