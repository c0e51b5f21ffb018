package masteremployee

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusDeleted  Status = "deleted"
)

type MasterEmployee struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	UserID        uuid.UUID  `gorm:"column:user_id;type:uuid;not null"`
	EmployeeID    string     `gorm:"column:employee_id;type:char(6);not null"`
	Name          string     `gorm:"column:name;type:varchar(255);not null"`
	Email         string     `gorm:"column:email;type:varchar(255);not null"`
	PersonalEmail *string    `gorm:"column:personal_email;type:varchar(255)"`
	EmployeeType  *string    `gorm:"column:employee_type;type:varchar(20)"`
	Role          string     `gorm:"column:role;type:varchar(20);not null"`
	Status        Status     `gorm:"column:status;type:varchar(20);not null"`
	Department    *string    `gorm:"column:department;type:varchar(100)"`
	JoinDate      *time.Time `gorm:"column:join_date;type:date"`
	ManagerID     *uuid.UUID `gorm:"column:manager_id;type:uuid"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`

	Manager *MasterEmployee `gorm:"foreignKey:ManagerID"`
}

func (MasterEmployee) TableName() string {
	return "master_employees"
}
