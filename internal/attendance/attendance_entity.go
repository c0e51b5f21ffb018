package attendance

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusWFH     Status = "wfh"
	StatusLeave   Status = "leave"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusWFH, StatusLeave:
		return true
	}
	return false
}

type Record struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Date      time.Time `gorm:"column:date;type:date;not null"`
	Status    Status    `gorm:"column:status;type:varchar(16);not null"`
	Reason    *string   `gorm:"column:reason;type:text"`
	MarkedAt  time.Time `gorm:"column:marked_at;type:timestamptz;not null"`
	MarkedBy  uuid.UUID `gorm:"column:marked_by;type:uuid;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz;not null"`
}

func (Record) TableName() string {
	return "attendance_records"
}

// RecordRow is a record joined with the owner's directory details for HR
// listings and exports. EmployeeID is the roster id, empty when the user
// is not in the master roster.
type RecordRow struct {
	Record
	Name       string  `gorm:"column:name"`
	Email      string  `gorm:"column:email"`
	Department *string `gorm:"column:department"`
	EmployeeID *string `gorm:"column:employee_id"`
}
