package onboarding

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Payload is a free-form JSON section stored verbatim in a json column.
type Payload json.RawMessage

func (p Payload) Value() (driver.Value, error) {
	if len(p) == 0 {
		return nil, nil
	}
	return string(p), nil
}

func (p *Payload) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*p = nil
	case []byte:
		*p = append((*p)[:0], v...)
	case string:
		*p = Payload(v)
	default:
		return fmt.Errorf("onboarding: cannot scan %T into Payload", src)
	}
	return nil
}

func (p Payload) MarshalJSON() ([]byte, error) {
	if len(p) == 0 {
		return []byte("null"), nil
	}
	return p, nil
}

func (p *Payload) UnmarshalJSON(b []byte) error {
	*p = append((*p)[:0], b...)
	return nil
}

// IsObject reports whether p holds a JSON object with at least one key.
func (p Payload) IsObject() bool {
	trimmed := bytes.TrimSpace(p)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &m); err != nil {
		return false
	}
	return len(m) > 0
}

// Valid reports whether p is empty or well-formed JSON.
func (p Payload) Valid() bool {
	return len(p) == 0 || json.Valid(p)
}

type Form struct {
	ID               uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	UserID           uuid.UUID  `gorm:"column:user_id;type:uuid;not null"`
	PersonalInfo     Payload    `gorm:"column:personal_info;type:json"`
	BankInfo         Payload    `gorm:"column:bank_info;type:json"`
	EducationInfo    Payload    `gorm:"column:education_info;type:json"`
	TechCertificates Payload    `gorm:"column:tech_certificates;type:json"`
	WorkExperience   Payload    `gorm:"column:work_experience;type:json"`
	ContractPeriod   Payload    `gorm:"column:contract_period;type:json"`
	AadharNumber     string     `gorm:"column:aadhar_number;type:char(12);not null"`
	PANNumber        string     `gorm:"column:pan_number;type:char(10);not null"`
	PassportNumber   *string    `gorm:"column:passport_number;type:varchar(20)"`
	PhotoURL         *string    `gorm:"column:photo_url;type:text"`
	JoinDate         *time.Time `gorm:"column:join_date;type:date"`
	SubmittedAt      time.Time  `gorm:"column:submitted_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at"`
}

func (Form) TableName() string {
	return "onboarding_forms"
}

// FormRow is a form joined with its owner for HR listings.
type FormRow struct {
	Form
	Name         string  `gorm:"column:name"`
	Email        string  `gorm:"column:email"`
	EmployeeType *string `gorm:"column:employee_type"`
	UserStatus   string  `gorm:"column:user_status"`
}

type DocumentType string

const (
	DocAadhar            DocumentType = "aadhar"
	DocPAN               DocumentType = "pan"
	DocTenthMarksheet    DocumentType = "tenth_marksheet"
	DocTwelfthMarksheet  DocumentType = "twelfth_marksheet"
	DocDegreeCertificate DocumentType = "degree_certificate"
	DocProfilePhoto      DocumentType = "profile_photo"
)

var DocumentTypes = []DocumentType{
	DocAadhar,
	DocPAN,
	DocTenthMarksheet,
	DocTwelfthMarksheet,
	DocDegreeCertificate,
	DocProfilePhoto,
}

var RequiredDocuments = []DocumentType{
	DocAadhar,
	DocPAN,
	DocTenthMarksheet,
	DocTwelfthMarksheet,
	DocProfilePhoto,
}

func (t DocumentType) Valid() bool {
	for _, v := range DocumentTypes {
		if v == t {
			return true
		}
	}
	return false
}

func (t DocumentType) Required() bool {
	for _, v := range RequiredDocuments {
		if v == t {
			return true
		}
	}
	return false
}

var allowedMIMETypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
}

type Document struct {
	ID               uuid.UUID    `gorm:"column:id;type:uuid;primaryKey"`
	UserID           uuid.UUID    `gorm:"column:user_id;type:uuid;not null"`
	DocumentType     DocumentType `gorm:"column:document_type;type:varchar(30);not null"`
	OriginalFilename string       `gorm:"column:original_filename;type:varchar(255);not null"`
	StoragePath      string       `gorm:"column:storage_path;type:text;not null"`
	SizeBytes        int64        `gorm:"column:size_bytes;not null"`
	MimeType         string       `gorm:"column:mime_type;type:varchar(100);not null"`
	IsRequired       bool         `gorm:"column:is_required;not null"`
	UploadedAt       time.Time    `gorm:"column:uploaded_at"`
}

func (Document) TableName() string {
	return "documents"
}
