package onboarding

import (
	"io"
	"time"

	"github.com/Jstali/employee-onboarding-sub000/internal/lifecycle"
)

type SubmitRequest struct {
	PersonalInfo     Payload `json:"personal_info" binding:"required"`
	BankInfo         Payload `json:"bank_info" binding:"required"`
	EducationInfo    Payload `json:"education_info" binding:"required"`
	TechCertificates Payload `json:"tech_certificates"`
	WorkExperience   Payload `json:"work_experience"`
	ContractPeriod   Payload `json:"contract_period"`
	AadharNumber     string  `json:"aadhar_number" binding:"required,aadhar"`
	PANNumber        string  `json:"pan_number" binding:"required,pan"`
	PassportNumber   *string `json:"passport_number" binding:"omitempty,max=20"`
	JoinDate         *string `json:"join_date" binding:"omitempty,date_only"`
}

type UpdateFormRequest struct {
	PersonalInfo     Payload `json:"personal_info"`
	BankInfo         Payload `json:"bank_info"`
	EducationInfo    Payload `json:"education_info"`
	TechCertificates Payload `json:"tech_certificates"`
	WorkExperience   Payload `json:"work_experience"`
	ContractPeriod   Payload `json:"contract_period"`
	AadharNumber     *string `json:"aadhar_number" binding:"omitempty,aadhar"`
	PANNumber        *string `json:"pan_number" binding:"omitempty,pan"`
	PassportNumber   *string `json:"passport_number" binding:"omitempty,max=20"`
	JoinDate         *string `json:"join_date" binding:"omitempty,date_only"`
}

type RejectRequest struct {
	Reason string `json:"reason" binding:"max=1000"`
}

type ListFilter struct {
	ReviewStatus string `form:"review_status" binding:"omitempty,oneof=pending approved rejected"`
	Page         int    `form:"-"`
	PageSize     int    `form:"-"`
}

// FileUpload is one document in a submission. Content is read once.
type FileUpload struct {
	DocumentType DocumentType
	Filename     string
	Size         int64
	ContentType  string
	Content      io.Reader
}

type DocumentResponse struct {
	ID               string `json:"id"`
	DocumentType     string `json:"document_type"`
	OriginalFilename string `json:"original_filename"`
	SizeBytes        int64  `json:"size_bytes"`
	MimeType         string `json:"mime_type"`
	IsRequired       bool   `json:"is_required"`
	UploadedAt       string `json:"uploaded_at"`
}

type FormResponse struct {
	ID               string             `json:"id"`
	UserID           string             `json:"user_id"`
	ReviewStatus     string             `json:"review_status"`
	State            lifecycle.State    `json:"state"`
	PersonalInfo     Payload            `json:"personal_info"`
	BankInfo         Payload            `json:"bank_info"`
	EducationInfo    Payload            `json:"education_info"`
	TechCertificates Payload            `json:"tech_certificates"`
	WorkExperience   Payload            `json:"work_experience"`
	ContractPeriod   Payload            `json:"contract_period"`
	AadharNumber     string             `json:"aadhar_number"`
	PANNumber        string             `json:"pan_number"`
	PassportNumber   *string            `json:"passport_number"`
	PhotoURL         *string            `json:"photo_url"`
	JoinDate         *string            `json:"join_date"`
	Documents        []DocumentResponse `json:"documents"`
	SubmittedAt      string             `json:"submitted_at"`
	UpdatedAt        string             `json:"updated_at"`
}

type FormSummary struct {
	UserID       string  `json:"user_id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	EmployeeType *string `json:"employee_type"`
	ReviewStatus string  `json:"review_status"`
	SubmittedAt  string  `json:"submitted_at"`
	UpdatedAt    string  `json:"updated_at"`
}

type ReviewResponse struct {
	UserID       string          `json:"user_id"`
	Status       string          `json:"status"`
	ReviewStatus string          `json:"review_status"`
	State        lifecycle.State `json:"state"`
	lifecycle.Flags
}

// DocumentDownload streams a stored document. The caller closes Body.
type DocumentDownload struct {
	Filename string
	MimeType string
	Size     int64
	Body     io.ReadCloser
}

func mapDocument(d Document) DocumentResponse {
	return DocumentResponse{
		ID:               d.ID.String(),
		DocumentType:     string(d.DocumentType),
		OriginalFilename: d.OriginalFilename,
		SizeBytes:        d.SizeBytes,
		MimeType:         d.MimeType,
		IsRequired:       d.IsRequired,
		UploadedAt:       d.UploadedAt.Format(time.RFC3339),
	}
}

func mapDocuments(docs []Document) []DocumentResponse {
	res := make([]DocumentResponse, len(docs))
	for i, d := range docs {
		res[i] = mapDocument(d)
	}
	return res
}

func mapToResponse(f Form, status lifecycle.Status, inRoster bool, docs []Document) FormResponse {
	resp := FormResponse{
		ID:               f.ID.String(),
		UserID:           f.UserID.String(),
		ReviewStatus:     lifecycle.ReviewStatus(status),
		State:            lifecycle.Derive(status, inRoster),
		PersonalInfo:     f.PersonalInfo,
		BankInfo:         f.BankInfo,
		EducationInfo:    f.EducationInfo,
		TechCertificates: f.TechCertificates,
		WorkExperience:   f.WorkExperience,
		ContractPeriod:   f.ContractPeriod,
		AadharNumber:     f.AadharNumber,
		PANNumber:        f.PANNumber,
		PassportNumber:   f.PassportNumber,
		PhotoURL:         f.PhotoURL,
		Documents:        mapDocuments(docs),
		SubmittedAt:      f.SubmittedAt.Format(time.RFC3339),
		UpdatedAt:        f.UpdatedAt.Format(time.RFC3339),
	}
	if f.JoinDate != nil {
		d := f.JoinDate.Format(time.DateOnly)
		resp.JoinDate = &d
	}
	return resp
}

func mapToSummaries(rows []FormRow) []FormSummary {
	res := make([]FormSummary, len(rows))
	for i, r := range rows {
		res[i] = FormSummary{
			UserID:       r.UserID.String(),
			Name:         r.Name,
			Email:        r.Email,
			EmployeeType: r.EmployeeType,
			ReviewStatus: lifecycle.ReviewStatus(lifecycle.Status(r.UserStatus)),
			SubmittedAt:  r.SubmittedAt.Format(time.RFC3339),
			UpdatedAt:    r.UpdatedAt.Format(time.RFC3339),
		}
	}
	return res
}
