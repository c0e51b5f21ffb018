package attendance

import (
	"time"
)

type MarkRequest struct {
	Date   *string `json:"date" binding:"omitempty,date_only"`
	Status Status  `json:"status" binding:"required,oneof=present wfh leave"`
	Reason *string `json:"reason" binding:"omitempty,max=500"`
}

// MarkForRequest is the HR correction payload.
type MarkForRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	MarkRequest
}

type UpdateRequest struct {
	Status Status  `json:"status" binding:"required,oneof=present wfh leave"`
	Reason *string `json:"reason" binding:"omitempty,max=500"`
	Date   *string `json:"date" binding:"omitempty,date_only"`
}

type RangeQuery struct {
	Start string `form:"start" binding:"omitempty,date_only"`
	End   string `form:"end" binding:"omitempty,date_only"`
}

type CalendarQuery struct {
	Year  int `form:"year" binding:"omitempty,min=2000,max=2100"`
	Month int `form:"month" binding:"omitempty,min=1,max=12"`
}

// Filter is shared by the HR listing and the export.
type Filter struct {
	StartDate  string `form:"start_date" binding:"omitempty,date_only"`
	EndDate    string `form:"end_date" binding:"omitempty,date_only"`
	UserID     string `form:"user_id" binding:"omitempty,uuid"`
	Department string `form:"department" binding:"omitempty,max=100"`
	Status     string `form:"status" binding:"omitempty,oneof=present wfh leave"`
	// MinLeaves keeps only users with more than this many leave records
	// in the range.
	MinLeaves *int `form:"min_leaves" binding:"omitempty,min=0"`
	Page      int  `form:"-"`
	PageSize  int  `form:"-"`
}

const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

type RecordResponse struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	Date         string  `json:"date"`
	Status       Status  `json:"status"`
	Reason       *string `json:"reason,omitempty"`
	MarkedAt     string  `json:"marked_at"`
	MarkedBy     string  `json:"marked_by"`
	UpdatedAt    string  `json:"updated_at"`
	EmployeeName string  `json:"employee_name,omitempty"`
	Email        string  `json:"email,omitempty"`
	Department   *string `json:"department,omitempty"`
	EmployeeID   *string `json:"employee_id,omitempty"`
}

func mapToResponse(r Record) RecordResponse {
	return RecordResponse{
		ID:        r.ID.String(),
		UserID:    r.UserID.String(),
		Date:      r.Date.Format(time.DateOnly),
		Status:    r.Status,
		Reason:    r.Reason,
		MarkedAt:  r.MarkedAt.UTC().Format(time.RFC3339),
		MarkedBy:  r.MarkedBy.String(),
		UpdatedAt: r.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func mapRowsToResponses(rows []RecordRow) []RecordResponse {
	out := make([]RecordResponse, len(rows))
	for i, row := range rows {
		res := mapToResponse(row.Record)
		res.EmployeeName = row.Name
		res.Email = row.Email
		res.Department = row.Department
		res.EmployeeID = row.EmployeeID
		out[i] = res
	}
	return out
}
