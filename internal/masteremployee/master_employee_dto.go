package masteremployee

import (
	"time"

	"github.com/Jstali/employee-onboarding-sub000/internal/search"
)

type AddToMasterRequest struct {
	UserID        string  `json:"user_id" binding:"required,uuid"`
	EmployeeID    string  `json:"employee_id" binding:"required,employee_id"`
	ManagerID     string  `json:"manager_id" binding:"required,uuid"`
	PersonalEmail *string `json:"personal_email" binding:"omitempty,email,max=255"`
	Department    *string `json:"department" binding:"omitempty,max=100"`
}

type UpdateMasterEmployeeRequest struct {
	Department    *string `json:"department" binding:"omitempty,max=100"`
	PersonalEmail *string `json:"personal_email" binding:"omitempty,email,max=255"`
	EmployeeType  *string `json:"employee_type" binding:"omitempty,oneof=intern contract fulltime"`
	Status        *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

type AssignManagerRequest struct {
	ManagerID string `json:"manager_id" binding:"required,uuid"`
}

type ListFilter struct {
	Status     string `form:"status" binding:"omitempty,oneof=active inactive deleted"`
	Department string `form:"department"`
	ManagerID  string `form:"manager_id" binding:"omitempty,uuid"`
	Page       int    `form:"-"`
	PageSize   int    `form:"-"`
}

type ManagerSummary struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
}

type MasterEmployeeResponse struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	EmployeeID    string          `json:"employee_id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	PersonalEmail *string         `json:"personal_email"`
	EmployeeType  *string         `json:"employee_type"`
	Role          string          `json:"role"`
	Status        string          `json:"status"`
	Department    *string         `json:"department"`
	JoinDate      *string         `json:"join_date"`
	ManagerID     *string         `json:"manager_id"`
	Manager       *ManagerSummary `json:"manager,omitempty"`
	CreatedAt     string          `json:"created_at"`
	UpdatedAt     string          `json:"updated_at"`
}

// ManagerOption is a lightweight entry for manager pickers.
type ManagerOption struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
}

type NextEmployeeIDResponse struct {
	EmployeeID string `json:"employee_id"`
}

func mapToResponse(rec MasterEmployee) MasterEmployeeResponse {
	resp := MasterEmployeeResponse{
		ID:            rec.ID.String(),
		UserID:        rec.UserID.String(),
		EmployeeID:    rec.EmployeeID,
		Name:          rec.Name,
		Email:         rec.Email,
		PersonalEmail: rec.PersonalEmail,
		EmployeeType:  rec.EmployeeType,
		Role:          rec.Role,
		Status:        string(rec.Status),
		Department:    rec.Department,
		CreatedAt:     rec.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     rec.UpdatedAt.Format(time.RFC3339),
	}
	if rec.ManagerID != nil {
		id := rec.ManagerID.String()
		resp.ManagerID = &id
	}
	if rec.Manager != nil {
		resp.Manager = &ManagerSummary{
			ID:         rec.Manager.ID.String(),
			EmployeeID: rec.Manager.EmployeeID,
			Name:       rec.Manager.Name,
		}
	}
	if rec.JoinDate != nil {
		d := rec.JoinDate.Format(time.DateOnly)
		resp.JoinDate = &d
	}
	return resp
}

func mapToListResponse(recs []MasterEmployee) []MasterEmployeeResponse {
	res := make([]MasterEmployeeResponse, len(recs))
	for i, r := range recs {
		res[i] = mapToResponse(r)
	}
	return res
}

func toDocument(rec *MasterEmployee) search.RosterDocument {
	doc := search.RosterDocument{
		ID:         rec.ID.String(),
		EmployeeID: rec.EmployeeID,
		Name:       rec.Name,
		Email:      rec.Email,
		Status:     string(rec.Status),
	}
	if rec.Department != nil {
		doc.Department = *rec.Department
	}
	return doc
}
