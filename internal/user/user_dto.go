package user

import (
	"time"

	"github.com/Jstali/employee-onboarding-sub000/internal/lifecycle"
)

type CreateEmployeeRequest struct {
	Name         string  `json:"name" binding:"required,max=255"`
	Email        string  `json:"email" binding:"required,email,max=255"`
	Role         string  `json:"role" binding:"omitempty,oneof=hr employee"`
	EmployeeType string  `json:"employee_type" binding:"omitempty,oneof=intern contract fulltime"`
	Department   *string `json:"department" binding:"omitempty,max=100"`
	JoinDate     string  `json:"join_date" binding:"omitempty,date_only"`
	ManagerID    string  `json:"manager_id" binding:"omitempty,uuid"`
}

type UpdateUserRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=255"`
	EmployeeType *string `json:"employee_type" binding:"omitempty,oneof=intern contract fulltime"`
	Department   *string `json:"department" binding:"omitempty,max=100"`
	JoinDate     *string `json:"join_date" binding:"omitempty,date_only"`
	// An empty string clears the manager.
	ManagerID *string `json:"manager_id" binding:"omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=72"`
}

type ListFilter struct {
	Status     string `form:"status" binding:"omitempty,oneof=pending form_submitted approved rejected deleted"`
	Role       string `form:"role" binding:"omitempty,oneof=hr employee"`
	Department string `form:"department"`
	Onboarded  *bool  `form:"onboarded"`
	Search     string `form:"q"`
	Page       int    `form:"-"`
	PageSize   int    `form:"-"`
}

type UserResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Role         string          `json:"role"`
	EmployeeType *string         `json:"employee_type"`
	Status       string          `json:"status"`
	State        lifecycle.State `json:"state"`
	lifecycle.Flags
	InRoster     bool    `json:"in_roster"`
	ManagerID    *string `json:"manager_id"`
	Department   *string `json:"department"`
	JoinDate     *string `json:"join_date"`
	IsFirstLogin bool    `json:"is_first_login"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

type CreateEmployeeResponse struct {
	User UserResponse `json:"user"`
	// Returned once so HR can hand it over when mail delivery is off.
	TemporaryPassword string `json:"temporary_password"`
}

type ResetPasswordResponse struct {
	TemporaryPassword string `json:"temporary_password"`
}

func mapToResponse(u User) UserResponse {
	resp := UserResponse{
		ID:           u.ID.String(),
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		EmployeeType: u.EmployeeType,
		Status:       string(u.Status),
		State:        u.State(),
		Flags:        lifecycle.FlagsOf(u.Status),
		InRoster:     u.InRoster,
		Department:   u.Department,
		IsFirstLogin: u.IsFirstLogin,
		CreatedAt:    u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    u.UpdatedAt.Format(time.RFC3339),
	}
	if u.ManagerID != nil {
		id := u.ManagerID.String()
		resp.ManagerID = &id
	}
	if u.JoinDate != nil {
		d := u.JoinDate.Format(time.DateOnly)
		resp.JoinDate = &d
	}
	return resp
}

func mapToListResponse(users []User) []UserResponse {
	res := make([]UserResponse, len(users))
	for i, u := range users {
		res[i] = mapToResponse(u)
	}
	return res
}
