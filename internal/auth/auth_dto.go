package auth

import (
	"time"

	"github.com/Jstali/employee-onboarding-sub000/internal/lifecycle"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	ExpiresAt   time.Time       `json:"expires_at"`
	User        ProfileResponse `json:"user"`
}

// ProfileResponse carries enough of the lifecycle for a client to decide
// where to send the user after login.
type ProfileResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Role         string          `json:"role"`
	EmployeeType *string         `json:"employee_type"`
	Status       string          `json:"status"`
	State        lifecycle.State `json:"state"`
	lifecycle.Flags
	InRoster     bool     `json:"in_roster"`
	IsFirstLogin bool     `json:"is_first_login"`
	Permissions  []string `json:"permissions"`
}
