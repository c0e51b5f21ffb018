package usererrors

import (
	"net/http"

	"github.com/Jstali/employee-onboarding-sub000/internal/shared/apperror"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)

	ErrEmailAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"A user with this email already exists",
		http.StatusConflict,
	).WithReason("EMAIL_TAKEN")

	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid user ID",
		http.StatusBadRequest,
	)

	ErrEmployeeTypeRequired = apperror.New(
		apperror.CodeInvalidInput,
		"employee_type is required for employees",
		http.StatusBadRequest,
	).WithReason("REQUIRED_FIELD")

	ErrInvalidJoinDate = apperror.New(
		apperror.CodeInvalidInput,
		"join_date must be formatted as YYYY-MM-DD",
		http.StatusBadRequest,
	).WithReason("INVALID_FIELD")

	ErrManagerNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"Manager does not exist",
		http.StatusBadRequest,
	).WithReason("MANAGER_NOT_FOUND")

	ErrSelfManager = apperror.New(
		apperror.CodeInvalidInput,
		"A user cannot be their own manager",
		http.StatusBadRequest,
	).WithReason("SELF_MANAGER")

	ErrWrongPassword = apperror.New(
		apperror.CodeInvalidInput,
		"Current password is incorrect",
		http.StatusBadRequest,
	).WithReason("WRONG_PASSWORD")

	ErrPasswordReused = apperror.New(
		apperror.CodeInvalidInput,
		"New password must differ from the current one",
		http.StatusBadRequest,
	).WithReason("PASSWORD_REUSED")

	ErrCannotDeleteSelf = apperror.New(
		apperror.CodeInvalidState,
		"You cannot delete your own account",
		http.StatusBadRequest,
	).WithReason("SELF_DELETE")

	ErrManagerHasReports = apperror.New(
		apperror.CodeConflict,
		"Employee still manages other roster members",
		http.StatusConflict,
	).WithReason("MANAGER_HAS_REPORTS")
)
