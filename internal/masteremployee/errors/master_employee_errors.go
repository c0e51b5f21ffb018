package masteremployeeerrors

import (
	"net/http"

	"github.com/Jstali/employee-onboarding-sub000/internal/shared/apperror"
)

var (
	ErrRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"Master employee record not found",
		http.StatusNotFound,
	)
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)
	ErrInvalidRecordID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid master employee ID",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"employee_id must be exactly 6 digits",
		http.StatusBadRequest,
	).WithReason("INVALID_EMPLOYEE_ID")
	ErrManagerRequired = apperror.New(
		apperror.CodeInvalidInput,
		"manager_id is required",
		http.StatusBadRequest,
	).WithReason("REQUIRED_FIELD")
	ErrEmployeeIDTaken = apperror.New(
		apperror.CodeConflict,
		"Employee ID is already assigned",
		http.StatusConflict,
	).WithReason("EMPLOYEE_ID_TAKEN")
	ErrEmailTaken = apperror.New(
		apperror.CodeConflict,
		"A roster record with this email already exists",
		http.StatusConflict,
	).WithReason("EMAIL_TAKEN")
	ErrManagerNotInRoster = apperror.New(
		apperror.CodeInvalidState,
		"Manager must be an active master roster record",
		http.StatusBadRequest,
	).WithReason("MANAGER_NOT_IN_ROSTER")
	ErrSelfManager = apperror.New(
		apperror.CodeInvalidInput,
		"A record cannot manage itself",
		http.StatusBadRequest,
	).WithReason("SELF_MANAGER")
	ErrManagerCycle = apperror.New(
		apperror.CodeInvalidState,
		"Assignment would create a management cycle",
		http.StatusBadRequest,
	).WithReason("MANAGER_CYCLE")
	ErrManagerHasReports = apperror.New(
		apperror.CodeConflict,
		"Record still manages active employees",
		http.StatusConflict,
	).WithReason("MANAGER_HAS_REPORTS")
	ErrRecordDeleted = apperror.New(
		apperror.CodeInvalidState,
		"Master employee record has been deleted",
		http.StatusGone,
	).WithReason("RECORD_DELETED")
	ErrEmployeeIDsExhausted = apperror.New(
		apperror.CodeConflict,
		"No free 6-digit employee ID is left",
		http.StatusConflict,
	).WithReason("EMPLOYEE_IDS_EXHAUSTED")
)
