package attendanceerrors

import (
	"net/http"

	"github.com/Jstali/employee-onboarding-sub000/internal/shared/apperror"
)

var (
	ErrRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"Attendance record not found",
		http.StatusNotFound,
	)
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)
	ErrInvalidRecordID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid attendance record ID",
		http.StatusBadRequest,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid user ID",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"Status must be one of present, wfh or leave",
		http.StatusBadRequest,
	).WithReason("INVALID_STATUS")
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"Date must use the YYYY-MM-DD format",
		http.StatusBadRequest,
	).WithReason("INVALID_DATE")
	ErrInvalidRange = apperror.New(
		apperror.CodeInvalidInput,
		"Start date must not be after end date",
		http.StatusBadRequest,
	).WithReason("INVALID_RANGE")
	ErrInvalidMonth = apperror.New(
		apperror.CodeInvalidInput,
		"Year or month is out of range",
		http.StatusBadRequest,
	).WithReason("INVALID_MONTH")
	ErrUnsupportedFormat = apperror.New(
		apperror.CodeInvalidInput,
		"Export format must be csv or json",
		http.StatusBadRequest,
	).WithReason("UNSUPPORTED_FORMAT")
	ErrLeaveReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"A reason is required when marking leave",
		http.StatusBadRequest,
	).WithReason("LEAVE_REASON_REQUIRED")

	ErrWeekend = apperror.New(
		apperror.CodeInvalidState,
		"Attendance cannot be marked on weekends",
		http.StatusBadRequest,
	).WithReason("WEEKEND")
	ErrFutureDate = apperror.New(
		apperror.CodeInvalidState,
		"Attendance cannot be marked for a future date",
		http.StatusBadRequest,
	).WithReason("FUTURE_DATE")
	ErrOutsideWindow = apperror.New(
		apperror.CodeInvalidState,
		"Date is too far in the past to mark; ask HR to record it",
		http.StatusBadRequest,
	).WithReason("OUTSIDE_BACKDATE_WINDOW")
	ErrAlreadyMarked = apperror.New(
		apperror.CodeConflict,
		"Attendance is already marked for this date",
		http.StatusConflict,
	).WithReason("ALREADY_MARKED")
)
