package lifecycleerrors

import (
	"net/http"

	"github.com/Jstali/employee-onboarding-sub000/internal/shared/apperror"
)

var (
	ErrFormNotSubmitted = apperror.New(
		apperror.CodeInvalidState,
		"Onboarding form has not been submitted yet",
		http.StatusBadRequest,
	).WithReason("FORM_NOT_SUBMITTED")
	ErrAlreadyOnboarded = apperror.New(
		apperror.CodeInvalidState,
		"Employee is already onboarded",
		http.StatusBadRequest,
	).WithReason("ALREADY_ONBOARDED")
	ErrApplicationRejected = apperror.New(
		apperror.CodeInvalidState,
		"Onboarding application was rejected",
		http.StatusBadRequest,
	).WithReason("APPLICATION_REJECTED")
	ErrNotOnboarded = apperror.New(
		apperror.CodeInvalidState,
		"Employee has not completed onboarding",
		http.StatusForbidden,
	).WithReason("NOT_ONBOARDED")
	ErrAlreadyInRoster = apperror.New(
		apperror.CodeConflict,
		"Employee is already in the master roster",
		http.StatusConflict,
	).WithReason("ALREADY_IN_ROSTER")
	ErrAccountDeleted = apperror.New(
		apperror.CodeInvalidState,
		"Account has been deleted",
		http.StatusGone,
	).WithReason("ACCOUNT_DELETED")
	ErrUnknownTransition = apperror.New(
		apperror.CodeInvalidState,
		"Transition is not allowed",
		http.StatusBadRequest,
	).WithReason("TRANSITION_NOT_ALLOWED")
)
