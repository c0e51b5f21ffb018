package autherrors

import (
	"net/http"

	"github.com/Jstali/employee-onboarding-sub000/internal/shared/apperror"
)

var (
	ErrInvalidCredentials = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid email or password",
		http.StatusUnauthorized,
	).WithReason("INVALID_CREDENTIALS")

	ErrUnauthenticated = apperror.New(
		apperror.CodeUnauthorized,
		"Unauthorized",
		http.StatusUnauthorized,
	)
)
