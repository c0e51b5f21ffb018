package apperror

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// HTTPError is the transport view of an error.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

// ToHTTP maps any error into the response envelope fields. Errors that are
// not AppErrors never leak their text to the client.
func ToHTTP(err error) HTTPError {
	if err == nil {
		return HTTPError{Status: http.StatusOK}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		err = MapValidationError(verrs)
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		out := HTTPError{
			Status:  appErr.HTTPStatus,
			Code:    appErr.Code,
			Message: appErr.Message,
		}
		if out.Status == 0 {
			out.Status = http.StatusInternalServerError
		}
		if appErr.Reason != "" {
			out.Details = map[string]string{"reason": appErr.Reason}
		}
		return out
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return HTTPError{
			Status:  ErrTimeout.HTTPStatus,
			Code:    ErrTimeout.Code,
			Message: ErrTimeout.Message,
		}
	}

	return HTTPError{
		Status:  ErrInternal.HTTPStatus,
		Code:    ErrInternal.Code,
		Message: ErrInternal.Message,
	}
}
