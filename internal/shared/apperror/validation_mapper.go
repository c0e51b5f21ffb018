package apperror

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// recipient_phone -> Recipient Phone
func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	caser := cases.Title(language.English)
	return caser.String(s)
}

func MapValidationError(err error) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		e := errs[0]
		humanReadableField := formatFieldName(e.Field())

		switch e.Tag() {
		case "required", "required_if":
			return RequiredField(humanReadableField)
		case "employee_id":
			return New(CodeInvalidInput, humanReadableField+" must be exactly 6 digits", http.StatusBadRequest).
				WithReason("INVALID_EMPLOYEE_ID")
		case "date_only":
			return New(CodeInvalidInput, humanReadableField+" must be a date in YYYY-MM-DD format", http.StatusBadRequest).
				WithReason("INVALID_FIELD")
		default:
			return InvalidField(humanReadableField)
		}
	}

	return New(
		CodeInvalidInput,
		"Invalid input",
		http.StatusBadRequest,
	)
}
