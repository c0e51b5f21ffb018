package apperror

import (
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	employeeIDPattern = regexp.MustCompile(`^[0-9]{6}$`)
	aadharPattern     = regexp.MustCompile(`^[0-9]{12}$`)
	panPattern        = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
)

// Init registers json tag names and the custom validation tags on gin's
// validator engine. It must run before any request is bound.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		Register(v)
	}
}

// Register wires the tag name func and custom tags into v.
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	_ = v.RegisterValidation("employee_id", func(fl validator.FieldLevel) bool {
		return IsEmployeeID(fl.Field().String())
	})
	_ = v.RegisterValidation("aadhar", func(fl validator.FieldLevel) bool {
		return aadharPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("pan", func(fl validator.FieldLevel) bool {
		return panPattern.MatchString(strings.ToUpper(fl.Field().String()))
	})
	_ = v.RegisterValidation("date_only", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(time.DateOnly, fl.Field().String())
		return err == nil
	})
}

// IsEmployeeID reports whether s is exactly six ASCII digits.
func IsEmployeeID(s string) bool {
	return employeeIDPattern.MatchString(s)
}

func IsAadhar(s string) bool { return aadharPattern.MatchString(s) }

func IsPAN(s string) bool { return panPattern.MatchString(strings.ToUpper(s)) }
