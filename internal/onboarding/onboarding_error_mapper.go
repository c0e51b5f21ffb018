package onboarding

import (
	"errors"
	"strings"

	onboardingerrors "github.com/Jstali/employee-onboarding-sub000/internal/onboarding/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	constraintFormsUser     = "fk_onboarding_forms_user"
	constraintDocumentsUser = "fk_documents_user"
	constraintFormsAadhar   = "ck_onboarding_forms_aadhar"
	constraintFormsPAN      = "ck_onboarding_forms_pan"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return onboardingerrors.ErrFormNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503":
			switch pgErr.ConstraintName {
			case constraintFormsUser, constraintDocumentsUser:
				return onboardingerrors.ErrUserNotFound
			}
		case "23514":
			switch pgErr.ConstraintName {
			case constraintFormsAadhar:
				return onboardingerrors.ErrInvalidAadhar
			case constraintFormsPAN:
				return onboardingerrors.ErrInvalidPAN
			}
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "foreign key") &&
		(strings.Contains(errMsg, constraintFormsUser) || strings.Contains(errMsg, constraintDocumentsUser)) {
		return onboardingerrors.ErrUserNotFound
	}

	return err
}
