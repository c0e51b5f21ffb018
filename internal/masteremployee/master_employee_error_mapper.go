package masteremployee

import (
	"errors"
	"strings"

	lifecycleerrors "github.com/Jstali/employee-onboarding-sub000/internal/lifecycle/errors"
	masteremployeeerrors "github.com/Jstali/employee-onboarding-sub000/internal/masteremployee/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	constraintEmployeeID = "uq_master_employees_employee_id"
	constraintUser       = "uq_master_employees_user"
	constraintEmail      = "uq_master_employees_email"
	constraintManager    = "fk_master_employees_manager"
	constraintEmployeeNo = "ck_master_employees_employee_id"
)

var uniqueConstraints = map[string]error{
	constraintEmployeeID: masteremployeeerrors.ErrEmployeeIDTaken,
	constraintUser:       lifecycleerrors.ErrAlreadyInRoster,
	constraintEmail:      masteremployeeerrors.ErrEmailTaken,
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return masteremployeeerrors.ErrRecordNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			if mapped, ok := uniqueConstraints[pgErr.ConstraintName]; ok {
				return mapped
			}
		case "23503":
			if pgErr.ConstraintName == constraintManager {
				return masteremployeeerrors.ErrManagerHasReports
			}
		case "23514":
			if pgErr.ConstraintName == constraintEmployeeNo {
				return masteremployeeerrors.ErrInvalidEmployeeID
			}
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") {
		for name, mapped := range uniqueConstraints {
			if strings.Contains(errMsg, name) {
				return mapped
			}
		}
	}
	if strings.Contains(errMsg, "foreign key") && strings.Contains(errMsg, constraintManager) {
		return masteremployeeerrors.ErrManagerHasReports
	}

	return err
}
