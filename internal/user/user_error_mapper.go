package user

import (
	"errors"
	"strings"

	usererrors "github.com/Jstali/employee-onboarding-sub000/internal/user/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	constraintUsersEmail        = "uq_users_email"
	constraintUsersManager      = "fk_users_manager"
	constraintUsersEmployeeType = "ck_users_employee_type"
	constraintRosterManager     = "fk_master_employees_manager"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return usererrors.ErrUserNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			if pgErr.ConstraintName == constraintUsersEmail {
				return usererrors.ErrEmailAlreadyExists
			}
		case "23503":
			switch pgErr.ConstraintName {
			case constraintUsersManager:
				return usererrors.ErrManagerNotFound
			case constraintRosterManager:
				return usererrors.ErrManagerHasReports
			}
		case "23514":
			if pgErr.ConstraintName == constraintUsersEmployeeType {
				return usererrors.ErrEmployeeTypeRequired
			}
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, constraintUsersEmail) {
		return usererrors.ErrEmailAlreadyExists
	}
	if strings.Contains(errMsg, "foreign key") && strings.Contains(errMsg, constraintRosterManager) {
		return usererrors.ErrManagerHasReports
	}

	return err
}
