package attendance

import (
	"errors"
	"strings"

	attendanceerrors "github.com/Jstali/employee-onboarding-sub000/internal/attendance/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	constraintUserDate    = "uq_attendance_user_date"
	constraintUser        = "fk_attendance_records_user"
	constraintWeekday     = "ck_attendance_records_weekday"
	constraintLeaveReason = "ck_attendance_records_leave_reason"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return attendanceerrors.ErrRecordNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			if pgErr.ConstraintName == constraintUserDate {
				return attendanceerrors.ErrAlreadyMarked
			}
		case "23503":
			if pgErr.ConstraintName == constraintUser {
				return attendanceerrors.ErrUserNotFound
			}
		case "23514":
			switch pgErr.ConstraintName {
			case constraintWeekday:
				return attendanceerrors.ErrWeekend
			case constraintLeaveReason:
				return attendanceerrors.ErrLeaveReasonRequired
			}
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key") && strings.Contains(errMsg, constraintUserDate) {
		return attendanceerrors.ErrAlreadyMarked
	}

	return err
}
