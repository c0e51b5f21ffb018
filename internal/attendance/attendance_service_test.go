package attendance_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/Jstali/employee-onboarding-sub000/internal/attendance"
	attendanceerrors "github.com/Jstali/employee-onboarding-sub000/internal/attendance/errors"
	attendanceMock "github.com/Jstali/employee-onboarding-sub000/internal/attendance/mock"
	"github.com/Jstali/employee-onboarding-sub000/internal/audit"
	auditMock "github.com/Jstali/employee-onboarding-sub000/internal/audit/mock"
	"github.com/Jstali/employee-onboarding-sub000/internal/domain"
	"github.com/Jstali/employee-onboarding-sub000/internal/lifecycle"
	lifecycleerrors "github.com/Jstali/employee-onboarding-sub000/internal/lifecycle/errors"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/contextutil"
	"github.com/Jstali/employee-onboarding-sub000/internal/user"
	userMock "github.com/Jstali/employee-onboarding-sub000/internal/user/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

// Monday 10 June 2024, mid-morning.
var now = time.Date(2024, time.June, 10, 9, 30, 0, 0, time.UTC)

func day(d int) time.Time {
	return time.Date(2024, time.June, d, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

type serviceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	repo    *attendanceMock.MockRepository
	users   *userMock.MockRepository
	audit   *auditMock.MockRecorder
	service attendance.Service
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()
	ctrl := gomock.NewController(t)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	d := &serviceDeps{
		db:      db,
		sqlMock: mock,
		repo:    attendanceMock.NewMockRepository(ctrl),
		users:   userMock.NewMockRepository(ctrl),
		audit:   auditMock.NewMockRecorder(ctrl),
	}
	d.service = attendance.NewService(db, d.repo, d.users, d.audit, attendance.Options{
		Location:     time.UTC,
		BackdateDays: 7,
		Now:          func() time.Time { return now },
	})
	return d
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func onboardedUser() *user.User {
	return &user.User{
		ID:     uuid.New(),
		Name:   "Asha Rao",
		Email:  "asha@example.com",
		Role:   domain.RoleEmployee,
		Status: lifecycle.StatusApproved,
	}
}

func TestAttendanceService_Mark(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to today", func(t *testing.T) {
		d := setupServiceTest(t)
		u := onboardedUser()
		uid := u.ID.String()

		d.users.EXPECT().FindByID(ctx, uid).Return(u, nil)
		expectTx(t, d.sqlMock, true)
		d.repo.EXPECT().WithTx(gomock.Any()).Return(d.repo)
		d.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, rec *attendance.Record) error {
				assert.Equal(t, day(10), rec.Date)
				assert.Equal(t, attendance.StatusPresent, rec.Status)
				assert.Equal(t, u.ID, rec.MarkedBy)
				assert.Nil(t, rec.Reason)
				return nil
			})
		d.audit.EXPECT().
			Record(ctx, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, tx *sql.Tx, e audit.Entry) error {
				assert.NotNil(t, tx)
				assert.Equal(t, audit.ActionAttendanceMarked, e.Action)
				return nil
			})

		res, err := d.service.Mark(ctx, uid, attendance.MarkRequest{Status: attendance.StatusPresent})

		require.NoError(t, err)
		assert.Equal(t, "2024-06-10", res.Date)
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
	})

	t.Run("leave with reason is kept", func(t *testing.T) {
		d := setupServiceTest(t)
		u := onboardedUser()

		d.users.EXPECT().FindByID(ctx, u.ID.String()).Return(u, nil)
		expectTx(t, d.sqlMock, true)
		d.repo.EXPECT().WithTx(gomock.Any()).Return(d.repo)
		d.repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		d.audit.EXPECT().Record(ctx, gomock.Any(), gomock.Any()).Return(nil)

		res, err := d.service.Mark(ctx, u.ID.String(), attendance.MarkRequest{
			Date:   strPtr("2024-06-10"),
			Status: attendance.StatusLeave,
			Reason: strPtr("  medical "),
		})

		require.NoError(t, err)
		require.NotNil(t, res.Reason)
		assert.Equal(t, "medical", *res.Reason)
		assert.Equal(t, attendance.StatusLeave, res.Status)
	})

	t.Run("weekend rejected for every status before any lookup", func(t *testing.T) {
		tests := []struct {
			status attendance.Status
			reason *string
		}{
			{attendance.StatusPresent, nil},
			{attendance.StatusWFH, nil},
			{attendance.StatusLeave, strPtr("family function")},
		}
		for _, tt := range tests {
			for _, date := range []string{"2024-06-08", "2024-06-09"} {
				t.Run(string(tt.status)+" "+date, func(t *testing.T) {
					d := setupServiceTest(t)
					req := attendance.MarkRequest{Date: strPtr(date), Status: tt.status, Reason: tt.reason}

					_, err := d.service.Mark(ctx, uuid.NewString(), req)
					assert.ErrorIs(t, err, attendanceerrors.ErrWeekend)

					_, err = d.service.MarkFor(ctx, attendance.MarkForRequest{UserID: uuid.NewString(), MarkRequest: req})
					assert.ErrorIs(t, err, attendanceerrors.ErrWeekend)
				})
			}
		}
	})

	t.Run("leave without reason", func(t *testing.T) {
		d := setupServiceTest(t)

		for _, reason := range []*string{nil, strPtr("   "), strPtr("<b></b>")} {
			_, err := d.service.Mark(ctx, uuid.NewString(), attendance.MarkRequest{
				Status: attendance.StatusLeave,
				Reason: reason,
			})
			assert.ErrorIs(t, err, attendanceerrors.ErrLeaveReasonRequired)
		}
	})

	t.Run("future date", func(t *testing.T) {
		d := setupServiceTest(t)

		_, err := d.service.Mark(ctx, uuid.NewString(), attendance.MarkRequest{
			Date:   strPtr("2024-06-11"),
			Status: attendance.StatusWFH,
		})

		assert.ErrorIs(t, err, attendanceerrors.ErrFutureDate)
	})

	t.Run("outside backdate window", func(t *testing.T) {
		d := setupServiceTest(t)

		_, err := d.service.Mark(ctx, uuid.NewString(), attendance.MarkRequest{
			Date:   strPtr("2024-05-31"),
			Status: attendance.StatusPresent,
		})

		assert.ErrorIs(t, err, attendanceerrors.ErrOutsideWindow)
	})

	t.Run("malformed date", func(t *testing.T) {
		d := setupServiceTest(t)

		_, err := d.service.Mark(ctx, uuid.NewString(), attendance.MarkRequest{
			Date:   strPtr("10/06/2024"),
			Status: attendance.StatusPresent,
		})

		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidDate)
	})

	t.Run("not onboarded", func(t *testing.T) {
		d := setupServiceTest(t)
		u := onboardedUser()
		u.Status = lifecycle.StatusFormSubmitted

		d.users.EXPECT().FindByID(ctx, u.ID.String()).Return(u, nil)

		_, err := d.service.Mark(ctx, u.ID.String(), attendance.MarkRequest{Status: attendance.StatusPresent})

		assert.ErrorIs(t, err, lifecycleerrors.ErrNotOnboarded)
	})

	t.Run("unknown user", func(t *testing.T) {
		d := setupServiceTest(t)
		uid := uuid.NewString()

		d.users.EXPECT().FindByID(ctx, uid).Return(nil, gorm.ErrRecordNotFound)

		_, err := d.service.Mark(ctx, uid, attendance.MarkRequest{Status: attendance.StatusPresent})

		assert.ErrorIs(t, err, attendanceerrors.ErrUserNotFound)
	})

	t.Run("second mark for the same day", func(t *testing.T) {
		d := setupServiceTest(t)
		u := onboardedUser()

		d.users.EXPECT().FindByID(ctx, u.ID.String()).Return(u, nil)
		expectTx(t, d.sqlMock, false)
		d.repo.EXPECT().WithTx(gomock.Any()).Return(d.repo)
		d.repo.EXPECT().
			Create(ctx, gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_attendance_user_date"})

		_, err := d.service.Mark(ctx, u.ID.String(), attendance.MarkRequest{Status: attendance.StatusWFH})

		assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyMarked)
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
	})
}

func TestAttendanceService_MarkFor(t *testing.T) {
	hrID := uuid.New()
	ctx := contextutil.WithUserID(context.Background(), hrID.String())

	t.Run("past the self-service window", func(t *testing.T) {
		d := setupServiceTest(t)
		u := onboardedUser()

		d.users.EXPECT().FindByID(ctx, u.ID.String()).Return(u, nil)
		expectTx(t, d.sqlMock, true)
		d.repo.EXPECT().WithTx(gomock.Any()).Return(d.repo)
		d.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, rec *attendance.Record) error {
				assert.Equal(t, time.Date(2024, time.May, 20, 0, 0, 0, 0, time.UTC), rec.Date)
				assert.Equal(t, u.ID, rec.UserID)
				assert.Equal(t, hrID, rec.MarkedBy)
				return nil
			})
		d.audit.EXPECT().Record(ctx, gomock.Any(), gomock.Any()).Return(nil)

		_, err := d.service.MarkFor(ctx, attendance.MarkForRequest{
			UserID: u.ID.String(),
			MarkRequest: attendance.MarkRequest{
				Date:   strPtr("2024-05-20"),
				Status: attendance.StatusPresent,
			},
		})

		require.NoError(t, err)
	})

	t.Run("still no weekends", func(t *testing.T) {
		d := setupServiceTest(t)

		_, err := d.service.MarkFor(ctx, attendance.MarkForRequest{
			UserID:      uuid.NewString(),
			MarkRequest: attendance.MarkRequest{Date: strPtr("2024-06-01"), Status: attendance.StatusPresent},
		})

		assert.ErrorIs(t, err, attendanceerrors.ErrWeekend)
	})
}

func records(start time.Time, n int) []attendance.Record {
	out := make([]attendance.Record, n)
	for i := range out {
		out[i] = attendance.Record{ID: uuid.New(), Date: start.AddDate(0, 0, -i), Status: attendance.StatusPresent}
	}
	return out
}

func TestAttendanceService_Range(t *testing.T) {
	ctx := context.Background()
	uid := uuid.NewString()

	t.Run("no range yields the latest thirty", func(t *testing.T) {
		d := setupServiceTest(t)

		d.repo.EXPECT().
			Page(ctx, attendance.PageQuery{UserID: uid, Limit: attendance.DefaultRangeLimit}).
			Return(records(day(10), 30), nil)

		var got []attendance.Record
		for rec, err := range d.service.Range(ctx, uid, attendance.RangeQuery{}) {
			require.NoError(t, err)
			got = append(got, rec)
		}

		assert.Len(t, got, 30)
		assert.Equal(t, day(10), got[0].Date)
	})

	t.Run("pages with a date keyset", func(t *testing.T) {
		d := setupServiceTest(t)
		from, to := day(1).AddDate(-1, 0, 0), day(10)
		first := records(day(10), 100)
		last := first[99].Date

		gomock.InOrder(
			d.repo.EXPECT().
				Page(ctx, attendance.PageQuery{UserID: uid, From: &from, To: &to, Limit: 100}).
				Return(first, nil),
			d.repo.EXPECT().
				Page(ctx, attendance.PageQuery{UserID: uid, From: &from, To: &to, Before: &last, Limit: 100}).
				Return(records(last.AddDate(0, 0, -1), 3), nil),
		)

		n := 0
		for _, err := range d.service.Range(ctx, uid, attendance.RangeQuery{Start: "2023-06-01", End: "2024-06-10"}) {
			require.NoError(t, err)
			n++
		}
		assert.Equal(t, 103, n)
	})

	t.Run("stops reading when the consumer stops", func(t *testing.T) {
		d := setupServiceTest(t)

		d.repo.EXPECT().Page(ctx, gomock.Any()).Return(records(day(10), 30), nil).Times(1)

		for range d.service.Range(ctx, uid, attendance.RangeQuery{}) {
			break
		}
	})

	t.Run("restartable", func(t *testing.T) {
		d := setupServiceTest(t)

		d.repo.EXPECT().Page(ctx, gomock.Any()).Return(records(day(10), 2), nil).Times(2)

		seq := d.service.Range(ctx, uid, attendance.RangeQuery{})
		for i := 0; i < 2; i++ {
			n := 0
			for _, err := range seq {
				require.NoError(t, err)
				n++
			}
			assert.Equal(t, 2, n)
		}
	})

	t.Run("inverted range", func(t *testing.T) {
		d := setupServiceTest(t)

		var errs []error
		for _, err := range d.service.Range(ctx, uid, attendance.RangeQuery{Start: "2024-06-10", End: "2024-06-01"}) {
			errs = append(errs, err)
		}

		require.Len(t, errs, 1)
		assert.ErrorIs(t, errs[0], attendanceerrors.ErrInvalidRange)
	})
}

func TestAttendanceService_Calendar(t *testing.T) {
	ctx := context.Background()
	uid := uuid.NewString()

	t.Run("leave marked on a weekday", func(t *testing.T) {
		d := setupServiceTest(t)

		d.repo.EXPECT().
			Between(ctx, uid, day(1), day(30)).
			Return([]attendance.Record{{Date: day(10), Status: attendance.StatusLeave, Reason: strPtr("medical")}}, nil)

		days, err := d.service.Calendar(ctx, uid, 2024, 6)

		require.NoError(t, err)
		require.Len(t, days, 30)
		assert.Equal(t, attendance.DayStatus("leave"), days[9].Status)
		assert.Equal(t, "medical", *days[9].Reason)
		assert.Equal(t, attendance.DayWeekend, days[0].Status)
		assert.Equal(t, attendance.DayNotMarked, days[10].Status)
	})

	t.Run("defaults to the current month", func(t *testing.T) {
		d := setupServiceTest(t)

		d.repo.EXPECT().Between(ctx, uid, day(1), day(30)).Return(nil, nil)

		days, err := d.service.Calendar(ctx, uid, 0, 0)

		require.NoError(t, err)
		assert.Equal(t, "2024-06-01", days[0].Date)
	})

	t.Run("invalid month", func(t *testing.T) {
		d := setupServiceTest(t)

		_, err := d.service.Calendar(ctx, uid, 2024, 13)

		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidMonth)
	})
}

func TestAttendanceService_Update(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewString()

	existing := func() *attendance.Record {
		return &attendance.Record{ID: uuid.MustParse(id), UserID: uuid.New(), Date: day(5), Status: attendance.StatusPresent}
	}

	t.Run("changes status", func(t *testing.T) {
		d := setupServiceTest(t)

		expectTx(t, d.sqlMock, true)
		d.repo.EXPECT().WithTx(gomock.Any()).Return(d.repo)
		d.repo.EXPECT().FindByID(ctx, id).Return(existing(), nil)
		d.repo.EXPECT().
			Update(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, rec *attendance.Record) error {
				assert.Equal(t, attendance.StatusLeave, rec.Status)
				assert.Equal(t, "family event", *rec.Reason)
				assert.Equal(t, day(5), rec.Date)
				return nil
			})
		d.audit.EXPECT().
			Record(ctx, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sql.Tx, e audit.Entry) error {
				assert.Equal(t, audit.ActionAttendanceUpdated, e.Action)
				assert.Equal(t, id, e.TargetID)
				return nil
			})

		res, err := d.service.Update(ctx, id, attendance.UpdateRequest{
			Status: attendance.StatusLeave,
			Reason: strPtr("family event"),
		})

		require.NoError(t, err)
		assert.Equal(t, attendance.StatusLeave, res.Status)
	})

	t.Run("moving onto a weekend", func(t *testing.T) {
		d := setupServiceTest(t)

		expectTx(t, d.sqlMock, false)
		d.repo.EXPECT().WithTx(gomock.Any()).Return(d.repo)
		d.repo.EXPECT().FindByID(ctx, id).Return(existing(), nil)

		_, err := d.service.Update(ctx, id, attendance.UpdateRequest{
			Status: attendance.StatusPresent,
			Date:   strPtr("2024-06-08"),
		})

		assert.ErrorIs(t, err, attendanceerrors.ErrWeekend)
	})

	t.Run("moving onto a marked day", func(t *testing.T) {
		d := setupServiceTest(t)

		expectTx(t, d.sqlMock, false)
		d.repo.EXPECT().WithTx(gomock.Any()).Return(d.repo)
		d.repo.EXPECT().FindByID(ctx, id).Return(existing(), nil)
		d.repo.EXPECT().
			Update(ctx, gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_attendance_user_date"})

		_, err := d.service.Update(ctx, id, attendance.UpdateRequest{
			Status: attendance.StatusPresent,
			Date:   strPtr("2024-06-07"),
		})

		assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyMarked)
	})

	t.Run("leave without reason", func(t *testing.T) {
		d := setupServiceTest(t)

		_, err := d.service.Update(ctx, id, attendance.UpdateRequest{Status: attendance.StatusLeave})

		assert.ErrorIs(t, err, attendanceerrors.ErrLeaveReasonRequired)
	})

	t.Run("bad id", func(t *testing.T) {
		d := setupServiceTest(t)

		_, err := d.service.Update(ctx, "42", attendance.UpdateRequest{Status: attendance.StatusPresent})

		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidRecordID)
	})
}

func TestAttendanceService_Delete(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewString()

	t.Run("success", func(t *testing.T) {
		d := setupServiceTest(t)

		expectTx(t, d.sqlMock, true)
		d.repo.EXPECT().WithTx(gomock.Any()).Return(d.repo)
		d.repo.EXPECT().FindByID(ctx, id).Return(&attendance.Record{Date: day(4), Status: attendance.StatusWFH}, nil)
		d.repo.EXPECT().Delete(ctx, id).Return(nil)
		d.audit.EXPECT().Record(ctx, gomock.Any(), gomock.Any()).Return(nil)

		assert.NoError(t, d.service.Delete(ctx, id))
	})

	t.Run("not found", func(t *testing.T) {
		d := setupServiceTest(t)

		expectTx(t, d.sqlMock, false)
		d.repo.EXPECT().WithTx(gomock.Any()).Return(d.repo)
		d.repo.EXPECT().FindByID(ctx, id).Return(nil, gorm.ErrRecordNotFound)

		assert.ErrorIs(t, d.service.Delete(ctx, id), attendanceerrors.ErrRecordNotFound)
	})
}

func TestAttendanceService_List(t *testing.T) {
	ctx := context.Background()
	d := setupServiceTest(t)
	minLeaves := 2
	from, to := day(1), day(30)

	d.repo.EXPECT().
		List(ctx, attendance.ListQuery{
			From:       &from,
			To:         &to,
			Department: "Engineering",
			Status:     "leave",
			MinLeaves:  &minLeaves,
			Limit:      20,
			Offset:     20,
		}).
		Return([]attendance.RecordRow{{
			Record:     attendance.Record{ID: uuid.New(), Date: day(4), Status: attendance.StatusLeave},
			Name:       "Asha Rao",
			EmployeeID: strPtr("000042"),
		}}, int64(21), nil)

	res, total, err := d.service.List(ctx, attendance.Filter{
		StartDate:  "2024-06-01",
		EndDate:    "2024-06-30",
		Department: " Engineering ",
		Status:     "leave",
		MinLeaves:  &minLeaves,
		Page:       2,
		PageSize:   20,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(21), total)
	require.Len(t, res, 1)
	assert.Equal(t, "Asha Rao", res[0].EmployeeName)
	assert.Equal(t, "000042", *res[0].EmployeeID)
}

func TestAttendanceService_Export(t *testing.T) {
	ctx := context.Background()

	t.Run("unsupported format", func(t *testing.T) {
		d := setupServiceTest(t)

		_, err := d.service.Export(ctx, attendance.Filter{}, "xlsx")

		assert.ErrorIs(t, err, attendanceerrors.ErrUnsupportedFormat)
	})

	t.Run("exports every row and audits", func(t *testing.T) {
		d := setupServiceTest(t)

		d.repo.EXPECT().
			List(ctx, attendance.ListQuery{}).
			Return(make([]attendance.RecordRow, 250), int64(250), nil)
		d.audit.EXPECT().
			Record(ctx, nil, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sql.Tx, e audit.Entry) error {
				assert.Equal(t, audit.ActionAttendanceExported, e.Action)
				details := e.Details.(map[string]any)
				assert.Equal(t, "json", details["format"])
				assert.Equal(t, 250, details["rows"])
				return nil
			})

		rows, err := d.service.Export(ctx, attendance.Filter{}, "JSON")

		require.NoError(t, err)
		assert.Len(t, rows, 250)
	})
}
