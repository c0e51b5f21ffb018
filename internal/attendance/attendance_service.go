package attendance

import (
	"context"
	"database/sql"
	"errors"
	"iter"
	"strings"
	"time"

	attendanceerrors "github.com/Jstali/employee-onboarding-sub000/internal/attendance/errors"
	"github.com/Jstali/employee-onboarding-sub000/internal/audit"
	"github.com/Jstali/employee-onboarding-sub000/internal/lifecycle"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/contextutil"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/sanitize"
	"github.com/Jstali/employee-onboarding-sub000/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// DefaultRangeLimit caps an open-ended history read.
	DefaultRangeLimit = 30
	rangePageSize     = 100
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	Mark(ctx context.Context, userID string, req MarkRequest) (RecordResponse, error)
	MarkFor(ctx context.Context, req MarkForRequest) (RecordResponse, error)
	// Range lazily yields the user's records newest first. Every call to
	// the returned sequence re-reads the store.
	Range(ctx context.Context, userID string, q RangeQuery) iter.Seq2[Record, error]
	Calendar(ctx context.Context, userID string, year, month int) ([]CalendarDay, error)
	Update(ctx context.Context, id string, req UpdateRequest) (RecordResponse, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter Filter) ([]RecordResponse, int64, error)
	Export(ctx context.Context, filter Filter, format string) ([]RecordResponse, error)
}

type Options struct {
	// Location decides what "today" is.
	Location *time.Location
	// BackdateDays is how far back an employee may mark their own
	// attendance. HR corrections are not limited.
	BackdateDays int
	Now          func() time.Time
}

type service struct {
	db           *sql.DB
	repo         Repository
	users        user.Repository
	audit        audit.Recorder
	loc          *time.Location
	backdateDays int
	now          func() time.Time
	logger       *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	users user.Repository,
	recorder audit.Recorder,
	opts Options,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &service{
		db:           db,
		repo:         repo,
		users:        users,
		audit:        recorder,
		loc:          opts.Location,
		backdateDays: opts.BackdateDays,
		now:          opts.Now,
		logger:       l,
	}
}

func (s *service) today() time.Time {
	return civilDate(s.now().In(s.loc))
}

func (s *service) Mark(ctx context.Context, userID string, req MarkRequest) (RecordResponse, error) {
	return s.mark(ctx, userID, userID, req, false)
}

func (s *service) MarkFor(ctx context.Context, req MarkForRequest) (RecordResponse, error) {
	return s.mark(ctx, req.UserID, contextutil.GetUserID(ctx), req.MarkRequest, true)
}

func (s *service) mark(ctx context.Context, userID, actorID string, req MarkRequest, correction bool) (RecordResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	uid, err := uuid.Parse(userID)
	if err != nil {
		return RecordResponse{}, attendanceerrors.ErrInvalidUserID
	}

	today := s.today()
	date := today
	if req.Date != nil && strings.TrimSpace(*req.Date) != "" {
		if date, err = parseDate(*req.Date); err != nil {
			return RecordResponse{}, err
		}
	}
	if err := s.checkDate(date, today, !correction); err != nil {
		return RecordResponse{}, err
	}
	reason, err := validateEntry(req.Status, req.Reason)
	if err != nil {
		return RecordResponse{}, err
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RecordResponse{}, attendanceerrors.ErrUserNotFound
		}
		return RecordResponse{}, err
	}
	if err := lifecycle.Check(u.State(), lifecycle.TriggerMarkAttendance); err != nil {
		s.logger.Info("attendance mark rejected by lifecycle",
			zap.String("request_id", rid),
			zap.String("user_id", userID),
			zap.String("state", string(u.State())),
		)
		return RecordResponse{}, err
	}

	markedBy, err := uuid.Parse(actorID)
	if err != nil {
		markedBy = uid
	}
	now := s.now().UTC()
	rec := &Record{
		ID:        uuid.New(),
		UserID:    uid,
		Date:      date,
		Status:    req.Status,
		Reason:    reason,
		MarkedAt:  now,
		MarkedBy:  markedBy,
		UpdatedAt: now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("attendance mark begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return RecordResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, rec); err != nil {
		mapped := mapRepositoryError(err)
		if mapped == err {
			s.logger.Error("attendance insert failed", zap.String("user_id", userID), zap.Error(err))
		}
		return RecordResponse{}, mapped
	}
	if err := s.audit.Record(ctx, tx, audit.Entry{
		Action:   audit.ActionAttendanceMarked,
		TargetID: rec.ID.String(),
		Details: map[string]any{
			"user_id":    userID,
			"date":       date.Format(time.DateOnly),
			"status":     string(rec.Status),
			"correction": correction,
		},
	}); err != nil {
		return RecordResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("attendance mark commit failed", zap.String("request_id", rid), zap.Error(err))
		return RecordResponse{}, err
	}

	s.logger.Info("attendance marked",
		zap.String("request_id", rid),
		zap.String("user_id", userID),
		zap.String("date", date.Format(time.DateOnly)),
		zap.String("status", string(rec.Status)),
	)
	return mapToResponse(*rec), nil
}

func (s *service) Range(ctx context.Context, userID string, q RangeQuery) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		if _, err := uuid.Parse(userID); err != nil {
			yield(Record{}, attendanceerrors.ErrInvalidUserID)
			return
		}
		from, to, err := parseRange(q.Start, q.End)
		if err != nil {
			yield(Record{}, err)
			return
		}

		remaining := -1
		if from == nil && to == nil {
			remaining = DefaultRangeLimit
		}

		var before *time.Time
		for {
			limit := rangePageSize
			if remaining >= 0 && remaining < limit {
				limit = remaining
			}
			if limit == 0 {
				return
			}

			page, err := s.repo.Page(ctx, PageQuery{
				UserID: userID,
				From:   from,
				To:     to,
				Before: before,
				Limit:  limit,
			})
			if err != nil {
				s.logger.Error("attendance page read failed", zap.String("user_id", userID), zap.Error(err))
				yield(Record{}, err)
				return
			}
			for _, rec := range page {
				if !yield(rec, nil) {
					return
				}
			}
			if len(page) < limit {
				return
			}
			if remaining >= 0 {
				remaining -= len(page)
			}
			last := page[len(page)-1].Date
			before = &last
		}
	}
}

func (s *service) Calendar(ctx context.Context, userID string, year, month int) ([]CalendarDay, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, attendanceerrors.ErrInvalidUserID
	}
	if year == 0 || month == 0 {
		today := s.today()
		if year == 0 {
			year = today.Year()
		}
		if month == 0 {
			month = int(today.Month())
		}
	}
	if year < 2000 || year > 2100 || month < 1 || month > 12 {
		return nil, attendanceerrors.ErrInvalidMonth
	}

	from, to := monthBounds(year, time.Month(month))
	recs, err := s.repo.Between(ctx, userID, from, to)
	if err != nil {
		s.logger.Error("attendance calendar read failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return BuildCalendar(year, time.Month(month), recs), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (RecordResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return RecordResponse{}, attendanceerrors.ErrInvalidRecordID
	}
	reason, err := validateEntry(req.Status, req.Reason)
	if err != nil {
		return RecordResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RecordResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	rec, err := qtx.FindByID(ctx, id)
	if err != nil {
		return RecordResponse{}, mapRepositoryError(err)
	}

	before := map[string]any{
		"date":   rec.Date.Format(time.DateOnly),
		"status": string(rec.Status),
	}
	if req.Date != nil && strings.TrimSpace(*req.Date) != "" {
		date, err := parseDate(*req.Date)
		if err != nil {
			return RecordResponse{}, err
		}
		if err := s.checkDate(date, s.today(), false); err != nil {
			return RecordResponse{}, err
		}
		rec.Date = date
	}
	rec.Status = req.Status
	rec.Reason = reason
	if actor, err := uuid.Parse(contextutil.GetUserID(ctx)); err == nil {
		rec.MarkedBy = actor
	}
	rec.UpdatedAt = s.now().UTC()

	if err := qtx.Update(ctx, rec); err != nil {
		return RecordResponse{}, mapRepositoryError(err)
	}
	if err := s.audit.Record(ctx, tx, audit.Entry{
		Action:   audit.ActionAttendanceUpdated,
		TargetID: id,
		Details: map[string]any{
			"user_id": rec.UserID.String(),
			"before":  before,
			"after": map[string]any{
				"date":   rec.Date.Format(time.DateOnly),
				"status": string(rec.Status),
			},
		},
	}); err != nil {
		return RecordResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return RecordResponse{}, err
	}

	s.logger.Info("attendance updated", zap.String("record_id", id))
	return mapToResponse(*rec), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return attendanceerrors.ErrInvalidRecordID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	rec, err := qtx.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if err := qtx.Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}
	if err := s.audit.Record(ctx, tx, audit.Entry{
		Action:   audit.ActionAttendanceDeleted,
		TargetID: id,
		Details: map[string]any{
			"user_id": rec.UserID.String(),
			"date":    rec.Date.Format(time.DateOnly),
			"status":  string(rec.Status),
		},
	}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("attendance deleted", zap.String("record_id", id))
	return nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]RecordResponse, int64, error) {
	q, err := toListQuery(filter)
	if err != nil {
		return nil, 0, err
	}
	q.Limit = filter.PageSize
	q.Offset = (filter.Page - 1) * filter.PageSize
	if q.Offset < 0 {
		q.Offset = 0
	}

	rows, total, err := s.repo.List(ctx, q)
	if err != nil {
		s.logger.Error("list attendance failed", zap.Error(err))
		return nil, 0, err
	}
	return mapRowsToResponses(rows), total, nil
}

func (s *service) Export(ctx context.Context, filter Filter, format string) ([]RecordResponse, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV && format != FormatJSON {
		return nil, attendanceerrors.ErrUnsupportedFormat
	}
	q, err := toListQuery(filter)
	if err != nil {
		return nil, err
	}

	rows, _, err := s.repo.List(ctx, q)
	if err != nil {
		s.logger.Error("export attendance failed", zap.Error(err))
		return nil, err
	}

	if err := s.audit.Record(ctx, nil, audit.Entry{
		Action: audit.ActionAttendanceExported,
		Details: map[string]any{
			"format":  format,
			"rows":    len(rows),
			"filters": filter,
		},
	}); err != nil {
		return nil, err
	}
	return mapRowsToResponses(rows), nil
}

// checkDate applies the calendar rules shared by every write path.
func (s *service) checkDate(date, today time.Time, selfService bool) error {
	if IsWeekend(date) {
		return attendanceerrors.ErrWeekend
	}
	if date.After(today) {
		return attendanceerrors.ErrFutureDate
	}
	if selfService && today.Sub(date) > time.Duration(s.backdateDays)*24*time.Hour {
		return attendanceerrors.ErrOutsideWindow
	}
	return nil
}

// validateEntry checks the status and returns the cleaned reason. Leave
// needs a reason that is still non-blank after sanitizing.
func validateEntry(status Status, reason *string) (*string, error) {
	if !status.Valid() {
		return nil, attendanceerrors.ErrInvalidStatus
	}
	clean := sanitize.TextPtr(reason)
	if status == StatusLeave && clean == nil {
		return nil, attendanceerrors.ErrLeaveReasonRequired
	}
	return clean, nil
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, attendanceerrors.ErrInvalidDate
	}
	return d, nil
}

func parseRange(start, end string) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if strings.TrimSpace(start) != "" {
		d, err := parseDate(start)
		if err != nil {
			return nil, nil, err
		}
		from = &d
	}
	if strings.TrimSpace(end) != "" {
		d, err := parseDate(end)
		if err != nil {
			return nil, nil, err
		}
		to = &d
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, nil, attendanceerrors.ErrInvalidRange
	}
	return from, to, nil
}

func toListQuery(f Filter) (ListQuery, error) {
	from, to, err := parseRange(f.StartDate, f.EndDate)
	if err != nil {
		return ListQuery{}, err
	}
	if f.UserID != "" {
		if _, err := uuid.Parse(f.UserID); err != nil {
			return ListQuery{}, attendanceerrors.ErrInvalidUserID
		}
	}
	if f.Status != "" && !Status(f.Status).Valid() {
		return ListQuery{}, attendanceerrors.ErrInvalidStatus
	}
	return ListQuery{
		From:       from,
		To:         to,
		UserID:     f.UserID,
		Department: strings.TrimSpace(f.Department),
		Status:     f.Status,
		MinLeaves:  f.MinLeaves,
	}, nil
}
