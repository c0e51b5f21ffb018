package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Jstali/employee-onboarding-sub000/internal/shared/apperror"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recorder appends audit entries. When tx is non-nil the entry commits or
// rolls back together with the caller's change.
//
//go:generate mockgen -source=audit_service.go -destination=mock/audit_service_mock.go -package=mock
type Recorder interface {
	Record(ctx context.Context, tx *sql.Tx, entry Entry) error
}

type Service interface {
	Recorder
	List(ctx context.Context, filter ListFilter) ([]AuditLogResponse, int64, error)
}

type service struct {
	repo   Repository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("audit.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit.service")
	}
	return &service{repo: repo, now: time.Now, logger: l}
}

func (s *service) Record(ctx context.Context, tx *sql.Tx, entry Entry) error {
	md := contextutil.ExtractMetadata(ctx)

	row := &AuditLog{
		ID:        uuid.New(),
		Action:    entry.Action,
		IPAddress: md.ClientIP,
		UserAgent: md.UserAgent,
		RequestID: md.RequestID,
		CreatedAt: s.now().UTC(),
	}
	if actor, err := uuid.Parse(md.UserID); err == nil {
		row.ActorID = &actor
	}
	if entry.TargetID != "" {
		target := entry.TargetID
		row.TargetID = &target
	}
	if entry.Details != nil {
		payload, err := json.Marshal(entry.Details)
		if err != nil {
			return err
		}
		row.Details = payload
	}

	repo := s.repo
	if tx != nil {
		repo = s.repo.WithTx(tx)
	}
	if err := repo.Create(ctx, row); err != nil {
		s.logger.Error("write audit entry failed",
			zap.String("request_id", md.RequestID),
			zap.String("action", entry.Action),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]AuditLogResponse, int64, error) {
	q := ListQuery{
		ActorID:  filter.ActorID,
		Action:   filter.Action,
		TargetID: filter.TargetID,
		Limit:    filter.PageSize,
		Offset:   (filter.Page - 1) * filter.PageSize,
	}
	if q.Limit <= 0 {
		q.Limit = 20
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	if filter.From != "" {
		from, err := time.Parse(time.DateOnly, filter.From)
		if err != nil {
			return nil, 0, apperror.InvalidField("From")
		}
		q.From = &from
	}
	if filter.To != "" {
		to, err := time.Parse(time.DateOnly, filter.To)
		if err != nil {
			return nil, 0, apperror.InvalidField("To")
		}
		// inclusive end date
		to = to.AddDate(0, 0, 1)
		q.To = &to
	}
	if q.From != nil && q.To != nil && !q.From.Before(*q.To) {
		return nil, 0, apperror.New(apperror.CodeInvalidInput, "from must not be after to", http.StatusBadRequest)
	}

	rows, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	res := make([]AuditLogResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, total, nil
}
