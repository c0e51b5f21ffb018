package audit

import (
	"context"
	"database/sql"
	"time"

	"github.com/Jstali/employee-onboarding-sub000/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=audit_repo.go -destination=mock/audit_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, log *AuditLog) error
	List(ctx context.Context, q ListQuery) ([]AuditLog, int64, error)
}

type ListQuery struct {
	ActorID  string
	Action   string
	TargetID string
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, log *AuditLog) error {
	return connection.Scoped(ctx, r.db, r.tx).Create(log).Error
}

func (r *repository) List(ctx context.Context, q ListQuery) ([]AuditLog, int64, error) {
	query := connection.Scoped(ctx, r.db, r.tx).Model(&AuditLog{})
	if q.ActorID != "" {
		query = query.Where("actor_id = ?", q.ActorID)
	}
	if q.Action != "" {
		query = query.Where("action = ?", q.Action)
	}
	if q.TargetID != "" {
		query = query.Where("target_id = ?", q.TargetID)
	}
	if q.From != nil {
		query = query.Where("created_at >= ?", *q.From)
	}
	if q.To != nil {
		query = query.Where("created_at < ?", *q.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []AuditLog
	err := query.
		Order("created_at DESC").
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&rows).Error
	return rows, total, err
}
