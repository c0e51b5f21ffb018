package attendance

import (
	"context"
	"database/sql"
	"time"

	"github.com/Jstali/employee-onboarding-sub000/internal/shared/connection"

	"gorm.io/gorm"
)

// PageQuery selects one keyset page of a user's records, newest first.
// Before, when set, excludes that date and everything after it.
type PageQuery struct {
	UserID string
	From   *time.Time
	To     *time.Time
	Before *time.Time
	Limit  int
}

type ListQuery struct {
	From       *time.Time
	To         *time.Time
	UserID     string
	Department string
	Status     string
	MinLeaves  *int
	// Limit 0 returns every matching row.
	Limit  int
	Offset int
}

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, rec *Record) error
	FindByID(ctx context.Context, id string) (*Record, error)
	Update(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, id string) error
	Page(ctx context.Context, q PageQuery) ([]Record, error)
	Between(ctx context.Context, userID string, from, to time.Time) ([]Record, error)
	List(ctx context.Context, q ListQuery) ([]RecordRow, int64, error)
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

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return connection.Scoped(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, rec *Record) error {
	return r.conn(ctx).Create(rec).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Record, error) {
	var rec Record
	if err := r.conn(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repository) Update(ctx context.Context, rec *Record) error {
	res := r.conn(ctx).
		Model(rec).
		Select("date", "status", "reason", "marked_by", "updated_at").
		Updates(rec)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := r.conn(ctx).Delete(&Record{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Page(ctx context.Context, q PageQuery) ([]Record, error) {
	tx := r.conn(ctx).Where("user_id = ?", q.UserID)
	if q.From != nil {
		tx = tx.Where("date >= ?", *q.From)
	}
	if q.To != nil {
		tx = tx.Where("date <= ?", *q.To)
	}
	if q.Before != nil {
		tx = tx.Where("date < ?", *q.Before)
	}

	var recs []Record
	err := tx.Order("date DESC").Limit(q.Limit).Find(&recs).Error
	return recs, err
}

func (r *repository) Between(ctx context.Context, userID string, from, to time.Time) ([]Record, error) {
	var recs []Record
	err := r.conn(ctx).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, from, to).
		Order("date").
		Find(&recs).Error
	return recs, err
}

func (r *repository) List(ctx context.Context, q ListQuery) ([]RecordRow, int64, error) {
	tx := r.conn(ctx).
		Table("attendance_records AS a").
		Joins("JOIN users u ON u.id = a.user_id").
		Joins("LEFT JOIN master_employees m ON m.user_id = a.user_id AND m.status <> 'deleted'")
	if q.From != nil {
		tx = tx.Where("a.date >= ?", *q.From)
	}
	if q.To != nil {
		tx = tx.Where("a.date <= ?", *q.To)
	}
	if q.UserID != "" {
		tx = tx.Where("a.user_id = ?", q.UserID)
	}
	if q.Department != "" {
		tx = tx.Where("LOWER(u.department) = LOWER(?)", q.Department)
	}
	if q.Status != "" {
		tx = tx.Where("a.status = ?", q.Status)
	}
	if q.MinLeaves != nil {
		leaves := r.conn(ctx).
			Table("attendance_records").
			Select("user_id").
			Where("status = ?", string(StatusLeave))
		if q.From != nil {
			leaves = leaves.Where("date >= ?", *q.From)
		}
		if q.To != nil {
			leaves = leaves.Where("date <= ?", *q.To)
		}
		leaves = leaves.Group("user_id").Having("COUNT(*) > ?", *q.MinLeaves)
		tx = tx.Where("a.user_id IN (?)", leaves)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	tx = tx.
		Select("a.*, u.name, u.email, u.department, m.employee_id").
		Order("a.date DESC, u.name")
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit).Offset(q.Offset)
	}

	var rows []RecordRow
	err := tx.Scan(&rows).Error
	return rows, total, err
}
