package onboarding

import (
	"context"
	"database/sql"
	"time"

	"github.com/Jstali/employee-onboarding-sub000/internal/lifecycle"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/connection"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ListQuery struct {
	Statuses []lifecycle.Status
	Limit    int
	Offset   int
}

//go:generate mockgen -source=onboarding_repo.go -destination=mock/onboarding_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	// Upsert inserts the user's form or replaces every section of the
	// existing one. SubmittedAt is kept from the first submission.
	Upsert(ctx context.Context, f *Form) error
	FindByUserID(ctx context.Context, userID string) (*Form, error)
	List(ctx context.Context, q ListQuery) ([]FormRow, int64, error)
	Update(ctx context.Context, f *Form) error
	Delete(ctx context.Context, userID string) error
	CreateDocuments(ctx context.Context, docs []Document) error
	ListDocuments(ctx context.Context, userID string) ([]Document, error)
	FindDocument(ctx context.Context, id string) (*Document, error)
	DocumentTypes(ctx context.Context, userID string) ([]DocumentType, error)
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

func (r *repository) Upsert(ctx context.Context, f *Form) error {
	return r.conn(ctx).
		Clauses(
			clause.OnConflict{
				Columns: []clause.Column{{Name: "user_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"personal_info", "bank_info", "education_info",
					"tech_certificates", "work_experience", "contract_period",
					"aadhar_number", "pan_number", "passport_number",
					"photo_url", "join_date", "updated_at",
				}),
			},
			clause.Returning{Columns: []clause.Column{{Name: "id"}, {Name: "submitted_at"}}},
		).
		Create(f).Error
}

func (r *repository) FindByUserID(ctx context.Context, userID string) (*Form, error) {
	var f Form
	if err := r.conn(ctx).First(&f, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *repository) List(ctx context.Context, q ListQuery) ([]FormRow, int64, error) {
	tx := r.conn(ctx).
		Table("onboarding_forms AS f").
		Joins("JOIN users u ON u.id = f.user_id")
	if len(q.Statuses) > 0 {
		statuses := make([]string, len(q.Statuses))
		for i, s := range q.Statuses {
			statuses[i] = string(s)
		}
		tx = tx.Where("u.status IN ?", statuses)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []FormRow
	err := tx.
		Select("f.*, u.name, u.email, u.employee_type, u.status AS user_status").
		Order("f.updated_at DESC").
		Limit(q.Limit).
		Offset(q.Offset).
		Scan(&rows).Error
	return rows, total, err
}

func (r *repository) Update(ctx context.Context, f *Form) error {
	f.UpdatedAt = time.Now().UTC()
	res := r.conn(ctx).
		Model(f).
		Select(
			"personal_info", "bank_info", "education_info",
			"tech_certificates", "work_experience", "contract_period",
			"aadhar_number", "pan_number", "passport_number", "join_date", "updated_at",
		).
		Updates(f)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, userID string) error {
	res := r.conn(ctx).Delete(&Form{}, "user_id = ?", userID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CreateDocuments(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	return r.conn(ctx).Create(&docs).Error
}

func (r *repository) ListDocuments(ctx context.Context, userID string) ([]Document, error) {
	var docs []Document
	err := r.conn(ctx).
		Where("user_id = ?", userID).
		Order("uploaded_at DESC").
		Find(&docs).Error
	return docs, err
}

func (r *repository) FindDocument(ctx context.Context, id string) (*Document, error) {
	var d Document
	if err := r.conn(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) DocumentTypes(ctx context.Context, userID string) ([]DocumentType, error) {
	var types []DocumentType
	err := r.conn(ctx).
		Model(&Document{}).
		Where("user_id = ?", userID).
		Distinct("document_type").
		Pluck("document_type", &types).Error
	return types, err
}
