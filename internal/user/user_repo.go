package user

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/Jstali/employee-onboarding-sub000/internal/lifecycle"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/connection"

	"gorm.io/gorm"
)

const inRosterColumn = `EXISTS (
	SELECT 1 FROM master_employees m
	WHERE m.user_id = users.id AND m.status <> 'deleted'
) AS in_roster`

type ListQuery struct {
	Statuses   []lifecycle.Status
	Role       string
	Department string
	Onboarded  *bool
	Search     string
	Limit      int
	Offset     int
}

//go:generate mockgen -source=user_repo.go -destination=mock/user_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, q ListQuery) ([]User, int64, error)
	UpdateProfile(ctx context.Context, u *User) error
	UpdatePassword(ctx context.Context, id, hash string, firstLogin bool) error
	SetManager(ctx context.Context, id string, managerUserID *string) error
	// TransitionStatus moves the user to `to` only if the current status is
	// one of from. It reports whether a row changed.
	TransitionStatus(ctx context.Context, id string, from []lifecycle.Status, to lifecycle.Status) (bool, error)
	RetireRosterRecord(ctx context.Context, userID string) (bool, error)
	HasActiveReports(ctx context.Context, userID string) (bool, error)
	DocumentLocations(ctx context.Context, userID string) ([]string, error)
	Delete(ctx context.Context, id string) error
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

func (r *repository) Create(ctx context.Context, u *User) error {
	return r.conn(ctx).
		Omit("form_submitted", "hr_approved", "onboarded", "in_roster").
		Create(u).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.conn(ctx).
		Select("users.*", inRosterColumn).
		First(&u, "users.id = ?", id).Error
	return &u, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.conn(ctx).
		Select("users.*", inRosterColumn).
		First(&u, "lower(users.email) = lower(?)", strings.TrimSpace(email)).Error
	return &u, err
}

func (r *repository) List(ctx context.Context, q ListQuery) ([]User, int64, error) {
	db := r.conn(ctx).Model(&User{})
	if len(q.Statuses) > 0 {
		db = db.Where("users.status IN ?", statusStrings(q.Statuses))
	} else {
		db = db.Where("users.status <> ?", lifecycle.StatusDeleted)
	}
	if q.Role != "" {
		db = db.Where("users.role = ?", q.Role)
	}
	if q.Department != "" {
		db = db.Where("users.department = ?", q.Department)
	}
	if q.Onboarded != nil {
		db = db.Where("users.onboarded = ?", *q.Onboarded)
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		like := "%" + s + "%"
		db = db.Where("(users.name ILIKE ? OR users.email ILIKE ?)", like, like)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []User
	err := db.
		Select("users.*", inRosterColumn).
		Order("users.created_at DESC").
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&users).Error
	return users, total, err
}

func (r *repository) UpdateProfile(ctx context.Context, u *User) error {
	u.UpdatedAt = time.Now().UTC()
	return r.conn(ctx).
		Model(u).
		Select("name", "employee_type", "department", "join_date", "manager_id", "updated_at").
		Updates(u).Error
}

func (r *repository) UpdatePassword(ctx context.Context, id, hash string, firstLogin bool) error {
	res := r.conn(ctx).
		Model(&User{}).
		Where("id = ? AND status <> ?", id, lifecycle.StatusDeleted).
		Updates(map[string]any{
			"password_hash":  hash,
			"is_first_login": firstLogin,
			"updated_at":     time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) SetManager(ctx context.Context, id string, managerUserID *string) error {
	return r.conn(ctx).
		Model(&User{}).
		Where("id = ?", id).
		Updates(map[string]any{"manager_id": managerUserID, "updated_at": time.Now().UTC()}).Error
}

func (r *repository) TransitionStatus(ctx context.Context, id string, from []lifecycle.Status, to lifecycle.Status) (bool, error) {
	res := r.conn(ctx).
		Model(&User{}).
		Where("id = ? AND status IN ?", id, statusStrings(from)).
		Updates(map[string]any{"status": string(to), "updated_at": time.Now().UTC()})
	return res.RowsAffected > 0, res.Error
}

// RetireRosterRecord soft-deletes the user's roster record unless it still
// manages a non-deleted record.
func (r *repository) RetireRosterRecord(ctx context.Context, userID string) (bool, error) {
	res := r.conn(ctx).Exec(`
UPDATE master_employees SET status = 'deleted', updated_at = now()
WHERE user_id = ? AND status <> 'deleted'
	AND NOT EXISTS (
		SELECT 1 FROM master_employees r
		WHERE r.manager_id = master_employees.id AND r.status <> 'deleted'
	)`, userID)
	return res.RowsAffected > 0, res.Error
}

func (r *repository) HasActiveReports(ctx context.Context, userID string) (bool, error) {
	var n int64
	err := r.conn(ctx).
		Table("master_employees AS r").
		Joins("JOIN master_employees m ON r.manager_id = m.id").
		Where("m.user_id = ? AND r.status <> 'deleted'", userID).
		Count(&n).Error
	return n > 0, err
}

func (r *repository) DocumentLocations(ctx context.Context, userID string) ([]string, error) {
	var locations []string
	err := r.conn(ctx).
		Table("documents").
		Where("user_id = ?", userID).
		Pluck("storage_path", &locations).Error
	return locations, err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := r.conn(ctx).Delete(&User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func statusStrings(statuses []lifecycle.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
