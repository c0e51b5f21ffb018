package masteremployee

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/Jstali/employee-onboarding-sub000/internal/shared/connection"

	"gorm.io/gorm"
)

type ListQuery struct {
	Status     Status
	Department string
	ManagerID  string
	Limit      int
	Offset     int
}

//go:generate mockgen -source=master_employee_repo.go -destination=mock/master_employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, rec *MasterEmployee) error
	FindByID(ctx context.Context, id string) (*MasterEmployee, error)
	FindByIDs(ctx context.Context, ids []string) ([]MasterEmployee, error)
	List(ctx context.Context, q ListQuery) ([]MasterEmployee, int64, error)
	Options(ctx context.Context) ([]MasterEmployee, error)
	Search(ctx context.Context, term string, limit int) ([]MasterEmployee, error)
	Update(ctx context.Context, rec *MasterEmployee) error
	UpdateManager(ctx context.Context, id, managerID string) error
	// InChain reports whether target is start or one of start's managers.
	InChain(ctx context.Context, start, target string) (bool, error)
	// SoftDelete marks the record deleted unless it still manages a
	// non-deleted record. It reports whether a row changed.
	SoftDelete(ctx context.Context, id string) (bool, error)
	HasActiveReports(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
	EmployeeIDExists(ctx context.Context, employeeID string) (bool, error)
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

func (r *repository) Create(ctx context.Context, rec *MasterEmployee) error {
	return r.conn(ctx).Omit("Manager").Create(rec).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*MasterEmployee, error) {
	var rec MasterEmployee
	err := r.conn(ctx).Preload("Manager").First(&rec, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []string) ([]MasterEmployee, error) {
	var recs []MasterEmployee
	if len(ids) == 0 {
		return recs, nil
	}
	err := r.conn(ctx).
		Preload("Manager").
		Where("id IN ? AND status <> ?", ids, StatusDeleted).
		Find(&recs).Error
	return recs, err
}

func (r *repository) List(ctx context.Context, q ListQuery) ([]MasterEmployee, int64, error) {
	tx := r.conn(ctx).Model(&MasterEmployee{})
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	} else {
		tx = tx.Where("status <> ?", StatusDeleted)
	}
	if q.Department != "" {
		tx = tx.Where("department = ?", q.Department)
	}
	if q.ManagerID != "" {
		tx = tx.Where("manager_id = ?", q.ManagerID)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recs []MasterEmployee
	err := tx.
		Preload("Manager").
		Order("employee_id ASC").
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&recs).Error
	return recs, total, err
}

func (r *repository) Options(ctx context.Context) ([]MasterEmployee, error) {
	var recs []MasterEmployee
	err := r.conn(ctx).
		Select("id", "employee_id", "name").
		Where("status = ?", StatusActive).
		Order("name ASC").
		Find(&recs).Error
	return recs, err
}

func (r *repository) Search(ctx context.Context, term string, limit int) ([]MasterEmployee, error) {
	like := "%" + EscapeLike(term) + "%"
	var recs []MasterEmployee
	err := r.conn(ctx).
		Preload("Manager").
		Where("status <> ?", StatusDeleted).
		Where(`name ILIKE ? ESCAPE '\' OR email ILIKE ? ESCAPE '\' OR employee_id LIKE ? ESCAPE '\' OR department ILIKE ? ESCAPE '\'`,
			like, like, like, like).
		Order("name ASC").
		Limit(limit).
		Find(&recs).Error
	return recs, err
}

func (r *repository) Update(ctx context.Context, rec *MasterEmployee) error {
	rec.UpdatedAt = time.Now().UTC()
	return r.conn(ctx).
		Model(rec).
		Select("department", "personal_email", "employee_type", "status", "updated_at").
		Updates(rec).Error
}

func (r *repository) UpdateManager(ctx context.Context, id, managerID string) error {
	res := r.conn(ctx).
		Model(&MasterEmployee{}).
		Where("id = ? AND status <> ?", id, StatusDeleted).
		Updates(map[string]any{"manager_id": managerID, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) InChain(ctx context.Context, start, target string) (bool, error) {
	var found bool
	err := r.conn(ctx).Raw(`
WITH RECURSIVE chain AS (
	SELECT id, manager_id FROM master_employees WHERE id = ?
	UNION
	SELECT m.id, m.manager_id FROM master_employees m
	JOIN chain c ON m.id = c.manager_id
)
SELECT EXISTS (SELECT 1 FROM chain WHERE id = ?)`, start, target).Scan(&found).Error
	return found, err
}

func (r *repository) SoftDelete(ctx context.Context, id string) (bool, error) {
	res := r.conn(ctx).Exec(`
UPDATE master_employees SET status = 'deleted', updated_at = now()
WHERE id = ? AND status <> 'deleted'
	AND NOT EXISTS (
		SELECT 1 FROM master_employees r
		WHERE r.manager_id = master_employees.id AND r.status <> 'deleted'
	)`, id)
	return res.RowsAffected > 0, res.Error
}

func (r *repository) HasActiveReports(ctx context.Context, id string) (bool, error) {
	var n int64
	err := r.conn(ctx).
		Model(&MasterEmployee{}).
		Where("manager_id = ? AND status <> ?", id, StatusDeleted).
		Count(&n).Error
	return n > 0, err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := r.conn(ctx).Delete(&MasterEmployee{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) EmployeeIDExists(ctx context.Context, employeeID string) (bool, error) {
	var n int64
	err := r.conn(ctx).
		Model(&MasterEmployee{}).
		Where("employee_id = ?", employeeID).
		Count(&n).Error
	return n > 0, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// EscapeLike makes term match literally inside a LIKE pattern using '\' as
// the escape character.
func EscapeLike(term string) string {
	return likeEscaper.Replace(term)
}
