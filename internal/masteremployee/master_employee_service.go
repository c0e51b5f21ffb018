package masteremployee

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/Jstali/employee-onboarding-sub000/internal/audit"
	"github.com/Jstali/employee-onboarding-sub000/internal/lifecycle"
	masteremployeeerrors "github.com/Jstali/employee-onboarding-sub000/internal/masteremployee/errors"
	"github.com/Jstali/employee-onboarding-sub000/internal/search"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/contextutil"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/counter"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/sanitize"
	"github.com/Jstali/employee-onboarding-sub000/internal/user"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	ManagerOptionsKey = "master_employees:options"
	managerOptionsTTL = time.Hour

	searchLimit       = 20
	maxEmployeeID     = 999999
	nextIDMaxAttempts = 50
)

var employeeIDPattern = regexp.MustCompile(`^[0-9]{6}$`)

//go:generate mockgen -source=master_employee_service.go -destination=mock/master_employee_service_mock.go -package=mock
type Service interface {
	AddToMaster(ctx context.Context, req AddToMasterRequest) (MasterEmployeeResponse, error)
	List(ctx context.Context, filter ListFilter) ([]MasterEmployeeResponse, int64, error)
	GetByID(ctx context.Context, id string) (MasterEmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateMasterEmployeeRequest) (MasterEmployeeResponse, error)
	AssignManager(ctx context.Context, id string, req AssignManagerRequest) (MasterEmployeeResponse, error)
	Delete(ctx context.Context, id string, hard bool) error
	NextEmployeeID(ctx context.Context) (string, error)
	ManagerOptions(ctx context.Context) ([]ManagerOption, error)
	Search(ctx context.Context, query string) ([]MasterEmployeeResponse, error)
	SeedRoot(ctx context.Context, tx *sql.Tx, u *user.User, employeeID string) (func(context.Context), error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	users   user.Repository
	counter counter.Repository
	audit   audit.Recorder
	rdb     redis.Cmdable
	index   search.Index
	sf      *singleflight.Group
	logger  *zap.Logger
}

// NewService wires the roster service. rdb and index may be nil: options
// are then read straight from the database and search falls back to ILIKE.
func NewService(
	db *sql.DB,
	repo Repository,
	users user.Repository,
	counter counter.Repository,
	recorder audit.Recorder,
	rdb redis.Cmdable,
	index search.Index,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("masteremployee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("masteremployee.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		users:   users,
		counter: counter,
		audit:   recorder,
		rdb:     rdb,
		index:   index,
		sf:      &singleflight.Group{},
		logger:  l,
	}
}

func (s *service) AddToMaster(ctx context.Context, req AddToMasterRequest) (MasterEmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("add to master requested",
		zap.String("request_id", rid),
		zap.String("user_id", req.UserID),
		zap.String("employee_id", req.EmployeeID),
	)

	if !employeeIDPattern.MatchString(req.EmployeeID) {
		return MasterEmployeeResponse{}, masteremployeeerrors.ErrInvalidEmployeeID
	}
	if req.ManagerID == "" {
		return MasterEmployeeResponse{}, masteremployeeerrors.ErrManagerRequired
	}
	if _, err := uuid.Parse(req.UserID); err != nil {
		return MasterEmployeeResponse{}, masteremployeeerrors.ErrUserNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("add to master begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return MasterEmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	utx := s.users.WithTx(tx)

	u, err := utx.FindByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return MasterEmployeeResponse{}, masteremployeeerrors.ErrUserNotFound
		}
		return MasterEmployeeResponse{}, err
	}
	if err := lifecycle.Check(u.State(), lifecycle.TriggerAddToMaster); err != nil {
		s.logger.Info("add to master rejected by lifecycle",
			zap.String("user_id", req.UserID),
			zap.String("state", string(u.State())),
		)
		return MasterEmployeeResponse{}, err
	}

	mgr, err := s.activeManager(ctx, qtx, req.ManagerID)
	if err != nil {
		return MasterEmployeeResponse{}, err
	}

	now := time.Now().UTC()
	rec := &MasterEmployee{
		ID:            uuid.New(),
		UserID:        u.ID,
		EmployeeID:    req.EmployeeID,
		Name:          u.Name,
		Email:         u.Email,
		PersonalEmail: req.PersonalEmail,
		EmployeeType:  u.EmployeeType,
		Role:          u.Role,
		Status:        StatusActive,
		Department:    u.Department,
		JoinDate:      u.JoinDate,
		ManagerID:     &mgr.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.Department != nil {
		rec.Department = sanitize.TextPtr(req.Department)
	}

	if err := qtx.Create(ctx, rec); err != nil {
		s.logger.Warn("add to master persist failed",
			zap.String("user_id", req.UserID),
			zap.String("employee_id", req.EmployeeID),
			zap.Error(err),
		)
		return MasterEmployeeResponse{}, mapRepositoryError(err)
	}

	managerUserID := mgr.UserID.String()
	if err := utx.SetManager(ctx, req.UserID, &managerUserID); err != nil {
		s.logger.Error("backfill user manager failed", zap.String("user_id", req.UserID), zap.Error(err))
		return MasterEmployeeResponse{}, err
	}

	if err := s.audit.Record(ctx, tx, audit.Entry{
		Action:   audit.ActionMasterAdded,
		TargetID: req.UserID,
		Details: map[string]any{
			"record_id":   rec.ID.String(),
			"employee_id": rec.EmployeeID,
			"manager_id":  mgr.ID.String(),
		},
	}); err != nil {
		return MasterEmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("add to master commit failed", zap.String("request_id", rid), zap.Error(err))
		return MasterEmployeeResponse{}, err
	}

	rec.Manager = mgr
	s.afterMutation(ctx, rec)

	s.logger.Info("employee added to master roster",
		zap.String("request_id", rid),
		zap.String("user_id", req.UserID),
		zap.String("employee_id", rec.EmployeeID),
	)
	return mapToResponse(*rec), nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]MasterEmployeeResponse, int64, error) {
	q := ListQuery{
		Status:     Status(filter.Status),
		Department: filter.Department,
		ManagerID:  filter.ManagerID,
		Limit:      filter.PageSize,
		Offset:     (filter.Page - 1) * filter.PageSize,
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	recs, total, err := s.repo.List(ctx, q)
	if err != nil {
		s.logger.Error("list master employees failed", zap.Error(err))
		return nil, 0, mapRepositoryError(err)
	}
	return mapToListResponse(recs), total, nil
}

func (s *service) GetByID(ctx context.Context, id string) (MasterEmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return MasterEmployeeResponse{}, masteremployeeerrors.ErrInvalidRecordID
	}
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return MasterEmployeeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*rec), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateMasterEmployeeRequest) (MasterEmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return MasterEmployeeResponse{}, masteremployeeerrors.ErrInvalidRecordID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return MasterEmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	rec, err := qtx.FindByID(ctx, id)
	if err != nil {
		return MasterEmployeeResponse{}, mapRepositoryError(err)
	}
	if rec.Status == StatusDeleted {
		return MasterEmployeeResponse{}, masteremployeeerrors.ErrRecordDeleted
	}

	changed := map[string]any{}
	if req.Department != nil {
		rec.Department = sanitize.TextPtr(req.Department)
		changed["department"] = rec.Department
	}
	if req.PersonalEmail != nil {
		rec.PersonalEmail = req.PersonalEmail
		if *req.PersonalEmail == "" {
			rec.PersonalEmail = nil
		}
		changed["personal_email"] = rec.PersonalEmail
	}
	if req.EmployeeType != nil {
		et := *req.EmployeeType
		rec.EmployeeType = &et
		changed["employee_type"] = et
	}
	if req.Status != nil {
		rec.Status = Status(*req.Status)
		changed["status"] = rec.Status
	}

	if err := qtx.Update(ctx, rec); err != nil {
		s.logger.Error("update master employee persist failed", zap.String("id", id), zap.Error(err))
		return MasterEmployeeResponse{}, mapRepositoryError(err)
	}

	if err := s.audit.Record(ctx, tx, audit.Entry{
		Action:   audit.ActionMasterUpdated,
		TargetID: rec.UserID.String(),
		Details:  changed,
	}); err != nil {
		return MasterEmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update master employee commit failed", zap.Error(err))
		return MasterEmployeeResponse{}, err
	}

	s.afterMutation(ctx, rec)
	s.logger.Info("master employee updated", zap.String("id", id))
	return mapToResponse(*rec), nil
}

func (s *service) AssignManager(ctx context.Context, id string, req AssignManagerRequest) (MasterEmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return MasterEmployeeResponse{}, masteremployeeerrors.ErrInvalidRecordID
	}
	if req.ManagerID == id {
		return MasterEmployeeResponse{}, masteremployeeerrors.ErrSelfManager
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return MasterEmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	rec, err := qtx.FindByID(ctx, id)
	if err != nil {
		return MasterEmployeeResponse{}, mapRepositoryError(err)
	}
	if rec.Status == StatusDeleted {
		return MasterEmployeeResponse{}, masteremployeeerrors.ErrRecordDeleted
	}

	mgr, err := s.activeManager(ctx, qtx, req.ManagerID)
	if err != nil {
		return MasterEmployeeResponse{}, err
	}

	cycle, err := qtx.InChain(ctx, mgr.ID.String(), id)
	if err != nil {
		s.logger.Error("manager chain lookup failed", zap.String("id", id), zap.Error(err))
		return MasterEmployeeResponse{}, err
	}
	if cycle {
		return MasterEmployeeResponse{}, masteremployeeerrors.ErrManagerCycle
	}

	if err := qtx.UpdateManager(ctx, id, mgr.ID.String()); err != nil {
		return MasterEmployeeResponse{}, mapRepositoryError(err)
	}
	managerUserID := mgr.UserID.String()
	if err := s.users.WithTx(tx).SetManager(ctx, rec.UserID.String(), &managerUserID); err != nil {
		return MasterEmployeeResponse{}, err
	}

	if err := s.audit.Record(ctx, tx, audit.Entry{
		Action:   audit.ActionManagerAssigned,
		TargetID: rec.UserID.String(),
		Details:  map[string]any{"record_id": id, "previous_manager_id": rec.ManagerID, "manager_id": mgr.ID.String()},
	}); err != nil {
		return MasterEmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return MasterEmployeeResponse{}, err
	}

	rec.ManagerID = &mgr.ID
	rec.Manager = mgr
	s.afterMutation(ctx, rec)
	s.logger.Info("manager assigned", zap.String("id", id), zap.String("manager_id", mgr.ID.String()))
	return mapToResponse(*rec), nil
}

func (s *service) Delete(ctx context.Context, id string, hard bool) error {
	if _, err := uuid.Parse(id); err != nil {
		return masteremployeeerrors.ErrInvalidRecordID
	}
	rid := contextutil.GetRequestID(ctx)

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

	if hard {
		if err := qtx.Delete(ctx, id); err != nil {
			s.logger.Warn("hard delete master employee failed", zap.String("id", id), zap.Error(err))
			return mapRepositoryError(err)
		}
	} else {
		if rec.Status == StatusDeleted {
			return masteremployeeerrors.ErrRecordDeleted
		}
		ok, err := qtx.SoftDelete(ctx, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		if !ok {
			hasReports, err := qtx.HasActiveReports(ctx, id)
			if err != nil {
				return err
			}
			if hasReports {
				return masteremployeeerrors.ErrManagerHasReports
			}
			// deleted concurrently
			return masteremployeeerrors.ErrRecordDeleted
		}
	}

	if err := s.audit.Record(ctx, tx, audit.Entry{
		Action:   audit.ActionMasterDeleted,
		TargetID: rec.UserID.String(),
		Details:  map[string]any{"record_id": id, "employee_id": rec.EmployeeID, "hard": hard},
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete master employee commit failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}

	s.invalidateOptions(ctx)
	if s.index != nil {
		if err := s.index.Remove(context.WithoutCancel(ctx), id); err != nil {
			s.logger.Warn("remove roster record from index failed", zap.String("id", id), zap.Error(err))
		}
	}

	s.logger.Info("master employee deleted", zap.String("request_id", rid), zap.String("id", id), zap.Bool("hard", hard))
	return nil
}

// NextEmployeeID draws from the shared counter and skips ids that were
// assigned by hand.
func (s *service) NextEmployeeID(ctx context.Context) (string, error) {
	for range nextIDMaxAttempts {
		v, err := s.counter.GetNextValue(ctx, counter.EmployeeIDCounter)
		if err != nil {
			s.logger.Error("employee id counter failed", zap.Error(err))
			return "", err
		}
		if v > maxEmployeeID {
			return "", masteremployeeerrors.ErrEmployeeIDsExhausted
		}
		candidate := fmt.Sprintf("%06d", v)
		taken, err := s.repo.EmployeeIDExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", masteremployeeerrors.ErrEmployeeIDsExhausted
}

func (s *service) ManagerOptions(ctx context.Context) ([]ManagerOption, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, ManagerOptionsKey).Result(); err == nil {
			var opts []ManagerOption
			if json.Unmarshal([]byte(cached), &opts) == nil {
				return opts, nil
			}
		}
	}

	v, err, _ := s.sf.Do(ManagerOptionsKey, func() (any, error) {
		recs, err := s.repo.Options(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		opts := make([]ManagerOption, len(recs))
		for i, r := range recs {
			opts[i] = ManagerOption{ID: r.ID.String(), EmployeeID: r.EmployeeID, Name: r.Name}
		}

		if s.rdb != nil {
			if data, err := json.Marshal(opts); err == nil {
				if err := s.rdb.Set(ctx, ManagerOptionsKey, data, managerOptionsTTL).Err(); err != nil {
					s.logger.Warn("cache manager options failed", zap.Error(err))
				}
			}
		}
		return opts, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]ManagerOption), nil
}

func (s *service) Search(ctx context.Context, query string) ([]MasterEmployeeResponse, error) {
	query = sanitize.Text(query)
	if query == "" {
		return []MasterEmployeeResponse{}, nil
	}

	if s.index != nil {
		ids, err := s.index.Search(ctx, query, searchLimit)
		if err == nil {
			recs, err := s.repo.FindByIDs(ctx, ids)
			if err != nil {
				return nil, mapRepositoryError(err)
			}
			return mapToListResponse(orderByIDs(recs, ids)), nil
		}
		s.logger.Warn("search index unavailable, falling back to database", zap.Error(err))
	}

	recs, err := s.repo.Search(ctx, query, searchLimit)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(recs), nil
}

// SeedRoot inserts the first roster record, which has no manager. It runs
// inside the caller's transaction; the returned hook refreshes the cache and
// search index and must be called only after that transaction commits.
func (s *service) SeedRoot(ctx context.Context, tx *sql.Tx, u *user.User, employeeID string) (func(context.Context), error) {
	if !employeeIDPattern.MatchString(employeeID) {
		return nil, masteremployeeerrors.ErrInvalidEmployeeID
	}

	now := time.Now().UTC()
	rec := &MasterEmployee{
		ID:           uuid.New(),
		UserID:       u.ID,
		EmployeeID:   employeeID,
		Name:         u.Name,
		Email:        u.Email,
		EmployeeType: u.EmployeeType,
		Role:         u.Role,
		Status:       StatusActive,
		Department:   u.Department,
		JoinDate:     u.JoinDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.WithTx(tx).Create(ctx, rec); err != nil {
		return nil, mapRepositoryError(err)
	}
	if err := s.audit.Record(ctx, tx, audit.Entry{
		Action:   audit.ActionMasterAdded,
		TargetID: u.ID.String(),
		Details:  map[string]any{"record_id": rec.ID.String(), "employee_id": employeeID, "root": true},
	}); err != nil {
		return nil, err
	}

	return func(ctx context.Context) { s.afterMutation(ctx, rec) }, nil
}

func (s *service) activeManager(ctx context.Context, repo Repository, managerID string) (*MasterEmployee, error) {
	if _, err := uuid.Parse(managerID); err != nil {
		return nil, masteremployeeerrors.ErrManagerNotInRoster
	}
	mgr, err := repo.FindByID(ctx, managerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, masteremployeeerrors.ErrManagerNotInRoster
		}
		return nil, err
	}
	if mgr.Status != StatusActive {
		return nil, masteremployeeerrors.ErrManagerNotInRoster
	}
	return mgr, nil
}

func (s *service) afterMutation(ctx context.Context, rec *MasterEmployee) {
	s.invalidateOptions(ctx)
	if s.index == nil {
		return
	}
	if err := s.index.Upsert(context.WithoutCancel(ctx), toDocument(rec)); err != nil {
		s.logger.Warn("index roster record failed", zap.String("id", rec.ID.String()), zap.Error(err))
	}
}

func (s *service) invalidateOptions(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, ManagerOptionsKey).Err(); err != nil {
		s.logger.Error("failed to invalidate manager options cache",
			zap.Error(err),
			zap.String("key", ManagerOptionsKey),
		)
	}
}

func orderByIDs(recs []MasterEmployee, ids []string) []MasterEmployee {
	byID := make(map[string]MasterEmployee, len(recs))
	for _, r := range recs {
		byID[r.ID.String()] = r
	}
	out := make([]MasterEmployee, 0, len(recs))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			out = append(out, r)
		}
	}
	return out
}
