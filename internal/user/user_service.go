package user

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/Jstali/employee-onboarding-sub000/internal/audit"
	"github.com/Jstali/employee-onboarding-sub000/internal/config"
	"github.com/Jstali/employee-onboarding-sub000/internal/domain"
	"github.com/Jstali/employee-onboarding-sub000/internal/lifecycle"
	lifecycleerrors "github.com/Jstali/employee-onboarding-sub000/internal/lifecycle/errors"
	"github.com/Jstali/employee-onboarding-sub000/internal/notification"
	"github.com/Jstali/employee-onboarding-sub000/internal/session"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/contextutil"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/password"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/sanitize"
	"github.com/Jstali/employee-onboarding-sub000/internal/storage"
	usererrors "github.com/Jstali/employee-onboarding-sub000/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RosterSeeder creates the root roster record for the bootstrap HR account.
type RosterSeeder interface {
	SeedRoot(ctx context.Context, tx *sql.Tx, u *User, employeeID string) (afterCommit func(context.Context), err error)
}

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (CreateEmployeeResponse, error)
	List(ctx context.Context, filter ListFilter) ([]UserResponse, int64, error)
	GetByID(ctx context.Context, id string) (UserResponse, error)
	Update(ctx context.Context, id string, req UpdateUserRequest) (UserResponse, error)
	ChangePassword(ctx context.Context, userID, currentToken string, req ChangePasswordRequest) error
	ResetPassword(ctx context.Context, id string) (ResetPasswordResponse, error)
	Delete(ctx context.Context, id string, hard bool) error
	EnsureDefaultHR(ctx context.Context, cfg config.BootstrapConfig, seeder RosterSeeder) error
}

type service struct {
	db       *sql.DB
	repo     Repository
	audit    audit.Recorder
	notifier notification.Notifier
	sessions session.Store
	objects  storage.ObjectStorage
	appURL   string
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	recorder audit.Recorder,
	notifier notification.Notifier,
	sessions session.Store,
	objects storage.ObjectStorage,
	appURL string,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		audit:    recorder,
		notifier: notifier,
		sessions: sessions,
		objects:  objects,
		appURL:   appURL,
		logger:   l,
	}
}

func (s *service) CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (CreateEmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	role := req.Role
	if role == "" {
		role = domain.RoleEmployee
	}
	email := normalizeEmail(req.Email)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("email", email),
		zap.String("role", role),
	)

	if role == domain.RoleEmployee && req.EmployeeType == "" {
		return CreateEmployeeResponse{}, usererrors.ErrEmployeeTypeRequired
	}

	u := &User{
		ID:           uuid.New(),
		Name:         sanitize.Text(req.Name),
		Email:        email,
		Role:         role,
		Status:       lifecycle.StatusPending,
		Department:   sanitize.TextPtr(req.Department),
		IsFirstLogin: true,
	}
	if req.EmployeeType != "" {
		et := req.EmployeeType
		u.EmployeeType = &et
	}
	if req.JoinDate != "" {
		d, err := parseDate(req.JoinDate)
		if err != nil {
			return CreateEmployeeResponse{}, err
		}
		u.JoinDate = &d
	}
	if req.ManagerID != "" {
		mgr, err := s.loadManager(ctx, s.repo, req.ManagerID, u.ID.String())
		if err != nil {
			return CreateEmployeeResponse{}, err
		}
		u.ManagerID = &mgr.ID
	}

	tempPassword, err := password.Temporary()
	if err != nil {
		return CreateEmployeeResponse{}, err
	}
	if u.PasswordHash, err = password.Hash(tempPassword); err != nil {
		s.logger.Error("hash temporary password failed", zap.Error(err))
		return CreateEmployeeResponse{}, err
	}

	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now

	msg := notification.Message{
		Kind:   notification.KindAccountCreated,
		To:     u.Email,
		UserID: u.ID.String(),
		Data: map[string]string{
			"name":               u.Name,
			"email":              u.Email,
			"temporary_password": tempPassword,
			"app_url":            s.appURL,
		},
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return CreateEmployeeResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, u); err != nil {
		s.logger.Warn("create employee persist failed", zap.String("email", email), zap.Error(err))
		return CreateEmployeeResponse{}, mapRepositoryError(err)
	}

	if err := s.audit.Record(ctx, tx, audit.Entry{
		Action:   audit.ActionUserCreated,
		TargetID: u.ID.String(),
		Details:  map[string]any{"email": u.Email, "role": u.Role, "employee_type": u.EmployeeType},
	}); err != nil {
		return CreateEmployeeResponse{}, err
	}

	if err := s.notifier.Stage(ctx, tx, msg); err != nil {
		s.logger.Error("stage account notification failed", zap.String("request_id", rid), zap.Error(err))
		return CreateEmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create employee commit failed", zap.String("request_id", rid), zap.Error(err))
		return CreateEmployeeResponse{}, err
	}

	s.notifier.Deliver(ctx, msg)

	s.logger.Info("employee account created",
		zap.String("request_id", rid),
		zap.String("user_id", u.ID.String()),
	)
	return CreateEmployeeResponse{User: mapToResponse(*u), TemporaryPassword: tempPassword}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]UserResponse, int64, error) {
	q := ListQuery{
		Role:       filter.Role,
		Department: filter.Department,
		Onboarded:  filter.Onboarded,
		Search:     filter.Search,
		Limit:      filter.PageSize,
		Offset:     (filter.Page - 1) * filter.PageSize,
	}
	if filter.Status != "" {
		q.Statuses = []lifecycle.Status{lifecycle.Status(filter.Status)}
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	users, total, err := s.repo.List(ctx, q)
	if err != nil {
		s.logger.Error("list users failed", zap.Error(err))
		return nil, 0, mapRepositoryError(err)
	}
	return mapToListResponse(users), total, nil
}

func (s *service) GetByID(ctx context.Context, id string) (UserResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*u), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateUserRequest) (UserResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return UserResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	u, err := qtx.FindByID(ctx, id)
	if err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}
	if u.Status == lifecycle.StatusDeleted {
		return UserResponse{}, lifecycleerrors.ErrAccountDeleted
	}

	changed := map[string]any{}
	if req.Name != nil {
		u.Name = sanitize.Text(*req.Name)
		changed["name"] = u.Name
	}
	if req.Department != nil {
		u.Department = sanitize.TextPtr(req.Department)
		changed["department"] = u.Department
	}
	if req.EmployeeType != nil {
		et := *req.EmployeeType
		u.EmployeeType = &et
		changed["employee_type"] = et
	}
	if req.JoinDate != nil {
		d, err := parseDate(*req.JoinDate)
		if err != nil {
			return UserResponse{}, err
		}
		u.JoinDate = &d
		changed["join_date"] = *req.JoinDate
	}
	if req.ManagerID != nil {
		if strings.TrimSpace(*req.ManagerID) == "" {
			u.ManagerID = nil
		} else {
			mgr, err := s.loadManager(ctx, qtx, *req.ManagerID, id)
			if err != nil {
				return UserResponse{}, err
			}
			u.ManagerID = &mgr.ID
		}
		changed["manager_id"] = *req.ManagerID
	}
	if u.Role == domain.RoleEmployee && u.EmployeeType == nil {
		return UserResponse{}, usererrors.ErrEmployeeTypeRequired
	}

	if err := qtx.UpdateProfile(ctx, u); err != nil {
		s.logger.Error("update user persist failed", zap.String("user_id", id), zap.Error(err))
		return UserResponse{}, mapRepositoryError(err)
	}

	if err := s.audit.Record(ctx, tx, audit.Entry{
		Action:   audit.ActionUserUpdated,
		TargetID: id,
		Details:  changed,
	}); err != nil {
		return UserResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update user commit failed", zap.Error(err))
		return UserResponse{}, err
	}

	s.logger.Info("user updated", zap.String("user_id", id))
	return mapToResponse(*u), nil
}

func (s *service) ChangePassword(ctx context.Context, userID, currentToken string, req ChangePasswordRequest) error {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return mapRepositoryError(err)
	}
	if u.Status == lifecycle.StatusDeleted {
		return lifecycleerrors.ErrAccountDeleted
	}

	if err := password.Compare(u.PasswordHash, req.CurrentPassword); err != nil {
		return usererrors.ErrWrongPassword
	}
	if req.CurrentPassword == req.NewPassword {
		return usererrors.ErrPasswordReused
	}

	hash, err := password.Hash(req.NewPassword)
	if err != nil {
		s.logger.Error("hash new password failed", zap.Error(err))
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).UpdatePassword(ctx, userID, hash, false); err != nil {
		return mapRepositoryError(err)
	}
	if err := s.audit.Record(ctx, tx, audit.Entry{
		Action:   audit.ActionPasswordChanged,
		TargetID: userID,
	}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	if err := s.sessions.RevokeOthers(ctx, userID, currentToken); err != nil {
		s.logger.Warn("revoke other sessions failed", zap.String("user_id", userID), zap.Error(err))
	}

	s.logger.Info("password changed", zap.String("user_id", userID))
	return nil
}

func (s *service) ResetPassword(ctx context.Context, id string) (ResetPasswordResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ResetPasswordResponse{}, usererrors.ErrInvalidUserID
	}
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ResetPasswordResponse{}, mapRepositoryError(err)
	}
	if u.Status == lifecycle.StatusDeleted {
		return ResetPasswordResponse{}, lifecycleerrors.ErrAccountDeleted
	}

	tempPassword, err := password.Temporary()
	if err != nil {
		return ResetPasswordResponse{}, err
	}
	hash, err := password.Hash(tempPassword)
	if err != nil {
		return ResetPasswordResponse{}, err
	}

	msg := notification.Message{
		Kind:   notification.KindPasswordReset,
		To:     u.Email,
		UserID: id,
		Data: map[string]string{
			"name":               u.Name,
			"temporary_password": tempPassword,
			"app_url":            s.appURL,
		},
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ResetPasswordResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).UpdatePassword(ctx, id, hash, true); err != nil {
		return ResetPasswordResponse{}, mapRepositoryError(err)
	}
	if err := s.audit.Record(ctx, tx, audit.Entry{
		Action:   audit.ActionPasswordReset,
		TargetID: id,
	}); err != nil {
		return ResetPasswordResponse{}, err
	}
	if err := s.notifier.Stage(ctx, tx, msg); err != nil {
		return ResetPasswordResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return ResetPasswordResponse{}, err
	}

	if err := s.sessions.RevokeAll(ctx, id); err != nil {
		s.logger.Warn("revoke sessions after reset failed", zap.String("user_id", id), zap.Error(err))
	}
	s.notifier.Deliver(ctx, msg)

	s.logger.Info("password reset", zap.String("user_id", id))
	return ResetPasswordResponse{TemporaryPassword: tempPassword}, nil
}

func (s *service) Delete(ctx context.Context, id string, hard bool) error {
	if _, err := uuid.Parse(id); err != nil {
		return usererrors.ErrInvalidUserID
	}
	if contextutil.GetUserID(ctx) == id {
		return usererrors.ErrCannotDeleteSelf
	}
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("delete user requested",
		zap.String("request_id", rid),
		zap.String("user_id", id),
		zap.Bool("hard", hard),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	u, err := qtx.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}

	var locations []string
	action := audit.ActionUserDeleted
	if hard {
		action = audit.ActionUserHardDeleted
		if locations, err = qtx.DocumentLocations(ctx, id); err != nil {
			return err
		}
		if err := qtx.Delete(ctx, id); err != nil {
			s.logger.Warn("hard delete user failed", zap.String("user_id", id), zap.Error(err))
			return mapRepositoryError(err)
		}
	} else {
		if err := s.softDelete(ctx, qtx, u); err != nil {
			return err
		}
	}

	if err := s.audit.Record(ctx, tx, audit.Entry{
		Action:   action,
		TargetID: id,
		Details:  map[string]any{"email": u.Email, "previous_status": u.Status},
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete user commit failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}

	if err := s.sessions.RevokeAll(ctx, id); err != nil {
		s.logger.Warn("revoke sessions after delete failed", zap.String("user_id", id), zap.Error(err))
	}
	s.removeObjects(ctx, locations)

	s.logger.Info("user deleted", zap.String("request_id", rid), zap.String("user_id", id), zap.Bool("hard", hard))
	return nil
}

func (s *service) softDelete(ctx context.Context, qtx Repository, u *User) error {
	id := u.ID.String()
	if err := lifecycle.Check(u.State(), lifecycle.TriggerDelete); err != nil {
		return err
	}

	ok, err := qtx.TransitionStatus(ctx, id, lifecycle.AllowedFrom(lifecycle.TriggerDelete), lifecycle.StatusDeleted)
	if err != nil {
		return mapRepositoryError(err)
	}
	if !ok {
		// deleted concurrently
		return lifecycleerrors.ErrAccountDeleted
	}

	if !u.InRoster {
		return nil
	}
	retired, err := qtx.RetireRosterRecord(ctx, id)
	if err != nil {
		return err
	}
	if !retired {
		hasReports, err := qtx.HasActiveReports(ctx, id)
		if err != nil {
			return err
		}
		if hasReports {
			return usererrors.ErrManagerHasReports
		}
	}
	return nil
}

func (s *service) removeObjects(ctx context.Context, locations []string) {
	if s.objects == nil || len(locations) == 0 {
		return
	}
	bg := context.WithoutCancel(ctx)
	for _, loc := range locations {
		if err := s.objects.Delete(bg, loc); err != nil {
			s.logger.Warn("remove stored document failed", zap.String("location", loc), zap.Error(err))
		}
	}
}

func (s *service) EnsureDefaultHR(ctx context.Context, cfg config.BootstrapConfig, seeder RosterSeeder) error {
	email := normalizeEmail(cfg.HREmail)
	if email == "" {
		s.logger.Info("no default HR configured, skipping bootstrap")
		return nil
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Status == lifecycle.StatusDeleted {
			s.logger.Warn("default HR account is deleted, skipping bootstrap", zap.String("email", email))
			return nil
		}
		if existing.InRoster || seeder == nil {
			return nil
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		existing = nil
	default:
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	hr := existing
	if hr == nil {
		plain := cfg.HRPassword
		generated := plain == ""
		if generated {
			if plain, err = password.Temporary(); err != nil {
				return err
			}
		}
		hash, err := password.Hash(plain)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		hr = &User{
			ID:           uuid.New(),
			Name:         cfg.HRName,
			Email:        email,
			PasswordHash: hash,
			Role:         domain.RoleHR,
			Status:       lifecycle.StatusApproved,
			IsFirstLogin: generated,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.repo.WithTx(tx).Create(ctx, hr); err != nil {
			return mapRepositoryError(err)
		}
		if generated {
			s.logger.Warn("default HR account created with a generated password; change it after first login",
				zap.String("email", email),
				zap.String("temporary_password", plain),
			)
		}
	}

	var afterCommit func(context.Context)
	if seeder != nil {
		if afterCommit, err = seeder.SeedRoot(ctx, tx, hr, cfg.HREmployeeID); err != nil {
			// A soft-deleted roster row still holds the user.
			if existing != nil && errors.Is(err, lifecycleerrors.ErrAlreadyInRoster) {
				s.logger.Info("default HR already has a roster record", zap.String("email", email))
				return nil
			}
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	if afterCommit != nil {
		afterCommit(ctx)
	}

	s.logger.Info("default HR account ready",
		zap.String("email", email),
		zap.String("employee_id", cfg.HREmployeeID),
	)
	return nil
}

// loadManager resolves a manager user id, rejecting self references and
// deleted accounts.
func (s *service) loadManager(ctx context.Context, repo Repository, managerID, selfID string) (*User, error) {
	if _, err := uuid.Parse(managerID); err != nil {
		return nil, usererrors.ErrManagerNotFound
	}
	if managerID == selfID {
		return nil, usererrors.ErrSelfManager
	}
	mgr, err := repo.FindByID(ctx, managerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usererrors.ErrManagerNotFound
		}
		return nil, err
	}
	if mgr.Status == lifecycle.StatusDeleted {
		return nil, usererrors.ErrManagerNotFound
	}
	return mgr, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, usererrors.ErrInvalidJoinDate
	}
	return d, nil
}
