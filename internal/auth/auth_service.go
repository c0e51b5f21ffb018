package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/Jstali/employee-onboarding-sub000/internal/audit"
	autherrors "github.com/Jstali/employee-onboarding-sub000/internal/auth/errors"
	"github.com/Jstali/employee-onboarding-sub000/internal/lifecycle"
	"github.com/Jstali/employee-onboarding-sub000/internal/session"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/contextutil"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/password"
	"github.com/Jstali/employee-onboarding-sub000/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PermissionLister resolves the resource:action pairs a role holds.
type PermissionLister interface {
	Permissions(role string) ([]string, error)
}

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, email, password string) (LoginResponse, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, userID string) (ProfileResponse, error)
}

type service struct {
	users    user.Repository
	sessions session.Store
	rbac     PermissionLister
	audit    audit.Recorder
	logger   *zap.Logger
}

func NewService(
	users user.Repository,
	sessions session.Store,
	rbac PermissionLister,
	recorder audit.Recorder,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{users: users, sessions: sessions, rbac: rbac, audit: recorder, logger: l}
}

// dummyHash keeps the unknown-email path as slow as a real comparison.
var dummyHash = sync.OnceValue(func() string {
	h, _ := password.Hash(uuid.NewString())
	return h
})

func (s *service) Login(ctx context.Context, email, plain string) (LoginResponse, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("login lookup failed", zap.Error(err))
			return LoginResponse{}, err
		}
		_ = password.Compare(dummyHash(), plain)
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := password.Compare(u.PasswordHash, plain); err != nil {
		s.logger.Info("login rejected", zap.String("user_id", u.ID.String()), zap.String("reason", "password"))
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}
	if u.Status == lifecycle.StatusDeleted {
		s.logger.Info("login rejected", zap.String("user_id", u.ID.String()), zap.String("reason", "deleted"))
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}

	token, principal, err := s.sessions.Issue(ctx, u.ID.String(), u.Role)
	if err != nil {
		s.logger.Error("issue session failed", zap.String("user_id", u.ID.String()), zap.Error(err))
		return LoginResponse{}, err
	}

	profile, err := s.profile(u)
	if err != nil {
		return LoginResponse{}, err
	}

	auditCtx := contextutil.WithUserID(ctx, u.ID.String())
	if err := s.audit.Record(auditCtx, nil, audit.Entry{Action: audit.ActionLogin, TargetID: u.ID.String()}); err != nil {
		s.logger.Warn("record login failed", zap.Error(err))
	}

	return LoginResponse{
		AccessToken: token,
		ExpiresAt:   principal.ExpiresAt,
		User:        profile,
	}, nil
}

func (s *service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return session.ErrMissingToken
	}
	if err := s.sessions.Revoke(ctx, token); err != nil {
		return err
	}
	if err := s.audit.Record(ctx, nil, audit.Entry{
		Action:   audit.ActionLogout,
		TargetID: contextutil.GetUserID(ctx),
	}); err != nil {
		s.logger.Warn("record logout failed", zap.Error(err))
	}
	return nil
}

func (s *service) Me(ctx context.Context, userID string) (ProfileResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return ProfileResponse{}, autherrors.ErrUnauthenticated
	}
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProfileResponse{}, autherrors.ErrUnauthenticated
		}
		return ProfileResponse{}, err
	}
	if u.Status == lifecycle.StatusDeleted {
		return ProfileResponse{}, autherrors.ErrUnauthenticated
	}
	return s.profile(u)
}

func (s *service) profile(u *user.User) (ProfileResponse, error) {
	perms, err := s.rbac.Permissions(u.Role)
	if err != nil {
		s.logger.Error("load permissions failed", zap.String("role", u.Role), zap.Error(err))
		return ProfileResponse{}, err
	}
	return ProfileResponse{
		ID:           u.ID.String(),
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		EmployeeType: u.EmployeeType,
		Status:       string(u.Status),
		State:        u.State(),
		Flags:        lifecycle.FlagsOf(u.Status),
		InRoster:     u.InRoster,
		IsFirstLogin: u.IsFirstLogin,
		Permissions:  perms,
	}, nil
}
