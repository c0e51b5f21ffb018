package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Jstali/employee-onboarding-sub000/internal/audit"
	auditMock "github.com/Jstali/employee-onboarding-sub000/internal/audit/mock"
	"github.com/Jstali/employee-onboarding-sub000/internal/auth"
	autherrors "github.com/Jstali/employee-onboarding-sub000/internal/auth/errors"
	authMock "github.com/Jstali/employee-onboarding-sub000/internal/auth/mock"
	"github.com/Jstali/employee-onboarding-sub000/internal/domain"
	"github.com/Jstali/employee-onboarding-sub000/internal/lifecycle"
	"github.com/Jstali/employee-onboarding-sub000/internal/session"
	sessionMock "github.com/Jstali/employee-onboarding-sub000/internal/session/mock"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/contextutil"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/password"
	"github.com/Jstali/employee-onboarding-sub000/internal/user"
	userMock "github.com/Jstali/employee-onboarding-sub000/internal/user/mock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type authDeps struct {
	users    *userMock.MockRepository
	sessions *sessionMock.MockStore
	perms    *authMock.MockPermissionLister
	audit    *auditMock.MockRecorder
	service  auth.Service
}

func setupAuth(t *testing.T) *authDeps {
	t.Helper()
	ctrl := gomock.NewController(t)
	d := &authDeps{
		users:    userMock.NewMockRepository(ctrl),
		sessions: sessionMock.NewMockStore(ctrl),
		perms:    authMock.NewMockPermissionLister(ctrl),
		audit:    auditMock.NewMockRecorder(ctrl),
	}
	d.service = auth.NewService(d.users, d.sessions, d.perms, d.audit)
	return d
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := password.Hash("password123")
	require.NoError(t, err)

	newUser := func(status lifecycle.Status) *user.User {
		return &user.User{
			ID:           uuid.New(),
			Name:         "Asha",
			Email:        "asha@example.com",
			PasswordHash: hash,
			Role:         domain.RoleEmployee,
			Status:       status,
			IsFirstLogin: true,
		}
	}

	t.Run("success returns token and routing profile", func(t *testing.T) {
		d := setupAuth(t)
		u := newUser(lifecycle.StatusFormSubmitted)
		expires := time.Now().Add(24 * time.Hour)

		d.users.EXPECT().FindByEmail(ctx, u.Email).Return(u, nil)
		d.sessions.EXPECT().
			Issue(ctx, u.ID.String(), domain.RoleEmployee).
			Return("opaque-token", session.Principal{UserID: u.ID.String(), ExpiresAt: expires}, nil)
		d.perms.EXPECT().Permissions(domain.RoleEmployee).Return([]string{"attendance:create"}, nil)
		d.audit.EXPECT().
			Record(gomock.Any(), nil, gomock.Any()).
			DoAndReturn(func(ctx context.Context, _ any, e audit.Entry) error {
				assert.Equal(t, audit.ActionLogin, e.Action)
				assert.Equal(t, u.ID.String(), contextutil.GetUserID(ctx))
				return nil
			})

		res, err := d.service.Login(ctx, u.Email, "password123")

		require.NoError(t, err)
		assert.Equal(t, "opaque-token", res.AccessToken)
		assert.Equal(t, expires, res.ExpiresAt)
		assert.Equal(t, lifecycle.StateFormSubmitted, res.User.State)
		assert.True(t, res.User.FormSubmitted)
		assert.False(t, res.User.HRApproved)
		assert.True(t, res.User.IsFirstLogin)
		assert.Equal(t, []string{"attendance:create"}, res.User.Permissions)
	})

	t.Run("unknown email", func(t *testing.T) {
		d := setupAuth(t)
		d.users.EXPECT().FindByEmail(ctx, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

		_, err := d.service.Login(ctx, "ghost@example.com", "password123")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		d := setupAuth(t)
		u := newUser(lifecycle.StatusApproved)
		d.users.EXPECT().FindByEmail(ctx, u.Email).Return(u, nil)

		_, err := d.service.Login(ctx, u.Email, "wrong")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("deleted account looks like bad credentials", func(t *testing.T) {
		d := setupAuth(t)
		u := newUser(lifecycle.StatusDeleted)
		d.users.EXPECT().FindByEmail(ctx, u.Email).Return(u, nil)

		_, err := d.service.Login(ctx, u.Email, "password123")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("session store failure", func(t *testing.T) {
		d := setupAuth(t)
		u := newUser(lifecycle.StatusApproved)
		d.users.EXPECT().FindByEmail(ctx, u.Email).Return(u, nil)
		d.sessions.EXPECT().Issue(ctx, gomock.Any(), gomock.Any()).Return("", session.Principal{}, errors.New("redis down"))

		_, err := d.service.Login(ctx, u.Email, "password123")
		assert.EqualError(t, err, "redis down")
	})
}

func TestService_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("missing token", func(t *testing.T) {
		d := setupAuth(t)
		assert.ErrorIs(t, d.service.Logout(ctx, ""), session.ErrMissingToken)
	})

	t.Run("revokes token", func(t *testing.T) {
		d := setupAuth(t)
		d.sessions.EXPECT().Revoke(ctx, "tok").Return(nil)
		d.audit.EXPECT().Record(ctx, nil, gomock.Any()).Return(nil)

		assert.NoError(t, d.service.Logout(ctx, "tok"))
	})
}

func TestService_Me(t *testing.T) {
	ctx := context.Background()

	t.Run("deleted user is unauthenticated", func(t *testing.T) {
		d := setupAuth(t)
		id := uuid.New()
		d.users.EXPECT().FindByID(ctx, id.String()).Return(&user.User{ID: id, Status: lifecycle.StatusDeleted}, nil)

		_, err := d.service.Me(ctx, id.String())
		assert.ErrorIs(t, err, autherrors.ErrUnauthenticated)
	})

	t.Run("roster member", func(t *testing.T) {
		d := setupAuth(t)
		id := uuid.New()
		d.users.EXPECT().FindByID(ctx, id.String()).Return(&user.User{
			ID:       id,
			Role:     domain.RoleHR,
			Status:   lifecycle.StatusApproved,
			InRoster: true,
		}, nil)
		d.perms.EXPECT().Permissions(domain.RoleHR).Return([]string{"users:create"}, nil)

		res, err := d.service.Me(ctx, id.String())

		require.NoError(t, err)
		assert.Equal(t, lifecycle.StateInMasterRoster, res.State)
		assert.True(t, res.Onboarded)
	})
}
