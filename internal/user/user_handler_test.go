package user_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Jstali/employee-onboarding-sub000/internal/config"
	lifecycleerrors "github.com/Jstali/employee-onboarding-sub000/internal/lifecycle/errors"
	"github.com/Jstali/employee-onboarding-sub000/internal/middleware"
	"github.com/Jstali/employee-onboarding-sub000/internal/user"
	usererrors "github.com/Jstali/employee-onboarding-sub000/internal/user/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUserService struct {
	CreateEmployeeFn func(ctx context.Context, req user.CreateEmployeeRequest) (user.CreateEmployeeResponse, error)
	ListFn           func(ctx context.Context, filter user.ListFilter) ([]user.UserResponse, int64, error)
	GetByIDFn        func(ctx context.Context, id string) (user.UserResponse, error)
	UpdateFn         func(ctx context.Context, id string, req user.UpdateUserRequest) (user.UserResponse, error)
	ChangePasswordFn func(ctx context.Context, userID, token string, req user.ChangePasswordRequest) error
	ResetPasswordFn  func(ctx context.Context, id string) (user.ResetPasswordResponse, error)
	DeleteFn         func(ctx context.Context, id string, hard bool) error
}

func (f *fakeUserService) CreateEmployee(ctx context.Context, req user.CreateEmployeeRequest) (user.CreateEmployeeResponse, error) {
	return f.CreateEmployeeFn(ctx, req)
}
func (f *fakeUserService) List(ctx context.Context, filter user.ListFilter) ([]user.UserResponse, int64, error) {
	return f.ListFn(ctx, filter)
}
func (f *fakeUserService) GetByID(ctx context.Context, id string) (user.UserResponse, error) {
	return f.GetByIDFn(ctx, id)
}
func (f *fakeUserService) Update(ctx context.Context, id string, req user.UpdateUserRequest) (user.UserResponse, error) {
	return f.UpdateFn(ctx, id, req)
}
func (f *fakeUserService) ChangePassword(ctx context.Context, userID, token string, req user.ChangePasswordRequest) error {
	return f.ChangePasswordFn(ctx, userID, token, req)
}
func (f *fakeUserService) ResetPassword(ctx context.Context, id string) (user.ResetPasswordResponse, error) {
	return f.ResetPasswordFn(ctx, id)
}
func (f *fakeUserService) Delete(ctx context.Context, id string, hard bool) error {
	return f.DeleteFn(ctx, id, hard)
}
func (f *fakeUserService) EnsureDefaultHR(context.Context, config.BootstrapConfig, user.RosterSeeder) error {
	return nil
}

func setupHandler(svc user.Service) *user.Handler {
	return user.NewHandler(svc, zap.NewNop())
}

type envelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  map[string]any  `json:"meta"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestUserHandler_CreateEmployee(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("created", func(t *testing.T) {
		svc := &fakeUserService{
			CreateEmployeeFn: func(_ context.Context, req user.CreateEmployeeRequest) (user.CreateEmployeeResponse, error) {
				assert.Equal(t, "asha@example.com", req.Email)
				assert.Equal(t, "intern", req.EmployeeType)
				return user.CreateEmployeeResponse{
					User:              user.UserResponse{ID: uuid.NewString(), Email: req.Email},
					TemporaryPassword: "Tmp#Passw0rd",
				}, nil
			},
		}
		h := setupHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/users",
			strings.NewReader(`{"name":"Asha","email":"asha@example.com","employee_type":"intern"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.CreateEmployee(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decode(t, w)
		assert.True(t, env.Ok)
		assert.Contains(t, string(env.Data), "Tmp#Passw0rd")
	})

	t.Run("validation error", func(t *testing.T) {
		h := setupHandler(&fakeUserService{})

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/users",
			strings.NewReader(`{"name":"Asha","email":"not-an-email","employee_type":"freelance"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.CreateEmployee(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, decode(t, w).Ok)
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc := &fakeUserService{
			CreateEmployeeFn: func(context.Context, user.CreateEmployeeRequest) (user.CreateEmployeeResponse, error) {
				return user.CreateEmployeeResponse{}, usererrors.ErrEmailAlreadyExists
			},
		}
		h := setupHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/users",
			strings.NewReader(`{"name":"Asha","email":"asha@example.com","employee_type":"intern"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.CreateEmployee(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestUserHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeUserService{
		ListFn: func(_ context.Context, filter user.ListFilter) ([]user.UserResponse, int64, error) {
			assert.Equal(t, "approved", filter.Status)
			assert.Equal(t, "asha", filter.Search)
			assert.Equal(t, 2, filter.Page)
			assert.Equal(t, 5, filter.PageSize)
			return []user.UserResponse{{ID: uuid.NewString()}}, 6, nil
		},
	}
	h := setupHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/users?status=approved&q=asha&page=2&page_size=5", nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.EqualValues(t, 6, env.Meta["total"])
	assert.EqualValues(t, 2, env.Meta["totalPages"])
}

func TestUserHandler_GetByID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("not found", func(t *testing.T) {
		svc := &fakeUserService{
			GetByIDFn: func(context.Context, string) (user.UserResponse, error) {
				return user.UserResponse{}, usererrors.ErrUserNotFound
			},
		}
		h := setupHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: uuid.NewString()}}
		c.Request = httptest.NewRequest(http.MethodGet, "/users/x", nil)

		h.GetByID(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUserHandler_ChangePassword(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.NewString()

	svc := &fakeUserService{
		ChangePasswordFn: func(_ context.Context, id, token string, req user.ChangePasswordRequest) error {
			assert.Equal(t, userID, id)
			assert.Equal(t, "session-token", token)
			return nil
		},
	}
	h := setupHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(middleware.ContextUserID, userID)
	c.Set(middleware.ContextToken, "session-token")
	c.Request = httptest.NewRequest(http.MethodPut, "/users/me/password",
		strings.NewReader(`{"current_password":"Old#12345","new_password":"New#12345"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.ChangePassword(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUserHandler_Delete(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("hard flag forwarded", func(t *testing.T) {
		id := uuid.NewString()
		svc := &fakeUserService{
			DeleteFn: func(_ context.Context, got string, hard bool) error {
				assert.Equal(t, id, got)
				assert.True(t, hard)
				return nil
			},
		}
		h := setupHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: id}}
		c.Request = httptest.NewRequest(http.MethodDelete, "/users/"+id+"?hard=true", nil)

		h.Delete(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("already deleted", func(t *testing.T) {
		svc := &fakeUserService{
			DeleteFn: func(context.Context, string, bool) error {
				return lifecycleerrors.ErrAccountDeleted
			},
		}
		h := setupHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: uuid.NewString()}}
		c.Request = httptest.NewRequest(http.MethodDelete, "/users/x", nil)

		h.Delete(c)

		assert.GreaterOrEqual(t, w.Code, http.StatusBadRequest)
		assert.False(t, decode(t, w).Ok)
	})
}
