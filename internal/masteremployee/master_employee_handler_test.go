package masteremployee_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/Jstali/employee-onboarding-sub000/internal/masteremployee"
	masteremployeeerrors "github.com/Jstali/employee-onboarding-sub000/internal/masteremployee/errors"
	masterMock "github.com/Jstali/employee-onboarding-sub000/internal/masteremployee/mock"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	apperror.Init()
	os.Exit(m.Run())
}

type envelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  map[string]any  `json:"meta"`
	Error struct {
		Code string `json:"code"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func newHandler(t *testing.T) (*masteremployee.Handler, *masterMock.MockService) {
	ctrl := gomock.NewController(t)
	svc := masterMock.NewMockService(ctrl)
	return masteremployee.NewHandler(svc, zap.NewNop()), svc
}

func TestMasterEmployeeHandler_AddToMaster(t *testing.T) {
	userID, managerID := uuid.NewString(), uuid.NewString()

	t.Run("created", func(t *testing.T) {
		h, svc := newHandler(t)
		svc.EXPECT().
			AddToMaster(gomock.Any(), masteremployee.AddToMasterRequest{
				UserID:     userID,
				EmployeeID: "100234",
				ManagerID:  managerID,
			}).
			Return(masteremployee.MasterEmployeeResponse{EmployeeID: "100234"}, nil)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/master-employees",
			strings.NewReader(`{"user_id":"`+userID+`","employee_id":"100234","manager_id":"`+managerID+`"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.AddToMaster(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, string(decode(t, w).Data), "100234")
	})

	t.Run("five digit id rejected at binding", func(t *testing.T) {
		h, _ := newHandler(t)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/master-employees",
			strings.NewReader(`{"user_id":"`+userID+`","employee_id":"12345","manager_id":"`+managerID+`"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.AddToMaster(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, decode(t, w).Ok)
	})

	t.Run("manager not in roster", func(t *testing.T) {
		h, svc := newHandler(t)
		svc.EXPECT().
			AddToMaster(gomock.Any(), gomock.Any()).
			Return(masteremployee.MasterEmployeeResponse{}, masteremployeeerrors.ErrManagerNotInRoster)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/master-employees",
			strings.NewReader(`{"user_id":"`+userID+`","employee_id":"100234","manager_id":"`+managerID+`"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.AddToMaster(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, masteremployeeerrors.ErrManagerNotInRoster.Code, decode(t, w).Error.Code)
	})
}

func TestMasterEmployeeHandler_List(t *testing.T) {
	h, svc := newHandler(t)
	svc.EXPECT().
		List(gomock.Any(), masteremployee.ListFilter{Status: "active", Page: 1, PageSize: 20}).
		Return([]masteremployee.MasterEmployeeResponse{{EmployeeID: "100001"}}, int64(1), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/master-employees?status=active", nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w).Meta["total"])
}

func TestMasterEmployeeHandler_Delete(t *testing.T) {
	id := uuid.NewString()

	t.Run("soft by default", func(t *testing.T) {
		h, svc := newHandler(t)
		svc.EXPECT().Delete(gomock.Any(), id, false).Return(nil)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: id}}
		c.Request = httptest.NewRequest(http.MethodDelete, "/master-employees/"+id, nil)

		h.Delete(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("manager with reports", func(t *testing.T) {
		h, svc := newHandler(t)
		svc.EXPECT().Delete(gomock.Any(), id, true).Return(masteremployeeerrors.ErrManagerHasReports)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: id}}
		c.Request = httptest.NewRequest(http.MethodDelete, "/master-employees/"+id+"?hard=true", nil)

		h.Delete(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestMasterEmployeeHandler_NextEmployeeID(t *testing.T) {
	h, svc := newHandler(t)
	svc.EXPECT().NextEmployeeID(gomock.Any()).Return("000042", nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/master-employees/next-id", nil)

	h.NextEmployeeID(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"employee_id":"000042"}`, string(decode(t, w).Data))
}

func TestMasterEmployeeHandler_Search(t *testing.T) {
	h, svc := newHandler(t)
	svc.EXPECT().Search(gomock.Any(), "rao").Return([]masteremployee.MasterEmployeeResponse{}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/master-employees/search?q=rao", nil)

	h.Search(c)

	assert.Equal(t, http.StatusOK, w.Code)
}
