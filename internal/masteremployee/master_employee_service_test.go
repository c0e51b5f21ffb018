package masteremployee_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Jstali/employee-onboarding-sub000/internal/audit"
	auditMock "github.com/Jstali/employee-onboarding-sub000/internal/audit/mock"
	"github.com/Jstali/employee-onboarding-sub000/internal/domain"
	"github.com/Jstali/employee-onboarding-sub000/internal/lifecycle"
	lifecycleerrors "github.com/Jstali/employee-onboarding-sub000/internal/lifecycle/errors"
	"github.com/Jstali/employee-onboarding-sub000/internal/masteremployee"
	masteremployeeerrors "github.com/Jstali/employee-onboarding-sub000/internal/masteremployee/errors"
	masterMock "github.com/Jstali/employee-onboarding-sub000/internal/masteremployee/mock"
	"github.com/Jstali/employee-onboarding-sub000/internal/search"
	searchMock "github.com/Jstali/employee-onboarding-sub000/internal/search/mock"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/counter"
	counterMock "github.com/Jstali/employee-onboarding-sub000/internal/shared/counter/mock"
	"github.com/Jstali/employee-onboarding-sub000/internal/user"
	userMock "github.com/Jstali/employee-onboarding-sub000/internal/user/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   masteremployee.Service
	repo      *masterMock.MockRepository
	users     *userMock.MockRepository
	counter   *counterMock.MockRepository
	audit     *auditMock.MockRecorder
	index     *searchMock.MockIndex
	redismock redismock.ClientMock
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()
	ctrl := gomock.NewController(t)

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	rdb, redisMock := redismock.NewClientMock()

	d := &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		repo:      masterMock.NewMockRepository(ctrl),
		users:     userMock.NewMockRepository(ctrl),
		counter:   counterMock.NewMockRepository(ctrl),
		audit:     auditMock.NewMockRecorder(ctrl),
		index:     searchMock.NewMockIndex(ctrl),
		redismock: redisMock,
	}
	d.service = masteremployee.NewService(db, d.repo, d.users, d.counter, d.audit, rdb, d.index)
	return d
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func approvedUser() *user.User {
	et := "fulltime"
	dept := "Engineering"
	return &user.User{
		ID:           uuid.New(),
		Name:         "Asha Rao",
		Email:        "asha@example.com",
		Role:         domain.RoleEmployee,
		EmployeeType: &et,
		Department:   &dept,
		Status:       lifecycle.StatusApproved,
	}
}

func activeRecord(employeeID string) *masteremployee.MasterEmployee {
	return &masteremployee.MasterEmployee{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		EmployeeID: employeeID,
		Name:       "Manager " + employeeID,
		Role:       domain.RoleHR,
		Status:     masteremployee.StatusActive,
	}
}

func TestMasterEmployeeService_AddToMaster(t *testing.T) {
	ctx := context.Background()

	t.Run("success - backfills manager and indexes record", func(t *testing.T) {
		d := setupServiceTest(t)
		u := approvedUser()
		mgr := activeRecord("100001")
		expectTx(t, d.sqlMock, true)

		d.repo.EXPECT().WithTx(gomock.Any()).Return(d.repo)
		d.users.EXPECT().WithTx(gomock.Any()).Return(d.users)
		d.users.EXPECT().FindByID(ctx, u.ID.String()).Return(u, nil)
		d.repo.EXPECT().FindByID(ctx, mgr.ID.String()).Return(mgr, nil)
		d.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, rec *masteremployee.MasterEmployee) error {
				assert.Equal(t, "100234", rec.EmployeeID)
				assert.Equal(t, masteremployee.StatusActive, rec.Status)
				assert.Equal(t, mgr.ID, *rec.ManagerID)
				assert.Equal(t, u.Email, rec.Email)
				assert.Equal(t, "Engineering", *rec.Department)
				return nil
			})
		managerUserID := mgr.UserID.String()
		d.users.EXPECT().SetManager(ctx, u.ID.String(), &managerUserID).Return(nil)
		d.audit.EXPECT().
			Record(ctx, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sql.Tx, e audit.Entry) error {
				assert.Equal(t, audit.ActionMasterAdded, e.Action)
				return nil
			})
		d.redismock.ExpectDel(masteremployee.ManagerOptionsKey).SetVal(1)
		d.index.EXPECT().
			Upsert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, doc search.RosterDocument) error {
				assert.Equal(t, "100234", doc.EmployeeID)
				return nil
			})

		res, err := d.service.AddToMaster(ctx, masteremployee.AddToMasterRequest{
			UserID:     u.ID.String(),
			EmployeeID: "100234",
			ManagerID:  mgr.ID.String(),
		})

		require.NoError(t, err)
		assert.Equal(t, "100234", res.EmployeeID)
		require.NotNil(t, res.Manager)
		assert.Equal(t, "100001", res.Manager.EmployeeID)
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
		assert.NoError(t, d.redismock.ExpectationsWereMet())
	})

	t.Run("employee id must be six digits", func(t *testing.T) {
		d := setupServiceTest(t)
		for _, bad := range []string{"12345", "1234567", "12a456", "", " 12345"} {
			_, err := d.service.AddToMaster(ctx, masteremployee.AddToMasterRequest{
				UserID:     uuid.NewString(),
				EmployeeID: bad,
				ManagerID:  uuid.NewString(),
			})
			assert.ErrorIs(t, err, masteremployeeerrors.ErrInvalidEmployeeID, bad)
		}
	})

	t.Run("manager required", func(t *testing.T) {
		d := setupServiceTest(t)
		_, err := d.service.AddToMaster(ctx, masteremployee.AddToMasterRequest{
			UserID:     uuid.NewString(),
			EmployeeID: "100234",
		})
		assert.ErrorIs(t, err, masteremployeeerrors.ErrManagerRequired)
	})

	t.Run("user not yet approved", func(t *testing.T) {
		d := setupServiceTest(t)
		u := approvedUser()
		u.Status = lifecycle.StatusFormSubmitted
		expectTx(t, d.sqlMock, false)

		d.repo.EXPECT().WithTx(gomock.Any()).Return(d.repo)
		d.users.EXPECT().WithTx(gomock.Any()).Return(d.users)
		d.users.EXPECT().FindByID(ctx, u.ID.String()).Return(u, nil)

		_, err := d.service.AddToMaster(ctx, masteremployee.AddToMasterRequest{
			UserID:     u.ID.String(),
			EmployeeID: "100234",
			ManagerID:  uuid.NewString(),
		})
		assert.ErrorIs(t, err, lifecycleerrors.ErrNotOnboarded)
	})

	t.Run("already in roster", func(t *testing.T) {
		d := setupServiceTest(t)
		u := approvedUser()
		u.InRoster = true
		expectTx(t, d.sqlMock, false)

		d.repo.EXPECT().WithTx(gomock.Any()).Return(d.repo)
		d.users.EXPECT().WithTx(gomock.Any()).Return(d.users)
		d.users.EXPECT().FindByID(ctx, u.ID.String()).Return(u, nil)

		_, err := d.service.AddToMaster(ctx, masteremployee.AddToMasterRequest{
			UserID:     u.ID.String(),
			EmployeeID: "100234",
			ManagerID:  uuid.NewString(),
		})
		assert.ErrorIs(t, err, lifecycleerrors.ErrAlreadyInRoster)
	})

	t.Run("manager not in roster", func(t *testing.T) {
		d := setupServiceTest(t)
		u := approvedUser()
		inactive := activeRecord("100001")
		inactive.Status = masteremployee.StatusInactive
		expectTx(t, d.sqlMock, false)

		d.repo.EXPECT().WithTx(gomock.Any()).Return(d.repo)
		d.users.EXPECT().WithTx(gomock.Any()).Return(d.users)
		d.users.EXPECT().FindByID(ctx, u.ID.String()).Return(u, nil)
		d.repo.EXPECT().FindByID(ctx, inactive.ID.String()).Return(inactive, nil)

		_, err := d.service.AddToMaster(ctx, masteremployee.AddToMasterRequest{
			UserID:     u.ID.String(),
			EmployeeID: "100234",
			ManagerID:  inactive.ID.String(),
		})
		assert.ErrorIs(t, err, masteremployeeerrors.ErrManagerNotInRoster)
	})

	t.Run("employee id taken", func(t *testing.T) {
		d := setupServiceTest(t)
		u := approvedUser()
		mgr := activeRecord("100001")
		expectTx(t, d.sqlMock, false)

		d.repo.EXPECT().WithTx(gomock.Any()).Return(d.repo)
		d.users.EXPECT().WithTx(gomock.Any()).Return(d.users)
		d.users.EXPECT().FindByID(ctx, u.ID.String()).Return(u, nil)
		d.repo.EXPECT().FindByID(ctx, mgr.ID.String()).Return(mgr, nil)
		d.repo.EXPECT().
			Create(ctx, gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_master_employees_employee_id"})

		_, err := d.service.AddToMaster(ctx, masteremployee.AddToMasterRequest{
			UserID:     u.ID.String(),
			EmployeeID: "100001",
			ManagerID:  mgr.ID.String(),
		})
		assert.ErrorIs(t, err, masteremployeeerrors.ErrEmployeeIDTaken)
	})
}

func TestMasterEmployeeService_AssignManager(t *testing.T) {
	ctx := context.Background()

	t.Run("self assignment", func(t *testing.T) {
		d := setupServiceTest(t)
		id := uuid.NewString()
		_, err := d.service.AssignManager(ctx, id, masteremployee.AssignManagerRequest{ManagerID: id})
		assert.ErrorIs(t, err, masteremployeeerrors.ErrSelfManager)
	})

	t.Run("cycle rejected", func(t *testing.T) {
		d := setupServiceTest(t)
		rec := activeRecord("100002")
		report := activeRecord("100003")
		expectTx(t, d.sqlMock, false)

		d.repo.EXPECT().WithTx(gomock.Any()).Return(d.repo)
		d.repo.EXPECT().FindByID(ctx, rec.ID.String()).Return(rec, nil)
		d.repo.EXPECT().FindByID(ctx, report.ID.String()).Return(report, nil)
		d.repo.EXPECT().InChain(ctx, report.ID.String(), rec.ID.String()).Return(true, nil)

		_, err := d.service.AssignManager(ctx, rec.ID.String(), masteremployee.AssignManagerRequest{ManagerID: report.ID.String()})
		assert.ErrorIs(t, err, masteremployeeerrors.ErrManagerCycle)
	})

	t.Run("success", func(t *testing.T) {
		d := setupServiceTest(t)
		rec := activeRecord("100002")
		mgr := activeRecord("100001")
		expectTx(t, d.sqlMock, true)

		d.repo.EXPECT().WithTx(gomock.Any()).Return(d.repo)
		d.repo.EXPECT().FindByID(ctx, rec.ID.String()).Return(rec, nil)
		d.repo.EXPECT().FindByID(ctx, mgr.ID.String()).Return(mgr, nil)
		d.repo.EXPECT().InChain(ctx, mgr.ID.String(), rec.ID.String()).Return(false, nil)
		d.repo.EXPECT().UpdateManager(ctx, rec.ID.String(), mgr.ID.String()).Return(nil)
		d.users.EXPECT().WithTx(gomock.Any()).Return(d.users)
		managerUserID := mgr.UserID.String()
		d.users.EXPECT().SetManager(ctx, rec.UserID.String(), &managerUserID).Return(nil)
		d.audit.EXPECT().Record(ctx, gomock.Any(), gomock.Any()).Return(nil)
		d.redismock.ExpectDel(masteremployee.ManagerOptionsKey).SetVal(1)
		d.index.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)

		res, err := d.service.AssignManager(ctx, rec.ID.String(), masteremployee.AssignManagerRequest{ManagerID: mgr.ID.String()})

		require.NoError(t, err)
		assert.Equal(t, mgr.ID.String(), *res.ManagerID)
	})
}

func TestMasterEmployeeService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("soft delete blocked by active reports", func(t *testing.T) {
		d := setupServiceTest(t)
		rec := activeRecord("100001")
		expectTx(t, d.sqlMock, false)

		d.repo.EXPECT().WithTx(gomock.Any()).Return(d.repo)
		d.repo.EXPECT().FindByID(ctx, rec.ID.String()).Return(rec, nil)
		d.repo.EXPECT().SoftDelete(ctx, rec.ID.String()).Return(false, nil)
		d.repo.EXPECT().HasActiveReports(ctx, rec.ID.String()).Return(true, nil)

		err := d.service.Delete(ctx, rec.ID.String(), false)
		assert.ErrorIs(t, err, masteremployeeerrors.ErrManagerHasReports)
	})

	t.Run("hard delete blocked by foreign key", func(t *testing.T) {
		d := setupServiceTest(t)
		rec := activeRecord("100001")
		expectTx(t, d.sqlMock, false)

		d.repo.EXPECT().WithTx(gomock.Any()).Return(d.repo)
		d.repo.EXPECT().FindByID(ctx, rec.ID.String()).Return(rec, nil)
		d.repo.EXPECT().
			Delete(ctx, rec.ID.String()).
			Return(&pgconn.PgError{Code: "23503", ConstraintName: "fk_master_employees_manager"})

		err := d.service.Delete(ctx, rec.ID.String(), true)
		assert.ErrorIs(t, err, masteremployeeerrors.ErrManagerHasReports)
	})

	t.Run("soft delete success removes from index", func(t *testing.T) {
		d := setupServiceTest(t)
		rec := activeRecord("100005")
		expectTx(t, d.sqlMock, true)

		d.repo.EXPECT().WithTx(gomock.Any()).Return(d.repo)
		d.repo.EXPECT().FindByID(ctx, rec.ID.String()).Return(rec, nil)
		d.repo.EXPECT().SoftDelete(ctx, rec.ID.String()).Return(true, nil)
		d.audit.EXPECT().Record(ctx, gomock.Any(), gomock.Any()).Return(nil)
		d.redismock.ExpectDel(masteremployee.ManagerOptionsKey).SetVal(1)
		d.index.EXPECT().Remove(gomock.Any(), rec.ID.String()).Return(errors.New("meili down"))

		assert.NoError(t, d.service.Delete(ctx, rec.ID.String(), false))
	})

	t.Run("not found", func(t *testing.T) {
		d := setupServiceTest(t)
		id := uuid.NewString()
		expectTx(t, d.sqlMock, false)

		d.repo.EXPECT().WithTx(gomock.Any()).Return(d.repo)
		d.repo.EXPECT().FindByID(ctx, id).Return(nil, gorm.ErrRecordNotFound)

		err := d.service.Delete(ctx, id, false)
		assert.ErrorIs(t, err, masteremployeeerrors.ErrRecordNotFound)
	})
}

func TestMasterEmployeeService_NextEmployeeID(t *testing.T) {
	ctx := context.Background()

	t.Run("skips taken ids", func(t *testing.T) {
		d := setupServiceTest(t)
		gomock.InOrder(
			d.counter.EXPECT().GetNextValue(ctx, counter.EmployeeIDCounter).Return(int64(41), nil),
			d.repo.EXPECT().EmployeeIDExists(ctx, "000041").Return(true, nil),
			d.counter.EXPECT().GetNextValue(ctx, counter.EmployeeIDCounter).Return(int64(42), nil),
			d.repo.EXPECT().EmployeeIDExists(ctx, "000042").Return(false, nil),
		)

		id, err := d.service.NextEmployeeID(ctx)

		require.NoError(t, err)
		assert.Equal(t, "000042", id)
	})

	t.Run("exhausted", func(t *testing.T) {
		d := setupServiceTest(t)
		d.counter.EXPECT().GetNextValue(ctx, counter.EmployeeIDCounter).Return(int64(1_000_000), nil)

		_, err := d.service.NextEmployeeID(ctx)
		assert.ErrorIs(t, err, masteremployeeerrors.ErrEmployeeIDsExhausted)
	})
}

func TestMasterEmployeeService_ManagerOptions(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit", func(t *testing.T) {
		d := setupServiceTest(t)
		cached, _ := json.Marshal([]masteremployee.ManagerOption{{ID: "m1", EmployeeID: "100001", Name: "Root"}})
		d.redismock.ExpectGet(masteremployee.ManagerOptionsKey).SetVal(string(cached))

		opts, err := d.service.ManagerOptions(ctx)

		require.NoError(t, err)
		require.Len(t, opts, 1)
		assert.Equal(t, "Root", opts[0].Name)
	})

	t.Run("cache miss loads and stores", func(t *testing.T) {
		d := setupServiceTest(t)
		mgr := activeRecord("100001")
		d.redismock.ExpectGet(masteremployee.ManagerOptionsKey).RedisNil()
		d.repo.EXPECT().Options(gomock.Any()).Return([]masteremployee.MasterEmployee{*mgr}, nil)
		want, _ := json.Marshal([]masteremployee.ManagerOption{{ID: mgr.ID.String(), EmployeeID: "100001", Name: mgr.Name}})
		d.redismock.ExpectSet(masteremployee.ManagerOptionsKey, want, time.Hour).SetVal("OK")

		opts, err := d.service.ManagerOptions(ctx)

		require.NoError(t, err)
		assert.Len(t, opts, 1)
		assert.NoError(t, d.redismock.ExpectationsWereMet())
	})
}

func TestMasterEmployeeService_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("index results keep ranking order", func(t *testing.T) {
		d := setupServiceTest(t)
		a, b := activeRecord("100001"), activeRecord("100002")
		d.index.EXPECT().Search(ctx, "asha", 20).Return([]string{b.ID.String(), a.ID.String()}, nil)
		d.repo.EXPECT().
			FindByIDs(ctx, []string{b.ID.String(), a.ID.String()}).
			Return([]masteremployee.MasterEmployee{*a, *b}, nil)

		res, err := d.service.Search(ctx, "asha")

		require.NoError(t, err)
		require.Len(t, res, 2)
		assert.Equal(t, "100002", res[0].EmployeeID)
	})

	t.Run("falls back to database when index fails", func(t *testing.T) {
		d := setupServiceTest(t)
		d.index.EXPECT().Search(ctx, "asha", 20).Return(nil, errors.New("unreachable"))
		d.repo.EXPECT().Search(ctx, "asha", 20).Return([]masteremployee.MasterEmployee{*activeRecord("100003")}, nil)

		res, err := d.service.Search(ctx, "asha")

		require.NoError(t, err)
		assert.Len(t, res, 1)
	})

	t.Run("blank query", func(t *testing.T) {
		d := setupServiceTest(t)
		res, err := d.service.Search(ctx, "  <b></b> ")
		require.NoError(t, err)
		assert.Empty(t, res)
	})
}

func TestMasterEmployeeService_SeedRoot(t *testing.T) {
	ctx := context.Background()
	d := setupServiceTest(t)
	hr := approvedUser()
	hr.Role = domain.RoleHR

	d.sqlMock.ExpectBegin()
	tx, err := d.db.Begin()
	require.NoError(t, err)

	d.repo.EXPECT().WithTx(tx).Return(d.repo)
	d.repo.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, rec *masteremployee.MasterEmployee) error {
			assert.Nil(t, rec.ManagerID)
			assert.Equal(t, "100001", rec.EmployeeID)
			return nil
		})
	d.audit.EXPECT().Record(ctx, tx, gomock.Any()).Return(nil)

	afterCommit, err := d.service.SeedRoot(ctx, tx, hr, "100001")
	require.NoError(t, err)
	require.NotNil(t, afterCommit)

	// Nothing touches the cache or index until the hook runs.
	d.redismock.ExpectDel(masteremployee.ManagerOptionsKey).SetVal(0)
	d.index.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)
	afterCommit(ctx)
	assert.NoError(t, d.redismock.ExpectationsWereMet())
}

func TestMasterEmployeeService_SeedRootInvalidID(t *testing.T) {
	d := setupServiceTest(t)

	afterCommit, err := d.service.SeedRoot(context.Background(), nil, approvedUser(), "12345")

	assert.ErrorIs(t, err, masteremployeeerrors.ErrInvalidEmployeeID)
	assert.Nil(t, afterCommit)
}
