package audit_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Jstali/employee-onboarding-sub000/internal/audit"
	auditMock "github.com/Jstali/employee-onboarding-sub000/internal/audit/mock"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/contextutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestAuditService_Record(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := auditMock.NewMockRepository(ctrl)
	svc := audit.NewService(repo)

	actorID := uuid.New()
	ctx := context.Background()
	ctx = contextutil.WithUserID(ctx, actorID.String())
	ctx = contextutil.WithRequestID(ctx, "req-42")
	ctx = contextutil.WithClient(ctx, "192.168.1.10", "Mozilla/5.0")

	t.Run("success - takes actor and client from context", func(t *testing.T) {
		repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, row *audit.AuditLog) error {
				assert.Equal(t, audit.ActionOnboardingApproved, row.Action)
				assert.Equal(t, actorID, *row.ActorID)
				assert.Equal(t, "192.168.1.10", row.IPAddress)
				assert.Equal(t, "Mozilla/5.0", row.UserAgent)
				assert.Equal(t, "req-42", row.RequestID)
				assert.Equal(t, "user-1", *row.TargetID)

				var details map[string]string
				assert.NoError(t, json.Unmarshal(row.Details, &details))
				assert.Equal(t, "looks good", details["note"])
				return nil
			})

		err := svc.Record(ctx, nil, audit.Entry{
			Action:   audit.ActionOnboardingApproved,
			TargetID: "user-1",
			Details:  map[string]string{"note": "looks good"},
		})
		assert.NoError(t, err)
	})

	t.Run("inside transaction", func(t *testing.T) {
		db, mock, _ := sqlmock.New()
		defer db.Close()
		mock.ExpectBegin()
		tx, err := db.Begin()
		assert.NoError(t, err)

		repo.EXPECT().WithTx(tx).Return(repo)
		repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

		assert.NoError(t, svc.Record(ctx, tx, audit.Entry{Action: audit.ActionAttendanceMarked}))
	})

	t.Run("system entry has no actor", func(t *testing.T) {
		repo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, row *audit.AuditLog) error {
				assert.Nil(t, row.ActorID)
				return nil
			})

		assert.NoError(t, svc.Record(context.Background(), (*sql.Tx)(nil), audit.Entry{Action: "system.server_started"}))
	})

	t.Run("repository error", func(t *testing.T) {
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

		err := svc.Record(ctx, nil, audit.Entry{Action: audit.ActionLogin})
		assert.EqualError(t, err, "db down")
	})
}

func TestAuditService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := auditMock.NewMockRepository(ctrl)
	svc := audit.NewService(repo)
	ctx := context.Background()

	t.Run("success - inclusive date range", func(t *testing.T) {
		repo.EXPECT().
			List(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, q audit.ListQuery) ([]audit.AuditLog, int64, error) {
				assert.Equal(t, 10, q.Limit)
				assert.Equal(t, 10, q.Offset)
				assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), *q.From)
				assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), *q.To)
				return []audit.AuditLog{{ID: uuid.New(), Action: audit.ActionLogin, CreatedAt: time.Now()}}, 11, nil
			})

		rows, total, err := svc.List(ctx, audit.ListFilter{From: "2024-06-01", To: "2024-06-30", Page: 2, PageSize: 10})

		assert.NoError(t, err)
		assert.Equal(t, int64(11), total)
		assert.Len(t, rows, 1)
		assert.Nil(t, rows[0].ActorID)
	})

	t.Run("from after to", func(t *testing.T) {
		_, _, err := svc.List(ctx, audit.ListFilter{From: "2024-07-01", To: "2024-06-01", Page: 1, PageSize: 10})
		assert.Error(t, err)
	})
}
