package bootstrap_test

import (
	"context"
	"testing"

	"github.com/Jstali/employee-onboarding-sub000/internal/bootstrap"

	"github.com/stretchr/testify/assert"
)

type recordingLogger struct {
	entries []bootstrap.AuditLog
}

func (r *recordingLogger) Log(_ context.Context, entry bootstrap.AuditLog) {
	r.entries = append(r.entries, entry)
}

func TestMultiAuditLogger(t *testing.T) {
	a, b := &recordingLogger{}, &recordingLogger{}
	multi := bootstrap.MultiAuditLogger{a, nil, b}

	multi.Log(context.Background(), bootstrap.AuditLog{Action: bootstrap.ActionServerShutdown})

	assert.Len(t, a.entries, 1)
	assert.Len(t, b.entries, 1)
	assert.Equal(t, bootstrap.ActionServerShutdown, b.entries[0].Action)
}
