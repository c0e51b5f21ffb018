package audit

import (
	"context"

	"github.com/Jstali/employee-onboarding-sub000/internal/bootstrap"

	"go.uber.org/zap"
)

// SystemLogger records process-level events (server start/stop) in the
// audit log without an acting user.
type SystemLogger struct {
	recorder Recorder
	logger   *zap.Logger
}

func NewSystemLogger(recorder Recorder, logger *zap.Logger) *SystemLogger {
	if logger == nil {
		logger = zap.L()
	}
	return &SystemLogger{recorder: recorder, logger: logger.Named("audit.system")}
}

func (l *SystemLogger) Log(ctx context.Context, entry bootstrap.AuditLog) {
	details := map[string]any{"message": entry.Message}
	for k, v := range entry.Meta {
		details[k] = v
	}

	if err := l.recorder.Record(ctx, nil, Entry{Action: entry.Action, Details: details}); err != nil {
		l.logger.Warn("system audit entry not persisted",
			zap.String("action", entry.Action),
			zap.Error(err),
		)
	}
}
