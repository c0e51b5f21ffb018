package bootstrap

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	ActionServerStarted  = "system.server_started"
	ActionServerShutdown = "system.server_shutdown"
)

type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}

type StdoutAuditLogger struct{}

func NewStdoutAuditLogger() *StdoutAuditLogger {
	return &StdoutAuditLogger{}
}

func (l *StdoutAuditLogger) Log(ctx context.Context, entry AuditLog) {
	zap.L().Named("audit").Info("audit event",
		zap.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		zap.String("action", entry.Action),
		zap.String("message", entry.Message),
		zap.Any("meta", entry.Meta),
	)
}

// MultiAuditLogger fans an entry out to several loggers.
type MultiAuditLogger []AuditLogger

func (m MultiAuditLogger) Log(ctx context.Context, entry AuditLog) {
	for _, l := range m {
		if l != nil {
			l.Log(ctx, entry)
		}
	}
}
