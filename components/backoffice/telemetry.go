package backoffice

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

// Telemetry records dashboard events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

// LogTelemetry writes events as structured logrus entries. Events whose name
// ends in "_error" are logged at warn level, everything else at debug.
type LogTelemetry struct {
	Logger logrus.FieldLogger
}

// NewLogTelemetry wraps the logger, falling back to the logrus standard logger.
func NewLogTelemetry(logger logrus.FieldLogger) *LogTelemetry {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogTelemetry{Logger: logger}
}

// Record implements Telemetry.
func (t *LogTelemetry) Record(ctx context.Context, event string, payload map[string]any) {
	if t == nil || t.Logger == nil {
		return
	}
	entry := t.Logger.WithFields(logrus.Fields(payload)).WithField("event", event)
	if viewer := ViewerFromContext(ctx); viewer.UserID != "" {
		entry = entry.WithField("viewer", viewer.UserID)
	}
	if strings.HasSuffix(event, "_error") {
		entry.Warn("backoffice event")
		return
	}
	entry.Debug("backoffice event")
}
