package commands

import "context"

// Telemetry receives one record per executed action.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type discardTelemetry struct{}

func (discardTelemetry) Record(context.Context, string, map[string]any) {}

func withTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return discardTelemetry{}
	}
	return t
}

func recordAction(ctx context.Context, t Telemetry, action, viewID string, extra map[string]any) {
	payload := map[string]any{"view": viewID}
	for k, v := range extra {
		payload[k] = v
	}
	t.Record(ctx, "backoffice.action."+action, payload)
}
