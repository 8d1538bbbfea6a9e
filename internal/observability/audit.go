package observability

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/job-marketplace/internal/events"
)

// RegisterAuditLog subscribes a zap sink for every auth audit event type.
// Token strings never appear in events, only subjects and failure kinds.
func RegisterAuditLog(dispatcher events.Dispatcher, logger *zap.Logger) {
	eventTypes := []events.EventType{
		events.EventLoginSucceeded,
		events.EventLoginRejected,
		events.EventTokenRefreshed,
		events.EventTokenRevoked,
		events.EventRequestRejected,
		events.EventUserSignedUp,
		events.EventUserVerified,
	}

	audit := logger.Named("audit")
	for _, eventType := range eventTypes {
		dispatcher.Subscribe(eventType, func(_ context.Context, ev events.Event) error {
			fields := []zap.Field{
				zap.String("event_id", ev.ID),
				zap.String("type", string(ev.Type)),
				zap.Time("at", ev.Timestamp),
			}
			if ev.Subject != "" {
				fields = append(fields, zap.String("subject", ev.Subject))
			}
			if ev.Reason != "" {
				fields = append(fields, zap.String("reason", ev.Reason))
			}
			if ev.Path != "" {
				fields = append(fields, zap.String("method", ev.Method), zap.String("path", ev.Path))
			}
			audit.Info("auth event", fields...)
			return nil
		})
	}
}
