package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/music-collection/internal/events"
)

// NotificationService forwards account lifecycle events to downstream consumers.
type NotificationService struct {
	dispatcher events.Dispatcher
	relay      events.EventHandler
	logger     *zap.Logger
}

// NewNotificationService creates the service. relay may be nil, in which
// case events are only logged.
func NewNotificationService(dispatcher events.Dispatcher, relay events.EventHandler, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		relay:      relay,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventUserRegistered,
		events.EventUserPromoted,
		events.EventUserDemoted,
		events.EventUserDeleted,
	} {
		n.dispatcher.Subscribe(eventType, n.handle)
	}
}

func (n *NotificationService) handle(ctx context.Context, event events.Event) error {
	n.logger.Info("account event",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.Int64("user_id", event.UserID))
	if n.relay == nil {
		return nil
	}
	return n.relay(ctx, event)
}
