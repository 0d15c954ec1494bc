package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/music-collection/internal/events"
	"github.com/spec-kit/music-collection/internal/service"
)

// StartNotificationWorker subscribes the account event handlers. Events are
// relayed to channel through publisher when one is given and only logged
// otherwise.
func StartNotificationWorker(dispatcher events.Dispatcher, publisher events.Publisher, channel string, logger *zap.Logger) *service.NotificationService {
	if dispatcher == nil {
		return nil
	}
	var relay events.EventHandler
	if publisher != nil {
		relay = events.NewRedisRelay(publisher, channel).Handle
		logger.Info("relaying account events", zap.String("channel", channel))
	}
	notifications := service.NewNotificationService(dispatcher, relay, logger)
	notifications.RegisterHandlers()
	return notifications
}
