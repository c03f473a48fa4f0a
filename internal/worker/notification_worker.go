package worker

import (
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// RegisterNotificationHandlers wires the notification service into the
// event dispatcher. Handlers run synchronously with the publishing
// request but their errors are swallowed by the dispatcher.
func RegisterNotificationHandlers(dispatcher events.Dispatcher, notifications *service.NotificationService) {
	dispatcher.Subscribe(events.EventTicketCreated, notifications.HandleTicketCreated)
	dispatcher.Subscribe(events.EventTicketStatusChanged, notifications.HandleStatusChanged)
	dispatcher.Subscribe(events.EventTicketAssigned, notifications.HandleTicketAssigned)
}
