package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/mailer"
)

// NotificationService turns ticket lifecycle events into emails. All
// sends are best effort: a mail failure is logged and never propagates
// back into the request that produced the event.
type NotificationService struct {
	mail   mailer.Mailer
	logger *zap.Logger
}

func NewNotificationService(mail mailer.Mailer, logger *zap.Logger) *NotificationService {
	return &NotificationService{mail: mail, logger: logger}
}

// HandleTicketCreated notifies the requester that the ticket was opened.
func (s *NotificationService) HandleTicketCreated(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return nil
	}
	if payload.RequesterEmail == "" {
		return nil
	}
	if err := s.mail.SendTicketOpenedEmail(payload.RequesterEmail, payload.Title); err != nil {
		s.logger.Error("failed to send ticket opened email",
			zap.Int64("ticket_id", event.TicketID), zap.Error(err))
	}
	return nil
}

// HandleStatusChanged notifies the requester about the new status.
func (s *NotificationService) HandleStatusChanged(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		return nil
	}
	if payload.RequesterEmail == "" || payload.OldStatusID == payload.NewStatusID {
		return nil
	}
	if err := s.mail.SendTicketStatusEmail(payload.RequesterEmail, payload.TicketTitle, payload.NewStatusName); err != nil {
		s.logger.Error("failed to send status change email",
			zap.Int64("ticket_id", event.TicketID), zap.Error(err))
	}
	return nil
}

// HandleTicketAssigned notifies the technician about the new assignment.
func (s *NotificationService) HandleTicketAssigned(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketAssignedPayload)
	if !ok {
		return nil
	}
	if payload.TechnicianEmail == "" {
		return nil
	}
	if err := s.mail.SendTicketAssignedEmail(payload.TechnicianEmail, payload.TicketTitle); err != nil {
		s.logger.Error("failed to send assignment email",
			zap.Int64("ticket_id", event.TicketID), zap.Error(err))
	}
	return nil
}
