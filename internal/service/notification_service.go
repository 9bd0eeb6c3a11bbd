package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/dto"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/models"
	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/repository"
)

// Notifier delivers best-effort notifications to users.
type Notifier interface {
	Notify(ctx context.Context, userID uint, notificationType, message string) error
}

// NotificationService persists notifications and fans them out over NATS.
// Delivery is best-effort end to end: publish failures are logged, never
// surfaced to the triggering operation.
type NotificationService interface {
	Notifier
	List(ctx context.Context, userID uint, limit int) ([]dto.NotificationResponse, error)
	MarkRead(ctx context.Context, id, userID uint) error
}

type notificationService struct {
	repo    repository.NotificationRepository
	nats    *nats.Conn
	subject string
	logger  zerolog.Logger
}

type notificationEvent struct {
	UserID  uint      `json:"user_id"`
	Type    string    `json:"type"`
	Message string    `json:"message"`
	SentAt  time.Time `json:"sent_at"`
}

// NewNotificationService constructs the notification service. The NATS
// connection may be nil, which disables event fan-out.
func NewNotificationService(repo repository.NotificationRepository, natsConn *nats.Conn, subjectBase string, logger zerolog.Logger) NotificationService {
	subject := ""
	if base := subjectToken(subjectBase); base != "" {
		subject = base + ".notifications"
	}

	return &notificationService{
		repo:    repo,
		nats:    natsConn,
		subject: subject,
		logger:  logger.With().Str("component", "notification_service").Logger(),
	}
}

// subjectToken normalizes a free-form name, such as the application name,
// into a valid NATS subject prefix. Subject tokens are dot-separated and
// must not contain whitespace, so spaces and colons become separators and
// empty tokens collapse.
func subjectToken(base string) string {
	tokens := strings.FieldsFunc(strings.ToLower(base), func(r rune) bool {
		return r == ' ' || r == '\t' || r == ':' || r == '.'
	})
	return strings.Join(tokens, ".")
}

func (s *notificationService) Notify(ctx context.Context, userID uint, notificationType, message string) error {
	model := models.Notification{
		UserID:  userID,
		Type:    notificationType,
		Message: message,
	}

	if err := s.repo.Create(ctx, &model); err != nil {
		return err
	}

	if s.nats != nil && s.subject != "" {
		event := notificationEvent{
			UserID:  userID,
			Type:    notificationType,
			Message: message,
			SentAt:  time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err == nil {
			err = s.nats.Publish(s.subject, payload)
		}
		if err != nil {
			s.logger.Warn().Err(err).Uint("user_id", userID).Msg("failed to publish notification event")
		}
	}

	return nil
}

func (s *notificationService) List(ctx context.Context, userID uint, limit int) ([]dto.NotificationResponse, error) {
	notifications, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.NotificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		responses = append(responses, dto.NewNotificationResponse(notification))
	}
	return responses, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID uint) error {
	return s.repo.MarkRead(ctx, id, userID)
}
