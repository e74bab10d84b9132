// Package services содержит воркер доставки уведомлений: потребляет очереди
// брокера и рассылает письма об объявлениях ответственным модераторам и
// push-события подписчикам.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/campusboard/campus-news/internal/lib/sl"
	"github.com/campusboard/campus-news/internal/metrics"
	"github.com/campusboard/campus-news/internal/models"
)

// ModeratorDirectory возвращает ответственных модераторов канала для
// почтовой рассылки.
type ModeratorDirectory interface {
	GetResponsibleModeratorEmails(ctx context.Context, channelID int64) ([]*models.Moderator, error)
}

// Mailer отправляет письмо об объявлении на языке получателя.
type Mailer interface {
	SendAnnouncementFired(to []string, locale models.Language, ann *models.Announcement) error
}

// PushGateway доставляет push-событие получателям. Реализация определяется
// окружением: в проде это внешний шлюз, в тестах заглушка.
type PushGateway interface {
	Notify(event models.PushEvent) error
}

// SenderService обрабатывает сообщения из очередей уведомлений.
type SenderService struct {
	directory ModeratorDirectory
	mailer    Mailer
	push      PushGateway
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(directory ModeratorDirectory, mailer Mailer, push PushGateway, log *slog.Logger) *SenderService {
	return &SenderService{
		directory: directory,
		mailer:    mailer,
		push:      push,
		log:       log,
	}
}

// HandleAnnouncement обрабатывает сработавшее напоминание: письмо уходит
// каждому ответственному модератору канала на его языке.
func (s *SenderService) HandleAnnouncement(body []byte) error {
	var ann models.Announcement
	if err := json.Unmarshal(body, &ann); err != nil {
		s.log.Error("failed to unmarshal announcement", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	moderators, err := s.directory.GetResponsibleModeratorEmails(context.Background(), ann.ChannelID)
	if err != nil {
		s.log.Error("failed to load responsible moderators", sl.Err(err),
			slog.Int64("channel_id", ann.ChannelID))
		return err
	}
	if len(moderators) == 0 {
		s.log.Warn("announcement for channel without responsible moderators",
			slog.Int64("channel_id", ann.ChannelID))
		return nil
	}

	// Письма группируются по языку получателя.
	byLocale := make(map[models.Language][]string)
	for _, m := range moderators {
		byLocale[m.Language] = append(byLocale[m.Language], m.Email)
	}
	for locale, to := range byLocale {
		if err := s.mailer.SendAnnouncementFired(to, locale, &ann); err != nil {
			return err
		}
	}

	s.log.Info("announcement mails dispatched", slog.Int64("channel_id", ann.ChannelID),
		slog.Int("moderators", len(moderators)))
	return nil
}

// HandlePush обрабатывает push-событие из очереди.
func (s *SenderService) HandlePush(body []byte) error {
	var event models.PushEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal push event", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	if len(event.Recipients) == 0 {
		s.log.Info("push event without recipients, skipping", slog.String("type", event.Type))
		return nil
	}

	if err := s.push.Notify(event); err != nil {
		s.log.Error("failed to dispatch push event", sl.Err(err), slog.String("type", event.Type))
		return err
	}
	metrics.PushEventsSent.Inc()

	s.log.Info("push event dispatched", slog.String("type", event.Type),
		slog.Int("recipients", len(event.Recipients)))
	return nil
}
