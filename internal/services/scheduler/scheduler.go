// Package services содержит цикл обработки напоминаний: периодическую
// оценку активных напоминаний и публикацию объявлений в брокер уведомлений.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/campusboard/campus-news/internal/lib/rabbitmq"
	"github.com/campusboard/campus-news/internal/lib/sl"
	"github.com/campusboard/campus-news/internal/metrics"
	"github.com/campusboard/campus-news/internal/models"
)

// ReminderRepository описывает доступ планировщика к напоминаниям.
type ReminderRepository interface {
	// FindActiveReminders возвращает напоминания, которые ещё не отработали.
	FindActiveReminders(ctx context.Context) ([]*models.Reminder, error)

	// UpdateReminderSchedule сохраняет продвинутую дату срабатывания и флаг
	// пропуска. Остальные поля не трогаются.
	UpdateReminderSchedule(ctx context.Context, r *models.Reminder) error

	GetChannelSubscribers(ctx context.Context, channelID int64) ([]int64, error)
}

// Publisher публикует сообщения в брокер уведомлений.
type Publisher interface {
	Publish(exchange, routingKey string, message any) error
}

// AccountPurger окончательно удаляет мягко удалённые учётные записи, на
// которые больше не ссылается ни один канал.
type AccountPurger interface {
	PurgeDeleted(ctx context.Context) error
}

// SchedulerService периодически оценивает напоминания и порождает объявления.
// Тем же тактом зачищает учётные записи, ожидающие окончательного удаления.
type SchedulerService struct {
	repo   ReminderRepository
	pub    Publisher
	purger AccountPurger
	now    func() time.Time
	log    *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo ReminderRepository, pub Publisher, purger AccountPurger, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo:   repo,
		pub:    pub,
		purger: purger,
		now:    func() time.Time { return time.Now().UTC() },
		log:    log,
	}
}

// Run запускает цикл оценки напоминаний с заданным периодом и блокируется
// до отмены контекста.
func (s *SchedulerService) Run(ctx context.Context, tick time.Duration) {
	s.RunOnce(ctx)

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.RunOnce(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// RunOnce выполняет один проход: зачистку удалённых учётных записей и оценку
// активных напоминаний. Каждое напоминание обрабатывается независимо: ошибка
// одного не прерывает обработку остальных.
func (s *SchedulerService) RunOnce(ctx context.Context) {
	if err := s.purger.PurgeDeleted(ctx); err != nil {
		s.log.Error("failed to purge deleted moderators", sl.Err(err))
	}

	s.log.Info("starting reminder evaluation pass")
	reminders, err := s.repo.FindActiveReminders(ctx)
	if err != nil {
		s.log.Error("failed to find active reminders", sl.Err(err))
		return
	}
	if len(reminders) == 0 {
		s.log.Info("no active reminders found")
		return
	}
	s.log.Info("found active reminders", "count", len(reminders))

	for _, r := range reminders {
		s.evaluate(ctx, r)
	}
}

// evaluate активирует напоминание при первой встрече, срабатывает его, если
// время пришло, и продвигает дату следующего срабатывания. Продвинутое
// расписание сохраняется только после успешной публикации: неопубликованное
// срабатывание повторится на следующем проходе.
func (s *SchedulerService) evaluate(ctx context.Context, r *models.Reminder) {
	now := s.now()

	activated := r.NextDate.IsZero()
	if activated {
		r.ComputeFirstNextDate(now)
	}

	if r.IsExpired(now) {
		// Сохраняется, чтобы отработавшее напоминание ушло из выборки.
		if err := s.repo.UpdateReminderSchedule(ctx, r); err != nil {
			s.log.Error("failed to persist expired reminder", sl.Err(err),
				slog.Int64("reminder_id", r.ID))
		}
		return
	}

	if !r.Due(now) {
		if activated {
			if err := s.repo.UpdateReminderSchedule(ctx, r); err != nil {
				s.log.Error("failed to persist activated reminder", sl.Err(err),
					slog.Int64("reminder_id", r.ID))
			}
		}
		return
	}

	if r.Ignore {
		// Однократный пропуск: срабатывание подавляется, флаг снимается.
		r.Ignore = false
	} else if err := s.fire(ctx, r); err != nil {
		s.log.Error("failed to fire reminder", sl.Err(err), slog.Int64("reminder_id", r.ID))
		return
	}

	r.ComputeNextDate(now)
	if err := s.repo.UpdateReminderSchedule(ctx, r); err != nil {
		s.log.Error("failed to advance reminder schedule", sl.Err(err),
			slog.Int64("reminder_id", r.ID))
	}
}

func (s *SchedulerService) fire(ctx context.Context, r *models.Reminder) error {
	subscribers, err := s.repo.GetChannelSubscribers(ctx, r.ChannelID)
	if err != nil {
		return err
	}

	ann := models.Announcement{
		ChannelID:       r.ChannelID,
		AuthorModerator: r.AuthorModerator,
		Title:           r.Title,
		Text:            r.Text,
		Priority:        r.Priority,
		FiredAt:         s.now(),
		Subscribers:     subscribers,
	}
	if err := s.pub.Publish(rabbitmq.Exchange, rabbitmq.RoutingKeyAnnouncement, ann); err != nil {
		return err
	}
	metrics.AnnouncementsFired.Inc()

	event := models.PushEvent{
		Type:       models.PushAnnouncementNew,
		Recipients: subscribers,
		ChannelID:  r.ChannelID,
		ActorID:    r.AuthorModerator,
	}
	if err := s.pub.Publish(rabbitmq.Exchange, rabbitmq.RoutingKeyPush, event); err != nil {
		// Объявление уже опубликовано, расписание продвигается: повторная
		// публикация объявления хуже потерянного push-события.
		s.log.Error("failed to publish push event", sl.Err(err), slog.Int64("reminder_id", r.ID))
	}

	s.log.Info("reminder fired", slog.Int64("reminder_id", r.ID),
		slog.Int64("channel_id", r.ChannelID), slog.Int("subscribers", len(subscribers)))
	return nil
}
