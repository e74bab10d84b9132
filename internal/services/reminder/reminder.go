// Package services содержит логику бизнес-уровня для напоминаний:
// периодических инструкций публиковать объявления в канале.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/campusboard/campus-news/internal/apperr"
	"github.com/campusboard/campus-news/internal/models"
)

// ReminderRepository описывает контракт для работы с напоминаниями в базе
// данных.
type ReminderRepository interface {
	StoreReminder(ctx context.Context, r *models.Reminder) (int64, error)
	GetReminderByID(ctx context.Context, id int64) (*models.Reminder, error)
	ListRemindersOfChannel(ctx context.Context, channelID int64) ([]*models.Reminder, error)
	UpdateReminder(ctx context.Context, r *models.Reminder) error
	DeleteReminder(ctx context.Context, id int64) error
}

// ChannelAccess проверяет право модератора действовать в канале.
type ChannelAccess interface {
	RequireResponsible(ctx context.Context, channelID, moderatorID int64) error
}

// ReminderPatch частичное обновление напоминания. Поле равно nil, если не
// было передано в запросе.
type ReminderPatch struct {
	StartDate *time.Time       `json:"startDate"`
	EndDate   *time.Time       `json:"endDate"`
	Interval  *int             `json:"interval"`
	Ignore    *bool            `json:"ignore"`
	Title     *string          `json:"title"`
	Text      *string          `json:"text"`
	Priority  *models.Priority `json:"priority"`
}

func (p ReminderPatch) empty() bool {
	return p.StartDate == nil && p.EndDate == nil && p.Interval == nil &&
		p.Ignore == nil && p.Title == nil && p.Text == nil && p.Priority == nil
}

// ReminderService управляет напоминаниями каналов.
type ReminderService struct {
	repo     ReminderRepository
	channels ChannelAccess
	now      func() time.Time
	log      *slog.Logger
}

// NewReminderService создает новый экземпляр ReminderService.
func NewReminderService(repo ReminderRepository, channels ChannelAccess, log *slog.Logger) *ReminderService {
	return &ReminderService{
		repo:     repo,
		channels: channels,
		now:      func() time.Time { return time.Now().UTC() },
		log:      log,
	}
}

func (s *ReminderService) validate(r *models.Reminder) *apperr.Error {
	if r.Title == "" || r.Text == "" {
		return apperr.Incomplete("title and text are required")
	}
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return apperr.Incomplete("startDate and endDate are required")
	}
	if !r.IsValidDates(s.now()) {
		return apperr.InvalidFormat("dates")
	}
	if !r.IsValidInterval() {
		return apperr.InvalidFormat("interval")
	}
	return nil
}

// Create сохраняет новое напоминание. Автором становится запрашивающий
// модератор, он должен отвечать за канал. NextDate остаётся пустой: её
// выставит планировщик при первой оценке напоминания.
func (s *ReminderService) Create(ctx context.Context, requestor *models.Moderator, channelID int64, r models.Reminder) (*models.Reminder, error) {
	if err := s.channels.RequireResponsible(ctx, channelID, requestor.ID); err != nil {
		return nil, err
	}

	r.ChannelID = channelID
	r.AuthorModerator = requestor.ID
	r.NextDate = time.Time{}
	if r.Priority == "" {
		r.Priority = models.PriorityNormal
	}
	if verr := s.validate(&r); verr != nil {
		return nil, verr
	}

	now := s.now()
	r.CreationDate = now
	r.ModificationDate = now

	id, err := s.repo.StoreReminder(ctx, &r)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	r.ID = id

	s.log.Info("created reminder", slog.Int64("id", id), slog.Int64("channel_id", channelID),
		slog.Int("interval", r.Interval))
	return &r, nil
}

// Get возвращает напоминание канала по ID.
func (s *ReminderService) Get(ctx context.Context, requestor *models.Moderator, channelID, reminderID int64) (*models.Reminder, error) {
	if err := s.channels.RequireResponsible(ctx, channelID, requestor.ID); err != nil {
		return nil, err
	}

	r, err := s.repo.GetReminderByID(ctx, reminderID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if r == nil || r.ChannelID != channelID {
		return nil, apperr.NotFound("reminder")
	}
	return r, nil
}

// List возвращает напоминания канала.
func (s *ReminderService) List(ctx context.Context, requestor *models.Moderator, channelID int64) ([]*models.Reminder, error) {
	if err := s.channels.RequireResponsible(ctx, channelID, requestor.ID); err != nil {
		return nil, err
	}

	reminders, err := s.repo.ListRemindersOfChannel(ctx, channelID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return reminders, nil
}

// Update применяет частичное обновление напоминания. Расписание после
// изменения пересчитывается планировщиком заново: NextDate сбрасывается.
func (s *ReminderService) Update(ctx context.Context, requestor *models.Moderator, channelID, reminderID int64, patch ReminderPatch) (*models.Reminder, error) {
	if patch.empty() {
		return nil, apperr.Incomplete("at least one updatable field is required")
	}
	if err := s.channels.RequireResponsible(ctx, channelID, requestor.ID); err != nil {
		return nil, err
	}

	r, err := s.repo.GetReminderByID(ctx, reminderID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if r == nil || r.ChannelID != channelID {
		return nil, apperr.NotFound("reminder")
	}

	if patch.StartDate != nil {
		r.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		r.EndDate = *patch.EndDate
	}
	if patch.Interval != nil {
		r.Interval = *patch.Interval
	}
	if patch.Ignore != nil {
		r.Ignore = *patch.Ignore
	}
	if patch.Title != nil {
		r.Title = *patch.Title
	}
	if patch.Text != nil {
		r.Text = *patch.Text
	}
	if patch.Priority != nil {
		r.Priority = *patch.Priority
	}
	if verr := s.validate(r); verr != nil {
		return nil, verr
	}

	r.ModificationDate = s.now()
	r.NextDate = time.Time{}

	if err := s.repo.UpdateReminder(ctx, r); err != nil {
		return nil, apperr.Storage(err)
	}
	s.log.Info("updated reminder", slog.Int64("id", r.ID), slog.Int64("channel_id", channelID))
	return r, nil
}

// Remove удаляет напоминание канала.
func (s *ReminderService) Remove(ctx context.Context, requestor *models.Moderator, channelID, reminderID int64) error {
	if err := s.channels.RequireResponsible(ctx, channelID, requestor.ID); err != nil {
		return err
	}

	r, err := s.repo.GetReminderByID(ctx, reminderID)
	if err != nil {
		return apperr.Storage(err)
	}
	if r == nil || r.ChannelID != channelID {
		return apperr.NotFound("reminder")
	}

	if err := s.repo.DeleteReminder(ctx, reminderID); err != nil {
		return apperr.Storage(err)
	}
	s.log.Info("removed reminder", slog.Int64("id", reminderID), slog.Int64("channel_id", channelID))
	return nil
}
