// Package services содержит логику бизнес-уровня для работы с каналами и
// их ответственными модераторами.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/campusboard/campus-news/internal/apperr"
	"github.com/campusboard/campus-news/internal/models"
)

// ChannelRepository описывает контракт для работы с каналами в базе данных.
type ChannelRepository interface {
	// StoreChannel сохраняет канал вместе с его вариативными данными и делает
	// создателя ответственным модератором. Возвращает ID канала.
	StoreChannel(ctx context.Context, c *models.Channel, creatorID int64) (int64, error)

	// GetChannelByID возвращает канал либо nil, если не найден.
	GetChannelByID(ctx context.Context, id int64) (*models.Channel, error)

	ListChannels(ctx context.Context) ([]*models.Channel, error)
	AddModeratorToChannel(ctx context.Context, channelID, moderatorID int64) error
	RemoveModeratorFromChannel(ctx context.Context, channelID, moderatorID int64) error
	IsResponsibleModerator(ctx context.Context, channelID, moderatorID int64) (bool, error)
}

// ModeratorResolver находит учётную запись модератора по имени.
type ModeratorResolver interface {
	GetModeratorByName(ctx context.Context, name string) (*models.Moderator, error)
}

// Cache кеш каналов.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

const channelCacheTTL = time.Hour

// ChannelService управляет каналами и членством модераторов в них.
type ChannelService struct {
	repo       ChannelRepository
	moderators ModeratorResolver
	cache      Cache
	log        *slog.Logger
}

// NewChannelService создает новый экземпляр ChannelService.
func NewChannelService(repo ChannelRepository, moderators ModeratorResolver, cache Cache, log *slog.Logger) *ChannelService {
	return &ChannelService{
		repo:       repo,
		moderators: moderators,
		cache:      cache,
		log:        log,
	}
}

func channelCacheKey(id int64) string {
	return fmt.Sprintf("channel:%d", id)
}

func validChannelType(t models.ChannelType) bool {
	switch t {
	case models.ChannelLecture, models.ChannelEvent, models.ChannelSports,
		models.ChannelStudentGroup, models.ChannelOther:
		return true
	}
	return false
}

// Create сохраняет новый канал. Создатель становится его первым ответственным
// модератором. Вариативные данные должны соответствовать типу канала.
func (s *ChannelService) Create(ctx context.Context, requestor *models.Moderator, c models.Channel) (*models.Channel, error) {
	if c.Name == "" || c.Type == "" {
		return nil, apperr.Incomplete("name and type are required")
	}
	if !validChannelType(c.Type) {
		return nil, apperr.InvalidFormat("type")
	}
	switch c.Type {
	case models.ChannelLecture:
		if c.Lecture == nil {
			return nil, apperr.Incomplete("lecture payload is required")
		}
	case models.ChannelEvent:
		if c.Event == nil {
			return nil, apperr.Incomplete("event payload is required")
		}
	case models.ChannelSports:
		if c.Sports == nil {
			return nil, apperr.Incomplete("sports payload is required")
		}
	}

	now := time.Now().UTC()
	c.CreationDate = now
	c.ModificationDate = now

	id, err := s.repo.StoreChannel(ctx, &c, requestor.ID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	c.ID = id
	c.Moderators = []models.ChannelModerator{{ModeratorID: requestor.ID, Active: true}}

	s.log.Info("created channel", slog.Int64("id", id), slog.String("type", string(c.Type)))

	if err := s.cache.Set(channelCacheKey(id), c, channelCacheTTL); err != nil {
		s.log.Warn("failed to cache channel", slog.Any("err", err))
	}
	return &c, nil
}

// Read возвращает канал по ID, сперва из кеша.
func (s *ChannelService) Read(ctx context.Context, id int64) (*models.Channel, error) {
	var cached models.Channel
	found, err := s.cache.Get(channelCacheKey(id), &cached)
	if err != nil {
		s.log.Warn("failed to read channel from cache", slog.Any("err", err))
	}
	if found {
		return &cached, nil
	}

	c, err := s.repo.GetChannelByID(ctx, id)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if c == nil {
		return nil, apperr.NotFound("channel")
	}

	if err := s.cache.Set(channelCacheKey(id), c, channelCacheTTL); err != nil {
		s.log.Warn("failed to cache channel", slog.Any("err", err))
	}
	return c, nil
}

// List возвращает все каналы.
func (s *ChannelService) List(ctx context.Context) ([]*models.Channel, error) {
	channels, err := s.repo.ListChannels(ctx)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return channels, nil
}

// AddModerator делает модератора с данным именем ответственным за канал.
// Добавлять может только модератор, уже ответственный за этот канал.
func (s *ChannelService) AddModerator(ctx context.Context, requestor *models.Moderator, channelID int64, moderatorName string) error {
	responsible, err := s.repo.IsResponsibleModerator(ctx, channelID, requestor.ID)
	if err != nil {
		return apperr.Storage(err)
	}
	if !responsible {
		return apperr.Forbidden("only a responsible moderator may add moderators to the channel")
	}

	target, err := s.moderators.GetModeratorByName(ctx, moderatorName)
	if err != nil {
		return apperr.Storage(err)
	}
	if target == nil || target.Deleted {
		return apperr.NotFound("moderator")
	}

	if err := s.repo.AddModeratorToChannel(ctx, channelID, target.ID); err != nil {
		return apperr.Storage(err)
	}
	s.log.Info("added moderator to channel",
		slog.Int64("channel_id", channelID), slog.Int64("moderator_id", target.ID))

	if err := s.cache.Invalidate(channelCacheKey(channelID)); err != nil {
		s.log.Warn("failed to invalidate cached channel", slog.Any("err", err))
	}
	return nil
}

// RemoveModerator снимает с модератора ответственность за один канал.
// Снимать может только модератор, ответственный за этот канал. Последнего
// активного ответственного снять нельзя: канал не может остаться без
// модератора.
func (s *ChannelService) RemoveModerator(ctx context.Context, requestor *models.Moderator, channelID, moderatorID int64) error {
	responsible, err := s.repo.IsResponsibleModerator(ctx, channelID, requestor.ID)
	if err != nil {
		return apperr.Storage(err)
	}
	if !responsible {
		return apperr.Forbidden("only a responsible moderator may remove moderators from the channel")
	}

	c, err := s.repo.GetChannelByID(ctx, channelID)
	if err != nil {
		return apperr.Storage(err)
	}
	if c == nil {
		return apperr.NotFound("channel")
	}

	var link *models.ChannelModerator
	for i := range c.Moderators {
		if c.Moderators[i].ModeratorID == moderatorID {
			link = &c.Moderators[i]
			break
		}
	}
	if link == nil || !link.Active {
		return apperr.NotFound("moderator")
	}
	if c.ActiveModerators() == 1 {
		return apperr.Forbidden("moderator is the only one responsible for the channel")
	}

	if err := s.repo.RemoveModeratorFromChannel(ctx, channelID, moderatorID); err != nil {
		return apperr.Storage(err)
	}
	s.log.Info("removed moderator from channel",
		slog.Int64("channel_id", channelID), slog.Int64("moderator_id", moderatorID))

	if err := s.cache.Invalidate(channelCacheKey(channelID)); err != nil {
		s.log.Warn("failed to invalidate cached channel", slog.Any("err", err))
	}
	return nil
}

// RequireResponsible возвращает Forbidden, если модератор не отвечает за канал.
func (s *ChannelService) RequireResponsible(ctx context.Context, channelID, moderatorID int64) error {
	responsible, err := s.repo.IsResponsibleModerator(ctx, channelID, moderatorID)
	if err != nil {
		return apperr.Storage(err)
	}
	if !responsible {
		return apperr.Forbidden("moderator is not responsible for the channel")
	}
	return nil
}
