// Package services содержит логику бизнес-уровня управления учётными записями
// модераторов: создание с выдачей идентификационного токена, обновление,
// мягкое удаление, сброс пароля и аутентификация.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/campusboard/campus-news/internal/apperr"
	"github.com/campusboard/campus-news/internal/lib/password"
	"github.com/campusboard/campus-news/internal/lib/sl"
	"github.com/campusboard/campus-news/internal/lib/token"
	"github.com/campusboard/campus-news/internal/models"
	"github.com/campusboard/campus-news/internal/storage/repository"
)

// ModeratorRepository описывает контракт для работы с учётными записями
// модераторов в базе данных.
type ModeratorRepository interface {
	// StoreModerator сохраняет новую учётную запись и возвращает её ID.
	// Нарушение уникальности токена или имени отдаётся отдельными ошибками.
	StoreModerator(ctx context.Context, m *models.Moderator) (int64, error)

	// GetModeratorByID возвращает запись по ID либо nil, если не найдена.
	GetModeratorByID(ctx context.Context, id int64) (*models.Moderator, error)

	// GetModeratorByName возвращает запись по имени либо nil, если не найдена.
	GetModeratorByName(ctx context.Context, name string) (*models.Moderator, error)

	// GetModeratorByToken возвращает запись по токену либо nil, если не найдена.
	GetModeratorByToken(ctx context.Context, accessToken string) (*models.Moderator, error)

	// GetModerators возвращает записи, отфильтрованные по флагам. Нулевой
	// фильтр означает отсутствие ограничения.
	GetModerators(ctx context.Context, isLocked, isAdmin *bool) ([]*models.Moderator, error)

	UpdateModerator(ctx context.Context, m *models.Moderator) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	MarkModeratorAsDeleted(ctx context.Context, id int64) error
	GetDeletedModeratorIDs(ctx context.Context) ([]int64, error)
	DeleteModerator(ctx context.Context, id int64) error
}

// ChannelRegistry описывает сведения о связях модераторов с каналами,
// необходимые при удалении учётной записи.
type ChannelRegistry interface {
	GetChannelsOfModerator(ctx context.Context, moderatorID int64) ([]*models.Channel, error)
	RemoveModeratorFromChannels(ctx context.Context, moderatorID int64) error
	IsModeratorStillNeeded(ctx context.Context, moderatorID int64) (bool, error)
}

// Mailer отправляет письма об изменениях учётной записи. Отправка блокирует
// запрос: её неуспех поднимается к вызывающему.
type Mailer interface {
	SendAccountCreated(m *models.Moderator) error
	SendAccountLocked(m *models.Moderator, locked bool) error
	SendAdminChanged(m *models.Moderator, admin bool) error
	SendAccountDeleted(m *models.Moderator) error
	SendPasswordReset(m *models.Moderator, plaintext string) error
}

// PushPublisher доставляет push-события подписчикам каналов.
type PushPublisher interface {
	PublishPush(event models.PushEvent) error
}

// Cache кеш для резолва модератора по токену.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// maxTokenRetries ограничивает цикл перевыпуска токена при коллизии.
// Коллизия SHA-256 от 256 случайных байт на практике не встречается,
// ограничение защищает от зацикливания при деградации хранилища.
const maxTokenRetries = 10

const tokenCacheTTL = 5 * time.Minute

// ModeratorService управляет жизненным циклом учётных записей модераторов.
type ModeratorService struct {
	repo            ModeratorRepository
	channels        ChannelRegistry
	mailer          Mailer
	push            PushPublisher
	cache           Cache
	purger          *Purger
	tokens          *token.Issuer
	passwords       *password.Generator
	defaultLanguage models.Language
	log             *slog.Logger
}

// NewModeratorService создает новый экземпляр ModeratorService.
func NewModeratorService(repo ModeratorRepository, channels ChannelRegistry, mailer Mailer,
	push PushPublisher, cache Cache, tokens *token.Issuer, passwords *password.Generator,
	defaultLanguage models.Language, log *slog.Logger) *ModeratorService {
	return &ModeratorService{
		repo:            repo,
		channels:        channels,
		mailer:          mailer,
		push:            push,
		cache:           cache,
		purger:          NewPurger(repo, channels, log),
		tokens:          tokens,
		passwords:       passwords,
		defaultLanguage: defaultLanguage,
		log:             log,
	}
}

func tokenCacheKey(accessToken string) string {
	return "moderator:token:" + accessToken
}

// Create валидирует и сохраняет новую учётную запись. Новая запись всегда
// заблокирована и без прав администратора: разблокирует её администратор
// после рассмотрения заявки. Возвращает очищенную запись и выданный токен;
// токен отдаётся вызывающему отдельно и не попадает в тело ответа.
func (s *ModeratorService) Create(ctx context.Context, m models.Moderator) (*models.Moderator, string, error) {
	if verr := ValidateCreation(&m); verr != nil {
		return nil, "", verr
	}

	m.Locked = true
	m.Admin = false
	m.Deleted = false
	if m.Language == "" {
		m.Language = s.defaultLanguage
	}

	hashed, err := password.GetHash(m.PasswordHash)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}
	m.PasswordHash = hashed

	var accessToken string
	for attempt := 0; ; attempt++ {
		accessToken, err = s.tokens.Issue()
		if err != nil {
			return nil, "", fmt.Errorf("issue token: %w", err)
		}
		m.AccessToken = accessToken

		id, err := s.repo.StoreModerator(ctx, &m)
		if err == nil {
			m.ID = id
			break
		}
		if errors.Is(err, repository.ErrTokenExists) && attempt < maxTokenRetries {
			s.log.Warn("access token collision, reissuing", slog.Int("attempt", attempt+1))
			continue
		}
		if errors.Is(err, repository.ErrNameExists) {
			return nil, "", apperr.NameConflict()
		}
		return nil, "", apperr.Storage(err)
	}

	s.log.Info("created moderator account", slog.Int64("id", m.ID), slog.String("name", m.Name))

	if err := s.mailer.SendAccountCreated(&m); err != nil {
		// Учётная запись уже сохранена, откат не выполняется.
		return nil, "", apperr.Notification(err)
	}

	result := m
	result.Sanitize()
	return &result, accessToken, nil
}

// ResolveByToken возвращает модератора по идентификационному токену.
// Несуществующий токен и удалённая запись неразличимы для клиента.
func (s *ModeratorService) ResolveByToken(ctx context.Context, accessToken string) (*models.Moderator, error) {
	if accessToken == "" {
		return nil, apperr.Unauthorized()
	}

	var cached models.Moderator
	found, err := s.cache.Get(tokenCacheKey(accessToken), &cached)
	if err != nil {
		s.log.Warn("failed to read moderator from cache", sl.Err(err))
	}
	if found && !cached.Deleted {
		return &cached, nil
	}

	m, err := s.repo.GetModeratorByToken(ctx, accessToken)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if m == nil || m.Deleted {
		return nil, apperr.Unauthorized()
	}

	if err := s.cache.Set(tokenCacheKey(accessToken), m, tokenCacheTTL); err != nil {
		s.log.Warn("failed to cache moderator", sl.Err(err))
	}
	return m, nil
}

// Get возвращает учётную запись по ID. Не-администратор может запросить
// только собственную запись.
func (s *ModeratorService) Get(ctx context.Context, requestor *models.Moderator, id int64) (*models.Moderator, error) {
	if !requestor.Admin && requestor.ID != id {
		return nil, apperr.Forbidden("only an administrator may read other accounts")
	}

	m, err := s.repo.GetModeratorByID(ctx, id)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if m == nil {
		return nil, apperr.NotFound("moderator")
	}

	m.Sanitize()
	return m, nil
}

// List возвращает учётные записи, отфильтрованные по флагам locked и admin.
// Доступно только администраторам.
func (s *ModeratorService) List(ctx context.Context, requestor *models.Moderator, isLocked, isAdmin *bool) ([]*models.Moderator, error) {
	if !requestor.Admin {
		return nil, apperr.Forbidden("only an administrator may list accounts")
	}

	mods, err := s.repo.GetModerators(ctx, isLocked, isAdmin)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	for _, m := range mods {
		m.Sanitize()
	}
	return mods, nil
}

// Update применяет частичное обновление. Администратор меняет чужие флаги
// locked и admin, владелец — собственные контактные данные и пароль. Письма
// об изменении флагов уходят только когда значение действительно изменилось.
func (s *ModeratorService) Update(ctx context.Context, requestor *models.Moderator, targetID int64, patch models.ModeratorPatch) (*models.Moderator, error) {
	if patch.Empty() {
		return nil, apperr.Incomplete("at least one updatable field is required")
	}

	isSelf := requestor.ID == targetID
	if !isSelf && !requestor.Admin {
		return nil, apperr.Forbidden("only an administrator may update other accounts")
	}

	target, err := s.repo.GetModeratorByID(ctx, targetID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if target == nil {
		return nil, apperr.NotFound("moderator")
	}

	var lockedChanged, adminChanged bool
	if isSelf {
		if verr := ValidateSelfPatch(patch); verr != nil {
			return nil, verr
		}
		if patch.FirstName != nil {
			target.FirstName = *patch.FirstName
		}
		if patch.LastName != nil {
			target.LastName = *patch.LastName
		}
		if patch.Language != nil {
			target.Language = *patch.Language
		}
		if patch.Email != nil {
			target.Email = *patch.Email
		}
		if patch.Password != nil {
			hashed, err := password.GetHash(*patch.Password)
			if err != nil {
				return nil, fmt.Errorf("hash password: %w", err)
			}
			target.PasswordHash = hashed
		}
	} else {
		// Администратор меняет только флаги, остальные поля игнорируются.
		if patch.Locked == nil && patch.Admin == nil {
			return nil, apperr.Incomplete("locked or admin is required")
		}
		if patch.Locked != nil && *patch.Locked != target.Locked {
			target.Locked = *patch.Locked
			lockedChanged = true
		}
		if patch.Admin != nil && *patch.Admin != target.Admin {
			target.Admin = *patch.Admin
			adminChanged = true
		}
	}

	if err := s.repo.UpdateModerator(ctx, target); err != nil {
		return nil, apperr.Storage(err)
	}
	s.invalidateToken(target.AccessToken)
	s.log.Info("updated moderator account", slog.Int64("id", target.ID), slog.Bool("self", isSelf))

	if lockedChanged {
		if err := s.mailer.SendAccountLocked(target, target.Locked); err != nil {
			return nil, apperr.Notification(err)
		}
	}
	if adminChanged {
		if err := s.mailer.SendAdminChanged(target, target.Admin); err != nil {
			return nil, apperr.Notification(err)
		}
	}

	target.Sanitize()
	return target, nil
}

// Delete мягко удаляет учётную запись: запись помечается как удалённая,
// связи с каналами деактивируются, модератор уведомляется письмом, а
// подписчики его каналов — push-событием. Администраторов удалять нельзя,
// как и единственного ответственного модератора канала.
func (s *ModeratorService) Delete(ctx context.Context, requestor *models.Moderator, targetID int64) error {
	isSelf := requestor.ID == targetID
	if !isSelf && !requestor.Admin {
		return apperr.Forbidden("only an administrator may delete other accounts")
	}

	target, err := s.repo.GetModeratorByID(ctx, targetID)
	if err != nil {
		return apperr.Storage(err)
	}
	if target == nil {
		return apperr.NotFound("moderator")
	}
	if target.Admin {
		return apperr.Forbidden("administrator accounts can't be deleted")
	}

	channels, err := s.channels.GetChannelsOfModerator(ctx, target.ID)
	if err != nil {
		return apperr.Storage(err)
	}
	for _, ch := range channels {
		if ch.ActiveModerators() == 1 {
			return apperr.Forbidden(fmt.Sprintf(
				"moderator is the only one responsible for channel %d, resolution required", ch.ID))
		}
	}

	if err := s.repo.MarkModeratorAsDeleted(ctx, target.ID); err != nil {
		return apperr.Storage(err)
	}
	if err := s.channels.RemoveModeratorFromChannels(ctx, target.ID); err != nil {
		return apperr.Storage(err)
	}
	s.invalidateToken(target.AccessToken)
	s.log.Info("marked moderator as deleted", slog.Int64("id", target.ID))

	if err := s.mailer.SendAccountDeleted(target); err != nil {
		return apperr.Notification(err)
	}

	for _, ch := range channels {
		event := models.PushEvent{
			Type:       models.PushModeratorRemoved,
			Recipients: ch.Subscribers,
			ChannelID:  ch.ID,
			ActorID:    target.ID,
		}
		if err := s.push.PublishPush(event); err != nil {
			s.log.Error("failed to publish push event", sl.Err(err),
				slog.Int64("channel_id", ch.ID))
		}
	}

	return s.purger.PurgeIfUnreferenced(ctx, target.ID)
}

// ResetPassword генерирует новый пароль и отправляет его письмом. Новый хэш
// записывается только после успешной отправки: пароль, который не дошёл до
// владельца, не должен стать действующим.
func (s *ModeratorService) ResetPassword(ctx context.Context, name string) error {
	if verr := ValidateName(name); verr != nil {
		return verr
	}

	m, err := s.repo.GetModeratorByName(ctx, name)
	if err != nil {
		return apperr.Storage(err)
	}
	if m == nil {
		return apperr.NotFound("moderator")
	}

	plaintext, err := s.passwords.Generate()
	if err != nil {
		return fmt.Errorf("generate password: %w", err)
	}

	if err := s.mailer.SendPasswordReset(m, plaintext); err != nil {
		return apperr.Notification(err)
	}

	hashed, err := password.GetHash(password.Sha256Hex(plaintext))
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, m.ID, hashed); err != nil {
		return apperr.Storage(err)
	}
	s.invalidateToken(m.AccessToken)
	s.log.Info("reset moderator password", slog.Int64("id", m.ID))
	return nil
}

// Authenticate проверяет учётные данные и возвращает запись вместе с её
// идентификационным токеном. Несуществующее имя и неверный пароль дают
// одинаковый ответ.
func (s *ModeratorService) Authenticate(ctx context.Context, name, passwordHash string) (*models.Moderator, error) {
	if verr := ValidateAuthCredentials(name, passwordHash); verr != nil {
		return nil, verr
	}

	m, err := s.repo.GetModeratorByName(ctx, name)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if m == nil {
		return nil, apperr.Unauthorized()
	}
	if m.Deleted {
		return nil, apperr.AccountDeleted()
	}
	if m.Locked {
		return nil, apperr.AccountLocked()
	}
	if err := password.CompareHash(m.PasswordHash, passwordHash); err != nil {
		return nil, apperr.Unauthorized()
	}

	m.PasswordHash = ""
	return m, nil
}

func (s *ModeratorService) invalidateToken(accessToken string) {
	if accessToken == "" {
		return
	}
	if err := s.cache.Invalidate(tokenCacheKey(accessToken)); err != nil {
		s.log.Warn("failed to invalidate cached moderator", sl.Err(err))
	}
}
