package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/campusboard/campus-news/internal/apperr"
	"github.com/campusboard/campus-news/internal/lib/password"
	"github.com/campusboard/campus-news/internal/lib/token"
	"github.com/campusboard/campus-news/internal/models"
	"github.com/campusboard/campus-news/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) StoreModerator(ctx context.Context, mod *models.Moderator) (int64, error) {
	args := m.Called(ctx, mod)
	return args.Get(0).(int64), args.Error(1)
}
func (m *RepoMock) GetModeratorByID(ctx context.Context, id int64) (*models.Moderator, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Moderator), args.Error(1)
}
func (m *RepoMock) GetModeratorByName(ctx context.Context, name string) (*models.Moderator, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Moderator), args.Error(1)
}
func (m *RepoMock) GetModeratorByToken(ctx context.Context, accessToken string) (*models.Moderator, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Moderator), args.Error(1)
}
func (m *RepoMock) GetModerators(ctx context.Context, isLocked, isAdmin *bool) ([]*models.Moderator, error) {
	args := m.Called(ctx, isLocked, isAdmin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Moderator), args.Error(1)
}
func (m *RepoMock) UpdateModerator(ctx context.Context, mod *models.Moderator) error {
	return m.Called(ctx, mod).Error(0)
}
func (m *RepoMock) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}
func (m *RepoMock) MarkModeratorAsDeleted(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *RepoMock) GetDeletedModeratorIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}
func (m *RepoMock) DeleteModerator(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type ChannelsMock struct{ mock.Mock }

func (m *ChannelsMock) GetChannelsOfModerator(ctx context.Context, moderatorID int64) ([]*models.Channel, error) {
	args := m.Called(ctx, moderatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Channel), args.Error(1)
}
func (m *ChannelsMock) RemoveModeratorFromChannels(ctx context.Context, moderatorID int64) error {
	return m.Called(ctx, moderatorID).Error(0)
}
func (m *ChannelsMock) IsModeratorStillNeeded(ctx context.Context, moderatorID int64) (bool, error) {
	args := m.Called(ctx, moderatorID)
	return args.Bool(0), args.Error(1)
}

type MailerMock struct{ mock.Mock }

func (m *MailerMock) SendAccountCreated(mod *models.Moderator) error {
	return m.Called(mod).Error(0)
}
func (m *MailerMock) SendAccountLocked(mod *models.Moderator, locked bool) error {
	return m.Called(mod, locked).Error(0)
}
func (m *MailerMock) SendAdminChanged(mod *models.Moderator, admin bool) error {
	return m.Called(mod, admin).Error(0)
}
func (m *MailerMock) SendAccountDeleted(mod *models.Moderator) error {
	return m.Called(mod).Error(0)
}
func (m *MailerMock) SendPasswordReset(mod *models.Moderator, plaintext string) error {
	return m.Called(mod, plaintext).Error(0)
}

type PushMock struct{ mock.Mock }

func (m *PushMock) PublishPush(event models.PushEvent) error {
	return m.Called(event).Error(0)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

type fixture struct {
	repo     *RepoMock
	channels *ChannelsMock
	mailer   *MailerMock
	push     *PushMock
	cache    *CacheMock
	svc      *ModeratorService
}

func newFixture() *fixture {
	f := &fixture{
		repo:     &RepoMock{},
		channels: &ChannelsMock{},
		mailer:   &MailerMock{},
		push:     &PushMock{},
		cache:    &CacheMock{},
	}
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	f.svc = NewModeratorService(f.repo, f.channels, f.mailer, f.push, f.cache,
		token.New(), password.NewGenerator(), models.LanguageEnglish, log)
	return f
}

func TestModeratorService_Create(t *testing.T) {
	t.Run("new account is locked and has no admin rights", func(t *testing.T) {
		f := newFixture()
		var stored models.Moderator
		f.repo.On("StoreModerator", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				stored = *args.Get(1).(*models.Moderator)
			}).
			Return(int64(7), nil)
		f.mailer.On("SendAccountCreated", mock.Anything).Return(nil)

		created, accessToken, err := f.svc.Create(context.Background(), validModerator())
		require.NoError(t, err)

		assert.True(t, stored.Locked)
		assert.False(t, stored.Admin)
		assert.False(t, stored.Deleted)
		assert.Len(t, accessToken, 64)
		assert.Equal(t, accessToken, stored.AccessToken)
		// В базе хранится bcrypt от клиентского хэша.
		assert.NoError(t, password.CompareHash(stored.PasswordHash, validPasswordHash))

		assert.Equal(t, int64(7), created.ID)
		assert.Empty(t, created.PasswordHash)
		assert.Empty(t, created.AccessToken)
		f.mailer.AssertCalled(t, "SendAccountCreated", mock.Anything)
	})

	t.Run("token collision triggers reissue", func(t *testing.T) {
		f := newFixture()
		var tokens []string
		f.repo.On("StoreModerator", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				tokens = append(tokens, args.Get(1).(*models.Moderator).AccessToken)
			}).
			Return(int64(0), repository.ErrTokenExists).Once()
		f.repo.On("StoreModerator", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				tokens = append(tokens, args.Get(1).(*models.Moderator).AccessToken)
			}).
			Return(int64(8), nil).Once()
		f.mailer.On("SendAccountCreated", mock.Anything).Return(nil)

		created, accessToken, err := f.svc.Create(context.Background(), validModerator())
		require.NoError(t, err)
		require.Len(t, tokens, 2)
		assert.NotEqual(t, tokens[0], tokens[1])
		assert.Equal(t, tokens[1], accessToken)
		assert.Equal(t, int64(8), created.ID)
	})

	t.Run("name already taken", func(t *testing.T) {
		f := newFixture()
		f.repo.On("StoreModerator", mock.Anything, mock.Anything).
			Return(int64(0), repository.ErrNameExists)

		_, _, err := f.svc.Create(context.Background(), validModerator())
		require.Error(t, err)
		assert.Equal(t, apperr.CodeNameAlreadyExists, apperr.From(err).Code)
		f.mailer.AssertNotCalled(t, "SendAccountCreated", mock.Anything)
	})

	t.Run("invalid account is not stored", func(t *testing.T) {
		f := newFixture()
		m := validModerator()
		m.Email = "broken"

		_, _, err := f.svc.Create(context.Background(), m)
		require.Error(t, err)
		assert.Equal(t, apperr.CodeInvalidFormat, apperr.From(err).Code)
		f.repo.AssertNotCalled(t, "StoreModerator", mock.Anything, mock.Anything)
	})

	t.Run("mail failure after the account was stored", func(t *testing.T) {
		f := newFixture()
		f.repo.On("StoreModerator", mock.Anything, mock.Anything).Return(int64(9), nil)
		f.mailer.On("SendAccountCreated", mock.Anything).Return(errors.New("smtp down"))

		_, _, err := f.svc.Create(context.Background(), validModerator())
		require.Error(t, err)
		assert.Equal(t, apperr.CodeNotificationFailure, apperr.From(err).Code)
	})
}

func TestModeratorService_Update(t *testing.T) {
	admin := &models.Moderator{ID: 1, Admin: true}
	owner := &models.Moderator{ID: 2}

	t.Run("empty patch", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Update(context.Background(), owner, owner.ID, models.ModeratorPatch{})
		require.Error(t, err)
		assert.Equal(t, apperr.CodeIncompleteData, apperr.From(err).Code)
		f.repo.AssertNotCalled(t, "GetModeratorByID", mock.Anything, mock.Anything)
	})

	t.Run("only an administrator may update other accounts", func(t *testing.T) {
		f := newFixture()
		name := "Janet"
		_, err := f.svc.Update(context.Background(), owner, 3, models.ModeratorPatch{FirstName: &name})
		require.Error(t, err)
		assert.Equal(t, apperr.CodeForbidden, apperr.From(err).Code)
	})

	t.Run("unlocking sends a mail", func(t *testing.T) {
		f := newFixture()
		target := &models.Moderator{ID: 2, Locked: true, AccessToken: "tok"}
		f.repo.On("GetModeratorByID", mock.Anything, int64(2)).Return(target, nil)
		f.repo.On("UpdateModerator", mock.Anything, mock.Anything).Return(nil)
		f.cache.On("Invalidate", mock.Anything).Return(nil)
		f.mailer.On("SendAccountLocked", mock.Anything, false).Return(nil)

		unlocked := false
		updated, err := f.svc.Update(context.Background(), admin, 2, models.ModeratorPatch{Locked: &unlocked})
		require.NoError(t, err)
		assert.False(t, updated.Locked)
		f.mailer.AssertCalled(t, "SendAccountLocked", mock.Anything, false)
	})

	t.Run("unchanged flag produces no mail", func(t *testing.T) {
		f := newFixture()
		target := &models.Moderator{ID: 2, Locked: true, AccessToken: "tok"}
		f.repo.On("GetModeratorByID", mock.Anything, int64(2)).Return(target, nil)
		f.repo.On("UpdateModerator", mock.Anything, mock.Anything).Return(nil)
		f.cache.On("Invalidate", mock.Anything).Return(nil)

		stillLocked := true
		_, err := f.svc.Update(context.Background(), admin, 2, models.ModeratorPatch{Locked: &stillLocked})
		require.NoError(t, err)
		f.mailer.AssertNotCalled(t, "SendAccountLocked", mock.Anything, mock.Anything)
	})

	t.Run("administrator can't touch contact fields", func(t *testing.T) {
		f := newFixture()
		target := &models.Moderator{ID: 2, FirstName: "Jane"}
		f.repo.On("GetModeratorByID", mock.Anything, int64(2)).Return(target, nil)

		name := "Hacked"
		_, err := f.svc.Update(context.Background(), admin, 2, models.ModeratorPatch{FirstName: &name})
		require.Error(t, err)
		assert.Equal(t, apperr.CodeIncompleteData, apperr.From(err).Code)
		f.repo.AssertNotCalled(t, "UpdateModerator", mock.Anything, mock.Anything)
	})

	t.Run("owner updates own data", func(t *testing.T) {
		f := newFixture()
		target := &models.Moderator{ID: 2, FirstName: "Jane", AccessToken: "tok"}
		f.repo.On("GetModeratorByID", mock.Anything, int64(2)).Return(target, nil)
		f.repo.On("UpdateModerator", mock.Anything, mock.Anything).Return(nil)
		f.cache.On("Invalidate", mock.Anything).Return(nil)

		name := "Janet"
		updated, err := f.svc.Update(context.Background(), owner, 2, models.ModeratorPatch{FirstName: &name})
		require.NoError(t, err)
		assert.Equal(t, "Janet", updated.FirstName)
	})
}

func TestModeratorService_Delete(t *testing.T) {
	admin := &models.Moderator{ID: 1, Admin: true}

	t.Run("administrator can't be deleted", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetModeratorByID", mock.Anything, int64(1)).Return(admin, nil)

		err := f.svc.Delete(context.Background(), admin, 1)
		require.Error(t, err)
		assert.Equal(t, apperr.CodeForbidden, apperr.From(err).Code)
	})

	t.Run("only responsible moderator of a channel", func(t *testing.T) {
		f := newFixture()
		target := &models.Moderator{ID: 2}
		f.repo.On("GetModeratorByID", mock.Anything, int64(2)).Return(target, nil)
		f.channels.On("GetChannelsOfModerator", mock.Anything, int64(2)).Return([]*models.Channel{
			{ID: 10, Moderators: []models.ChannelModerator{{ModeratorID: 2, Active: true}}},
		}, nil)

		err := f.svc.Delete(context.Background(), admin, 2)
		require.Error(t, err)
		assert.Equal(t, apperr.CodeForbidden, apperr.From(err).Code)
		f.repo.AssertNotCalled(t, "MarkModeratorAsDeleted", mock.Anything, mock.Anything)
	})

	t.Run("soft delete with notifications", func(t *testing.T) {
		f := newFixture()
		target := &models.Moderator{ID: 2, AccessToken: "tok"}
		channels := []*models.Channel{{
			ID: 10,
			Moderators: []models.ChannelModerator{
				{ModeratorID: 2, Active: true},
				{ModeratorID: 3, Active: true},
			},
			Subscribers: []int64{100, 101},
		}}
		f.repo.On("GetModeratorByID", mock.Anything, int64(2)).Return(target, nil)
		f.channels.On("GetChannelsOfModerator", mock.Anything, int64(2)).Return(channels, nil)
		f.repo.On("MarkModeratorAsDeleted", mock.Anything, int64(2)).Return(nil)
		f.channels.On("RemoveModeratorFromChannels", mock.Anything, int64(2)).Return(nil)
		f.cache.On("Invalidate", mock.Anything).Return(nil)
		f.mailer.On("SendAccountDeleted", mock.Anything).Return(nil)
		f.push.On("PublishPush", mock.MatchedBy(func(e models.PushEvent) bool {
			return e.Type == models.PushModeratorRemoved && e.ChannelID == 10 && len(e.Recipients) == 2
		})).Return(nil)
		f.channels.On("IsModeratorStillNeeded", mock.Anything, int64(2)).Return(true, nil)

		err := f.svc.Delete(context.Background(), admin, 2)
		require.NoError(t, err)
		f.repo.AssertNotCalled(t, "DeleteModerator", mock.Anything, mock.Anything)
		f.push.AssertExpectations(t)
	})

	t.Run("unreferenced account is purged for good", func(t *testing.T) {
		f := newFixture()
		target := &models.Moderator{ID: 2}
		f.repo.On("GetModeratorByID", mock.Anything, int64(2)).Return(target, nil)
		f.channels.On("GetChannelsOfModerator", mock.Anything, int64(2)).Return([]*models.Channel{}, nil)
		f.repo.On("MarkModeratorAsDeleted", mock.Anything, int64(2)).Return(nil)
		f.channels.On("RemoveModeratorFromChannels", mock.Anything, int64(2)).Return(nil)
		f.mailer.On("SendAccountDeleted", mock.Anything).Return(nil)
		f.channels.On("IsModeratorStillNeeded", mock.Anything, int64(2)).Return(false, nil)
		f.repo.On("DeleteModerator", mock.Anything, int64(2)).Return(nil)

		err := f.svc.Delete(context.Background(), admin, 2)
		require.NoError(t, err)
		f.repo.AssertCalled(t, "DeleteModerator", mock.Anything, int64(2))
	})
}

func TestModeratorService_ResetPassword(t *testing.T) {
	t.Run("password changes only after mail was sent", func(t *testing.T) {
		f := newFixture()
		m := &models.Moderator{ID: 2, Name: "jane_doe", Email: "jane@campus.example.org"}
		f.repo.On("GetModeratorByName", mock.Anything, "jane_doe").Return(m, nil)
		f.mailer.On("SendPasswordReset", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

		err := f.svc.ResetPassword(context.Background(), "jane_doe")
		require.Error(t, err)
		assert.Equal(t, apperr.CodeNotificationFailure, apperr.From(err).Code)
		f.repo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("stored hash matches the mailed password", func(t *testing.T) {
		f := newFixture()
		m := &models.Moderator{ID: 2, Name: "jane_doe", AccessToken: "tok"}
		f.repo.On("GetModeratorByName", mock.Anything, "jane_doe").Return(m, nil)

		var plaintext string
		f.mailer.On("SendPasswordReset", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				plaintext = args.String(1)
			}).
			Return(nil)

		var storedHash string
		f.repo.On("UpdatePassword", mock.Anything, int64(2), mock.Anything).
			Run(func(args mock.Arguments) {
				storedHash = args.String(2)
			}).
			Return(nil)
		f.cache.On("Invalidate", mock.Anything).Return(nil)

		err := f.svc.ResetPassword(context.Background(), "jane_doe")
		require.NoError(t, err)
		require.Len(t, plaintext, 12)
		// Клиент пришлёт SHA-256 от нового пароля, он должен пройти проверку.
		assert.NoError(t, password.CompareHash(storedHash, password.Sha256Hex(plaintext)))
	})

	t.Run("unknown name", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetModeratorByName", mock.Anything, "ghost").Return(nil, nil)

		err := f.svc.ResetPassword(context.Background(), "ghost")
		require.Error(t, err)
		assert.Equal(t, apperr.CodeNotFound, apperr.From(err).Code)
	})
}

func TestModeratorService_Authenticate(t *testing.T) {
	storedHash, err := password.GetHash(validPasswordHash)
	require.NoError(t, err)

	base := func() *models.Moderator {
		return &models.Moderator{
			ID:           2,
			Name:         "jane_doe",
			PasswordHash: storedHash,
			AccessToken:  "tok",
		}
	}

	tests := []struct {
		name         string
		stored       *models.Moderator
		passwordHash string
		wantCode     string
	}{
		{"successful login", base(), validPasswordHash, ""},
		{"unknown name", nil, validPasswordHash, apperr.CodeUnauthorized},
		{"wrong password", base(), password.Sha256Hex("wrong"), apperr.CodeUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.stored == nil {
				f.repo.On("GetModeratorByName", mock.Anything, "jane_doe").Return(nil, nil)
			} else {
				f.repo.On("GetModeratorByName", mock.Anything, "jane_doe").Return(tt.stored, nil)
			}

			m, err := f.svc.Authenticate(context.Background(), "jane_doe", tt.passwordHash)
			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.Empty(t, m.PasswordHash)
				assert.Equal(t, "tok", m.AccessToken)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperr.From(err).Code)
		})
	}

	t.Run("deleted account wins over locked", func(t *testing.T) {
		f := newFixture()
		m := base()
		m.Deleted = true
		m.Locked = true
		f.repo.On("GetModeratorByName", mock.Anything, "jane_doe").Return(m, nil)

		_, err := f.svc.Authenticate(context.Background(), "jane_doe", validPasswordHash)
		require.Error(t, err)
		assert.Equal(t, apperr.CodeAccountDeleted, apperr.From(err).Code)
	})

	t.Run("locked account", func(t *testing.T) {
		f := newFixture()
		m := base()
		m.Locked = true
		f.repo.On("GetModeratorByName", mock.Anything, "jane_doe").Return(m, nil)

		_, err := f.svc.Authenticate(context.Background(), "jane_doe", validPasswordHash)
		require.Error(t, err)
		assert.Equal(t, apperr.CodeAccountLocked, apperr.From(err).Code)
	})

	t.Run("credential format is checked before hitting storage", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Authenticate(context.Background(), "jane doe", validPasswordHash)
		require.Error(t, err)
		assert.Equal(t, apperr.CodeUnauthorized, apperr.From(err).Code)
		f.repo.AssertNotCalled(t, "GetModeratorByName", mock.Anything, mock.Anything)
	})
}

func TestModeratorService_ResolveByToken(t *testing.T) {
	t.Run("cache hit", func(t *testing.T) {
		f := newFixture()
		cached := models.Moderator{ID: 2, Name: "jane_doe"}
		f.cache.On("Get", tokenCacheKey("tok"), mock.Anything).
			Run(func(args mock.Arguments) {
				*args.Get(1).(*models.Moderator) = cached
			}).
			Return(true, nil)

		m, err := f.svc.ResolveByToken(context.Background(), "tok")
		require.NoError(t, err)
		assert.Equal(t, int64(2), m.ID)
		f.repo.AssertNotCalled(t, "GetModeratorByToken", mock.Anything, mock.Anything)
	})

	t.Run("cache miss falls through to storage and caches", func(t *testing.T) {
		f := newFixture()
		m := &models.Moderator{ID: 2, Name: "jane_doe"}
		f.cache.On("Get", tokenCacheKey("tok"), mock.Anything).Return(false, nil)
		f.repo.On("GetModeratorByToken", mock.Anything, "tok").Return(m, nil)
		f.cache.On("Set", tokenCacheKey("tok"), m, tokenCacheTTL).Return(nil)

		got, err := f.svc.ResolveByToken(context.Background(), "tok")
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.ID)
		f.cache.AssertExpectations(t)
	})

	t.Run("deleted account looks like an unknown token", func(t *testing.T) {
		f := newFixture()
		m := &models.Moderator{ID: 2, Deleted: true}
		f.cache.On("Get", mock.Anything, mock.Anything).Return(false, nil)
		f.repo.On("GetModeratorByToken", mock.Anything, "tok").Return(m, nil)

		_, err := f.svc.ResolveByToken(context.Background(), "tok")
		require.Error(t, err)
		assert.Equal(t, apperr.CodeUnauthorized, apperr.From(err).Code)
	})

	t.Run("empty token", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.ResolveByToken(context.Background(), "")
		require.Error(t, err)
		assert.Equal(t, apperr.CodeUnauthorized, apperr.From(err).Code)
	})
}

func TestModeratorService_GetAndList(t *testing.T) {
	admin := &models.Moderator{ID: 1, Admin: true}
	owner := &models.Moderator{ID: 2}

	t.Run("non-administrator reads only own account", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Get(context.Background(), owner, 3)
		require.Error(t, err)
		assert.Equal(t, apperr.CodeForbidden, apperr.From(err).Code)
	})

	t.Run("reading strips secrets", func(t *testing.T) {
		f := newFixture()
		m := &models.Moderator{ID: 2, PasswordHash: "hash", AccessToken: "tok"}
		f.repo.On("GetModeratorByID", mock.Anything, int64(2)).Return(m, nil)

		got, err := f.svc.Get(context.Background(), owner, 2)
		require.NoError(t, err)
		assert.Empty(t, got.PasswordHash)
		assert.Empty(t, got.AccessToken)
	})

	t.Run("listing is admin only", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.List(context.Background(), owner, nil, nil)
		require.Error(t, err)
		assert.Equal(t, apperr.CodeForbidden, apperr.From(err).Code)
	})

	t.Run("filters are passed through to storage", func(t *testing.T) {
		f := newFixture()
		locked := true
		f.repo.On("GetModerators", mock.Anything, &locked, (*bool)(nil)).
			Return([]*models.Moderator{{ID: 2, AccessToken: "tok"}}, nil)

		mods, err := f.svc.List(context.Background(), admin, &locked, nil)
		require.NoError(t, err)
		require.Len(t, mods, 1)
		assert.Empty(t, mods[0].AccessToken)
	})
}
