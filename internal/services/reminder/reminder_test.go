package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/campusboard/campus-news/internal/apperr"
	"github.com/campusboard/campus-news/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) StoreReminder(ctx context.Context, r *models.Reminder) (int64, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(int64), args.Error(1)
}
func (m *RepoMock) GetReminderByID(ctx context.Context, id int64) (*models.Reminder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reminder), args.Error(1)
}
func (m *RepoMock) ListRemindersOfChannel(ctx context.Context, channelID int64) ([]*models.Reminder, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Reminder), args.Error(1)
}
func (m *RepoMock) UpdateReminder(ctx context.Context, r *models.Reminder) error {
	return m.Called(ctx, r).Error(0)
}
func (m *RepoMock) DeleteReminder(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type AccessMock struct{ mock.Mock }

func (m *AccessMock) RequireResponsible(ctx context.Context, channelID, moderatorID int64) error {
	return m.Called(ctx, channelID, moderatorID).Error(0)
}

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func newService(repo *RepoMock, access *AccessMock) *ReminderService {
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	svc := NewReminderService(repo, access, log)
	svc.now = func() time.Time { return testNow }
	return svc
}

func validReminder() models.Reminder {
	return models.Reminder{
		StartDate: testNow.Add(24 * time.Hour),
		EndDate:   testNow.Add(14 * 24 * time.Hour),
		Interval:  models.IntervalDay,
		Title:     "Lab safety briefing",
		Text:      "Weekly reminder to complete the safety briefing",
	}
}

func TestReminderService_Create(t *testing.T) {
	requestor := &models.Moderator{ID: 2}

	t.Run("author and channel are taken from the request", func(t *testing.T) {
		repo, access := &RepoMock{}, &AccessMock{}
		access.On("RequireResponsible", mock.Anything, int64(10), int64(2)).Return(nil)

		var stored models.Reminder
		repo.On("StoreReminder", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				stored = *args.Get(1).(*models.Reminder)
			}).
			Return(int64(5), nil)

		created, err := newService(repo, access).Create(context.Background(), requestor, 10, validReminder())
		require.NoError(t, err)

		assert.Equal(t, int64(5), created.ID)
		assert.Equal(t, int64(10), stored.ChannelID)
		assert.Equal(t, int64(2), stored.AuthorModerator)
		assert.True(t, stored.NextDate.IsZero(), "NextDate is set by the scheduler")
		assert.Equal(t, models.PriorityNormal, stored.Priority)
		assert.Equal(t, testNow, stored.CreationDate)
		assert.Equal(t, testNow, stored.ModificationDate)
	})

	t.Run("not a responsible moderator", func(t *testing.T) {
		repo, access := &RepoMock{}, &AccessMock{}
		access.On("RequireResponsible", mock.Anything, int64(10), int64(2)).
			Return(apperr.Forbidden("moderator is not responsible for the channel"))

		_, err := newService(repo, access).Create(context.Background(), requestor, 10, validReminder())
		require.Error(t, err)
		assert.Equal(t, apperr.CodeForbidden, apperr.From(err).Code)
		repo.AssertNotCalled(t, "StoreReminder", mock.Anything, mock.Anything)
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name     string
			mutate   func(*models.Reminder)
			wantCode string
		}{
			{"missing title", func(r *models.Reminder) { r.Title = "" }, apperr.CodeIncompleteData},
			{"missing dates", func(r *models.Reminder) { r.StartDate = time.Time{} }, apperr.CodeIncompleteData},
			{"end date in the past", func(r *models.Reminder) {
				r.StartDate = testNow.Add(-48 * time.Hour)
				r.EndDate = testNow.Add(-24 * time.Hour)
			}, apperr.CodeInvalidFormat},
			{"interval not a multiple of a day", func(r *models.Reminder) { r.Interval = 100 }, apperr.CodeInvalidFormat},
			{"interval longer than four weeks", func(r *models.Reminder) { r.Interval = models.IntervalMax + models.IntervalDay }, apperr.CodeInvalidFormat},
			{"equal dates require zero interval", func(r *models.Reminder) {
				r.EndDate = r.StartDate
			}, apperr.CodeInvalidFormat},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				repo, access := &RepoMock{}, &AccessMock{}
				access.On("RequireResponsible", mock.Anything, mock.Anything, mock.Anything).Return(nil)

				r := validReminder()
				tt.mutate(&r)
				_, err := newService(repo, access).Create(context.Background(), requestor, 10, r)
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, apperr.From(err).Code)
			})
		}
	})
}

func TestReminderService_Get(t *testing.T) {
	requestor := &models.Moderator{ID: 2}

	t.Run("reminder of another channel is not found", func(t *testing.T) {
		repo, access := &RepoMock{}, &AccessMock{}
		access.On("RequireResponsible", mock.Anything, int64(10), int64(2)).Return(nil)
		repo.On("GetReminderByID", mock.Anything, int64(5)).
			Return(&models.Reminder{ID: 5, ChannelID: 99}, nil)

		_, err := newService(repo, access).Get(context.Background(), requestor, 10, 5)
		require.Error(t, err)
		assert.Equal(t, apperr.CodeNotFound, apperr.From(err).Code)
	})

	t.Run("successful read", func(t *testing.T) {
		repo, access := &RepoMock{}, &AccessMock{}
		access.On("RequireResponsible", mock.Anything, int64(10), int64(2)).Return(nil)
		repo.On("GetReminderByID", mock.Anything, int64(5)).
			Return(&models.Reminder{ID: 5, ChannelID: 10}, nil)

		r, err := newService(repo, access).Get(context.Background(), requestor, 10, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(5), r.ID)
	})
}

func TestReminderService_Update(t *testing.T) {
	requestor := &models.Moderator{ID: 2}

	t.Run("empty patch", func(t *testing.T) {
		repo, access := &RepoMock{}, &AccessMock{}
		_, err := newService(repo, access).Update(context.Background(), requestor, 10, 5, ReminderPatch{})
		require.Error(t, err)
		assert.Equal(t, apperr.CodeIncompleteData, apperr.From(err).Code)
		access.AssertNotCalled(t, "RequireResponsible", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("update resets the schedule", func(t *testing.T) {
		repo, access := &RepoMock{}, &AccessMock{}
		access.On("RequireResponsible", mock.Anything, int64(10), int64(2)).Return(nil)

		existing := validReminder()
		existing.ID = 5
		existing.ChannelID = 10
		existing.NextDate = testNow.Add(24 * time.Hour)
		repo.On("GetReminderByID", mock.Anything, int64(5)).Return(&existing, nil)

		var updated models.Reminder
		repo.On("UpdateReminder", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				updated = *args.Get(1).(*models.Reminder)
			}).
			Return(nil)

		title := "Updated briefing"
		r, err := newService(repo, access).Update(context.Background(), requestor, 10, 5, ReminderPatch{Title: &title})
		require.NoError(t, err)

		assert.Equal(t, "Updated briefing", r.Title)
		assert.True(t, updated.NextDate.IsZero(), "the scheduler recomputes the schedule")
		assert.Equal(t, testNow, updated.ModificationDate)
	})

	t.Run("patch is re-validated", func(t *testing.T) {
		repo, access := &RepoMock{}, &AccessMock{}
		access.On("RequireResponsible", mock.Anything, int64(10), int64(2)).Return(nil)

		existing := validReminder()
		existing.ID = 5
		existing.ChannelID = 10
		repo.On("GetReminderByID", mock.Anything, int64(5)).Return(&existing, nil)

		badInterval := 100
		_, err := newService(repo, access).Update(context.Background(), requestor, 10, 5, ReminderPatch{Interval: &badInterval})
		require.Error(t, err)
		assert.Equal(t, apperr.CodeInvalidFormat, apperr.From(err).Code)
		repo.AssertNotCalled(t, "UpdateReminder", mock.Anything, mock.Anything)
	})
}

func TestReminderService_Remove(t *testing.T) {
	requestor := &models.Moderator{ID: 2}

	t.Run("successful removal", func(t *testing.T) {
		repo, access := &RepoMock{}, &AccessMock{}
		access.On("RequireResponsible", mock.Anything, int64(10), int64(2)).Return(nil)
		repo.On("GetReminderByID", mock.Anything, int64(5)).
			Return(&models.Reminder{ID: 5, ChannelID: 10}, nil)
		repo.On("DeleteReminder", mock.Anything, int64(5)).Return(nil)

		err := newService(repo, access).Remove(context.Background(), requestor, 10, 5)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("missing reminder", func(t *testing.T) {
		repo, access := &RepoMock{}, &AccessMock{}
		access.On("RequireResponsible", mock.Anything, int64(10), int64(2)).Return(nil)
		repo.On("GetReminderByID", mock.Anything, int64(5)).Return(nil, nil)

		err := newService(repo, access).Remove(context.Background(), requestor, 10, 5)
		require.Error(t, err)
		assert.Equal(t, apperr.CodeNotFound, apperr.From(err).Code)
	})
}
