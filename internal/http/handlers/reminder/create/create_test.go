package create

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/campusboard/campus-news/internal/apperr"
	"github.com/campusboard/campus-news/internal/http/middlewarectx"
	"github.com/campusboard/campus-news/internal/models"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, requestor *models.Moderator, channelID int64, r models.Reminder) (*models.Reminder, error) {
	args := m.Called(ctx, requestor, channelID, r)
	if res := args.Get(0); res != nil {
		return res.(*models.Reminder), args.Error(1)
	}
	return nil, args.Error(1)
}

func newRequest(url, body string, requestor *models.Moderator) *http.Request {
	req := httptest.NewRequest(http.MethodPost, url, strings.NewReader(body))
	if requestor != nil {
		ctx := context.WithValue(req.Context(), middlewarectx.ModeratorKey, requestor)
		req = req.WithContext(ctx)
	}
	return req
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	requestor := &models.Moderator{ID: 2}

	validBody := `{
		"startDate": "2026-09-10T12:00:00Z",
		"endDate": "2026-09-24T12:00:00Z",
		"interval": 86400,
		"title": "Lab safety briefing",
		"text": "Weekly reminder to complete the safety briefing"
	}`

	tests := []struct {
		name           string
		url            string
		body           string
		requestor      *models.Moderator
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:      "successful creation",
			url:       "/channels/10/reminders",
			body:      validBody,
			requestor: requestor,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, requestor, int64(10),
					mock.MatchedBy(func(r models.Reminder) bool {
						return r.Interval == 86400 && r.Title == "Lab safety briefing"
					})).Return(&models.Reminder{ID: 5, ChannelID: 10, Title: "Lab safety briefing"}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"title":"Lab safety briefing"`,
		},
		{
			name:           "missing authorization",
			url:            "/channels/10/reminders",
			body:           validBody,
			requestor:      nil,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"unauthorized"`,
		},
		{
			name:           "invalid channel id",
			url:            "/channels/abc/reminders",
			body:           validBody,
			requestor:      requestor,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"invalid channel id"`,
		},
		{
			name:           "missing title",
			url:            "/channels/10/reminders",
			body:           `{"startDate": "2026-09-10T12:00:00Z", "endDate": "2026-09-24T12:00:00Z", "text": "x"}`,
			requestor:      requestor,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"status":"Error"`,
		},
		{
			name:      "not a responsible moderator",
			url:       "/channels/10/reminders",
			body:      validBody,
			requestor: requestor,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, requestor, int64(10), mock.Anything).
					Return(nil, apperr.Forbidden("moderator is not responsible for the channel"))
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `"code":"FORBIDDEN"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &MockService{}
			tt.setupMock(service)

			router := chi.NewRouter()
			router.Post("/channels/{id}/reminders", New(logger, service).ServeHTTP)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, newRequest(tt.url, tt.body, tt.requestor))

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.expectedBody)
			service.AssertExpectations(t)
		})
	}
}
