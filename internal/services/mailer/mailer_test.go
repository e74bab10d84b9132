package services

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/campusboard/campus-news/internal/lib/smtp"
	"github.com/campusboard/campus-news/internal/lib/translator"
	"github.com/campusboard/campus-news/internal/models"
)

type ClientMock struct {
	mock.Mock
	body bytes.Buffer
}

func (m *ClientMock) Mail(from string) error {
	return m.Called(from).Error(0)
}

func (m *ClientMock) Rcpt(to string) error {
	return m.Called(to).Error(0)
}

func (m *ClientMock) Data() (io.WriteCloser, error) {
	args := m.Called()
	wc, _ := args.Get(0).(io.WriteCloser)
	return wc, args.Error(1)
}

func (m *ClientMock) Quit() error {
	return m.Called().Error(0)
}

func (m *ClientMock) Close() error {
	return m.Called().Error(0)
}

type nopWriteCloser struct {
	*bytes.Buffer
}

func (nopWriteCloser) Close() error { return nil }

type TransportMock struct {
	mock.Mock
}

func (m *TransportMock) Connect() (smtp.Client, error) {
	args := m.Called()
	client, _ := args.Get(0).(smtp.Client)
	return client, args.Error(1)
}

func (m *TransportMock) GetSMTPUser() string {
	return m.Called().String(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

type mailerFixture struct {
	transport *TransportMock
	client    *ClientMock
	service   *MailerService
}

func newMailerFixture(t *testing.T) *mailerFixture {
	t.Helper()

	logger := newNoopLogger()
	f := &mailerFixture{
		transport: new(TransportMock),
		client:    new(ClientMock),
	}
	f.service = NewMailerService(f.transport, translator.MustNew(logger), "Campus News", logger)
	return f
}

func (f *mailerFixture) expectSuccessfulDelivery() {
	f.transport.On("GetSMTPUser").Return("noreply@example.edu")
	f.transport.On("Connect").Return(f.client, nil)
	f.client.On("Mail", "noreply@example.edu").Return(nil)
	f.client.On("Rcpt", mock.Anything).Return(nil)
	f.client.On("Data").Return(nopWriteCloser{&f.client.body}, nil)
	f.client.On("Quit").Return(nil)
	f.client.On("Close").Return(nil)
}

func testModerator() *models.Moderator {
	return &models.Moderator{
		ID:        7,
		Name:      "anna",
		FirstName: "Anna",
		LastName:  "Schmidt",
		Email:     "anna@example.edu",
		Language:  models.LanguageEnglish,
	}
}

func TestSend(t *testing.T) {
	t.Run("builds and sends the message", func(t *testing.T) {
		f := newMailerFixture(t)
		f.expectSuccessfulDelivery()

		err := f.service.Send([]string{"anna@example.edu"}, "Test subject", "Test body")
		require.NoError(t, err)

		msg := f.client.body.String()
		assert.Contains(t, msg, "From: noreply@example.edu")
		assert.Contains(t, msg, "To: anna@example.edu")
		assert.Contains(t, msg, "Subject: Test subject")
		assert.Contains(t, msg, "Test body")
		f.client.AssertCalled(t, "Rcpt", "anna@example.edu")
		f.client.AssertCalled(t, "Quit")
	})

	t.Run("multiple recipients", func(t *testing.T) {
		f := newMailerFixture(t)
		f.expectSuccessfulDelivery()

		err := f.service.Send([]string{"a@example.edu", "b@example.edu"}, "subj", "body")
		require.NoError(t, err)

		f.client.AssertCalled(t, "Rcpt", "a@example.edu")
		f.client.AssertCalled(t, "Rcpt", "b@example.edu")
		assert.Contains(t, f.client.body.String(), "To: a@example.edu;b@example.edu")
	})

	t.Run("connect error is surfaced", func(t *testing.T) {
		f := newMailerFixture(t)
		f.transport.On("GetSMTPUser").Return("noreply@example.edu")
		f.transport.On("Connect").Return(nil, errors.New("dial tcp: connection refused"))

		err := f.service.Send([]string{"anna@example.edu"}, "subj", "body")
		assert.Error(t, err)
	})

	t.Run("recipient error is surfaced", func(t *testing.T) {
		f := newMailerFixture(t)
		f.transport.On("GetSMTPUser").Return("noreply@example.edu")
		f.transport.On("Connect").Return(f.client, nil)
		f.client.On("Mail", mock.Anything).Return(nil)
		f.client.On("Rcpt", "bad@example.edu").Return(errors.New("550 no such user"))
		f.client.On("Close").Return(nil)

		err := f.service.Send([]string{"bad@example.edu"}, "subj", "body")
		assert.Error(t, err)
		f.client.AssertNotCalled(t, "Data")
	})
}

func TestSendAccountCreated(t *testing.T) {
	f := newMailerFixture(t)
	f.expectSuccessfulDelivery()

	err := f.service.SendAccountCreated(testModerator())
	require.NoError(t, err)

	msg := f.client.body.String()
	assert.Contains(t, msg, "Subject: Welcome to Campus News")
	assert.Contains(t, msg, "Anna Schmidt")
	f.client.AssertCalled(t, "Rcpt", "anna@example.edu")
}

func TestSendAccountLocked(t *testing.T) {
	t.Run("locking", func(t *testing.T) {
		f := newMailerFixture(t)
		f.expectSuccessfulDelivery()

		err := f.service.SendAccountLocked(testModerator(), true)
		require.NoError(t, err)
		assert.Contains(t, f.client.body.String(), "has been locked")
	})

	t.Run("unlocking", func(t *testing.T) {
		f := newMailerFixture(t)
		f.expectSuccessfulDelivery()

		err := f.service.SendAccountLocked(testModerator(), false)
		require.NoError(t, err)
		assert.Contains(t, f.client.body.String(), "has been unlocked")
	})
}

func TestSendPasswordReset(t *testing.T) {
	f := newMailerFixture(t)
	f.expectSuccessfulDelivery()

	err := f.service.SendPasswordReset(testModerator(), "n3wPassw0rd12")
	require.NoError(t, err)

	assert.Contains(t, f.client.body.String(), "n3wPassw0rd12")
}

func TestSendAnnouncementFired(t *testing.T) {
	f := newMailerFixture(t)
	f.expectSuccessfulDelivery()

	ann := &models.Announcement{
		ChannelID:       10,
		AuthorModerator: 7,
		Title:           "Exam review",
		Text:            "Room B-201",
	}
	err := f.service.SendAnnouncementFired([]string{"a@example.edu"}, models.LanguageEnglish, ann)
	require.NoError(t, err)

	msg := f.client.body.String()
	assert.Contains(t, msg, "Exam review")
	assert.Contains(t, msg, "Room B-201")
}
