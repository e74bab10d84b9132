// Package services содержит логику бизнес-уровня для рассылки писем об
// изменениях учётных записей модераторов. Письма отправляются синхронно на
// пути запроса: неудачная отправка поднимается к вызывающему.
package services

import (
	"log/slog"
	"strings"

	"github.com/campusboard/campus-news/internal/lib/sl"
	"github.com/campusboard/campus-news/internal/lib/smtp"
	"github.com/campusboard/campus-news/internal/lib/translator"
	"github.com/campusboard/campus-news/internal/metrics"
	"github.com/campusboard/campus-news/internal/models"
)

// MailerService формирует письма на языке получателя и отправляет их через
// SMTP транспорт.
type MailerService struct {
	transport smtp.TransportInterface
	tr        *translator.Translator
	appName   string
	log       *slog.Logger
}

// NewMailerService создает новый экземпляр MailerService.
func NewMailerService(transport smtp.TransportInterface, tr *translator.Translator, appName string, log *slog.Logger) *MailerService {
	return &MailerService{
		transport: transport,
		tr:        tr,
		appName:   appName,
		log:       log,
	}
}

const bundle = "email"

// SendAccountCreated уведомляет модератора о создании учётной записи.
func (s *MailerService) SendAccountCreated(m *models.Moderator) error {
	subject := s.tr.Text(bundle, m.Language, "moderator.created.subject", s.appName)
	body := s.tr.Text(bundle, m.Language, "moderator.created.message", m.FirstName, m.LastName, s.appName)
	return s.Send([]string{m.Email}, subject, body)
}

// SendAccountLocked уведомляет о блокировке либо разблокировке, в зависимости
// от нового состояния.
func (s *MailerService) SendAccountLocked(m *models.Moderator, locked bool) error {
	key := "moderator.unlocked"
	if locked {
		key = "moderator.locked"
	}
	subject := s.tr.Text(bundle, m.Language, key+".subject", s.appName)
	body := s.tr.Text(bundle, m.Language, key+".message", m.FirstName, m.LastName, s.appName)
	return s.Send([]string{m.Email}, subject, body)
}

// SendAdminChanged уведомляет о выдаче либо отзыве прав администратора.
func (s *MailerService) SendAdminChanged(m *models.Moderator, admin bool) error {
	key := "moderator.adminremoved"
	if admin {
		key = "moderator.adminadded"
	}
	subject := s.tr.Text(bundle, m.Language, key+".subject", s.appName)
	body := s.tr.Text(bundle, m.Language, key+".message", m.FirstName, m.LastName, s.appName)
	return s.Send([]string{m.Email}, subject, body)
}

// SendAccountDeleted уведомляет модератора об удалении учётной записи.
func (s *MailerService) SendAccountDeleted(m *models.Moderator) error {
	subject := s.tr.Text(bundle, m.Language, "moderator.deleted.subject", s.appName)
	body := s.tr.Text(bundle, m.Language, "moderator.deleted.message", m.FirstName, m.LastName, s.appName)
	return s.Send([]string{m.Email}, subject, body)
}

// SendPasswordReset отправляет новый пароль открытым текстом. Вызывается до
// записи нового хэша в базу: пароль, который не удалось доставить, никогда не
// становится действующим.
func (s *MailerService) SendPasswordReset(m *models.Moderator, plaintext string) error {
	subject := s.tr.Text(bundle, m.Language, "moderator.password.reset.subject", s.appName)
	body := s.tr.Text(bundle, m.Language, "moderator.password.reset.message",
		m.FirstName, m.LastName, plaintext, s.appName)
	return s.Send([]string{m.Email}, subject, body)
}

// SendAnnouncementFired уведомляет ответственных модераторов канала о
// сработавшем напоминании.
func (s *MailerService) SendAnnouncementFired(to []string, locale models.Language, ann *models.Announcement) error {
	subject := s.tr.Text(bundle, locale, "announcement.fired.subject", s.appName)
	body := s.tr.Text(bundle, locale, "announcement.fired.message", ann.Title, ann.Text)
	return s.Send(to, subject, body)
}

// Send собирает RFC 5322 сообщение и отправляет его через транспорт.
func (s *MailerService) Send(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		metrics.MailsFailed.Inc()
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			s.log.Debug("failed to close SMTP client", sl.Err(err))
		}
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		metrics.MailsFailed.Inc()
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			metrics.MailsFailed.Inc()
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		metrics.MailsFailed.Inc()
		return err
	}

	_, err = wc.Write([]byte(msg))
	if err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		metrics.MailsFailed.Inc()
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		metrics.MailsFailed.Inc()
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		metrics.MailsFailed.Inc()
		return err
	}

	s.log.Info("email sent successfully", "to", to, "subject", subject)
	metrics.MailsSent.Inc()
	return nil
}
