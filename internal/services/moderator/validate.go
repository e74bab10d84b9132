package services

import (
	"regexp"
	"unicode/utf8"

	"github.com/campusboard/campus-news/internal/apperr"
	"github.com/campusboard/campus-news/internal/models"
)

// Структурные ограничения учётной записи. Пароль передаётся клиентом уже в
// виде SHA-256 хэша, поэтому проверяется его шестнадцатеричная форма.
const (
	nameMaxLength       = 45
	motivationMaxLength = 300
)

var (
	accountNameRe  = regexp.MustCompile(`^[-_a-zA-Z0-9]{3,35}$`)
	passwordHashRe = regexp.MustCompile(`^[a-fA-F0-9]{64}$`)
	emailRe        = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
)

// ValidateCreation проверяет нового модератора. Проверки идут в фиксированном
// порядке: имя, пароль, почта, имя, фамилия, мотивация. При нескольких
// некорректных полях клиент всегда получает первое по этому порядку.
func ValidateCreation(m *models.Moderator) *apperr.Error {
	if m.Name == "" || m.PasswordHash == "" || m.Email == "" ||
		m.FirstName == "" || m.LastName == "" || m.Motivation == "" {
		return apperr.Incomplete("name, password, email, firstName, lastName and motivation are required")
	}
	if !accountNameRe.MatchString(m.Name) {
		return apperr.InvalidFormat("name")
	}
	if !passwordHashRe.MatchString(m.PasswordHash) {
		return apperr.InvalidFormat("password")
	}
	if !emailRe.MatchString(m.Email) {
		return apperr.InvalidFormat("email")
	}
	// Лимиты считаются в символах, не в байтах: имена бывают не ASCII.
	if utf8.RuneCountInString(m.FirstName) > nameMaxLength {
		return apperr.InvalidFormat("firstName: too long")
	}
	if utf8.RuneCountInString(m.LastName) > nameMaxLength {
		return apperr.InvalidFormat("lastName: too long")
	}
	if utf8.RuneCountInString(m.Motivation) > motivationMaxLength {
		return apperr.InvalidFormat("motivation: too long")
	}
	return nil
}

// ValidateSelfPatch проверяет самостоятельное обновление. Пустой патч
// отклоняется, присутствующие поля проверяются независимо.
func ValidateSelfPatch(p models.ModeratorPatch) *apperr.Error {
	if p.FirstName == nil && p.LastName == nil && p.Language == nil &&
		p.Email == nil && p.Password == nil {
		return apperr.Incomplete("at least one updatable field is required")
	}
	if p.Email != nil && !emailRe.MatchString(*p.Email) {
		return apperr.InvalidFormat("email")
	}
	if p.Password != nil && !passwordHashRe.MatchString(*p.Password) {
		return apperr.InvalidFormat("password")
	}
	if p.FirstName != nil && utf8.RuneCountInString(*p.FirstName) > nameMaxLength {
		return apperr.InvalidFormat("firstName: too long")
	}
	if p.LastName != nil && utf8.RuneCountInString(*p.LastName) > nameMaxLength {
		return apperr.InvalidFormat("lastName: too long")
	}
	if p.Language != nil && *p.Language != models.LanguageEnglish && *p.Language != models.LanguageGerman {
		return apperr.InvalidFormat("language")
	}
	return nil
}

// ValidateName проверяет только имя учётной записи.
func ValidateName(name string) *apperr.Error {
	if name == "" {
		return apperr.Incomplete("name is required")
	}
	if !accountNameRe.MatchString(name) {
		return apperr.InvalidFormat("name")
	}
	return nil
}

// ValidateAuthCredentials проверяет формат учётных данных при аутентификации.
// Любое нарушение формата возвращается как Unauthorized: формат ошибки не
// должен раскрывать, в чём именно проблема.
func ValidateAuthCredentials(name, passwordHash string) *apperr.Error {
	if !accountNameRe.MatchString(name) || !passwordHashRe.MatchString(passwordHash) {
		return apperr.Unauthorized()
	}
	return nil
}
