// Package models содержит доменные структуры новостного сервиса кампуса:
// модераторов, каналы с их вариантами и напоминания.
package models

// Language язык, на котором модератор получает письма и уведомления.
type Language string

// Поддерживаемые языки.
const (
	LanguageEnglish Language = "en"
	LanguageGerman  Language = "de"
)

// Moderator представляет учётную запись модератора канала.
//
// Поле AccessToken — непрозрачный идентификационный токен, выдаваемый при
// создании учётной записи и используемый как bearer-токен. PasswordHash и
// AccessToken никогда не возвращаются запрашивающей стороне: перед отдачей
// наружу вызывается Sanitize.
type Moderator struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`                // Уникальное имя учётной записи, неизменяемо
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"password,omitempty"`  // bcrypt-хэш, хранится только в базе
	Motivation   string   `json:"motivation"`
	Language     Language `json:"language"`
	AccessToken  string   `json:"serverAccessToken,omitempty"`
	Locked       bool     `json:"locked"`
	Admin        bool     `json:"admin"`
	Deleted      bool     `json:"deleted"`
}

// Sanitize очищает поля, которые не должны покидать сервер.
func (m *Moderator) Sanitize() {
	m.PasswordHash = ""
	m.AccessToken = ""
}

// ModeratorPatch описывает частичное обновление учётной записи. Поле равно
// nil, если оно не было передано в запросе. FirstName, LastName, Language,
// Email и Password применяются при самостоятельном обновлении, Locked и
// Admin — при обновлении администратором.
type ModeratorPatch struct {
	FirstName *string   `json:"firstName"`
	LastName  *string   `json:"lastName"`
	Language  *Language `json:"language"`
	Email     *string   `json:"email"`
	Password  *string   `json:"password"`
	Locked    *bool     `json:"locked"`
	Admin     *bool     `json:"admin"`
}

// Empty сообщает, что ни одно обновляемое поле не передано.
func (p ModeratorPatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Language == nil &&
		p.Email == nil && p.Password == nil && p.Locked == nil && p.Admin == nil
}
