package models

import "time"

// Announcement объявление, порождённое срабатыванием напоминания. Публикуется
// в очередь уведомлений и доставляется подписчикам канала.
type Announcement struct {
	ChannelID       int64     `json:"channelId"`
	AuthorModerator int64     `json:"authorModerator"`
	Title           string    `json:"title"`
	Text            string    `json:"text"`
	Priority        Priority  `json:"priority"`
	FiredAt         time.Time `json:"firedAt"`
	Subscribers     []int64   `json:"subscribers,omitempty"`
}

// PushEvent событие для push-рассылки подписчикам канала, например удаление
// ответственного модератора.
type PushEvent struct {
	Type       string  `json:"type"`
	Recipients []int64 `json:"recipients"`
	ChannelID  int64   `json:"channelId"`
	ActorID    int64   `json:"actorId"`
}

// Типы push-событий.
const (
	PushAnnouncementNew  = "ANNOUNCEMENT_NEW"
	PushModeratorRemoved = "MODERATOR_REMOVED"
)
