package models

import "time"

// ChannelType тег варианта канала. Вариативные данные хранятся в отдельном
// поле-пейлоаде, выбор ведётся явным switch по тегу, без наследования.
type ChannelType string

// Возможные типы каналов.
const (
	ChannelLecture      ChannelType = "lecture"
	ChannelEvent        ChannelType = "event"
	ChannelSports       ChannelType = "sports"
	ChannelStudentGroup ChannelType = "student_group"
	ChannelOther        ChannelType = "other"
)

// LectureInfo данные, специфичные для канала-лекции.
type LectureInfo struct {
	Faculty   string `json:"faculty"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Lecturer  string `json:"lecturer"`
	Assistant string `json:"assistant"`
}

// EventInfo данные, специфичные для канала-мероприятия.
type EventInfo struct {
	Cost      string `json:"cost"`
	Organizer string `json:"organizer"`
}

// SportsInfo данные, специфичные для спортивного канала.
type SportsInfo struct {
	Cost                 string `json:"cost"`
	NumberOfParticipants string `json:"numberOfParticipants"`
}

// ChannelModerator связь модератора с каналом. Флаг Active снимается, когда
// модератор удаляется из ответственных, сама запись при этом сохраняется.
type ChannelModerator struct {
	ModeratorID int64 `json:"moderatorId"`
	Active      bool  `json:"active"`
}

// Channel модерируемая тема, на которую подписываются пользователи.
// За канал отвечает один или несколько модераторов, они публикуют
// объявления и напоминания.
type Channel struct {
	ID               int64        `json:"id"`
	Name             string       `json:"name"`
	Description      string       `json:"description"`
	Type             ChannelType  `json:"type"`
	CreationDate     time.Time    `json:"creationDate"`
	ModificationDate time.Time    `json:"modificationDate"`
	Term             string       `json:"term"`
	Locations        string       `json:"locations"`
	Dates            string       `json:"dates"`
	Contacts         string       `json:"contacts"`
	Website          string       `json:"website"`
	Lecture          *LectureInfo `json:"lecture,omitempty"`
	Event            *EventInfo   `json:"event,omitempty"`
	Sports           *SportsInfo  `json:"sports,omitempty"`

	Moderators  []ChannelModerator `json:"moderators,omitempty"`
	Subscribers []int64            `json:"subscribers,omitempty"`
}

// ActiveModerators возвращает число активных ответственных модераторов.
func (c *Channel) ActiveModerators() int {
	n := 0
	for _, m := range c.Moderators {
		if m.Active {
			n++
		}
	}
	return n
}
