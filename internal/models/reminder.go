package models

import "time"

// Priority приоритет объявления, которое порождает напоминание.
type Priority string

// Возможные приоритеты объявлений.
const (
	PriorityNormal Priority = "NORMAL"
	PriorityHigh   Priority = "HIGH"
)

// Интервал напоминания в секундах: 0 — одноразовое напоминание, иначе
// кратное суткам значение в границах от одного дня до четырёх недель.
const (
	IntervalDay = 86400
	IntervalMax = 2419200
)

// Reminder периодическая (или одноразовая) инструкция опубликовать
// объявление в канале. NextDate продвигается при каждом срабатывании;
// нулевое значение NextDate означает, что напоминание ещё не активировано.
type Reminder struct {
	ID               int64     `json:"id"`
	CreationDate     time.Time `json:"creationDate"`
	ModificationDate time.Time `json:"modificationDate"`
	StartDate        time.Time `json:"startDate"`
	NextDate         time.Time `json:"nextDate"`
	EndDate          time.Time `json:"endDate"`
	Interval         int       `json:"interval"`
	Ignore           bool      `json:"ignore"`
	ChannelID        int64     `json:"channelId"`
	AuthorModerator  int64     `json:"authorModerator"`
	Title            string    `json:"title"`
	Text             string    `json:"text"`
	Priority         Priority  `json:"priority"`
}

// OneShot сообщает, что напоминание должно сработать ровно один раз.
func (r *Reminder) OneShot() bool {
	return r.Interval == 0
}

// IsValidInterval проверяет, что интервал равен нулю либо кратен суткам и
// лежит в границах [IntervalDay, IntervalMax]. Если начало совпадает с
// концом, допустим только нулевой интервал.
func (r *Reminder) IsValidInterval() bool {
	if r.Interval == 0 {
		return true
	}
	if r.StartDate.Equal(r.EndDate) {
		return false
	}
	if r.Interval%IntervalDay != 0 {
		return false
	}
	if r.Interval < IntervalDay || r.Interval > IntervalMax {
		return false
	}
	return true
}

// IsValidDates проверяет, что начало не позже конца и конец ещё не прошёл.
func (r *Reminder) IsValidDates(now time.Time) bool {
	if r.StartDate.After(r.EndDate) {
		return false
	}
	if r.EndDate.Before(now) {
		return false
	}
	return true
}

// ComputeFirstNextDate вычисляет дату первого срабатывания. Если NextDate не
// установлена, она инициализируется датой начала. Периодическое напоминание,
// которое долго не оценивалось (например, после простоя сервиса),
// продвигается шагами интервала до первой даты не в прошлом — без
// срабатывания на каждый пропущенный шаг.
func (r *Reminder) ComputeFirstNextDate(now time.Time) {
	if r.NextDate.IsZero() {
		r.NextDate = r.StartDate
	}
	if r.OneShot() {
		return
	}
	for r.NextDate.Before(now) {
		r.NextDate = r.NextDate.Add(time.Duration(r.Interval) * time.Second)
	}
}

// ComputeNextDate продвигает NextDate после срабатывания. Одноразовое
// напоминание получает NextDate за пределами EndDate, чтобы IsExpired стало
// истинным и оно больше никогда не сработало. Периодическое продвигается
// минимум на один интервал, а затем мимо пропущенных шагов в прошлом:
// за простой сервиса срабатывание происходит один раз, не по разу на шаг.
func (r *Reminder) ComputeNextDate(now time.Time) {
	if r.OneShot() {
		r.NextDate = r.EndDate.Add(time.Second)
		return
	}
	step := time.Duration(r.Interval) * time.Second
	r.NextDate = r.NextDate.Add(step)
	for r.NextDate.Before(now) {
		r.NextDate = r.NextDate.Add(step)
	}
}

// IsExpired сообщает, что напоминание отработало: следующая дата вышла за
// дату окончания либо дата окончания уже в прошлом.
func (r *Reminder) IsExpired(now time.Time) bool {
	return r.NextDate.After(r.EndDate) || r.EndDate.Before(now)
}

// Due сообщает, что напоминание активировано и его время пришло.
func (r *Reminder) Due(now time.Time) bool {
	return !r.NextDate.IsZero() && !r.NextDate.After(now)
}
