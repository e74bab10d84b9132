package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/campusboard/campus-news/internal/models"
)

// StoreChannel сохраняет канал вместе с данными его варианта и в той же
// транзакции привязывает создателя как активного ответственного модератора.
func (s *Storage) StoreChannel(ctx context.Context, c *models.Channel, creatorID int64) (int64, error) {
	const op = "storage.StoreChannel"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var newID int64
	query := `INSERT INTO channels (name, description, type, creation_date, modification_date,
			      term, locations, dates, contacts, website)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING id;`
	if err = tx.QueryRowContext(ctx, query,
		c.Name, c.Description, c.Type, c.CreationDate, c.ModificationDate,
		c.Term, c.Locations, c.Dates, c.Contacts, c.Website).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	// Вариативные данные хранятся в таблице своего типа.
	switch c.Type {
	case models.ChannelLecture:
		_, err = tx.ExecContext(ctx,
			`INSERT INTO lectures (channel_id, faculty, start_date, end_date, lecturer, assistant)
			 VALUES ($1, $2, $3, $4, $5, $6);`,
			newID, c.Lecture.Faculty, c.Lecture.StartDate, c.Lecture.EndDate,
			c.Lecture.Lecturer, c.Lecture.Assistant)
	case models.ChannelEvent:
		_, err = tx.ExecContext(ctx,
			`INSERT INTO events (channel_id, cost, organizer) VALUES ($1, $2, $3);`,
			newID, c.Event.Cost, c.Event.Organizer)
	case models.ChannelSports:
		_, err = tx.ExecContext(ctx,
			`INSERT INTO sports (channel_id, cost, number_of_participants) VALUES ($1, $2, $3);`,
			newID, c.Sports.Cost, c.Sports.NumberOfParticipants)
	default:
		// Для other и student_group отдельной таблицы нет.
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO channel_moderators (channel_id, moderator_id, active) VALUES ($1, $2, TRUE);`,
		newID, creatorID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetChannelByID возвращает канал с его вариативными данными и списком
// ответственных модераторов, nil — если не найден.
func (s *Storage) GetChannelByID(ctx context.Context, id int64) (*models.Channel, error) {
	const op = "storage.GetChannelByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	c := &models.Channel{}
	query := `SELECT id, name, description, type, creation_date, modification_date,
			      term, locations, dates, contacts, website
			  FROM channels
			  WHERE id = $1;`
	err := s.DB.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Description,
		&c.Type, &c.CreationDate, &c.ModificationDate, &c.Term, &c.Locations,
		&c.Dates, &c.Contacts, &c.Website)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = s.loadChannelVariant(ctx, c); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if c.Moderators, err = s.getChannelModerators(ctx, c.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func (s *Storage) loadChannelVariant(ctx context.Context, c *models.Channel) error {
	var err error
	switch c.Type {
	case models.ChannelLecture:
		l := &models.LectureInfo{}
		err = s.DB.QueryRowContext(ctx,
			`SELECT faculty, start_date, end_date, lecturer, assistant FROM lectures WHERE channel_id = $1;`,
			c.ID).Scan(&l.Faculty, &l.StartDate, &l.EndDate, &l.Lecturer, &l.Assistant)
		c.Lecture = l
	case models.ChannelEvent:
		e := &models.EventInfo{}
		err = s.DB.QueryRowContext(ctx,
			`SELECT cost, organizer FROM events WHERE channel_id = $1;`,
			c.ID).Scan(&e.Cost, &e.Organizer)
		c.Event = e
	case models.ChannelSports:
		sp := &models.SportsInfo{}
		err = s.DB.QueryRowContext(ctx,
			`SELECT cost, number_of_participants FROM sports WHERE channel_id = $1;`,
			c.ID).Scan(&sp.Cost, &sp.NumberOfParticipants)
		c.Sports = sp
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return err
}

func (s *Storage) getChannelModerators(ctx context.Context, channelID int64) ([]models.ChannelModerator, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT moderator_id, active FROM channel_moderators WHERE channel_id = $1;`, channelID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.ChannelModerator
	for rows.Next() {
		var cm models.ChannelModerator
		if err = rows.Scan(&cm.ModeratorID, &cm.Active); err != nil {
			return nil, err
		}
		result = append(result, cm)
	}
	return result, rows.Err()
}

// ListChannels возвращает все каналы без вариативных данных и модераторов.
func (s *Storage) ListChannels(ctx context.Context) ([]*models.Channel, error) {
	const op = "storage.ListChannels"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, name, description, type, creation_date, modification_date,
		     term, locations, dates, contacts, website
		 FROM channels ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Channel
	for rows.Next() {
		c := &models.Channel{}
		if err = rows.Scan(&c.ID, &c.Name, &c.Description, &c.Type,
			&c.CreationDate, &c.ModificationDate, &c.Term, &c.Locations,
			&c.Dates, &c.Contacts, &c.Website); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// AddModeratorToChannel привязывает модератора к каналу как активного
// ответственного.
func (s *Storage) AddModeratorToChannel(ctx context.Context, channelID, moderatorID int64) error {
	const op = "storage.AddModeratorToChannel"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO channel_moderators (channel_id, moderator_id, active)
			  VALUES ($1, $2, TRUE)
			  ON CONFLICT (channel_id, moderator_id) DO UPDATE SET active = TRUE;`
	if _, err := s.DB.ExecContext(ctx, query, channelID, moderatorID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// IsResponsibleModerator сообщает, является ли модератор активным
// ответственным за канал.
func (s *Storage) IsResponsibleModerator(ctx context.Context, channelID, moderatorID int64) (bool, error) {
	const op = "storage.IsResponsibleModerator"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var active bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT active FROM channel_moderators WHERE channel_id = $1 AND moderator_id = $2;`,
		channelID, moderatorID).Scan(&active)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return active, nil
}

// GetChannelsOfModerator возвращает каналы, за которые отвечает модератор,
// каждый со своим текущим списком ответственных модераторов и подписчиками.
func (s *Storage) GetChannelsOfModerator(ctx context.Context, moderatorID int64) ([]*models.Channel, error) {
	const op = "storage.GetChannelsOfModerator"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT c.id, c.name, c.description, c.type, c.creation_date, c.modification_date,
		     c.term, c.locations, c.dates, c.contacts, c.website
		 FROM channels c
		 JOIN channel_moderators cm ON cm.channel_id = c.id
		 WHERE cm.moderator_id = $1 AND cm.active;`, moderatorID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Channel
	for rows.Next() {
		c := &models.Channel{}
		if err = rows.Scan(&c.ID, &c.Name, &c.Description, &c.Type,
			&c.CreationDate, &c.ModificationDate, &c.Term, &c.Locations,
			&c.Dates, &c.Contacts, &c.Website); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, c := range result {
		if c.Moderators, err = s.getChannelModerators(ctx, c.ID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if c.Subscribers, err = s.GetChannelSubscribers(ctx, c.ID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return result, nil
}

// RemoveModeratorFromChannels снимает флаг active со всех привязок
// модератора, сами привязки сохраняются.
func (s *Storage) RemoveModeratorFromChannels(ctx context.Context, moderatorID int64) error {
	const op = "storage.RemoveModeratorFromChannels"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE channel_moderators SET active = FALSE WHERE moderator_id = $1;`
	if _, err := s.DB.ExecContext(ctx, query, moderatorID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RemoveModeratorFromChannel снимает флаг active с привязки модератора к
// одному каналу, сама привязка сохраняется.
func (s *Storage) RemoveModeratorFromChannel(ctx context.Context, channelID, moderatorID int64) error {
	const op = "storage.RemoveModeratorFromChannel"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE channel_moderators SET active = FALSE
			  WHERE channel_id = $1 AND moderator_id = $2;`
	if _, err := s.DB.ExecContext(ctx, query, channelID, moderatorID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// IsModeratorStillNeeded сообщает, держит ли хоть одна привязка к каналу
// запись модератора от окончательного удаления.
func (s *Storage) IsModeratorStillNeeded(ctx context.Context, moderatorID int64) (bool, error) {
	const op = "storage.IsModeratorStillNeeded"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var needed bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM channel_moderators WHERE moderator_id = $1);`,
		moderatorID).Scan(&needed)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return needed, nil
}

// GetChannelSubscribers возвращает идентификаторы подписчиков канала.
func (s *Storage) GetChannelSubscribers(ctx context.Context, channelID int64) ([]int64, error) {
	const op = "storage.GetChannelSubscribers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT user_id FROM channel_subscribers WHERE channel_id = $1;`, channelID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []int64
	for rows.Next() {
		var id int64
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetResponsibleModeratorEmails возвращает адреса и языки активных
// ответственных модераторов канала. Используется рассыльщиком объявлений.
func (s *Storage) GetResponsibleModeratorEmails(ctx context.Context, channelID int64) ([]*models.Moderator, error) {
	const op = "storage.GetResponsibleModeratorEmails"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT m.id, m.first_name, m.last_name, m.email, m.language
		 FROM moderators m
		 JOIN channel_moderators cm ON cm.moderator_id = m.id
		 WHERE cm.channel_id = $1 AND cm.active AND NOT m.deleted;`, channelID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Moderator
	for rows.Next() {
		m := &models.Moderator{}
		if err = rows.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.Language); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
