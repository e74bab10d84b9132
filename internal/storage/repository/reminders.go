package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/campusboard/campus-news/internal/models"
)

const reminderColumns = `id, creation_date, modification_date, start_date, next_date,
			      end_date, "interval", ignore_next, channel_id, author_moderator,
			      title, text, priority`

func scanReminder(row interface{ Scan(...any) error }) (*models.Reminder, error) {
	r := &models.Reminder{}
	var next sql.NullTime
	if err := row.Scan(&r.ID, &r.CreationDate, &r.ModificationDate, &r.StartDate,
		&next, &r.EndDate, &r.Interval, &r.Ignore, &r.ChannelID,
		&r.AuthorModerator, &r.Title, &r.Text, &r.Priority); err != nil {
		return nil, err
	}
	if next.Valid {
		r.NextDate = next.Time
	}
	return r, nil
}

func nextDateArg(r *models.Reminder) any {
	if r.NextDate.IsZero() {
		return nil
	}
	return r.NextDate
}

// StoreReminder сохраняет новое напоминание и возвращает его ID. NextDate не
// устанавливается: её выставит планировщик при первой активации.
func (s *Storage) StoreReminder(ctx context.Context, r *models.Reminder) (int64, error) {
	const op = "storage.StoreReminder"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO reminders (creation_date, modification_date, start_date, next_date,
			      end_date, "interval", ignore_next, channel_id, author_moderator,
			      title, text, priority)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		r.CreationDate, r.ModificationDate, r.StartDate, nextDateArg(r),
		r.EndDate, r.Interval, r.Ignore, r.ChannelID, r.AuthorModerator,
		r.Title, r.Text, r.Priority).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetReminderByID возвращает напоминание по ID, nil — если не найдено.
func (s *Storage) GetReminderByID(ctx context.Context, id int64) (*models.Reminder, error) {
	const op = "storage.GetReminderByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE id = $1;`
	r, err := scanReminder(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return r, nil
}

// ListRemindersOfChannel возвращает напоминания канала.
func (s *Storage) ListRemindersOfChannel(ctx context.Context, channelID int64) ([]*models.Reminder, error) {
	const op = "storage.ListRemindersOfChannel"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE channel_id = $1 ORDER BY id;`
	rows, err := s.DB.QueryContext(ctx, query, channelID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FindActiveReminders возвращает напоминания, дата окончания которых ещё не
// прошла. Планировщик активирует и продвигает их на каждом тике.
func (s *Storage) FindActiveReminders(ctx context.Context) ([]*models.Reminder, error) {
	const op = "storage.FindActiveReminders"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + reminderColumns + `
			  FROM reminders
			  WHERE end_date >= NOW() AND (next_date IS NULL OR next_date <= end_date);`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateReminder обновляет правимые поля напоминания, включая сброшенную
// NextDate после изменения расписания.
func (s *Storage) UpdateReminder(ctx context.Context, r *models.Reminder) error {
	const op = "storage.UpdateReminder"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE reminders
			  SET modification_date = $1, start_date = $2, next_date = $3, end_date = $4,
			      "interval" = $5, ignore_next = $6, title = $7, text = $8, priority = $9
			  WHERE id = $10;`
	_, err := s.DB.ExecContext(ctx, query,
		r.ModificationDate, r.StartDate, nextDateArg(r), r.EndDate,
		r.Interval, r.Ignore, r.Title, r.Text, r.Priority, r.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateReminderSchedule персистит продвинутую NextDate и флаг ignore_next.
// Вызывается планировщиком после каждого срабатывания: пропуск записи привёл
// бы к повторному срабатыванию на следующем тике.
func (s *Storage) UpdateReminderSchedule(ctx context.Context, r *models.Reminder) error {
	const op = "storage.UpdateReminderSchedule"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE reminders SET next_date = $1, ignore_next = $2 WHERE id = $3;`
	if _, err := s.DB.ExecContext(ctx, query, nextDateArg(r), r.Ignore, r.ID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteReminder удаляет напоминание.
func (s *Storage) DeleteReminder(ctx context.Context, id int64) error {
	const op = "storage.DeleteReminder"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM reminders WHERE id = $1;`, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
