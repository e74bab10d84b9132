package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/campusboard/campus-news/internal/models"
)

const moderatorColumns = `id, name, first_name, last_name, email, password_hash,
			      motivation, language, access_token, locked, admin, deleted`

// StoreModerator сохраняет нового модератора и возвращает его ID. При
// нарушении уникальности возвращает ErrTokenExists либо ErrNameExists.
func (s *Storage) StoreModerator(ctx context.Context, m *models.Moderator) (int64, error) {
	const op = "storage.StoreModerator"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO moderators (name, first_name, last_name, email, password_hash,
			      motivation, language, access_token, locked, admin, deleted)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		m.Name, m.FirstName, m.LastName, m.Email, m.PasswordHash,
		m.Motivation, m.Language, m.AccessToken, m.Locked, m.Admin, m.Deleted).Scan(&newID); err != nil {
		if mapped := mapUniqueViolation(err); mapped != err {
			return 0, mapped
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

func (s *Storage) getModerator(ctx context.Context, op, where string, arg any) (*models.Moderator, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + moderatorColumns + `
			  FROM moderators
			  WHERE ` + where
	m := &models.Moderator{}
	row := s.DB.QueryRowContext(ctx, query, arg)
	if err := row.Scan(&m.ID, &m.Name, &m.FirstName, &m.LastName, &m.Email,
		&m.PasswordHash, &m.Motivation, &m.Language, &m.AccessToken,
		&m.Locked, &m.Admin, &m.Deleted); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

// GetModeratorByID возвращает модератора по ID, nil — если не найден.
func (s *Storage) GetModeratorByID(ctx context.Context, id int64) (*models.Moderator, error) {
	return s.getModerator(ctx, "storage.GetModeratorByID", "id = $1", id)
}

// GetModeratorByName возвращает модератора по имени учётной записи,
// nil — если не найден.
func (s *Storage) GetModeratorByName(ctx context.Context, name string) (*models.Moderator, error) {
	return s.getModerator(ctx, "storage.GetModeratorByName", "name = $1", name)
}

// GetModeratorByToken возвращает модератора по идентификационному токену,
// nil — если не найден.
func (s *Storage) GetModeratorByToken(ctx context.Context, accessToken string) (*models.Moderator, error) {
	return s.getModerator(ctx, "storage.GetModeratorByToken", "access_token = $1", accessToken)
}

// GetModerators возвращает всех модераторов, опционально отфильтрованных по
// флагам locked и admin. Присутствующие фильтры объединяются через AND.
// Хэш пароля и токен не выбираются: список уходит запрашивающей стороне.
func (s *Storage) GetModerators(ctx context.Context, isLocked, isAdmin *bool) ([]*models.Moderator, error) {
	const op = "storage.GetModerators"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, first_name, last_name, email, motivation, language,
			      locked, admin, deleted
			  FROM moderators`
	var args []any
	var conds []string
	if isLocked != nil {
		args = append(args, *isLocked)
		conds = append(conds, " locked = $"+strconv.Itoa(len(args)))
	}
	if isAdmin != nil {
		args = append(args, *isAdmin)
		conds = append(conds, " admin = $"+strconv.Itoa(len(args)))
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE" + cond
		} else {
			query += " AND" + cond
		}
	}
	query += " ORDER BY id;"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Moderator
	for rows.Next() {
		m := &models.Moderator{}
		if err = rows.Scan(&m.ID, &m.Name, &m.FirstName, &m.LastName, &m.Email,
			&m.Motivation, &m.Language, &m.Locked, &m.Admin, &m.Deleted); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateModerator обновляет изменяемые поля модератора.
func (s *Storage) UpdateModerator(ctx context.Context, m *models.Moderator) error {
	const op = "storage.UpdateModerator"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE moderators
			  SET first_name = $1, last_name = $2, email = $3, password_hash = $4,
			      language = $5, locked = $6, admin = $7
			  WHERE id = $8;`
	_, err := s.DB.ExecContext(ctx, query,
		m.FirstName, m.LastName, m.Email, m.PasswordHash, m.Language,
		m.Locked, m.Admin, m.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdatePassword обновляет только хэш пароля модератора.
func (s *Storage) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	const op = "storage.UpdatePassword"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE moderators SET password_hash = $1 WHERE id = $2;`
	if _, err := s.DB.ExecContext(ctx, query, passwordHash, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// MarkModeratorAsDeleted выставляет флаг deleted, запись сохраняется ради
// ссылочной целостности до последующей окончательной очистки.
func (s *Storage) MarkModeratorAsDeleted(ctx context.Context, id int64) error {
	const op = "storage.MarkModeratorAsDeleted"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE moderators SET deleted = TRUE WHERE id = $1;`
	if _, err := s.DB.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetDeletedModeratorIDs возвращает идентификаторы мягко удалённых записей,
// ожидающих окончательного удаления.
func (s *Storage) GetDeletedModeratorIDs(ctx context.Context) ([]int64, error) {
	const op = "storage.GetDeletedModeratorIDs"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT id FROM moderators WHERE deleted;`)
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

// DeleteModerator окончательно удаляет запись модератора.
func (s *Storage) DeleteModerator(ctx context.Context, id int64) error {
	const op = "storage.DeleteModerator"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM moderators WHERE id = $1;`
	if _, err := s.DB.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
