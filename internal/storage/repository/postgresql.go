// Package repository реализует хранилище данных на основе PostgreSQL
// для модераторов, каналов и напоминаний. Уникальные ограничения
// (имя учётной записи, идентификационный токен) различаются по имени
// нарушенного constraint и отдаются наверх отдельными ошибками.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Ошибки нарушения уникальности при сохранении модератора.
var (
	// ErrTokenExists идентификационный токен уже занят. Восстановимая
	// ситуация: вызывающая сторона выпускает новый токен и повторяет запись.
	ErrTokenExists = errors.New("access token already exists")
	// ErrNameExists имя учётной записи уже занято.
	ErrNameExists = errors.New("account name already exists")
)

const uniqueViolation = "23505"

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func (s *Storage) CheckDatabaseReady(ctx context.Context) error {
	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'moderators'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table moderators missing or query error: %w", err)
	}
	return nil
}

// mapUniqueViolation переводит нарушение уникальности в доменную ошибку по
// имени constraint. Прочие ошибки возвращаются как есть.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	switch pgErr.ConstraintName {
	case "moderators_access_token_key":
		return ErrTokenExists
	case "moderators_name_key":
		return ErrNameExists
	}
	return err
}
