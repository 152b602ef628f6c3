// Package storage реализует хранилище данных на основе PostgreSQL
// для платформы малого бизнеса. Предоставляет методы создания, чтения,
// обновления и агрегирования записей по сайтам, пользователям, настройкам,
// отзывам, заявкам, посещениям и файловым ресурсам.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// ErrAlreadyExists возвращается при нарушении уникального ключа
// (занятый слаг сайта или адрес почты).
var ErrAlreadyExists = errors.New("already exists")

// ErrMissingReference возвращается при нарушении внешнего ключа,
// например при привязке пользователя к несуществующему сайту.
var ErrMissingReference = errors.New("referenced row does not exist")

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с сущностями платформы.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его.
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
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'sites'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table sites missing or query error: %w", err)
	}
	return nil
}

// isUniqueViolation распознаёт нарушение уникального ключа PostgreSQL.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// isForeignKeyViolation распознаёт нарушение внешнего ключа PostgreSQL.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
