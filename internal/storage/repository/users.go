package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/blog-api/internal/models"
)

const userColumns = `uid, name, email, password_hash, address_street, address_city, created_at`

// CreateUser сохраняет нового пользователя и возвращает его с присвоенным ID.
//
// Уникальность email обеспечивает ограничение в БД: нарушение
// возвращается как ErrUserExists.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.CreateUser"

	var street, city sql.NullString
	if user.Address != nil {
		street = sql.NullString{String: user.Address.Street, Valid: true}
		city = sql.NullString{String: user.Address.City, Valid: true}
	}

	query := `INSERT INTO users (name, email, password_hash, address_street, address_city)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING ` + userColumns
	row := s.DB.QueryRowContext(ctx, query, user.Name, user.Email, user.PasswordHash, street, city)
	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, fmt.Errorf("%s: %w", op, ErrUserExists)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"

	query := `SELECT ` + userColumns + ` FROM users WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var (
		u            models.User
		street, city sql.NullString
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &street, &city, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Address = addressFrom(street, city)
	return &u, nil
}

func addressFrom(street, city sql.NullString) *models.Address {
	if !street.Valid && !city.Valid {
		return nil
	}
	return &models.Address{Street: street.String, City: city.String}
}
