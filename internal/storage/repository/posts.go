package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/blog-api/internal/models"
)

// Пост всегда читается вместе с публичными полями автора.
const postSelect = `SELECT p.id, p.title, p.content, p.author_uid, p.created_at, p.updated_at,
			      u.uid, u.name, u.email, u.address_street, u.address_city, u.created_at
			  FROM posts p
			  LEFT JOIN users u ON u.uid = p.author_uid`

type rowScanner interface {
	Scan(dest ...any) error
}

// CreatePost сохраняет пост и возвращает его ID.
func (s *Storage) CreatePost(ctx context.Context, post models.Post) (string, error) {
	const op = "storage.CreatePost"

	var author sql.NullString
	if post.AuthorID != "" {
		author = sql.NullString{String: post.AuthorID, Valid: true}
	}

	var newID string
	query := `INSERT INTO posts (title, content, author_uid)
			  VALUES ($1, $2, $3)
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query, post.Title, post.Content, author).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetPost возвращает пост с автором по ID.
func (s *Storage) GetPost(ctx context.Context, id string) (*models.Post, error) {
	const op = "storage.GetPost"

	p, err := scanPost(s.DB.QueryRowContext(ctx, postSelect+` WHERE p.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrPostNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// ListPosts возвращает все посты с авторами в порядке создания.
func (s *Storage) ListPosts(ctx context.Context) ([]*models.Post, error) {
	const op = "storage.ListPosts"

	rows, err := s.DB.QueryContext(ctx, postSelect+` ORDER BY p.created_at, p.id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdatePost обновляет заданные поля поста и возвращает его новую версию.
func (s *Storage) UpdatePost(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error) {
	const op = "storage.UpdatePost"

	var title, content sql.NullString
	if patch.Title != nil {
		title = sql.NullString{String: *patch.Title, Valid: true}
	}
	if patch.Content != nil {
		content = sql.NullString{String: *patch.Content, Valid: true}
	}

	query := `UPDATE posts
			  SET title = COALESCE($2, title),
			      content = COALESCE($3, content),
			      updated_at = NOW()
			  WHERE id = $1`
	res, err := s.DB.ExecContext(ctx, query, id, title, content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrPostNotFound)
	}

	p, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// DeletePost удаляет пост и возвращает удалённую запись с автором.
func (s *Storage) DeletePost(ctx context.Context, id string) (*models.Post, error) {
	const op = "storage.DeletePost"

	query := `WITH deleted AS (
			      DELETE FROM posts WHERE id = $1
			      RETURNING id, title, content, author_uid, created_at, updated_at
			  )
			  SELECT p.id, p.title, p.content, p.author_uid, p.created_at, p.updated_at,
			      u.uid, u.name, u.email, u.address_street, u.address_city, u.created_at
			  FROM deleted p
			  LEFT JOIN users u ON u.uid = p.author_uid`
	p, err := scanPost(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrPostNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func scanPost(row rowScanner) (*models.Post, error) {
	var (
		p                models.Post
		authorID         sql.NullString
		uid, name, email sql.NullString
		street, city     sql.NullString
		userCreatedAt    sql.NullTime
	)
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &authorID, &p.CreatedAt, &p.UpdatedAt,
		&uid, &name, &email, &street, &city, &userCreatedAt); err != nil {
		return nil, err
	}

	p.AuthorID = authorID.String
	if uid.Valid {
		p.Author = &models.User{
			ID:        uid.String,
			Name:      name.String,
			Email:     email.String,
			Address:   addressFrom(street, city),
			CreatedAt: userCreatedAt.Time,
		}
	}
	return &p, nil
}
