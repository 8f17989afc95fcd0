package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/magabrotheeeer/blog-api/internal/models"
)

// UsersByCity группирует пользователей с адресом по городу.
//
// Для каждого города возвращаются число пользователей, их публичные поля и
// общее число постов этих пользователей. Строки отсортированы по числу
// постов по возрастанию, затем по городу.
func (s *Storage) UsersByCity(ctx context.Context) ([]models.CityReport, error) {
	const op = "storage.UsersByCity"

	query := `WITH per_user AS (
			      SELECT u.uid, u.name, u.address_city AS city,
			          (SELECT COUNT(*) FROM posts p WHERE p.author_uid = u.uid) AS posts
			      FROM users u
			      WHERE u.address_city IS NOT NULL
			  )
			  SELECT city,
			      COUNT(*) AS users_count,
			      json_agg(json_build_object('id', uid, 'name', name) ORDER BY name, uid) AS users,
			      SUM(posts)::BIGINT AS amount_of_articles
			  FROM per_user
			  GROUP BY city
			  ORDER BY amount_of_articles ASC, city ASC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.CityReport, 0)
	for rows.Next() {
		var (
			r     models.CityReport
			users []byte
		)
		if err = rows.Scan(&r.City, &r.UsersCount, &users, &r.AmountOfArticles); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err = json.Unmarshal(users, &r.Users); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
