package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/rentflow/internal/models"
)

// ListProfilesByRoles возвращает профили с любой из указанных ролей.
func (s *Storage) ListProfilesByRoles(ctx context.Context, roles ...string) ([]*models.Profile, error) {
	const op = "storage.ListProfilesByRoles"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	if len(roles) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(roles))
	args := make([]any, len(roles))
	for i, role := range roles {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = role
	}
	query := `SELECT id, full_name, email, phone, role
			  FROM profiles
			  WHERE role IN (` + strings.Join(placeholders, ", ") + `)
			  ORDER BY created_at, id`
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Profile
	for rows.Next() {
		var (
			p     models.Profile
			phone sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.FullName, &p.Email, &phone, &p.Role); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		p.Phone = phone.String
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
