package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/rentflow/internal/models"
)

// ListDueReminders возвращает идентификаторы незавершённых напоминаний со сроком
// не позже day, у которых включён хотя бы один канал доставки.
func (s *Storage) ListDueReminders(ctx context.Context, day time.Time) ([]string, error) {
	const op = "storage.ListDueReminders"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id FROM reminders
			  WHERE is_completed = false AND due_date <= $1 AND (send_email OR send_sms)
			  ORDER BY due_date, id`
	rows, err := s.DB.QueryContext(ctx, query, day)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ids, nil
}

// GetReminder возвращает напоминание вместе с профилем владельца.
func (s *Storage) GetReminder(ctx context.Context, id string) (*models.Reminder, error) {
	const op = "storage.GetReminder"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT r.id, r.user_id, r.title, r.description, r.due_date, r.send_email,
			      r.send_sms, r.is_completed, p.full_name, p.email, p.phone, p.role
			  FROM reminders r
			  JOIN profiles p ON p.id = r.user_id
			  WHERE r.id = $1`
	var (
		r                  models.Reminder
		description, phone sql.NullString
	)
	err := s.DB.QueryRowContext(ctx, query, id).Scan(&r.ID, &r.UserID, &r.Title, &description,
		&r.DueDate, &r.SendEmail, &r.SendSMS, &r.IsCompleted,
		&r.User.FullName, &r.User.Email, &phone, &r.User.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	r.Description = description.String
	r.User.ID = r.UserID
	r.User.Phone = phone.String
	return &r, nil
}
