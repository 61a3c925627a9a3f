package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/rentflow/internal/models"
)

const rentReminderColumns = `rr.id, rr.lease_id, rr.month, rr.base_rent, rr.gas_amount, rr.water_amount,
	rr.hydro_amount, rr.total_amount, rr.status, rr.is_late, rr.late_since,
	rr.tenant_notified_at, rr.admin_notified_at, rr.paid_at`

// InsertRentReminderIfAbsent вставляет напоминание за месяц, если для пары
// (договор, месяц) его ещё нет. Существующая запись не изменяется.
// Возвращает true, если строка была вставлена.
func (s *Storage) InsertRentReminderIfAbsent(ctx context.Context, r models.RentReminder) (bool, error) {
	const op = "storage.InsertRentReminderIfAbsent"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO rent_reminders (lease_id, month, base_rent, gas_amount, water_amount,
			      hydro_amount, total_amount, status, is_late)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  ON CONFLICT (lease_id, month) DO NOTHING`
	result, err := s.DB.ExecContext(ctx, query,
		r.LeaseID, r.Month, r.BaseRent, r.GasAmount, r.WaterAmount, r.HydroAmount,
		r.TotalAmount, string(r.Status), r.IsLate)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected == 1, nil
}

// ListUnpaidRentReminders возвращает неоплаченные напоминания за месяц вместе
// с контактами арендатора и названиями помещения и объекта.
func (s *Storage) ListUnpaidRentReminders(ctx context.Context, month time.Time) ([]*models.RentReminder, error) {
	const op = "storage.ListUnpaidRentReminders"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + rentReminderColumns + `,
			      p.full_name, p.email, p.phone, u.name, pr.name
			  FROM rent_reminders rr
			  JOIN leases l ON l.id = rr.lease_id
			  LEFT JOIN profiles p ON p.id = l.tenant_id
			  LEFT JOIN units u ON u.id = l.unit_id
			  LEFT JOIN properties pr ON pr.id = u.property_id
			  WHERE rr.month = $1 AND rr.status IN ('pending', 'late')
			  ORDER BY rr.created_at, rr.id`
	rows, err := s.DB.QueryContext(ctx, query, month)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.RentReminder
	for rows.Next() {
		var (
			r                                      models.RentReminder
			status                                 string
			lateSince, tenantAt, adminAt, paidAt   sql.NullTime
			fullName, email, phone, unit, property sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.LeaseID, &r.Month, &r.BaseRent, &r.GasAmount, &r.WaterAmount,
			&r.HydroAmount, &r.TotalAmount, &status, &r.IsLate, &lateSince, &tenantAt, &adminAt, &paidAt,
			&fullName, &email, &phone, &unit, &property); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		r.Status = models.RentReminderStatus(status)
		r.LateSince = nullTimePtr(lateSince)
		r.TenantNotifiedAt = nullTimePtr(tenantAt)
		r.AdminNotifiedAt = nullTimePtr(adminAt)
		r.PaidAt = nullTimePtr(paidAt)
		r.Tenant = models.Contact{
			FullName: fullName.String,
			Email:    email.String,
			Phone:    phone.String,
		}
		r.UnitName = unit.String
		r.PropertyName = property.String
		result = append(result, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// MarkRentReminderLate переводит напоминание в просроченные. Уже выставленная
// дата late_since сохраняется. Оплаченное напоминание не изменяется,
// в этом случае возвращается ErrNotFound.
func (s *Storage) MarkRentReminderLate(ctx context.Context, id string, day time.Time) error {
	const op = "storage.MarkRentReminderLate"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE rent_reminders
			  SET is_late = true, status = 'late', late_since = COALESCE(late_since, $2)
			  WHERE id = $1 AND status <> 'paid'`
	return s.execOne(ctx, op, query, id, day)
}

// SetTenantNotified фиксирует время успешного уведомления арендатора.
func (s *Storage) SetTenantNotified(ctx context.Context, id string, at time.Time) error {
	const op = "storage.SetTenantNotified"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE rent_reminders SET tenant_notified_at = $2 WHERE id = $1`
	return s.execOne(ctx, op, query, id, at)
}

// SetAdminNotified фиксирует время рассылки сводки администраторам.
func (s *Storage) SetAdminNotified(ctx context.Context, id string, at time.Time) error {
	const op = "storage.SetAdminNotified"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE rent_reminders SET admin_notified_at = $2 WHERE id = $1`
	return s.execOne(ctx, op, query, id, at)
}

// MarkRentReminderPaid переводит напоминание в оплаченные и возвращает его.
// Повторная отметка не меняет исходную дату оплаты.
func (s *Storage) MarkRentReminderPaid(ctx context.Context, id string, at time.Time) (*models.RentReminder, error) {
	const op = "storage.MarkRentReminderPaid"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE rent_reminders rr
			  SET status = 'paid', paid_at = COALESCE(rr.paid_at, $2)
			  WHERE rr.id = $1
			  RETURNING ` + rentReminderColumns
	var (
		r                                    models.RentReminder
		status                               string
		lateSince, tenantAt, adminAt, paidAt sql.NullTime
	)
	err := s.DB.QueryRowContext(ctx, query, id, at).Scan(&r.ID, &r.LeaseID, &r.Month, &r.BaseRent,
		&r.GasAmount, &r.WaterAmount, &r.HydroAmount, &r.TotalAmount, &status, &r.IsLate,
		&lateSince, &tenantAt, &adminAt, &paidAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	r.Status = models.RentReminderStatus(status)
	r.LateSince = nullTimePtr(lateSince)
	r.TenantNotifiedAt = nullTimePtr(tenantAt)
	r.AdminNotifiedAt = nullTimePtr(adminAt)
	r.PaidAt = nullTimePtr(paidAt)
	return &r, nil
}

func (s *Storage) execOne(ctx context.Context, op, query string, args ...any) error {
	result, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
