package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/rentflow/internal/models"
)

func newMockStorage(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return &Storage{DB: db}, mock
}

var march = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func TestStorage_ListActiveLeases(t *testing.T) {
	storage, mock := newMockStorage(t)

	rows := sqlmock.NewRows([]string{"id", "tenant_id", "base_rent", "gas_amount", "water_amount",
		"hydro_amount", "includes_gas", "includes_water", "includes_hydro", "is_active"}).
		AddRow("lease-1", "tenant-1", "1200.00", "80.00", "45.00", nil, true, false, false, true).
		AddRow("lease-2", "tenant-2", "950.00", nil, nil, nil, false, false, true, true)
	mock.ExpectQuery(regexp.QuoteMeta("FROM leases")).WillReturnRows(rows)

	got, err := storage.ListActiveLeases(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "lease-1", got[0].ID)
	assert.True(t, decimal.NewFromInt(1280).Equal(got[0].TotalRent()))
	assert.False(t, got[1].HydroAmount.Valid)
	assert.True(t, decimal.NewFromInt(950).Equal(got[1].TotalRent()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_ListActiveLeases_CanceledContext(t *testing.T) {
	storage, mock := newMockStorage(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := storage.ListActiveLeases(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_InsertRentReminderIfAbsent(t *testing.T) {
	reminder := models.RentReminder{
		LeaseID:     "lease-1",
		Month:       march,
		BaseRent:    decimal.NewFromInt(1200),
		GasAmount:   decimal.NewFromInt(80),
		TotalAmount: decimal.NewFromInt(1280),
		Status:      models.StatusPending,
	}

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		want      bool
		wantErr   bool
	}{
		{
			name: "inserted",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (lease_id, month) DO NOTHING")).
					WithArgs("lease-1", march, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
						sqlmock.AnyArg(), sqlmock.AnyArg(), "pending", false).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			want: true,
		},
		{
			name: "already exists",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO rent_reminders")).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			want: false,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO rent_reminders")).
					WillReturnError(errors.New("connection reset"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, mock := newMockStorage(t)
			tt.setupMock(mock)

			got, err := storage.InsertRentReminderIfAbsent(context.Background(), reminder)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "storage.InsertRentReminderIfAbsent")
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStorage_ListUnpaidRentReminders(t *testing.T) {
	storage, mock := newMockStorage(t)
	notified := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "lease_id", "month", "base_rent", "gas_amount",
		"water_amount", "hydro_amount", "total_amount", "status", "is_late", "late_since",
		"tenant_notified_at", "admin_notified_at", "paid_at",
		"full_name", "email", "phone", "name", "name"}).
		AddRow("rr-1", "lease-1", march, "1200.00", "80.00", "0", "0", "1280.00", "pending", false, nil,
			notified, nil, nil, "Jane Doe", "jane@example.com", "4165550123", "2B", "Maple Court").
		AddRow("rr-2", "lease-2", march, "950.00", "0", "0", "0", "950.00", "late", true, march,
			nil, nil, nil, nil, nil, nil, nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("rr.status IN ('pending', 'late')")).
		WithArgs(march).
		WillReturnRows(rows)

	got, err := storage.ListUnpaidRentReminders(context.Background(), march)
	require.NoError(t, err)
	require.Len(t, got, 2)

	first := got[0]
	assert.Equal(t, models.StatusPending, first.Status)
	assert.True(t, decimal.NewFromInt(1280).Equal(first.TotalAmount))
	require.NotNil(t, first.TenantNotifiedAt)
	assert.Equal(t, notified, *first.TenantNotifiedAt)
	assert.Nil(t, first.LateSince)
	assert.Equal(t, "4165550123", first.Tenant.Phone)
	assert.Equal(t, "Maple Court, 2B", first.Place())

	second := got[1]
	assert.Equal(t, models.StatusLate, second.Status)
	require.NotNil(t, second.LateSince)
	assert.Empty(t, second.Tenant.Phone)
	assert.Equal(t, "your rental", second.Place())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_ListUnpaidRentReminders_QueryError(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM rent_reminders")).WillReturnError(errors.New("timeout"))

	_, err := storage.ListUnpaidRentReminders(context.Background(), march)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.ListUnpaidRentReminders: timeout")
}

func TestStorage_MarkRentReminderLate(t *testing.T) {
	day := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   error
	}{
		{
			name: "marked",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta("late_since = COALESCE(late_since, $2)")).
					WithArgs("rr-1", day).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "paid meanwhile",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta("WHERE id = $1 AND status <> 'paid'")).
					WithArgs("rr-1", day).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, mock := newMockStorage(t)
			tt.setupMock(mock)

			err := storage.MarkRentReminderLate(context.Background(), "rr-1", day)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStorage_SetNotified(t *testing.T) {
	at := time.Date(2026, 3, 6, 9, 0, 0, 0, time.UTC)
	storage, mock := newMockStorage(t)

	mock.ExpectExec(regexp.QuoteMeta("SET tenant_notified_at = $2")).
		WithArgs("rr-1", at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("SET admin_notified_at = $2")).
		WithArgs("rr-1", at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("SET admin_notified_at = $2")).
		WithArgs("missing", at).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, storage.SetTenantNotified(context.Background(), "rr-1", at))
	require.NoError(t, storage.SetAdminNotified(context.Background(), "rr-1", at))
	require.ErrorIs(t, storage.SetAdminNotified(context.Background(), "missing", at), ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_MarkRentReminderPaid(t *testing.T) {
	at := time.Date(2026, 3, 7, 15, 30, 0, 0, time.UTC)
	columns := []string{"id", "lease_id", "month", "base_rent", "gas_amount", "water_amount",
		"hydro_amount", "total_amount", "status", "is_late", "late_since",
		"tenant_notified_at", "admin_notified_at", "paid_at"}

	t.Run("marked paid", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		mock.ExpectQuery(regexp.QuoteMeta("paid_at = COALESCE(rr.paid_at, $2)")).
			WithArgs("rr-1", at).
			WillReturnRows(sqlmock.NewRows(columns).AddRow("rr-1", "lease-1", march, "1200.00", "0", "0", "0",
				"1200.00", "paid", true, march, nil, nil, at))

		got, err := storage.MarkRentReminderPaid(context.Background(), "rr-1", at)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPaid, got.Status)
		require.NotNil(t, got.PaidAt)
		assert.Equal(t, at, *got.PaidAt)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE rent_reminders")).
			WillReturnError(sql.ErrNoRows)

		_, err := storage.MarkRentReminderPaid(context.Background(), "missing", at)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStorage_ListProfilesByRoles(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE role IN ($1, $2)")).
		WithArgs(models.RoleAdmin, models.RoleManager).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "email", "phone", "role"}).
			AddRow("p-1", "Admin", "admin@example.com", "6135550199", "admin").
			AddRow("p-2", "Manager", "manager@example.com", nil, "manager"))

	got, err := storage.ListProfilesByRoles(context.Background(), models.RoleAdmin, models.RoleManager)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "6135550199", got[0].Phone)
	assert.Empty(t, got[1].Phone)
	require.NoError(t, mock.ExpectationsWereMet())

	none, err := storage.ListProfilesByRoles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStorage_ListDueReminders(t *testing.T) {
	storage, mock := newMockStorage(t)
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("due_date <= $1 AND (send_email OR send_sms)")).
		WithArgs(day).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("r-1").AddRow("r-2"))

	got, err := storage.ListDueReminders(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, []string{"r-1", "r-2"}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_GetReminder(t *testing.T) {
	due := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	columns := []string{"id", "user_id", "title", "description", "due_date", "send_email",
		"send_sms", "is_completed", "full_name", "email", "phone", "role"}

	t.Run("found", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM reminders r")).
			WithArgs("r-1").
			WillReturnRows(sqlmock.NewRows(columns).AddRow("r-1", "u-1", "Inspect furnace", nil, due,
				true, true, false, "Sam Lee", "sam@example.com", "4165550100", "manager"))

		got, err := storage.GetReminder(context.Background(), "r-1")
		require.NoError(t, err)
		assert.Equal(t, "Inspect furnace", got.Title)
		assert.Empty(t, got.Description)
		assert.Equal(t, "u-1", got.User.ID)
		assert.Equal(t, "4165550100", got.User.Phone)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM reminders r")).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(columns))

		_, err := storage.GetReminder(context.Background(), "missing")
		require.ErrorIs(t, err, ErrNotFound)
	})
}
