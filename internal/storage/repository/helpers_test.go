package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/rentflow/internal/migrations"
)

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции.
func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("rentflow"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = storage.Close()
	})

	path, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, path))
	require.NoError(t, CheckDatabaseReady(storage))

	return storage
}

// TestDataFactory создаёт тестовые данные напрямую через SQL.
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создаёт фабрику тестовых данных.
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateProfile создаёт профиль и возвращает его ID.
func (f *TestDataFactory) CreateProfile(t *testing.T, fullName, email string, phone sql.NullString, role string) string {
	id := uuid.New().String()
	_, err := f.storage.DB.Exec(`INSERT INTO profiles (id, full_name, email, phone, role)
		VALUES ($1, $2, $3, $4, $5)`, id, fullName, email, phone, role)
	require.NoError(t, err)
	return id
}

// CreateUnit создаёт объект с одним помещением и возвращает ID помещения.
func (f *TestDataFactory) CreateUnit(t *testing.T, property, unit string) string {
	var propertyID, unitID string
	err := f.storage.DB.QueryRow(`INSERT INTO properties (name) VALUES ($1) RETURNING id`, property).Scan(&propertyID)
	require.NoError(t, err)
	err = f.storage.DB.QueryRow(`INSERT INTO units (property_id, name) VALUES ($1, $2) RETURNING id`,
		propertyID, unit).Scan(&unitID)
	require.NoError(t, err)
	return unitID
}

// CreateLease создаёт договор аренды и возвращает его ID.
func (f *TestDataFactory) CreateLease(t *testing.T, unitID, tenantID, baseRent string, gas sql.NullString,
	includesGas, active bool) string {
	var id string
	err := f.storage.DB.QueryRow(`INSERT INTO leases (unit_id, tenant_id, base_rent, gas_amount, includes_gas, is_active)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		unitID, tenantID, baseRent, gas, includesGas, active).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateReminder создаёт пользовательское напоминание и возвращает его ID.
func (f *TestDataFactory) CreateReminder(t *testing.T, userID, title string, due time.Time,
	sendEmail, sendSMS, completed bool) string {
	var id string
	err := f.storage.DB.QueryRow(`INSERT INTO reminders (user_id, title, due_date, send_email, send_sms, is_completed)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		userID, title, due, sendEmail, sendSMS, completed).Scan(&id)
	require.NoError(t, err)
	return id
}
