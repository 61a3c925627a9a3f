package payment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/rentflow/internal/models"
	"github.com/magabrotheeeer/rentflow/internal/storage/repository"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) MarkRentReminderPaid(ctx context.Context, id string, paidAt time.Time) (*models.RentReminder, error) {
	args := m.Called(ctx, id, paidAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RentReminder), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestPaymentService_MarkPaid(t *testing.T) {
	now := time.Date(2026, 3, 9, 15, 30, 0, 0, time.UTC)
	explicit := time.Date(2026, 3, 8, 12, 0, 0, 0, time.FixedZone("EST", -5*3600))
	paid := &models.RentReminder{ID: "r1", LeaseID: "l1", Status: models.StatusPaid}

	tests := []struct {
		name      string
		paidAt    *time.Time
		setupMock func(*MockRepository)
		wantErr   error
	}{
		{
			name: "defaults to now",
			setupMock: func(m *MockRepository) {
				m.On("MarkRentReminderPaid", mock.Anything, "r1", now).Return(paid, nil).Once()
			},
		},
		{
			name:   "explicit time normalized to UTC",
			paidAt: &explicit,
			setupMock: func(m *MockRepository) {
				m.On("MarkRentReminderPaid", mock.Anything, "r1", explicit.UTC()).Return(paid, nil).Once()
			},
		},
		{
			name: "not found",
			setupMock: func(m *MockRepository) {
				m.On("MarkRentReminderPaid", mock.Anything, "r1", now).
					Return(nil, errors.Join(errors.New("storage.MarkRentReminderPaid"), repository.ErrNotFound)).Once()
			},
			wantErr: repository.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			tt.setupMock(repo)
			service := New(repo, newNoopLogger())
			service.now = func() time.Time { return now }

			got, err := service.MarkPaid(context.Background(), "r1", tt.paidAt)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, models.StatusPaid, got.Status)
			}
			repo.AssertExpectations(t)
		})
	}
}
