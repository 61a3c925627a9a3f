package models

import (
	"fmt"
	"time"
)

// RunSummary итог одного запуска обработки напоминаний об аренде.
type RunSummary struct {
	RemindersCreated    int       `json:"remindersCreated"`
	TenantNotifications int       `json:"tenantNotifications"`
	AdminNotifications  int       `json:"adminNotifications"`
	MarkedLate          int       `json:"markedLate"`
	Errors              []string  `json:"errors"`
	Month               string    `json:"month"`
	DayOfMonth          int       `json:"dayOfMonth"`
	StartedAt           time.Time `json:"startedAt"`
	FinishedAt          time.Time `json:"finishedAt"`
}

// NewRunSummary создаёт пустой итог для запуска в момент now.
func NewRunSummary(now, month time.Time) RunSummary {
	return RunSummary{
		Errors:     []string{},
		Month:      month.Format(time.DateOnly),
		DayOfMonth: now.Day(),
		StartedAt:  now,
	}
}

// AddError добавляет сообщение об ошибке.
func (s *RunSummary) AddError(format string, args ...any) {
	s.Errors = append(s.Errors, fmt.Sprintf(format, args...))
}

// Duration длительность запуска.
func (s *RunSummary) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
