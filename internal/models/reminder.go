package models

import "time"

// Reminder пользовательское напоминание с датой и каналами доставки.
type Reminder struct {
	ID          string
	UserID      string
	Title       string
	Description string
	DueDate     time.Time
	SendEmail   bool
	SendSMS     bool
	IsCompleted bool
	User        Profile
}

// DueReminderMessage сообщение в очереди о наступившем напоминании.
type DueReminderMessage struct {
	ReminderID string `json:"reminder_id"`
}
