// Package month содержит календарные вычисления для ежемесячной аренды.
// Даты возвращаются как полночь UTC соответствующего локального дня,
// так они хранятся в колонках DATE.
package month

import (
	"strconv"
	"time"
)

// Day возвращает локальную дату момента t в часовом поясе loc.
func Day(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// Start возвращает первое число месяца, в который попадает t в часовом поясе loc.
func Start(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// SameDay сообщает, приходятся ли a и b на один локальный день.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return Day(a, loc).Equal(Day(b, loc))
}

// IsOverdue сообщает, прошёл ли льготный период: день месяца больше graceDays.
func IsOverdue(dayOfMonth, graceDays int) bool {
	return dayOfMonth > graceDays
}

// Ordinal возвращает число с английским порядковым суффиксом: 1st, 2nd, 5th, 11th.
func Ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}
