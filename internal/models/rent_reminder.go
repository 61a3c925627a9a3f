package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RentReminderStatus статус ежемесячного напоминания.
type RentReminderStatus string

const (
	// StatusPending — напоминание создано, оплаты нет, срок не прошёл.
	StatusPending RentReminderStatus = "pending"
	// StatusLate — оплаты нет после льготного периода.
	StatusLate RentReminderStatus = "late"
	// StatusPaid — оплата зафиксирована, конечное состояние месяца.
	StatusPaid RentReminderStatus = "paid"
)

// Contact контактные данные арендатора. Пустая строка означает отсутствие контакта.
type Contact struct {
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// RentReminder одна запись на пару (договор, месяц).
type RentReminder struct {
	ID               string             `json:"id"`
	LeaseID          string             `json:"lease_id"`
	Month            time.Time          `json:"month"`
	BaseRent         decimal.Decimal    `json:"base_rent"`
	GasAmount        decimal.Decimal    `json:"gas_amount"`
	WaterAmount      decimal.Decimal    `json:"water_amount"`
	HydroAmount      decimal.Decimal    `json:"hydro_amount"`
	TotalAmount      decimal.Decimal    `json:"total_amount"`
	Status           RentReminderStatus `json:"status"`
	IsLate           bool               `json:"is_late"`
	LateSince        *time.Time         `json:"late_since,omitempty"`
	TenantNotifiedAt *time.Time         `json:"tenant_notified_at,omitempty"`
	AdminNotifiedAt  *time.Time         `json:"admin_notified_at,omitempty"`
	PaidAt           *time.Time         `json:"paid_at,omitempty"`

	// Данные из связанных таблиц, заполняются только при выборке для рассылки.
	Tenant       Contact `json:"tenant"`
	UnitName     string  `json:"unit_name,omitempty"`
	PropertyName string  `json:"property_name,omitempty"`
}

// NewRentReminder собирает напоминание за месяц по договору аренды.
func NewRentReminder(lease Lease, month time.Time) RentReminder {
	return RentReminder{
		LeaseID:     lease.ID,
		Month:       month,
		BaseRent:    lease.BaseRent,
		GasAmount:   lease.IncludedGas(),
		WaterAmount: lease.IncludedWater(),
		HydroAmount: lease.IncludedHydro(),
		TotalAmount: lease.TotalRent(),
		Status:      StatusPending,
		IsLate:      false,
	}
}

// Unpaid сообщает, ждёт ли напоминание оплаты.
func (r *RentReminder) Unpaid() bool {
	return r.Status == StatusPending || r.Status == StatusLate
}

// NeedsLateMark сообщает, нужно ли перевести напоминание в просроченные.
func (r *RentReminder) NeedsLateMark() bool {
	return r.Unpaid() && (r.Status != StatusLate || !r.IsLate)
}

// Place возвращает название объекта для текста уведомления.
func (r *RentReminder) Place() string {
	switch {
	case r.PropertyName != "" && r.UnitName != "":
		return r.PropertyName + ", " + r.UnitName
	case r.PropertyName != "":
		return r.PropertyName
	case r.UnitName != "":
		return r.UnitName
	default:
		return "your rental"
	}
}
