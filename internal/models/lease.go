// Package models содержит доменные структуры: договоры аренды, ежемесячные
// напоминания об оплате, профили пользователей и пользовательские напоминания.
package models

import "github.com/shopspring/decimal"

// Lease представляет договор аренды между арендатором и помещением.
// Реестр договоров доступен только на чтение.
type Lease struct {
	ID            string
	TenantID      string
	BaseRent      decimal.Decimal
	GasAmount     decimal.NullDecimal // NULL — сумма не указана
	WaterAmount   decimal.NullDecimal
	HydroAmount   decimal.NullDecimal
	IncludesGas   bool
	IncludesWater bool
	IncludesHydro bool
	IsActive      bool
}

// IncludedGas возвращает сумму за газ, если она включена в аренду, иначе 0.
func (l Lease) IncludedGas() decimal.Decimal {
	return included(l.IncludesGas, l.GasAmount)
}

// IncludedWater возвращает сумму за воду, если она включена в аренду, иначе 0.
func (l Lease) IncludedWater() decimal.Decimal {
	return included(l.IncludesWater, l.WaterAmount)
}

// IncludedHydro возвращает сумму за электричество, если она включена в аренду, иначе 0.
func (l Lease) IncludedHydro() decimal.Decimal {
	return included(l.IncludesHydro, l.HydroAmount)
}

// TotalRent считает полную сумму к оплате за месяц:
// базовая аренда плюс включённые коммунальные платежи.
func (l Lease) TotalRent() decimal.Decimal {
	return l.BaseRent.
		Add(l.IncludedGas()).
		Add(l.IncludedWater()).
		Add(l.IncludedHydro())
}

func included(flag bool, amount decimal.NullDecimal) decimal.Decimal {
	if !flag || !amount.Valid {
		return decimal.Zero
	}
	return amount.Decimal
}
