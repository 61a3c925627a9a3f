package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/rentflow/internal/models"
)

// ListActiveLeases возвращает все действующие договоры аренды.
func (s *Storage) ListActiveLeases(ctx context.Context) ([]*models.Lease, error) {
	const op = "storage.ListActiveLeases"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, tenant_id, base_rent, gas_amount, water_amount, hydro_amount,
			      includes_gas, includes_water, includes_hydro, is_active
			  FROM leases
			  WHERE is_active = true
			  ORDER BY created_at, id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Lease
	for rows.Next() {
		var l models.Lease
		if err := rows.Scan(&l.ID, &l.TenantID, &l.BaseRent, &l.GasAmount, &l.WaterAmount,
			&l.HydroAmount, &l.IncludesGas, &l.IncludesWater, &l.IncludesHydro, &l.IsActive); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
