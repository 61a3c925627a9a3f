package rentreminder

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/rentflow/internal/lib/month"
	"github.com/magabrotheeeer/rentflow/internal/models"
)

// Texts параметры текстов уведомлений.
type Texts struct {
	Brand     string
	Currency  string
	GraceDays int
}

// Tenant текст для арендатора: напоминание до конца льготного периода
// и уведомление о просрочке после него.
func (t Texts) Tenant(r *models.RentReminder, overdue bool) string {
	amount := r.TotalAmount.StringFixed(2)
	if overdue {
		return fmt.Sprintf("LATE RENT NOTICE: Your rent of $%s %s for %s is overdue. "+
			"Please pay immediately to avoid further action. - %s",
			amount, t.Currency, r.Place(), t.Brand)
	}
	return fmt.Sprintf("Rent Reminder: Your rent of $%s %s for %s is due. "+
		"Please pay by the %s to avoid late fees. - %s",
		amount, t.Currency, r.Place(), month.Ordinal(t.GraceDays), t.Brand)
}

// TenantSubject тема письма арендатору.
func (t Texts) TenantSubject(overdue bool) string {
	if overdue {
		return "Late Rent Notice - " + t.Brand
	}
	return "Rent Reminder - " + t.Brand
}

// Staff сводка для администраторов и менеджеров.
func (t Texts) Staff(count int, total decimal.Decimal) string {
	return fmt.Sprintf("%s Alert: %d tenant(s) have unpaid rent totaling $%s %s. Please follow up. - %s",
		t.Brand, count, total.StringFixed(2), t.Currency, t.Brand)
}
