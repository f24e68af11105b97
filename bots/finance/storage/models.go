package storage

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Profile is a registered Telegram user.
type Profile struct {
	TelegramID   int64     `db:"telegram_id"`
	FirstName    string    `db:"first_name"`
	LastName     *string   `db:"last_name"`
	Username     *string   `db:"username"`
	RegisteredAt time.Time `db:"registered_at"`
}

// ExpenseItem is one category and amount of an entry.
type ExpenseItem struct {
	Category string          `db:"category"`
	Amount   decimal.Decimal `db:"amount"`
}

// ExpenseEntry is one completed run of the expense wizard.
type ExpenseEntry struct {
	ID         uuid.UUID `db:"id"`
	TelegramID int64     `db:"telegram_id"`
	CreatedAt  time.Time `db:"created_at"`
	Items      []ExpenseItem
}

// Total sums the item amounts exactly.
func (e *ExpenseEntry) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range e.Items {
		total = total.Add(it.Amount)
	}
	return total
}
