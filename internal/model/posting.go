package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExternalAccount is the virtual account ID used for the offsetting leg
// of income and expense postings. It never appears in accounts.csv.
const ExternalAccount = 0

// Posting is one debit or credit against an account, generated from a
// transaction. Every transaction produces a balanced set of postings.
type Posting struct {
	ID            string // transaction ID + leg suffix, e.g. "2026-01-003a"
	TransactionID string
	Date          time.Time
	AccountID     int             // ExternalAccount for the virtual leg
	Debit         decimal.Decimal // zero if credit side
	Credit        decimal.Decimal // zero if debit side
	Description   string
}
