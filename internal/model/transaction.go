package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerly-dev/ledgerly/internal/taxonomy"
)

// Source records how a transaction entered the system.
type Source string

const (
	SourceManual Source = "manual"
	SourceImport Source = "import"
	SourceAI     Source = "ai"
)

// Transaction is a single financial event, one row in the month's
// transactions.csv. Amount is always positive; direction comes from the
// type and the account references.
type Transaction struct {
	ID           string // "YYYY-MM-NNN"
	Date         time.Time
	Type         taxonomy.TransactionType
	Nature       taxonomy.TransactionNature
	Amount       decimal.Decimal
	Currency     string
	FromAccount  int // 0 = none
	ToAccount    int // 0 = none
	Category     string
	Counterparty string
	Description  string
	Source       Source
	Confidence   decimal.Decimal // 0–1 when machine-classified, zero otherwise
	Deleted      bool            // soft-deleted (in trash)
	DeleteReason string
}

// BankTransaction represents a parsed bank statement row before
// classification. Amount keeps the statement's sign: negative = money
// out, positive = money in.
type BankTransaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Reference   string
	Type        string // bank-reported transaction type (NEFT, UPI, ACH_DEBIT, ...)
}
