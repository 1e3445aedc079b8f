package model

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerly-dev/ledgerly/internal/taxonomy"
)

// Account represents a row in accounts/accounts.csv: a named store of
// value or obligation.
type Account struct {
	ID           int
	Name         string
	Type         string // account_type: savings, credit_card, FD, wallet, ...
	Currency     string
	Balance      decimal.Decimal
	Active       bool
	Institution  string
	MaskedNumber string
	Counterparty string // for receivable/payable accounts
	Notes        string
}

// AccountingType derives the balance-sheet category from the account
// type. It is never stored separately; the account type is the source.
func (a Account) AccountingType() taxonomy.AccountingType {
	return taxonomy.AccountingTypeOf(a.Type)
}
