package accounts

import "github.com/ledgerly-dev/ledgerly/internal/model"

// DefaultRegistry returns the starter accounts for a new data directory.
func DefaultRegistry(baseCurrency string) []model.Account {
	return []model.Account{
		{ID: 1, Name: "Savings", Type: "savings", Currency: baseCurrency, Active: true},
		{ID: 2, Name: "Current", Type: "current", Currency: baseCurrency, Active: true},
		{ID: 3, Name: "Credit Card", Type: "credit_card", Currency: baseCurrency, Active: true},
		{ID: 4, Name: "Cash", Type: "cash", Currency: baseCurrency, Active: true},
		{ID: 5, Name: "Wallet", Type: "wallet", Currency: baseCurrency, Active: true},
	}
}
