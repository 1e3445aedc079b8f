package classify

import "github.com/ledgerly-dev/ledgerly/internal/taxonomy"

// UXHints tells a form layer which optional fields to show or require for
// a (type, nature) pair, so it never re-encodes the validation rules.
type UXHints struct {
	ShowCategory        bool
	RequireCounterparty bool
	RequireBothAccounts bool
	AffectsNetWorth     bool
}

// Hints derives the form hints for a (type, nature) pair. Pure function,
// no state.
func Hints(t taxonomy.TransactionType, nature taxonomy.TransactionNature) UXHints {
	isTransfer := t == taxonomy.TypeTransfer
	return UXHints{
		ShowCategory:        !isTransfer,
		RequireCounterparty: counterpartyNatures[nature],
		RequireBothAccounts: isTransfer && nature != taxonomy.NatureAdjustment,
		AffectsNetWorth:     !isTransfer || !taxonomy.IsNetWorthNeutral(nature),
	}
}
