// Package classify decides whether a proposed transaction is well-formed
// and what its ledger and analytics effect is. It is pure and stateless:
// every call is independent, performs no I/O, and reports violations as
// data rather than faults.
package classify

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerly-dev/ledgerly/internal/currency"
	"github.com/ledgerly-dev/ledgerly/internal/taxonomy"
)

// Input is the proposed transaction under validation. Account types are
// resolved by the caller before validation; empty means unknown, and
// account-type movement rules are skipped for unknown types.
type Input struct {
	Type            taxonomy.TransactionType
	Nature          taxonomy.TransactionNature
	Amount          decimal.Decimal
	Currency        string
	FromAccount     int // 0 = none
	ToAccount       int // 0 = none
	FromAccountType string
	ToAccountType   string
	Category        string
	Counterparty    string
}

// Result collects every rule violation; Valid is true iff Errors is empty.
type Result struct {
	Valid  bool
	Errors []string
}

// counterpartyNatures require a named counterparty. The validator and
// Hints share this set so the form layer never re-encodes it.
var counterpartyNatures = map[taxonomy.TransactionNature]bool{
	taxonomy.NatureLoanGiven:             true,
	taxonomy.NatureLoanReceived:          true,
	taxonomy.NatureLoanRepaid:            true,
	taxonomy.NatureReimbursementPaid:     true,
	taxonomy.NatureReimbursementReceived: true,
	taxonomy.NatureGiftGiven:             true,
}

type rule func(in Input, errs []string) []string

// rules run in order; all of them run so the caller sees every violation
// at once.
var rules = []rule{
	checkNatureForType,
	checkAmountPositive,
	checkTransferAccounts,
	checkCounterparty,
	checkCurrency,
	checkExpenseCategory,
	checkIncomeNoFromAccount,
	checkTransferMovements,
	checkExpenseNotToReceivable,
}

// Validate runs every rule against the input and returns the collected
// violations. It never short-circuits.
func Validate(in Input) Result {
	var errs []string
	for _, r := range rules {
		errs = r(in, errs)
	}
	return Result{Valid: len(errs) == 0, Errors: errs}
}

// NetWorthNeutral reports whether a transfer nature leaves total owned
// net worth unchanged. Income and expense natures are never neutral.
func NetWorthNeutral(nature taxonomy.TransactionNature) bool {
	return taxonomy.IsNetWorthNeutral(nature)
}

func checkNatureForType(in Input, errs []string) []string {
	if !taxonomy.IsValidNature(in.Type, in.Nature) {
		errs = append(errs, "nature not valid for type")
	}
	return errs
}

func checkAmountPositive(in Input, errs []string) []string {
	if in.Amount.Sign() <= 0 {
		errs = append(errs, "amount must be positive")
	}
	return errs
}

func checkTransferAccounts(in Input, errs []string) []string {
	if in.Type != taxonomy.TypeTransfer {
		return errs
	}
	// A single-account adjustment is the one transfer that may reference
	// just one account.
	if in.Nature == taxonomy.NatureAdjustment {
		return errs
	}
	if in.FromAccount == 0 || in.ToAccount == 0 || in.FromAccount == in.ToAccount {
		errs = append(errs, "transfer requires two distinct accounts")
	}
	return errs
}

func checkCounterparty(in Input, errs []string) []string {
	if counterpartyNatures[in.Nature] && in.Counterparty == "" {
		errs = append(errs, "counterparty required for this nature")
	}
	return errs
}

func checkCurrency(in Input, errs []string) []string {
	if !currency.Supported(in.Currency) {
		errs = append(errs, "unsupported currency")
	}
	return errs
}

func checkExpenseCategory(in Input, errs []string) []string {
	if in.Type == taxonomy.TypeExpense && in.Category == "" {
		errs = append(errs, "expense requires a category")
	}
	return errs
}

func checkIncomeNoFromAccount(in Input, errs []string) []string {
	// Income flows into an account; a source account makes no sense.
	if in.Type == taxonomy.TypeIncome && in.FromAccount != 0 {
		errs = append(errs, "income must not have a from account")
	}
	return errs
}

// checkTransferMovements enforces accounting-type direction per transfer
// nature. Skipped when either account type is unknown.
func checkTransferMovements(in Input, errs []string) []string {
	if in.Type != taxonomy.TypeTransfer {
		return errs
	}
	if in.FromAccountType == "" || in.ToAccountType == "" {
		return errs
	}

	from := taxonomy.AccountingTypeOf(in.FromAccountType)
	to := taxonomy.AccountingTypeOf(in.ToAccountType)

	switch in.Nature {
	case taxonomy.NatureInternalTransfer:
		if from != taxonomy.Asset || to != taxonomy.Asset {
			errs = append(errs, "internal_transfer requires both accounts to be asset type")
		}
	case taxonomy.NatureCCBillPayment:
		if from != taxonomy.Asset || to != taxonomy.Liability {
			errs = append(errs, "cc_bill_payment must flow from asset to liability")
		}
	case taxonomy.NatureLoanGiven:
		if from != taxonomy.Asset || to != taxonomy.Receivable {
			errs = append(errs, "loan_given must flow from asset to receivable")
		}
	case taxonomy.NatureLoanReceived:
		if from != taxonomy.Payable || to != taxonomy.Asset {
			errs = append(errs, "loan_received must flow from payable to asset")
		}
	case taxonomy.NatureLoanRepaid:
		ok := (from == taxonomy.Receivable && to == taxonomy.Asset) ||
			(from == taxonomy.Asset && to == taxonomy.Payable)
		if !ok {
			errs = append(errs, "loan_repaid must be receivable to asset or asset to payable")
		}
	case taxonomy.NatureReimbursementReceived:
		if to != taxonomy.Asset {
			errs = append(errs, "reimbursement_received must flow into an asset account")
		}
	}
	return errs
}

func checkExpenseNotToReceivable(in Input, errs []string) []string {
	if in.Type != taxonomy.TypeExpense || in.ToAccountType == "" {
		return errs
	}
	if taxonomy.AccountingTypeOf(in.ToAccountType) == taxonomy.Receivable {
		errs = append(errs, "expense cannot route to a receivable account")
	}
	return errs
}
