// Package taxonomy is the single source of truth for transaction and
// account classification. Every derived table (valid natures per type,
// the net-worth-neutral set, account-type mapping) is defined here once;
// other packages consume these tables and never restate them.
package taxonomy

// TransactionType is the top-level movement classification: does money
// enter, leave, or move internally?
type TransactionType string

const (
	TypeIncome   TransactionType = "income"
	TypeExpense  TransactionType = "expense"
	TypeTransfer TransactionType = "transfer"
)

// TransactionNature is the semantic sub-classification within a type:
// why the money moved.
type TransactionNature string

const (
	// Income natures.
	NatureSalary           TransactionNature = "salary"
	NatureBusinessIncome   TransactionNature = "business_income"
	NatureInvestmentIncome TransactionNature = "investment_income"
	NatureGiftReceived     TransactionNature = "gift_received"
	NatureRefund           TransactionNature = "refund"
	NatureOtherIncome      TransactionNature = "other_income"

	// Expense natures.
	NaturePurchase          TransactionNature = "purchase"
	NatureSubscription      TransactionNature = "subscription"
	NatureBillPayment       TransactionNature = "bill_payment"
	NatureReimbursementPaid TransactionNature = "reimbursement_paid"
	NatureGiftGiven         TransactionNature = "gift_given"
	NatureOtherExpense      TransactionNature = "other_expense"

	// Transfer natures.
	NatureInternalTransfer      TransactionNature = "internal_transfer"
	NatureCCBillPayment         TransactionNature = "cc_bill_payment"
	NatureReimbursementReceived TransactionNature = "reimbursement_received"
	NatureLoanGiven             TransactionNature = "loan_given"
	NatureLoanReceived          TransactionNature = "loan_received"
	NatureLoanRepaid            TransactionNature = "loan_repaid"
	NatureAdjustment            TransactionNature = "adjustment"
)

// AccountingType is the balance-sheet category of an account.
type AccountingType string

const (
	Asset      AccountingType = "asset"
	Liability  AccountingType = "liability"
	Receivable AccountingType = "receivable"
	Payable    AccountingType = "payable"
)

// accountTypeToAccounting maps user-facing account types to their
// balance-sheet category.
var accountTypeToAccounting = map[string]AccountingType{
	// Banking
	"savings": Asset,
	"current": Asset,
	"salary":  Asset,
	"NRO":     Asset,
	"NRE":     Asset,
	// Credit
	"credit_card": Liability,
	"overdraft":   Liability,
	// Fixed deposits
	"FD": Asset,
	"RD": Asset,
	// Retirement
	"PPF": Asset,
	"EPF": Asset,
	"NPS": Asset,
	// Investments
	"stocks":       Asset,
	"mutual_funds": Asset,
	"bonds":        Asset,
	"crypto":       Asset,
	// Other
	"wallet": Asset,
	"cash":   Asset,
	"other":  Asset,
	// Accounting-specific
	"receivable": Receivable,
	"payable":    Payable,
}

// AccountingTypeOf derives the AccountingType for an account_type string.
// Unknown types default to Asset.
func AccountingTypeOf(accountType string) AccountingType {
	if t, ok := accountTypeToAccounting[accountType]; ok {
		return t
	}
	return Asset
}

// KnownAccountType reports whether accountType has an explicit mapping.
func KnownAccountType(accountType string) bool {
	_, ok := accountTypeToAccounting[accountType]
	return ok
}

// naturesForType maps each transaction type to its allowed natures.
var naturesForType = map[TransactionType][]TransactionNature{
	TypeIncome: {
		NatureSalary,
		NatureBusinessIncome,
		NatureInvestmentIncome,
		NatureGiftReceived,
		NatureRefund,
		NatureOtherIncome,
	},
	TypeExpense: {
		NaturePurchase,
		NatureSubscription,
		NatureBillPayment,
		NatureReimbursementPaid,
		NatureGiftGiven,
		NatureOtherExpense,
	},
	TypeTransfer: {
		NatureInternalTransfer,
		NatureCCBillPayment,
		NatureReimbursementReceived,
		NatureLoanGiven,
		NatureLoanReceived,
		NatureLoanRepaid,
		NatureAdjustment,
	},
}

// Types returns all transaction types.
func Types() []TransactionType {
	return []TransactionType{TypeIncome, TypeExpense, TypeTransfer}
}

// NaturesFor returns the natures allowed for a transaction type.
func NaturesFor(t TransactionType) []TransactionNature {
	return naturesForType[t]
}

// AllNatures returns every defined nature, income first, then expense,
// then transfer.
func AllNatures() []TransactionNature {
	var all []TransactionNature
	for _, t := range Types() {
		all = append(all, naturesForType[t]...)
	}
	return all
}

// IsValidNature reports whether nature belongs to the allowed set for t.
func IsValidNature(t TransactionType, nature TransactionNature) bool {
	for _, n := range naturesForType[t] {
		if n == nature {
			return true
		}
	}
	return false
}

// neutralNatures is the fixed set of transfer natures that produce no
// change in the user's total owned net worth.
var neutralNatures = map[TransactionNature]bool{
	NatureInternalTransfer:      true,
	NatureCCBillPayment:         true,
	NatureLoanGiven:             true,
	NatureLoanReceived:          true,
	NatureLoanRepaid:            true,
	NatureReimbursementReceived: true,
	NatureAdjustment:            true,
}

// IsNetWorthNeutral reports whether a transfer nature leaves net worth
// unchanged. Income and expense natures are always non-neutral.
func IsNetWorthNeutral(nature TransactionNature) bool {
	return neutralNatures[nature]
}

// IsLoanNature reports whether nature is one of the loan movements.
func IsLoanNature(nature TransactionNature) bool {
	switch nature {
	case NatureLoanGiven, NatureLoanReceived, NatureLoanRepaid:
		return true
	}
	return false
}
