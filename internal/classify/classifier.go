package classify

import (
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/ledgerly-dev/ledgerly/internal/taxonomy"
)

// ClassificationResult is the outcome of auto-classifying a statement
// row: a (type, nature) pair with a confidence score and the reasoning
// behind it.
type ClassificationResult struct {
	Type       taxonomy.TransactionType
	Nature     taxonomy.TransactionNature
	Confidence decimal.Decimal // 0–1
	Reasoning  string
}

type pattern struct {
	re         *regexp.Regexp
	txnType    taxonomy.TransactionType
	nature     taxonomy.TransactionNature
	confidence string
}

// naturePatterns match transaction descriptions. Order matters: first
// match wins.
var naturePatterns = []pattern{
	// Loans
	{regexp.MustCompile(`(?i)\bloan\s*(?:to|given|lent)\b`), taxonomy.TypeTransfer, taxonomy.NatureLoanGiven, "0.85"},
	{regexp.MustCompile(`(?i)\bloan\s*(?:from|received|borrowed)\b`), taxonomy.TypeTransfer, taxonomy.NatureLoanReceived, "0.85"},
	{regexp.MustCompile(`(?i)\bloan\s*(?:repay|repaid|return)\b`), taxonomy.TypeTransfer, taxonomy.NatureLoanRepaid, "0.85"},

	// Internal transfers
	{regexp.MustCompile(`(?i)\b(?:own\s*account|self)\s*transfer\b`), taxonomy.TypeTransfer, taxonomy.NatureInternalTransfer, "0.95"},
	{regexp.MustCompile(`(?i)\btransfer\s*(?:from|to)\s*own\b`), taxonomy.TypeTransfer, taxonomy.NatureInternalTransfer, "0.90"},

	// Credit card bill
	{regexp.MustCompile(`(?i)\b(?:card|cc)\s*bill\s*pay`), taxonomy.TypeTransfer, taxonomy.NatureCCBillPayment, "0.90"},

	// Reimbursement
	{regexp.MustCompile(`(?i)\breimburs`), taxonomy.TypeTransfer, taxonomy.NatureReimbursementReceived, "0.75"},

	// Salary
	{regexp.MustCompile(`(?i)\b(?:salary|payroll|wages)\b`), taxonomy.TypeIncome, taxonomy.NatureSalary, "0.90"},

	// Business income
	{regexp.MustCompile(`(?i)\b(?:invoice|freelance|consulting)\s*(?:pay|receipt|income)\b`), taxonomy.TypeIncome, taxonomy.NatureBusinessIncome, "0.80"},

	// Subscriptions
	{regexp.MustCompile(`(?i)\b(?:netflix|spotify|amazon\s*prime|youtube\s*premium|disney|subscription)\b`), taxonomy.TypeExpense, taxonomy.NatureSubscription, "0.85"},

	// Standing order / auto-debit → likely a bill
	{regexp.MustCompile(`(?i)\b(?:standing\s*order|auto\s*debit|direct\s*debit)\b`), taxonomy.TypeExpense, taxonomy.NatureBillPayment, "0.70"},
}

// accountHeuristics infer transfer natures from the accounting types on
// either side when no description pattern matches.
type accountHeuristic struct {
	from, to   taxonomy.AccountingType
	txnType    taxonomy.TransactionType
	nature     taxonomy.TransactionNature
	confidence string
	reasoning  string
}

var accountHeuristics = []accountHeuristic{
	{taxonomy.Asset, taxonomy.Asset, taxonomy.TypeTransfer, taxonomy.NatureInternalTransfer, "0.80", "both accounts are asset: internal transfer"},
	{taxonomy.Asset, taxonomy.Liability, taxonomy.TypeTransfer, taxonomy.NatureCCBillPayment, "0.75", "asset to liability: credit card bill payment"},
	{taxonomy.Asset, taxonomy.Receivable, taxonomy.TypeTransfer, taxonomy.NatureLoanGiven, "0.80", "asset to receivable: loan given"},
	{taxonomy.Payable, taxonomy.Asset, taxonomy.TypeTransfer, taxonomy.NatureLoanReceived, "0.80", "payable to asset: loan received"},
	{taxonomy.Receivable, taxonomy.Asset, taxonomy.TypeTransfer, taxonomy.NatureLoanRepaid, "0.80", "receivable to asset: loan repaid by counterparty"},
	{taxonomy.Asset, taxonomy.Payable, taxonomy.TypeTransfer, taxonomy.NatureLoanRepaid, "0.80", "asset to payable: own loan repaid"},
}

// Classify assigns a (type, nature) pair to a raw transaction. Priority:
// description patterns, then account-type heuristics, then a sign-based
// fallback at low confidence. Amount keeps the statement sign (negative
// = money out).
func Classify(description string, amount decimal.Decimal, fromAccountType, toAccountType string) ClassificationResult {
	for _, p := range naturePatterns {
		if p.re.MatchString(description) {
			return ClassificationResult{
				Type:       p.txnType,
				Nature:     p.nature,
				Confidence: decimal.RequireFromString(p.confidence),
				Reasoning:  "matched pattern " + p.re.String(),
			}
		}
	}

	if fromAccountType != "" && toAccountType != "" {
		from := taxonomy.AccountingTypeOf(fromAccountType)
		to := taxonomy.AccountingTypeOf(toAccountType)
		for _, h := range accountHeuristics {
			if h.from == from && h.to == to {
				return ClassificationResult{
					Type:       h.txnType,
					Nature:     h.nature,
					Confidence: decimal.RequireFromString(h.confidence),
					Reasoning:  h.reasoning,
				}
			}
		}
	}

	if amount.Sign() > 0 {
		return ClassificationResult{
			Type:       taxonomy.TypeIncome,
			Nature:     taxonomy.NatureOtherIncome,
			Confidence: decimal.RequireFromString("0.30"),
			Reasoning:  "fallback: positive amount",
		}
	}
	return ClassificationResult{
		Type:       taxonomy.TypeExpense,
		Nature:     taxonomy.NaturePurchase,
		Confidence: decimal.RequireFromString("0.30"),
		Reasoning:  "fallback: negative amount",
	}
}
