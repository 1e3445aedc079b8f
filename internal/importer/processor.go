package importer

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerly-dev/ledgerly/internal/classify"
	"github.com/ledgerly-dev/ledgerly/internal/journal"
	"github.com/ledgerly-dev/ledgerly/internal/model"
	"github.com/ledgerly-dev/ledgerly/internal/taxonomy"
)

// ClassifyFunc assigns a (type, nature) pair to a statement row. The
// amount keeps the statement sign.
type ClassifyFunc func(description string, amount decimal.Decimal) classify.ClassificationResult

// Processor turns parsed statement rows into journal transactions. Rows
// below the auto-confirm threshold are held for review instead of being
// recorded.
type Processor struct {
	journal     *journal.Service
	classifyRow ClassifyFunc
	autoConfirm decimal.Decimal
}

// NewProcessor builds a Processor. classifyRow may be nil, in which case
// the rule-based classifier is used.
func NewProcessor(j *journal.Service, classifyRow ClassifyFunc, autoConfirm decimal.Decimal) *Processor {
	if classifyRow == nil {
		classifyRow = func(description string, amount decimal.Decimal) classify.ClassificationResult {
			return classify.Classify(description, amount, "", "")
		}
	}
	return &Processor{journal: j, classifyRow: classifyRow, autoConfirm: autoConfirm}
}

// RowResult reports what happened to one statement row.
type RowResult struct {
	Line           int
	Description    string
	TransactionID  string
	Classification classify.ClassificationResult
	NeedsReview    bool
	Err            error
}

// Summary aggregates a statement run.
type Summary struct {
	Added   int
	Review  int
	Failed  int
	Results []RowResult
}

// Process classifies each row and records the confident ones against
// accountID. Transfer classifications need a counter account the
// statement cannot name, so they are always held for review.
func (p *Processor) Process(txns []model.BankTransaction, accountID int, currency string) Summary {
	var summary Summary

	for i, bt := range txns {
		result := RowResult{Line: i + 1, Description: bt.Description}
		result.Classification = p.classifyRow(bt.Description, bt.Amount)

		switch {
		case result.Classification.Type == taxonomy.TypeTransfer:
			result.NeedsReview = true
		case result.Classification.Confidence.LessThan(p.autoConfirm):
			result.NeedsReview = true
		}

		if result.NeedsReview {
			summary.Review++
			summary.Results = append(summary.Results, result)
			continue
		}

		params := journal.AddParams{
			Date:        bt.Date,
			Type:        result.Classification.Type,
			Nature:      result.Classification.Nature,
			Amount:      bt.Amount.Abs(),
			Currency:    currency,
			Description: bt.Description,
			Source:      model.SourceImport,
			Confidence:  result.Classification.Confidence,
		}
		switch result.Classification.Type {
		case taxonomy.TypeIncome:
			params.ToAccount = accountID
		case taxonomy.TypeExpense:
			params.FromAccount = accountID
			params.Category = defaultCategory(result.Classification.Nature)
		}

		txnID, err := p.journal.Add(params)
		if err != nil {
			result.Err = err
			summary.Failed++
		} else {
			result.TransactionID = txnID
			summary.Added++
		}
		summary.Results = append(summary.Results, result)
	}

	return summary
}

// defaultCategory gives imported expenses a category until the user
// refines it.
func defaultCategory(nature taxonomy.TransactionNature) string {
	switch nature {
	case taxonomy.NatureSubscription:
		return "subscriptions"
	case taxonomy.NatureBillPayment:
		return "bills"
	default:
		return "uncategorized"
	}
}
