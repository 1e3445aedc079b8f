// Package ledger turns validated transactions into balanced debit/credit
// postings.
//
// Accounting conventions:
//
//	Assets      increase via Debit,  decrease via Credit
//	Liabilities increase via Credit, decrease via Debit
//	Receivables increase via Debit,  decrease via Credit
//	Payables    increase via Credit, decrease via Debit
//
// Income and expense post their offsetting leg against the virtual
// external account (model.ExternalAccount), so every transaction is
// self-balancing: total debits always equal total credits.
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ledgerly-dev/ledgerly/internal/id"
	"github.com/ledgerly-dev/ledgerly/internal/model"
	"github.com/ledgerly-dev/ledgerly/internal/taxonomy"
)

// Generate produces the posting pair for a transaction. fromType and
// toType are the account_type strings of the referenced accounts; empty
// means unknown and defaults to asset, matching the classifier.
func Generate(txn model.Transaction, fromType, toType string) ([]model.Posting, error) {
	var postings []model.Posting

	switch txn.Type {
	case taxonomy.TypeIncome:
		postings = incomePostings(txn)
	case taxonomy.TypeExpense:
		postings = expensePostings(txn)
	case taxonomy.TypeTransfer:
		postings = transferPostings(txn, fromType, toType)
	default:
		return nil, fmt.Errorf("unknown transaction type %q", txn.Type)
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, p := range postings {
		totalDebit = totalDebit.Add(p.Debit)
		totalCredit = totalCredit.Add(p.Credit)
	}
	if !totalDebit.Equal(totalCredit) {
		return nil, fmt.Errorf("unbalanced postings for %s: debit=%s credit=%s",
			txn.ID, totalDebit.StringFixed(2), totalCredit.StringFixed(2))
	}

	return postings, nil
}

// incomePostings: debit the receiving asset account, credit the virtual
// external account.
func incomePostings(txn model.Transaction) []model.Posting {
	return []model.Posting{
		debit(txn, 0, txn.ToAccount),
		credit(txn, 1, model.ExternalAccount),
	}
}

// expensePostings: debit the virtual external account, credit the paying
// account.
func expensePostings(txn model.Transaction) []model.Posting {
	return []model.Posting{
		debit(txn, 0, model.ExternalAccount),
		credit(txn, 1, txn.FromAccount),
	}
}

func transferPostings(txn model.Transaction, fromType, toType string) []model.Posting {
	fromAcct := taxonomy.AccountingTypeOf(fromType)
	toAcct := taxonomy.AccountingTypeOf(toType)

	fromIncreases, toIncreases := transferImpacts(txn.Nature, fromAcct)

	fromPosting := impactPosting(txn, 0, txn.FromAccount, fromAcct, fromIncreases)
	toPosting := impactPosting(txn, 1, txn.ToAccount, toAcct, toIncreases)
	return []model.Posting{fromPosting, toPosting}
}

// transferImpacts reports whether each side of a transfer INCREASES its
// account, per nature. Paying a liability or repaying a loan decreases
// the destination; receiving a loan increases the source (new debt).
func transferImpacts(nature taxonomy.TransactionNature, fromAcct taxonomy.AccountingType) (fromIncreases, toIncreases bool) {
	switch nature {
	case taxonomy.NatureInternalTransfer:
		return false, true // asset out, asset in
	case taxonomy.NatureCCBillPayment:
		return false, false // asset out, liability paid down
	case taxonomy.NatureLoanGiven:
		return false, true // asset out, receivable up
	case taxonomy.NatureLoanReceived:
		return true, true // payable up (new debt), asset up
	case taxonomy.NatureLoanRepaid:
		if fromAcct == taxonomy.Receivable {
			return false, true // counterparty repays: receivable down, asset up
		}
		return false, false // own repayment: asset down, payable down
	case taxonomy.NatureReimbursementReceived:
		return false, true
	case taxonomy.NatureAdjustment:
		return false, true
	default:
		return false, true
	}
}

// impactPosting builds the debit or credit that increases or decreases
// an account of the given accounting type.
func impactPosting(txn model.Transaction, leg, accountID int, acct taxonomy.AccountingType, increases bool) model.Posting {
	debitSide := acct == taxonomy.Asset || acct == taxonomy.Receivable
	if !increases {
		debitSide = !debitSide
	}
	if debitSide {
		return debit(txn, leg, accountID)
	}
	return credit(txn, leg, accountID)
}

func debit(txn model.Transaction, leg, accountID int) model.Posting {
	return model.Posting{
		ID:            id.FormatLegID(txn.ID, leg),
		TransactionID: txn.ID,
		Date:          txn.Date,
		AccountID:     accountID,
		Debit:         txn.Amount,
		Description:   txn.Description,
	}
}

func credit(txn model.Transaction, leg, accountID int) model.Posting {
	return model.Posting{
		ID:            id.FormatLegID(txn.ID, leg),
		TransactionID: txn.ID,
		Date:          txn.Date,
		AccountID:     accountID,
		Credit:        txn.Amount,
		Description:   txn.Description,
	}
}

// Balance computes an account's balance from its postings: debit−credit
// for asset/receivable accounts, credit−debit for liability/payable.
func Balance(postings []model.Posting, accountID int, acct taxonomy.AccountingType) decimal.Decimal {
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, p := range postings {
		if p.AccountID != accountID {
			continue
		}
		totalDebit = totalDebit.Add(p.Debit)
		totalCredit = totalCredit.Add(p.Credit)
	}
	if acct == taxonomy.Asset || acct == taxonomy.Receivable {
		return totalDebit.Sub(totalCredit)
	}
	return totalCredit.Sub(totalDebit)
}

// NetWorthDelta is the change in total owned net worth a transaction
// produces: +amount for income, −amount for expense, zero for transfers
// whose nature is net-worth-neutral.
func NetWorthDelta(txn model.Transaction) decimal.Decimal {
	switch txn.Type {
	case taxonomy.TypeIncome:
		return txn.Amount
	case taxonomy.TypeExpense:
		return txn.Amount.Neg()
	default:
		if taxonomy.IsNetWorthNeutral(txn.Nature) {
			return decimal.Zero
		}
		return txn.Amount.Neg()
	}
}
