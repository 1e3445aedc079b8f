package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerly-dev/ledgerly/internal/model"
	"github.com/ledgerly-dev/ledgerly/internal/taxonomy"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func txn(typ taxonomy.TransactionType, nature taxonomy.TransactionNature, amount string, from, to int) model.Transaction {
	return model.Transaction{
		ID:          "2026-01-001",
		Date:        time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Type:        typ,
		Nature:      nature,
		Amount:      dec(amount),
		Currency:    "INR",
		FromAccount: from,
		ToAccount:   to,
		Description: "test",
	}
}

func assertBalanced(t *testing.T, postings []model.Posting) {
	t.Helper()
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, p := range postings {
		totalDebit = totalDebit.Add(p.Debit)
		totalCredit = totalCredit.Add(p.Credit)
		// Exactly one side per posting.
		assert.NotEqual(t, p.Debit.IsZero(), p.Credit.IsZero(), "posting %s", p.ID)
	}
	assert.True(t, totalDebit.Equal(totalCredit), "debit=%s credit=%s", totalDebit, totalCredit)
}

func TestGenerate_Income(t *testing.T) {
	postings, err := Generate(txn(taxonomy.TypeIncome, taxonomy.NatureSalary, "50000", 0, 1), "", "savings")
	require.NoError(t, err)
	require.Len(t, postings, 2)
	assertBalanced(t, postings)

	// Asset account is debited, virtual external account credited.
	assert.Equal(t, 1, postings[0].AccountID)
	assert.True(t, postings[0].Debit.Equal(dec("50000")))
	assert.Equal(t, model.ExternalAccount, postings[1].AccountID)
	assert.True(t, postings[1].Credit.Equal(dec("50000")))
}

func TestGenerate_Expense(t *testing.T) {
	postings, err := Generate(txn(taxonomy.TypeExpense, taxonomy.NaturePurchase, "750", 1, 0), "savings", "")
	require.NoError(t, err)
	require.Len(t, postings, 2)
	assertBalanced(t, postings)

	assert.Equal(t, model.ExternalAccount, postings[0].AccountID)
	assert.True(t, postings[0].Debit.Equal(dec("750")))
	assert.Equal(t, 1, postings[1].AccountID)
	assert.True(t, postings[1].Credit.Equal(dec("750")))
}

func TestGenerate_InternalTransfer(t *testing.T) {
	postings, err := Generate(txn(taxonomy.TypeTransfer, taxonomy.NatureInternalTransfer, "500", 1, 2), "savings", "current")
	require.NoError(t, err)
	assertBalanced(t, postings)

	// Source asset credited (decrease), destination asset debited.
	assert.True(t, postings[0].Credit.Equal(dec("500")))
	assert.Equal(t, 1, postings[0].AccountID)
	assert.True(t, postings[1].Debit.Equal(dec("500")))
	assert.Equal(t, 2, postings[1].AccountID)
}

func TestGenerate_CCBillPayment(t *testing.T) {
	postings, err := Generate(txn(taxonomy.TypeTransfer, taxonomy.NatureCCBillPayment, "12000", 1, 3), "savings", "credit_card")
	require.NoError(t, err)
	assertBalanced(t, postings)

	// Asset decreases via credit; liability decreases via debit.
	assert.True(t, postings[0].Credit.Equal(dec("12000")))
	assert.True(t, postings[1].Debit.Equal(dec("12000")))
}

func TestGenerate_LoanGiven(t *testing.T) {
	postings, err := Generate(txn(taxonomy.TypeTransfer, taxonomy.NatureLoanGiven, "5000", 1, 4), "savings", "receivable")
	require.NoError(t, err)
	assertBalanced(t, postings)

	// Cash credited, receivable debited: net worth unchanged.
	assert.True(t, postings[0].Credit.Equal(dec("5000")))
	assert.True(t, postings[1].Debit.Equal(dec("5000")))
}

func TestGenerate_LoanReceived(t *testing.T) {
	postings, err := Generate(txn(taxonomy.TypeTransfer, taxonomy.NatureLoanReceived, "8000", 5, 1), "payable", "savings")
	require.NoError(t, err)
	assertBalanced(t, postings)

	// Payable increases via credit, asset increases via debit.
	assert.True(t, postings[0].Credit.Equal(dec("8000")))
	assert.True(t, postings[1].Debit.Equal(dec("8000")))
}

func TestGenerate_LoanRepaid_BothDirections(t *testing.T) {
	// Counterparty repays me: receivable down (credit), asset up (debit).
	postings, err := Generate(txn(taxonomy.TypeTransfer, taxonomy.NatureLoanRepaid, "5000", 4, 1), "receivable", "savings")
	require.NoError(t, err)
	assertBalanced(t, postings)
	assert.True(t, postings[0].Credit.Equal(dec("5000")))
	assert.True(t, postings[1].Debit.Equal(dec("5000")))

	// I repay my debt: asset down (credit), payable down (debit).
	postings, err = Generate(txn(taxonomy.TypeTransfer, taxonomy.NatureLoanRepaid, "5000", 1, 5), "savings", "payable")
	require.NoError(t, err)
	assertBalanced(t, postings)
	assert.True(t, postings[0].Credit.Equal(dec("5000")))
	assert.True(t, postings[1].Debit.Equal(dec("5000")))
}

func TestGenerate_EveryTransferNatureBalances(t *testing.T) {
	// Account types per nature as the validator would have enforced them.
	accountTypes := map[taxonomy.TransactionNature][2]string{
		taxonomy.NatureInternalTransfer:      {"savings", "current"},
		taxonomy.NatureCCBillPayment:         {"savings", "credit_card"},
		taxonomy.NatureReimbursementReceived: {"savings", "current"},
		taxonomy.NatureLoanGiven:             {"savings", "receivable"},
		taxonomy.NatureLoanReceived:          {"payable", "savings"},
		taxonomy.NatureLoanRepaid:            {"receivable", "savings"},
		taxonomy.NatureAdjustment:            {"savings", "current"},
	}
	for _, n := range taxonomy.NaturesFor(taxonomy.TypeTransfer) {
		types, ok := accountTypes[n]
		require.True(t, ok, "no account types for nature %s", n)
		postings, err := Generate(txn(taxonomy.TypeTransfer, n, "100", 1, 2), types[0], types[1])
		require.NoError(t, err, "nature=%s", n)
		assertBalanced(t, postings)
	}
}

func TestGenerate_ImbalanceRejected(t *testing.T) {
	// loan_received from an asset account would increase both sides via
	// debit; the generator refuses to emit the unbalanced pair.
	_, err := Generate(txn(taxonomy.TypeTransfer, taxonomy.NatureLoanReceived, "100", 1, 2), "savings", "current")
	assert.Error(t, err)
}

func TestGenerate_PostingIDs(t *testing.T) {
	postings, err := Generate(txn(taxonomy.TypeIncome, taxonomy.NatureSalary, "100", 0, 1), "", "savings")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-001a", postings[0].ID)
	assert.Equal(t, "2026-01-001b", postings[1].ID)
	assert.Equal(t, "2026-01-001", postings[0].TransactionID)
}

func TestBalance_SignPerAccountingType(t *testing.T) {
	in := txn(taxonomy.TypeTransfer, taxonomy.NatureCCBillPayment, "12000", 1, 3)
	postings, err := Generate(in, "savings", "credit_card")
	require.NoError(t, err)

	// Asset lost 12000.
	assert.True(t, Balance(postings, 1, taxonomy.Asset).Equal(dec("-12000")))
	// Liability shrank by 12000 (credit-normal account, debited).
	assert.True(t, Balance(postings, 3, taxonomy.Liability).Equal(dec("-12000")))
}

func TestNetWorthDelta(t *testing.T) {
	assert.True(t, NetWorthDelta(txn(taxonomy.TypeIncome, taxonomy.NatureSalary, "100", 0, 1)).Equal(dec("100")))
	assert.True(t, NetWorthDelta(txn(taxonomy.TypeExpense, taxonomy.NaturePurchase, "100", 1, 0)).Equal(dec("-100")))
	for _, n := range taxonomy.NaturesFor(taxonomy.TypeTransfer) {
		assert.True(t, NetWorthDelta(txn(taxonomy.TypeTransfer, n, "100", 1, 2)).IsZero(), "nature=%s", n)
	}
}
