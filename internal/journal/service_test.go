package journal

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerly-dev/ledgerly/internal/accounts"
	"github.com/ledgerly-dev/ledgerly/internal/audit"
	"github.com/ledgerly-dev/ledgerly/internal/model"
	"github.com/ledgerly-dev/ledgerly/internal/taxonomy"
)

func testSetup(t *testing.T) (*Service, *accounts.Service, string) {
	t.Helper()
	dir := t.TempDir()
	accts := accounts.NewService([]model.Account{
		{ID: 1, Name: "Savings", Type: "savings", Currency: "INR", Active: true},
		{ID: 2, Name: "Current", Type: "current", Currency: "INR", Active: true},
		{ID: 3, Name: "Credit Card", Type: "credit_card", Currency: "INR", Active: true},
	})
	return NewService(dir, accts), accts, dir
}

func jan15() time.Time {
	return time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
}

func TestAdd_Income(t *testing.T) {
	s, accts, dir := testSetup(t)

	txnID, err := s.Add(AddParams{
		Date:        jan15(),
		Type:        taxonomy.TypeIncome,
		Nature:      taxonomy.NatureSalary,
		Amount:      decimal.NewFromInt(50000),
		Currency:    "INR",
		ToAccount:   1,
		Description: "January salary",
		Source:      model.SourceManual,
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-01-001", txnID)

	txns, err := s.ReadMonth(2026, 1)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, taxonomy.NatureSalary, txns[0].Nature)

	postings, err := s.ReadPostingsMonth(2026, 1)
	require.NoError(t, err)
	require.Len(t, postings, 2)
	assert.Equal(t, 1, postings[0].AccountID)
	assert.True(t, postings[0].Debit.Equal(decimal.NewFromInt(50000)))
	assert.Equal(t, model.ExternalAccount, postings[1].AccountID)

	a, _ := accts.Get(1)
	assert.True(t, a.Balance.Equal(decimal.NewFromInt(50000)))

	recs, err := audit.ForTransaction(dir, txnID)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, audit.ActionCreate, recs[0].Action)
}

func TestAdd_TransferAdjustsBothBalances(t *testing.T) {
	s, accts, _ := testSetup(t)

	_, err := s.Add(AddParams{
		Date:        jan15(),
		Type:        taxonomy.TypeTransfer,
		Nature:      taxonomy.NatureInternalTransfer,
		Amount:      decimal.NewFromInt(500),
		Currency:    "INR",
		FromAccount: 1,
		ToAccount:   2,
		Source:      model.SourceManual,
	})
	require.NoError(t, err)

	from, _ := accts.Get(1)
	to, _ := accts.Get(2)
	assert.True(t, from.Balance.Equal(decimal.NewFromInt(-500)))
	assert.True(t, to.Balance.Equal(decimal.NewFromInt(500)))
}

func TestAdd_CCBillReducesLiability(t *testing.T) {
	s, accts, _ := testSetup(t)

	_, err := s.Add(AddParams{
		Date:        jan15(),
		Type:        taxonomy.TypeTransfer,
		Nature:      taxonomy.NatureCCBillPayment,
		Amount:      decimal.NewFromInt(1200),
		Currency:    "INR",
		FromAccount: 1,
		ToAccount:   3,
		Source:      model.SourceManual,
	})
	require.NoError(t, err)

	cc, _ := accts.Get(3)
	// Liability balance drops when the bill is paid.
	assert.True(t, cc.Balance.Equal(decimal.NewFromInt(-1200)))
}

func TestAdd_ValidationRejected(t *testing.T) {
	s, _, _ := testSetup(t)

	_, err := s.Add(AddParams{
		Date:        jan15(),
		Type:        taxonomy.TypeTransfer,
		Nature:      taxonomy.NatureInternalTransfer,
		Amount:      decimal.NewFromInt(500),
		Currency:    "INR",
		FromAccount: 1,
		ToAccount:   1,
		Source:      model.SourceManual,
	})
	require.Error(t, err)

	var vErr *ValidationFailedError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []string{"transfer requires two distinct accounts"}, vErr.Errors)

	// Nothing was written.
	txns, err := s.ReadMonth(2026, 1)
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestAdd_UnknownAccount(t *testing.T) {
	s, _, _ := testSetup(t)

	_, err := s.Add(AddParams{
		Date:      jan15(),
		Type:      taxonomy.TypeIncome,
		Nature:    taxonomy.NatureSalary,
		Amount:    decimal.NewFromInt(100),
		Currency:  "INR",
		ToAccount: 99,
		Source:    model.SourceManual,
	})
	assert.ErrorContains(t, err, "unknown account 99")
}

func TestAdd_SequencePerMonth(t *testing.T) {
	s, _, _ := testSetup(t)

	add := func(date time.Time) string {
		id, err := s.Add(AddParams{
			Date:      date,
			Type:      taxonomy.TypeIncome,
			Nature:    taxonomy.NatureOtherIncome,
			Amount:    decimal.NewFromInt(10),
			Currency:  "INR",
			ToAccount: 1,
			Source:    model.SourceManual,
		})
		require.NoError(t, err)
		return id
	}

	assert.Equal(t, "2026-01-001", add(jan15()))
	assert.Equal(t, "2026-01-002", add(jan15()))
	assert.Equal(t, "2026-02-001", add(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))
}

func TestUpdate_FieldAudit(t *testing.T) {
	s, _, dir := testSetup(t)

	txnID, err := s.Add(AddParams{
		Date:        jan15(),
		Type:        taxonomy.TypeExpense,
		Nature:      taxonomy.NaturePurchase,
		Amount:      decimal.NewFromInt(300),
		Currency:    "INR",
		FromAccount: 1,
		Category:    "misc",
		Source:      model.SourceManual,
	})
	require.NoError(t, err)

	newCat := "groceries"
	require.NoError(t, s.Update(txnID, Changes{Category: &newCat}))

	txn, err := s.Get(txnID)
	require.NoError(t, err)
	assert.Equal(t, "groceries", txn.Category)

	recs, err := audit.ForTransaction(dir, txnID)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, audit.ActionUpdate, recs[1].Action)
	assert.Equal(t, "category", recs[1].Field)
	assert.Equal(t, "misc", recs[1].OldValue)
	assert.Equal(t, "groceries", recs[1].NewValue)
}

func TestUpdate_AmountRegeneratesPostings(t *testing.T) {
	s, accts, _ := testSetup(t)

	txnID, err := s.Add(AddParams{
		Date:        jan15(),
		Type:        taxonomy.TypeExpense,
		Nature:      taxonomy.NaturePurchase,
		Amount:      decimal.NewFromInt(300),
		Currency:    "INR",
		FromAccount: 1,
		Category:    "misc",
		Source:      model.SourceManual,
	})
	require.NoError(t, err)

	amt := decimal.NewFromInt(450)
	require.NoError(t, s.Update(txnID, Changes{Amount: &amt}))

	postings, err := s.ReadPostingsMonth(2026, 1)
	require.NoError(t, err)
	require.Len(t, postings, 2)
	for _, p := range postings {
		side := p.Debit
		if side.IsZero() {
			side = p.Credit
		}
		assert.True(t, side.Equal(decimal.NewFromInt(450)))
	}

	a, _ := accts.Get(1)
	assert.True(t, a.Balance.Equal(decimal.NewFromInt(-450)))
}

func TestUpdate_InvalidChangeRejected(t *testing.T) {
	s, _, _ := testSetup(t)

	txnID, err := s.Add(AddParams{
		Date:        jan15(),
		Type:        taxonomy.TypeExpense,
		Nature:      taxonomy.NaturePurchase,
		Amount:      decimal.NewFromInt(300),
		Currency:    "INR",
		FromAccount: 1,
		Category:    "misc",
		Source:      model.SourceManual,
	})
	require.NoError(t, err)

	bad := taxonomy.NatureSalary // income nature on an expense
	err = s.Update(txnID, Changes{Nature: &bad})
	var vErr *ValidationFailedError
	require.ErrorAs(t, err, &vErr)

	txn, err := s.Get(txnID)
	require.NoError(t, err)
	assert.Equal(t, taxonomy.NaturePurchase, txn.Nature)
}

func TestTrashRestoreWipe(t *testing.T) {
	s, accts, dir := testSetup(t)

	txnID, err := s.Add(AddParams{
		Date:        jan15(),
		Type:        taxonomy.TypeExpense,
		Nature:      taxonomy.NaturePurchase,
		Amount:      decimal.NewFromInt(300),
		Currency:    "INR",
		FromAccount: 1,
		Category:    "misc",
		Source:      model.SourceManual,
	})
	require.NoError(t, err)

	require.NoError(t, s.Trash(txnID, "duplicate"))

	txn, err := s.Get(txnID)
	require.NoError(t, err)
	assert.True(t, txn.Deleted)
	assert.Equal(t, "duplicate", txn.DeleteReason)

	postings, err := s.ReadPostingsMonth(2026, 1)
	require.NoError(t, err)
	assert.Empty(t, postings)

	a, _ := accts.Get(1)
	assert.True(t, a.Balance.IsZero())

	// Trashed transactions are excluded from range reads.
	got, err := s.ReadRange(jan15().AddDate(0, 0, -1), jan15().AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, got)

	// Double trash rejected; wipe requires trash first on another txn.
	assert.Error(t, s.Trash(txnID, "again"))

	require.NoError(t, s.Restore(txnID))
	txn, err = s.Get(txnID)
	require.NoError(t, err)
	assert.False(t, txn.Deleted)
	a, _ = accts.Get(1)
	assert.True(t, a.Balance.Equal(decimal.NewFromInt(-300)))

	// Wipe only after trash.
	assert.Error(t, s.Wipe(txnID))
	require.NoError(t, s.Trash(txnID, "really gone"))
	require.NoError(t, s.Wipe(txnID))

	_, err = s.Get(txnID)
	assert.Error(t, err)

	recs, err := audit.ForTransaction(dir, txnID)
	require.NoError(t, err)
	// create, trash, restore, trash, wipe
	require.Len(t, recs, 5)
	assert.Equal(t, audit.ActionWipe, recs[4].Action)
}

func TestReadRange_OrderedAcrossMonths(t *testing.T) {
	s, _, _ := testSetup(t)

	for _, d := range []time.Time{
		time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC),
	} {
		_, err := s.Add(AddParams{
			Date:      d,
			Type:      taxonomy.TypeIncome,
			Nature:    taxonomy.NatureOtherIncome,
			Amount:    decimal.NewFromInt(10),
			Currency:  "INR",
			ToAccount: 1,
			Source:    model.SourceManual,
		})
		require.NoError(t, err)
	}

	got, err := s.ReadRange(
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, got[0].Date.Before(got[1].Date))
	assert.True(t, got[1].Date.Before(got[2].Date))
}

func TestCSVRoundtrip(t *testing.T) {
	txn := model.Transaction{
		ID:           "2026-01-007",
		Date:         jan15(),
		Type:         taxonomy.TypeTransfer,
		Nature:       taxonomy.NatureLoanGiven,
		Amount:       decimal.NewFromInt(2000),
		Currency:     "INR",
		FromAccount:  1,
		ToAccount:    4,
		Counterparty: "Ravi",
		Description:  "loan, short term",
		Source:       model.SourceManual,
		Confidence:   decimal.NewFromFloat(0.85),
	}

	got, err := UnmarshalTransaction(MarshalTransaction(txn))
	require.NoError(t, err)
	assert.Equal(t, txn.ID, got.ID)
	assert.Equal(t, txn.Counterparty, got.Counterparty)
	assert.Equal(t, txn.Description, got.Description)
	assert.True(t, got.Amount.Equal(txn.Amount))
	assert.True(t, got.Confidence.Equal(txn.Confidence))
}

func TestUnmarshalTransaction_BadRows(t *testing.T) {
	_, err := UnmarshalTransaction([]string{"short"})
	assert.Error(t, err)

	row := MarshalTransaction(model.Transaction{
		ID: "2026-01-001", Date: jan15(), Type: taxonomy.TypeIncome,
		Nature: taxonomy.NatureSalary, Amount: decimal.NewFromInt(1),
		Currency: "INR", ToAccount: 1, Source: model.SourceManual,
	})
	row[colAmount] = "not-a-number"
	_, err = UnmarshalTransaction(row)
	assert.Error(t, err)
}
