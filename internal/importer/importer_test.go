package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerly-dev/ledgerly/internal/accounts"
	"github.com/ledgerly-dev/ledgerly/internal/journal"
	"github.com/ledgerly-dev/ledgerly/internal/model"
	"github.com/ledgerly-dev/ledgerly/internal/taxonomy"
)

const hdfcSample = `Date,Narration,Chq/Ref Number,Withdrawal Amt,Deposit Amt,Closing Balance
15/01/26,SALARY JAN ACME CORP,NEFT0001,,50000.00,61234.50
18/01/26,NETFLIX SUBSCRIPTION,UPI0042,649.00,,60585.50
`

func TestHDFCParser(t *testing.T) {
	txns, err := (&HDFCParser{}).Parse(strings.NewReader(hdfcSample))
	require.NoError(t, err)
	require.Len(t, txns, 2)

	assert.Equal(t, "SALARY JAN ACME CORP", txns[0].Description)
	assert.True(t, txns[0].Amount.Equal(decimal.NewFromInt(50000)))
	assert.Equal(t, "CREDIT", txns[0].Type)
	assert.Equal(t, 2026, txns[0].Date.Year())

	assert.True(t, txns[1].Amount.Equal(decimal.NewFromFloat(-649)))
	assert.Equal(t, "DEBIT", txns[1].Type)
}

func TestHDFCParser_BadRows(t *testing.T) {
	both := "Date,Narration,Ref,Withdrawal,Deposit,Balance\n15/01/26,X,R,10.00,20.00,0\n"
	_, err := (&HDFCParser{}).Parse(strings.NewReader(both))
	assert.Error(t, err)

	neither := "Date,Narration,Ref,Withdrawal,Deposit,Balance\n15/01/26,X,R,,,0\n"
	_, err = (&HDFCParser{}).Parse(strings.NewReader(neither))
	assert.Error(t, err)
}

func TestGenericParser(t *testing.T) {
	sample := "date,description,amount,reference\n2026-01-15,Coffee,-4.50,ref1\n2026-01-16,Refund,12.00,ref2\n"
	txns, err := (&GenericParser{}).Parse(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.True(t, txns[0].Amount.Equal(decimal.NewFromFloat(-4.5)))
	assert.Equal(t, "ref2", txns[1].Reference)
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.NotNil(t, r.Get("hdfc"))
	assert.NotNil(t, r.Get("HDFC"))
	assert.NotNil(t, r.Get("generic"))
	assert.Nil(t, r.Get("unknown"))

	assert.Panics(t, func() { r.Register(&HDFCParser{}) })
}

func TestScanAndMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(importDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "hdfc_jan.csv"), []byte(hdfcSample), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "notes.txt"), []byte("skip"), 0o644))

	files, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "hdfc_jan.csv", files[0].Name)

	require.NoError(t, MarkProcessed(dir, "hdfc_jan.csv"))

	files, err = Scan(dir)
	require.NoError(t, err)
	assert.Empty(t, files)

	_, err = os.Stat(filepath.Join(importDir, "processed", "hdfc_jan.csv"))
	assert.NoError(t, err)
}

func TestScan_NoImportDir(t *testing.T) {
	files, err := Scan(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestDetectFromFilename(t *testing.T) {
	d := DetectFromFilename("HDFC_savings_account_jan2026.csv")
	assert.Equal(t, "HDFC", d.BankCode)
	assert.Equal(t, "savings", d.AccountType)
	assert.Equal(t, 0.7, d.Confidence)
	assert.Equal(t, "filename", d.Source)

	d = DetectFromFilename("random_export.csv")
	assert.Empty(t, d.BankCode)
}

func TestDetectFromFilename_CreditCard(t *testing.T) {
	d := DetectFromFilename("axis_credit_card_feb.csv")
	assert.Equal(t, "AXIS", d.BankCode)
	assert.Equal(t, "credit_card", d.AccountType)
}

func TestDetectFromHeaders(t *testing.T) {
	d := DetectFromHeaders([]string{"Date", "Chase Description", "Amount"})
	assert.Equal(t, "CHASE", d.BankCode)
	assert.Equal(t, 0.5, d.Confidence)
}

func TestDetectFromText(t *testing.T) {
	text := "HDFC BANK LTD\nAccount Statement for Savings Account\nHDFC NetBanking transactions follow"
	d := DetectFromText(text)
	assert.Equal(t, "HDFC", d.BankCode)
	assert.Equal(t, "savings", d.AccountType)
	assert.GreaterOrEqual(t, d.Confidence, 0.7)
}

func TestDetectFromText_SavingsFallback(t *testing.T) {
	d := DetectFromText("QNB ACCOUNT SUMMARY for the period")
	assert.Equal(t, "QNB", d.BankCode)
	assert.Equal(t, "savings", d.AccountType)
}

func TestDetectFromTransactions_NeedsTwoHits(t *testing.T) {
	one := []model.BankTransaction{{Description: "PAYTM order"}}
	assert.Empty(t, DetectFromTransactions(one).BankCode)

	two := []model.BankTransaction{{Description: "PAYTM order"}, {Description: "PAYTM recharge"}}
	d := DetectFromTransactions(two)
	assert.Equal(t, "PAYTM", d.BankCode)
	assert.Equal(t, "transactions", d.Source)
}

func TestDetect_MergesBestCandidates(t *testing.T) {
	d := Detect("statement.csv", []string{"icici", "date"}, "ICICI BANK Savings Account Statement", nil)
	assert.Equal(t, "ICICI", d.BankCode)
	assert.Equal(t, "savings", d.AccountType)
	// Content beats headers.
	assert.Equal(t, "content", d.Source)
}

func testDate() time.Time {
	return time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)
}

func testProcessor(t *testing.T, autoConfirm string) (*Processor, *journal.Service) {
	t.Helper()
	accts := accounts.NewService([]model.Account{
		{ID: 1, Name: "Savings", Type: "savings", Currency: "INR", Active: true},
	})
	j := journal.NewService(t.TempDir(), accts)
	return NewProcessor(j, nil, decimal.RequireFromString(autoConfirm)), j
}

func TestProcessor_AddsConfidentRows(t *testing.T) {
	p, j := testProcessor(t, "0.6")

	txns, err := (&HDFCParser{}).Parse(strings.NewReader(hdfcSample))
	require.NoError(t, err)

	summary := p.Process(txns, 1, "INR")
	assert.Equal(t, 2, summary.Added)
	assert.Equal(t, 0, summary.Review)
	assert.Equal(t, 0, summary.Failed)

	recorded, err := j.ReadMonth(2026, 1)
	require.NoError(t, err)
	require.Len(t, recorded, 2)
	assert.Equal(t, taxonomy.NatureSalary, recorded[0].Nature)
	assert.Equal(t, model.SourceImport, recorded[0].Source)
	assert.Equal(t, taxonomy.NatureSubscription, recorded[1].Nature)
	assert.Equal(t, "subscriptions", recorded[1].Category)
}

func TestProcessor_LowConfidenceHeldForReview(t *testing.T) {
	p, j := testProcessor(t, "0.6")

	// No pattern matches: sign fallback at 0.30, below threshold.
	txns := []model.BankTransaction{{
		Date:        testDate(),
		Description: "POS 1234 MERCHANT",
		Amount:      decimal.NewFromInt(-250),
	}}
	summary := p.Process(txns, 1, "INR")
	assert.Equal(t, 0, summary.Added)
	assert.Equal(t, 1, summary.Review)
	assert.True(t, summary.Results[0].NeedsReview)

	recorded, err := j.ReadMonth(2026, 1)
	require.NoError(t, err)
	assert.Empty(t, recorded)
}

func TestProcessor_TransfersAlwaysHeld(t *testing.T) {
	p, _ := testProcessor(t, "0.1")

	txns := []model.BankTransaction{{
		Date:        testDate(),
		Description: "CC BILL PAYMENT HDFC CARD",
		Amount:      decimal.NewFromInt(-5000),
	}}
	summary := p.Process(txns, 1, "INR")
	assert.Equal(t, 1, summary.Review)
	assert.Equal(t, taxonomy.TypeTransfer, summary.Results[0].Classification.Type)
}
