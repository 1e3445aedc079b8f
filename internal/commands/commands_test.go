package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func initLedger(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	out, err := runCLI(t, "--dir", dir, "init", "--name", "Asha", "--currency", "INR")
	require.NoError(t, err, out)
	return dir
}

func TestInit(t *testing.T) {
	dir := initLedger(t)

	_, err := os.Stat(filepath.Join(dir, "ledgerly.yaml"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "accounts", "accounts.csv"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err)

	// Re-init refuses.
	_, err = runCLI(t, "--dir", dir, "init", "--name", "Asha")
	assert.Error(t, err)
}

func TestAccountAddAndList(t *testing.T) {
	dir := initLedger(t)

	out, err := runCLI(t, "--dir", dir, "account", "add", "Ravi (loan)",
		"--type", "receivable", "--counterparty", "Ravi")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Added account 6")
	assert.Contains(t, out, "receivable")

	out, err = runCLI(t, "--dir", dir, "account", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Savings")
	assert.Contains(t, out, "Ravi (loan)")
}

func TestAccountDeactivate(t *testing.T) {
	dir := initLedger(t)

	out, err := runCLI(t, "--dir", dir, "account", "deactivate", "5")
	require.NoError(t, err, out)

	out, err = runCLI(t, "--dir", dir, "account", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "Wallet")

	out, err = runCLI(t, "--dir", dir, "account", "list", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "Wallet")
}

func TestTxAddListRm(t *testing.T) {
	dir := initLedger(t)

	out, err := runCLI(t, "--dir", dir, "tx", "add",
		"--date", "2026-01-15", "--type", "income", "--nature", "salary",
		"--amount", "50000", "--to", "1", "--description", "January salary")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Recorded 2026-01-001")

	out, err = runCLI(t, "--dir", dir, "tx", "list", "--month", "2026-01")
	require.NoError(t, err)
	assert.Contains(t, out, "2026-01-001")
	assert.Contains(t, out, "January salary")

	out, err = runCLI(t, "--dir", dir, "tx", "rm", "2026-01-001", "--reason", "entered twice")
	require.NoError(t, err, out)

	out, err = runCLI(t, "--dir", dir, "tx", "list", "--month", "2026-01")
	require.NoError(t, err)
	assert.NotContains(t, out, "2026-01-001")

	out, err = runCLI(t, "--dir", dir, "tx", "list", "--month", "2026-01", "--trash")
	require.NoError(t, err)
	assert.Contains(t, out, "2026-01-001")

	out, err = runCLI(t, "--dir", dir, "tx", "restore", "2026-01-001")
	require.NoError(t, err, out)
}

func TestTxAdd_InvalidRejected(t *testing.T) {
	dir := initLedger(t)

	out, err := runCLI(t, "--dir", dir, "tx", "add",
		"--type", "transfer", "--nature", "internal_transfer",
		"--amount", "500", "--from", "1", "--to", "1")
	require.Error(t, err)
	assert.Contains(t, out, "transfer requires two distinct accounts")
}

func TestTxEdit(t *testing.T) {
	dir := initLedger(t)

	_, err := runCLI(t, "--dir", dir, "tx", "add",
		"--date", "2026-01-15", "--type", "expense", "--nature", "purchase",
		"--amount", "300", "--from", "1", "--category", "misc")
	require.NoError(t, err)

	out, err := runCLI(t, "--dir", dir, "tx", "edit", "2026-01-001", "--category", "groceries")
	require.NoError(t, err, out)

	out, err = runCLI(t, "--dir", dir, "tx", "list", "--month", "2026-01")
	require.NoError(t, err)
	assert.Contains(t, out, "2026-01-001")
}

func TestTxHints(t *testing.T) {
	out, err := runCLI(t, "tx", "hints", "--type", "expense", "--nature", "gift_given")
	require.NoError(t, err)
	assert.Contains(t, out, "show category field:    true")
	assert.Contains(t, out, "counterparty required:  true")
	assert.Contains(t, out, "both accounts required: false")
	assert.Contains(t, out, "affects net worth:      true")

	_, err = runCLI(t, "tx", "hints", "--type", "income", "--nature", "purchase")
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	dir := initLedger(t)

	_, err := runCLI(t, "--dir", dir, "tx", "add",
		"--date", "2026-01-15", "--type", "income", "--nature", "salary",
		"--amount", "50000", "--to", "1")
	require.NoError(t, err)

	out, err := runCLI(t, "--dir", dir, "check")
	require.NoError(t, err, out)
	assert.Contains(t, out, "ok: ledger is consistent")
}

func TestReportSummary(t *testing.T) {
	dir := initLedger(t)

	_, err := runCLI(t, "--dir", dir, "tx", "add",
		"--date", "2026-01-15", "--type", "income", "--nature", "salary",
		"--amount", "50000", "--to", "1")
	require.NoError(t, err)
	_, err = runCLI(t, "--dir", dir, "tx", "add",
		"--date", "2026-01-20", "--type", "expense", "--nature", "purchase",
		"--amount", "8000", "--from", "1", "--category", "groceries")
	require.NoError(t, err)

	out, err := runCLI(t, "--dir", dir, "report", "summary",
		"--from", "2026-01-01", "--to", "2026-12-31")
	require.NoError(t, err, out)
	assert.Contains(t, out, "groceries")
	assert.Contains(t, out, "salary")

	out, err = runCLI(t, "--dir", dir, "report", "balance")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Net worth")
}

func TestImportRun(t *testing.T) {
	dir := initLedger(t)

	statement := "date,description,amount,reference\n2026-01-15,ACME PAYROLL SALARY,50000.00,r1\n2026-01-18,NETFLIX SUBSCRIPTION,-649.00,r2\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "import", "generic_jan.csv"), []byte(statement), 0o644))

	out, err := runCLI(t, "--dir", dir, "import", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "generic_jan.csv")

	out, err = runCLI(t, "--dir", dir, "import", "run", "generic_jan.csv",
		"--format", "generic", "--account", "1")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Imported 2")

	_, err = os.Stat(filepath.Join(dir, "import", "processed", "generic_jan.csv"))
	assert.NoError(t, err)

	out, err = runCLI(t, "--dir", dir, "tx", "list", "--month", "2026-01")
	require.NoError(t, err)
	assert.Contains(t, out, "ACME PAYROLL SALARY")
}

func TestImportRun_AutoCreatesAccount(t *testing.T) {
	dir := initLedger(t)

	statement := "Date,Narration,Chq/Ref Number,Withdrawal Amt,Deposit Amt,Closing Balance\n15/01/26,ACME PAYROLL SALARY,NEFT01,,50000.00,50000.00\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "import", "hdfc_savings_account_jan.csv"), []byte(statement), 0o644))

	out, err := runCLI(t, "--dir", dir, "import", "run", "hdfc_savings_account_jan.csv", "--format", "hdfc")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Detected HDFC Bank")
	assert.Contains(t, out, "Created account 6: HDFC Bank (savings)")
	assert.Contains(t, out, "Imported 1")

	out, err = runCLI(t, "--dir", dir, "account", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "HDFC Bank")
}
