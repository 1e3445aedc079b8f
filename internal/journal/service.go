// Package journal stores transactions and their postings in monthly CSV
// files under the data directory: <YYYY>/<MM>/transactions.csv and
// <YYYY>/<MM>/postings.csv. The surrounding commands are responsible for
// saving the account registry and committing the data directory.
package journal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerly-dev/ledgerly/internal/audit"
	"github.com/ledgerly-dev/ledgerly/internal/classify"
	"github.com/ledgerly-dev/ledgerly/internal/id"
	"github.com/ledgerly-dev/ledgerly/internal/ledger"
	"github.com/ledgerly-dev/ledgerly/internal/model"
	"github.com/ledgerly-dev/ledgerly/internal/taxonomy"
)

// Accounts is the slice of the account registry the journal needs.
type Accounts interface {
	Exists(id int) bool
	TypeOf(id int) string
	ApplyDelta(id int, delta decimal.Decimal) error
}

// Service provides business logic for the transaction journal.
type Service struct {
	dataDir  string
	accounts Accounts
}

// NewService creates a journal Service.
func NewService(dataDir string, accounts Accounts) *Service {
	return &Service{dataDir: dataDir, accounts: accounts}
}

// AddParams holds the fields for a new transaction.
type AddParams struct {
	Date         time.Time
	Type         taxonomy.TransactionType
	Nature       taxonomy.TransactionNature
	Amount       decimal.Decimal
	Currency     string
	FromAccount  int
	ToAccount    int
	Category     string
	Counterparty string
	Description  string
	Source       model.Source
	Confidence   decimal.Decimal
}

// ValidationFailedError carries the collected rule violations for a
// rejected transaction.
type ValidationFailedError struct {
	Errors []string
}

func (e *ValidationFailedError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

// Add validates a transaction, generates its postings, persists both,
// applies balance deltas, and appends the audit record. Returns the new
// transaction ID.
func (s *Service) Add(params AddParams) (string, error) {
	for _, acctID := range []int{params.FromAccount, params.ToAccount} {
		if acctID != 0 && !s.accounts.Exists(acctID) {
			return "", fmt.Errorf("unknown account %d", acctID)
		}
	}

	res := classify.Validate(classify.Input{
		Type:            params.Type,
		Nature:          params.Nature,
		Amount:          params.Amount,
		Currency:        params.Currency,
		FromAccount:     params.FromAccount,
		ToAccount:       params.ToAccount,
		FromAccountType: s.accounts.TypeOf(params.FromAccount),
		ToAccountType:   s.accounts.TypeOf(params.ToAccount),
		Category:        params.Category,
		Counterparty:    params.Counterparty,
	})
	if !res.Valid {
		return "", &ValidationFailedError{Errors: res.Errors}
	}

	year := params.Date.Year()
	month := int(params.Date.Month())
	seq, err := s.NextSeq(year, month)
	if err != nil {
		return "", err
	}

	txn := model.Transaction{
		ID:           id.FormatTransactionID(year, month, seq),
		Date:         params.Date,
		Type:         params.Type,
		Nature:       params.Nature,
		Amount:       params.Amount,
		Currency:     params.Currency,
		FromAccount:  params.FromAccount,
		ToAccount:    params.ToAccount,
		Category:     params.Category,
		Counterparty: params.Counterparty,
		Description:  params.Description,
		Source:       params.Source,
		Confidence:   params.Confidence,
	}

	postings, err := s.generatePostings(txn)
	if err != nil {
		return "", err
	}

	if err := s.appendTransaction(txn); err != nil {
		return "", err
	}
	if err := s.appendPostings(year, month, postings); err != nil {
		return "", err
	}
	if err := s.applyBalances(postings, 1); err != nil {
		return "", err
	}

	action := audit.ActionCreate
	if params.Source == model.SourceImport || params.Source == model.SourceAI {
		action = audit.ActionImport
	}
	if err := audit.Append(s.dataDir, []audit.Record{audit.NewRecord(action, txn.ID)}); err != nil {
		return "", fmt.Errorf("appending audit record: %w", err)
	}

	return txn.ID, nil
}

// Changes holds the mutable transaction fields; nil means unchanged.
type Changes struct {
	Description *string
	Category    *string
	Amount      *decimal.Decimal
	Nature      *taxonomy.TransactionNature
}

// Update mutates a transaction, records a field-level audit entry per
// change, and regenerates postings when the ledger effect changed.
func (s *Service) Update(txnID string, changes Changes) error {
	txn, err := s.Get(txnID)
	if err != nil {
		return err
	}
	if txn.Deleted {
		return fmt.Errorf("transaction %s is in trash", txnID)
	}

	updated := txn
	var records []audit.Record

	if changes.Description != nil && *changes.Description != txn.Description {
		records = append(records, audit.FieldChange(txnID, "description", txn.Description, *changes.Description))
		updated.Description = *changes.Description
	}
	if changes.Category != nil && *changes.Category != txn.Category {
		records = append(records, audit.FieldChange(txnID, "category", txn.Category, *changes.Category))
		updated.Category = *changes.Category
	}
	if changes.Amount != nil && !changes.Amount.Equal(txn.Amount) {
		records = append(records, audit.FieldChange(txnID, "amount", txn.Amount.StringFixed(2), changes.Amount.StringFixed(2)))
		updated.Amount = *changes.Amount
	}
	if changes.Nature != nil && *changes.Nature != txn.Nature {
		records = append(records, audit.FieldChange(txnID, "nature", string(txn.Nature), string(*changes.Nature)))
		updated.Nature = *changes.Nature
	}

	if len(records) == 0 {
		return nil
	}

	res := classify.Validate(classify.Input{
		Type:            updated.Type,
		Nature:          updated.Nature,
		Amount:          updated.Amount,
		Currency:        updated.Currency,
		FromAccount:     updated.FromAccount,
		ToAccount:       updated.ToAccount,
		FromAccountType: s.accounts.TypeOf(updated.FromAccount),
		ToAccountType:   s.accounts.TypeOf(updated.ToAccount),
		Category:        updated.Category,
		Counterparty:    updated.Counterparty,
	})
	if !res.Valid {
		return &ValidationFailedError{Errors: res.Errors}
	}

	ledgerChanged := !updated.Amount.Equal(txn.Amount) || updated.Nature != txn.Nature

	if err := s.rewriteTransaction(updated); err != nil {
		return err
	}

	if ledgerChanged {
		oldPostings, err := s.generatePostings(txn)
		if err != nil {
			return err
		}
		newPostings, err := s.generatePostings(updated)
		if err != nil {
			return err
		}
		if err := s.replacePostings(txnID, newPostings); err != nil {
			return err
		}
		if err := s.applyBalances(oldPostings, -1); err != nil {
			return err
		}
		if err := s.applyBalances(newPostings, 1); err != nil {
			return err
		}
	}

	if err := audit.Append(s.dataDir, records); err != nil {
		return fmt.Errorf("appending audit records: %w", err)
	}
	return nil
}

// Trash soft-deletes a transaction with a reason. Its postings are
// withdrawn and its balance effect reversed; the row itself stays,
// restorable, in the month file.
func (s *Service) Trash(txnID, reason string) error {
	txn, err := s.Get(txnID)
	if err != nil {
		return err
	}
	if txn.Deleted {
		return fmt.Errorf("transaction %s is already in trash", txnID)
	}

	postings, err := s.generatePostings(txn)
	if err != nil {
		return err
	}

	txn.Deleted = true
	txn.DeleteReason = reason
	if err := s.rewriteTransaction(txn); err != nil {
		return err
	}
	if err := s.replacePostings(txnID, nil); err != nil {
		return err
	}
	if err := s.applyBalances(postings, -1); err != nil {
		return err
	}

	rec := audit.NewRecord(audit.ActionTrash, txnID)
	rec.Reason = reason
	if err := audit.Append(s.dataDir, []audit.Record{rec}); err != nil {
		return fmt.Errorf("appending audit record: %w", err)
	}
	return nil
}

// Restore brings a trashed transaction back, regenerating its postings
// and re-applying its balance effect.
func (s *Service) Restore(txnID string) error {
	txn, err := s.Get(txnID)
	if err != nil {
		return err
	}
	if !txn.Deleted {
		return fmt.Errorf("transaction %s is not in trash", txnID)
	}

	txn.Deleted = false
	txn.DeleteReason = ""
	if err := s.rewriteTransaction(txn); err != nil {
		return err
	}

	postings, err := s.generatePostings(txn)
	if err != nil {
		return err
	}
	if err := s.replacePostings(txnID, postings); err != nil {
		return err
	}
	if err := s.applyBalances(postings, 1); err != nil {
		return err
	}

	if err := audit.Append(s.dataDir, []audit.Record{audit.NewRecord(audit.ActionRestore, txnID)}); err != nil {
		return fmt.Errorf("appending audit record: %w", err)
	}
	return nil
}

// Wipe hard-deletes a trashed transaction. Only transactions already in
// the trash can be wiped.
func (s *Service) Wipe(txnID string) error {
	txn, err := s.Get(txnID)
	if err != nil {
		return err
	}
	if !txn.Deleted {
		return fmt.Errorf("transaction %s must be trashed before wiping", txnID)
	}

	year, month, _, err := id.ParseTransactionID(txnID)
	if err != nil {
		return err
	}
	txns, err := s.ReadMonth(year, month)
	if err != nil {
		return err
	}
	kept := txns[:0]
	for _, t := range txns {
		if t.ID != txnID {
			kept = append(kept, t)
		}
	}
	if err := s.writeMonth(year, month, kept); err != nil {
		return err
	}

	if err := audit.Append(s.dataDir, []audit.Record{audit.NewRecord(audit.ActionWipe, txnID)}); err != nil {
		return fmt.Errorf("appending audit record: %w", err)
	}
	return nil
}

// Get returns a transaction by ID.
func (s *Service) Get(txnID string) (model.Transaction, error) {
	year, month, _, err := id.ParseTransactionID(txnID)
	if err != nil {
		return model.Transaction{}, err
	}
	txns, err := s.ReadMonth(year, month)
	if err != nil {
		return model.Transaction{}, err
	}
	for _, t := range txns {
		if t.ID == txnID {
			return t, nil
		}
	}
	return model.Transaction{}, fmt.Errorf("transaction %s not found", txnID)
}

// ReadMonth reads all transactions for a month, including trashed ones.
func (s *Service) ReadMonth(year, month int) ([]model.Transaction, error) {
	path := s.transactionsPath(year, month)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening transactions %s: %w", path, err)
	}
	defer f.Close()

	txns, err := ReadTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("reading transactions %s: %w", path, err)
	}
	return txns, nil
}

// ReadPostingsMonth reads all live postings for a month.
func (s *Service) ReadPostingsMonth(year, month int) ([]model.Posting, error) {
	path := s.postingsPath(year, month)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening postings %s: %w", path, err)
	}
	defer f.Close()

	postings, err := ledger.ReadPostings(f)
	if err != nil {
		return nil, fmt.Errorf("reading postings %s: %w", path, err)
	}
	return postings, nil
}

// ReadRange returns non-trashed transactions with start <= date <= end,
// in date order.
func (s *Service) ReadRange(start, end time.Time) ([]model.Transaction, error) {
	months, err := s.Months()
	if err != nil {
		return nil, err
	}

	var result []model.Transaction
	for _, m := range months {
		txns, err := s.ReadMonth(m[0], m[1])
		if err != nil {
			return nil, err
		}
		for _, t := range txns {
			if t.Deleted {
				continue
			}
			if t.Date.Before(start) || t.Date.After(end) {
				continue
			}
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

// Months lists the [year, month] pairs present in the data directory,
// ascending.
func (s *Service) Months() ([][2]int, error) {
	years, err := os.ReadDir(s.dataDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading data dir: %w", err)
	}

	var months [][2]int
	for _, y := range years {
		if !y.IsDir() || len(y.Name()) != 4 {
			continue
		}
		var year int
		if _, err := fmt.Sscanf(y.Name(), "%04d", &year); err != nil {
			continue
		}
		monthDirs, err := os.ReadDir(filepath.Join(s.dataDir, y.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading year dir %s: %w", y.Name(), err)
		}
		for _, m := range monthDirs {
			if !m.IsDir() || len(m.Name()) != 2 {
				continue
			}
			var month int
			if _, err := fmt.Sscanf(m.Name(), "%02d", &month); err != nil {
				continue
			}
			months = append(months, [2]int{year, month})
		}
	}
	sort.Slice(months, func(i, j int) bool {
		if months[i][0] != months[j][0] {
			return months[i][0] < months[j][0]
		}
		return months[i][1] < months[j][1]
	})
	return months, nil
}

// NextSeq returns the next available sequence number for a month.
func (s *Service) NextSeq(year, month int) (int, error) {
	txns, err := s.ReadMonth(year, month)
	if err != nil {
		return 0, err
	}

	maxSeq := 0
	for _, t := range txns {
		_, _, seq, err := id.ParseTransactionID(t.ID)
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq + 1, nil
}

func (s *Service) generatePostings(txn model.Transaction) ([]model.Posting, error) {
	return ledger.Generate(txn, s.accounts.TypeOf(txn.FromAccount), s.accounts.TypeOf(txn.ToAccount))
}

// applyBalances adjusts stored account balances by the postings' effect.
// sign is +1 to apply, -1 to reverse.
func (s *Service) applyBalances(postings []model.Posting, sign int64) error {
	for _, p := range postings {
		if p.AccountID == model.ExternalAccount {
			continue
		}
		acct := taxonomy.AccountingTypeOf(s.accounts.TypeOf(p.AccountID))
		delta := p.Debit.Sub(p.Credit)
		if acct == taxonomy.Liability || acct == taxonomy.Payable {
			delta = delta.Neg()
		}
		if err := s.accounts.ApplyDelta(p.AccountID, delta.Mul(decimal.NewFromInt(sign))); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) appendTransaction(txn model.Transaction) error {
	year := txn.Date.Year()
	month := int(txn.Date.Month())
	path := s.transactionsPath(year, month)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating month dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening transactions: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	return AppendTransactions(f, []model.Transaction{txn})
}

func (s *Service) appendPostings(year, month int, postings []model.Posting) error {
	path := s.postingsPath(year, month)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating month dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening postings: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, ledger.Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	return ledger.AppendPostings(f, postings)
}

// rewriteTransaction replaces one row in its month file.
func (s *Service) rewriteTransaction(txn model.Transaction) error {
	year, month, _, err := id.ParseTransactionID(txn.ID)
	if err != nil {
		return err
	}
	txns, err := s.ReadMonth(year, month)
	if err != nil {
		return err
	}
	found := false
	for i, t := range txns {
		if t.ID == txn.ID {
			txns[i] = txn
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("transaction %s not found", txn.ID)
	}
	return s.writeMonth(year, month, txns)
}

// replacePostings swaps out the postings for one transaction within its
// month file. nil removes them.
func (s *Service) replacePostings(txnID string, replacement []model.Posting) error {
	year, month, _, err := id.ParseTransactionID(txnID)
	if err != nil {
		return err
	}
	postings, err := s.ReadPostingsMonth(year, month)
	if err != nil {
		return err
	}
	kept := postings[:0]
	for _, p := range postings {
		if p.TransactionID != txnID {
			kept = append(kept, p)
		}
	}
	kept = append(kept, replacement...)

	path := s.postingsPath(year, month)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating month dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating postings: %w", err)
	}
	defer f.Close()
	return ledger.WritePostings(f, kept)
}

func (s *Service) writeMonth(year, month int, txns []model.Transaction) error {
	path := s.transactionsPath(year, month)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating transactions: %w", err)
	}
	defer f.Close()
	return WriteTransactions(f, txns)
}

func (s *Service) transactionsPath(year, month int) string {
	return filepath.Join(s.dataDir, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), "transactions.csv")
}

func (s *Service) postingsPath(year, month int) string {
	return filepath.Join(s.dataDir, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), "postings.csv")
}
