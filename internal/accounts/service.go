// Package accounts maintains the account registry: every store of value
// or obligation the user tracks, including auto-created receivable and
// payable accounts for loan counterparties.
package accounts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgerly-dev/ledgerly/internal/model"
	"github.com/ledgerly-dev/ledgerly/internal/taxonomy"
)

// Service provides in-memory lookup and mutation over the registry.
type Service struct {
	accounts []model.Account
	byID     map[int]int // account ID -> index into accounts
}

// NewService creates a Service from a slice of accounts.
func NewService(accts []model.Account) *Service {
	s := &Service{byID: make(map[int]int, len(accts))}
	for _, a := range accts {
		s.accounts = append(s.accounts, a)
		s.byID[a.ID] = len(s.accounts) - 1
	}
	return s
}

// Load reads accounts/accounts.csv from a data directory.
func Load(dataDir string) (*Service, error) {
	path := filepath.Join(dataDir, "accounts", "accounts.csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening accounts file: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading accounts: %w", err)
	}
	return NewService(accts), nil
}

// All returns every account, active or not.
func (s *Service) All() []model.Account {
	return s.accounts
}

// Active returns only active accounts.
func (s *Service) Active() []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.Active {
			result = append(result, a)
		}
	}
	return result
}

// Get returns an account by ID.
func (s *Service) Get(id int) (model.Account, bool) {
	i, ok := s.byID[id]
	if !ok {
		return model.Account{}, false
	}
	return s.accounts[i], true
}

// Exists reports whether an account ID exists (active or deactivated).
func (s *Service) Exists(id int) bool {
	_, ok := s.byID[id]
	return ok
}

// TypeOf returns the account_type string for an ID, or "" if unknown.
// The posting generator and validator take types, not whole accounts.
func (s *Service) TypeOf(id int) string {
	a, ok := s.Get(id)
	if !ok {
		return ""
	}
	return a.Type
}

// ByAccountingType returns active accounts in the given balance-sheet
// category.
func (s *Service) ByAccountingType(t taxonomy.AccountingType) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.Active && a.AccountingType() == t {
			result = append(result, a)
		}
	}
	return result
}

// FindByName returns the first active account whose name matches
// case-insensitively.
func (s *Service) FindByName(name string) (model.Account, bool) {
	for _, a := range s.accounts {
		if a.Active && strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	return model.Account{}, false
}

// Add registers a new account and returns it with its assigned ID.
func (s *Service) Add(a model.Account) (model.Account, error) {
	if a.Name == "" {
		return model.Account{}, fmt.Errorf("account name required")
	}
	if a.Type == "" {
		return model.Account{}, fmt.Errorf("account type required")
	}
	a.ID = s.nextID()
	a.Active = true
	s.accounts = append(s.accounts, a)
	s.byID[a.ID] = len(s.accounts) - 1
	return a, nil
}

func (s *Service) nextID() int {
	max := 0
	for _, a := range s.accounts {
		if a.ID > max {
			max = a.ID
		}
	}
	return max + 1
}

// Deactivate soft-deactivates an account. Transaction history stays
// intact; accounts are never hard-deleted.
func (s *Service) Deactivate(id int) error {
	i, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("unknown account %d", id)
	}
	s.accounts[i].Active = false
	return nil
}

// Reactivate re-enables a deactivated account.
func (s *Service) Reactivate(id int) error {
	i, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("unknown account %d", id)
	}
	s.accounts[i].Active = true
	return nil
}

// ApplyDelta adjusts a stored account balance by the given signed amount.
func (s *Service) ApplyDelta(id int, delta decimal.Decimal) error {
	i, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("unknown account %d", id)
	}
	s.accounts[i].Balance = s.accounts[i].Balance.Add(delta)
	return nil
}

// Save writes the registry to <dataDir>/accounts/accounts.csv.
func (s *Service) Save(dataDir string) error {
	dir := filepath.Join(dataDir, "accounts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	path := filepath.Join(dir, "accounts.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, s.accounts); err != nil {
		return fmt.Errorf("writing accounts: %w", err)
	}
	return nil
}
