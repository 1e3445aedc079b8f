package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/ledgerly-dev/ledgerly/internal/model"
)

const (
	numFields = 10
	colID     = 0
	colName   = 1
	colType   = 2
	colCurr   = 3
	colBal    = 4
	colActive = 5
	colInst   = 6
	colMasked = 7
	colCparty = 8
	colNotes  = 9
)

var header = []string{
	"account_id", "name", "account_type", "currency", "balance",
	"active", "institution", "masked_number", "counterparty", "notes",
}

// ReadAccounts reads accounts.csv.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accts []model.Account
	for i, rec := range records[1:] {
		a, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accts = append(accts, a)
	}
	return accts, nil
}

// WriteAccounts writes accounts.csv.
func WriteAccounts(w io.Writer, accts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, a := range accts {
		if err := cw.Write(MarshalAccount(a)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(a model.Account) []string {
	row := make([]string, numFields)
	row[colID] = strconv.Itoa(a.ID)
	row[colName] = a.Name
	row[colType] = a.Type
	row[colCurr] = a.Currency
	row[colBal] = a.Balance.StringFixed(2)
	row[colActive] = strconv.FormatBool(a.Active)
	row[colInst] = a.Institution
	row[colMasked] = a.MaskedNumber
	row[colCparty] = a.Counterparty
	row[colNotes] = a.Notes
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	id, err := strconv.Atoi(record[colID])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing account_id %q: %w", record[colID], err)
	}

	balance, err := decimal.NewFromString(record[colBal])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing balance %q: %w", record[colBal], err)
	}

	active, err := strconv.ParseBool(record[colActive])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing active %q: %w", record[colActive], err)
	}

	return model.Account{
		ID:           id,
		Name:         record[colName],
		Type:         record[colType],
		Currency:     record[colCurr],
		Balance:      balance,
		Active:       active,
		Institution:  record[colInst],
		MaskedNumber: record[colMasked],
		Counterparty: record[colCparty],
		Notes:        record[colNotes],
	}, nil
}
