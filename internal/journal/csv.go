package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerly-dev/ledgerly/internal/model"
	"github.com/ledgerly-dev/ledgerly/internal/taxonomy"
)

// Header is the CSV header for transactions.csv.
const Header = "id,date,type,nature,amount,currency,from_account,to_account,category,counterparty,description,source,confidence,deleted,delete_reason"

const (
	numFields    = 15
	dateFormat   = "2006-01-02"
	colID        = 0
	colDate      = 1
	colType      = 2
	colNature    = 3
	colAmount    = 4
	colCurrency  = 5
	colFromAcct  = 6
	colToAcct    = 7
	colCategory  = 8
	colCparty    = 9
	colDesc      = 10
	colSource    = 11
	colConf      = 12
	colDeleted   = 13
	colDelReason = 14
)

// ReadTransactions reads all transactions from a transactions.csv reader.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var txns []model.Transaction
	for i, rec := range records[1:] {
		txn, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// WriteTransactions writes transactions to a writer (with header).
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, txn := range txns {
		if err := cw.Write(MarshalTransaction(txn)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// AppendTransactions appends rows without a header.
func AppendTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	for i, txn := range txns {
		if err := cw.Write(MarshalTransaction(txn)); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(txn model.Transaction) []string {
	row := make([]string, numFields)
	row[colID] = txn.ID
	row[colDate] = txn.Date.Format(dateFormat)
	row[colType] = string(txn.Type)
	row[colNature] = string(txn.Nature)
	row[colAmount] = txn.Amount.StringFixed(2)
	row[colCurrency] = txn.Currency

	if txn.FromAccount != 0 {
		row[colFromAcct] = strconv.Itoa(txn.FromAccount)
	}
	if txn.ToAccount != 0 {
		row[colToAcct] = strconv.Itoa(txn.ToAccount)
	}

	row[colCategory] = txn.Category
	row[colCparty] = txn.Counterparty
	row[colDesc] = txn.Description
	row[colSource] = string(txn.Source)

	if !txn.Confidence.IsZero() {
		row[colConf] = txn.Confidence.String()
	}

	row[colDeleted] = strconv.FormatBool(txn.Deleted)
	row[colDelReason] = txn.DeleteReason
	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	var fromAcct, toAcct int
	if record[colFromAcct] != "" {
		fromAcct, err = strconv.Atoi(record[colFromAcct])
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing from_account %q: %w", record[colFromAcct], err)
		}
	}
	if record[colToAcct] != "" {
		toAcct, err = strconv.Atoi(record[colToAcct])
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing to_account %q: %w", record[colToAcct], err)
		}
	}

	var confidence decimal.Decimal
	if record[colConf] != "" {
		confidence, err = decimal.NewFromString(record[colConf])
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing confidence %q: %w", record[colConf], err)
		}
	}

	deleted, err := strconv.ParseBool(record[colDeleted])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing deleted %q: %w", record[colDeleted], err)
	}

	return model.Transaction{
		ID:           record[colID],
		Date:         date,
		Type:         taxonomy.TransactionType(record[colType]),
		Nature:       taxonomy.TransactionNature(record[colNature]),
		Amount:       amount,
		Currency:     record[colCurrency],
		FromAccount:  fromAcct,
		ToAccount:    toAcct,
		Category:     record[colCategory],
		Counterparty: record[colCparty],
		Description:  record[colDesc],
		Source:       model.Source(record[colSource]),
		Confidence:   confidence,
		Deleted:      deleted,
		DeleteReason: record[colDelReason],
	}, nil
}
