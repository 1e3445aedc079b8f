package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerly-dev/ledgerly/internal/model"
)

// HDFCParser parses HDFC Bank savings account CSV exports. Withdrawals
// and deposits come in separate columns; the parsed Amount is signed
// (negative = money out).
type HDFCParser struct{}

const (
	hdfcDateFormat = "02/01/06"
	hdfcNumFields  = 6
	hdfcColDate    = 0
	hdfcColDesc    = 1
	hdfcColRef     = 2
	hdfcColDebit   = 3
	hdfcColCredit  = 4
)

// Format returns the parser name.
func (p *HDFCParser) Format() string { return "hdfc" }

// Parse reads an HDFC statement CSV and returns BankTransactions.
func (p *HDFCParser) Parse(r io.Reader) ([]model.BankTransaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = hdfcNumFields
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading hdfc CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var txns []model.BankTransaction
	for i, rec := range records[1:] {
		txn, err := parseHDFCRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func parseHDFCRow(rec []string) (model.BankTransaction, error) {
	date, err := time.Parse(hdfcDateFormat, strings.TrimSpace(rec[hdfcColDate]))
	if err != nil {
		return model.BankTransaction{}, fmt.Errorf("parsing date %q: %w", rec[hdfcColDate], err)
	}

	amount, txnType, err := hdfcAmount(rec[hdfcColDebit], rec[hdfcColCredit])
	if err != nil {
		return model.BankTransaction{}, err
	}

	return model.BankTransaction{
		Date:        date,
		Description: strings.TrimSpace(rec[hdfcColDesc]),
		Amount:      amount,
		Reference:   strings.TrimSpace(rec[hdfcColRef]),
		Type:        txnType,
	}, nil
}

// hdfcAmount folds the withdrawal/deposit column pair into one signed
// amount. Exactly one of the two must be non-empty.
func hdfcAmount(withdrawal, deposit string) (decimal.Decimal, string, error) {
	withdrawal = strings.TrimSpace(withdrawal)
	deposit = strings.TrimSpace(deposit)

	switch {
	case withdrawal != "" && deposit != "":
		return decimal.Zero, "", fmt.Errorf("row has both withdrawal %q and deposit %q", withdrawal, deposit)
	case withdrawal != "":
		amt, err := decimal.NewFromString(withdrawal)
		if err != nil {
			return decimal.Zero, "", fmt.Errorf("parsing withdrawal %q: %w", withdrawal, err)
		}
		return amt.Neg(), "DEBIT", nil
	case deposit != "":
		amt, err := decimal.NewFromString(deposit)
		if err != nil {
			return decimal.Zero, "", fmt.Errorf("parsing deposit %q: %w", deposit, err)
		}
		return amt, "CREDIT", nil
	default:
		return decimal.Zero, "", fmt.Errorf("row has neither withdrawal nor deposit")
	}
}
