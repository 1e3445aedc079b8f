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

// GenericParser handles the simple date,description,amount,reference
// layout many export tools and neobanks produce. Amount is signed.
type GenericParser struct{}

const (
	genericDateFormat = "2006-01-02"
	genericNumFields  = 4
	genericColDate    = 0
	genericColDesc    = 1
	genericColAmount  = 2
	genericColRef     = 3
)

// Format returns the parser name.
func (p *GenericParser) Format() string { return "generic" }

// Parse reads a generic statement CSV and returns BankTransactions.
func (p *GenericParser) Parse(r io.Reader) ([]model.BankTransaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = genericNumFields
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading generic CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var txns []model.BankTransaction
	for i, rec := range records[1:] {
		date, err := time.Parse(genericDateFormat, strings.TrimSpace(rec[genericColDate]))
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing date %q: %w", i+2, rec[genericColDate], err)
		}

		amount, err := decimal.NewFromString(strings.TrimSpace(rec[genericColAmount]))
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing amount %q: %w", i+2, rec[genericColAmount], err)
		}

		txns = append(txns, model.BankTransaction{
			Date:        date,
			Description: strings.TrimSpace(rec[genericColDesc]),
			Amount:      amount,
			Reference:   strings.TrimSpace(rec[genericColRef]),
		})
	}
	return txns, nil
}
