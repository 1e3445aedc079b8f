package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerly-dev/ledgerly/internal/model"
)

// Header is the CSV header for postings.csv.
const Header = "posting_id,transaction_id,date,account_id,debit,credit,description"

const (
	numFields  = 7
	dateFormat = "2006-01-02"
	colID      = 0
	colTxnID   = 1
	colDate    = 2
	colAcctID  = 3
	colDebit   = 4
	colCredit  = 5
	colDesc    = 6
)

// ReadPostings reads all postings from a postings.csv reader.
func ReadPostings(r io.Reader) ([]model.Posting, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading postings CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var postings []model.Posting
	for i, rec := range records[1:] {
		p, err := UnmarshalPosting(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		postings = append(postings, p)
	}
	return postings, nil
}

// WritePostings writes postings to a postings.csv writer (with header).
func WritePostings(w io.Writer, postings []model.Posting) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, p := range postings {
		if err := cw.Write(MarshalPosting(p)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// AppendPostings appends postings to an existing postings.csv writer
// (no header).
func AppendPostings(w io.Writer, postings []model.Posting) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	for i, p := range postings {
		if err := cw.Write(MarshalPosting(p)); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	return cw.Error()
}

// MarshalPosting converts a Posting to a CSV row.
func MarshalPosting(p model.Posting) []string {
	row := make([]string, numFields)
	row[colID] = p.ID
	row[colTxnID] = p.TransactionID
	row[colDate] = p.Date.Format(dateFormat)
	row[colAcctID] = strconv.Itoa(p.AccountID)

	if !p.Debit.IsZero() {
		row[colDebit] = p.Debit.StringFixed(2)
	}
	if !p.Credit.IsZero() {
		row[colCredit] = p.Credit.StringFixed(2)
	}

	row[colDesc] = p.Description
	return row
}

// UnmarshalPosting converts a CSV row to a Posting.
func UnmarshalPosting(record []string) (model.Posting, error) {
	if len(record) != numFields {
		return model.Posting{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return model.Posting{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	accountID, err := strconv.Atoi(record[colAcctID])
	if err != nil {
		return model.Posting{}, fmt.Errorf("parsing account_id %q: %w", record[colAcctID], err)
	}

	var debit, credit decimal.Decimal
	if record[colDebit] != "" {
		debit, err = decimal.NewFromString(record[colDebit])
		if err != nil {
			return model.Posting{}, fmt.Errorf("parsing debit %q: %w", record[colDebit], err)
		}
	}
	if record[colCredit] != "" {
		credit, err = decimal.NewFromString(record[colCredit])
		if err != nil {
			return model.Posting{}, fmt.Errorf("parsing credit %q: %w", record[colCredit], err)
		}
	}

	return model.Posting{
		ID:            record[colID],
		TransactionID: record[colTxnID],
		Date:          date,
		AccountID:     accountID,
		Debit:         debit,
		Credit:        credit,
		Description:   record[colDesc],
	}, nil
}
