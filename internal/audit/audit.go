// Package audit keeps the append-only trail of transaction mutations.
// Records are only ever appended; there is no mutate or delete API.
package audit

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Action classifies what happened to a transaction.
type Action string

const (
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionTrash   Action = "trash"
	ActionRestore Action = "restore"
	ActionWipe    Action = "wipe"
	ActionImport  Action = "import"
)

// Record is one row in logs/audit.csv. Field/OldValue/NewValue are set
// for updates; Reason carries the user's free-text note for trash/wipe.
type Record struct {
	ID            string
	Timestamp     time.Time
	Action        Action
	TransactionID string
	Field         string
	OldValue      string
	NewValue      string
	Reason        string
}

// NewRecord builds a Record with a fresh ID and timestamp.
func NewRecord(action Action, txnID string) Record {
	return Record{
		ID:            uuid.NewString(),
		Timestamp:     time.Now().UTC(),
		Action:        action,
		TransactionID: txnID,
	}
}

// FieldChange returns an update record for a single field mutation.
func FieldChange(txnID, field, oldValue, newValue string) Record {
	r := NewRecord(ActionUpdate, txnID)
	r.Field = field
	r.OldValue = oldValue
	r.NewValue = newValue
	return r
}

// Header is the CSV header for audit.csv.
const Header = "record_id,timestamp,action,transaction_id,field,old_value,new_value,reason"

const (
	numFields = 8
	logDir    = "logs"
	logFile   = "logs/audit.csv"
	colID     = 0
	colTS     = 1
	colAction = 2
	colTxnID  = 3
	colField  = 4
	colOld    = 5
	colNew    = 6
	colReason = 7
)

// MarshalRecord converts a Record to a CSV row.
func MarshalRecord(r Record) []string {
	row := make([]string, numFields)
	row[colID] = r.ID
	row[colTS] = r.Timestamp.Format(time.RFC3339)
	row[colAction] = string(r.Action)
	row[colTxnID] = r.TransactionID
	row[colField] = r.Field
	row[colOld] = r.OldValue
	row[colNew] = r.NewValue
	row[colReason] = r.Reason
	return row
}

// UnmarshalRecord converts a CSV row to a Record.
func UnmarshalRecord(record []string) (Record, error) {
	if len(record) != numFields {
		return Record{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTS])
	if err != nil {
		return Record{}, fmt.Errorf("parsing timestamp %q: %w", record[colTS], err)
	}

	return Record{
		ID:            record[colID],
		Timestamp:     ts,
		Action:        Action(record[colAction]),
		TransactionID: record[colTxnID],
		Field:         record[colField],
		OldValue:      record[colOld],
		NewValue:      record[colNew],
		Reason:        record[colReason],
	}, nil
}

// Append writes records to <dataDir>/logs/audit.csv, creating the file
// and header if needed.
func Append(dataDir string, records []Record) error {
	dir := filepath.Join(dataDir, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(dataDir, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, r := range records {
		if err := cw.Write(MarshalRecord(r)); err != nil {
			return fmt.Errorf("writing record %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all records from <dataDir>/logs/audit.csv, in file order
// (append order, so timestamp-ordered per transaction). Returns nil if
// the log does not exist yet.
func Read(dataDir string) ([]Record, error) {
	path := filepath.Join(dataDir, logFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	return readRecords(f)
}

// ForTransaction returns the records for one transaction, in append order.
func ForTransaction(dataDir, txnID string) ([]Record, error) {
	all, err := Read(dataDir)
	if err != nil {
		return nil, err
	}
	var result []Record
	for _, r := range all {
		if r.TransactionID == txnID {
			result = append(result, r)
		}
	}
	return result, nil
}

func readRecords(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading audit CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var out []Record
	for i, rec := range records[1:] {
		rr, err := UnmarshalRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, rr)
	}
	return out, nil
}
