// Package id formats and parses transaction and posting identifiers.
// Transactions are numbered per month: "2026-01-003"; each posting adds
// a leg suffix: "2026-01-003a", "2026-01-003b".
package id

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatTransactionID returns an ID like "2026-01-003".
func FormatTransactionID(year, month, seq int) string {
	return fmt.Sprintf("%04d-%02d-%03d", year, month, seq)
}

// FormatLegID returns a posting ID like "2026-01-003a" (leg 0='a', 1='b').
func FormatLegID(txnID string, leg int) string {
	return txnID + string(rune('a'+leg))
}

// ParseTransactionID parses "2026-01-003" (with or without a leg suffix)
// into year, month, seq.
func ParseTransactionID(txnID string) (year, month, seq int, err error) {
	base := TransactionGroup(txnID)

	parts := strings.SplitN(base, "-", 3)
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid transaction ID format: %q", txnID)
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid year in transaction ID %q: %w", txnID, err)
	}

	month, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid month in transaction ID %q: %w", txnID, err)
	}

	seq, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid sequence in transaction ID %q: %w", txnID, err)
	}

	return year, month, seq, nil
}

// TransactionGroup strips the leg suffix from a posting ID.
// "2026-01-003a" -> "2026-01-003"
func TransactionGroup(legID string) string {
	if len(legID) == 0 {
		return ""
	}
	i := len(legID)
	for i > 0 && legID[i-1] >= 'a' && legID[i-1] <= 'z' {
		i--
	}
	return legID[:i]
}
