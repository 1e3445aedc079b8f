package ledger

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerly-dev/ledgerly/internal/model"
)

func TestWriteReadPostings(t *testing.T) {
	postings := []model.Posting{
		{
			ID:            "2026-01-001a",
			TransactionID: "2026-01-001",
			Date:          time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
			AccountID:     1,
			Debit:         dec("500.00"),
			Description:   "transfer to current",
		},
		{
			ID:            "2026-01-001b",
			TransactionID: "2026-01-001",
			Date:          time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
			AccountID:     2,
			Credit:        dec("500.00"),
			Description:   "transfer to current",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WritePostings(&buf, postings))

	got, err := ReadPostings(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2026-01-001a", got[0].ID)
	assert.True(t, got[0].Debit.Equal(dec("500.00")))
	assert.True(t, got[0].Credit.IsZero())
	assert.Equal(t, 2, got[1].AccountID)
	assert.True(t, got[1].Credit.Equal(dec("500.00")))
}

func TestReadPostings_Empty(t *testing.T) {
	got, err := ReadPostings(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUnmarshalPosting_BadRow(t *testing.T) {
	_, err := UnmarshalPosting([]string{"only", "three", "fields"})
	assert.Error(t, err)

	_, err = UnmarshalPosting([]string{"a", "b", "not-a-date", "1", "", "5.00", "x"})
	assert.Error(t, err)

	_, err = UnmarshalPosting([]string{"a", "b", "2026-01-15", "nan", "", "5.00", "x"})
	assert.Error(t, err)
}
