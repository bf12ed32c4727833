package accounting

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLines(t *testing.T, amount string) []JournalLine {
	t.Helper()
	amt := decimal.RequireFromString(amount)
	debit, err := NewDebitLine(uuid.New(), amt, "debit side")
	require.NoError(t, err)
	credit, err := NewCreditLine(uuid.New(), amt, "credit side")
	require.NoError(t, err)
	return []JournalLine{debit, credit}
}

func TestEntryStatusTransitions(t *testing.T) {
	tests := []struct {
		from    EntryStatus
		to      EntryStatus
		allowed bool
	}{
		{EntryStatusDraft, EntryStatusPosted, true},
		{EntryStatusDraft, EntryStatusReversed, false},
		{EntryStatusPosted, EntryStatusReversed, true},
		{EntryStatusPosted, EntryStatusDraft, false},
		{EntryStatusReversed, EntryStatusPosted, false},
		{EntryStatusReversed, EntryStatusDraft, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestFormatEntryNumber(t *testing.T) {
	assert.Equal(t, "2025-000001", FormatEntryNumber(2025, 1))
	assert.Equal(t, "2025-000142", FormatEntryNumber(2025, 142))
	assert.Equal(t, "2026-999999", FormatEntryNumber(2026, 999999))
}

func TestJournalLineValidate(t *testing.T) {
	accountID := uuid.New()

	t.Run("debit only is valid", func(t *testing.T) {
		line, err := NewDebitLine(accountID, decimal.NewFromInt(100), "")
		require.NoError(t, err)
		assert.True(t, line.Credit.IsZero())
	})

	t.Run("both sides set is invalid", func(t *testing.T) {
		line := JournalLine{
			ID:        uuid.New(),
			AccountID: accountID,
			Debit:     decimal.NewFromInt(100),
			Credit:    decimal.NewFromInt(100),
		}
		assert.Error(t, line.Validate())
	})

	t.Run("both sides zero is invalid", func(t *testing.T) {
		line := JournalLine{ID: uuid.New(), AccountID: accountID}
		assert.Error(t, line.Validate())
	})

	t.Run("negative amount is invalid", func(t *testing.T) {
		line := JournalLine{
			ID:        uuid.New(),
			AccountID: accountID,
			Debit:     decimal.NewFromInt(-5),
		}
		assert.Error(t, line.Validate())
	})

	t.Run("zero account is invalid", func(t *testing.T) {
		line := JournalLine{ID: uuid.New(), Debit: decimal.NewFromInt(5)}
		assert.Error(t, line.Validate())
	})
}

func TestNewJournalEntry(t *testing.T) {
	entryDate := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("creates draft with lines", func(t *testing.T) {
		entry, err := NewJournalEntry(entryDate, "Monthly rent", EntryTypeManual, testLines(t, "1200.00"), nil)
		require.NoError(t, err)
		assert.Equal(t, EntryStatusDraft, entry.Status)
		assert.Len(t, entry.Lines, 2)
		for _, line := range entry.Lines {
			assert.Equal(t, entry.ID, line.EntryID)
		}
	})

	t.Run("rejects empty lines", func(t *testing.T) {
		_, err := NewJournalEntry(entryDate, "Empty", EntryTypeManual, nil, nil)
		assert.Error(t, err)
	})

	t.Run("rejects empty description", func(t *testing.T) {
		_, err := NewJournalEntry(entryDate, "", EntryTypeManual, testLines(t, "10.00"), nil)
		assert.Error(t, err)
	})

	t.Run("allows unbalanced draft", func(t *testing.T) {
		debit, err := NewDebitLine(uuid.New(), decimal.NewFromInt(100), "")
		require.NoError(t, err)
		entry, err := NewJournalEntry(entryDate, "One-sided draft", EntryTypeManual, []JournalLine{debit}, nil)
		require.NoError(t, err)
		assert.False(t, entry.IsBalanced())
	})
}

func TestJournalEntryPost(t *testing.T) {
	entryDate := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("posts balanced draft", func(t *testing.T) {
		entry, err := NewJournalEntry(entryDate, "Rent", EntryTypeManual, testLines(t, "1200.00"), nil)
		require.NoError(t, err)

		postedAt := time.Date(2025, 3, 16, 10, 0, 0, 0, time.UTC)
		require.NoError(t, entry.Post(postedAt))
		assert.Equal(t, EntryStatusPosted, entry.Status)
		require.NotNil(t, entry.PostedAt)
		assert.Equal(t, postedAt, *entry.PostedAt)
	})

	t.Run("rejects unbalanced entry", func(t *testing.T) {
		debit, err := NewDebitLine(uuid.New(), decimal.NewFromInt(100), "")
		require.NoError(t, err)
		credit, err := NewCreditLine(uuid.New(), decimal.NewFromInt(90), "")
		require.NoError(t, err)
		entry, err := NewJournalEntry(entryDate, "Lopsided", EntryTypeManual, []JournalLine{debit, credit}, nil)
		require.NoError(t, err)

		err = entry.Post(time.Now())
		assert.Error(t, err)
		assert.Equal(t, EntryStatusDraft, entry.Status)
	})

	t.Run("rejects double post", func(t *testing.T) {
		entry, err := NewJournalEntry(entryDate, "Rent", EntryTypeManual, testLines(t, "1200.00"), nil)
		require.NoError(t, err)
		require.NoError(t, entry.Post(time.Now()))

		assert.Error(t, entry.Post(time.Now()))
	})
}

func TestJournalEntryBuildReversal(t *testing.T) {
	entryDate := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	entry, err := NewJournalEntry(entryDate, "Rent", EntryTypeManual, testLines(t, "1200.00"), nil)
	require.NoError(t, err)
	require.NoError(t, entry.AssignNumber(2025, 7))
	require.NoError(t, entry.Post(time.Now()))

	reversalDate := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	reversal, err := entry.BuildReversal(reversalDate, "")
	require.NoError(t, err)

	assert.Equal(t, "Reversal of 2025-000007", reversal.Description)
	require.NotNil(t, reversal.ReversesEntryID)
	assert.Equal(t, entry.ID, *reversal.ReversesEntryID)
	require.Len(t, reversal.Lines, 2)
	for i, line := range reversal.Lines {
		assert.True(t, line.Debit.Equal(entry.Lines[i].Credit), "line %d debit", i)
		assert.True(t, line.Credit.Equal(entry.Lines[i].Debit), "line %d credit", i)
		assert.Equal(t, entry.Lines[i].AccountID, line.AccountID)
	}

	t.Run("draft cannot be reversed", func(t *testing.T) {
		draft, err := NewJournalEntry(entryDate, "Draft", EntryTypeManual, testLines(t, "10.00"), nil)
		require.NoError(t, err)
		_, err = draft.BuildReversal(reversalDate, "")
		assert.Error(t, err)
	})
}

func TestJournalEntryMarkReversed(t *testing.T) {
	entry, err := NewJournalEntry(time.Now(), "Rent", EntryTypeManual, testLines(t, "100.00"), nil)
	require.NoError(t, err)
	require.NoError(t, entry.Post(time.Now()))

	reversalID := uuid.New()
	require.NoError(t, entry.MarkReversed(reversalID, time.Now()))
	assert.Equal(t, EntryStatusReversed, entry.Status)
	require.NotNil(t, entry.ReversedByID)
	assert.Equal(t, reversalID, *entry.ReversedByID)

	assert.Error(t, entry.MarkReversed(uuid.New(), time.Now()), "already reversed")
}

func TestJournalEntryAssignNumber(t *testing.T) {
	entry, err := NewJournalEntry(time.Now(), "Rent", EntryTypeManual, testLines(t, "100.00"), nil)
	require.NoError(t, err)

	require.NoError(t, entry.AssignNumber(2025, 1))
	assert.Equal(t, "2025-000001", entry.EntryNumber)

	assert.Error(t, entry.AssignNumber(2025, 2), "number already assigned")
}
