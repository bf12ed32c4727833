package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timax/backend/internal/domain/accounting"
	"github.com/timax/backend/internal/domain/shared"
)

func newTestEntry(t *testing.T, year, sequence int) *accounting.JournalEntry {
	t.Helper()

	debit, err := accounting.NewDebitLine(uuid.New(), decimal.NewFromInt(100), "cash")
	require.NoError(t, err)
	credit, err := accounting.NewCreditLine(uuid.New(), decimal.NewFromInt(100), "revenue")
	require.NoError(t, err)

	entry, err := accounting.NewJournalEntry(
		time.Date(year, 3, 15, 0, 0, 0, 0, time.UTC),
		"Test entry",
		accounting.EntryTypeManual,
		[]accounting.JournalLine{debit, credit},
		nil,
	)
	require.NoError(t, err)
	require.NoError(t, entry.AssignNumber(year, sequence))

	return entry
}

func TestGormJournalEntryRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormJournalEntryRepository(db)
	ctx := context.Background()

	t.Run("saves entry with lines and finds it by ID", func(t *testing.T) {
		entry := newTestEntry(t, 2025, 1)

		require.NoError(t, repo.Save(ctx, entry))

		found, err := repo.FindByID(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, "2025-000001", found.EntryNumber)
		assert.Equal(t, accounting.EntryStatusDraft, found.Status)
		require.Len(t, found.Lines, 2)
		assert.True(t, found.IsBalanced())
	})

	t.Run("finds entry by number", func(t *testing.T) {
		entry := newTestEntry(t, 2025, 2)
		require.NoError(t, repo.Save(ctx, entry))

		found, err := repo.FindByNumber(ctx, "2025-000002")
		require.NoError(t, err)
		assert.Equal(t, entry.ID, found.ID)
	})

	t.Run("returns ErrNotFound for missing entry", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("persists status changes on re-save", func(t *testing.T) {
		entry := newTestEntry(t, 2025, 3)
		require.NoError(t, repo.Save(ctx, entry))

		require.NoError(t, entry.Post(time.Now()))
		require.NoError(t, repo.Save(ctx, entry))

		found, err := repo.FindByID(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, accounting.EntryStatusPosted, found.Status)
		assert.NotNil(t, found.PostedAt)
	})
}

func TestGormJournalEntryRepository_MaxSequenceForYear(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormJournalEntryRepository(db)
	ctx := context.Background()

	t.Run("returns zero for a year without entries", func(t *testing.T) {
		seq, err := repo.MaxSequenceForYear(ctx, 2024)
		require.NoError(t, err)
		assert.Equal(t, 0, seq)
	})

	t.Run("returns highest sequence scoped to the year", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, newTestEntry(t, 2025, 5)))
		require.NoError(t, repo.Save(ctx, newTestEntry(t, 2025, 9)))
		require.NoError(t, repo.Save(ctx, newTestEntry(t, 2026, 40)))

		seq, err := repo.MaxSequenceForYear(ctx, 2025)
		require.NoError(t, err)
		assert.Equal(t, 9, seq)
	})
}

func TestGormJournalEntryRepository_UniqueNumbering(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormJournalEntryRepository(db)
	ctx := context.Background()

	t.Run("rejects a second entry with the same year and sequence", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, newTestEntry(t, 2025, 7)))

		err := repo.Save(ctx, newTestEntry(t, 2025, 7))
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})
}

func TestGormJournalEntryRepository_FindBySource(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormJournalEntryRepository(db)
	ctx := context.Background()

	newSourcedEntry := func(t *testing.T, source accounting.EntrySource, entryType accounting.EntryType, sequence int) *accounting.JournalEntry {
		debit, err := accounting.NewDebitLine(uuid.New(), decimal.NewFromInt(50), "")
		require.NoError(t, err)
		credit, err := accounting.NewCreditLine(uuid.New(), decimal.NewFromInt(50), "")
		require.NoError(t, err)

		entry, err := accounting.NewJournalEntry(
			time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
			"Auto entry",
			entryType,
			[]accounting.JournalLine{debit, credit},
			&source,
		)
		require.NoError(t, err)
		require.NoError(t, entry.AssignNumber(2025, sequence))
		return entry
	}

	t.Run("finds the entry created for a source record", func(t *testing.T) {
		source := accounting.EntrySource{SourceType: "asset", SourceID: uuid.New()}
		entry := newSourcedEntry(t, source, accounting.EntryTypePurchase, 100)
		require.NoError(t, repo.Save(ctx, entry))

		found, err := repo.FindBySource(ctx, source, accounting.EntryTypePurchase)
		require.NoError(t, err)
		assert.Equal(t, entry.ID, found.ID)
		require.NotNil(t, found.Source)
		assert.Equal(t, source.SourceID, found.Source.SourceID)
	})

	t.Run("scopes the lookup by entry type", func(t *testing.T) {
		source := accounting.EntrySource{SourceType: "asset", SourceID: uuid.New()}
		require.NoError(t, repo.Save(ctx, newSourcedEntry(t, source, accounting.EntryTypePurchase, 101)))

		_, err := repo.FindBySource(ctx, source, accounting.EntryTypeDisposal)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("rejects a second entry for the same source and type", func(t *testing.T) {
		source := accounting.EntrySource{SourceType: "asset", SourceID: uuid.New()}
		require.NoError(t, repo.Save(ctx, newSourcedEntry(t, source, accounting.EntryTypeDisposal, 102)))

		err := repo.Save(ctx, newSourcedEntry(t, source, accounting.EntryTypeDisposal, 103))
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})
}
