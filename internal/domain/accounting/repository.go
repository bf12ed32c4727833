package accounting

import (
	"context"

	"github.com/google/uuid"
	"github.com/timax/backend/internal/domain/shared"
)

// AccountRepository is the repository interface for ledger accounts
type AccountRepository interface {
	shared.Repository[Account]
	FindByCode(ctx context.Context, code string) (*Account, error)
	FindByType(ctx context.Context, accountType AccountType) ([]Account, error)
	FindActive(ctx context.Context) ([]Account, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// AccountCategoryRepository is the repository interface for account categories
type AccountCategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AccountCategory, error)
	FindAll(ctx context.Context) ([]AccountCategory, error)
	Save(ctx context.Context, category *AccountCategory) error
}

// JournalEntryRepository is the repository interface for journal entries
type JournalEntryRepository interface {
	shared.Repository[JournalEntry]
	FindByNumber(ctx context.Context, entryNumber string) (*JournalEntry, error)
	// MaxSequenceForYear returns the highest assigned sequence for the
	// given year, or 0 when the year has no entries yet.
	MaxSequenceForYear(ctx context.Context, year int) (int, error)
	// FindBySource looks up the automatic entry created for a source
	// record, used for idempotent auto-posting.
	FindBySource(ctx context.Context, source EntrySource, entryType EntryType) (*JournalEntry, error)
}
