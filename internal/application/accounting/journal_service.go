package accounting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/timax/backend/internal/domain/accounting"
	"github.com/timax/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// JournalService owns journal entry creation, numbering, posting and
// reversal. Every public operation runs as one transaction.
type JournalService struct {
	entries  accounting.JournalEntryRepository
	accounts accounting.AccountRepository
	tx       shared.TransactionManager
	clock    shared.Clock
	logger   *zap.Logger
}

// NewJournalService creates a new JournalService
func NewJournalService(
	entries accounting.JournalEntryRepository,
	accounts accounting.AccountRepository,
	tx shared.TransactionManager,
	clock shared.Clock,
	logger *zap.Logger,
) *JournalService {
	return &JournalService{
		entries:  entries,
		accounts: accounts,
		tx:       tx,
		clock:    clock,
		logger:   logger,
	}
}

// LineInput is one requested debit or credit
type LineInput struct {
	AccountID uuid.UUID
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	Memo      string
}

// CreateEntryRequest describes a new journal entry
type CreateEntryRequest struct {
	EntryDate   time.Time
	Description string
	EntryType   accounting.EntryType
	Lines       []LineInput
	Source      *accounting.EntrySource
}

// CreateEntry creates a draft entry and assigns the next number for
// its year. A concurrent writer racing for the same sequence trips
// the unique index; one retry picks the next free number.
func (s *JournalService) CreateEntry(ctx context.Context, req CreateEntryRequest) (*accounting.JournalEntry, error) {
	lines := make([]accounting.JournalLine, 0, len(req.Lines))
	for _, in := range req.Lines {
		line, err := accounting.NewLine(in.AccountID, in.Debit, in.Credit, in.Memo)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	entry, err := accounting.NewJournalEntry(req.EntryDate, req.Description, req.EntryType, lines, req.Source)
	if err != nil {
		return nil, err
	}

	for _, line := range entry.Lines {
		account, err := s.accounts.FindByID(ctx, line.AccountID)
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("ACCOUNT_NOT_FOUND", fmt.Sprintf("Account %s not found", line.AccountID))
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load account: %w", err)
		}
		if !account.IsActive {
			return nil, shared.NewDomainError("ACCOUNT_INACTIVE", fmt.Sprintf("Account %s is inactive", account.Code))
		}
	}

	year := req.EntryDate.Year()
	err = s.saveNumbered(ctx, entry, year)
	if errors.Is(err, shared.ErrAlreadyExists) {
		s.logger.Warn("entry number collision, retrying",
			zap.Int("year", year),
			zap.Int("sequence", entry.EntrySequence))
		entry.EntryNumber = ""
		err = s.saveNumbered(ctx, entry, year)
	}
	if err != nil {
		return nil, err
	}

	return entry, nil
}

func (s *JournalService) saveNumbered(ctx context.Context, entry *accounting.JournalEntry, year int) error {
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		maxSeq, err := s.entries.MaxSequenceForYear(txCtx, year)
		if err != nil {
			return fmt.Errorf("failed to read entry sequence: %w", err)
		}
		if err := entry.AssignNumber(year, maxSeq+1); err != nil {
			return err
		}
		return s.entries.Save(txCtx, entry)
	})
}

// PostEntry posts a draft entry and applies every line to its account
// balance, all-or-nothing.
func (s *JournalService) PostEntry(ctx context.Context, entryID uuid.UUID) (*accounting.JournalEntry, error) {
	var entry *accounting.JournalEntry
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		entry, err = s.loadEntry(txCtx, entryID)
		if err != nil {
			return err
		}

		if err := entry.Post(s.clock.Now()); err != nil {
			return err
		}
		if err := s.applyLines(txCtx, entry.Lines); err != nil {
			return err
		}
		return s.entries.Save(txCtx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("journal entry posted",
		zap.String("entry_number", entry.EntryNumber),
		zap.String("amount", entry.TotalAmount().StringFixed(2)))

	return entry, nil
}

// ReverseEntry reverses a posted entry: the original line amounts are
// backed out of the account running totals, restoring them to their
// pre-post values, and a linked reversal entry with inverted lines is
// saved as the audit record. The reversal record's lines are not
// applied on top; the decrement is the exact inverse of posting.
func (s *JournalService) ReverseEntry(ctx context.Context, entryID uuid.UUID, description string) (*accounting.JournalEntry, error) {
	var reversal *accounting.JournalEntry
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		entry, err := s.loadEntry(txCtx, entryID)
		if err != nil {
			return err
		}

		reversal, err = entry.BuildReversal(s.clock.Today(), description)
		if err != nil {
			return err
		}

		year := reversal.EntryDate.Year()
		maxSeq, err := s.entries.MaxSequenceForYear(txCtx, year)
		if err != nil {
			return fmt.Errorf("failed to read entry sequence: %w", err)
		}
		if err := reversal.AssignNumber(year, maxSeq+1); err != nil {
			return err
		}

		if err := reversal.Post(s.clock.Now()); err != nil {
			return err
		}
		if err := s.unapplyLines(txCtx, entry.Lines); err != nil {
			return err
		}
		if err := entry.MarkReversed(reversal.ID, s.clock.Now()); err != nil {
			return err
		}

		if err := s.entries.Save(txCtx, reversal); err != nil {
			return err
		}
		return s.entries.Save(txCtx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("journal entry reversed",
		zap.String("entry_id", entryID.String()),
		zap.String("reversal_number", reversal.EntryNumber))

	return reversal, nil
}

// GetEntry loads one entry with its lines
func (s *JournalService) GetEntry(ctx context.Context, entryID uuid.UUID) (*accounting.JournalEntry, error) {
	return s.loadEntry(ctx, entryID)
}

// ListEntries returns a page of entries
func (s *JournalService) ListEntries(ctx context.Context, filter shared.Filter) (*shared.Paginated[accounting.JournalEntry], error) {
	items, err := s.entries.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	total, err := s.entries.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count journal entries: %w", err)
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

func (s *JournalService) loadEntry(ctx context.Context, entryID uuid.UUID) (*accounting.JournalEntry, error) {
	entry, err := s.entries.FindByID(ctx, entryID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewDomainError("ENTRY_NOT_FOUND", "Journal entry not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load journal entry: %w", err)
	}
	return entry, nil
}

// applyLines applies line amounts to the referenced accounts
func (s *JournalService) applyLines(ctx context.Context, lines []accounting.JournalLine) error {
	for _, line := range lines {
		account, err := s.loadLineAccount(ctx, line)
		if err != nil {
			return err
		}
		if err := account.ApplyPosting(line.Debit, line.Credit); err != nil {
			return err
		}
		if err := s.accounts.Save(ctx, account); err != nil {
			return fmt.Errorf("failed to save account %s: %w", account.Code, err)
		}
	}
	return nil
}

// unapplyLines subtracts line amounts from the referenced accounts,
// undoing an earlier applyLines
func (s *JournalService) unapplyLines(ctx context.Context, lines []accounting.JournalLine) error {
	for _, line := range lines {
		account, err := s.loadLineAccount(ctx, line)
		if err != nil {
			return err
		}
		if err := account.UnapplyPosting(line.Debit, line.Credit); err != nil {
			return err
		}
		if err := s.accounts.Save(ctx, account); err != nil {
			return fmt.Errorf("failed to save account %s: %w", account.Code, err)
		}
	}
	return nil
}

func (s *JournalService) loadLineAccount(ctx context.Context, line accounting.JournalLine) (*accounting.Account, error) {
	account, err := s.accounts.FindByID(ctx, line.AccountID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewDomainError("ACCOUNT_NOT_FOUND", fmt.Sprintf("Account %s not found", line.AccountID))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	return account, nil
}

// AutoEntryLine is one line of an automatic entry, addressed by
// account code
type AutoEntryLine struct {
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Memo        string
}

// AutoEntryRequest describes an automatic entry generated by another
// subsystem (asset purchase, depreciation, disposal)
type AutoEntryRequest struct {
	EntryDate   time.Time
	Description string
	EntryType   accounting.EntryType
	Lines       []AutoEntryLine
	Source      accounting.EntrySource
}

// PostAutoEntry idempotently creates and posts an automatic entry.
// If an entry already exists for (source, entry type) it is returned
// unchanged instead of double-posting.
func (s *JournalService) PostAutoEntry(ctx context.Context, req AutoEntryRequest) (*accounting.JournalEntry, error) {
	existing, err := s.entries.FindBySource(ctx, req.Source, req.EntryType)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing entry: %w", err)
	}

	lines := make([]LineInput, 0, len(req.Lines))
	for _, in := range req.Lines {
		account, err := s.accounts.FindByCode(ctx, in.AccountCode)
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("ACCOUNT_NOT_FOUND", fmt.Sprintf("Account with code %s not found", in.AccountCode))
		}
		if err != nil {
			return nil, fmt.Errorf("failed to look up account %s: %w", in.AccountCode, err)
		}
		lines = append(lines, LineInput{
			AccountID: account.ID,
			Debit:     in.Debit,
			Credit:    in.Credit,
			Memo:      in.Memo,
		})
	}

	source := req.Source
	entry, err := s.CreateEntry(ctx, CreateEntryRequest{
		EntryDate:   req.EntryDate,
		Description: req.Description,
		EntryType:   req.EntryType,
		Lines:       lines,
		Source:      &source,
	})
	if err != nil {
		return nil, err
	}

	return s.PostEntry(ctx, entry.ID)
}
