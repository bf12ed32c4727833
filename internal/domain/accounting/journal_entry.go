package accounting

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/timax/backend/internal/domain/shared"
)

// EntryStatus represents the lifecycle state of a journal entry
type EntryStatus string

const (
	EntryStatusDraft    EntryStatus = "DRAFT"    // Editable, no balance effect
	EntryStatusPosted   EntryStatus = "POSTED"   // Applied to account balances
	EntryStatusReversed EntryStatus = "REVERSED" // Undone by a linked reversal entry
)

// IsValid checks if the status is a valid EntryStatus
func (s EntryStatus) IsValid() bool {
	switch s {
	case EntryStatusDraft, EntryStatusPosted, EntryStatusReversed:
		return true
	}
	return false
}

// String returns the string representation of EntryStatus
func (s EntryStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the entry can no longer change state
func (s EntryStatus) IsTerminal() bool {
	return s == EntryStatusReversed
}

// CanTransitionTo checks whether the status may move to target
func (s EntryStatus) CanTransitionTo(target EntryStatus) bool {
	switch s {
	case EntryStatusDraft:
		return target == EntryStatusPosted
	case EntryStatusPosted:
		return target == EntryStatusReversed
	}
	return false
}

// EntryType classifies what kind of business event produced the entry
type EntryType string

const (
	EntryTypeManual       EntryType = "MANUAL"
	EntryTypeSale         EntryType = "SALE"
	EntryTypePurchase     EntryType = "PURCHASE"
	EntryTypeDepreciation EntryType = "DEPRECIATION"
	EntryTypeDisposal     EntryType = "DISPOSAL"
	EntryTypeAdjustment   EntryType = "ADJUSTMENT"
)

// IsValid checks if the type is a valid EntryType
func (t EntryType) IsValid() bool {
	switch t {
	case EntryTypeManual, EntryTypeSale, EntryTypePurchase,
		EntryTypeDepreciation, EntryTypeDisposal, EntryTypeAdjustment:
		return true
	}
	return false
}

// String returns the string representation of EntryType
func (t EntryType) String() string {
	return string(t)
}

// EntrySource links an automatic journal entry back to the record that
// produced it. Together with the entry type it forms a unique key, so
// retried operations cannot double-post.
type EntrySource struct {
	SourceType string    `json:"source_type"` // e.g. "asset"
	SourceID   uuid.UUID `json:"source_id"`
}

// JournalLine is a single debit or credit against one account.
// Exactly one of Debit and Credit is non-zero.
type JournalLine struct {
	ID        uuid.UUID       `json:"id"`
	EntryID   uuid.UUID       `json:"entry_id"`
	AccountID uuid.UUID       `json:"account_id"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo"`
}

// NewDebitLine creates a line debiting the given account
func NewDebitLine(accountID uuid.UUID, amount decimal.Decimal, memo string) (JournalLine, error) {
	return newLine(accountID, amount, decimal.Zero, memo)
}

// NewCreditLine creates a line crediting the given account
func NewCreditLine(accountID uuid.UUID, amount decimal.Decimal, memo string) (JournalLine, error) {
	return newLine(accountID, decimal.Zero, amount, memo)
}

// NewLine creates a line carrying the given amounts. Exactly one of
// debit and credit must be positive.
func NewLine(accountID uuid.UUID, debit, credit decimal.Decimal, memo string) (JournalLine, error) {
	return newLine(accountID, debit, credit, memo)
}

func newLine(accountID uuid.UUID, debit, credit decimal.Decimal, memo string) (JournalLine, error) {
	line := JournalLine{
		ID:        uuid.New(),
		AccountID: accountID,
		Debit:     debit,
		Credit:    credit,
		Memo:      memo,
	}
	if err := line.Validate(); err != nil {
		return JournalLine{}, err
	}
	return line, nil
}

// Validate enforces the single-sided line rule: exactly one of
// debit and credit is positive, the other is zero.
func (l JournalLine) Validate() error {
	if l.AccountID == uuid.Nil {
		return shared.NewDomainError("INVALID_LINE_ACCOUNT", "Line account ID cannot be empty")
	}
	if l.Debit.IsNegative() || l.Credit.IsNegative() {
		return shared.NewDomainError("INVALID_LINE_AMOUNT", "Line amounts cannot be negative")
	}
	debitSet := l.Debit.IsPositive()
	creditSet := l.Credit.IsPositive()
	if debitSet == creditSet {
		return shared.NewDomainError("INVALID_LINE_AMOUNT", "Exactly one of debit and credit must be positive")
	}
	return nil
}

// Inverse returns a new line with debit and credit swapped
func (l JournalLine) Inverse() JournalLine {
	return JournalLine{
		ID:        uuid.New(),
		AccountID: l.AccountID,
		Debit:     l.Credit,
		Credit:    l.Debit,
		Memo:      l.Memo,
	}
}

// JournalEntry represents a journal entry aggregate root.
// An entry is a balanced set of debit/credit lines that moves
// account balances when posted.
type JournalEntry struct {
	shared.BaseAggregateRoot
	EntryNumber     string        `json:"entry_number"`
	EntryYear       int           `json:"entry_year"`
	EntrySequence   int           `json:"entry_sequence"`
	EntryDate       time.Time     `json:"entry_date"`
	Description     string        `json:"description"`
	EntryType       EntryType     `json:"entry_type"`
	Status          EntryStatus   `json:"status"`
	Lines           []JournalLine `json:"lines"`
	Source          *EntrySource  `json:"source"`
	ReversesEntryID *uuid.UUID    `json:"reverses_entry_id"`
	ReversedByID    *uuid.UUID    `json:"reversed_by_id"`
	PostedAt        *time.Time    `json:"posted_at"`
	ReversedAt      *time.Time    `json:"reversed_at"`
}

// FormatEntryNumber renders an entry number as {year}-{sequence}
// with the sequence zero-padded to six digits, e.g. 2025-000001
func FormatEntryNumber(year, sequence int) string {
	return fmt.Sprintf("%d-%06d", year, sequence)
}

// NewJournalEntry creates a new draft journal entry. At least one line
// is required; the entry does not have to balance until it is posted.
func NewJournalEntry(entryDate time.Time, description string, entryType EntryType, lines []JournalLine, source *EntrySource) (*JournalEntry, error) {
	if entryDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_ENTRY_DATE", "Entry date cannot be empty")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Entry description cannot be empty")
	}
	if !entryType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENTRY_TYPE", fmt.Sprintf("Entry type %q is not valid", entryType))
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_ENTRY", "Journal entry must have at least one line")
	}
	if source != nil && (source.SourceType == "" || source.SourceID == uuid.Nil) {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Entry source type and ID cannot be empty")
	}

	je := &JournalEntry{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		EntryDate:         entryDate,
		Description:       description,
		EntryType:         entryType,
		Status:            EntryStatusDraft,
		Lines:             make([]JournalLine, 0, len(lines)),
		Source:            source,
	}

	for _, line := range lines {
		if err := line.Validate(); err != nil {
			return nil, err
		}
		line.EntryID = je.ID
		je.Lines = append(je.Lines, line)
	}

	je.AddDomainEvent(NewJournalEntryCreatedEvent(je))

	return je, nil
}

// AssignNumber assigns the year-scoped sequence number. Called once
// by the service that owns the numbering sequence.
func (je *JournalEntry) AssignNumber(year, sequence int) error {
	if je.EntryNumber != "" {
		return shared.NewDomainError("INVALID_STATE", "Entry number is already assigned")
	}
	if sequence < 1 {
		return shared.NewDomainError("INVALID_SEQUENCE", "Entry sequence must be positive")
	}

	je.EntryYear = year
	je.EntrySequence = sequence
	je.EntryNumber = FormatEntryNumber(year, sequence)

	return nil
}

// TotalDebits returns the sum of all debit amounts
func (je *JournalEntry) TotalDebits() decimal.Decimal {
	total := decimal.Zero
	for _, line := range je.Lines {
		total = total.Add(line.Debit)
	}
	return total
}

// TotalCredits returns the sum of all credit amounts
func (je *JournalEntry) TotalCredits() decimal.Decimal {
	total := decimal.Zero
	for _, line := range je.Lines {
		total = total.Add(line.Credit)
	}
	return total
}

// TotalAmount returns the entry total, defined as the debit-side sum
func (je *JournalEntry) TotalAmount() decimal.Decimal {
	return je.TotalDebits()
}

// IsBalanced returns true if total debits equal total credits
func (je *JournalEntry) IsBalanced() bool {
	return je.TotalDebits().Equal(je.TotalCredits())
}

// Post marks the entry as posted. The entry must be a balanced draft.
// The caller applies the lines to account balances in the same
// transaction.
func (je *JournalEntry) Post(postedAt time.Time) error {
	if !je.Status.CanTransitionTo(EntryStatusPosted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot post journal entry in %s status", je.Status))
	}
	if !je.IsBalanced() {
		return shared.NewDomainError("UNBALANCED_ENTRY",
			fmt.Sprintf("Debits %s do not equal credits %s", je.TotalDebits().StringFixed(2), je.TotalCredits().StringFixed(2)))
	}

	je.Status = EntryStatusPosted
	je.PostedAt = &postedAt
	je.UpdatedAt = time.Now()
	je.IncrementVersion()

	je.AddDomainEvent(NewJournalEntryPostedEvent(je))

	return nil
}

// BuildReversal creates a new draft entry with every line inverted,
// linked back to this entry. Only posted entries can be reversed.
func (je *JournalEntry) BuildReversal(entryDate time.Time, description string) (*JournalEntry, error) {
	if je.Status != EntryStatusPosted {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reverse journal entry in %s status", je.Status))
	}
	if description == "" {
		description = fmt.Sprintf("Reversal of %s", je.EntryNumber)
	}

	lines := make([]JournalLine, 0, len(je.Lines))
	for _, line := range je.Lines {
		lines = append(lines, line.Inverse())
	}

	reversal, err := NewJournalEntry(entryDate, description, EntryTypeAdjustment, lines, nil)
	if err != nil {
		return nil, err
	}
	entryID := je.ID
	reversal.ReversesEntryID = &entryID

	return reversal, nil
}

// MarkReversed records that a reversal entry has been posted against
// this entry.
func (je *JournalEntry) MarkReversed(reversalID uuid.UUID, reversedAt time.Time) error {
	if !je.Status.CanTransitionTo(EntryStatusReversed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark journal entry in %s status as reversed", je.Status))
	}

	je.Status = EntryStatusReversed
	je.ReversedByID = &reversalID
	je.ReversedAt = &reversedAt
	je.UpdatedAt = time.Now()
	je.IncrementVersion()

	je.AddDomainEvent(NewJournalEntryReversedEvent(je, reversalID))

	return nil
}

// IsPosted returns true if the entry has been posted
func (je *JournalEntry) IsPosted() bool {
	return je.Status == EntryStatusPosted
}

// IsDraft returns true if the entry is still a draft
func (je *JournalEntry) IsDraft() bool {
	return je.Status == EntryStatusDraft
}
