package accounting

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/timax/backend/internal/domain/shared"
)

// Event type constants for the accounting domain
const (
	EventTypeAccountCreated       = "accounting.account.created"
	EventTypeAccountDeactivated   = "accounting.account.deactivated"
	EventTypeJournalEntryCreated  = "accounting.journal_entry.created"
	EventTypeJournalEntryPosted   = "accounting.journal_entry.posted"
	EventTypeJournalEntryReversed = "accounting.journal_entry.reversed"
)

// AccountCreatedEvent is raised when a ledger account is created
type AccountCreatedEvent struct {
	shared.BaseDomainEvent
	Code        string      `json:"code"`
	Name        string      `json:"name"`
	AccountType AccountType `json:"account_type"`
}

// NewAccountCreatedEvent creates a new AccountCreatedEvent
func NewAccountCreatedEvent(a *Account) *AccountCreatedEvent {
	return &AccountCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountCreated, "Account", a.ID),
		Code:            a.Code,
		Name:            a.Name,
		AccountType:     a.AccountType,
	}
}

// AccountDeactivatedEvent is raised when a ledger account is deactivated
type AccountDeactivatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
}

// NewAccountDeactivatedEvent creates a new AccountDeactivatedEvent
func NewAccountDeactivatedEvent(a *Account) *AccountDeactivatedEvent {
	return &AccountDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountDeactivated, "Account", a.ID),
		Code:            a.Code,
	}
}

// JournalEntryCreatedEvent is raised when a draft journal entry is created
type JournalEntryCreatedEvent struct {
	shared.BaseDomainEvent
	Description string `json:"description"`
	LineCount   int    `json:"line_count"`
}

// NewJournalEntryCreatedEvent creates a new JournalEntryCreatedEvent
func NewJournalEntryCreatedEvent(je *JournalEntry) *JournalEntryCreatedEvent {
	return &JournalEntryCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeJournalEntryCreated, "JournalEntry", je.ID),
		Description:     je.Description,
		LineCount:       len(je.Lines),
	}
}

// JournalEntryPostedEvent is raised when a journal entry is posted
type JournalEntryPostedEvent struct {
	shared.BaseDomainEvent
	EntryNumber string          `json:"entry_number"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewJournalEntryPostedEvent creates a new JournalEntryPostedEvent
func NewJournalEntryPostedEvent(je *JournalEntry) *JournalEntryPostedEvent {
	return &JournalEntryPostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeJournalEntryPosted, "JournalEntry", je.ID),
		EntryNumber:     je.EntryNumber,
		TotalAmount:     je.TotalDebits(),
	}
}

// JournalEntryReversedEvent is raised when a posted journal entry is reversed
type JournalEntryReversedEvent struct {
	shared.BaseDomainEvent
	EntryNumber     string    `json:"entry_number"`
	ReversalEntryID uuid.UUID `json:"reversal_entry_id"`
}

// NewJournalEntryReversedEvent creates a new JournalEntryReversedEvent
func NewJournalEntryReversedEvent(je *JournalEntry, reversalID uuid.UUID) *JournalEntryReversedEvent {
	return &JournalEntryReversedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeJournalEntryReversed, "JournalEntry", je.ID),
		EntryNumber:     je.EntryNumber,
		ReversalEntryID: reversalID,
	}
}
