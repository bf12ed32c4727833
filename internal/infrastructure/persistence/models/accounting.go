package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/timax/backend/internal/domain/accounting"
)

// AccountCategoryModel is the persistence model for account categories.
type AccountCategoryModel struct {
	ID          uuid.UUID              `gorm:"type:uuid;primary_key"`
	Name        string                 `gorm:"type:varchar(100);not null"`
	AccountType accounting.AccountType `gorm:"type:varchar(20);not null;index"`
	Description string                 `gorm:"type:varchar(500)"`
	CreatedAt   time.Time              `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AccountCategoryModel) TableName() string {
	return "account_categories"
}

// ToDomain converts the persistence model to a domain AccountCategory.
func (m *AccountCategoryModel) ToDomain() *accounting.AccountCategory {
	return &accounting.AccountCategory{
		ID:          m.ID,
		Name:        m.Name,
		AccountType: m.AccountType,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
	}
}

// AccountCategoryModelFromDomain creates a new persistence model from domain.
func AccountCategoryModelFromDomain(c *accounting.AccountCategory) *AccountCategoryModel {
	return &AccountCategoryModel{
		ID:          c.ID,
		Name:        c.Name,
		AccountType: c.AccountType,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}

// AccountModel is the persistence model for the Account aggregate root.
type AccountModel struct {
	AggregateModel
	Code          string                 `gorm:"type:varchar(20);not null;uniqueIndex:idx_account_code"`
	Name          string                 `gorm:"type:varchar(100);not null"`
	AccountType   accounting.AccountType `gorm:"type:varchar(20);not null;index"`
	CategoryID    *uuid.UUID             `gorm:"type:uuid;index"`
	Description   string                 `gorm:"type:varchar(500)"`
	DebitBalance  decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	CreditBalance decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	Balance       decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	IsActive      bool                   `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account entity.
func (m *AccountModel) ToDomain() *accounting.Account {
	return &accounting.Account{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Code:              m.Code,
		Name:              m.Name,
		AccountType:       m.AccountType,
		CategoryID:        m.CategoryID,
		Description:       m.Description,
		DebitBalance:      m.DebitBalance,
		CreditBalance:     m.CreditBalance,
		Balance:           m.Balance,
		IsActive:          m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Account entity.
func (m *AccountModel) FromDomain(a *accounting.Account) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.Code = a.Code
	m.Name = a.Name
	m.AccountType = a.AccountType
	m.CategoryID = a.CategoryID
	m.Description = a.Description
	m.DebitBalance = a.DebitBalance
	m.CreditBalance = a.CreditBalance
	m.Balance = a.Balance
	m.IsActive = a.IsActive
}

// AccountModelFromDomain creates a new persistence model from domain.
func AccountModelFromDomain(a *accounting.Account) *AccountModel {
	m := &AccountModel{}
	m.FromDomain(a)
	return m
}

// JournalLineModel is the persistence model for one debit or credit line.
// Lines are immutable once their entry is created.
type JournalLineModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	EntryID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Debit     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Credit    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Memo      string          `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (JournalLineModel) TableName() string {
	return "journal_lines"
}

// ToDomain converts the persistence model to a domain JournalLine.
func (m *JournalLineModel) ToDomain() accounting.JournalLine {
	return accounting.JournalLine{
		ID:        m.ID,
		EntryID:   m.EntryID,
		AccountID: m.AccountID,
		Debit:     m.Debit,
		Credit:    m.Credit,
		Memo:      m.Memo,
	}
}

// JournalEntryModel is the persistence model for the JournalEntry
// aggregate root. The unique index on (entry_year, entry_sequence)
// backs the numbering sequence; the one on (source_type, source_id,
// entry_type) backs idempotent auto-posting.
type JournalEntryModel struct {
	AggregateModel
	EntryNumber     string                 `gorm:"type:varchar(20);not null"`
	EntryYear       int                    `gorm:"not null;uniqueIndex:idx_entry_year_sequence,priority:1"`
	EntrySequence   int                    `gorm:"not null;uniqueIndex:idx_entry_year_sequence,priority:2"`
	EntryDate       time.Time              `gorm:"not null;index"`
	Description     string                 `gorm:"type:varchar(500);not null"`
	EntryType       accounting.EntryType   `gorm:"type:varchar(20);not null;index;uniqueIndex:idx_entry_source,priority:3"`
	Status          accounting.EntryStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	SourceType      *string                `gorm:"type:varchar(50);uniqueIndex:idx_entry_source,priority:1"`
	SourceID        *uuid.UUID             `gorm:"type:uuid;uniqueIndex:idx_entry_source,priority:2"`
	ReversesEntryID *uuid.UUID             `gorm:"type:uuid;index"`
	ReversedByID    *uuid.UUID             `gorm:"type:uuid"`
	PostedAt        *time.Time
	ReversedAt      *time.Time
	Lines           []JournalLineModel `gorm:"foreignKey:EntryID;references:ID"`
}

// TableName returns the table name for GORM
func (JournalEntryModel) TableName() string {
	return "journal_entries"
}

// ToDomain converts the persistence model to a domain JournalEntry entity.
func (m *JournalEntryModel) ToDomain() *accounting.JournalEntry {
	lines := make([]accounting.JournalLine, len(m.Lines))
	for i, line := range m.Lines {
		lines[i] = line.ToDomain()
	}

	var source *accounting.EntrySource
	if m.SourceType != nil && m.SourceID != nil {
		source = &accounting.EntrySource{
			SourceType: *m.SourceType,
			SourceID:   *m.SourceID,
		}
	}

	return &accounting.JournalEntry{
		BaseAggregateRoot: m.ToAggregateRoot(),
		EntryNumber:       m.EntryNumber,
		EntryYear:         m.EntryYear,
		EntrySequence:     m.EntrySequence,
		EntryDate:         m.EntryDate,
		Description:       m.Description,
		EntryType:         m.EntryType,
		Status:            m.Status,
		Lines:             lines,
		Source:            source,
		ReversesEntryID:   m.ReversesEntryID,
		ReversedByID:      m.ReversedByID,
		PostedAt:          m.PostedAt,
		ReversedAt:        m.ReversedAt,
	}
}

// FromDomain populates the persistence model from a domain JournalEntry entity.
func (m *JournalEntryModel) FromDomain(je *accounting.JournalEntry) {
	m.FromDomainAggregateRoot(je.BaseAggregateRoot)
	m.EntryNumber = je.EntryNumber
	m.EntryYear = je.EntryYear
	m.EntrySequence = je.EntrySequence
	m.EntryDate = je.EntryDate
	m.Description = je.Description
	m.EntryType = je.EntryType
	m.Status = je.Status
	if je.Source != nil {
		sourceType := je.Source.SourceType
		sourceID := je.Source.SourceID
		m.SourceType = &sourceType
		m.SourceID = &sourceID
	} else {
		m.SourceType = nil
		m.SourceID = nil
	}
	m.ReversesEntryID = je.ReversesEntryID
	m.ReversedByID = je.ReversedByID
	m.PostedAt = je.PostedAt
	m.ReversedAt = je.ReversedAt

	m.Lines = make([]JournalLineModel, len(je.Lines))
	for i, line := range je.Lines {
		m.Lines[i] = JournalLineModel{
			ID:        line.ID,
			EntryID:   je.ID,
			AccountID: line.AccountID,
			Debit:     line.Debit,
			Credit:    line.Credit,
			Memo:      line.Memo,
		}
	}
}

// JournalEntryModelFromDomain creates a new persistence model from domain.
func JournalEntryModelFromDomain(je *accounting.JournalEntry) *JournalEntryModel {
	m := &JournalEntryModel{}
	m.FromDomain(je)
	return m
}
