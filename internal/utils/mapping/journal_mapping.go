package mapping

import (
	"github.com/mikopo/ledger_service/internal/core/domain"
	"github.com/mikopo/ledger_service/internal/models"
)

// ToModelJournalEntry converts a domain entry header to its persistence shape.
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:     d.EntryID,
		TenantID:    d.TenantID,
		Reference:   d.Reference,
		Description: d.Description,
		EntryDate:   d.EntryDate,
		Status:      models.EntryStatus(d.Status),
		SourceEvent: d.SourceEvent,
		SourceID:    d.SourceID,
		TotalDebit:  d.TotalDebit,
		TotalCredit: d.TotalCredit,
		PostedBy:    d.PostedBy,
		AuditFields: toModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a persisted entry header to the domain shape.
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:     m.EntryID,
		TenantID:    m.TenantID,
		Reference:   m.Reference,
		Description: m.Description,
		EntryDate:   m.EntryDate,
		Status:      domain.EntryStatus(m.Status),
		SourceEvent: m.SourceEvent,
		SourceID:    m.SourceID,
		TotalDebit:  m.TotalDebit,
		TotalCredit: m.TotalCredit,
		PostedBy:    m.PostedBy,
		AuditFields: toDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalLine converts a domain line to its persistence shape.
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:       d.LineID,
		EntryID:      d.EntryID,
		AccountID:    d.AccountID,
		LineNo:       d.LineNo,
		DebitAmount:  d.DebitAmount,
		CreditAmount: d.CreditAmount,
		Currency:     d.Currency,
		Description:  d.Description,
	}
}

// ToDomainJournalLine converts a persisted line to the domain shape.
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:         m.LineID,
		EntryID:        m.EntryID,
		AccountID:      m.AccountID,
		LineNo:         m.LineNo,
		DebitAmount:    m.DebitAmount,
		CreditAmount:   m.CreditAmount,
		Currency:       m.Currency,
		Description:    m.Description,
		AccountCode:    m.AccountCode,
		AccountName:    m.AccountName,
		EntryReference: m.EntryReference,
		EntryDate:      m.EntryDate,
	}
}

// ToDomainJournalLineSlice converts a slice of persisted lines.
func ToDomainJournalLineSlice(ms []models.JournalLine) []domain.JournalLine {
	ds := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalLine(m)
	}
	return ds
}
