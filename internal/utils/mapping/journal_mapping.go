package mapping

import (
	"github.com/nonprofit-suite/fund_accounting_app/internal/core/domain"
	"github.com/nonprofit-suite/fund_accounting_app/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry to a model JournalEntry
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		JournalEntryID:        d.JournalEntryID,
		EntityID:              d.EntityID,
		EntryDate:             d.EntryDate,
		ReferenceNumber:       d.ReferenceNumber,
		Description:           d.Description,
		TotalAmount:           d.TotalAmount,
		Status:                string(d.Status),
		IsInterEntity:         d.IsInterEntity,
		TargetEntityID:        d.TargetEntityID,
		MatchingTransactionID: d.MatchingTransactionID,
		ImportID:              d.ImportID,
		AuditFields:           ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		JournalEntryID:        m.JournalEntryID,
		EntityID:              m.EntityID,
		EntryDate:             m.EntryDate,
		ReferenceNumber:       m.ReferenceNumber,
		Description:           m.Description,
		TotalAmount:           m.TotalAmount,
		Status:                domain.JournalStatus(m.Status),
		IsInterEntity:         m.IsInterEntity,
		TargetEntityID:        m.TargetEntityID,
		MatchingTransactionID: m.MatchingTransactionID,
		ImportID:              m.ImportID,
		AuditFields:           ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalEntryLine converts a domain line to a model line
func ToModelJournalEntryLine(d domain.JournalEntryLine) models.JournalEntryLine {
	return models.JournalEntryLine{
		LineID:         d.LineID,
		JournalEntryID: d.JournalEntryID,
		AccountID:      d.AccountID,
		FundID:         d.FundID,
		DebitAmount:    d.DebitAmount,
		CreditAmount:   d.CreditAmount,
		Description:    d.Description,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntryLine converts a model line to a domain line
func ToDomainJournalEntryLine(m models.JournalEntryLine) domain.JournalEntryLine {
	return domain.JournalEntryLine{
		LineID:         m.LineID,
		JournalEntryID: m.JournalEntryID,
		AccountID:      m.AccountID,
		FundID:         m.FundID,
		DebitAmount:    m.DebitAmount,
		CreditAmount:   m.CreditAmount,
		Description:    m.Description,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainJournalEntryLineSlice converts a slice of model lines to domain lines
func ToDomainJournalEntryLineSlice(ms []models.JournalEntryLine) []domain.JournalEntryLine {
	ds := make([]domain.JournalEntryLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalEntryLine(m)
	}
	return ds
}
