package services

import (
	"context"

	"github.com/nonprofit-suite/fund_accounting_app/internal/core/domain"
	"github.com/nonprofit-suite/fund_accounting_app/internal/dto"
)

// JournalSvcFacade manages the double-entry journal for an entity.
type JournalSvcFacade interface {
	CreateJournalEntry(ctx context.Context, entityID string, req dto.CreateJournalEntryRequest) (*domain.JournalEntry, error)
	GetJournalEntryByID(ctx context.Context, journalEntryID string) (*domain.JournalEntry, error)
	ListJournalEntriesByEntity(ctx context.Context, entityID string, status *domain.JournalStatus) ([]domain.JournalEntry, error)
	UpdateDraftJournalEntry(ctx context.Context, journalEntryID string, req dto.UpdateJournalEntryRequest) (*domain.JournalEntry, error)
	PostJournalEntry(ctx context.Context, journalEntryID string) (*domain.JournalEntry, error)
	VoidJournalEntry(ctx context.Context, journalEntryID string) (*domain.JournalEntry, error)
	DeleteDraftJournalEntry(ctx context.Context, journalEntryID string) error
}

// TransferSvcFacade coordinates mirrored journal pairs between entities.
type TransferSvcFacade interface {
	CreateTransfer(ctx context.Context, req dto.CreateTransferRequest) (*dto.TransferResponse, error)
	GetMatchingEntry(ctx context.Context, journalEntryID string) (*domain.JournalEntry, error)
}
