package storage

import (
	"context"

	"gitlab.com/timkado/api/lead-importer/internal/model"
)

// CampaignRepo defines campaign storage operations
type CampaignRepo interface {
	// EnsureCampaign returns the campaign with the given name, creating it
	// with the next free flag when it does not exist yet.
	EnsureCampaign(ctx context.Context, name string) (*model.Campaign, error)
	Close(ctx context.Context) error
}

// LeadRepo defines address and phone queue storage operations
type LeadRepo interface {
	FindDMIDsByFlag(ctx context.Context, flag int64) ([]string, error)
	FindAllPhones(ctx context.Context) ([]string, error)
	// InsertBatch writes the addresses and their phone queue rows in one
	// transaction and returns how many leads were committed.
	InsertBatch(ctx context.Context, leads []model.Lead) (int, error)
	Close(ctx context.Context) error
}
