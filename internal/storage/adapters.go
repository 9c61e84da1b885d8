package storage

import (
	"context"

	"gitlab.com/timkado/api/lead-importer/internal/model"
)

// CampaignRepoAdapter adapts the SQLRepo to the CampaignRepo interface
type CampaignRepoAdapter struct {
	sql *SQLRepo
}

// NewCampaignRepoAdapter creates a new campaign repository adapter
func NewCampaignRepoAdapter(sql *SQLRepo) CampaignRepo {
	return &CampaignRepoAdapter{sql: sql}
}

// EnsureCampaign finds or creates a campaign by name
func (a *CampaignRepoAdapter) EnsureCampaign(ctx context.Context, name string) (*model.Campaign, error) {
	return a.sql.EnsureCampaign(ctx, name)
}

func (a *CampaignRepoAdapter) Close(ctx context.Context) error {
	return a.sql.Close(ctx)
}

// LeadRepoAdapter adapts the SQLRepo to the LeadRepo interface
type LeadRepoAdapter struct {
	sql *SQLRepo
}

// NewLeadRepoAdapter creates a new lead repository adapter
func NewLeadRepoAdapter(sql *SQLRepo) LeadRepo {
	return &LeadRepoAdapter{sql: sql}
}

// FindDMIDsByFlag loads the lead ids already imported into a campaign
func (a *LeadRepoAdapter) FindDMIDsByFlag(ctx context.Context, flag int64) ([]string, error) {
	return a.sql.FindDMIDsByFlag(ctx, flag)
}

// FindAllPhones loads every phone already queued
func (a *LeadRepoAdapter) FindAllPhones(ctx context.Context) ([]string, error) {
	return a.sql.FindAllPhones(ctx)
}

// InsertBatch commits one batch of leads
func (a *LeadRepoAdapter) InsertBatch(ctx context.Context, leads []model.Lead) (int, error) {
	return a.sql.InsertBatch(ctx, leads)
}

func (a *LeadRepoAdapter) Close(ctx context.Context) error {
	return a.sql.Close(ctx)
}
