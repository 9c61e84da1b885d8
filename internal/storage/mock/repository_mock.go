package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gitlab.com/timkado/api/lead-importer/internal/model"
)

// --- CampaignRepo Mock ---

// CampaignRepoMock mocks the CampaignRepo interface
type CampaignRepoMock struct {
	mock.Mock
}

// EnsureCampaign mocks the EnsureCampaign method
func (m *CampaignRepoMock) EnsureCampaign(ctx context.Context, name string) (*model.Campaign, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Campaign), args.Error(1)
}

// Close mocks the Close method
func (m *CampaignRepoMock) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- LeadRepo Mock ---

// LeadRepoMock mocks the LeadRepo interface
type LeadRepoMock struct {
	mock.Mock
}

// FindDMIDsByFlag mocks the FindDMIDsByFlag method
func (m *LeadRepoMock) FindDMIDsByFlag(ctx context.Context, flag int64) ([]string, error) {
	args := m.Called(ctx, flag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// FindAllPhones mocks the FindAllPhones method
func (m *LeadRepoMock) FindAllPhones(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// InsertBatch mocks the InsertBatch method. The leads slice is copied
// because the caller reuses its batch buffer after the call returns.
func (m *LeadRepoMock) InsertBatch(ctx context.Context, leads []model.Lead) (int, error) {
	snapshot := append([]model.Lead(nil), leads...)
	args := m.Called(ctx, snapshot)
	return args.Int(0), args.Error(1)
}

// Close mocks the Close method
func (m *LeadRepoMock) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
