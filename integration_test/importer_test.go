//go:build integration

package integration_test

import (
	"path/filepath"

	"gitlab.com/timkado/api/lead-importer/internal/model"
)

func (s *ImporterIntegrationSuite) TestImportLinksQueueRowsToTheirAddresses() {
	s.writeUpload("1700000000_skipAI_0_spring.csv",
		lead("L-1", "Ana", "555-0001", "555-0002"),
		lead("L-2", "Bo"),
		lead("L-3", "Cy", "555-0003"),
		lead("L-4", "Di", "555-0004"),
		lead("L-5", "Ed", "555-0005", "555-0006", "555-0007"),
	)

	// Batch size 2 spreads the rows over three transactions.
	summary, err := s.NewImporter(2).Run(s.Ctx)
	s.Require().NoError(err)

	s.Equal(1, summary.Archived)
	s.Equal(5, summary.Inserted)
	s.Equal(int64(5), s.count("address"))
	s.Equal(int64(4), s.count("phonequeue"))
	s.Equal(map[string][]string{
		"L-1": {"555-0001", "555-0002"},
		"L-3": {"555-0003"},
		"L-4": {"555-0004"},
		"L-5": {"555-0005", "555-0006", "555-0007"},
	}, s.phonesByDMID())

	var campaign model.Campaign
	s.Require().NoError(s.DB.Where(map[string]interface{}{"campaignName": "spring"}).First(&campaign).Error)
	s.Equal(int64(1), campaign.Flag)
	s.Equal(model.DefaultCampaignVertical, campaign.Vertical)
	s.Contains([]string{"🚀", "🌷", "⭐"}, campaign.Emoji)

	var addr model.Address
	s.Require().NoError(s.DB.Where(map[string]interface{}{"DMID": "L-2"}).First(&addr).Error)
	s.Equal("Bo", addr.FName)
	s.Equal(int64(1), addr.Flag)
	s.Equal(model.ViaDefault, addr.Via)

	s.FileExists(filepath.Join(s.Processed, "1700000000_skipAI_0_spring.csv"))
}

func (s *ImporterIntegrationSuite) TestRerunSkipsLeadsAndPhonesAlreadyStored() {
	s.writeUpload("1_skipAI_0_list.csv",
		lead("L-1", "Ana", "555-0001"),
		lead("L-2", "Bo", "555-0002"),
	)
	first, err := s.NewImporter(100).Run(s.Ctx)
	s.Require().NoError(err)
	s.Equal(2, first.Inserted)

	// Same campaign re-uploaded with one new lead and one new lead reusing a stored phone.
	s.writeUpload("2_skipAI_1_list.csv",
		lead("L-1", "Ana", "555-0001"),
		lead("L-3", "Cy", "555-0003"),
		lead("L-4", "Di", "555-0002"),
	)
	second, err := s.NewImporter(100).Run(s.Ctx)
	s.Require().NoError(err)

	s.Equal(3, second.RowsRead)
	s.Equal(1, second.Inserted)
	s.Equal(int64(3), s.count("address"))
	s.Equal(int64(1), s.count("campaigns"), "both files share one campaign")

	var addr model.Address
	s.Require().NoError(s.DB.Where(map[string]interface{}{"DMID": "L-3"}).First(&addr).Error)
	s.Equal(model.ViaSkipAI, addr.Via)
	s.Equal(model.MapImageURLSkipAI, addr.MapImageURL)
}

func (s *ImporterIntegrationSuite) TestCampaignsGetConsecutiveFlags() {
	s.writeUpload("1_skipAI_0_alpha.csv", lead("L-1", "Ana", "555-0001"))
	s.writeUpload("2_skipAI_0_beta.csv", lead("L-1", "Ana", "555-0002"))

	summary, err := s.NewImporter(100).Run(s.Ctx)
	s.Require().NoError(err)
	s.Equal(2, summary.Inserted, "lead ids are only unique within a campaign")

	var campaigns []model.Campaign
	s.Require().NoError(s.DB.Order("flag").Find(&campaigns).Error)
	s.Require().Len(campaigns, 2)
	s.Equal("alpha", campaigns[0].CampaignName)
	s.Equal(int64(1), campaigns[0].Flag)
	s.Equal("beta", campaigns[1].CampaignName)
	s.Equal(int64(2), campaigns[1].Flag)
}

func (s *ImporterIntegrationSuite) TestRejectedFileTouchesNothing() {
	s.writeUpload("leads.csv", lead("L-1", "Ana", "555-0001"))

	summary, err := s.NewImporter(100).Run(s.Ctx)
	s.Require().NoError(err)

	s.Equal(1, summary.Rejected)
	s.Zero(s.count("campaigns"))
	s.Zero(s.count("address"))
	s.FileExists(filepath.Join(s.Processed, "leads.csv"))
}
