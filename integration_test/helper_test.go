//go:build integration

package integration_test

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"gitlab.com/timkado/api/lead-importer/internal/model"
)

// lead builds a row with fixed lead id and contact 1 phones; other columns are fake.
func lead(leadID, firstName string, phones ...string) map[string]string {
	row := model.NewLeadRow(map[string]string{
		model.ColLeadID:          leadID,
		model.ColOwner1FirstName: firstName,
		model.ColContact1Phone1:  "",
		model.ColContact1Phone2:  "",
		model.ColContact1Phone3:  "",
		model.ColContact2Phone1:  "",
		model.ColContact2Phone2:  "",
		model.ColContact2Phone3:  "",
	})
	for i, p := range phones {
		row[model.PhoneSlotColumns[i][0]] = p
	}
	return row
}

func (s *ImporterIntegrationSuite) writeUpload(name string, rows ...map[string]string) string {
	path := filepath.Join(s.Upload, name)
	f, err := os.Create(path)
	s.Require().NoError(err)
	defer f.Close()

	w := csv.NewWriter(f)
	s.Require().NoError(w.Write(model.RequiredColumns))
	for _, row := range rows {
		s.Require().NoError(w.Write(model.LeadRecord(model.RequiredColumns, row)))
	}
	w.Flush()
	s.Require().NoError(w.Error())
	return path
}

// phonesByDMID joins each queue row to its address.
func (s *ImporterIntegrationSuite) phonesByDMID() map[string][]string {
	var addresses []model.Address
	s.Require().NoError(s.DB.Find(&addresses).Error)
	byID := make(map[int64]string, len(addresses))
	for _, a := range addresses {
		byID[a.ID] = a.DMID
	}

	var queue []model.PhoneQueue
	s.Require().NoError(s.DB.Find(&queue).Error)
	out := make(map[string][]string, len(queue))
	for _, q := range queue {
		dmid, ok := byID[q.AID]
		s.Require().True(ok, "phonequeue.aid %d points at no address", q.AID)
		s.Equal(model.PhoneQueueStep, q.Step)
		out[dmid] = q.Numbers()
	}
	return out
}

func (s *ImporterIntegrationSuite) count(table string) int64 {
	var n int64
	s.Require().NoError(s.DB.Table(table).Count(&n).Error)
	return n
}
