package model

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

// init ensures gofakeit is seeded.
func init() {
	gofakeit.Seed(time.Now().UnixNano())
}

// NewLeadRow creates a CSV row keyed by column name with fake data for every
// required column. Overrides are applied verbatim, so an empty string blanks
// a column.
func NewLeadRow(overrides ...map[string]string) map[string]string {
	first, last := gofakeit.FirstName(), gofakeit.LastName()
	row := map[string]string{
		ColPropertyAddressLine1: gofakeit.Street(),
		ColPropertyAddressLine2: gofakeit.RandomString([]string{"", "Apt " + gofakeit.Numerify("##"), "Unit " + gofakeit.Letter()}),
		ColPropertyCity:         gofakeit.City(),
		ColPropertyState:        gofakeit.StateAbr(),
		ColPropertyZip:          gofakeit.Zip(),
		ColPropertyLat:          fmt.Sprintf("%.6f", gofakeit.Latitude()),
		ColPropertyLng:          fmt.Sprintf("%.6f", gofakeit.Longitude()),
		ColOwner1FirstName:      first,
		ColOwner1LastName:       last,
		ColOwner1Name:           first + " " + last,
		ColOwner2FirstName:      "",
		ColOwner2LastName:       "",
		ColOwner2Name:           "",
		ColOwnerAddressLine1:    gofakeit.Street(),
		ColOwnerCity:            gofakeit.City(),
		ColOwnerState:           gofakeit.StateAbr(),
		ColOwnerZip:             gofakeit.Zip(),
		ColLeadID:               gofakeit.UUID(),
		ColContact1Phone1:       gofakeit.Numerify("555-###-####"),
		ColContact1Phone2:       gofakeit.Numerify("555-###-####"),
		ColContact1Phone3:       "",
		ColContact2Phone1:       "",
		ColContact2Phone2:       "",
		ColContact2Phone3:       gofakeit.Numerify("555-###-####"),
	}

	for _, ovr := range overrides {
		for k, v := range ovr {
			row[k] = v
		}
	}
	return row
}

// LeadRecord lays a keyed row out in header order. Columns missing from the
// row come out empty.
func LeadRecord(header []string, row map[string]string) []string {
	record := make([]string, len(header))
	for i, col := range header {
		record[i] = row[col]
	}
	return record
}

// NewAddress creates a new Address instance with default fake data.
func NewAddress(overrideDefaults ...*Address) *Address {
	first, last := gofakeit.FirstName(), gofakeit.LastName()
	base := &Address{
		Street:         gofakeit.Street(),
		MailCity:       gofakeit.City(),
		State:          gofakeit.StateAbr(),
		Zip:            gofakeit.Zip(),
		Latitude:       fmt.Sprintf("%.6f", gofakeit.Latitude()),
		Longitude:      fmt.Sprintf("%.6f", gofakeit.Longitude()),
		FullName:       first + " " + last,
		FName:          first,
		LName:          last,
		MailingAddress: gofakeit.Street(),
		MailingCity:    gofakeit.City(),
		MailingState:   gofakeit.StateAbr(),
		MailingZip:     gofakeit.Zip(),
		Flag:           int64(gofakeit.Number(1, 500)),
		DMID:           gofakeit.UUID(),
		Via:            ViaDefault,
		MapImageURL:    MapImageURLDefault,
	}

	if len(overrideDefaults) > 0 && overrideDefaults[0] != nil {
		ovr := overrideDefaults[0]
		if ovr.DMID != "" {
			base.DMID = ovr.DMID
		}
		if ovr.FName != "" {
			base.FName = ovr.FName
		}
		if ovr.Flag != 0 {
			base.Flag = ovr.Flag
		}
		if ovr.Via != 0 {
			base.Via = ovr.Via
		}
		if ovr.MapImageURL != "" {
			base.MapImageURL = ovr.MapImageURL
		}
	}
	return base
}
