package usecase

import (
	"gitlab.com/timkado/api/lead-importer/internal/model"
)

// pickFirst returns the first non-empty value.
func pickFirst(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// extractAddress maps one record onto an address row. Each owner name field
// falls back to owner 2 only when owner 1's value is empty. The caller checks
// FName and fills DMID and Flag.
func extractAddress(h HeaderIndex, record []string, meta FileMeta) model.Address {
	return model.Address{
		Street:         h.Get(record, model.ColPropertyAddressLine1),
		UnitNum:        h.Get(record, model.ColPropertyAddressLine2),
		MailCity:       h.Get(record, model.ColPropertyCity),
		State:          h.Get(record, model.ColPropertyState),
		Zip:            h.Get(record, model.ColPropertyZip),
		Latitude:       h.Get(record, model.ColPropertyLat),
		Longitude:      h.Get(record, model.ColPropertyLng),
		FullName:       pickFirst(h.Get(record, model.ColOwner1Name), h.Get(record, model.ColOwner2Name)),
		FName:          pickFirst(h.Get(record, model.ColOwner1FirstName), h.Get(record, model.ColOwner2FirstName)),
		LName:          pickFirst(h.Get(record, model.ColOwner1LastName), h.Get(record, model.ColOwner2LastName)),
		MailingAddress: h.Get(record, model.ColOwnerAddressLine1),
		MailingCity:    h.Get(record, model.ColOwnerCity),
		MailingState:   h.Get(record, model.ColOwnerState),
		MailingZip:     h.Get(record, model.ColOwnerZip),
		Via:            meta.Via(),
		MapImageURL:    meta.MapImageURL(),
	}
}

// phoneCandidates returns the present phone of each slot in slot order,
// preferring contact 1 over contact 2.
func phoneCandidates(h HeaderIndex, record []string) []string {
	candidates := make([]string, 0, model.MaxPhones)
	for _, slot := range model.PhoneSlotColumns {
		if p := pickFirst(h.Get(record, slot[0]), h.Get(record, slot[1])); p != "" {
			candidates = append(candidates, p)
		}
	}
	return candidates
}
