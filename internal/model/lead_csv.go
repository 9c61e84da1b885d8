package model

// Column names of the lead CSV export.
const (
	ColPropertyAddressLine1 = "property_address_line_1"
	ColPropertyAddressLine2 = "property_address_line_2"
	ColPropertyCity         = "property_address_city"
	ColPropertyState        = "property_address_state"
	ColPropertyZip          = "property_address_zipcode"
	ColPropertyLat          = "property_lat"
	ColPropertyLng          = "property_lng"
	ColOwner1FirstName      = "owner_1_firstname"
	ColOwner1LastName       = "owner_1_lastname"
	ColOwner1Name           = "owner_1_name"
	ColOwner2FirstName      = "owner_2_firstname"
	ColOwner2LastName       = "owner_2_lastname"
	ColOwner2Name           = "owner_2_name"
	ColOwnerAddressLine1    = "owner_address_line_1"
	ColOwnerCity            = "owner_address_city"
	ColOwnerState           = "owner_address_state"
	ColOwnerZip             = "owner_address_zip"
	ColLeadID               = "lead_id"
	ColContact1Phone1       = "contact_1_phone1"
	ColContact1Phone2       = "contact_1_phone2"
	ColContact1Phone3       = "contact_1_phone3"
	ColContact2Phone1       = "contact_2_phone1"
	ColContact2Phone2       = "contact_2_phone2"
	ColContact2Phone3       = "contact_2_phone3"
)

// RequiredColumns must all be present in a file's header before any row is
// read. Order is the canonical export order.
var RequiredColumns = []string{
	ColPropertyAddressLine1,
	ColPropertyAddressLine2,
	ColPropertyCity,
	ColPropertyState,
	ColPropertyZip,
	ColPropertyLat,
	ColPropertyLng,
	ColOwner1FirstName,
	ColOwner1LastName,
	ColOwner1Name,
	ColOwner2FirstName,
	ColOwner2LastName,
	ColOwner2Name,
	ColOwnerAddressLine1,
	ColOwnerCity,
	ColOwnerState,
	ColOwnerZip,
	ColLeadID,
	ColContact1Phone1,
	ColContact1Phone2,
	ColContact1Phone3,
	ColContact2Phone1,
	ColContact2Phone2,
	ColContact2Phone3,
}

// PhoneSlotColumns lists, per phone slot, the contact columns in preference order.
var PhoneSlotColumns = [MaxPhones][2]string{
	{ColContact1Phone1, ColContact2Phone1},
	{ColContact1Phone2, ColContact2Phone2},
	{ColContact1Phone3, ColContact2Phone3},
}
