package model

// Routing values written on every address of a file, driven by the skip-AI
// flag in the file name.
const (
	ViaSkipAI          = 100
	ViaDefault         = 0
	MapImageURLSkipAI  = "google/img/missing.webp"
	MapImageURLDefault = "0"
)

// PhoneQueueStep is the workflow step new phone queue rows start at.
const PhoneQueueStep = 11

// MaxPhones is the number of phone slots on a phone queue row.
const MaxPhones = 3

// Address represents one imported lead in the address table.
type Address struct {
	ID             int64  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Street         string `json:"street" gorm:"column:street"`
	UnitType       string `json:"unit_type" gorm:"column:unit_type"`
	UnitNum        string `json:"unit_num" gorm:"column:unit_num"`
	MailCity       string `json:"mail_city" gorm:"column:mail_city"`
	State          string `json:"state" gorm:"column:state"`
	Zip            string `json:"zip" gorm:"column:zip"`
	Latitude       string `json:"latitude" gorm:"column:latitude"`
	Longitude      string `json:"longitude" gorm:"column:longitude"`
	FullName       string `json:"fullname" gorm:"column:fullname"`
	FName          string `json:"fname" gorm:"column:fname" validate:"required"`
	LName          string `json:"lname" gorm:"column:lname"`
	MailingAddress string `json:"mailingAddress" gorm:"column:mailingAddress"`
	MailingCity    string `json:"mailingCity" gorm:"column:mailingCity"`
	MailingState   string `json:"mailingState" gorm:"column:mailingState"`
	MailingZip     string `json:"mailingZip" gorm:"column:mailingZip"`
	Flag           int64  `json:"flag" gorm:"column:flag;index" validate:"gte=1"`
	DMID           string `json:"DMID" gorm:"column:DMID" validate:"required"`
	Via            int    `json:"via" gorm:"column:via"`
	MapImageURL    string `json:"map_image_url" gorm:"column:map_image_url"`
}

// TableName specifies the table name for GORM.
func (Address) TableName() string {
	return "address"
}

// PhoneQueue is the outreach queue row linked to an address by AID.
type PhoneQueue struct {
	ID     int64   `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	AID    int64   `json:"aid" gorm:"column:aid;index"`
	Phone1 *string `json:"phone1" gorm:"column:phone1"`
	Phone2 *string `json:"phone2" gorm:"column:phone2"`
	Phone3 *string `json:"phone3" gorm:"column:phone3"`
	Step   int     `json:"step" gorm:"column:step"`
}

// TableName specifies the table name for GORM.
func (PhoneQueue) TableName() string {
	return "phonequeue"
}

// Numbers returns the non-null phones in slot order.
func (p PhoneQueue) Numbers() []string {
	out := make([]string, 0, MaxPhones)
	for _, ph := range []*string{p.Phone1, p.Phone2, p.Phone3} {
		if ph != nil && *ph != "" {
			out = append(out, *ph)
		}
	}
	return out
}

// Lead is an accepted CSV row waiting in a batch: the address to insert and
// the novel phone numbers, already packed into the leading slots.
type Lead struct {
	Address Address
	Phones  []string
}

// HasPhones reports whether the lead needs a phone queue row.
func (l Lead) HasPhones() bool {
	return len(l.Phones) > 0
}

// PhoneQueueFor builds the phone queue row pointing at the given address id.
// Phones beyond MaxPhones are ignored.
func (l Lead) PhoneQueueFor(aid int64) PhoneQueue {
	pq := PhoneQueue{AID: aid, Step: PhoneQueueStep}
	slots := []**string{&pq.Phone1, &pq.Phone2, &pq.Phone3}
	for i, ph := range l.Phones {
		if i >= MaxPhones {
			break
		}
		v := ph
		*slots[i] = &v
	}
	return pq
}
