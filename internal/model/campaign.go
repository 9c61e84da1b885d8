package model

// Campaign groups every address imported from files sharing an original name.
// Flag is the dense partition key addresses carry.
type Campaign struct {
	ID            int64  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	CampaignName  string `json:"campaignName" gorm:"column:campaignName;size:255;uniqueIndex"`
	Vertical      int    `json:"vertical" gorm:"column:vertical"`
	TextingActive int    `json:"textingActive" gorm:"column:textingActive"`
	Flag          int64  `json:"flag" gorm:"column:flag"`
	Emoji         string `json:"emoji" gorm:"column:emoji"`
}

// TableName specifies the table name for GORM.
func (Campaign) TableName() string {
	return "campaigns"
}

// Defaults for lazily created campaigns.
const (
	DefaultCampaignVertical      = 1
	DefaultCampaignTextingActive = 0
)

// Emoji is the lookup table new campaigns draw their decoration from.
type Emoji struct {
	E string `json:"e" gorm:"column:e"`
}

// TableName specifies the table name for GORM.
func (Emoji) TableName() string {
	return "emoji"
}
