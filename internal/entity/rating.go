package entity

// Canonical rating codes. The ratings table is a fixed domain seeded by
// migration; ingestion never creates new codes.
const (
	RatingBuy  = "Buy"
	RatingSell = "Sell"
	RatingHold = "Hold"
	RatingNone = "None"
)

// Rating is one of the four canonical rating codes with a display description.
type Rating struct {
	Code        string `gorm:"type:varchar(10);primaryKey" json:"code"`
	Description string `gorm:"type:varchar(100)" json:"description"`

	Reports []Report `gorm:"foreignKey:RatingCode;references:Code" json:"reports,omitempty"`
}

func (Rating) TableName() string {
	return "ratings"
}
