package entity

import "time"

// Stock represents a listed company. Code is the natural key; a ticker is
// created on first sighting during ingestion and never deleted.
type Stock struct {
	ID              uint     `gorm:"primaryKey" json:"id"`
	Code            string   `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"`
	Name            string   `gorm:"type:varchar(100);not null" json:"name"`
	CompanyInfoURL  *string  `gorm:"type:varchar(500)" json:"company_info_url,omitempty"`
	CurrentPrice    *int64   `json:"current_price,omitempty"`
	DailyChangeRate *float64 `json:"daily_change_rate,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Reports []Report `gorm:"foreignKey:StockID" json:"reports,omitempty"`
}

func (Stock) TableName() string {
	return "stocks"
}
