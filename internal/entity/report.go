package entity

import "time"

// Report is the fact row produced by ingestion. AttachmentURL, when present,
// is the dedup key: the same URL is never stored twice. Summary and the two
// explanation fields start empty and are filled in later by the review
// generator through the review update operation.
type Report struct {
	ID uint `gorm:"primaryKey" json:"id"`

	WrittenDate    time.Time `gorm:"type:date;not null;index" json:"written_date"`
	Title          string    `gorm:"type:text;not null" json:"title"`
	FairPrice      *int64    `json:"fair_price,omitempty"`
	CurrentPrice   *int64    `json:"current_price,omitempty"`
	ExpectedReturn *float64  `json:"expected_return,omitempty"`
	AttachmentURL  *string   `gorm:"type:varchar(500);index" json:"attachment_url,omitempty"`

	Summary       *string `gorm:"type:text" json:"summary,omitempty"`
	NoviceContent *string `gorm:"type:text" json:"novice_content,omitempty"`
	ExpertContent *string `gorm:"type:text" json:"expert_content,omitempty"`

	StockID    uint   `gorm:"not null;index" json:"stock_id"`
	BrokerID   *uint  `json:"broker_id,omitempty"`
	AuthorID   *uint  `json:"author_id,omitempty"`
	RatingCode string `gorm:"type:varchar(10);not null;default:None" json:"rating_code"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Stock  Stock   `gorm:"foreignKey:StockID" json:"stock,omitempty"`
	Broker *Broker `gorm:"foreignKey:BrokerID" json:"broker,omitempty"`
	Author *Author `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Rating Rating  `gorm:"foreignKey:RatingCode;references:Code" json:"rating,omitempty"`
}

func (Report) TableName() string {
	return "reports"
}
