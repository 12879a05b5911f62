package entity

import "time"

// Author represents an analyst. Name is the natural key.
type Author struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Reports []Report `gorm:"foreignKey:AuthorID" json:"reports,omitempty"`
}

func (Author) TableName() string {
	return "authors"
}
