package entity

import "time"

// Broker represents a securities firm that published a report. Name is the
// natural key; rows are created on first sighting and immutable afterwards.
type Broker struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Reports []Report `gorm:"foreignKey:BrokerID" json:"reports,omitempty"`
}

func (Broker) TableName() string {
	return "brokers"
}
