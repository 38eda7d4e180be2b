package model

import "time"

// Resource is one stockpile row in the resources table.
type Resource struct {
	ID             string    `gorm:"column:id;type:varchar(64);primaryKey;not null;" json:"id"`
	KingdomID      string    `gorm:"column:kingdom_id;type:varchar(64);not null;index;" json:"kingdom_id"`
	Type           string    `gorm:"column:type;type:varchar(32);not null;" json:"type"`
	Amount         float64   `gorm:"column:amount;type:double;not null;default:0;" json:"amount"`
	Capacity       float64   `gorm:"column:capacity;type:double;not null;default:0;" json:"capacity"`
	ProductionRate float64   `gorm:"column:production_rate;type:double;not null;default:0;" json:"production_rate"`
	LastUpdated    time.Time `gorm:"column:last_updated;type:timestamp;not null;default:CURRENT_TIMESTAMP;" json:"last_updated"`
}

func (r *Resource) TableName() string {
	return "resources"
}
