package model

import "time"

// Attack is one attack row. Troop/spy commitments and the resolution
// result are stored as JSON text columns.
type Attack struct {
	ID              string    `gorm:"column:id;type:varchar(64);primaryKey;not null;" json:"id"`
	SourceKingdomID string    `gorm:"column:source_kingdom_id;type:varchar(64);not null;index;" json:"source_kingdom_id"`
	TargetKingdomID string    `gorm:"column:target_kingdom_id;type:varchar(64);not null;index;" json:"target_kingdom_id"`
	Troops          string    `gorm:"column:troops;type:json;" json:"troops"`
	Spies           string    `gorm:"column:spies;type:json;" json:"spies"`
	Status          string    `gorm:"column:status;type:varchar(16);not null;default:pending;" json:"status"`
	StartTime       time.Time `gorm:"column:start_time;type:timestamp;not null;" json:"start_time"`
	CompletionTime  time.Time `gorm:"column:completion_time;type:timestamp;not null;" json:"completion_time"`
	Result          string    `gorm:"column:result;type:json;" json:"result"`
}

func (a *Attack) TableName() string {
	return "attacks"
}
