package model

import "time"

// Building is one structure row in the buildings table. CompletionTime is
// NULL exactly when the building is idle.
type Building struct {
	ID             string     `gorm:"column:id;type:varchar(64);primaryKey;not null;" json:"id"`
	KingdomID      string     `gorm:"column:kingdom_id;type:varchar(64);not null;index;" json:"kingdom_id"`
	Type           string     `gorm:"column:type;type:varchar(32);not null;" json:"type"`
	Level          int        `gorm:"column:level;type:int;not null;default:1;" json:"level"`
	Status         string     `gorm:"column:construction_status;type:varchar(16);not null;default:idle;" json:"construction_status"`
	CompletionTime *time.Time `gorm:"column:completion_time;type:timestamp;default:NULL;" json:"completion_time"`
	Health         int        `gorm:"column:health;type:int;not null;default:100;" json:"health"`
}

func (b *Building) TableName() string {
	return "buildings"
}
