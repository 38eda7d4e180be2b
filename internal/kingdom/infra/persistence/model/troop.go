package model

import "time"

// Troop is one unit-line row in the troops table.
type Troop struct {
	ID             string     `gorm:"column:id;type:varchar(64);primaryKey;not null;" json:"id"`
	KingdomID      string     `gorm:"column:kingdom_id;type:varchar(64);not null;index;" json:"kingdom_id"`
	Type           string     `gorm:"column:type;type:varchar(32);not null;" json:"type"`
	Count          int        `gorm:"column:count;type:int;not null;default:0;" json:"count"`
	Power          int        `gorm:"column:power;type:int;not null;default:1;" json:"power"`
	Speed          int        `gorm:"column:speed;type:int;not null;default:1;" json:"speed"`
	Status         string     `gorm:"column:training_status;type:varchar(16);not null;default:idle;" json:"training_status"`
	CompletionTime *time.Time `gorm:"column:completion_time;type:timestamp;default:NULL;" json:"completion_time"`
	Pending        int        `gorm:"column:pending;type:int;not null;default:0;" json:"pending"`
}

func (t *Troop) TableName() string {
	return "troops"
}
