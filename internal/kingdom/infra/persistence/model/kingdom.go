package model

import "time"

// Kingdom is the kingdoms table row.
type Kingdom struct {
	ID        string    `gorm:"column:id;type:varchar(64);primaryKey;not null;" json:"id"`
	UserID    int64     `gorm:"column:user_id;type:bigint;not null;index;" json:"user_id"`
	Name      string    `gorm:"column:name;type:varchar(100);not null;" json:"name"`
	Race      string    `gorm:"column:race;type:varchar(32);" json:"race"`
	Strength  int       `gorm:"column:strength;type:int;not null;default:0;" json:"strength"`
	LocationX int       `gorm:"column:location_x;type:int;not null;default:0;" json:"location_x"`
	LocationY int       `gorm:"column:location_y;type:int;not null;default:0;" json:"location_y"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;not null;default:CURRENT_TIMESTAMP;" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp;not null;default:CURRENT_TIMESTAMP;" json:"updated_at"`
}

func (k *Kingdom) TableName() string {
	return "kingdoms"
}
