package entity

import "time"

// KingdomID is the store row id of a kingdom.
type KingdomID string

// Location is a position on the world grid.
type Location struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Kingdom is a player's settlement: the ownership root for resources,
// buildings and troops.
type Kingdom struct {
	ID        KingdomID `json:"id"`
	UserID    int64     `json:"userId"`
	Name      string    `json:"name"`
	Race      string    `json:"race"`
	Strength  int       `json:"strength"`
	Location  Location  `json:"location"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
