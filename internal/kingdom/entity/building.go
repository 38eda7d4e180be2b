package entity

import "time"

// ConstructionStatus tracks what a building is currently doing.
type ConstructionStatus string

const (
	ConstructionIdle      ConstructionStatus = "idle"
	ConstructionUpgrading ConstructionStatus = "upgrading"
	ConstructionBuilding  ConstructionStatus = "constructing"
)

// Known building types. Unrecognized types are carried through untouched
// so new client content does not break old servers.
const (
	BuildingFarm       = "farm"
	BuildingLumbermill = "lumbermill"
	BuildingMine       = "mine"
	BuildingMarket     = "market"
	BuildingBarracks   = "barracks"
	BuildingAcademy    = "academy"
)

// Building is one structure row. CompletionTime is non-nil exactly when
// the status is not idle.
type Building struct {
	ID             string             `json:"id"`
	KingdomID      KingdomID          `json:"kingdomId"`
	Type           string             `json:"type"`
	Level          int                `json:"level"`
	Status         ConstructionStatus `json:"constructionStatus"`
	CompletionTime *time.Time         `json:"completionTime"`
	Health         int                `json:"health"` // 0-100
}

// BeginUpgrade moves the building into upgrading until doneAt.
func (b *Building) BeginUpgrade(doneAt time.Time) {
	b.Status = ConstructionUpgrading
	t := doneAt
	b.CompletionTime = &t
}

// Active reports whether the building currently contributes production.
func (b *Building) Active() bool {
	return b.Status == ConstructionIdle
}

// CompleteWork applies a finished upgrade/construction and returns the
// building to idle. No-op when nothing is in progress or the completion
// time has not passed.
func (b *Building) CompleteWork(now time.Time) bool {
	if b.Status == ConstructionIdle || b.CompletionTime == nil {
		return false
	}
	if now.Before(*b.CompletionTime) {
		return false
	}
	b.Level++
	b.Status = ConstructionIdle
	b.CompletionTime = nil
	return true
}
