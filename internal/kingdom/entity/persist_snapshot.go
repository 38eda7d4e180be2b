package entity

import "time"

// KingdomPersistSnapshot is the write unit handed to the async writer:
// only the dirty sections carry rows, and Version lets newer snapshots
// supersede stale ones that failed to persist.
type KingdomPersistSnapshot struct {
	Version   uint64
	KingdomID KingdomID

	SaveKingdom   bool
	SaveResources bool
	SaveBuildings bool
	SaveTroops    bool
	SaveAttacks   bool

	Kingdom   *Kingdom
	Resources []Resource
	Buildings []Building
	Troops    []Troop
	Attacks   []Attack

	LastUpdated time.Time
}
