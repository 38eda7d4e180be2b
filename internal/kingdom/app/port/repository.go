package port

import (
	"context"
	"time"

	"DewanRaja/internal/kingdom/entity"
)

// KingdomRepository is the row-store boundary for kingdom state. Both the
// mysql and the mongodb implementations satisfy it; the state cache and
// the sync endpoint only ever see this interface.
type KingdomRepository interface {
	// LoadState assembles the full aggregate: kingdom row, resources,
	// buildings, troops and unresolved attacks. All-or-nothing: any
	// sub-fetch error surfaces as a failure, never a partial state.
	LoadState(ctx context.Context, id entity.KingdomID) (*entity.KingdomState, error)

	// Snapshot persists the dirty sections of one kingdom atomically.
	Snapshot(ctx context.Context, s *entity.KingdomPersistSnapshot) error

	// InsertAttack persists a freshly created attack row immediately; a
	// crash must not lose an attack that already cost troops.
	InsertAttack(ctx context.Context, a entity.Attack) error

	// GetKingdomMeta resolves owner, location and strength without
	// loading the whole aggregate (target resolution, authorization).
	GetKingdomMeta(ctx context.Context, id entity.KingdomID) (KingdomMeta, error)

	// Per-row updates used by the sync endpoint; every update is scoped
	// by both the row id and the kingdom id.
	UpdateResourceRow(ctx context.Context, kingdomID entity.KingdomID, row entity.Resource) error
	UpdateBuildingRow(ctx context.Context, kingdomID entity.KingdomID, row entity.Building) error
	UpdateTroopRow(ctx context.Context, kingdomID entity.KingdomID, row entity.Troop) error

	// TouchKingdom bumps the kingdom's updated_at.
	TouchKingdom(ctx context.Context, id entity.KingdomID, at time.Time) error
}

// KingdomMeta is the slim projection used by authorization and targeting.
type KingdomMeta struct {
	ID       entity.KingdomID
	UserID   int64
	Name     string
	Strength int
	Location entity.Location
}
