package entity

import "time"

// ResourceType is the closed set of resource kinds a kingdom stockpiles.
type ResourceType string

const (
	ResourceGold      ResourceType = "gold"
	ResourceFood      ResourceType = "food"
	ResourceWood      ResourceType = "wood"
	ResourceStone     ResourceType = "stone"
	ResourceIron      ResourceType = "iron"
	ResourceMaterials ResourceType = "materials"
)

// ResourceTypes lists every known kind, in stable order.
var ResourceTypes = []ResourceType{
	ResourceGold, ResourceFood, ResourceWood, ResourceStone, ResourceIron, ResourceMaterials,
}

// Resource is one stockpile row. Amount stays within [0, Capacity] at
// every observation point; both mutators below enforce the clamp.
type Resource struct {
	ID             string       `json:"id"`
	KingdomID      KingdomID    `json:"kingdomId"`
	Type           ResourceType `json:"type"`
	Amount         float64      `json:"amount"`
	Capacity       float64      `json:"capacity"`
	ProductionRate float64      `json:"productionRate"` // per hour
	LastUpdated    time.Time    `json:"lastUpdated"`
}

// Gain adds produced quantity, clamped to capacity. Negative gain is
// ignored; spending goes through Spend.
func (r *Resource) Gain(qty float64) {
	if qty <= 0 {
		return
	}
	r.Amount += qty
	if r.Amount > r.Capacity {
		r.Amount = r.Capacity
	}
}

// Spend deducts cost if the stockpile covers it; reports whether it did.
func (r *Resource) Spend(qty float64) bool {
	if qty < 0 {
		return false
	}
	if r.Amount < qty {
		return false
	}
	r.Amount -= qty
	if r.Amount < 0 {
		r.Amount = 0
	}
	return true
}
