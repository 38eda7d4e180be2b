package entity

import "time"

// KingdomState is the authoritative in-memory aggregate for one kingdom:
// its row, stockpiles, buildings, troops and unresolved attacks. The state
// cache owns it exclusively while resident; the store is the system of
// record otherwise.
//
// Dirty tracking is per section so the persist snapshot only carries the
// rows that actually changed since the last flush.
type KingdomState struct {
	Kingdom   *Kingdom
	Resources map[ResourceType]*Resource
	Buildings []*Building
	Troops    map[string]*Troop
	Attacks   []*Attack

	LastUpdated time.Time

	dirtyKingdom   bool
	dirtyResources bool
	dirtyBuildings bool
	dirtyTroops    bool
	dirtyAttacks   bool
}

func NewKingdomState(k *Kingdom) *KingdomState {
	return &KingdomState{
		Kingdom:     k,
		Resources:   make(map[ResourceType]*Resource),
		Troops:      make(map[string]*Troop),
		LastUpdated: time.Now(),
	}
}

func (s *KingdomState) ID() KingdomID {
	if s == nil || s.Kingdom == nil {
		return ""
	}
	return s.Kingdom.ID
}

// Mutators mark the owning section dirty; only cache-owned code paths may
// call them.

func (s *KingdomState) MarkKingdomDirty()   { s.dirtyKingdom = true; s.touch() }
func (s *KingdomState) MarkResourcesDirty() { s.dirtyResources = true; s.touch() }
func (s *KingdomState) MarkBuildingsDirty() { s.dirtyBuildings = true; s.touch() }
func (s *KingdomState) MarkTroopsDirty()    { s.dirtyTroops = true; s.touch() }
func (s *KingdomState) MarkAttacksDirty()   { s.dirtyAttacks = true; s.touch() }

func (s *KingdomState) touch() {
	s.LastUpdated = time.Now()
}

func (s *KingdomState) Dirty() bool {
	if s == nil {
		return false
	}
	return s.dirtyKingdom || s.dirtyResources || s.dirtyBuildings || s.dirtyTroops || s.dirtyAttacks
}

func (s *KingdomState) ClearDirty() {
	if s == nil {
		return
	}
	s.dirtyKingdom = false
	s.dirtyResources = false
	s.dirtyBuildings = false
	s.dirtyTroops = false
	s.dirtyAttacks = false
}

// AddAttack appends a new in-flight attack.
func (s *KingdomState) AddAttack(a *Attack) {
	s.Attacks = append(s.Attacks, a)
	s.MarkAttacksDirty()
}

// UnresolvedAttacks returns attacks still pending or traveling.
func (s *KingdomState) UnresolvedAttacks() []*Attack {
	var out []*Attack
	for _, a := range s.Attacks {
		if a.Status != AttackCompleted && a.Status != AttackFailed {
			out = append(out, a)
		}
	}
	return out
}

// BuildPersistSnapshot copies the dirty sections into an immutable
// snapshot for the async writer. Returns false when nothing changed.
func (s *KingdomState) BuildPersistSnapshot(version uint64) (*KingdomPersistSnapshot, bool) {
	if s == nil || !s.Dirty() {
		return nil, false
	}

	snap := &KingdomPersistSnapshot{
		Version:       version,
		KingdomID:     s.ID(),
		SaveKingdom:   s.dirtyKingdom,
		SaveResources: s.dirtyResources,
		SaveBuildings: s.dirtyBuildings,
		SaveTroops:    s.dirtyTroops,
		SaveAttacks:   s.dirtyAttacks,
		LastUpdated:   s.LastUpdated,
	}

	if snap.SaveKingdom && s.Kingdom != nil {
		k := *s.Kingdom
		snap.Kingdom = &k
	}
	if snap.SaveResources {
		snap.Resources = make([]Resource, 0, len(s.Resources))
		for _, r := range s.Resources {
			snap.Resources = append(snap.Resources, *r)
		}
	}
	if snap.SaveBuildings {
		snap.Buildings = make([]Building, 0, len(s.Buildings))
		for _, b := range s.Buildings {
			snap.Buildings = append(snap.Buildings, *b)
		}
	}
	if snap.SaveTroops {
		snap.Troops = make([]Troop, 0, len(s.Troops))
		for _, t := range s.Troops {
			snap.Troops = append(snap.Troops, *t)
		}
	}
	if snap.SaveAttacks {
		snap.Attacks = make([]Attack, 0, len(s.Attacks))
		for _, a := range s.Attacks {
			cp := *a
			cp.Troops = cloneIntMap(a.Troops)
			cp.Spies = cloneIntMap(a.Spies)
			if a.Result != nil {
				res := *a.Result
				cp.Result = &res
			}
			snap.Attacks = append(snap.Attacks, cp)
		}
	}
	return snap, true
}

func cloneIntMap(in map[string]int) map[string]int {
	if in == nil {
		return nil
	}
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
