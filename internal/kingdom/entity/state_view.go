package entity

import "time"

// StateView is a full, detached copy of one kingdom's aggregate, safe to
// hand outside the cache (wire snapshots, sync responses). Mutating a
// view never touches the authoritative state.
type StateView struct {
	Kingdom     Kingdom    `json:"kingdom"`
	Resources   []Resource `json:"resources"`
	Buildings   []Building `json:"buildings"`
	Troops      []Troop    `json:"troops"`
	Attacks     []Attack   `json:"attacks"`
	LastUpdated time.Time  `json:"lastUpdated"`
}

// View deep-copies the aggregate.
func (s *KingdomState) View() *StateView {
	if s == nil || s.Kingdom == nil {
		return nil
	}
	v := &StateView{
		Kingdom:     *s.Kingdom,
		LastUpdated: s.LastUpdated,
	}
	v.Resources = make([]Resource, 0, len(s.Resources))
	for _, r := range s.Resources {
		v.Resources = append(v.Resources, *r)
	}
	v.Buildings = make([]Building, 0, len(s.Buildings))
	for _, b := range s.Buildings {
		cp := *b
		if b.CompletionTime != nil {
			t := *b.CompletionTime
			cp.CompletionTime = &t
		}
		v.Buildings = append(v.Buildings, cp)
	}
	v.Troops = make([]Troop, 0, len(s.Troops))
	for _, t := range s.Troops {
		cp := *t
		if t.CompletionTime != nil {
			ct := *t.CompletionTime
			cp.CompletionTime = &ct
		}
		v.Troops = append(v.Troops, cp)
	}
	v.Attacks = make([]Attack, 0, len(s.Attacks))
	for _, a := range s.Attacks {
		cp := *a
		cp.Troops = cloneIntMap(a.Troops)
		cp.Spies = cloneIntMap(a.Spies)
		if a.Result != nil {
			res := *a.Result
			cp.Result = &res
		}
		v.Attacks = append(v.Attacks, cp)
	}
	return v
}
