package service

import (
	"DewanRaja/internal/shared/actor/messages"
)

// Validation is the uniform outcome of pre-dispatch input checks.
type Validation struct {
	Valid bool
	Error string
}

func valid() Validation {
	return Validation{Valid: true}
}

func invalid(reason string) Validation {
	return Validation{Valid: false, Error: reason}
}

// ValidateAttack checks an attack order before it reaches the handler:
// a target is required, the troop map must be non-empty with non-negative
// counts, and a spy map (when present) obeys the same constraint.
func ValidateAttack(p messages.AttackPayload) Validation {
	if p.TargetKingdomID == "" {
		return invalid("attack requires a target kingdom")
	}
	if len(p.Troops) == 0 {
		return invalid("attack requires at least one troop type")
	}
	committed := 0
	for troopType, count := range p.Troops {
		if troopType == "" {
			return invalid("troop type must not be empty")
		}
		if count < 0 {
			return invalid("troop counts must be non-negative")
		}
		committed += count
	}
	if committed == 0 {
		return invalid("attack requires at least one committed troop")
	}
	for spyType, count := range p.Spies {
		if spyType == "" {
			return invalid("spy type must not be empty")
		}
		if count < 0 {
			return invalid("spy counts must be non-negative")
		}
	}
	if p.DelayHours < 0 {
		return invalid("attack delay must not be negative")
	}
	return valid()
}

// ValidateBuild requires either an existing building id (upgrade) or a
// building type (new construction).
func ValidateBuild(p messages.BuildPayload) Validation {
	if p.BuildingID == "" && p.BuildingType == "" {
		return invalid("build requires a building id or type")
	}
	return valid()
}

// ValidateTrain requires a troop type and a positive count.
func ValidateTrain(p messages.TrainPayload) Validation {
	if p.TroopType == "" {
		return invalid("train requires a troop type")
	}
	if p.Count <= 0 {
		return invalid("train count must be positive")
	}
	return valid()
}

// ValidateResearch requires a technology name.
func ValidateResearch(p messages.ResearchPayload) Validation {
	if p.Technology == "" {
		return invalid("research requires a technology")
	}
	return valid()
}
