package messages

import "DewanRaja/internal/kingdom/entity"

// ActionType tags a player-initiated mutation.
type ActionType string

const (
	ActionAttack   ActionType = "ATTACK"
	ActionBuild    ActionType = "BUILD"
	ActionTrain    ActionType = "TRAIN"
	ActionResearch ActionType = "RESEARCH"
)

// KingdomAction is the single entry message for all mutations against one
// kingdom. Payload stays loose at the transport edge; the dispatcher
// decodes it into the typed payload for the action kind before any
// handler sees it.
type KingdomAction struct {
	Type      ActionType
	KingdomID entity.KingdomID
	Payload   map[string]any
}

// ActionResult is the uniform success/failure contract every handler
// returns; errors travel inside Result under "error", never as panics.
type ActionResult struct {
	Success bool
	Result  map[string]any
}

func OK(result map[string]any) *ActionResult {
	if result == nil {
		result = map[string]any{}
	}
	return &ActionResult{Success: true, Result: result}
}

func Fail(reason string) *ActionResult {
	return &ActionResult{Success: false, Result: map[string]any{"error": reason}}
}

// AttackPayload orders troops (and optionally spies) against a target.
// DelayHours postpones departure.
type AttackPayload struct {
	TargetKingdomID string         `mapstructure:"targetKingdomId"`
	Troops          map[string]int `mapstructure:"troops"`
	Spies           map[string]int `mapstructure:"spies"`
	DelayHours      float64        `mapstructure:"attackTime"`
}

// BuildPayload upgrades an existing building or constructs a new one.
type BuildPayload struct {
	BuildingID   string `mapstructure:"buildingId"`
	BuildingType string `mapstructure:"buildingType"`
}

// TrainPayload queues units on one troop line.
type TrainPayload struct {
	TroopType string `mapstructure:"troopType"`
	Count     int    `mapstructure:"count"`
}

// ResearchPayload advances one research track.
type ResearchPayload struct {
	Technology string `mapstructure:"technology"`
}

// LoadState asks the kingdom actor for a copy of the current snapshot.
type LoadState struct {
	KingdomID entity.KingdomID
}

// StateSnapshot is the actor's reply to LoadState.
type StateSnapshot struct {
	View  *entity.StateView
	Found bool
}

// FlushNow forces a persist of dirty state (shutdown path).
type FlushNow struct{}

// FlushDone acknowledges a FlushNow.
type FlushDone struct{}
