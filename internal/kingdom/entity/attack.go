package entity

import "time"

// AttackStatus is the attack lifecycle state machine:
// pending -> traveling (implicitly, once StartTime passes) ->
// completed | failed (once CompletionTime passes and resolution runs).
type AttackStatus string

const (
	AttackPending   AttackStatus = "pending"
	AttackTraveling AttackStatus = "traveling"
	AttackCompleted AttackStatus = "completed"
	AttackFailed    AttackStatus = "failed"
)

// AttackResult is filled in once, at resolution; the attack is immutable
// afterwards.
type AttackResult struct {
	Outcome        string         `json:"outcome"` // "victory" or "defeat"
	AttackerPower  int            `json:"attackerPower"`
	DefenderPower  int            `json:"defenderPower"`
	TroopsLost     map[string]int `json:"troopsLost"`
	TroopsReturned map[string]int `json:"troopsReturned"`
}

// Attack is one in-flight or resolved offensive action.
type Attack struct {
	ID              string         `json:"id"`
	SourceKingdomID KingdomID      `json:"sourceKingdomId"`
	TargetKingdomID KingdomID      `json:"targetKingdomId"`
	Troops          map[string]int `json:"troops"`
	Spies           map[string]int `json:"spies,omitempty"`
	Status          AttackStatus   `json:"status"`
	StartTime       time.Time      `json:"startTime"`
	CompletionTime  time.Time      `json:"completionTime"`
	Result          *AttackResult  `json:"result,omitempty"`
}

// StatusAt derives the effective status for an unresolved attack: an
// attack whose start time has passed is traveling even though no tick has
// touched it yet. Resolved attacks keep their terminal status.
func (a *Attack) StatusAt(now time.Time) AttackStatus {
	if a.Status == AttackCompleted || a.Status == AttackFailed {
		return a.Status
	}
	if now.Before(a.StartTime) {
		return AttackPending
	}
	return AttackTraveling
}

// DueForResolution reports whether the attack has arrived and still needs
// its outcome computed.
func (a *Attack) DueForResolution(now time.Time) bool {
	if a.Status == AttackCompleted || a.Status == AttackFailed {
		return false
	}
	return !now.Before(a.CompletionTime)
}

// Resolve records the outcome and moves the attack to its terminal state.
func (a *Attack) Resolve(result AttackResult) {
	r := result
	a.Result = &r
	a.Status = AttackCompleted
}
