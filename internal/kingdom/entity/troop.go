package entity

import "time"

// TrainingStatus tracks whether a troop line is producing units.
type TrainingStatus string

const (
	TrainingIdle   TrainingStatus = "idle"
	TrainingActive TrainingStatus = "training"
)

// Troop is one unit-type row of a kingdom's army.
type Troop struct {
	ID             string         `json:"id"`
	KingdomID      KingdomID      `json:"kingdomId"`
	Type           string         `json:"type"`
	Count          int            `json:"count"`
	Power          int            `json:"power"`
	Speed          int            `json:"speed"` // grid cells per hour, governs attack travel time
	Status         TrainingStatus `json:"trainingStatus"`
	CompletionTime *time.Time     `json:"completionTime"`
	// queued units applied when training completes
	Pending int `json:"pending"`
}

// Commit reserves count units for an attack; fails without mutation when
// the line cannot cover the request.
func (t *Troop) Commit(count int) bool {
	if count < 0 || t.Count < count {
		return false
	}
	t.Count -= count
	return true
}

// Refund returns surviving units after an attack resolves.
func (t *Troop) Refund(count int) {
	if count <= 0 {
		return
	}
	t.Count += count
}

// BeginTraining queues count units until doneAt.
func (t *Troop) BeginTraining(count int, doneAt time.Time) bool {
	if count <= 0 || t.Status == TrainingActive {
		return false
	}
	t.Status = TrainingActive
	t.Pending = count
	done := doneAt
	t.CompletionTime = &done
	return true
}

// CompleteTraining folds pending units into the line once due.
func (t *Troop) CompleteTraining(now time.Time) bool {
	if t.Status != TrainingActive || t.CompletionTime == nil {
		return false
	}
	if now.Before(*t.CompletionTime) {
		return false
	}
	t.Count += t.Pending
	t.Pending = 0
	t.Status = TrainingIdle
	t.CompletionTime = nil
	return true
}
