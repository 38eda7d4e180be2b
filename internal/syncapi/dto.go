package syncapi

import "encoding/json"

// stateRequest is the wire envelope of POST /api/state.
type stateRequest struct {
	Action string          `json:"action"` // "sync" or "fetch"
	Data   json.RawMessage `json:"data"`
}

// syncData carries the partial rows a client pushes. Only whitelisted
// fields are applied; everything else on a row is ignored.
type syncData struct {
	KingdomID string        `json:"kingdomId"`
	Resources []resourceRow `json:"resources"`
	Buildings []buildingRow `json:"buildings"`
	Troops    []troopRow    `json:"troops"`
}

type resourceRow struct {
	ID     string  `json:"id"`
	Amount float64 `json:"amount"`
}

type buildingRow struct {
	ID             string `json:"id"`
	Level          int    `json:"level"`
	Status         string `json:"constructionStatus"`
	CompletionTime *int64 `json:"completionTime"` // epoch ms, null when idle
}

type troopRow struct {
	ID             string `json:"id"`
	Count          int    `json:"count"`
	Status         string `json:"trainingStatus"`
	CompletionTime *int64 `json:"completionTime"`
}

type fetchData struct {
	KingdomID string `json:"kingdomId"`
}

// rowOutcome is one ledger line of a sync response: every pushed row
// reports individually, failures never abort the batch.
type rowOutcome struct {
	ID    string `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type syncLedger struct {
	Resources []rowOutcome `json:"resources,omitempty"`
	Buildings []rowOutcome `json:"buildings,omitempty"`
	Troops    []rowOutcome `json:"troops,omitempty"`
}
