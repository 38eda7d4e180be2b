package model

import (
	"time"

	"DewanRaja/internal/kingdom/entity"
)

// KingdomDoc is the mongodb document shape: one document per kingdom
// with embedded rows. The mysql schema splits the same data over five
// tables; both serve the same repository port.
type KingdomDoc struct {
	ID        string    `bson:"_id"`
	UserID    int64     `bson:"user_id"`
	Name      string    `bson:"name"`
	Race      string    `bson:"race"`
	Strength  int       `bson:"strength"`
	LocationX int       `bson:"location_x"`
	LocationY int       `bson:"location_y"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`

	Resources []ResourceDoc `bson:"resources"`
	Buildings []BuildingDoc `bson:"buildings"`
	Troops    []TroopDoc    `bson:"troops"`
	Attacks   []AttackDoc   `bson:"attacks"`
}

type ResourceDoc struct {
	ID             string    `bson:"id"`
	Type           string    `bson:"type"`
	Amount         float64   `bson:"amount"`
	Capacity       float64   `bson:"capacity"`
	ProductionRate float64   `bson:"production_rate"`
	LastUpdated    time.Time `bson:"last_updated"`
}

type BuildingDoc struct {
	ID             string     `bson:"id"`
	Type           string     `bson:"type"`
	Level          int        `bson:"level"`
	Status         string     `bson:"construction_status"`
	CompletionTime *time.Time `bson:"completion_time,omitempty"`
	Health         int        `bson:"health"`
}

type TroopDoc struct {
	ID             string     `bson:"id"`
	Type           string     `bson:"type"`
	Count          int        `bson:"count"`
	Power          int        `bson:"power"`
	Speed          int        `bson:"speed"`
	Status         string     `bson:"training_status"`
	CompletionTime *time.Time `bson:"completion_time,omitempty"`
	Pending        int        `bson:"pending"`
}

type AttackDoc struct {
	ID              string           `bson:"id"`
	SourceKingdomID string           `bson:"source_kingdom_id"`
	TargetKingdomID string           `bson:"target_kingdom_id"`
	Troops          map[string]int   `bson:"troops,omitempty"`
	Spies           map[string]int   `bson:"spies,omitempty"`
	Status          string           `bson:"status"`
	StartTime       time.Time        `bson:"start_time"`
	CompletionTime  time.Time        `bson:"completion_time"`
	Result          *AttackResultDoc `bson:"result,omitempty"`
}

type AttackResultDoc struct {
	Outcome        string         `bson:"outcome"`
	AttackerPower  int            `bson:"attacker_power"`
	DefenderPower  int            `bson:"defender_power"`
	TroopsLost     map[string]int `bson:"troops_lost,omitempty"`
	TroopsReturned map[string]int `bson:"troops_returned,omitempty"`
}

func ResourceEntityToDoc(e entity.Resource) ResourceDoc {
	return ResourceDoc{
		ID:             e.ID,
		Type:           string(e.Type),
		Amount:         e.Amount,
		Capacity:       e.Capacity,
		ProductionRate: e.ProductionRate,
		LastUpdated:    e.LastUpdated,
	}
}

func (d ResourceDoc) ToEntity(kingdomID entity.KingdomID) *entity.Resource {
	return &entity.Resource{
		ID:             d.ID,
		KingdomID:      kingdomID,
		Type:           entity.ResourceType(d.Type),
		Amount:         d.Amount,
		Capacity:       d.Capacity,
		ProductionRate: d.ProductionRate,
		LastUpdated:    d.LastUpdated,
	}
}

func BuildingEntityToDoc(e entity.Building) BuildingDoc {
	return BuildingDoc{
		ID:             e.ID,
		Type:           e.Type,
		Level:          e.Level,
		Status:         string(e.Status),
		CompletionTime: e.CompletionTime,
		Health:         e.Health,
	}
}

func (d BuildingDoc) ToEntity(kingdomID entity.KingdomID) *entity.Building {
	return &entity.Building{
		ID:             d.ID,
		KingdomID:      kingdomID,
		Type:           d.Type,
		Level:          d.Level,
		Status:         entity.ConstructionStatus(d.Status),
		CompletionTime: d.CompletionTime,
		Health:         d.Health,
	}
}

func TroopEntityToDoc(e entity.Troop) TroopDoc {
	return TroopDoc{
		ID:             e.ID,
		Type:           e.Type,
		Count:          e.Count,
		Power:          e.Power,
		Speed:          e.Speed,
		Status:         string(e.Status),
		CompletionTime: e.CompletionTime,
		Pending:        e.Pending,
	}
}

func (d TroopDoc) ToEntity(kingdomID entity.KingdomID) *entity.Troop {
	return &entity.Troop{
		ID:             d.ID,
		KingdomID:      kingdomID,
		Type:           d.Type,
		Count:          d.Count,
		Power:          d.Power,
		Speed:          d.Speed,
		Status:         entity.TrainingStatus(d.Status),
		CompletionTime: d.CompletionTime,
		Pending:        d.Pending,
	}
}

func AttackEntityToDoc(e entity.Attack) AttackDoc {
	doc := AttackDoc{
		ID:              e.ID,
		SourceKingdomID: string(e.SourceKingdomID),
		TargetKingdomID: string(e.TargetKingdomID),
		Troops:          e.Troops,
		Spies:           e.Spies,
		Status:          string(e.Status),
		StartTime:       e.StartTime,
		CompletionTime:  e.CompletionTime,
	}
	if e.Result != nil {
		doc.Result = &AttackResultDoc{
			Outcome:        e.Result.Outcome,
			AttackerPower:  e.Result.AttackerPower,
			DefenderPower:  e.Result.DefenderPower,
			TroopsLost:     e.Result.TroopsLost,
			TroopsReturned: e.Result.TroopsReturned,
		}
	}
	return doc
}

func (d AttackDoc) ToEntity() *entity.Attack {
	a := &entity.Attack{
		ID:              d.ID,
		SourceKingdomID: entity.KingdomID(d.SourceKingdomID),
		TargetKingdomID: entity.KingdomID(d.TargetKingdomID),
		Troops:          d.Troops,
		Spies:           d.Spies,
		Status:          entity.AttackStatus(d.Status),
		StartTime:       d.StartTime,
		CompletionTime:  d.CompletionTime,
	}
	if d.Result != nil {
		a.Result = &entity.AttackResult{
			Outcome:        d.Result.Outcome,
			AttackerPower:  d.Result.AttackerPower,
			DefenderPower:  d.Result.DefenderPower,
			TroopsLost:     d.Result.TroopsLost,
			TroopsReturned: d.Result.TroopsReturned,
		}
	}
	return a
}
