package mapper

import (
	"encoding/json"
	"time"

	"DewanRaja/internal/kingdom/entity"
	"DewanRaja/internal/kingdom/infra/persistence/model"
)

func KingdomModelToEntity(m *model.Kingdom) *entity.Kingdom {
	return &entity.Kingdom{
		ID:        entity.KingdomID(m.ID),
		UserID:    m.UserID,
		Name:      m.Name,
		Race:      m.Race,
		Strength:  m.Strength,
		Location:  entity.Location{X: m.LocationX, Y: m.LocationY},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func KingdomEntityToModel(e *entity.Kingdom, updatedAt time.Time) *model.Kingdom {
	return &model.Kingdom{
		ID:        string(e.ID),
		UserID:    e.UserID,
		Name:      e.Name,
		Race:      e.Race,
		Strength:  e.Strength,
		LocationX: e.Location.X,
		LocationY: e.Location.Y,
		CreatedAt: e.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func ResourceModelToEntity(m *model.Resource) *entity.Resource {
	return &entity.Resource{
		ID:             m.ID,
		KingdomID:      entity.KingdomID(m.KingdomID),
		Type:           entity.ResourceType(m.Type),
		Amount:         m.Amount,
		Capacity:       m.Capacity,
		ProductionRate: m.ProductionRate,
		LastUpdated:    m.LastUpdated,
	}
}

func ResourceEntityToModel(e entity.Resource) *model.Resource {
	return &model.Resource{
		ID:             e.ID,
		KingdomID:      string(e.KingdomID),
		Type:           string(e.Type),
		Amount:         e.Amount,
		Capacity:       e.Capacity,
		ProductionRate: e.ProductionRate,
		LastUpdated:    e.LastUpdated,
	}
}

func BuildingModelToEntity(m *model.Building) *entity.Building {
	return &entity.Building{
		ID:             m.ID,
		KingdomID:      entity.KingdomID(m.KingdomID),
		Type:           m.Type,
		Level:          m.Level,
		Status:         entity.ConstructionStatus(m.Status),
		CompletionTime: cloneTime(m.CompletionTime),
		Health:         m.Health,
	}
}

func BuildingEntityToModel(e entity.Building) *model.Building {
	return &model.Building{
		ID:             e.ID,
		KingdomID:      string(e.KingdomID),
		Type:           e.Type,
		Level:          e.Level,
		Status:         string(e.Status),
		CompletionTime: cloneTime(e.CompletionTime),
		Health:         e.Health,
	}
}

func TroopModelToEntity(m *model.Troop) *entity.Troop {
	return &entity.Troop{
		ID:             m.ID,
		KingdomID:      entity.KingdomID(m.KingdomID),
		Type:           m.Type,
		Count:          m.Count,
		Power:          m.Power,
		Speed:          m.Speed,
		Status:         entity.TrainingStatus(m.Status),
		CompletionTime: cloneTime(m.CompletionTime),
		Pending:        m.Pending,
	}
}

func TroopEntityToModel(e entity.Troop) *model.Troop {
	return &model.Troop{
		ID:             e.ID,
		KingdomID:      string(e.KingdomID),
		Type:           e.Type,
		Count:          e.Count,
		Power:          e.Power,
		Speed:          e.Speed,
		Status:         string(e.Status),
		CompletionTime: cloneTime(e.CompletionTime),
		Pending:        e.Pending,
	}
}

func AttackModelToEntity(m *model.Attack) (*entity.Attack, error) {
	troops, err := decodeIntMap(m.Troops)
	if err != nil {
		return nil, err
	}
	spies, err := decodeIntMap(m.Spies)
	if err != nil {
		return nil, err
	}
	var result *entity.AttackResult
	if m.Result != "" {
		result = &entity.AttackResult{}
		if err := json.Unmarshal([]byte(m.Result), result); err != nil {
			return nil, err
		}
	}
	return &entity.Attack{
		ID:              m.ID,
		SourceKingdomID: entity.KingdomID(m.SourceKingdomID),
		TargetKingdomID: entity.KingdomID(m.TargetKingdomID),
		Troops:          troops,
		Spies:           spies,
		Status:          entity.AttackStatus(m.Status),
		StartTime:       m.StartTime,
		CompletionTime:  m.CompletionTime,
		Result:          result,
	}, nil
}

func AttackEntityToModel(e entity.Attack) (*model.Attack, error) {
	troops, err := encodeIntMap(e.Troops)
	if err != nil {
		return nil, err
	}
	spies, err := encodeIntMap(e.Spies)
	if err != nil {
		return nil, err
	}
	result := ""
	if e.Result != nil {
		raw, err := json.Marshal(e.Result)
		if err != nil {
			return nil, err
		}
		result = string(raw)
	}
	return &model.Attack{
		ID:              e.ID,
		SourceKingdomID: string(e.SourceKingdomID),
		TargetKingdomID: string(e.TargetKingdomID),
		Troops:          troops,
		Spies:           spies,
		Status:          string(e.Status),
		StartTime:       e.StartTime,
		CompletionTime:  e.CompletionTime,
		Result:          result,
	}, nil
}

func decodeIntMap(raw string) (map[string]int, error) {
	if raw == "" {
		return nil, nil
	}
	var out map[string]int
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func encodeIntMap(in map[string]int) (string, error) {
	if len(in) == 0 {
		return "", nil
	}
	raw, err := json.Marshal(in)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}
