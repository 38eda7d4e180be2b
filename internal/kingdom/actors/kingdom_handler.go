package actors

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"DewanRaja/internal/kingdom/entity"
	"DewanRaja/internal/kingdom/service"
	"DewanRaja/internal/shared/actor/messages"
	"DewanRaja/internal/shared/gameconfig/structures"
	"DewanRaja/internal/shared/gameconfig/units"
	"DewanRaja/internal/shared/utils"

	"github.com/asynkron/protoactor-go/actor"
)

type KingdomHandler struct {
}

var KH = &KingdomHandler{}

const researchBaseGold = 100

// HandleAttack runs the full attack order: validate, resolve the target,
// reserve troops all-or-nothing, schedule travel, and persist the attack
// row before acknowledging. A crash after the response cannot lose an
// attack that already cost troops.
func (h *KingdomHandler) HandleAttack(ctx actor.Context, k *KingdomActor, p messages.AttackPayload) {
	if v := service.ValidateAttack(p); !v.Valid {
		ctx.Respond(fail(v.Error))
		return
	}

	s := k.Entity()
	targetID := entity.KingdomID(p.TargetKingdomID)
	if targetID == s.ID() {
		ctx.Respond(fail("a kingdom cannot attack itself"))
		return
	}

	metaCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	meta, err := k.repo.GetKingdomMeta(metaCtx, targetID)
	cancel()
	if errors.Is(err, entity.ErrKingdomNotFound) {
		ctx.Respond(fail("target kingdom not found"))
		return
	}
	if err != nil {
		ctx.Logger().Error("target lookup failed", "kingdom_id", k.kingdomID, "target", targetID, "err", err)
		ctx.Respond(fail("could not resolve target kingdom"))
		return
	}

	for troopType, count := range p.Troops {
		if count == 0 {
			continue
		}
		t, ok := s.Troops[troopType]
		if !ok || t.Count < count {
			ctx.Respond(fail("Not enough troops available for attack"))
			return
		}
	}

	plan := service.PlanAttack(s.Kingdom.Location, meta.Location, p.Troops, s.Troops)
	now := time.Now()
	start := now.Add(time.Duration(p.DelayHours * float64(time.Hour)))
	completion := start.Add(plan.Travel)

	attack := &entity.Attack{
		ID:              nextID("atk"),
		SourceKingdomID: s.ID(),
		TargetKingdomID: targetID,
		Troops:          cloneCommitted(p.Troops),
		Spies:           cloneCommitted(p.Spies),
		Status:          entity.AttackPending,
		StartTime:       start,
		CompletionTime:  completion,
	}

	for troopType, count := range attack.Troops {
		s.Troops[troopType].Commit(count)
	}

	insertCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	err = k.repo.InsertAttack(insertCtx, *attack)
	cancel()
	if err != nil {
		for troopType, count := range attack.Troops {
			s.Troops[troopType].Refund(count)
		}
		ctx.Logger().Error("attack insert failed", "kingdom_id", k.kingdomID, "attack_id", attack.ID, "err", err)
		ctx.Respond(fail("could not persist attack"))
		return
	}

	s.AddAttack(attack)
	s.MarkTroopsDirty()

	ctx.Respond(ok(map[string]any{
		"attackId":       attack.ID,
		"travelTime":     humanHours(plan.TravelHours),
		"startTime":      start.UnixMilli(),
		"completionTime": completion.UnixMilli(),
		"status":         string(entity.AttackPending),
	}))
}

// HandleBuild upgrades an existing building or starts a new one. Cost is
// charged up front, all resources or none.
func (h *KingdomHandler) HandleBuild(ctx actor.Context, k *KingdomActor, p messages.BuildPayload) {
	if v := service.ValidateBuild(p); !v.Valid {
		ctx.Respond(fail(v.Error))
		return
	}

	s := k.Entity()
	now := time.Now()

	if p.BuildingID != "" {
		h.upgradeBuilding(ctx, s, p.BuildingID, now)
		return
	}
	h.constructBuilding(ctx, s, p.BuildingType, now)
}

func (h *KingdomHandler) upgradeBuilding(ctx actor.Context, s *entity.KingdomState, buildingID string, now time.Time) {
	var target *entity.Building
	for _, b := range s.Buildings {
		if b.ID == buildingID {
			target = b
			break
		}
	}
	if target == nil {
		ctx.Respond(fail("building not found"))
		return
	}
	if target.Status != entity.ConstructionIdle {
		ctx.Respond(fail("building is already busy"))
		return
	}

	conf, okConf := structures.StructureConf.Get(target.Type)
	if !okConf {
		ctx.Respond(fail("unknown building type"))
		return
	}

	cost := structures.UpgradeCost(conf.BaseCost, target.Level)
	if !spendAll(s, map[entity.ResourceType]float64{
		entity.ResourceGold:  cost.Gold,
		entity.ResourceWood:  cost.Wood,
		entity.ResourceStone: cost.Stone,
	}) {
		ctx.Respond(fail("not enough resources"))
		return
	}

	duration := time.Duration(conf.BuildSecs*(target.Level+1)) * time.Second
	doneAt := now.Add(duration)
	target.BeginUpgrade(doneAt)
	s.MarkBuildingsDirty()
	s.MarkResourcesDirty()

	ctx.Respond(ok(map[string]any{
		"buildingId":     target.ID,
		"level":          target.Level,
		"status":         string(target.Status),
		"completionTime": doneAt.UnixMilli(),
	}))
}

func (h *KingdomHandler) constructBuilding(ctx actor.Context, s *entity.KingdomState, buildingType string, now time.Time) {
	conf, okConf := structures.StructureConf.Get(buildingType)
	if !okConf {
		ctx.Respond(fail("unknown building type"))
		return
	}

	if !spendAll(s, map[entity.ResourceType]float64{
		entity.ResourceGold:  conf.BaseCost.Gold,
		entity.ResourceWood:  conf.BaseCost.Wood,
		entity.ResourceStone: conf.BaseCost.Stone,
	}) {
		ctx.Respond(fail("not enough resources"))
		return
	}

	doneAt := now.Add(time.Duration(conf.BuildSecs) * time.Second)
	b := &entity.Building{
		ID:        nextID("bld"),
		KingdomID: s.ID(),
		Type:      buildingType,
		Level:     0,
		Status:    entity.ConstructionBuilding,
		Health:    100,
	}
	t := doneAt
	b.CompletionTime = &t
	s.Buildings = append(s.Buildings, b)
	s.MarkBuildingsDirty()
	s.MarkResourcesDirty()

	ctx.Respond(ok(map[string]any{
		"buildingId":     b.ID,
		"status":         string(b.Status),
		"completionTime": doneAt.UnixMilli(),
	}))
}

// HandleTrain queues units on one troop line; cost and duration scale
// linearly with the count.
func (h *KingdomHandler) HandleTrain(ctx actor.Context, k *KingdomActor, p messages.TrainPayload) {
	if v := service.ValidateTrain(p); !v.Valid {
		ctx.Respond(fail(v.Error))
		return
	}

	unit, okUnit := units.UnitConf.Get(p.TroopType)
	if !okUnit {
		ctx.Respond(fail("unknown troop type"))
		return
	}

	s := k.Entity()
	line, okLine := s.Troops[p.TroopType]
	if !okLine {
		line = &entity.Troop{
			ID:        nextID("trp"),
			KingdomID: s.ID(),
			Type:      unit.Type,
			Power:     unit.Power,
			Speed:     unit.Speed,
			Status:    entity.TrainingIdle,
		}
		s.Troops[p.TroopType] = line
	}
	if line.Status == entity.TrainingActive {
		ctx.Respond(fail("troop line is already training"))
		return
	}

	order := service.PlanTraining(p.Count, unit.Cost.Gold, unit.Cost.Food, unit.Cost.Iron, unit.TrainSecs)
	if !spendAll(s, map[entity.ResourceType]float64{
		entity.ResourceGold: order.GoldCost,
		entity.ResourceFood: order.FoodCost,
		entity.ResourceIron: order.IronCost,
	}) {
		ctx.Respond(fail("not enough resources"))
		return
	}

	doneAt := time.Now().Add(order.Duration)
	line.BeginTraining(p.Count, doneAt)
	s.MarkTroopsDirty()
	s.MarkResourcesDirty()

	ctx.Respond(ok(map[string]any{
		"troopType":      line.Type,
		"count":          p.Count,
		"completionTime": doneAt.UnixMilli(),
	}))
}

// HandleResearch charges gold for advancing a technology. The academy
// gates research and its level sets the price.
func (h *KingdomHandler) HandleResearch(ctx actor.Context, k *KingdomActor, p messages.ResearchPayload) {
	if v := service.ValidateResearch(p); !v.Valid {
		ctx.Respond(fail(v.Error))
		return
	}

	s := k.Entity()
	var academy *entity.Building
	for _, b := range s.Buildings {
		if b.Type == entity.BuildingAcademy && b.Active() {
			academy = b
			break
		}
	}
	if academy == nil {
		ctx.Respond(fail("research requires an academy"))
		return
	}

	cost := service.ResearchCost(researchBaseGold, academy.Level-1)
	if !spendAll(s, map[entity.ResourceType]float64{entity.ResourceGold: cost}) {
		ctx.Respond(fail("not enough gold for research"))
		return
	}
	s.MarkResourcesDirty()

	ctx.Respond(ok(map[string]any{
		"technology": p.Technology,
		"cost":       cost,
	}))
}

// spendAll deducts every cost or none of them.
func spendAll(s *entity.KingdomState, costs map[entity.ResourceType]float64) bool {
	for rt, qty := range costs {
		if qty <= 0 {
			continue
		}
		r, ok := s.Resources[rt]
		if !ok || r.Amount < qty {
			return false
		}
	}
	for rt, qty := range costs {
		if qty <= 0 {
			continue
		}
		s.Resources[rt].Spend(qty)
	}
	return true
}

func cloneCommitted(in map[string]int) map[string]int {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]int, len(in))
	for k, v := range in {
		if v <= 0 {
			continue
		}
		out[k] = v
	}
	return out
}

func nextID(prefix string) string {
	id, err := utils.NextSnowflakeID()
	if err != nil {
		return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
	}
	return prefix + "-" + strconv.FormatInt(id, 10)
}

func humanHours(hours int) string {
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
