package service

import (
	"math"
	"time"

	"DewanRaja/internal/kingdom/entity"
)

// AttackPlan is the travel schedule computed for a valid attack order.
type AttackPlan struct {
	Distance       float64
	GoverningSpeed int
	TravelHours    int
	Travel         time.Duration
}

// PlanAttack computes the travel schedule: Euclidean distance between the
// two grid locations, governed by the slowest committed troop type. With
// no committed troops the governing speed defaults to 1 so travel time is
// never a division by zero.
func PlanAttack(source, target entity.Location, committed map[string]int, troops map[string]*entity.Troop) AttackPlan {
	dx := float64(source.X - target.X)
	dy := float64(source.Y - target.Y)
	distance := math.Sqrt(dx*dx + dy*dy)

	speed := 0
	for troopType, count := range committed {
		if count <= 0 {
			continue
		}
		t, ok := troops[troopType]
		if !ok || t.Speed <= 0 {
			continue
		}
		if speed == 0 || t.Speed < speed {
			speed = t.Speed
		}
	}
	if speed <= 0 {
		speed = 1
	}

	hours := int(math.Ceil(distance / float64(speed)))
	return AttackPlan{
		Distance:       distance,
		GoverningSpeed: speed,
		TravelHours:    hours,
		Travel:         time.Duration(hours) * time.Hour,
	}
}

// Loss fractions applied at resolution.
const (
	winnerLossRate = 0.3
	loserLossRate  = 0.6
)

// ResolveAttack computes the outcome of an arrived attack: committed
// power against the defender's aggregate strength. The winner loses 30%
// of each committed line, the loser 60%; survivors are returned home.
func ResolveAttack(committed map[string]int, troops map[string]*entity.Troop, defenderStrength int) entity.AttackResult {
	attackerPower := 0
	for troopType, count := range committed {
		if count <= 0 {
			continue
		}
		power := 1
		if t, ok := troops[troopType]; ok && t.Power > 0 {
			power = t.Power
		}
		attackerPower += count * power
	}
	defenderPower := defenderStrength
	if defenderPower < 0 {
		defenderPower = 0
	}

	outcome := "defeat"
	lossRate := loserLossRate
	if attackerPower > defenderPower {
		outcome = "victory"
		lossRate = winnerLossRate
	}

	lost := make(map[string]int, len(committed))
	returned := make(map[string]int, len(committed))
	for troopType, count := range committed {
		if count <= 0 {
			continue
		}
		casualties := int(math.Ceil(float64(count) * lossRate))
		if casualties > count {
			casualties = count
		}
		lost[troopType] = casualties
		returned[troopType] = count - casualties
	}

	return entity.AttackResult{
		Outcome:        outcome,
		AttackerPower:  attackerPower,
		DefenderPower:  defenderPower,
		TroopsLost:     lost,
		TroopsReturned: returned,
	}
}

// TrainOrder is the cost/schedule for queueing count units.
type TrainOrder struct {
	GoldCost float64
	FoodCost float64
	IronCost float64
	Duration time.Duration
}

// PlanTraining scales unit cost and duration linearly with the requested
// count.
func PlanTraining(count int, goldEach, foodEach, ironEach float64, secsEach int) TrainOrder {
	n := float64(count)
	return TrainOrder{
		GoldCost: goldEach * n,
		FoodCost: foodEach * n,
		IronCost: ironEach * n,
		Duration: time.Duration(count*secsEach) * time.Second,
	}
}

// Research cost grows 1.5x per completed level.
const researchCostGrowth = 1.5

// ResearchCost returns the gold price of advancing a technology from
// currentLevel.
func ResearchCost(baseGold float64, currentLevel int) float64 {
	if currentLevel < 0 {
		currentLevel = 0
	}
	return math.Ceil(baseGold * math.Pow(researchCostGrowth, float64(currentLevel)))
}
