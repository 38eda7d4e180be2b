package production

import (
	"time"

	"DewanRaja/internal/kingdom/entity"
)

// Base hourly production every kingdom gets regardless of buildings.
var baseRates = map[entity.ResourceType]float64{
	entity.ResourceGold:  10,
	entity.ResourceFood:  20,
	entity.ResourceWood:  15,
	entity.ResourceStone: 8,
	entity.ResourceIron:  5,
}

// Rates computes the per-hour production for a building inventory. Each
// active building adds a linear bonus scaled by its level; buildings
// under construction/upgrade and unrecognized types contribute nothing.
func Rates(buildings []*entity.Building) map[entity.ResourceType]float64 {
	rates := make(map[entity.ResourceType]float64, len(baseRates))
	for rt, base := range baseRates {
		rates[rt] = base
	}

	for _, b := range buildings {
		if b == nil || !b.Active() {
			continue
		}
		level := float64(b.Level)
		switch b.Type {
		case entity.BuildingFarm:
			rates[entity.ResourceFood] += 10 * level
		case entity.BuildingLumbermill:
			rates[entity.ResourceWood] += 8 * level
		case entity.BuildingMine:
			rates[entity.ResourceStone] += 5 * level
			rates[entity.ResourceIron] += 3 * level
		case entity.BuildingMarket:
			rates[entity.ResourceGold] += 15 * level
		}
	}
	return rates
}

// Gained converts rates into absolute quantities over elapsedHours.
// Non-positive elapsed time yields nothing: a clock that went backwards
// must not mint (or destroy) resources.
func Gained(rates map[entity.ResourceType]float64, elapsedHours float64) map[entity.ResourceType]float64 {
	gained := make(map[entity.ResourceType]float64, len(rates))
	if elapsedHours <= 0 {
		return gained
	}
	for rt, rate := range rates {
		gained[rt] = rate * elapsedHours
	}
	return gained
}

// Calculate is the full pass: rates from the building inventory plus the
// quantities accrued between lastCalculation and now. Idempotent for the
// same inputs; callers must advance their lastCalculation timestamp after
// applying the gain so elapsed time is never counted twice.
func Calculate(buildings []*entity.Building, lastCalculation, now time.Time) (rates, gained map[entity.ResourceType]float64) {
	rates = Rates(buildings)
	elapsed := now.Sub(lastCalculation).Hours()
	gained = Gained(rates, elapsed)
	return rates, gained
}
