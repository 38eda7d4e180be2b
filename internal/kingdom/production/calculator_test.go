package production

import (
	"testing"
	"time"

	"DewanRaja/internal/kingdom/entity"
)

func building(btype string, level int, status entity.ConstructionStatus) *entity.Building {
	return &entity.Building{Type: btype, Level: level, Status: status}
}

func TestRates_BaseOnly(t *testing.T) {
	rates := Rates(nil)
	want := map[entity.ResourceType]float64{
		entity.ResourceGold:  10,
		entity.ResourceFood:  20,
		entity.ResourceWood:  15,
		entity.ResourceStone: 8,
		entity.ResourceIron:  5,
	}
	for rt, w := range want {
		if rates[rt] != w {
			t.Fatalf("%s=%v want %v", rt, rates[rt], w)
		}
	}
}

func TestRates_FarmAndMarketBonuses(t *testing.T) {
	// One farm at level 2 and one market at level 1, both active.
	buildings := []*entity.Building{
		building(entity.BuildingFarm, 2, entity.ConstructionIdle),
		building(entity.BuildingMarket, 1, entity.ConstructionIdle),
	}
	rates := Rates(buildings)

	if rates[entity.ResourceGold] != 25 {
		t.Fatalf("gold=%v want 25", rates[entity.ResourceGold])
	}
	if rates[entity.ResourceFood] != 40 {
		t.Fatalf("food=%v want 40", rates[entity.ResourceFood])
	}
	if rates[entity.ResourceWood] != 15 || rates[entity.ResourceStone] != 8 || rates[entity.ResourceIron] != 5 {
		t.Fatalf("untouched resources changed: %v", rates)
	}
}

func TestRates_InactiveAndUnknownBuildingsContributeNothing(t *testing.T) {
	buildings := []*entity.Building{
		building(entity.BuildingFarm, 5, entity.ConstructionUpgrading),
		building("wonder_of_the_age", 9, entity.ConstructionIdle),
	}
	rates := Rates(buildings)
	if rates[entity.ResourceFood] != 20 {
		t.Fatalf("food=%v want base 20", rates[entity.ResourceFood])
	}
}

func TestRates_MineFeedsStoneAndIron(t *testing.T) {
	rates := Rates([]*entity.Building{building(entity.BuildingMine, 3, entity.ConstructionIdle)})
	if rates[entity.ResourceStone] != 8+15 {
		t.Fatalf("stone=%v", rates[entity.ResourceStone])
	}
	if rates[entity.ResourceIron] != 5+9 {
		t.Fatalf("iron=%v", rates[entity.ResourceIron])
	}
}

func TestGained_LinearInElapsedTime(t *testing.T) {
	rates := Rates(nil)
	oneHour := Gained(rates, 1)
	threeHours := Gained(rates, 3)
	for rt := range rates {
		if threeHours[rt] != 3*oneHour[rt] {
			t.Fatalf("%s: %v != 3 * %v", rt, threeHours[rt], oneHour[rt])
		}
	}
}

func TestGained_ClockSkewYieldsNothing(t *testing.T) {
	rates := Rates(nil)
	for _, elapsed := range []float64{0, -0.5, -100} {
		if gained := Gained(rates, elapsed); len(gained) != 0 {
			t.Fatalf("elapsed=%v gained=%v, want none", elapsed, gained)
		}
	}
}

func TestCalculate_IdempotentForSameInputs(t *testing.T) {
	buildings := []*entity.Building{building(entity.BuildingFarm, 2, entity.ConstructionIdle)}
	last := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	now := last.Add(90 * time.Minute)

	r1, g1 := Calculate(buildings, last, now)
	r2, g2 := Calculate(buildings, last, now)

	for rt := range r1 {
		if r1[rt] != r2[rt] {
			t.Fatalf("rates differ on re-run: %s %v vs %v", rt, r1[rt], r2[rt])
		}
		if g1[rt] != g2[rt] {
			t.Fatalf("gain differs on re-run: %s %v vs %v", rt, g1[rt], g2[rt])
		}
	}
	// 1.5h of food at 20 base + 20 farm bonus.
	if g1[entity.ResourceFood] != 60 {
		t.Fatalf("food gained=%v want 60", g1[entity.ResourceFood])
	}
}
