package actor

import (
	"context"
	"sync"
	"testing"
	"time"

	"DewanRaja/internal/kingdom/app/port"
	"DewanRaja/internal/kingdom/entity"
	"DewanRaja/internal/shared/actor/messages"
	"DewanRaja/internal/shared/gameconfig/structures"
	"DewanRaja/internal/shared/gameconfig/units"
)

func TestMain(m *testing.M) {
	units.Load()
	structures.Load()
	m.Run()
}

type fakeKingdomRepo struct {
	mu      sync.Mutex
	states  map[entity.KingdomID]func() *entity.KingdomState
	metas   map[entity.KingdomID]port.KingdomMeta
	attacks []entity.Attack
}

func newFakeRepo() *fakeKingdomRepo {
	return &fakeKingdomRepo{
		states: make(map[entity.KingdomID]func() *entity.KingdomState),
		metas:  make(map[entity.KingdomID]port.KingdomMeta),
	}
}

func (f *fakeKingdomRepo) LoadState(ctx context.Context, id entity.KingdomID) (*entity.KingdomState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	build, ok := f.states[id]
	if !ok {
		return nil, entity.ErrKingdomNotFound
	}
	return build(), nil
}

func (f *fakeKingdomRepo) Snapshot(ctx context.Context, s *entity.KingdomPersistSnapshot) error {
	return nil
}

func (f *fakeKingdomRepo) InsertAttack(ctx context.Context, a entity.Attack) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attacks = append(f.attacks, a)
	return nil
}

func (f *fakeKingdomRepo) GetKingdomMeta(ctx context.Context, id entity.KingdomID) (port.KingdomMeta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	meta, ok := f.metas[id]
	if !ok {
		return port.KingdomMeta{}, entity.ErrKingdomNotFound
	}
	return meta, nil
}

func (f *fakeKingdomRepo) UpdateResourceRow(ctx context.Context, kingdomID entity.KingdomID, row entity.Resource) error {
	return nil
}

func (f *fakeKingdomRepo) UpdateBuildingRow(ctx context.Context, kingdomID entity.KingdomID, row entity.Building) error {
	return nil
}

func (f *fakeKingdomRepo) UpdateTroopRow(ctx context.Context, kingdomID entity.KingdomID, row entity.Troop) error {
	return nil
}

func (f *fakeKingdomRepo) TouchKingdom(ctx context.Context, id entity.KingdomID, at time.Time) error {
	return nil
}

func (f *fakeKingdomRepo) insertedAttacks() []entity.Attack {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Attack, len(f.attacks))
	copy(out, f.attacks)
	return out
}

func sourceState() *entity.KingdomState {
	s := entity.NewKingdomState(&entity.Kingdom{
		ID:       "k-src",
		UserID:   1,
		Name:     "Hastinapura",
		Strength: 120,
		Location: entity.Location{X: 0, Y: 0},
	})
	s.Resources[entity.ResourceGold] = &entity.Resource{
		ID: "r-gold", KingdomID: "k-src", Type: entity.ResourceGold,
		Amount: 5000, Capacity: 10000, LastUpdated: time.Now(),
	}
	s.Resources[entity.ResourceFood] = &entity.Resource{
		ID: "r-food", KingdomID: "k-src", Type: entity.ResourceFood,
		Amount: 5000, Capacity: 10000, LastUpdated: time.Now(),
	}
	s.Resources[entity.ResourceWood] = &entity.Resource{
		ID: "r-wood", KingdomID: "k-src", Type: entity.ResourceWood,
		Amount: 5000, Capacity: 10000, LastUpdated: time.Now(),
	}
	s.Resources[entity.ResourceStone] = &entity.Resource{
		ID: "r-stone", KingdomID: "k-src", Type: entity.ResourceStone,
		Amount: 5000, Capacity: 10000, LastUpdated: time.Now(),
	}
	s.Resources[entity.ResourceIron] = &entity.Resource{
		ID: "r-iron", KingdomID: "k-src", Type: entity.ResourceIron,
		Amount: 5000, Capacity: 10000, LastUpdated: time.Now(),
	}
	s.Troops["swordsmen"] = &entity.Troop{
		ID: "t-sw", KingdomID: "k-src", Type: "swordsmen",
		Count: 50, Power: 10, Speed: 5, Status: entity.TrainingIdle,
	}
	s.ClearDirty()
	return s
}

func newTestRuntime(t *testing.T, repo port.KingdomRepository) *Runtime {
	t.Helper()
	rt := NewRuntime(repo, time.Hour, time.Hour, 5*time.Second)
	t.Cleanup(rt.Shutdown)
	return rt
}

func dispatch(t *testing.T, rt *Runtime, action *messages.KingdomAction) *messages.ActionResult {
	t.Helper()
	res, err := rt.Dispatch(context.Background(), action)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	return res
}

func troopCount(t *testing.T, rt *Runtime, kingdomID entity.KingdomID, troopType string) int {
	t.Helper()
	snap, err := rt.LoadState(context.Background(), kingdomID)
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if !snap.Found {
		t.Fatalf("kingdom %s not found", kingdomID)
	}
	for _, tr := range snap.View.Troops {
		if tr.Type == troopType {
			return tr.Count
		}
	}
	return 0
}

func TestDispatch_AttackInsufficientTroopsLeavesStateUntouched(t *testing.T) {
	repo := newFakeRepo()
	repo.states["k-src"] = sourceState
	repo.metas["k-tgt"] = port.KingdomMeta{
		ID: "k-tgt", UserID: 2, Strength: 40, Location: entity.Location{X: 30, Y: 40},
	}
	rt := newTestRuntime(t, repo)

	res := dispatch(t, rt, &messages.KingdomAction{
		Type:      messages.ActionAttack,
		KingdomID: "k-src",
		Payload: map[string]any{
			"targetKingdomId": "k-tgt",
			"troops":          map[string]any{"swordsmen": 100},
		},
	})

	if res.Success {
		t.Fatalf("expected failure, got %+v", res.Result)
	}
	if res.Result["error"] != "Not enough troops available for attack" {
		t.Fatalf("error=%v", res.Result["error"])
	}
	if got := troopCount(t, rt, "k-src", "swordsmen"); got != 50 {
		t.Fatalf("troops mutated on failed attack: %d", got)
	}
	if n := len(repo.insertedAttacks()); n != 0 {
		t.Fatalf("failed attack persisted %d rows", n)
	}
}

func TestDispatch_AttackSchedulesTravelAndPersistsImmediately(t *testing.T) {
	repo := newFakeRepo()
	repo.states["k-src"] = sourceState
	repo.metas["k-tgt"] = port.KingdomMeta{
		ID: "k-tgt", UserID: 2, Strength: 40, Location: entity.Location{X: 30, Y: 40},
	}
	rt := newTestRuntime(t, repo)

	res := dispatch(t, rt, &messages.KingdomAction{
		Type:      messages.ActionAttack,
		KingdomID: "k-src",
		Payload: map[string]any{
			"targetKingdomId": "k-tgt",
			"troops":          map[string]any{"swordsmen": 20},
		},
	})

	if !res.Success {
		t.Fatalf("attack failed: %+v", res.Result)
	}
	// Distance 50 at swordsmen speed 5.
	if res.Result["travelTime"] != "10 hours" {
		t.Fatalf("travelTime=%v", res.Result["travelTime"])
	}
	start, _ := res.Result["startTime"].(int64)
	completion, _ := res.Result["completionTime"].(int64)
	if completion-start != (10 * time.Hour).Milliseconds() {
		t.Fatalf("completion-start=%dms", completion-start)
	}
	if got := troopCount(t, rt, "k-src", "swordsmen"); got != 30 {
		t.Fatalf("committed troops not deducted: %d", got)
	}

	inserted := repo.insertedAttacks()
	if len(inserted) != 1 {
		t.Fatalf("attack rows persisted=%d want 1", len(inserted))
	}
	if inserted[0].Status != entity.AttackPending || inserted[0].Troops["swordsmen"] != 20 {
		t.Fatalf("persisted attack: %+v", inserted[0])
	}
}

func TestDispatch_AttackUnknownTargetFails(t *testing.T) {
	repo := newFakeRepo()
	repo.states["k-src"] = sourceState
	rt := newTestRuntime(t, repo)

	res := dispatch(t, rt, &messages.KingdomAction{
		Type:      messages.ActionAttack,
		KingdomID: "k-src",
		Payload: map[string]any{
			"targetKingdomId": "k-ghost",
			"troops":          map[string]any{"swordsmen": 5},
		},
	})
	if res.Success || res.Result["error"] != "target kingdom not found" {
		t.Fatalf("got %+v", res)
	}
}

func TestDispatch_UnknownActionType(t *testing.T) {
	repo := newFakeRepo()
	repo.states["k-src"] = sourceState
	rt := newTestRuntime(t, repo)

	res := dispatch(t, rt, &messages.KingdomAction{
		Type:      "DEMOLISH",
		KingdomID: "k-src",
		Payload:   map[string]any{},
	})
	if res.Success || res.Result["error"] != "unknown action type" {
		t.Fatalf("got %+v", res)
	}
}

func TestDispatch_TrainQueuesUnitsAndChargesResources(t *testing.T) {
	repo := newFakeRepo()
	repo.states["k-src"] = sourceState
	rt := newTestRuntime(t, repo)

	res := dispatch(t, rt, &messages.KingdomAction{
		Type:      messages.ActionTrain,
		KingdomID: "k-src",
		Payload: map[string]any{
			"troopType": "archers",
			"count":     5,
		},
	})
	if !res.Success {
		t.Fatalf("train failed: %+v", res.Result)
	}

	snap, err := rt.LoadState(context.Background(), "k-src")
	if err != nil || !snap.Found {
		t.Fatalf("LoadState: %v found=%v", err, snap != nil && snap.Found)
	}
	var line *entity.Troop
	for i := range snap.View.Troops {
		if snap.View.Troops[i].Type == "archers" {
			line = &snap.View.Troops[i]
		}
	}
	if line == nil {
		t.Fatalf("archer line not created")
	}
	if line.Status != entity.TrainingActive || line.Pending != 5 {
		t.Fatalf("line=%+v", line)
	}
}

func TestDispatch_BuildNewStructure(t *testing.T) {
	repo := newFakeRepo()
	repo.states["k-src"] = sourceState
	rt := newTestRuntime(t, repo)

	res := dispatch(t, rt, &messages.KingdomAction{
		Type:      messages.ActionBuild,
		KingdomID: "k-src",
		Payload: map[string]any{
			"buildingType": "farm",
		},
	})
	if !res.Success {
		t.Fatalf("build failed: %+v", res.Result)
	}
	if res.Result["status"] != string(entity.ConstructionBuilding) {
		t.Fatalf("status=%v", res.Result["status"])
	}
}

func TestDispatch_ResearchRequiresAcademy(t *testing.T) {
	repo := newFakeRepo()
	repo.states["k-src"] = sourceState
	rt := newTestRuntime(t, repo)

	res := dispatch(t, rt, &messages.KingdomAction{
		Type:      messages.ActionResearch,
		KingdomID: "k-src",
		Payload: map[string]any{
			"technology": "ironworking",
		},
	})
	if res.Success || res.Result["error"] != "research requires an academy" {
		t.Fatalf("got %+v", res)
	}
}

func TestDispatch_MissingKingdomID(t *testing.T) {
	repo := newFakeRepo()
	rt := newTestRuntime(t, repo)

	res := dispatch(t, rt, &messages.KingdomAction{
		Type:    messages.ActionBuild,
		Payload: map[string]any{"buildingType": "farm"},
	})
	if res.Success || res.Result["error"] != "missing kingdom id" {
		t.Fatalf("got %+v", res)
	}
}
