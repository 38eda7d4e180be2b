package dc

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"DewanRaja/internal/kingdom/app/port"
	"DewanRaja/internal/kingdom/entity"
)

type fakeKingdomRepo struct {
	mu        sync.Mutex
	state     *entity.KingdomState
	loadErr   error
	snapErr   error
	snapshots []*entity.KingdomPersistSnapshot
}

func (f *fakeKingdomRepo) LoadState(ctx context.Context, id entity.KingdomID) (*entity.KingdomState, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.state, nil
}

func (f *fakeKingdomRepo) Snapshot(ctx context.Context, s *entity.KingdomPersistSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.snapErr != nil {
		err := f.snapErr
		f.snapErr = nil
		return err
	}
	f.snapshots = append(f.snapshots, s)
	return nil
}

func (f *fakeKingdomRepo) InsertAttack(ctx context.Context, a entity.Attack) error { return nil }

func (f *fakeKingdomRepo) GetKingdomMeta(ctx context.Context, id entity.KingdomID) (port.KingdomMeta, error) {
	return port.KingdomMeta{}, errors.New("not implemented")
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

func (f *fakeKingdomRepo) persisted() []*entity.KingdomPersistSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.KingdomPersistSnapshot, len(f.snapshots))
	copy(out, f.snapshots)
	return out
}

func newTestState(id entity.KingdomID) *entity.KingdomState {
	s := entity.NewKingdomState(&entity.Kingdom{ID: id, UserID: 7, Name: "Hastinapura"})
	s.Resources[entity.ResourceGold] = &entity.Resource{
		ID: "r1", KingdomID: id, Type: entity.ResourceGold, Amount: 100, Capacity: 1000,
	}
	return s
}

func TestKingdomDC_LoadPopulatesEntity(t *testing.T) {
	repo := &fakeKingdomRepo{state: newTestState("k1")}
	d := NewKingdomDC(repo, time.Second)
	defer d.Close(context.Background())

	got, err := d.Load(context.Background(), "k1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ID() != "k1" {
		t.Fatalf("loaded id=%s", got.ID())
	}
	if d.Entity() != got {
		t.Fatalf("Entity() must return the resident state")
	}
}

func TestKingdomDC_LoadFailureLeavesNothingResident(t *testing.T) {
	repo := &fakeKingdomRepo{loadErr: errors.New("db down")}
	d := NewKingdomDC(repo, time.Second)
	defer d.Close(context.Background())

	if _, err := d.Load(context.Background(), "k1"); err == nil {
		t.Fatalf("expected load error")
	}
	if d.Entity() != nil {
		t.Fatalf("failed load must not leave a partial entity")
	}
}

func TestKingdomDC_FlushSkipsClean(t *testing.T) {
	repo := &fakeKingdomRepo{state: newTestState("k1")}
	d := NewKingdomDC(repo, time.Second)

	if _, err := d.Load(context.Background(), "k1"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	d.Flush(context.Background())
	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if n := len(repo.persisted()); n != 0 {
		t.Fatalf("clean state must not persist, got %d snapshots", n)
	}
}

func TestKingdomDC_FlushPersistsDirtySectionsOnly(t *testing.T) {
	repo := &fakeKingdomRepo{state: newTestState("k1")}
	d := NewKingdomDC(repo, time.Second)

	state, _ := d.Load(context.Background(), "k1")
	state.Resources[entity.ResourceGold].Amount = 250
	state.MarkResourcesDirty()

	d.Flush(context.Background())
	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}

	snaps := repo.persisted()
	if len(snaps) != 1 {
		t.Fatalf("snapshots=%d want 1", len(snaps))
	}
	s := snaps[0]
	if !s.SaveResources || s.SaveBuildings || s.SaveTroops || s.SaveAttacks || s.SaveKingdom {
		t.Fatalf("wrong dirty sections: %+v", s)
	}
	if len(s.Resources) != 1 || s.Resources[0].Amount != 250 {
		t.Fatalf("snapshot resource rows: %+v", s.Resources)
	}
	if d.IsDirty() {
		t.Fatalf("flush must clear dirty flags")
	}
}

func TestKingdomDC_WriterRetriesAfterSnapshotError(t *testing.T) {
	repo := &fakeKingdomRepo{state: newTestState("k1"), snapErr: errors.New("deadlock")}
	d := NewKingdomDC(repo, time.Second)

	state, _ := d.Load(context.Background(), "k1")
	state.MarkResourcesDirty()
	d.Flush(context.Background())

	// Close drains the writer, which retries the requeued snapshot.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if n := len(repo.persisted()); n != 1 {
		t.Fatalf("snapshots=%d want 1 after retry", n)
	}
}

func TestKingdomDC_CloseFlushesRemainingDirtyState(t *testing.T) {
	repo := &fakeKingdomRepo{state: newTestState("k1")}
	d := NewKingdomDC(repo, time.Second)

	state, _ := d.Load(context.Background(), "k1")
	state.Resources[entity.ResourceGold].Amount = 999
	state.MarkResourcesDirty()

	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	snaps := repo.persisted()
	if len(snaps) != 1 || snaps[0].Resources[0].Amount != 999 {
		t.Fatalf("final flush missing: %+v", snaps)
	}
}
