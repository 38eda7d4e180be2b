package syncapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"DewanRaja/internal/kingdom/app/port"
	"DewanRaja/internal/kingdom/entity"
	"DewanRaja/internal/shared/security"
)

type fakeRepo struct {
	metas        map[entity.KingdomID]port.KingdomMeta
	state        *entity.KingdomState
	failRowIDs   map[string]bool
	resourceRows []entity.Resource
	buildingRows []entity.Building
	troopRows    []entity.Troop
	touched      []entity.KingdomID
}

func newRepo() *fakeRepo {
	return &fakeRepo{
		metas:      make(map[entity.KingdomID]port.KingdomMeta),
		failRowIDs: make(map[string]bool),
	}
}

func (f *fakeRepo) LoadState(ctx context.Context, id entity.KingdomID) (*entity.KingdomState, error) {
	if f.state == nil || f.state.ID() != id {
		return nil, entity.ErrKingdomNotFound
	}
	return f.state, nil
}

func (f *fakeRepo) Snapshot(ctx context.Context, s *entity.KingdomPersistSnapshot) error { return nil }

func (f *fakeRepo) InsertAttack(ctx context.Context, a entity.Attack) error { return nil }

func (f *fakeRepo) GetKingdomMeta(ctx context.Context, id entity.KingdomID) (port.KingdomMeta, error) {
	meta, ok := f.metas[id]
	if !ok {
		return port.KingdomMeta{}, entity.ErrKingdomNotFound
	}
	return meta, nil
}

func (f *fakeRepo) UpdateResourceRow(ctx context.Context, kingdomID entity.KingdomID, row entity.Resource) error {
	if f.failRowIDs[row.ID] {
		return errors.New("row gone")
	}
	f.resourceRows = append(f.resourceRows, row)
	return nil
}

func (f *fakeRepo) UpdateBuildingRow(ctx context.Context, kingdomID entity.KingdomID, row entity.Building) error {
	if f.failRowIDs[row.ID] {
		return errors.New("row gone")
	}
	f.buildingRows = append(f.buildingRows, row)
	return nil
}

func (f *fakeRepo) UpdateTroopRow(ctx context.Context, kingdomID entity.KingdomID, row entity.Troop) error {
	if f.failRowIDs[row.ID] {
		return errors.New("row gone")
	}
	f.troopRows = append(f.troopRows, row)
	return nil
}

func (f *fakeRepo) TouchKingdom(ctx context.Context, id entity.KingdomID, at time.Time) error {
	f.touched = append(f.touched, id)
	return nil
}

func newEngine(repo port.KingdomRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	NewHandler(repo, nil).RegisterRoutes(engine.Group(""))
	return engine
}

func postState(t *testing.T, engine *gin.Engine, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/state", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func ownerToken(t *testing.T, uid int64) string {
	t.Helper()
	token, err := security.Award(uid)
	if err != nil {
		t.Fatalf("award token: %v", err)
	}
	return token
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v\n%s", err, w.Body.String())
	}
	return out
}

func TestHandleState_MissingTokenIsUnauthorized(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	engine := newEngine(newRepo())

	w := postState(t, engine, "", map[string]any{"action": "fetch"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d want 401", w.Code)
	}
}

func TestHandleState_GarbageTokenIsUnauthorized(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	engine := newEngine(newRepo())

	w := postState(t, engine, "not-a-jwt", map[string]any{"action": "fetch"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d want 401", w.Code)
	}
}

func TestHandleState_ForeignKingdomIsForbidden(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	repo := newRepo()
	repo.metas["k1"] = port.KingdomMeta{ID: "k1", UserID: 99}
	engine := newEngine(repo)

	w := postState(t, engine, ownerToken(t, 7), map[string]any{
		"action": "sync",
		"data":   map[string]any{"kingdomId": "k1"},
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("status=%d want 403", w.Code)
	}
}

func TestHandleState_UnknownKingdomIsNotFound(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	engine := newEngine(newRepo())

	w := postState(t, engine, ownerToken(t, 7), map[string]any{
		"action": "fetch",
		"data":   map[string]any{"kingdomId": "k-ghost"},
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d want 404", w.Code)
	}
}

func TestHandleState_SyncReportsPerRowLedger(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	repo := newRepo()
	repo.metas["k1"] = port.KingdomMeta{ID: "k1", UserID: 7}
	repo.failRowIDs["r-bad"] = true
	engine := newEngine(repo)

	w := postState(t, engine, ownerToken(t, 7), map[string]any{
		"action": "sync",
		"data": map[string]any{
			"kingdomId": "k1",
			"resources": []map[string]any{
				{"id": "r-good", "amount": 250.5},
				{"id": "r-bad", "amount": 10},
			},
			"troops": []map[string]any{
				{"id": "t1", "count": 42, "trainingStatus": "idle"},
			},
		},
	})

	// Row failures are reported in the ledger, not as an HTTP error.
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d want 200\n%s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["success"] != true {
		t.Fatalf("success=%v", body["success"])
	}
	if body["timestamp"] == nil {
		t.Fatalf("missing timestamp")
	}

	results := body["results"].(map[string]any)
	resources := results["resources"].([]any)
	if len(resources) != 2 {
		t.Fatalf("resource ledger=%v", resources)
	}
	good := resources[0].(map[string]any)
	bad := resources[1].(map[string]any)
	if good["ok"] != true || bad["ok"] != false || bad["error"] == "" {
		t.Fatalf("ledger rows: good=%v bad=%v", good, bad)
	}

	if len(repo.resourceRows) != 1 || repo.resourceRows[0].Amount != 250.5 {
		t.Fatalf("applied resource rows: %+v", repo.resourceRows)
	}
	if len(repo.troopRows) != 1 || repo.troopRows[0].Count != 42 {
		t.Fatalf("applied troop rows: %+v", repo.troopRows)
	}
	if len(repo.touched) != 1 || repo.touched[0] != "k1" {
		t.Fatalf("touch not recorded: %v", repo.touched)
	}
}

func TestHandleState_FetchReturnsAggregatedSnapshot(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	repo := newRepo()
	repo.metas["k1"] = port.KingdomMeta{ID: "k1", UserID: 7}

	state := entity.NewKingdomState(&entity.Kingdom{ID: "k1", UserID: 7, Name: "Hastinapura"})
	state.Resources[entity.ResourceGold] = &entity.Resource{
		ID: "r1", KingdomID: "k1", Type: entity.ResourceGold, Amount: 500, Capacity: 1000,
	}
	state.Troops["swordsmen"] = &entity.Troop{
		ID: "t1", KingdomID: "k1", Type: "swordsmen", Count: 10, Power: 10, Speed: 5,
		Status: entity.TrainingIdle,
	}
	repo.state = state
	engine := newEngine(repo)

	w := postState(t, engine, ownerToken(t, 7), map[string]any{
		"action": "fetch",
		"data":   map[string]any{"kingdomId": "k1"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d\n%s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["success"] != true {
		t.Fatalf("success=%v", body["success"])
	}
	kingdom := body["kingdom"].(map[string]any)
	if kingdom["name"] != "Hastinapura" {
		t.Fatalf("kingdom=%v", kingdom)
	}
	resources := body["resources"].([]any)
	if len(resources) != 1 {
		t.Fatalf("resources=%v", resources)
	}
	if body["lastUpdated"] == nil || body["timestamp"] == nil {
		t.Fatalf("missing timestamps: %v", body)
	}
}

func TestHandleState_UnknownActionIsBadRequest(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	engine := newEngine(newRepo())

	w := postState(t, engine, ownerToken(t, 7), map[string]any{"action": "replay"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want 400", w.Code)
	}
}
