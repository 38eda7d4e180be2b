package mysql

import (
	"context"
	"errors"
	"sync"
	"time"

	"DewanRaja/internal/kingdom/app/port"
	"DewanRaja/internal/kingdom/entity"
	"DewanRaja/internal/kingdom/infra/persistence/mapper"
	"DewanRaja/internal/kingdom/infra/persistence/model"
	"DewanRaja/modules/kit/errx"

	"gorm.io/gorm"
)

type KingdomRepo struct {
	db *gorm.DB
}

func NewKingdomRepo(db *gorm.DB) *KingdomRepo {
	return &KingdomRepo{db: db}
}

func (r *KingdomRepo) WithTx(tx *gorm.DB) *KingdomRepo {
	return &KingdomRepo{db: tx}
}

const opLoadState = "repo.kingdom.LoadState"

// LoadState assembles the aggregate. The kingdom row anchors the load;
// the four dependent reads run concurrently since none depends on
// another. Any failure surfaces as a whole-load failure.
func (r *KingdomRepo) LoadState(ctx context.Context, id entity.KingdomID) (*entity.KingdomState, error) {
	kingdom, err := r.getKingdomRow(ctx, id)
	if err != nil {
		return nil, err
	}

	var (
		wg        sync.WaitGroup
		resources []*entity.Resource
		buildings []*entity.Building
		troops    []*entity.Troop
		attacks   []*entity.Attack
		errMu     sync.Mutex
		firstErr  error
	)
	fail := func(err error) {
		errMu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		errMu.Unlock()
	}

	wg.Add(4)
	go func() {
		defer wg.Done()
		rows, err := r.loadResources(ctx, id)
		if err != nil {
			fail(err)
			return
		}
		resources = rows
	}()
	go func() {
		defer wg.Done()
		rows, err := r.loadBuildings(ctx, id)
		if err != nil {
			fail(err)
			return
		}
		buildings = rows
	}()
	go func() {
		defer wg.Done()
		rows, err := r.loadTroops(ctx, id)
		if err != nil {
			fail(err)
			return
		}
		troops = rows
	}()
	go func() {
		defer wg.Done()
		rows, err := r.loadUnresolvedAttacks(ctx, id)
		if err != nil {
			fail(err)
			return
		}
		attacks = rows
	}()
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	state := entity.NewKingdomState(kingdom)
	for _, res := range resources {
		state.Resources[res.Type] = res
	}
	state.Buildings = buildings
	for _, t := range troops {
		state.Troops[t.Type] = t
	}
	state.Attacks = attacks
	state.LastUpdated = time.Now()
	return state, nil
}

func (r *KingdomRepo) getKingdomRow(ctx context.Context, id entity.KingdomID) (*entity.Kingdom, error) {
	var m model.Kingdom
	err := r.db.WithContext(ctx).Where("id = ?", string(id)).First(&m).Error

	switch {
	case err == nil:
		return mapper.KingdomModelToEntity(&m), nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, entity.ErrKingdomNotFound
	default:
		return nil, errx.ErrUnavailable.WithCause(err).
			WithData("op", opLoadState).WithData("kingdom_id", string(id))
	}
}

func (r *KingdomRepo) loadResources(ctx context.Context, id entity.KingdomID) ([]*entity.Resource, error) {
	var rows []model.Resource
	if err := r.db.WithContext(ctx).Where("kingdom_id = ?", string(id)).Find(&rows).Error; err != nil {
		return nil, errx.ErrUnavailable.WithCause(err).
			WithData("op", opLoadState).WithData("kingdom_id", string(id))
	}
	out := make([]*entity.Resource, 0, len(rows))
	for i := range rows {
		out = append(out, mapper.ResourceModelToEntity(&rows[i]))
	}
	return out, nil
}

func (r *KingdomRepo) loadBuildings(ctx context.Context, id entity.KingdomID) ([]*entity.Building, error) {
	var rows []model.Building
	if err := r.db.WithContext(ctx).Where("kingdom_id = ?", string(id)).Find(&rows).Error; err != nil {
		return nil, errx.ErrUnavailable.WithCause(err).
			WithData("op", opLoadState).WithData("kingdom_id", string(id))
	}
	out := make([]*entity.Building, 0, len(rows))
	for i := range rows {
		out = append(out, mapper.BuildingModelToEntity(&rows[i]))
	}
	return out, nil
}

func (r *KingdomRepo) loadTroops(ctx context.Context, id entity.KingdomID) ([]*entity.Troop, error) {
	var rows []model.Troop
	if err := r.db.WithContext(ctx).Where("kingdom_id = ?", string(id)).Find(&rows).Error; err != nil {
		return nil, errx.ErrUnavailable.WithCause(err).
			WithData("op", opLoadState).WithData("kingdom_id", string(id))
	}
	out := make([]*entity.Troop, 0, len(rows))
	for i := range rows {
		out = append(out, mapper.TroopModelToEntity(&rows[i]))
	}
	return out, nil
}

func (r *KingdomRepo) loadUnresolvedAttacks(ctx context.Context, id entity.KingdomID) ([]*entity.Attack, error) {
	var rows []model.Attack
	err := r.db.WithContext(ctx).
		Where("source_kingdom_id = ? AND status NOT IN ?", string(id),
			[]string{string(entity.AttackCompleted), string(entity.AttackFailed)}).
		Find(&rows).Error
	if err != nil {
		return nil, errx.ErrUnavailable.WithCause(err).
			WithData("op", opLoadState).WithData("kingdom_id", string(id))
	}
	out := make([]*entity.Attack, 0, len(rows))
	for i := range rows {
		a, err := mapper.AttackModelToEntity(&rows[i])
		if err != nil {
			return nil, errx.ErrInternal.WithCause(err).
				WithData("op", opLoadState).WithData("attack_id", rows[i].ID)
		}
		out = append(out, a)
	}
	return out, nil
}

const opSnapshot = "repo.kingdom.Snapshot"

// Snapshot writes every dirty section inside one transaction so a
// kingdom never persists half-updated.
func (r *KingdomRepo) Snapshot(ctx context.Context, s *entity.KingdomPersistSnapshot) error {
	if s == nil {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := r.WithTx(tx)
		if s.SaveKingdom && s.Kingdom != nil {
			if err := txRepo.saveKingdomRow(ctx, s.Kingdom, s.LastUpdated); err != nil {
				return err
			}
		}
		if s.SaveResources {
			for _, row := range s.Resources {
				if err := txRepo.saveResourceRow(ctx, row); err != nil {
					return err
				}
			}
		}
		if s.SaveBuildings {
			for _, row := range s.Buildings {
				if err := txRepo.saveBuildingRow(ctx, row); err != nil {
					return err
				}
			}
		}
		if s.SaveTroops {
			for _, row := range s.Troops {
				if err := txRepo.saveTroopRow(ctx, row); err != nil {
					return err
				}
			}
		}
		if s.SaveAttacks {
			for _, row := range s.Attacks {
				if err := txRepo.saveAttackRow(ctx, row); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (r *KingdomRepo) saveKingdomRow(ctx context.Context, k *entity.Kingdom, updatedAt time.Time) error {
	m := mapper.KingdomEntityToModel(k, updatedAt)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return errx.ErrUnavailable.WithCause(err).
			WithData("op", opSnapshot).WithData("kingdom_id", m.ID)
	}
	return nil
}

func (r *KingdomRepo) saveResourceRow(ctx context.Context, row entity.Resource) error {
	if err := r.db.WithContext(ctx).Save(mapper.ResourceEntityToModel(row)).Error; err != nil {
		return errx.ErrUnavailable.WithCause(err).
			WithData("op", opSnapshot).WithData("resource_id", row.ID)
	}
	return nil
}

func (r *KingdomRepo) saveBuildingRow(ctx context.Context, row entity.Building) error {
	if err := r.db.WithContext(ctx).Save(mapper.BuildingEntityToModel(row)).Error; err != nil {
		return errx.ErrUnavailable.WithCause(err).
			WithData("op", opSnapshot).WithData("building_id", row.ID)
	}
	return nil
}

func (r *KingdomRepo) saveTroopRow(ctx context.Context, row entity.Troop) error {
	if err := r.db.WithContext(ctx).Save(mapper.TroopEntityToModel(row)).Error; err != nil {
		return errx.ErrUnavailable.WithCause(err).
			WithData("op", opSnapshot).WithData("troop_id", row.ID)
	}
	return nil
}

func (r *KingdomRepo) saveAttackRow(ctx context.Context, row entity.Attack) error {
	m, err := mapper.AttackEntityToModel(row)
	if err != nil {
		return errx.ErrInternal.WithCause(err).
			WithData("op", opSnapshot).WithData("attack_id", row.ID)
	}
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return errx.ErrUnavailable.WithCause(err).
			WithData("op", opSnapshot).WithData("attack_id", row.ID)
	}
	return nil
}

const opInsertAttack = "repo.kingdom.InsertAttack"

// InsertAttack persists a new attack row before the caller acknowledges
// the order; troops already paid for it.
func (r *KingdomRepo) InsertAttack(ctx context.Context, a entity.Attack) error {
	m, err := mapper.AttackEntityToModel(a)
	if err != nil {
		return errx.ErrInternal.WithCause(err).
			WithData("op", opInsertAttack).WithData("attack_id", a.ID)
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return errx.ErrUnavailable.WithCause(err).
			WithData("op", opInsertAttack).WithData("attack_id", a.ID)
	}
	return nil
}

const opGetKingdomMeta = "repo.kingdom.GetKingdomMeta"

func (r *KingdomRepo) GetKingdomMeta(ctx context.Context, id entity.KingdomID) (port.KingdomMeta, error) {
	var m model.Kingdom
	err := r.db.WithContext(ctx).
		Select("id", "user_id", "name", "strength", "location_x", "location_y").
		Where("id = ?", string(id)).First(&m).Error

	switch {
	case err == nil:
		return port.KingdomMeta{
			ID:       entity.KingdomID(m.ID),
			UserID:   m.UserID,
			Name:     m.Name,
			Strength: m.Strength,
			Location: entity.Location{X: m.LocationX, Y: m.LocationY},
		}, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return port.KingdomMeta{}, entity.ErrKingdomNotFound
	default:
		return port.KingdomMeta{}, errx.ErrUnavailable.WithCause(err).
			WithData("op", opGetKingdomMeta).WithData("kingdom_id", string(id))
	}
}

const opUpdateRow = "repo.kingdom.UpdateRow"

// Per-row updates for the sync endpoint. Every write is scoped by both
// the row id and the kingdom id so a client can never move a row across
// kingdoms.

func (r *KingdomRepo) UpdateResourceRow(ctx context.Context, kingdomID entity.KingdomID, row entity.Resource) error {
	m := mapper.ResourceEntityToModel(row)
	res := r.db.WithContext(ctx).Model(&model.Resource{}).
		Where("id = ? AND kingdom_id = ?", m.ID, string(kingdomID)).
		Updates(map[string]any{
			"amount":       m.Amount,
			"last_updated": time.Now(),
		})
	return rowUpdateOutcome(res, "resource_id", m.ID)
}

func (r *KingdomRepo) UpdateBuildingRow(ctx context.Context, kingdomID entity.KingdomID, row entity.Building) error {
	m := mapper.BuildingEntityToModel(row)
	res := r.db.WithContext(ctx).Model(&model.Building{}).
		Where("id = ? AND kingdom_id = ?", m.ID, string(kingdomID)).
		Updates(map[string]any{
			"level":               m.Level,
			"construction_status": m.Status,
			"completion_time":     m.CompletionTime,
		})
	return rowUpdateOutcome(res, "building_id", m.ID)
}

func (r *KingdomRepo) UpdateTroopRow(ctx context.Context, kingdomID entity.KingdomID, row entity.Troop) error {
	m := mapper.TroopEntityToModel(row)
	res := r.db.WithContext(ctx).Model(&model.Troop{}).
		Where("id = ? AND kingdom_id = ?", m.ID, string(kingdomID)).
		Updates(map[string]any{
			"count":           m.Count,
			"training_status": m.Status,
			"completion_time": m.CompletionTime,
		})
	return rowUpdateOutcome(res, "troop_id", m.ID)
}

func rowUpdateOutcome(res *gorm.DB, idKey, id string) error {
	if res.Error != nil {
		return errx.ErrUnavailable.WithCause(res.Error).
			WithData("op", opUpdateRow).WithData(idKey, id)
	}
	if res.RowsAffected == 0 {
		return errx.ErrBadParam.WithData("op", opUpdateRow).WithData(idKey, id)
	}
	return nil
}

const opTouchKingdom = "repo.kingdom.TouchKingdom"

func (r *KingdomRepo) TouchKingdom(ctx context.Context, id entity.KingdomID, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&model.Kingdom{}).
		Where("id = ?", string(id)).
		Update("updated_at", at).Error
	if err != nil {
		return errx.ErrUnavailable.WithCause(err).
			WithData("op", opTouchKingdom).WithData("kingdom_id", string(id))
	}
	return nil
}
