package mongodb

import (
	"context"
	"errors"
	"time"

	"DewanRaja/internal/kingdom/app/port"
	"DewanRaja/internal/kingdom/entity"
	"DewanRaja/internal/kingdom/infra/persistence/model"
	"DewanRaja/modules/kit/errx"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const defaultKingdomCollectionName = "kingdom"

const (
	opLoadState    = "repo.kingdom.LoadState"
	opSnapshot     = "repo.kingdom.Snapshot"
	opInsertAttack = "repo.kingdom.InsertAttack"
	opGetMeta      = "repo.kingdom.GetKingdomMeta"
	opUpdateRow    = "repo.kingdom.UpdateRow"
	opTouch        = "repo.kingdom.TouchKingdom"
)

// KingdomRepo stores one document per kingdom with embedded rows, so a
// single read assembles what the mysql schema splits over five tables.
type KingdomRepo struct {
	coll *mongo.Collection
}

func NewKingdomRepo(db *mongo.Database) *KingdomRepo {
	if db == nil {
		return &KingdomRepo{}
	}
	return &KingdomRepo{coll: db.Collection(defaultKingdomCollectionName)}
}

func (r *KingdomRepo) ready(op string) error {
	if r == nil || r.coll == nil {
		return errx.ErrUnavailable.WithCause(errors.New("mongodb kingdom collection is nil")).
			WithData("op", op)
	}
	return nil
}

func (r *KingdomRepo) LoadState(ctx context.Context, id entity.KingdomID) (*entity.KingdomState, error) {
	if err := r.ready(opLoadState); err != nil {
		return nil, err
	}

	var doc model.KingdomDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, entity.ErrKingdomNotFound
	}
	if err != nil {
		return nil, errx.ErrUnavailable.WithCause(err).
			WithData("op", opLoadState).WithData("kingdom_id", string(id))
	}

	state := entity.NewKingdomState(&entity.Kingdom{
		ID:        entity.KingdomID(doc.ID),
		UserID:    doc.UserID,
		Name:      doc.Name,
		Race:      doc.Race,
		Strength:  doc.Strength,
		Location:  entity.Location{X: doc.LocationX, Y: doc.LocationY},
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	})
	for _, rd := range doc.Resources {
		res := rd.ToEntity(id)
		state.Resources[res.Type] = res
	}
	for _, bd := range doc.Buildings {
		state.Buildings = append(state.Buildings, bd.ToEntity(id))
	}
	for _, td := range doc.Troops {
		t := td.ToEntity(id)
		state.Troops[t.Type] = t
	}
	for _, ad := range doc.Attacks {
		a := ad.ToEntity()
		if a.Status == entity.AttackCompleted || a.Status == entity.AttackFailed {
			continue
		}
		state.Attacks = append(state.Attacks, a)
	}
	state.LastUpdated = time.Now()
	return state, nil
}

// Snapshot applies the dirty sections as one update; a document write is
// atomic, so the mysql transaction guarantee holds here for free.
func (r *KingdomRepo) Snapshot(ctx context.Context, s *entity.KingdomPersistSnapshot) error {
	if s == nil {
		return nil
	}
	if err := r.ready(opSnapshot); err != nil {
		return err
	}

	set := bson.M{"updated_at": s.LastUpdated}
	if s.SaveKingdom && s.Kingdom != nil {
		set["user_id"] = s.Kingdom.UserID
		set["name"] = s.Kingdom.Name
		set["race"] = s.Kingdom.Race
		set["strength"] = s.Kingdom.Strength
		set["location_x"] = s.Kingdom.Location.X
		set["location_y"] = s.Kingdom.Location.Y
	}
	if s.SaveResources {
		docs := make([]model.ResourceDoc, 0, len(s.Resources))
		for _, row := range s.Resources {
			docs = append(docs, model.ResourceEntityToDoc(row))
		}
		set["resources"] = docs
	}
	if s.SaveBuildings {
		docs := make([]model.BuildingDoc, 0, len(s.Buildings))
		for _, row := range s.Buildings {
			docs = append(docs, model.BuildingEntityToDoc(row))
		}
		set["buildings"] = docs
	}
	if s.SaveTroops {
		docs := make([]model.TroopDoc, 0, len(s.Troops))
		for _, row := range s.Troops {
			docs = append(docs, model.TroopEntityToDoc(row))
		}
		set["troops"] = docs
	}
	if s.SaveAttacks {
		docs := make([]model.AttackDoc, 0, len(s.Attacks))
		for _, row := range s.Attacks {
			docs = append(docs, model.AttackEntityToDoc(row))
		}
		set["attacks"] = docs
	}

	_, err := r.coll.UpdateOne(
		ctx,
		bson.M{"_id": string(s.KingdomID)},
		bson.M{"$set": set},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return errx.ErrUnavailable.WithCause(err).
			WithData("op", opSnapshot).WithData("kingdom_id", string(s.KingdomID))
	}
	return nil
}

func (r *KingdomRepo) InsertAttack(ctx context.Context, a entity.Attack) error {
	if err := r.ready(opInsertAttack); err != nil {
		return err
	}

	res, err := r.coll.UpdateOne(
		ctx,
		bson.M{"_id": string(a.SourceKingdomID)},
		bson.M{"$push": bson.M{"attacks": model.AttackEntityToDoc(a)}},
	)
	if err != nil {
		return errx.ErrUnavailable.WithCause(err).
			WithData("op", opInsertAttack).WithData("attack_id", a.ID)
	}
	if res.MatchedCount == 0 {
		return entity.ErrKingdomNotFound
	}
	return nil
}

func (r *KingdomRepo) GetKingdomMeta(ctx context.Context, id entity.KingdomID) (port.KingdomMeta, error) {
	if err := r.ready(opGetMeta); err != nil {
		return port.KingdomMeta{}, err
	}

	var doc model.KingdomDoc
	err := r.coll.FindOne(
		ctx,
		bson.M{"_id": string(id)},
		options.FindOne().SetProjection(bson.M{
			"user_id": 1, "name": 1, "strength": 1, "location_x": 1, "location_y": 1,
		}),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return port.KingdomMeta{}, entity.ErrKingdomNotFound
	}
	if err != nil {
		return port.KingdomMeta{}, errx.ErrUnavailable.WithCause(err).
			WithData("op", opGetMeta).WithData("kingdom_id", string(id))
	}
	return port.KingdomMeta{
		ID:       id,
		UserID:   doc.UserID,
		Name:     doc.Name,
		Strength: doc.Strength,
		Location: entity.Location{X: doc.LocationX, Y: doc.LocationY},
	}, nil
}

func (r *KingdomRepo) UpdateResourceRow(ctx context.Context, kingdomID entity.KingdomID, row entity.Resource) error {
	return r.updateEmbeddedRow(ctx, kingdomID, "resources", row.ID, bson.M{
		"resources.$[row].amount":       row.Amount,
		"resources.$[row].last_updated": time.Now(),
	})
}

func (r *KingdomRepo) UpdateBuildingRow(ctx context.Context, kingdomID entity.KingdomID, row entity.Building) error {
	return r.updateEmbeddedRow(ctx, kingdomID, "buildings", row.ID, bson.M{
		"buildings.$[row].level":               row.Level,
		"buildings.$[row].construction_status": string(row.Status),
		"buildings.$[row].completion_time":     row.CompletionTime,
	})
}

func (r *KingdomRepo) UpdateTroopRow(ctx context.Context, kingdomID entity.KingdomID, row entity.Troop) error {
	return r.updateEmbeddedRow(ctx, kingdomID, "troops", row.ID, bson.M{
		"troops.$[row].count":           row.Count,
		"troops.$[row].training_status": string(row.Status),
		"troops.$[row].completion_time": row.CompletionTime,
	})
}

func (r *KingdomRepo) updateEmbeddedRow(ctx context.Context, kingdomID entity.KingdomID, section, rowID string, set bson.M) error {
	if err := r.ready(opUpdateRow); err != nil {
		return err
	}

	res, err := r.coll.UpdateOne(
		ctx,
		bson.M{"_id": string(kingdomID)},
		bson.M{"$set": set},
		options.UpdateOne().SetArrayFilters([]any{bson.M{"row.id": rowID}}),
	)
	if err != nil {
		return errx.ErrUnavailable.WithCause(err).
			WithData("op", opUpdateRow).WithData("section", section).WithData("row_id", rowID)
	}
	if res.MatchedCount == 0 {
		return entity.ErrKingdomNotFound
	}
	if res.ModifiedCount == 0 {
		return errx.ErrBadParam.
			WithData("op", opUpdateRow).WithData("section", section).WithData("row_id", rowID)
	}
	return nil
}

func (r *KingdomRepo) TouchKingdom(ctx context.Context, id entity.KingdomID, at time.Time) error {
	if err := r.ready(opTouch); err != nil {
		return err
	}

	_, err := r.coll.UpdateOne(
		ctx,
		bson.M{"_id": string(id)},
		bson.M{"$set": bson.M{"updated_at": at}},
	)
	if err != nil {
		return errx.ErrUnavailable.WithCause(err).
			WithData("op", opTouch).WithData("kingdom_id", string(id))
	}
	return nil
}
