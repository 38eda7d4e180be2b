package actors

import (
	"context"
	"time"

	"DewanRaja/internal/kingdom/app/port"
	"DewanRaja/internal/kingdom/dc"
	"DewanRaja/internal/kingdom/entity"
	"DewanRaja/internal/kingdom/production"
	"DewanRaja/internal/kingdom/service"
	"DewanRaja/internal/shared/actor/messages"

	"github.com/asynkron/protoactor-go/actor"
)

type State int

const (
	None State = iota
	Init
	Online
	Offline
	Stopping
)

// KingdomActor owns one resident kingdom. Everything that mutates the
// kingdom flows through its mailbox, so the load-validate-mutate-save
// sequence never interleaves for one kingdom.
type KingdomActor struct {
	state      State
	kingdomID  KingdomID
	repo       port.KingdomRepository
	dc         *dc.KingdomDC
	entity     *entity.KingdomState
	dispatcher *Dispatcher
	simEvery   time.Duration
	tickStop   chan struct{}
}

type flushTick struct{}

func (flushTick) NotInfluenceReceiveTimeout() {}

type simTick struct{}

func (simTick) NotInfluenceReceiveTimeout() {}

func NewKingdomActor(id KingdomID, repo port.KingdomRepository, flushEvery, simEvery time.Duration) *KingdomActor {
	if simEvery <= 0 {
		simEvery = time.Second
	}
	return &KingdomActor{
		state:      None,
		kingdomID:  id,
		repo:       repo,
		dc:         dc.NewKingdomDC(repo, flushEvery),
		dispatcher: NewDispatcher(),
		simEvery:   simEvery,
	}
}

func (k *KingdomActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		k.state = Init
		k.init(ctx)
		return
	case *actor.Stopping:
		k.stopTickLoop()
		closeCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := k.dc.Close(closeCtx); err != nil {
			ctx.Logger().Error("kingdom dc close failed", "kingdom_id", k.kingdomID, "err", err)
		}
		k.state = Stopping
		return
	case *actor.Stopped:
		k.stopTickLoop()
		k.state = Offline
		return
	case *actor.Restarting:
		k.stopTickLoop()
		k.state = Init
		return
	case flushTick:
		if k.state != Online {
			return
		}
		k.dc.Flush(context.TODO())
		return
	case simTick:
		if k.state != Online {
			return
		}
		k.simulate(ctx, time.Now())
		return
	case *messages.LoadState:
		if k.state != Online || k.entity == nil {
			ctx.Respond(&messages.StateSnapshot{Found: false})
			return
		}
		ctx.Respond(&messages.StateSnapshot{View: k.entity.View(), Found: true})
		return
	case messages.FlushNow:
		k.dc.Flush(context.TODO())
		ctx.Respond(messages.FlushDone{})
		return
	case *messages.KingdomAction:
		if msg == nil {
			ctx.Respond(messages.Fail("nil action"))
			return
		}
		if k.state != Online {
			ctx.Respond(messages.Fail("kingdom not available"))
			return
		}
		k.dispatcher.Dispatch(ctx, k, msg)
	default:
		return
	}
}

func (k *KingdomActor) init(ctx actor.Context) {
	e, err := k.dc.Load(context.TODO(), k.kingdomID)
	if err != nil {
		ctx.Logger().Error("kingdom load failed", "kingdom_id", k.kingdomID, "err", err)
		k.state = Stopping
		ctx.Stop(ctx.Self())
		return
	}
	k.state = Online
	k.entity = e
	k.startTickLoop(ctx)
}

func (k *KingdomActor) KingdomID() KingdomID {
	return k.kingdomID
}

func (k *KingdomActor) Entity() *entity.KingdomState {
	return k.entity
}

func (k *KingdomActor) DC() *dc.KingdomDC {
	return k.dc
}

// simulate advances the kingdom to now: resource accrual, finished
// construction and training, and attack resolution.
func (k *KingdomActor) simulate(ctx actor.Context, now time.Time) {
	s := k.entity
	if s == nil {
		return
	}

	k.accrueResources(now)

	for _, b := range s.Buildings {
		if b.CompleteWork(now) {
			s.MarkBuildingsDirty()
		}
	}
	for _, t := range s.Troops {
		if t.CompleteTraining(now) {
			s.MarkTroopsDirty()
		}
	}

	k.resolveDueAttacks(ctx, now)
}

func (k *KingdomActor) accrueResources(now time.Time) {
	s := k.entity
	rates := production.Rates(s.Buildings)
	changed := false
	for _, res := range s.Resources {
		rate, ok := rates[res.Type]
		if ok {
			res.ProductionRate = rate
		}
		gained := production.Gained(rates, now.Sub(res.LastUpdated).Hours())
		if qty := gained[res.Type]; qty > 0 {
			res.Gain(qty)
			changed = true
		}
		res.LastUpdated = now
	}
	if changed {
		s.MarkResourcesDirty()
	}
}

func (k *KingdomActor) resolveDueAttacks(ctx actor.Context, now time.Time) {
	s := k.entity
	for _, a := range s.Attacks {
		if !a.DueForResolution(now) {
			continue
		}

		metaCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		meta, err := k.repo.GetKingdomMeta(metaCtx, a.TargetKingdomID)
		cancel()
		if err != nil {
			// Target lookup failed; the attack stays due and the next
			// tick retries.
			ctx.Logger().Error("attack resolution deferred",
				"attack_id", a.ID, "target", a.TargetKingdomID, "err", err)
			continue
		}

		result := service.ResolveAttack(a.Troops, s.Troops, meta.Strength)
		a.Resolve(result)
		for troopType, count := range result.TroopsReturned {
			if t, ok := s.Troops[troopType]; ok {
				t.Refund(count)
			}
		}
		s.MarkTroopsDirty()
		s.MarkAttacksDirty()
	}
}

func (k *KingdomActor) startTickLoop(ctx actor.Context) {
	if k.tickStop != nil {
		return
	}
	flushEvery := k.dc.FlushEvery()
	if flushEvery <= 0 || k.simEvery <= 0 {
		return
	}
	k.tickStop = make(chan struct{})
	self := ctx.Self()
	root := ctx.ActorSystem().Root

	go func(stop <-chan struct{}, flushEvery, simEvery time.Duration) {
		flush := time.NewTicker(flushEvery)
		sim := time.NewTicker(simEvery)
		defer flush.Stop()
		defer sim.Stop()
		for {
			select {
			case <-flush.C:
				root.Send(self, flushTick{})
			case <-sim.C:
				root.Send(self, simTick{})
			case <-stop:
				return
			}
		}
	}(k.tickStop, flushEvery, k.simEvery)
}

func (k *KingdomActor) stopTickLoop() {
	if k.tickStop == nil {
		return
	}
	close(k.tickStop)
	k.tickStop = nil
}
