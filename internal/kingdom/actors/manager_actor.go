package actors

import (
	"time"

	"DewanRaja/internal/kingdom/app/port"
	"DewanRaja/internal/kingdom/entity"
	"DewanRaja/internal/shared/actor/messages"

	"github.com/asynkron/protoactor-go/actor"
)

type KingdomID = entity.KingdomID

// ManagerActor routes every kingdom-addressed message to that kingdom's
// actor, spawning it on first use. One actor per kingdom is the
// serialization primitive: all mutations of one kingdom pass through a
// single mailbox.
type ManagerActor struct {
	repo          port.KingdomRepository
	flushEvery    time.Duration
	simEvery      time.Duration
	kingdomActors map[KingdomID]*actor.PID
}

func NewManagerActor(repo port.KingdomRepository, flushEvery, simEvery time.Duration) *ManagerActor {
	return &ManagerActor{
		repo:          repo,
		flushEvery:    flushEvery,
		simEvery:      simEvery,
		kingdomActors: make(map[KingdomID]*actor.PID),
	}
}

func (m *ManagerActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *messages.KingdomAction:
		if msg == nil || msg.KingdomID == "" {
			ctx.Respond(messages.Fail("missing kingdom id"))
			return
		}
		ctx.Forward(m.getOrSpawn(ctx, msg.KingdomID))
	case *messages.LoadState:
		if msg == nil || msg.KingdomID == "" {
			ctx.Respond(&messages.StateSnapshot{Found: false})
			return
		}
		ctx.Forward(m.getOrSpawn(ctx, msg.KingdomID))
	default:
		return
	}
}

func (m *ManagerActor) getOrSpawn(ctx actor.Context, id KingdomID) *actor.PID {
	if pid, ok := m.kingdomActors[id]; ok && pid != nil {
		return pid
	}

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewKingdomActor(id, m.repo, m.flushEvery, m.simEvery)
	})
	pid := ctx.Spawn(props)
	m.kingdomActors[id] = pid
	return pid
}
