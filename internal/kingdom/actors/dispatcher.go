package actors

import (
	"DewanRaja/internal/shared/actor/messages"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/go-viper/mapstructure/v2"
)

type handlerFunc func(ctx actor.Context, k *KingdomActor, payload map[string]any)

// Dispatcher decodes the loose action payload into the typed payload for
// the action kind before any handler sees it. A handler panic is
// converted into a generic failure response; it never crosses the
// dispatch boundary.
type Dispatcher struct {
	handlers map[messages.ActionType]handlerFunc
}

func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[messages.ActionType]handlerFunc),
	}
	d.registerAll()
	return d
}

func (d *Dispatcher) registerAll() {
	register(d, messages.ActionAttack, KH.HandleAttack)
	register(d, messages.ActionBuild, KH.HandleBuild)
	register(d, messages.ActionTrain, KH.HandleTrain)
	register(d, messages.ActionResearch, KH.HandleResearch)
}

func register[P any](
	d *Dispatcher,
	action messages.ActionType,
	fn func(ctx actor.Context, k *KingdomActor, payload P),
) {
	d.handlers[action] = func(ctx actor.Context, k *KingdomActor, raw map[string]any) {
		var payload P
		if err := decodePayload(raw, &payload); err != nil {
			ctx.Respond(fail("malformed action payload"))
			return
		}
		fn(ctx, k, payload)
	}
}

func decodePayload(raw map[string]any, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

func (d *Dispatcher) Dispatch(ctx actor.Context, k *KingdomActor, action *messages.KingdomAction) {
	defer func() {
		if r := recover(); r != nil {
			ctx.Logger().Error("action handler panicked",
				"kingdom_id", k.kingdomID, "action", string(action.Type), "panic", r)
			ctx.Respond(fail("internal server error"))
		}
	}()

	handler, ok := d.handlers[action.Type]
	if !ok {
		ctx.Respond(fail("unknown action type"))
		return
	}
	handler(ctx, k, action.Payload)
}
