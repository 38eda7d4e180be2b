package actor

import (
	"context"
	"errors"
	"time"

	"DewanRaja/internal/kingdom/actors"
	"DewanRaja/internal/kingdom/app/port"
	"DewanRaja/internal/shared/actor/messages"
	"DewanRaja/internal/shared/transport"

	protoactor "github.com/asynkron/protoactor-go/actor"
)

const defaultAskTimeout = 3 * time.Second

type RuntimeError struct {
	Code    int
	Message string
	Cause   error
}

func (e *RuntimeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *RuntimeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Runtime is the synchronous facade over the actor system: callers hand
// in an action or snapshot request and get the kingdom actor's reply,
// with per-kingdom serialization handled by the mailbox underneath.
type Runtime struct {
	system  *protoactor.ActorSystem
	root    *protoactor.RootContext
	manager *protoactor.PID
	timeout time.Duration
}

func NewRuntime(repo port.KingdomRepository, flushEvery, simEvery time.Duration, askTimeout time.Duration) *Runtime {
	if askTimeout <= 0 {
		askTimeout = defaultAskTimeout
	}

	system := protoactor.NewActorSystem()
	root := system.Root
	managerProps := protoactor.PropsFromProducer(func() protoactor.Actor {
		return actors.NewManagerActor(repo, flushEvery, simEvery)
	})
	manager := root.Spawn(managerProps)

	return &Runtime{
		system:  system,
		root:    root,
		manager: manager,
		timeout: askTimeout,
	}
}

// Shutdown stops the manager tree; every kingdom actor runs its final
// flush on Stopping before the system goes down.
func (r *Runtime) Shutdown() {
	if r == nil {
		return
	}
	if r.root != nil && r.manager != nil {
		if err := r.root.StopFuture(r.manager).Wait(); err != nil {
			// Proceed with system shutdown regardless; the dc close
			// already drained what it could.
			_ = err
		}
	}
	if r.system != nil {
		r.system.Shutdown()
	}
}

func (r *Runtime) request(pid *protoactor.PID, msg any, timeout time.Duration) (any, error) {
	if r == nil || r.root == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor runtime not initialized"}
	}
	if pid == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor pid is nil"}
	}

	future := r.root.RequestFuture(pid, msg, timeout)
	res, err := future.Result()
	if err != nil {
		return nil, &RuntimeError{
			Code:    transport.SystemError,
			Message: "actor request failed",
			Cause:   err,
		}
	}
	return res, nil
}

func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	if r == nil || r.timeout <= 0 {
		return defaultAskTimeout
	}
	if ctx == nil {
		return r.timeout
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	if remain < r.timeout {
		return remain
	}
	return r.timeout
}

// Dispatch routes one player action to its kingdom actor and waits for
// the uniform success/failure result.
func (r *Runtime) Dispatch(ctx context.Context, action *messages.KingdomAction) (*messages.ActionResult, error) {
	if action == nil {
		return nil, &RuntimeError{
			Code:    transport.InvalidParam,
			Message: "action must not be nil",
		}
	}

	res, err := r.request(r.manager, action, r.timeoutFromContext(ctx))
	if err != nil {
		return nil, err
	}

	result, ok := res.(*messages.ActionResult)
	if !ok {
		return nil, &RuntimeError{
			Code:    transport.SystemError,
			Message: "actor returned unexpected type",
		}
	}
	return result, nil
}

// LoadState fetches a detached snapshot of one kingdom, loading it into
// the cache if it was not resident.
func (r *Runtime) LoadState(ctx context.Context, kingdomID actors.KingdomID) (*messages.StateSnapshot, error) {
	res, err := r.request(r.manager, &messages.LoadState{KingdomID: kingdomID}, r.timeoutFromContext(ctx))
	if err != nil {
		return nil, err
	}

	snap, ok := res.(*messages.StateSnapshot)
	if !ok {
		return nil, &RuntimeError{
			Code:    transport.SystemError,
			Message: "actor returned unexpected type",
		}
	}
	return snap, nil
}

func CodeFromError(err error) int {
	if err == nil {
		return transport.OK
	}
	var re *RuntimeError
	if errors.As(err, &re) && re != nil && re.Code != 0 {
		return re.Code
	}
	return transport.SystemError
}
