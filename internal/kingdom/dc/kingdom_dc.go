package dc

import (
	"context"
	"sync"
	"time"

	"DewanRaja/internal/kingdom/app/port"
	"DewanRaja/internal/kingdom/entity"
)

type KingdomID = entity.KingdomID

// KingdomDC owns one kingdom's resident state. Load pulls the full
// aggregate into memory; Flush runs dirty-check + synchronous snapshot +
// asynchronous write-back. Persist granularity is whole dirty sections
// (resource rows, building rows, ...), not column-level updates.
//
// Writes that bypass the dc (the sync endpoint hitting the store
// directly) can race a resident copy; the actor layer keeps residency
// and direct sync mutually exclusive per kingdom.
type KingdomDC struct {
	repo       port.KingdomRepository
	entity     *entity.KingdomState
	flushEvery time.Duration

	mu      sync.Mutex
	pending *entity.KingdomPersistSnapshot
	version uint64
	closed  bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

func NewKingdomDC(repo port.KingdomRepository, flushEvery time.Duration) *KingdomDC {
	if flushEvery <= 0 {
		flushEvery = 30 * time.Second
	}
	d := &KingdomDC{
		repo:       repo,
		flushEvery: flushEvery,
		wake:       make(chan struct{}, 1),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	go d.writerLoop()
	return d
}

func (d *KingdomDC) Load(ctx context.Context, id KingdomID) (*entity.KingdomState, error) {
	state, err := d.repo.LoadState(ctx, id)
	if err != nil {
		return nil, err
	}
	d.entity = state
	return state, nil
}

func (d *KingdomDC) Flush(ctx context.Context) {
	if !d.IsDirty() {
		return
	}
	s, ok := d.buildNextSnapshot()
	if !ok {
		return
	}
	d.enqueueLatest(s)
}

func (d *KingdomDC) IsDirty() bool {
	if d.entity == nil {
		return false
	}
	return d.entity.Dirty()
}

func (d *KingdomDC) ClearDirty() {
	if d.entity == nil {
		return
	}
	d.entity.ClearDirty()
}

func (d *KingdomDC) Entity() *entity.KingdomState {
	return d.entity
}

func (d *KingdomDC) FlushEvery() time.Duration {
	return d.flushEvery
}

// Close performs a final flush and waits for the writer to drain.
func (d *KingdomDC) Close(ctx context.Context) error {
	d.Flush(ctx)

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.stop)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *KingdomDC) buildNextSnapshot() (*entity.KingdomPersistSnapshot, bool) {
	if d.entity == nil {
		return nil, false
	}
	d.mu.Lock()
	d.version++
	version := d.version
	d.mu.Unlock()

	s, ok := d.entity.BuildPersistSnapshot(version)
	if !ok {
		return nil, false
	}
	d.entity.ClearDirty()
	return s, true
}

func (d *KingdomDC) enqueueLatest(s *entity.KingdomPersistSnapshot) {
	if s == nil {
		return
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	if d.pending == nil || d.pending.Version < s.Version {
		d.pending = s
	}
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *KingdomDC) popPending() *entity.KingdomPersistSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.pending
	d.pending = nil
	return s
}

func (d *KingdomDC) requeueOnError(s *entity.KingdomPersistSnapshot) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	if d.pending == nil || d.pending.Version < s.Version {
		d.pending = s
	}
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *KingdomDC) writerLoop() {
	defer close(d.done)

	for {
		select {
		case <-d.wake:
			d.consumePending()
		case <-d.stop:
			d.consumePending()
			return
		}
	}
}

func (d *KingdomDC) consumePending() {
	for {
		s := d.popPending()
		if s == nil {
			return
		}
		if err := d.repo.Snapshot(context.TODO(), s); err != nil {
			// Requeue the failed snapshot; a newer version wins if one
			// arrived meanwhile.
			d.requeueOnError(s)
			time.Sleep(200 * time.Millisecond)
			continue
		}
	}
}
