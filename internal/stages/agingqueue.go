package stages

import (
	"sync"
	"time"

	"cfwai/internal/model"
)

// agingQueue is not FIFO: Pop selects the element with the smallest
// next_aging that is already <= now, ties broken by position (§3). Items
// without a ripe entry stay parked until their next_aging elapses, so the
// wait loop wakes on push, on stop, and at least every pollInterval to
// re-scan for newly-ripe items.
type agingQueue struct {
	mu           sync.Mutex
	cond         *sync.Cond
	items        []model.Item
	stopped      bool
	pollInterval time.Duration
	now          func() time.Time
}

func newAgingQueue(initial []model.Item, pollInterval time.Duration, now func() time.Time) *agingQueue {
	if now == nil {
		now = time.Now
	}
	q := &agingQueue{
		items:        append([]model.Item(nil), initial...),
		pollInterval: pollInterval,
		now:          now,
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *agingQueue) Push(item model.Item) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()
	q.cond.Broadcast()
}

// Pop blocks until some item's next_aging has elapsed, or the queue stops.
func (q *agingQueue) Pop() (item model.Item, ok bool, stopped bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		if idx, found := q.ripestIndexLocked(); found {
			item = q.items[idx]
			q.items = append(q.items[:idx], q.items[idx+1:]...)
			return item, true, false
		}
		if q.stopped {
			return model.Item{}, false, true
		}
		q.waitTimeoutLocked(q.waitDurationLocked())
	}
}

func (q *agingQueue) ripestIndexLocked() (int, bool) {
	now := q.now().Unix()
	best := -1
	for i, it := range q.items {
		if it.NextAging == nil || *it.NextAging > now {
			continue
		}
		if best == -1 || *it.NextAging < *q.items[best].NextAging {
			best = i
		}
	}
	return best, best != -1
}

// waitDurationLocked returns how long to sleep before re-scanning: the time
// until the soonest next_aging, capped at pollInterval.
func (q *agingQueue) waitDurationLocked() time.Duration {
	cap := q.pollInterval
	if cap <= 0 {
		cap = time.Minute
	}
	now := q.now()
	soonest := time.Duration(-1)
	for _, it := range q.items {
		if it.NextAging == nil {
			continue
		}
		until := time.Unix(*it.NextAging, 0).Sub(now)
		if until < 0 {
			until = 0
		}
		if soonest < 0 || until < soonest {
			soonest = until
		}
	}
	if soonest < 0 || soonest > cap {
		return cap
	}
	if soonest <= 0 {
		return time.Millisecond
	}
	return soonest
}

func (q *agingQueue) Snapshot() []model.Item {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]model.Item, len(q.items))
	copy(out, q.items)
	return out
}

func (q *agingQueue) Stop() {
	q.mu.Lock()
	q.stopped = true
	q.mu.Unlock()
	q.cond.Broadcast()
}

func (q *agingQueue) waitTimeoutLocked(d time.Duration) {
	if d <= 0 {
		d = time.Millisecond
	}
	timer := time.AfterFunc(d, func() {
		q.mu.Lock()
		q.cond.Broadcast()
		q.mu.Unlock()
	})
	defer timer.Stop()
	q.cond.Wait()
}
