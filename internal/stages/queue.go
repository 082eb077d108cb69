package stages

import (
	"sync"
	"time"

	"cfwai/internal/model"
)

// condQueue is the mutex-plus-condition-variable guarded FIFO the decision
// and download stages dequeue from. Its Wait loop rechecks the empty
// predicate and is woken on push, on stop, and by a background timer — the
// timer exists only so a worker blocked here still observes shutdown (or a
// newly-elapsed post-processing interval) without a fresh enqueue, since
// plain sync.Cond has no notion of a timed wait.
type condQueue struct {
	mu       sync.Mutex
	cond     *sync.Cond
	items    []model.Item
	flipFlop bool
	stopped  bool
}

func newCondQueue(initial []model.Item, flipFlop bool) *condQueue {
	q := &condQueue{items: append([]model.Item(nil), initial...), flipFlop: flipFlop}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends item to the tail and wakes any waiting Pop.
func (q *condQueue) Push(item model.Item) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()
	q.cond.Broadcast()
}

// Pop blocks until an item is available or the queue is stopped, waking at
// least every timeout to re-check external state. ok is false only when
// stopped is also true and nothing remained to drain.
func (q *condQueue) Pop(timeout time.Duration) (item model.Item, ok bool, stopped bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.stopped {
		q.waitTimeoutLocked(timeout)
	}
	if len(q.items) == 0 {
		return model.Item{}, false, q.stopped
	}
	item = q.items[0]
	q.items = q.items[1:]
	if q.flipFlop {
		reverseItems(q.items)
	}
	return item, true, false
}

// Remove deletes the first item matching predicate, returning true if one
// was found and removed.
func (q *condQueue) Remove(matches func(model.Item) bool) (model.Item, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, it := range q.items {
		if matches(it) {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return it, true
		}
	}
	return model.Item{}, false
}

// Snapshot returns a copy of the queue's current contents, for persistence.
func (q *condQueue) Snapshot() []model.Item {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]model.Item, len(q.items))
	copy(out, q.items)
	return out
}

// Stop marks the queue stopped and wakes every waiter.
func (q *condQueue) Stop() {
	q.mu.Lock()
	q.stopped = true
	q.mu.Unlock()
	q.cond.Broadcast()
}

func (q *condQueue) waitTimeoutLocked(d time.Duration) {
	if d <= 0 {
		d = time.Second
	}
	timer := time.AfterFunc(d, func() {
		q.mu.Lock()
		q.cond.Broadcast()
		q.mu.Unlock()
	})
	defer timer.Stop()
	q.cond.Wait()
}

func reverseItems(items []model.Item) {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}
