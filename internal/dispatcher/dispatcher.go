// Package dispatcher defines the small cross-stage hand-off interface that
// replaces the cyclic decision/aging/download imports design notes flag:
// stages communicate by enqueuing to each other through Dispatcher, not by
// importing one another directly.
package dispatcher

import "cfwai/internal/model"

// Dispatcher enqueues an item onto the named stage's queue and wakes its
// worker.
type Dispatcher interface {
	EnqueueTo(stage model.Stage, item model.Item) error
}
