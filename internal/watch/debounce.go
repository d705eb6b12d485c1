// Package watch turns a directory of chat exports into a stream of
// settled files.
package watch

import (
	"sync"
	"time"
)

// settleQueue holds each path until it has been quiet for the window and
// then passes it to fire. Touching a pending path restarts its window.
type settleQueue struct {
	window time.Duration
	fire   func(path string)

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func newSettleQueue(window time.Duration, fire func(path string)) *settleQueue {
	return &settleQueue{
		window: window,
		fire:   fire,
		timers: make(map[string]*time.Timer),
	}
}

func (q *settleQueue) Touch(path string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if old, ok := q.timers[path]; ok {
		old.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(q.window, func() {
		q.mu.Lock()
		// a later Touch replaced this timer after it had already fired
		if q.timers[path] != t {
			q.mu.Unlock()
			return
		}
		delete(q.timers, path)
		q.mu.Unlock()
		q.fire(path)
	})
	q.timers[path] = t
}

// Pending reports how many paths are still inside their window.
func (q *settleQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.timers)
}

// Drop cancels every pending path without firing it.
func (q *settleQueue) Drop() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for path, t := range q.timers {
		t.Stop()
		delete(q.timers, path)
	}
}
