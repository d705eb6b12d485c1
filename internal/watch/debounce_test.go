package watch

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fired struct {
	mu    sync.Mutex
	paths []string
}

func (f *fired) add(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, path)
}

func (f *fired) snapshot() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.paths...)
}

func TestSettleQueue_CoalescesTouchesPerPath(t *testing.T) {
	var got fired
	q := newSettleQueue(50*time.Millisecond, got.add)
	defer q.Drop()

	for i := 0; i < 10; i++ {
		q.Touch("a.txt")
		time.Sleep(10 * time.Millisecond)
	}
	assert.Equal(t, 1, q.Pending())

	assert.Eventually(t, func() bool { return len(got.snapshot()) == 1 }, time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, []string{"a.txt"}, got.snapshot())
	assert.Equal(t, 0, q.Pending())
}

func TestSettleQueue_PathsSettleIndependently(t *testing.T) {
	var got fired
	q := newSettleQueue(30*time.Millisecond, got.add)
	defer q.Drop()

	q.Touch("a.txt")
	q.Touch("b.txt")

	assert.Eventually(t, func() bool { return len(got.snapshot()) == 2 }, time.Second, 10*time.Millisecond)
	assert.ElementsMatch(t, []string{"a.txt", "b.txt"}, got.snapshot())
}

func TestSettleQueue_DropCancelsPending(t *testing.T) {
	var got fired
	q := newSettleQueue(50*time.Millisecond, got.add)

	q.Touch("a.txt")
	q.Drop()

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, got.snapshot())
	assert.Equal(t, 0, q.Pending())
}
