package taskqueue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrainRunsInPushOrder(t *testing.T) {
	q := New()
	var got []int
	for i := 0; i < 5; i++ {
		q.Push(func() { got = append(got, i) })
	}
	q.Push(nil)
	require.Equal(t, 5, q.Len())

	assert.Equal(t, 5, q.Drain())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
	assert.Zero(t, q.Drain())
}

func TestTaskMayPushWithoutDeadlock(t *testing.T) {
	q := New()
	var order []string
	q.Push(func() {
		order = append(order, "a")
		q.Push(func() { order = append(order, "c") })
	})
	q.Push(func() { order = append(order, "b") })

	assert.Equal(t, 3, q.Drain())
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestConcurrentProducers(t *testing.T) {
	q := New()
	const producers, each = 8, 100
	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := map[int]int{}
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < each; i++ {
				q.Push(func() {
					mu.Lock()
					seen[p]++
					mu.Unlock()
				})
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, producers*each, q.Drain())
	for p := 0; p < producers; p++ {
		assert.Equal(t, each, seen[p])
	}
}
