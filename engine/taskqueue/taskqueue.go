// Package taskqueue hands closures from any goroutine to the render
// goroutine, which runs them between frames.
package taskqueue

import "sync"

type Task func()

// Queue is a mutex-guarded FIFO. Push is safe from any goroutine; Drain
// belongs to the single consumer.
type Queue struct {
	mu    sync.Mutex
	tasks []Task
}

func New() *Queue { return &Queue{} }

func (q *Queue) Push(t Task) {
	if t == nil {
		return
	}
	q.mu.Lock()
	q.tasks = append(q.tasks, t)
	q.mu.Unlock()
}

func (q *Queue) pop() (Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tasks) == 0 {
		return nil, false
	}
	t := q.tasks[0]
	q.tasks[0] = nil
	q.tasks = q.tasks[1:]
	if len(q.tasks) == 0 {
		q.tasks = nil
	}
	return t, true
}

// Drain runs queued tasks in push order until the queue is empty and
// returns how many ran. The lock is released while a task runs, so a task
// may push more work; that work runs in the same drain.
func (q *Queue) Drain() int {
	n := 0
	for {
		t, ok := q.pop()
		if !ok {
			return n
		}
		t()
		n++
	}
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}
