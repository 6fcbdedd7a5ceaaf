// Package scheduler runs scripts to completion on worker goroutines, one
// fresh environment per run.
//
// There is no timeout and no cancellation: a script that never returns
// keeps its worker forever. The render goroutine calls PollCompletions once
// per frame to reap finished runs.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/hubastard/buddy/scripting/bindings"
	"github.com/hubastard/buddy/scripting/registry"
	"github.com/hubastard/buddy/scripting/vm"
)

// State of one run.
type State int32

const (
	Queued State = iota
	Running
	Completed
)

func (s State) String() string {
	switch s {
	case Queued:
		return "queued"
	case Running:
		return "running"
	default:
		return "completed"
	}
}

// Record tracks one execution run.
type Record struct {
	ID     string
	Script *registry.Script

	state atomic.Int32
	done  chan struct{}
	err   error
}

func (r *Record) State() State { return State(r.state.Load()) }

// Done is closed when the run has finished.
func (r *Record) Done() <-chan struct{} { return r.done }

// Err is the host error that aborted the run, if any. Script exceptions are
// not host errors; they end up in the script output. Valid after Done.
func (r *Record) Err() error { return r.err }

type Options struct {
	Logger zerolog.Logger
	// Fetcher backs http_get; nil leaves it uninstalled.
	Fetcher *bindings.Fetcher
	Windows bindings.WindowRequests
	// MaxConcurrent bounds simultaneously running scripts; 0 is unbounded.
	MaxConcurrent    int
	MaxCallStackSize int
}

type Scheduler struct {
	opts Options
	log  zerolog.Logger
	sem  *semaphore.Weighted

	mu      sync.Mutex
	records []*Record
	wg      sync.WaitGroup
}

func New(o Options) *Scheduler {
	s := &Scheduler{
		opts: o,
		log:  o.Logger.With().Str("component", "scheduler").Logger(),
	}
	if o.MaxConcurrent > 0 {
		s.sem = semaphore.NewWeighted(int64(o.MaxConcurrent))
	}
	return s
}

// RunAsync starts a run of script and returns without waiting for it.
// Runs of the same script are not deduplicated.
func (s *Scheduler) RunAsync(script *registry.Script) *Record {
	rec := &Record{ID: uuid.NewString(), Script: script, done: make(chan struct{})}
	s.mu.Lock()
	s.records = append(s.records, rec)
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(rec.done)
		defer rec.state.Store(int32(Completed))
		rec.err = s.run(rec)
	}()
	return rec
}

func (s *Scheduler) run(rec *Record) error {
	log := s.log.With().Str("run", rec.ID).Str("script", rec.Script.Name).Logger()
	if s.sem != nil {
		if err := s.sem.Acquire(context.Background(), 1); err != nil {
			return err
		}
		defer s.sem.Release(1)
	}
	rec.state.Store(int32(Running))

	src, err := rec.Script.Source()
	if err != nil {
		log.Error().Err(err).Msg("run aborted")
		return err
	}
	env, err := vm.New(vm.Options{Name: rec.Script.Name, Logger: s.log, MaxCallStackSize: s.opts.MaxCallStackSize})
	if err != nil {
		log.Error().Err(err).Msg("environment creation failed")
		return err
	}
	defer env.Destroy()

	err = bindings.InstallRun(env, bindings.RunOptions{
		Output:  rec.Script,
		Fetcher: s.opts.Fetcher,
		Windows: s.opts.Windows,
	})
	if err != nil {
		log.Error().Err(err).Msg("install bindings failed")
		return err
	}

	log.Info().Msg("run started")
	start := time.Now()
	_, err = env.Evaluate(src, rec.Script.Path)
	var ex *vm.Exception
	switch {
	case errors.As(err, &ex):
		log.Debug().Str("exception", ex.Message).Msg("uncaught exception")
		rec.Script.AppendOutput("[JS exception] " + ex.Message)
	case err != nil:
		log.Error().Err(err).Msg("evaluate failed")
		return err
	}
	log.Info().Dur("took", time.Since(start)).Msg("run finished")
	return nil
}

// PollCompletions removes finished runs from the collection and returns
// them. It never blocks.
func (s *Scheduler) PollCompletions() []*Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	var done []*Record
	keep := s.records[:0]
	for _, r := range s.records {
		select {
		case <-r.done:
			done = append(done, r)
		default:
			keep = append(keep, r)
		}
	}
	clear(s.records[len(keep):])
	s.records = keep
	return done
}

// Active lists the runs not yet reaped.
func (s *Scheduler) Active() []*Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Record(nil), s.records...)
}

// Running reports whether any unreaped run of script is still going.
func (s *Scheduler) Running(script *registry.Script) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.Script == script && r.State() != Completed {
			return true
		}
	}
	return false
}

// Wait blocks until every started run has finished or ctx ends.
func (s *Scheduler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
