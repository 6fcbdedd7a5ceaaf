// Package profiler records named scopes on the render thread. Recording is
// compiled in only with the "profile" build tag.
package profiler

import "time"

// ScopeStat aggregates every completed run of one scope name.
type ScopeStat struct {
	Name  string
	Count int
	Total time.Duration
	Max   time.Duration
}

func (s ScopeStat) Mean() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}
