package registry

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// Script is one script file plus the console output its runs produced.
// Name and Path never change; the output log is safe for concurrent use.
type Script struct {
	Name string
	Path string

	log *outputLog
}

// outputLog outlives a Script: a rescan hands it to the new Script for the
// same path, so runs started before the rescan still write where the UI
// reads.
type outputLog struct {
	mu  sync.Mutex
	buf strings.Builder
}

func NewScript(name, path string) *Script {
	return &Script{Name: name, Path: path, log: &outputLog{}}
}

// AppendOutput appends the fragments of one console call, space separated
// and newline terminated, as a single write.
func (s *Script) AppendOutput(fragments ...string) {
	l := s.log
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, f := range fragments {
		if i > 0 {
			l.buf.WriteByte(' ')
		}
		l.buf.WriteString(f)
	}
	l.buf.WriteByte('\n')
}

// Output returns a copy of everything appended so far.
func (s *Script) Output() string {
	s.log.mu.Lock()
	defer s.log.mu.Unlock()
	return s.log.buf.String()
}

func (s *Script) ClearOutput() {
	s.log.mu.Lock()
	s.log.buf.Reset()
	s.log.mu.Unlock()
}

// Source reads the script file.
func (s *Script) Source() (string, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return "", fmt.Errorf("read script %s: %w", s.Name, err)
	}
	return string(b), nil
}
