// Package registry tracks the script files under the scripts directory.
package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

var (
	ErrNotFound = errors.New("registry: script not found")
	ErrExists   = errors.New("registry: script already exists")
	ErrBadName  = errors.New("registry: invalid script name")
)

type Options struct {
	Dir       string
	Extension string // default ".js"
	Logger    zerolog.Logger
}

// Registry holds the scripts found by the last scan. It is owned by the UI
// goroutine; only Script output buffers may be touched from elsewhere.
type Registry struct {
	dir     string
	ext     string
	log     zerolog.Logger
	scripts []*Script
	byPath  map[string]*Script
}

// New creates the scripts directory when it is missing. It does not scan.
func New(o Options) (*Registry, error) {
	if o.Extension == "" {
		o.Extension = ".js"
	}
	dir, err := filepath.Abs(o.Dir)
	if err != nil {
		return nil, fmt.Errorf("scripts dir: %w", err)
	}
	log := o.Logger.With().Str("component", "registry").Logger()
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		log.Info().Str("dir", dir).Msg("creating scripts directory")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create scripts dir: %w", err)
		}
	}
	return &Registry{
		dir:    dir,
		ext:    o.Extension,
		log:    log,
		byPath: map[string]*Script{},
	}, nil
}

func (r *Registry) Dir() string       { return r.dir }
func (r *Registry) Extension() string { return r.ext }

// Rescan replaces the whole collection with a fresh scan of the directory.
// Scripts from the previous scan stay valid for whoever still holds them,
// and a script whose path survives the rescan keeps its output.
func (r *Registry) Rescan() error {
	found, err := Scan(r.dir, r.ext)
	if err != nil {
		r.log.Error().Err(err).Str("dir", r.dir).Msg("scan failed")
		return err
	}
	byPath := make(map[string]*Script, len(found))
	for _, s := range found {
		if old, ok := r.byPath[s.Path]; ok {
			s.log = old.log
		}
		byPath[s.Path] = s
	}
	r.scripts, r.byPath = found, byPath
	r.log.Info().Int("count", len(found)).Str("dir", r.dir).Msg("scripts loaded")
	return nil
}

// Scripts returns the current collection in path order.
func (r *Registry) Scripts() []*Script { return r.scripts }

func (r *Registry) Lookup(path string) (*Script, bool) {
	s, ok := r.byPath[path]
	return s, ok
}

// Filter returns the scripts whose name contains q, ignoring case.
func (r *Registry) Filter(q string) []*Script {
	if q == "" {
		return r.scripts
	}
	q = strings.ToLower(q)
	var out []*Script
	for _, s := range r.scripts {
		if strings.Contains(strings.ToLower(s.Name), q) {
			out = append(out, s)
		}
	}
	return out
}

// Create writes a new script file named name plus the extension and returns
// its path. The collection is unchanged until the next Rescan.
func (r *Registry) Create(name, source string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrBadName, name)
	}
	if !strings.EqualFold(filepath.Ext(name), r.ext) {
		name += r.ext
	}
	path := filepath.Join(r.dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return "", fmt.Errorf("%w: %s", ErrExists, path)
	}
	if err != nil {
		return "", fmt.Errorf("create script: %w", err)
	}
	if _, err := f.WriteString(source); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write script: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write script: %w", err)
	}
	r.log.Info().Str("path", path).Msg("script created")
	return path, nil
}

// Save overwrites a known script's file.
func (r *Registry) Save(path, source string) error {
	if _, ok := r.byPath[path]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		return fmt.Errorf("save script: %w", err)
	}
	return nil
}

// Delete removes a known script's file.
func (r *Registry) Delete(path string) error {
	if _, ok := r.byPath[path]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete script: %w", err)
	}
	r.log.Info().Str("path", path).Msg("script deleted")
	return nil
}
