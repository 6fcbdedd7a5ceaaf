package registry

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Scan walks dir recursively, following symlinks, and returns one Script per
// regular file whose extension matches ext (case-insensitive) and whose stem
// is not empty. Unreadable entries are skipped.
func Scan(dir, ext string) ([]*Script, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	w := walker{ext: ext, seen: map[string]bool{}}
	w.walk(root)
	sort.Slice(w.out, func(i, j int) bool { return w.out[i].Path < w.out[j].Path })
	return w.out, nil
}

type walker struct {
	ext  string
	seen map[string]bool // resolved directories, guards symlink cycles
	out  []*Script
}

func (w *walker) walk(dir string) {
	real, err := filepath.EvalSymlinks(dir)
	if err != nil || w.seen[real] {
		return
	}
	w.seen[real] = true

	entries, err := os.ReadDir(dir)
	if err != nil {
		// permission denied and friends: skip the subtree
		return
	}
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		mode := e.Type()
		if mode&fs.ModeSymlink != 0 {
			fi, err := os.Stat(path)
			if err != nil {
				continue
			}
			mode = fi.Mode().Type()
		}
		switch {
		case mode.IsDir():
			w.walk(path)
		case mode.IsRegular():
			w.add(path)
		}
	}
}

func (w *walker) add(path string) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if !strings.EqualFold(ext, w.ext) {
		return
	}
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		return
	}
	w.out = append(w.out, NewScript(stem, path))
}
