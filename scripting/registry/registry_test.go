package registry

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func names(ss []*Script) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = s.Name
	}
	return out
}

func TestScanFiltersAndRecurses(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "a.js"), "")
	write(t, filepath.Join(dir, "B.JS"), "")
	write(t, filepath.Join(dir, "sub", "deep", "c.js"), "")
	write(t, filepath.Join(dir, "notes.txt"), "")
	write(t, filepath.Join(dir, ".js"), "")
	write(t, filepath.Join(dir, "d.json"), "")

	got, err := Scan(dir, ".js")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "B", "c"}, names(got))
	for _, s := range got {
		assert.True(t, filepath.IsAbs(s.Path), s.Path)
	}
}

func TestScanFollowsSymlinksWithoutLooping(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	dir := t.TempDir()
	other := t.TempDir()
	write(t, filepath.Join(other, "linked.js"), "")
	require.NoError(t, os.Symlink(other, filepath.Join(dir, "link")))
	require.NoError(t, os.Symlink(dir, filepath.Join(dir, "loop")))
	write(t, filepath.Join(dir, "own.js"), "")

	got, err := Scan(dir, ".js")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"linked", "own"}, names(got))
}

func TestScanSkipsUnreadableDirs(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	dir := t.TempDir()
	write(t, filepath.Join(dir, "ok.js"), "")
	locked := filepath.Join(dir, "locked")
	write(t, filepath.Join(locked, "hidden.js"), "")
	require.NoError(t, os.Chmod(locked, 0))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	got, err := Scan(dir, ".js")
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, names(got))
}

func TestScanMissingDir(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "nope"), ".js")
	assert.Error(t, err)
}

func TestNewCreatesDirAndRescanReplaces(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Buddy", "Scripts")
	r, err := New(Options{Dir: dir, Logger: zerolog.Nop()})
	require.NoError(t, err)
	assert.DirExists(t, dir)

	write(t, filepath.Join(dir, "one.js"), "")
	require.NoError(t, r.Rescan())
	require.Len(t, r.Scripts(), 1)
	old := r.Scripts()[0]
	old.AppendOutput("kept")

	write(t, filepath.Join(dir, "two.js"), "")
	require.NoError(t, r.Rescan())
	assert.Equal(t, []string{"one", "two"}, names(r.Scripts()))
	assert.NotSame(t, old, r.Scripts()[0], "rescan builds fresh descriptors")
	assert.Equal(t, "kept\n", old.Output(), "old descriptor stays usable")
	assert.Equal(t, "kept\n", r.Scripts()[0].Output(), "output carries over by path")

	s, ok := r.Lookup(filepath.Join(dir, "two.js"))
	require.True(t, ok)
	assert.Equal(t, "two", s.Name)
	assert.Equal(t, []string{"two"}, names(r.Filter("TW")))
}

func TestOutputSurvivesRescan(t *testing.T) {
	dir := t.TempDir()
	r, err := New(Options{Dir: dir, Logger: zerolog.Nop()})
	require.NoError(t, err)
	path := filepath.Join(dir, "clock.js")
	write(t, path, "")
	require.NoError(t, r.Rescan())

	running, ok := r.Lookup(path)
	require.True(t, ok)
	running.AppendOutput("from running script")
	require.NoError(t, r.Rescan())

	s, ok := r.Lookup(path)
	require.True(t, ok)
	assert.Equal(t, "from running script\n", s.Output())

	running.AppendOutput("still running")
	assert.Equal(t, "from running script\nstill running\n", s.Output(), "writes through the old descriptor stay visible")

	s.ClearOutput()
	assert.Empty(t, running.Output())

	require.NoError(t, os.Remove(path))
	require.NoError(t, r.Rescan())
	running.AppendOutput("orphaned")
	write(t, path, "")
	require.NoError(t, r.Rescan())
	s, ok = r.Lookup(path)
	require.True(t, ok)
	assert.Empty(t, s.Output(), "a removed script does not pass its output on")
}

func TestAppendOutputFormatting(t *testing.T) {
	s := NewScript("x", "/x.js")
	s.AppendOutput("a", "b", "c")
	s.AppendOutput()
	s.AppendOutput("[JS exception] boom")
	assert.Equal(t, "a b c\n\n[JS exception] boom\n", s.Output())
	s.ClearOutput()
	assert.Empty(t, s.Output())
}

func TestConcurrentAppendsDoNotTear(t *testing.T) {
	s := NewScript("x", "/x.js")
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				s.AppendOutput("left", "right")
			}
		}()
	}
	wg.Wait()
	lines := strings.Split(strings.TrimSuffix(s.Output(), "\n"), "\n")
	require.Len(t, lines, 800)
	for _, l := range lines {
		assert.Equal(t, "left right", l)
	}
}

func TestCreateSaveDelete(t *testing.T) {
	dir := t.TempDir()
	r, err := New(Options{Dir: dir, Logger: zerolog.Nop()})
	require.NoError(t, err)

	path, err := r.Create("hello", "console.log('hi')")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "hello.js"), path)

	_, err = r.Create("hello.js", "")
	assert.ErrorIs(t, err, ErrExists)
	_, err = r.Create("../escape", "")
	assert.ErrorIs(t, err, ErrBadName)

	assert.ErrorIs(t, r.Save(path, "x"), ErrNotFound, "unknown until rescanned")
	require.NoError(t, r.Rescan())
	require.NoError(t, r.Save(path, "console.log('bye')"))
	s, _ := r.Lookup(path)
	src, err := s.Source()
	require.NoError(t, err)
	assert.Equal(t, "console.log('bye')", src)

	require.NoError(t, r.Delete(path))
	assert.NoFileExists(t, path)
	require.NoError(t, r.Rescan())
	assert.Empty(t, r.Scripts())
}

func TestWatcherNotifiesOnNewScript(t *testing.T) {
	dir := t.TempDir()
	r, err := New(Options{Dir: dir, Logger: zerolog.Nop()})
	require.NoError(t, err)

	fired := make(chan struct{}, 8)
	w, err := r.Watch(WatchOptions{
		Debounce: 20 * time.Millisecond,
		Logger:   zerolog.Nop(),
		Notify:   func() { fired <- struct{}{} },
	})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)
	defer w.Close()

	write(t, filepath.Join(dir, "new.js"), "")
	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("no notification")
	}
}
