package scheduler

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubastard/buddy/engine/taskqueue"
	"github.com/hubastard/buddy/scripting/bindings"
	"github.com/hubastard/buddy/scripting/registry"
)

func writeScript(t *testing.T, name, src string) *registry.Script {
	t.Helper()
	path := filepath.Join(t.TempDir(), name+".js")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return registry.NewScript(name, path)
}

func waitDone(t *testing.T, r *Record) {
	t.Helper()
	select {
	case <-r.Done():
	case <-time.After(5 * time.Second):
		t.Fatalf("run %s did not finish", r.ID)
	}
}

func TestRunCapturesConsoleOutput(t *testing.T) {
	s := New(Options{Logger: zerolog.Nop()})
	sc := writeScript(t, "hello", `console.log("hello", 1 + 1); console.log("bye")`)

	rec := s.RunAsync(sc)
	require.NotEmpty(t, rec.ID)
	waitDone(t, rec)

	assert.NoError(t, rec.Err())
	assert.Equal(t, Completed, rec.State())
	assert.Equal(t, "hello 2\nbye\n", sc.Output())
}

func TestUncaughtExceptionAppendsToOutput(t *testing.T) {
	s := New(Options{Logger: zerolog.Nop()})
	sc := writeScript(t, "boom", `console.log("before"); throw new Error("boom")`)

	rec := s.RunAsync(sc)
	waitDone(t, rec)

	assert.NoError(t, rec.Err())
	assert.Equal(t, "before\n[JS exception] Error: boom\n", sc.Output())
}

func TestMissingFileAbortsRun(t *testing.T) {
	s := New(Options{Logger: zerolog.Nop()})
	sc := registry.NewScript("gone", filepath.Join(t.TempDir(), "gone.js"))

	rec := s.RunAsync(sc)
	waitDone(t, rec)

	assert.Error(t, rec.Err())
	assert.Empty(t, sc.Output())
}

func TestSameScriptRunsConcurrentlyInOwnEnvironments(t *testing.T) {
	s := New(Options{Logger: zerolog.Nop()})
	sc := writeScript(t, "twice", `
		if (globalThis.marker) throw new Error("shared global");
		globalThis.marker = true;
		for (var i = 0; i < 50; i++) console.log("line", i);
	`)

	a, b := s.RunAsync(sc), s.RunAsync(sc)
	assert.NotEqual(t, a.ID, b.ID)
	waitDone(t, a)
	waitDone(t, b)

	out := sc.Output()
	assert.NotContains(t, out, "[JS exception]")
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 100)
	for _, l := range lines {
		assert.Regexp(t, `^line \d+$`, l)
	}
}

func TestPollCompletionsReapsOnlyFinishedRuns(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	s := New(Options{Logger: zerolog.Nop(), Fetcher: bindings.NewFetcher(5*time.Second, zerolog.Nop())})
	quick := writeScript(t, "quick", `console.log("q")`)
	slow := writeScript(t, "slow", `console.log(http_get("`+srv.URL+`"))`)

	q := s.RunAsync(quick)
	sl := s.RunAsync(slow)
	waitDone(t, q)

	reaped := s.PollCompletions()
	require.Len(t, reaped, 1)
	assert.Same(t, q, reaped[0])
	assert.True(t, s.Running(slow))
	assert.Len(t, s.Active(), 1)

	close(release)
	waitDone(t, sl)
	assert.Len(t, s.PollCompletions(), 1)
	assert.Empty(t, s.Active())
	assert.False(t, s.Running(slow))
	assert.Equal(t, "ok\n", slow.Output())
}

func TestMaxConcurrentQueuesExtraRuns(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()

	s := New(Options{
		Logger:        zerolog.Nop(),
		Fetcher:       bindings.NewFetcher(5*time.Second, zerolog.Nop()),
		MaxConcurrent: 1,
	})
	sc := writeScript(t, "wait", `http_get("`+srv.URL+`")`)

	first := s.RunAsync(sc)
	require.Eventually(t, func() bool { return first.State() == Running }, 5*time.Second, 5*time.Millisecond)
	second := s.RunAsync(sc)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, Queued, second.State())

	close(release)
	waitDone(t, first)
	waitDone(t, second)
	require.NoError(t, s.Wait(t.Context()))
}

func TestCreateWindowIsQueuedForTheRenderGoroutine(t *testing.T) {
	q := taskqueue.New()
	var got []bindings.DeferredWindowTask
	s := New(Options{
		Logger:  zerolog.Nop(),
		Windows: bindings.WindowRequests{Queue: q, Materialize: func(d bindings.DeferredWindowTask) { got = append(got, d) }},
	})
	sc := writeScript(t, "win", `
		ui.create_window("Counter", function (ui) { ui.text("n") });
		console.log(typeof ui.add_rect, ui.KEY_LEFT !== undefined);
	`)

	rec := s.RunAsync(sc)
	waitDone(t, rec)
	assert.Empty(t, got, "materialisation waits for the drain")
	assert.Equal(t, "undefined true\n", sc.Output())

	assert.Equal(t, 1, q.Drain())
	require.Len(t, got, 1)
	assert.Equal(t, "Counter", got[0].Title)
	assert.Contains(t, got[0].Callback.Source, `ui.text("n")`)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "queued", Queued.String())
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "completed", Completed.String())
}

func TestRunawayRecursionEndsRun(t *testing.T) {
	s := New(Options{Logger: zerolog.Nop(), MaxCallStackSize: 100})
	sc := writeScript(t, "deep", `
		function f(n) { return f(n + 1) }
		try { f(0) } catch (e) { console.log("caught") }
	`)

	rec := s.RunAsync(sc)
	waitDone(t, rec)

	assert.NoError(t, rec.Err())
	assert.Equal(t, "[JS exception] InternalError: too much recursion\n", sc.Output())
}
