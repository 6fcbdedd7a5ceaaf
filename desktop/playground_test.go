package desktop

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubastard/buddy/engine/core"
)

func TestPlaygroundCreateEditSaveDelete(t *testing.T) {
	f := newFixture(t)
	p := f.host.Playground()

	p.Create("demo")
	path := filepath.Join(f.dir, "demo.js")
	assert.Equal(t, "created "+path, p.Status())
	s, ok := f.reg.Lookup(path)
	require.True(t, ok, "create rescans")
	assert.Equal(t, path, p.editPath)

	p.editBuf = `console.log("edited")`
	p.Save()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `console.log("edited")`, string(b))

	p.Edit(s)
	assert.Equal(t, `console.log("edited")`, p.editBuf)

	f.host.Pin(path)
	p.Delete(path)
	assert.NoFileExists(t, path)
	assert.Empty(t, f.host.Shortcuts(), "deleting unpins")
	assert.Empty(t, f.reg.Scripts())
	assert.Empty(t, p.editPath)
}

func TestPlaygroundTemplateQuotesName(t *testing.T) {
	f := newFixture(t)
	p := f.host.Playground()

	p.Create(`say "hi"`)
	path := filepath.Join(f.dir, `say "hi".js`)
	require.True(t, f.host.Run(path), p.Status())
	f.waitRuns()
	s, _ := f.reg.Lookup(path)
	assert.Equal(t, "hello from say \"hi\"\n", s.Output())
}

func TestPlaygroundReportsErrors(t *testing.T) {
	f := newFixture(t)
	p := f.host.Playground()

	p.Create("a/b")
	assert.Contains(t, p.Status(), "invalid script name")

	f.script("dup", "")
	p.Create("dup")
	assert.Contains(t, p.Status(), "already exists")

	p.Delete(filepath.Join(f.dir, "unknown.js"))
	assert.Contains(t, p.Status(), "not found")
}

func TestPlaygroundFiltersAndExpands(t *testing.T) {
	f := newFixture(t)
	f.script("alpha", `console.log("from alpha")`)
	f.script("beta", "")
	p := f.host.Playground()
	p.filter = "alp"

	got := texts(f.frame())
	assert.Contains(t, got, "alpha")
	assert.NotContains(t, got, "beta")

	// content starts at (448,90); two 22px rows and the separator put the
	// first header at y=148
	f.in.Handle(core.EventMouseMove{X: 460, Y: 158})
	f.in.Handle(core.EventMouseButton{Button: core.MouseLeft, Down: true})
	f.in.Handle(core.EventMouseButton{Button: core.MouseLeft, Down: false})
	got = texts(f.frame())
	assert.Contains(t, got, filepath.Join(f.dir, "alpha.js"), "expanded header shows the path")
}

func TestPlaygroundToggle(t *testing.T) {
	f := newFixture(t)
	p := f.host.Playground()
	assert.True(t, p.IsOpen())
	assert.Contains(t, texts(f.frame()), playgroundTitle)

	p.Toggle()
	assert.NotContains(t, texts(f.frame()), playgroundTitle)
	p.Toggle()
	assert.True(t, p.IsOpen())
}
