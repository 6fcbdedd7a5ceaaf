package desktop

import (
	"strconv"

	"github.com/hubastard/buddy/engine/colors"
	"github.com/hubastard/buddy/engine/draw"
	"github.com/hubastard/buddy/engine/ui"
	"github.com/hubastard/buddy/scripting/registry"
)

const playgroundTitle = "Script Playground"

// Playground lists the scripts with their output and lets the user run,
// create, edit, pin and delete them. Closing it only hides it.
type Playground struct {
	host *Host
	open bool

	filter   string
	newName  string
	editPath string
	editBuf  string
	status   string
}

func newPlayground(h *Host) *Playground {
	return &Playground{host: h, open: true}
}

func (p *Playground) IsOpen() bool { return p.open }
func (p *Playground) Toggle()      { p.open = !p.open }

// Status is the last action's message.
func (p *Playground) Status() string { return p.status }

func (p *Playground) Draw(ctx *ui.Context) {
	if !p.open {
		return
	}
	ctx.SetNextWindowPos(draw.V(440, 60))
	ctx.SetNextWindowSize(draw.V(560, 600))
	ctx.Begin(playgroundTitle, &p.open)
	defer ctx.End()

	reg := p.host.reg
	if reg == nil {
		ctx.TextColored(colors.ErrorText, "no scripts directory")
		return
	}

	ctx.InputText("Filter", &p.filter)
	ctx.SameLine(0)
	if ctx.Button("Refresh scripts") {
		p.host.Rescan()
		p.status = ""
	}
	ctx.InputText("##new-name", &p.newName)
	ctx.SameLine(0)
	if ctx.Button("New script") {
		p.Create(p.newName)
	}
	if p.status != "" {
		ctx.TextColored(colors.Gray, p.status)
	}
	ctx.Separator()

	scripts := reg.Filter(p.filter)
	if len(scripts) == 0 {
		ctx.TextColored(colors.Gray, "no scripts in "+reg.Dir())
	}
	for _, s := range scripts {
		p.drawScript(ctx, s)
	}
}

func (p *Playground) drawScript(ctx *ui.Context, s *registry.Script) {
	id := "##" + s.Path
	if !ctx.CollapsingHeader(s.Name + id) {
		return
	}
	ctx.Indent()
	defer ctx.Unindent()

	ctx.TextColored(colors.Gray, s.Path)
	if ctx.Button("Run" + id) {
		p.host.sched.RunAsync(s)
	}
	ctx.SameLine(0)
	if ctx.Button("Edit" + id) {
		p.Edit(s)
	}
	ctx.SameLine(0)
	if p.pinned(s.Path) {
		if ctx.Button("Unpin" + id) {
			p.host.Unpin(s.Path)
		}
	} else if ctx.Button("Pin" + id) {
		p.host.Pin(s.Path)
	}
	ctx.SameLine(0)
	if ctx.Button("Clear" + id) {
		s.ClearOutput()
	}
	if p.host.sched.Running(s) {
		ctx.SameLine(0)
		ctx.TextColored(colors.Yellow, "running")
	}

	if out := s.Output(); out != "" {
		ctx.TextWrapped(out)
	}

	if p.editPath != s.Path {
		return
	}
	ctx.InputTextMultiline("##source"+s.Path, &p.editBuf, 0, 0)
	if ctx.Button("Save" + id) {
		p.Save()
	}
	ctx.SameLine(0)
	if ctx.Button("Delete" + id) {
		p.Delete(s.Path)
	}
	ctx.SameLine(0)
	if ctx.Button("Cancel" + id) {
		p.editPath, p.editBuf = "", ""
	}
}

func (p *Playground) pinned(path string) bool {
	for _, v := range p.host.shortcuts {
		if v == path {
			return true
		}
	}
	return false
}

// Create writes a new script from a template, rescans and opens it for
// editing.
func (p *Playground) Create(name string) {
	src := "console.log(" + strconv.Quote("hello from "+name) + ");\n"
	path, err := p.host.reg.Create(name, src)
	if err != nil {
		p.status = err.Error()
		return
	}
	p.host.Rescan()
	p.newName = ""
	p.editPath, p.editBuf = path, src
	p.status = "created " + path
}

// Edit loads s into the editor.
func (p *Playground) Edit(s *registry.Script) {
	src, err := s.Source()
	if err != nil {
		p.status = err.Error()
		return
	}
	p.editPath, p.editBuf = s.Path, src
}

// Save writes the editor buffer back to its file.
func (p *Playground) Save() {
	if p.editPath == "" {
		return
	}
	if err := p.host.reg.Save(p.editPath, p.editBuf); err != nil {
		p.status = err.Error()
		return
	}
	p.status = "saved " + p.editPath
}

// Delete removes the script file, its shortcut and rescans.
func (p *Playground) Delete(path string) {
	if err := p.host.reg.Delete(path); err != nil {
		p.status = err.Error()
		return
	}
	p.host.Unpin(path)
	if p.editPath == path {
		p.editPath, p.editBuf = "", ""
	}
	p.host.Rescan()
	p.status = "deleted " + path
}
