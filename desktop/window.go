// Package desktop is the shell the scripts live in: a themed background
// with shortcut tiles, the script playground and every window scripts
// create. All of it runs on the render goroutine.
package desktop

import (
	"github.com/hubastard/buddy/engine/draw"
	"github.com/hubastard/buddy/engine/ui"
)

// Window is anything the host draws once per frame.
type Window interface {
	Draw(ctx *ui.Context)
	IsOpen() bool
}

// Disposer is implemented by windows holding resources that must be freed
// on the render goroutine once they are closed.
type Disposer interface {
	Dispose()
}

// Sizer and Positioner are the optional geometry capabilities.
type Sizer interface {
	SetSize(s draw.Vec2)
	Size() draw.Vec2
}

type Positioner interface {
	SetPos(p draw.Vec2)
	Pos() draw.Vec2
}
