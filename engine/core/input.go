package core

// Input accumulates window events into per-frame state. Edge state
// (pressed/released/typed) is valid until EndFrame.
type Input struct {
	keys           [keyCount]bool
	pressed        [keyCount]bool
	repeated       [keyCount]bool
	buttons        [mouseButtonCount]bool
	btnPressed     [mouseButtonCount]bool
	btnReleased    [mouseButtonCount]bool
	mouseX, mouseY float64
	scrollY        float64
	chars          []rune
	mods           Mod
}

func NewInput() *Input { return &Input{} }

func (in *Input) Handle(ev Event) {
	switch e := ev.(type) {
	case EventKey:
		if e.Key <= KeyUnknown || e.Key >= keyCount {
			return
		}
		in.mods = e.Mods
		if e.Down {
			if e.Repeat {
				in.repeated[e.Key] = true
			} else if !in.keys[e.Key] {
				in.pressed[e.Key] = true
			}
		}
		in.keys[e.Key] = e.Down
	case EventChar:
		in.chars = append(in.chars, e.Rune)
	case EventMouseMove:
		in.mouseX, in.mouseY = e.X, e.Y
	case EventMouseButton:
		if e.Button < 0 || e.Button >= mouseButtonCount {
			return
		}
		if e.Down && !in.buttons[e.Button] {
			in.btnPressed[e.Button] = true
		}
		if !e.Down && in.buttons[e.Button] {
			in.btnReleased[e.Button] = true
		}
		in.buttons[e.Button] = e.Down
	case EventScroll:
		in.scrollY += e.Yoff
	}
}

// EndFrame clears edge state. Call once per frame after the UI consumed it.
func (in *Input) EndFrame() {
	in.pressed = [keyCount]bool{}
	in.repeated = [keyCount]bool{}
	in.btnPressed = [mouseButtonCount]bool{}
	in.btnReleased = [mouseButtonCount]bool{}
	in.chars = in.chars[:0]
	in.scrollY = 0
}

func (in *Input) IsKeyDown(k Key) bool {
	if k <= KeyUnknown || k >= keyCount {
		return false
	}
	return in.keys[k]
}

// IsKeyPressed reports a key-down edge this frame; with repeat it also
// reports OS auto-repeat events.
func (in *Input) IsKeyPressed(k Key, repeat bool) bool {
	if k <= KeyUnknown || k >= keyCount {
		return false
	}
	return in.pressed[k] || (repeat && in.repeated[k])
}

func (in *Input) Mods() Mod                 { return in.mods }
func (in *Input) Mouse() (float64, float64) { return in.mouseX, in.mouseY }

func (in *Input) IsMouseDown(b MouseButton) bool {
	return b >= 0 && b < mouseButtonCount && in.buttons[b]
}

func (in *Input) IsMousePressed(b MouseButton) bool {
	return b >= 0 && b < mouseButtonCount && in.btnPressed[b]
}

func (in *Input) IsMouseReleased(b MouseButton) bool {
	return b >= 0 && b < mouseButtonCount && in.btnReleased[b]
}

func (in *Input) Chars() []rune   { return in.chars }
func (in *Input) Scroll() float64 { return in.scrollY }
