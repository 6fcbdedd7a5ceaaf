package bindings

import (
	"context"
	"unicode/utf8"

	"github.com/dop251/goja"

	"github.com/hubastard/buddy/engine/colors"
	"github.com/hubastard/buddy/engine/core"
	"github.com/hubastard/buddy/engine/ui"
	"github.com/hubastard/buddy/scripting/vm"
)

// maxInputText caps input_text results, in bytes.
const maxInputText = 255

// widget runs with the current context; it is skipped outside a frame.
type widget func(ctx *ui.Context, c vm.Call) (goja.Value, error)

func (u *uiBinding) method(env *vm.Env, obj *goja.Object, name string, arity int, fn widget) {
	env.Method(obj, name, arity, func(c vm.Call) (goja.Value, error) {
		ctx := u.ctx()
		if ctx == nil {
			return nil, nil
		}
		return fn(ctx, c)
	})
}

func needString(c vm.Call, n int, usage string) error {
	if c.Len() < n || !vm.IsString(c.Args[0]) {
		return vm.TypeErrorf("%s", usage)
	}
	return nil
}

func (u *uiBinding) installWidgets(env *vm.Env, obj *goja.Object) {
	boolean := func(b bool) goja.Value { return env.ToValue(b) }

	// text
	u.method(env, obj, "text", 1, func(ctx *ui.Context, c vm.Call) (goja.Value, error) {
		if err := needString(c, 1, "string expected"); err != nil {
			return nil, err
		}
		ctx.Text(c.Args[0].String())
		return nil, nil
	})
	u.method(env, obj, "text_colored", 4, func(ctx *ui.Context, c vm.Call) (goja.Value, error) {
		if err := needString(c, 4, "text_colored(text, r, g, b) expected"); err != nil {
			return nil, err
		}
		a := argv{c}
		ctx.TextColored(colors.Color{a.f(1), a.f(2), a.f(3), 1}, a.str(0))
		return nil, nil
	})
	u.method(env, obj, "text_wrapped", 1, func(ctx *ui.Context, c vm.Call) (goja.Value, error) {
		if err := needString(c, 1, "string expected"); err != nil {
			return nil, err
		}
		ctx.TextWrapped(c.Args[0].String())
		return nil, nil
	})
	u.method(env, obj, "bullet_text", 1, func(ctx *ui.Context, c vm.Call) (goja.Value, error) {
		if err := needString(c, 1, "string expected"); err != nil {
			return nil, err
		}
		ctx.BulletText(c.Args[0].String())
		return nil, nil
	})

	// buttons
	u.method(env, obj, "button", 1, func(ctx *ui.Context, c vm.Call) (goja.Value, error) {
		if err := needString(c, 1, "label expected"); err != nil {
			return nil, err
		}
		return boolean(ctx.Button(c.Args[0].String())), nil
	})
	u.method(env, obj, "small_button", 1, func(ctx *ui.Context, c vm.Call) (goja.Value, error) {
		if err := needString(c, 1, "label expected"); err != nil {
			return nil, err
		}
		return boolean(ctx.SmallButton(c.Args[0].String())), nil
	})
	u.method(env, obj, "invisible_button", 3, func(ctx *ui.Context, c vm.Call) (goja.Value, error) {
		if err := needString(c, 3, "invisible_button(id, width, height) expected"); err != nil {
			return nil, err
		}
		a := argv{c}
		return boolean(ctx.InvisibleButton(a.str(0), a.f(1), a.f(2))), nil
	})

	// inputs
	u.method(env, obj, "input_text", 2, func(ctx *ui.Context, c vm.Call) (goja.Value, error) {
		if c.Len() < 2 || !vm.IsString(c.Args[0]) || !vm.IsString(c.Args[1]) {
			return nil, vm.TypeErrorf("input_text(label, text) expected")
		}
		s := truncate(c.Args[1].String(), maxInputText)
		ctx.InputText(c.Args[0].String(), &s)
		return env.ToValue(truncate(s, maxInputText)), nil
	})
	u.method(env, obj, "input_int", 2, func(ctx *ui.Context, c vm.Call) (goja.Value, error) {
		if c.Len() < 2 || !vm.IsString(c.Args[0]) || !vm.IsNumber(c.Args[1]) {
			return nil, vm.TypeErrorf("input_int(label, value) expected")
		}
		v := argv{c}.i(1)
		ctx.InputInt(c.Args[0].String(), &v)
		return env.ToValue(v), nil
	})
	u.method(env, obj, "input_float", 2, func(ctx *ui.Context, c vm.Call) (goja.Value, error) {
		if c.Len() < 2 || !vm.IsString(c.Args[0]) || !vm.IsNumber(c.Args[1]) {
			return nil, vm.TypeErrorf("input_float(label, value) expected")
		}
		v := argv{c}.f(1)
		ctx.InputFloat(c.Args[0].String(), &v)
		return env.ToValue(float64(v)), nil
	})

	// sliders
	u.method(env, obj, "slider_int", 4, func(ctx *ui.Context, c vm.Call) (goja.Value, error) {
		if err := needString(c, 4, "slider_int(label, value, min, max) expected"); err != nil {
			return nil, err
		}
		a := argv{c}
		v := a.i(1)
		ctx.SliderInt(a.str(0), &v, a.i(2), a.i(3))
		return env.ToValue(v), nil
	})
	u.method(env, obj, "slider_float", 4, func(ctx *ui.Context, c vm.Call) (goja.Value, error) {
		if err := needString(c, 4, "slider_float(label, value, min, max) expected"); err != nil {
			return nil, err
		}
		a := argv{c}
		v := a.f(1)
		ctx.SliderFloat(a.str(0), &v, a.f(2), a.f(3))
		return env.ToValue(float64(v)), nil
	})

	// checkbox and radio
	u.method(env, obj, "checkbox", 2, func(ctx *ui.Context, c vm.Call) (goja.Value, error) {
		if c.Len() < 2 || !vm.IsString(c.Args[0]) || !vm.IsBool(c.Args[1]) {
			return nil, vm.TypeErrorf("checkbox(label, checked) expected")
		}
		v := c.Args[1].ToBoolean()
		ctx.Checkbox(c.Args[0].String(), &v)
		return boolean(v), nil
	})
	u.method(env, obj, "radio_button", 2, func(ctx *ui.Context, c vm.Call) (goja.Value, error) {
		if c.Len() < 2 || !vm.IsString(c.Args[0]) || !vm.IsBool(c.Args[1]) {
			return nil, vm.TypeErrorf("radio_button(label, active) expected")
		}
		return boolean(ctx.RadioButton(c.Args[0].String(), c.Args[1].ToBoolean())), nil
	})

	// layout
	u.method(env, obj, "separator", 0, func(ctx *ui.Context, c vm.Call) (goja.Value, error) {
		ctx.Separator()
		return nil, nil
	})
	u.method(env, obj, "same_line", 1, func(ctx *ui.Context, c vm.Call) (goja.Value, error) {
		ctx.SameLine(argv{c}.optF(0, 0))
		return nil, nil
	})
	u.method(env, obj, "new_line", 0, func(ctx *ui.Context, c vm.Call) (goja.Value, error) {
		ctx.NewLine()
		return nil, nil
	})
	u.method(env, obj, "spacing", 0, func(ctx *ui.Context, c vm.Call) (goja.Value, error) {
		ctx.Spacing()
		return nil, nil
	})
	u.method(env, obj, "dummy", 2, func(ctx *ui.Context, c vm.Call) (goja.Value, error) {
		if c.Len() < 2 || !vm.IsNumber(c.Args[0]) || !vm.IsNumber(c.Args[1]) {
			return nil, vm.TypeErrorf("dummy(width, height) expected")
		}
		a := argv{c}
		ctx.Dummy(a.f(0), a.f(1))
		return nil, nil
	})
	u.method(env, obj, "get_cursor_screen_pos", 0, func(ctx *ui.Context, c vm.Call) (goja.Value, error) {
		p := ctx.CursorScreenPos()
		pos := env.NewObject()
		_ = pos.Set("x", float64(p.X))
		_ = pos.Set("y", float64(p.Y))
		return pos, nil
	})

	// trees
	u.method(env, obj, "tree_node", 1, func(ctx *ui.Context, c vm.Call) (goja.Value, error) {
		if err := needString(c, 1, "string expected"); err != nil {
			return nil, err
		}
		return boolean(ctx.TreeNode(c.Args[0].String())), nil
	})
	u.method(env, obj, "tree_pop", 0, func(ctx *ui.Context, c vm.Call) (goja.Value, error) {
		ctx.TreePop()
		return nil, nil
	})
	u.method(env, obj, "collapsing_header", 1, func(ctx *ui.Context, c vm.Call) (goja.Value, error) {
		if err := needString(c, 1, "string expected"); err != nil {
			return nil, err
		}
		return boolean(ctx.CollapsingHeader(c.Args[0].String())), nil
	})

	u.method(env, obj, "progress_bar", 3, func(ctx *ui.Context, c vm.Call) (goja.Value, error) {
		if c.Len() < 1 || !vm.IsNumber(c.Args[0]) {
			return nil, vm.TypeErrorf("progress_bar(fraction) expected")
		}
		a := argv{c}
		var w, h float32
		if c.Len() >= 3 && vm.IsNumber(c.Args[1]) && vm.IsNumber(c.Args[2]) {
			w, h = a.f(1), a.f(2)
		}
		ctx.ProgressBar(a.f(0), w, h)
		return nil, nil
	})

	// frame and input state
	u.method(env, obj, "frame", 0, func(ctx *ui.Context, c vm.Call) (goja.Value, error) {
		return env.ToValue(ctx.Frame()), nil
	})
	u.method(env, obj, "is_key_pressed", 2, func(ctx *ui.Context, c vm.Call) (goja.Value, error) {
		if c.Len() < 1 || !vm.IsNumber(c.Args[0]) {
			return nil, vm.TypeErrorf("key code expected")
		}
		repeat := c.Len() >= 2 && c.Args[1].ToBoolean()
		return boolean(ctx.IsKeyPressed(core.Key(argv{c}.i(0)), repeat)), nil
	})
	u.method(env, obj, "is_window_focused", 0, func(ctx *ui.Context, c vm.Call) (goja.Value, error) {
		return boolean(ctx.IsWindowFocused()), nil
	})
}

func (u *uiBinding) installImages(env *vm.Env, obj *goja.Object) {
	env.Method(obj, "load_image", 1, func(c vm.Call) (goja.Value, error) {
		if c.Len() < 1 || !vm.IsString(c.Args[0]) {
			return nil, vm.TypeErrorf("path string expected")
		}
		path := c.Args[0].String()
		if u.images == nil {
			return nil, vm.InternalErrorf("Failed to load image: %s", path)
		}
		h, err := u.images.Load(context.Background(), path)
		if err != nil {
			return nil, vm.InternalErrorf("Failed to load image: %s", path)
		}
		return env.ToValue(h), nil
	})
	u.method(env, obj, "image", 3, func(ctx *ui.Context, c vm.Call) (goja.Value, error) {
		if c.Len() < 1 || !vm.IsNumber(c.Args[0]) {
			return nil, vm.TypeErrorf("image handle (number) expected")
		}
		a := argv{c}
		tex, err := u.texture(a, 0)
		if err != nil {
			return nil, err
		}
		w, h := float32(100), float32(100)
		if c.Len() >= 3 {
			w, h = a.f(1), a.f(2)
		}
		ctx.Image(tex, w, h)
		return nil, nil
	})
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
