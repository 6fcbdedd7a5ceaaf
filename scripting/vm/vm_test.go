package vm

import (
	"errors"
	"testing"

	"github.com/dop251/goja"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnv(t *testing.T) *Env {
	t.Helper()
	e, err := New(Options{Name: t.Name(), Logger: zerolog.Nop()})
	require.NoError(t, err)
	t.Cleanup(e.Destroy)
	return e
}

func TestEvaluateReturnsCompletionValue(t *testing.T) {
	e := newEnv(t)
	v, err := e.Evaluate("1 + 2", "sum.js")
	require.NoError(t, err)
	assert.Equal(t, int64(3), v.Export())
}

func TestUncaughtExceptionIsCaptured(t *testing.T) {
	e := newEnv(t)
	_, err := e.Evaluate("throw new TypeError('boom')", "x.js")
	var ex *Exception
	require.ErrorAs(t, err, &ex)
	assert.Equal(t, "TypeError: boom", ex.Message)

	_, err = e.Evaluate("throw 'plain'", "x.js")
	require.ErrorAs(t, err, &ex)
	assert.Equal(t, "plain", ex.Message)

	_, err = e.Evaluate("function (", "bad.js")
	require.ErrorAs(t, err, &ex)
	assert.Contains(t, ex.Message, "SyntaxError")
}

func TestNativeErrorsBecomeScriptErrors(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.Register("fail", 1, func(c Call) (goja.Value, error) {
		switch c.Arg(0).String() {
		case "type":
			return nil, TypeErrorf("bad %d%%", 5)
		case "ref":
			return nil, ReferenceErrorf("invalid image handle: %d", 7)
		case "internal":
			return nil, InternalErrorf("Failed to load image: %s", "x.png")
		case "plain":
			return nil, errors.New("io broke")
		}
		panic("unexpected")
	}))

	cases := map[string]string{
		"type":     "TypeError:true:bad 5%",
		"ref":      "ReferenceError:true:invalid image handle: 7",
		"internal": "InternalError:true:Failed to load image: x.png",
		"plain":    "InternalError:true:io broke",
		"boom":     "InternalError:true:unexpected",
	}
	for arg, want := range cases {
		v, err := e.Evaluate(`
			try { fail("`+arg+`"); "no throw" }
			catch (e) { e.name + ":" + (e instanceof Error) + ":" + e.message }`, "t.js")
		require.NoError(t, err, arg)
		assert.Equal(t, want, v.String(), arg)
	}
}

func TestUncaughtNativeErrorFormatsLikeScriptError(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.Register("f", 0, func(Call) (goja.Value, error) {
		return nil, TypeErrorf("create_window(titleString, drawCallback)")
	}))
	_, err := e.Evaluate("f()", "t.js")
	var ex *Exception
	require.ErrorAs(t, err, &ex)
	assert.Equal(t, "TypeError: create_window(titleString, drawCallback)", ex.Message)
}

func TestFunctionNameAndLength(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.Register("http_get", 1, func(Call) (goja.Value, error) { return nil, nil }))
	v, err := e.Evaluate("http_get.name + '/' + http_get.length + '/' + typeof http_get()", "t.js")
	require.NoError(t, err)
	assert.Equal(t, "http_get/1/undefined", v.String())
}

func TestCallAndFunctionSource(t *testing.T) {
	e := newEnv(t)
	fn, err := e.Evaluate("(function (a, b) { return a * b; })", "t.js")
	require.NoError(t, err)

	src, ok := FunctionSource(fn)
	require.True(t, ok)
	assert.Equal(t, "function (a, b) { return a * b; }", src)

	v, err := e.Call(fn, nil, e.ToValue(6), e.ToValue(7))
	require.NoError(t, err)
	assert.Equal(t, int64(42), v.Export())

	_, ok = FunctionSource(e.ToValue(3))
	assert.False(t, ok)

	thrower, err := e.Evaluate("(function () { throw new RangeError('r'); })", "t.js")
	require.NoError(t, err)
	_, err = e.Call(thrower, nil)
	var ex *Exception
	require.ErrorAs(t, err, &ex)
	assert.Equal(t, "RangeError: r", ex.Message)
}

func TestClassDataFollowsThis(t *testing.T) {
	e := newEnv(t)
	cls := e.RegisterClass("console")
	assert.Same(t, cls, e.RegisterClass("console"))

	var got []any
	obj := cls.New("sink-a")
	e.Method(obj, "who", 0, func(c Call) (goja.Value, error) {
		d, ok := cls.Data(c.This)
		if !ok {
			return nil, TypeErrorf("invalid this")
		}
		got = append(got, d)
		return nil, nil
	})
	require.NoError(t, e.SetGlobal("thing", obj))

	_, err := e.Evaluate("thing.who()", "t.js")
	require.NoError(t, err)
	assert.Equal(t, []any{"sink-a"}, got)

	_, err = e.Evaluate("var w = thing.who; w()", "t.js")
	var ex *Exception
	require.ErrorAs(t, err, &ex)
	assert.Equal(t, "TypeError: invalid this", ex.Message)
}

func TestDestroyedEnvRefusesWork(t *testing.T) {
	e, err := New(Options{Name: "d", Logger: zerolog.Nop()})
	require.NoError(t, err)
	e.Destroy()
	e.Destroy()
	assert.Nil(t, e.Global("x"))

	_, err = e.Evaluate("1", "t.js")
	assert.ErrorIs(t, err, ErrDestroyed)
	_, err = e.Call(nil, nil)
	assert.ErrorIs(t, err, ErrDestroyed)
	assert.ErrorIs(t, e.SetGlobal("x", 1), ErrDestroyed)
}

func TestEnvironmentsAreIsolated(t *testing.T) {
	a, b := newEnv(t), newEnv(t)
	_, err := a.Evaluate("var shared = 1", "a.js")
	require.NoError(t, err)
	v, err := b.Evaluate("typeof shared", "b.js")
	require.NoError(t, err)
	assert.Equal(t, "undefined", v.String())
}

func TestTypePredicates(t *testing.T) {
	e := newEnv(t)
	assert.True(t, IsNumber(e.ToValue(1)))
	assert.True(t, IsNumber(e.ToValue(1.5)))
	assert.False(t, IsNumber(e.ToValue("1")))
	assert.False(t, IsNumber(goja.Undefined()))
	assert.True(t, IsString(e.ToValue("s")))
	assert.True(t, IsBool(e.ToValue(true)))
	assert.True(t, IsNullish(goja.Null()))
	assert.True(t, IsNullish(nil))
}

func TestRunawayRecursionIsAborted(t *testing.T) {
	e, err := New(Options{Name: t.Name(), Logger: zerolog.Nop(), MaxCallStackSize: 64})
	require.NoError(t, err)
	t.Cleanup(e.Destroy)

	_, err = e.Evaluate("function f() { f() } try { f() } catch (e) {}", "t.js")
	var ex *Exception
	require.ErrorAs(t, err, &ex, "try/catch cannot swallow the overflow")
	assert.Equal(t, "InternalError: too much recursion", ex.Message)

	v, err := e.Evaluate("function g(n) { return n == 0 ? 0 : 1 + g(n - 1) } g(32)", "t.js")
	require.NoError(t, err)
	assert.Equal(t, int64(32), v.ToInteger(), "recursion under the limit still works")
}

func TestDefaultCallStackLimit(t *testing.T) {
	e := newEnv(t)
	_, err := e.Evaluate("function f(n) { f(n + 1) } f(0)", "t.js")
	var ex *Exception
	require.ErrorAs(t, err, &ex)
	assert.Equal(t, "InternalError: too much recursion", ex.Message)
}
