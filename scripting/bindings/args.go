package bindings

import (
	"math"

	"github.com/dop251/goja"

	"github.com/hubastard/buddy/engine/draw"
	"github.com/hubastard/buddy/scripting/vm"
)

// argv reads validated arguments. Required positions are checked by
// require; optional positions fall back to their default when missing or
// not a number.
type argv struct{ vm.Call }

func (a argv) f(i int) float32 { return float32(a.Arg(i).ToFloat()) }

func (a argv) v(i, j int) draw.Vec2 { return draw.V(a.f(i), a.f(j)) }

func (a argv) i(i int) int { return int(a.Arg(i).ToInteger()) }

func (a argv) col(i int) uint32 { return packed(a.Arg(i).ToFloat()) }

func (a argv) str(i int) string { return a.Arg(i).String() }

func (a argv) optF(i int, def float32) float32 {
	if i < a.Len() && vm.IsNumber(a.Args[i]) {
		return a.f(i)
	}
	return def
}

func (a argv) optI(i, def int) int {
	if i < a.Len() && vm.IsNumber(a.Args[i]) {
		return a.i(i)
	}
	return def
}

func (a argv) optCol(i int, def uint32) uint32 {
	if i < a.Len() && vm.IsNumber(a.Args[i]) {
		return a.col(i)
	}
	return def
}

func (a argv) optV(i, j int, def draw.Vec2) draw.Vec2 {
	return draw.V(a.optF(i, def.X), a.optF(j, def.Y))
}

// packed wraps a script number into a 32-bit colour the way ToUint32 does,
// so 0xFF0000FF and -16776961 name the same colour.
func packed(f float64) uint32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return uint32(int64(math.Mod(math.Trunc(f), 1<<32)))
}

func isInteger(v goja.Value) bool {
	if !vm.IsNumber(v) {
		return false
	}
	f := v.ToFloat()
	return f == math.Trunc(f) && !math.IsInf(f, 0)
}

// sig describes the argument rule of one drawing function.
type sig struct {
	min   int   // minimum argument count
	exact bool  // count must equal min
	typed int   // leading arguments that must be numbers
	ints  []int // of those, the ones that must be integers (colours, counts, handles)
	usage string
}

func (s sig) check(c vm.Call) error {
	if s.exact && c.Len() != s.min || c.Len() < s.min {
		return vm.TypeErrorf("%s", s.usage)
	}
	for i := 0; i < s.typed; i++ {
		if !vm.IsNumber(c.Args[i]) {
			return vm.TypeErrorf("%s", s.usage)
		}
	}
	for _, i := range s.ints {
		if !isInteger(c.Args[i]) {
			return vm.TypeErrorf("%s", s.usage)
		}
	}
	return nil
}
