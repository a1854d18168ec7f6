package miniscript

import (
	"strconv"
)

// NumberValue is the Number variant: an IEEE-754 double. Instances are
// pool-backed (§3.2) except the Number.zero/Number.one singletons.
type NumberValue struct {
	val   float64
	count int32
}

// Number.zero and Number.one are singletons (§3.2): hot enough in
// arithmetic and boolean coercion that allocating them from the pool on
// every use would defeat the point of pooling.
var (
	numberZeroSingleton = &NumberValue{val: 0, count: singletonCount}
	numberOneSingleton  = &NumberValue{val: 1, count: singletonCount}
)

// NumberZero returns the shared Number.zero singleton.
func NumberZero() *NumberValue { return numberZeroSingleton }

// NumberOne returns the shared Number.one singleton.
func NumberOne() *NumberValue { return numberOneSingleton }

// CreateNumber returns a Number wrapping f, taking the zero/one fast
// path when applicable and otherwise drawing from the pool. The
// returned value has refcount 1 (or is a singleton).
func CreateNumber(f float64) *NumberValue {
	if f == 0 {
		return numberZeroSingleton
	}
	if f == 1 {
		return numberOneSingleton
	}
	n := freeLists.number.Get().(*NumberValue)
	n.val = f
	n.count = 1
	trackCreate(KindNumber)
	return n
}

func (n *NumberValue) Kind() Kind          { return KindNumber }
func (n *NumberValue) refCount() *int32    { return &n.count }
func (n *NumberValue) resetForReuse()      { n.val = 0 }
func (n *NumberValue) BoolValue() bool     { return n.val != 0 }
func (n *NumberValue) IntValue() int64     { return int64(n.val) }
func (n *NumberValue) DoubleValue() float64 { return n.val }

func (n *NumberValue) ToString(vm *Machine) string {
	return formatNumber(n.val)
}

func (n *NumberValue) CodeForm(vm *Machine, recursionLimit int) string {
	return formatNumber(n.val)
}

// formatNumber mirrors MiniScript's canonical number rendering: integral
// values print without a fractional part, everything else uses the
// shortest round-tripping representation.
func formatNumber(f float64) string {
	if f == float64(int64(f)) && !isNegZero(f) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func isNegZero(f float64) bool {
	return f == 0 && 1/f < 0
}

func (n *NumberValue) Hash(depth int) uint64 {
	return hashFloat64(0x9e3779b97f4a7c15, n.val)
}

func (n *NumberValue) Equality(other Value, depth int) float64 {
	o, ok := other.(*NumberValue)
	if !ok {
		return 0
	}
	if n.val == o.val {
		return 1
	}
	return 0
}

func (n *NumberValue) IsA(typ Value, vm *Machine) bool {
	_, found := resolveDefaultType(vm.numberType, typ, vm)
	return found
}

func (n *NumberValue) Val(ctx *Context, takeRef bool) (Value, error) {
	if takeRef {
		return Ref(n), nil
	}
	return n, nil
}

func (n *NumberValue) FullEval(ctx *Context) (Value, error) { return n, nil }
