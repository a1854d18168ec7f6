package miniscript

// NullValue is the Null variant: a singleton, never pool-backed (§3.2).
type NullValue struct{}

var nullSingleton = &NullValue{}

// Null returns the shared Null singleton.
func Null() *NullValue { return nullSingleton }

func (n *NullValue) Kind() Kind                         { return KindNull }
func (n *NullValue) ToString(vm *Machine) string        { return "null" }
func (n *NullValue) CodeForm(vm *Machine, limit int) string { return "null" }
func (n *NullValue) Hash(depth int) uint64              { return 0 }

func (n *NullValue) Equality(other Value, depth int) float64 {
	if _, ok := other.(*NullValue); ok {
		return 1
	}
	return 0
}

func (n *NullValue) BoolValue() bool      { return false }
func (n *NullValue) IntValue() int64      { return 0 }
func (n *NullValue) DoubleValue() float64 { return 0 }

// IsA: "Null isa X" is only true for X == Null itself (the AisaB
// opcode additionally special-cases Null on the left per §4.5; this
// method covers the general contract).
func (n *NullValue) IsA(typ Value, vm *Machine) bool {
	_, ok := typ.(*NullValue)
	return ok
}

func (n *NullValue) Val(ctx *Context, takeRef bool) (Value, error) { return n, nil }
func (n *NullValue) FullEval(ctx *Context) (Value, error)          { return n, nil }
