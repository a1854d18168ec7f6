package miniscript

import "fmt"

// CustomValue is the Custom variant (§3.1, §4.4): a host-defined
// payload exposed through a uniform Value surface. Host value types
// (example implementations are explicitly out of scope, §1) plug in by
// setting the function fields below; any left nil fall through to the
// default behavior described per field. Not pool-backed — lifetime and
// mutability are entirely host-defined.
type CustomValue struct {
	Payload   interface{}
	TypeFuncs *MapValue // returned on demand; also walked by IsA/member lookup

	// Lookup is the per-identifier lookup a Custom value offers before
	// TypeFuncs is consulted (§4.4). A nil Lookup (or one returning
	// ok=false) falls through to TypeFuncs.
	Lookup func(key Value) (Value, bool)

	// Add/Sub/Mul/Div are offered first whenever at least one operand
	// of the corresponding opcode is this Custom value (§4.4). Returning
	// ok=false lets the normal coercion/error path run instead.
	Add func(other Value, selfIsLeft bool) (Value, bool)
	Sub func(other Value, selfIsLeft bool) (Value, bool)
	Mul func(other Value, selfIsLeft bool) (Value, bool)
	Div func(other Value, selfIsLeft bool) (Value, bool)

	StringerFn func() string
}

func (c *CustomValue) Kind() Kind { return KindCustom }

func (c *CustomValue) ToString(vm *Machine) string {
	if c.StringerFn != nil {
		return c.StringerFn()
	}
	return fmt.Sprintf("%v", c.Payload)
}

func (c *CustomValue) CodeForm(vm *Machine, recursionLimit int) string {
	return c.ToString(vm)
}

func (c *CustomValue) Hash(depth int) uint64 {
	return fnv1a64(0x9e3779b97f4a7c15, []byte(fmt.Sprintf("%p", c)))
}

// Equality for Custom values is reference identity; TypeFuncs is not
// consulted — the core makes no assumption about what "equal" means
// for an opaque payload.
func (c *CustomValue) Equality(other Value, depth int) float64 {
	if o, ok := other.(*CustomValue); ok && o == c {
		return 1
	}
	return 0
}

func (c *CustomValue) BoolValue() bool      { return c.Payload != nil }
func (c *CustomValue) IntValue() int64      { return 0 }
func (c *CustomValue) DoubleValue() float64 { return 0 }

func (c *CustomValue) IsA(typ Value, vm *Machine) bool {
	found, _ := isaChainContains(vm, c.TypeFuncs, typ)
	return found
}

func (c *CustomValue) Val(ctx *Context, takeRef bool) (Value, error) { return c, nil }
func (c *CustomValue) FullEval(ctx *Context) (Value, error)          { return c, nil }
