package miniscript

// Param is one formal parameter: a name plus an optional default Value
// (nil meaning required).
type Param struct {
	Name    string
	Default Value
}

// FunctionValue is the Function variant (§3.1/§3.3): a parameter list,
// an immutable compiled body (code), and optionally captured outer
// variables forming a closure. Multiple Values may share one
// FunctionValue — it is not pool-backed (functions are long-lived
// compiled artifacts, not transient computation results).
type FunctionValue struct {
	Params    []Param
	Code      []*Line
	OuterVars *MapValue // nil unless bound by BindContextOfA
}

// NewFunction constructs a Function Value over a compiled body. Used by
// a host's compiler and by Intrinsic.GetFunc (§6).
func NewFunction(params []Param, code []*Line) *FunctionValue {
	return &FunctionValue{Params: params, Code: code}
}

func (f *FunctionValue) Kind() Kind { return KindFunction }

func (f *FunctionValue) ToString(vm *Machine) string { return "FUNCTION" }

func (f *FunctionValue) CodeForm(vm *Machine, recursionLimit int) string {
	return "function"
}

func (f *FunctionValue) Hash(depth int) uint64 {
	return fnv1a64(0x9e3779b97f4a7c15, []byte{byte(len(f.Params)), byte(len(f.Code))})
}

// Equality is reference identity for functions (§4.1).
func (f *FunctionValue) Equality(other Value, depth int) float64 {
	o, ok := other.(*FunctionValue)
	if ok && o == f {
		return 1
	}
	return 0
}

func (f *FunctionValue) BoolValue() bool      { return true }
func (f *FunctionValue) IntValue() int64      { return 0 }
func (f *FunctionValue) DoubleValue() float64 { return 0 }

func (f *FunctionValue) IsA(typ Value, vm *Machine) bool {
	_, found := resolveDefaultType(vm.functionType, typ, vm)
	return found
}

func (f *FunctionValue) Val(ctx *Context, takeRef bool) (Value, error) { return f, nil }
func (f *FunctionValue) FullEval(ctx *Context) (Value, error)          { return f, nil }

// BindOuterVars implements BindContextOfA (§4.5): sets f's closure to
// the current Context's local variables.
func (f *FunctionValue) BindOuterVars(vars *MapValue) {
	f.OuterVars = vars
}
