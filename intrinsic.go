package miniscript

// IntrinsicFunc is the host function shape behind an Intrinsic call
// (spec.md §4.6): given the calling Context, its bound arguments, and
// the partial state from a previous suspended invocation (nil on first
// call), it returns the produced Value, any updated partial state, and
// whether the call is finished. Returning done=false suspends: the
// Machine stores newPartial on the Context and re-invokes next step
// with the same args and that partial state.
type IntrinsicFunc func(ctx *Context, args []Value, partial interface{}) (result Value, newPartial interface{}, done bool, err error)

// Intrinsic is a host-registered function reachable from script code
// via CallIntrinsicA (§4.6) or, via GetFunc, as an ordinary Function
// Value (e.g. installed into a prototype map for dispatch through
// __isa). The body a real standard library would give these — math,
// string, list, map builtins — is out of scope (§1); this type only
// carries the calling contract.
type Intrinsic struct {
	Name   string
	Params []Param
	Func   IntrinsicFunc
}

// NewIntrinsic begins building a named Intrinsic (§6 Host API: Create).
func NewIntrinsic(name string) *Intrinsic {
	return &Intrinsic{Name: name}
}

// AddParam appends a formal parameter, returning the receiver for chaining.
func (in *Intrinsic) AddParam(name string, def Value) *Intrinsic {
	in.Params = append(in.Params, Param{Name: name, Default: def})
	return in
}

// GetFunc returns a Function Value whose body forwards its own bound
// parameters into a CallIntrinsicA of this intrinsic. This is how an
// Intrinsic becomes callable through the same CallFunctionA path as a
// script-defined function — including being stored as a map entry and
// reached through the __isa chain.
func (in *Intrinsic) GetFunc() *FunctionValue {
	var code []*Line
	for _, p := range in.Params {
		code = append(code, NewLine(nil, PushParam, V(p.Name), nil, 0))
	}
	code = append(code,
		NewLine(T(0), CallIntrinsicA, CreateString(in.Name), CreateNumber(float64(len(in.Params))), 0),
		NewLine(nil, ReturnA, T(0), nil, 0),
	)
	params := make([]Param, len(in.Params))
	copy(params, in.Params)
	return NewFunction(params, code)
}

// RegisterIntrinsic adds in to the Machine's global registry (§5:
// "written at host initialization and read-only thereafter").
func (vm *Machine) RegisterIntrinsic(in *Intrinsic) {
	vm.intrinsics[in.Name] = in
}

// execCallIntrinsic implements the CallIntrinsicA opcode (§4.5/§4.6).
func (vm *Machine) execCallIntrinsic(ctx *Context, ln *Line) error {
	nameVal, err := ln.RhsA.Val(ctx, false)
	if err != nil {
		return err
	}
	sv, ok := nameVal.(*StringValue)
	if !ok {
		return typeError("intrinsic id must be a string, got %s", nameVal.Kind())
	}
	in, ok := vm.intrinsics[sv.val]
	if !ok {
		return runtimeError("unknown intrinsic: %s", sv.val)
	}

	var args []Value
	var partial interface{}
	if ctx.hasPartial {
		args = ctx.savedArgs
		partial = ctx.partial
	} else {
		countVal, err := ln.RhsB.Val(ctx, false)
		if err != nil {
			return err
		}
		args = ctx.takeArgs(int(countVal.IntValue()))
		ctx.savedArgs = args
	}

	result, newPartial, done, err := in.Func(ctx, args, partial)
	if err != nil {
		ctx.hasPartial = false
		ctx.partial = nil
		ctx.savedArgs = nil
		return err
	}
	if !done {
		ctx.hasPartial = true
		ctx.partial = newPartial
		ctx.lineNum--
		return nil
	}
	ctx.hasPartial = false
	ctx.partial = nil
	for _, a := range ctx.savedArgs {
		Unref(a)
	}
	ctx.savedArgs = nil
	return assignTo(vm, ctx, ln.Lhs, result)
}
