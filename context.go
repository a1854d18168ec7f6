package miniscript

// Context is one call frame (spec.md §3.3): a program counter, a slice
// of numbered temporary slots, an optional local-variable Map, a
// closure (outerVars), and the partial-result slot for a suspended
// intrinsic (§4.6). Contexts form the Machine's call stack.
type Context struct {
	lineNum int
	code    []*Line

	temps []Value

	locals    *MapValue // local variables; created lazily on first SetVar
	outerVars *MapValue // closure (nil if this function captured none)

	fn *FunctionValue

	// partial is the suspended state of an intrinsic call that returned
	// done=false on a previous step (§4.6): the VM re-invokes the same
	// Line next step instead of advancing. savedArgs holds the argument
	// list captured on the call's first invocation, since a suspended
	// call's resume does not re-run the PushParam lines that built it.
	partial    interface{}
	hasPartial bool
	savedArgs  []Value

	// pendingArgs accumulates PushParam operands for the next
	// CallFunctionA/CallIntrinsicA on this frame (§4.5).
	pendingArgs []Value

	// returnValue/returned carry a function's result back to its
	// caller across the pop performed by ReturnA.
	returnValue Value
	returned    bool

	// callerLhs is the lhs of the CallFunctionA Line that pushed this
	// frame, so the Machine knows where in the caller's frame to store
	// the return value once this one pops. Nil for a host-driven
	// top-level frame (nothing to store into).
	callerLhs Value

	vm *Machine
}

// NewContext creates a call frame for fn, to be pushed onto a Machine's
// stack by CallFunctionA (or by a host starting a top-level program).
func NewContext(vm *Machine, fn *FunctionValue, outerVars *MapValue) *Context {
	return &Context{
		code:      fn.Code,
		fn:        fn,
		outerVars: outerVars,
		vm:        vm,
	}
}

// Temp returns the value of temporary slot i, or Null for a slot that
// has never been written (a Line evaluator never reads a temp before
// some prior Line wrote it, but the Null fallback keeps this safe).
func (c *Context) Temp(i int) Value {
	if i < 0 || i >= len(c.temps) {
		return Null()
	}
	v := c.temps[i]
	if v == nil {
		return Null()
	}
	return v
}

// SetTemp stores val in temporary slot i, releasing whatever was there
// and taking a reference to val.
func (c *Context) SetTemp(i int, val Value) {
	if i < 0 {
		return
	}
	for len(c.temps) <= i {
		c.temps = append(c.temps, Null())
	}
	old := c.temps[i]
	c.temps[i] = Ref(val)
	if old != nil {
		Unref(old)
	}
}

// releaseTemps unrefs every temporary slot; called when the Context is
// popped off the Machine's stack (§3.3 "temporaries are released at pop").
func (c *Context) releaseTemps() {
	for _, v := range c.temps {
		if v != nil {
			Unref(v)
		}
	}
	c.temps = nil
}

// GetVar resolves an identifier against this frame's scopes in order:
// locals, then outerVars (closure), then the Machine's globals (from
// any frame, not only the outermost).
func (c *Context) GetVar(name string) (Value, bool) {
	if c.locals != nil {
		if v, ok := c.locals.GetStr(name); ok {
			return v, true
		}
	}
	if c.outerVars != nil {
		if v, ok := c.outerVars.GetStr(name); ok {
			return v, true
		}
	}
	if c.vm != nil && c.vm.globals != nil {
		if v, ok := c.vm.globals.GetStr(name); ok {
			return v, true
		}
	}
	return nil, false
}

// SetVar assigns name in this frame's local scope, creating the locals
// map on first use.
func (c *Context) SetVar(name string, val Value) {
	if c.locals == nil {
		c.locals = CreateMap()
	}
	c.locals.SetStr(name, val)
}

// LocalVars returns (creating if necessary) this frame's local-variable
// map, used by BindContextOfA to capture a closure.
func (c *Context) LocalVars() *MapValue {
	if c.locals == nil {
		c.locals = CreateMap()
	}
	return c.locals
}

// PushArg appends val to the pending-argument list for the next call
// opcode on this frame (PushParam, §4.5).
func (c *Context) PushArg(val Value) {
	c.pendingArgs = append(c.pendingArgs, Ref(val))
}

func (c *Context) takeArgs(n int) []Value {
	if n > len(c.pendingArgs) {
		n = len(c.pendingArgs)
	}
	args := c.pendingArgs[:n]
	c.pendingArgs = c.pendingArgs[n:]
	return args
}

// Dispose releases every resource this Context holds: temporaries,
// local variables, and any still-pending call arguments (e.g. if the
// frame errored out mid-call). Called exactly once, when the frame is
// popped from the Machine's stack.
func (c *Context) Dispose() {
	c.releaseTemps()
	if c.locals != nil {
		Unref(c.locals)
		c.locals = nil
	}
	for _, a := range c.pendingArgs {
		Unref(a)
	}
	c.pendingArgs = nil
}
