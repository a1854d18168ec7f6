package miniscript

// Machine is the TAC interpreter (spec.md §3.3/§4.7): a call stack of
// Contexts, the global variable Map, the five installed default-type
// prototypes, the intrinsic registry, and the output sinks a host
// injects. One Machine runs one script; Values must never be shared
// across Machines (§5).
type Machine struct {
	stack   []*Context
	globals *MapValue

	// Default-type prototype Maps (§4.3 rule 3, §6): installed by a
	// host's standard-library setup. Nil until installed — IsA/member
	// lookup against a variant with no installed type simply misses.
	mapType      *MapValue
	listType     *MapValue
	stringType   *MapValue
	numberType   *MapValue
	functionType *MapValue

	intrinsics map[string]*Intrinsic

	logger *Logger
	config *Config

	// Output sinks (§6): callbacks consuming a string. standardOutput is
	// for explicit print-style output; errorOutput receives annotated
	// error text. implicitOutput is stored for the host, but nothing in
	// this package calls it (AssignImplicit stores its value like
	// AssignA and emits no output). Any left nil is a no-op.
	standardOutput func(string)
	errorOutput    func(string)
	implicitOutput func(string)

	// lastResult is the return value of the most recently completed
	// top-level frame, read back by a host driving RunUntilDone.
	lastResult Value
}

// NewMachine constructs a Machine with empty globals and no installed
// type prototypes; a host wires those up (and registers intrinsics)
// before running any code.
func NewMachine(cfg *Config) *Machine {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	return &Machine{
		globals:    CreateMap(),
		intrinsics: make(map[string]*Intrinsic),
		logger:     NewLogger(cfg.Debug),
		config:     cfg,
	}
}

// Globals returns the Machine's global variable Map.
func (vm *Machine) Globals() *MapValue { return vm.globals }

// SetOutputSinks installs the host's output callbacks (§6).
func (vm *Machine) SetOutputSinks(standard, errOut, implicit func(string)) {
	vm.standardOutput = standard
	vm.errorOutput = errOut
	vm.implicitOutput = implicit
}

// InstallTypes sets the five default-type prototype Maps (§6 Host API:
// "the intrinsic library installs vm.mapType, ...").
func (vm *Machine) InstallTypes(mapType, listType, stringType, numberType, functionType *MapValue) {
	vm.mapType = mapType
	vm.listType = listType
	vm.stringType = stringType
	vm.numberType = numberType
	vm.functionType = functionType
}

// Logger returns the Machine's diagnostic logger.
func (vm *Machine) Logger() *Logger { return vm.logger }

// LastResult returns the return value of the most recently completed
// top-level frame (Null if none has completed, or none was returned).
func (vm *Machine) LastResult() Value {
	if vm.lastResult == nil {
		return Null()
	}
	return vm.lastResult
}

// Start pushes a fresh top-level Context for fn onto the stack, ready
// to be driven by RunUntilDone. outerVars is fn's closure, normally nil
// for a top-level script.
func (vm *Machine) Start(fn *FunctionValue, args []Value) {
	ctx := NewContext(vm, fn, fn.OuterVars)
	bindParams(ctx, fn.Params, args)
	vm.stack = append(vm.stack, ctx)
}

// bindParams assigns args to fn's formal parameters as locals, filling
// any missing trailing arguments from their declared defaults (§4.5
// CallFunctionA: "bind parameters and default values").
func bindParams(ctx *Context, params []Param, args []Value) {
	for i, p := range params {
		if i < len(args) {
			ctx.SetVar(p.Name, args[i])
		} else if p.Default != nil {
			ctx.SetVar(p.Name, p.Default)
		} else {
			ctx.SetVar(p.Name, Null())
		}
	}
}

// execCallFunction implements CallFunctionA (§4.5): rhsA is the callee
// Function Value, rhsB is the bound argument count. It pushes a fresh
// Context for the callee, binding its parameters from the caller's
// pending-argument queue.
func (vm *Machine) execCallFunction(ctx *Context, ln *Line) error {
	calleeVal, err := ln.RhsA.Val(ctx, false)
	if err != nil {
		return err
	}
	fn, ok := calleeVal.(*FunctionValue)
	if !ok {
		return typeError("call target is not a function: %s", calleeVal.Kind())
	}
	countVal, err := ln.RhsB.Val(ctx, false)
	if err != nil {
		return err
	}
	args := ctx.takeArgs(int(countVal.IntValue()))

	callee := NewContext(vm, fn, fn.OuterVars)
	callee.callerLhs = ln.Lhs
	bindParams(callee, fn.Params, args)
	for _, a := range args {
		Unref(a)
	}
	vm.stack = append(vm.stack, callee)
	return nil
}

// invokeNoArgs runs fn to completion with zero arguments and returns
// its result — the auto-invocation behavior a bare Var or resolved
// member access triggers on a Function (§9's no-invoke-flag note;
// spec.md §8 scenario 5). It recurses into the step loop on a private
// sub-stack so an auto-invocation nested inside an intrinsic or a
// partially-stepped program still completes synchronously.
func (vm *Machine) invokeNoArgs(fn *FunctionValue) (Value, error) {
	saved := vm.stack
	vm.stack = nil
	callee := NewContext(vm, fn, fn.OuterVars)
	bindParams(callee, fn.Params, nil)
	vm.stack = append(vm.stack, callee)

	const autoInvokeStepLimit = 1_000_000
	for i := 0; ; i++ {
		if i >= autoInvokeStepLimit {
			vm.stack = saved
			return nil, limitError("auto-invoked function exceeded step limit")
		}
		finished, err := vm.step()
		if err != nil {
			vm.stack = saved
			return nil, err
		}
		if finished {
			break
		}
	}
	result := vm.LastResult()
	vm.stack = saved
	return result, nil
}

// step executes one Line of the top Context, or pops it if it has
// returned or run off the end of its code. Reports finished=true once
// the stack this step() is driving empties out.
func (vm *Machine) step() (finished bool, err error) {
	if len(vm.stack) == 0 {
		return true, nil
	}
	ctx := vm.stack[len(vm.stack)-1]
	if ctx.returned || ctx.lineNum >= len(ctx.code) {
		return vm.popFrame()
	}
	ln := ctx.code[ctx.lineNum]
	ctx.lineNum++
	if err := ln.Evaluate(vm, ctx); err != nil {
		if ee, ok := err.(*EngineError); ok {
			err = ee.withLine(ln.SourceLine)
		}
		vm.reportError(err)
		return false, err
	}
	return false, nil
}

// popFrame pops the top Context, propagating its return value into the
// caller's binding site (if any) before tearing it down.
func (vm *Machine) popFrame() (finished bool, err error) {
	ctx := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]

	retVal := ctx.returnValue
	if retVal == nil {
		retVal = Null()
	}
	callerLhs := ctx.callerLhs
	ctx.Dispose()

	if len(vm.stack) == 0 {
		vm.lastResult = retVal
		return true, nil
	}
	caller := vm.stack[len(vm.stack)-1]
	if callerLhs != nil {
		if err := assignTo(vm, caller, callerLhs, retVal); err != nil {
			return false, err
		}
	}
	return false, nil
}

func (vm *Machine) reportError(err error) {
	if ee, ok := err.(*EngineError); ok {
		vm.logger.RuntimeError(ee)
	}
	if vm.errorOutput != nil {
		vm.errorOutput(err.Error())
	}
}

// RunUntilDone drives the Machine for up to stepLimit steps (0 means
// the Config's DefaultStepLimit, itself 0 meaning unlimited), per §4.7.
// It returns done=true only when the stack has emptied (the program ran
// to completion). It returns done=false when the step limit is reached,
// or when returnEarlyOnPartial is set and the top Context is currently
// suspended inside an intrinsic (hasPartial).
func (vm *Machine) RunUntilDone(stepLimit int, returnEarlyOnPartial bool) (done bool, err error) {
	if stepLimit <= 0 {
		stepLimit = vm.config.DefaultStepLimit
	}
	steps := 0
	for {
		if len(vm.stack) == 0 {
			return true, nil
		}
		if returnEarlyOnPartial {
			top := vm.stack[len(vm.stack)-1]
			if top.hasPartial {
				return false, nil
			}
		}
		finished, stepErr := vm.step()
		if stepErr != nil {
			return false, stepErr
		}
		if finished {
			return true, nil
		}
		steps++
		if stepLimit > 0 && steps >= stepLimit {
			return false, nil
		}
	}
}
