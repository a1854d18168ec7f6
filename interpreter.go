package miniscript

// Compiler is satisfied by a host's lexer/parser/TAC-generator — out of
// scope for this engine (§1). Given the source lines accumulated so
// far, it either produces a compiled Function body, or reports that
// more input is needed (an unterminated block, as a REPL would see
// after typing `if x then`), or fails with a compiler error.
type Compiler interface {
	Compile(sourceLines []string) (fn *FunctionValue, needMoreInput bool, err error)
}

// Interpreter is the §6 host surface — Interpreter(sourceLines) /
// Compile() / RunUntilDone(stepLimit, returnEarlyOnPartial) /
// REPL(line) / NeedMoreInput() / Dispose() — layered over one Machine
// and an injected Compiler.
type Interpreter struct {
	vm       *Machine
	compiler Compiler
	lines    []string
	compiled *FunctionValue
	needMore bool
	started  bool
}

// NewInterpreter constructs an Interpreter over vm, using compiler to
// turn source into TAC. sourceLines seeds an initial program and may be
// empty (e.g. a REPL session with nothing typed yet).
func NewInterpreter(vm *Machine, compiler Compiler, sourceLines []string) *Interpreter {
	return &Interpreter{
		vm:       vm,
		compiler: compiler,
		lines:    append([]string(nil), sourceLines...),
	}
}

// Compile compiles the accumulated source lines, caching the result.
func (ip *Interpreter) Compile() error {
	fn, needMore, err := ip.compiler.Compile(ip.lines)
	ip.needMore = needMore
	if err != nil {
		return &EngineError{Kind: ErrCompiler, Message: err.Error()}
	}
	if !needMore {
		ip.compiled = fn
	}
	return nil
}

// NeedMoreInput reports whether the last Compile call found an
// unterminated block awaiting more source.
func (ip *Interpreter) NeedMoreInput() bool { return ip.needMore }

// RunUntilDone compiles the buffered source if needed, starts the
// Machine on first call, and drives it per §4.7.
func (ip *Interpreter) RunUntilDone(stepLimit int, returnEarlyOnPartial bool) (bool, error) {
	if !ip.started {
		if ip.compiled == nil {
			if err := ip.Compile(); err != nil {
				return false, err
			}
			if ip.needMore {
				return false, nil
			}
		}
		ip.vm.Start(ip.compiled, nil)
		ip.started = true
	}
	return ip.vm.RunUntilDone(stepLimit, returnEarlyOnPartial)
}

// REPL appends one line of interactive input, compiles the accumulated
// buffer, and — once a complete statement is ready — runs it to
// completion and clears the buffer for the next one. Returns nil
// (result and error) while NeedMoreInput is true.
func (ip *Interpreter) REPL(line string) (Value, error) {
	ip.lines = append(ip.lines, line)
	ip.compiled = nil
	ip.started = false

	if err := ip.Compile(); err != nil {
		ip.lines = nil
		return nil, err
	}
	if ip.needMore {
		return nil, nil
	}

	ip.vm.Start(ip.compiled, nil)
	ip.started = true
	if _, err := ip.vm.RunUntilDone(0, false); err != nil {
		ip.lines = nil
		return nil, err
	}
	ip.lines = nil
	return ip.vm.LastResult(), nil
}

// Dispose releases the Interpreter's own buffered state. The
// underlying Value graph is left to the pool's normal ref-counting
// discipline — nothing here bypasses Unref.
func (ip *Interpreter) Dispose() {
	ip.lines = nil
	ip.compiled = nil
	ip.started = false
}
