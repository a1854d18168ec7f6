package miniscript

// Opcode identifies a Line's operation (spec.md §4.5).
type Opcode uint8

const (
	Noop Opcode = iota
	AssignA
	AssignImplicit
	ReturnA
	CopyA
	APlusB
	AMinusB
	ATimesB
	ADivB
	APowB
	AModB
	AEqualB
	ANotEqualB
	AGreaterThanB
	AGreatOrEqualB
	ALessThanB
	ALessOrEqualB
	AisaB
	AAndB
	AOrB
	NotA
	GotoA
	GotoAifB
	GotoAifTrulyB
	GotoAifNotB
	PushParam
	CallFunctionA
	CallIntrinsicA
	ElemBofA
	ElemBofIterA
	LengthOfA
	BindContextOfA
)

var opcodeNames = map[Opcode]string{
	Noop: "Noop", AssignA: "AssignA", AssignImplicit: "AssignImplicit", ReturnA: "ReturnA",
	CopyA: "CopyA", APlusB: "APlusB", AMinusB: "AMinusB", ATimesB: "ATimesB", ADivB: "ADivB",
	APowB: "APowB", AModB: "AModB", AEqualB: "AEqualB", ANotEqualB: "ANotEqualB",
	AGreaterThanB: "AGreaterThanB", AGreatOrEqualB: "AGreatOrEqualB", ALessThanB: "ALessThanB",
	ALessOrEqualB: "ALessOrEqualB", AisaB: "AisaB", AAndB: "AAndB", AOrB: "AOrB", NotA: "NotA",
	GotoA: "GotoA", GotoAifB: "GotoAifB", GotoAifTrulyB: "GotoAifTrulyB", GotoAifNotB: "GotoAifNotB",
	PushParam: "PushParam", CallFunctionA: "CallFunctionA", CallIntrinsicA: "CallIntrinsicA",
	ElemBofA: "ElemBofA", ElemBofIterA: "ElemBofIterA", LengthOfA: "LengthOfA",
	BindContextOfA: "BindContextOfA",
}

func (op Opcode) String() string {
	if s, ok := opcodeNames[op]; ok {
		return s
	}
	return "Unknown"
}

// Line is one TAC instruction (spec.md §4.5): an lhs assignment target,
// an opcode, up to two rhs operands, and the source line it compiled
// from (used to annotate errors, §7).
type Line struct {
	Lhs        Value
	Op         Opcode
	RhsA       Value
	RhsB       Value
	SourceLine int
}

// NewLine is a small constructor convenience for hand-assembled
// programs (tests, and any host driving the engine directly).
func NewLine(lhs Value, op Opcode, a, b Value, sourceLine int) *Line {
	return &Line{Lhs: lhs, Op: op, RhsA: a, RhsB: b, SourceLine: sourceLine}
}

// assignTo stores val at lhs: a Temp slot, a named Var, or a SeqElem
// (member/index write). A nil lhs means the opcode has no result to
// store (Goto*, PushParam, ...).
func assignTo(vm *Machine, ctx *Context, lhs Value, val Value) error {
	switch l := lhs.(type) {
	case nil:
		return nil
	case *TempValue:
		ctx.SetTemp(l.Index, val)
		return nil
	case *VarValue:
		ctx.SetVar(l.Name, val)
		return nil
	case *SeqElemValue:
		return assignElemBofA(vm, ctx, l.Seq, l.Index, val)
	default:
		return runtimeError("invalid assignment target %s", lhs.Kind())
	}
}

// Evaluate executes this Line against ctx, the top frame of a Machine's
// call stack. It returns the step outcome: most opcodes fall through to
// the next line; Goto* and the call opcodes drive ctx.lineNum or the
// Machine's stack directly.
func (ln *Line) Evaluate(vm *Machine, ctx *Context) error {
	switch ln.Op {
	case Noop:
		return nil

	case AssignA, AssignImplicit:
		val, err := evalRhs(ctx, ln.RhsA)
		if err != nil {
			return err
		}
		return assignTo(vm, ctx, ln.Lhs, val)

	case ReturnA:
		val, err := evalRhs(ctx, ln.RhsA)
		if err != nil {
			return err
		}
		ctx.returnValue = Ref(val)
		ctx.returned = true
		return nil

	case CopyA:
		val, err := ln.RhsA.FullEval(ctx)
		if err != nil {
			return err
		}
		return assignTo(vm, ctx, ln.Lhs, val)

	case APlusB, AMinusB, ATimesB, ADivB, APowB, AModB:
		a, err := ln.RhsA.Val(ctx, false)
		if err != nil {
			return err
		}
		b, err := ln.RhsB.Val(ctx, false)
		if err != nil {
			return err
		}
		result, err := evalArith(ln.Op, a, b)
		if err != nil {
			return err
		}
		return assignTo(vm, ctx, ln.Lhs, result)

	case AEqualB, ANotEqualB, AGreaterThanB, AGreatOrEqualB, ALessThanB, ALessOrEqualB:
		a, err := ln.RhsA.Val(ctx, false)
		if err != nil {
			return err
		}
		b, err := ln.RhsB.Val(ctx, false)
		if err != nil {
			return err
		}
		result := evalCompare(vm, ln.Op, a, b)
		return assignTo(vm, ctx, ln.Lhs, result)

	case AisaB:
		a, err := ln.RhsA.Val(ctx, false)
		if err != nil {
			return err
		}
		b, err := ln.RhsB.Val(ctx, false)
		if err != nil {
			return err
		}
		return assignTo(vm, ctx, ln.Lhs, boolValue(evalIsa(a, b, vm)))

	case AAndB, AOrB:
		a, err := ln.RhsA.Val(ctx, false)
		if err != nil {
			return err
		}
		b, err := ln.RhsB.Val(ctx, false)
		if err != nil {
			return err
		}
		return assignTo(vm, ctx, ln.Lhs, CreateNumber(evalFuzzyLogic(ln.Op, a, b)))

	case NotA:
		a, err := ln.RhsA.Val(ctx, false)
		if err != nil {
			return err
		}
		return assignTo(vm, ctx, ln.Lhs, evalNot(a))

	case GotoA:
		a, err := ln.RhsA.Val(ctx, false)
		if err != nil {
			return err
		}
		ctx.lineNum = int(a.IntValue())
		return nil

	case GotoAifB:
		b, err := ln.RhsB.Val(ctx, false)
		if err != nil {
			return err
		}
		if b.BoolValue() {
			a, err := ln.RhsA.Val(ctx, false)
			if err != nil {
				return err
			}
			ctx.lineNum = int(a.IntValue())
		}
		return nil

	case GotoAifTrulyB:
		b, err := ln.RhsB.Val(ctx, false)
		if err != nil {
			return err
		}
		if b.IntValue() != 0 {
			a, err := ln.RhsA.Val(ctx, false)
			if err != nil {
				return err
			}
			ctx.lineNum = int(a.IntValue())
		}
		return nil

	case GotoAifNotB:
		b, err := ln.RhsB.Val(ctx, false)
		if err != nil {
			return err
		}
		if !b.BoolValue() {
			a, err := ln.RhsA.Val(ctx, false)
			if err != nil {
				return err
			}
			ctx.lineNum = int(a.IntValue())
		}
		return nil

	case PushParam:
		val, err := evalRhs(ctx, ln.RhsA)
		if err != nil {
			return err
		}
		ctx.PushArg(val)
		return nil

	case CallFunctionA:
		return vm.execCallFunction(ctx, ln)

	case CallIntrinsicA:
		return vm.execCallIntrinsic(ctx, ln)

	case ElemBofA:
		seq, err := ln.RhsA.Val(ctx, false)
		if err != nil {
			return err
		}
		key, err := ln.RhsB.Val(ctx, false)
		if err != nil {
			return err
		}
		val, err := evalElemBofA(vm, ctx, seq, key)
		if err != nil {
			return err
		}
		// The opcode carries no no-invoke flag (that lives on a SeqElem
		// used as an operand, §9) — a bare member access always invokes
		// a resolved zero-arg Function (spec.md §8 scenario 5).
		if fn, isFn := val.(*FunctionValue); isFn {
			val, err = vm.invokeNoArgs(fn)
			if err != nil {
				return err
			}
		}
		return assignTo(vm, ctx, ln.Lhs, val)

	case ElemBofIterA:
		seq, err := ln.RhsA.Val(ctx, false)
		if err != nil {
			return err
		}
		idx, err := ln.RhsB.Val(ctx, false)
		if err != nil {
			return err
		}
		val, err := evalElemBofIterA(seq, idx)
		if err != nil {
			return err
		}
		return assignTo(vm, ctx, ln.Lhs, val)

	case LengthOfA:
		a, err := ln.RhsA.Val(ctx, false)
		if err != nil {
			return err
		}
		n, err := evalLengthOf(a)
		if err != nil {
			return err
		}
		return assignTo(vm, ctx, ln.Lhs, CreateNumber(float64(n)))

	case BindContextOfA:
		a, err := ln.RhsA.Val(ctx, false)
		if err != nil {
			return err
		}
		fn, ok := a.(*FunctionValue)
		if !ok {
			return typeError("BindContextOfA target must be a function, got %s", a.Kind())
		}
		fn.BindOuterVars(ctx.LocalVars())
		return nil

	default:
		return runtimeError("unknown opcode %d", ln.Op)
	}
}

// evalRhs evaluates an AssignA/PushParam/ReturnA operand: list/map
// literals FullEval (a fresh mutable copy each execution, §4.5), every
// other variant just Val's.
func evalRhs(ctx *Context, rhs Value) (Value, error) {
	switch rhs.(type) {
	case *ListValue, *MapValue:
		return rhs.FullEval(ctx)
	default:
		return rhs.Val(ctx, false)
	}
}

func boolValue(b bool) *NumberValue {
	if b {
		return NumberOne()
	}
	return NumberZero()
}
