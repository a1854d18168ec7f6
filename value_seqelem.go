package miniscript

// SeqElemValue is the SeqElem variant (§3.1, §9): an *unresolved*
// member/index access (sequence, index, no-invoke flag). It is a first-
// class Value — rather than eagerly resolving `obj.method` to a value —
// precisely so that `@obj.method` (NoInvoke set) can be passed around as
// a reference without invoking it (§9). Pool-backed.
type SeqElemValue struct {
	Seq      Value
	Index    Value
	NoInvoke bool
	count    int32
}

// CreateSeqElem returns a fresh SeqElem(seq, index) with refcount 1.
func CreateSeqElem(seq, index Value, noInvoke bool) *SeqElemValue {
	e := freeLists.seqElem.Get().(*SeqElemValue)
	e.Seq = Ref(seq)
	e.Index = Ref(index)
	e.NoInvoke = noInvoke
	e.count = 1
	trackCreate(KindSeqElem)
	return e
}

func (e *SeqElemValue) Kind() Kind       { return KindSeqElem }
func (e *SeqElemValue) refCount() *int32 { return &e.count }

func (e *SeqElemValue) resetForReuse() {
	Unref(e.Seq)
	Unref(e.Index)
	e.Seq, e.Index = nil, nil
	e.NoInvoke = false
}

func (e *SeqElemValue) ToString(vm *Machine) string { return e.CodeForm(vm, 4) }

func (e *SeqElemValue) CodeForm(vm *Machine, recursionLimit int) string {
	if recursionLimit <= 0 {
		return "<seqelem>"
	}
	return e.Seq.CodeForm(vm, recursionLimit-1) + "." + e.Index.CodeForm(vm, recursionLimit-1)
}

func (e *SeqElemValue) Hash(depth int) uint64 {
	if depth <= 0 {
		return 0
	}
	return e.Seq.Hash(depth-1)*1099511628211 ^ e.Index.Hash(depth-1)
}

func (e *SeqElemValue) Equality(other Value, depth int) float64 {
	o, ok := other.(*SeqElemValue)
	if !ok {
		return 0
	}
	if depth <= 0 {
		return 0.5
	}
	return e.Seq.Equality(o.Seq, depth-1) * e.Index.Equality(o.Index, depth-1)
}

func (e *SeqElemValue) BoolValue() bool      { return true }
func (e *SeqElemValue) IntValue() int64      { return 0 }
func (e *SeqElemValue) DoubleValue() float64 { return 0 }
func (e *SeqElemValue) IsA(typ Value, vm *Machine) bool { return false }

// Val triggers the member lookup this SeqElem defers (§3.1, §4.3/§4.5
// ElemBofA), auto-invoking a resolved Function unless NoInvoke is set.
func (e *SeqElemValue) Val(ctx *Context, takeRef bool) (Value, error) {
	v, err := evalElemBofA(ctx.vm, ctx, e.Seq, e.Index)
	if err != nil {
		return nil, err
	}
	if fn, isFn := v.(*FunctionValue); isFn && !e.NoInvoke {
		v, err = ctx.vm.invokeNoArgs(fn)
		if err != nil {
			return nil, err
		}
	}
	if takeRef {
		return Ref(v), nil
	}
	return v, nil
}

func (e *SeqElemValue) FullEval(ctx *Context) (Value, error) {
	return e.Val(ctx, false)
}
