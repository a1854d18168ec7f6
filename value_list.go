package miniscript

import "strings"

// maxListLen is the ~16M element cap from spec.md §3.1.
const maxListLen = 16 * 1024 * 1024

// ListValue is the List variant: an ordered, in-place-mutable sequence
// of Value (§3.1). Pool-backed.
type ListValue struct {
	items []Value
	count int32
}

// CreateList returns a fresh, empty List with refcount 1.
func CreateList() *ListValue {
	l := freeLists.list.Get().(*ListValue)
	l.items = l.items[:0]
	l.count = 1
	trackCreate(KindList)
	return l
}

func (l *ListValue) Kind() Kind       { return KindList }
func (l *ListValue) refCount() *int32 { return &l.count }

func (l *ListValue) resetForReuse() {
	for _, v := range l.items {
		Unref(v)
	}
	l.items = l.items[:0]
}

// Len reports the element count.
func (l *ListValue) Len() int { return len(l.items) }

// Append adds val to the end, taking a reference.
func (l *ListValue) Append(val Value) error {
	if len(l.items) >= maxListLen {
		return limitError("list exceeds maximum length")
	}
	l.items = append(l.items, Ref(val))
	return nil
}

// At returns the element at idx with MiniScript wraparound (§4.2/§4.5).
func (l *ListValue) At(idx int) (Value, error) {
	i, ok := wrapIndex(idx, len(l.items))
	if !ok {
		return nil, indexError("list index %d out of range (length %d)", idx, len(l.items))
	}
	return l.items[i], nil
}

// SetAt replaces the element at idx (with wraparound), releasing the
// displaced value and taking a reference to the new one.
func (l *ListValue) SetAt(idx int, val Value) error {
	i, ok := wrapIndex(idx, len(l.items))
	if !ok {
		return indexError("list index %d out of range (length %d)", idx, len(l.items))
	}
	old := l.items[i]
	l.items[i] = Ref(val)
	Unref(old)
	return nil
}

func (l *ListValue) BoolValue() bool      { return len(l.items) > 0 }
func (l *ListValue) IntValue() int64      { return 0 }
func (l *ListValue) DoubleValue() float64 { return 0 }

func (l *ListValue) ToString(vm *Machine) string { return l.CodeForm(vm, 8) }

func (l *ListValue) CodeForm(vm *Machine, recursionLimit int) string {
	if recursionLimit <= 0 {
		return "[...]"
	}
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range l.items {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(v.CodeForm(vm, recursionLimit-1))
	}
	b.WriteByte(']')
	return b.String()
}

func (l *ListValue) Hash(depth int) uint64 {
	h := uint64(0x9e3779b97f4a7c15)
	// At an exhausted depth Equality reports 0.5 for any two same-length
	// lists, so the hash may depend on nothing but the length.
	if depth <= 0 {
		return h ^ uint64(len(l.items))
	}
	for _, v := range l.items {
		h = h*1099511628211 ^ v.Hash(depth-1)
	}
	return h
}

func (l *ListValue) Equality(other Value, depth int) float64 {
	o, ok := other.(*ListValue)
	if !ok {
		return 0
	}
	if len(l.items) != len(o.items) {
		return 0
	}
	if depth <= 0 {
		return 0.5
	}
	product := 1.0
	for i, v := range l.items {
		product *= v.Equality(o.items[i], depth-1)
		if product == 0 {
			return 0
		}
	}
	return product
}

func (l *ListValue) IsA(typ Value, vm *Machine) bool {
	_, found := resolveDefaultType(vm.listType, typ, vm)
	return found
}

func (l *ListValue) Val(ctx *Context, takeRef bool) (Value, error) {
	if takeRef {
		return Ref(l), nil
	}
	return l, nil
}

// FullEval implements EvalCopy for list literals: a fresh List of the
// resolved (Val'd) forms of this list's elements.
func (l *ListValue) FullEval(ctx *Context) (Value, error) {
	out := CreateList()
	for _, v := range l.items {
		ev, err := v.FullEval(ctx)
		if err != nil {
			Unref(out)
			return nil, err
		}
		if err := out.Append(ev); err != nil {
			Unref(out)
			return nil, err
		}
	}
	return out, nil
}

// concatLists implements list "+" (§4.2): a fresh, size-capped List.
func concatLists(a, b *ListValue) (*ListValue, error) {
	if len(a.items)+len(b.items) > maxListLen {
		return nil, limitError("list result exceeds maximum length")
	}
	out := CreateList()
	for _, v := range a.items {
		_ = out.Append(v)
	}
	for _, v := range b.items {
		_ = out.Append(v)
	}
	return out, nil
}

// repeatList implements list "*n"/"/n" replication (§4.2).
func repeatList(a *ListValue, factor float64) (*ListValue, error) {
	if factor < 0 {
		factor = 0
	}
	whole := int(factor)
	frac := factor - float64(whole)
	out := CreateList()
	for i := 0; i < whole; i++ {
		for _, v := range a.items {
			if err := out.Append(v); err != nil {
				Unref(out)
				return nil, err
			}
		}
	}
	if frac > 0 {
		n := int(float64(len(a.items))*frac + 0.5)
		for i := 0; i < n && i < len(a.items); i++ {
			if err := out.Append(a.items[i]); err != nil {
				Unref(out)
				return nil, err
			}
		}
	}
	return out, nil
}
