package miniscript

import "strings"

// defaultEqualityDepth bounds the recursion §4.1 describes for fuzzy
// structural equality before it gives up and reports 0.5 ("indeterminate").
const defaultEqualityDepth = 16

// isaKey is the reserved prototype-chain key (spec.md §3.2, §4.3).
const isaKey = "__isa"

type mapEntry struct {
	key Value
	val Value
}

// MapValue is the Map variant: an insertion-ordered Value→Value mapping
// with structural-equality keying (§3.1/§3.2). __isa is a reserved key
// pointing at the parent map in the prototype chain (§4.3). Pool-backed.
type MapValue struct {
	entries []mapEntry
	count   int32
}

// CreateMap returns a fresh, empty Map with refcount 1.
func CreateMap() *MapValue {
	m := freeLists.mapv.Get().(*MapValue)
	m.entries = m.entries[:0]
	m.count = 1
	trackCreate(KindMap)
	return m
}

func (m *MapValue) Kind() Kind       { return KindMap }
func (m *MapValue) refCount() *int32 { return &m.count }

func (m *MapValue) resetForReuse() {
	for _, e := range m.entries {
		Unref(e.key)
		Unref(e.val)
	}
	m.entries = m.entries[:0]
}

// findIndex returns the index of the entry whose key is fuzzy-equal
// (>=0.5) to key, or -1.
func (m *MapValue) findIndex(key Value) int {
	for i, e := range m.entries {
		if e.key.Equality(key, defaultEqualityDepth) >= 0.5 {
			return i
		}
	}
	return -1
}

// Set inserts or replaces key→val, preserving the position of a
// replaced key (§3.2). Takes its own reference to key and val (the
// caller keeps, and must still release, any reference it holds);
// releases the references of anything displaced.
func (m *MapValue) Set(key, val Value) {
	if i := m.findIndex(key); i >= 0 {
		old := m.entries[i]
		m.entries[i] = mapEntry{key: Ref(key), val: Ref(val)}
		Unref(old.key)
		Unref(old.val)
		return
	}
	m.entries = append(m.entries, mapEntry{key: Ref(key), val: Ref(val)})
}

// SetStr is a convenience for Set with a string key, used by
// Context.SetVar and the ElemBofIterA key/value mini-map.
func (m *MapValue) SetStr(key string, val Value) {
	k := CreateString(key)
	m.Set(k, val)
	Unref(k)
}

// Get returns the value stored for key in this map only (no __isa
// walk); ok is false if absent.
func (m *MapValue) Get(key Value) (Value, bool) {
	if i := m.findIndex(key); i >= 0 {
		return m.entries[i].val, true
	}
	return nil, false
}

// GetStr is the string-key convenience form of Get.
func (m *MapValue) GetStr(key string) (Value, bool) {
	for _, e := range m.entries {
		if sv, ok := e.key.(*StringValue); ok && sv.val == key {
			return e.val, true
		}
	}
	return nil, false
}

// Len reports the number of entries.
func (m *MapValue) Len() int { return len(m.entries) }

// EntryAt returns the key/value at ordinal position n in insertion
// order, used by ElemBofIterA (§4.5).
func (m *MapValue) EntryAt(n int) (Value, Value, bool) {
	if n < 0 || n >= len(m.entries) {
		return nil, nil, false
	}
	e := m.entries[n]
	return e.key, e.val, true
}

// mergeMaps implements Map "+" (§4.2): a fresh Map containing a's
// entries overlaid by b's (right wins on key collision).
func mergeMaps(a, b *MapValue) *MapValue {
	out := CreateMap()
	for _, e := range a.entries {
		out.Set(e.key, e.val)
	}
	for _, e := range b.entries {
		out.Set(e.key, e.val)
	}
	return out
}

// isaParent returns the Map this map's __isa points to, or nil.
func (m *MapValue) isaParent() *MapValue {
	v, ok := m.GetStr(isaKey)
	if !ok {
		return nil
	}
	p, _ := v.(*MapValue)
	return p
}

func (m *MapValue) BoolValue() bool      { return len(m.entries) > 0 }
func (m *MapValue) IntValue() int64      { return 0 }
func (m *MapValue) DoubleValue() float64 { return 0 }

func (m *MapValue) ToString(vm *Machine) string { return m.CodeForm(vm, 8) }

func (m *MapValue) CodeForm(vm *Machine, recursionLimit int) string {
	if recursionLimit <= 0 {
		return "{...}"
	}
	var b strings.Builder
	b.WriteByte('{')
	for i, e := range m.entries {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.key.CodeForm(vm, recursionLimit-1))
		b.WriteString(": ")
		b.WriteString(e.val.CodeForm(vm, recursionLimit-1))
	}
	b.WriteByte('}')
	return b.String()
}

func (m *MapValue) Hash(depth int) uint64 {
	// Order-independent: XOR-combine per-entry hashes so that equal
	// content hashes equal regardless of insertion order.
	// At an exhausted depth Equality reports 0.5 for any two same-size
	// maps, so the hash may depend on nothing but the size.
	if depth <= 0 {
		return uint64(len(m.entries))
	}
	var h uint64
	for _, e := range m.entries {
		h ^= e.key.Hash(depth-1)*1099511628211 + e.val.Hash(depth-1)
	}
	return h
}

func (m *MapValue) Equality(other Value, depth int) float64 {
	o, ok := other.(*MapValue)
	if !ok {
		return 0
	}
	if len(m.entries) != len(o.entries) {
		return 0
	}
	if depth <= 0 {
		return 0.5
	}
	product := 1.0
	for _, e := range m.entries {
		ov, found := o.Get(e.key)
		if !found {
			return 0
		}
		product *= e.val.Equality(ov, depth-1)
		if product == 0 {
			return 0
		}
	}
	return product
}

func (m *MapValue) IsA(typ Value, vm *Machine) bool {
	found, _ := isaChainContains(vm, m, typ)
	return found
}

func (m *MapValue) Val(ctx *Context, takeRef bool) (Value, error) {
	if takeRef {
		return Ref(m), nil
	}
	return m, nil
}

// FullEval implements EvalCopy for map literals (§4.5 CopyA, glossary
// EvalCopy): a fresh Map whose entries are the resolved (Val'd) forms
// of this map's entries, so each execution of a map literal produces a
// new mutable object.
func (m *MapValue) FullEval(ctx *Context) (Value, error) {
	out := CreateMap()
	for _, e := range m.entries {
		k, err := e.key.FullEval(ctx)
		if err != nil {
			Unref(out)
			return nil, err
		}
		v, err := e.val.FullEval(ctx)
		if err != nil {
			Unref(out)
			return nil, err
		}
		out.Set(k, v)
	}
	return out, nil
}
