package miniscript

// evalElemBofA implements ElemBofA / §4.3's member-resolution rules: it
// is the read side of "A.B" for every sequence kind (map chain walk,
// list/string indexing, custom lookup).
func evalElemBofA(vm *Machine, ctx *Context, seq, key Value) (Value, error) {
	// Numeric keys against List/String are positional indexing, not
	// member lookup (§4.2); everything else — including string keys
	// against a List/String, naming an intrinsic method — resolves
	// through the common prototype walk.
	if _, isNum := key.(*NumberValue); isNum {
		switch s := seq.(type) {
		case *ListValue:
			idx, err := listIndex(s, key)
			if err != nil {
				return nil, err
			}
			return s.At(idx)
		case *StringValue:
			return stringIndex(s, key)
		}
	}
	val, _, err := resolveMember(vm, ctx, seq, key)
	return val, err
}

// listIndex coerces key to an in-range list index, wrapping negatives
// (§4.2).
func listIndex(l *ListValue, key Value) (int, error) {
	n, ok := key.(*NumberValue)
	if !ok {
		return 0, typeError("list index must be a number, got %s", key.Kind())
	}
	length := 0
	if l != nil {
		length = len(l.items)
	}
	idx, ok := wrapIndex(int(n.val), length)
	if !ok {
		return 0, indexError("list index out of range: %d", int(n.val))
	}
	return idx, nil
}

// stringIndex resolves String indexing directly (bypassing listIndex's
// list-length assumption) — a single character as a one-rune string.
func stringIndex(s *StringValue, key Value) (Value, error) {
	n, ok := key.(*NumberValue)
	if !ok {
		return nil, typeError("string index must be a number, got %s", key.Kind())
	}
	runes := []rune(s.val)
	idx, ok := wrapIndex(int(n.val), len(runes))
	if !ok {
		return nil, indexError("string index out of range: %d", int(n.val))
	}
	return CreateString(string(runes[idx])), nil
}

// assignElemBofA implements the write side of ElemBofA (a SeqElem used
// as an lhs): set a map key or set a list slot. Strings are immutable
// (§4.2) and not assignable by index; every other variant, Custom
// included, is a type error.
func assignElemBofA(vm *Machine, ctx *Context, seq, key, val Value) error {
	resolvedSeq, err := seq.Val(ctx, false)
	if err != nil {
		return err
	}
	resolvedKey, err := key.Val(ctx, false)
	if err != nil {
		return err
	}
	switch s := resolvedSeq.(type) {
	case *MapValue:
		s.Set(resolvedKey, val)
		return nil
	case *ListValue:
		idx, err := listIndex(s, resolvedKey)
		if err != nil {
			return err
		}
		return s.SetAt(idx, val)
	case *StringValue:
		return typeError("strings are immutable")
	default:
		return typeError("cannot assign into %s", resolvedSeq.Kind())
	}
}

// evalElemBofIterA implements ElemBofIterA (§4.5): positional access
// for for-loop iteration. For a Map this walks insertion order and
// returns a one-shot mini-map {"key": k, "value": v} at ordinal i
// (spec.md §4.2, §4.5); for a List/String it behaves like ElemBofA with
// an integer position.
func evalElemBofIterA(seq Value, posIndex Value) (Value, error) {
	n, ok := posIndex.(*NumberValue)
	if !ok {
		return nil, typeError("iteration index must be a number, got %s", posIndex.Kind())
	}
	i := int(n.val)
	switch s := seq.(type) {
	case *MapValue:
		k, v, ok := s.EntryAt(i)
		if !ok {
			return nil, indexError("iteration index out of range: %d", i)
		}
		pair := CreateMap()
		pair.SetStr("key", k)
		pair.SetStr("value", v)
		return pair, nil
	case *ListValue:
		return s.At(i)
	case *StringValue:
		return stringIndex(s, posIndex)
	default:
		return nil, typeError("cannot iterate over %s", seq.Kind())
	}
}

// evalLengthOf implements LengthOfA (§4.5).
func evalLengthOf(a Value) (int, error) {
	switch v := a.(type) {
	case *StringValue:
		return stringRuneLen(v.val), nil
	case *ListValue:
		return len(v.items), nil
	case *MapValue:
		return len(v.entries), nil
	default:
		return 0, typeError("cannot take length of %s", a.Kind())
	}
}
