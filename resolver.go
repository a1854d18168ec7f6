package miniscript

// maxIsaDepth caps the __isa walk (spec.md §3.2, §4.3): a chain longer
// than this is assumed cyclic and rejected with a limit-exceeded error
// rather than looping forever.
const maxIsaDepth = 1000

// isaChainContains walks start's __isa chain (start included) looking
// for an entry that is the same Map as target (reference identity —
// "is a" tests the prototype object itself, not its contents). Used by
// MapValue.IsA and AisaB.
func isaChainContains(vm *Machine, start *MapValue, target Value) (bool, error) {
	limit := isaDepthLimit(vm)
	targetMap, targetIsMap := target.(*MapValue)
	cur := start
	for i := 0; i < limit; i++ {
		if cur == nil {
			return false, nil
		}
		if targetIsMap && cur == targetMap {
			return true, nil
		}
		cur = cur.isaParent()
	}
	return false, limitError("__isa chain exceeds %d hops", limit)
}

// isaDepthLimit resolves the __isa walk bound from the Machine's Config
// (§3.4), falling back to the package default when no Machine/Config is
// available (e.g. a Map's IsA is checked before a Machine exists).
func isaDepthLimit(vm *Machine) int {
	if vm != nil && vm.config != nil {
		return vm.config.MaxIsaDepth
	}
	return maxIsaDepth
}

// resolveDefaultType is IsA for the non-Map variants (Number, String,
// List, Function): typ matches if it is the variant's installed default
// type map, or any map reachable by walking that default map's own
// __isa chain (spec.md §4.3 rule 3).
func resolveDefaultType(defaultMap *MapValue, typ Value, vm *Machine) (Value, bool) {
	if defaultMap == nil {
		return nil, false
	}
	found, err := isaChainContains(vm, defaultMap, typ)
	if err != nil {
		return nil, false
	}
	return nil, found
}

// lookupChain walks a Map's __isa chain looking for key, falling back
// once to the VM's generic map type when the chain runs out without a
// match (spec.md §4.3 rule 2). It returns the found value and the map
// that defined it.
func lookupChain(vm *Machine, start *MapValue, key Value) (Value, *MapValue, error) {
	limit := isaDepthLimit(vm)
	cur := start
	for i := 0; i < limit; i++ {
		if cur == nil {
			return nil, nil, keyError("key not found: %s", describeKey(key))
		}
		if v, ok := cur.Get(key); ok {
			return v, cur, nil
		}
		parent := cur.isaParent()
		if parent == nil {
			if vm != nil && vm.mapType != nil && cur != vm.mapType {
				if v, ok := vm.mapType.Get(key); ok {
					return v, vm.mapType, nil
				}
			}
			return nil, nil, keyError("key not found: %s", describeKey(key))
		}
		cur = parent
	}
	return nil, nil, limitError("__isa chain exceeds %d hops", limit)
}

func describeKey(key Value) string {
	if s, ok := key.(*StringValue); ok {
		return s.val
	}
	return key.ToString(nil)
}

// resolveMember implements the full §4.3 resolution walk given
// (sequence, key, context): it is the shared engine behind ElemBofA's
// member lookup, and so behind SeqElem reads, which go through
// evalElemBofA. Plain identifiers resolve through Context.GetVar instead.
func resolveMember(vm *Machine, ctx *Context, seq Value, key Value) (Value, *MapValue, error) {
	switch s := seq.(type) {
	case *TempValue, *VarValue:
		resolved, err := seq.Val(ctx, false)
		if err != nil {
			return nil, nil, err
		}
		return resolveMember(vm, ctx, resolved, key)
	case *MapValue:
		return lookupChain(vm, s, key)
	case *ListValue:
		return lookupChain(vm, vm.listType, key)
	case *StringValue:
		return lookupChain(vm, vm.stringType, key)
	case *NumberValue:
		return lookupChain(vm, vm.numberType, key)
	case *FunctionValue:
		return lookupChain(vm, vm.functionType, key)
	case *CustomValue:
		if s.Lookup != nil {
			if v, ok := s.Lookup(key); ok {
				return v, nil, nil
			}
		}
		if s.TypeFuncs != nil {
			return lookupChain(vm, s.TypeFuncs, key)
		}
		return nil, nil, keyError("key not found: %s", describeKey(key))
	default:
		return nil, nil, typeError("cannot index into %s", seq.Kind())
	}
}
