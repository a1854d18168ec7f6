package miniscript

// fuzzyTruth extracts the truth amount a value contributes to
// AAndB/AOrB (spec.md §3.1/§4.5): a number contributes its raw value
// (evalFuzzyLogic clamps the combined result), everything else is 0 or
// 1 via BoolValue.
func fuzzyTruth(v Value) float64 {
	switch v.Kind() {
	case KindNumber:
		return v.DoubleValue()
	default:
		if v.BoolValue() {
			return 1
		}
		return 0
	}
}

// evalFuzzyLogic implements AAndB (clamp01(product)) and AOrB
// (absClamp01(a+b-a*b)) per spec.md §3.1.
func evalFuzzyLogic(op Opcode, a, b Value) float64 {
	ta, tb := fuzzyTruth(a), fuzzyTruth(b)
	if op == AAndB {
		return clamp01(ta * tb)
	}
	return absClamp01(ta + tb - ta*tb)
}

// evalNot implements NotA (spec.md §4.5): a fuzzy complement
// 1 - absClamp01(A) for Number, crisp boolean negation for every other
// non-null Kind, and 1 for Null (Null negates to true).
func evalNot(a Value) *NumberValue {
	switch v := a.(type) {
	case *NumberValue:
		return CreateNumber(1 - absClamp01(v.DoubleValue()))
	case *NullValue:
		return NumberOne()
	default:
		return boolValue(!v.BoolValue())
	}
}

// evalIsa implements AisaB via the common IsA contract (§4.3), with the
// Null special case: everything isa Null only if it literally is Null,
// and Null isa nothing except Null.
func evalIsa(a, b Value, vm *Machine) bool {
	if _, aIsNull := a.(*NullValue); aIsNull {
		_, bIsNull := b.(*NullValue)
		return bIsNull
	}
	return a.IsA(b, vm)
}
