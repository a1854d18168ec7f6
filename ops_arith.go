package miniscript

import (
	"math"
	"strings"
)

// evalArith implements the APlusB..AModB family (spec.md §4.5 / §4.2).
// "+" with a String on either side stringifies both and concatenates,
// List+List concatenates and Map+Map merges (a List or Map plus anything
// else is a type error); String-String strips a suffix; "*" and "/"
// with a String or List on the left replicate it ("*" also with one on
// the right); every other combination coerces to numbers for
// arithmetic. A Custom value's operator hook is offered first.
func evalArith(op Opcode, a, b Value) (Value, error) {
	if c, ok := a.(*CustomValue); ok {
		if v, handled := customArith(op, c, b, true); handled {
			return v, nil
		}
	}
	if c, ok := b.(*CustomValue); ok {
		if v, handled := customArith(op, c, a, false); handled {
			return v, nil
		}
	}

	switch op {
	case APlusB:
		// String + X or X + String always stringifies and concatenates
		// (spec.md §4.2), checked before either side's own container rule.
		if sa, ok := a.(*StringValue); ok {
			return CreateString(sa.val + b.ToString(nil)), nil
		}
		if sb, ok := b.(*StringValue); ok {
			return CreateString(a.ToString(nil) + sb.val), nil
		}
		if la, ok := a.(*ListValue); ok {
			if lb, ok := b.(*ListValue); ok {
				result, err := concatLists(la, lb)
				if err != nil {
					return nil, err
				}
				return result, nil
			}
			return nil, typeError("cannot add %s to list", b.Kind())
		}
		if ma, ok := a.(*MapValue); ok {
			if mb, ok := b.(*MapValue); ok {
				return mergeMaps(ma, mb), nil
			}
			return nil, typeError("cannot add %s to map", b.Kind())
		}
		return CreateNumber(a.DoubleValue() + b.DoubleValue()), nil

	case AMinusB:
		if sa, ok := a.(*StringValue); ok {
			if sb, ok := b.(*StringValue); ok {
				return CreateString(stripSuffix(sa.val, sb.val)), nil
			}
			return nil, typeError("cannot subtract %s from string", b.Kind())
		}
		return CreateNumber(a.DoubleValue() - b.DoubleValue()), nil

	case ATimesB:
		if sa, ok := a.(*StringValue); ok {
			repeated, err := stringRepeat(sa.val, b.DoubleValue())
			if err != nil {
				return nil, err
			}
			return CreateString(repeated), nil
		}
		if la, ok := a.(*ListValue); ok {
			result, err := repeatList(la, b.DoubleValue())
			if err != nil {
				return nil, err
			}
			return result, nil
		}
		if sb, ok := b.(*StringValue); ok {
			repeated, err := stringRepeat(sb.val, a.DoubleValue())
			if err != nil {
				return nil, err
			}
			return CreateString(repeated), nil
		}
		if lb, ok := b.(*ListValue); ok {
			result, err := repeatList(lb, a.DoubleValue())
			if err != nil {
				return nil, err
			}
			return result, nil
		}
		return CreateNumber(a.DoubleValue() * b.DoubleValue()), nil

	case ADivB:
		denom := b.DoubleValue()
		if denom == 0 {
			return nil, runtimeError("division by zero")
		}
		if sa, ok := a.(*StringValue); ok {
			repeated, err := stringRepeat(sa.val, 1/denom)
			if err != nil {
				return nil, err
			}
			return CreateString(repeated), nil
		}
		if la, ok := a.(*ListValue); ok {
			result, err := repeatList(la, 1/denom)
			if err != nil {
				return nil, err
			}
			return result, nil
		}
		return CreateNumber(a.DoubleValue() / denom), nil

	case APowB:
		return CreateNumber(math.Pow(a.DoubleValue(), b.DoubleValue())), nil

	case AModB:
		denom := b.DoubleValue()
		if denom == 0 {
			return nil, runtimeError("modulo by zero")
		}
		return CreateNumber(math.Mod(a.DoubleValue(), denom)), nil

	default:
		return nil, runtimeError("not an arithmetic opcode: %s", op)
	}
}

// customArith offers a Custom value's Add/Sub/Mul/Div hook before
// falling back to the default coercions (§4.4).
func customArith(op Opcode, c *CustomValue, other Value, selfIsLeft bool) (Value, bool) {
	var fn func(Value, bool) (Value, bool)
	switch op {
	case APlusB:
		fn = c.Add
	case AMinusB:
		fn = c.Sub
	case ATimesB:
		fn = c.Mul
	case ADivB:
		fn = c.Div
	}
	if fn == nil {
		return nil, false
	}
	v, ok := fn(other, selfIsLeft)
	return v, ok
}

// evalCompare implements AEqualB..ALessOrEqualB. Equality-family
// comparisons use the fuzzy Equality contract, truthed via truth();
// ordering comparisons are ordinal (lexicographic) for two strings,
// numeric (DoubleValue) for everything else (spec.md §4.5 opcode table).
func evalCompare(vm *Machine, op Opcode, a, b Value) *NumberValue {
	depth := equalityDepth(vm)
	switch op {
	case AEqualB:
		return boolValue(truth(a.Equality(b, depth)))
	case ANotEqualB:
		return boolValue(!truth(a.Equality(b, depth)))
	case AGreaterThanB:
		if sa, sb, ok := bothStrings(a, b); ok {
			return boolValue(strings.Compare(sa, sb) > 0)
		}
		return boolValue(a.DoubleValue() > b.DoubleValue())
	case AGreatOrEqualB:
		if sa, sb, ok := bothStrings(a, b); ok {
			return boolValue(strings.Compare(sa, sb) >= 0)
		}
		return boolValue(a.DoubleValue() >= b.DoubleValue())
	case ALessThanB:
		if sa, sb, ok := bothStrings(a, b); ok {
			return boolValue(strings.Compare(sa, sb) < 0)
		}
		return boolValue(a.DoubleValue() < b.DoubleValue())
	case ALessOrEqualB:
		if sa, sb, ok := bothStrings(a, b); ok {
			return boolValue(strings.Compare(sa, sb) <= 0)
		}
		return boolValue(a.DoubleValue() <= b.DoubleValue())
	default:
		return NumberZero()
	}
}

// bothStrings reports whether a and b are both String values, returning
// their underlying Go strings for an ordinal comparison.
func bothStrings(a, b Value) (string, string, bool) {
	sa, ok := a.(*StringValue)
	if !ok {
		return "", "", false
	}
	sb, ok := b.(*StringValue)
	if !ok {
		return "", "", false
	}
	return sa.val, sb.val, true
}

// equalityDepth resolves the fuzzy-equality recursion bound from the
// Machine's Config (§3.4), falling back to the package default when no
// Machine/Config is available (e.g. a Value compared before a Machine
// exists).
func equalityDepth(vm *Machine) int {
	if vm != nil && vm.config != nil {
		return vm.config.EqualityDepth
	}
	return defaultEqualityDepth
}
