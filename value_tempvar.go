package miniscript

// TempValue is the Temp variant (§3.1): a non-negative index into the
// current Context's temporary slots. Not pool-backed — it is always a
// short-lived operand of a Line, never stored.
type TempValue struct {
	Index int
}

// T constructs a Temp operand referencing slot i.
func T(i int) *TempValue { return &TempValue{Index: i} }

func (t *TempValue) Kind() Kind                     { return KindTemp }
func (t *TempValue) ToString(vm *Machine) string    { return "<temp>" }
func (t *TempValue) CodeForm(vm *Machine, n int) string { return "<temp>" }
func (t *TempValue) Hash(depth int) uint64          { return uint64(t.Index) }
func (t *TempValue) Equality(o Value, depth int) float64 {
	if ot, ok := o.(*TempValue); ok && ot.Index == t.Index {
		return 1
	}
	return 0
}
func (t *TempValue) BoolValue() bool      { return false }
func (t *TempValue) IntValue() int64      { return int64(t.Index) }
func (t *TempValue) DoubleValue() float64 { return float64(t.Index) }
func (t *TempValue) IsA(typ Value, vm *Machine) bool { return false }

func (t *TempValue) Val(ctx *Context, takeRef bool) (Value, error) {
	v := ctx.Temp(t.Index)
	if takeRef {
		return Ref(v), nil
	}
	return v, nil
}

func (t *TempValue) FullEval(ctx *Context) (Value, error) {
	return t.Val(ctx, false)
}

// VarValue is the Var variant (§3.1): an identifier, optionally marked
// no-invoke (the "@" sigil in source — `@obj.method` yields the
// function reference itself rather than calling it, §9). Not
// pool-backed.
type VarValue struct {
	Name     string
	NoInvoke bool
}

// V constructs a Var operand for the given identifier.
func V(name string) *VarValue { return &VarValue{Name: name} }

// VNoInvoke constructs a no-invoke Var operand ("@name").
func VNoInvoke(name string) *VarValue { return &VarValue{Name: name, NoInvoke: true} }

func (v *VarValue) Kind() Kind                  { return KindVar }
func (v *VarValue) ToString(vm *Machine) string { return v.Name }
func (v *VarValue) CodeForm(vm *Machine, n int) string { return v.Name }
func (v *VarValue) Hash(depth int) uint64       { return hashString(0x9e3779b97f4a7c15, v.Name) }
func (v *VarValue) Equality(o Value, depth int) float64 {
	if ov, ok := o.(*VarValue); ok && ov.Name == v.Name {
		return 1
	}
	return 0
}
func (v *VarValue) BoolValue() bool      { return v.Name != "" }
func (v *VarValue) IntValue() int64      { return 0 }
func (v *VarValue) DoubleValue() float64 { return 0 }
func (v *VarValue) IsA(typ Value, vm *Machine) bool { return false }

func (v *VarValue) Val(ctx *Context, takeRef bool) (Value, error) {
	resolved, ok := ctx.GetVar(v.Name)
	if !ok {
		return nil, keyError("undefined identifier: %s", v.Name)
	}
	if fn, isFn := resolved.(*FunctionValue); isFn && !v.NoInvoke {
		result, err := ctx.vm.invokeNoArgs(fn)
		if err != nil {
			return nil, err
		}
		resolved = result
	}
	if takeRef {
		return Ref(resolved), nil
	}
	return resolved, nil
}

func (v *VarValue) FullEval(ctx *Context) (Value, error) {
	return v.Val(ctx, false)
}
