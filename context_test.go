package miniscript

import "testing"

func TestGetVarResolutionOrder(t *testing.T) {
	vm := newTestMachine()
	vm.Globals().SetStr("x", CreateString("global"))

	outer := CreateMap()
	outer.SetStr("x", CreateString("outer"))

	fn := NewFunction(nil, nil)
	ctx := NewContext(vm, fn, outer)

	v, ok := ctx.GetVar("x")
	if !ok || v.ToString(vm) != "outer" {
		t.Errorf("expected outer scope to shadow global, got %v (ok=%v)", v, ok)
	}

	ctx.SetVar("x", CreateString("local"))
	v, ok = ctx.GetVar("x")
	if !ok || v.ToString(vm) != "local" {
		t.Errorf("expected local scope to shadow outer, got %v (ok=%v)", v, ok)
	}

	_, ok = ctx.GetVar("y")
	if ok {
		t.Error("expected undefined identifier to miss")
	}
	vm.Globals().SetStr("y", CreateNumber(1))
	v, ok = ctx.GetVar("y")
	if !ok || v.DoubleValue() != 1 {
		t.Error("expected global fallback to find y after it was defined")
	}
}

func TestPushArgAndTakeArgsOrdering(t *testing.T) {
	vm := newTestMachine()
	fn := NewFunction(nil, nil)
	ctx := NewContext(vm, fn, nil)

	ctx.PushArg(CreateNumber(1))
	ctx.PushArg(CreateNumber(2))
	ctx.PushArg(CreateNumber(3))

	args := ctx.takeArgs(2)
	if len(args) != 2 || args[0].DoubleValue() != 1 || args[1].DoubleValue() != 2 {
		t.Errorf("expected first two pushed args in order, got %v", args)
	}
	rest := ctx.takeArgs(5)
	if len(rest) != 1 || rest[0].DoubleValue() != 3 {
		t.Errorf("expected remaining single arg, got %v", rest)
	}
}

func TestSetTempReleasesPreviousValue(t *testing.T) {
	vm := newTestMachine()
	fn := NewFunction(nil, nil)
	ctx := NewContext(vm, fn, nil)

	before := NumInstancesInUse().Lists
	l := CreateList()
	ctx.SetTemp(0, l)
	Unref(l) // the context now holds the only reference

	ctx.SetTemp(0, CreateNumber(5))

	after := NumInstancesInUse().Lists
	if after > before {
		t.Errorf("expected displaced list to be released back to the pool, live count before=%d after=%d", before, after)
	}
	if ctx.Temp(0).DoubleValue() != 5 {
		t.Error("expected temp slot 0 to hold the new value")
	}
}
