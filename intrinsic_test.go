package miniscript

import "testing"

func TestIntrinsicGetFuncForwardsArgsThroughCallFunctionA(t *testing.T) {
	vm := newTestMachine()

	double := NewIntrinsic("double").AddParam("n", CreateNumber(0))
	double.Func = func(ctx *Context, args []Value, partial interface{}) (Value, interface{}, bool, error) {
		return CreateNumber(args[0].DoubleValue() * 2), nil, true, nil
	}
	vm.RegisterIntrinsic(double)
	fn := double.GetFunc()

	t0 := T(0)
	top := NewFunction(nil, []*Line{
		NewLine(nil, PushParam, CreateNumber(21), nil, 1),
		NewLine(t0, CallFunctionA, fn, CreateNumber(1), 1),
		NewLine(nil, ReturnA, t0, nil, 1),
	})
	vm.Start(top, nil)
	done, err := vm.RunUntilDone(0, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !done {
		t.Fatal("expected program to complete")
	}
	if got := vm.LastResult().DoubleValue(); got != 42 {
		t.Errorf("expected 42, got %v", got)
	}
}

func TestIntrinsicReachableThroughPrototypeChain(t *testing.T) {
	vm := newTestMachine()

	shout := NewIntrinsic("shout")
	shout.Func = func(ctx *Context, args []Value, partial interface{}) (Value, interface{}, bool, error) {
		return CreateString("LOUD"), nil, true, nil
	}
	vm.RegisterIntrinsic(shout)

	proto := CreateMap()
	proto.SetStr("shout", shout.GetFunc())
	obj := CreateMap()
	obj.SetStr(isaKey, proto)

	t0 := T(0)
	top := NewFunction(nil, []*Line{
		NewLine(t0, ElemBofA, obj, CreateString("shout"), 1),
		NewLine(nil, ReturnA, t0, nil, 1),
	})
	vm.Start(top, nil)
	done, err := vm.RunUntilDone(0, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !done {
		t.Fatal("expected program to complete")
	}
	if got := vm.LastResult().ToString(vm); got != "LOUD" {
		t.Errorf("expected \"LOUD\", got %q", got)
	}
}
