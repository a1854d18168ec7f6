package miniscript

import "testing"

func newTestMachine() *Machine {
	vm := NewMachine(NewDefaultConfig())
	InstallCoreLibrary(vm)
	return vm
}

func runScript(t *testing.T, fn *FunctionValue) *Machine {
	t.Helper()
	vm := newTestMachine()
	vm.Start(fn, nil)
	done, err := vm.RunUntilDone(0, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !done {
		t.Fatal("program did not complete within its step budget")
	}
	return vm
}

// x = 2 + 3 * 4  -> 14 (operator precedence baked into TAC ordering, §8 scenario 1)
func TestScenarioArithmeticPrecedence(t *testing.T) {
	t0, t1 := T(0), T(1)
	fn := NewFunction(nil, []*Line{
		NewLine(t0, ATimesB, CreateNumber(3), CreateNumber(4), 1),
		NewLine(t1, APlusB, CreateNumber(2), t0, 1),
		NewLine(V("x"), AssignA, t1, nil, 1),
		NewLine(nil, ReturnA, V("x"), nil, 1),
	})
	vm := runScript(t, fn)
	if got := vm.LastResult().DoubleValue(); got != 14 {
		t.Errorf("expected 14, got %v", got)
	}
}

// m = {"a": 1}; y = m.a + 10  (§8 scenario 2: map member access + arithmetic)
func TestScenarioMapMemberAccessPlusArithmetic(t *testing.T) {
	t0 := T(0)
	fn := NewFunction(nil, []*Line{
		NewLine(V("m"), AssignA, mapLiteral(map[string]Value{"a": CreateNumber(1)}), nil, 1),
		NewLine(t0, ElemBofA, V("m"), CreateString("a"), 1),
		NewLine(V("y"), APlusB, t0, CreateNumber(10), 1),
		NewLine(nil, ReturnA, V("y"), nil, 1),
	})
	vm := runScript(t, fn)
	if got := vm.LastResult().DoubleValue(); got != 11 {
		t.Errorf("expected 11, got %v", got)
	}
}

// s = "ab" * 2.5 -> "ababa"  (§8 scenario 3: fractional string repeat)
func TestScenarioStringRepeatFractional(t *testing.T) {
	fn := NewFunction(nil, []*Line{
		NewLine(V("s"), ATimesB, CreateString("ab"), CreateNumber(2.5), 1),
		NewLine(nil, ReturnA, V("s"), nil, 1),
	})
	vm := runScript(t, fn)
	if got := vm.LastResult().ToString(vm); got != "ababa" {
		t.Errorf("expected \"ababa\", got %q", got)
	}
}

// a = [1, 2]; b = a + [3]; a unchanged  (§8 scenario 4: list concat, no mutation)
func TestScenarioListConcatDoesNotMutateOriginal(t *testing.T) {
	aLit := CreateList()
	_ = aLit.Append(CreateNumber(1))
	_ = aLit.Append(CreateNumber(2))
	bLit := CreateList()
	_ = bLit.Append(CreateNumber(3))

	fn := NewFunction(nil, []*Line{
		NewLine(V("a"), AssignA, aLit, nil, 1),
		NewLine(V("b"), APlusB, V("a"), bLit, 1),
		NewLine(nil, ReturnA, V("a"), nil, 1),
	})
	vm := runScript(t, fn)
	result, ok := vm.LastResult().(*ListValue)
	if !ok {
		t.Fatalf("expected a list result, got %T", vm.LastResult())
	}
	if result.Len() != 2 {
		t.Errorf("expected original list to keep length 2, got %d", result.Len())
	}
}

// Dog = {}; Dog.speak = function() -> "?"; fido = {"__isa": Dog}; fido.speak -> "?"
// (§8 scenario 5: prototype-chain dispatch with auto-invoke on bare member access)
func TestScenarioPrototypeDispatchAutoInvokes(t *testing.T) {
	speak := NewFunction(nil, []*Line{
		NewLine(nil, ReturnA, CreateString("?"), nil, 1),
	})

	dog := CreateMap()
	dog.SetStr("speak", speak)

	fido := CreateMap()
	fido.SetStr(isaKey, dog)

	t0 := T(0)
	fn := NewFunction(nil, []*Line{
		NewLine(V("fido"), AssignA, fido, nil, 1),
		NewLine(t0, ElemBofA, V("fido"), CreateString("speak"), 1),
		NewLine(nil, ReturnA, t0, nil, 1),
	})
	vm := runScript(t, fn)
	if got := vm.LastResult().ToString(vm); got != "?" {
		t.Errorf("expected \"?\", got %q", got)
	}
}

// GotoAifTrulyB treats a fuzzy-OR result below 1 as strictly-true-if-nonzero
// but its own jump test (IntValue truncation) only fires on integral truth
// (§8 scenario 6).
func TestScenarioFuzzyOrThenTruncatingGoto(t *testing.T) {
	t0 := T(0)
	fn := NewFunction(nil, []*Line{
		// t0 = 0.3 or 0.4 -> probabilistic sum 0.3+0.4-0.12 = 0.58
		NewLine(t0, AOrB, CreateNumber(0.3), CreateNumber(0.4), 1),
		// GotoAifTrulyB only branches on a truncated-to-int nonzero value;
		// 0.58 truncates to 0, so no branch and we fall through to line 2.
		NewLine(nil, GotoAifTrulyB, CreateNumber(4), t0, 1),
		NewLine(V("r"), AssignA, CreateString("not taken"), nil, 2),
		NewLine(nil, ReturnA, V("r"), nil, 2),
		NewLine(V("r"), AssignA, CreateString("taken"), nil, 4),
		NewLine(nil, ReturnA, V("r"), nil, 4),
	})
	vm := runScript(t, fn)
	if got := vm.LastResult().ToString(vm); got != "not taken" {
		t.Errorf("expected the branch to be skipped (truncated truth 0), got %q", got)
	}
}

func TestIntrinsicSuspendResumeRoundTrip(t *testing.T) {
	vm := newTestMachine()

	calls := 0
	counter := NewIntrinsic("counter")
	counter.Func = func(ctx *Context, args []Value, partial interface{}) (Value, interface{}, bool, error) {
		calls++
		if calls < 3 {
			return nil, calls, false, nil
		}
		return CreateNumber(float64(calls)), nil, true, nil
	}
	vm.RegisterIntrinsic(counter)

	t0 := T(0)
	fn := NewFunction(nil, []*Line{
		NewLine(t0, CallIntrinsicA, CreateString("counter"), CreateNumber(0), 1),
		NewLine(nil, ReturnA, t0, nil, 1),
	})
	vm.Start(fn, nil)
	done, err := vm.RunUntilDone(0, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !done {
		t.Fatal("expected program to complete")
	}
	if calls != 3 {
		t.Errorf("expected the intrinsic to be invoked 3 times across suspensions, got %d", calls)
	}
	if got := vm.LastResult().DoubleValue(); got != 3 {
		t.Errorf("expected final result 3, got %v", got)
	}
}

func TestRunUntilDoneReturnsEarlyOnPartial(t *testing.T) {
	vm := newTestMachine()

	never := NewIntrinsic("never_done")
	never.Func = func(ctx *Context, args []Value, partial interface{}) (Value, interface{}, bool, error) {
		return nil, "still waiting", false, nil
	}
	vm.RegisterIntrinsic(never)

	t0 := T(0)
	fn := NewFunction(nil, []*Line{
		NewLine(t0, CallIntrinsicA, CreateString("never_done"), CreateNumber(0), 1),
		NewLine(nil, ReturnA, t0, nil, 1),
	})
	vm.Start(fn, nil)
	done, err := vm.RunUntilDone(0, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if done {
		t.Error("expected RunUntilDone to return early while the intrinsic is suspended")
	}
}

func mapLiteral(entries map[string]Value) *MapValue {
	m := CreateMap()
	for k, v := range entries {
		m.SetStr(k, v)
	}
	return m
}
