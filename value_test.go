package miniscript

import "testing"

func TestNumberSingletonsSkipPool(t *testing.T) {
	before := NumInstancesInUse().Numbers

	zero := CreateNumber(0)
	one := CreateNumber(1)
	if zero != numberZeroSingleton {
		t.Error("CreateNumber(0) did not return the zero singleton")
	}
	if one != numberOneSingleton {
		t.Error("CreateNumber(1) did not return the one singleton")
	}

	Ref(zero)
	Unref(zero)
	Unref(zero)
	Unref(one)

	if NumInstancesInUse().Numbers != before {
		t.Errorf("singleton traffic changed live Number count: before=%d after=%d", before, NumInstancesInUse().Numbers)
	}
}

func TestPoolInstancesNonincreasingAfterCompletion(t *testing.T) {
	before := NumInstancesInUse()

	n := CreateNumber(3.5)
	s := CreateString("hello")
	l := CreateList()
	_ = l.Append(n)
	m := CreateMap()
	m.SetStr("k", s)

	// The list and map now hold their own references; release ours.
	Unref(n)
	Unref(s)
	Unref(m)
	Unref(l)

	after := NumInstancesInUse()
	if after.Numbers > before.Numbers {
		t.Errorf("Numbers in use grew: before=%d after=%d", before.Numbers, after.Numbers)
	}
	if after.Strings > before.Strings {
		t.Errorf("Strings in use grew: before=%d after=%d", before.Strings, after.Strings)
	}
	if after.Lists > before.Lists {
		t.Errorf("Lists in use grew: before=%d after=%d", before.Lists, after.Lists)
	}
	if after.Maps > before.Maps {
		t.Errorf("Maps in use grew: before=%d after=%d", before.Maps, after.Maps)
	}
}

func TestHashConsistentWithEquality(t *testing.T) {
	pairs := []struct {
		name string
		a, b Value
	}{
		{"equal numbers", CreateNumber(42), CreateNumber(42)},
		{"equal strings", CreateString("abc"), CreateString("abc")},
	}
	for _, p := range pairs {
		eq := p.a.Equality(p.b, defaultEqualityDepth)
		if eq >= 0.5 && p.a.Hash(defaultEqualityDepth) != p.b.Hash(defaultEqualityDepth) {
			t.Errorf("%s: equality %.2f but hashes differ (%d vs %d)", p.name, eq, p.a.Hash(defaultEqualityDepth), p.b.Hash(defaultEqualityDepth))
		}
	}
}

func TestHashConsistentAcrossEqualLists(t *testing.T) {
	a := CreateList()
	_ = a.Append(CreateNumber(1))
	_ = a.Append(CreateString("x"))
	b := CreateList()
	_ = b.Append(CreateNumber(1))
	_ = b.Append(CreateString("x"))

	eq := a.Equality(b, defaultEqualityDepth)
	if eq < 0.5 {
		t.Fatalf("expected equal lists, got equality %.2f", eq)
	}
	if a.Hash(defaultEqualityDepth) != b.Hash(defaultEqualityDepth) {
		t.Error("equal lists hashed differently")
	}
}

func TestHashConsistentAcrossEqualMapsRegardlessOfOrder(t *testing.T) {
	a := CreateMap()
	a.SetStr("x", CreateNumber(1))
	a.SetStr("y", CreateNumber(2))

	b := CreateMap()
	b.SetStr("y", CreateNumber(2))
	b.SetStr("x", CreateNumber(1))

	eq := a.Equality(b, defaultEqualityDepth)
	if eq < 0.5 {
		t.Fatalf("expected equal maps regardless of insertion order, got %.2f", eq)
	}
	if a.Hash(defaultEqualityDepth) != b.Hash(defaultEqualityDepth) {
		t.Error("order-independent map hash differed between equal maps")
	}
}

func TestMapSetPreservesInsertionOrderOnReplace(t *testing.T) {
	m := CreateMap()
	m.SetStr("a", CreateNumber(1))
	m.SetStr("b", CreateNumber(2))
	m.SetStr("c", CreateNumber(3))

	// Replacing "b" must not move it to the end.
	m.SetStr("b", CreateNumber(20))

	wantKeys := []string{"a", "b", "c"}
	for i, want := range wantKeys {
		k, _, ok := m.EntryAt(i)
		if !ok {
			t.Fatalf("entry %d missing", i)
		}
		sk, ok := k.(*StringValue)
		if !ok || sk.val != want {
			t.Errorf("entry %d: want key %q, got %v", i, want, k)
		}
	}

	v, ok := m.GetStr("b")
	if !ok || v.DoubleValue() != 20 {
		t.Errorf("replaced value for \"b\" not applied, got %v", v)
	}
}

func TestMergeMapsRightWinsOnCollision(t *testing.T) {
	a := CreateMap()
	a.SetStr("x", CreateNumber(1))
	a.SetStr("y", CreateNumber(2))

	b := CreateMap()
	b.SetStr("y", CreateNumber(20))
	b.SetStr("z", CreateNumber(3))

	merged := mergeMaps(a, b)
	if merged.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", merged.Len())
	}
	y, _ := merged.GetStr("y")
	if y.DoubleValue() != 20 {
		t.Errorf("expected right map to win on collision, got %v", y.DoubleValue())
	}
}

func TestStringRepeatFractionalFactor(t *testing.T) {
	s, err := stringRepeat("ab", 2.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != "ababa" {
		t.Errorf("expected \"ababa\", got %q", s)
	}
}

func TestWrapIndexNegative(t *testing.T) {
	idx, ok := wrapIndex(-1, 5)
	if !ok || idx != 4 {
		t.Errorf("expected wraparound to 4, got idx=%d ok=%v", idx, ok)
	}
	_, ok = wrapIndex(-6, 5)
	if ok {
		t.Error("expected out-of-range for -6 against length 5")
	}
}
