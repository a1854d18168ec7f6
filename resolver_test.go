package miniscript

import "testing"

func TestIsaChainDepthCapExceeded(t *testing.T) {
	// Build a cyclic __isa chain so the walk cannot terminate naturally;
	// isaChainContains must bail out with a limit error rather than loop
	// forever.
	a := CreateMap()
	b := CreateMap()
	a.SetStr(isaKey, b)
	b.SetStr(isaKey, a)

	target := CreateMap()
	_, err := isaChainContains(nil, a, target)
	if err == nil {
		t.Fatal("expected limit-exceeded error on cyclic __isa chain, got nil")
	}
	ee, ok := err.(*EngineError)
	if !ok || ee.Kind != ErrLimitExceeded {
		t.Errorf("expected ErrLimitExceeded, got %v", err)
	}
}

func TestIsaChainFindsAncestor(t *testing.T) {
	grandparent := CreateMap()
	parent := CreateMap()
	parent.SetStr(isaKey, grandparent)
	child := CreateMap()
	child.SetStr(isaKey, parent)

	found, err := isaChainContains(nil, child, grandparent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Error("expected child's __isa chain to reach grandparent")
	}

	unrelated := CreateMap()
	found, err = isaChainContains(nil, child, unrelated)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("expected no relation to an unrelated map")
	}
}

func TestLookupChainWalksToParent(t *testing.T) {
	parent := CreateMap()
	parent.SetStr("greet", CreateString("hello"))
	child := CreateMap()
	child.SetStr(isaKey, parent)
	child.SetStr("name", CreateString("fido"))

	v, owner, err := lookupChain(nil, child, CreateString("greet"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sv, ok := v.(*StringValue); !ok || sv.val != "hello" {
		t.Errorf("expected \"hello\" from parent, got %v", v)
	}
	if owner != parent {
		t.Error("expected owner to be the defining map (parent)")
	}
}

func TestLookupChainMissReportsKeyError(t *testing.T) {
	m := CreateMap()
	_, _, err := lookupChain(nil, m, CreateString("nope"))
	if err == nil {
		t.Fatal("expected key error for missing key, got nil")
	}
	ee, ok := err.(*EngineError)
	if !ok || ee.Kind != ErrKey {
		t.Errorf("expected ErrKey, got %v", err)
	}
}
