package miniscript

import "sync"

// pooled is satisfied by every pool-backed Value variant (Number,
// String, List, Map, SeqElem — §3.1/§3.2). Singletons set their count
// to singletonCount and ignore all ref/unref traffic.
type pooled interface {
	refCount() *int32
	resetForReuse()
}

// singletonCount marks a Value as non-pool-backed: Null, Number.zero,
// Number.one, String.empty, and the well-known interned strings (§3.2,
// §9). Ref/Unref are no-ops on these.
const singletonCount int32 = -1

// Ref increments v's reference count (if v is pool-backed) and returns
// v, so call sites can write `x = Ref(y)`. Non-pooled variants (Null,
// Function, Temp, Var, Custom, and every singleton) are returned
// unchanged: ownership of those is never tracked.
func Ref(v Value) Value {
	if p, ok := v.(pooled); ok {
		c := p.refCount()
		if *c != singletonCount {
			*c++
		}
	}
	return v
}

// Unref decrements v's reference count (if v is pool-backed). On
// reaching zero the value resets its state, releases references it
// held (e.g. a List unrefs its elements), and is pushed to its variant's
// free list for recycling by a later Create.
func Unref(v Value) {
	p, ok := v.(pooled)
	if !ok {
		return
	}
	c := p.refCount()
	if *c == singletonCount {
		return
	}
	*c--
	if *c <= 0 {
		p.resetForReuse()
		recyclePooled(v)
	}
}

// freeLists holds one sync.Pool per poolable Kind. sync.Pool gives us
// the spec's "per-thread free-list" behavior for free (its internal
// per-P shards are exactly that), without hand-rolling goroutine-local
// storage (§9 design note: pooling is an implementation detail the
// pool.go file owns end to end).
var freeLists = struct {
	number  sync.Pool
	str     sync.Pool
	list    sync.Pool
	mapv    sync.Pool
	seqElem sync.Pool
}{
	number:  sync.Pool{New: func() interface{} { return &NumberValue{} }},
	str:     sync.Pool{New: func() interface{} { return &StringValue{} }},
	list:    sync.Pool{New: func() interface{} { return &ListValue{} }},
	mapv:    sync.Pool{New: func() interface{} { return &MapValue{} }},
	seqElem: sync.Pool{New: func() interface{} { return &SeqElemValue{} }},
}

func recyclePooled(v Value) {
	trackRecycle(v.Kind())
	switch t := v.(type) {
	case *NumberValue:
		freeLists.number.Put(t)
	case *StringValue:
		freeLists.str.Put(t)
	case *ListValue:
		freeLists.list.Put(t)
	case *MapValue:
		freeLists.mapv.Put(t)
	case *SeqElemValue:
		freeLists.seqElem.Put(t)
	}
}

// NumInstancesInUse reports, per Kind, how many pooled instances are
// currently checked out (not on a free list). It is a testing/debugging
// aid (§8: "NumInstancesInUse must be nonincreasing after script
// completion") and is not on any hot path.
type PoolStats struct {
	Numbers, Strings, Lists, Maps, SeqElems int64
}

var liveCounts PoolStats

func trackCreate(k Kind) {
	switch k {
	case KindNumber:
		liveCounts.Numbers++
	case KindString:
		liveCounts.Strings++
	case KindList:
		liveCounts.Lists++
	case KindMap:
		liveCounts.Maps++
	case KindSeqElem:
		liveCounts.SeqElems++
	}
}

func trackRecycle(k Kind) {
	switch k {
	case KindNumber:
		liveCounts.Numbers--
	case KindString:
		liveCounts.Strings--
	case KindList:
		liveCounts.Lists--
	case KindMap:
		liveCounts.Maps--
	case KindSeqElem:
		liveCounts.SeqElems--
	}
}

// NumInstancesInUse returns a snapshot of live (checked-out, count > 0)
// pooled-value counts across all variants.
func NumInstancesInUse() PoolStats {
	return liveCounts
}
