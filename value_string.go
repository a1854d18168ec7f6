package miniscript

import (
	"math"
	"strconv"
	"strings"
)

// maxStringLen is the ~16M combined-length cap from spec.md §3.1/§3.2.
const maxStringLen = 16 * 1024 * 1024

// StringValue is the String variant: a UTF-8 Go string under the hood
// (UTF-16-compatible per codepoint as spec.md requires — Go strings are
// valid UTF-8, and every codepoint MiniScript source can express round-
// trips through it without loss). Pool-backed except for the
// String.empty and interned-identifier singletons (§3.2, §9).
type StringValue struct {
	val   string
	count int32
}

var stringEmptySingleton = &StringValue{val: "", count: singletonCount}

// internedNames are the hot identifiers named in spec.md §9: keeping
// them as singletons avoids allocating a pooled String on every name
// resolution, which is the single hottest path in the interpreter.
var internedNames = map[string]*StringValue{}

func init() {
	for _, s := range []string{"self", "super", "__isa", "len", "to", "from", " ", "seq"} {
		internedNames[s] = &StringValue{val: s, count: singletonCount}
	}
}

// CreateString returns a String wrapping s, taking the empty/interned
// fast path when applicable and otherwise drawing from the pool.
func CreateString(s string) *StringValue {
	if s == "" {
		return stringEmptySingleton
	}
	if v, ok := internedNames[s]; ok {
		return v
	}
	v := freeLists.str.Get().(*StringValue)
	v.val = s
	v.count = 1
	trackCreate(KindString)
	return v
}

func (s *StringValue) Kind() Kind       { return KindString }
func (s *StringValue) refCount() *int32 { return &s.count }
func (s *StringValue) resetForReuse()   { s.val = "" }
func (s *StringValue) String() string   { return s.val }

func (s *StringValue) BoolValue() bool { return s.val != "" }

func (s *StringValue) IntValue() int64 {
	n, ok := parseNumberLoose(s.val)
	if !ok {
		return 0
	}
	return int64(n)
}

func (s *StringValue) DoubleValue() float64 {
	n, ok := parseNumberLoose(s.val)
	if !ok {
		return 0
	}
	return n
}

func parseNumberLoose(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func (s *StringValue) ToString(vm *Machine) string { return s.val }

func (s *StringValue) CodeForm(vm *Machine, recursionLimit int) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s.val {
		if r == '"' {
			b.WriteString(`""`)
		} else {
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func (s *StringValue) Hash(depth int) uint64 {
	return hashString(0x9e3779b97f4a7c15, s.val)
}

func (s *StringValue) Equality(other Value, depth int) float64 {
	o, ok := other.(*StringValue)
	if !ok {
		return 0
	}
	if s.val == o.val {
		return 1
	}
	return 0
}

func (s *StringValue) IsA(typ Value, vm *Machine) bool {
	_, found := resolveDefaultType(vm.stringType, typ, vm)
	return found
}

func (s *StringValue) Val(ctx *Context, takeRef bool) (Value, error) {
	if takeRef {
		return Ref(s), nil
	}
	return s, nil
}

func (s *StringValue) FullEval(ctx *Context) (Value, error) { return s, nil }

// stringRuneLen returns the rune (codepoint) count, used for indexing
// and length, not the byte count.
func stringRuneLen(s string) int {
	return len([]rune(s))
}

// wrapIndex applies MiniScript's negative-index wraparound to idx given
// a sequence of length n, returning (0, false) when out of range.
func wrapIndex(idx, n int) (int, bool) {
	if idx < 0 {
		idx += n
	}
	if idx < 0 || idx >= n {
		return 0, false
	}
	return idx, true
}

// stripSuffix implements String "-" (spec.md §4.2): removes suffix from s
// if s ends with it, otherwise returns s unchanged.
func stripSuffix(s, suffix string) string {
	if suffix == "" {
		return s
	}
	if strings.HasSuffix(s, suffix) {
		return s[:len(s)-len(suffix)]
	}
	return s
}

// stringRepeat implements MiniScript's "s * n" / "s / n" replication:
// an integer factor repeats the whole string that many times; a
// fractional factor additionally appends that fraction of one more
// copy (spec.md §4.2).
func stringRepeat(s string, factor float64) (string, error) {
	if factor < 0 {
		factor = 0
	}
	whole := int(math.Floor(factor))
	frac := factor - float64(whole)
	runes := []rune(s)
	var b strings.Builder
	total := 0
	for i := 0; i < whole; i++ {
		b.WriteString(s)
		total += len(runes)
		if total > maxStringLen {
			return "", limitError("string result exceeds maximum length")
		}
	}
	if frac > 0 && len(runes) > 0 {
		n := int(math.Round(float64(len(runes)) * frac))
		if n > 0 {
			b.WriteString(string(runes[:n]))
		}
	}
	return b.String(), nil
}
