package miniscript

// Config holds Machine-wide tuning knobs. Every field has a spec-derived
// default (§3.2/§4.3/§4.6); a host only sets what it needs to change.
//
// List/String size caps (§3.1, ~16M combined length) are not here: those
// are enforced by ListValue/StringValue methods that run with no Machine
// reference at all (e.g. a host building literal values before any
// Machine exists), so they stay fixed package constants rather than a
// per-Machine knob half the call sites couldn't honor anyway.
type Config struct {
	Debug bool

	// MaxIsaDepth caps the __isa prototype walk (§3.2, §4.3), read by
	// isaChainContains/lookupChain via the owning Machine.
	MaxIsaDepth int

	// DefaultStepLimit bounds RunUntilDone when a host passes 0 for "no
	// limit given" (§4.6: "a host may bound total steps per call").
	DefaultStepLimit int

	// EqualityDepth bounds recursive fuzzy-equality/hash comparisons
	// (§4.1) before they report the indeterminate 0.5 result; read by
	// evalCompare via the owning Machine.
	EqualityDepth int
}

// NewDefaultConfig returns the spec's default tuning: 1000-hop __isa
// cap, unlimited steps, depth-16 equality.
func NewDefaultConfig() *Config {
	return &Config{
		Debug:            false,
		MaxIsaDepth:      maxIsaDepth,
		DefaultStepLimit: 0,
		EqualityDepth:    defaultEqualityDepth,
	}
}
