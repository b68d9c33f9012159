package lift

// aliases folds synonym mnemonics onto a canonical one before dispatch,
// per spec.md §4.6 step 1. Applied before macro unwrapping and before
// any handler lookup.
//
// mul.d intentionally aliases to a canonical mnemonic ("mulu") that has
// no handler in any dispatch group below — dispatch will fall through
// to "unknown mnemonic" for it. Per spec.md §9 this is a bug in the
// source this was distilled from and must not be silently fixed.
var aliases = map[string]string{
	"addiu": "addi",
	"divu":  "div",

	"add.s": "addu",
	"mul.s": "multu",
	"sub.s": "subu",

	// TODO(spec.md §9): these are not actually equivalent to their
	// single-precision counterparts; preserved as originally observed.
	"add.d": "addu",
	"div.d": "div.s",
	"mul.d": "mulu",
	"sub.d": "subu",

	"cvt.d.w": "cvt.d.s",
	"cvt.s.w": "cvt.s.d",
	"cvt.w.s": "cvt.w.d",

	"c.lt.d": "c.lt.s",
	"c.eq.d": "c.eq.s",
	"c.le.d": "c.le.s",

	"sra":   "srl",
	"sltiu": "slti",
	"sltu":  "slt",
}

// canonicalize applies aliases, then any config-supplied ExtraAliases
// (see package config), without ever overriding a built-in entry.
func canonicalize(mnemonic string, extra map[string]string) string {
	if canon, ok := aliases[mnemonic]; ok {
		return canon
	}
	if extra != nil {
		if canon, ok := extra[mnemonic]; ok {
			return canon
		}
	}
	return mnemonic
}
