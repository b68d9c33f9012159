// Package ir defines the expression/statement nodes the lifter (package
// lift) produces from MIPS instructions, per spec.md §3 and §4.6.
package ir

import "fmt"

// Expr is any IR expression node or, per spec.md §3 ("plus reuse of
// parser Arguments as leaves"), any operand.Argument used directly as a
// leaf. Every concrete type in this package and every operand.Argument
// implementation already has a String method, so Expr is exactly that
// shared capability rather than a closed marker interface — it cannot be
// closed without operand importing ir, which would invert the intended
// dependency direction (operand has no business knowing about IR).
type Expr = fmt.Stringer

// BinaryOp is `left op right`.
type BinaryOp struct {
	Left  Expr
	Op    string
	Right Expr
}

func (b BinaryOp) String() string { return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right) }

// UnaryOp is `op expr`, e.g. the address-of produced by addi with $sp as
// its base register.
type UnaryOp struct {
	Op   string
	Expr Expr
}

func (u UnaryOp) String() string { return fmt.Sprintf("(%s%s)", u.Op, u.Expr) }

// Cast reinterprets expr as to_type, e.g. the f32 cast mtc1 produces.
type Cast struct {
	ToType string
	Expr   Expr
}

func (c Cast) String() string { return fmt.Sprintf("(%s)%s", c.ToType, c.Expr) }

// TypeHint annotates a loaded value with its size/signedness, since the
// lifter does not recover full types (spec.md §1 non-goals).
type TypeHint struct {
	Type  string
	Value Expr
}

func (t TypeHint) String() string { return fmt.Sprintf("%s:%s", t.Type, t.Value) }

// Store is a memory write: sb/sh/sw/swc1/sdc1. Stores never mutate the
// register map; they accumulate in a per-block list (spec.md §4.6).
type Store struct {
	Size   int
	Source Expr
	Dest   Expr
	Float  bool
}

func (s Store) String() string {
	if s.Float {
		return fmt.Sprintf("*(f%d*)%s = %s", s.Size, s.Dest, s.Source)
	}
	return fmt.Sprintf("*(s%d*)%s = %s", s.Size, s.Dest, s.Source)
}

// Return represents a jr-to-return-address terminator. It carries no
// value: spec.md §9 notes the original never resolved what to return
// (v0/f0), and that gap is preserved here rather than guessed at.
type Return struct{}

func (Return) String() string { return "return" }

// DivResult is the (quotient, remainder) pair produced by div/divu,
// assigned wholesale into a single register-map slot per the
// register-write invariant of spec.md §4.6 (the invariant binds the
// destination register, not the shape of what's stored there).
type DivResult struct {
	Quot Expr
	Rem  Expr
}

func (d DivResult) String() string { return fmt.Sprintf("(%s, %s)", d.Quot, d.Rem) }

// MemRef is `lhs(rhs)` after rhs has been rebound through the register
// map, distinct from operand.AddressMode (whose Rhs is always a raw,
// unresolved operand.Argument). Produced by deref when dereferencing
// through a non-$sp base register (spec.md §4.6).
type MemRef struct {
	Lhs Expr
	Rhs Expr
}

func (m MemRef) String() string {
	if m.Lhs != nil {
		return fmt.Sprintf("%s(%s)", m.Lhs, m.Rhs)
	}
	return fmt.Sprintf("(%s)", m.Rhs)
}

// Call is a jal call-site; spec.md §9 notes argument recovery is
// explicitly out of scope for this lifter, so only the target is kept.
type Call struct {
	Target Expr
}

func (c Call) String() string { return fmt.Sprintf("call %s", c.Target) }
