package lift

import (
	"fmt"

	"github.com/ethteck/mips-to-c/ir"
	"github.com/ethteck/mips-to-c/operand"
)

func asRegister(arg operand.Argument) (operand.Register, error) {
	reg, ok := arg.(operand.Register)
	if !ok {
		return operand.Register{}, fmt.Errorf("expected register, got %T (%v)", arg, arg)
	}
	return reg, nil
}

func asNumberLiteral(arg operand.Argument) (operand.NumberLiteral, error) {
	n, ok := arg.(operand.NumberLiteral)
	if !ok {
		return operand.NumberLiteral{}, fmt.Errorf("expected number literal, got %T (%v)", arg, arg)
	}
	return n, nil
}

func arg(args []operand.Argument, i int) (operand.Argument, error) {
	if i >= len(args) {
		return nil, fmt.Errorf("expected at least %d argument(s), got %d", i+1, len(args))
	}
	return args[i], nil
}

// deref resolves a memory operand (AddressMode or bare Register) into an
// IR expression. A stack slot (AddressMode onto $sp) is left as-is,
// since it refers to the current frame rather than a traced value;
// anything else has its base register rebound through regs (spec.md §4.6).
func deref(a operand.Argument, regs RegisterFile) (ir.Expr, error) {
	switch v := a.(type) {
	case operand.AddressMode:
		base, err := asRegister(v.Rhs)
		if err != nil {
			return nil, fmt.Errorf("address mode base: %w", err)
		}
		if base.Name == "sp" {
			return v, nil
		}
		return ir.MemRef{Lhs: v.Lhs, Rhs: regs.Get(base)}, nil
	case operand.Register:
		return regs.Get(v), nil
	default:
		return nil, fmt.Errorf("cannot dereference %T (%v)", a, a)
	}
}

// handleLUI implements spec.md §4.6's lui special case.
func handleLUI(args []operand.Argument, regs RegisterFile) (ir.Expr, error) {
	x, err := arg(args, 1)
	if err != nil {
		return nil, err
	}
	switch v := x.(type) {
	case operand.BinOp:
		if v.Op != ">>" {
			return nil, fmt.Errorf("lui: expected >> binop, got op %q", v.Op)
		}
		rhs, err := asNumberLiteral(v.Rhs)
		if err != nil || rhs.Value != 16 {
			return nil, fmt.Errorf("lui: expected >> 16, got %v", v.Rhs)
		}
		return v.Lhs, nil
	case operand.NumberLiteral:
		return ir.BinaryOp{Left: v, Op: "<<", Right: operand.NumberLiteral{Value: 16}}, nil
	default:
		return v, nil
	}
}

// handleORI implements spec.md §4.6's ori special case. The "<" operator
// is preserved verbatim per spec.md §9: it is almost certainly meant to
// be "|", but reimplementing this is explicitly out of scope.
func handleORI(args []operand.Argument, regs RegisterFile) (ir.Expr, error) {
	x, err := arg(args, 2)
	if err != nil {
		return nil, err
	}
	if bo, ok := x.(operand.BinOp); ok {
		if bo.Op != "&" {
			return nil, fmt.Errorf("ori: expected & binop, got op %q", bo.Op)
		}
		rhs, err := asNumberLiteral(bo.Rhs)
		if err != nil || rhs.Value != 0xFFFF {
			return nil, fmt.Errorf("ori: expected & 0xFFFF, got %v", bo.Rhs)
		}
		// The matching lui already handled this split; nothing to assign.
		return nil, nil
	}
	dest, err := asRegister(args[0])
	if err != nil {
		return nil, err
	}
	// TODO(spec.md §9): "<" is almost certainly a typo for "|" in the
	// source this was distilled from. Preserved, not fixed.
	return ir.BinaryOp{Left: regs.Get(dest), Op: "<", Right: x}, nil
}

// handleADDI implements spec.md §4.6's addi special case.
func handleADDI(args []operand.Argument, regs RegisterFile) (ir.Expr, error) {
	if len(args) == 2 {
		return args[1], nil
	}
	base, err := asRegister(args[1])
	if err != nil {
		return nil, err
	}
	x, err := arg(args, 2)
	if err != nil {
		return nil, err
	}
	if base.Name == "sp" {
		imm, err := asNumberLiteral(x)
		if err != nil {
			return nil, fmt.Errorf("addi onto sp: %w", err)
		}
		return ir.UnaryOp{Op: "&", Expr: operand.AddressMode{Lhs: imm, Rhs: operand.Register{Name: "sp"}}}, nil
	}
	return ir.BinaryOp{Left: regs.Get(base), Op: "+", Right: x}, nil
}

type destFirstFunc func(args []operand.Argument, regs RegisterFile) (ir.Expr, error)

// destFirstHandlers implements spec.md §4.6's destination-first group:
// reg[args[0]] = f(args).
var destFirstHandlers = map[string]destFirstFunc{
	"slt":  func(a []operand.Argument, r RegisterFile) (ir.Expr, error) { return binRegReg(a, r, "<") },
	"slti": func(a []operand.Argument, r RegisterFile) (ir.Expr, error) { return binRegArg(a, r, "<") },

	"addu":  func(a []operand.Argument, r RegisterFile) (ir.Expr, error) { return binRegReg(a, r, "+") },
	"multu": func(a []operand.Argument, r RegisterFile) (ir.Expr, error) { return binRegReg(a, r, "*") },
	"subu":  func(a []operand.Argument, r RegisterFile) (ir.Expr, error) { return binRegReg(a, r, "-") },

	"div": func(a []operand.Argument, r RegisterFile) (ir.Expr, error) {
		left, right, err := regRegPair(a, r)
		if err != nil {
			return nil, err
		}
		return ir.DivResult{
			Quot: ir.BinaryOp{Left: left, Op: "/", Right: right},
			Rem:  ir.BinaryOp{Left: left, Op: "%", Right: right},
		}, nil
	},
	"negu": func(a []operand.Argument, r RegisterFile) (ir.Expr, error) {
		rs, err := asRegister(mustArg(a, 1))
		if err != nil {
			return nil, err
		}
		return ir.UnaryOp{Op: "-", Expr: r.Get(rs)}, nil
	},
	"mfhi": func(a []operand.Argument, r RegisterFile) (ir.Expr, error) {
		return r.Get(operand.Register{Name: "hi"}), nil
	},
	"mflo": func(a []operand.Argument, r RegisterFile) (ir.Expr, error) {
		return r.Get(operand.Register{Name: "lo"}), nil
	},

	"div.s": func(a []operand.Argument, r RegisterFile) (ir.Expr, error) { return binRegReg(a, r, "/") },

	"cvt.d.s":   func(a []operand.Argument, r RegisterFile) (ir.Expr, error) { return castReg(a, r, "(f64)") },
	"cvt.s.d":   func(a []operand.Argument, r RegisterFile) (ir.Expr, error) { return castReg(a, r, "(f32)") },
	"cvt.w.d":   func(a []operand.Argument, r RegisterFile) (ir.Expr, error) { return castReg(a, r, "(s32)") },
	"trunc.w.s": func(a []operand.Argument, r RegisterFile) (ir.Expr, error) { return castReg(a, r, "(s32)") },
	"trunc.w.d": func(a []operand.Argument, r RegisterFile) (ir.Expr, error) { return castReg(a, r, "(s32)") },

	"and": func(a []operand.Argument, r RegisterFile) (ir.Expr, error) { return binRegReg(a, r, "&") },
	// TODO(spec.md §9): "^" is almost certainly a typo for "|" in the
	// source this was distilled from. Preserved, not fixed.
	"or":  func(a []operand.Argument, r RegisterFile) (ir.Expr, error) { return binRegReg(a, r, "^") },
	"xor": func(a []operand.Argument, r RegisterFile) (ir.Expr, error) { return binRegReg(a, r, "^") },

	"andi": func(a []operand.Argument, r RegisterFile) (ir.Expr, error) { return binRegArg(a, r, "&") },
	"xori": func(a []operand.Argument, r RegisterFile) (ir.Expr, error) { return binRegArg(a, r, "^") },
	"sll":  func(a []operand.Argument, r RegisterFile) (ir.Expr, error) { return binRegArg(a, r, "<<") },
	"srl":  func(a []operand.Argument, r RegisterFile) (ir.Expr, error) { return binRegArg(a, r, ">>") },

	"move": func(a []operand.Argument, r RegisterFile) (ir.Expr, error) {
		rs, err := asRegister(mustArg(a, 1))
		if err != nil {
			return nil, err
		}
		return r.Get(rs), nil
	},
	"mfc1": func(a []operand.Argument, r RegisterFile) (ir.Expr, error) {
		rs, err := asRegister(mustArg(a, 1))
		if err != nil {
			return nil, err
		}
		return r.Get(rs), nil
	},
	"li": func(a []operand.Argument, r RegisterFile) (ir.Expr, error) { return mustArg(a, 1), nil },

	"lb":  func(a []operand.Argument, r RegisterFile) (ir.Expr, error) { return loadHint(a, r, "s8") },
	"lh":  func(a []operand.Argument, r RegisterFile) (ir.Expr, error) { return loadHint(a, r, "s16") },
	"lw":  func(a []operand.Argument, r RegisterFile) (ir.Expr, error) { return loadHint(a, r, "s32") },
	"lbu": func(a []operand.Argument, r RegisterFile) (ir.Expr, error) { return loadHint(a, r, "u8") },
	"lhu": func(a []operand.Argument, r RegisterFile) (ir.Expr, error) { return loadHint(a, r, "u16") },
	"lwu": func(a []operand.Argument, r RegisterFile) (ir.Expr, error) { return loadHint(a, r, "u32") },

	"lwc1": func(a []operand.Argument, r RegisterFile) (ir.Expr, error) { return loadHint(a, r, "f32") },
	"ldc1": func(a []operand.Argument, r RegisterFile) (ir.Expr, error) { return loadHint(a, r, "f64") },
}

func mustArg(args []operand.Argument, i int) operand.Argument {
	if i >= len(args) {
		return nil
	}
	return args[i]
}

func binRegReg(a []operand.Argument, r RegisterFile, op string) (ir.Expr, error) {
	r1, err := asRegister(mustArg(a, 1))
	if err != nil {
		return nil, err
	}
	r2, err := asRegister(mustArg(a, 2))
	if err != nil {
		return nil, err
	}
	return ir.BinaryOp{Left: r.Get(r1), Op: op, Right: r.Get(r2)}, nil
}

func binRegArg(a []operand.Argument, r RegisterFile, op string) (ir.Expr, error) {
	r1, err := asRegister(mustArg(a, 1))
	if err != nil {
		return nil, err
	}
	rhs := mustArg(a, 2)
	if rhs == nil {
		return nil, fmt.Errorf("missing third argument")
	}
	return ir.BinaryOp{Left: r.Get(r1), Op: op, Right: rhs}, nil
}

func regRegPair(a []operand.Argument, r RegisterFile) (ir.Expr, ir.Expr, error) {
	r1, err := asRegister(mustArg(a, 1))
	if err != nil {
		return nil, nil, err
	}
	r2, err := asRegister(mustArg(a, 2))
	if err != nil {
		return nil, nil, err
	}
	return r.Get(r1), r.Get(r2), nil
}

func castReg(a []operand.Argument, r RegisterFile, toType string) (ir.Expr, error) {
	rs, err := asRegister(mustArg(a, 1))
	if err != nil {
		return nil, err
	}
	return ir.Cast{ToType: toType, Expr: r.Get(rs)}, nil
}

func loadHint(a []operand.Argument, r RegisterFile, typ string) (ir.Expr, error) {
	mem := mustArg(a, 1)
	if mem == nil {
		return nil, fmt.Errorf("missing memory operand")
	}
	val, err := deref(mem, r)
	if err != nil {
		return nil, err
	}
	return ir.TypeHint{Type: typ, Value: val}, nil
}
