package lift

import (
	"fmt"

	"github.com/ethteck/mips-to-c/cfg"
	"github.com/ethteck/mips-to-c/ir"
	"github.com/ethteck/mips-to-c/operand"
)

// Result is everything Block produces for one block: the accumulated
// memory writes and any call/return terminators observed in it.
type Result struct {
	Stores      []ir.Store
	Terminators []ir.Expr
}

type storeFunc func(a []operand.Argument, regs RegisterFile) (ir.Store, error)

// storeHandlers implements spec.md §4.6's source-first store group:
// reg is read, never written; each produces a Store appended to the
// block's store list.
var storeHandlers = map[string]storeFunc{
	"sb": func(a []operand.Argument, r RegisterFile) (ir.Store, error) { return storeN(a, r, 8, false) },
	"sh": func(a []operand.Argument, r RegisterFile) (ir.Store, error) { return storeN(a, r, 16, false) },
	"sw": func(a []operand.Argument, r RegisterFile) (ir.Store, error) { return storeN(a, r, 32, false) },

	"swc1": func(a []operand.Argument, r RegisterFile) (ir.Store, error) { return storeN(a, r, 32, true) },
	"sdc1": func(a []operand.Argument, r RegisterFile) (ir.Store, error) { return storeN(a, r, 64, true) },
}

func storeN(a []operand.Argument, r RegisterFile, size int, float bool) (ir.Store, error) {
	src, err := asRegister(mustArg(a, 0))
	if err != nil {
		return ir.Store{}, err
	}
	dst := mustArg(a, 1)
	if dst == nil {
		return ir.Store{}, fmt.Errorf("missing store destination operand")
	}
	derefed, err := deref(dst, r)
	if err != nil {
		return ir.Store{}, err
	}
	return ir.Store{Size: size, Source: r.Get(src), Dest: derefed, Float: float}, nil
}

// branchMnemonics, floatBranchMnemonics, and floatCompareMnemonics are
// recognised (so the lifter never reports "unknown mnemonic" for them)
// but, per spec.md §4.6/§9, not currently emitted into any IR and never
// mutate the register map.
var (
	branchMnemonics = map[string]bool{
		"b": true, "beq": true, "bne": true, "beqz": true, "bnez": true,
		"blez": true, "bgtz": true, "bltz": true, "bgez": true,
	}
	floatBranchMnemonics = map[string]bool{"bc1t": true, "bc1f": true}
	floatCompareMnemonics = map[string]bool{
		"c.eq.s": true, "c.le.s": true, "c.lt.s": true,
	}
	specialMnemonics = map[string]func(args []operand.Argument, regs RegisterFile) (ir.Expr, error){
		"lui":  handleLUI,
		"ori":  handleORI,
		"addi": handleADDI,
	}
)

// unwrapMacros replaces any Macro argument with its inner Argument,
// since macros are transparent once lui/addi/ori have consumed their
// significance (spec.md §4.6 step 3).
func unwrapMacros(args []operand.Argument) []operand.Argument {
	out := make([]operand.Argument, len(args))
	for i, a := range args {
		if m, ok := a.(operand.Macro); ok {
			out[i] = m.Inner
		} else {
			out[i] = a
		}
	}
	return out
}

// Options carries ExtraAliases, which lets config.Config supply additional
// mnemonic aliases (see package config, §4.7) without overriding the
// built-in table.
type Options struct {
	ExtraAliases map[string]string
}

// Block lifts one block's instructions into IR against regs, mutating
// regs in place and returning the accumulated stores/terminators. A
// non-nil error means the block's lift failed partway through; per
// spec.md §7 this is the one recoverable error boundary and the caller
// is expected to log it and continue with the next block, leaving regs
// in whatever partial state it reached.
func Block(block *cfg.Block, regs RegisterFile, opts Options) (*Result, error) {
	result := &Result{}

	for _, inst := range block.Instructions {
		mnemonic := canonicalize(inst.Mnemonic, opts.ExtraAliases)
		if mnemonic == "nop" {
			continue
		}
		args := unwrapMacros(inst.Args)

		switch {
		case storeHandlers[mnemonic] != nil:
			st, err := storeHandlers[mnemonic](args, regs)
			if err != nil {
				return result, fmt.Errorf("%s: %w", mnemonic, err)
			}
			result.Stores = append(result.Stores, st)

		case mnemonic == "mtc1":
			dest, err := asRegister(mustArg(args, 1))
			if err != nil {
				return result, fmt.Errorf("mtc1: %w", err)
			}
			src, err := asRegister(mustArg(args, 0))
			if err != nil {
				return result, fmt.Errorf("mtc1: %w", err)
			}
			regs.Set(dest, ir.Cast{ToType: "f32", Expr: regs.Get(src)})

		case branchMnemonics[mnemonic], floatBranchMnemonics[mnemonic], floatCompareMnemonics[mnemonic]:
			// Recorded-but-not-emitted per spec.md §9: recognised so
			// dispatch never calls these "unknown", but no IR is
			// produced and the register map is untouched.

		case mnemonic == "jr":
			result.Terminators = append(result.Terminators, ir.Return{})

		case mnemonic == "jal":
			target := mustArg(args, 0)
			if target == nil {
				return result, fmt.Errorf("jal: missing call target")
			}
			result.Terminators = append(result.Terminators, ir.Call{Target: target})

		case specialMnemonics[mnemonic] != nil:
			dest, err := asRegister(mustArg(args, 0))
			if err != nil {
				return result, fmt.Errorf("%s: %w", mnemonic, err)
			}
			expr, err := specialMnemonics[mnemonic](args, regs)
			if err != nil {
				return result, fmt.Errorf("%s: %w", mnemonic, err)
			}
			if expr != nil {
				regs.Set(dest, expr)
			}

		case destFirstHandlers[mnemonic] != nil:
			dest, err := asRegister(mustArg(args, 0))
			if err != nil {
				return result, fmt.Errorf("%s: %w", mnemonic, err)
			}
			expr, err := destFirstHandlers[mnemonic](args, regs)
			if err != nil {
				return result, fmt.Errorf("%s: %w", mnemonic, err)
			}
			regs.Set(dest, expr)

		default:
			return result, fmt.Errorf("don't know how to handle %q", mnemonic)
		}
	}

	return result, nil
}
