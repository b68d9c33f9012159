// Package frame infers a function's stack-frame layout from its
// prologue, per spec.md §4.5.
package frame

import (
	"fmt"

	"github.com/ethteck/mips-to-c/cfg"
	"github.com/ethteck/mips-to-c/diag"
	"github.com/ethteck/mips-to-c/operand"
)

// Info holds the stack-frame facts pulled out of a function's entry block.
type Info struct {
	AllocatedStackSize    int64
	IsLeaf                bool
	ReturnAddrLocation    int64
	CalleeSaveRegLocs     map[operand.Register]int64
	LocalVarsRegionBottom int64
}

// InLocalVarRegion reports whether offset falls within the local
// variables region: [LocalVarsRegionBottom, AllocatedStackSize).
func (info *Info) InLocalVarRegion(offset int64) bool {
	return offset >= info.LocalVarsRegionBottom && offset < info.AllocatedStackSize
}

// Analyze walks entry's instructions in order, inferring the frame
// layout described in spec.md §4.5.
func Analyze(entry *cfg.Block) (*Info, error) {
	info := &Info{
		IsLeaf:            true,
		CalleeSaveRegLocs: make(map[operand.Register]int64),
	}

	for _, inst := range entry.Instructions {
		if len(inst.Args) == 0 {
			continue
		}
		dest, ok := inst.Args[0].(operand.Register)
		if !ok {
			continue
		}

		switch {
		case inst.Mnemonic == "addiu" && dest.Name == "sp":
			if len(inst.Args) < 3 {
				continue
			}
			if imm, ok := inst.Args[2].(operand.NumberLiteral); ok {
				info.AllocatedStackSize = -imm.Value
			}

		case inst.Mnemonic == "sw" && dest.Name == "ra":
			am, ok := addressModeOntoSP(inst.Args)
			if !ok {
				return nil, diag.NewError(diag.Position{}, diag.StageFrame,
					fmt.Sprintf("prologue %q saves ra but its address mode is not sp-relative", inst.Mnemonic))
			}
			info.IsLeaf = false
			info.ReturnAddrLocation = addressModeOffset(am)

		case inst.Mnemonic == "sw" && dest.IsCalleeSave():
			am, ok := addressModeOntoSP(inst.Args)
			if !ok {
				continue
			}
			info.CalleeSaveRegLocs[dest] = addressModeOffset(am)
		}
	}

	switch {
	case info.IsLeaf && len(info.CalleeSaveRegLocs) > 0:
		var max int64
		for _, loc := range info.CalleeSaveRegLocs {
			if loc > max {
				max = loc
			}
		}
		info.LocalVarsRegionBottom = max + 4
	case info.IsLeaf:
		info.LocalVarsRegionBottom = 0
	default:
		info.LocalVarsRegionBottom = info.ReturnAddrLocation + 4
	}

	return info, nil
}

// addressModeOntoSP returns inst.Args[1] as an AddressMode whose rhs is
// $sp, the shape required for a prologue sw of ra/a callee-save register.
func addressModeOntoSP(args []operand.Argument) (operand.AddressMode, bool) {
	if len(args) < 2 {
		return operand.AddressMode{}, false
	}
	am, ok := args[1].(operand.AddressMode)
	if !ok {
		return operand.AddressMode{}, false
	}
	reg, ok := am.Rhs.(operand.Register)
	if !ok || reg.Name != "sp" {
		return operand.AddressMode{}, false
	}
	return am, true
}

// addressModeOffset returns am.Lhs as an integer offset, or 0 if am has
// no lhs (the rare case of an implicit zero offset).
func addressModeOffset(am operand.AddressMode) int64 {
	if am.Lhs == nil {
		return 0
	}
	if lit, ok := am.Lhs.(operand.NumberLiteral); ok {
		return lit.Value
	}
	return 0
}
