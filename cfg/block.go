// Package cfg builds basic blocks from a Function body (honouring the
// MIPS branch-delay slot) and analyzes control flow between them.
package cfg

import (
	"fmt"

	"github.com/ethteck/mips-to-c/asmfile"
	"github.com/ethteck/mips-to-c/diag"
)

// Block is a non-empty, densely-indexed run of instructions, optionally
// preceded by a label.
type Block struct {
	Index        int
	Label        *asmfile.Label
	Instructions []asmfile.Instruction
}

func (b *Block) String() string {
	name := fmt.Sprintf("%d", b.Index)
	if b.Label != nil {
		name = fmt.Sprintf("%d (%s)", b.Index, b.Label.Name)
	}
	return fmt.Sprintf("# %s\n(%d instructions)", name, len(b.Instructions))
}

// BuildBlocks segments fn's body into Blocks, splitting at labels and
// after every branch-plus-delay-slot pair, per spec.md §4.3. It uses a
// single explicit index into fn.Body so the delay-slot instruction can
// be peeked and consumed without a second pass.
func BuildBlocks(fn *asmfile.Function) ([]*Block, error) {
	var blocks []*Block

	index := 0
	var pendingLabel *asmfile.Label
	var pending []asmfile.Instruction

	emit := func() {
		if len(pending) == 0 {
			return
		}
		blocks = append(blocks, &Block{
			Index:        index,
			Label:        pendingLabel,
			Instructions: pending,
		})
		index++
		pendingLabel = nil
		pending = nil
	}

	body := fn.Body
	for i := 0; i < len(body); i++ {
		switch item := body[i].(type) {
		case asmfile.Label:
			emit()
			label := item
			pendingLabel = &label

		case asmfile.Instruction:
			pending = append(pending, item)
			if item.IsBranchInstruction() {
				i++
				if i >= len(body) {
					return nil, diag.NewError(diag.Position{Filename: fn.Name}, diag.StageBlock,
						fmt.Sprintf("branch instruction %q in %s has no delay slot", item.Mnemonic, fn.Name))
				}
				delaySlot, ok := body[i].(asmfile.Instruction)
				if !ok {
					return nil, diag.NewError(diag.Position{Filename: fn.Name}, diag.StageBlock,
						fmt.Sprintf("delay slot after %q in %s must be an instruction, not a label", item.Mnemonic, fn.Name))
				}
				pending = append(pending, delaySlot)
				emit()
			}
		}
	}
	emit()

	return blocks, nil
}
