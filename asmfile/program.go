// Package asmfile classifies lines of MIPS assembly and assembles them
// into a Program of Functions, each a sequence of Labels and Instructions.
package asmfile

import "github.com/ethteck/mips-to-c/operand"

// branchMnemonics is the set of instructions that carry a delay slot and
// terminate a basic block (spec.md §3's is_branch_instruction).
var branchMnemonics = map[string]bool{
	"b": true, "beq": true, "bne": true,
	"bgez": true, "bgtz": true, "blez": true, "bltz": true,
}

// Instruction is one decoded assembly instruction.
type Instruction struct {
	Mnemonic string
	Args     []operand.Argument
}

// IsBranchInstruction reports whether this instruction carries a delay
// slot per spec.md §3 (note: this is a narrower set than the full branch
// family recognised by the lifter in package lift — beqz/bnez/bc1t/etc.
// aren't in this list and never split a block here, matching the original).
func (i Instruction) IsBranchInstruction() bool {
	return branchMnemonics[i.Mnemonic]
}

// Label is a local code address.
type Label struct {
	Name string
}

// BodyItem is either an Instruction or a Label, appearing in a
// Function's body in source order.
type BodyItem interface {
	isBodyItem()
}

func (Instruction) isBodyItem() {}
func (Label) isBodyItem()       {}

// Function is a named sequence of Labels and Instructions.
type Function struct {
	Name string
	Body []BodyItem
}

func (f *Function) newLabel(name string) {
	f.Body = append(f.Body, Label{Name: name})
}

func (f *Function) newInstruction(inst Instruction) {
	f.Body = append(f.Body, inst)
}

// Program is the accumulated result of assembling one input file: a
// sequence of Functions, built behind a mutable "current function"
// cursor that is cleared once parsing completes.
type Program struct {
	Filename  string
	Functions []*Function

	current *Function
}

func newProgram(filename string) *Program {
	return &Program{Filename: filename}
}

func (p *Program) newFunction(name string) {
	fn := &Function{Name: name}
	p.Functions = append(p.Functions, fn)
	p.current = fn
}
