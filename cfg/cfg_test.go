package cfg_test

import (
	"strings"
	"testing"

	"github.com/ethteck/mips-to-c/asmfile"
	"github.com/ethteck/mips-to-c/cfg"
)

func buildFunction(t *testing.T, src string) *asmfile.Function {
	t.Helper()
	program, bag, err := asmfile.Assemble(strings.NewReader(src), "test.s")
	if err != nil {
		t.Fatalf("assemble error: %v", err)
	}
	if bag.HasErrors() {
		t.Fatalf("assemble errors: %v", bag.Errors)
	}
	if len(program.Functions) == 0 {
		t.Fatal("expected at least one function")
	}
	return program.Functions[0]
}

func TestBuildBlocks_DelaySlot(t *testing.T) {
	fn := buildFunction(t, `
glabel foo
beq $a0, $a1, .L1
nop
addiu $v0, $v0, 1
.L1:
jr $ra
nop
`)
	blocks, err := cfg.BuildBlocks(fn)
	if err != nil {
		t.Fatalf("BuildBlocks error: %v", err)
	}
	// beq+nop ends a block (branch+delay slot); addiu then ends its own
	// block because .L1 starts a new one, even with no branch before it.
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(blocks))
	}
	if len(blocks[0].Instructions) != 2 {
		t.Errorf("expected block 0 to hold branch+delay slot (2 insts), got %d", len(blocks[0].Instructions))
	}
	if blocks[0].Instructions[0].Mnemonic != "beq" || blocks[0].Instructions[1].Mnemonic != "nop" {
		t.Errorf("unexpected block 0 instructions: %#v", blocks[0].Instructions)
	}
	if blocks[1].Instructions[0].Mnemonic != "addiu" {
		t.Errorf("expected block 1 to start with addiu, got %q", blocks[1].Instructions[0].Mnemonic)
	}
	if blocks[2].Label == nil || blocks[2].Label.Name != "L1" {
		t.Errorf("expected block 2 to carry label L1, got %#v", blocks[2].Label)
	}
	for i, b := range blocks {
		if b.Index != i {
			t.Errorf("block index %d at position %d", b.Index, i)
		}
	}
}

func TestBuildBlocks_LabelStartsNewBlock(t *testing.T) {
	fn := buildFunction(t, `
glabel foo
addiu $v0, $v0, 1
.L1:
addiu $v0, $v0, 2
`)
	blocks, err := cfg.BuildBlocks(fn)
	if err != nil {
		t.Fatalf("BuildBlocks error: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if blocks[1].Label == nil || blocks[1].Label.Name != "L1" {
		t.Errorf("expected block 1 to carry label L1, got %#v", blocks[1].Label)
	}
}

func TestAnalyze_LoopBackEdge(t *testing.T) {
	fn := buildFunction(t, `
glabel foo
.L1:
addiu $v0, $v0, -1
bne $v0, $zero, .L1
nop
jr $ra
nop
`)
	blocks, err := cfg.BuildBlocks(fn)
	if err != nil {
		t.Fatalf("BuildBlocks error: %v", err)
	}
	fa, err := cfg.Analyze(blocks)
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if len(fa.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(fa.Nodes))
	}
	cond, ok := fa.Nodes[0].(*cfg.ConditionalNode)
	if !ok {
		t.Fatalf("expected node 0 to be ConditionalNode, got %T", fa.Nodes[0])
	}
	if !cond.IsLoop() {
		t.Error("expected conditional edge back to block 0 to be a loop")
	}
	if _, ok := fa.Nodes[1].(*cfg.ExitNode); !ok {
		t.Errorf("expected node 1 to be ExitNode, got %T", fa.Nodes[1])
	}
}

func TestAnalyze_UnconditionalBranchIsBasicNode(t *testing.T) {
	fn := buildFunction(t, `
glabel foo
b .L1
nop
.L1:
jr $ra
nop
`)
	blocks, err := cfg.BuildBlocks(fn)
	if err != nil {
		t.Fatalf("BuildBlocks error: %v", err)
	}
	fa, err := cfg.Analyze(blocks)
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	basic, ok := fa.Nodes[0].(*cfg.BasicNode)
	if !ok {
		t.Fatalf("expected BasicNode, got %T", fa.Nodes[0])
	}
	if basic.IsLoop() {
		t.Error("forward branch should not be a loop")
	}
}
