package frame_test

import (
	"strings"
	"testing"

	"github.com/ethteck/mips-to-c/asmfile"
	"github.com/ethteck/mips-to-c/cfg"
	"github.com/ethteck/mips-to-c/frame"
	"github.com/ethteck/mips-to-c/operand"
)

func entryBlock(t *testing.T, src string) *cfg.Block {
	t.Helper()
	program, bag, err := asmfile.Assemble(strings.NewReader(src), "test.s")
	if err != nil {
		t.Fatalf("assemble error: %v", err)
	}
	if bag.HasErrors() {
		t.Fatalf("assemble errors: %v", bag.Errors)
	}
	blocks, err := cfg.BuildBlocks(program.Functions[0])
	if err != nil {
		t.Fatalf("BuildBlocks error: %v", err)
	}
	return blocks[0]
}

func TestAnalyze_NonLeafWithCalleeSave(t *testing.T) {
	entry := entryBlock(t, `
glabel foo
addiu $sp, $sp, -0x30
sw $ra, 0x1c($sp)
sw $s0, 0x18($sp)
jr $ra
nop
`)
	info, err := frame.Analyze(entry)
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if info.AllocatedStackSize != 48 {
		t.Errorf("expected allocated size 48, got %d", info.AllocatedStackSize)
	}
	if info.IsLeaf {
		t.Error("expected non-leaf")
	}
	if info.ReturnAddrLocation != 28 {
		t.Errorf("expected return addr location 28, got %d", info.ReturnAddrLocation)
	}
	s0 := operand.Register{Name: "s0"}
	if loc, ok := info.CalleeSaveRegLocs[s0]; !ok || loc != 24 {
		t.Errorf("expected s0 at 24, got %d (ok=%v)", loc, ok)
	}
	if info.LocalVarsRegionBottom != 32 {
		t.Errorf("expected local vars region bottom 32, got %d", info.LocalVarsRegionBottom)
	}
	if !info.InLocalVarRegion(info.LocalVarsRegionBottom) {
		t.Error("expected InLocalVarRegion(bottom) true when bottom < allocated size")
	}
}

func TestAnalyze_SaveRaNotSPRelativeIsFatal(t *testing.T) {
	entry := entryBlock(t, `
glabel foo
addiu $sp, $sp, -0x20
sw $ra, 0x1c($s0)
jr $ra
nop
`)
	if _, err := frame.Analyze(entry); err == nil {
		t.Fatal("expected Analyze to return an error for a non-sp-relative ra save")
	}
}

func TestAnalyze_LeafNoCalleeSave(t *testing.T) {
	entry := entryBlock(t, `
glabel foo
addiu $sp, $sp, -0x10
jr $ra
nop
`)
	info, err := frame.Analyze(entry)
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if !info.IsLeaf {
		t.Error("expected leaf")
	}
	if info.LocalVarsRegionBottom != 0 {
		t.Errorf("expected local vars region bottom 0, got %d", info.LocalVarsRegionBottom)
	}
}
