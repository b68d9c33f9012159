package asmfile_test

import (
	"strings"
	"testing"

	"github.com/ethteck/mips-to-c/asmfile"
)

func TestAssemble_SimpleFunction(t *testing.T) {
	src := `
glabel foo
/* comment */ addiu $sp, $sp, -0x20
.L1:
  sw $ra, 0x1c($sp)
  jr $ra
  nop
`
	program, bag, err := asmfile.Assemble(strings.NewReader(src), "test.s")
	if err != nil {
		t.Fatalf("assemble error: %v", err)
	}
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Errors)
	}
	if len(program.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(program.Functions))
	}
	fn := program.Functions[0]
	if fn.Name != "foo" {
		t.Errorf("expected function name foo, got %q", fn.Name)
	}

	var labels, insts int
	for _, item := range fn.Body {
		switch item.(type) {
		case asmfile.Label:
			labels++
		case asmfile.Instruction:
			insts++
		}
	}
	if labels != 1 {
		t.Errorf("expected 1 label, got %d", labels)
	}
	if insts != 4 {
		t.Errorf("expected 4 instructions, got %d", insts)
	}
}

func TestAssemble_DirectiveIgnored(t *testing.T) {
	src := `
glabel foo
.align 2
addiu $sp, $sp, -0x10
`
	program, _, err := asmfile.Assemble(strings.NewReader(src), "test.s")
	if err != nil {
		t.Fatalf("assemble error: %v", err)
	}
	fn := program.Functions[0]
	if len(fn.Body) != 1 {
		t.Fatalf("expected directive to be skipped, body = %#v", fn.Body)
	}
}

func TestAssemble_InstructionOutsideFunction(t *testing.T) {
	src := `addiu $sp, $sp, -0x10`
	_, _, err := asmfile.Assemble(strings.NewReader(src), "test.s")
	if err == nil {
		t.Fatal("expected error for instruction outside of any function")
	}
}

func TestAssemble_MultipleFunctions(t *testing.T) {
	src := `
glabel foo
jr $ra
nop

glabel bar
jr $ra
nop
`
	program, _, err := asmfile.Assemble(strings.NewReader(src), "test.s")
	if err != nil {
		t.Fatalf("assemble error: %v", err)
	}
	if len(program.Functions) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(program.Functions))
	}
	if program.Functions[0].Name != "foo" || program.Functions[1].Name != "bar" {
		t.Errorf("unexpected function names: %q, %q", program.Functions[0].Name, program.Functions[1].Name)
	}
}
