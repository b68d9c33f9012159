package operand_test

import (
	"testing"

	"github.com/ethteck/mips-to-c/operand"
)

func TestParse_Register(t *testing.T) {
	arg, err := operand.Parse("$v0")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	reg, ok := arg.(operand.Register)
	if !ok {
		t.Fatalf("expected Register, got %T", arg)
	}
	if reg.Name != "v0" {
		t.Errorf("expected name v0, got %q", reg.Name)
	}
}

func TestParse_CalleeSave(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"s0", true},
		{"s7", true},
		{"s8", false},
		{"v0", false},
		{"sp", false},
	}
	for _, tt := range tests {
		reg := operand.Register{Name: tt.name}
		if got := reg.IsCalleeSave(); got != tt.want {
			t.Errorf("Register{%q}.IsCalleeSave() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestParse_AddressModeNegativeHex(t *testing.T) {
	arg, err := operand.Parse("-0x10($sp)")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	am, ok := arg.(operand.AddressMode)
	if !ok {
		t.Fatalf("expected AddressMode, got %T", arg)
	}
	lit, ok := am.Lhs.(operand.NumberLiteral)
	if !ok || lit.Value != -16 {
		t.Errorf("expected lhs -16, got %#v", am.Lhs)
	}
	reg, ok := am.Rhs.(operand.Register)
	if !ok || reg.Name != "sp" {
		t.Errorf("expected rhs $sp, got %#v", am.Rhs)
	}
}

func TestParse_MacroAddressMode(t *testing.T) {
	arg, err := operand.Parse("%lo(foo)($v0)")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	am, ok := arg.(operand.AddressMode)
	if !ok {
		t.Fatalf("expected AddressMode, got %T", arg)
	}
	macro, ok := am.Lhs.(operand.Macro)
	if !ok || macro.Name != "lo" {
		t.Errorf("expected macro lo(...), got %#v", am.Lhs)
	}
	sym, ok := macro.Inner.(operand.GlobalSymbol)
	if !ok || sym.Name != "foo" {
		t.Errorf("expected inner symbol foo, got %#v", macro.Inner)
	}
}

func TestParse_BinOpShift(t *testing.T) {
	arg, err := operand.Parse("foo >> 16")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	bo, ok := arg.(operand.BinOp)
	if !ok {
		t.Fatalf("expected BinOp, got %T", arg)
	}
	if bo.Op != ">>" {
		t.Errorf("expected op >>, got %q", bo.Op)
	}
	sym, ok := bo.Lhs.(operand.GlobalSymbol)
	if !ok || sym.Name != "foo" {
		t.Errorf("expected lhs symbol foo, got %#v", bo.Lhs)
	}
	lit, ok := bo.Rhs.(operand.NumberLiteral)
	if !ok || lit.Value != 16 {
		t.Errorf("expected rhs 16, got %#v", bo.Rhs)
	}
}

func TestParse_BinOpAndMask(t *testing.T) {
	arg, err := operand.Parse("foo & 0xFFFF")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	bo, ok := arg.(operand.BinOp)
	if !ok || bo.Op != "&" {
		t.Fatalf("expected BinOp &, got %#v", arg)
	}
	lit, ok := bo.Rhs.(operand.NumberLiteral)
	if !ok || lit.Value != 0xFFFF {
		t.Errorf("expected rhs 0xFFFF, got %#v", bo.Rhs)
	}
}

func TestParse_JumpTarget(t *testing.T) {
	arg, err := operand.Parse(".L1")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	jt, ok := arg.(operand.JumpTarget)
	if !ok || jt.Name != "L1" {
		t.Errorf("expected JumpTarget L1, got %#v", arg)
	}
}

func TestParse_Empty(t *testing.T) {
	arg, err := operand.Parse("   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if arg != nil {
		t.Errorf("expected nil argument for empty input, got %#v", arg)
	}
}

func TestParse_UnexpectedToken(t *testing.T) {
	if _, err := operand.Parse("$v0)"); err == nil {
		t.Fatal("expected parse error for stray close paren")
	}
}

func TestParse_RoundTripString(t *testing.T) {
	tests := []string{"$v0", "foo", ".L1", "0x10"}
	for _, s := range tests {
		arg, err := operand.Parse(s)
		if err != nil {
			t.Fatalf("parse(%q) error: %v", s, err)
		}
		if got := arg.String(); got != s {
			t.Errorf("round-trip %q: got %q", s, got)
		}
	}
}
