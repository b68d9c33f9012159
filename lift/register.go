// Package lift translates a block's instructions into IR nodes against a
// symbolic register file, per spec.md §4.6.
package lift

import (
	"github.com/ethteck/mips-to-c/ir"
	"github.com/ethteck/mips-to-c/operand"
)

// RegisterFile is a symbolic register map, spec.md §3. Block reads and
// mutates it in place; decompunit shares one RegisterFile across all of a
// function's blocks, lifting them in index order.
type RegisterFile map[operand.Register]ir.Expr

// NewRegisterFile returns a fresh register file with $zero bound to 0,
// per spec.md §3 and testable property 6.
func NewRegisterFile() RegisterFile {
	return RegisterFile{
		{Name: "zero"}: operand.NumberLiteral{Value: 0},
	}
}

// Get returns the current value bound to reg, or nil if unbound.
func (r RegisterFile) Get(reg operand.Register) ir.Expr { return r[reg] }

// Set binds reg to expr.
func (r RegisterFile) Set(reg operand.Register, expr ir.Expr) { r[reg] = expr }
