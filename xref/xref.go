// Package xref builds a cross-reference report over a decompiled
// *decompunit.Result: which functions call which via jal, and which call
// targets never resolve to a parsed function, grounded on the teacher's
// tools/xref.go symbol cross-referencer.
package xref

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ethteck/mips-to-c/decompunit"
	"github.com/ethteck/mips-to-c/ir"
	"github.com/ethteck/mips-to-c/operand"
)

// Symbol is one function name and everywhere it is called from.
type Symbol struct {
	Name       string
	Defined    bool
	CalledFrom []Call
}

// Call is one call site: the caller function and the block index it's in.
type Call struct {
	Caller     string
	BlockIndex int
}

// Report is a cross-reference over one decompiled Result's call graph.
type Report struct {
	Symbols map[string]*Symbol
}

// Build walks every function's lifted terminators looking for ir.Call
// nodes, grouping them by callee name (spec.md §4.6's jal handling).
// Calls whose target isn't a GlobalSymbol (e.g. an unresolved register
// target) are skipped, matching the teacher's isRegisterOperand guard.
func Build(result *decompunit.Result) *Report {
	defined := make(map[string]bool, len(result.Functions))
	for _, fn := range result.Functions {
		defined[fn.Name] = true
	}

	symbols := make(map[string]*Symbol)
	ensure := func(name string) *Symbol {
		if sym, ok := symbols[name]; ok {
			return sym
		}
		sym := &Symbol{Name: name, Defined: defined[name]}
		symbols[name] = sym
		return sym
	}

	for _, fn := range result.Functions {
		for _, b := range fn.Blocks {
			if b.Result == nil {
				continue
			}
			for _, t := range b.Result.Terminators {
				call, ok := t.(ir.Call)
				if !ok {
					continue
				}
				target, ok := call.Target.(operand.GlobalSymbol)
				if !ok {
					continue
				}
				sym := ensure(target.Name)
				sym.CalledFrom = append(sym.CalledFrom, Call{Caller: fn.Name, BlockIndex: b.Block.Index})
			}
		}
	}

	return &Report{Symbols: symbols}
}

// Undefined returns every called symbol that never appears among the
// decompiled functions, sorted by name.
func (r *Report) Undefined() []*Symbol {
	var out []*Symbol
	for _, sym := range r.Symbols {
		if !sym.Defined {
			out = append(out, sym)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// String renders the report, one symbol per paragraph, sorted by name.
func (r *Report) String() string {
	names := make([]string, 0, len(r.Symbols))
	for name := range r.Symbols {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("Call Cross-Reference\n")
	sb.WriteString("=====================\n\n")

	for _, name := range names {
		sym := r.Symbols[name]
		status := "defined"
		if !sym.Defined {
			status = "undefined"
		}
		fmt.Fprintf(&sb, "%-30s [%s]\n", sym.Name, status)
		for _, call := range sym.CalledFrom {
			fmt.Fprintf(&sb, "  called from %s, block %d\n", call.Caller, call.BlockIndex)
		}
		sb.WriteByte('\n')
	}

	fmt.Fprintf(&sb, "Summary\n=======\nTotal callees: %d\nUndefined: %d\n",
		len(r.Symbols), len(r.Undefined()))

	return sb.String()
}
