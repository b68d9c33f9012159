// Package decompunit wires package asmfile, cfg, frame, and lift together
// into a single per-function decompilation pass, mirroring the teacher's
// main.go/loader.go top-level orchestration.
package decompunit

import (
	"fmt"
	"io"

	"github.com/ethteck/mips-to-c/asmfile"
	"github.com/ethteck/mips-to-c/cfg"
	"github.com/ethteck/mips-to-c/config"
	"github.com/ethteck/mips-to-c/diag"
	"github.com/ethteck/mips-to-c/frame"
	"github.com/ethteck/mips-to-c/lift"
)

// Block is the fully-analyzed form of one cfg.Block: its Node in the flow
// graph plus whatever the lifter produced for it (nil if lifting failed;
// see Diagnostics for the corresponding warning).
type Block struct {
	Block  *cfg.Block
	Node   cfg.Node
	Result *lift.Result
}

// Function is one decompiled function: its blocks, its entry frame, and
// the final register state reached by walking blocks in index order
// (spec.md §7: lifting never looks back across blocks, so this is simply
// whatever the last block left behind, not a converged dataflow result).
type Function struct {
	Name     string
	Blocks   []*Block
	Flow     *cfg.FlowAnalysis
	Frame    *frame.Info
	Registers lift.RegisterFile
}

// Result is the output of decompiling one assembly file: every function
// reached, plus the diagnostics collected along the way.
type Result struct {
	Filename    string
	Functions   []*Function
	Diagnostics *diag.Bag
}

// Decompile runs C1 through C7 over every function in r, per spec.md §1's
// pipeline. A fatal error (parse failure, malformed control flow) stops
// the whole run; a per-block lift failure is recorded as a diag.Warning
// and that block's Result is left nil, matching the original's
// catch-and-continue behavior (spec.md §7).
func Decompile(filename string, r io.Reader, cfg_ *config.Config) (*Result, error) {
	program, bag, err := asmfile.Assemble(r, filename)
	if err != nil {
		return nil, err
	}

	result := &Result{Filename: filename, Diagnostics: bag}

	for _, fn := range program.Functions {
		decoded, err := decompileFunction(fn, cfg_, bag)
		if err != nil {
			return nil, err
		}
		result.Functions = append(result.Functions, decoded)
	}

	return result, nil
}

func decompileFunction(fn *asmfile.Function, cfg_ *config.Config, bag *diag.Bag) (*Function, error) {
	blocks, err := cfg.BuildBlocks(fn)
	if err != nil {
		return nil, err
	}

	flowAnalysis, err := cfg.Analyze(blocks)
	if err != nil {
		return nil, err
	}

	nodeByIndex := make(map[int]cfg.Node, len(flowAnalysis.Nodes))
	for _, n := range flowAnalysis.Nodes {
		nodeByIndex[blockIndex(n)] = n
	}

	var frameInfo *frame.Info
	if len(blocks) > 0 {
		frameInfo, err = frame.Analyze(blocks[0])
		if err != nil {
			return nil, err
		}
	}

	regs := lift.NewRegisterFile()
	opts := lift.Options{}
	if cfg_ != nil {
		opts.ExtraAliases = cfg_.Lift.ExtraAliases
	}

	out := &Function{Name: fn.Name, Flow: flowAnalysis, Frame: frameInfo}

	for i, b := range blocks {
		// The entry block's stack-setup instructions are consumed by
		// frame.Analyze above and never fed through the lifter: it is
		// prologue bookkeeping, not program behavior.
		if i == 0 {
			out.Blocks = append(out.Blocks, &Block{Block: b, Node: nodeByIndex[b.Index]})
			continue
		}

		res, err := lift.Block(b, regs, opts)
		if err != nil {
			bag.AddWarning(&diag.Warning{
				Pos:     diag.Position{Filename: fn.Name, Line: 0},
				Stage:   diag.StageLift,
				Message: fmt.Sprintf("block %d: %v", b.Index, err),
			})
			out.Blocks = append(out.Blocks, &Block{Block: b, Node: nodeByIndex[b.Index]})
			continue
		}
		out.Blocks = append(out.Blocks, &Block{Block: b, Node: nodeByIndex[b.Index], Result: res})
	}

	out.Registers = regs
	return out, nil
}

func blockIndex(n cfg.Node) int {
	switch v := n.(type) {
	case *cfg.BasicNode:
		return v.Block.Index
	case *cfg.ConditionalNode:
		return v.Block.Index
	case *cfg.ExitNode:
		return v.Block.Index
	default:
		return -1
	}
}
