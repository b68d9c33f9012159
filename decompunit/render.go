package decompunit

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethteck/mips-to-c/cfg"
)

// Render produces the informational textual dump for fn: its flow
// analysis, stack-frame facts, and per-block lift traces, per spec.md §6.
func (f *Function) Render() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "function %s\n", f.Name)

	if f.Frame != nil {
		fmt.Fprintf(&sb, "  frame: leaf=%v stack_size=%d ra@%d locals>=%d\n",
			f.Frame.IsLeaf, f.Frame.AllocatedStackSize, f.Frame.ReturnAddrLocation, f.Frame.LocalVarsRegionBottom)
		if len(f.Frame.CalleeSaveRegLocs) > 0 {
			fmt.Fprintf(&sb, "  callee-saves:\n")
			for reg, off := range f.Frame.CalleeSaveRegLocs {
				fmt.Fprintf(&sb, "    %s @ %d\n", reg, off)
			}
		}
	}

	for _, b := range f.Blocks {
		fmt.Fprintf(&sb, "  %s", b.Block)
		if b.Node != nil {
			fmt.Fprintf(&sb, " loop=%v", cfg.IsLoop(b.Node))
		}
		sb.WriteByte('\n')
		if b.Result == nil {
			continue
		}
		for _, st := range b.Result.Stores {
			fmt.Fprintf(&sb, "    %s\n", st)
		}
		for _, t := range b.Result.Terminators {
			fmt.Fprintf(&sb, "    %s\n", t)
		}
	}

	return sb.String()
}

// jsonFunction is the stable shape Render's JSON sibling marshals to;
// the live Function holds unexported-interface Nodes that don't survive
// a direct json.Marshal.
type jsonFunction struct {
	Name   string            `json:"name"`
	Frame  *jsonFrame        `json:"frame,omitempty"`
	Blocks []jsonRenderBlock `json:"blocks"`
}

type jsonFrame struct {
	AllocatedStackSize    int64  `json:"allocated_stack_size"`
	IsLeaf                bool   `json:"is_leaf"`
	ReturnAddrLocation    int64  `json:"return_addr_location"`
	LocalVarsRegionBottom int64  `json:"local_vars_region_bottom"`
	CalleeSaveRegLocs     map[string]int64 `json:"callee_save_reg_locs,omitempty"`
}

type jsonRenderBlock struct {
	Index       int      `json:"index"`
	IsLoop      bool     `json:"is_loop"`
	Stores      []string `json:"stores,omitempty"`
	Terminators []string `json:"terminators,omitempty"`
}

// buildJSONFrame converts f.Frame to its JSON-stable shape, or nil if f
// has no frame info.
func buildJSONFrame(f *Function) *jsonFrame {
	if f.Frame == nil {
		return nil
	}
	jf := &jsonFrame{
		AllocatedStackSize:    f.Frame.AllocatedStackSize,
		IsLeaf:                f.Frame.IsLeaf,
		ReturnAddrLocation:    f.Frame.ReturnAddrLocation,
		LocalVarsRegionBottom: f.Frame.LocalVarsRegionBottom,
	}
	if len(f.Frame.CalleeSaveRegLocs) > 0 {
		jf.CalleeSaveRegLocs = make(map[string]int64, len(f.Frame.CalleeSaveRegLocs))
		for reg, off := range f.Frame.CalleeSaveRegLocs {
			jf.CalleeSaveRegLocs[reg.String()] = off
		}
	}
	return jf
}

// buildJSONBlocks converts f.Blocks to their JSON-stable shape. When
// withLift is false, the Stores/Terminators fields are left empty, for
// the CFG-only view.
func buildJSONBlocks(f *Function, withLift bool) []jsonRenderBlock {
	blocks := make([]jsonRenderBlock, 0, len(f.Blocks))
	for _, b := range f.Blocks {
		jb := jsonRenderBlock{Index: b.Block.Index}
		if b.Node != nil {
			jb.IsLoop = cfg.IsLoop(b.Node)
		}
		if withLift && b.Result != nil {
			for _, st := range b.Result.Stores {
				jb.Stores = append(jb.Stores, st.String())
			}
			for _, t := range b.Result.Terminators {
				jb.Terminators = append(jb.Terminators, t.String())
			}
		}
		blocks = append(blocks, jb)
	}
	return blocks
}

// RenderJSON is the `-format json` sibling of Render: the full combined
// view of a function (frame plus every block's CFG and lift facts).
func (f *Function) RenderJSON() ([]byte, error) {
	out := jsonFunction{
		Name:   f.Name,
		Frame:  buildJSONFrame(f),
		Blocks: buildJSONBlocks(f, true),
	}
	return json.MarshalIndent(out, "", "  ")
}

// CFGJSON renders just f's blocks and loop edges, without stack-frame or
// lift facts.
func (f *Function) CFGJSON() ([]byte, error) {
	return json.MarshalIndent(buildJSONBlocks(f, false), "", "  ")
}

// FrameJSON renders just f's stack-frame facts.
func (f *Function) FrameJSON() ([]byte, error) {
	return json.MarshalIndent(buildJSONFrame(f), "", "  ")
}

// LiftJSON renders just f's per-block lift traces (stores and terminators).
func (f *Function) LiftJSON() ([]byte, error) {
	return json.MarshalIndent(buildJSONBlocks(f, true), "", "  ")
}
