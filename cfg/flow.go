package cfg

import (
	"fmt"
	"sort"

	"github.com/ethteck/mips-to-c/asmfile"
	"github.com/ethteck/mips-to-c/diag"
	"github.com/ethteck/mips-to-c/operand"
)

// Node is the closed sum type attached to a Block: BasicNode,
// ConditionalNode, or ExitNode.
type Node interface {
	block() *Block
	isNode()
}

// BasicNode has a single unconditional successor.
type BasicNode struct {
	Block    *Block
	ExitEdge Node
}

func (n *BasicNode) block() *Block { return n.Block }
func (*BasicNode) isNode()         {}

// IsLoop reports whether ExitEdge is a back-edge (spec.md §4.4).
func (n *BasicNode) IsLoop() bool { return IsLoopEdge(n, n.ExitEdge) }

// ConditionalNode has a taken edge and a fallthrough edge.
type ConditionalNode struct {
	Block           *Block
	ConditionalEdge Node
	FallthroughEdge Node
}

func (n *ConditionalNode) block() *Block { return n.Block }
func (*ConditionalNode) isNode()         {}

// IsLoop reports whether ConditionalEdge is a back-edge. The fallthrough
// edge is never considered a loop edge (spec.md §4.4).
func (n *ConditionalNode) IsLoop() bool { return IsLoopEdge(n, n.ConditionalEdge) }

// ExitNode has no successors; it is always the highest-indexed block.
type ExitNode struct {
	Block *Block
}

func (n *ExitNode) block() *Block { return n.Block }
func (*ExitNode) isNode()         {}

// IsLoop reports whether n's exit edge (conditional or unconditional) is
// a back-edge. ExitNode has no outgoing edge and is never a loop.
func IsLoop(n Node) bool {
	switch v := n.(type) {
	case *BasicNode:
		return v.IsLoop()
	case *ConditionalNode:
		return v.IsLoop()
	default:
		return false
	}
}

// IsLoopEdge reports whether an edge from from to to is a back-edge:
// to's block index is lower than or equal to from's (spec.md §4.4,
// invariant 4). Equal indices cover a single block branching to itself
// (e.g. ".L1: addiu $v0,$v0,-1; bne $v0,$zero,.L1"), which is a backward
// branch even though there is only one block on the cycle.
func IsLoopEdge(from, to Node) bool {
	return to.block().Index <= from.block().Index
}

// FlowAnalysis holds every Node of a Function's CFG, sorted by block index.
type FlowAnalysis struct {
	Nodes []Node
}

// Analyze builds a Node for every block, wiring successor edges and
// memoising by block index so the recursion terminates on back-edges
// (spec.md §4.4, §9 "arena indexed by block index").
func Analyze(blocks []*Block) (*FlowAnalysis, error) {
	if len(blocks) == 0 {
		return &FlowAnalysis{}, nil
	}

	byLabel := make(map[string]*Block, len(blocks))
	for _, b := range blocks {
		if b.Label != nil {
			byLabel[b.Label.Name] = b
		}
	}

	memo := make(map[int]Node, len(blocks))

	exitBlock := blocks[len(blocks)-1]
	exitNode := &ExitNode{Block: exitBlock}
	memo[exitBlock.Index] = exitNode

	var analyze func(b *Block) (Node, error)
	analyze = func(b *Block) (Node, error) {
		if n, ok := memo[b.Index]; ok {
			return n, nil
		}

		var branches []asmfile.Instruction
		for _, inst := range b.Instructions {
			if inst.IsBranchInstruction() {
				branches = append(branches, inst)
			}
		}

		switch len(branches) {
		case 0:
			if b.Index+1 >= len(blocks) {
				return nil, diag.NewError(diag.Position{}, diag.StageFlow,
					fmt.Sprintf("block %d has no branch and no successor block", b.Index))
			}
			node := &BasicNode{Block: b}
			memo[b.Index] = node
			succ, err := analyze(blocks[b.Index+1])
			if err != nil {
				return nil, err
			}
			node.ExitEdge = succ
			return node, nil

		case 1:
			branch := branches[0]
			if len(branch.Args) == 0 {
				return nil, diag.NewError(diag.Position{}, diag.StageFlow,
					fmt.Sprintf("branch %q in block %d has no target", branch.Mnemonic, b.Index))
			}
			jt, ok := branch.Args[len(branch.Args)-1].(operand.JumpTarget)
			if !ok {
				return nil, diag.NewError(diag.Position{}, diag.StageFlow,
					fmt.Sprintf("branch %q in block %d has a non-label last argument", branch.Mnemonic, b.Index))
			}
			branchBlock, ok := byLabel[jt.Name]
			if !ok {
				return nil, diag.NewError(diag.Position{}, diag.StageFlow,
					fmt.Sprintf("branch target .%s in block %d does not resolve to any block", jt.Name, b.Index))
			}

			if branch.Mnemonic == "b" {
				// Memoise before recursing: if this unconditional branch
				// targets its own block, the recursive analyze(branchBlock)
				// call below must find this node already memoised instead
				// of recursing forever.
				node := &BasicNode{Block: b}
				memo[b.Index] = node
				branchNode, err := analyze(branchBlock)
				if err != nil {
					return nil, err
				}
				node.ExitEdge = branchNode
				return node, nil
			}

			if b.Index+1 >= len(blocks) {
				return nil, diag.NewError(diag.Position{}, diag.StageFlow,
					fmt.Sprintf("conditional branch in block %d has no fallthrough block", b.Index))
			}
			node := &ConditionalNode{Block: b}
			memo[b.Index] = node
			branchNode, err := analyze(branchBlock)
			if err != nil {
				return nil, err
			}
			node.ConditionalEdge = branchNode
			fallthroughNode, err := analyze(blocks[b.Index+1])
			if err != nil {
				return nil, err
			}
			node.FallthroughEdge = fallthroughNode
			return node, nil

		default:
			return nil, diag.NewError(diag.Position{}, diag.StageFlow,
				fmt.Sprintf("block %d has more than one branch instruction", b.Index))
		}
	}

	if _, err := analyze(blocks[0]); err != nil {
		return nil, err
	}

	nodes := make([]Node, 0, len(memo))
	for _, n := range memo {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].block().Index < nodes[j].block().Index })

	return &FlowAnalysis{Nodes: nodes}, nil
}
