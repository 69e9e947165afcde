// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package huffman

import (
	"container/heap"
	"fmt"

	"github.com/bureau-foundation/genomeencode/lib/sequence"
)

// node is one entry in the tree arena. Leaves have left == right == -1.
type node struct {
	weight int
	// order is the tie-break key: first-seen rank for leaves,
	// distinct-symbol count plus creation index for internal nodes,
	// so every node has a unique key.
	order  int
	symbol byte
	left   int32
	right  int32
}

// Build constructs the code table for seq from its own symbol
// frequencies. An empty seq yields an empty table.
func Build(seq []byte) (*Table, error) {
	return BuildFromFrequencies(sequence.Count(seq))
}

// BuildFromFrequencies constructs a code table from precomputed
// frequencies, for callers that already counted the sequence.
func BuildFromFrequencies(frequencies *sequence.Frequencies) (*Table, error) {
	lengths, err := codeLengths(frequencies)
	if err != nil {
		return nil, err
	}
	return NewTable(lengths)
}

// codeLengths builds the Huffman tree and returns the depth of each
// leaf. The tree is scoped to this call.
func codeLengths(frequencies *sequence.Frequencies) ([]SymbolLength, error) {
	symbols := frequencies.Symbols()
	switch len(symbols) {
	case 0:
		return nil, nil
	case 1:
		return []SymbolLength{{Symbol: symbols[0], Length: 1}}, nil
	}

	arena := make([]node, 0, 2*len(symbols)-1)
	for rank, symbol := range symbols {
		arena = append(arena, node{
			weight: frequencies.Of(symbol),
			order:  rank,
			symbol: symbol,
			left:   -1,
			right:  -1,
		})
	}

	queue := &weightHeap{arena: &arena}
	for i := range arena {
		queue.items = append(queue.items, int32(i))
	}
	heap.Init(queue)

	for queue.Len() > 1 {
		left := heap.Pop(queue).(int32)
		right := heap.Pop(queue).(int32)
		arena = append(arena, node{
			weight: arena[left].weight + arena[right].weight,
			order:  len(arena),
			left:   left,
			right:  right,
		})
		heap.Push(queue, int32(len(arena)-1))
	}
	root := heap.Pop(queue).(int32)

	// Walk the tree iteratively; depth of a leaf is its code length.
	type frame struct {
		index int32
		depth int
	}
	lengths := make([]SymbolLength, 0, len(symbols))
	stack := []frame{{index: root, depth: 0}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		current := arena[top.index]
		if current.left < 0 {
			if top.depth > MaxCodeLength {
				return nil, fmt.Errorf("%w: symbol %q needs %d bits (max %d)",
					ErrCodeTooLong, current.symbol, top.depth, MaxCodeLength)
			}
			lengths = append(lengths, SymbolLength{Symbol: current.symbol, Length: uint8(top.depth)})
			continue
		}
		stack = append(stack,
			frame{index: current.right, depth: top.depth + 1},
			frame{index: current.left, depth: top.depth + 1},
		)
	}
	return lengths, nil
}

// weightHeap is a min-heap of arena indices ordered by (weight, order).
type weightHeap struct {
	arena *[]node
	items []int32
}

func (h *weightHeap) Len() int { return len(h.items) }

func (h *weightHeap) Less(i, j int) bool {
	a, b := (*h.arena)[h.items[i]], (*h.arena)[h.items[j]]
	if a.weight != b.weight {
		return a.weight < b.weight
	}
	return a.order < b.order
}

func (h *weightHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *weightHeap) Push(x any) { h.items = append(h.items, x.(int32)) }

func (h *weightHeap) Pop() any {
	last := len(h.items) - 1
	x := h.items[last]
	h.items = h.items[:last]
	return x
}

var _ heap.Interface = (*weightHeap)(nil)
