// Package huffman 数据闪存读取使用的静态 Huffman 编码
//
// 码表由 256 个字节值的频率模型构造，码长不超过 16 位，码字按高位对齐存放；
// 编码器直接向调用方给定的输出窗口逐位写入，窗口写满即停止。
package huffman

import (
	"container/heap"
	"errors"
	"fmt"
	"sort"
)

// MaxCodeLen 最大码长
const MaxCodeLen = 16

var (
	// ErrOverflow 输出窗口已满
	ErrOverflow = errors.New("huffman: output full")
	// ErrCorrupt 位流中出现码表外的码字
	ErrCorrupt = errors.New("huffman: invalid code")
	// ErrShortInput 位流在解出足够符号前结束
	ErrShortInput = errors.New("huffman: short input")
)

// Code 单个字节值的码字（Bits 高位对齐）
type Code struct {
	Len  uint8
	Bits uint16
}

// Table 编码/解码表
type Table struct {
	codes  [256]Code
	decode map[uint32]byte
}

// Code 返回字节值 b 的码字
func (t *Table) Code(b byte) Code { return t.codes[b] }

// NewTable 由频率模型构造范式 Huffman 码表，频率为 0 的符号按 1 计
func NewTable(freq [256]uint32) (*Table, error) {
	weights := make([]uint64, 256)
	for i, f := range freq {
		weights[i] = uint64(f)
		if weights[i] == 0 {
			weights[i] = 1
		}
	}

	var lens [256]uint8
	for round := 0; ; round++ {
		if round > 32 {
			return nil, fmt.Errorf("huffman: cannot limit code length to %d bits", MaxCodeLen)
		}
		lens = codeLengths(weights)
		if maxLen(lens) <= MaxCodeLen {
			break
		}
		// 压平分布后重建
		for i := range weights {
			weights[i] = weights[i]/2 + 1
		}
	}
	return canonical(lens), nil
}

func maxLen(lens [256]uint8) uint8 {
	var m uint8
	for _, l := range lens {
		if l > m {
			m = l
		}
	}
	return m
}

// canonical 按 (码长, 符号) 顺序分配范式码字
func canonical(lens [256]uint8) *Table {
	syms := make([]int, 256)
	for i := range syms {
		syms[i] = i
	}
	sort.SliceStable(syms, func(a, b int) bool {
		return lens[syms[a]] < lens[syms[b]]
	})

	t := &Table{decode: make(map[uint32]byte, 256)}
	var code uint32
	var prev uint8
	for i, s := range syms {
		l := lens[s]
		if i > 0 {
			code = (code + 1) << (l - prev)
		}
		prev = l
		t.codes[s] = Code{Len: l, Bits: uint16(code << (MaxCodeLen - l))}
		t.decode[decodeKey(l, code)] = byte(s)
	}
	return t
}

func decodeKey(l uint8, code uint32) uint32 { return uint32(l)<<16 | code }

type node struct {
	weight uint64
	order  int
	sym    int
	left   *node
	right  *node
}

type nodeHeap []*node

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].weight != h[j].weight {
		return h[i].weight < h[j].weight
	}
	return h[i].order < h[j].order
}
func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x any)   { *h = append(*h, x.(*node)) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := old[len(old)-1]
	*h = old[:len(old)-1]
	return n
}

func codeLengths(weights []uint64) [256]uint8 {
	h := make(nodeHeap, 0, len(weights))
	for i, w := range weights {
		h = append(h, &node{weight: w, order: i, sym: i})
	}
	heap.Init(&h)
	order := len(weights)
	for h.Len() > 1 {
		a := heap.Pop(&h).(*node)
		b := heap.Pop(&h).(*node)
		heap.Push(&h, &node{weight: a.weight + b.weight, order: order, sym: -1, left: a, right: b})
		order++
	}

	var lens [256]uint8
	var walk func(n *node, depth uint8)
	walk = func(n *node, depth uint8) {
		if n.sym >= 0 {
			if depth == 0 {
				depth = 1
			}
			lens[n.sym] = depth
			return
		}
		walk(n.left, depth+1)
		walk(n.right, depth+1)
	}
	walk(h[0], 0)
	return lens
}
