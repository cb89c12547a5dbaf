package framearena

import (
	"unsafe"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

const noBlock = -1

// blockTail links a block to its neighbours. Blocks are named by their index
// in the chain.
type blockTail struct {
	prev          int // noBlock for the first block
	prevBytesUsed int // bytes used in prev when the chain overflowed into this block
	prevEntries   int // entries in prev at the same moment
	next          int // set once, when a successor is appended
}

var tailSize = int(unsafe.Sizeof(blockTail{}))

// block is one fixed-size link of the chain. entries is allocated once at
// full length and never grown, so pointers into it stay valid until the
// chain is released.
type block[E any] struct {
	entries []E
	tail    blockTail
}

// position is a bump cursor into the chain.
type position struct {
	block int
	used  int // bytes consumed in block
	n     int // entries stored in block
}

// at reports whether p and q name the same slot.
func (p position) at(q position) bool {
	return p.block == q.block && p.n == q.n
}

// chain is the block storage shared by every cursor forked from one root.
type chain[E any] struct {
	blockSize int
	usable    int
	maxBlocks int
	entry     layout
	header    layout
	blocks    []*block[E]
	frames    *frameTable
	logger    log.Logger

	allocated int // blocks ever allocated
	freed     int // blocks released back to the host
}

func newChain[E any](blockSize int, entry layout, o options) *chain[E] {
	if err := checkBlockSize(blockSize, entry); err != nil {
		panic(err)
	}
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	c := &chain[E]{
		blockSize: blockSize,
		usable:    blockSize - tailSize,
		maxBlocks: o.maxBlocks,
		entry:     entry,
		header:    layoutOf[frameHeader](),
		frames:    &frameTable{},
		logger:    o.logger,
	}
	c.grow(blockTail{prev: noBlock, next: noBlock})
	return c
}

// grow appends a fresh block with the given tail and returns its index.
func (c *chain[E]) grow(tail blockTail) int {
	if c.maxBlocks > 0 && len(c.blocks) >= c.maxBlocks {
		fatalf(ErrBlockUnavailable, "chain already holds %d blocks", len(c.blocks))
	}
	b := &block[E]{
		entries: make([]E, c.usable/c.entry.size),
		tail:    tail,
	}
	c.blocks = append(c.blocks, b)
	c.allocated++
	idx := len(c.blocks) - 1
	level.Debug(c.logger).Log("msg", "allocated block", "block", idx, "prev", tail.prev, "prev_bytes_used", tail.prevBytesUsed, "block_size", c.blockSize)
	return idx
}

// ensureSpace reserves size bytes aligned to align at pos and returns the
// position just past them. pos.n is left alone when the space is found in the
// same block and reset to zero when it is found in a successor, so the
// caller's slot index is always the returned n.
func (c *chain[E]) ensureSpace(pos position, size, align int) position {
	pad := padding(pos.used, align)
	if pos.used+pad+size <= c.usable {
		pos.used += pad + size
		return pos
	}
	next := c.successor(pos)
	// A fresh block starts aligned for every element type.
	return position{block: next, used: size}
}

// successor returns the block after pos.block, appending one if the chain
// ends there. The successor's backward link is pointed at pos, since a
// reused block may have been entered from a different position last time.
func (c *chain[E]) successor(pos position) int {
	tail := &c.blocks[pos.block].tail
	if tail.next == noBlock {
		tail.next = c.grow(blockTail{
			prev:          pos.block,
			prevBytesUsed: pos.used,
			prevEntries:   pos.n,
			next:          noBlock,
		})
		return tail.next
	}
	nt := &c.blocks[tail.next].tail
	nt.prevBytesUsed = pos.used
	nt.prevEntries = pos.n
	return tail.next
}

// predecessor returns the position at which pos.block was entered.
func (c *chain[E]) predecessor(pos position) position {
	tail := c.blocks[pos.block].tail
	if tail.prev == noBlock {
		fatalf(ErrCorrupt, "walked back past the first block")
	}
	return position{block: tail.prev, used: tail.prevBytesUsed, n: tail.prevEntries}
}

// slot returns the entry at pos, which must be inside a block.
func (c *chain[E]) slot(pos position) *E {
	return &c.blocks[pos.block].entries[pos.n]
}

// release walks the chain forward from the first block and hands every
// block back to the host.
func (c *chain[E]) release() {
	for idx := 0; idx != noBlock; {
		b := c.blocks[idx]
		clear(b.entries)
		b.entries = nil
		c.blocks[idx] = nil
		c.freed++
		idx = b.tail.next
	}
	level.Debug(c.logger).Log("msg", "released chain", "blocks", c.freed)
	c.blocks = nil
	c.frames.released = true
}
