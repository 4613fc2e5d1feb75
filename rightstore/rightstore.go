// Package rightstore accumulates the right side of a merge join as a list
// of sorted blocks, enforces size limits on the accumulated rows/bytes, and
// finalizes the accumulated blocks into bounded, globally sorted runs via a
// streaming k-way merge.
package rightstore

import (
	"container/heap"
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/kasuganosora/mergejoin/column"
	"github.com/kasuganosora/mergejoin/joinerr"
	"github.com/kasuganosora/mergejoin/joinspec"
)

// Store owns the right side's accumulated blocks exclusively until
// Finalize runs; after that, Blocks returns an immutable view.
type Store struct {
	runID string

	sortDesc     column.SortDescription
	keyNames     []string
	maxRowsBlock int
	limits       joinspec.SizeLimits

	mu     sync.RWMutex
	blocks []*column.Block
	rows   int
	bytes  int64

	finalizeOnce sync.Once
	finalized    []*column.Block
	finalizeErr  error
}

// New builds a Store from a validated join plan.
func New(plan *joinspec.Plan) *Store {
	desc := make(column.SortDescription, len(plan.RightSortDescription))
	for i, name := range plan.RightSortDescription {
		desc[i] = column.SortColumn{Name: name}
	}
	return &Store{
		runID:        uuid.NewString(),
		sortDesc:     desc,
		keyNames:     plan.RightMergeDescription,
		maxRowsBlock: plan.Spec.MaxRowsInRightBlock,
		limits:       plan.Spec.SizeLimits,
	}
}

// RunID identifies this store instance, surfaced in error messages so a
// caller running many concurrent joins can correlate a failure back to the
// store that produced it.
func (s *Store) RunID() string { return s.runID }

// Add materializes constants, strips LowCardinality, sorts block in place
// by the right-key sort description, and appends it to the accumulated
// list. Returns false without error in BREAK mode once the configured
// limits are reached (truncating block if it would only partially fit);
// returns a *joinerr.SetSizeLimitExceeded in THROW mode.
func (s *Store) Add(ctx context.Context, block *column.Block) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	column.MaterializeBlock(block)
	if err := column.SortBlock(block, s.sortDesc); err != nil {
		return false, joinerr.NewLogicalError(s.runID, err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := block.Rows()
	sz := estimateBytes(block)

	roomRows := n
	if s.limits.MaxRows > 0 {
		roomRows = s.limits.MaxRows - s.rows
	}
	roomBytes := sz
	if s.limits.MaxBytes > 0 {
		roomBytes = s.limits.MaxBytes - s.bytes
	}

	overflow := (s.limits.MaxRows > 0 && roomRows < n) || (s.limits.MaxBytes > 0 && roomBytes < sz)
	if !overflow {
		s.blocks = append(s.blocks, block)
		s.rows += n
		s.bytes += sz
		return true, nil
	}

	if s.limits.OverflowMode == joinspec.Throw {
		return false, joinerr.NewSetSizeLimitExceeded(s.runID, s.rows+n, s.bytes+sz, s.limits.MaxRows, s.limits.MaxBytes)
	}

	// BREAK mode: take as much of block as still fits, by row count, and
	// silently drop the rest.
	fit := n
	if s.limits.MaxRows > 0 && roomRows < fit {
		fit = roomRows
	}
	if fit > 0 {
		partial := truncateBlock(block, fit)
		if s.limits.MaxBytes == 0 || s.bytes+estimateBytes(partial) <= s.limits.MaxBytes {
			s.blocks = append(s.blocks, partial)
			s.rows += partial.Rows()
			s.bytes += estimateBytes(partial)
		}
	}
	return false, nil
}

// Finalize merges the accumulated blocks into runs of at most
// max_rows_in_right_block rows each, via a streaming k-way merge over the
// already individually-sorted blocks. Safe to call more than once: later
// calls return the first call's result.
func (s *Store) Finalize() error {
	s.finalizeOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.finalized, s.finalizeErr = s.mergeLocked()
	})
	return s.finalizeErr
}

// Blocks returns the finalized, globally sorted runs. Valid only after a
// successful Finalize call.
func (s *Store) Blocks() []*column.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.finalized
}

type heapItem struct {
	blockIdx int
	rowIdx   int
}

type mergeHeap struct {
	items   []heapItem
	keyCols [][]column.Column
}

func (h *mergeHeap) Len() int { return len(h.items) }
func (h *mergeHeap) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	return column.CompareKeysAt(h.keyCols[a.blockIdx], a.rowIdx, h.keyCols[b.blockIdx], b.rowIdx) < 0
}
func (h *mergeHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *mergeHeap) Push(x interface{}) { h.items = append(h.items, x.(heapItem)) }
func (h *mergeHeap) Pop() interface{} {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[:n-1]
	return item
}

func (s *Store) mergeLocked() ([]*column.Block, error) {
	if len(s.blocks) == 0 {
		return nil, nil
	}
	if len(s.blocks) == 1 {
		return splitByMaxRows(s.blocks[0], s.maxRowsBlock), nil
	}

	keyCols := make([][]column.Column, len(s.blocks))
	for i, b := range s.blocks {
		cols, ok := b.KeyColumns(s.keyNames)
		if !ok {
			return nil, joinerr.NewLogicalError(s.runID, "right block missing one or more join key columns")
		}
		keyCols[i] = cols
	}

	h := &mergeHeap{keyCols: keyCols}
	for i, b := range s.blocks {
		if b.Rows() > 0 {
			heap.Push(h, heapItem{blockIdx: i, rowIdx: 0})
		}
	}

	var runs []*column.Block
	var builders []column.Builder
	runRows := 0

	flush := func() {
		if runRows == 0 {
			return
		}
		cols := make([]column.Column, len(builders))
		for i, b := range builders {
			cols[i] = b.Finish()
		}
		runs = append(runs, column.NewBlock(append([]string(nil), s.blocks[0].Names...), cols))
		builders = nil
		runRows = 0
	}

	for h.Len() > 0 {
		it := heap.Pop(h).(heapItem)
		src := s.blocks[it.blockIdx]

		if builders == nil {
			builders = make([]column.Builder, len(src.Columns))
			for i, c := range src.Columns {
				builders[i] = column.NewBuilder(c, s.maxRowsBlock)
			}
		}
		for i, c := range src.Columns {
			builders[i].CopyRange(c, it.rowIdx, 1)
		}
		runRows++

		if it.rowIdx+1 < src.Rows() {
			heap.Push(h, heapItem{blockIdx: it.blockIdx, rowIdx: it.rowIdx + 1})
		}

		if runRows >= s.maxRowsBlock {
			flush()
		}
	}
	flush()

	return runs, nil
}

// splitByMaxRows is the single-block fast path of mergeLocked: no heap
// needed, just a straight slice into runs of at most maxRows.
func splitByMaxRows(b *column.Block, maxRows int) []*column.Block {
	rows := b.Rows()
	if rows <= maxRows {
		return []*column.Block{b}
	}
	var runs []*column.Block
	for start := 0; start < rows; start += maxRows {
		n := maxRows
		if start+n > rows {
			n = rows - start
		}
		runs = append(runs, truncateRange(b, start, n))
	}
	return runs
}

func truncateBlock(b *column.Block, n int) *column.Block {
	return truncateRange(b, 0, n)
}

func truncateRange(b *column.Block, start, n int) *column.Block {
	cols := make([]column.Column, len(b.Columns))
	for i, c := range b.Columns {
		builder := column.NewBuilder(c, n)
		builder.CopyRange(c, start, n)
		cols[i] = builder.Finish()
	}
	return column.NewBlock(append([]string(nil), b.Names...), cols)
}

// estimateBytes is a rough per-block size accounting, coarse on purpose:
// the size limit exists to bound memory to the right order of magnitude,
// not to track exact allocator bytes.
func estimateBytes(b *column.Block) int64 {
	const perCell = 16
	return int64(b.Rows()) * int64(len(b.Columns)) * perCell
}
