package graph

import (
	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/geom"
)

// emojiRanges are the code point ranges of the default label pool:
// Emoticons, then Miscellaneous Symbols and Pictographs.
var emojiRanges = [][2]rune{
	{0x1F600, 0x1F64F},
	{0x1F300, 0x1F5FF},
}

// LabelPool hands out distinct node labels in order.
// A pool is owned by one generator call at a time and is not safe for
// concurrent use.
type LabelPool struct {
	labels []string
	next   int
}

// NewLabelPool returns a pool that yields labels in the given order.
func NewLabelPool(labels []string) *LabelPool {
	return &LabelPool{labels: append([]string(nil), labels...)}
}

// NewEmojiPool returns a pool of single-emoji labels.
func NewEmojiPool() *LabelPool {
	var labels []string
	for _, r := range emojiRanges {
		for c := r[0]; c <= r[1]; c++ {
			labels = append(labels, string(c))
		}
	}
	return &LabelPool{labels: labels}
}

// Next returns the next label, or POOL_EXHAUSTED once the pool is empty.
func (p *LabelPool) Next() (string, error) {
	if p.next >= len(p.labels) {
		return "", errors.New(errors.ErrCodePoolExhausted, "label pool exhausted after %d labels", len(p.labels))
	}
	label := p.labels[p.next]
	p.next++
	return label, nil
}

// Remaining returns how many labels are left.
func (p *LabelPool) Remaining() int { return len(p.labels) - p.next }

// TreeSize returns the number of nodes [Tree] creates for depth and branches:
// 1 + b + b² + … + b^(depth-1). The count saturates at limit+1 so callers
// can compare against a pool size without overflow.
func TreeSize(depth, branches, limit int) int {
	total, level := 0, 1
	for d := 0; d < depth; d++ {
		total += level
		if total > limit {
			return limit + 1
		}
		level *= branches
		if level > limit {
			level = limit + 1
		}
	}
	return total
}

// Tree builds a rooted tree of the given depth in which every internal node
// has branches children. Each subtree root is linked to its parent in both
// directions. Nodes are numbered in pre-order and labeled from pool.
//
// The full node count is checked against the pool before anything is
// consumed; a pool that is too small aborts with POOL_EXHAUSTED instead of
// returning a truncated tree.
func Tree(pool *LabelPool, depth, branches int, shape geom.Shape) (*Graph, error) {
	if depth < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "tree depth must be >= 1, got %d", depth)
	}
	if branches < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "tree branches must be >= 0, got %d", branches)
	}
	if pool == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "label pool is required")
	}
	if need := TreeSize(depth, branches, pool.Remaining()); need > pool.Remaining() {
		return nil, errors.New(errors.ErrCodePoolExhausted,
			"tree of depth %d with %d branches needs more than the %d labels left in the pool",
			depth, branches, pool.Remaining())
	}

	b := NewBuilder()
	if _, err := buildTree(b, pool, depth, branches, shape); err != nil {
		return nil, err
	}
	return b.Build(), nil
}

func buildTree(b *Builder, pool *LabelPool, depth, branches int, shape geom.Shape) (int, error) {
	label, err := pool.Next()
	if err != nil {
		return 0, err
	}
	root, err := b.AddNode(label, shape)
	if err != nil {
		return 0, err
	}
	if depth <= 1 {
		return root, nil
	}
	for range branches {
		sub, err := buildTree(b, pool, depth-1, branches, shape)
		if err != nil {
			return 0, err
		}
		if err := b.Connect(sub, root); err != nil {
			return 0, err
		}
		if err := b.Connect(root, sub); err != nil {
			return 0, err
		}
	}
	return root, nil
}
