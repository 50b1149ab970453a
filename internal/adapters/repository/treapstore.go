package repository

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/okian/lineup/internal/domain/lineup"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: total DESC, then run ID ASC (deterministic). The comparator
// ranks higher totals earlier, so an in-order traversal produces the run
// ranking from best to worst. Subtree sizes give O(log n) rank queries.

type node struct {
	runID string
	total float64
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// ranksBefore reports whether (aTotal, aID) appears before (bTotal, bID).
func ranksBefore(aTotal float64, aID string, bTotal float64, bID string) bool {
	if aTotal != bTotal {
		return aTotal > bTotal
	}
	return aID < bID
}

// TreapStore implements Store. Safe for concurrent use.
type TreapStore struct {
	mu       sync.RWMutex
	root     *node
	byRun    map[string]*lineup.Lineup
	capacity int // max runs kept; 0 or negative = unbounded
}

// NewTreapStore creates a run store with configuration options.
func NewTreapStore(opts ...Option) *TreapStore {
	s := &TreapStore{
		byRun: make(map[string]*lineup.Lineup),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record implements Store.
func (s *TreapStore) Record(ctx context.Context, l *lineup.Lineup) error {
	if l == nil || !l.Feasible() {
		return ErrNotFeasible
	}
	if l.Diag.RunID == "" {
		return ErrNotFeasible
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.byRun[l.Diag.RunID]; ok {
		s.root = remove(s.root, prev.Total, l.Diag.RunID)
	}
	s.root = insert(s.root, &node{
		runID: l.Diag.RunID,
		total: l.Total,
		prio:  rand.Uint64(),
		size:  1,
	})
	s.byRun[l.Diag.RunID] = l

	if s.capacity > 0 {
		for nsize(s.root) > s.capacity {
			s.evictWorst()
		}
	}
	return nil
}

// evictWorst drops the lowest-ranked run. Must be called with s.mu held.
func (s *TreapStore) evictWorst() {
	n := s.root
	if n == nil {
		return
	}
	for n.right != nil {
		n = n.right
	}
	delete(s.byRun, n.runID)
	s.root = remove(s.root, n.total, n.runID)
}

// Rank implements Store.
func (s *TreapStore) Rank(ctx context.Context, runID string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.byRun[runID]
	if !ok {
		return Entry{}, ErrNotFound
	}
	before := rankOf(s.root, l.Total, runID)
	if before < 0 {
		return Entry{}, ErrNotFound
	}
	return Entry{
		Rank:   before + 1,
		RunID:  runID,
		Total:  l.Total,
		Status: l.Status,
	}, nil
}

// TopN implements Store.
func (s *TreapStore) TopN(ctx context.Context, n int) ([]Entry, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, n)
	collect(s.root, &out, n, s.byRun)
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

// Lineup implements Store.
func (s *TreapStore) Lineup(ctx context.Context, runID string) (*lineup.Lineup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.byRun[runID]
	if !ok {
		return nil, ErrNotFound
	}
	return l, nil
}

// Count implements Store.
func (s *TreapStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return nsize(s.root)
}

func rotateRight(n *node) *node {
	l := n.left
	n.left = l.right
	l.right = n
	fix(n)
	fix(l)
	return l
}

func rotateLeft(n *node) *node {
	r := n.right
	n.right = r.left
	r.left = n
	fix(n)
	fix(r)
	return r
}

func insert(n, nn *node) *node {
	if n == nil {
		return nn
	}
	if ranksBefore(nn.total, nn.runID, n.total, n.runID) {
		n.left = insert(n.left, nn)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, nn)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func merge(l, r *node) *node {
	if l == nil {
		return r
	}
	if r == nil {
		return l
	}
	if l.prio > r.prio {
		l.right = merge(l.right, r)
		fix(l)
		return l
	}
	r.left = merge(l, r.left)
	fix(r)
	return r
}

func remove(n *node, total float64, runID string) *node {
	if n == nil {
		return nil
	}
	if n.runID == runID && n.total == total {
		return merge(n.left, n.right)
	}
	if ranksBefore(total, runID, n.total, n.runID) {
		n.left = remove(n.left, total, runID)
	} else {
		n.right = remove(n.right, total, runID)
	}
	fix(n)
	return n
}

// rankOf counts the runs ranked before (total, runID); -1 when absent.
func rankOf(n *node, total float64, runID string) int {
	rank := 0
	for n != nil {
		switch {
		case n.runID == runID && n.total == total:
			return rank + nsize(n.left)
		case ranksBefore(total, runID, n.total, n.runID):
			n = n.left
		default:
			rank += nsize(n.left) + 1
			n = n.right
		}
	}
	return -1
}

func collect(n *node, out *[]Entry, limit int, byRun map[string]*lineup.Lineup) {
	if n == nil || len(*out) >= limit {
		return
	}
	collect(n.left, out, limit, byRun)
	if len(*out) < limit {
		l := byRun[n.runID]
		*out = append(*out, Entry{
			RunID:  n.runID,
			Total:  n.total,
			Status: l.Status,
		})
		collect(n.right, out, limit, byRun)
	}
}
