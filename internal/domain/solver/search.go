package solver

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/okian/lineup/internal/domain/constraint"
)

// budgetCheckStride controls how often the wall clock is consulted.
const budgetCheckStride = 256

// congestionWindows are the window sizes and weights of the congestion
// tie-break; shorter windows weigh more because racing twice in them is
// harsher on the swimmer.
var congestionWindows = []struct {
	size   int
	weight int
}{
	{size: 2, weight: 4},
	{size: 3, weight: 1},
	{size: 4, weight: 1},
}

// solution is one complete assignment in meet order.
type solution struct {
	members [][]string // per slot, sorted member IDs
	points  []float64  // per slot entry score
	score   float64
	penalty float64
	lex     string
}

type searcher struct {
	m      *constraint.Model
	cfg    *Solver
	banned map[string]bool

	order    []int     // slot fill order, most constrained first
	suffix   []float64 // suffix[d] = optimistic score of order[d:]
	sessions [][]int   // slot indices grouped by session, schedule order

	counts   []int   // races assigned per swimmer
	perSlots [][]int // slot indices assigned per swimmer
	chosen   [][]int // per depth, eligible indices picked for order[d]
	score    float64

	deadline    time.Time
	hasDeadline bool

	nodes   int64
	pruned  int64
	stopped bool

	found bool
	best  solution

	deepestFail int
	failSlot    int
}

func newSearcher(m *constraint.Model, cfg *Solver, banned map[string]bool) *searcher {
	n := len(m.Slots)

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := m.Slots[order[a]], m.Slots[order[b]]
		slackA := len(sa.Eligible) - sa.Event.Need
		slackB := len(sb.Eligible) - sb.Event.Need
		if slackA != slackB {
			return slackA < slackB
		}
		return order[a] < order[b]
	})

	suffix := make([]float64, n+1)
	for d := n - 1; d >= 0; d-- {
		suffix[d] = suffix[d+1] + m.Slots[order[d]].Upper
	}

	var sessions [][]int
	bySession := make(map[int][]int)
	var sessionIDs []int
	for i, slot := range m.Slots {
		sess := slot.Event.Session
		if _, ok := bySession[sess]; !ok {
			sessionIDs = append(sessionIDs, sess)
		}
		bySession[sess] = append(bySession[sess], i)
	}
	sort.Ints(sessionIDs)
	for _, sess := range sessionIDs {
		sessions = append(sessions, bySession[sess]) // already in schedule order
	}

	sr := &searcher{
		m:           m,
		cfg:         cfg,
		banned:      banned,
		order:       order,
		suffix:      suffix,
		sessions:    sessions,
		counts:      make([]int, len(m.Roster.Swimmers)),
		perSlots:    make([][]int, len(m.Roster.Swimmers)),
		chosen:      make([][]int, n),
		deepestFail: -1,
		failSlot:    -1,
	}
	if cfg.timeBudget > 0 {
		sr.deadline = time.Now().Add(cfg.timeBudget)
		sr.hasDeadline = true
	}
	return sr
}

func (s *searcher) run(ctx context.Context) {
	s.descend(ctx, 0)
}

func (s *searcher) descend(ctx context.Context, d int) {
	if s.stopped {
		return
	}
	if d == len(s.order) {
		s.complete()
		return
	}
	// Prune strictly: equal-score branches stay alive so the tie-break
	// can pick between them.
	if s.found && s.score+s.suffix[d] < s.best.score-scoreEps {
		s.pruned++
		return
	}
	slot := s.order[d]
	if !s.fill(ctx, d, slot, 0) && !s.stopped && d > s.deepestFail {
		s.deepestFail = d
		s.failSlot = slot
	}
}

// fill extends the member set of slot from eligible index `from` onward in
// deterministic order. It reports whether at least one complete member set
// was expanded.
func (s *searcher) fill(ctx context.Context, d, slot, from int) bool {
	sl := &s.m.Slots[slot]
	picked := s.chosen[d]

	if len(picked) == sl.Event.Need {
		s.nodes++
		if s.checkBudget(ctx) {
			return true
		}
		entry := s.m.Score(slot, picked)
		s.apply(slot, picked)
		s.score += entry
		s.descend(ctx, d+1)
		s.score -= entry
		s.undo(slot, picked)
		return true
	}

	progressed := false
	remaining := sl.Event.Need - len(picked)
	for i := from; i+remaining <= len(sl.Eligible); i++ {
		cand := sl.Eligible[i]
		if s.counts[cand.Swimmer] >= s.m.Cap() {
			continue
		}
		if s.conflicts(cand.Swimmer, slot) {
			continue
		}
		s.chosen[d] = append(picked, i)
		if s.fill(ctx, d, slot, i+1) {
			progressed = true
		}
		s.chosen[d] = picked
		if s.stopped {
			return progressed
		}
	}
	return progressed
}

func (s *searcher) apply(slot int, members []int) {
	for _, i := range members {
		sw := s.m.Slots[slot].Eligible[i].Swimmer
		s.counts[sw]++
		s.perSlots[sw] = append(s.perSlots[sw], slot)
	}
}

func (s *searcher) undo(slot int, members []int) {
	for _, i := range members {
		sw := s.m.Slots[slot].Eligible[i].Swimmer
		s.counts[sw]--
		s.perSlots[sw] = s.perSlots[sw][:len(s.perSlots[sw])-1]
	}
}

func (s *searcher) conflicts(swimmer, slot int) bool {
	for _, other := range s.perSlots[swimmer] {
		if s.m.Conflicts(slot, other) {
			return true
		}
	}
	return false
}

func (s *searcher) checkBudget(ctx context.Context) bool {
	if s.cfg.nodeBudget > 0 && s.nodes >= s.cfg.nodeBudget {
		s.stopped = true
		return true
	}
	if s.nodes%budgetCheckStride == 0 {
		if ctx.Err() != nil || (s.hasDeadline && time.Now().After(s.deadline)) {
			s.stopped = true
			return true
		}
	}
	return false
}

func (s *searcher) complete() {
	sol := s.snapshot()
	if s.banned != nil && s.banned[sol.lex] {
		return
	}
	if !s.found || s.better(sol) {
		s.best = sol
		s.found = true
	}
}

func (s *searcher) snapshot() solution {
	n := len(s.m.Slots)
	members := make([][]string, n)
	points := make([]float64, n)
	for d, slot := range s.order {
		ids := make([]string, 0, len(s.chosen[d]))
		for _, i := range s.chosen[d] {
			ids = append(ids, s.m.Slots[slot].Eligible[i].ID)
		}
		sort.Strings(ids)
		members[slot] = ids
		points[slot] = s.m.Score(slot, s.chosen[d])
	}
	return solution{
		members: members,
		points:  points,
		score:   s.score,
		penalty: s.penalty(),
		lex:     lexKey(members),
	}
}

func (s *searcher) penalty() float64 {
	switch s.cfg.tieBreak {
	case TieBreakSpread:
		most := 0
		for _, c := range s.counts {
			if c > most {
				most = c
			}
		}
		return float64(most)
	case TieBreakCongestion:
		return float64(s.congestion())
	default:
		return 0
	}
}

// congestion sums weighted over-occupancy of sliding windows per session:
// a swimmer racing c times inside one window contributes weight*(c-1).
func (s *searcher) congestion() int {
	total := 0
	for _, sess := range s.sessions {
		for _, win := range congestionWindows {
			if win.size > len(sess) {
				continue
			}
			for start := 0; start+win.size <= len(sess); start++ {
				window := sess[start : start+win.size]
				for sw := range s.perSlots {
					c := 0
					for _, assigned := range s.perSlots[sw] {
						for _, wslot := range window {
							if assigned == wslot {
								c++
							}
						}
					}
					if c > 1 {
						total += win.weight * (c - 1)
					}
				}
			}
		}
	}
	return total
}

func (s *searcher) better(sol solution) bool {
	if sol.score > s.best.score+scoreEps {
		return true
	}
	if sol.score < s.best.score-scoreEps {
		return false
	}
	if sol.penalty != s.best.penalty {
		return sol.penalty < s.best.penalty
	}
	return sol.lex < s.best.lex
}

func (s *searcher) failingEvent() string {
	if s.failSlot >= 0 {
		return s.m.Slots[s.failSlot].Event.ID
	}
	if len(s.order) > 0 {
		return s.m.Slots[s.order[0]].Event.ID
	}
	return ""
}

func lexKey(members [][]string) string {
	var b strings.Builder
	for i, ids := range members {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(strings.Join(ids, ","))
	}
	return b.String()
}
