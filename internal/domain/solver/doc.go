// Package solver finds a maximum-score assignment of swimmers to meet
// events subject to the constraint model's feasibility predicate.
//
// The search is an exact branch-and-bound: slots are filled in
// most-constrained-first order, candidate members are filtered against the
// per-swimmer cap and pairwise conflicts as branches descend, and branches
// whose optimistic remaining score cannot reach the incumbent are pruned.
// The per-slot bound ignores cross-slot constraints, so it never
// underestimates and a completed search proves optimality.
//
// Budgets make the search cancellable: a wall-clock budget (also honoring
// the caller's context) and a node budget. Exhausting either returns the
// best feasible assignment found so far rather than failing; only a run
// that produced no feasible assignment at all surfaces an error.
//
// Results are deterministic for identical inputs: enumeration order is
// fixed, equal-score candidates are ranked by the configured tie-break
// policy and finally by lexicographic swimmer-ID order.
package solver
