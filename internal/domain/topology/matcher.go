package topology

import "sort"

// Candidate is one scored pairing option between keys of types A and B.
type Candidate[A comparable, B comparable] struct {
	Distance float64
	A        A
	B        B
}

// Pair is one accepted match.
type Pair[A comparable, B comparable] struct {
	A A
	B B
}

// GreedyExclusiveMatch sorts candidates by distance ascending and accepts
// each pair only while both of its keys are unclaimed.  The sort is
// stable, so tied distances resolve by input order.  The result never
// assigns a key twice: len(out) <= min(#distinct A, #distinct B).
//
// This is a greedy approximation of minimum-distance matching, not a
// globally optimal assignment; no backtracking is performed.
func GreedyExclusiveMatch[A comparable, B comparable](candidates []Candidate[A, B]) []Pair[A, B] {
	sorted := make([]Candidate[A, B], len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Distance < sorted[j].Distance
	})

	claimedA := make(map[A]struct{})
	claimedB := make(map[B]struct{})
	var out []Pair[A, B]
	for _, c := range sorted {
		if _, ok := claimedA[c.A]; ok {
			continue
		}
		if _, ok := claimedB[c.B]; ok {
			continue
		}
		claimedA[c.A] = struct{}{}
		claimedB[c.B] = struct{}{}
		out = append(out, Pair[A, B]{A: c.A, B: c.B})
	}
	return out
}
