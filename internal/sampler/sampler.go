// Package sampler reduces two text corpora to a small, diverse set of
// cross-account pairs.
//
// Half of the set is drawn uniformly at random from the full cross product and
// the other half is the pairs with the longest combined text. The two halves
// are not deduplicated. With an odd size the rounding loses one slot; callers
// get at most size-1 pairs in that case.
package sampler

import (
	"math/rand/v2"
	"sort"
	"unicode/utf8"
)

// Pair is one text from each corpus, considered jointly.
type Pair struct {
	A string `json:"a"`
	B string `json:"b"`
}

// SampleSet is the ordered selection sent to the generation backend:
// random pairs first, longest pairs after.
type SampleSet []Pair

// Sample selects at most n pairs from the cross product of a and b.
// A nil rng draws from a fresh unseeded source, so repeated calls differ.
// Either corpus being empty yields an empty set.
func Sample(a, b []string, n int, rng *rand.Rand) SampleSet {
	if n <= 0 || len(a) == 0 || len(b) == 0 {
		return SampleSet{}
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	half := n / 2
	all := CrossProduct(a, b)

	random := drawRandom(all, half, rng)
	longest := Longest(all, half)

	out := make(SampleSet, 0, len(random)+len(longest))
	out = append(out, random...)
	out = append(out, longest...)
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// CrossProduct enumerates every (a, b) pair, a-major.
// Its size is len(a)*len(b); corpora are capped upstream, which bounds it.
func CrossProduct(a, b []string) []Pair {
	pairs := make([]Pair, 0, len(a)*len(b))
	for _, x := range a {
		for _, y := range b {
			pairs = append(pairs, Pair{A: x, B: y})
		}
	}
	return pairs
}

// Longest returns the k pairs with the greatest combined length, ties kept in
// enumeration order. The input is not modified.
func Longest(pairs []Pair, k int) SampleSet {
	if k <= 0 || len(pairs) == 0 {
		return SampleSet{}
	}

	type weighted struct {
		pair   Pair
		length int
	}
	ranked := make([]weighted, len(pairs))
	for i, p := range pairs {
		ranked[i] = weighted{
			pair:   p,
			length: utf8.RuneCountInString(p.A) + utf8.RuneCountInString(p.B),
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].length > ranked[j].length
	})

	if k > len(ranked) {
		k = len(ranked)
	}
	out := make(SampleSet, k)
	for i := range out {
		out[i] = ranked[i].pair
	}
	return out
}

// drawRandom picks min(k, len(pairs)) distinct positions uniformly.
func drawRandom(pairs []Pair, k int, rng *rand.Rand) SampleSet {
	if k > len(pairs) {
		k = len(pairs)
	}
	if k <= 0 {
		return SampleSet{}
	}

	out := make(SampleSet, k)
	for i, idx := range rng.Perm(len(pairs))[:k] {
		out[i] = pairs[idx]
	}
	return out
}
