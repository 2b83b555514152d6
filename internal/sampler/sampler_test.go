package sampler

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func texts(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s-%d %s", prefix, i, strings.Repeat("x", i))
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestCrossProduct(t *testing.T) {
	pairs := CrossProduct([]string{"a1", "a2"}, []string{"b1", "b2", "b3"})
	require.Len(t, pairs, 6)
	assert.Equal(t, Pair{A: "a1", B: "b1"}, pairs[0])
	assert.Equal(t, Pair{A: "a1", B: "b3"}, pairs[2])
	assert.Equal(t, Pair{A: "a2", B: "b1"}, pairs[3])
}

func TestSample_SizeAndProvenance(t *testing.T) {
	tests := []struct {
		name string
		a, b int
		n    int
		want int
	}{
		{"even request", 5, 7, 10, 10},
		{"odd request loses one slot", 5, 7, 9, 8},
		{"small cross product", 1, 2, 10, 4},
		{"single pair", 1, 1, 6, 2},
		{"two samples", 3, 3, 2, 2},
		{"one sample rounds to zero", 3, 3, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := texts("a", tt.a), texts("b", tt.b)

			got := Sample(a, b, tt.n, seeded(1))
			assert.Len(t, got, tt.want)
			assert.LessOrEqual(t, len(got), tt.n)
			for _, p := range got {
				assert.True(t, contains(a, p.A), "left side %q not from corpus A", p.A)
				assert.True(t, contains(b, p.B), "right side %q not from corpus B", p.B)
			}
		})
	}
}

func TestSample_ProvenanceAcrossSeeds(t *testing.T) {
	a, b := texts("left", 12), texts("right", 9)
	for seed := uint64(0); seed < 50; seed++ {
		for n := 2; n <= 30; n++ {
			got := Sample(a, b, n, seeded(seed))
			require.LessOrEqual(t, len(got), n)
			for _, p := range got {
				require.True(t, strings.HasPrefix(p.A, "left-"))
				require.True(t, strings.HasPrefix(p.B, "right-"))
			}
		}
	}
}

func TestSample_RandomHalfHasNoRepeats(t *testing.T) {
	a, b := texts("a", 4), texts("b", 4)
	got := Sample(a, b, 20, seeded(7))

	random := got[:10]
	seen := make(map[Pair]bool)
	for _, p := range random {
		assert.False(t, seen[p], "pair drawn twice: %+v", p)
		seen[p] = true
	}
}

func TestSample_LongestHalfIsDeterministic(t *testing.T) {
	a, b := texts("a", 6), texts("b", 5)

	first := Sample(a, b, 8, seeded(1))
	second := Sample(a, b, 8, seeded(99))
	unseeded := Sample(a, b, 8, nil)

	require.Len(t, first, 8)
	assert.Equal(t, first[4:], second[4:])
	assert.Equal(t, first[4:], unseeded[4:])
	assert.Equal(t, Longest(CrossProduct(a, b), 4), first[4:])
}

func TestSample_RandomHalfUsesInjectedSource(t *testing.T) {
	a, b := texts("a", 10), texts("b", 10)

	assert.Equal(t, Sample(a, b, 10, seeded(42)), Sample(a, b, 10, seeded(42)))
}

func TestSample_EmptyCorpus(t *testing.T) {
	got := Sample([]string{}, []string{"x"}, 10, nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	assert.Empty(t, Sample([]string{"x"}, nil, 10, nil))
	assert.Empty(t, Sample([]string{"x"}, []string{"y"}, 0, nil))
}

func TestSample_DoesNotMutateInputs(t *testing.T) {
	a := []string{"short one here", "a much longer body of text here"}
	b := []string{"tiny but valid", "medium sized text"}
	aCopy := append([]string(nil), a...)
	bCopy := append([]string(nil), b...)

	Sample(a, b, 6, seeded(3))

	assert.Equal(t, aCopy, a)
	assert.Equal(t, bCopy, b)
}

func TestLongest(t *testing.T) {
	pairs := []Pair{
		{A: "aa", B: "bb"},   // 4
		{A: "aaaa", B: "b"},  // 5
		{A: "a", B: "bbb"},   // 4
		{A: "aaa", B: "bbb"}, // 6
	}

	t.Run("orders by combined length with stable ties", func(t *testing.T) {
		got := Longest(pairs, 4)
		assert.Equal(t, SampleSet{pairs[3], pairs[1], pairs[0], pairs[2]}, got)
	})

	t.Run("caps at input size", func(t *testing.T) {
		assert.Len(t, Longest(pairs, 10), 4)
	})

	t.Run("counts characters not bytes", func(t *testing.T) {
		multibyte := []Pair{
			{A: "ééééé", B: "x"}, // 6 runes, 11 bytes
			{A: "abcdefg", B: "x"},
		}
		got := Longest(multibyte, 1)
		assert.Equal(t, "abcdefg", got[0].A)
	})

	t.Run("leaves input order alone", func(t *testing.T) {
		before := append([]Pair(nil), pairs...)
		Longest(pairs, 2)
		assert.Equal(t, before, pairs)
	})
}
