package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abdulachik/redditcompat/internal/sampler"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10c", 10, "exactly10c"},
		{"this is a longer string", 10, "this is a ..."},
		{"", 10, ""},
		{"ééééééé", 3, "ééé..."},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Truncate(tt.input, tt.maxLen))
		})
	}
}

func TestCompose(t *testing.T) {
	samples := sampler.SampleSet{
		{A: "I rebuilt a carburetor this weekend.", B: "Slow-braised short ribs are worth the wait."},
		{A: "Myth testing requires a control group.", B: "Salt your pasta water generously."},
	}

	got := Compose("mistersavage", "J_Kenji_Lopez-Alt", samples)

	t.Run("names both accounts", func(t *testing.T) {
		assert.Contains(t, got, "u/mistersavage and u/J_Kenji_Lopez-Alt")
		assert.Contains(t, got, "• mistersavage: I rebuilt a carburetor this weekend.")
		assert.Contains(t, got, "• J_Kenji_Lopez-Alt: Slow-braised short ribs are worth the wait.")
	})

	t.Run("numbers each pair", func(t *testing.T) {
		assert.Equal(t, 2, strings.Count(got, "**Pair "))
		assert.Contains(t, got, "**Pair 1:**")
		assert.Contains(t, got, "**Pair 2:**")
		assert.Less(t, strings.Index(got, "**Pair 1:**"), strings.Index(got, "**Pair 2:**"))
	})

	t.Run("includes every section heading in order", func(t *testing.T) {
		last := -1
		for _, s := range Sections {
			idx := strings.Index(got, "### "+s.Heading)
			assert.Greater(t, idx, last, "heading %q missing or out of order", s.Heading)
			last = idx
		}
		assert.Equal(t, 6, strings.Count(got, "\n### "))
	})

	t.Run("pairs come before the task", func(t *testing.T) {
		assert.Less(t, strings.Index(got, "**Pair 2:**"), strings.Index(got, "**Your Task:**"))
	})
}

func TestCompose_ShortBodiesAreVerbatim(t *testing.T) {
	body := strings.Repeat("y", MaxExcerptLength)
	samples := sampler.SampleSet{
		{A: body, B: "a normal length comment"},
		{A: "line one\nline two", B: "quotes \"and\" symbols %d %s"},
	}

	got := Compose("a", "b", samples)

	for _, p := range samples {
		assert.Contains(t, got, p.A)
		assert.Contains(t, got, p.B)
	}
	assert.NotContains(t, got, body+ellipsis)
}

func TestCompose_LongBodiesAreTruncated(t *testing.T) {
	long := strings.Repeat("z", MaxExcerptLength+50)
	samples := sampler.SampleSet{{A: long, B: "reply"}}

	got := Compose("a", "b", samples)

	assert.Contains(t, got, strings.Repeat("z", MaxExcerptLength)+ellipsis)
	assert.NotContains(t, got, strings.Repeat("z", MaxExcerptLength+1))
	assert.Equal(t, long, samples[0].A)
}

func TestCompose_EmptySamples(t *testing.T) {
	got := Compose("a", "b", sampler.SampleSet{})

	assert.NotContains(t, got, "**Pair ")
	assert.Equal(t, 6, strings.Count(got, "\n### "))
}
