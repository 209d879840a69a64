package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"kitten", "sitting", 3},
		{"GAMAA", "GAMMA", 1},
		{"flaw", "lawn", 2},
		{"BELLARY", "BALLARI", 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, levenshtein(tt.a, tt.b), "levenshtein(%q, %q)", tt.a, tt.b)
	}
}

func TestLevenshtein_Symmetric(t *testing.T) {
	assert.Equal(t, levenshtein("abcdef", "azced"), levenshtein("azced", "abcdef"))
}

func TestNameSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, nameSimilarity("ALPHA", "STATEA", "ALPHA", "STATEA"))

	// One substitution over the 12-character combined key
	assert.InDelta(t, 1.0-1.0/12.0, nameSimilarity("GAMAA", "STATEB", "GAMMA", "STATEB"), 1e-9)

	assert.Less(t, nameSimilarity("ZZZZ", "QQ", "ALPHA", "STATEA"), 0.3)
	assert.Equal(t, 0.0, nameSimilarity("", "", "", ""))
}
