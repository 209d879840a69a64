package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDistrictCode(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"short numeric", "12", "0012"},
		{"already normalized", "0012", "0012"},
		{"partially padded", "012", "0012"},
		{"single digit", "7", "0007"},
		{"decimal suffix from numeric column", "12.0", "0012"},
		{"whitespace", " 12 ", "0012"},
		{"full width", "1234", "1234"},
		{"wider than four", "12345", "12345"},
		{"zero", "0", "0000"},
		{"all zeros", "0000", "0000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDistrictCode(tt.raw))
		})
	}
}

func TestNormalizeDistrictCode_Idempotent(t *testing.T) {
	for _, raw := range []string{"12", "0012", "7", "12345", "0"} {
		once := NormalizeDistrictCode(raw)
		assert.Equal(t, once, NormalizeDistrictCode(once), "normalizing %q twice", raw)
	}
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "NORTH GOA", NormalizeName("  north   Goa "))
	assert.Equal(t, "", NormalizeName("   "))
}
