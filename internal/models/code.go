package models

import "strings"

// districtCodeWidth is the fixed width of a normalized district code
const districtCodeWidth = 4

// NormalizeDistrictCode converts a raw district code to its canonical
// zero-padded 4-character form. The housing, demographic and boundary inputs
// carry the same codes with inconsistent padding and typing, so "12", "012",
// "0012" and "12.0" all normalize to "0012". Normalization is idempotent.
func NormalizeDistrictCode(raw string) string {
	code := strings.TrimSpace(raw)

	// Codes read from numeric columns can arrive with a decimal suffix
	if i := strings.IndexByte(code, '.'); i >= 0 {
		code = code[:i]
	}

	trimmed := strings.TrimLeft(code, "0")
	if trimmed == "" {
		trimmed = "0"
	}
	if len(trimmed) >= districtCodeWidth {
		return trimmed
	}
	return strings.Repeat("0", districtCodeWidth-len(trimmed)) + trimmed
}

// NormalizeName canonicalizes a district or state name for matching:
// uppercased, trimmed, with interior whitespace collapsed.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToUpper(name)), " ")
}
