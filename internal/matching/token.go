package matching

import "regexp"

// sizeTokenRe captures "<number>[-<number>] sq ft"-style size markers in
// descriptor and unit-type names. Tolerates sqft / sq ft / sq. ft / feet / ft
// / ' spellings, case-insensitive.
var sizeTokenRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:-\s*(\d+(?:\.\d+)?)\s*)?(?:sq\.?\s*ft\.?|sqft|sq\.?\s*feet|square\s*feet|feet|ft\.?|')`)

// ExtractSizeToken pulls the normalized size token out of a name, e.g.
// "10 sq ft Regular" -> "10", "50-75 sqft Premium" -> "50-75". Returns ""
// when no size marker is present. Tokens compare as strings, never
// numerically: "10.0" is a different token from "10".
func ExtractSizeToken(name string) string {
	m := sizeTokenRe.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	if m[2] != "" {
		return m[1] + "-" + m[2]
	}
	return m[1]
}

// SizeBounds returns the numeric lower/upper bounds of a name's size token.
// A single value is both bounds. ok is false when no token is extractable.
func SizeBounds(name string) (lower, upper float64, ok bool) {
	m := sizeTokenRe.FindStringSubmatch(name)
	if m == nil {
		return 0, 0, false
	}
	lower = parseFloat(m[1])
	upper = lower
	if m[2] != "" {
		upper = parseFloat(m[2])
	}
	return lower, upper, true
}
