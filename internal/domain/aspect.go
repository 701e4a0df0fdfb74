package domain

import "strings"

// DefaultAspectRatio is used whenever a request omits the ratio or asks for
// one outside the supported set.
const DefaultAspectRatio = "1:1"

var supportedAspectRatios = map[string]struct{}{
	"1:1":  {},
	"4:3":  {},
	"3:4":  {},
	"16:9": {},
	"9:16": {},
}

// SupportedAspectRatio reports whether the ratio is in the closed supported set.
func SupportedAspectRatio(ratio string) bool {
	_, ok := supportedAspectRatios[strings.TrimSpace(ratio)]
	return ok
}

// NormalizeAspectRatio maps arbitrary input to a supported ratio, falling back
// to the default instead of failing.
func NormalizeAspectRatio(ratio string) string {
	ratio = strings.TrimSpace(ratio)
	if SupportedAspectRatio(ratio) {
		return ratio
	}
	return DefaultAspectRatio
}
