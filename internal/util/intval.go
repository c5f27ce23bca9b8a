package util

import (
	"strconv"
	"strings"
)

// IntVal parses the leading integer of s the way storefront forms are read:
// surrounding spaces are ignored, trailing garbage is dropped and anything
// without leading digits is 0.
func IntVal(s string) int64 {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return n
}
