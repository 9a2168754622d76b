// Package version orders dotted version strings such as "3.9.10".
//
// Versions are split on "." and compared token by token. Tokens made only
// of ASCII digits compare numerically, any other token compares as a plain
// string, and a numeric token always sorts before a string token at the same
// position. When one version is a prefix of the other, the shorter one sorts
// first ("1.2" < "1.2.0").
package version

import (
	"slices"
	"strings"

	"github.com/raysh454/ptrprobe/internal/model"
)

type token struct {
	text    string
	numeric bool
}

func tokenize(v string) []token {
	parts := strings.Split(v, ".")
	out := make([]token, len(parts))
	for i, p := range parts {
		out[i] = token{text: p, numeric: isDigits(p)}
	}
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// compareNumeric compares two digit strings of any length without
// converting them, so "99999999999999999999" never overflows.
func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func compareToken(a, b token) int {
	switch {
	case a.numeric && b.numeric:
		return compareNumeric(a.text, b.text)
	case a.numeric:
		return -1
	case b.numeric:
		return 1
	default:
		return strings.Compare(a.text, b.text)
	}
}

// Compare returns -1, 0 or +1 as a sorts before, equal to, or after b.
func Compare(a, b string) int {
	ta, tb := tokenize(a), tokenize(b)
	for i := 0; i < len(ta) && i < len(tb); i++ {
		if c := compareToken(ta[i], tb[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(ta) < len(tb):
		return -1
	case len(ta) > len(tb):
		return 1
	default:
		return 0
	}
}

// SortStable orders records by ascending Version, keeping the input order of
// records whose versions compare equal.
func SortStable(records []model.ResultRecord) {
	slices.SortStableFunc(records, func(a, b model.ResultRecord) int {
		return Compare(a.Version, b.Version)
	})
}
