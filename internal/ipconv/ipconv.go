// Package ipconv converts between the integer form of an IPv4 address used by
// the input feed and its dotted-decimal notation.
package ipconv

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/netip"
	"strconv"
	"strings"
)

// MaxIPv4 is the largest integer that maps to an IPv4 address.
const MaxIPv4 = math.MaxUint32

var (
	ErrNotInteger = errors.New("value is not an integer")
	ErrOutOfRange = errors.New("value outside IPv4 range [0, 4294967295]")
)

// Format coerces v to an integer and renders it as a.b.c.d.
//
// Accepted inputs are json.Number, string (base-10, surrounding whitespace
// ignored), integral-valued floats and every Go integer kind. Booleans, nil
// and composite values are rejected with ErrNotInteger.
func Format(v any) (string, error) {
	n, err := toInt64(v)
	if err != nil {
		return "", err
	}
	if n < 0 || n > MaxIPv4 {
		return "", fmt.Errorf("%w: %d", ErrOutOfRange, n)
	}
	return FormatUint32(uint32(n)), nil
}

// FormatUint32 renders n in network byte order.
func FormatUint32(n uint32) string {
	return fmt.Sprintf("%d.%d.%d.%d",
		(n>>24)&0xff,
		(n>>16)&0xff,
		(n>>8)&0xff,
		n&0xff,
	)
}

// Parse is the inverse of FormatUint32.
func Parse(s string) (uint32, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", s, err)
	}
	if !addr.Is4() {
		return 0, fmt.Errorf("parse %q: not an IPv4 address", s)
	}
	b := addr.As4()
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

func toInt64(v any) (int64, error) {
	switch x := v.(type) {
	case json.Number:
		return parseNumber(string(x))
	case string:
		return parseInteger(strings.TrimSpace(x))
	case float64:
		return fromFloat(x)
	case float32:
		return fromFloat(float64(x))
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint:
		return fromUint(uint64(x))
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint64:
		return fromUint(x)
	default:
		return 0, fmt.Errorf("%w: %T", ErrNotInteger, v)
	}
}

func parseInteger(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%w: %s", ErrOutOfRange, s)
		}
		return 0, fmt.Errorf("%w: %q", ErrNotInteger, s)
	}
	return n, nil
}

// parseNumber handles JSON number literals, which may carry a fraction or
// exponent even when the value is integral (e.g. 3232235777.0, 1e3).
func parseNumber(s string) (int64, error) {
	if !strings.ContainsAny(s, ".eE") {
		return parseInteger(s)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%w: %s", ErrOutOfRange, s)
		}
		return 0, fmt.Errorf("%w: %q", ErrNotInteger, s)
	}
	return fromFloat(f)
}

// fromFloat rejects fractional values instead of truncating them, so
// 3232235777.5 is ErrNotInteger rather than 192.168.1.1. Booleans are
// likewise never coerced to 0 or 1 (see toInt64).
func fromFloat(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %v", ErrNotInteger, f)
	}
	if f < 0 || f > MaxIPv4 {
		return 0, fmt.Errorf("%w: %v", ErrOutOfRange, f)
	}
	return int64(f), nil
}

func fromUint(u uint64) (int64, error) {
	if u > MaxIPv4 {
		return 0, fmt.Errorf("%w: %d", ErrOutOfRange, u)
	}
	return int64(u), nil
}
