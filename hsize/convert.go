package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

const maxExponent = 8

var suffixes = [...]string{"B", "KiB", "MiB", "GiB", "TiB", "PiB", "EiB", "ZiB", "YiB"}

// unitAliases is indexed by exponent. A token belongs to an exponent if it
// starts with any of that exponent's aliases, so "Mbytes" and "mib" both
// resolve to 2.
var unitAliases = [...][]string{
	0: {"b", "byte"},
	1: {"kb", "kilo", "kbyte", "kib", "k"},
	2: {"mb", "mega", "mbyte", "mib", "m"},
	3: {"gb", "giga", "gbyte", "gib", "g"},
	4: {"tb", "tera", "tbyte", "tib", "t"},
	5: {"pb", "peta", "pbyte", "pib", "p"},
	6: {"eb", "exa", "ebyte", "eib", "e"},
	7: {"zb", "zetta", "zeta", "zib", "z"},
	8: {"yb", "yotta", "yota", "yib", "y"},
}

var (
	errMissingValue = errors.New("no numeric value")
	errBadExponent  = errors.New("exponent out of range")
)

type config struct {
	inputUnit  string
	outputUnit string
	base       int
}

// parseUnit maps a free-form unit token to its exponent. Unknown tokens
// resolve to bytes, never an error.
func parseUnit(token string) int {
	token = strings.ToLower(token)
	for exp, aliases := range unitAliases {
		for _, alias := range aliases {
			if strings.HasPrefix(token, alias) {
				return exp
			}
		}
	}

	return 0
}

func factor(exp, base int) float64 {
	f := 1.0
	for i := 0; i < exp; i++ {
		f *= float64(base)
	}

	return f
}

func convertFixed(bytes float64, exp, base int) float64 {
	return bytes / factor(exp, base)
}

// scale picks the smallest exponent that brings the value under the base.
// Capped at the last mapped unit, the value may exceed the base there.
func scale(bytes float64, base int) (float64, int) {
	exp := 0
	v := bytes
	for v >= float64(base) && exp < maxExponent {
		exp++
		v = bytes / factor(exp, base)
	}

	return v, exp
}

func unitSuffix(exp int) (string, error) {
	if exp < 0 || exp > maxExponent {
		return "", fmt.Errorf("%w: %v", errBadExponent, exp)
	}

	return suffixes[exp], nil
}

func formatSize(v float64, suffix string) string {
	return fmt.Sprintf("%7.2f %s", v, suffix)
}

// convertField rewrites a raw field value as a formatted size. The first
// run of digits and dots is the magnitude, the first run of letters is the
// unit token unless the config overrides it. Returns the exponent the
// value was scaled to alongside the formatted string.
func convertField(field string, cfg config) (string, int, error) {
	num := firstRun(field, isNumeric)
	if num == "" {
		return "", 0, fmt.Errorf("%w in %q", errMissingValue, field)
	}

	value, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return "", 0, fmt.Errorf("%w in %q: %v", errMissingValue, field, err)
	}

	token := cfg.inputUnit
	if token == "" {
		token = firstRun(field, unicode.IsLetter)
	}
	if token == "" {
		token = "b"
	}

	bytes := value * factor(parseUnit(token), cfg.base)

	if cfg.outputUnit != "" {
		// Explicit output unit echoes the token as given, not the
		// normalized suffix.
		v := convertFixed(bytes, parseUnit(cfg.outputUnit), cfg.base)
		return formatSize(v, cfg.outputUnit), parseUnit(cfg.outputUnit), nil
	}

	v, exp := scale(bytes, cfg.base)
	suffix, err := unitSuffix(exp)
	if err != nil {
		return "", 0, err
	}

	return formatSize(v, suffix), exp, nil
}

// firstRun returns the first contiguous run of runes matching match.
func firstRun(s string, match func(rune) bool) string {
	start := -1
	for i, r := range s {
		switch {
		case match(r) && start < 0:
			start = i
		case !match(r) && start >= 0:
			return s[start:i]
		}
	}
	if start < 0 {
		return ""
	}

	return s[start:]
}

func isNumeric(r rune) bool {
	return r == '.' || (r >= '0' && r <= '9')
}
