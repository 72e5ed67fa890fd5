package document

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

const maxNameLength = 40

var (
	nameDisallowed = regexp.MustCompile(`[^a-zA-Z0-9 _-]+`)
	colorPattern   = regexp.MustCompile(`^#([a-fA-F0-9]{6}|[a-fA-F0-9]{8})$`)
	numberList     = regexp.MustCompile(`^\s*\d+(\s*,\s*\d+)*\s*$`)
)

// SanitizeName keeps letters, digits, space, underscore and dash and
// truncates to 40 characters. An empty name becomes "Untitled".
func SanitizeName(s string) string {
	if s == "" {
		return "Untitled"
	}
	s = nameDisallowed.ReplaceAllString(s, "")
	if len(s) > maxNameLength {
		s = s[:maxNameLength]
	}
	return s
}

// SanitizeColor accepts #RRGGBB and #RRGGBBAA and returns it upper-cased.
// Anything else yields "", meaning no color.
func SanitizeColor(s string) string {
	s = strings.TrimSpace(s)
	if !colorPattern.MatchString(s) {
		return ""
	}
	return strings.ToUpper(s)
}

// ParseNumberList parses a comma separated list of non-negative integers,
// as used for line dash patterns. Malformed input yields nil.
func ParseNumberList(s string) []float64 {
	s = strings.TrimSpace(s)
	if s == "" || !numberList.MatchString(s) {
		return nil
	}

	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil
		}
		out = append(out, v)
	}
	return out
}

// FormatNumberList is the inverse of ParseNumberList.
func FormatNumberList(values []float64, sep string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, sep)
}

// PrintableASCII drops every character outside 0x20-0x7E.
func PrintableASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e {
			return -1
		}
		return r
	}, s)
}

// FormatNumber rounds v to the given number of decimals and drops
// trailing zeros.
func FormatNumber(v float64, decimals int) string {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', decimals, 64), 64)
	if err != nil {
		return "NaN"
	}
	if rounded == 0 {
		rounded = 0 // normalize -0
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

// QuoteJS returns s as a JavaScript string literal. encoding/json escapes
// '<' so the literal is also safe inside a script element.
func QuoteJS(s string) string {
	data, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(data)
}
