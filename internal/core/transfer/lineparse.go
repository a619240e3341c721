package transfer

import (
	"regexp"
	"strings"
)

// LineParser extracts the two fields of a delimited-text data line. ok is
// false when the strategy does not apply to the line.
type LineParser func(line string) (first, second string, ok bool)

// LineParsers are tried in order; the first one that applies wins.
var LineParsers = []LineParser{
	ParseQuotedPair,
	ParseUnquotedPair,
	ParseNaiveSplit,
}

var (
	quotedFieldRe   = regexp.MustCompile(`"((?:[^"]|"")+)"`)
	unquotedFieldRe = regexp.MustCompile(`^([^,]+),(.+)$`)
)

// ParseLine runs LineParsers over line.
func ParseLine(line string) (first, second string, ok bool) {
	for _, p := range LineParsers {
		if first, second, ok = p(line); ok {
			return first, second, true
		}
	}
	return "", "", false
}

// ParseQuotedPair takes the first two non-empty double-quoted fields. A
// doubled quote inside a field reads as one literal quote.
func ParseQuotedPair(line string) (string, string, bool) {
	m := quotedFieldRe.FindAllStringSubmatch(line, 2)
	if len(m) < 2 {
		return "", "", false
	}
	return unquote(m[0][1]), unquote(m[1][1]), true
}

func unquote(field string) string {
	return strings.ReplaceAll(field, `""`, `"`)
}

// ParseUnquotedPair splits on the first comma and trims both sides.
func ParseUnquotedPair(line string) (string, string, bool) {
	m := unquotedFieldRe.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), true
}

// ParseNaiveSplit splits on every comma, trims each part and strips one
// leading and trailing quote.
func ParseNaiveSplit(line string) (string, string, bool) {
	parts := strings.Split(line, ",")
	if len(parts) < 2 {
		return "", "", false
	}
	clean := func(s string) string {
		s = strings.TrimSpace(s)
		s = strings.TrimPrefix(s, `"`)
		return strings.TrimSuffix(s, `"`)
	}
	return clean(parts[0]), clean(parts[1]), true
}
