package extract

import (
	"regexp"
	"strings"
)

// Language models wrap JSON in prose, code fences, smart quotes, and other
// markdown artifacts even when asked for a bare object. Sanitize normalizes
// a raw completion down to the first balanced JSON object, repaired enough
// for a strict parser.
func Sanitize(raw string) string {
	s := normalizeQuotes(raw)
	s = stripCodeFences(s)
	s = extractJSONObject(s)
	if s == "" {
		return ""
	}
	s = quoteBareKeys(s)
	s = removeTrailingCommas(s)
	return s
}

// stripCodeFences drops markdown fence lines (``` and ```json) wholesale.
func stripCodeFences(s string) string {
	if !strings.Contains(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// extractJSONObject returns the first balanced top-level object found by
// brace-depth counting, ignoring braces inside string literals. Returns ""
// when no balanced object exists.
func extractJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

var (
	smartQuoteReplacer = strings.NewReplacer(
		"“", `"`, "”", `"`, // curly double quotes
		"‘", "'", "’", "'", // curly single quotes
	)
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	bareKeyRe       = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
)

func normalizeQuotes(s string) string {
	return smartQuoteReplacer.Replace(s)
}

func removeTrailingCommas(s string) string {
	return trailingCommaRe.ReplaceAllString(s, "$1")
}

func quoteBareKeys(s string) string {
	return bareKeyRe.ReplaceAllString(s, `$1"$2":`)
}
