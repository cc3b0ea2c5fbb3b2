package extract

import (
	"regexp"
	"strings"
)

// Script extracts double-quoted string literals from script sources.
// Literals in scripts are mostly not localization keys, so a filter
// pattern is mandatory for this kind.
type Script struct{}

func NewScript() *Script { return &Script{} }

func (*Script) Kind() string       { return "script" }
func (*Script) Section() string    { return "scripts" }
func (*Script) NeedsPattern() bool { return true }

// scriptStringPattern matches a double-quoted literal with escapes.
var scriptStringPattern = regexp.MustCompile(`"([^"\\]*(?:\\.[^"\\]*)*)"`)

func (*Script) Extract(text string, pattern *regexp.Regexp) []string {
	if pattern == nil {
		return nil
	}

	var out []string
	inBlockComment := false

	for _, line := range strings.Split(text, "\n") {
		if inBlockComment {
			end := strings.Index(line, "*/")
			if end < 0 {
				continue
			}
			line = line[end+2:]
			inBlockComment = false
		}

		codePart := line
		if idx := strings.Index(codePart, "/*"); idx >= 0 && !insideString(codePart, idx) {
			rest := codePart[idx+2:]
			if end := strings.Index(rest, "*/"); end >= 0 {
				codePart = codePart[:idx] + rest[end+2:]
			} else {
				codePart = codePart[:idx]
				inBlockComment = true
			}
		}
		if idx := strings.Index(codePart, "//"); idx >= 0 && !insideString(codePart, idx) {
			codePart = codePart[:idx]
		}

		for _, m := range scriptStringPattern.FindAllStringSubmatch(codePart, -1) {
			candidate := m[1]
			if candidate == "" || !pattern.MatchString(candidate) {
				continue
			}
			out = append(out, candidate)
		}
	}

	return out
}

// insideString reports whether position idx falls inside a
// double-quoted literal.
func insideString(line string, idx int) bool {
	in := false
	for i := 0; i < idx && i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '"':
			in = !in
		}
	}
	return in
}
