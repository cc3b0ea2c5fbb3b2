// Package meta resolves the header metadata of a localization CSV:
// the target language (from the file name or an explicit directive)
// and the optional declared ID space.
package meta

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"locforge/internal/record"
)

// Cleartext is the language sentinel the encoder uses for its
// non-Latin-script bucket.
const Cleartext = "cleartext"

// knownLangs are the language tags the encoder accepts.
var knownLangs = map[string]bool{
	"ar": true, "br": true, "cn": true, "cz": true, "de": true,
	"en": true, "es": true, "esmx": true, "fr": true, "hu": true,
	"it": true, "jp": true, "kr": true, "pl": true, "ru": true,
	"tr": true, "zh": true,
}

// cleartextLangs are tags whose strings the encoder stores in its
// cleartext bucket rather than under the tag itself.
var cleartextLangs = map[string]bool{
	"ar": true,
}

// KnownLanguage reports whether tag is a language the encoder accepts.
func KnownLanguage(tag string) bool {
	return knownLangs[tag] || tag == Cleartext
}

var (
	metaPattern      = regexp.MustCompile(`^;meta\[language=([A-Za-z]+)\]$`)
	idSpacePattern   = regexp.MustCompile(`^;idspace=(.*)$`)
	sectionPattern   = regexp.MustCompile(`^;\s*section\s*=\s*(\S.*)$`)
	columnHeaderLike = regexp.MustCompile(`^;\s*id\s*\|`)
)

// ParseMeta recognizes a ;meta[language=...] directive. Spaces are
// insignificant, matching how the encoder's own output is read.
func ParseMeta(line string) (lang string, ok bool) {
	m := metaPattern.FindStringSubmatch(stripSpaces(line))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ParseIDSpace recognizes a ;idspace=<int> directive. ok is true when
// the line is an idspace directive at all; err is set when its value
// does not parse as a 32-bit unsigned integer.
func ParseIDSpace(line string) (space uint32, ok bool, err error) {
	m := idSpacePattern.FindStringSubmatch(stripSpaces(line))
	if m == nil {
		return 0, false, nil
	}
	n, err := strconv.ParseUint(m[1], 10, 32)
	if err != nil {
		return 0, true, fmt.Errorf("%w: bad idspace value %q", record.ErrInvalidDirective, m[1])
	}
	return uint32(n), true, nil
}

// ParseSection recognizes a ;section=<name> marker.
func ParseSection(line string) (name string, ok bool) {
	m := sectionPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// IsColumnHeader reports whether line is the column-header comment
// emitted by the encoder's decode output.
func IsColumnHeader(line string) bool {
	return columnHeaderLike.MatchString(line)
}

// Resolve deduces the Header for a CSV source from its file name and
// its leading comment lines. A well-formed ;meta[language=...] line
// wins over the file name; the file name wins over defaultLang. At
// most one ;idspace declaration is accepted.
func Resolve(fileName string, lines []string, defaultLang string) (record.Header, error) {
	h := record.Header{Language: LanguageFromFileName(fileName, defaultLang)}

	seenMeta := false
	seenIDSpace := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, ";") {
			// Header region ends at the first entry line.
			break
		}

		if lang, ok := ParseMeta(trimmed); ok {
			if !seenMeta {
				h.Language = lang
				seenMeta = true
			}
			continue
		}
		space, ok, err := ParseIDSpace(trimmed)
		if !ok {
			continue
		}
		if err != nil {
			return record.Header{}, record.AtLine(i+1, err)
		}
		if seenIDSpace {
			return record.Header{}, record.AtLine(i+1, fmt.Errorf("%w: duplicate idspace declaration", record.ErrInvalidDirective))
		}
		seenIDSpace = true
		s := space
		h.IDSpace = &s
	}

	return h, nil
}

// LanguageFromFileName deduces the language from the file's base name:
// the first dot-separated component matching a known tag wins, with
// non-Latin-script tags mapped to the cleartext sentinel.
func LanguageFromFileName(fileName, defaultLang string) string {
	base := filepath.Base(fileName)
	for _, part := range strings.Split(base, ".") {
		if !knownLangs[part] {
			continue
		}
		if cleartextLangs[part] {
			return Cleartext
		}
		return part
	}
	return defaultLang
}

func stripSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "")
}
