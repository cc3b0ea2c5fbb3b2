package extract

import "regexp"

// MenuXML extracts localization keys from mod menu XML: values of the
// display-name attribute family. These are already key-shaped, so a
// filter pattern is optional.
type MenuXML struct{}

func NewMenuXML() *MenuXML { return &MenuXML{} }

func (*MenuXML) Kind() string       { return "menuxml" }
func (*MenuXML) Section() string    { return "menus" }
func (*MenuXML) NeedsPattern() bool { return false }

// menuAttrPattern matches the attributes whose values name
// localization keys in menu definitions.
var menuAttrPattern = regexp.MustCompile(`(?:displayName|localisationKeyName|localisationKeyDescription|localisationKey)\s*=\s*"([^"]*)"`)

func (*MenuXML) Extract(text string, pattern *regexp.Regexp) []string {
	var out []string
	for _, m := range menuAttrPattern.FindAllStringSubmatch(text, -1) {
		candidate := m[1]
		if candidate == "" {
			continue
		}
		if pattern != nil && !pattern.MatchString(candidate) {
			continue
		}
		out = append(out, candidate)
	}
	return out
}
