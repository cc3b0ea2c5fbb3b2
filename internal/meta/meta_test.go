package meta

import (
	"errors"
	"testing"

	"locforge/internal/record"
)

func TestLanguageFromFileName(t *testing.T) {
	cases := []struct {
		file string
		want string
	}{
		{"w3ee.en.final.csv", "en"},
		{"mod.ar.csv", Cleartext},
		{"pl.csv", "pl"},
		{"some/dir/mymod.esmx.csv", "esmx"},
		{"strings.csv", "en"},
		{"english.csv", "en"}, // "english" is not a tag
	}
	for _, tc := range cases {
		if got := LanguageFromFileName(tc.file, "en"); got != tc.want {
			t.Errorf("LanguageFromFileName(%q) = %q, want %q", tc.file, got, tc.want)
		}
	}
}

func TestResolveMetaOverridesFileName(t *testing.T) {
	lines := []string{
		"; some comment",
		";meta[language=de]",
		"key|text",
	}
	h, err := Resolve("mod.en.csv", lines, "en")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if h.Language != "de" {
		t.Fatalf("language = %q, want de (directive wins over file name)", h.Language)
	}
}

func TestResolveMetaSpacesInsignificant(t *testing.T) {
	h, err := Resolve("strings.csv", []string{"; meta [ language = cleartext ]"}, "en")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if h.Language != Cleartext {
		t.Fatalf("language = %q, want cleartext", h.Language)
	}
}

func TestResolveIDSpace(t *testing.T) {
	h, err := Resolve("strings.csv", []string{";idspace=5018"}, "en")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if h.IDSpace == nil || *h.IDSpace != 5018 {
		t.Fatalf("idspace = %v, want 5018", h.IDSpace)
	}
}

func TestResolveIDSpaceDuplicate(t *testing.T) {
	_, err := Resolve("strings.csv", []string{";idspace=5018", ";idspace=5018"}, "en")
	if !errors.Is(err, record.ErrInvalidDirective) {
		t.Fatalf("err = %v, want ErrInvalidDirective", err)
	}
}

func TestResolveIDSpaceMalformed(t *testing.T) {
	_, err := Resolve("strings.csv", []string{";idspace=lots"}, "en")
	if !errors.Is(err, record.ErrInvalidDirective) {
		t.Fatalf("err = %v, want ErrInvalidDirective", err)
	}
	var le *record.LineError
	if !errors.As(err, &le) || le.Line != 1 {
		t.Fatalf("offending line not reported: %v", err)
	}
}

func TestResolveStopsAtFirstEntry(t *testing.T) {
	lines := []string{
		"key|text",
		";idspace=5018",
	}
	h, err := Resolve("strings.csv", lines, "en")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if h.IDSpace != nil {
		t.Fatalf("directive after entries must not be interpreted, got %v", *h.IDSpace)
	}
}

func TestParseSection(t *testing.T) {
	name, ok := ParseSection(";section=scripts")
	if !ok || name != "scripts" {
		t.Fatalf("ParseSection = %q, %v", name, ok)
	}
	if _, ok := ParseSection("; just a comment"); ok {
		t.Fatalf("plain comment must not parse as section")
	}
}

func TestIsColumnHeader(t *testing.T) {
	if !IsColumnHeader("; id      |key(hex)|key(str)|text") {
		t.Fatalf("decode-output column header not recognized")
	}
	if IsColumnHeader("; identifiers are assigned downstream") {
		t.Fatalf("prose comment misrecognized as column header")
	}
}
