package merge

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"locforge/internal/compiler"
	"locforge/internal/record"
)

func sections(names ...string) []record.Section {
	var out []record.Section
	for _, n := range names {
		parts := strings.SplitN(n, "/", 2)
		found := false
		for i := range out {
			if out[i].Name == parts[0] {
				out[i].Entries = append(out[i].Entries, record.NewAbbreviated(parts[1], ""))
				found = true
			}
		}
		if !found {
			out = append(out, record.Section{
				Name:    parts[0],
				Entries: []record.Entry{record.NewAbbreviated(parts[1], "")},
			})
		}
	}
	return out
}

func marshalLines(set *record.Set) []string {
	return strings.Split(strings.TrimRight(string(set.Marshal()), "\n"), "\n")
}

func TestMergeFresh(t *testing.T) {
	got := Merge(nil, sections("scripts/mod_msg_saved", "menus/panel_a", "scripts/mod_msg_loaded"))

	want := []string{
		";meta[language=en]",
		"; id      |key(hex)|key(str)|text",
		";section=scripts",
		"mod_msg_saved|",
		"mod_msg_loaded|",
		";section=menus",
		"panel_a|",
	}
	if diff := cmp.Diff(want, marshalLines(got)); diff != "" {
		t.Fatalf("fresh merge mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeIdempotent(t *testing.T) {
	incoming := sections("scripts/mod_msg_saved", "menus/panel_a")

	once := Merge(nil, incoming)
	twice := Merge(once, incoming)

	if diff := cmp.Diff(marshalLines(once), marshalLines(twice)); diff != "" {
		t.Fatalf("second merge changed the file:\n%s", diff)
	}
}

func TestMergePreservesExistingText(t *testing.T) {
	existing := &record.Set{
		Header: record.Header{Language: "en"},
		Lines: []record.Line{
			record.CommentLine(";section=scripts"),
			record.EntryLine(record.NewAbbreviated("mod_msg_saved", "Game saved.")),
		},
	}

	merged := Merge(existing, sections("scripts/mod_msg_saved", "scripts/mod_msg_loaded"))

	var saved record.Entry
	for _, e := range merged.Entries() {
		if e.StringKey() == "mod_msg_saved" {
			saved = e
		}
	}
	if saved.Text() != "Game saved." {
		t.Fatalf("existing translation overwritten: %q", saved.Text())
	}
	if len(merged.Entries()) != 2 {
		t.Fatalf("expected exactly 2 entries, got %d", len(merged.Entries()))
	}
}

func TestMergeKeyPresentInOtherSection(t *testing.T) {
	existing := &record.Set{
		Header: record.Header{Language: "en"},
		Lines: []record.Line{
			record.CommentLine(";section=menus"),
			record.EntryLine(record.NewAbbreviated("shared_key", "translated")),
		},
	}

	merged := Merge(existing, sections("scripts/shared_key"))
	if len(merged.Entries()) != 1 {
		t.Fatalf("key present in another section must be dropped, got %d entries", len(merged.Entries()))
	}
	for _, l := range merged.Lines {
		if l.Kind == record.LineComment && strings.Contains(l.Comment, "scripts") {
			t.Fatalf("empty incoming section must not create a marker")
		}
	}
}

func TestMergeAppendsAfterMatchingSection(t *testing.T) {
	existing := &record.Set{
		Header: record.Header{Language: "en"},
		Lines: []record.Line{
			record.CommentLine(";section=scripts"),
			record.EntryLine(record.NewComplete(2115018000, "aa", "mod_msg_saved", "Saved.")),
			record.CommentLine(";section=menus"),
			record.EntryLine(record.NewAbbreviated("panel_a", "")),
		},
	}

	merged := Merge(existing, sections("scripts/mod_msg_loaded", "credits/mod_author"))

	want := []string{
		";meta[language=en]",
		"; id      |key(hex)|key(str)|text",
		";section=scripts",
		"2115018000|aa|mod_msg_saved|Saved.",
		"mod_msg_loaded|",
		";section=menus",
		"panel_a|",
		";section=credits",
		"mod_author|",
	}
	if diff := cmp.Diff(want, marshalLines(merged)); diff != "" {
		t.Fatalf("merge placement mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mod.csv")

	c := compiler.New(compiler.Options{})

	if _, ok, err := LoadFile(c, path); err != nil || ok {
		t.Fatalf("missing file: ok=%v err=%v, want absent and no error", ok, err)
	}

	set := Merge(nil, sections("scripts/mod_msg_saved"))
	if err := WriteFile(path, set); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	loaded, ok, err := LoadFile(c, path)
	if err != nil || !ok {
		t.Fatalf("LoadFile: ok=%v err=%v", ok, err)
	}
	if diff := cmp.Diff(marshalLines(set), marshalLines(loaded)); diff != "" {
		t.Fatalf("round trip mismatch:\n%s", diff)
	}

	// Atomic write leaves no temp residue behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "mod.csv" {
		t.Fatalf("unexpected directory contents: %v", entries)
	}
}

func TestMergeFileTwiceOnDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mod.csv")

	c := compiler.New(compiler.Options{})
	incoming := sections("scripts/mod_msg_saved", "menus/panel_a")

	for i := 0; i < 2; i++ {
		existing, _, err := LoadFile(c, path)
		if err != nil {
			t.Fatalf("LoadFile: %v", err)
		}
		if err := WriteFile(path, Merge(existing, incoming)); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	first := Merge(nil, incoming)
	if diff := cmp.Diff(string(first.Marshal()), string(raw)); diff != "" {
		t.Fatalf("merging twice differs from merging once:\n%s", diff)
	}
}
