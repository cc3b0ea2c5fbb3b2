package filewalker

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWalkDiscoversSources(t *testing.T) {
	dir := t.TempDir()

	write := func(rel, content string) {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	write("bin/config/r4game/user_config_matrix/pc/mod.xml", "<UserConfig/>")
	write("mods/modFoo/content/scripts/game/foo.ws", "function f() {}")
	write("mods/modFoo/readme.txt", "not a source")

	entries, err := Walk(dir)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("discovered %d files, want 2: %+v", len(entries), entries)
	}

	kinds := make(map[string]string)
	for _, e := range entries {
		kinds[e.Ext] = e.Strategy.Kind()
	}
	if kinds[".xml"] != "menuxml" || kinds[".ws"] != "script" {
		t.Fatalf("strategies misassigned: %v", kinds)
	}
}

func TestWalkRejectsFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "single.ws")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Walk(path); err == nil {
		t.Fatalf("Walk on a plain file must fail")
	}
}
