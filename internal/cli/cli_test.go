package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEncodeReplacesInputInPlace(t *testing.T) {
	t.Setenv("W3_ENCODER_PATH", "")
	t.Setenv("W3_ID_BASE", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "mod.csv")
	input := ";idspace=5018\npanel_a|A\n"
	if err := os.WriteFile(path, []byte(input), 0644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	// No encoder configured: the command compiles and rewrites the CSV.
	if err := runEncode(path, "", "", false, false); err != nil {
		t.Fatalf("runEncode: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	got := string(raw)
	if !strings.HasPrefix(got, ";meta[language=en]\n") {
		t.Fatalf("compiled CSV lacks synthesized header:\n%s", got)
	}
	if !strings.Contains(got, "2115018000|") {
		t.Fatalf("shorthand entry not promoted in place:\n%s", got)
	}
}

func TestEncodeDryRunWritesNothing(t *testing.T) {
	t.Setenv("W3_ENCODER_PATH", "")
	t.Setenv("W3_ID_BASE", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "mod.csv")
	input := ";idspace=5018\npanel_a|A\n"
	if err := os.WriteFile(path, []byte(input), 0644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	if err := runEncode(path, "", "", false, true); err != nil {
		t.Fatalf("runEncode: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read input back: %v", err)
	}
	if string(raw) != input {
		t.Fatalf("dry run modified the input:\n%s", raw)
	}
}

func TestEncodeCompileErrorLeavesInput(t *testing.T) {
	t.Setenv("W3_ENCODER_PATH", "")
	t.Setenv("W3_ID_BASE", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "mod.csv")
	input := "panel_a|A\n" // no space determinable
	if err := os.WriteFile(path, []byte(input), 0644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	if err := runEncode(path, "", "", false, false); err == nil {
		t.Fatalf("expected compile error")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read input back: %v", err)
	}
	if string(raw) != input {
		t.Fatalf("failed compile modified the input:\n%s", raw)
	}
}
