package encoder

import (
	"context"
	"errors"
	"testing"
)

func TestUnconfiguredClient(t *testing.T) {
	c := NewClient("")
	if err := c.Encode(context.Background(), "mod.csv", 5018, false); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("Encode err = %v, want ErrNotConfigured", err)
	}
	if err := c.Decode(context.Background(), "en.w3strings"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("Decode err = %v, want ErrNotConfigured", err)
	}
}
