// Package encoder wraps the native w3strings binary. This tool only
// prepares and consumes CSV at that boundary; the binary table format
// itself is never interpreted here.
package encoder

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/rs/zerolog/log"
)

// forceFlag disables the encoder's own id-space check.
const forceFlag = "--force-ignore-id-space-check-i-know-what-i-am-doing"

// ErrNotConfigured is returned when no encoder binary path is set.
var ErrNotConfigured = errors.New("encoder path not configured (set W3_ENCODER_PATH)")

// Client invokes the external encoder/decoder binary.
type Client struct {
	Path string
}

func NewClient(path string) *Client { return &Client{Path: path} }

// Encode turns a fully specified CSV into the binary string table.
// space is passed to the encoder for its own validation unless force
// is set, which skips the check entirely.
func (c *Client) Encode(ctx context.Context, csvPath string, space uint32, force bool) error {
	args := []string{"-e", csvPath}
	if force {
		args = append(args, forceFlag)
	} else {
		args = append(args, "-i", strconv.FormatUint(uint64(space), 10))
	}
	return c.run(ctx, args)
}

// Decode turns a binary string table back into a complete-entry CSV
// next to the input, which parses like any hand-authored CSV.
func (c *Client) Decode(ctx context.Context, w3Path string) error {
	return c.run(ctx, []string{"-d", w3Path})
}

func (c *Client) run(ctx context.Context, args []string) error {
	if c.Path == "" {
		return ErrNotConfigured
	}

	cmd := exec.CommandContext(ctx, c.Path, args...)
	log.Info().Str("encoder", c.Path).Strs("args", args).Msg("Invoking encoder")

	output, err := cmd.CombinedOutput()
	if len(output) > 0 {
		log.Debug().Str("output", string(output)).Msg("Encoder output")
	}
	if err != nil {
		return fmt.Errorf("encoder %v: %w: %s", args, err, output)
	}
	return nil
}
