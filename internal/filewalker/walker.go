package filewalker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"locforge/internal/extract"

	"github.com/rs/zerolog/log"
)

// extensionStrategies maps source extensions to their extraction
// strategy.
var extensionStrategies = map[string]extract.Strategy{
	".xml": extract.NewMenuXML(),
	".ws":  extract.NewScript(),
}

// FileEntry is a discovered source file paired with the strategy that
// will scan it.
type FileEntry struct {
	Path     string
	Ext      string
	Strategy extract.Strategy
}

// Walk discovers all extractable source files under root.
func Walk(root string) ([]FileEntry, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	var entries []FileEntry

	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			return nil
		}
		if info.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		strategy, ok := extensionStrategies[ext]
		if !ok {
			return nil
		}

		entries = append(entries, FileEntry{
			Path:     path,
			Ext:      ext,
			Strategy: strategy,
		})
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	log.Info().Int("count", len(entries)).Str("root", root).Msg("Discovered source files")
	return entries, nil
}
