package archive

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ExportMessages writes the selected messages of one archive out as .eml
// files under destDir/<archive name>/<identifier>.eml. Identifiers that do
// not exist in the archive are logged and skipped. Returns the number of
// messages written.
func ExportMessages(path string, ids []int64, destDir string, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}

	arc, err := Open(path)
	if err != nil {
		return 0, err
	}
	defer arc.Close()

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outDir := filepath.Join(destDir, stem)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create export directory: %w", err)
	}

	written := 0
	for _, id := range ids {
		msg, err := arc.MessageByID(id)
		if err != nil {
			if errors.Is(err, ErrMessageNotFound) {
				logger.Warn("Skipping unknown message", "path", path, "id", id)
				continue
			}
			return written, err
		}

		name := filepath.Join(outDir, fmt.Sprintf("%d.eml", id))
		if err := os.WriteFile(name, msg.Raw, 0o644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", name, err)
		}

		logger.Info("Exported message", "path", path, "id", id, "dest", name)
		written++
	}

	return written, nil
}
