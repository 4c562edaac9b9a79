package archive

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alexey523/libratom/extract"
)

// FileSource adapts a list of archive files into a stream of extraction
// jobs. Files that fail to open are logged and skipped; the run continues
// with the remaining files.
type FileSource struct {
	paths  []string
	logger *slog.Logger
}

// NewFileSource creates a source over the given archive paths. A nil logger
// falls back to slog.Default().
func NewFileSource(paths []string, logger *slog.Logger) *FileSource {
	if logger == nil {
		logger = slog.Default()
	}

	return &FileSource{paths: paths, logger: logger}
}

// ForEach streams one job per message, file by file, in the order the paths
// were given.
func (s *FileSource) ForEach(ctx context.Context, fn func(extract.Job) bool) error {
	for _, path := range s.paths {
		if err := ctx.Err(); err != nil {
			return err
		}

		arc, err := Open(path)
		if err != nil {
			s.logger.Info("Skipping unreadable file", "path", path, "error", err)
			continue
		}

		stopped := false
		err = arc.Messages(ctx, func(m Message) bool {
			job := extract.Job{
				Filepath:    path,
				MessageID:   m.Identifier,
				Body:        m.Text(),
				Attachments: m.Attachments,
			}
			if !fn(job) {
				stopped = true
				return false
			}
			return true
		})

		if closeErr := arc.Close(); closeErr != nil {
			s.logger.Debug("Failed to close archive", "path", path, "error", closeErr)
		}
		if err != nil {
			s.logger.Warn("Error reading archive, moving on", "path", path, "error", err)
		}
		if stopped {
			return nil
		}
	}

	return nil
}

// CollectFiles resolves root into the list of archive files to process. A
// directory is walked recursively for files with supported extensions; a
// plain file is returned as-is. Results are sorted for a stable run order.
func CollectFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return []string{root}, nil
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".mbox", ".pst", ".ost":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}
