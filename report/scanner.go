// Copyright 2026 The libratom Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package report

import (
	"context"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alexey523/libratom/archive"
	"github.com/alexey523/libratom/core"
	"github.com/alexey523/libratom/storage"
)

// Scan builds and persists a file report for every path, in one commit.
// Files that cannot be read or counted are logged and skipped; they simply
// get no report, and their messages will later persist with a null file
// link. Returns the reports that were persisted.
func Scan(ctx context.Context, session storage.Session, paths []string, logger *slog.Logger) ([]*core.FileReport, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var reports []*core.FileReport
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rpt, err := scanFile(path)
		if err != nil {
			logger.Warn("Skipping file report", "path", path, "error", err)
			continue
		}

		session.AddFileReport(rpt)
		reports = append(reports, rpt)
		logger.Debug("Scanned file",
			"path", path, "size", rpt.Size, "messages", rpt.MsgCount)
	}

	if err := session.Commit(ctx); err != nil {
		session.Rollback()
		return nil, fmt.Errorf("failed to persist file reports: %w", err)
	}

	return reports, nil
}

// scanFile stats, digests and counts one archive file.
func scanFile(path string) (*core.FileReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	md5Hash := md5.New()
	sha256Hash := sha256.New()
	if _, err := io.Copy(io.MultiWriter(md5Hash, sha256Hash), f); err != nil {
		return nil, fmt.Errorf("failed to digest file: %w", err)
	}

	arc, err := archive.Open(path)
	if err != nil {
		return nil, err
	}
	defer arc.Close()

	count, err := arc.MessageCount()
	if err != nil {
		return nil, err
	}

	return &core.FileReport{
		Path:     path,
		Name:     filepath.Base(path),
		Size:     info.Size(),
		MD5:      hex.EncodeToString(md5Hash.Sum(nil)),
		SHA256:   hex.EncodeToString(sha256Hash.Sum(nil)),
		MsgCount: count,
	}, nil
}
