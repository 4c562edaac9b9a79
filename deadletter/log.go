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


package deadletter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/google/uuid"

	"github.com/alexey523/libratom/extract"
)

const keyPrefix = "dl:"

// Log is a BadgerDB-backed recorder for dropped commit batches. It
// implements the pipeline's BatchRecorder interface.
type Log struct {
	db     *badger.DB
	logger *slog.Logger
}

var _ extract.BatchRecorder = (*Log)(nil)

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// Open opens (or creates) a dead-letter log at dirPath. An empty dirPath
// opens an in-memory log, useful in tests.
func Open(dirPath string, logger *slog.Logger) (*Log, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var opts badger.Options
	if dirPath == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(dirPath, 0o755); err != nil {
			return nil, err
		}
		opts = badger.DefaultOptions(dirPath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: logger}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open dead-letter log: %w", err)
	}

	return &Log{db: db, logger: logger}, nil
}

// Record persists one dropped batch. Keys are ordered by drop time, with a
// UUID suffix so two drops in the same nanosecond cannot collide.
func (l *Log) Record(ctx context.Context, batch extract.DroppedBatch) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("failed to encode dropped batch: %w", err)
	}

	key := fmt.Sprintf("%s%020d:%s", keyPrefix, batch.Time.UnixNano(), uuid.NewString())

	err = l.db.Update(func(tx *badger.Txn) error {
		return tx.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("failed to record dropped batch: %w", err)
	}

	l.logger.Warn("Recorded dropped batch",
		"messages", len(batch.Messages),
		"entities", batch.EntityCount,
		"reason", batch.Reason)

	return nil
}

// List returns all recorded batches in drop order.
func (l *Log) List(ctx context.Context) ([]extract.DroppedBatch, error) {
	var batches []extract.DroppedBatch

	err := l.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)

		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			err := iter.Item().Value(func(val []byte) error {
				var batch extract.DroppedBatch
				if err := json.Unmarshal(val, &batch); err != nil {
					return err
				}
				batches = append(batches, batch)
				return nil
			})
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return batches, nil
}

// Close closes the underlying store.
func (l *Log) Close() error {
	return l.db.Close()
}
