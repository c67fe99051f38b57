package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"reqboard/application/workspace"
	"reqboard/domain/config"
	pkgerrors "reqboard/pkg/errors"
)

// timeNow is swapped in tests for deterministic default synthesis
var timeNow = time.Now

// Store persists the workspace as a single JSON file. Saves are atomic:
// the document is written to a temp file in the target directory, synced,
// and renamed over the destination, so readers never observe a torn file.
type Store struct {
	path   string
	codec  *Codec
	logger *zap.Logger
}

// NewStore creates a store writing to the given path
func NewStore(path string, cfg *config.DomainConfig, logger *zap.Logger) *Store {
	return &Store{
		path:   path,
		codec:  NewCodec(cfg),
		logger: logger,
	}
}

// Path returns the backing file path
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the backing file is present
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Save writes the state atomically
func (s *Store) Save(ctx context.Context, state *workspace.State) error {
	if err := ctx.Err(); err != nil {
		return pkgerrors.NewIOError("save", err)
	}

	data, err := json.MarshalIndent(s.codec.Encode(state), "", "  ")
	if err != nil {
		return pkgerrors.NewIOError("save", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return pkgerrors.NewIOError("save", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return pkgerrors.NewIOError("save", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return pkgerrors.NewIOError("save", err)
	}
	if err := tmp.Close(); err != nil {
		return pkgerrors.NewIOError("save", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return pkgerrors.NewIOError("save", err)
	}

	s.logger.Debug("state written", zap.String("path", s.path), zap.Int("bytes", len(data)))
	return nil
}

// Load reads and decodes the backing file into a fresh state. A malformed
// file is an IO error; no partially decoded state is returned.
func (s *Store) Load(ctx context.Context) (*workspace.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, pkgerrors.NewIOError("load", err)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, pkgerrors.NewIOError("load", err)
	}

	var schema fileSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, pkgerrors.NewIOError("load", err)
	}

	state, err := s.codec.Decode(&schema, timeNow())
	if err != nil {
		if pkgerrors.IsIO(err) {
			return nil, err
		}
		return nil, pkgerrors.NewIOError("load", err)
	}
	return state, nil
}
