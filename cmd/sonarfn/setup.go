package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/revelaction/sonarfn/storage"
	"github.com/revelaction/sonarfn/storage/filesystem"
	"github.com/revelaction/sonarfn/storage/sqlite/zombiezen"
)

const (
	storeJSON   = "json"
	storeSQLite = "sqlite"

	// sqliteFile is the snapshot file inside the output folder
	sqliteFile = "frames.db"
)

// NewFrameRepository opens an existing snapshot: a directory of JSON files
// or a SQLite file.
func NewFrameRepository(p *Pool, path string) (storage.FrameRepository, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("repository not found: %s", path)
	}

	if info.IsDir() {
		return filesystem.NewFrameStore(path), nil
	}

	pool, err := p.Open(path)
	if err != nil {
		return nil, err
	}
	return zombiezen.NewFrameStore(pool), nil
}

// CreateFrameRepository prepares the output folder for snapshots of the
// given kind and returns the repository with its location.
func CreateFrameRepository(p *Pool, folder, kind string) (storage.FrameRepository, string, error) {
	if err := os.MkdirAll(folder, 0755); err != nil {
		return nil, "", fmt.Errorf("failed to create output folder: %w", err)
	}

	switch kind {
	case storeJSON:
		return filesystem.NewFrameStore(folder), folder, nil
	case storeSQLite:
		path := filepath.Join(folder, sqliteFile)
		pool, err := p.Open(path)
		if err != nil {
			return nil, "", err
		}
		if err := zombiezen.CreateFrameTables(pool); err != nil {
			return nil, "", fmt.Errorf("failed to create frames table: %w", err)
		}
		return zombiezen.NewFrameStore(pool), path, nil
	}

	return nil, "", fmt.Errorf("unknown store %q, allowed values are %s, %s", kind, storeJSON, storeSQLite)
}
