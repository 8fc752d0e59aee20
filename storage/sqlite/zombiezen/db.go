package zombiezen

import (
	"fmt"
	"runtime"

	"zombiezen.com/go/sqlite/sqlitex"
)

const maxConns = 4

// NewPool opens the snapshot database at path. The file is created when
// missing.
func NewPool(path string) (*sqlitex.Pool, error) {
	pool, err := sqlitex.NewPool("file:"+path, sqlitex.PoolOptions{
		PoolSize: min(runtime.NumCPU(), maxConns),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database %s: %w", path, err)
	}
	return pool, nil
}
