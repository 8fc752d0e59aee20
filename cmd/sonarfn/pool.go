package main

import (
	"fmt"

	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/revelaction/sonarfn/storage/sqlite/zombiezen"
)

// Pool holds the SQLite pool of one command run. It is opened on first use
// so JSON snapshots never touch SQLite.
type Pool struct {
	sq   *sqlitex.Pool
	path string
}

// Open returns the pool for path. A command works on a single snapshot
// file; a second path is an error.
func (p *Pool) Open(path string) (*sqlitex.Pool, error) {
	if p.sq != nil {
		if p.path != path {
			return nil, fmt.Errorf("snapshot database already open: %s", p.path)
		}
		return p.sq, nil
	}

	sq, err := zombiezen.NewPool(path)
	if err != nil {
		return nil, err
	}
	p.sq, p.path = sq, path
	return sq, nil
}

func (p *Pool) Close() error {
	if p.sq == nil {
		return nil
	}
	return p.sq.Close()
}
