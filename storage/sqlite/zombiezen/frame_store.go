package zombiezen

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/revelaction/sonarfn/annotation"
	"github.com/revelaction/sonarfn/storage"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// FrameStore keeps the frames of all annotators in one SQLite file, one row
// per frame.
type FrameStore struct {
	pool *sqlitex.Pool
}

var _ storage.FrameRepository = (*FrameStore)(nil)

func NewFrameStore(pool *sqlitex.Pool) *FrameStore {
	return &FrameStore{pool: pool}
}

func (h *FrameStore) Annotators() ([]string, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	names := []string{}
	err = sqlitex.Execute(conn, "SELECT DISTINCT annotator FROM frames ORDER BY annotator", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			names = append(names, stmt.ColumnText(0))
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (h *FrameStore) Read(annotator string) (annotation.FrameSet, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	set := annotation.FrameSet{}
	err = sqlitex.Execute(conn, "SELECT data FROM frames WHERE annotator = ? ORDER BY doc_name, m_id", &sqlitex.ExecOptions{
		Args: []interface{}{annotator},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			var f annotation.Frame
			if err := json.Unmarshal([]byte(stmt.ColumnText(0)), &f); err != nil {
				return err
			}
			set[f.Key()] = &f
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("annotator not found: %s", annotator)
	}

	return set, nil
}

// Write replaces the rows of the annotator inside one savepoint.
func (h *FrameStore) Write(annotator string, frames annotation.FrameSet) (err error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer h.pool.Put(conn)

	defer sqlitex.Save(conn)(&err)

	err = sqlitex.Execute(conn, "DELETE FROM frames WHERE annotator = ?", &sqlitex.ExecOptions{
		Args: []interface{}{annotator},
	})
	if err != nil {
		return fmt.Errorf("failed to delete frames: %w", err)
	}

	for _, f := range frames.Sorted() {
		data, marshalErr := json.Marshal(f)
		if marshalErr != nil {
			return marshalErr
		}

		label, _ := f.Label()
		err = sqlitex.Execute(conn, "INSERT INTO frames (annotator, doc_name, m_id, label, data) VALUES (?, ?, ?, ?, ?)", &sqlitex.ExecOptions{
			Args: []interface{}{annotator, f.DocName, f.MentionId, label, string(data)},
		})
		if err != nil {
			return fmt.Errorf("failed to insert frame %s: %w", f.Key(), err)
		}
	}

	return nil
}
