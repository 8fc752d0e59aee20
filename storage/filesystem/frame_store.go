package filesystem

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/revelaction/sonarfn/annotation"
	"github.com/revelaction/sonarfn/storage"
)

const ext = ".json"

// FrameStore keeps one JSON snapshot per annotator in a directory.
type FrameStore struct {
	root string
}

var _ storage.FrameRepository = (*FrameStore)(nil)

func NewFrameStore(root string) *FrameStore {
	return &FrameStore{root: root}
}

// Path returns the snapshot file of the annotator.
func (s *FrameStore) Path(annotator string) string {
	return filepath.Join(s.root, annotator+ext)
}

func (s *FrameStore) Annotators() ([]string, error) {
	files, err := os.ReadDir(s.root)
	if err != nil {
		return nil, err
	}

	names := []string{}
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != ext {
			continue
		}
		names = append(names, strings.TrimSuffix(file.Name(), ext))
	}

	sort.Strings(names)
	return names, nil
}

func (s *FrameStore) Read(annotator string) (annotation.FrameSet, error) {
	data, err := os.ReadFile(s.Path(annotator))
	if err != nil {
		return nil, fmt.Errorf("IO error: %w", err)
	}

	var snap storage.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("JSON decoding error: %w", err)
	}

	return snap.FrameSet(), nil
}

func (s *FrameStore) Write(annotator string, frames annotation.FrameSet) error {
	if err := os.MkdirAll(s.root, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	data, err := json.MarshalIndent(storage.NewSnapshot(annotator, frames), "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(s.Path(annotator), data, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", s.Path(annotator), err)
	}
	return nil
}
