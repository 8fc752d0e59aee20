package storage

import (
	"github.com/revelaction/sonarfn/annotation"
)

// FrameReader defines read operations for frame snapshots
type FrameReader interface {
	// Read returns the frames of one annotator
	Read(annotator string) (annotation.FrameSet, error)

	// Annotators returns the names of the stored annotators, sorted.
	Annotators() ([]string, error)
}

// FrameWriter defines write operations for frame snapshots
type FrameWriter interface {
	// Write replaces the stored frames of the annotator
	Write(annotator string, frames annotation.FrameSet) error
}

// FrameRepository combines read and write operations
type FrameRepository interface {
	FrameReader
	FrameWriter
}

// Snapshot is the serialized form of a FrameSet: frames ordered by key.
type Snapshot struct {
	Annotator string              `json:"annotator"`
	Frames    []*annotation.Frame `json:"frames"`
}

func NewSnapshot(annotator string, frames annotation.FrameSet) Snapshot {
	return Snapshot{Annotator: annotator, Frames: frames.Sorted()}
}

// FrameSet rebuilds the mapping of key to frame.
func (s Snapshot) FrameSet() annotation.FrameSet {
	set := make(annotation.FrameSet, len(s.Frames))
	for _, f := range s.Frames {
		set[f.Key()] = f
	}
	return set
}
