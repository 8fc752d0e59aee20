// Package merge reconciles the frames of two annotators into a gold set.
package merge

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/revelaction/sonarfn/annotation"
)

// Reason tells why a key was left out of the gold set.
type Reason int

const (
	Agreed Reason = iota
	OnlyFirst
	OnlySecond
	LabelCount
	LabelMismatch
	PredicateMismatch
)

func (r Reason) String() string {
	switch r {
	case Agreed:
		return "agreed"
	case OnlyFirst:
		return "only first annotator"
	case OnlySecond:
		return "only second annotator"
	case LabelCount:
		return "not exactly one frame label"
	case LabelMismatch:
		return "different frame label"
	case PredicateMismatch:
		return "different predicate"
	}
	return fmt.Sprintf("reason(%d)", int(r))
}

// Stats counts the outcome of a merge.
type Stats struct {
	First  int
	Second int
	Shared int
	Agreed int

	Skipped map[Reason]int
}

func (s Stats) String() string {
	return fmt.Sprintf("first %d, second %d, shared %d, agreed %d (only first %d, only second %d, label count %d, label mismatch %d, predicate mismatch %d)",
		s.First, s.Second, s.Shared, s.Agreed,
		s.Skipped[OnlyFirst], s.Skipped[OnlySecond], s.Skipped[LabelCount], s.Skipped[LabelMismatch], s.Skipped[PredicateMismatch])
}

// Result is the gold set, with frames taken from the first annotator.
type Result struct {
	Gold  annotation.FrameSet
	Stats Stats
}

// Compare applies the agreement rule to the frames of one key: both carry
// exactly one frame label, the labels are identical, and so are the
// predicate text and lemma.
func Compare(a, b *annotation.Frame) Reason {
	la, okA := a.Label()
	lb, okB := b.Label()
	if !okA || !okB {
		return LabelCount
	}
	if la != lb {
		return LabelMismatch
	}
	if a.Text() != b.Text() || a.Lemma() != b.Lemma() {
		return PredicateMismatch
	}
	return Agreed
}

// Merge keeps the keys on which both annotators agree. Disagreements are
// skipped and logged at debug level.
func Merge(first, second annotation.FrameSet, logger *zap.Logger) Result {
	if logger == nil {
		logger = zap.NewNop()
	}

	res := Result{
		Gold: annotation.FrameSet{},
		Stats: Stats{
			First:   len(first),
			Second:  len(second),
			Skipped: map[Reason]int{},
		},
	}

	for _, key := range first.Keys() {
		a := first[key]
		b, ok := second[key]
		if !ok {
			res.Stats.Skipped[OnlyFirst]++
			continue
		}
		res.Stats.Shared++

		reason := Compare(a, b)
		if reason != Agreed {
			res.Stats.Skipped[reason]++
			logger.Debug("annotators disagree",
				zap.Stringer("key", key),
				zap.Stringer("reason", reason),
				zap.Strings("first", a.Labels),
				zap.Strings("second", b.Labels),
				zap.String("first_predicate", a.Text()),
				zap.String("second_predicate", b.Text()))
			continue
		}

		res.Gold[key] = a
		res.Stats.Agreed++
	}

	for key := range second {
		if _, ok := first[key]; !ok {
			res.Stats.Skipped[OnlySecond]++
		}
	}

	logger.Info("merged annotations", zap.Stringer("stats", res.Stats))
	return res
}
