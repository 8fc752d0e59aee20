package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/revelaction/sonarfn/annotation"
	"github.com/revelaction/sonarfn/merge"
)

var (
	Red       = "\033[1;31m"
	Green     = "\033[1;32m"
	Yellow    = "\033[0;33m"
	Teal      = "\033[1;36m"
	Gray      = "\033[0;37m"
	Off       = "\033[0m"
	Yellow256 = "\033[1;38;5;130m"
	Grey256   = "\033[1;38;5;145m"
)

// Renderer prints frames and merge results for the terminal.
type Renderer struct {
	W io.Writer

	HasColor bool
}

func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{W: w}
}

func (r *Renderer) color(c, s string) string {
	if !r.HasColor {
		return s
	}
	return c + s + Off
}

// Frame prints the frame, its labels and every role with its text.
func (r *Renderer) Frame(f *annotation.Frame) {
	fmt.Fprintf(r.W, "📖 %s %s\n", f.DocName, r.color(Grey256, f.MentionId))
	fmt.Fprintf(r.W, "✍  %s\n", r.color(Yellow256, f.Text()))
	fmt.Fprintf(r.W, "   frame: %s confidence: %v\n", r.color(Green, strings.Join(f.Labels, ", ")), f.Confidences)

	for _, role := range f.RoleNames() {
		fe := f.Roles[role]
		conf := "-"
		if fe.Confidence != nil {
			conf = fmt.Sprintf("%d", *fe.Confidence)
		}
		fmt.Fprintf(r.W, "   %-20s %s %s (m_id %s, confidence %s)\n", r.color(Teal, role), "→", fe.Text(), fe.MentionId, conf)
	}
}

// FrameLine prints the frame on one line: key, labels and predicate.
func (r *Renderer) FrameLine(f *annotation.Frame) {
	fmt.Fprintf(r.W, "%s %s %s\n", r.color(Grey256, f.Key().String()), r.color(Green, strings.Join(f.Labels, ",")), f.Text())
}

// Stats prints the merge counts.
func (r *Renderer) Stats(s merge.Stats) {
	fmt.Fprintf(r.W, "first annotator  %6d\n", s.First)
	fmt.Fprintf(r.W, "second annotator %6d\n", s.Second)
	fmt.Fprintf(r.W, "shared           %6d\n", s.Shared)
	fmt.Fprintf(r.W, "agreed           %s\n", r.color(Green, fmt.Sprintf("%6d", s.Agreed)))
	for _, reason := range []merge.Reason{merge.OnlyFirst, merge.OnlySecond, merge.LabelCount, merge.LabelMismatch, merge.PredicateMismatch} {
		fmt.Fprintf(r.W, "  skipped: %-28s %6d\n", reason, s.Skipped[reason])
	}
}
