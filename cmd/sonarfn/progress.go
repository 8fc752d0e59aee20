package main

import (
	"io"
	"sync"

	"github.com/gosuri/uiprogress"
)

// progress shows one bar per annotator while its files are parsed.
type progress struct {
	p    *uiprogress.Progress
	mu   sync.Mutex
	bars map[string]*uiprogress.Bar
}

// newProgress returns nil when disabled; a nil progress ignores all calls.
// Bars are drawn on w.
func newProgress(enabled bool, w io.Writer) *progress {
	if !enabled {
		return nil
	}
	p := uiprogress.New()
	p.SetOut(w)
	p.Start()
	return &progress{p: p, bars: map[string]*uiprogress.Bar{}}
}

// Incr advances the bar of the annotator, creating it on the first file.
func (pr *progress) Incr(annotator string, total int, name string) {
	if pr == nil {
		return
	}
	pr.mu.Lock()
	defer pr.mu.Unlock()

	bar, ok := pr.bars[annotator]
	if !ok {
		bar = pr.p.AddBar(total).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return annotator
		})
		pr.bars[annotator] = bar
	}
	bar.Incr()
}

// Callback adapts Incr to the single-annotator loader callback.
func (pr *progress) Callback(annotator string) func(total int, name string) {
	if pr == nil {
		return nil
	}
	return func(total int, name string) {
		pr.Incr(annotator, total, name)
	}
}

func (pr *progress) Stop() {
	if pr == nil {
		return
	}
	pr.p.Stop()
}
