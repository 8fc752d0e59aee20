package inspect

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/c-bata/go-prompt"

	"github.com/revelaction/sonarfn/annotation"
	"github.com/revelaction/sonarfn/render"
)

func newHandler(buf *bytes.Buffer) *Handler {
	frames := annotation.FrameSet{}
	for _, f := range []struct{ doc, mId, label, text string }{
		{"a.xml", "1", "Self_motion", "liep"},
		{"a.xml", "12", "Motion", "ging"},
		{"b.xml", "3", "Self_motion", "rende"},
	} {
		fr := annotation.NewFrame(f.doc, f.mId, []annotation.Token{{Text: f.text}})
		fr.AddLabel(f.label)
		frames[fr.Key()] = fr
	}
	return NewHandler("A1", frames, render.NewRenderer(buf))
}

func document(text string) prompt.Document {
	buf := prompt.NewBuffer()
	buf.InsertText(text, false, true)
	return *buf.Document()
}

func suggestions(s []prompt.Suggest) []string {
	texts := make([]string, len(s))
	for i, sg := range s {
		texts[i] = sg.Text
	}
	return texts
}

func TestEvalFrame(t *testing.T) {
	var buf bytes.Buffer
	h := newHandler(&buf)

	if err := h.Eval("a.xml 12"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "ging") {
		t.Errorf("expected frame text in output:\n%s", buf.String())
	}

	if err := h.Eval("a.xml 99"); err == nil {
		t.Error("expected error for unknown mention")
	}
}

func TestEvalLabel(t *testing.T) {
	var buf bytes.Buffer
	h := newHandler(&buf)

	if err := h.Eval("label Self_motion"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 frames, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "a.xml 1 ") {
		t.Errorf("expected frames in key order, got %q", lines[0])
	}
}

func TestEvalDocAndQuit(t *testing.T) {
	var buf bytes.Buffer
	h := newHandler(&buf)

	if err := h.Eval("doc b.xml"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "rende") {
		t.Errorf("expected doc frame in output:\n%s", buf.String())
	}

	if err := h.Eval("  "); err != nil {
		t.Errorf("empty input must be ignored, got %v", err)
	}
	if err := h.Eval("quit"); !errors.Is(err, ErrQuit) {
		t.Errorf("expected ErrQuit, got %v", err)
	}
}

func TestComplete(t *testing.T) {
	var buf bytes.Buffer
	h := newHandler(&buf)

	got := suggestions(h.Complete(document("a")))
	if strings.Join(got, ",") != "a.xml" {
		t.Errorf("unexpected doc suggestions: %v", got)
	}

	got = suggestions(h.Complete(document("label Mo")))
	if strings.Join(got, ",") != "Motion" {
		t.Errorf("unexpected label suggestions: %v", got)
	}

	got = suggestions(h.Complete(document("a.xml 1")))
	if strings.Join(got, ",") != "1,12" {
		t.Errorf("unexpected mention suggestions: %v", got)
	}

	if got := h.Complete(document("")); len(got) != 0 {
		t.Errorf("expected no suggestions for empty input, got %v", got)
	}
}
