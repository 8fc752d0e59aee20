package inspect

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/c-bata/go-prompt"

	"github.com/revelaction/sonarfn/annotation"
	"github.com/revelaction/sonarfn/render"
)

const (
	labelCommand = "label"
	docCommand   = "doc"
	quitCommand  = "quit"
)

var ErrQuit = errors.New("quit")

type Handler struct {
	Annotator string
	Frames    annotation.FrameSet
	Renderer  *render.Renderer

	docNames []string
	labels   []string
}

func NewHandler(annotator string, frames annotation.FrameSet, r *render.Renderer) *Handler {
	return &Handler{
		Annotator: annotator,
		Frames:    frames,
		Renderer:  r,
		docNames:  frames.DocNames(),
		labels:    frames.Labels(),
	}
}

func (h *Handler) Run() error {

	fmt.Fprintf(h.Renderer.W, "🔑 %s: %d frames. <doc> <m_id> | doc <doc> | label <frame> | quit\n", h.Annotator, len(h.Frames))

	// initialize prompt history
	history := []string{}

	for {
		in := prompt.Input("      🔖 ", h.Complete,
			prompt.OptionTitle("sonarfn inspect"),
			prompt.OptionPrefixTextColor(prompt.Yellow),
			prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
			prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
			prompt.OptionMaxSuggestion(12),
			prompt.OptionSuggestionBGColor(prompt.DarkGray),
			prompt.OptionHistory(history),
		)

		history = append(history, in)
		if err := h.Eval(in); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			fmt.Fprintf(h.Renderer.W, "✍  %v\n", err)
		}
	}
}

// Eval runs one line of input.
func (h *Handler) Eval(in string) error {
	tokens := strings.Fields(in)
	if len(tokens) == 0 {
		return nil
	}

	switch tokens[0] {
	case quitCommand:
		return ErrQuit

	case labelCommand:
		if len(tokens) != 2 {
			return errors.New("usage: label <frame>")
		}
		found := 0
		for _, f := range h.Frames.Sorted() {
			for _, l := range f.Labels {
				if l == tokens[1] {
					h.Renderer.FrameLine(f)
					found++
					break
				}
			}
		}
		if found == 0 {
			return fmt.Errorf("no frames with label %s", tokens[1])
		}
		return nil

	case docCommand:
		if len(tokens) != 2 {
			return errors.New("usage: doc <doc>")
		}
		found := 0
		for _, f := range h.Frames.Sorted() {
			if f.DocName == tokens[1] {
				h.Renderer.FrameLine(f)
				found++
			}
		}
		if found == 0 {
			return fmt.Errorf("no frames in doc %s", tokens[1])
		}
		return nil
	}

	if len(tokens) != 2 {
		return errors.New("usage: <doc> <m_id>")
	}

	f, ok := h.Frames[annotation.Key{DocName: tokens[0], MentionId: tokens[1]}]
	if !ok {
		return fmt.Errorf("frame not found: %s %s", tokens[0], tokens[1])
	}
	h.Renderer.Frame(f)
	return nil
}

// Complete suggests doc names, mention ids of a doc and frame labels.
func (h *Handler) Complete(in prompt.Document) []prompt.Suggest {
	s := []prompt.Suggest{}
	befCursor := in.TextBeforeCursor()

	if "" == befCursor {
		return s
	}

	tokens := strings.Split(befCursor, " ")
	word := tokens[len(tokens)-1]

	if len(tokens) == 1 {
		for _, c := range []string{labelCommand, docCommand, quitCommand} {
			if strings.HasPrefix(c, word) {
				s = append(s, prompt.Suggest{Text: c})
			}
		}
		return append(s, h.completeDoc(word)...)
	}

	if len(tokens) > 2 {
		return s
	}

	switch tokens[0] {
	case labelCommand:
		for _, l := range h.labels {
			if strings.HasPrefix(l, word) {
				s = append(s, prompt.Suggest{Text: l, Description: "🔖 frame"})
			}
		}
	case docCommand:
		s = append(s, h.completeDoc(word)...)
	default:
		s = append(s, h.completeMention(tokens[0], word)...)
	}

	return s
}

func (h *Handler) completeDoc(token string) (s []prompt.Suggest) {
	for _, name := range h.docNames {
		if strings.HasPrefix(name, token) {
			s = append(s, prompt.Suggest{Text: name, Description: "📖 doc"})
		}
	}
	return s
}

func (h *Handler) completeMention(docName, token string) (s []prompt.Suggest) {
	var frames []*annotation.Frame
	for k, f := range h.Frames {
		if k.DocName == docName && strings.HasPrefix(k.MentionId, token) {
			frames = append(frames, f)
		}
	}
	sort.Slice(frames, func(i, j int) bool { return frames[i].Key().Less(frames[j].Key()) })

	for _, f := range frames {
		s = append(s, prompt.Suggest{Text: f.MentionId, Description: strings.Join(f.Labels, ",") + " " + f.Text()})
	}
	return s
}
