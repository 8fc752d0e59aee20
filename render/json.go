package render

import (
	"encoding/json"
	"io"

	"github.com/revelaction/sonarfn/lexicon"
)

// JSONRenderer writes the lexicon as JSON to a writer.
type JSONRenderer struct {
	W io.Writer
}

// NewJSONRenderer creates a JSONRenderer writing to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{W: w}
}

// Render serializes the lexical units by frame label.
func (r *JSONRenderer) Render(lex *lexicon.Lexicon) error {
	enc := json.NewEncoder(r.W)
	enc.SetIndent("", "  ")
	return enc.Encode(lex)
}
