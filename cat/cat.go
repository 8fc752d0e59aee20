// Package cat builds Frame and FrameElement graphs from CAT stand-off
// annotation files.
package cat

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/revelaction/sonarfn/annotation"
	"github.com/revelaction/sonarfn/naf"
)

var (
	ErrUnknownToken   = errors.New("unknown token")
	ErrUnknownMention = errors.New("unknown mention")
	ErrMissingLemma   = errors.New("no lemma for token position")
	ErrMissingAttr    = errors.New("relation attribute missing")
)

// Document is a CAT file. The root element name is not checked.
type Document struct {
	DocName   string     `xml:"doc_name,attr"`
	Tokens    []TokenEl  `xml:"token"`
	Events    []Mention  `xml:"Markables>EVENT_MENTION"`
	Entities  []Mention  `xml:"Markables>ENTITY_MENTION"`
	Relations []Relation `xml:"Relations>HAS_PARTICIPANT"`
}

// TokenEl is e.g. <token number="1" sentence="2" t_id="7">Methodes</token>
type TokenEl struct {
	Attrs []xml.Attr `xml:",any,attr"`
	Text  string     `xml:",chardata"`
}

type Mention struct {
	MentionId string   `xml:"m_id,attr"`
	Anchors   []Anchor `xml:"token_anchor"`
}

type Anchor struct {
	TokenId string `xml:"t_id,attr"`
}

type Relation struct {
	Attrs  []xml.Attr  `xml:",any,attr"`
	Source MarkableRef `xml:"source"`
	Target MarkableRef `xml:"target"`
}

// MarkableRef points to a markable by m_id.
type MarkableRef struct {
	MentionId string `xml:"m_id,attr"`
}

// Attr returns the value of the named attribute and whether it is present.
func (r Relation) Attr(name string) (string, bool) {
	return attr(r.Attrs, name)
}

func attr(attrs []xml.Attr, name string) (string, bool) {
	for _, a := range attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Parse decodes a CAT document.
func Parse(r io.Reader) (*Document, error) {
	var doc Document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("CAT decoding error: %w", err)
	}
	return &doc, nil
}

// ParseFile decodes the CAT document at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("IO error: %w", err)
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// LoadToken converts a token element into a Token carrying all its
// attributes.
func LoadToken(el TokenEl) annotation.Token {
	tok := annotation.Token{
		Text:  el.Text,
		Attrs: make(map[string]string, len(el.Attrs)),
	}
	for _, a := range el.Attrs {
		tok.Attrs[a.Name.Local] = a.Value
	}
	tok.Id = tok.Attrs["t_id"]
	tok.Number = tok.Attrs["number"]
	tok.Sentence = tok.Attrs["sentence"]
	return tok
}

// LoadAllTokens returns the tokens of the document by t_id. When lemmas is
// not nil, the token at position i gets the lexeme, lemma and POS of entry
// i.
func LoadAllTokens(doc *Document, lemmas naf.Index) (map[string]annotation.Token, error) {
	tokens := make(map[string]annotation.Token, len(doc.Tokens))
	for i, el := range doc.Tokens {
		tok := LoadToken(el)
		if lemmas != nil {
			if i >= len(lemmas) {
				return nil, fmt.Errorf("%w: %d (t_id %s)", ErrMissingLemma, i, tok.Id)
			}
			tok.Lexeme = lemmas[i].Lexeme
			tok.Lemma = lemmas[i].Lemma
			tok.Pos = lemmas[i].Pos
		}
		tokens[tok.Id] = tok
	}
	return tokens, nil
}

func span(m Mention, tokens map[string]annotation.Token) ([]annotation.Token, error) {
	toks := make([]annotation.Token, 0, len(m.Anchors))
	for _, a := range m.Anchors {
		tok, ok := tokens[a.TokenId]
		if !ok {
			return nil, fmt.Errorf("%w: t_id %s in mention %s", ErrUnknownToken, a.TokenId, m.MentionId)
		}
		toks = append(toks, tok)
	}
	return toks, nil
}

// LoadEventMentions creates one Frame per EVENT_MENTION, by m_id.
func LoadEventMentions(doc *Document, docName string, tokens map[string]annotation.Token) (map[string]*annotation.Frame, error) {
	frames := make(map[string]*annotation.Frame, len(doc.Events))
	for _, m := range doc.Events {
		s, err := span(m, tokens)
		if err != nil {
			return nil, err
		}
		frames[m.MentionId] = annotation.NewFrame(docName, m.MentionId, s)
	}
	return frames, nil
}

// LoadEntityMentions creates one FrameElement per ENTITY_MENTION, by m_id.
func LoadEntityMentions(doc *Document, docName string, tokens map[string]annotation.Token) (map[string]*annotation.FrameElement, error) {
	elements := make(map[string]*annotation.FrameElement, len(doc.Entities))
	for _, m := range doc.Entities {
		s, err := span(m, tokens)
		if err != nil {
			return nil, err
		}
		elements[m.MentionId] = annotation.NewFrameElement(docName, m.MentionId, s)
	}
	return elements, nil
}

// ParseConfidence returns the integer value of a confidence attribute, or
// annotation.NoConfidence when the attribute is absent, empty or not an
// integer.
func ParseConfidence(value string, present bool) int {
	if !present || value == "" {
		return annotation.NoConfidence
	}
	c, err := strconv.Atoi(value)
	if err != nil {
		return annotation.NoConfidence
	}
	return c
}

// Link applies the HAS_PARTICIPANT relations: the source frame gets the
// frame label, a frame confidence and the role; the target frame element
// gets the role confidence. A nil logger discards all messages.
func Link(doc *Document, frames map[string]*annotation.Frame, elements map[string]*annotation.FrameElement, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, rel := range doc.Relations {
		frame, ok := frames[rel.Source.MentionId]
		if !ok {
			return fmt.Errorf("%w: source m_id %s", ErrUnknownMention, rel.Source.MentionId)
		}
		fe, ok := elements[rel.Target.MentionId]
		if !ok {
			return fmt.Errorf("%w: target m_id %s", ErrUnknownMention, rel.Target.MentionId)
		}

		label, ok := rel.Attr("frame")
		if !ok {
			return fmt.Errorf("%w: frame (source m_id %s)", ErrMissingAttr, frame.MentionId)
		}
		role, ok := rel.Attr("frame_element")
		if !ok {
			return fmt.Errorf("%w: frame_element (source m_id %s)", ErrMissingAttr, frame.MentionId)
		}

		frame.AddLabel(label)
		if len(frame.Labels) >= 2 {
			logger.Warn("more than one frame label",
				zap.String("doc", frame.DocName),
				zap.String("m_id", frame.MentionId),
				zap.Strings("frame", frame.Labels))
		}

		frame.Confidences = append(frame.Confidences, confidence(rel, "confidence_frame", fe, logger))

		frame.Roles[role] = fe

		fe.SetConfidence(confidence(rel, "confidence_role", fe, logger))
	}

	return nil
}

func confidence(rel Relation, name string, fe *annotation.FrameElement, logger *zap.Logger) int {
	value, present := rel.Attr(name)
	c := ParseConfidence(value, present)
	switch {
	case !present:
		logger.Debug("no confidence attribute",
			zap.String("attr", name),
			zap.String("doc", fe.DocName),
			zap.String("m_id", fe.MentionId))
	case value != "" && c == annotation.NoConfidence && value != strconv.Itoa(annotation.NoConfidence):
		logger.Debug("could not parse confidence", zap.String("attr", name), zap.String("value", value))
	}
	return c
}

// LoadDocument runs the whole pass over one CAT document and returns its
// frames by key. lemmas may be nil.
func LoadDocument(doc *Document, docName string, lemmas naf.Index, logger *zap.Logger) (annotation.FrameSet, error) {
	tokens, err := LoadAllTokens(doc, lemmas)
	if err != nil {
		return nil, err
	}

	frames, err := LoadEventMentions(doc, docName, tokens)
	if err != nil {
		return nil, err
	}

	elements, err := LoadEntityMentions(doc, docName, tokens)
	if err != nil {
		return nil, err
	}

	if err := Link(doc, frames, elements, logger); err != nil {
		return nil, err
	}

	set := make(annotation.FrameSet, len(frames))
	for _, f := range frames {
		set[f.Key()] = f
	}
	return set, nil
}
