// Package lexicon turns gold frames into FrameNet lexical unit records:
// lexemes (surface wordforms) and lemma objects.
package lexicon

import (
	"sort"
	"strings"

	"github.com/revelaction/sonarfn/annotation"
)

// DefaultPosMap maps NAF POS tags to FrameNet POS.
var DefaultPosMap = map[string]string{
	"verb": "V",
	"noun": "N",
	"name": "N",
	"adj":  "A",
	"adv":  "ADV",
	"prep": "PREP",
	"num":  "NUM",
}

// content POS, in FrameNet notation, that can head a lexical unit
var headPos = map[string]bool{"V": true, "N": true, "A": true, "ADV": true}

// Lexeme is one wordform of a lexical unit.
type Lexeme struct {
	Order    int    `json:"order"`
	Form     string `json:"form"`
	Lemma    string `json:"lemma"`
	Pos      string `json:"pos"`
	Headword bool   `json:"headword"`
}

// LexicalUnit is the lemma object of one annotated predicate.
type LexicalUnit struct {
	Frame   string         `json:"frame"`
	Lemma   string         `json:"lemma"`
	Pos     string         `json:"pos"`
	Lexemes []Lexeme       `json:"lexemes"`
	Source  annotation.Key `json:"source"`
}

// Lexicon holds the records by frame label.
type Lexicon struct {
	Lexemes map[string][]Lexeme      `json:"lexemes"`
	Units   map[string][]LexicalUnit `json:"lexical_units"`
}

// AllUnits returns all lexical units ordered by frame label then source.
func (l *Lexicon) AllUnits() []LexicalUnit {
	labels := make([]string, 0, len(l.Units))
	for label := range l.Units {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var all []LexicalUnit
	for _, label := range labels {
		all = append(all, l.Units[label]...)
	}
	return all
}

// Mapper converts NAF POS to FrameNet POS. Unknown tags are upper-cased.
type Mapper map[string]string

func (m Mapper) Map(pos string) string {
	if fn, ok := m[strings.ToLower(pos)]; ok {
		return fn
	}
	return strings.ToUpper(pos)
}

// NewMapper returns DefaultPosMap overridden by overrides.
func NewMapper(overrides map[string]string) Mapper {
	m := Mapper{}
	for k, v := range DefaultPosMap {
		m[k] = v
	}
	for k, v := range overrides {
		m[strings.ToLower(k)] = v
	}
	return m
}

// Unit builds the lexical unit of a frame. Frames without exactly one
// label yield false.
func Unit(f *annotation.Frame, mapper Mapper) (LexicalUnit, bool) {
	label, ok := f.Label()
	if !ok || len(f.Tokens) == 0 {
		return LexicalUnit{}, false
	}

	lexemes := make([]Lexeme, len(f.Tokens))
	for i, t := range f.Tokens {
		lemma := t.Lemma
		if lemma == "" {
			lemma = t.Text
		}
		lexemes[i] = Lexeme{Order: i + 1, Form: t.Text, Lemma: lemma, Pos: mapper.Map(t.Pos)}
	}
	head := headIndex(lexemes)
	lexemes[head].Headword = true

	return LexicalUnit{
		Frame:   label,
		Lemma:   f.Lemma(),
		Pos:     lexemes[head].Pos,
		Lexemes: lexemes,
		Source:  f.Key(),
	}, true
}

// headIndex returns the first verb, else the last content word, else the
// last lexeme.
func headIndex(lexemes []Lexeme) int {
	head := len(lexemes) - 1
	for i := len(lexemes) - 1; i >= 0; i-- {
		if headPos[lexemes[i].Pos] {
			head = i
			break
		}
	}
	for i, l := range lexemes {
		if l.Pos == "V" {
			return i
		}
	}
	return head
}

// Build collects the lexemes and lexical units of the gold frames by frame
// label, in key order.
func Build(gold annotation.FrameSet, mapper Mapper) *Lexicon {
	lex := &Lexicon{
		Lexemes: map[string][]Lexeme{},
		Units:   map[string][]LexicalUnit{},
	}

	for _, f := range gold.Sorted() {
		u, ok := Unit(f, mapper)
		if !ok {
			continue
		}
		lex.Units[u.Frame] = append(lex.Units[u.Frame], u)
		lex.Lexemes[u.Frame] = append(lex.Lexemes[u.Frame], u.Lexemes...)
	}

	return lex
}
