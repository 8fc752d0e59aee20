// Package naf reads the lemma layer of NAF documents produced by the
// linguistic processing pipeline.
package naf

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var ErrMissingTerm = errors.New("word form without term")

// Document is the subset of a NAF file needed for lemmatization.
type Document struct {
	XMLName xml.Name `xml:"NAF"`
	Lang    string   `xml:"lang,attr"`
	Text    struct {
		Wfs []Wf `xml:"wf"`
	} `xml:"text"`
	Terms struct {
		Terms []Term `xml:"term"`
	} `xml:"terms"`
}

type Wf struct {
	Id   string `xml:"id,attr"`
	Sent string `xml:"sent,attr"`
	Text string `xml:",chardata"`
}

type Term struct {
	Id      string   `xml:"id,attr"`
	Lemma   string   `xml:"lemma,attr"`
	Pos     string   `xml:"pos,attr"`
	Morpho  string   `xml:"morphofeat,attr"`
	Targets []Target `xml:"span>target"`
}

type Target struct {
	Id string `xml:"id,attr"`
}

// Entry is the lemma information of one word form.
type Entry struct {
	Lexeme string `json:"lexeme"`
	Lemma  string `json:"lemma"`
	Pos    string `json:"pos"`
}

// Index holds one Entry per word form, in document order.
type Index []Entry

// Parse decodes a NAF document.
func Parse(r io.Reader) (*Document, error) {
	var doc Document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("NAF decoding error: %w", err)
	}
	return &doc, nil
}

// ParseFile decodes the NAF document at path.
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

// Index maps each word form position to its lexeme, lemma and POS.
//
// Word forms are linked to terms through the term span. A term without span
// is linked to the word form whose id is the term id with "t" replaced by
// "w".
func (d *Document) Index() (Index, error) {
	wid2term := make(map[string]Term, len(d.Terms.Terms))
	for _, term := range d.Terms.Terms {
		if len(term.Targets) == 0 {
			wid2term[strings.ReplaceAll(term.Id, "t", "w")] = term
			continue
		}
		for _, target := range term.Targets {
			wid2term[target.Id] = term
		}
	}

	idx := make(Index, 0, len(d.Text.Wfs))
	for _, wf := range d.Text.Wfs {
		term, ok := wid2term[wf.Id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingTerm, wf.Id)
		}
		idx = append(idx, Entry{Lexeme: wf.Text, Lemma: term.Lemma, Pos: term.Pos})
	}

	return idx, nil
}

// LoadIndex parses the NAF file at path and returns its lemma index.
func LoadIndex(path string) (Index, error) {
	doc, err := ParseFile(path)
	if err != nil {
		return nil, err
	}

	idx, err := doc.Index()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return idx, nil
}
