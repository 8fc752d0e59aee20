package annotation

import (
	"fmt"
	"sort"
	"strings"
)

// NoConfidence is stored when a confidence attribute is absent, empty or
// not an integer.
const NoConfidence = -1

// Token represents a word of a CAT document, optionally enriched with the
// lemma and POS of the NAF layer.
type Token struct {
	Id       string `json:"t_id"`
	Number   string `json:"number"`
	Sentence string `json:"sentence"`

	// The unmodified word
	Text string `json:"text"`

	// Set only when a NAF layer was given
	Lexeme string `json:"lexeme,omitempty"`
	Lemma  string `json:"lemma,omitempty"`
	Pos    string `json:"pos,omitempty"`

	// All attributes of the <token> element, as found
	Attrs map[string]string `json:"attrs,omitempty"`
}

// Dict returns the attribute dictionary of the token plus its text, and
// the lemma when the token was lemmatized.
func (t Token) Dict() map[string]string {
	d := make(map[string]string, len(t.Attrs)+2)
	for k, v := range t.Attrs {
		d[k] = v
	}
	d["text"] = t.Text
	if t.Lemma != "" {
		d["lemma"] = t.Lemma
	}
	return d
}

// Key identifies a mention across documents.
type Key struct {
	DocName   string `json:"doc_name"`
	MentionId string `json:"m_id"`
}

func (k Key) String() string {
	return k.DocName + " " + k.MentionId
}

// Less orders keys by document name, then mention id.
func (k Key) Less(o Key) bool {
	if k.DocName != o.DocName {
		return k.DocName < o.DocName
	}
	return k.MentionId < o.MentionId
}

// FrameElement is an entity mention filling a role in a Frame.
type FrameElement struct {
	DocName   string  `json:"doc_name"`
	MentionId string  `json:"m_id"`
	Tokens    []Token `json:"tokens"`

	// nil until a relation links the element to a frame
	Confidence *int `json:"confidence"`
}

func NewFrameElement(docName, mId string, tokens []Token) *FrameElement {
	return &FrameElement{DocName: docName, MentionId: mId, Tokens: tokens}
}

func (fe *FrameElement) Key() Key {
	return Key{DocName: fe.DocName, MentionId: fe.MentionId}
}

func (fe *FrameElement) SetConfidence(c int) {
	fe.Confidence = &c
}

func (fe *FrameElement) Text() string {
	return Text(fe.Tokens)
}

func (fe *FrameElement) String() string {
	return fmt.Sprintf("ID: %s %s\n%s", fe.DocName, fe.MentionId, fe.Text())
}

// Frame is an event mention with its semantic labels and linked roles.
type Frame struct {
	DocName   string  `json:"doc_name"`
	MentionId string  `json:"m_id"`
	Tokens    []Token `json:"tokens"`

	// Labels is kept sorted and without duplicates.
	Labels      []string                 `json:"frame"`
	Confidences []int                    `json:"confidence_frame"`
	Roles       map[string]*FrameElement `json:"roles"`
}

func NewFrame(docName, mId string, tokens []Token) *Frame {
	return &Frame{
		DocName:     docName,
		MentionId:   mId,
		Tokens:      tokens,
		Labels:      []string{},
		Confidences: []int{},
		Roles:       map[string]*FrameElement{},
	}
}

func (f *Frame) Key() Key {
	return Key{DocName: f.DocName, MentionId: f.MentionId}
}

// AddLabel adds a frame label to the set. It reports whether the label was
// new.
func (f *Frame) AddLabel(label string) bool {
	i := sort.SearchStrings(f.Labels, label)
	if i < len(f.Labels) && f.Labels[i] == label {
		return false
	}
	f.Labels = append(f.Labels, "")
	copy(f.Labels[i+1:], f.Labels[i:])
	f.Labels[i] = label
	return true
}

// Label returns the frame label when the frame carries exactly one.
func (f *Frame) Label() (string, bool) {
	if len(f.Labels) != 1 {
		return "", false
	}
	return f.Labels[0], true
}

func (f *Frame) Text() string {
	return Text(f.Tokens)
}

// Lemma joins the token lemmas with a space. Tokens without lemma
// contribute their surface form.
func (f *Frame) Lemma() string {
	parts := make([]string, len(f.Tokens))
	for i, t := range f.Tokens {
		if t.Lemma == "" {
			parts[i] = t.Text
			continue
		}
		parts[i] = t.Lemma
	}
	return strings.Join(parts, " ")
}

// RoleNames returns the role names sorted alphabetically.
func (f *Frame) RoleNames() []string {
	names := make([]string, 0, len(f.Roles))
	for name := range f.Roles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (f *Frame) String() string {
	info := []string{fmt.Sprintf("ID: %s %s", f.DocName, f.MentionId)}
	info = append(info, f.Text())
	info = append(info, fmt.Sprintf("frame: %v", f.Labels))
	info = append(info, fmt.Sprintf("confidence frame: %v", f.Confidences))
	for _, role := range f.RoleNames() {
		fe := f.Roles[role]
		info = append(info, fmt.Sprintf("ROLE (m_id -> %s): %s (confidence: %s)", fe.MentionId, role, confidenceString(fe.Confidence)))
		info = append(info, fmt.Sprintf("ROLE TEXT: %s\n", fe.Text()))
	}
	return strings.Join(info, "\n")
}

func confidenceString(c *int) string {
	if c == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *c)
}

// Text joins the surface forms of the tokens with a space.
func Text(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}

// FrameSet is the per-annotator mapping of mention key to Frame.
type FrameSet map[Key]*Frame

// Keys returns the keys ordered by document name and mention id.
func (fs FrameSet) Keys() []Key {
	keys := make([]Key, 0, len(fs))
	for k := range fs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// Sorted returns the frames ordered by key.
func (fs FrameSet) Sorted() []*Frame {
	keys := fs.Keys()
	frames := make([]*Frame, len(keys))
	for i, k := range keys {
		frames[i] = fs[k]
	}
	return frames
}

// Add stores all frames of other into fs. Frames already present are
// replaced.
func (fs FrameSet) Add(other FrameSet) {
	for k, f := range other {
		fs[k] = f
	}
}

// DocNames returns the distinct document names, sorted.
func (fs FrameSet) DocNames() []string {
	seen := map[string]bool{}
	names := []string{}
	for k := range fs {
		if !seen[k.DocName] {
			seen[k.DocName] = true
			names = append(names, k.DocName)
		}
	}
	sort.Strings(names)
	return names
}

// Labels returns the distinct frame labels of the set, sorted.
func (fs FrameSet) Labels() []string {
	seen := map[string]bool{}
	labels := []string{}
	for _, f := range fs {
		for _, l := range f.Labels {
			if !seen[l] {
				seen[l] = true
				labels = append(labels, l)
			}
		}
	}
	sort.Strings(labels)
	return labels
}
