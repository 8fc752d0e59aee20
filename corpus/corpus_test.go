package corpus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/revelaction/sonarfn/annotation"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const catA = `<Document doc_name="a">
<token t_id="1" sentence="0" number="0">Hij</token>
<token t_id="2" sentence="0" number="1">liep</token>
<token t_id="3" sentence="0" number="2">weg</token>
<Markables>
<EVENT_MENTION m_id="5"><token_anchor t_id="2"/><token_anchor t_id="3"/></EVENT_MENTION>
<ENTITY_MENTION m_id="6"><token_anchor t_id="1"/></ENTITY_MENTION>
</Markables>
<Relations>
<HAS_PARTICIPANT frame="Departing" frame_element="Theme" confidence_frame="3" confidence_role="3"><source m_id="5"/><target m_id="6"/></HAS_PARTICIPANT>
</Relations>
</Document>`

const nafA = `<NAF><text><wf id="w1">Hij</wf><wf id="w2">liep</wf><wf id="w3">weg</wf></text>
<terms>
<term id="t1" lemma="hij" pos="pron"><span><target id="w1"/></span></term>
<term id="t2" lemma="lopen" pos="verb"><span><target id="w2"/></span></term>
<term id="t3" lemma="weg" pos="adv"><span><target id="w3"/></span></term>
</terms></NAF>`

const catB = `<Document doc_name="b"><token t_id="1" sentence="0" number="0">Regen</token>
<Markables><EVENT_MENTION m_id="1"><token_anchor t_id="1"/></EVENT_MENTION></Markables></Document>`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func setupCorpus(t *testing.T) (string, string) {
	t.Helper()
	catDir := t.TempDir()
	nafDir := t.TempDir()
	writeFile(t, filepath.Join(catDir, "b.xml"), catB)
	writeFile(t, filepath.Join(catDir, "a.xml"), catA)
	writeFile(t, filepath.Join(catDir, "notes.txt"), "ignored")
	writeFile(t, filepath.Join(nafDir, "a.naf"), nafA)
	return catDir, nafDir
}

func TestList(t *testing.T) {
	catDir, _ := setupCorpus(t)

	files, err := List(catDir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.xml", files[0].Name)
	assert.Equal(t, "b.xml", files[1].Name)
}

func TestListMissingDir(t *testing.T) {
	_, err := List(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestPairMissingNAF(t *testing.T) {
	catDir, nafDir := setupCorpus(t)

	_, err := Pair(catDir, nafDir)
	assert.True(t, errors.Is(err, ErrMissingNAF))
}

func TestLoadWithoutNAF(t *testing.T) {
	catDir, _ := setupCorpus(t)

	var names []string
	set, err := NewLoader(catDir, "", nil).Load(func(total int, name string) {
		assert.Equal(t, 2, total)
		names = append(names, name)
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.xml", "b.xml"}, names)
	assert.Len(t, set, 2)

	f := set[annotation.Key{DocName: "a.xml", MentionId: "5"}]
	require.NotNil(t, f)
	assert.Equal(t, "liep weg", f.Text())
	assert.Empty(t, f.Tokens[0].Lemma)

	rain := set[annotation.Key{DocName: "b.xml", MentionId: "1"}]
	require.NotNil(t, rain)
	assert.Empty(t, rain.Labels)
}

func TestLoadWithNAF(t *testing.T) {
	catDir, nafDir := setupCorpus(t)
	writeFile(t, filepath.Join(nafDir, "b.xml"), `<NAF><text><wf id="w1">Regen</wf></text><terms><term id="t1" lemma="regen" pos="noun"/></terms></NAF>`)

	set, err := NewLoader(catDir, nafDir, nil).Load(nil)
	require.NoError(t, err)

	f := set[annotation.Key{DocName: "a.xml", MentionId: "5"}]
	require.NotNil(t, f)
	assert.Equal(t, "lopen weg", f.Lemma())
	assert.Equal(t, "verb", f.Tokens[0].Pos)

	rain := set[annotation.Key{DocName: "b.xml", MentionId: "1"}]
	assert.Equal(t, "regen", rain.Lemma())
}

func TestLoadAll(t *testing.T) {
	catDir, _ := setupCorpus(t)
	other := t.TempDir()
	writeFile(t, filepath.Join(other, "a.xml"), catA)

	var mu sync.Mutex
	seen := map[string]int{}
	sets, err := LoadAll(context.Background(), map[string]*Loader{
		"A1": NewLoader(catDir, "", nil),
		"A2": NewLoader(other, "", nil),
	}, func(annotator string, total int, name string) {
		mu.Lock()
		seen[annotator]++
		mu.Unlock()
	})
	require.NoError(t, err)

	assert.Len(t, sets["A1"], 2)
	assert.Len(t, sets["A2"], 1)
	assert.Equal(t, map[string]int{"A1": 2, "A2": 1}, seen)
}

func TestLoadAllError(t *testing.T) {
	catDir, _ := setupCorpus(t)
	bad := t.TempDir()
	writeFile(t, filepath.Join(bad, "broken.xml"), "<Document><token>")

	_, err := LoadAll(context.Background(), map[string]*Loader{
		"A1": NewLoader(catDir, "", nil),
		"A2": NewLoader(bad, "", nil),
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "annotator A2")
}
