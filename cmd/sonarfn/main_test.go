package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revelaction/sonarfn/annotation"
)

// catFile returns a CAT document with one event mention "10" over the
// token "liep", labelled with frame.
func catFile(frame string) string {
	return fmt.Sprintf(`<Document doc_name="d">
<token t_id="1" sentence="0" number="0">Jan</token>
<token t_id="2" sentence="0" number="1">liep</token>
<Markables>
<EVENT_MENTION m_id="10"><token_anchor t_id="2"/></EVENT_MENTION>
<ENTITY_MENTION m_id="11"><token_anchor t_id="1"/></ENTITY_MENTION>
</Markables>
<Relations>
<HAS_PARTICIPANT frame=%q frame_element="Self_mover" confidence_frame="3" confidence_role="x"><source m_id="10"/><target m_id="11"/></HAS_PARTICIPANT>
</Relations>
</Document>`, frame)
}

const nafFile = `<NAF><text><wf id="w1">Jan</wf><wf id="w2">liep</wf></text>
<terms><term id="t1" lemma="Jan" pos="name"/><term id="t2" lemma="lopen" pos="verb"/></terms></NAF>`

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// setupCorpus creates corpus/A1, corpus/A2 and corpus/naf. Both annotators
// agree on doc1 and disagree on doc2.
func setupCorpus(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	write(t, filepath.Join(root, "corpus", "A1", "doc1.xml"), catFile("Self_motion"))
	write(t, filepath.Join(root, "corpus", "A1", "doc2.xml"), catFile("Self_motion"))
	write(t, filepath.Join(root, "corpus", "A2", "doc1.xml"), catFile("Self_motion"))
	write(t, filepath.Join(root, "corpus", "A2", "doc2.xml"), catFile("Motion"))
	write(t, filepath.Join(root, "corpus", "naf", "doc1.naf"), nafFile)
	write(t, filepath.Join(root, "corpus", "naf", "doc2.naf"), nafFile)
	return root
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := newApp(UI{Out: &out, Err: &errOut}).Run(append([]string{"sonarfn"}, args...))
	return out.String(), errOut.String(), err
}

func TestLoadCommand(t *testing.T) {
	root := setupCorpus(t)
	bins := filepath.Join(root, "bins")

	out, _, err := run(t, "load", "--annotator", "A1", "--output-folder", bins,
		"--corpus", filepath.Join(root, "corpus"), "--progress=false")
	require.NoError(t, err)
	assert.Contains(t, out, "written 2 frames of A1")

	var p Pool
	defer p.Close()
	repo, err := NewFrameRepository(&p, bins)
	require.NoError(t, err)

	frames, err := repo.Read("A1")
	require.NoError(t, err)
	require.Len(t, frames, 2)

	f := frames[annotation.Key{DocName: "doc1.xml", MentionId: "10"}]
	require.NotNil(t, f)
	assert.Equal(t, []string{"Self_motion"}, f.Labels)
	assert.Equal(t, annotation.NoConfidence, *f.Roles["Self_mover"].Confidence)
}

func TestLoadCommandSQLite(t *testing.T) {
	root := setupCorpus(t)
	bins := filepath.Join(root, "bins")

	_, _, err := run(t, "load", "--annotator", "A2", "--output-folder", bins,
		"--corpus", filepath.Join(root, "corpus"), "--naf-dir", filepath.Join(root, "corpus", "naf"),
		"--store", "sqlite", "--progress=false")
	require.NoError(t, err)

	var p Pool
	defer p.Close()
	repo, err := NewFrameRepository(&p, filepath.Join(bins, sqliteFile))
	require.NoError(t, err)

	frames, err := repo.Read("A2")
	require.NoError(t, err)
	assert.Equal(t, "lopen", frames[annotation.Key{DocName: "doc2.xml", MentionId: "10"}].Lemma())
}

func TestLoadCommandUnknownAnnotator(t *testing.T) {
	root := setupCorpus(t)

	_, _, err := run(t, "load", "--annotator", "A3", "--output-folder", filepath.Join(root, "bins"), "--progress=false")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an option")
}

func TestConvertCommand(t *testing.T) {
	root := setupCorpus(t)
	cfgPath := filepath.Join(root, "v0.yaml")
	write(t, cfgPath, `
annotators:
  - name: A1
    cat_dir: corpus/A1
  - name: A2
    cat_dir: corpus/A2
naf_dir: corpus/naf
statistics_folder: statistics
output_folder: bins
table_formats: [csv]
`)
	// stale output must be removed
	write(t, filepath.Join(root, "statistics", "old.xlsx"), "x")

	out, _, err := run(t, "convert", "--config-path", cfgPath, "--progress=false")
	require.NoError(t, err)
	assert.Contains(t, out, "agreed")
	assert.Contains(t, out, "lexical units 1, frames 1")

	assert.NoFileExists(t, filepath.Join(root, "statistics", "old.xlsx"))
	assert.FileExists(t, filepath.Join(root, "statistics", "frequency.xlsx"))
	assert.FileExists(t, filepath.Join(root, "statistics", lexiconFile))
	assert.FileExists(t, filepath.Join(root, "bins", "gold.json"))
	assert.FileExists(t, filepath.Join(root, "bins", "A1.json"))

	f, err := os.Open(filepath.Join(root, "statistics", "frequency.csv"))
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "Self_motion,lopen,V,1", strings.Join(records[1], ","))
}

func TestConvertCommandMissingConfig(t *testing.T) {
	_, _, err := run(t, "convert", "--config-path", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestRemoveAndCreateFolderProtected(t *testing.T) {
	dir := t.TempDir()
	assert.Error(t, removeAndCreateFolder(dir, dir))
}

func TestRemoveAndCreateFolderRefusesParent(t *testing.T) {
	root := t.TempDir()
	cfgDir := filepath.Join(root, "config")
	write(t, filepath.Join(cfgDir, "v0.yaml"), "statistics_folder: ../\n")
	write(t, filepath.Join(root, "corpus", "A1", "doc.xml"), catFile("Self_motion"))

	err := removeAndCreateFolder(filepath.Join(cfgDir, ".."), cfgDir)
	require.Error(t, err)
	assert.FileExists(t, filepath.Join(cfgDir, "v0.yaml"))
	assert.FileExists(t, filepath.Join(root, "corpus", "A1", "doc.xml"))

	err = removeAndCreateFolder(filepath.Join(root, "corpus"), cfgDir, filepath.Join(root, "corpus", "A1"))
	require.Error(t, err)
	assert.FileExists(t, filepath.Join(root, "corpus", "A1", "doc.xml"))
}

func TestRemoveAndCreateFolderSibling(t *testing.T) {
	root := t.TempDir()
	cfgDir := filepath.Join(root, "config")
	stats := filepath.Join(root, "statistics")
	write(t, filepath.Join(cfgDir, "v0.yaml"), "")
	write(t, filepath.Join(stats, "old.csv"), "x")

	require.NoError(t, removeAndCreateFolder(stats, cfgDir, ""))
	assert.NoFileExists(t, filepath.Join(stats, "old.csv"))
	assert.DirExists(t, stats)
	assert.FileExists(t, filepath.Join(cfgDir, "v0.yaml"))
}

func TestConvertCommandRefusesCorpusFolder(t *testing.T) {
	root := setupCorpus(t)
	cfgPath := filepath.Join(root, "config", "v0.yaml")
	write(t, cfgPath, `
annotators:
  - name: A1
    cat_dir: ../corpus/A1
  - name: A2
    cat_dir: ../corpus/A2
naf_dir: ../corpus/naf
statistics_folder: ../corpus
`)

	_, _, err := run(t, "convert", "--config-path", cfgPath, "--progress=false")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refusing to remove")
	assert.FileExists(t, filepath.Join(root, "corpus", "A1", "doc1.xml"))
}

func TestInspectCommandUnknownAnnotator(t *testing.T) {
	root := setupCorpus(t)
	bins := filepath.Join(root, "bins")

	_, _, err := run(t, "load", "--annotator", "A1", "--output-folder", bins,
		"--corpus", filepath.Join(root, "corpus"), "--progress=false")
	require.NoError(t, err)

	_, _, err = run(t, "inspect", "--store", bins, "--annotator", "A2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available annotators: A1")
}

func TestProgressWritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	bar := newProgress(true, &buf)
	bar.Incr("A1", 2, "doc1.xml")
	bar.Incr("A1", 2, "doc2.xml")
	bar.Stop()

	assert.Contains(t, buf.String(), "A1")
}

func TestProgressDisabled(t *testing.T) {
	bar := newProgress(false, nil)
	assert.Nil(t, bar.Callback("A1"))
	bar.Incr("A1", 1, "doc1.xml")
	bar.Stop()
}

func TestCreateFrameRepositoryUnknownStore(t *testing.T) {
	var p Pool
	_, _, err := CreateFrameRepository(&p, t.TempDir(), "pickle")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "sonarfn version"))
}

func TestPoolSingleDatabase(t *testing.T) {
	dir := t.TempDir()
	var p Pool
	defer p.Close()

	first, err := p.Open(filepath.Join(dir, "a.db"))
	require.NoError(t, err)
	again, err := p.Open(filepath.Join(dir, "a.db"))
	require.NoError(t, err)
	assert.Same(t, first, again)

	_, err = p.Open(filepath.Join(dir, "b.db"))
	assert.Error(t, err)
}
