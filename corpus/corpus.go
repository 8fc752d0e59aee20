// Package corpus finds the CAT files of an annotator, pairs them with their
// NAF files and loads them into one FrameSet.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/revelaction/sonarfn/annotation"
	"github.com/revelaction/sonarfn/cat"
	"github.com/revelaction/sonarfn/naf"
)

var ErrMissingNAF = errors.New("no NAF file for CAT file")

// nafExts are tried in order to find the NAF file of a CAT file stem.
var nafExts = []string{".naf", ".xml"}

// File is a CAT file with its optional NAF companion.
type File struct {
	Name    string
	CatPath string
	NafPath string
}

// List returns the CAT xml files of dir, sorted by name.
func List(dir string) ([]File, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("corpus directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("corpus directory: %s is not a directory", dir)
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*xml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	files := make([]File, 0, len(paths))
	for _, p := range paths {
		files = append(files, File{Name: filepath.Base(p), CatPath: p})
	}
	return files, nil
}

// Pair lists the CAT files of catDir and sets the NAF file of each from
// nafDir, matched by filename stem.
func Pair(catDir, nafDir string) ([]File, error) {
	files, err := List(catDir)
	if err != nil {
		return nil, err
	}

	for i := range files {
		stem := strings.TrimSuffix(files[i].Name, filepath.Ext(files[i].Name))
		for _, ext := range nafExts {
			p := filepath.Join(nafDir, stem+ext)
			if _, err := os.Stat(p); err == nil {
				files[i].NafPath = p
				break
			}
		}
		if files[i].NafPath == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingNAF, files[i].Name)
		}
	}

	return files, nil
}

// Loader loads all the CAT documents of one annotator.
type Loader struct {
	CatDir string

	// Empty means tokens are not lemmatized
	NafDir string

	Logger *zap.Logger
}

func NewLoader(catDir, nafDir string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{CatDir: catDir, NafDir: nafDir, Logger: logger}
}

// Files returns the files the loader would read.
func (l *Loader) Files() ([]File, error) {
	if l.NafDir == "" {
		return List(l.CatDir)
	}
	return Pair(l.CatDir, l.NafDir)
}

// Load parses every document and returns the union of their frames.
// The callback is called for each file loaded (total, current_name).
func (l *Loader) Load(cb func(total int, name string)) (annotation.FrameSet, error) {
	return l.load(context.Background(), cb)
}

func (l *Loader) load(ctx context.Context, cb func(total int, name string)) (annotation.FrameSet, error) {
	files, err := l.Files()
	if err != nil {
		return nil, err
	}

	set := annotation.FrameSet{}
	total := len(files)
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if cb != nil {
			cb(total, f.Name)
		}

		frames, err := l.loadFile(f)
		if err != nil {
			return nil, err
		}
		set.Add(frames)
	}

	l.Logger.Info("loaded corpus",
		zap.String("dir", l.CatDir),
		zap.Int("docs", total),
		zap.Int("frames", len(set)))

	return set, nil
}

func (l *Loader) loadFile(f File) (annotation.FrameSet, error) {
	doc, err := cat.ParseFile(f.CatPath)
	if err != nil {
		return nil, err
	}

	var lemmas naf.Index
	if f.NafPath != "" {
		lemmas, err = naf.LoadIndex(f.NafPath)
		if err != nil {
			return nil, err
		}
	}

	frames, err := cat.LoadDocument(doc, f.Name, lemmas, l.Logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Name, err)
	}

	l.Logger.Debug("loaded document", zap.String("doc", f.Name), zap.Int("frames", len(frames)))
	return frames, nil
}

// LoadAll runs the loaders of several annotators in parallel and returns
// their frames by annotator name. The first error cancels the others.
func LoadAll(ctx context.Context, loaders map[string]*Loader, cb func(annotator string, total int, name string)) (map[string]annotation.FrameSet, error) {
	var mu sync.Mutex
	sets := make(map[string]annotation.FrameSet, len(loaders))

	g, ctx := errgroup.WithContext(ctx)
	for annotator, l := range loaders {
		annotator, l := annotator, l
		g.Go(func() error {
			var fileCb func(int, string)
			if cb != nil {
				fileCb = func(total int, name string) { cb(annotator, total, name) }
			}

			set, err := l.load(ctx, fileCb)
			if err != nil {
				return fmt.Errorf("annotator %s: %w", annotator, err)
			}

			mu.Lock()
			sets[annotator] = set
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sets, nil
}
