package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/revelaction/sonarfn/config"
	"github.com/revelaction/sonarfn/corpus"
	"github.com/revelaction/sonarfn/lexicon"
	"github.com/revelaction/sonarfn/merge"
	"github.com/revelaction/sonarfn/render"
	"github.com/revelaction/sonarfn/stat"
	"github.com/revelaction/sonarfn/storage/filesystem"
)

const (
	goldAnnotator = "gold"
	tableName     = "frequency"
	lexiconFile   = "lexicon.json"
)

type ConvertOptions struct {
	ConfigPath string
	Verbose    int
	Progress   bool
}

// convertCommand merges the two annotators of the configuration and writes
// the frequency table of the frames they agree on.
func convertCommand(ctx context.Context, opts ConvertOptions, ui UI) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	logger := newLogger(opts.Verbose, ui.Err)
	defer logger.Sync()

	loaders := make(map[string]*corpus.Loader, len(cfg.Annotators))
	for _, a := range cfg.Annotators {
		loaders[a.Name] = corpus.NewLoader(a.CatDir, cfg.NafDir, logger.With(zap.String("annotator", a.Name)))
	}

	bar := newProgress(opts.Progress, ui.Err)
	sets, err := corpus.LoadAll(ctx, loaders, bar.Incr)
	bar.Stop()
	if err != nil {
		return err
	}

	first, second := cfg.Annotators[0].Name, cfg.Annotators[1].Name
	res := merge.Merge(sets[first], sets[second], logger)

	lex := lexicon.Build(res.Gold, lexicon.NewMapper(cfg.PosMap))
	hdl := stat.NewHandler()
	hdl.Aggregate(lex.AllUnits())

	protected := []string{filepath.Dir(opts.ConfigPath), cfg.OutputFolder, cfg.NafDir}
	for _, a := range cfg.Annotators {
		protected = append(protected, a.CatDir)
	}
	if err := removeAndCreateFolder(cfg.StatisticsFolder, protected...); err != nil {
		return err
	}

	if err := writeTables(cfg, hdl.Rows()); err != nil {
		return err
	}

	if err := writeLexicon(filepath.Join(cfg.StatisticsFolder, lexiconFile), lex); err != nil {
		return err
	}

	store := filesystem.NewFrameStore(cfg.OutputFolder)
	for name, set := range sets {
		if err := store.Write(name, set); err != nil {
			return err
		}
	}
	if err := store.Write(goldAnnotator, res.Gold); err != nil {
		return err
	}

	r := render.NewRenderer(ui.Out)
	r.Stats(res.Stats)
	st := hdl.Get()
	fmt.Fprintf(ui.Out, "lexical units %d, frames %d\n", st.NumUnits, st.NumFrames)
	fmt.Fprintf(ui.Out, "written %d rows to: %s\n", len(hdl.Rows()), cfg.StatisticsFolder)
	return nil
}

// removeAndCreateFolder empties the statistics folder. It refuses a folder
// that is or contains the root, the working directory or any of protected.
func removeAndCreateFolder(folder string, protected ...string) error {
	abs, err := filepath.Abs(folder)
	if err != nil {
		return err
	}

	guarded := []string{string(filepath.Separator)}
	if wd, err := os.Getwd(); err == nil {
		guarded = append(guarded, wd)
	}
	for _, p := range protected {
		if p == "" {
			continue
		}
		if d, err := filepath.Abs(p); err == nil {
			guarded = append(guarded, d)
		}
	}

	for _, p := range guarded {
		if contains(abs, p) {
			return fmt.Errorf("refusing to remove folder %s: contains %s", abs, p)
		}
	}

	if err := os.RemoveAll(abs); err != nil {
		return err
	}
	return os.MkdirAll(abs, 0755)
}

// contains reports whether path is dir or lies inside it. Both are
// absolute.
func contains(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func writeTables(cfg *config.Config, rows []stat.Row) error {
	formats := []string{"xlsx"}
	for _, f := range cfg.TableFormats {
		if f != "xlsx" {
			formats = append(formats, f)
		}
	}

	for _, f := range formats {
		path := filepath.Join(cfg.StatisticsFolder, tableName+"."+f)
		if err := render.WriteTable(path, rows); err != nil {
			return err
		}
	}
	return nil
}

func writeLexicon(path string, lex *lexicon.Lexicon) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	return render.NewJSONRenderer(f).Render(lex)
}
