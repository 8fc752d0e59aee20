package main

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/revelaction/sonarfn/config"
	"github.com/revelaction/sonarfn/corpus"
)

type LoadOptions struct {
	Annotator    string
	OutputFolder string
	Corpus       string
	NafDir       string
	Store        string
	Verbose      int
	Progress     bool
}

// loadCommand parses the CAT folder of one annotator and writes its frames
// by (doc name, m_id).
func loadCommand(opts LoadOptions, ui UI) error {
	if err := config.ValidateAnnotator(opts.Annotator); err != nil {
		return err
	}

	logger := newLogger(opts.Verbose, ui.Err)
	defer logger.Sync()

	if opts.Verbose > 0 {
		fmt.Fprintf(ui.Out, "annotator %s, corpus %s, output %s\n", opts.Annotator, opts.Corpus, opts.OutputFolder)
	}

	var p Pool
	defer p.Close()
	repo, location, err := CreateFrameRepository(&p, opts.OutputFolder, opts.Store)
	if err != nil {
		return err
	}

	loader := corpus.NewLoader(filepath.Join(opts.Corpus, opts.Annotator), opts.NafDir, logger)

	bar := newProgress(opts.Progress, ui.Err)
	frames, err := loader.Load(bar.Callback(opts.Annotator))
	bar.Stop()
	if err != nil {
		return err
	}

	if err := repo.Write(opts.Annotator, frames); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	logger.Info("written snapshot", zap.String("annotator", opts.Annotator), zap.Int("frames", len(frames)))
	fmt.Fprintf(ui.Out, "written %d frames of %s to: %s\n", len(frames), opts.Annotator, location)
	return nil
}
