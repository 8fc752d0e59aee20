package main

import (
	"fmt"
	"strings"

	"github.com/revelaction/sonarfn/inspect"
	"github.com/revelaction/sonarfn/render"
)

type InspectOptions struct {
	Store     string
	Annotator string
	NoColor   bool
}

func inspectCommand(opts InspectOptions, ui UI) error {
	var p Pool
	defer p.Close()

	repo, err := NewFrameRepository(&p, opts.Store)
	if err != nil {
		return err
	}

	frames, err := repo.Read(opts.Annotator)
	if err != nil {
		names, lerr := repo.Annotators()
		if lerr != nil || len(names) == 0 {
			return err
		}
		return fmt.Errorf("%w (available annotators: %s)", err, strings.Join(names, ", "))
	}

	r := render.NewRenderer(ui.Out)
	r.HasColor = !opts.NoColor

	return inspect.NewHandler(opts.Annotator, frames, r).Run()
}
