package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/sonarfn/config"
)

var (
	BuildTag    = "dev"
	BuildCommit = "none"
)

// UI contains the output streams for the application.
// Used for injecting buffers during testing.
type UI struct {
	Out io.Writer
	Err io.Writer
}

func main() {
	ui := UI{Out: os.Stdout, Err: os.Stderr}

	if err := newApp(ui).Run(os.Args); err != nil {
		fprintErr(ui.Err, err)
		os.Exit(1)
	}
}

func fprintErr(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "sonarfn: %v\n", err)
}

func verboseFlag() cli.Flag {
	return &cli.IntFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Value:   0,
		Usage:   "0: errors only, 1: general output, 2: detailed output",
	}
}

func progressFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "progress",
		Value: true,
		Usage: "show a progress bar while parsing",
	}
}

func newApp(ui UI) *cli.App {
	return &cli.App{
		Name:            "sonarfn",
		Usage:           "convert SoNaR CAT/NAF frame annotations and merge two annotators",
		Writer:          ui.Out,
		ErrWriter:       ui.Err,
		HideHelpCommand: true,
		Commands: []*cli.Command{
			{
				Name:  "load",
				Usage: "parse the CAT files of one annotator and write a frame snapshot",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "annotator",
						Required: true,
						Usage:    fmt.Sprintf("%s | %s", config.FirstAnnotator, config.SecondAnnotator),
					},
					&cli.StringFlag{
						Name:     "output-folder",
						Aliases:  []string{"output_folder"},
						Required: true,
						Usage:    "folder of the snapshot",
					},
					&cli.StringFlag{
						Name:    "corpus",
						Value:   "../corpus",
						EnvVars: []string{"SONARFN_CORPUS"},
						Usage:   "folder with one CAT folder per annotator",
					},
					&cli.StringFlag{
						Name:  "naf-dir",
						Usage: "folder of the NAF files, to lemmatize tokens",
					},
					&cli.StringFlag{
						Name:  "store",
						Value: storeJSON,
						Usage: "snapshot format: json | sqlite",
					},
					verboseFlag(),
					progressFlag(),
				},
				Action: func(c *cli.Context) error {
					opts := LoadOptions{
						Annotator:    c.String("annotator"),
						OutputFolder: c.String("output-folder"),
						Corpus:       c.String("corpus"),
						NafDir:       c.String("naf-dir"),
						Store:        c.String("store"),
						Verbose:      c.Int("verbose"),
						Progress:     c.Bool("progress"),
					}
					return loadCommand(opts, ui)
				},
			},
			{
				Name:  "convert",
				Usage: "merge both annotators and write the frequency table",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "config-path",
						Aliases:  []string{"config_path", "c"},
						Required: true,
						Usage:    "YAML or JSON configuration file",
					},
					verboseFlag(),
					progressFlag(),
				},
				Action: func(c *cli.Context) error {
					opts := ConvertOptions{
						ConfigPath: c.String("config-path"),
						Verbose:    c.Int("verbose"),
						Progress:   c.Bool("progress"),
					}
					return convertCommand(c.Context, opts, ui)
				},
			},
			{
				Name:  "inspect",
				Usage: "browse the frames of a snapshot interactively",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "store",
						Required: true,
						Usage:    "snapshot folder or SQLite file",
					},
					&cli.StringFlag{
						Name:     "annotator",
						Required: true,
						Usage:    "annotator name, or gold",
					},
					&cli.BoolFlag{
						Name:  "no-color",
						Usage: "disable colored output",
					},
				},
				Action: func(c *cli.Context) error {
					opts := InspectOptions{
						Store:     c.String("store"),
						Annotator: c.String("annotator"),
						NoColor:   c.Bool("no-color"),
					}
					return inspectCommand(opts, ui)
				},
			},
			{
				Name:  "version",
				Usage: "print the version",
				Action: func(c *cli.Context) error {
					return versionCommand(ui)
				},
			},
		},
	}
}
