// Package config loads the conversion configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// The two annotators of the corpus.
const (
	FirstAnnotator  = "A1"
	SecondAnnotator = "A2"
)

var ErrUnknownAnnotator = errors.New("unknown annotator")

// Annotator locates the CAT files of one annotator.
type Annotator struct {
	Name   string `yaml:"name" json:"name"`
	CatDir string `yaml:"cat_dir" json:"cat_dir"`
}

// Config is read from a YAML file. JSON files are accepted too.
type Config struct {
	// Annotators are merged in order: frames of the first go to the gold set.
	Annotators []Annotator `yaml:"annotators" json:"annotators"`

	// NAF files paired with the CAT files by filename stem
	NafDir string `yaml:"naf_dir" json:"naf_dir"`

	// Removed and created again on every conversion
	StatisticsFolder string `yaml:"statistics_folder" json:"statistics_folder"`

	// Snapshots of the annotators and of the gold set
	OutputFolder string `yaml:"output_folder" json:"output_folder"`

	// Extra frequency table formats besides xlsx: csv, tsv
	TableFormats []string `yaml:"table_formats" json:"table_formats"`

	// Overrides of the NAF to FrameNet POS mapping
	PosMap map[string]string `yaml:"pos_map" json:"pos_map"`
}

// DefaultConfig returns the layout of the SoNaR annotation project.
func DefaultConfig() *Config {
	return &Config{
		Annotators: []Annotator{
			{Name: FirstAnnotator, CatDir: filepath.Join("corpus", FirstAnnotator)},
			{Name: SecondAnnotator, CatDir: filepath.Join("corpus", SecondAnnotator)},
		},
		NafDir:           filepath.Join("corpus", "naf"),
		StatisticsFolder: "statistics",
		OutputFolder:     "bins",
	}
}

// Load loads configuration from a YAML or JSON file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.resolve(filepath.Dir(path))
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides replaces the output and statistics folders. Relative
// values are relative to the working directory.
func (c *Config) applyEnvOverrides() error {
	for env, field := range map[string]*string{
		"SONARFN_OUTPUT":     &c.OutputFolder,
		"SONARFN_STATISTICS": &c.StatisticsFolder,
	} {
		v := os.Getenv(env)
		if v == "" {
			continue
		}
		abs, err := filepath.Abs(v)
		if err != nil {
			return fmt.Errorf("%s: %w", env, err)
		}
		*field = abs
	}
	return nil
}

// resolve makes relative paths relative to the directory of the config
// file.
func (c *Config) resolve(base string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}

	for i := range c.Annotators {
		c.Annotators[i].CatDir = abs(c.Annotators[i].CatDir)
	}
	c.NafDir = abs(c.NafDir)
	c.StatisticsFolder = abs(c.StatisticsFolder)
	c.OutputFolder = abs(c.OutputFolder)
}

// Validate checks that exactly the two known annotators are configured.
func (c *Config) Validate() error {
	if len(c.Annotators) != 2 {
		return fmt.Errorf("expected 2 annotators, got %d", len(c.Annotators))
	}
	seen := map[string]bool{}
	for _, a := range c.Annotators {
		if err := ValidateAnnotator(a.Name); err != nil {
			return err
		}
		if seen[a.Name] {
			return fmt.Errorf("annotator %s configured twice", a.Name)
		}
		seen[a.Name] = true
		if a.CatDir == "" {
			return fmt.Errorf("annotator %s: no cat_dir", a.Name)
		}
	}
	if c.StatisticsFolder == "" {
		return errors.New("no statistics_folder")
	}
	for _, f := range c.TableFormats {
		if f != "csv" && f != "tsv" && f != "xlsx" {
			return fmt.Errorf("unsupported table format: %s", f)
		}
	}
	return nil
}

// ValidateAnnotator accepts only A1 and A2.
func ValidateAnnotator(name string) error {
	if name != FirstAnnotator && name != SecondAnnotator {
		return fmt.Errorf("%w: %q not an option: {%s, %s}", ErrUnknownAnnotator, name, FirstAnnotator, SecondAnnotator)
	}
	return nil
}
