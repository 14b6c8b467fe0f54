// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mwiater/signalcmp/internal/analysis"
	"github.com/mwiater/signalcmp/internal/dataset"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.yaml"
	// defaultLogFile is used when the config does not name a log file.
	defaultLogFile = "signalcmp.log"
)

// Config represents the top-level application configuration.
type Config struct {
	InputDir     string                       `json:"inputDir" yaml:"inputDir" mapstructure:"inputDir"`
	OutputDir    string                       `json:"outputDir" yaml:"outputDir" mapstructure:"outputDir"`
	Files        map[string]map[string]string `json:"files,omitempty" yaml:"files,omitempty" mapstructure:"files"`
	Comparisons  []analysis.ComparisonSpec    `json:"comparisons,omitempty" yaml:"comparisons,omitempty" mapstructure:"comparisons"`
	Derived      *analysis.DerivedSpec        `json:"derived,omitempty" yaml:"derived,omitempty" mapstructure:"derived"`
	Charts       bool                         `json:"charts" yaml:"charts" mapstructure:"charts"`
	Dashboard    bool                         `json:"dashboard" yaml:"dashboard" mapstructure:"dashboard"`
	AnalysisJSON string                       `json:"analysisJSON,omitempty" yaml:"analysisJSON,omitempty" mapstructure:"analysisJSON"`
	LogFile      string                       `json:"logFile,omitempty" yaml:"logFile,omitempty" mapstructure:"logFile"`
	Debug        bool                         `json:"debug" yaml:"debug" mapstructure:"debug"`
	JSONMode     bool                         `json:"jsonMode" yaml:"jsonMode" mapstructure:"jsonMode"`
	ConfigPath   string                       `json:"-" yaml:"-" mapstructure:"-"`
}

// Defaults returns the configuration used when no file is present.
func Defaults() Config {
	return Config{Charts: true, Dashboard: true}.WithDefaults()
}

// WithDefaults fills every unset value.
func (c Config) WithDefaults() Config {
	if strings.TrimSpace(c.InputDir) == "" {
		c.InputDir = "."
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		c.OutputDir = "."
	}
	if len(c.Comparisons) == 0 {
		c.Comparisons = analysis.DefaultComparisons()
	}
	if c.Derived == nil {
		d := analysis.DefaultDerived()
		c.Derived = &d
	}
	return c
}

// Validate rejects unknown roles and tables, and anything the analysis
// options would reject.
func (c Config) Validate() error {
	for role, tables := range c.Files {
		if !knownRole(role) {
			return fmt.Errorf("files: unknown role %q", role)
		}
		for table := range tables {
			if _, ok := dataset.SchemaFor(dataset.TableName(table)); !ok {
				return fmt.Errorf("files.%s: unknown table %q", role, table)
			}
		}
	}
	return c.AnalysisOptions().Validate()
}

func knownRole(name string) bool {
	for _, r := range dataset.Roles() {
		if string(r) == name {
			return true
		}
	}
	return false
}

// Sources resolves the configured file names over the defaults.
func (c Config) Sources() dataset.Sources {
	files := dataset.DefaultFiles()
	for role, tables := range c.Files {
		r := dataset.Role(role)
		if files[r] == nil {
			files[r] = map[dataset.TableName]string{}
		}
		for table, name := range tables {
			if strings.TrimSpace(name) != "" {
				files[r][dataset.TableName(table)] = name
			}
		}
	}
	return dataset.Sources{Dir: c.InputDir, Files: files}
}

// AnalysisOptions builds the pipeline options for this configuration.
func (c Config) AnalysisOptions() analysis.Options {
	c = c.WithDefaults()
	opts := analysis.DefaultOptions(c.InputDir)
	opts.Sources = c.Sources()
	opts.Comparisons = c.Comparisons
	opts.Derived = *c.Derived
	return opts
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return defaultLogFile
}

// OutputPath places name under the output directory unless it is absolute.
func (c Config) OutputPath(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	dir := c.OutputDir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, name)
}

// AnalysisJSONPath is where the analysis document is written, or "" when
// disabled.
func (c Config) AnalysisJSONPath() string {
	return c.OutputPath(c.AnalysisJSON)
}

// Load reads the application configuration from the specified path. The
// document is checked against the configuration schema before it is decoded.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("no configuration file found at %q", path)
		}
		return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
	}

	cfg, err := Parse(data, FormatOf(path))
	if err != nil {
		return Config{}, fmt.Errorf("config file %q: %w", path, err)
	}
	cfg.ConfigPath = path
	return cfg, nil
}

// FormatOf picks the decoder for a config path: "json" for .json files and
// "yaml" for everything else.
func FormatOf(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return "json"
	}
	return "yaml"
}

// Parse validates and decodes a configuration document.
func Parse(data []byte, format string) (Config, error) {
	doc, err := decodeDocument(data, format)
	if err != nil {
		return Config{}, err
	}
	if err := ValidateDocument(doc); err != nil {
		return Config{}, err
	}

	cfg := Defaults()
	cfg.Comparisons = nil
	cfg.Derived = nil
	switch format {
	case "json":
		err = json.Unmarshal(data, &cfg)
	default:
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("decode %s: %w", format, err)
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeDocument(data []byte, format string) (map[string]any, error) {
	var doc map[string]any
	var err error
	switch format {
	case "json":
		err = json.Unmarshal(data, &doc)
	default:
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", format, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}
