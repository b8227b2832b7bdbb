// Package config holds the exporter settings. They are read from a YAML file
// once at startup; there are no per-export overrides.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/binzume/blockmodelconv/blockmodel"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "blockmodelconv.yaml"

type Config struct {
	OutputDir      string        `yaml:"output_dir"`
	IncludeNormals bool          `yaml:"include_normals"`
	FacePolicy     string        `yaml:"face_policy"` // "fail" or "skip"
	Scale          float32       `yaml:"scale"`       // applied to mqo coordinates
	Log            LoggingConfig `yaml:"log"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

func Default() *Config {
	return &Config{
		OutputDir:      "~/Desktop",
		IncludeNormals: true,
		FacePolicy:     blockmodel.FailFast.String(),
		Scale:          1,
		Log: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults. An empty path falls back to DefaultFile
// if it exists, otherwise the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat(DefaultFile); err != nil {
			return cfg, cfg.normalize()
		}
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "loading config")
	}
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}
	if err := cfg.normalize(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	if _, err := c.Policy(); err != nil {
		return err
	}
	if c.Scale <= 0 {
		return errors.Errorf("scale must be positive, got %v", c.Scale)
	}
	dir, err := expandHome(c.OutputDir)
	if err != nil {
		return err
	}
	c.OutputDir = dir
	return nil
}

// Policy parses FacePolicy.
func (c *Config) Policy() (blockmodel.FacePolicy, error) {
	switch strings.ToLower(c.FacePolicy) {
	case "", "fail":
		return blockmodel.FailFast, nil
	case "skip":
		return blockmodel.SkipMalformed, nil
	}
	return blockmodel.FailFast, errors.Errorf("unknown face_policy %q", c.FacePolicy)
}

// ExtractOption converts the settings for blockmodel.NewExtractor.
func (c *Config) ExtractOption() *blockmodel.ExtractOption {
	policy, _ := c.Policy()
	return &blockmodel.ExtractOption{
		OmitNormals: !c.IncludeNormals,
		Policy:      policy,
	}
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "expanding output_dir")
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
