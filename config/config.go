// Package config reads the YAML configuration shared by the train and parse
// commands.
package config

import (
	"os"

	"github.com/ling0322/pcfg"
	"github.com/ling0322/pcfg/oov"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// OOV configures the out-of-vocabulary resolver
type OOV struct {
	MaxEditDistance   int    `yaml:"max_edit_distance"`
	CompoundSeparator string `yaml:"compound_separator"`
}

// Drop is a residual rule removed during unit rule elimination
type Drop struct {
	Left string `yaml:"left"`
	Via  string `yaml:"via"`
	Drop string `yaml:"drop"`
}

// Config holds every setting of a training or parsing run
type Config struct {
	Root                string `yaml:"root"`
	SingleTokenCategory string `yaml:"single_token_category"`

	Model      string `yaml:"model"`
	Embeddings string `yaml:"embeddings"`

	Workers       int    `yaml:"workers"`
	SkipMalformed bool   `yaml:"skip_malformed"`
	Drops         []Drop `yaml:"drops"`
	Debug         bool   `yaml:"debug"`

	OOV OOV `yaml:"oov"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	drops := []Drop{}
	for _, d := range pcfg.DefaultCompositionDrops {
		drops = append(drops, Drop{Left: d.Left, Via: d.Via, Drop: d.Drop})
	}
	return &Config{
		Root:                pcfg.DefaultRoot,
		SingleTokenCategory: pcfg.DefaultSingleTokenCategory,
		Model:               "grammar.gob",
		Drops:               drops,
		OOV: OOV{
			MaxEditDistance:   oov.DefaultMaxEditDistance,
			CompoundSeparator: "_",
		},
	}
}

// Parse reads a configuration from YAML, missing keys keep their default
func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, errors.Wrap(err, "config.Parse")
	}
	return c, c.Validate()
}

// Load reads the configuration file at path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "config.Load")
	}
	return Parse(data)
}

// Validate checks the values that can not be defaulted
func (c *Config) Validate() error {
	if c.Root == "" {
		return errors.New("config: root must not be empty")
	}
	if c.SingleTokenCategory == "" {
		return errors.New("config: single_token_category must not be empty")
	}
	for _, d := range c.Drops {
		if d.Left == "" || d.Via == "" || d.Drop == "" {
			return errors.Errorf("config: incomplete drop %+v", d)
		}
	}
	return nil
}

// TrainOptions converts the configuration for pcfg.Train
func (c *Config) TrainOptions() pcfg.TrainOptions {
	drops := []pcfg.CompositionDrop{}
	for _, d := range c.Drops {
		drops = append(drops, pcfg.CompositionDrop{Left: d.Left, Via: d.Via, Drop: d.Drop})
	}
	return pcfg.TrainOptions{
		Root:          c.Root,
		SkipMalformed: c.SkipMalformed,
		Drops:         drops,
		Debug:         c.Debug,
	}
}

// ParserOptions converts the configuration for pcfg.NewParser
func (c *Config) ParserOptions() pcfg.ParserOptions {
	return pcfg.ParserOptions{
		SingleTokenCategory: c.SingleTokenCategory,
		Debug:               c.Debug,
	}
}

// OOVOptions converts the configuration for oov.New
func (c *Config) OOVOptions() oov.Options {
	return oov.Options{
		MaxEditDistance:   c.OOV.MaxEditDistance,
		CompoundSeparator: c.OOV.CompoundSeparator,
	}
}
