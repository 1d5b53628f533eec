// Package config loads the optional `.decafc.yaml` defaults file
// (SPEC_FULL.md §6): per-project defaults for target, optimizations and
// debug that explicit CLI flags always override. Grounded on the
// cobra+YAML ambient-config pattern visible across the pack (e.g.
// rcornwell-S370's cobra+viper+yaml pairing); the lighter `yaml.v3` decode
// is used directly since no component here needs viper's remote-config
// machinery.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FileName is the default config file name looked up in the current
// directory, mirroring the dotfile convention of the pack's cobra+yaml
// tools.
const FileName = ".decafc.yaml"

// Config holds the subset of CLI flags a project can default via YAML.
// Zero values mean "not set" so Load's caller can tell an explicit flag
// from silence.
type Config struct {
	Target        string `yaml:"target"`
	Optimizations string `yaml:"optimizations"`
	Debug         bool   `yaml:"debug"`
}

// Load reads and parses path. A missing file is not an error: it returns a
// zero Config, since `.decafc.yaml` is optional.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}
	return &c, nil
}
