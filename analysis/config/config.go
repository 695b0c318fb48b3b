// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"os"
	"path"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// The global config file
	configFile string
)

// SetGlobalConfig sets the global config filename
func SetGlobalConfig(filename string) {
	configFile = filename
}

// LoadGlobal loads the config file that has been set by SetGlobalConfig
func LoadGlobal() (*Config, error) {
	return Load(configFile)
}

// Config holds the settings of the visibility analysis.
// To add elements to a config file, add fields to this struct.
// If some field is not defined in the config file, it will be empty/zero in the struct.
// private fields are not populated from a yaml file, but computed after initialization
type Config struct {
	Options `yaml:",inline"`

	sourceFile string

	// if the UnitFilter is specified
	unitFilterRegex *regexp.Regexp
}

type Options struct {
	// OverrideAttribute is the name of the attribute that marks an implementation block as
	// eligible for the visibility override. Defaults to DefaultOverrideAttribute.
	OverrideAttribute string `yaml:"override-attribute"`

	// FailOnViolation controls whether a run with at least one privacy violation should be
	// considered failed by the driver. The checker itself never aborts; this is pipeline policy.
	FailOnViolation bool `yaml:"fail-on-violation"`

	// WarnUnusedOverride enables warnings for implementation blocks that carry the override
	// marker without needing it.
	WarnUnusedOverride bool `yaml:"warn-unused-override"`

	// UnitFilter restricts checking to the compilation units whose name matches the filter.
	// If empty, all units are checked.
	UnitFilter string `yaml:"unit-filter"`

	// NumGoroutines is the number of goroutines used to classify access sites. Values <= 1 run
	// the classification sequentially.
	NumGoroutines int `yaml:"num-goroutines"`

	// MaxAlarms sets a limit for the number of diagnostics reported by an analysis. If MaxAlarms > 0,
	// then at most MaxAlarms will be reported. Otherwise, if MaxAlarms <= 0, it is ignored.
	MaxAlarms int `yaml:"max-alarms"`

	// LogLevel controls the verbosity of the tool
	LogLevel int `yaml:"log-level"`

	// Suppress warnings
	SilenceWarn bool `yaml:"silence-warn"`
}

// NewDefault returns the default config.
func NewDefault() *Config {
	return &Config{
		sourceFile: "",
		Options: Options{
			OverrideAttribute:  DefaultOverrideAttribute,
			FailOnViolation:    true,
			WarnUnusedOverride: false,
			UnitFilter:         "",
			NumGoroutines:      1,
			MaxAlarms:          0,
			LogLevel:           int(InfoLevel),
			SilenceWarn:        false,
		},
	}
}

// Load reads a configuration from a file
func Load(filename string) (*Config, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	return LoadFromBytes(filename, b)
}

// LoadFromBytes reads a configuration from raw yaml contents, recording filename as its
// source file.
func LoadFromBytes(filename string, b []byte) (*Config, error) {
	cfg := NewDefault()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config file %s: %w", filename, err)
	}

	cfg.sourceFile = filename

	// If logLevel has not been specified (i.e. it is 0) set the default to Info
	if cfg.LogLevel == 0 {
		cfg.LogLevel = int(InfoLevel)
	}

	if cfg.OverrideAttribute == "" {
		cfg.OverrideAttribute = DefaultOverrideAttribute
	}

	if cfg.NumGoroutines <= 0 {
		cfg.NumGoroutines = 1
	}

	if cfg.UnitFilter != "" {
		r, err := regexp.Compile(cfg.UnitFilter)
		if err == nil {
			cfg.unitFilterRegex = r
		}
	}

	return cfg, nil
}

// RelPath returns filename path relative to the config source file
func (c Config) RelPath(filename string) string {
	return path.Join(path.Dir(c.sourceFile), filename)
}

// MatchUnitFilter returns true if the unit name matches the unit filter set in the config file. If no
// unit filter has been set in the config file, the regex will match anything and return true. This function safely
// considers the case where a filter has been specified by the user, but it could not be compiled to a regex. The safe
// case is to check whether the unit filter string is a prefix of the unit name
func (c Config) MatchUnitFilter(unit string) bool {
	if c.unitFilterRegex != nil {
		return c.unitFilterRegex.MatchString(unit)
	} else if c.UnitFilter != "" {
		return strings.HasPrefix(unit, c.UnitFilter)
	} else {
		return true
	}
}
