// Package config loads indexer configuration from defaults, an optional
// YAML file, and LIBRIS_-prefixed environment variables, in that order.
package config

import (
	"os"
	"strings"

	"github.com/creasty/defaults"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const envPrefix = "LIBRIS_"

type Config struct {
	// LibraryPath is the root folder scanned for archives.
	LibraryPath string `koanf:"library_path"`
	// Workers sizes the scan worker pool. Zero means one worker per CPU.
	Workers int `koanf:"workers"`
	// DictionaryPath overrides the bundled keyword dictionary.
	DictionaryPath string `koanf:"dictionary_path"`
	// MaxTextBytes bounds content-text extraction per archive.
	MaxTextBytes int64 `koanf:"max_text_bytes" default:"1048576"`
	// FailFast aborts a scan on the first file failure.
	FailFast bool `koanf:"fail_fast"`
}

// New loads the configuration. The file at path is optional; a missing file
// is not an error when path is empty.
func New(path string) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrapf(err, "config file %s", path)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.WithStack(err)
	}
	return cfg, nil
}
