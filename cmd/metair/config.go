package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// DefaultConfigName is looked up in the working directory when --config is
// not given.
const DefaultConfigName = "metair.toml"

// fileConfig mirrors metair.toml:
//
//	[target]
//	name = "linux_arm32"
//
//	[dump]
//	jobs = 4
//	cache = true
type fileConfig struct {
	Target struct {
		Name string `toml:"name"`
	} `toml:"target"`
	Dump struct {
		Jobs  int  `toml:"jobs"`
		Cache bool `toml:"cache"`
	} `toml:"dump"`

	defined func(key ...string) bool
}

// isSet reports whether key was present in the file.
func (c *fileConfig) isSet(key ...string) bool {
	return c.defined != nil && c.defined(key...)
}

// loadConfig reads path. An empty path falls back to DefaultConfigName and
// a missing default file yields an empty config.
func loadConfig(path string) (*fileConfig, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigName
	}
	cfg := &fileConfig{}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if cfg.Dump.Jobs < 0 {
		return nil, fmt.Errorf("%s: [dump].jobs must not be negative", path)
	}
	cfg.defined = md.IsDefined
	return cfg, nil
}
