// Package config resolves where the vault lives and how first-run setup
// judges passphrases. Values come from an optional TOML file under the user
// config directory, then GIVME_ environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/Hussein-Mazeh/givme/auth"
)

const (
	appDir      = "givme"
	fileName    = "config.toml"
	dbFileName  = "cred.db"
	debugDBName = "cred_debug.db"
)

// Config holds the resolved configuration.
type Config struct {
	// DBPath is the vault database file.
	DBPath string `toml:"db_path"`
	// CheckBreached enables the breach lookup during first-run setup.
	CheckBreached bool `toml:"check_breached"`
	// MinStrength is the zxcvbn score (0-4) under which a weak passphrase warning is printed.
	MinStrength int `toml:"min_strength"`

	// Debug is set from GIVME_DEBUG; it is never read from the file.
	Debug bool `toml:"-"`
	// Dir is the directory the configuration was resolved against.
	Dir string `toml:"-"`
}

// Load resolves the configuration against <UserConfigDir>/givme.
func Load() (*Config, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("locate user config directory: %w", err)
	}
	return LoadFrom(filepath.Join(base, appDir))
}

// LoadFrom resolves the configuration against dir. A missing config file is
// not an error. Environment variables override file values: GIVME_DB_PATH,
// GIVME_CHECK_BREACHED and GIVME_DEBUG. With GIVME_DEBUG set and no explicit
// path, the vault is ./cred_debug.db.
func LoadFrom(dir string) (*Config, error) {
	cfg := &Config{MinStrength: auth.DefaultMinScore, Dir: dir}

	path := filepath.Join(dir, fileName)
	if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if v, ok := os.LookupEnv("GIVME_DB_PATH"); ok && v != "" {
		cfg.DBPath = v
	}

	if v, ok := os.LookupEnv("GIVME_CHECK_BREACHED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("GIVME_CHECK_BREACHED has invalid value %q: %w", v, err)
		}
		cfg.CheckBreached = b
	}

	if _, ok := os.LookupEnv("GIVME_DEBUG"); ok {
		cfg.Debug = true
	}

	if cfg.MinStrength < 0 || cfg.MinStrength > 4 {
		return nil, fmt.Errorf("min_strength must be between 0 and 4, got %d", cfg.MinStrength)
	}

	if cfg.DBPath == "" {
		if cfg.Debug {
			cfg.DBPath = debugDBName
		} else {
			cfg.DBPath = filepath.Join(dir, dbFileName)
		}
	}

	return cfg, nil
}

// Policy builds the passphrase policy described by the configuration.
func (c *Config) Policy() *auth.Policy {
	p := &auth.Policy{MinScore: c.MinStrength}
	if c.CheckBreached {
		p.Breaches = auth.NewBreachChecker()
	}
	return p
}
