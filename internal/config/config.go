/*
fixdecoder — FIX protocol decoder tools
Copyright (C) 2025 Steve Clarke <stephenlclarke@mac.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU Affero General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.

In accordance with section 13 of the AGPL, if you modify this program,
your modified version must prominently offer all users interacting with it
remotely through a computer network an opportunity to receive the source
code of your version.
*/
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/stephenlclarke/fix42/fix"
)

const EnvLogLevel = "FIX42_LOG_LEVEL"

const (
	ColourAuto = "auto"
	ColourYes  = "yes"
	ColourNo   = "no"
)

// Config holds the fixdecoder settings. Command-line flags override it.
type Config struct {
	Validate      bool
	Colour        string
	Obfuscate     bool
	DuplicateTags fix.DuplicateTagPolicy
	SkipIntegrity bool
	LogLevel      slog.Level

	// Sensitive replaces fix.SensitiveTags when non-nil.
	Sensitive map[fix.Tag]string
}

type fileConfig struct {
	Validate      bool              `toml:"validate"`
	Colour        string            `toml:"colour"`
	Obfuscate     bool              `toml:"obfuscate"`
	DuplicateTags string            `toml:"duplicate_tags"`
	SkipIntegrity bool              `toml:"skip_integrity"`
	LogLevel      string            `toml:"log_level"`
	Sensitive     map[string]string `toml:"sensitive"`
}

func Default() Config {
	return Config{
		Colour:        ColourAuto,
		DuplicateTags: fix.DuplicateLastWins,
		LogLevel:      slog.LevelWarn,
	}
}

// Load reads path, when given, over the defaults and then applies the
// environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("validate") {
		cfg.Validate = raw.Validate
	}

	if meta.IsDefined("colour") {
		c := strings.ToLower(strings.TrimSpace(raw.Colour))
		switch c {
		case ColourAuto, ColourYes, ColourNo:
			cfg.Colour = c
		default:
			return fmt.Errorf("parse colour: %q is not auto, yes or no", raw.Colour)
		}
	}

	if meta.IsDefined("obfuscate") {
		cfg.Obfuscate = raw.Obfuscate
	}

	if meta.IsDefined("duplicate_tags") {
		p, err := fix.ParseDuplicateTagPolicy(strings.TrimSpace(raw.DuplicateTags))
		if err != nil {
			return fmt.Errorf("parse duplicate_tags: %w", err)
		}
		cfg.DuplicateTags = p
	}

	if meta.IsDefined("skip_integrity") {
		cfg.SkipIntegrity = raw.SkipIntegrity
	}

	if meta.IsDefined("log_level") {
		lvl, ok := ParseLevel(raw.LogLevel)
		if !ok {
			return fmt.Errorf("parse log_level: unknown level %q", raw.LogLevel)
		}
		cfg.LogLevel = lvl
	}

	if meta.IsDefined("sensitive") {
		cfg.Sensitive = make(map[fix.Tag]string, len(raw.Sensitive))
		for k, name := range raw.Sensitive {
			n, err := strconv.Atoi(strings.TrimSpace(k))
			if err != nil || n <= 0 {
				return fmt.Errorf("parse sensitive: bad tag %q", k)
			}
			cfg.Sensitive[fix.Tag(n)] = name
		}
	}

	return nil
}

func applyEnvOverrides(cfg *Config) {
	if lvl, ok := ParseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.LogLevel = lvl
	}
}

func ParseLevel(raw string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

func (c Config) DecodeOptions() fix.DecodeOptions {
	return fix.DecodeOptions{
		DuplicateTags: c.DuplicateTags,
		SkipIntegrity: c.SkipIntegrity,
	}
}
