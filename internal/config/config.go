// Package config loads the immutable configuration value consumed by the
// scanner and its host collaborators. Values merge from, in increasing
// precedence: a YAML config file, DECKSCAN_* environment variables, and
// command-line flags. Parsing options that are absent or invalid fall back
// silently to the documented defaults; only host-level settings (vault
// location, listen address) can fail validation.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"deckscan/internal/parser"
)

// EnvPrefix namespaces the environment variables read by Load. Two
// underscores separate nesting levels: DECKSCAN_VAULT__DIR sets vault.dir.
const EnvPrefix = "DECKSCAN_"

// DefaultListenAddr is used when the JSON API is enabled without an address.
const DefaultListenAddr = ":8480"

// Config is the full application configuration.
type Config struct {
	Vault   VaultConfig   `koanf:"vault"`
	Parser  ParserConfig  `koanf:"parser"`
	Storage StorageConfig `koanf:"storage"`
	Server  ServerConfig  `koanf:"server"`
	Scan    ScanConfig    `koanf:"scan"`
}

// VaultConfig locates the note vault and controls which notes are scanned.
type VaultConfig struct {
	Dir            string   `koanf:"dir" validate:"required"`
	GitURL         string   `koanf:"git_url"`
	Ignore         []string `koanf:"ignore"`
	TagRoots       []string `koanf:"tag_roots"`
	FoldersToDecks bool     `koanf:"folders_to_decks"`
}

// ParserConfig carries the markup tokens and conversion flags for the
// parsing core. Every field is optional; empty separators and a non-positive
// base ease take the parser defaults.
type ParserConfig struct {
	SingleLineSeparator         string `koanf:"single_line_separator"`
	SingleLineReversedSeparator string `koanf:"single_line_reversed_separator"`
	MultilineSeparator          string `koanf:"multiline_separator"`
	MultilineReversedSeparator  string `koanf:"multiline_reversed_separator"`
	MultilineEndMarker          string `koanf:"multiline_end_marker"`
	ConvertHighlightsToClozes   bool   `koanf:"convert_highlights_to_clozes"`
	ConvertBoldToClozes         bool   `koanf:"convert_bold_to_clozes"`
	ConvertCurlyToClozes        bool   `koanf:"convert_curly_brackets_to_clozes"`
	BaseEase                    int    `koanf:"base_ease"`
}

// StorageConfig enables SQLite snapshot persistence when a path is set.
type StorageConfig struct {
	Path string `koanf:"path"`
}

// ServerConfig configures the optional JSON API.
type ServerConfig struct {
	Addr string `koanf:"addr" validate:"omitempty,hostname_port"`
}

// ScanConfig tunes the scan worker pool.
type ScanConfig struct {
	Workers int `koanf:"workers" validate:"gte=0"`
}

// Load merges configuration from the given YAML file (optional), the
// environment, and the given flag set, then applies defaults and validates
// host-level settings.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envToKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}
	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flag config: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.applyDefaults()

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func envToKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func (c *Config) applyDefaults() {
	if c.Parser.BaseEase <= 0 {
		c.Parser.BaseEase = parser.DefaultBaseEase
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultListenAddr
	}
}

// Options renders the parsing configuration as parser options; empty
// separators fall back inside the parser itself.
func (c ParserConfig) Options() parser.Options {
	return parser.Options{
		SingleLineSeparator:         c.SingleLineSeparator,
		SingleLineReversedSeparator: c.SingleLineReversedSeparator,
		MultilineSeparator:          c.MultilineSeparator,
		MultilineReversedSeparator:  c.MultilineReversedSeparator,
		MultilineEndMarker:          c.MultilineEndMarker,
		ClozeHighlights:             c.ConvertHighlightsToClozes,
		ClozeBold:                   c.ConvertBoldToClozes,
		ClozeCurlyBrackets:          c.ConvertCurlyToClozes,
	}
}
