package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"

	"deckscan/internal/parser"
)

func TestLoadAppliesDefaults(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("vault.dir", "", "")
	if err := flags.Parse([]string{"--vault.dir=/tmp/vault"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("", flags)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Vault.Dir != "/tmp/vault" {
		t.Errorf("Expected vault dir from flags, got %q", cfg.Vault.Dir)
	}
	if cfg.Parser.BaseEase != parser.DefaultBaseEase {
		t.Errorf("Expected default base ease %d, got %d", parser.DefaultBaseEase, cfg.Parser.BaseEase)
	}
	if cfg.Server.Addr != DefaultListenAddr {
		t.Errorf("Expected default listen addr, got %q", cfg.Server.Addr)
	}

	opts := cfg.Parser.Options()
	if opts.SingleLineSeparator != "" {
		t.Error("Expected empty separator to pass through; the parser applies its own default")
	}
}

func TestLoadFromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deckscan.yaml")
	content := `
vault:
  dir: /notes
  tag_roots:
    - "#cards"
  folders_to_decks: true
  ignore:
    - templates
parser:
  single_line_separator: ">>"
  convert_highlights_to_clozes: true
  base_ease: 210
scan:
  workers: 3
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Vault.Dir != "/notes" {
		t.Errorf("Vault.Dir = %q", cfg.Vault.Dir)
	}
	if len(cfg.Vault.TagRoots) != 1 || cfg.Vault.TagRoots[0] != "#cards" {
		t.Errorf("TagRoots = %v", cfg.Vault.TagRoots)
	}
	if !cfg.Vault.FoldersToDecks {
		t.Error("Expected folders_to_decks to be set")
	}
	if cfg.Parser.SingleLineSeparator != ">>" || cfg.Parser.BaseEase != 210 {
		t.Errorf("Parser config = %+v", cfg.Parser)
	}
	if !cfg.Parser.Options().ClozeHighlights {
		t.Error("Expected highlight conversion to be enabled")
	}
	if cfg.Scan.Workers != 3 {
		t.Errorf("Scan.Workers = %d", cfg.Scan.Workers)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deckscan.yaml")
	if err := os.WriteFile(path, []byte("vault:\n  dir: /from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DECKSCAN_VAULT__DIR", "/from-env")

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Vault.Dir != "/from-env" {
		t.Errorf("Expected env to override file, got %q", cfg.Vault.Dir)
	}
}

func TestLoadRequiresVaultDir(t *testing.T) {
	if _, err := Load("", nil); err == nil {
		t.Error("Expected an error when no vault dir is configured")
	}
}

func TestLoadRejectsBadListenAddr(t *testing.T) {
	t.Setenv("DECKSCAN_VAULT__DIR", "/notes")
	t.Setenv("DECKSCAN_SERVER__ADDR", "not a hostport")

	if _, err := Load("", nil); err == nil {
		t.Error("Expected an error for an invalid listen address")
	}
}
