package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"deckscan/internal/config"
	"deckscan/internal/gitsource"
	"deckscan/internal/scan"
	"deckscan/internal/storage"
	"deckscan/internal/vault"
	"deckscan/internal/web"
)

func main() {
	flags := pflag.NewFlagSet("deckscan", pflag.ExitOnError)
	configPath := flags.String("config", "", "Path to a YAML config file")
	serve := flags.Bool("serve", false, "Keep running and serve the JSON API after the initial scan")
	verbose := flags.BoolP("verbose", "v", false, "Enable debug logging")
	flags.String("vault.dir", "", "Vault directory to scan for markdown notes")
	flags.String("vault.git_url", "", "Optional git remote to clone/pull the vault from before scanning")
	flags.String("storage.path", "", "Optional SQLite file persisting the scan snapshot")
	flags.String("server.addr", "", "JSON API listen address (with --serve)")
	flags.Int("scan.workers", 0, "Concurrent note parsers (0 = number of CPUs)")
	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Vault.GitURL != "" {
		if err := gitsource.Sync(ctx, cfg.Vault.GitURL, cfg.Vault.Dir); err != nil {
			logger.Error("failed to sync vault repository", "error", err)
			os.Exit(1)
		}
	}

	scanner := &scan.Scanner{
		Root:     cfg.Vault.Dir,
		Options:  cfg.Parser.Options(),
		BaseEase: cfg.Parser.BaseEase,
		Resolver: vault.DeckResolver{
			TagRoots:       cfg.Vault.TagRoots,
			FoldersToDecks: cfg.Vault.FoldersToDecks,
		},
		Ignore:  vault.NewIgnore(cfg.Vault.Ignore),
		Workers: cfg.Scan.Workers,
		Logger:  logger,
	}

	holder := &scan.Holder{}
	result, err := scanner.Scan(ctx)
	if err != nil {
		logger.Error("scan failed", "error", err)
		os.Exit(1)
	}
	result = holder.Publish(result)

	if cfg.Storage.Path != "" {
		db, err := storage.Open(cfg.Storage.Path)
		if err != nil {
			logger.Error("failed to open snapshot database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if _, err := db.SaveScan(result); err != nil {
			logger.Error("failed to persist snapshot", "error", err)
			os.Exit(1)
		}
		logger.Info("snapshot persisted", "path", cfg.Storage.Path)
	}

	fmt.Printf("Scanned %d notes: %d cards in %d decks (%d skipped, %d failed).\n",
		result.Stats.Notes, len(result.Cards), len(result.DeckPaths),
		result.Stats.SkippedNotes, result.Stats.FailedNotes)

	if !*serve {
		return
	}

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: web.NewServer(holder, scanner),
	}
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()
	logger.Info("serving JSON API", "addr", cfg.Server.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}
