package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tailorcv/tailorcv/internal/config"
	"github.com/tailorcv/tailorcv/internal/store"
	"github.com/tailorcv/tailorcv/internal/types"
)

var cacheCommand = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage cached company research",
}

var cacheListCommand = &cobra.Command{
	Use:   "list",
	Short: "List cached company profiles",
	RunE:  cacheListCmd,
}

var cacheClearCommand = &cobra.Command{
	Use:   "clear [company]",
	Short: "Remove cached company profiles (all of them, or one by name)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  cacheClearCmd,
}

var (
	cacheDir         string
	cacheDatabaseURL string
)

func init() {
	cacheCommand.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "Company cache directory (defaults to the user cache dir)")
	cacheCommand.PersistentFlags().StringVar(&cacheDatabaseURL, "db-url", "", "PostgreSQL connection URL for the company cache (optional, defaults to DATABASE_URL env var)")

	cacheCommand.AddCommand(cacheListCommand)
	cacheCommand.AddCommand(cacheClearCommand)
	rootCmd.AddCommand(cacheCommand)
}

func cacheStore(ctx context.Context) (store.CompanyStore, error) {
	cfg := config.Config{DatabaseURL: cacheDatabaseURL, CacheDir: cacheDir}
	cfg = cfg.MergeWithDefaults(config.FromEnv())
	return openStore(ctx, &cfg)
}

func cacheListCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	s, err := cacheStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open company cache: %w", err)
	}
	defer s.Close()

	entries, err := s.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list company cache: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("Company cache is empty.")
		return nil
	}

	now := time.Now()
	for _, info := range entries {
		state := "fresh"
		if info.Stale(types.DefaultCompanyInfoTTL, now) {
			state = "stale"
		}
		industry := info.Industry
		if industry == "" {
			industry = "-"
		}
		fmt.Printf("%-30s %-20s cached %s (%s)\n", info.Name, industry, info.CachedAt.Format("2006-01-02"), state)
	}
	fmt.Printf("\n%d cached profile(s)\n", len(entries))
	return nil
}

func cacheClearCmd(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	s, err := cacheStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open company cache: %w", err)
	}
	defer s.Close()

	name := ""
	if len(args) > 0 {
		name = args[0]
	}

	removed, err := s.Clear(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to clear company cache: %w", err)
	}
	fmt.Printf("Removed %d cached profile(s)\n", removed)
	return nil
}
