package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/duynhne/newsroom-service/config"
	"github.com/duynhne/newsroom-service/internal/feed"
	logicv1 "github.com/duynhne/newsroom-service/internal/logic/v1"
	"github.com/duynhne/newsroom-service/internal/tui"
)

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "newsctl",
	Short: "Newsroom terminal tools",
}

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Browse published articles with the breaking-news ticker",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadReader(configPath)
		if err != nil {
			return fmt.Errorf("reading config: %w", err)
		}

		if v, _ := cmd.Flags().GetString("server"); v != "" {
			cfg.ServerURL = v
		}
		if v, _ := cmd.Flags().GetString("category"); v != "" {
			cfg.Category = v
		}

		category, err := parseCategory(cfg.Category)
		if err != nil {
			return err
		}

		// The terminal belongs to the UI, so logs go to a file.
		logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer logFile.Close()
		logger := zerolog.New(logFile).With().Timestamp().Str("component", "newsctl").Logger()

		client, err := feed.NewClient(cfg.ServerURL, cfg.GetRequestTimeout(), cfg.GetTickerWindow())
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
		defer stop()

		logger.Info().Str("server", cfg.ServerURL).Int("page_size", cfg.PageSize).Msg("Reader starting")
		return tui.Run(ctx, client, tui.Options{
			PageSize:       cfg.PageSize,
			Category:       category,
			TickerInterval: cfg.GetTickerInterval(),
		}, logger)
	},
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password",
	Short: "Print a bcrypt hash for seeding a staff account",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprint(os.Stderr, "Enter password: ")
		pw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}
		if len(pw) == 0 {
			return fmt.Errorf("empty password")
		}

		hash, err := logicv1.HashPassword(string(pw))
		if err != nil {
			return err
		}
		fmt.Println(hash)
		return nil
	},
}

// parseCategory turns the configured category id into a filter. Empty means
// all categories.
func parseCategory(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("category %q: must be a positive id", s)
	}
	return &id, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultReaderConfigPath(), "reader config file")

	readCmd.Flags().String("server", "", "server URL (overrides config)")
	readCmd.Flags().String("category", "", "category id to read (overrides config)")

	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(hashPasswordCmd)
}
