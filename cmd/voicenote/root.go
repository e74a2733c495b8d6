package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"voice-notes/internal/client"
)

var (
	verbose   bool
	serverURL string
	tokenFile string
	asJSON    bool
)

var rootCmd = &cobra.Command{
	Use:   "voicenote",
	Short: "Dictate and manage notes and tasks on a voice-notes server",
	Long: `voicenote is a command line client for the voice-notes API.
Commands that create content accept --voice to read dictation from stdin,
one recognised phrase per line.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	defaultURL := os.Getenv("VOICENOTE_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:5000"
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultURL, "API base URL")
	rootCmd.PersistentFlags().StringVar(&tokenFile, "token", defaultTokenFile(), "file holding the session token")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Output in JSON format")
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".voicenote-token"
	}
	return filepath.Join(home, ".voicenote-token")
}

func newClient() (*client.Client, error) {
	return client.New(serverURL, client.WithLogger(slog.Default()))
}

var errNotLoggedIn = errors.New("not logged in, run voicenote login first")

func loadSession() (*client.Session, error) {
	c, err := newClient()
	if err != nil {
		return nil, err
	}
	token, err := readToken(tokenFile)
	if err != nil {
		return nil, err
	}
	return c.SessionFromToken(token), nil
}

func readToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", errNotLoggedIn
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", errNotLoggedIn
	}
	return token, nil
}

func writeToken(path, token string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
