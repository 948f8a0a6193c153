// Package main is the entry point for the producer-pal tool server.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/adamjmurray/producer-pal-sub000/config"
	"github.com/adamjmurray/producer-pal-sub000/live"
	"github.com/adamjmurray/producer-pal-sub000/metrics"
	"github.com/adamjmurray/producer-pal-sub000/notation"
	"github.com/adamjmurray/producer-pal-sub000/server"
	"github.com/adamjmurray/producer-pal-sub000/tools"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	servePort int
	serveMock bool
	sigText   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "producer-pal",
	Short: "AI tool server for reading and writing clips in a DAW session",
	Long: `producer-pal exposes a DAW session to an AI as tool calls: read, write,
update, and duplicate clips, with notes encoded as a compact bar|beat
notation.

Examples:
  producer-pal serve --port 3350
  producer-pal serve --mock
  producer-pal notation --sig 6/8 "1|1 C3 1|3 D3 1|5 E3"`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the tool-call HTTP server",
	RunE:  runServe,
}

var notationCmd = &cobra.Command{
	Use:   "notation <string>",
	Short: "Parse a notation string and print the note events and round trip",
	Long: `Parses a notation string with the given time signature, prints the decoded
note events as JSON, and prints the re-formatted (minimal) notation.`,
	Args: cobra.ExactArgs(1),
	RunE: runNotation,
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Print the tool schemas as JSON",
	RunE:  runTools,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP port (overrides PRODUCER_PAL_PORT)")
	serveCmd.Flags().BoolVar(&serveMock, "mock", false, "serve an in-memory demo session instead of a host bridge")
	notationCmd.Flags().StringVar(&sigText, "sig", "4/4", "time signature, e.g. 4/4 or 6/8")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(notationCmd)
	rootCmd.AddCommand(toolsCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()
	if servePort > 0 {
		cfg.HTTPPort = servePort
	}

	sentryEnabled := cfg.SentryDSN != ""
	if sentryEnabled {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 1.0,
		})
		if err != nil {
			return fmt.Errorf("sentry init failed: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	var client live.Client
	switch {
	case serveMock || cfg.LiveBridgeURL == "":
		log.Printf("using in-memory demo session (no host bridge configured)")
		client = live.NewMockClient(live.DemoSong())
	default:
		log.Printf("using host bridge at %s", cfg.LiveBridgeURL)
		client = live.NewBridgeClient(cfg.LiveBridgeURL)
	}

	registry := tools.NewRegistry(client, metrics.NewSentryMetrics(sentryEnabled))
	log.Printf("serving %d tools on port %d", len(registry.Tools()), cfg.HTTPPort)
	return server.Run(registry, cfg.HTTPPort)
}

func runNotation(cmd *cobra.Command, args []string) error {
	var num, den int
	if _, err := fmt.Sscanf(sigText, "%d/%d", &num, &den); err != nil {
		return fmt.Errorf("invalid time signature %q: %w", sigText, err)
	}
	sig := notation.TimeSig{Numerator: num, Denominator: den}

	events, err := notation.ParseNotation(args[0], sig)
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))

	text, err := notation.FormatNotation(events, sig)
	if err != nil {
		return err
	}
	fmt.Printf("notation: %s\n", text)
	return nil
}

func runTools(cmd *cobra.Command, args []string) error {
	registry := tools.NewRegistry(live.NewMockClient(live.DemoSong()), metrics.NewSentryMetrics(false))
	encoded, err := json.MarshalIndent(registry.Tools(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}
