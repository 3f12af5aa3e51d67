// Package main provides the command-line client.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"connectrpc.com/connect"
	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"

	apiconnect "github.com/osa030/playtime/internal/api/connect"
	"github.com/osa030/playtime/internal/app/aggregate"
	"github.com/osa030/playtime/internal/app/filter"
	"github.com/osa030/playtime/internal/app/provider"
	"github.com/osa030/playtime/internal/domain/catalog"
	"github.com/osa030/playtime/internal/infra/config"
	"github.com/osa030/playtime/internal/infra/logger"
)

var (
	app     = kingpin.New("playtime", "Playlist playtime client")
	server  = app.Flag("server", "Server address").Default("http://localhost:8080").String()
	token   = app.Flag("token", "API token").Envar("PLAYTIME_API_TOKEN").String()
	verbose = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()

	// summarize command
	summarizeCmd    = app.Command("summarize", "Summarize a playlist").Default()
	summarizeURL    = summarizeCmd.Arg("url", "Playlist URL").Required().String()
	summarizeLocal  = summarizeCmd.Flag("local", "Call the catalog APIs directly instead of the server").Bool()
	summarizeConfig = summarizeCmd.Flag("config", "Path to config file (with --local)").Default("config/server.yaml").String()
	summarizeJSON   = summarizeCmd.Flag("json", "Print the raw JSON summary").Bool()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch command {
	case summarizeCmd.FullCommand():
		if err := summarize(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			stop()
			os.Exit(1)
		}
	}
}

func summarize(ctx context.Context) error {
	var (
		summary *aggregate.Summary
		err     error
	)
	if *summarizeLocal {
		summary, err = summarizeInProcess(ctx, *summarizeConfig, *summarizeURL)
	} else {
		client := apiconnect.NewPlaylistServiceClient(
			http.DefaultClient,
			*server,
			connect.WithInterceptors(apiconnect.WithToken(*token)),
		)
		summary, err = client.Summarize(ctx, *summarizeURL)
	}
	if err != nil {
		return err
	}

	if *summarizeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
	printSummary(summary)
	return nil
}

// summarizeInProcess builds the same pipeline the server runs.
func summarizeInProcess(ctx context.Context, configPath, rawURL string) (*aggregate.Summary, error) {
	level := "warn"
	if *verbose {
		level = "debug"
	}
	if _, err := logger.Init(logger.Config{Output: "stderr", Level: level}); err != nil {
		return nil, errors.Wrap(err, "failed to initialize logger")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}

	registry, err := provider.NewRegistryFromConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create providers")
	}
	chain, err := filter.NewChainFromConfig(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "invalid filter config")
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout())
	defer cancel()

	summary, err := aggregate.New(registry, chain, aggregate.OptionsFromConfig(cfg)).Summarize(ctx, rawURL)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", cfg.GetMessage(string(catalog.KindOf(err))))
	}
	return summary, nil
}

func printSummary(s *aggregate.Summary) {
	if s.Title != "" {
		fmt.Printf("%s\n", s.Title)
	}
	if s.ChannelTitle != "" {
		fmt.Printf("  by %s\n", s.ChannelTitle)
	}
	if s.PublishedAt != nil {
		fmt.Printf("  published %s\n", s.PublishedAt.Format("2006-01-02"))
	}
	fmt.Printf("\nProvider:  %s (%s)\n", s.Provider, s.PlaylistID)
	fmt.Printf("Items:     %d", s.ItemCount)
	if s.ExcludedCount > 0 {
		fmt.Printf(" (%d excluded)", s.ExcludedCount)
	}
	fmt.Println()
	fmt.Printf("Total:     %s (%s)\n", s.FormattedTotal, s.Phrase)
	fmt.Printf("Average:   %s\n", s.FormattedAverage)

	if len(s.Speeds) > 0 {
		fmt.Println("\nAt speed:")
		for _, sp := range s.Speeds {
			fmt.Printf("  %-6s %s\n", sp.Label, sp.Formatted)
		}
	}
	if len(s.BingeDays) > 0 {
		fmt.Println("\nBinge:")
		for _, b := range s.BingeDays {
			fmt.Printf("  %gh/day  %d day(s)\n", b.HoursPerDay, b.Days)
		}
	}
}
