package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nao1215/linkcrawl/internal/config"
	"github.com/nao1215/linkcrawl/internal/crawler"
	"github.com/nao1215/linkcrawl/internal/httpclient"
	"github.com/nao1215/linkcrawl/internal/log"
	"github.com/nao1215/linkcrawl/internal/model"
	"github.com/nao1215/linkcrawl/internal/report"
	"github.com/spf13/cobra"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [seed-url]",
		Short: "Crawl a website and report broken links",
		Long: `Crawl starts at the seed URL and checks every link it can discover.

Pages on the seed's domain (host and port) are fetched and their links are
followed. Links to other domains are checked once but never expanded.
Every URL is checked at most once, and each check is bounded by --timeout.

A link is reported as one of:
- accessible: the server answered with a 2xx status
- bad status: the server answered with any other status (redirects included)
- connection failed: the host could not be reached
- timed out: no answer before the deadline
- malformed: the link text could not be resolved to a URL

Examples:
  # Check a site with the default 10 workers
  linkcrawl crawl https://example.com/

  # A seed without a scheme is treated as http
  linkcrawl crawl localhost:8080/docs

  # Use more workers and a shorter timeout
  linkcrawl crawl -w 32 -t 5s https://example.com/

  # Write a JSON report for CI
  linkcrawl crawl --json -o report/links.json https://example.com/

  # Route every request through a SOCKS5 proxy
  linkcrawl crawl -s 127.0.0.1:1080 https://example.com/

Configuration file (.linkcrawl) example:
  defaults:
    ignorePatterns:
      - "/logout*"
  sites:
    example.com:
      cookie: "session_id=abc123"
      headers:
        Authorization: "Bearer token"
      workers: 4`,
		Args: cobra.ExactArgs(1),
		RunE: runCrawlCmd,
	}

	// Crawl behavior flags
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Number of URLs checked in parallel")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Deadline for checking a single URL")

	// Connection flags
	cmd.Flags().StringP("socks-proxy", "s", "",
		"Route requests through a SOCKS5 proxy at the specified address (e.g., 127.0.0.1:1080)")
	cmd.Flags().String("user-agent", "",
		"User-Agent header sent with every request")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .linkcrawl in current directory, XDG config directory or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// A bad seed is fatal before any request is made.
	seed, err := crawler.ParseSeed(cfg.Seed)
	if err != nil {
		return fmt.Errorf("invalid seed %q: %w", cfg.Seed, err)
	}
	applySiteConfig(cmd, cfg, seed.Host)

	logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose, getBoolFlag(cmd, "log-json"))
	slog.SetDefault(logger)

	// The crawl itself cannot be stopped; a signal only stops reading
	// outcomes so that a partial report can be written.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, writing partial report...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runCrawl(ctx, cfg, seed, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
}

// getBoolFlag retrieves a bool flag from the command or the root's persistent flags.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		value, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return value
}

// buildConfig creates a Config from cobra command flags and the configuration file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	if len(args) > 0 {
		cfg.Seed = args[0]
	}

	cfg.Workers, err = cmd.Flags().GetInt("workers")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.SocksProxy, err = cmd.Flags().GetString("socks-proxy")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicitly given config file must exist; the default locations
	// are optional.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getBoolFlag(cmd, "verbose")

	return cfg, nil
}

// applySiteConfig fills in values from the site entry for host.
// Flags given on the command line win over the configuration file.
func applySiteConfig(cmd *cobra.Command, cfg *config.Config, host string) {
	site := cfg.Site(host)

	if site.Workers > 0 && !cmd.Flags().Changed("workers") {
		cfg.Workers = site.Workers
	}
	if site.UserAgent != "" && cfg.UserAgent == "" {
		cfg.UserAgent = site.UserAgent
	}
}

// setupLogger creates a structured logger that redacts secrets.
func setupLogger(w io.Writer, verbose, jsonFormat bool) *slog.Logger {
	if jsonFormat {
		return log.NewSecureJSONLogger(w, verbose)
	}
	return log.NewSecureLogger(w, verbose)
}

// runCrawl crawls from seed, prints progress while outcomes arrive and
// writes the final report.
func runCrawl(ctx context.Context, cfg *config.Config, seed *url.URL, stdout, stderr io.Writer, logger *slog.Logger) error {
	site := cfg.Site(seed.Host)

	if cfg.SocksProxy != "" {
		if status := httpclient.CheckProxy(ctx, cfg.SocksProxy); status != httpclient.ProxyStatusOK {
			return fmt.Errorf("SOCKS5 proxy check failed: %w (make sure a proxy is listening at %s)",
				status.Error(), cfg.SocksProxy)
		}
		logger.Info("SOCKS5 proxy connection verified", "address", cfg.SocksProxy)
	}

	client, err := httpclient.New(httpclient.Options{
		SocksProxy:          cfg.SocksProxy,
		UserAgent:           cfg.UserAgent,
		Cookie:              site.Cookie,
		Headers:             site.Headers,
		MaxIdleConnsPerHost: cfg.Workers,
	})
	if err != nil {
		return fmt.Errorf("failed to create HTTP client: %w", err)
	}

	spider := crawler.NewSpider(
		crawler.NewHTTPFetcher(client, crawler.WithMaxBodySize(cfg.MaxBodySize)),
		crawler.WithWorkers(cfg.Workers),
		crawler.WithTimeout(cfg.Timeout),
		crawler.WithIgnorePatterns(site.IgnorePatterns),
		crawler.WithFollowPatterns(site.FollowPatterns),
		crawler.WithLogger(logger),
	)

	stream, err := spider.Crawl(seed.String())
	if err != nil {
		return fmt.Errorf("invalid seed %q: %w", seed, err)
	}

	logger.Info("starting crawl",
		"seed", seed.String(),
		"workers", cfg.Workers,
		"timeout", cfg.Timeout,
		"proxy", cfg.SocksProxy,
	)

	// Keep stdout clean for a machine-readable report.
	progressOut := stdout
	if cfg.ReportFile == "" && (cfg.JSONReport || cfg.MarkdownReport) {
		progressOut = stderr
	}
	progress := report.NewProgress(progressOut, cfg.Verbose)
	summary := model.NewSummary(seed.String())

	for outcome := range stream.All(ctx) {
		summary.Add(outcome)
		if err := progress.Record(outcome); err != nil {
			return fmt.Errorf("failed to write progress: %w", err)
		}
	}
	if err := progress.Finish(); err != nil {
		return fmt.Errorf("failed to write progress: %w", err)
	}

	if ctx.Err() != nil {
		summary.Finish()
		if err := outputReport(cfg, summary, stdout); err != nil {
			return err
		}
		return fmt.Errorf("crawl interrupted: %w", ctx.Err())
	}

	if err := stream.Wait(); err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}
	summary.Finish()

	stats := stream.Stats()
	logger.Info("crawl finished",
		"visited", stats.Visited,
		"malformed", stats.Malformed,
		"maxActive", stats.MaxActive,
		"duration", summary.Duration(),
	)

	return outputReport(cfg, summary, stdout)
}

// outputReport writes the crawl summary in the requested format.
func outputReport(cfg *config.Config, summary *model.Summary, stdout io.Writer) error {
	output := stdout
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports list internal URLs, so only the owner may read them.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	if _, err := writer.Write(summary); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
