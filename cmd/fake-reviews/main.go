// ABOUTME: Development server emulating the movie reviews search API
// ABOUTME: Seeds a SQLite catalog from a TOML fixture and serves it over HTTP until signalled

package main

import (
	"context"
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"

	"github.com/2389/reviewfeed/internal/config"
	"github.com/2389/reviewfeed/internal/logging"
	"github.com/2389/reviewfeed/internal/searchapi"
	"github.com/2389/reviewfeed/internal/store"
)

//go:embed reviews.toml
var defaultFixture string

const shutdownTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", config.Path(), "Path to config file")
	addr := flag.String("addr", "", "Listen address (overrides devserver.addr)")
	fixture := flag.String("fixture", "", "TOML fixture to seed (overrides devserver.fixture)")
	latency := flag.Duration("latency", -1, "Artificial response delay (overrides devserver.latency)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *configPath, *addr, *fixture, *latency); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, addr, fixture string, latency time.Duration) error {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	dev := cfg.DevServer
	if addr != "" {
		dev.Addr = addr
	}
	if fixture != "" {
		dev.Fixture = fixture
	}
	if latency >= 0 {
		dev.Latency = latency
	}
	if dev.Database == "" {
		dev.Database = filepath.Join(os.TempDir(), "reviewfeed", "fake-reviews.db")
	}

	logger, closeLog, err := logging.Setup(cfg.Logging, os.Stderr)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer closeLog()
	slog.SetDefault(logger)

	st, err := store.NewSQLiteStore(dev.Database)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	n, err := seed(ctx, st, dev.Fixture)
	if err != nil {
		return fmt.Errorf("seeding catalog: %w", err)
	}
	total, err := st.CountReviews(ctx)
	if err != nil {
		return err
	}
	reviewers, err := st.ListReviewers(ctx)
	if err != nil {
		return err
	}
	logger.Info("catalog ready", "seeded", n, "total", total, "reviewers", len(reviewers), "database", dev.Database)

	api := searchapi.New(st,
		searchapi.WithAPIKey(dev.APIKey),
		searchapi.WithPageSize(dev.PageSize),
		searchapi.WithLatency(dev.Latency),
		searchapi.WithLogger(logger),
	)

	srv := &http.Server{
		Addr:              dev.Addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	printBanner(os.Stdout, dev, total, reviewers)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", "addr", dev.Addr, "path", searchapi.Path)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// seed loads path, or the embedded catalog when path is empty.
func seed(ctx context.Context, st store.Store, path string) (int, error) {
	if path != "" {
		return store.Seed(ctx, st, path)
	}
	f, err := store.ParseFixture(defaultFixture)
	if err != nil {
		return 0, fmt.Errorf("parsing embedded fixture: %w", err)
	}
	return st.UpsertReviews(ctx, f.ToReviews())
}

func printBanner(w io.Writer, dev config.DevServerConfig, total int, reviewers []string) {
	bold := color.New(color.Bold)
	dim := color.New(color.FgHiBlack)

	fmt.Fprintln(w)
	bold.Fprintln(w, "  fake-reviews")
	fmt.Fprintf(w, "  %s http://%s%s\n", dim.Sprint("endpoint "), dev.Addr, searchapi.Path)
	fmt.Fprintf(w, "  %s %d\n", dim.Sprint("reviews  "), total)
	if len(reviewers) > 0 {
		fmt.Fprintf(w, "  %s %s\n", dim.Sprint("reviewers"), strings.Join(reviewers, ", "))
	}
	if dev.APIKey != "" {
		fmt.Fprintf(w, "  %s required\n", dim.Sprint("api-key  "))
	}
	if dev.Latency > 0 {
		fmt.Fprintf(w, "  %s %s\n", dim.Sprint("latency  "), dev.Latency)
	}
	fmt.Fprintln(w)
}
