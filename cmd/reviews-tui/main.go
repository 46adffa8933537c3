// ABOUTME: Terminal client for browsing movie reviews through the session state machine
// ABOUTME: Loads config, wires client, cache and machine, then renders snapshots while reading commands

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/2389/reviewfeed/internal/config"
	"github.com/2389/reviewfeed/internal/gateway"
	"github.com/2389/reviewfeed/internal/logging"
	"github.com/2389/reviewfeed/internal/pagecache"
	"github.com/2389/reviewfeed/internal/session"
)

func main() {
	configPath := flag.String("config", config.Path(), "Path to config file")
	server := flag.String("server", "", "Search endpoint URL (overrides api.base_url)")
	reviewer := flag.String("reviewer", "", "Start with reviews by this critic")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *configPath, *server, *reviewer); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nGoodbye!")
}

func run(ctx context.Context, configPath, server, reviewer string) error {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if server != "" {
		cfg.API.BaseURL = server
	}

	logger, closeLog, err := logging.Setup(cfg.Logging, os.Stderr)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer closeLog()

	opts := []gateway.Option{
		gateway.WithTimeout(cfg.API.Timeout),
		gateway.WithLogger(logger),
	}
	if cfg.Cache.Enabled {
		cache := pagecache.New(cfg.Cache.TTL, cfg.Cache.MaxEntries)
		defer cache.Close()
		opts = append(opts, gateway.WithCache(cache))
	}
	client := gateway.NewClient(cfg.API.BaseURL, opts...)

	m := session.NewMachine(client, cfg.BaseFilter(),
		session.WithLogger(logger),
		session.WithContext(ctx),
	)
	defer m.Close()

	v := newView(os.Stdout)

	color.New(color.Bold).Printf("reviews-tui")
	fmt.Printf(" using %s\n", cfg.API.BaseURL)
	if cfg.API.Key == "" {
		fmt.Println("No api key configured (set REVIEWFEED_API_KEY or api.key).")
	}
	fmt.Println("Type /help for commands. Ctrl+C to quit.")

	snapshots, _ := m.Subscribe(ctx)
	rendered := make(chan struct{})
	go func() {
		defer close(rendered)
		for s := range snapshots {
			v.render(s)
		}
	}()

	// Initial load
	if reviewer != "" {
		err = m.SetReviewerFilter(resolveReviewer(reviewer))
	} else {
		err = m.RequestInitialLoad()
	}
	if err != nil {
		return fmt.Errorf("starting initial load: %w", err)
	}

	err = readLoop(ctx, os.Stdin, m, v)
	m.Close()
	<-rendered
	return err
}

// readLoop feeds lines from in to execute until EOF, /quit, or ctx ends.
func readLoop(ctx context.Context, in io.Reader, m intents, v *view) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	errCh := make(chan error, 1)

	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			errCh <- err
		} else {
			errCh <- io.EOF
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		case input := <-lines:
			err := execute(m, v, input)
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				v.printf("%s %v\n", color.RedString("[error]"), err)
			}
		}
	}
}
