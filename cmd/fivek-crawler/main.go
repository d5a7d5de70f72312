package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"

	"github.com/BrownsugarZeer/fivek-crawler/internal/config"
	"github.com/BrownsugarZeer/fivek-crawler/internal/crawler"
	"github.com/BrownsugarZeer/fivek-crawler/internal/fetch"
	"github.com/BrownsugarZeer/fivek-crawler/internal/fivek"
	"github.com/BrownsugarZeer/fivek-crawler/internal/storage"
)

// Exit codes
const (
	ExitSuccess       = 0
	ExitGeneralError  = 1
	ExitInvalidArgs   = 2
	ExitListingError  = 3
	ExitListingStatus = 4
	ExitStorageError  = 5
	ExitInterrupted   = 6
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("fivek-crawler", flag.ExitOnError)

	defaults := config.Default()

	configPath := fs.String("config", "", "Path to a YAML config file")
	experts := fs.String("experts", strings.Join(defaults.Experts, ","), "Comma-separated expert list")
	workers := fs.Int("workers", defaults.Workers, "Number of parallel download workers")
	dir := fs.String("dir", "", "Saving directory (default: next to the executable)")
	dest := fs.String("dest", "", "Destination bucket URL (s3://, gs://, ...); mutually exclusive with -dir")
	from := fs.Int("from", defaults.ImageFrom, "First image index, inclusive")
	to := fs.Int("to", defaults.ImageTo, "Last image index, inclusive")
	timeout := fs.Duration("timeout", defaults.Timeout, "Per-attempt download timeout")
	politeness := fs.Duration("politeness", defaults.Politeness, "Delay after each successful download")
	progress := fs.Bool("progress", defaults.Progress, "Show per-phase progress")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: fivek-crawler [options]

Download expert-retouched images of the MIT-Adobe FiveK dataset into
{dir}/fivek_expert/tiff16_{expert}/, retrying transient failures until
every discovered file is fetched.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadFromFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitInvalidArgs
		}
	}
	if err := cfg.LoadFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}

	// Flags set on the command line override the file and environment.
	var flagErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "experts":
			parsed, err := config.ParseExperts(*experts)
			if err != nil {
				flagErr = err
				return
			}
			cfg.Experts = parsed
		case "workers":
			cfg.Workers = *workers
		case "dir":
			cfg.SavingDir = *dir
		case "dest":
			cfg.Dest = *dest
			cfg.SavingDir = ""
		case "from":
			cfg.ImageFrom = *from
		case "to":
			cfg.ImageTo = *to
		case "timeout":
			cfg.Timeout = *timeout
		case "politeness":
			cfg.Politeness = *politeness
		case "progress":
			cfg.Progress = *progress
		}
	})
	if flagErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", flagErr)
		return ExitInvalidArgs
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\n[fivek] Received interrupt, shutting down...")
		cancel()
	}()

	return crawl(ctx, cfg)
}

func crawl(ctx context.Context, cfg config.Config) int {
	fetchOpts := fetch.DefaultOptions()
	fetchOpts.Timeout = cfg.Timeout
	client := fetch.NewClient(fetchOpts)

	fmt.Fprintf(os.Stderr, "[fivek] Fetching listing from %s\n", fivek.Root)
	listing, err := client.Listing(ctx)
	if err != nil {
		var se *fetch.StatusError
		if errors.As(err, &se) {
			fmt.Fprintf(os.Stderr, "Error: listing returned %s\n", se.Status)
			return ExitListingStatus
		}
		if errors.Is(err, context.Canceled) {
			return ExitInterrupted
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitListingError
	}

	tasks, err := fivek.Extract(listing, cfg.Experts, cfg.ImageFrom, cfg.ImageTo)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}
	fmt.Fprintf(os.Stderr, "[fivek] Found %d files (expecting about %d)\n",
		len(tasks), fivek.ExpectedTotal(cfg.Experts, cfg.ImageFrom, cfg.ImageTo))

	dest, code := openDest(ctx, cfg)
	if dest == nil {
		return code
	}
	defer dest.Close()

	if err := dest.Prepare(ctx, cfg.Experts, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitStorageError
	}

	c := crawler.New(client, dest, crawler.Options{
		Workers:    cfg.Workers,
		Politeness: cfg.Politeness,
		Progress:   cfg.Progress,
		Output:     os.Stderr,
	})

	start := time.Now()
	if err := c.Run(ctx, tasks); err != nil {
		if errors.Is(err, context.Canceled) {
			return ExitInterrupted
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}

	fmt.Fprintf(os.Stderr, "[fivek] Done: %d files in %s\n", len(tasks), time.Since(start).Round(time.Second))
	return ExitSuccess
}

// openDest opens the configured destination: a bucket URL when -dest is
// given, otherwise a local saving directory defaulting to the
// executable's own location.
func openDest(ctx context.Context, cfg config.Config) (*storage.Dest, int) {
	if cfg.Dest != "" {
		dest, err := storage.OpenURL(ctx, cfg.Dest)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return nil, ExitStorageError
		}
		return dest, ExitSuccess
	}

	dir := cfg.SavingDir
	if dir == "" {
		exe, err := os.Executable()
		if err != nil {
			dir = "."
		} else {
			dir = filepath.Dir(exe)
		}
	}

	dest, err := storage.OpenDir(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil, ExitStorageError
	}
	return dest, ExitSuccess
}
