// Command rostercache loads a voter roster into a local SQLite cache and
// pages through it from the terminal.
//
// Configuration comes from the environment (see package config); a .env
// file in the working directory is honored when present.
//
//	rostercache load [-force]
//	rostercache page -n 1
//	rostercache count
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/boothline/rostercache"
	"github.com/boothline/rostercache/config"
	"github.com/boothline/rostercache/fetch"
	"github.com/boothline/rostercache/session"
	"github.com/boothline/rostercache/store/sqlite"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	if len(os.Args) < 2 {
		return fmt.Errorf("usage: rostercache <load|page|count> [flags]")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	st, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	sess, err := session.New(cfg.UserID, cfg.Email, cfg.Stage)
	if err != nil {
		return err
	}

	var logger *rostercache.Logger
	if cfg.LogJSON {
		logger = rostercache.NewJSONLogger(slog.LevelInfo)
	} else {
		logger = rostercache.NewTextLogger(slog.LevelInfo)
	}

	rc, err := rostercache.New(st, fetch.New(cfg.Endpoint), sess,
		rostercache.WithStalenessWindow(cfg.StalenessWindow),
		rostercache.WithPageSize(cfg.PageSize),
		rostercache.WithBatchSize(cfg.BatchSize),
		rostercache.WithFetchTimeout(cfg.FetchTimeout),
		rostercache.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	switch os.Args[1] {
	case "load":
		return cmdLoad(ctx, rc, os.Args[2:])
	case "page":
		return cmdPage(ctx, rc, os.Args[2:])
	case "count":
		return cmdCount(ctx, rc)
	default:
		return fmt.Errorf("unknown command %q", os.Args[1])
	}
}

func cmdLoad(ctx context.Context, rc *rostercache.RosterCache, args []string) error {
	fs := flag.NewFlagSet("load", flag.ExitOnError)
	force := fs.Bool("force", false, "discard the cache freshness check and refetch")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := rc.Load(ctx, *force)
	if err != nil {
		return err
	}

	fmt.Printf("loaded %d voters (page of %d shown)\n", result.TotalCount, len(result.Records))
	if result.Warning != "" {
		fmt.Println("warning:", result.Warning)
	}
	return nil
}

func cmdPage(ctx context.Context, rc *rostercache.RosterCache, args []string) error {
	fs := flag.NewFlagSet("page", flag.ExitOnError)
	n := fs.Int("n", 1, "1-based page number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	records, err := rc.Page(ctx, *n)
	if err != nil {
		return err
	}

	for _, r := range records {
		fmt.Printf("%s\t%s\t%s\t%s\n", r.ID(), r.FullName(), r.Gender(), r.Religion())
	}
	fmt.Printf("%d records on page %d\n", len(records), *n)
	return nil
}

func cmdCount(ctx context.Context, rc *rostercache.RosterCache) error {
	count, err := rc.TotalCount(ctx)
	if err != nil {
		return err
	}
	fmt.Println(count)
	return nil
}
