// Command flatinspect lists the resources of a flatdata storage location
// and validates their framing and schemas.
//
// Usage:
//
//	flatinspect [flags] <location> [resource...]
//
// The location is a directory, a tarball (.tar, .tar.gz, .tar.zst or
// .tar.lz4) or an S3 URL of the form s3://bucket/prefix. Directories and
// tarballs are listed in full; S3 locations need the resource names.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/hupe1980/flatdata"
)

type config struct {
	location  string
	resources []string
	schemas   bool
	logLevel  slog.Level
}

func parseFlags(args []string, stderr io.Writer) (config, error) {
	fs := flag.NewFlagSet("flatinspect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: flatinspect [flags] <location> [resource...]")
		fs.PrintDefaults()
	}

	var cfg config
	fs.BoolVar(&cfg.schemas, "schema", false, "print the full schema of every resource")
	level := fs.String("log-level", "warn", "log level: debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return cfg, fmt.Errorf("missing location")
	}
	if err := cfg.logLevel.UnmarshalText([]byte(*level)); err != nil {
		return cfg, fmt.Errorf("invalid -log-level: %w", err)
	}
	cfg.location = fs.Arg(0)
	cfg.resources = fs.Args()[1:]
	return cfg, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}
	logger := flatdata.NewTextLogger(cfg.logLevel)

	invalid, err := run(ctx, cfg, logger, os.Stdout)
	if err != nil {
		logger.Error("inspection failed", "location", cfg.location, "error", err)
		os.Exit(1)
	}
	if invalid > 0 {
		os.Exit(3)
	}
}
