package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ankit-chaubey/metasift"
	"github.com/ankit-chaubey/metasift/core"
)

const usage = `Usage: metasift view [flags] <file>...

Flags:
  -config FILE   YAML config file
  -json          print JSON
  -yaml          print YAML
  -mime TYPE     declared MIME type (default: sniffed per file)
  -v             verbose: debug logs and empty fields
`

func main() {
	if len(os.Args) < 2 || os.Args[1] != "view" {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
	if err := run(os.Args[2:]); err != nil {
		core.PrintError(err.Error())
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("view", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	configPath := fs.String("config", "", "YAML config file")
	jsonOut := fs.Bool("json", false, "print JSON")
	yamlOut := fs.Bool("yaml", false, "print YAML")
	mimeType := fs.String("mime", "", "declared MIME type")
	verbose := fs.Bool("v", false, "verbose")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("no files given")
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		return err
	}
	switch {
	case *jsonOut:
		cfg.Output = core.OutputJSON
	case *yamlOut:
		cfg.Output = core.OutputYAML
	}
	if *mimeType != "" {
		cfg.MIMEType = *mimeType
	}
	if *verbose {
		cfg.LogLevel = "debug"
	}

	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	files := fs.Args()
	results, err := extractAll(context.Background(), files, cfg, logger)
	if err != nil {
		return err
	}

	p := core.NewPrinter(cfg.Output, *verbose)
	for i, md := range results {
		if err := p.PrintMetadata(files[i], md); err != nil {
			return err
		}
	}
	return nil
}

// extractAll reads and extracts every file, at most cfg.Concurrency at a
// time. Results keep the order of files.
func extractAll(ctx context.Context, files []string, cfg Config, logger zerolog.Logger) ([]*core.Metadata, error) {
	limit := cfg.Concurrency
	if limit == 0 {
		limit = runtime.NumCPU()
	}

	results := make([]*core.Metadata, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			md, err := extractFile(path, cfg.MIMEType, logger)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = md
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func extractFile(path, mimeType string, logger zerolog.Logger) (*core.Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	logger = logger.With().Str("file", path).Logger()
	if mimeType == "" {
		id := core.DetectFormat(data, path)
		if core.MediaTypeFor(id) == "unknown" {
			logger.Warn().Msg("unrecognised format, reading as an image")
		}
		mimeType = core.MIMEFor(id)
	}
	return metasift.Extract(data, mimeType, metasift.WithLogger(logger))
}
