package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/htmltable"
	"github.com/fwojciec/htmltable/codec"
	"github.com/fwojciec/htmltable/etree"
	"github.com/fwojciec/htmltable/fs"
	"github.com/fwojciec/htmltable/goquery"
	"github.com/fwojciec/htmltable/htmltomarkdown"
	tablehttp "github.com/fwojciec/htmltable/http"
	"github.com/fwojciec/htmltable/rod"
	tableslog "github.com/fwojciec/htmltable/slog"
	"github.com/fwojciec/htmltable/table"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Stdin is read when the HTML file is "-".
	Stdin io.Reader

	// Fetcher replaces the network fetcher when set. Used for testing.
	Fetcher htmltable.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Stdin: os.Stdin}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("htmltable"),
		kong.Description("Extract HTML tables into structured records"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle no arguments
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	if cli.URL == "" && cli.HTMLFile == "" {
		return fmt.Errorf("either a URL or --html-file is required")
	}
	if cli.URL != "" && cli.HTMLFile != "" {
		return fmt.Errorf("a URL and --html-file cannot be combined")
	}

	cfg, warnings, err := cli.config()
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", htmltable.ErrorMessage(err))
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, nil))
	if cfg.Silent {
		logger = slog.New(slog.DiscardHandler)
	}
	for _, w := range warnings {
		logger.Warn(w)
	}

	encoders := codec.NewRegistry()
	encoders.Register(htmltable.FormatXML, etree.NewEncoder())
	encoders.Register(htmltable.FormatMarkdown, htmltomarkdown.NewEncoder())

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Stdin:  m.Stdin,
		Config: cfg,
	}

	out := stdout
	if cli.Output != "" {
		file, err := fs.Create(cli.Output)
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", htmltable.ErrorMessage(err))
			return err
		}
		defer file.Abort()
		out = file
		deps.Output = file
	}

	var fetcher htmltable.Fetcher
	if cli.URL != "" {
		fetcher = m.Fetcher
		if fetcher == nil {
			fetcher, err = newFetcher(cli.Render, cfg)
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --render")
				return fmt.Errorf("failed to start browser: %w", err)
			}
			defer fetcher.Close()
		}
		fetcher = tableslog.NewLoggingFetcher(fetcher, logger, cfg.Verbose)
	}

	deps.Service = table.NewService(
		fetcher,
		tableslog.NewLoggingExtractor(goquery.NewExtractor(), logger),
		table.WithEncoders(encoders),
		table.WithStdout(out),
		table.WithLogger(logger),
	)

	cmd := &ExtractCmd{
		URL:      cli.URL,
		Params:   cli.Params,
		HTMLFile: cli.HTMLFile,
	}
	return cmd.Run(deps)
}

func newFetcher(render bool, cfg htmltable.Config) (htmltable.Fetcher, error) {
	if render {
		return rod.NewFetcher(rod.WithFetchTimeout(cfg.Timeout))
	}
	return tablehttp.NewFetcher(tablehttp.WithTimeout(cfg.Timeout)), nil
}
