package main

import (
	"context"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/htmltable"
	"github.com/fwojciec/htmltable/fs"
	"github.com/fwojciec/htmltable/table"
	"gopkg.in/yaml.v3"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Stdin   io.Reader
	Config  htmltable.Config
	Service *table.Service

	// Output is committed after a successful extraction when set.
	Output *fs.File
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	URL      string   `arg:"" optional:"" help:"URL of the page holding the tables"`
	HTMLFile string   `name:"html-file" help:"Read HTML from a file instead of fetching a URL (- for stdin)"`
	Config   string   `short:"c" name:"config" type:"existingfile" help:"YAML or JSON file with extraction options"`
	Params   []string `short:"p" name:"param" sep:"none" help:"Request parameter as key=value (repeatable)"`
	Output   string   `short:"o" help:"Write the result to a file instead of standard output"`

	TableID      string   `short:"i" name:"table-id" help:"Extract the table with this id attribute"`
	All          bool     `short:"a" help:"Extract every table, keyed by caption, id or position"`
	Headers      []string `name:"header" sep:"none" help:"Override a column key as position=name (repeatable)"`
	HeaderText   bool     `name:"header-text" help:"Key columns by header text even when header cells have an id"`
	IgnoreHidden bool     `name:"ignore-hidden" help:"Skip rows hidden with display: none"`
	Ignore       []string `name:"ignore" sep:"none" help:"Drop a column by name or position (repeatable). Prefix with name: to match a numeric header, as in name:2019"`
	Only         []string `name:"only" sep:"none" help:"Keep only this column, by name or position (repeatable). Prefix with name: to match a numeric header, as in name:2019"`
	Format       string   `short:"f" help:"Output format: array, json, serialize, yaml, xml or markdown"`

	Method    string        `short:"m" help:"HTTP method: get or post"`
	User      string        `short:"u" help:"Basic auth user name"`
	Password  string        `help:"Basic auth password"`
	UserAgent string        `name:"user-agent" help:"User-Agent header to send"`
	Timeout   time.Duration `short:"t" help:"Fetch timeout"`
	Render    bool          `short:"r" help:"Render the page in headless Chrome before extracting"`

	Silent  bool `short:"s" help:"Suppress warnings and status messages"`
	Verbose bool `short:"v" help:"Log transfer diagnostics"`
}

// ExtractCmd handles the extraction.
type ExtractCmd struct {
	URL      string
	Params   []string
	HTMLFile string
}

// Config resolves the extraction options. Options from the config file are
// applied first and flags that are set override them.
func (c *CLI) config() (htmltable.Config, []string, error) {
	cfg := htmltable.DefaultConfig()
	var warnings []string

	if c.Config != "" {
		opts, err := readConfigFile(c.Config)
		if err != nil {
			return cfg, nil, err
		}
		cfg, warnings = htmltable.ConfigFromMap(opts)
	}

	if c.TableID != "" {
		cfg.TableID = c.TableID
	}
	if c.All {
		cfg.All = true
	}
	if len(c.Headers) > 0 {
		headers, err := parseHeaders(c.Headers)
		if err != nil {
			return cfg, nil, err
		}
		cfg.Headers = headers
	}
	if c.HeaderText {
		cfg.HeaderIDs = false
	}
	if c.IgnoreHidden {
		cfg.IgnoreHidden = true
	}
	if len(c.Ignore) > 0 {
		cfg.IgnoreColumns = parseColumns(c.Ignore)
	}
	if len(c.Only) > 0 {
		cfg.OnlyColumns = parseColumns(c.Only)
	}
	if c.Format != "" {
		format, err := htmltable.ParseFormat(c.Format)
		if err != nil {
			return cfg, nil, err
		}
		cfg.Format = format
	}
	if c.Method != "" {
		cfg.Method = c.Method
	}
	if c.User != "" || c.Password != "" {
		cfg.Auth = true
		cfg.Username = c.User
		cfg.Password = c.Password
	}
	if c.UserAgent != "" {
		cfg.UserAgent = c.UserAgent
	}
	if c.Timeout > 0 {
		cfg.Timeout = c.Timeout
	}
	if c.Silent {
		cfg.Silent = true
	}
	if c.Verbose {
		cfg.Verbose = true
	}

	switch cfg.Normalize().Method {
	case htmltable.MethodGet, htmltable.MethodPost:
	default:
		return cfg, nil, htmltable.Errorf(htmltable.EINVALID, "unsupported method %q", cfg.Method)
	}

	cfg.Print = true
	return cfg, warnings, nil
}

// readConfigFile decodes a YAML or JSON options file.
func readConfigFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, htmltable.Errorf(htmltable.EINVALID, "failed to read config file: %v", err)
	}
	var opts map[string]any
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return nil, htmltable.Errorf(htmltable.EINVALID, "failed to parse config file %s: %v", path, err)
	}
	return opts, nil
}

func parseHeaders(values []string) (map[int]string, error) {
	headers := make(map[int]string, len(values))
	for _, v := range values {
		pos, name, ok := strings.Cut(v, "=")
		n, err := strconv.Atoi(strings.TrimSpace(pos))
		if !ok || err != nil || n < 0 {
			return nil, htmltable.Errorf(htmltable.EINVALID, "invalid header override %q, expected position=name", v)
		}
		headers[n] = name
	}
	return headers, nil
}

// namePrefix marks a column value as a header name even when it is numeric.
const namePrefix = "name:"

func parseColumns(values []string) htmltable.ColumnSet {
	set := make(htmltable.ColumnSet, 0, len(values))
	for _, v := range values {
		if name, ok := strings.CutPrefix(v, namePrefix); ok {
			set = append(set, htmltable.NameRef(name))
			continue
		}
		set = append(set, htmltable.ParseColumnRef(v))
	}
	return set
}

func parseParams(values []string) (url.Values, error) {
	params := make(url.Values)
	for _, v := range values {
		key, value, ok := strings.Cut(v, "=")
		if !ok || key == "" {
			return nil, htmltable.Errorf(htmltable.EINVALID, "invalid parameter %q, expected key=value", v)
		}
		params.Add(key, value)
	}
	return params, nil
}
