package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/htmltable"
)

// Run executes the extraction and prints the encoded result.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	var err error
	if c.HTMLFile != "" {
		err = c.runFile(deps)
	} else {
		err = c.runURL(deps)
	}
	if err == nil && deps.Output != nil {
		err = deps.Output.Commit()
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", htmltable.ErrorMessage(err))
		return err
	}
	return nil
}

func (c *ExtractCmd) runURL(deps *Dependencies) error {
	params, err := parseParams(c.Params)
	if err != nil {
		return err
	}
	_, err = deps.Service.Extract(deps.Ctx, deps.Config, c.URL, params)
	return err
}

func (c *ExtractCmd) runFile(deps *Dependencies) error {
	var r io.Reader = deps.Stdin
	if c.HTMLFile != "-" {
		f, err := os.Open(c.HTMLFile)
		if err != nil {
			return htmltable.Errorf(htmltable.EINVALID, "failed to open HTML file: %v", err)
		}
		defer f.Close()
		r = f
	}
	html, err := io.ReadAll(r)
	if err != nil {
		return htmltable.Errorf(htmltable.EINVALID, "failed to read HTML: %v", err)
	}
	_, err = deps.Service.ExtractHTML(deps.Ctx, deps.Config, string(html))
	return err
}
