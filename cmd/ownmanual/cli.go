package main

import (
	"context"
	"io"
	"time"

	"github.com/fkarasek/ownmanual"
	"github.com/fkarasek/ownmanual/fetch"
	"github.com/fkarasek/ownmanual/http"
	"github.com/fkarasek/ownmanual/render"
	"github.com/fkarasek/ownmanual/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	DB       *sqlite.DB
	Manifest ownmanual.ManifestService
	Fetcher  *fetch.Fetcher
	Combiner *render.Combiner
	Renderer *render.Renderer
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Fetch   FetchCmd   `cmd:"" help:"Fetch a manual from the vendor API"`
	Combine CombineCmd `cmd:"" help:"Combine fetched topics into one markdown file"`
	Render  RenderCmd  `cmd:"" help:"Render fetched topics into one self-contained HTML file"`
	Status  StatusCmd  `cmd:"" help:"Show the last fetch run and its skipped topics"`
}

// FetchCmd is the "fetch" subcommand.
type FetchCmd struct {
	Root     string        `arg:"" help:"Root topic key of the manual"`
	Cookies  string        `required:"" env:"OWNMANUAL_COOKIES" help:"File holding the browser session Cookie header"`
	Output   string        `short:"o" default:"manual" env:"OWNMANUAL_OUTPUT" help:"Output directory"`
	BaseURL  string        `default:"${default_base_url}" help:"Vendor API base URL"`
	Language string        `default:"${default_language}" help:"Manual language code"`
	Timeout  time.Duration `default:"30s" help:"Per-request timeout"`
	Resume   int           `help:"Restart at this TOC position, reusing downloaded images"`
	Combine  bool          `help:"Write combined_manual.md after a successful fetch"`
	Title    string        `default:"Owner's Manual" help:"Document title for the combined output"`
}

// CombineCmd is the "combine" subcommand.
type CombineCmd struct {
	Output string `short:"o" default:"manual" env:"OWNMANUAL_OUTPUT" help:"Directory holding fetched content"`
	Title  string `default:"Owner's Manual" help:"Document title"`
	Strict bool   `help:"Abort on the first topic missing from disk"`
}

// RenderCmd is the "render" subcommand.
type RenderCmd struct {
	Output string `short:"o" default:"manual" env:"OWNMANUAL_OUTPUT" help:"Directory holding fetched content"`
	Out    string `help:"HTML file to write (default: manual.html in the output directory)"`
	Title  string `default:"Owner's Manual" help:"Document title"`
	Strict bool   `help:"Abort on the first topic missing from disk"`
}

// StatusCmd is the "status" subcommand.
type StatusCmd struct {
	Full bool `help:"List every topic record, not only failures"`
}

// Kong interpolation variables for flag defaults.
var cliVars = map[string]string{
	"default_base_url": http.DefaultBaseURL,
	"default_language": http.DefaultLanguage,
}
