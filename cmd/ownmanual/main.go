package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fkarasek/ownmanual"
	"github.com/fkarasek/ownmanual/fetch"
	"github.com/fkarasek/ownmanual/fs"
	"github.com/fkarasek/ownmanual/goquery"
	"github.com/fkarasek/ownmanual/htmltomarkdown"
	ownhttp "github.com/fkarasek/ownmanual/http"
	"github.com/fkarasek/ownmanual/render"
	ownslog "github.com/fkarasek/ownmanual/slog"
	"github.com/fkarasek/ownmanual/sqlite"
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
	// Manifest database path. Set before calling Run().
	DBPath string

	// SQLite database backing the fetch manifest.
	DB *sqlite.DB

	// Manifest service for end-to-end testing.
	Manifest ownmanual.ManifestService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("ownmanual"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
		kong.Vars(cliVars),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'ownmanual --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Global flags may precede the subcommand, so args[0] is not reliable
	// for dispatch; use the node Kong selected.
	cmd = kongCtx.Command()
	if i := strings.IndexByte(cmd, ' '); i >= 0 {
		cmd = cmd[:i]
	}

	// Open manifest database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintln(stderr, "Hint: Set OWNMANUAL_DB to use a different manifest path")
		return fmt.Errorf("failed to open manifest database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.Manifest = sqlite.NewManifestService(m.DB)
	deps.DB = m.DB
	deps.Manifest = m.Manifest

	logLevel := slog.LevelInfo
	if cli.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel}))

	switch cmd {
	case "fetch":
		cookie, err := ownhttp.ReadCookieFile(cli.Fetch.Cookies)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Export your browser session cookies to a file and pass it with --cookies")
			return err
		}

		var client ownmanual.ManualClient = ownhttp.NewClient(cookie,
			ownhttp.WithBaseURL(cli.Fetch.BaseURL),
			ownhttp.WithLanguage(cli.Fetch.Language),
			ownhttp.WithTimeout(cli.Fetch.Timeout),
		)
		if cli.Verbose {
			client = ownslog.NewLoggingClient(client, logger)
		}

		store := fs.NewStore(cli.Fetch.Output)
		deps.Fetcher = &fetch.Fetcher{
			Client:    client,
			Topics:    store,
			Images:    store,
			Converter: htmltomarkdown.NewConverter(),
			HTML:      goquery.NewProcessor(),
			Manifest:  m.Manifest,
			Pacer:     fetch.NewPacer(fetch.DefaultTopicRPS, fetch.DefaultImageRPS),
			Resume:    cli.Fetch.Resume,
			Logger: func(format string, a ...any) {
				fmt.Fprintf(stderr, format+"\n", a...)
			},
		}
		deps.Combiner = &render.Combiner{Topics: store, Title: cli.Fetch.Title}

	case "combine":
		store := fs.NewStore(cli.Combine.Output)
		deps.Combiner = &render.Combiner{
			Topics: store,
			Title:  cli.Combine.Title,
			Strict: cli.Combine.Strict,
		}

	case "render":
		store := fs.NewStore(cli.Render.Output)
		deps.Renderer = &render.Renderer{
			Topics: store,
			Images: store,
			HTML:   goquery.NewProcessor(),
			Title:  cli.Render.Title,
			Strict: cli.Render.Strict,
		}
	}

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("OWNMANUAL_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "ownmanual.db"
	}
	dir := filepath.Join(home, ".ownmanual")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "ownmanual.db")
}
