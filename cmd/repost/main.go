package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/repost"
	"github.com/fwojciec/repost/sqlite"
	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// EnvFiles are loaded into the environment before flags are parsed.
	// Missing files are ignored.
	EnvFiles []string

	// ConfigPaths are YAML files consulted for flag defaults, in order.
	ConfigPaths []string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	RunService repost.RunService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:      defaultDBPath(),
		EnvFiles:    []string{".env"},
		ConfigPaths: defaultConfigPaths(),
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
	if err := loadEnv(m.EnvFiles); err != nil {
		return err
	}

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("repost"),
		kong.Description("Turn article pages into Xiaohongshu-style posts"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
		kong.Configuration(YAMLLoader, m.ConfigPaths...),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'repost --help' to see available commands")
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
	cmd = strings.Fields(kongCtx.Command())[0]

	deps.Logger = newLogger(stderr, cli.Verbose)

	if cli.DB != "" {
		m.DBPath = cli.DB
	}
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set REPOST_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.RunService = sqlite.NewRunService(m.DB)
	deps.Runs = m.RunService

	switch cmd {
	case "convert", "run":
		flags := &cli.Convert.PipelineFlags
		if cmd == "run" {
			flags = &cli.Run.PipelineFlags
		}
		p, closeFn, err := newPipeline(ctx, flags, cli.Out, deps.Logger)
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", repost.ErrorMessage(err))
			return err
		}
		defer closeFn()
		if cmd == "run" {
			p.Publisher = newPublisher(&cli.Run.PublishFlags, deps.Logger)
		}
		deps.Pipeline = p
		deps.Strategy = flags.Style
	case "publish":
		deps.Publisher = newPublisher(&cli.Publish.PublishFlags, deps.Logger)
	}

	return kongCtx.Run(deps)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadEnv loads the given dotenv files, skipping missing ones. Variables
// already set in the environment win.
func loadEnv(files []string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

func defaultDBPath() string {
	if path := os.Getenv("REPOST_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "repost.db"
	}
	dir := filepath.Join(home, ".repost")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "repost.db")
}

func defaultConfigPaths() []string {
	paths := []string{"repost.yaml"}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "repost", "config.yaml"))
	}
	return paths
}
