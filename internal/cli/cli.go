package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/yiblet/sipp/internal/backend"
	"github.com/yiblet/sipp/internal/clipboard"
	"github.com/yiblet/sipp/internal/clipboard/sysboard"
	"github.com/yiblet/sipp/internal/config"
	"github.com/yiblet/sipp/internal/highlight"
	"github.com/yiblet/sipp/internal/server"
	"github.com/yiblet/sipp/internal/store/dbstore"
	"github.com/yiblet/sipp/internal/tui"
)

// localLinkBase is where links point when browsing the local database; it
// is where 'sipp serve' listens by default.
const localLinkBase = "http://localhost:3000"

// defaultUploadName names snippets read from stdin or the clipboard.
const defaultUploadName = "untitled.txt"

// CLI handles the command-line interface
type CLI struct {
	args      *Args
	configMgr *config.ConfigManager
	clipboard clipboard.Clipboard
	stdin     io.Reader
	stdout    io.Writer
	logger    *slog.Logger

	closers []io.Closer
}

// Option customizes a CLI, mostly for tests.
type Option func(*CLI)

// WithConfigManager replaces the default ~/.config/sipp config file.
func WithConfigManager(cm *config.ConfigManager) Option {
	return func(c *CLI) { c.configMgr = cm }
}

// WithClipboard replaces the system clipboard.
func WithClipboard(cb clipboard.Clipboard) Option {
	return func(c *CLI) { c.clipboard = cb }
}

// WithIO replaces stdin and stdout.
func WithIO(stdin io.Reader, stdout io.Writer) Option {
	return func(c *CLI) {
		c.stdin = stdin
		c.stdout = stdout
	}
}

// NewWithArgs creates a CLI for the parsed arguments. The database is not
// opened until a command needs it.
func NewWithArgs(args *Args, opts ...Option) (*CLI, error) {
	if args == nil {
		args = &Args{}
	}
	c := &CLI{
		args:   args,
		stdin:  os.Stdin,
		stdout: os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.configMgr == nil {
		cm, err := config.NewConfigManager()
		if err != nil {
			return nil, err
		}
		c.configMgr = cm
	}
	if c.clipboard == nil {
		c.clipboard = sysboard.New()
	}

	logger, err := c.openLogger()
	if err != nil {
		return nil, err
	}
	c.logger = logger

	return c, nil
}

// openLogger writes JSON records to --log-file, or discards them. The TUI
// owns the terminal, so logs never go to stdout.
func (c *CLI) openLogger() (*slog.Logger, error) {
	if c.args.LogFile == nil || *c.args.LogFile == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), nil
	}
	f, err := os.OpenFile(*c.args.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	c.closers = append(c.closers, f)
	return slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})), nil
}

// Close releases the database and the log file.
func (c *CLI) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i].Close())
	}
	c.closers = nil
	return errors.Join(errs...)
}

// Execute runs the CLI command based on parsed arguments
func (c *CLI) Execute() error {
	if err := c.args.Validate(); err != nil {
		return err
	}

	switch {
	case c.args.Serve != nil:
		return c.executeServe(c.args.Serve)
	case c.args.Auth != nil:
		return c.executeAuth()
	case c.args.Upload != nil:
		return c.executeUpload(c.args.Upload)
	case c.args.Config != nil:
		return c.executeConfig(c.args.Config)
	default:
		return c.launchTUI()
	}
}

// dbPath picks the database file: --db, then db_location, then the default.
func (c *CLI) dbPath(cfg *config.Config) string {
	if c.args.DBPath != nil && *c.args.DBPath != "" {
		return *c.args.DBPath
	}
	if cfg.DBLocation != "" {
		return cfg.DBLocation
	}
	return DefaultDBPath
}

func (c *CLI) apiKey(cfg *config.Config) string {
	if c.args.APIKey != nil {
		return *c.args.APIKey
	}
	return cfg.APIKey
}

func (c *CLI) openStore(path string) (*dbstore.SQLiteStore, error) {
	st, err := dbstore.NewSQLiteStore(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	c.closers = append(c.closers, st)
	return st, nil
}

// resolveBackend chooses where snippets live. An explicit --remote wins.
// Without one, an existing local database is used directly; when there is
// none the configured server is used instead.
func (c *CLI) resolveBackend(cfg *config.Config) (backend.Backend, string, error) {
	key := c.apiKey(cfg)

	if c.args.Remote != nil && *c.args.Remote != "" {
		r := backend.NewRemote(*c.args.Remote, key, backend.WithLogger(c.logger))
		return r, r.BaseURL(), nil
	}

	path := c.dbPath(cfg)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		c.logger.Debug("no local database, using remote", slog.String("db", path))
		r := backend.NewRemote(cfg.RemoteURLOrDefault(), key, backend.WithLogger(c.logger))
		return r, r.BaseURL(), nil
	}

	st, err := c.openStore(path)
	if err != nil {
		return nil, "", err
	}
	return backend.NewLocal(st), localLinkBase, nil
}

// executeServe handles the 'sipp serve' command
func (c *CLI) executeServe(cmd *ServeCmd) error {
	cfg, err := c.configMgr.Load()
	if err != nil {
		return err
	}

	st, err := c.openStore(c.dbPath(cfg))
	if err != nil {
		return err
	}

	var key string
	if c.args.APIKey != nil {
		key = *c.args.APIKey
	}

	logger := slog.New(slog.NewTextHandler(c.stdout, nil))
	srv, err := server.New(server.Config{
		Host:   cmd.Host,
		Port:   cmd.Port,
		APIKey: key,
		Style:  cfg.Style,
	}, st, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Start(ctx)
}

// executeAuth handles the 'sipp auth' command
func (c *CLI) executeAuth() error {
	cfg, err := c.configMgr.Load()
	if err != nil {
		return err
	}

	in := bufio.NewReader(c.stdin)

	fmt.Fprintf(c.stdout, "Remote URL [%s]: ", cfg.RemoteURLOrDefault())
	remoteURL, err := readLine(in)
	if err != nil {
		return fmt.Errorf("failed to read remote URL: %w", err)
	}
	if remoteURL != "" {
		cfg.RemoteURL = remoteURL
	}

	fmt.Fprint(c.stdout, "API key: ")
	key, err := c.readSecret(in)
	if err != nil {
		return fmt.Errorf("failed to read API key: %w", err)
	}
	if key != "" {
		cfg.APIKey = key
	}

	if err := c.configMgr.Save(cfg); err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "Saved credentials to %s\n", c.configMgr.GetConfigPath())
	return nil
}

// readSecret reads without echo when stdin is a terminal.
func (c *CLI) readSecret(in *bufio.Reader) (string, error) {
	if f, ok := c.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(c.stdout)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	return readLine(in)
}

func readLine(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// executeUpload handles the 'sipp upload' command
func (c *CLI) executeUpload(cmd *UploadCmd) error {
	content, name, err := c.readUpload(cmd)
	if err != nil {
		return err
	}
	if cmd.Name != nil {
		name = *cmd.Name
	}

	cfg, err := c.configMgr.Load()
	if err != nil {
		return err
	}
	b, linkBase, err := c.resolveBackend(cfg)
	if err != nil {
		return err
	}

	sn, err := b.Create(context.Background(), name, content)
	if err != nil {
		return fmt.Errorf("failed to upload: %w", err)
	}

	link := linkBase + "/s/" + sn.ShortID
	fmt.Fprintln(c.stdout, link)
	if err := clipboard.WriteText(c.clipboard, link); err != nil {
		c.logger.Debug("could not copy link", slog.Any("error", err))
		return nil
	}
	fmt.Fprintln(c.stdout, "✔ Copied to clipboard!")
	return nil
}

// readUpload returns the content to upload and a default name for it.
func (c *CLI) readUpload(cmd *UploadCmd) (string, string, error) {
	switch {
	case cmd.Clipboard:
		content, err := clipboard.ReadText(c.clipboard)
		if err != nil {
			return "", "", fmt.Errorf("failed to read clipboard: %w", err)
		}
		if content == "" {
			return "", "", fmt.Errorf("clipboard is empty")
		}
		return content, defaultUploadName, nil

	case cmd.File != nil:
		data, err := os.ReadFile(*cmd.File)
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", *cmd.File, err)
		}
		return string(data), filepath.Base(*cmd.File), nil

	default:
		data, err := io.ReadAll(c.stdin)
		if err != nil {
			return "", "", fmt.Errorf("failed to read content: %w", err)
		}
		if len(data) == 0 {
			return "", "", fmt.Errorf("no input provided")
		}
		return string(data), defaultUploadName, nil
	}
}

// executeConfig handles the 'sipp config' command
func (c *CLI) executeConfig(cmd *ConfigCmd) error {
	switch {
	case cmd.Get != nil:
		value, err := c.configMgr.Get(cmd.Get.Key)
		if err != nil {
			return fmt.Errorf("failed to get config value: %w", err)
		}
		if cmd.Get.Key == "api-key" {
			value = config.MaskKey(value)
		}
		fmt.Fprintln(c.stdout, value)
		return nil

	case cmd.Set != nil:
		if err := c.configMgr.Update(cmd.Set.Key, cmd.Set.Value); err != nil {
			return fmt.Errorf("failed to set config value: %w", err)
		}
		shown := cmd.Set.Value
		if cmd.Set.Key == "api-key" {
			shown = config.MaskKey(shown)
		}
		fmt.Fprintf(c.stdout, "Set %s = %s\n", cmd.Set.Key, shown)
		return nil

	case cmd.List != nil:
		values, err := c.configMgr.List()
		if err != nil {
			return fmt.Errorf("failed to list config values: %w", err)
		}
		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Fprintf(c.stdout, "Current configuration (%s):\n", c.configMgr.GetConfigPath())
		for _, k := range keys {
			fmt.Fprintf(c.stdout, "  %s = %s\n", k, values[k])
		}
		return nil

	default:
		return fmt.Errorf("no config subcommand specified")
	}
}

// newSession loads the initial list and builds the interactive session.
// A failed load still yields a session, with the error as its status.
func (c *CLI) newSession(ctx context.Context, cfg *config.Config) (*tui.Session, error) {
	b, linkBase, err := c.resolveBackend(cfg)
	if err != nil {
		return nil, err
	}

	snippets, listErr := b.List(ctx)
	s := tui.NewSession(b, snippets, tui.Options{
		LinkBase:  linkBase,
		Clipboard: c.clipboard,
		Context:   ctx,
	})
	if listErr != nil {
		c.logger.Warn("initial load failed", slog.Any("error", listErr))
		s.SetStatus(listErr.Error())
	}
	return s, nil
}

// launchTUI starts the interactive TUI
func (c *CLI) launchTUI() error {
	cfg, err := c.configMgr.Load()
	if err != nil {
		return err
	}

	s, err := c.newSession(context.Background(), cfg)
	if err != nil {
		return err
	}

	model := tui.NewAppModel(s, highlight.New(cfg.Style))
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
