package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/transync/transync/internal/client/config"
	"github.com/transync/transync/internal/client/workspace"
	"github.com/transync/transync/internal/filesync"
	"github.com/transync/transync/internal/journal"
	"github.com/transync/transync/internal/syncsdk"
	"github.com/transync/transync/internal/utils"
)

// Client runs sync commands for one project directory.
type Client struct {
	cfg      *config.Config
	ws       *workspace.Workspace
	sdk      *syncsdk.Client
	exec     *filesync.Executor
	journal  *journal.Journal
	selector *FileSelector
	fs       afero.Fs
	clock    clockwork.Clock
	out      io.Writer
}

type Option func(*Client)

// WithOutput sets where per-file lines and the summary are printed. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(c *Client) {
		c.out = w
	}
}

// WithClock replaces the clock used for retry waits.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Client) {
		c.clock = clock
	}
}

// New creates a client for a validated config. Call Open before running commands.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	ws, err := workspace.NewWorkspace(cfg.ProjectDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	sdk, err := syncsdk.New(&syncsdk.Config{
		BaseURL:    cfg.ServerURL,
		ProjectKey: cfg.APIKey,
		Timeout:    cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sdk: %w", err)
	}

	journalPath := cfg.JournalPath
	if journalPath == "" {
		journalPath = ws.JournalPath
	}

	c := &Client{
		cfg:     cfg,
		ws:      ws,
		sdk:     sdk,
		journal: journal.New(journalPath),
		fs:      afero.NewOsFs(),
		clock:   clockwork.NewRealClock(),
		out:     os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.exec = filesync.NewExecutor(sdk,
		filesync.WithAuthorizer(sdk.Authorizer()),
		filesync.WithFormatter(syncsdk.StatusFormatter{}),
		filesync.WithFs(c.fs),
		filesync.WithClock(c.clock),
	)

	c.selector = NewFileSelector(cfg)
	c.selector.LoadIgnoreFile(ws.Root)

	return c, nil
}

// Open locks the workspace and opens the journal.
func (c *Client) Open() error {
	if err := c.ws.Setup(); err != nil {
		return err
	}

	if err := c.journal.Open(); err != nil {
		c.ws.Unlock()
		return err
	}

	slog.Info("transync", "project", c.ws.Root, "server", c.cfg.ServerURL, "key", utils.MaskSecret(c.cfg.APIKey), "journal", c.journal.Path())
	return nil
}

// Close releases the journal, the http connections and the workspace lock.
func (c *Client) Close() error {
	var errs []error
	if err := c.journal.Close(); err != nil && !errors.Is(err, journal.ErrNotOpen) {
		errs = append(errs, err)
	}
	c.sdk.Close()
	if err := c.ws.Unlock(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Workspace returns the project directory the client works on.
func (c *Client) Workspace() *workspace.Workspace {
	return c.ws
}

func (c *Client) project(ctx context.Context) (*syncsdk.Project, error) {
	project, err := c.sdk.Projects.Get(ctx, c.cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list project: %w", err)
	}
	slog.Debug("project", "name", project.Name, "files", len(project.Files), "source", project.SourceLocale.Code)
	return project, nil
}
