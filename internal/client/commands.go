package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"time"

	"github.com/transync/transync/internal/client/workspace"
	"github.com/transync/transync/internal/filesync"
	"github.com/transync/transync/internal/syncsdk"
)

var ErrNotInProject = errors.New("file is not a master file of the project")

type PullOptions struct {
	Patterns []string // restrict to matching project paths
	Locales  []string // restrict to these target locales
	Force    bool     // fetch even when checksums match
	All      bool     // also fetch master files
}

// Pull fetches the selected files of the project.
func (c *Client) Pull(ctx context.Context, opts PullOptions) (*Summary, error) {
	started := c.clock.Now()

	project, err := c.project(ctx)
	if err != nil {
		return nil, err
	}

	sel := c.selector.WithPatterns(opts.Patterns...).WithLocales(opts.Locales...)
	entries := c.entries()

	var descs []filesync.FileDescriptor
	for i := range project.Files {
		f := &project.Files[i]
		if f.IsMaster() && !opts.All {
			continue
		}
		d, ok := c.listed(project, f, entries)
		if !ok || !sel.Match(f.Name, d.Locale) {
			continue
		}
		descs = append(descs, d)
	}

	results := runPool(ctx, c.cfg.Concurrency, descs, func(ctx context.Context, d filesync.FileDescriptor) *filesync.Result {
		res := c.exec.Fetch(ctx, d, opts.Force)
		c.record(res)
		return res
	})

	return c.finish("pull", results, started), nil
}

type PushOptions struct {
	Patterns []string
	Locales  []string
	Force    bool              // upload even when checksums match
	Target   bool              // push target files instead of master files
	All      bool              // push master files, then target files
	Params   map[string]string // overrides the configured upload options
}

// Push uploads the selected files. Master files always go before target files,
// so the server knows the source strings before receiving translations.
func (c *Client) Push(ctx context.Context, opts PushOptions) (*Summary, error) {
	started := c.clock.Now()

	project, err := c.project(ctx)
	if err != nil {
		return nil, err
	}

	sel := c.selector.WithPatterns(opts.Patterns...).WithLocales(opts.Locales...)
	entries := c.entries()

	params := c.cfg.Upload.Params()
	maps.Copy(params, opts.Params)

	var masters, targets []filesync.FileDescriptor
	for i := range project.Files {
		f := &project.Files[i]
		d, ok := c.listed(project, f, entries)
		if !ok || !sel.Match(f.Name, d.Locale) {
			continue
		}
		if f.IsMaster() {
			masters = append(masters, d)
		} else {
			targets = append(targets, d)
		}
	}

	upload := func(ctx context.Context, d filesync.FileDescriptor) *filesync.Result {
		res := c.exec.Upload(ctx, d, opts.Force, params)
		c.record(res)
		return res
	}

	var results []*filesync.Result
	if !opts.Target || opts.All {
		results = append(results, runPool(ctx, c.cfg.Concurrency, masters, upload)...)
	}
	if opts.Target || opts.All {
		results = append(results, runPool(ctx, c.cfg.Concurrency, targets, upload)...)
	}

	return c.finish("push", results, started), nil
}

// Add creates master files in the project from local paths.
func (c *Client) Add(ctx context.Context, paths []string, params map[string]string) (*Summary, error) {
	started := c.clock.Now()

	project, err := c.project(ctx)
	if err != nil {
		return nil, err
	}
	masters := masterFiles(project)

	var (
		descs   []filesync.FileDescriptor
		results []*filesync.Result
	)
	for _, path := range paths {
		d, rel, err := c.localDescriptor(project, path)
		if err != nil {
			results = append(results, failed(filesync.OpCreate, d, err))
			continue
		}
		if _, ok := masters[rel]; ok {
			slog.Info("sync", "op", filesync.OpCreate, "status", "Skipped", "path", rel, "reason", "already in project")
			results = append(results, &filesync.Result{Op: filesync.OpCreate, Descriptor: d, OK: true, Skipped: true, Status: "Already in project"})
			continue
		}
		descs = append(descs, d)
	}

	created := runPool(ctx, c.cfg.Concurrency, descs, func(ctx context.Context, d filesync.FileDescriptor) *filesync.Result {
		createParams := maps.Clone(params)
		if createParams == nil {
			createParams = make(map[string]string)
		}
		createParams[filesync.ParamName] = c.relPath(d.LocalPath)

		res := c.exec.Create(ctx, d, createParams)
		c.record(res)
		return res
	})

	return c.finish("add", append(results, created...), started), nil
}

// Remove deletes master files, and with them their translations, from the project.
func (c *Client) Remove(ctx context.Context, paths []string) (*Summary, error) {
	started := c.clock.Now()

	project, err := c.project(ctx)
	if err != nil {
		return nil, err
	}
	masters := masterFiles(project)
	entries := c.entries()

	var (
		descs   []filesync.FileDescriptor
		results []*filesync.Result
	)
	for _, path := range paths {
		d, rel, err := c.localDescriptor(project, path)
		if err != nil {
			results = append(results, failed(filesync.OpDelete, d, err))
			continue
		}
		f, ok := masters[rel]
		if !ok {
			results = append(results, failed(filesync.OpDelete, d, fmt.Errorf("%s: %w", rel, ErrNotInProject)))
			continue
		}
		fd, err := c.descriptor(project, f, entries)
		if err != nil {
			results = append(results, failed(filesync.OpDelete, d, err))
			continue
		}
		descs = append(descs, fd)
	}

	deleted := runPool(ctx, c.cfg.Concurrency, descs, func(ctx context.Context, d filesync.FileDescriptor) *filesync.Result {
		res := c.exec.Delete(ctx, d)
		c.record(res)
		return res
	})

	return c.finish("rm", append(results, deleted...), started), nil
}

// localDescriptor builds a master descriptor for a path given on the command line.
func (c *Client) localDescriptor(project *syncsdk.Project, path string) (filesync.FileDescriptor, string, error) {
	d := filesync.FileDescriptor{
		LocalPath:    path,
		SourceLocale: project.SourceLocale.Code,
		ProjectKey:   c.cfg.APIKey,
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return d, "", err
	}
	d.LocalPath = abs

	rel, err := c.ws.RelPath(abs)
	if err != nil {
		return d, "", err
	}
	return d, rel, nil
}

func (c *Client) finish(command string, results []*filesync.Result, started time.Time) *Summary {
	c.printResults(results)
	s := newSummary(command, results, started, c.clock.Now())
	s.print(c.out)
	return s
}

func masterFiles(project *syncsdk.Project) map[string]*syncsdk.ProjectFile {
	masters := make(map[string]*syncsdk.ProjectFile)
	for i := range project.Files {
		f := &project.Files[i]
		if f.IsMaster() {
			masters[workspace.NormPath(f.Name)] = f
		}
	}
	return masters
}

func failed(op filesync.OpKind, d filesync.FileDescriptor, err error) *filesync.Result {
	slog.Error("sync", "op", op, "status", "Failed", "path", d.LocalPath, "error", err)
	return &filesync.Result{
		Op:         op,
		Descriptor: d,
		Checksums:  filesync.DisplayPair(filesync.EmptyChecksum, filesync.EmptyChecksum),
		Status:     "Error: " + err.Error(),
		Err:        err,
	}
}
