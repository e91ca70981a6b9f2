package client

import (
	"context"
	"fmt"

	"github.com/transync/transync/internal/filesync"
)

// FileStatus is the local view of one project file.
type FileStatus struct {
	Path      string
	Locale    string // empty for master files
	Exists    bool
	Fresh     bool // unchanged since the last sync
	Checksums string
	Decision  filesync.Decision
}

func (s FileStatus) describe() string {
	switch {
	case !s.Exists:
		return yellow("missing locally")
	case s.Decision == filesync.DecisionSkip:
		return green("up to date")
	case s.Fresh:
		return yellow("changed on server")
	default:
		return yellow("changed locally")
	}
}

// Status compares every selected file with its listed remote checksum. Besides the
// project listing it makes no requests.
func (c *Client) Status(ctx context.Context, patterns ...string) ([]FileStatus, error) {
	project, err := c.project(ctx)
	if err != nil {
		return nil, err
	}

	sel := c.selector.WithPatterns(patterns...)
	entries := c.entries()

	var statuses []FileStatus
	for i := range project.Files {
		f := &project.Files[i]
		d, ok := c.listed(project, f, entries)
		if !ok || !sel.Match(f.Name, d.Locale) {
			continue
		}

		state := filesync.Inspect(c.fs, d, false)
		statuses = append(statuses, FileStatus{
			Path:      c.relPath(d.LocalPath),
			Locale:    d.Locale,
			Exists:    state.Exists,
			Fresh:     d.Fresh,
			Checksums: filesync.DisplayPair(state.LocalChecksum, d.RemoteChecksum),
			Decision:  state.Decision,
		})
	}

	fmt.Fprintf(c.out, "%s (%s)\n", cyan(project.Name), project.SourceLocale.Code)
	for _, s := range statuses {
		locale := s.Locale
		if locale == "" {
			locale = "master"
		}
		path := s.Path
		if !s.Fresh {
			path = "*" + path
		}
		fmt.Fprintf(c.out, "%-8s %s %s %s\n", locale, path, faint(s.Checksums), s.describe())
	}

	return statuses, nil
}
