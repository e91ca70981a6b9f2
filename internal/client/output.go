package client

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/transync/transync/internal/filesync"
)

var ErrSyncFailed = errors.New("sync failed")

var (
	cyan   = color.New(color.FgHiCyan).SprintFunc()
	red    = color.New(color.FgHiRed, color.Bold).SprintFunc()
	green  = color.New(color.FgHiGreen).SprintFunc()
	yellow = color.New(color.FgHiYellow).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()
)

// Summary totals one command run.
type Summary struct {
	Command     string
	Transferred int
	Skipped     int
	Failed      int
	Bytes       int64
	Elapsed     time.Duration
	Results     []*filesync.Result
}

func newSummary(command string, results []*filesync.Result, started time.Time, now time.Time) *Summary {
	s := &Summary{Command: command, Results: results, Elapsed: now.Sub(started)}
	for _, res := range results {
		switch {
		case !res.OK || res.StatusCode >= http.StatusBadRequest:
			s.Failed++
		case res.Skipped:
			s.Skipped++
		default:
			s.Transferred++
			s.Bytes += res.Bytes
		}
	}
	return s
}

// Err is non-nil when at least one file failed or was rejected by the server.
func (s *Summary) Err() error {
	if s.Failed == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d of %d files", ErrSyncFailed, s.Failed, len(s.Results))
}

func (s *Summary) print(w io.Writer) {
	failed := fmt.Sprintf("%d failed", s.Failed)
	if s.Failed > 0 {
		failed = red(failed)
	}
	fmt.Fprintf(w, "%s: %s transferred (%s), %d skipped, %s in %s\n",
		s.Command,
		green(s.Transferred),
		humanize.Bytes(uint64(s.Bytes)),
		s.Skipped,
		failed,
		s.Elapsed.Round(time.Millisecond),
	)
}

func (c *Client) printResults(results []*filesync.Result) {
	for _, res := range results {
		c.printResult(res)
	}
}

func (c *Client) printResult(res *filesync.Result) {
	status := res.Status
	switch {
	case !res.OK:
		status = red(status)
	case res.Skipped:
		status = faint(status)
	}
	fmt.Fprintf(c.out, "%-6s %s %s %s\n", cyan(res.Op), c.displayPath(res.Descriptor), faint(res.Checksums), status)
}

// displayPath is the project relative path, prefixed with '*' when the local copy
// changed since its last sync.
func (c *Client) displayPath(d filesync.FileDescriptor) string {
	return d.WithLocalPath(c.relPath(d.LocalPath)).DisplayPath()
}
