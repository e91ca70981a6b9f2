package client

import (
	"log/slog"
	"net/http"

	"github.com/transync/transync/internal/filesync"
	"github.com/transync/transync/internal/journal"
	"github.com/transync/transync/internal/syncsdk"
)

// descriptor turns a listed project file into a descriptor rooted in the workspace.
// Fresh is true when the local copy still has the checksum recorded at its last sync.
// Names resolving outside the workspace are rejected.
func (c *Client) descriptor(p *syncsdk.Project, f *syncsdk.ProjectFile, entries map[string]*journal.Entry) (filesync.FileDescriptor, error) {
	localPath, err := c.ws.AbsPath(f.Name)
	if err != nil {
		return filesync.FileDescriptor{}, err
	}

	d := filesync.FileDescriptor{
		ID:             f.IDString(),
		LocalPath:      localPath,
		SourceLocale:   p.SourceLocale.Code,
		ProjectKey:     c.cfg.APIKey,
		RemoteChecksum: filesync.Checksum(f.HashFile),
	}
	if !f.IsMaster() {
		d.Locale = f.LocaleCode
	}
	return d.WithFresh(c.isFresh(d.LocalPath, entries)), nil
}

// listed builds the descriptor of a listed file, logging and dropping files
// the workspace cannot hold.
func (c *Client) listed(p *syncsdk.Project, f *syncsdk.ProjectFile, entries map[string]*journal.Entry) (filesync.FileDescriptor, bool) {
	d, err := c.descriptor(p, f, entries)
	if err != nil {
		slog.Warn("skipping project file", "id", f.ID, "name", f.Name, "error", err)
		return d, false
	}
	return d, true
}

func (c *Client) isFresh(localPath string, entries map[string]*journal.Entry) bool {
	e, ok := entries[c.relPath(localPath)]
	if !ok {
		return false
	}
	sum := filesync.LocalChecksum(c.fs, localPath)
	return !sum.IsEmpty() && string(sum) == e.Checksum
}

// entries loads the journal. A broken journal only costs the fresh markers.
func (c *Client) entries() map[string]*journal.Entry {
	entries, err := c.journal.All()
	if err != nil {
		slog.Warn("journal", "error", err)
		return map[string]*journal.Entry{}
	}
	return entries
}

// record updates the journal after a transfer the server accepted.
func (c *Client) record(res *filesync.Result) {
	if !res.Transferred() || res.StatusCode >= http.StatusBadRequest {
		return
	}

	d := res.Descriptor
	rel := c.relPath(d.LocalPath)

	var sum filesync.Checksum
	switch res.Op {
	case filesync.OpFetch:
		if res.StatusCode != http.StatusOK {
			return
		}
		sum = d.RemoteChecksum
	case filesync.OpUpload, filesync.OpCreate:
		sum = filesync.LocalChecksum(c.fs, d.LocalPath)
	case filesync.OpDelete:
		if err := c.journal.Delete(rel); err != nil {
			slog.Warn("journal", "path", rel, "error", err)
		}
		return
	}

	if sum.IsEmpty() {
		return
	}

	err := c.journal.Set(&journal.Entry{
		Path:     rel,
		FileID:   d.ID,
		Locale:   d.Locale,
		Checksum: string(sum),
		SyncedAt: c.clock.Now(),
	})
	if err != nil {
		slog.Warn("journal", "path", rel, "error", err)
	}
}

func (c *Client) relPath(localPath string) string {
	rel, err := c.ws.RelPath(localPath)
	if err != nil {
		return localPath
	}
	return rel
}
