package workspace

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/transync/transync/internal/utils"
)

const (
	metadataDir = ".transync"
	logsDir     = "logs"
	lockFile    = "transync.lock"
	journalFile = "journal.db"
)

var (
	ErrWorkspaceLocked  = errors.New("workspace locked by another process")
	ErrOutsideWorkspace = errors.New("path is outside the workspace")
)

// Workspace is a project directory holding the local copies of the project files.
type Workspace struct {
	Root        string
	MetadataDir string
	LogsDir     string
	JournalPath string

	flock *flock.Flock
}

func NewWorkspace(rootDir string) (*Workspace, error) {
	root, err := utils.ResolvePath(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", rootDir, err)
	}

	meta := filepath.Join(root, metadataDir)

	return &Workspace{
		Root:        root,
		MetadataDir: meta,
		LogsDir:     filepath.Join(meta, logsDir),
		JournalPath: filepath.Join(meta, journalFile),
		flock:       flock.New(filepath.Join(meta, lockFile)),
	}, nil
}

func (w *Workspace) Lock() error {
	// .transync/transync.lock keeps a second run off the same files
	if err := utils.EnsureDir(w.MetadataDir); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", w.MetadataDir, err)
	}

	locked, err := w.flock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to lock workspace: %w", err)
	}
	if !locked {
		return ErrWorkspaceLocked
	}

	return nil
}

func (w *Workspace) Unlock() error {
	// if this process hasn't locked the workspace, then don't delete the lock file
	if !w.flock.Locked() {
		return nil
	}

	if err := w.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to unlock workspace: %w", err)
	}

	return os.Remove(w.flock.Path())
}

// Setup locks the workspace and creates the metadata layout.
func (w *Workspace) Setup() error {
	if err := w.Lock(); err != nil {
		return err
	}

	slog.Debug("workspace", "root", w.Root)

	for _, dir := range []string{w.MetadataDir, w.LogsDir} {
		if err := utils.EnsureDir(dir); err != nil {
			if unlockErr := w.Unlock(); unlockErr != nil {
				slog.Warn("workspace unlock", "error", unlockErr)
			}
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// AbsPath resolves a project-relative path (as the server names files) inside the workspace.
// Names that climb out of the root with ".." are rejected.
func (w *Workspace) AbsPath(relPath string) (string, error) {
	p := NormPath(relPath)
	if p == ".." || strings.HasPrefix(p, "../") {
		return "", fmt.Errorf("%s: %w", relPath, ErrOutsideWorkspace)
	}
	return filepath.Join(w.Root, filepath.FromSlash(p)), nil
}

// RelPath returns the slash separated path of absPath relative to the workspace root
func (w *Workspace) RelPath(absPath string) (string, error) {
	if !filepath.IsAbs(absPath) {
		absPath = filepath.Join(w.Root, absPath)
	}
	relPath, err := filepath.Rel(w.Root, absPath)
	if err != nil {
		return "", err
	}
	if relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %w", absPath, ErrOutsideWorkspace)
	}
	return NormPath(relPath), nil
}

// IsMetadataPath reports whether relPath points into the workspace metadata directory
func IsMetadataPath(relPath string) bool {
	p := NormPath(relPath)
	return p == metadataDir || strings.HasPrefix(p, metadataDir+"/")
}

// NormPath normalizes a path by cleaning it, replacing backslashes with slashes, and trimming leading slashes
func NormPath(path string) string {
	path = filepath.Clean(path)
	path = strings.ReplaceAll(path, "\\", "/")
	path = strings.TrimLeft(path, "/")
	return path
}
