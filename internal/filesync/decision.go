package filesync

import (
	"github.com/spf13/afero"
)

// Decision is the outcome of comparing a descriptor against its local file.
type Decision int

const (
	// DecisionSkip means local and remote contents already match.
	DecisionSkip Decision = iota
	// DecisionTransfer means the file has to go over the wire.
	DecisionTransfer
)

func (d Decision) String() string {
	if d == DecisionSkip {
		return "skip"
	}
	return "transfer"
}

// State is the result of inspecting one descriptor's local file.
type State struct {
	Exists        bool
	LocalChecksum Checksum
	Decision      Decision
}

// Inspect hashes the local file and decides whether a transfer is needed.
// The local checksum is computed on every call; the remote one is taken from d as is.
func Inspect(fs afero.Fs, d FileDescriptor, force bool) State {
	exists := fileExists(fs, d.LocalPath)
	local := EmptyChecksum
	if exists {
		local = LocalChecksum(fs, d.LocalPath)
	}

	decision := DecisionSkip
	switch {
	case !exists, force, local.IsEmpty(), local != d.RemoteChecksum:
		decision = DecisionTransfer
	}

	return State{Exists: exists, LocalChecksum: local, Decision: decision}
}

// ShouldTransfer reports whether d must be transferred.
func ShouldTransfer(fs afero.Fs, d FileDescriptor, force bool) bool {
	return Inspect(fs, d, force).Decision == DecisionTransfer
}

func fileExists(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
