package filesync

import (
	"crypto/sha1"
	"encoding/hex"
	"io"

	"github.com/spf13/afero"
)

// Checksum is the lowercase hex SHA-1 of a file's contents.
type Checksum string

// EmptyChecksum stands for a missing, unreadable or empty file. It never equals a real hash.
const EmptyChecksum Checksum = ""

const shortChecksumLen = 7

var emptyShortChecksum = "-------"

// IsEmpty reports whether c is the empty sentinel.
func (c Checksum) IsEmpty() bool {
	return c == EmptyChecksum
}

// Short returns the first characters of the checksum for display.
func (c Checksum) Short() string {
	if c.IsEmpty() {
		return emptyShortChecksum
	}
	if len(c) <= shortChecksumLen {
		return string(c)
	}
	return string(c[:shortChecksumLen])
}

func (c Checksum) String() string {
	return string(c)
}

// ChecksumBytes hashes b. Zero-length input yields EmptyChecksum.
func ChecksumBytes(b []byte) Checksum {
	if len(b) == 0 {
		return EmptyChecksum
	}
	sum := sha1.Sum(b)
	return Checksum(hex.EncodeToString(sum[:]))
}

// LocalChecksum hashes the file at path. Read errors are not reported: a file that
// cannot be read hashes to EmptyChecksum and therefore always needs a transfer.
func LocalChecksum(fs afero.Fs, path string) Checksum {
	file, err := fs.Open(path)
	if err != nil {
		return EmptyChecksum
	}
	defer file.Close()

	h := sha1.New()
	n, err := io.Copy(h, file)
	if err != nil || n == 0 {
		return EmptyChecksum
	}
	return Checksum(hex.EncodeToString(h.Sum(nil)))
}

// DisplayPair renders "<local>..<remote>" with shortened checksums.
func DisplayPair(local, remote Checksum) string {
	return local.Short() + ".." + remote.Short()
}
