package filesync

// Result is the outcome of one operation. Failures never abort a sync run; they
// are reported here and the caller moves on to the next file.
type Result struct {
	Op         OpKind
	Descriptor FileDescriptor // descriptor after the operation
	Checksums  string         // local..remote display pair
	Skipped    bool
	OK         bool
	Status     string // human readable status line
	StatusCode int
	Attempts   int
	Bytes      int64
	Err        error
}

// Transferred reports whether the request reached the server and came back.
func (r *Result) Transferred() bool {
	return r.OK && !r.Skipped
}
