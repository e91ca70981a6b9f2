package filesync

// FileDescriptor identifies one synchronizable file. It is a value snapshot: operations
// never mutate it and return an updated copy in Result.Descriptor instead.
type FileDescriptor struct {
	ID             string   // remote id, empty for master files that were never created
	LocalPath      string   // path of the local copy
	Locale         string   // target locale, empty for master files
	SourceLocale   string   // locale used in urls when the descriptor is a master file
	ProjectKey     string   // project api key
	RemoteChecksum Checksum // last known remote checksum, may be stale
	Fresh          bool     // local copy matches what was last synced
}

// IsMaster reports whether the descriptor points at a source-language file.
func (d FileDescriptor) IsMaster() bool {
	return d.Locale == ""
}

// URLLocale returns the locale segment used in file urls.
func (d FileDescriptor) URLLocale() string {
	if d.IsMaster() {
		return d.SourceLocale
	}
	return d.Locale
}

// WithRemoteChecksum returns a copy of d with the remote checksum replaced.
func (d FileDescriptor) WithRemoteChecksum(sum Checksum) FileDescriptor {
	d.RemoteChecksum = sum
	return d
}

// WithLocalPath returns a copy of d pointing at another local path.
func (d FileDescriptor) WithLocalPath(path string) FileDescriptor {
	d.LocalPath = path
	return d
}

// WithFresh returns a copy of d with the fresh flag replaced.
func (d FileDescriptor) WithFresh(fresh bool) FileDescriptor {
	d.Fresh = fresh
	return d
}

// DisplayPath is the path as shown in sync output. Stale files are prefixed with '*'.
func (d FileDescriptor) DisplayPath() string {
	if d.Fresh {
		return d.LocalPath
	}
	return "*" + d.LocalPath
}
