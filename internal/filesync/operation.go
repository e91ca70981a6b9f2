package filesync

import (
	"fmt"
	"net/url"
)

// OpKind is one of the four network operations.
type OpKind string

const (
	OpFetch  OpKind = "Fetch"
	OpUpload OpKind = "Upload"
	OpCreate OpKind = "Create"
	OpDelete OpKind = "Delete"
)

const (
	fileLocalePathFmt = "/api/projects/%s/files/%s/locales/%s"
	filesPathFmt      = "/api/projects/%s/files"
	filePathFmt       = "/api/projects/%s/files/%s"
)

// Multipart option names understood by the api. Values are sent verbatim.
const (
	ParamMerge         = "merge"
	ParamIgnoreMissing = "ignore_missing"
	ParamLabel         = "label"
	ParamLowPriority   = "low_priority"
	ParamMinorChanges  = "minor_changes"
	ParamName          = "name"
	ParamRenameOthers  = "rename_others"
)

// Operation is a request to run one OpKind against one descriptor.
type Operation struct {
	Kind       OpKind
	Descriptor FileDescriptor
	Force      bool              // bypass the checksum gate for Fetch and Upload
	Params     map[string]string // multipart options for Upload and Create
}

// gated reports whether the operation is skipped when checksums match.
func (op Operation) gated() bool {
	return op.Kind == OpFetch || op.Kind == OpUpload
}

// FileLocaleURL is the Fetch/Upload target of d.
func FileLocaleURL(d FileDescriptor) string {
	return fmt.Sprintf(fileLocalePathFmt, url.PathEscape(d.ProjectKey), url.PathEscape(d.ID), url.PathEscape(d.URLLocale()))
}

// FilesURL is the Create target of a project.
func FilesURL(projectKey string) string {
	return fmt.Sprintf(filesPathFmt, url.PathEscape(projectKey))
}

// FileURL is the Delete target of d.
func FileURL(d FileDescriptor) string {
	return fmt.Sprintf(filePathFmt, url.PathEscape(d.ProjectKey), url.PathEscape(d.ID))
}
