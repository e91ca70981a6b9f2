package syncsdk

import (
	"strconv"
	"time"
)

// Locale is a language configured on a project.
type Locale struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// ProjectFile is one file of a project as listed by the api.
type ProjectFile struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name"`
	LocaleCode          string    `json:"locale_code"`
	HashFile            string    `json:"hash_file"`
	MasterProjectFileID *int64    `json:"master_project_file_id"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// IsMaster reports whether the file is a source-language file.
func (f *ProjectFile) IsMaster() bool {
	return f.MasterProjectFileID == nil
}

// IDString returns the id as used in urls.
func (f *ProjectFile) IDString() string {
	return strconv.FormatInt(f.ID, 10)
}

// Project is the listing returned by GET /api/projects/{projectKey}.
type Project struct {
	ID            int64         `json:"id"`
	Name          string        `json:"name"`
	SourceLocale  Locale        `json:"source_locale"`
	TargetLocales []Locale      `json:"target_locales"`
	Files         []ProjectFile `json:"project_files"`
}

type projectEnvelope struct {
	Project *Project `json:"project"`
}
