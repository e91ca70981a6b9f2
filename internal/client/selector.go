package client

import (
	"bufio"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	mapset "github.com/deckarep/golang-set/v2"
	gitignore "github.com/sabhiram/go-gitignore"
	"github.com/transync/transync/internal/client/config"
	"github.com/transync/transync/internal/client/workspace"
	"github.com/transync/transync/internal/utils"
)

const ignoreFileName = ".transyncignore"

var defaultIgnoreLines = []string{
	".transync/",
	ignoreFileName,
	config.DefaultFileName,
	"*.tmp.*",
	".git",
	".DS_Store",
	"Thumbs.db",
}

// FileSelector decides which project files a command touches.
type FileSelector struct {
	patterns       []string
	ignoreFiles    []string
	ignore         *gitignore.GitIgnore
	neededLocales  mapset.Set[string]
	ignoredLocales mapset.Set[string]
}

func NewFileSelector(cfg *config.Config) *FileSelector {
	return &FileSelector{
		ignoreFiles:    cfg.IgnoreFiles,
		ignore:         gitignore.CompileIgnoreLines(defaultIgnoreLines...),
		neededLocales:  mapset.NewSet(cfg.NeededLocales...),
		ignoredLocales: mapset.NewSet(cfg.IgnoreLocales...),
	}
}

// LoadIgnoreFile adds the gitignore style rules of <dir>/.transyncignore, if present.
func (s *FileSelector) LoadIgnoreFile(dir string) {
	ignorePath := filepath.Join(dir, ignoreFileName)
	ignoreLines := append([]string{}, defaultIgnoreLines...)

	if utils.FileExists(ignorePath) {
		file, err := os.Open(ignorePath)
		if err != nil {
			slog.Warn("failed to open ignore file", "path", ignorePath, "error", err)
			return
		}
		defer file.Close()

		rules := 0
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line != "" && !strings.HasPrefix(line, "#") {
				ignoreLines = append(ignoreLines, line)
				rules++
			}
		}

		if err := scanner.Err(); err != nil {
			slog.Warn("failed to read ignore file", "path", ignorePath, "error", err)
		} else {
			slog.Debug("loaded ignore file", "path", ignorePath, "rules", rules)
		}
	}

	s.ignore = gitignore.CompileIgnoreLines(ignoreLines...)
}

// WithPatterns returns a copy restricted to paths matching any of patterns.
// Patterns are doublestar globs or directory prefixes.
func (s *FileSelector) WithPatterns(patterns ...string) *FileSelector {
	cp := *s
	cp.patterns = make([]string, 0, len(patterns))
	for _, p := range patterns {
		cp.patterns = append(cp.patterns, workspace.NormPath(p))
	}
	return &cp
}

// WithLocales returns a copy that only keeps the given target locales.
// An empty list keeps the configured needed locales.
func (s *FileSelector) WithLocales(locales ...string) *FileSelector {
	if len(locales) == 0 {
		return s
	}
	cp := *s
	cp.neededLocales = mapset.NewSet(locales...)
	return &cp
}

// MatchPath reports whether the project relative path is selected.
func (s *FileSelector) MatchPath(relPath string) bool {
	relPath = workspace.NormPath(relPath)

	if workspace.IsMetadataPath(relPath) {
		return false
	}
	if s.ignore != nil && s.ignore.MatchesPath(relPath) {
		return false
	}

	for _, pattern := range s.ignoreFiles {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return false
		}
	}

	if len(s.patterns) == 0 {
		return true
	}

	for _, pattern := range s.patterns {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
		if strings.HasPrefix(relPath, strings.TrimSuffix(pattern, "/")+"/") {
			return true
		}
	}
	return false
}

// MatchLocale reports whether a target locale is selected. Master files have no
// locale and always match.
func (s *FileSelector) MatchLocale(locale string) bool {
	if locale == "" {
		return true
	}
	if s.ignoredLocales.Contains(locale) {
		return false
	}
	if s.neededLocales.Cardinality() > 0 {
		return s.neededLocales.Contains(locale)
	}
	return true
}

func (s *FileSelector) Match(relPath, locale string) bool {
	return s.MatchLocale(locale) && s.MatchPath(relPath)
}
