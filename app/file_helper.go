package app

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/ludo-technologies/codopsy/internal/constants"
)

// ignoreFile is a compiled .gitignore and the directory it applies to
type ignoreFile struct {
	dir     string
	matcher *ignore.GitIgnore
}

func (f ignoreFile) matches(path string, isDir bool) bool {
	rel, err := filepath.Rel(f.dir, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	rel = filepath.ToSlash(rel)
	if isDir {
		return f.matcher.MatchesPath(rel) || f.matcher.MatchesPath(rel+"/")
	}
	return f.matcher.MatchesPath(rel)
}

// FileHelper provides file operation utilities
type FileHelper struct{}

// NewFileHelper creates a new FileHelper
func NewFileHelper() *FileHelper {
	return &FileHelper{}
}

// CollectSourceFiles walks targetDir for .ts, .tsx, .js and .jsx files.
// node_modules and dist directories and .d.ts declarations are skipped, as is
// anything ignored by a .gitignore in targetDir or one of its ancestors. The
// result is sorted absolute paths.
func (h *FileHelper) CollectSourceFiles(targetDir string) ([]string, error) {
	root, err := filepath.Abs(targetDir)
	if err != nil {
		return nil, err
	}
	ignores := loadIgnoreFiles(root)

	files := []string{}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			if isSkippedDirectory(d.Name()) || isIgnored(ignores, path, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if IsSourceFile(path) && !isIgnored(ignores, path, false) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// IsSourceFile reports whether path is an analyzable source file
func IsSourceFile(path string) bool {
	if strings.HasSuffix(path, constants.DeclarationSuffix) {
		return false
	}
	ext := filepath.Ext(path)
	for _, e := range constants.SourceExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// FilterSourceFiles keeps the analyzable files of paths that lie inside
// targetDir, in sorted order
func (h *FileHelper) FilterSourceFiles(targetDir string, paths []string) []string {
	root, err := filepath.Abs(targetDir)
	if err != nil {
		return []string{}
	}
	ignores := loadIgnoreFiles(root)

	files := []string{}
	for _, path := range paths {
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		if !IsSourceFile(path) || inSkippedDirectory(rel) || isIgnored(ignores, path, false) {
			continue
		}
		files = append(files, path)
	}
	sort.Strings(files)
	return files
}

// DirectoryExists checks if path exists and is a directory
func (h *FileHelper) DirectoryExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isSkippedDirectory(name string) bool {
	for _, skipped := range constants.SkippedDirectories {
		if name == skipped {
			return true
		}
	}
	return false
}

func inSkippedDirectory(rel string) bool {
	parts := strings.Split(filepath.ToSlash(filepath.Dir(rel)), "/")
	for _, part := range parts {
		if isSkippedDirectory(part) {
			return true
		}
	}
	return false
}

// loadIgnoreFiles compiles the .gitignore of dir and of every ancestor
func loadIgnoreFiles(dir string) []ignoreFile {
	var files []ignoreFile
	current := dir
	for {
		path := filepath.Join(current, ".gitignore")
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			if matcher, err := ignore.CompileIgnoreFile(path); err == nil {
				files = append(files, ignoreFile{dir: current, matcher: matcher})
			}
		}
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}
	return files
}

func isIgnored(files []ignoreFile, path string, isDir bool) bool {
	for _, f := range files {
		if f.matches(path, isDir) {
			return true
		}
	}
	return false
}
