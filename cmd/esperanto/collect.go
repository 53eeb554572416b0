package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jvdl/esperanto/internal/config"
	ignore "github.com/sabhiram/go-gitignore"
)

// collectJSFiles resolves path to the JavaScript/TypeScript files the deps
// command should analyze: path itself if it's already a source file, or
// every matching file under it (honoring .gitignore and the default config's
// analysis exclude patterns) if it's a directory.
func collectJSFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	excludePatterns := config.DefaultConfig().Analysis.ExcludePatterns

	if !info.IsDir() {
		if isJSFile(path) {
			return []string{path}, nil
		}
		return nil, nil
	}

	gi := loadGitIgnore(path)

	var files []string
	err = filepath.Walk(path, func(filePath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if gi != nil {
			relPath, relErr := filepath.Rel(path, filePath)
			if relErr == nil && gi.MatchesPath(relPath) {
				if info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if info.IsDir() {
			dirName := filepath.Base(filePath)
			for _, pattern := range excludePatterns {
				if pattern == dirName {
					return filepath.SkipDir
				}
				if matched, matchErr := filepath.Match(pattern, dirName); matchErr == nil && matched {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if isJSFile(filePath) && !isExcludedPath(filePath, excludePatterns) {
			files = append(files, filePath)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// isJSFile reports whether path has a JavaScript/TypeScript extension.
func isJSFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".ts", ".jsx", ".tsx", ".mjs", ".cjs", ".mts", ".cts":
		return true
	default:
		return false
	}
}

// isExcludedPath reports whether path's base name matches an exclude glob,
// or an exclude pattern appears literally in the full path.
func isExcludedPath(path string, excludePatterns []string) bool {
	baseName := filepath.Base(path)
	for _, pattern := range excludePatterns {
		if matched, err := filepath.Match(pattern, baseName); err == nil && matched {
			return true
		}
		if strings.Contains(path, pattern) {
			return true
		}
	}
	return false
}

// loadGitIgnore loads root/.gitignore, returning nil if absent or unreadable.
func loadGitIgnore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}
