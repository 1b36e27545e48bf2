package platform

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// MaxFilenameLength bounds sanitized display filenames (before extension).
const MaxFilenameLength = 100

// File extensions left behind by interrupted yt-dlp runs; never served as
// final artifacts.
var (
	SkippedExtensions = []string{".part", ".ytdl"}
)

// Characters illegal in filenames on common filesystems
const illegalFilenameChars = `<>:"/\|?*`

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// FindFileByPrefix returns the path of the first regular file in dir whose
// name starts with prefix, skipping partial-download leftovers. Returns ""
// when no artifact is found.
func FindFileByPrefix(dir, prefix string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		if isSkippedExtension(entry.Name()) {
			continue
		}
		return filepath.Join(dir, entry.Name())
	}
	return ""
}

// RemoveFilesByPrefix deletes every file in dir whose name starts with
// prefix, including partial-download leftovers. Deletion errors are
// swallowed; cleanup is best effort.
func RemoveFilesByPrefix(dir, prefix string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		_ = os.Remove(filepath.Join(dir, entry.Name()))
	}
}

// RemoveFilesOlderThan deletes regular files in dir whose modification time
// is older than maxAge. It returns the paths it failed to delete.
func RemoveFilesOlderThan(dir string, maxAge time.Duration, now time.Time) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var failed []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) <= maxAge {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			failed = append(failed, path)
		}
	}
	return failed
}

// SanitizeFilename strips characters illegal in file names and truncates the
// result to MaxFilenameLength runes.
func SanitizeFilename(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(illegalFilenameChars, r) {
			return -1
		}
		return r
	}, name)

	runes := []rune(cleaned)
	if len(runes) > MaxFilenameLength {
		return string(runes[:MaxFilenameLength])
	}
	return cleaned
}

func isSkippedExtension(name string) bool {
	for _, ext := range SkippedExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
