// pkg/utils/paths.go - utility functions for working with Windows file paths.
//
// These helpers operate on Windows path syntax regardless of the host OS, so
// registry-sourced locations are handled identically everywhere.

package utils

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const separators = `\/`

// NormalizeWindowsPath converts forward slashes to backslashes and collapses
// repeated separators, keeping a leading UNC prefix intact.
func NormalizeWindowsPath(path string) string {
	normalized := strings.ReplaceAll(path, "/", `\`)

	prefix := ""
	if strings.HasPrefix(normalized, `\\`) {
		prefix = `\\`
		normalized = strings.TrimLeft(normalized, `\`)
	}
	for strings.Contains(normalized, `\\`) {
		normalized = strings.ReplaceAll(normalized, `\\`, `\`)
	}
	return prefix + normalized
}

// TrimSeparators removes trailing path separators.
func TrimSeparators(path string) string {
	return strings.TrimRight(path, separators)
}

// BaseName returns the last element of a Windows path.
func BaseName(path string) string {
	path = TrimSeparators(path)
	if i := strings.LastIndexAny(path, separators); i >= 0 {
		return path[i+1:]
	}
	return path
}

// ParentDir returns the path without its last element, without a trailing separator.
// A path with a single element has no parent and yields "".
func ParentDir(path string) string {
	path = TrimSeparators(path)
	i := strings.LastIndexAny(path, separators)
	if i < 0 {
		return ""
	}
	return TrimSeparators(path[:i])
}

// Ext returns the lower-cased extension of the last path element, including the dot.
func Ext(path string) string {
	base := BaseName(path)
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		return strings.ToLower(base[i:])
	}
	return ""
}

// Stem returns the last path element without its extension.
func Stem(path string) string {
	base := BaseName(path)
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		return base[:i]
	}
	return base
}

// IsVolumeRoot reports whether path is a bare drive such as "e:" or "e:\".
func IsVolumeRoot(path string) bool {
	p := TrimSeparators(path)
	return len(p) == 2 && p[1] == ':' && isLetter(p[0])
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// FoldPath returns the canonical form of a directory: separators normalized,
// trailing separators trimmed and the whole path lower-cased. The result
// still names the same directory, so it must not use full case folding
// (which turns "ß" into "ss").
func FoldPath(path string) string {
	// A Caser carries state and must not be shared between goroutines.
	return cases.Lower(language.Und).String(TrimSeparators(NormalizeWindowsPath(path)))
}
