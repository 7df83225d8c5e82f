// Package pathutil provides path resolution utilities shared by the TUI
// and the headless CLI. Remote paths are always POSIX style regardless of
// the local platform; local paths follow the host filesystem.
package pathutil

import (
	"errors"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrUnsafePath is returned when a remote-relative path would escape the
// destination root after cleaning.
var ErrUnsafePath = errors.New("path escapes destination root")

// ResolveAbsolutePath converts a relative path to an absolute path.
// Resolves symlinks/junctions in the EXISTING portion of the path, then
// appends any non-existent components. This handles the case where user
// folders (like Downloads) are junction points but the target subdirectory
// doesn't exist yet.
func ResolveAbsolutePath(path string) (string, error) {
	if path == "" {
		return os.Getwd()
	}

	// Expand ~ to home directory
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = home + path[1:]
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	// Try to resolve the full path first (fast path if it exists)
	resolved, err := filepath.EvalSymlinks(absPath)
	if err == nil {
		return resolved, nil
	}

	// Path doesn't fully exist - find the deepest existing ancestor
	// and resolve junctions there, then append the rest
	current := absPath
	var remainder []string

	for {
		if _, err := os.Stat(current); err == nil {
			// Found an existing directory - resolve it
			resolved, err := filepath.EvalSymlinks(current)
			if err != nil {
				resolved = current // fallback if resolution fails
			}
			// Append the non-existent remainder
			if len(remainder) > 0 {
				// Reverse remainder (we collected bottom-up)
				for i := len(remainder) - 1; i >= 0; i-- {
					resolved = filepath.Join(resolved, remainder[i])
				}
			}
			return resolved, nil
		}

		// Move up one directory
		parent := filepath.Dir(current)
		if parent == current {
			// Reached root without finding existing dir
			return absPath, nil
		}
		remainder = append(remainder, filepath.Base(current))
		current = parent
	}
}

// RemoteJoin joins remote path segments with forward slashes and cleans
// the result. Remote servers speak POSIX paths even when the client runs
// on Windows.
func RemoteJoin(parts ...string) string {
	return path.Join(parts...)
}

// RelativeTo returns child expressed relative to root, both POSIX paths.
// The second return value is false when child does not live under root.
func RelativeTo(root, child string) (string, bool) {
	root = path.Clean(root)
	child = path.Clean(child)

	if child == root {
		return ".", true
	}
	if root == "/" {
		return strings.TrimPrefix(child, "/"), true
	}
	if strings.HasPrefix(child, root+"/") {
		return child[len(root)+1:], true
	}
	return "", false
}

// SafeLocalPath maps a remote-relative label onto the local destination
// tree: <destRoot>/<platform>/<rel>. The relative part is cleaned and
// rejected if it would climb out of the destination root, since remote
// entry names are untrusted input.
func SafeLocalPath(destRoot, platform, rel string) (string, error) {
	rel = strings.TrimPrefix(rel, "/")
	clean := path.Clean(rel)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrUnsafePath
	}
	if clean == "." {
		return "", ErrUnsafePath
	}
	return filepath.Join(destRoot, platform, filepath.FromSlash(clean)), nil
}
