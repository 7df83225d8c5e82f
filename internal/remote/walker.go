package remote

import (
	"context"
	"os"
	"strings"

	"github.com/romferry/romferry/internal/constants"
	"github.com/romferry/romferry/internal/pathutil"
)

// Lister abstracts directory reading so walks can run against a fake
// tree in tests. *sftp.Client and *Client both satisfy it.
type Lister interface {
	ReadDir(path string) ([]os.FileInfo, error)
}

// Visit is one step of a walk: a directory together with the names of
// its immediate children, split by type. Symlinks appear in neither
// list. When the directory could not be read, Err is set and both lists
// are empty; the subtree below it is abandoned.
type Visit struct {
	Path  string
	Dirs  []string
	Files []string
	Err   error
}

// Walker traverses a remote tree depth-first in pre-order, one
// directory per Next call. The traversal is lazy: directories are read
// only as the walk reaches them, so an abandoned walk costs nothing
// beyond the directories already visited. The explicit stack keeps
// arbitrarily deep trees from consuming call stack.
type Walker struct {
	lister Lister
	stack  []string
}

// NewWalker creates a walker rooted at top.
func NewWalker(lister Lister, top string) *Walker {
	return &Walker{
		lister: lister,
		stack:  []string{top},
	}
}

// Next returns the next directory in pre-order, preserving the server's
// listing order among siblings. The second return value is false once
// the walk is exhausted. A Visit with Err set counts as a step: the
// failed directory's subtree is skipped while pending siblings continue.
func (w *Walker) Next() (Visit, bool) {
	if len(w.stack) == 0 {
		return Visit{}, false
	}

	n := len(w.stack) - 1
	dir := w.stack[n]
	w.stack = w.stack[:n]

	entries, err := w.lister.ReadDir(dir)
	if err != nil {
		return Visit{Path: dir, Err: err}, true
	}

	v := Visit{Path: dir}
	for _, e := range entries {
		if e.Mode()&os.ModeSymlink != 0 {
			// Skipped entirely so cyclic link structures terminate
			continue
		}
		if e.IsDir() {
			v.Dirs = append(v.Dirs, e.Name())
		} else {
			v.Files = append(v.Files, e.Name())
		}
	}

	// Push subdirectories in reverse so the first-listed child is the
	// next directory popped
	for i := len(v.Dirs) - 1; i >= 0; i-- {
		w.stack = append(w.stack, pathutil.RemoteJoin(dir, v.Dirs[i]))
	}

	return v, true
}

// Search walks baseDir and returns the absolute remote paths of files
// whose names contain the query, case-insensitively, in discovery order.
// Directory names never match. A blank or whitespace-only query returns
// nothing without touching the server. The walk stops as soon as limit
// matches are collected; limit <= 0 means the default cap. Listing
// failures along the way are reported through onError (which may be
// nil) and do not stop the search. Context cancellation is honored
// between directory steps and returns whatever was collected so far.
func Search(ctx context.Context, lister Lister, baseDir, query string, limit int, onError func(path string, err error)) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	if limit <= 0 {
		limit = constants.MaxSearchResults
	}

	var results []string
	w := NewWalker(lister, baseDir)
	for {
		if ctx.Err() != nil {
			return results
		}
		v, ok := w.Next()
		if !ok {
			return results
		}
		if v.Err != nil {
			if onError != nil {
				onError(v.Path, v.Err)
			}
			continue
		}
		for _, name := range v.Files {
			if strings.Contains(strings.ToLower(name), q) {
				results = append(results, pathutil.RemoteJoin(v.Path, name))
				if len(results) >= limit {
					return results
				}
			}
		}
	}
}
