package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"kiln/internal/sockpath"
)

// Layout describes the on-disk shape of a kiln workspace. The root is always
// explicit; nothing here consults process-wide state.
type Layout struct {
	Root string
}

// New returns the layout for a workspace root, resolving it to an absolute
// path.
func New(root string) (Layout, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return Layout{}, fmt.Errorf("resolve workspace root %s: %w", root, err)
	}
	return Layout{Root: abs}, nil
}

// Dir returns the hidden kiln directory under the workspace root.
func (l Layout) Dir() string {
	return filepath.Join(l.Root, sockpath.WorkspaceDirName)
}

// SockDir holds per-service sockets and launch locks.
func (l Layout) SockDir() string {
	return filepath.Join(l.Dir(), "sock")
}

// HistoryDBPath locates the invocation ledger database.
func (l Layout) HistoryDBPath() string {
	return filepath.Join(l.Dir(), "history.db")
}

// Ensure creates the workspace directory tree.
func (l Layout) Ensure() error {
	for _, dir := range []string{l.Dir(), l.SockDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create workspace directory %s: %w", dir, err)
		}
	}
	return nil
}

// ExpandSources resolves glob patterns relative to the workspace root into a
// sorted, de-duplicated list of source files.
func (l Layout) ExpandSources(globs []string) ([]string, error) {
	seen := map[string]struct{}{}
	var sources []string
	for _, pattern := range globs {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(l.Root, pattern)
		}
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad source glob %q: %w", pattern, err)
		}
		for _, match := range matches {
			if _, ok := seen[match]; ok {
				continue
			}
			seen[match] = struct{}{}
			sources = append(sources, match)
		}
	}
	sort.Strings(sources)
	return sources, nil
}
