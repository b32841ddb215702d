package markdown

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// LoaderConfig configures how seed documents are discovered.
type LoaderConfig struct {
	// Pattern limits discovered files (defaults to "*.md").
	Pattern   string
	Recursive bool
}

// Loader reads seed documents from a filesystem.
type Loader struct {
	fs        fs.FS
	pattern   string
	recursive bool
}

func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	pattern := cfg.Pattern
	if strings.TrimSpace(pattern) == "" {
		pattern = "*.md"
	}
	return &Loader{fs: filesystem, pattern: pattern, recursive: cfg.Recursive}
}

// LoadFile reads and parses a single document.
func (l *Loader) LoadFile(ctx context.Context, name string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name = path.Clean(name)
	data, err := fs.ReadFile(l.fs, name)
	if err != nil {
		return nil, fmt.Errorf("markdown loader read %s: %w", name, err)
	}
	info, err := fs.Stat(l.fs, name)
	if err != nil {
		return nil, fmt.Errorf("markdown loader stat %s: %w", name, err)
	}
	return ParseDocument(name, data, info.ModTime())
}

// LoadDirectory parses every matching file under dir, sorted by path. Parse
// failures are collected per file so one broken document does not hide the
// rest.
func (l *Loader) LoadDirectory(ctx context.Context, dir string) ([]*Document, map[string]error, error) {
	root := path.Clean(dir)
	var docs []*Document
	failures := map[string]error{}

	walkErr := fs.WalkDir(l.fs, root, func(current string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if current != root && !l.recursive {
				return fs.SkipDir
			}
			return nil
		}
		if !l.matches(current) {
			return nil
		}
		doc, err := l.LoadFile(ctx, current)
		if err != nil {
			failures[current] = err
			return nil
		}
		docs = append(docs, doc)
		return nil
	})
	if walkErr != nil {
		return nil, nil, walkErr
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, failures, nil
}

func (l *Loader) matches(name string) bool {
	target := path.Base(name)
	if strings.Contains(l.pattern, "/") {
		target = name
	}
	ok, err := path.Match(l.pattern, target)
	return err == nil && ok
}
