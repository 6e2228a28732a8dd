// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package template

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Extension is the file extension of Soy template files.
const Extension = ".soy"

// DirResolver resolves template names against a directory tree of .soy
// files. A template can be requested by its base name ("menu") or by its
// slash-separated path relative to the root ("admin/menu"). When two files
// share a base name, the first one in lexical walk order wins the short
// name; both remain reachable by relative path.
//
// The file index is built on first use and reused until Refresh is called.
// In hot-reload mode the tree is rescanned on every Resolve.
type DirResolver struct {
	root      string
	hotReload bool

	mu    sync.RWMutex
	index map[string]File // nil until the first scan
}

// NewDirResolver creates a resolver rooted at dir. The directory must exist.
func NewDirResolver(dir string, hotReload bool) (*DirResolver, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("templates dir: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("templates dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("templates dir: %s is not a directory", root)
	}
	return &DirResolver{root: root, hotReload: hotReload}, nil
}

// Root returns the absolute templates directory.
func (d *DirResolver) Root() string {
	return d.root
}

// Resolve looks up name in the index. Names that are empty, absolute, or
// that try to climb out of the root never resolve.
func (d *DirResolver) Resolve(name string) (File, bool, error) {
	key, valid := cleanName(name)
	if !valid {
		return File{}, false, nil
	}

	index, err := d.currentIndex()
	if err != nil {
		return File{}, false, err
	}
	f, ok := index[key]
	return f, ok, nil
}

// Refresh drops the index so the next Resolve rescans the tree.
func (d *DirResolver) Refresh() {
	d.mu.Lock()
	d.index = nil
	d.mu.Unlock()
	slog.Debug("template index cleared", "root", d.root)
}

func (d *DirResolver) currentIndex() (map[string]File, error) {
	if d.hotReload {
		return d.scan()
	}

	d.mu.RLock()
	index := d.index
	d.mu.RUnlock()
	if index != nil {
		return index, nil
	}

	index, err := d.scan()
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	d.index = index
	d.mu.Unlock()
	return index, nil
}

// scan walks the root and indexes every .soy file by relative path and by
// base name.
func (d *DirResolver) scan() (map[string]File, error) {
	index := make(map[string]File)
	err := filepath.WalkDir(d.root, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Extension) {
			return nil
		}
		rel, err := filepath.Rel(d.root, p)
		if err != nil {
			return err
		}
		f := File{Path: p}
		index[strings.TrimSuffix(filepath.ToSlash(rel), Extension)] = f
		base := strings.TrimSuffix(entry.Name(), Extension)
		if _, taken := index[base]; !taken {
			index[base] = f
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan templates dir %s: %w", d.root, err)
	}
	slog.Debug("template index built", "root", d.root, "entries", len(index))
	return index, nil
}

// cleanName normalizes a requested name into an index key.
func cleanName(name string) (string, bool) {
	if name == "" || strings.ContainsRune(name, '\\') || strings.HasPrefix(name, "/") {
		return "", false
	}
	name = strings.TrimSuffix(name, Extension)
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return "", false
		}
	}
	cleaned := path.Clean(name)
	if cleaned == "." {
		return "", false
	}
	return cleaned, true
}

// Watch refreshes the index whenever .soy files or directories are created,
// removed or renamed under the root. It blocks until ctx is done. Content
// edits do not touch the index; compiled output is governed by debug mode.
func (d *DirResolver) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("template watcher: %w", err)
	}
	defer watcher.Close()

	err = filepath.WalkDir(d.root, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return watcher.Add(p)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("template watcher: %w", err)
	}
	slog.Info("watching templates", "root", d.root)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := watcher.Add(ev.Name); err != nil {
						slog.Warn("template watcher add failed", "path", ev.Name, "error", err)
					}
				}
			}
			slog.Debug("template tree changed", "event", ev.String())
			d.Refresh()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("template watcher error", "error", err)
		}
	}
}
