// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package soyjs serves Soy templates compiled to JavaScript. It resolves a
// template name to a file, returns the cached compilation when there is
// one, and otherwise compiles the file for the request's locale and caches
// the result for the life of the process. Debug mode bypasses caching so
// every request sees the templates currently on disk.
package soyjs

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/cespare/xxhash/v2"

	"soyview/internal/bundle"
	"soyview/internal/compile"
	"soyview/internal/locale"
	"soyview/internal/template"
)

// DefaultCacheControl is sent with compiled templates outside debug mode.
const DefaultCacheControl = "public, max-age=3600"

// ContentType is the media type of compiled templates.
const ContentType = "text/javascript"

// Store is an optional second-level cache shared between processes.
// Get reports a miss as ok == false with a nil error. Keys name a template
// file and a digest of its contents, so a process started after an edit
// never reads output compiled from the old source.
type Store interface {
	Get(ctx context.Context, key string) (src string, ok bool, err error)
	PutIfAbsent(ctx context.Context, key, src string) error
}

// Options configures a Service. Nil collaborators are replaced with their
// Empty implementations, which resolve and compile nothing.
type Options struct {
	CacheControl string // default DefaultCacheControl
	Debug        bool

	Files    template.FilesResolver
	Compiler compile.Compiler
	Bundles  bundle.Resolver
	Locales  locale.Provider

	Store Store // optional L2; nil disables it
}

// Result is a successful response: status, headers and the compiled source.
type Result struct {
	Status int
	Header http.Header
	Source string
}

// Service compiles and caches templates. It is safe for concurrent use.
type Service struct {
	cacheControl string
	debug        bool

	files    template.FilesResolver
	compiler compile.Compiler
	bundles  bundle.Resolver
	locales  locale.Provider
	store    Store

	cache *scriptCache
}

// New creates a Service with an empty cache.
func New(opts Options) *Service {
	s := &Service{
		cacheControl: opts.CacheControl,
		debug:        opts.Debug,
		files:        opts.Files,
		compiler:     opts.Compiler,
		bundles:      opts.Bundles,
		locales:      opts.Locales,
		store:        opts.Store,
		cache:        newScriptCache(),
	}
	if s.cacheControl == "" {
		s.cacheControl = DefaultCacheControl
	}
	if s.files == nil {
		s.files = template.Empty{}
	}
	if s.compiler == nil {
		s.compiler = compile.Empty{}
	}
	if s.bundles == nil {
		s.bundles = bundle.Empty{}
	}
	if s.locales == nil {
		s.locales = locale.Empty{}
	}
	return s
}

// Debug reports whether caching is disabled.
func (s *Service) Debug() bool {
	return s.debug
}

// Len reports how many compiled templates are cached in memory.
func (s *Service) Len() int {
	if s.cache == nil {
		return 0
	}
	return s.cache.len()
}

// CompiledTemplate returns the compiled JavaScript for the named template.
// A name that resolves to no file, or a file that compiles to nothing,
// yields a *NotFoundError. Resolver and compiler failures are returned
// wrapped.
func (s *Service) CompiledTemplate(ctx context.Context, name string, r *http.Request) (*Result, error) {
	if s.files == nil || s.cache == nil {
		return nil, fmt.Errorf("%w: files resolver", ErrMisconfigured)
	}

	file, ok, err := s.files.Resolve(name)
	if err != nil {
		return nil, fmt.Errorf("resolve template %q: %w", name, err)
	}
	if !ok {
		return nil, notFound("File not found: " + name + ".soy")
	}

	var key string
	if !s.debug {
		if src, ok := s.cache.get(file); ok {
			slog.Debug("returning cached compiled template", "file", file.Path)
			return s.result(src), nil
		}
		key = s.storeKey(file)
		if src, ok := s.fromStore(ctx, key); ok {
			src, _ = s.cache.putIfAbsent(file, src)
			return s.result(src), nil
		}
	}

	slog.Debug("compiling template", "file", file.Path, "debug", s.debug)
	src, err := s.compile(ctx, file, r)
	if err != nil {
		return nil, err
	}

	if !s.debug {
		s.cache.putIfAbsent(file, src)
		s.toStore(ctx, key, src)
	}

	return s.result(src), nil
}

// compile resolves locale and bundle and returns the first compiled source.
func (s *Service) compile(ctx context.Context, file template.File, r *http.Request) (string, error) {
	if s.locales == nil || s.bundles == nil || s.compiler == nil {
		return "", fmt.Errorf("%w: locale provider, bundle resolver or compiler", ErrMisconfigured)
	}

	loc := s.locales.Locale(r)
	b, err := s.bundles.Resolve(loc)
	if err != nil {
		return "", fmt.Errorf("resolve message bundle for %s: %w", loc, err)
	}

	sources, err := s.compiler.CompileToJS(ctx, file, b)
	if err != nil {
		return "", fmt.Errorf("compile %s: %w", file.Path, err)
	}
	if len(sources) == 0 {
		return "", notFound("No compiled templates found!")
	}
	return sources[0], nil
}

// storeKey returns the L2 key for file: its path plus an xxhash digest of
// the current contents. It returns "" when there is no store or the file
// cannot be read, which skips the L2 for this request.
func (s *Service) storeKey(file template.File) string {
	if s.store == nil {
		return ""
	}
	data, err := os.ReadFile(file.Path)
	if err != nil {
		slog.Warn("compiled template store skipped, source unreadable", "file", file.Path, "error", err)
		return ""
	}
	return StoreKey(file, data)
}

// StoreKey builds the L2 key for a template file with the given contents.
func StoreKey(file template.File, contents []byte) string {
	return fmt.Sprintf("%s@%016x", file.Path, xxhash.Sum64(contents))
}

// fromStore consults the L2 store. Store errors are logged and treated as
// a miss.
func (s *Service) fromStore(ctx context.Context, key string) (string, bool) {
	if key == "" {
		return "", false
	}
	src, ok, err := s.store.Get(ctx, key)
	if err != nil {
		slog.Warn("compiled template store get failed", "key", key, "error", err)
		return "", false
	}
	if ok {
		slog.Debug("returning compiled template from store", "key", key)
	}
	return src, ok
}

func (s *Service) toStore(ctx context.Context, key, src string) {
	if key == "" {
		return
	}
	if err := s.store.PutIfAbsent(ctx, key, src); err != nil {
		slog.Warn("compiled template store put failed", "key", key, "error", err)
	}
}

// result builds the 200 response for a compiled source.
func (s *Service) result(src string) *Result {
	h := make(http.Header)
	h.Set("Content-Type", ContentType)
	if s.debug {
		h.Set("Cache-Control", "no-cache")
	} else {
		h.Set("Cache-Control", s.cacheControl)
	}
	return &Result{Status: http.StatusOK, Header: h, Source: src}
}
