// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package bundle resolves the Soy message bundle (translated strings) used
// when compiling a template for a locale.
package bundle

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

// Bundle is a translated message file for one locale. A nil *Bundle means
// "no bundle": templates compile with their source-language messages.
type Bundle struct {
	Locale language.Tag
	Path   string
}

// Resolver finds the bundle for a locale. language.Und and locales without
// translations both resolve to a nil bundle and a nil error.
type Resolver interface {
	Resolve(locale language.Tag) (*Bundle, error)
}

// Empty never resolves a bundle.
type Empty struct{}

// Resolve always returns nil.
func (Empty) Resolve(language.Tag) (*Bundle, error) {
	return nil, nil
}

// DefaultPrefix and DefaultExtension name message files like
// messages_pt_BR.xlf.
const (
	DefaultPrefix    = "messages"
	DefaultExtension = ".xlf"
)

// DirResolver looks up message files in a directory, named
// <prefix>_<locale><ext> with the locale written in underscore form
// (messages_pt_BR.xlf). A locale with no file of its own falls back to
// more general forms of itself, then optionally to English.
//
// Lookups are cached per locale unless HotReload is set.
type DirResolver struct {
	Dir               string
	Prefix            string
	Extension         string
	FallbackToEnglish bool
	HotReload         bool

	mu    sync.RWMutex
	cache map[language.Tag]*Bundle
}

// NewDirResolver creates a resolver over dir with the default prefix and
// extension.
func NewDirResolver(dir string, fallbackToEnglish, hotReload bool) *DirResolver {
	return &DirResolver{
		Dir:               dir,
		Prefix:            DefaultPrefix,
		Extension:         DefaultExtension,
		FallbackToEnglish: fallbackToEnglish,
		HotReload:         hotReload,
		cache:             make(map[language.Tag]*Bundle),
	}
}

// Resolve implements Resolver.
func (d *DirResolver) Resolve(locale language.Tag) (*Bundle, error) {
	if locale == language.Und {
		return nil, nil
	}

	if !d.HotReload {
		d.mu.RLock()
		b, ok := d.cache[locale]
		d.mu.RUnlock()
		if ok {
			return b, nil
		}
	}

	b, err := d.lookup(locale)
	if err != nil {
		return nil, err
	}

	if !d.HotReload {
		d.mu.Lock()
		if d.cache == nil {
			d.cache = make(map[language.Tag]*Bundle)
		}
		d.cache[locale] = b
		d.mu.Unlock()
	}
	return b, nil
}

func (d *DirResolver) lookup(locale language.Tag) (*Bundle, error) {
	candidates := fallbacks(locale)
	if d.FallbackToEnglish && !containsTag(candidates, language.English) {
		candidates = append(candidates, language.English)
	}

	for _, tag := range candidates {
		p := d.pathFor(tag)
		info, err := os.Stat(p)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("message bundle %s: %w", p, err)
		}
		if info.IsDir() {
			continue
		}
		slog.Debug("message bundle resolved", "locale", locale.String(), "path", p)
		return &Bundle{Locale: tag, Path: p}, nil
	}

	slog.Debug("no message bundle for locale", "locale", locale.String())
	return nil, nil
}

func (d *DirResolver) pathFor(tag language.Tag) string {
	prefix := d.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	ext := d.Extension
	if ext == "" {
		ext = DefaultExtension
	}
	return filepath.Join(d.Dir, prefix+"_"+FileLocale(tag)+ext)
}

// FileLocale writes a tag in the underscore form used by message file names
// and the Soy compiler (pt-BR becomes pt_BR).
func FileLocale(tag language.Tag) string {
	return strings.ReplaceAll(tag.String(), "-", "_")
}

// fallbacks returns the tags that can stand in for tag, ordered from most
// to least specific: the tag with its variants (ca-ES-valencia), then
// language-script-region, language-script, language. Only the parts present
// in the original tag are used; extensions are ignored.
func fallbacks(tag language.Tag) []language.Tag {
	lang, script, region := tag.Raw()
	var result []language.Tag
	add := func(t language.Tag, err error) {
		if err == nil && !containsTag(result, t) {
			result = append(result, t)
		}
	}

	// Raw reports ZZ and Zzzz for missing region and script.
	hasRegion := region.String() != "ZZ"
	hasScript := script.String() != "Zzzz"

	if variants := tag.Variants(); len(variants) > 0 {
		parts := []interface{}{lang}
		if hasScript {
			parts = append(parts, script)
		}
		if hasRegion {
			parts = append(parts, region)
		}
		for _, v := range variants {
			parts = append(parts, v)
		}
		add(language.Compose(parts...))
	}

	switch {
	case hasScript && hasRegion:
		add(language.Compose(lang, script, region))
		add(language.Compose(lang, script))
	case hasScript:
		add(language.Compose(lang, script))
	case hasRegion:
		add(language.Compose(lang, region))
	}
	add(language.Compose(lang))
	return result
}

func containsTag(tags []language.Tag, t language.Tag) bool {
	for _, existing := range tags {
		if existing == t {
			return true
		}
	}
	return false
}
