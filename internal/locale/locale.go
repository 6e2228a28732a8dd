// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package locale derives the locale of an incoming request. Locales are
// x/text language tags; language.Und means "no locale", which is a valid
// outcome and not an error.
package locale

import (
	"log/slog"
	"net/http"
	"sync"

	"golang.org/x/text/language"
)

// Provider derives a request's locale. It returns language.Und when no
// locale can be determined.
type Provider interface {
	Locale(r *http.Request) language.Tag
}

// Empty never yields a locale.
type Empty struct{}

// Locale always returns language.Und.
func (Empty) Locale(*http.Request) language.Tag {
	return language.Und
}

// Fixed yields the same locale for every request.
type Fixed language.Tag

// Locale returns the fixed tag.
func (f Fixed) Locale(*http.Request) language.Tag {
	return language.Tag(f)
}

// AcceptHeader derives the locale from the Accept-Language header.
//
// With no Supported list the highest-weighted tag is used as sent by the
// client. With a Supported list the header is matched against it and the
// closest supported tag is used. Default is returned when the header is
// missing, unparsable, only a wildcard, or matches nothing supported.
//
// The fields may be set directly; Supported must not change after the
// first call to Locale.
type AcceptHeader struct {
	Default   language.Tag
	Supported []language.Tag

	once    sync.Once
	matcher language.Matcher
}

// NewAcceptHeader builds an AcceptHeader provider. def may be language.Und.
func NewAcceptHeader(def language.Tag, supported []language.Tag) *AcceptHeader {
	return &AcceptHeader{Default: def, Supported: supported}
}

// wildcard is what ParseAcceptLanguage yields for "*".
var wildcard = language.Make("mul")

// Locale implements Provider.
func (a *AcceptHeader) Locale(r *http.Request) language.Tag {
	header := r.Header.Get("Accept-Language")
	if header == "" {
		return a.Default
	}

	parsed, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		slog.Debug("unparsable Accept-Language", "header", header, "error", err)
		return a.Default
	}
	tags := parsed[:0]
	for _, t := range parsed {
		if t != language.Und && t != wildcard {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		return a.Default
	}

	m := a.supportedMatcher()
	if m == nil {
		return tags[0]
	}

	_, index, confidence := m.Match(tags...)
	if confidence == language.No {
		return a.Default
	}
	return a.Supported[index]
}

func (a *AcceptHeader) supportedMatcher() language.Matcher {
	a.once.Do(func() {
		if len(a.Supported) > 0 {
			a.matcher = language.NewMatcher(a.Supported)
		}
	})
	return a.matcher
}
