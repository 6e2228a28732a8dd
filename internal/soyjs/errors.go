// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package soyjs

import "errors"

var (
	// ErrNotFound matches every NotFoundError.
	ErrNotFound = errors.New("not found")

	// ErrMisconfigured is returned when a Service is used without one of
	// its collaborators. Build services with New to get safe defaults.
	ErrMisconfigured = errors.New("soyjs: service is missing a collaborator")
)

// NotFoundError reports a template that does not resolve to a file or that
// compiles to nothing. Message is safe to show to the client.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrNotFound) true for any NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func notFound(msg string) error {
	return &NotFoundError{Message: msg}
}
