// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package template maps requested template names to Soy files on disk.
// The resolved File is both the compiler input and the key of the
// compiled-source cache, so two names that reach the same file share one
// cache entry.
package template

// File identifies a concrete Soy template file. It is comparable and safe
// to use as a map key.
type File struct {
	Path string // absolute, cleaned path of the .soy file
}

// String returns the file path.
func (f File) String() string {
	return f.Path
}

// FilesResolver resolves a template name (without the .soy extension) to a
// backing file. A name that does not match any file yields ok == false and
// a nil error; err is reserved for I/O failures.
type FilesResolver interface {
	Resolve(name string) (file File, ok bool, err error)
}

// Empty is a FilesResolver that never resolves anything. It lets the
// endpoint be wired before a real resolver is configured.
type Empty struct{}

// Resolve always reports the name as absent.
func (Empty) Resolve(string) (File, bool, error) {
	return File{}, false, nil
}
