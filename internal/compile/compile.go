// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package compile turns Soy template files into JavaScript source.
package compile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"soyview/internal/bundle"
	"soyview/internal/template"
)

// Compiler compiles one template file, optionally localized with a message
// bundle, into an ordered list of JavaScript sources. The list may be empty.
type Compiler interface {
	CompileToJS(ctx context.Context, file template.File, b *bundle.Bundle) ([]string, error)
}

// Empty compiles nothing.
type Empty struct{}

// CompileToJS always returns an empty list.
func (Empty) CompileToJS(context.Context, template.File, *bundle.Bundle) ([]string, error) {
	return nil, nil
}

// DefaultCommand runs the Closure Templates JavaScript compiler jar from the
// working directory.
const DefaultCommand = "java -jar SoyToJsSrcCompiler.jar"

// Exec drives the Closure Templates SoyToJsSrcCompiler as an external
// process. Each call compiles into a private temporary directory and reads
// back every .js file produced, in lexical order.
type Exec struct {
	Command []string // program and leading arguments
	Args    []string // extra compiler flags appended to every call
	TempDir string   // parent for scratch directories; os.TempDir() if empty
}

// NewExec builds an Exec from whitespace-separated command and argument
// strings, falling back to DefaultCommand.
func NewExec(command, args string) (*Exec, error) {
	if strings.TrimSpace(command) == "" {
		command = DefaultCommand
	}
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, errors.New("soy compiler command is empty")
	}
	return &Exec{Command: fields, Args: strings.Fields(args)}, nil
}

// CompileToJS implements Compiler.
func (e *Exec) CompileToJS(ctx context.Context, file template.File, b *bundle.Bundle) ([]string, error) {
	if len(e.Command) == 0 {
		return nil, errors.New("soy compiler command is empty")
	}

	outDir, err := os.MkdirTemp(e.TempDir, "soyjs-")
	if err != nil {
		return nil, fmt.Errorf("soy compiler scratch dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	args := append([]string{}, e.Command[1:]...)
	args = append(args, e.Args...)
	if b != nil {
		args = append(args,
			"--outputPathFormat", filepath.Join(outDir, "{INPUT_FILE_NAME_NO_EXT}_{LOCALE}.js"),
			"--locales", bundle.FileLocale(b.Locale),
			"--messageFilePathFormat", b.Path,
		)
	} else {
		args = append(args, "--outputPathFormat", filepath.Join(outDir, "{INPUT_FILE_NAME_NO_EXT}.js"))
	}
	args = append(args, "--srcs", file.Path)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.Command[0], args...)
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("soy compiler %s: %w", file.Path, err)
		}
		return nil, fmt.Errorf("soy compiler %s: %w: %s", file.Path, err, msg)
	}

	outputs, err := filepath.Glob(filepath.Join(outDir, "*.js"))
	if err != nil {
		return nil, fmt.Errorf("soy compiler outputs: %w", err)
	}
	sort.Strings(outputs)

	sources := make([]string, 0, len(outputs))
	for _, p := range outputs {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read compiled output: %w", err)
		}
		sources = append(sources, string(data))
	}

	slog.Debug("soy compiler finished",
		"file", file.Path,
		"outputs", len(sources),
		"duration", time.Since(start).String(),
	)
	return sources, nil
}
