// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output renders CLI results: colored status lines, tables of
// candidates and runs, and JSON or YAML documents.
package output

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Exit codes used by the CLI.
const (
	ExitSuccess = 0
	ExitGeneral = 1
	ExitUsage   = 2
	ExitAuth    = 3
	ExitTimeout = 4
)

// CLIError is an error with a user-facing hint and exit code.
type CLIError struct {
	Summary    string
	Suggestion string
	ExitCode   int
	Err        error
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return e.Summary + ": " + e.Err.Error()
	}
	return e.Summary
}

func (e *CLIError) Unwrap() error { return e.Err }

// ExitCode returns the exit code for err: the CLIError code when err
// wraps one, ExitGeneral otherwise.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ce *CLIError
	if errors.As(err, &ce) && ce.ExitCode != 0 {
		return ce.ExitCode
	}
	return ExitGeneral
}

// Printer writes human-oriented output.
type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
}

// NewPrinter writes to stdout and stderr. Colors are used when enabled
// and NO_COLOR is unset.
func NewPrinter(useColors bool) *Printer {
	return NewPrinterTo(os.Stdout, os.Stderr, useColors)
}

// NewPrinterTo writes to the given streams.
func NewPrinterTo(out, errOut io.Writer, useColors bool) *Printer {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		useColors = false
	}
	return &Printer{out: out, err: errOut, useColors: useColors}
}

// Out is the stream for primary output.
func (p *Printer) Out() io.Writer { return p.out }

// Info prints an informational line.
func (p *Printer) Info(format string, args ...any) {
	if p.useColors {
		color.New(color.FgCyan).Fprintf(p.out, format+"\n", args...)
		return
	}
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Success prints a success line.
func (p *Printer) Success(format string, args ...any) {
	if p.useColors {
		color.New(color.FgGreen).Fprintf(p.out, "✓ "+format+"\n", args...)
		return
	}
	fmt.Fprintf(p.out, "[OK] "+format+"\n", args...)
}

// Warning prints a warning to stderr.
func (p *Printer) Warning(format string, args ...any) {
	if p.useColors {
		color.New(color.FgYellow).Fprintf(p.err, "⚠ "+format+"\n", args...)
		return
	}
	fmt.Fprintf(p.err, "[WARN] "+format+"\n", args...)
}

// Status prints a progress line to stderr.
func (p *Printer) Status(format string, args ...any) {
	if p.useColors {
		color.New(color.Faint).Fprintf(p.err, format+"\n", args...)
		return
	}
	fmt.Fprintf(p.err, format+"\n", args...)
}

// Error prints err to stderr, with the suggestion of a CLIError.
func (p *Printer) Error(err error) {
	var ce *CLIError
	suggestion := ""
	if errors.As(err, &ce) {
		suggestion = ce.Suggestion
	}
	if p.useColors {
		color.New(color.FgRed, color.Bold).Fprintf(p.err, "Error: %v\n", err)
		if suggestion != "" {
			color.New(color.FgCyan).Fprintf(p.err, "  Suggestion: %s\n", suggestion)
		}
		return
	}
	fmt.Fprintf(p.err, "[ERROR] %v\n", err)
	if suggestion != "" {
		fmt.Fprintf(p.err, "  Suggestion: %s\n", suggestion)
	}
}

// Print prints a plain line.
func (p *Printer) Print(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Header prints a section header.
func (p *Printer) Header(title string) {
	underline := make([]rune, len([]rune(title)))
	for i := range underline {
		underline[i] = '-'
	}
	if p.useColors {
		color.New(color.Bold).Fprintf(p.out, "\n%s\n", title)
		fmt.Fprintf(p.out, "%s\n", string(underline))
		return
	}
	fmt.Fprintf(p.out, "\n%s\n%s\n", title, string(underline))
}

// Phase colors a search phase name.
func (p *Printer) Phase(name string) string {
	if !p.useColors {
		return name
	}
	switch name {
	case "succeeded":
		return color.GreenString(name)
	case "failed":
		return color.RedString(name)
	case "submitting", "polling":
		return color.YellowString(name)
	default:
		return color.New(color.Faint).Sprint(name)
	}
}
