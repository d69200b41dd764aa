// Package main provides the panelbed command-line tool.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	root := newRootCmd()
	err := root.Execute()
	if logger != nil {
		_ = logger.Sync()
	}
	if err == nil {
		return ExitSuccess
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)

	var usage *usageError
	switch {
	case errors.As(err, &usage),
		strings.HasPrefix(err.Error(), "required flag"),
		strings.HasPrefix(err.Error(), "unknown command"):
		return ExitUsage
	}
	return ExitError
}

// usageError marks command-line mistakes so run can exit with ExitUsage,
// matching the usual CLI convention of exit code 2 for bad invocations.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }
