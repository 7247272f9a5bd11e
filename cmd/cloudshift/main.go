package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/cloudshift/internal/actions"
	"github.com/ppiankov/cloudshift/internal/billing"
	"github.com/ppiankov/cloudshift/internal/commands"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Exit codes for structured error reporting.
const (
	ExitSuccess    = 0
	ExitInternal   = 1
	ExitInvalidArg = 2
	ExitNotFound   = 3
	ExitNetwork    = 5
)

func main() {
	if err := commands.Execute(version, commit, date); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(classifyError(err))
	}
}

func classifyError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var parseErr *actions.ParseError
	var validationErr *billing.ValidationError
	if errors.As(err, &parseErr) || errors.As(err, &validationErr) {
		return ExitInvalidArg
	}
	if errors.Is(err, os.ErrNotExist) {
		return ExitNotFound
	}

	msg := strings.ToLower(err.Error())

	if strings.Contains(msg, "no such file") ||
		strings.Contains(msg, "nosuchkey") ||
		strings.Contains(msg, "nosuchbucket") {
		return ExitNotFound
	}

	if strings.Contains(msg, "dial") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "i/o timeout") ||
		strings.Contains(msg, "network is unreachable") {
		return ExitNetwork
	}

	if strings.Contains(msg, "required") ||
		strings.Contains(msg, "invalid") ||
		strings.Contains(msg, "unsupported") ||
		strings.Contains(msg, "mutually exclusive") ||
		strings.Contains(msg, "lint issue") {
		return ExitInvalidArg
	}

	return ExitInternal
}
