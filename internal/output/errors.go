package output

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/mmcdole/newsdesk/internal/domain"
)

// Exit code constants
const (
	ExitSuccess     = 0
	ExitGeneral     = 1
	ExitUsageError  = 2
	ExitServerError = 3
	ExitAuthError   = 4
	ExitConfigError = 5
	ExitTimeout     = 6
)

// CLIError is a structured error with user-facing context
type CLIError struct {
	Summary    string
	Detail     string
	Suggestion string
	ExitCode   int
}

// Error implements the error interface, returning the summary
func (e *CLIError) Error() string {
	return e.Summary
}

// FromError converts a service error into a CLIError. CLIErrors pass
// through unchanged.
func FromError(err error) *CLIError {
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}

	switch {
	case errors.Is(err, domain.ErrServerOffline):
		return &CLIError{
			Summary:    "news server is unreachable",
			Detail:     err.Error(),
			Suggestion: "Check server.url in your config or set NEWSDESK_SERVER_URL",
			ExitCode:   ExitServerError,
		}
	case errors.Is(err, domain.ErrLoginRequired), errors.Is(err, domain.ErrUnauthorized):
		return &CLIError{
			Summary:    domain.UserMessage(err, "you are not logged in"),
			Suggestion: "Run 'newsdesk login' first",
			ExitCode:   ExitAuthError,
		}
	case errors.Is(err, domain.ErrNotFound):
		return &CLIError{
			Summary:  domain.UserMessage(err, "not found"),
			ExitCode: ExitGeneral,
		}
	case errors.Is(err, domain.ErrValidation):
		return &CLIError{
			Summary:  domain.UserMessage(err, "the server rejected the request"),
			ExitCode: ExitUsageError,
		}
	case errors.Is(err, context.DeadlineExceeded):
		return &CLIError{
			Summary:    "the server took too long to respond",
			Suggestion: "Raise server.timeout or try again later",
			ExitCode:   ExitTimeout,
		}
	}
	return &CLIError{
		Summary:  domain.UserMessage(err, err.Error()),
		ExitCode: ExitGeneral,
	}
}

// FormatError prints a structured error message to stderr
func (p *Printer) FormatError(e *CLIError) {
	if p.useColors {
		color.New(color.FgRed, color.Bold).Fprintf(p.err, "Error: %s\n", e.Summary)
		if e.Detail != "" {
			fmt.Fprintf(p.err, "  Cause: %s\n", e.Detail)
		}
		if e.Suggestion != "" {
			color.New(color.FgCyan).Fprintf(p.err, "  Suggestion: %s\n", e.Suggestion)
		}
	} else {
		fmt.Fprintf(p.err, "[ERROR] %s\n", e.Summary)
		if e.Detail != "" {
			fmt.Fprintf(p.err, "  Cause: %s\n", e.Detail)
		}
		if e.Suggestion != "" {
			fmt.Fprintf(p.err, "  Suggestion: %s\n", e.Suggestion)
		}
	}
}
