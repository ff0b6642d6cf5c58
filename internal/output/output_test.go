package output

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mmcdole/newsdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainPrinter(quiet bool) (*Printer, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	p := NewPrinterWithOptions(PrinterOptions{ColorMode: ColorNever, Quiet: quiet, Out: &out, Err: &errOut})
	return p, &out, &errOut
}

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		input string
		want  ColorMode
	}{
		{"auto", ColorAuto},
		{"", ColorAuto},
		{"always", ColorAlways},
		{"never", ColorNever},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseColorMode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseColorMode("sometimes")
	assert.Error(t, err)
}

func TestResolveColors(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.True(t, ResolveColors(ColorAlways))
	assert.False(t, ResolveColors(ColorNever))
	assert.False(t, ResolveColors(ColorAuto))
}

func TestPrinterPlainOutput(t *testing.T) {
	p, out, errOut := plainPrinter(false)

	p.Success("Logged in as %s", "reader")
	p.Info("2 bookmarks")
	p.Warning("careful")
	p.Field("Email", "reader@example.com")

	assert.Equal(t, "[OK] Logged in as reader\n2 bookmarks\nEmail:       reader@example.com\n", out.String())
	assert.Equal(t, "[WARN] careful\n", errOut.String())
	assert.Equal(t, "[PUBLISHED]", p.StatusBadge("PUBLISHED"))
	assert.Equal(t, "*", p.Star(true))
	assert.Empty(t, p.Star(false))
}

func TestPrinterQuiet(t *testing.T) {
	p, out, errOut := plainPrinter(true)

	p.Success("done")
	p.Info("info")
	p.PrintHints("login")
	p.Print("data")
	p.Error("bad")

	assert.Equal(t, "data\n", out.String())
	assert.Equal(t, "[ERROR] bad\n", errOut.String())
}

func TestPrintHints(t *testing.T) {
	p, out, _ := plainPrinter(false)

	p.PrintHints("login")
	assert.Equal(t, "\nSee also: newsdesk whoami, newsdesk bookmarks\n", out.String())

	out.Reset()
	p.PrintHints("version")
	assert.Empty(t, out.String())
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		exitCode int
		summary  string
	}{
		{"offline", fmt.Errorf("get: %w", domain.ErrServerOffline), ExitServerError, "news server is unreachable"},
		{"login required", domain.ErrLoginRequired, ExitAuthError, "you are not logged in"},
		{"server message", &domain.APIError{Status: 401, Message: "Invalid credentials"}, ExitAuthError, "Invalid credentials"},
		{"not found", &domain.APIError{Status: 404, Path: "/articles/9"}, ExitGeneral, "not found"},
		{"validation", &domain.ValidationError{Message: "Passwords do not match"}, ExitUsageError, "Passwords do not match"},
		{"timeout", context.DeadlineExceeded, ExitTimeout, "the server took too long to respond"},
		{"other", errors.New("boom"), ExitGeneral, "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromError(tt.err)
			assert.Equal(t, tt.exitCode, got.ExitCode)
			assert.Equal(t, tt.summary, got.Summary)
		})
	}

	original := &CLIError{Summary: "kept", ExitCode: ExitUsageError}
	assert.Same(t, original, FromError(fmt.Errorf("wrapped: %w", original)))
}

func TestFormatError(t *testing.T) {
	p, _, errOut := plainPrinter(false)

	p.FormatError(&CLIError{Summary: "not logged in", Suggestion: "Run 'newsdesk login' first"})

	assert.Equal(t, "[ERROR] not logged in\n  Suggestion: Run 'newsdesk login' first\n", errOut.String())
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, []string{"ID", "Title"})
	table.AddRow("1", "First article")
	table.AddRow("22", "Second")
	require.NoError(t, table.Render())

	out := buf.String()
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "First article")
	assert.Contains(t, out, "22")
	assert.Equal(t, 2, table.Len())
}
