package output

import (
	"fmt"
	"strings"
)

// CommandHints maps command names to related commands users might want to run next
var CommandHints = map[string][]string{
	"login":          {"whoami", "bookmarks"},
	"register":       {"login"},
	"logout":         {"login"},
	"articles":       {"article <id>", "bookmark add article <id>"},
	"summaries":      {"summary <id>", "countdown"},
	"bookmarks":      {"bookmark remove <article|summary> <id>"},
	"bookmark add":   {"bookmarks"},
	"stats":          {"countdown", "articles"},
	"passwd":         {"whoami"},
	"delete-account": {"register"},
}

// PrintHints prints "See also" hints for a command. No-op in quiet mode or if command has no hints.
func (p *Printer) PrintHints(command string) {
	if p.quiet {
		return
	}
	hints, ok := CommandHints[command]
	if !ok || len(hints) == 0 {
		return
	}

	cmds := make([]string, len(hints))
	for i, h := range hints {
		cmds[i] = "newsdesk " + h
	}
	fmt.Fprintf(p.out, "\nSee also: %s\n", strings.Join(cmds, ", "))
}
