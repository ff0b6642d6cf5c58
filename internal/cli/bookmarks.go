package cli

import (
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/newsdesk/internal/domain"
	"github.com/mmcdole/newsdesk/internal/output"
	"github.com/mmcdole/newsdesk/internal/search"
	"github.com/mmcdole/newsdesk/internal/service"
	"github.com/mmcdole/newsdesk/internal/textutil"
	"github.com/spf13/cobra"
)

var bookmarksCmd = &cobra.Command{
	Use:   "bookmarks",
	Short: "List your bookmarks",
	Long: `List bookmarked articles and summaries, newest first.

--filter loads every bookmark and ranks them by a fuzzy match on the title.

Examples:
  newsdesk bookmarks
  newsdesk bookmarks --page 2
  newsdesk bookmarks --filter "rust async"`,
	Args: cobra.NoArgs,
	RunE: runBookmarks,
}

var bookmarkCmd = &cobra.Command{
	Use:   "bookmark",
	Short: "Add or remove a bookmark",
}

var bookmarkAddCmd = &cobra.Command{
	Use:   "add <article|summary> <id>",
	Short: "Bookmark an article or summary",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBookmarkToggle(cmd, args, true)
	},
}

var bookmarkRemoveCmd = &cobra.Command{
	Use:     "remove <article|summary> <id>",
	Aliases: []string{"rm"},
	Short:   "Remove a bookmark",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBookmarkToggle(cmd, args, false)
	},
}

func init() {
	rootCmd.AddCommand(bookmarksCmd, bookmarkCmd)
	bookmarkCmd.AddCommand(bookmarkAddCmd, bookmarkRemoveCmd)

	bookmarksCmd.Flags().Int("page", 1, "page number, starting at 1")
	bookmarksCmd.Flags().String("filter", "", "fuzzy filter on titles across all bookmarks")
	bookmarksCmd.MarkFlagsMutuallyExclusive("page", "filter")
}

func runBookmarks(cmd *cobra.Command, args []string) error {
	pageFlag, _ := cmd.Flags().GetInt("page")
	filter, _ := cmd.Flags().GetString("filter")

	page, err := pageArg(pageFlag)
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := commandContext(cmd.Context())
	defer cancel()
	if err := a.requireLogin(ctx); err != nil {
		return err
	}

	if strings.TrimSpace(filter) != "" {
		return filterBookmarks(cmd, a, filter)
	}

	l, err := fetchListing(ctx, a, service.BookmarkSource(a.api), "", page)
	if err != nil {
		return err
	}
	if len(l.result.Content) > 0 {
		if err := renderBookmarks(l.result.Content); err != nil {
			return err
		}
	}
	printFooter(l, "bookmarks")
	printer.PrintHints("bookmarks")
	return nil
}

// filterBookmarks walks every bookmark page and prints the fuzzy matches,
// best first
func filterBookmarks(cmd *cobra.Command, a *app, filter string) error {
	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	all, err := service.FetchAll(ctx, a.api.GetBookmarks, a.pageSize(), func(loaded, total int) {
		a.logger.Debug("loading bookmarks", "loaded", loaded, "total", total)
	})
	if err != nil {
		return err
	}

	titles := make([]string, len(all))
	for i, b := range all {
		titles[i] = b.Title()
	}
	ranked := search.Rank(filter, titles)
	if len(ranked) == 0 {
		printer.Info("No bookmarks match %q", filter)
		return nil
	}

	matches := make([]domain.Bookmark, len(ranked))
	for i, idx := range ranked {
		matches[i] = all[idx]
	}
	if err := renderBookmarks(matches); err != nil {
		return err
	}
	printer.Info("%d of %d bookmarks match %q", len(matches), len(all), filter)
	return nil
}

func renderBookmarks(bookmarks []domain.Bookmark) error {
	now := time.Now()
	table := output.NewTable(printer.Out(), []string{"Type", "ID", "Title", "Saved"})
	for _, b := range bookmarks {
		table.AddRow(
			bookmarkTypeArg(b.Type),
			strconv.FormatInt(b.TargetID(), 10),
			textutil.Truncate(b.Title(), titleWidth),
			textutil.RelativeTime(b.CreatedAt.Time, now),
		)
	}
	return table.Render()
}

// parseBookmarkKey reads the <article|summary> <id> arguments
func parseBookmarkKey(args []string) (domain.BookmarkKey, error) {
	var kind domain.BookmarkType
	switch strings.ToLower(args[0]) {
	case "article", "articles":
		kind = domain.BookmarkTypeArticle
	case "summary", "summaries", "ai-summary":
		kind = domain.BookmarkTypeSummary
	default:
		return domain.BookmarkKey{}, usageError("unknown bookmark type %q: must be article or summary", args[0])
	}
	id, err := parseID(args[1])
	if err != nil {
		return domain.BookmarkKey{}, err
	}
	return domain.BookmarkKey{Type: kind, ID: id}, nil
}

// bookmarkTypeArg is the command-line spelling of a bookmark type
func bookmarkTypeArg(t domain.BookmarkType) string {
	if t == domain.BookmarkTypeSummary {
		return "summary"
	}
	return "article"
}

// runBookmarkToggle adds (on) or removes a bookmark. Asking for the state the
// item already has is a no-op.
func runBookmarkToggle(cmd *cobra.Command, args []string, on bool) error {
	key, err := parseBookmarkKey(args)
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := commandContext(cmd.Context())
	defer cancel()
	if err := a.requireLogin(ctx); err != nil {
		return err
	}

	current := a.news.IsBookmarked(ctx, key)
	if current == on {
		if on {
			printer.Info("%s %d is already bookmarked", bookmarkTypeArg(key.Type), key.ID)
		} else {
			printer.Info("%s %d is not bookmarked", bookmarkTypeArg(key.Type), key.ID)
		}
		return nil
	}

	if _, err := a.news.Toggle(ctx, key, current); err != nil {
		return err
	}
	if on {
		printer.Success("Bookmarked %s %d", bookmarkTypeArg(key.Type), key.ID)
		printer.PrintHints("bookmark add")
	} else {
		printer.Success("Removed bookmark on %s %d", bookmarkTypeArg(key.Type), key.ID)
	}
	return nil
}
