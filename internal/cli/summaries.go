package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/mmcdole/newsdesk/internal/domain"
	"github.com/mmcdole/newsdesk/internal/output"
	"github.com/mmcdole/newsdesk/internal/service"
	"github.com/mmcdole/newsdesk/internal/textutil"
	"github.com/spf13/cobra"
)

var summariesCmd = &cobra.Command{
	Use:   "summaries",
	Short: "List AI summaries, newest first",
	Long: `List the hourly AI summaries, newest first.

Examples:
  newsdesk summaries                # Every summary
  newsdesk summaries --published    # Published summaries only
  newsdesk summaries --page 2`,
	Args: cobra.NoArgs,
	RunE: runSummaries,
}

var summaryCmd = &cobra.Command{
	Use:   "summary <id>",
	Short: "Show one AI summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summariesCmd, summaryCmd)

	summariesCmd.Flags().Int("page", 1, "page number, starting at 1")
	summariesCmd.Flags().Bool("published", false, "only list published summaries")
}

func runSummaries(cmd *cobra.Command, args []string) error {
	pageFlag, _ := cmd.Flags().GetInt("page")
	published, _ := cmd.Flags().GetBool("published")

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
	_ = a.resolve(ctx)

	var status domain.SummaryStatus
	if published {
		status = domain.SummaryStatusPublished
	}
	l, err := fetchListing(ctx, a, service.SummarySource(a.api, a.api, status), "", page)
	if err != nil {
		return err
	}

	if len(l.result.Content) > 0 {
		now := time.Now()
		table := output.NewTable(printer.Out(), []string{"", "ID", "Title", "Status", "Articles", "Created"})
		for _, summary := range l.result.Content {
			table.AddRow(
				printer.Star(l.bookmarked[summary.ID]),
				strconv.FormatInt(summary.ID, 10),
				textutil.Truncate(summary.Title, titleWidth),
				printer.StatusBadge(string(summary.Status)),
				strconv.Itoa(summary.RelatedArticlesCount),
				textutil.RelativeTime(summary.CreatedAt.Time, now),
			)
		}
		if err := table.Render(); err != nil {
			return err
		}
	}
	printFooter(l, "summaries")
	printer.PrintHints("summaries")
	return nil
}

func runSummary(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
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
	_ = a.resolve(ctx)

	summary, err := a.news.Summary(ctx, id)
	if err != nil {
		return err
	}
	printSummary(a, summary, a.session.IsAuthenticated() && a.news.IsBookmarked(ctx, summary.BookmarkKey()))
	return nil
}

func printSummary(a *app, s *domain.Summary, bookmarked bool) {
	printer.Print("%s", printer.Bold(s.Title))
	printer.Field("ID", strconv.FormatInt(s.ID, 10))
	printer.Field("Status", printer.StatusBadge(string(s.Status)))
	if !s.PeriodStart.IsZero() {
		printer.Field("Period", fmt.Sprintf("%s - %s",
			textutil.AbsoluteTime(s.PeriodStart.Time), textutil.AbsoluteTime(s.PeriodEnd.Time)))
	}
	printer.Field("Generated", textutil.AbsoluteTime(s.GeneratedAt.Time))
	printer.Field("Articles", strconv.Itoa(s.RelatedArticlesCount))
	if a.session.IsAuthenticated() {
		printer.Field("Bookmarked", yesNo(bookmarked))
	}

	if highlights := textutil.ParseHighlights(s.KeyHighlights); len(highlights) > 0 {
		printer.Header("Highlights")
		for _, h := range highlights {
			printer.Print("  • %s", h)
		}
	}
	if s.Content != "" {
		printer.Header("Summary")
		printer.Print("%s", s.Content)
	}
}
