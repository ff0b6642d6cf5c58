package cli

import (
	"context"
	"strconv"
	"time"

	"github.com/mmcdole/newsdesk/internal/domain"
	"github.com/mmcdole/newsdesk/internal/output"
	"github.com/mmcdole/newsdesk/internal/service"
	"github.com/mmcdole/newsdesk/internal/textutil"
	"github.com/spf13/cobra"
)

var articlesCmd = &cobra.Command{
	Use:     "articles",
	Aliases: []string{"ls"},
	Short:   "List crawled articles, newest first",
	Long: `List crawled articles, newest first. Bookmarked articles are starred
when logged in.

Examples:
  newsdesk articles                     # First page
  newsdesk articles --page 3            # Third page
  newsdesk articles --search "rust"     # Search titles
  newsdesk articles --source OFFICIAL   # Only one source type
  newsdesk articles --category tech     # Only one category`,
	Args: cobra.NoArgs,
	RunE: runArticles,
}

var articleCmd = &cobra.Command{
	Use:   "article <id>",
	Short: "Show one article",
	Args:  cobra.ExactArgs(1),
	RunE:  runArticle,
}

func init() {
	rootCmd.AddCommand(articlesCmd, articleCmd)

	articlesCmd.Flags().Int("page", 1, "page number, starting at 1")
	articlesCmd.Flags().String("search", "", "search article titles")
	articlesCmd.Flags().String("source", "", "filter by source type (OFFICIAL, PROFESSIONAL, GENERAL)")
	articlesCmd.Flags().String("category", "", "filter by category")
	articlesCmd.MarkFlagsMutuallyExclusive("search", "source", "category")

	articleCmd.Flags().Bool("open", false, "open the article in the browser")
}

// articleSource builds the listing source for the given filters
func articleSource(a *app, sourceType, category string) service.Source[domain.Article] {
	src := service.ArticleSource(a.api, a.api)
	switch {
	case sourceType != "":
		src.FetchPage = func(ctx context.Context, page, size int) (domain.Page[domain.Article], error) {
			return a.api.GetArticlesBySource(ctx, sourceType, page, size)
		}
	case category != "":
		src.FetchPage = func(ctx context.Context, page, size int) (domain.Page[domain.Article], error) {
			return a.api.GetArticlesByCategory(ctx, category, page, size)
		}
	}
	return src
}

func runArticles(cmd *cobra.Command, args []string) error {
	pageFlag, _ := cmd.Flags().GetInt("page")
	keyword, _ := cmd.Flags().GetString("search")
	sourceType, _ := cmd.Flags().GetString("source")
	category, _ := cmd.Flags().GetString("category")

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

	l, err := fetchListing(ctx, a, articleSource(a, sourceType, category), keyword, page)
	if err != nil {
		return err
	}

	if len(l.result.Content) > 0 {
		now := time.Now()
		table := output.NewTable(printer.Out(), []string{"", "ID", "Title", "Source", "Category", "Crawled"})
		for _, article := range l.result.Content {
			table.AddRow(
				printer.Star(l.bookmarked[article.ID]),
				strconv.FormatInt(article.ID, 10),
				textutil.Truncate(article.Title, titleWidth),
				article.SourceName,
				article.Category,
				textutil.RelativeTime(article.CrawledAt.Time, now),
			)
		}
		if err := table.Render(); err != nil {
			return err
		}
	}
	printFooter(l, "articles")
	printer.PrintHints("articles")
	return nil
}

func runArticle(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	open, _ := cmd.Flags().GetBool("open")

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := commandContext(cmd.Context())
	defer cancel()
	_ = a.resolve(ctx)

	article, err := a.news.Article(ctx, id)
	if err != nil {
		return err
	}

	printer.Print("%s", printer.Bold(article.Title))
	printer.Field("ID", strconv.FormatInt(article.ID, 10))
	printer.Field("Source", article.SourceName)
	if article.SourceType != "" {
		printer.Field("Type", article.SourceType)
	}
	printer.Field("Category", article.Category)
	printer.Field("Published", textutil.AbsoluteTime(article.PublishedAt.Time))
	printer.Field("URL", article.URL)
	if a.session.IsAuthenticated() {
		printer.Field("Bookmarked", yesNo(a.news.IsBookmarked(ctx, article.BookmarkKey())))
	}
	if desc := textutil.Sanitize(article.Description); desc != "" {
		printer.Print("")
		printer.Print("%s", desc)
	}

	if open {
		if err := openLink(a, article.URL); err != nil {
			return err
		}
		printer.Success("Opened %s", article.URL)
	}
	return nil
}

// openLink opens YouTube links in the video player and everything else in
// the browser
func openLink(a *app, url string) error {
	if url == "" {
		return usageError("this item has no link")
	}
	if _, ok := textutil.ExtractYouTubeVideoID(url); ok {
		return a.launcher.OpenVideo(url)
	}
	return a.launcher.Open(url)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
