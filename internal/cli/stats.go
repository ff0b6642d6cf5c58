package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/mmcdole/newsdesk/internal/service"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show article and bookmark counters",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var countdownCmd = &cobra.Command{
	Use:   "countdown",
	Short: "Show the time until the next AI summary",
	Long: `Show the time until the next AI summary and whether this hour's summary
has been generated. Summaries are generated hourly from 09:00 to 23:00.

Examples:
  newsdesk countdown
  newsdesk countdown --watch   # Update every second until interrupted`,
	Args: cobra.NoArgs,
	RunE: runCountdown,
}

func init() {
	rootCmd.AddCommand(statsCmd, countdownCmd)

	countdownCmd.Flags().Bool("watch", false, "keep updating until interrupted")
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := commandContext(cmd.Context())
	defer cancel()
	_ = a.resolve(ctx)

	stats, err := a.stats.Stats(ctx)
	if err != nil {
		return err
	}

	printer.Field("Today", strconv.FormatInt(stats.Today, 10))
	printer.Field("Total", strconv.FormatInt(stats.Total, 10))
	if a.session.IsAuthenticated() {
		printer.Field("Bookmarks", strconv.FormatInt(stats.Bookmarks, 10))
	}
	printer.PrintHints("stats")
	return nil
}

func runCountdown(cmd *cobra.Command, args []string) error {
	watch, _ := cmd.Flags().GetBool("watch")

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := commandContext(cmd.Context())
	latest, err := a.news.LatestSummary(ctx)
	cancel()
	if err != nil {
		a.logger.Warn("could not load latest summary", "error", err)
	}

	now := time.Now()
	status := service.SummaryStatus(latest, now)
	if !watch {
		printer.Field("Next summary", service.Countdown(now).String())
		printer.Field("At", service.NextSummaryAt(now).Format("15:04"))
		printer.Field("This hour", printer.StatusBadge(status.String()))
		return nil
	}

	w := printer.Out()
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	next := service.NextSummaryAt(now)
	for {
		fmt.Fprintf(w, "\rNext summary in %s  %s ", service.Countdown(now), printer.StatusBadge(status.String()))
		select {
		case <-cmd.Context().Done():
			fmt.Fprintln(w)
			return nil
		case now = <-ticker.C:
		}
		if !now.Before(next) {
			next = service.NextSummaryAt(now)
			ctx, cancel := commandContext(cmd.Context())
			if s, err := a.news.LatestSummary(ctx); err == nil {
				latest = s
			}
			cancel()
		}
		status = service.SummaryStatus(latest, now)
	}
}
