package service

import (
	"context"
	"log/slog"

	"github.com/mmcdole/newsdesk/internal/domain"
	"golang.org/x/sync/errgroup"
)

// StatsService gathers the dashboard counters
type StatsService struct {
	repo   domain.StatisticsRepository
	auth   authState
	logger *slog.Logger
}

// NewStatsService creates a new statistics service
func NewStatsService(repo domain.StatisticsRepository, auth authState, logger *slog.Logger) *StatsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsService{repo: repo, auth: auth, logger: logger}
}

// Stats fetches today's and the total article count concurrently, plus the
// bookmark count when authenticated. The bookmark count degrades to 0 on
// failure; either article count failing fails the call.
func (s *StatsService) Stats(ctx context.Context) (domain.Stats, error) {
	var stats domain.Stats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.repo.CountArticlesToday(gctx)
		stats.Today = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountArticlesTotal(gctx)
		stats.Total = n
		return err
	})
	if s.auth.IsAuthenticated() {
		g.Go(func() error {
			n, err := s.repo.CountBookmarks(gctx)
			if err != nil {
				s.logger.Warn("failed to count bookmarks", "error", err)
				return nil
			}
			stats.Bookmarks = n
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error("failed to load statistics", "error", err)
		return domain.Stats{}, err
	}
	return stats, nil
}
