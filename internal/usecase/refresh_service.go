package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc"

	"github.com/courtside/matchday/internal/platform/cache"
	"github.com/courtside/matchday/internal/platform/logging"
)

// SeasonFilterSource reports the currently selected season, "" meaning the
// all-seasons view.
type SeasonFilterSource interface {
	SeasonFilter() string
}

// RefreshService reloads authoritative data after a commit or discard. It
// runs in the background: reload failures are logged and swallowed, never
// surfaced to the action that triggered them. Season statistics reloads are
// delayed because the backend recomputes aggregates asynchronously after a
// lock-in.
type RefreshService struct {
	backend    LeagueBackend
	cache      *cache.Store
	filter     SeasonFilterSource
	logger     *logging.Logger
	leagueID   string
	statsDelay time.Duration
	maxWorkers int
}

func NewRefreshService(backend LeagueBackend, store *cache.Store, filter SeasonFilterSource, logger *logging.Logger, leagueID string, statsDelay time.Duration, maxWorkers int) *RefreshService {
	if logger == nil {
		logger = logging.Default()
	}
	if statsDelay <= 0 {
		statsDelay = 2 * time.Second
	}
	if maxWorkers < 1 {
		maxWorkers = 4
	}

	return &RefreshService{
		backend:    backend,
		cache:      store,
		filter:     filter,
		logger:     logger,
		leagueID:   leagueID,
		statsDelay: statsDelay,
		maxWorkers: maxWorkers,
	}
}

// Refresh schedules the reloads named by scope and returns immediately. The
// work survives cancellation of the caller's request context.
func (s *RefreshService) Refresh(ctx context.Context, scope RefreshScope) {
	go s.run(context.WithoutCancel(ctx), scope)
}

func (s *RefreshService) run(ctx context.Context, scope RefreshScope) {
	var wg conc.WaitGroup
	defer wg.Wait()

	if scope.Sessions {
		wg.Go(func() { s.reloadSessions(ctx) })
	}

	if scope.Season {
		if seasonID := s.resolveSeasonID(scope); seasonID != "" {
			wg.Go(func() { s.reloadSeasonStats(ctx, seasonID) })
		}
	}

	if scope.Matches {
		wg.Go(func() { s.reloadMatches(ctx, scope) })
	}
}

func (s *RefreshService) resolveSeasonID(scope RefreshScope) string {
	if scope.SeasonID != "" {
		return scope.SeasonID
	}
	return s.filter.SeasonFilter()
}

func (s *RefreshService) reloadSessions(ctx context.Context) {
	sessions, err := s.backend.GetSessions(ctx, s.leagueID)
	if err != nil {
		s.logger.WarnContext(ctx, "session reload failed", "error", err)
	} else {
		s.cache.Set(cacheKeySessions(s.leagueID), sessions)
	}

	active, err := s.backend.GetActiveSession(ctx, s.leagueID)
	if err != nil {
		s.logger.WarnContext(ctx, "active session reload failed", "error", err)
		return
	}
	s.cache.Set(cacheKeyActiveSession(s.leagueID), active)
}

// reloadSeasonStats waits out the backend's recompute window before
// fetching, trading a short staleness window for not needing a synchronous
// "stats ready" signal from the backend.
func (s *RefreshService) reloadSeasonStats(ctx context.Context, seasonID string) {
	timer := time.NewTimer(s.statsDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	stats, err := s.backend.GetSeasonStats(ctx, seasonID)
	if err != nil {
		s.logger.WarnContext(ctx, "season stats reload failed", "season_id", seasonID, "error", err)
	} else {
		s.cache.Set(cacheKeySeasonStats(seasonID), stats)
	}

	rankings, err := s.backend.GetRankings(ctx, seasonID)
	if err != nil {
		s.logger.WarnContext(ctx, "rankings reload failed", "season_id", seasonID, "error", err)
		return
	}
	s.cache.Set(cacheKeyRankings(seasonID), rankings)
}

func (s *RefreshService) reloadMatches(ctx context.Context, scope RefreshScope) {
	if seasonID := s.resolveSeasonID(scope); seasonID != "" {
		s.reloadSeasonMatches(ctx, seasonID)
		return
	}

	// All-seasons view: reload every season in the league in parallel.
	seasons, err := s.backend.GetSeasons(ctx, s.leagueID)
	if err != nil {
		s.logger.WarnContext(ctx, "season list reload failed", "error", err)
		return
	}

	// Drop every cached match list first so seasons that left the league
	// don't linger until their TTL expires.
	s.cache.DeletePrefix(cacheKeySeasonMatchesPrefix)

	pool, err := ants.NewPool(s.maxWorkers)
	if err != nil {
		s.logger.WarnContext(ctx, "match reload pool unavailable", "error", err)
		return
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, season := range seasons {
		seasonID := season.ID
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			s.reloadSeasonMatches(ctx, seasonID)
		})
		if submitErr != nil {
			wg.Done()
			s.logger.WarnContext(ctx, "match reload submit failed", "season_id", seasonID, "error", submitErr)
		}
	}
	wg.Wait()
}

func (s *RefreshService) reloadSeasonMatches(ctx context.Context, seasonID string) {
	matches, err := s.backend.GetSeasonMatches(ctx, seasonID)
	if err != nil {
		s.logger.WarnContext(ctx, "season matches reload failed", "season_id", seasonID, "error", err)
		return
	}
	s.cache.Set(cacheKeySeasonMatches(seasonID), matches)
}
