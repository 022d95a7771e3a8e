package usecase

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/courtside/matchday/internal/platform/cache"
	"github.com/courtside/matchday/internal/platform/logging"
)

// PollService periodically re-fetches match data for the active session's
// season while a season filter is selected. Poll failures are logged and
// swallowed so a flaky backend never disturbs the rendered board.
type PollService struct {
	backend  LeagueBackend
	cache    *cache.Store
	filter   SeasonFilterSource
	logger   *logging.Logger
	leagueID string
	interval time.Duration
}

func NewPollService(backend LeagueBackend, store *cache.Store, filter SeasonFilterSource, logger *logging.Logger, leagueID string, interval time.Duration) *PollService {
	if logger == nil {
		logger = logging.Default()
	}
	if interval <= 0 {
		interval = 5 * time.Second
	}

	return &PollService{
		backend:  backend,
		cache:    store,
		filter:   filter,
		logger:   logger,
		leagueID: leagueID,
		interval: interval,
	}
}

// Run schedules the poll job and blocks until ctx is cancelled. Singleton
// mode keeps a slow backend call from stacking overlapping ticks.
func (s *PollService) Run(ctx context.Context) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		s.logger.ErrorContext(ctx, "poll scheduler unavailable", "error", err)
		return
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() { s.tick(ctx) }),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "poll job registration failed", "error", err)
		return
	}

	scheduler.Start()
	<-ctx.Done()
	if err := scheduler.Shutdown(); err != nil {
		s.logger.WarnContext(ctx, "poll scheduler shutdown failed", "error", err)
	}
}

func (s *PollService) tick(ctx context.Context) {
	if s.filter.SeasonFilter() == "" {
		return
	}

	active, err := s.backend.GetActiveSession(ctx, s.leagueID)
	if err != nil {
		s.logger.DebugContext(ctx, "active session poll failed", "error", err)
		return
	}
	if active == nil || active.SeasonID == "" {
		return
	}

	matches, err := s.backend.GetSeasonMatches(ctx, active.SeasonID)
	if err != nil {
		s.logger.DebugContext(ctx, "season matches poll failed", "season_id", active.SeasonID, "error", err)
		return
	}
	s.cache.Set(cacheKeySeasonMatches(active.SeasonID), matches)
}
