package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/courtside/matchday/internal/domain/match"
	"github.com/courtside/matchday/internal/domain/session"
	"github.com/courtside/matchday/internal/platform/cache"
	"github.com/courtside/matchday/internal/platform/logging"
)

const cacheKeySeasonMatchesPrefix = "season-matches:"

func cacheKeySeasonMatches(seasonID string) string { return cacheKeySeasonMatchesPrefix + seasonID }
func cacheKeySessions(leagueID string) string      { return "sessions:" + leagueID }
func cacheKeyActiveSession(leagueID string) string { return "active-session:" + leagueID }
func cacheKeySeasonStats(seasonID string) string   { return "season-stats:" + seasonID }
func cacheKeyRankings(seasonID string) string      { return "rankings:" + seasonID }

// Board is the merged view the UI renders: authoritative matches with the
// pending overlay applied, grouped by session.
type Board struct {
	SeasonFilter  string            `json:"seasonFilter,omitempty"`
	ActiveSession *session.Session  `json:"activeSession,omitempty"`
	Groups        []session.Group   `json:"groups"`
	Sessions      []session.Session `json:"sessions"`
}

// BoardService assembles the board from cached season data, the staged-edit
// overlay, and the selected season filter.
type BoardService struct {
	backend        LeagueBackend
	edits          *EditService
	cache          *cache.Store
	logger         *logging.Logger
	leagueID       string
	placeholderIDs map[string]struct{}

	mu           sync.RWMutex
	seasonFilter string
}

func NewBoardService(backend LeagueBackend, edits *EditService, store *cache.Store, logger *logging.Logger, leagueID string, placeholderIDs []string) *BoardService {
	if logger == nil {
		logger = logging.Default()
	}

	placeholders := make(map[string]struct{}, len(placeholderIDs))
	for _, id := range placeholderIDs {
		if id = strings.TrimSpace(id); id != "" {
			placeholders[id] = struct{}{}
		}
	}

	return &BoardService{
		backend:        backend,
		edits:          edits,
		cache:          store,
		logger:         logger,
		leagueID:       leagueID,
		placeholderIDs: placeholders,
	}
}

// SeasonFilter returns the currently selected season id, or "" for the
// all-seasons view.
func (s *BoardService) SeasonFilter() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seasonFilter
}

func (s *BoardService) SetSeasonFilter(ctx context.Context, seasonID string) {
	seasonID = strings.TrimSpace(seasonID)

	s.mu.Lock()
	s.seasonFilter = seasonID
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "season filter changed", "season_id", seasonID)
}

// Board builds the current view. Season match lists are served from cache
// and loaded at most once per expiry across concurrent callers.
func (s *BoardService) Board(ctx context.Context) (Board, error) {
	ctx, span := startUsecaseSpan(ctx, "BoardService.Board")
	defer span.End()

	filter := s.SeasonFilter()

	seasonIDs, err := s.resolveSeasonIDs(ctx, filter)
	if err != nil {
		return Board{}, err
	}

	matches := make([]match.Match, 0)
	for _, seasonID := range seasonIDs {
		seasonMatches, err := s.SeasonMatches(ctx, seasonID)
		if err != nil {
			return Board{}, err
		}
		matches = append(matches, seasonMatches...)
	}

	sessions, err := s.Sessions(ctx)
	if err != nil {
		return Board{}, err
	}

	// The board still renders without the active session marker.
	active, err := s.ActiveSession(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "active session load failed", "error", err)
		active = nil
	}

	merged := s.edits.Overlay(matches)
	rows := match.Rows(merged, s.placeholderIDs)
	groups := session.GroupRows(rows, s.edits.EditingSet(), s.edits.Snapshots())

	return Board{SeasonFilter: filter, ActiveSession: active, Groups: groups, Sessions: sessions}, nil
}

// ActiveSession returns the league's active session, nil when there is
// none. Served from the cache entry the refresh coordinator keeps warm.
func (s *BoardService) ActiveSession(ctx context.Context) (*session.Session, error) {
	value, err := s.cache.GetOrLoad(ctx, cacheKeyActiveSession(s.leagueID), func(ctx context.Context) (any, error) {
		return s.backend.GetActiveSession(ctx, s.leagueID)
	})
	if err != nil {
		return nil, fmt.Errorf("load active session: %w", err)
	}
	active, _ := value.(*session.Session)
	return active, nil
}

// SeasonMatches returns the cached authoritative match list for a season.
func (s *BoardService) SeasonMatches(ctx context.Context, seasonID string) ([]match.Match, error) {
	value, err := s.cache.GetOrLoad(ctx, cacheKeySeasonMatches(seasonID), func(ctx context.Context) (any, error) {
		return s.backend.GetSeasonMatches(ctx, seasonID)
	})
	if err != nil {
		return nil, fmt.Errorf("load season %s matches: %w", seasonID, err)
	}
	return value.([]match.Match), nil
}

// Sessions returns the cached session list for the league.
func (s *BoardService) Sessions(ctx context.Context) ([]session.Session, error) {
	value, err := s.cache.GetOrLoad(ctx, cacheKeySessions(s.leagueID), func(ctx context.Context) (any, error) {
		return s.backend.GetSessions(ctx, s.leagueID)
	})
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}
	return value.([]session.Session), nil
}

// SeasonStats returns the cached aggregate block for a season. The refresh
// coordinator overwrites this entry after a commit's recompute window.
func (s *BoardService) SeasonStats(ctx context.Context, seasonID string) (SeasonStats, error) {
	value, err := s.cache.GetOrLoad(ctx, cacheKeySeasonStats(seasonID), func(ctx context.Context) (any, error) {
		return s.backend.GetSeasonStats(ctx, seasonID)
	})
	if err != nil {
		return SeasonStats{}, fmt.Errorf("load season %s stats: %w", seasonID, err)
	}
	return value.(SeasonStats), nil
}

// Rankings returns the cached rating table for a season.
func (s *BoardService) Rankings(ctx context.Context, seasonID string) ([]Ranking, error) {
	value, err := s.cache.GetOrLoad(ctx, cacheKeyRankings(seasonID), func(ctx context.Context) (any, error) {
		return s.backend.GetRankings(ctx, seasonID)
	})
	if err != nil {
		return nil, fmt.Errorf("load season %s rankings: %w", seasonID, err)
	}
	rankings, _ := value.([]Ranking)
	return rankings, nil
}

func (s *BoardService) resolveSeasonIDs(ctx context.Context, filter string) ([]string, error) {
	if filter != "" {
		return []string{filter}, nil
	}

	seasons, err := s.backend.GetSeasons(ctx, s.leagueID)
	if err != nil {
		return nil, fmt.Errorf("load seasons: %w", err)
	}

	ids := make([]string, 0, len(seasons))
	for _, season := range seasons {
		ids = append(ids, season.ID)
	}
	return ids, nil
}
