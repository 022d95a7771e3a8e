package usecase

import (
	"context"

	"github.com/courtside/matchday/internal/domain/match"
	"github.com/courtside/matchday/internal/domain/session"
)

// Season is one scoring period within a league.
type Season struct {
	ID        string `json:"id"`
	LeagueID  string `json:"leagueId"`
	Name      string `json:"name"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

// SeasonStats is the aggregate block the backend recomputes after a session
// is locked in.
type SeasonStats struct {
	SeasonID     string  `json:"seasonId"`
	MatchCount   int     `json:"matchCount"`
	PlayerCount  int     `json:"playerCount"`
	AvgPointDiff float64 `json:"avgPointDiff"`
}

type Ranking struct {
	PlayerID string  `json:"playerId"`
	Name     string  `json:"name"`
	Rating   float64 `json:"rating"`
	Rank     int     `json:"rank"`
	Wins     int     `json:"wins"`
	Losses   int     `json:"losses"`
}

// LeagueBackend is the remote match/session API this service fronts.
type LeagueBackend interface {
	CreateMatch(ctx context.Context, m match.Match) (match.Match, error)
	UpdateMatch(ctx context.Context, matchID string, m match.Match) (match.Match, error)
	DeleteMatch(ctx context.Context, matchID string) error
	LockInSession(ctx context.Context, leagueID, sessionID string) error

	// GetSeasonMatches returns an empty list, not an error, when the
	// backend reports no matches for the season.
	GetSeasonMatches(ctx context.Context, seasonID string) ([]match.Match, error)

	GetSessions(ctx context.Context, leagueID string) ([]session.Session, error)
	GetActiveSession(ctx context.Context, leagueID string) (*session.Session, error)
	GetSeasons(ctx context.Context, leagueID string) ([]Season, error)
	GetSeasonStats(ctx context.Context, seasonID string) (SeasonStats, error)
	GetRankings(ctx context.Context, seasonID string) ([]Ranking, error)
}

// RefreshScope names the remote resources a refresh pass must reload.
type RefreshScope struct {
	Sessions bool
	Season   bool
	Matches  bool
	SeasonID string
}

// Refresher is implemented by the refresh coordinator. Implementations log
// and swallow reload failures.
type Refresher interface {
	Refresh(ctx context.Context, scope RefreshScope)
}
