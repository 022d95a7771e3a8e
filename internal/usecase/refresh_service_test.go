package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/courtside/matchday/internal/domain/match"
	"github.com/courtside/matchday/internal/domain/session"
	"github.com/courtside/matchday/internal/platform/cache"
	"github.com/courtside/matchday/internal/platform/logging"
)

type fixedFilter string

func (f fixedFilter) SeasonFilter() string { return string(f) }

func TestRefreshReloadsScopedResources(t *testing.T) {
	backend := newFakeBackend()
	backend.sessions = []session.Session{submittedSession("s1", "season-1")}
	backend.matches["season-1"] = []match.Match{{ID: "m1", SessionID: "s1", SeasonID: "season-1"}}
	backend.stats["season-1"] = SeasonStats{SeasonID: "season-1", MatchCount: 1}
	store := cache.NewStore(time.Minute)

	svc := NewRefreshService(backend, store, fixedFilter(""), logging.NewNop(), "league-1", 10*time.Millisecond, 2)
	svc.run(context.Background(), RefreshScope{Sessions: true, Season: true, Matches: true, SeasonID: "season-1"})

	if _, ok := store.Get(cacheKeySessions("league-1")); !ok {
		t.Fatalf("sessions not reloaded")
	}
	if _, ok := store.Get(cacheKeySeasonMatches("season-1")); !ok {
		t.Fatalf("season matches not reloaded")
	}
	stats, ok := store.Get(cacheKeySeasonStats("season-1"))
	if !ok {
		t.Fatalf("season stats not reloaded")
	}
	if stats.(SeasonStats).MatchCount != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestRefreshStatsWaitForRecomputeWindow(t *testing.T) {
	backend := newFakeBackend()
	store := cache.NewStore(time.Minute)
	delay := 50 * time.Millisecond

	svc := NewRefreshService(backend, store, fixedFilter(""), logging.NewNop(), "league-1", delay, 2)

	start := time.Now()
	svc.run(context.Background(), RefreshScope{Season: true, SeasonID: "season-1"})
	if elapsed := time.Since(start); elapsed < delay {
		t.Fatalf("stats reload ran after %v, want at least %v", elapsed, delay)
	}
}

func TestRefreshStatsSkippedWithoutResolvableSeason(t *testing.T) {
	backend := newFakeBackend()
	store := cache.NewStore(time.Minute)

	svc := NewRefreshService(backend, store, fixedFilter(""), logging.NewNop(), "league-1", time.Millisecond, 2)
	svc.run(context.Background(), RefreshScope{Season: true})

	for _, call := range backend.callLog() {
		if call == "getSeasonStats:" {
			t.Fatalf("stats reload ran without a season id")
		}
	}
}

func TestRefreshMatchesFallsBackToFilterThenAllSeasons(t *testing.T) {
	backend := newFakeBackend()
	backend.seasons = []Season{{ID: "season-1"}, {ID: "season-2"}, {ID: "season-3"}}
	for _, id := range []string{"season-1", "season-2", "season-3"} {
		backend.matches[id] = []match.Match{{ID: "m-" + id, SeasonID: id}}
	}
	store := cache.NewStore(time.Minute)

	// Selected filter wins when the scope has no explicit season.
	svc := NewRefreshService(backend, store, fixedFilter("season-2"), logging.NewNop(), "league-1", time.Millisecond, 2)
	svc.run(context.Background(), RefreshScope{Matches: true})
	if backend.seasonMatchCalls["season-2"] != 1 || backend.seasonMatchCalls["season-1"] != 0 {
		t.Fatalf("filtered reload calls = %v", backend.seasonMatchCalls)
	}

	// No filter at all reloads every season in the league.
	svcAll := NewRefreshService(backend, store, fixedFilter(""), logging.NewNop(), "league-1", time.Millisecond, 2)
	svcAll.run(context.Background(), RefreshScope{Matches: true})
	for _, id := range []string{"season-1", "season-2", "season-3"} {
		if _, ok := store.Get(cacheKeySeasonMatches(id)); !ok {
			t.Fatalf("season %s not reloaded in all-seasons pass", id)
		}
	}
}

func TestRefreshAllSeasonsDropsStaleMatchLists(t *testing.T) {
	backend := newFakeBackend()
	backend.seasons = []Season{{ID: "season-1"}}
	backend.matches["season-1"] = []match.Match{{ID: "m1", SeasonID: "season-1"}}
	store := cache.NewStore(time.Minute)
	store.Set(cacheKeySeasonMatches("season-gone"), []match.Match{{ID: "m-old", SeasonID: "season-gone"}})

	svc := NewRefreshService(backend, store, fixedFilter(""), logging.NewNop(), "league-1", time.Millisecond, 2)
	svc.run(context.Background(), RefreshScope{Matches: true})

	if _, ok := store.Get(cacheKeySeasonMatches("season-gone")); ok {
		t.Fatalf("match list for a removed season survived the all-seasons reload")
	}
	if _, ok := store.Get(cacheKeySeasonMatches("season-1")); !ok {
		t.Fatalf("current season not reloaded")
	}
}

func TestRefreshSwallowsBackendErrors(t *testing.T) {
	backend := newFakeBackend()
	store := cache.NewStore(time.Minute)
	svc := NewRefreshService(backend, store, fixedFilter(""), logging.NewNop(), "league-1", time.Millisecond, 2)

	// Must not panic and must complete even when nothing is reloadable.
	done := make(chan struct{})
	go func() {
		svc.run(context.Background(), RefreshScope{Sessions: true, Season: true, Matches: true})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("refresh pass did not finish")
	}
}
