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

func TestPollTickSkipsWithoutSeasonFilter(t *testing.T) {
	backend := newFakeBackend()
	store := cache.NewStore(time.Minute)
	svc := NewPollService(backend, store, fixedFilter(""), logging.NewNop(), "league-1", time.Second)

	svc.tick(context.Background())

	if len(backend.callLog()) != 0 {
		t.Fatalf("tick without a filter hit the backend: %v", backend.callLog())
	}
}

func TestPollTickRefreshesActiveSessionSeason(t *testing.T) {
	backend := newFakeBackend()
	active := submittedSession("s1", "season-1")
	active.Status = session.StatusActive
	backend.active = &active
	backend.matches["season-1"] = []match.Match{{ID: "m1", SessionID: "s1", SeasonID: "season-1"}}
	store := cache.NewStore(time.Minute)
	svc := NewPollService(backend, store, fixedFilter("season-1"), logging.NewNop(), "league-1", time.Second)

	svc.tick(context.Background())

	value, ok := store.Get(cacheKeySeasonMatches("season-1"))
	if !ok {
		t.Fatalf("poll did not refresh season matches")
	}
	if matches := value.([]match.Match); len(matches) != 1 || matches[0].ID != "m1" {
		t.Fatalf("cached matches = %+v", matches)
	}
}

func TestPollTickNoActiveSessionIsQuiet(t *testing.T) {
	backend := newFakeBackend()
	store := cache.NewStore(time.Minute)
	svc := NewPollService(backend, store, fixedFilter("season-1"), logging.NewNop(), "league-1", time.Second)

	svc.tick(context.Background())

	if _, ok := store.Get(cacheKeySeasonMatches("season-1")); ok {
		t.Fatalf("poll cached matches with no active session")
	}
}

func TestPollRunSchedulesTicks(t *testing.T) {
	backend := newFakeBackend()
	active := submittedSession("s1", "season-1")
	active.Status = session.StatusActive
	backend.active = &active
	backend.matches["season-1"] = []match.Match{{ID: "m1", SessionID: "s1", SeasonID: "season-1"}}
	store := cache.NewStore(time.Minute)
	svc := NewPollService(backend, store, fixedFilter("season-1"), logging.NewNop(), "league-1", 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for {
		if _, ok := store.Get(cacheKeySeasonMatches("season-1")); ok {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("scheduled poll never refreshed the cache")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("poll loop did not stop after cancel")
	}
}

func TestPollRunStopsOnCancel(t *testing.T) {
	backend := newFakeBackend()
	store := cache.NewStore(time.Minute)
	svc := NewPollService(backend, store, fixedFilter(""), logging.NewNop(), "league-1", 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("poll loop did not stop on cancel")
	}
}
