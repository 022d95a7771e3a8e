package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/courtside/matchday/internal/domain/match"
	"github.com/courtside/matchday/internal/domain/session"
	"github.com/courtside/matchday/internal/platform/logging"
)

type fakeBackend struct {
	mu       sync.Mutex
	calls    []string
	sessions []session.Session
	active   *session.Session
	seasons  []Season
	matches  map[string][]match.Match
	stats    map[string]SeasonStats

	failDeleteMatch  error
	failUpdateMatch  error
	failCreateMatch  error
	failLockIn       error
	nextID           int
	seasonMatchCalls map[string]int

	// When set, DeleteMatch signals entry and then parks until the gate
	// closes, so a test can observe a commit mid-flight.
	deleteStarted chan struct{}
	deleteGate    chan struct{}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		matches:          make(map[string][]match.Match),
		stats:            make(map[string]SeasonStats),
		seasonMatchCalls: make(map[string]int),
	}
}

func (f *fakeBackend) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeBackend) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeBackend) CreateMatch(_ context.Context, m match.Match) (match.Match, error) {
	if f.failCreateMatch != nil {
		return match.Match{}, f.failCreateMatch
	}
	f.mu.Lock()
	f.nextID++
	m.ID = fmt.Sprintf("m-new-%d", f.nextID)
	f.mu.Unlock()
	f.record("createMatch:" + fmt.Sprintf("%d-%d", m.Team1Score, m.Team2Score))
	return m, nil
}

func (f *fakeBackend) UpdateMatch(_ context.Context, matchID string, m match.Match) (match.Match, error) {
	if f.failUpdateMatch != nil {
		return match.Match{}, f.failUpdateMatch
	}
	f.record("updateMatch:" + matchID)
	m.ID = matchID
	return m, nil
}

func (f *fakeBackend) DeleteMatch(_ context.Context, matchID string) error {
	if f.failDeleteMatch != nil {
		return f.failDeleteMatch
	}
	if f.deleteStarted != nil {
		f.deleteStarted <- struct{}{}
	}
	if f.deleteGate != nil {
		<-f.deleteGate
	}
	f.record("deleteMatch:" + matchID)
	return nil
}

func (f *fakeBackend) LockInSession(_ context.Context, leagueID, sessionID string) error {
	if f.failLockIn != nil {
		return f.failLockIn
	}
	f.record("lockInSession:" + sessionID)
	return nil
}

func (f *fakeBackend) GetSeasonMatches(_ context.Context, seasonID string) ([]match.Match, error) {
	f.mu.Lock()
	f.seasonMatchCalls[seasonID]++
	f.mu.Unlock()
	f.record("getSeasonMatches:" + seasonID)
	return f.matches[seasonID], nil
}

func (f *fakeBackend) GetSessions(_ context.Context, leagueID string) ([]session.Session, error) {
	f.record("getSessions")
	return f.sessions, nil
}

func (f *fakeBackend) GetActiveSession(_ context.Context, leagueID string) (*session.Session, error) {
	f.record("getActiveSession")
	return f.active, nil
}

func (f *fakeBackend) GetSeasons(_ context.Context, leagueID string) ([]Season, error) {
	f.record("getSeasons")
	return f.seasons, nil
}

func (f *fakeBackend) GetSeasonStats(_ context.Context, seasonID string) (SeasonStats, error) {
	f.record("getSeasonStats:" + seasonID)
	return f.stats[seasonID], nil
}

func (f *fakeBackend) GetRankings(_ context.Context, seasonID string) ([]Ranking, error) {
	f.record("getRankings:" + seasonID)
	return nil, nil
}

type fakeRefresher struct {
	mu     sync.Mutex
	scopes []RefreshScope
}

func (r *fakeRefresher) Refresh(_ context.Context, scope RefreshScope) {
	r.mu.Lock()
	r.scopes = append(r.scopes, scope)
	r.mu.Unlock()
}

func submittedSession(id, seasonID string) session.Session {
	created := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	return session.Session{
		ID:        id,
		Name:      "Session Jul 1, 2026",
		Status:    session.StatusSubmitted,
		SeasonID:  seasonID,
		LeagueID:  "league-1",
		CreatedAt: &created,
	}
}

func twoPlayers() (team1 *match.Player, team2 *match.Player) {
	return &match.Player{ID: "p1", Name: "Alice"}, &match.Player{ID: "p2", Name: "Bob"}
}

// assertCoupled checks the edit-mode/change-set invariant after a public
// operation: a session is in the editing set exactly when a change-set
// exists for it.
func assertCoupled(t *testing.T, svc *EditService, sessionID string) {
	t.Helper()
	svc.mu.Lock()
	_, hasSet := svc.changes[sessionID]
	_, isEditing := svc.editing[sessionID]
	svc.mu.Unlock()
	if hasSet != isEditing {
		t.Fatalf("invariant broken for %s: change-set=%v editing=%v", sessionID, hasSet, isEditing)
	}
}

func TestBeginEditRejectsActiveSession(t *testing.T) {
	backend := newFakeBackend()
	active := submittedSession("s1", "season-1")
	active.Status = session.StatusActive
	backend.sessions = []session.Session{active}

	svc := NewEditService(backend, nil, logging.NewNop())
	err := svc.BeginEdit(context.Background(), "league-1", "s1")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	assertCoupled(t, svc, "s1")
}

func TestBeginEditCapturesSnapshot(t *testing.T) {
	backend := newFakeBackend()
	backend.sessions = []session.Session{submittedSession("s1", "season-1")}

	svc := NewEditService(backend, nil, logging.NewNop())
	if err := svc.BeginEdit(context.Background(), "league-1", "s1"); err != nil {
		t.Fatalf("BeginEdit: %v", err)
	}

	assertCoupled(t, svc, "s1")
	snap, ok := svc.Snapshots()["s1"]
	if !ok {
		t.Fatalf("no snapshot captured")
	}
	if snap.Name != "Session Jul 1, 2026" || snap.Status != session.StatusSubmitted || snap.SeasonID != "season-1" {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestWritesForNonEditedSessionGoStraightToBackend(t *testing.T) {
	backend := newFakeBackend()
	svc := NewEditService(backend, nil, logging.NewNop())

	p1, p2 := twoPlayers()
	created, err := svc.CreateMatch(context.Background(), "s-other", match.Match{
		Team1Player1: p1, Team2Player1: p2, Team1Score: 11, Team2Score: 7,
	})
	if err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}
	if created.ID == "" || strings.HasPrefix(created.ID, "pending-") {
		t.Fatalf("direct create returned id %q, want a real backend id", created.ID)
	}

	if err := svc.DeleteMatch(context.Background(), "s-other", "m9"); err != nil {
		t.Fatalf("DeleteMatch: %v", err)
	}

	log := backend.callLog()
	if len(log) != 2 || log[0] != "createMatch:11-7" || log[1] != "deleteMatch:m9" {
		t.Fatalf("backend calls = %v", log)
	}
}

func TestCreateMatchValidatesPlayers(t *testing.T) {
	backend := newFakeBackend()
	svc := NewEditService(backend, nil, logging.NewNop())

	p1, _ := twoPlayers()
	_, err := svc.CreateMatch(context.Background(), "s1", match.Match{Team1Player1: p1})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if len(backend.callLog()) != 0 {
		t.Fatalf("validation failure must not reach the backend: %v", backend.callLog())
	}
}

func TestCommitOrderingAndStateClear(t *testing.T) {
	backend := newFakeBackend()
	backend.sessions = []session.Session{submittedSession("s1", "season-1")}
	refresher := &fakeRefresher{}
	svc := NewEditService(backend, refresher, logging.NewNop())
	ctx := context.Background()

	if err := svc.BeginEdit(ctx, "league-1", "s1"); err != nil {
		t.Fatalf("BeginEdit: %v", err)
	}

	p1, p2 := twoPlayers()
	// Stage in create, delete, update order; commit must still run
	// deletions, then updates, then additions.
	if _, err := svc.CreateMatch(ctx, "s1", match.Match{Team1Player1: p1, Team2Player1: p2, Team1Score: 15, Team2Score: 9}); err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}
	if err := svc.DeleteMatch(ctx, "s1", "m3"); err != nil {
		t.Fatalf("DeleteMatch: %v", err)
	}
	if _, err := svc.UpdateMatch(ctx, "s1", "m1", match.Match{Team1Player1: p1, Team2Player1: p2, Team1Score: 10, Team2Score: 20}); err != nil {
		t.Fatalf("UpdateMatch: %v", err)
	}
	if len(backend.callLog()) > 1 {
		// Only the BeginEdit session load may have hit the backend.
		t.Fatalf("staged operations reached the backend: %v", backend.callLog())
	}

	if err := svc.Commit(ctx, "league-1", "s1"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	want := []string{"getSessions", "deleteMatch:m3", "updateMatch:m1", "createMatch:15-9", "lockInSession:s1"}
	got := backend.callLog()
	if len(got) != len(want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("call %d = %q, want %q (full log %v)", i, got[i], want[i], got)
		}
	}

	if svc.IsEditing("s1") {
		t.Fatalf("session still in edit mode after commit")
	}
	assertCoupled(t, svc, "s1")

	if len(refresher.scopes) != 1 {
		t.Fatalf("refresh scopes = %v, want one", refresher.scopes)
	}
	scope := refresher.scopes[0]
	if !scope.Sessions || !scope.Season || !scope.Matches || scope.SeasonID != "season-1" {
		t.Fatalf("refresh scope = %+v", scope)
	}
}

func TestCommitFailureKeepsChangeSetForRetry(t *testing.T) {
	backend := newFakeBackend()
	backend.sessions = []session.Session{submittedSession("s1", "season-1")}
	backend.failUpdateMatch = errors.New("backend down")
	refresher := &fakeRefresher{}
	svc := NewEditService(backend, refresher, logging.NewNop())
	ctx := context.Background()

	if err := svc.BeginEdit(ctx, "league-1", "s1"); err != nil {
		t.Fatalf("BeginEdit: %v", err)
	}
	p1, p2 := twoPlayers()
	if err := svc.DeleteMatch(ctx, "s1", "m2"); err != nil {
		t.Fatalf("DeleteMatch: %v", err)
	}
	if _, err := svc.UpdateMatch(ctx, "s1", "m1", match.Match{Team1Player1: p1, Team2Player1: p2, Team1Score: 1, Team2Score: 2}); err != nil {
		t.Fatalf("UpdateMatch: %v", err)
	}

	err := svc.Commit(ctx, "league-1", "s1")
	if err == nil {
		t.Fatalf("commit should have failed")
	}

	// The deletion was applied, the update was not, nothing is rolled
	// back, and the staged state survives for a retry.
	if !svc.IsEditing("s1") {
		t.Fatalf("failed commit must leave the session in edit mode")
	}
	assertCoupled(t, svc, "s1")
	if len(refresher.scopes) != 0 {
		t.Fatalf("failed commit must not trigger a refresh: %v", refresher.scopes)
	}

	backend.failUpdateMatch = nil
	if err := svc.Commit(ctx, "league-1", "s1"); err != nil {
		t.Fatalf("retry commit: %v", err)
	}
	if svc.IsEditing("s1") {
		t.Fatalf("retry commit should clear edit mode")
	}
}

func TestCommitInFlightConflictsWithOtherTransitions(t *testing.T) {
	backend := newFakeBackend()
	backend.sessions = []session.Session{submittedSession("s1", "season-1")}
	backend.deleteStarted = make(chan struct{}, 1)
	backend.deleteGate = make(chan struct{})
	svc := NewEditService(backend, nil, logging.NewNop())
	ctx := context.Background()

	if err := svc.BeginEdit(ctx, "league-1", "s1"); err != nil {
		t.Fatalf("BeginEdit: %v", err)
	}
	if err := svc.DeleteMatch(ctx, "s1", "m1"); err != nil {
		t.Fatalf("DeleteMatch: %v", err)
	}

	commitDone := make(chan error, 1)
	go func() {
		commitDone <- svc.Commit(ctx, "league-1", "s1")
	}()
	<-backend.deleteStarted

	if err := svc.BeginEdit(ctx, "league-1", "s1"); !errors.Is(err, ErrConflict) {
		t.Fatalf("BeginEdit during commit = %v, want ErrConflict", err)
	}
	if err := svc.Commit(ctx, "league-1", "s1"); !errors.Is(err, ErrConflict) {
		t.Fatalf("second Commit during commit = %v, want ErrConflict", err)
	}
	if err := svc.Discard(ctx, "s1"); !errors.Is(err, ErrConflict) {
		t.Fatalf("Discard during commit = %v, want ErrConflict", err)
	}

	close(backend.deleteGate)
	if err := <-commitDone; err != nil {
		t.Fatalf("commit: %v", err)
	}
	if svc.IsEditing("s1") {
		t.Fatalf("session still in edit mode after commit")
	}

	// The guard lifts with the commit; a new edit cycle may begin.
	if err := svc.BeginEdit(ctx, "league-1", "s1"); err != nil {
		t.Fatalf("BeginEdit after commit: %v", err)
	}
	assertCoupled(t, svc, "s1")
}

func TestDiscardClearsWithoutBackendWrites(t *testing.T) {
	backend := newFakeBackend()
	backend.sessions = []session.Session{submittedSession("s1", "season-1")}
	refresher := &fakeRefresher{}
	svc := NewEditService(backend, refresher, logging.NewNop())
	ctx := context.Background()

	if err := svc.BeginEdit(ctx, "league-1", "s1"); err != nil {
		t.Fatalf("BeginEdit: %v", err)
	}
	if err := svc.DeleteMatch(ctx, "s1", "m1"); err != nil {
		t.Fatalf("DeleteMatch: %v", err)
	}

	callsBefore := len(backend.callLog())
	if err := svc.Discard(ctx, "s1"); err != nil {
		t.Fatalf("Discard: %v", err)
	}

	if len(backend.callLog()) != callsBefore {
		t.Fatalf("discard made backend calls: %v", backend.callLog())
	}
	if svc.IsEditing("s1") {
		t.Fatalf("session still in edit mode after discard")
	}
	assertCoupled(t, svc, "s1")
	if len(refresher.scopes) != 1 {
		t.Fatalf("discard should trigger one refresh, got %v", refresher.scopes)
	}
}

func TestEndToEndCommitScenario(t *testing.T) {
	backend := newFakeBackend()
	backend.sessions = []session.Session{submittedSession("S", "season-1")}
	svc := NewEditService(backend, &fakeRefresher{}, logging.NewNop())
	ctx := context.Background()

	if err := svc.BeginEdit(ctx, "league-1", "S"); err != nil {
		t.Fatalf("BeginEdit: %v", err)
	}

	p1, p2 := twoPlayers()
	if _, err := svc.UpdateMatch(ctx, "S", "m1", match.Match{Team1Player1: p1, Team2Player1: p2, Team1Score: 10, Team2Score: 20}); err != nil {
		t.Fatalf("UpdateMatch: %v", err)
	}
	if _, err := svc.CreateMatch(ctx, "S", match.Match{Team1Player1: p1, Team2Player1: p2, Team1Score: 15, Team2Score: 9}); err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}

	if err := svc.Commit(ctx, "league-1", "S"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	want := []string{"getSessions", "updateMatch:m1", "createMatch:15-9", "lockInSession:S"}
	got := backend.callLog()
	if len(got) != len(want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("call %d = %q, want %q", i, got[i], want[i])
		}
	}

	if svc.IsEditing("S") {
		t.Fatalf("S still in edit mode after commit")
	}
	assertCoupled(t, svc, "S")
}

func TestOverlayThroughServiceRecomputesWinner(t *testing.T) {
	backend := newFakeBackend()
	backend.sessions = []session.Session{submittedSession("s1", "season-1")}
	svc := NewEditService(backend, nil, logging.NewNop())
	ctx := context.Background()

	if err := svc.BeginEdit(ctx, "league-1", "s1"); err != nil {
		t.Fatalf("BeginEdit: %v", err)
	}
	p1, p2 := twoPlayers()
	if _, err := svc.UpdateMatch(ctx, "s1", "m1", match.Match{Team1Player1: p1, Team2Player1: p2, Team1Score: 10, Team2Score: 20}); err != nil {
		t.Fatalf("UpdateMatch: %v", err)
	}

	merged := svc.Overlay([]match.Match{{ID: "m1", SessionID: "s1", Team1Score: 21, Team2Score: 15}})
	rows := match.Rows(merged, nil)
	if rows[0].Winner != "Team 2" {
		t.Fatalf("winner after staged update = %q, want Team 2", rows[0].Winner)
	}
}
