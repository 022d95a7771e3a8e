package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/courtside/matchday/internal/domain/changeset"
	"github.com/courtside/matchday/internal/domain/match"
	"github.com/courtside/matchday/internal/domain/session"
	"github.com/courtside/matchday/internal/platform/logging"
)

// EditService owns the staged-edit state: which sessions are in edit mode,
// their pending change-sets, and the metadata snapshots captured on entry.
// Match writes route through it so edits against a session in edit mode are
// staged locally while everything else goes straight to the backend.
type EditService struct {
	backend   LeagueBackend
	refresher Refresher
	logger    *logging.Logger

	mu         sync.Mutex
	changes    map[string]*changeset.ChangeSet
	editing    map[string]struct{}
	snapshots  map[string]session.MetadataSnapshot
	committing map[string]struct{}
}

func NewEditService(backend LeagueBackend, refresher Refresher, logger *logging.Logger) *EditService {
	if logger == nil {
		logger = logging.Default()
	}

	return &EditService{
		backend:    backend,
		refresher:  refresher,
		logger:     logger,
		changes:    make(map[string]*changeset.ChangeSet),
		editing:    make(map[string]struct{}),
		snapshots:  make(map[string]session.MetadataSnapshot),
		committing: make(map[string]struct{}),
	}
}

// SetRefresher installs the refresher after construction. The refresh service
// needs the board's season filter, so wiring happens in two steps; call this
// before the server starts handling requests.
func (s *EditService) SetRefresher(refresher Refresher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresher = refresher
}

// BeginEdit moves a session into edit mode. Only sessions that were already
// submitted (or re-edited) can be staged; an active session keeps its
// immediate-write path.
func (s *EditService) BeginEdit(ctx context.Context, leagueID, sessionID string) error {
	ctx, span := startUsecaseSpan(ctx, "EditService.BeginEdit")
	defer span.End()

	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}

	sessions, err := s.backend.GetSessions(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("load sessions: %w", err)
	}

	var target *session.Session
	for i := range sessions {
		if sessions[i].ID == sessionID {
			target = &sessions[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("%w: session %s", ErrNotFound, sessionID)
	}
	if target.Status != session.StatusSubmitted && target.Status != session.StatusEdited {
		return fmt.Errorf("%w: session %s has status %s, only %s or %s sessions can be edited",
			ErrInvalidInput, sessionID, target.Status, session.StatusSubmitted, session.StatusEdited)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, inFlight := s.committing[sessionID]; inFlight {
		return fmt.Errorf("%w: session %s has a commit in flight", ErrConflict, sessionID)
	}
	if _, ok := s.changes[sessionID]; !ok {
		s.changes[sessionID] = changeset.New()
	}
	s.editing[sessionID] = struct{}{}
	s.snapshots[sessionID] = session.MetadataSnapshot{
		SessionID: target.ID,
		Name:      target.DisplayName(),
		Status:    target.Status,
		SeasonID:  target.SeasonID,
		CreatedBy: target.CreatedBy,
		UpdatedBy: target.UpdatedBy,
		CreatedAt: target.CreatedAt,
		UpdatedAt: target.UpdatedAt,
	}

	s.logger.InfoContext(ctx, "session entered edit mode", "session_id", sessionID)
	return nil
}

// CreateMatch validates and either stages the match (session in edit mode)
// or writes it to the backend immediately. Staged matches come back with a
// synthetic id.
func (s *EditService) CreateMatch(ctx context.Context, sessionID string, m match.Match) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "EditService.CreateMatch")
	defer span.End()

	if err := validateMatchPlayers(m); err != nil {
		return match.Match{}, err
	}
	m.SessionID = sessionID

	s.mu.Lock()
	if cs, ok := s.stagedSet(sessionID); ok {
		index := cs.StageAddition(m)
		s.mu.Unlock()
		m.ID = changeset.PendingRef(sessionID, index).String()
		s.logger.DebugContext(ctx, "match addition staged", "session_id", sessionID, "pending_id", m.ID)
		return m, nil
	}
	s.mu.Unlock()

	created, err := s.backend.CreateMatch(ctx, m)
	if err != nil {
		return match.Match{}, fmt.Errorf("create match: %w", err)
	}
	return created, nil
}

// UpdateMatch stages or applies a replacement payload for a match. For a
// session in edit mode the match id may be synthetic.
func (s *EditService) UpdateMatch(ctx context.Context, sessionID, matchID string, m match.Match) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "EditService.UpdateMatch")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	m.SessionID = sessionID

	s.mu.Lock()
	if cs, ok := s.stagedSet(sessionID); ok {
		cs.StageUpdate(changeset.ParseRef(matchID), m)
		s.mu.Unlock()
		m.ID = matchID
		s.logger.DebugContext(ctx, "match update staged", "session_id", sessionID, "match_id", matchID)
		return m, nil
	}
	s.mu.Unlock()

	updated, err := s.backend.UpdateMatch(ctx, matchID, m)
	if err != nil {
		return match.Match{}, fmt.Errorf("update match: %w", err)
	}
	return updated, nil
}

// DeleteMatch stages or applies a match removal. Staged deletions are
// idempotent; deleting a staged addition shifts later synthetic ids down.
func (s *EditService) DeleteMatch(ctx context.Context, sessionID, matchID string) error {
	ctx, span := startUsecaseSpan(ctx, "EditService.DeleteMatch")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	s.mu.Lock()
	if cs, ok := s.stagedSet(sessionID); ok {
		cs.StageDeletion(changeset.ParseRef(matchID))
		s.mu.Unlock()
		s.logger.DebugContext(ctx, "match deletion staged", "session_id", sessionID, "match_id", matchID)
		return nil
	}
	s.mu.Unlock()

	if err := s.backend.DeleteMatch(ctx, matchID); err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	return nil
}

// Commit flushes a session's change-set to the backend: deletions, then
// updates, then additions, each as an independent call. The first failure
// aborts the sequence without compensation and leaves the change-set intact
// for retry. After the lock-in call succeeds the staged state is cleared
// before any refresh is triggered, so a render can never see the overlay and
// the fresh authoritative rows at once. While a commit is in flight the
// session rejects a second commit, a new edit, and a discard with
// ErrConflict.
func (s *EditService) Commit(ctx context.Context, leagueID, sessionID string) error {
	ctx, span := startUsecaseSpan(ctx, "EditService.Commit")
	defer span.End()

	s.mu.Lock()
	if _, inFlight := s.committing[sessionID]; inFlight {
		s.mu.Unlock()
		return fmt.Errorf("%w: session %s has a commit in flight", ErrConflict, sessionID)
	}
	cs, ok := s.stagedSet(sessionID)
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: session %s is not being edited", ErrInvalidInput, sessionID)
	}
	pending := cs.Clone()
	seasonID := s.snapshots[sessionID].SeasonID
	s.committing[sessionID] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.committing, sessionID)
		s.mu.Unlock()
	}()

	for _, matchID := range pending.Deletions {
		if err := s.backend.DeleteMatch(ctx, matchID); err != nil {
			return fmt.Errorf("commit: delete match %s: %w", matchID, err)
		}
	}

	updateIDs := make([]string, 0, len(pending.Updates))
	for matchID := range pending.Updates {
		updateIDs = append(updateIDs, matchID)
	}
	sort.Strings(updateIDs)
	for _, matchID := range updateIDs {
		if _, err := s.backend.UpdateMatch(ctx, matchID, pending.Updates[matchID]); err != nil {
			return fmt.Errorf("commit: update match %s: %w", matchID, err)
		}
	}

	for _, m := range pending.Additions {
		m.ID = ""
		m.SessionID = sessionID
		if _, err := s.backend.CreateMatch(ctx, m); err != nil {
			return fmt.Errorf("commit: create match: %w", err)
		}
	}

	if err := s.backend.LockInSession(ctx, leagueID, sessionID); err != nil {
		return fmt.Errorf("commit: lock in session %s: %w", sessionID, err)
	}

	s.clear(sessionID)
	s.logger.InfoContext(ctx, "session edits committed",
		"session_id", sessionID,
		"deletions", len(pending.Deletions),
		"updates", len(pending.Updates),
		"additions", len(pending.Additions),
	)

	if s.refresher != nil {
		s.refresher.Refresh(ctx, RefreshScope{Sessions: true, Season: true, Matches: true, SeasonID: seasonID})
	}
	return nil
}

// Discard drops a session's staged edits without touching the backend, then
// refreshes so no trace of the discarded overlay survives.
func (s *EditService) Discard(ctx context.Context, sessionID string) error {
	ctx, span := startUsecaseSpan(ctx, "EditService.Discard")
	defer span.End()

	s.mu.Lock()
	if _, inFlight := s.committing[sessionID]; inFlight {
		s.mu.Unlock()
		return fmt.Errorf("%w: session %s has a commit in flight", ErrConflict, sessionID)
	}
	_, ok := s.stagedSet(sessionID)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: session %s is not being edited", ErrInvalidInput, sessionID)
	}

	s.clear(sessionID)
	s.logger.InfoContext(ctx, "session edits discarded", "session_id", sessionID)

	if s.refresher != nil {
		s.refresher.Refresh(ctx, RefreshScope{Sessions: true, Matches: true})
	}
	return nil
}

// Overlay projects the staged edits onto an authoritative match list.
func (s *EditService) Overlay(matches []match.Match) []match.Match {
	s.mu.Lock()
	sets := make(map[string]*changeset.ChangeSet, len(s.changes))
	for sessionID, cs := range s.changes {
		sets[sessionID] = cs.Clone()
	}
	s.mu.Unlock()

	return changeset.Overlay(matches, sets)
}

// EditingSet returns a copy of the session ids currently in edit mode.
func (s *EditService) EditingSet() map[string]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]struct{}, len(s.editing))
	for sessionID := range s.editing {
		out[sessionID] = struct{}{}
	}
	return out
}

// Snapshots returns a copy of the metadata snapshots for editing sessions.
func (s *EditService) Snapshots() map[string]session.MetadataSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]session.MetadataSnapshot, len(s.snapshots))
	for sessionID, snap := range s.snapshots {
		out[sessionID] = snap
	}
	return out
}

// IsEditing reports whether the session currently has staged state.
func (s *EditService) IsEditing(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.editing[sessionID]
	return ok
}

// stagedSet returns the session's change-set when the session is in edit
// mode. Callers must hold s.mu.
func (s *EditService) stagedSet(sessionID string) (*changeset.ChangeSet, bool) {
	if _, ok := s.editing[sessionID]; !ok {
		return nil, false
	}
	cs, ok := s.changes[sessionID]
	return cs, ok
}

func (s *EditService) clear(sessionID string) {
	s.mu.Lock()
	delete(s.changes, sessionID)
	delete(s.editing, sessionID)
	delete(s.snapshots, sessionID)
	s.mu.Unlock()
}

func validateMatchPlayers(m match.Match) error {
	if m.Team1Player1 == nil && m.Team1Player2 == nil {
		return fmt.Errorf("%w: team 1 needs at least one player", ErrInvalidInput)
	}
	if m.Team2Player1 == nil && m.Team2Player2 == nil {
		return fmt.Errorf("%w: team 2 needs at least one player", ErrInvalidInput)
	}
	return nil
}
