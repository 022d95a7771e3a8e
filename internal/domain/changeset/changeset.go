package changeset

import (
	"slices"
	"sort"

	"github.com/courtside/matchday/internal/domain/match"
	"github.com/courtside/matchday/internal/domain/session"
)

// ChangeSet holds one session's staged edits: replacements for existing
// matches, new matches not yet assigned a real id, and ids marked for
// removal. It is ephemeral client state; the backend never sees it until
// commit.
type ChangeSet struct {
	Updates   map[string]match.Match
	Additions []match.Match
	Deletions []string
}

func New() *ChangeSet {
	return &ChangeSet{
		Updates:   make(map[string]match.Match),
		Additions: []match.Match{},
		Deletions: []string{},
	}
}

func (cs *ChangeSet) Empty() bool {
	return len(cs.Updates) == 0 && len(cs.Additions) == 0 && len(cs.Deletions) == 0
}

// StageAddition appends a new match and returns its position, which is the
// index part of its synthetic id until the next deletion of an earlier
// addition.
func (cs *ChangeSet) StageAddition(m match.Match) int {
	cs.Additions = append(cs.Additions, m)
	return len(cs.Additions) - 1
}

// StageUpdate records a replacement payload. A pending ref replaces the
// staged addition in place; an out-of-range index is a no-op. A persisted
// ref overwrites any prior update and revives an id staged for deletion,
// so the last staged action wins in both directions.
func (cs *ChangeSet) StageUpdate(ref Ref, m match.Match) {
	if ref.Kind == RefPending {
		if ref.Index >= 0 && ref.Index < len(cs.Additions) {
			cs.Additions[ref.Index] = m
		}
		return
	}

	if i := slices.Index(cs.Deletions, ref.MatchID); i >= 0 {
		cs.Deletions = slices.Delete(cs.Deletions, i, i+1)
	}
	cs.Updates[ref.MatchID] = m
}

// StageDeletion marks a match for removal. A pending ref splices the staged
// addition out, shifting later additions down one position. A persisted ref
// drops any staged update for the id and records the deletion once;
// deleting an already-deleted id is a no-op.
func (cs *ChangeSet) StageDeletion(ref Ref) {
	if ref.Kind == RefPending {
		if ref.Index >= 0 && ref.Index < len(cs.Additions) {
			cs.Additions = append(cs.Additions[:ref.Index], cs.Additions[ref.Index+1:]...)
		}
		return
	}

	delete(cs.Updates, ref.MatchID)
	if !slices.Contains(cs.Deletions, ref.MatchID) {
		cs.Deletions = append(cs.Deletions, ref.MatchID)
	}
}

// Clone returns an independent copy, used to snapshot a change-set before a
// commit walks it without holding the store lock.
func (cs *ChangeSet) Clone() *ChangeSet {
	out := New()
	for id, m := range cs.Updates {
		out.Updates[id] = m
	}
	out.Additions = append(out.Additions, cs.Additions...)
	out.Deletions = append(out.Deletions, cs.Deletions...)
	return out
}

// Overlay projects staged edits onto the authoritative match list without
// mutating either input. Deleted ids are dropped, updated ids carry their
// replacement payload, and staged additions are appended as synthetic rows
// with zero rating deltas and an ACTIVE session status. Calling it twice
// with the same inputs yields the same output.
func Overlay(matches []match.Match, sets map[string]*ChangeSet) []match.Match {
	out := make([]match.Match, 0, len(matches))

	for _, m := range matches {
		cs, ok := sets[m.SessionID]
		if !ok {
			out = append(out, m)
			continue
		}
		if slices.Contains(cs.Deletions, m.ID) {
			continue
		}
		if replacement, ok := cs.Updates[m.ID]; ok {
			replacement.ID = m.ID
			replacement.SessionID = m.SessionID
			if replacement.SessionName == "" {
				replacement.SessionName = m.SessionName
			}
			if replacement.SessionStatus == "" {
				replacement.SessionStatus = m.SessionStatus
			}
			out = append(out, replacement)
			continue
		}
		out = append(out, m)
	}

	sessionIDs := make([]string, 0, len(sets))
	for sessionID := range sets {
		sessionIDs = append(sessionIDs, sessionID)
	}
	sort.Strings(sessionIDs)

	for _, sessionID := range sessionIDs {
		for i, added := range sets[sessionID].Additions {
			added.ID = PendingRef(sessionID, i).String()
			added.SessionID = sessionID
			added.Source = match.SourceLive
			added.RatingChanges = nil
			added.Team1RatingDelta = 0
			added.Team2RatingDelta = 0
			added.SessionStatus = session.StatusActive
			out = append(out, added)
		}
	}

	return out
}
