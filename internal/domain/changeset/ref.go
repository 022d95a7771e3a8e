package changeset

import (
	"fmt"
	"strconv"
	"strings"
)

// RefKind discriminates how a match is addressed while a session is being
// edited.
type RefKind int

const (
	// RefPersisted addresses a match that already exists on the backend.
	RefPersisted RefKind = iota
	// RefPending addresses a staged addition by its position in the
	// change-set's additions list. Positions shift down when an earlier
	// addition is removed, so pending refs must not be cached across a
	// deletion.
	RefPending
)

type Ref struct {
	Kind      RefKind
	MatchID   string
	SessionID string
	Index     int
}

func PersistedRef(matchID string) Ref {
	return Ref{Kind: RefPersisted, MatchID: matchID}
}

func PendingRef(sessionID string, index int) Ref {
	return Ref{Kind: RefPending, SessionID: sessionID, Index: index}
}

const pendingIDPrefix = "pending-"

// ParseRef resolves a wire match id into a typed reference. Synthetic ids
// have the form "pending-{sessionID}-{index}". Anything that does not parse
// cleanly is treated as a persisted id, which downstream staging handles as
// a no-op when the id is unknown.
func ParseRef(id string) Ref {
	if !strings.HasPrefix(id, pendingIDPrefix) {
		return PersistedRef(id)
	}

	rest := id[len(pendingIDPrefix):]
	cut := strings.LastIndex(rest, "-")
	if cut <= 0 || cut == len(rest)-1 {
		return PersistedRef(id)
	}

	index, err := strconv.Atoi(rest[cut+1:])
	if err != nil || index < 0 {
		return PersistedRef(id)
	}

	return PendingRef(rest[:cut], index)
}

func (r Ref) String() string {
	if r.Kind == RefPending {
		return fmt.Sprintf("%s%s-%d", pendingIDPrefix, r.SessionID, r.Index)
	}
	return r.MatchID
}
