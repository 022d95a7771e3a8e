package session

import "time"

const (
	StatusActive    = "ACTIVE"
	StatusSubmitted = "SUBMITTED"
	StatusEdited    = "EDITED"
)

type Session struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Status    string     `json:"status"`
	SeasonID  string     `json:"seasonId"`
	LeagueID  string     `json:"leagueId"`
	CreatedBy string     `json:"createdBy,omitempty"`
	UpdatedBy string     `json:"updatedBy,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// DisplayName returns the session name, deriving one from the creation date
// when the name is unset.
func (s Session) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	if s.CreatedAt != nil {
		return "Session " + s.CreatedAt.Format("Jan 2, 2006")
	}
	return "Session"
}

// MetadataSnapshot is a point-in-time copy of a session's header fields,
// captured when edit mode is entered. It lets a session whose matches were
// all deleted locally keep rendering a group header.
type MetadataSnapshot struct {
	SessionID string     `json:"sessionId"`
	Name      string     `json:"name"`
	Status    string     `json:"status"`
	SeasonID  string     `json:"seasonId"`
	CreatedBy string     `json:"createdBy,omitempty"`
	UpdatedBy string     `json:"updatedBy,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}
