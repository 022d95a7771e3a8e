package match

import (
	"strings"
	"time"
)

// Slot is one rendered player cell.
type Slot struct {
	PlayerID    string `json:"playerId,omitempty"`
	Name        string `json:"name"`
	Placeholder bool   `json:"placeholder"`
}

// Row is the display shape of one match. Building a Row never mutates the
// source match, so transforming the same input twice yields the same output.
type Row struct {
	MatchID   string `json:"matchId"`
	SessionID string `json:"sessionId"`
	SeasonID  string `json:"seasonId"`
	Date      string `json:"date"`

	Team1 [2]Slot `json:"team1"`
	Team2 [2]Slot `json:"team2"`

	Team1Score int    `json:"team1Score"`
	Team2Score int    `json:"team2Score"`
	Winner     string `json:"winner"`

	Team1RatingDelta float64 `json:"team1RatingDelta"`
	Team2RatingDelta float64 `json:"team2RatingDelta"`

	Ranked  bool `json:"ranked"`
	Pending bool `json:"pending"`

	SessionName   string     `json:"sessionName,omitempty"`
	SessionStatus string     `json:"sessionStatus,omitempty"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
}

const emptySlotName = "-"

func newSlot(p *Player, placeholderIDs map[string]struct{}) Slot {
	if p == nil {
		return Slot{Name: emptySlotName, Placeholder: true}
	}

	_, placeholder := placeholderIDs[p.ID]
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = emptySlotName
		placeholder = true
	}

	return Slot{PlayerID: p.ID, Name: name, Placeholder: placeholder}
}

// NewRow transforms one match into its display row.
func NewRow(m Match, placeholderIDs map[string]struct{}) Row {
	return Row{
		MatchID:          m.ID,
		SessionID:        m.SessionID,
		SeasonID:         m.SeasonID,
		Date:             m.Date,
		Team1:            [2]Slot{newSlot(m.Team1Player1, placeholderIDs), newSlot(m.Team1Player2, placeholderIDs)},
		Team2:            [2]Slot{newSlot(m.Team2Player1, placeholderIDs), newSlot(m.Team2Player2, placeholderIDs)},
		Team1Score:       m.Team1Score,
		Team2Score:       m.Team2Score,
		Winner:           Winner(m.Team1Score, m.Team2Score),
		Team1RatingDelta: m.TeamDelta(1),
		Team2RatingDelta: m.TeamDelta(2),
		Ranked:           m.Ranked,
		Pending:          strings.HasPrefix(m.ID, "pending-"),
		SessionName:      m.SessionName,
		SessionStatus:    m.SessionStatus,
		CreatedAt:        m.CreatedAt,
	}
}

// Rows transforms a list of matches preserving input order.
func Rows(matches []Match, placeholderIDs map[string]struct{}) []Row {
	rows := make([]Row, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, NewRow(m, placeholderIDs))
	}
	return rows
}
