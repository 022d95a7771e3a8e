package match

import "time"

// Source tells which rating payload a match carries. Live matches hold a
// per-player rating map; persisted matches hold precomputed per-team deltas.
// The tag is assigned once where the match enters the system, never sniffed
// from payload shape downstream.
type Source string

const (
	SourceLive      Source = "live"
	SourcePersisted Source = "persisted"
)

type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Match struct {
	ID        string `json:"id"`
	SessionID string `json:"sessionId"`
	SeasonID  string `json:"seasonId"`
	LeagueID  string `json:"leagueId"`
	Date      string `json:"date"`

	Team1Player1 *Player `json:"team1Player1"`
	Team1Player2 *Player `json:"team1Player2"`
	Team2Player1 *Player `json:"team2Player1"`
	Team2Player2 *Player `json:"team2Player2"`

	Team1Score int `json:"team1Score"`
	Team2Score int `json:"team2Score"`

	Ranked bool `json:"ranked"`
	Public bool `json:"public"`

	Source Source `json:"-"`

	// RatingChanges is populated for SourceLive matches only.
	RatingChanges map[string]float64 `json:"ratingChanges,omitempty"`

	// Team deltas are populated for SourcePersisted matches only.
	Team1RatingDelta float64 `json:"team1RatingDelta"`
	Team2RatingDelta float64 `json:"team2RatingDelta"`

	SessionName   string     `json:"sessionName,omitempty"`
	SessionStatus string     `json:"sessionStatus,omitempty"`
	CreatedBy     string     `json:"createdBy,omitempty"`
	UpdatedBy     string     `json:"updatedBy,omitempty"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

// Winner derives the result label from the two scores.
func Winner(team1Score, team2Score int) string {
	switch {
	case team1Score > team2Score:
		return "Team 1"
	case team2Score > team1Score:
		return "Team 2"
	default:
		return "Tie"
	}
}

// Players returns the four slots in display order. Entries may be nil.
func (m Match) Players() [4]*Player {
	return [4]*Player{m.Team1Player1, m.Team1Player2, m.Team2Player1, m.Team2Player2}
}

func (m Match) teamPlayers(team int) [2]*Player {
	if team == 1 {
		return [2]*Player{m.Team1Player1, m.Team1Player2}
	}
	return [2]*Player{m.Team2Player1, m.Team2Player2}
}

// TeamDelta resolves the rating delta for a team according to the match
// source. Live matches sum the per-player map over the team's slots;
// persisted matches return the stored per-team value.
func (m Match) TeamDelta(team int) float64 {
	if m.Source == SourceLive {
		var sum float64
		for _, p := range m.teamPlayers(team) {
			if p == nil {
				continue
			}
			if delta, ok := m.RatingChanges[p.ID]; ok {
				sum += delta
			}
		}
		return sum
	}

	if team == 1 {
		return m.Team1RatingDelta
	}
	return m.Team2RatingDelta
}
