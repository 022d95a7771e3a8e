package session

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/courtside/matchday/internal/domain/match"
)

// Group is one rendered session block: header metadata plus member rows.
type Group struct {
	Key       string      `json:"key"`
	SessionID string      `json:"sessionId,omitempty"`
	Name      string      `json:"name"`
	Status    string      `json:"status,omitempty"`
	Date      string      `json:"date,omitempty"`
	CreatedAt *time.Time  `json:"createdAt,omitempty"`
	UpdatedAt *time.Time  `json:"updatedAt,omitempty"`
	Editing   bool        `json:"editing"`
	Rows      []match.Row `json:"rows"`
}

// GroupRows partitions display rows into ordered session groups. Rows with a
// session id group by session; legacy rows without one group by their raw
// date string. Header metadata takes the last non-empty value seen across
// member rows. Sessions in the editing set always get a group, even with
// zero member rows, using their metadata snapshot for the header.
func GroupRows(rows []match.Row, editing map[string]struct{}, snapshots map[string]MetadataSnapshot) []Group {
	byKey := make(map[string]*Group)
	order := make([]string, 0)

	upsert := func(key string) *Group {
		if g, ok := byKey[key]; ok {
			return g
		}
		g := &Group{Key: key, Rows: []match.Row{}}
		byKey[key] = g
		order = append(order, key)
		return g
	}

	for _, row := range rows {
		key := row.SessionID
		if key == "" {
			key = row.Date
		}

		g := upsert(key)
		if row.SessionID != "" {
			g.SessionID = row.SessionID
		} else {
			g.Date = row.Date
		}
		if row.SessionName != "" {
			g.Name = row.SessionName
		}
		if row.SessionStatus != "" {
			g.Status = row.SessionStatus
		}
		if row.CreatedAt != nil {
			g.CreatedAt = row.CreatedAt
		}
		if row.Date != "" {
			g.Date = row.Date
		}
		g.Rows = append(g.Rows, row)
	}

	for sessionID := range editing {
		g := upsert(sessionID)
		g.SessionID = sessionID
		g.Editing = true

		snap, ok := snapshots[sessionID]
		if !ok {
			continue
		}
		if g.Name == "" {
			g.Name = snap.Name
		}
		if g.Status == "" {
			g.Status = snap.Status
		}
		if g.CreatedAt == nil {
			g.CreatedAt = snap.CreatedAt
		}
		if g.UpdatedAt == nil {
			g.UpdatedAt = snap.UpdatedAt
		}
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		g := byKey[key]
		if g.Name == "" {
			if g.SessionID != "" {
				g.Name = g.SessionID
			} else {
				g.Name = g.Date
			}
		}
		groups = append(groups, *g)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groupLess(groups[i], groups[j])
	})

	return groups
}

var sessionNumberPattern = regexp.MustCompile(`(?i)session\s*#?\s*(\d+)\s*$`)

var nameDateLayouts = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
}

// groupDate resolves the sort date for a group as a date-only string, or ""
// when no date can be derived.
func groupDate(g Group) string {
	if g.CreatedAt != nil {
		return g.CreatedAt.Format("2006-01-02")
	}
	if g.UpdatedAt != nil {
		return g.UpdatedAt.Format("2006-01-02")
	}
	for _, candidate := range []string{g.Name, strings.TrimPrefix(g.Name, "Session "), g.Date} {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		for _, layout := range nameDateLayouts {
			if t, err := time.Parse(layout, candidate); err == nil {
				return t.Format("2006-01-02")
			}
		}
	}
	return ""
}

func sessionNumber(name string) (int, bool) {
	m := sessionNumberPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// groupLess orders groups newest first. Undated groups sort after all dated
// ones and fall back to name order among themselves.
func groupLess(a, b Group) bool {
	dateA, dateB := groupDate(a), groupDate(b)

	if dateA == "" || dateB == "" {
		if dateA != dateB {
			return dateA != ""
		}
		return a.Name < b.Name
	}

	if dateA != dateB {
		return dateA > dateB
	}

	switch {
	case a.CreatedAt != nil && b.CreatedAt == nil:
		return true
	case a.CreatedAt == nil && b.CreatedAt != nil:
		return false
	case a.CreatedAt != nil && b.CreatedAt != nil && !a.CreatedAt.Equal(*b.CreatedAt):
		return a.CreatedAt.After(*b.CreatedAt)
	}

	numA, okA := sessionNumber(a.Name)
	numB, okB := sessionNumber(b.Name)
	if okA && okB && numA != numB {
		return numA > numB
	}
	if okA != okB {
		return okA
	}

	return a.Name > b.Name
}
