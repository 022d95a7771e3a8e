package leagueapi

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/courtside/matchday/internal/domain/match"
	"github.com/courtside/matchday/internal/domain/session"
	"github.com/courtside/matchday/internal/platform/id"
	"github.com/courtside/matchday/internal/platform/logging"
	"github.com/courtside/matchday/internal/platform/resilience"
	"github.com/courtside/matchday/internal/usecase"
)

const defaultBaseURL = "https://api.courtside.gg/v1"

var errLeagueAPITransient = crerr.New("league api transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	IDGenerator    id.Generator
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the remote league backend. Reads are retried with linear
// backoff, collapsed per URL across concurrent callers, and guarded by a
// circuit breaker shared with the write path.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	logger         *logging.Logger
	ids            id.Generator
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	ids := cfg.IDGenerator
	if ids == nil {
		ids = id.NewRandomGenerator()
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     max(cfg.MaxRetries, 0),
		logger:         logger,
		ids:            ids,
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type playerRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type matchRecord struct {
	ID           string        `json:"id,omitempty"`
	SessionID    string        `json:"session_id,omitempty"`
	SeasonID     string        `json:"season_id,omitempty"`
	LeagueID     string        `json:"league_id,omitempty"`
	Date         string        `json:"date,omitempty"`
	Team1Player1 *playerRecord `json:"team1_player1"`
	Team1Player2 *playerRecord `json:"team1_player2"`
	Team2Player1 *playerRecord `json:"team2_player1"`
	Team2Player2 *playerRecord `json:"team2_player2"`
	Team1Score   int           `json:"team1_score"`
	Team2Score   int           `json:"team2_score"`
	Ranked       bool          `json:"ranked"`
	Public       bool          `json:"public"`

	RatingChanges    map[string]float64 `json:"rating_changes,omitempty"`
	Team1RatingDelta float64            `json:"team1_rating_delta,omitempty"`
	Team2RatingDelta float64            `json:"team2_rating_delta,omitempty"`

	SessionName   string     `json:"session_name,omitempty"`
	SessionStatus string     `json:"session_status,omitempty"`
	CreatedBy     string     `json:"created_by,omitempty"`
	UpdatedBy     string     `json:"updated_by,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

type sessionRecord struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Status    string     `json:"status"`
	SeasonID  string     `json:"season_id"`
	LeagueID  string     `json:"league_id"`
	CreatedBy string     `json:"created_by,omitempty"`
	UpdatedBy string     `json:"updated_by,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type seasonRecord struct {
	ID        string `json:"id"`
	LeagueID  string `json:"league_id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

type matchEnvelope struct {
	Data matchRecord `json:"data"`
}

type matchListEnvelope struct {
	Data []matchRecord `json:"data"`
}

type sessionEnvelope struct {
	Data sessionRecord `json:"data"`
}

type sessionListEnvelope struct {
	Data []sessionRecord `json:"data"`
}

type seasonListEnvelope struct {
	Data []seasonRecord `json:"data"`
}

type seasonStatsEnvelope struct {
	Data struct {
		SeasonID     string  `json:"season_id"`
		MatchCount   int     `json:"match_count"`
		PlayerCount  int     `json:"player_count"`
		AvgPointDiff float64 `json:"avg_point_diff"`
	} `json:"data"`
}

type rankingListEnvelope struct {
	Data []struct {
		PlayerID string  `json:"player_id"`
		Name     string  `json:"name"`
		Rating   float64 `json:"rating"`
		Rank     int     `json:"rank"`
		Wins     int     `json:"wins"`
		Losses   int     `json:"losses"`
	} `json:"data"`
}

func toPlayerRecord(p *match.Player) *playerRecord {
	if p == nil {
		return nil
	}
	return &playerRecord{ID: p.ID, Name: p.Name}
}

func fromPlayerRecord(p *playerRecord) *match.Player {
	if p == nil {
		return nil
	}
	return &match.Player{ID: p.ID, Name: p.Name}
}

func toMatchRecord(m match.Match) matchRecord {
	return matchRecord{
		ID:            m.ID,
		SessionID:     m.SessionID,
		SeasonID:      m.SeasonID,
		LeagueID:      m.LeagueID,
		Date:          m.Date,
		Team1Player1:  toPlayerRecord(m.Team1Player1),
		Team1Player2:  toPlayerRecord(m.Team1Player2),
		Team2Player1:  toPlayerRecord(m.Team2Player1),
		Team2Player2:  toPlayerRecord(m.Team2Player2),
		Team1Score:    m.Team1Score,
		Team2Score:    m.Team2Score,
		Ranked:        m.Ranked,
		Public:        m.Public,
		SessionName:   m.SessionName,
		SessionStatus: m.SessionStatus,
	}
}

// fromMatchRecord maps a wire record to the domain and resolves the rating
// source tag once, here at the ingestion boundary: records carrying a
// per-player rating map are live session data, everything else is persisted
// season data with precomputed team deltas.
func fromMatchRecord(rec matchRecord) match.Match {
	source := match.SourcePersisted
	if rec.RatingChanges != nil {
		source = match.SourceLive
	}

	return match.Match{
		ID:               rec.ID,
		SessionID:        rec.SessionID,
		SeasonID:         rec.SeasonID,
		LeagueID:         rec.LeagueID,
		Date:             rec.Date,
		Team1Player1:     fromPlayerRecord(rec.Team1Player1),
		Team1Player2:     fromPlayerRecord(rec.Team1Player2),
		Team2Player1:     fromPlayerRecord(rec.Team2Player1),
		Team2Player2:     fromPlayerRecord(rec.Team2Player2),
		Team1Score:       rec.Team1Score,
		Team2Score:       rec.Team2Score,
		Ranked:           rec.Ranked,
		Public:           rec.Public,
		Source:           source,
		RatingChanges:    rec.RatingChanges,
		Team1RatingDelta: rec.Team1RatingDelta,
		Team2RatingDelta: rec.Team2RatingDelta,
		SessionName:      rec.SessionName,
		SessionStatus:    rec.SessionStatus,
		CreatedBy:        rec.CreatedBy,
		UpdatedBy:        rec.UpdatedBy,
		CreatedAt:        rec.CreatedAt,
		UpdatedAt:        rec.UpdatedAt,
	}
}

func fromSessionRecord(rec sessionRecord) session.Session {
	return session.Session{
		ID:        rec.ID,
		Name:      rec.Name,
		Status:    rec.Status,
		SeasonID:  rec.SeasonID,
		LeagueID:  rec.LeagueID,
		CreatedBy: rec.CreatedBy,
		UpdatedBy: rec.UpdatedBy,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

func (c *Client) CreateMatch(ctx context.Context, m match.Match) (match.Match, error) {
	var envelope matchEnvelope
	if err := c.doWrite(ctx, http.MethodPost, "/matches", toMatchRecord(m), &envelope); err != nil {
		return match.Match{}, err
	}
	return fromMatchRecord(envelope.Data), nil
}

func (c *Client) UpdateMatch(ctx context.Context, matchID string, m match.Match) (match.Match, error) {
	var envelope matchEnvelope
	if err := c.doWrite(ctx, http.MethodPut, "/matches/"+url.PathEscape(matchID), toMatchRecord(m), &envelope); err != nil {
		return match.Match{}, err
	}
	return fromMatchRecord(envelope.Data), nil
}

func (c *Client) DeleteMatch(ctx context.Context, matchID string) error {
	return c.doWrite(ctx, http.MethodDelete, "/matches/"+url.PathEscape(matchID), nil, nil)
}

func (c *Client) LockInSession(ctx context.Context, leagueID, sessionID string) error {
	path := "/leagues/" + url.PathEscape(leagueID) + "/sessions/" + url.PathEscape(sessionID) + "/lock-in"
	return c.doWrite(ctx, http.MethodPost, path, nil, nil)
}

// GetSeasonMatches treats a 404 as "no matches yet" and returns an empty
// list.
func (c *Client) GetSeasonMatches(ctx context.Context, seasonID string) ([]match.Match, error) {
	var envelope matchListEnvelope
	err := c.doJSON(ctx, "/seasons/"+url.PathEscape(seasonID)+"/matches", nil, &envelope)
	if err != nil {
		if stderrors.Is(err, usecase.ErrNotFound) {
			return []match.Match{}, nil
		}
		return nil, err
	}

	matches := make([]match.Match, 0, len(envelope.Data))
	for _, rec := range envelope.Data {
		matches = append(matches, fromMatchRecord(rec))
	}
	return matches, nil
}

func (c *Client) GetSessions(ctx context.Context, leagueID string) ([]session.Session, error) {
	var envelope sessionListEnvelope
	if err := c.doJSON(ctx, "/leagues/"+url.PathEscape(leagueID)+"/sessions", nil, &envelope); err != nil {
		return nil, err
	}

	sessions := make([]session.Session, 0, len(envelope.Data))
	for _, rec := range envelope.Data {
		sessions = append(sessions, fromSessionRecord(rec))
	}
	return sessions, nil
}

// GetActiveSession returns nil when the league has no active session.
func (c *Client) GetActiveSession(ctx context.Context, leagueID string) (*session.Session, error) {
	var envelope sessionEnvelope
	err := c.doJSON(ctx, "/leagues/"+url.PathEscape(leagueID)+"/sessions/active", nil, &envelope)
	if err != nil {
		if stderrors.Is(err, usecase.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	active := fromSessionRecord(envelope.Data)
	return &active, nil
}

func (c *Client) GetSeasons(ctx context.Context, leagueID string) ([]usecase.Season, error) {
	var envelope seasonListEnvelope
	if err := c.doJSON(ctx, "/leagues/"+url.PathEscape(leagueID)+"/seasons", nil, &envelope); err != nil {
		return nil, err
	}

	seasons := make([]usecase.Season, 0, len(envelope.Data))
	for _, rec := range envelope.Data {
		seasons = append(seasons, usecase.Season{
			ID:        rec.ID,
			LeagueID:  rec.LeagueID,
			Name:      rec.Name,
			StartDate: rec.StartDate,
			EndDate:   rec.EndDate,
		})
	}
	return seasons, nil
}

func (c *Client) GetSeasonStats(ctx context.Context, seasonID string) (usecase.SeasonStats, error) {
	var envelope seasonStatsEnvelope
	if err := c.doJSON(ctx, "/seasons/"+url.PathEscape(seasonID)+"/stats", nil, &envelope); err != nil {
		return usecase.SeasonStats{}, err
	}

	return usecase.SeasonStats{
		SeasonID:     envelope.Data.SeasonID,
		MatchCount:   envelope.Data.MatchCount,
		PlayerCount:  envelope.Data.PlayerCount,
		AvgPointDiff: envelope.Data.AvgPointDiff,
	}, nil
}

func (c *Client) GetRankings(ctx context.Context, seasonID string) ([]usecase.Ranking, error) {
	var envelope rankingListEnvelope
	if err := c.doJSON(ctx, "/seasons/"+url.PathEscape(seasonID)+"/rankings", nil, &envelope); err != nil {
		return nil, err
	}

	rankings := make([]usecase.Ranking, 0, len(envelope.Data))
	for _, rec := range envelope.Data {
		rankings = append(rankings, usecase.Ranking{
			PlayerID: rec.PlayerID,
			Name:     rec.Name,
			Rating:   rec.Rating,
			Rank:     rec.Rank,
			Wins:     rec.Wins,
			Losses:   rec.Losses,
		})
	}
	return rankings, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "league api circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: league backend is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeGet(ctx, fullURL)
		if c.circuitEnabled {
			if isLeagueAPICircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode league payload: %w", err)
	}
	return nil
}

func (c *Client) executeGet(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		c.authorize(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errLeagueAPITransient, c.sanitize(err.Error()))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errLeagueAPITransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusNotFound:
				return nil, fmt.Errorf("%w: %s", usecase.ErrNotFound, fullURL)
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: backend status=%d body=%s", errLeagueAPITransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("backend status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("backend request failed")
	}
	c.logger.WarnContext(ctx, "league api request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

// doWrite performs a mutating call. Writes are never retried: the commit
// protocol owns retry semantics and a blind replay could double-apply a
// create.
func (c *Client) doWrite(ctx context.Context, method, path string, payload, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "league api circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: league backend is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + path

	var body []byte
	if payload != nil {
		encoded, err := sonic.Marshal(payload)
		if err != nil {
			return crerr.Wrap(err, "marshal request payload")
		}
		body = encoded
	}

	c.logger.DebugContext(ctx, "league api write request",
		"method", method,
		"url", fullURL,
		"curl_preview", c.buildCurlPreview(method, fullURL, body),
	)

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bytes.NewReader(body))
	if err != nil {
		return crerr.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		callErr := fmt.Errorf("%w: %s %s: %s", errLeagueAPITransient, method, path, c.sanitize(err.Error()))
		c.recordCircuitResult(callErr)
		return callErr
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
	if resp.StatusCode/100 != 2 {
		var callErr error
		switch {
		case resp.StatusCode == http.StatusNotFound:
			callErr = fmt.Errorf("%w: %s %s", usecase.ErrNotFound, method, path)
		case isRetryableStatus(resp.StatusCode):
			callErr = fmt.Errorf("%w: %s %s status=%d body=%s", errLeagueAPITransient, method, path, resp.StatusCode, abbreviateBody(raw))
		default:
			callErr = fmt.Errorf("%s %s status=%d body=%s", method, path, resp.StatusCode, abbreviateBody(raw))
		}
		c.recordCircuitResult(callErr)
		return callErr
	}
	c.recordCircuitResult(nil)

	if target == nil || len(raw) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode league payload: %w", err)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if requestID, err := c.ids.NewID(); err == nil {
		req.Header.Set("X-Request-ID", requestID)
	}
}

func (c *Client) recordCircuitResult(err error) {
	if !c.circuitEnabled {
		return
	}
	if isLeagueAPICircuitFailure(err) {
		c.breaker.RecordFailure()
		return
	}
	c.breaker.RecordSuccess()
}

func (c *Client) sanitize(value string) string {
	value = strings.TrimSpace(value)
	if c.token != "" {
		value = strings.ReplaceAll(value, c.token, "REDACTED")
	}
	return value
}

func (c *Client) buildCurlPreview(method, fullURL string, body []byte) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("curl -X ")
	_, _ = buf.WriteString(method)
	_, _ = buf.WriteString(" '")
	_, _ = buf.WriteString(fullURL)
	_, _ = buf.WriteString("' -H 'Content-Type: application/json'")
	if c.token != "" {
		_, _ = buf.WriteString(" -H 'Authorization: Bearer REDACTED'")
	}
	if len(body) > 0 {
		_, _ = buf.WriteString(" -d '")
		_, _ = buf.WriteString(truncateForLog(string(body), 4096))
		_, _ = buf.WriteString("'")
	}

	return buf.String()
}

func isLeagueAPICircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errLeagueAPITransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func truncateForLog(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	return value[:limit] + "..."
}
