package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/courtside/matchday/external/leagueapi"
	"github.com/courtside/matchday/internal/config"
	"github.com/courtside/matchday/internal/interfaces/httpapi"
	"github.com/courtside/matchday/internal/platform/cache"
	"github.com/courtside/matchday/internal/platform/logging"
	"github.com/courtside/matchday/internal/platform/resilience"
	"github.com/courtside/matchday/internal/usecase"
)

// App bundles the HTTP server with the background loops it owns.
type App struct {
	Server *http.Server
	poll   *usecase.PollService
	cfg    config.Config
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	backend := leagueapi.NewClient(leagueapi.ClientConfig{
		BaseURL:    cfg.LeagueAPIBaseURL,
		Token:      cfg.LeagueAPIToken,
		Timeout:    cfg.LeagueAPITimeout,
		MaxRetries: cfg.LeagueAPIMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.LeagueAPICircuitEnabled,
			FailureThreshold: cfg.LeagueAPICircuitFailureCount,
			OpenTimeout:      cfg.LeagueAPICircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.LeagueAPICircuitHalfOpenMax,
		},
	})

	store := cache.NewStore(cfg.CacheTTL)

	editSvc := usecase.NewEditService(backend, nil, logger)
	boardSvc := usecase.NewBoardService(backend, editSvc, store, logger, cfg.LeagueID, cfg.PlaceholderPlayerIDs)
	refreshSvc := usecase.NewRefreshService(backend, store, boardSvc, logger, cfg.LeagueID, cfg.StatsRefreshDelay, cfg.RefreshMaxWorkers)
	editSvc.SetRefresher(refreshSvc)

	var pollSvc *usecase.PollService
	if cfg.PollEnabled {
		pollSvc = usecase.NewPollService(backend, store, boardSvc, logger, cfg.LeagueID, cfg.PollInterval)
	}

	handler := httpapi.NewHandler(editSvc, boardSvc, cfg.LeagueID, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &App{Server: server, poll: pollSvc, cfg: cfg}, nil
}

// StartBackground launches the polling loop; it stops when ctx is cancelled.
func (a *App) StartBackground(ctx context.Context) {
	if a.poll == nil {
		return
	}
	go a.poll.Run(ctx)
}
