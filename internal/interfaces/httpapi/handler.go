package httpapi

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/courtside/matchday/internal/domain/match"
	"github.com/courtside/matchday/internal/platform/logging"
	"github.com/courtside/matchday/internal/usecase"
)

type Handler struct {
	editService  *usecase.EditService
	boardService *usecase.BoardService
	leagueID     string
	logger       *logging.Logger
	validator    *validator.Validate
}

func NewHandler(
	editService *usecase.EditService,
	boardService *usecase.BoardService,
	leagueID string,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		editService:  editService,
		boardService: boardService,
		leagueID:     leagueID,
		logger:       logger,
		validator:    validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type playerRequest struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required,max=100"`
}

type matchRequest struct {
	Date         string         `json:"date" validate:"omitempty,max=40"`
	SeasonID     string         `json:"season_id" validate:"omitempty,max=64"`
	Team1Player1 *playerRequest `json:"team1_player1" validate:"omitempty"`
	Team1Player2 *playerRequest `json:"team1_player2" validate:"omitempty"`
	Team2Player1 *playerRequest `json:"team2_player1" validate:"omitempty"`
	Team2Player2 *playerRequest `json:"team2_player2" validate:"omitempty"`
	Team1Score   int            `json:"team1_score" validate:"gte=0"`
	Team2Score   int            `json:"team2_score" validate:"gte=0"`
	Ranked       bool           `json:"ranked"`
	Public       bool           `json:"public"`
}

type seasonFilterRequest struct {
	SeasonID string `json:"season_id" validate:"omitempty,max=64"`
}

func toPlayer(p *playerRequest) *match.Player {
	if p == nil {
		return nil
	}
	return &match.Player{ID: p.ID, Name: p.Name}
}

func (r matchRequest) toMatch() match.Match {
	return match.Match{
		Date:         r.Date,
		SeasonID:     r.SeasonID,
		Team1Player1: toPlayer(r.Team1Player1),
		Team1Player2: toPlayer(r.Team1Player2),
		Team2Player1: toPlayer(r.Team2Player1),
		Team2Player2: toPlayer(r.Team2Player2),
		Team1Score:   r.Team1Score,
		Team2Score:   r.Team2Score,
		Ranked:       r.Ranked,
		Public:       r.Public,
		Source:       match.SourceLive,
	}
}
