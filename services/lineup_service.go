package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/onetoc/onetoc-backend/models"
	"github.com/onetoc/onetoc-backend/repositories"
)

// MaxStarters is the hard cap on the starting lineup.
const MaxStarters = 11

type LineupList string

const (
	ListStarters    LineupList = "starters"
	ListSubstitutes LineupList = "substitutes"
)

// LineupState is the in-memory lineup of one match: two disjoint player
// sets, order preserved.
type LineupState struct {
	Starters    []int `json:"starters"`
	Substitutes []int `json:"substitutes"`
}

// MoveResult reports where a player actually landed. Redirected is set when
// a move into a full starters list was diverted to the substitutes; the move
// still happens, the caller surfaces the rejection.
type MoveResult struct {
	State      LineupState `json:"state"`
	Landed     LineupList  `json:"landed"`
	Redirected bool        `json:"redirected"`
}

func (s LineupState) contains(list LineupList, playerID int) bool {
	for _, id := range s.members(list) {
		if id == playerID {
			return true
		}
	}
	return false
}

func (s LineupState) members(list LineupList) []int {
	if list == ListStarters {
		return s.Starters
	}
	return s.Substitutes
}

func removeID(ids []int, playerID int) []int {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if id != playerID {
			out = append(out, id)
		}
	}
	return out
}

// ApplyMove transfers a player between lists, enforcing the starters cap.
// It is a pure function over LineupState so the invariant is testable
// independently of the input gesture (drag, button, API call).
func ApplyMove(state LineupState, playerID int, target LineupList) (MoveResult, error) {
	if target != ListStarters && target != ListSubstitutes {
		return MoveResult{}, ErrUnknownLineupList
	}
	if state.contains(target, playerID) {
		return MoveResult{State: state, Landed: target}, nil
	}

	next := LineupState{
		Starters:    removeID(state.Starters, playerID),
		Substitutes: removeID(state.Substitutes, playerID),
	}

	landed := target
	redirected := false
	if target == ListStarters && len(next.Starters) >= MaxStarters {
		landed = ListSubstitutes
		redirected = true
	}

	if landed == ListStarters {
		next.Starters = append(next.Starters, playerID)
	} else {
		next.Substitutes = append(next.Substitutes, playerID)
	}

	return MoveResult{State: next, Landed: landed, Redirected: redirected}, nil
}

type LineupService interface {
	GetLineup(ctx context.Context, matchID int) ([]*models.LineupSlot, error)
	// SetLineup replaces the whole assignment; assignments beyond the
	// starters cap are redirected to substitutes, not dropped.
	SetLineup(ctx context.Context, matchID int, input SetLineupInput) (*MoveResult, error)
	// MovePlayer applies a single transfer gesture.
	MovePlayer(ctx context.Context, matchID int, playerID int, target LineupList) (*MoveResult, error)
}

type SetLineupInput struct {
	Starters    []int `json:"starters"`
	Substitutes []int `json:"substitutes"`
}

type lineupService struct {
	lineupRepo repositories.LineupRepository
	playerRepo repositories.PlayerRepository
	matchRepo  repositories.MatchRepository
}

func NewLineupService(
	lineupRepo repositories.LineupRepository,
	playerRepo repositories.PlayerRepository,
	matchRepo repositories.MatchRepository,
) LineupService {
	return &lineupService{
		lineupRepo: lineupRepo,
		playerRepo: playerRepo,
		matchRepo:  matchRepo,
	}
}

func (s *lineupService) GetLineup(ctx context.Context, matchID int) ([]*models.LineupSlot, error) {
	if _, err := s.matchRepo.GetByID(ctx, matchID); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return s.lineupRepo.ListByMatch(ctx, matchID)
}

func (s *lineupService) SetLineup(ctx context.Context, matchID int, input SetLineupInput) (*MoveResult, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	for _, playerID := range append(append([]int{}, input.Starters...), input.Substitutes...) {
		if err := s.checkRoster(ctx, match, playerID); err != nil {
			return nil, err
		}
	}

	// Every assignment funnels through ApplyMove so both paths share the
	// capacity check.
	result := MoveResult{}
	for _, playerID := range input.Starters {
		moved, err := ApplyMove(result.State, playerID, ListStarters)
		if err != nil {
			return nil, err
		}
		result.State = moved.State
		result.Redirected = result.Redirected || moved.Redirected
	}
	for _, playerID := range input.Substitutes {
		moved, err := ApplyMove(result.State, playerID, ListSubstitutes)
		if err != nil {
			return nil, err
		}
		result.State = moved.State
	}

	if err := s.persist(ctx, matchID, result.State); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *lineupService) MovePlayer(ctx context.Context, matchID int, playerID int, target LineupList) (*MoveResult, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	if err := s.checkRoster(ctx, match, playerID); err != nil {
		return nil, err
	}

	slots, err := s.lineupRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	state := LineupState{}
	for _, slot := range slots {
		if slot.IsStarter {
			state.Starters = append(state.Starters, slot.PlayerID)
		} else {
			state.Substitutes = append(state.Substitutes, slot.PlayerID)
		}
	}

	result, err := ApplyMove(state, playerID, target)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, matchID, result.State); err != nil {
		return nil, err
	}
	return &result, nil
}

// checkRoster допускает в состав только игроков команды матча.
func (s *lineupService) checkRoster(ctx context.Context, match *models.Match, playerID int) error {
	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotInRoster
		}
		return err
	}
	if player.TeamID != match.TeamID {
		return ErrPlayerNotInRoster
	}
	return nil
}

func (s *lineupService) persist(ctx context.Context, matchID int, state LineupState) error {
	slots := make([]*models.LineupSlot, 0, len(state.Starters)+len(state.Substitutes))
	for _, playerID := range state.Starters {
		slots = append(slots, &models.LineupSlot{PlayerID: playerID, IsStarter: true})
	}
	for _, playerID := range state.Substitutes {
		slots = append(slots, &models.LineupSlot{PlayerID: playerID, IsStarter: false})
	}
	if err := s.lineupRepo.ReplaceForMatch(ctx, matchID, slots); err != nil {
		return fmt.Errorf("failed to persist lineup for match %d: %w", matchID, err)
	}
	return nil
}
