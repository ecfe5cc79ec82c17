package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/onetoc/onetoc-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyMoveBetweenLists(t *testing.T) {
	state := LineupState{Starters: []int{1, 2}, Substitutes: []int{3}}

	result, err := ApplyMove(state, 3, ListStarters)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, result.State.Starters)
	assert.Empty(t, result.State.Substitutes)
	assert.Equal(t, ListStarters, result.Landed)
	assert.False(t, result.Redirected)

	result, err = ApplyMove(result.State, 1, ListSubstitutes)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, result.State.Starters)
	assert.Equal(t, []int{1}, result.State.Substitutes)
}

func TestApplyMoveRedirectsWhenStartersFull(t *testing.T) {
	state := LineupState{}
	for id := 1; id <= MaxStarters; id++ {
		moved, err := ApplyMove(state, id, ListStarters)
		require.NoError(t, err)
		state = moved.State
		assert.False(t, moved.Redirected)
	}
	require.Len(t, state.Starters, MaxStarters)

	result, err := ApplyMove(state, 12, ListStarters)
	require.NoError(t, err)
	assert.True(t, result.Redirected)
	assert.Equal(t, ListSubstitutes, result.Landed)
	assert.Len(t, result.State.Starters, MaxStarters)
	assert.Equal(t, []int{12}, result.State.Substitutes)
}

func TestApplyMoveNeverExceedsCapUnderAnySequence(t *testing.T) {
	state := LineupState{}
	for id := 1; id <= 30; id++ {
		target := ListStarters
		if id%3 == 0 {
			target = ListSubstitutes
		}
		moved, err := ApplyMove(state, id, target)
		require.NoError(t, err)
		state = moved.State
		assert.LessOrEqual(t, len(state.Starters), MaxStarters)
	}
	// Every player landed somewhere: no silent drops.
	assert.Equal(t, 30, len(state.Starters)+len(state.Substitutes))
}

func TestApplyMoveIdempotentWithinList(t *testing.T) {
	state := LineupState{Starters: []int{5}}
	result, err := ApplyMove(state, 5, ListStarters)
	require.NoError(t, err)
	assert.Equal(t, []int{5}, result.State.Starters)
}

func TestApplyMoveUnknownList(t *testing.T) {
	_, err := ApplyMove(LineupState{}, 1, LineupList("bench"))
	assert.ErrorIs(t, err, ErrUnknownLineupList)
}

func newLineupFixture() (LineupService, *fakeLineupRepo) {
	lineupRepo := &fakeLineupRepo{}
	playerRepo := &fakePlayerRepo{players: map[int]*models.Player{}}
	for id := 1; id <= 14; id++ {
		playerRepo.players[id] = &models.Player{ID: id, TeamID: 10, Name: fmt.Sprintf("player %d", id)}
	}
	// Чужой игрок: существует, но играет за другую команду.
	playerRepo.players[50] = &models.Player{ID: 50, TeamID: 99, Name: "outsider"}
	matchRepo := newFakeMatchRepo(&models.Match{ID: 1, TeamID: 10})
	return NewLineupService(lineupRepo, playerRepo, matchRepo), lineupRepo
}

func TestSetLineupRedirectsOverflow(t *testing.T) {
	service, _ := newLineupFixture()

	input := SetLineupInput{}
	for id := 1; id <= 13; id++ {
		input.Starters = append(input.Starters, id)
	}

	result, err := service.SetLineup(context.Background(), 1, input)
	require.NoError(t, err)
	assert.True(t, result.Redirected)
	assert.Len(t, result.State.Starters, MaxStarters)
	assert.Equal(t, []int{12, 13}, result.State.Substitutes)
}

func TestMovePlayerFunnelsThroughCapacityCheck(t *testing.T) {
	service, _ := newLineupFixture()
	ctx := context.Background()

	input := SetLineupInput{}
	for id := 1; id <= 11; id++ {
		input.Starters = append(input.Starters, id)
	}
	input.Substitutes = []int{12}
	_, err := service.SetLineup(ctx, 1, input)
	require.NoError(t, err)

	result, err := service.MovePlayer(ctx, 1, 12, ListStarters)
	require.NoError(t, err)
	assert.True(t, result.Redirected)
	assert.Len(t, result.State.Starters, MaxStarters)
	assert.Contains(t, result.State.Substitutes, 12)
}

func TestMovePlayerRejectsPlayerFromAnotherTeam(t *testing.T) {
	service, lineupRepo := newLineupFixture()

	_, err := service.MovePlayer(context.Background(), 1, 50, ListStarters)
	assert.ErrorIs(t, err, ErrPlayerNotInRoster)
	assert.Empty(t, lineupRepo.slots)
}

func TestSetLineupRejectsPlayerFromAnotherTeam(t *testing.T) {
	service, lineupRepo := newLineupFixture()

	input := SetLineupInput{Starters: []int{1, 2}, Substitutes: []int{50}}
	_, err := service.SetLineup(context.Background(), 1, input)
	assert.ErrorIs(t, err, ErrPlayerNotInRoster)
	assert.Empty(t, lineupRepo.slots)
}

func TestMovePlayerUnknownPlayer(t *testing.T) {
	service, _ := newLineupFixture()

	_, err := service.MovePlayer(context.Background(), 1, 999, ListStarters)
	assert.ErrorIs(t, err, ErrPlayerNotInRoster)
}

func TestMovePlayerUnknownMatch(t *testing.T) {
	service, _ := newLineupFixture()

	_, err := service.MovePlayer(context.Background(), 9, 1, ListStarters)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}
