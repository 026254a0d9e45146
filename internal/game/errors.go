package game

import "errors"

// Errors returned by room operations. All are recoverable: the command
// is rejected and no room state is mutated.
var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrGameInProgress      = errors.New("game already in progress")
	ErrNotHost             = errors.New("only the host can do that")
	ErrNotEnoughPlayers    = errors.New("need at least 2 players to start")
	ErrNotYourTurn         = errors.New("not your turn")
	ErrInvalidBet          = errors.New("invalid bet amount")
	ErrInvalidAction       = errors.New("invalid action")
	ErrInsufficientBalance = errors.New("not enough balance")
	ErrInvalidPhase        = errors.New("invalid phase for this action")
	ErrHandNotFound        = errors.New("hand not found")
)
