package game

import "errors"

// Stage represents the phase of a hand
type Stage int

const (
	Setup Stage = iota
	PreFlop
	Flop
	Turn
	River
	Showdown
)

func (s Stage) String() string {
	return [...]string{"setup", "preflop", "flop", "turn", "river", "showdown"}[s]
}

// revealed returns how many community cards are visible at this stage
func (s Stage) revealed() int {
	switch s {
	case Flop:
		return 3
	case Turn:
		return 4
	case River, Showdown:
		return 5
	default:
		return 0
	}
}

// Action represents a player action
type Action int

const (
	Check Action = iota
	Call
	Bet
	Raise
	AllIn
	Fold
)

func (a Action) String() string {
	return [...]string{"check", "call", "bet", "raise", "allin", "fold"}[a]
}

// Sentinel errors returned to the transport layer. None of these mutate
// state: an out-of-turn action is ignored and an invalid amount re-prompts
// the same actor. Expected flow (fold-outs, all-ins, short stacks) never
// produces an error.
var (
	// ErrNotYourTurn is a protocol violation: the actor is not the player
	// whose turn it is. Callers should drop the action silently.
	ErrNotYourTurn = errors.New("not your turn")

	// ErrInvalidAmount covers bets below the current bet to match and
	// malformed or negative amounts.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrNotEnoughPlayers means fewer than two seated players meet the
	// minimum buy-in.
	ErrNotEnoughPlayers = errors.New("not enough eligible players")

	// ErrTableFull means all seats are taken.
	ErrTableFull = errors.New("table is full")

	// ErrAlreadyJoined means the player already holds a seat.
	ErrAlreadyJoined = errors.New("player already joined")

	// ErrHandInProgress rejects operations that may only happen between
	// hands, such as joining or changing stakes.
	ErrHandInProgress = errors.New("hand in progress")

	// ErrNoHandInProgress rejects betting actions when no hand is live.
	ErrNoHandInProgress = errors.New("no hand in progress")

	// ErrBelowBuyIn rejects balance changes below the minimum buy-in.
	ErrBelowBuyIn = errors.New("balance below minimum buy-in")

	// ErrInvalidStakes rejects non-positive small blind values.
	ErrInvalidStakes = errors.New("invalid stakes")

	// ErrUnknownPlayer means the identity holds no seat at this table.
	ErrUnknownPlayer = errors.New("unknown player")
)
