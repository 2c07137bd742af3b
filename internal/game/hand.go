package game

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/delminho/tabletop-holdem/poker"
)

// HandState is the state machine for a single hand. Players sit in rotation
// order with the small blind first; a cursor walks the rotation and a
// closing marker records the seat whose turn, if reached with no
// intervening raise, ends the betting stage.
//
// All five community cards are drawn up front, with a burn before the flop,
// turn and river; the stage controls how many are revealed.
type HandState struct {
	id      string
	num     int
	players []*Player
	stage   Stage
	board   []poker.Card
	pot     int

	currentBet    int
	cursor        int
	closingMarker int

	smallBlind int
	bigBlind   int

	complete bool
	awards   []Award

	logger *log.Logger
	events EventBus
}

// newHandState deals a hand to the given players (rotation order, small
// blind first) and posts the blinds. A blind that exceeds a player's stack
// puts them all-in, same as any other wager.
func newHandState(id string, num int, players []*Player, deck *poker.Deck, smallBlind, bigBlind int, logger *log.Logger, events EventBus) *HandState {
	h := &HandState{
		id:         id,
		num:        num,
		players:    players,
		stage:      PreFlop,
		smallBlind: smallBlind,
		bigBlind:   bigBlind,
		logger:     logger,
		events:     events,
	}

	for _, p := range players {
		p.beginHand()
	}

	// One card per player per pass, the way a live dealer does it.
	for pass := 0; pass < 2; pass++ {
		for _, p := range players {
			p.HoleCards = append(p.HoleCards, deck.DealOne())
		}
	}
	deck.Burn()
	h.board = deck.Deal(3)
	deck.Burn()
	h.board = append(h.board, deck.DealOne())
	deck.Burn()
	h.board = append(h.board, deck.DealOne())

	h.events.Publish(NewHandStartEvent(id, num, players, smallBlind, bigBlind))

	// Blinds post in seat order. placeChips treats the big blind as a
	// raise and moves the marker, so the marker is fixed afterwards: the
	// big blind acts last this stage.
	h.cursor = 0
	h.placeChips(players[0], smallBlind)
	h.advanceCursor()
	h.placeChips(h.players[h.cursor], bigBlind)
	h.advanceCursor()
	h.closingMarker = h.cursor

	// Blinds can put everyone all-in before anyone gets a turn.
	if h.countCanAct() == 0 {
		h.fastForward()
	}

	return h
}

// ID returns the hand's identifier
func (h *HandState) ID() string {
	return h.id
}

// Stage returns the current stage
func (h *HandState) Stage() Stage {
	return h.stage
}

// Pot returns the chips wagered so far this hand
func (h *HandState) Pot() int {
	return h.pot
}

// CurrentBet returns the stage contribution each acting player must match
func (h *HandState) CurrentBet() int {
	return h.currentBet
}

// Complete returns true once the pot has been distributed
func (h *HandState) Complete() bool {
	return h.complete
}

// Awards returns the settlement results, nil while the hand is live
func (h *HandState) Awards() []Award {
	return h.awards
}

// CommunityCards returns the board cards revealed at the current stage
func (h *HandState) CommunityCards() []poker.Card {
	return h.board[:h.stage.revealed()]
}

// PlayerToAct returns the player whose turn it is, or nil when the hand is
// complete.
func (h *HandState) PlayerToAct() *Player {
	if h.complete {
		return nil
	}
	return h.players[h.cursor]
}

// PriceToCall returns what the player owes to stay in, capped at their
// remaining stack. A price equal to the whole stack forces an implicit
// all-in on call.
func (h *HandState) PriceToCall(p *Player) int {
	price := h.currentBet - p.StageBet
	if price < 0 {
		price = 0
	}
	if price > p.Chips {
		price = p.Chips
	}
	return price
}

// Act processes an action from the given player. Only the player under the
// turn cursor may act; anyone else gets ErrNotYourTurn and no state
// changes. Bet and Raise amounts are the total stage contribution the
// player wants to reach ("raise to"), and must at least match the current
// bet. A wager covering the whole stack goes all-in implicitly.
func (h *HandState) Act(playerID string, action Action, amount int) error {
	if h.complete {
		return ErrNoHandInProgress
	}
	p := h.players[h.cursor]
	if p.ID != playerID {
		return ErrNotYourTurn
	}

	wagered := 0
	switch action {
	case Fold:
		p.Folded = true

	case Check:
		if p.StageBet != h.currentBet {
			return fmt.Errorf("%w: cannot check facing a bet of %d", ErrInvalidAmount, h.currentBet)
		}

	case Call:
		wagered = h.placeChips(p, h.PriceToCall(p))

	case Bet, Raise:
		if amount < h.currentBet {
			return fmt.Errorf("%w: %d is below the current bet of %d", ErrInvalidAmount, amount, h.currentBet)
		}
		if amount < p.StageBet {
			return fmt.Errorf("%w: %d is below the %d already wagered", ErrInvalidAmount, amount, p.StageBet)
		}
		wagered = h.placeChips(p, amount-p.StageBet)

	case AllIn:
		wagered = h.placeChips(p, p.Chips)

	default:
		return fmt.Errorf("%w: unknown action", ErrInvalidAmount)
	}

	h.events.Publish(NewPlayerActionEvent(p, action, wagered, h.stage, h.pot))

	if action == Fold && h.countInHand() == 1 {
		h.finish()
		return nil
	}

	h.advance()
	return nil
}

// forceFold folds a player out of turn, for disconnects and players
// leaving mid-hand.
func (h *HandState) forceFold(p *Player) {
	if h.complete || p.Folded {
		return
	}

	p.Folded = true
	h.events.Publish(NewPlayerActionEvent(p, Fold, 0, h.stage, h.pot))

	if h.countInHand() == 1 {
		h.finish()
		return
	}
	if h.players[h.cursor] == p {
		h.advance()
	}
}

// placeChips moves chips from the player's stack into the pot and returns
// the amount actually wagered. Wagering the whole stack records the
// player's all-in depth. A contribution exceeding the current bet is a
// raise: it updates the bet to match and makes this player the new closing
// marker, re-opening action for players yet to match it.
func (h *HandState) placeChips(p *Player, amount int) int {
	if amount >= p.Chips {
		amount = p.Chips
		p.AllInDepth = p.HandChips
	}
	p.Chips -= amount
	p.StageBet += amount
	h.pot += amount

	if p.StageBet > h.currentBet {
		h.currentBet = p.StageBet
		h.closingMarker = h.indexOf(p)
	}
	return amount
}

// advance moves the turn cursor to the next player who can act. Reaching
// the closing marker ends the stage, whether or not the marked player can
// still act themselves; with at most one player able to act, the rest of
// the betting is skipped and the hand fast-forwards to showdown.
func (h *HandState) advance() {
	for {
		h.cursor = (h.cursor + 1) % len(h.players)
		if h.cursor == h.closingMarker {
			if h.countCanAct() > 1 {
				h.nextStage()
			} else {
				h.fastForward()
			}
			return
		}
		p := h.players[h.cursor]
		if !p.CanAct() {
			continue
		}
		return
	}
}

// advanceCursor moves the cursor to the next player who can act without any
// stage-boundary checks. Used while posting blinds, before the closing
// marker exists.
func (h *HandState) advanceCursor() {
	for i := 0; i < len(h.players); i++ {
		h.cursor = (h.cursor + 1) % len(h.players)
		if h.players[h.cursor].CanAct() {
			return
		}
	}
}

// nextStage resets per-stage betting state and reveals the next community
// cards. The first player able to act leads off and becomes the closing
// marker for the new stage.
func (h *HandState) nextStage() {
	for _, p := range h.players {
		p.StageBet = 0
	}
	h.currentBet = 0
	h.stage++

	if h.stage == Showdown {
		h.finish()
		return
	}

	for i, p := range h.players {
		if p.CanAct() {
			h.cursor = i
			break
		}
	}
	h.closingMarker = h.cursor

	h.events.Publish(NewStageChangeEvent(h.stage, h.CommunityCards(), h.pot))
}

// fastForward skips all remaining betting and goes straight to showdown,
// revealing the rest of the board.
func (h *HandState) fastForward() {
	h.stage = Showdown
	h.finish()
}

func (h *HandState) finish() {
	h.stage = Showdown
	potBefore := h.pot
	h.awards = h.settle()
	h.complete = true

	showdownType := "showdown"
	if h.countInHand() == 1 {
		showdownType = "fold"
	}
	h.logger.Debug("hand complete", "hand_id", h.id, "hand", h.num, "pot", potBefore, "type", showdownType)
	h.events.Publish(NewHandEndEvent(h.id, h.num, h.awards, potBefore, showdownType, h.board))
}

func (h *HandState) countInHand() int {
	n := 0
	for _, p := range h.players {
		if !p.Folded {
			n++
		}
	}
	return n
}

func (h *HandState) countCanAct() int {
	n := 0
	for _, p := range h.players {
		if p.CanAct() {
			n++
		}
	}
	return n
}

func (h *HandState) indexOf(target *Player) int {
	for i, p := range h.players {
		if p == target {
			return i
		}
	}
	return -1
}
