package game

import (
	"github.com/delminho/tabletop-holdem/poker"
)

// Player represents a seated player. Players persist across hands; the
// per-hand fields are reset each time a new hand is dealt.
type Player struct {
	ID   string
	Name string

	// Chips is the player's current balance.
	Chips int

	// HandChips is the balance at the start of the current hand. The pot
	// invariant holds that the pot equals the sum of HandChips-Chips over
	// all players dealt into the hand.
	HandChips int

	// StageBet is the amount wagered during the current betting stage.
	StageBet int

	// AllInDepth is the player's hand-start balance, recorded when they go
	// all-in. Zero means the player has not gone all-in this hand. The
	// depth caps how much of each opponent's contribution the player can
	// claim at settlement.
	AllInDepth int

	HoleCards []poker.Card
	Folded    bool
}

// IsAllIn returns true if the player went all-in this hand
func (p *Player) IsAllIn() bool {
	return p.AllInDepth > 0
}

// CanAct returns true if the player can still take betting actions
func (p *Player) CanAct() bool {
	return !p.Folded && !p.IsAllIn()
}

// beginHand resets per-hand state before cards are dealt
func (p *Player) beginHand() {
	p.HandChips = p.Chips
	p.StageBet = 0
	p.AllInDepth = 0
	p.HoleCards = nil
	p.Folded = false
}
