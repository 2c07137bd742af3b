package game

import (
	"github.com/delminho/tabletop-holdem/poker"
)

// Award records chips granted to one player at settlement
type Award struct {
	Player *Player
	Chips  int

	// Result is the hand the award was won with, nil when everyone else
	// folded and no showdown took place.
	Result *poker.HandResult
}

// settle distributes the pot and reduces it to zero. Side pots are not
// modelled as separate objects: the winner search runs repeatedly, and each
// round with an all-in winner peels one "layer" off the pot, bounded by the
// smallest all-in depth among the winners. Every player's unallocated
// contribution funds the layer up to that depth; winners capped at the
// depth leave the search, and the remaining pot is contested by the players
// still eligible.
//
// An even split can leave remainder chips; they go to the earliest-acting
// winner in the hand's rotation order so the pot always empties exactly.
func (h *HandState) settle() []Award {
	contenders := make([]*Player, 0, len(h.players))
	for _, p := range h.players {
		if !p.Folded {
			contenders = append(contenders, p)
		}
	}

	// Fold-out: the last player standing takes everything, no evaluation.
	if len(contenders) == 1 {
		winner := contenders[0]
		winner.Chips += h.pot
		award := Award{Player: winner, Chips: h.pot}
		h.pot = 0
		return []Award{award}
	}

	results := make(map[*Player]poker.HandResult, len(contenders))
	for _, p := range contenders {
		cards := append([]poker.Card{}, p.HoleCards...)
		results[p] = poker.Evaluate(append(cards, h.board...))
	}

	// Unallocated contribution per player, folded players included.
	spent := make(map[*Player]int, len(h.players))
	for _, p := range h.players {
		spent[p] = p.HandChips - p.Chips
	}

	totals := make(map[*Player]int)
	var order []*Player
	credit := func(p *Player, chips int) {
		if _, ok := totals[p]; !ok {
			order = append(order, p)
		}
		totals[p] += chips
		p.Chips += chips
	}

	for h.pot > 0 {
		if len(contenders) == 0 {
			panic("pot settlement reached zero eligible winners with chips left")
		}

		winners := bestHands(contenders, results)

		smallestDepth := 0
		for _, w := range winners {
			if w.IsAllIn() && (smallestDepth == 0 || w.AllInDepth < smallestDepth) {
				smallestDepth = w.AllInDepth
			}
		}

		// No winner is capped: the whole remaining pot splits here.
		if smallestDepth == 0 {
			share := h.pot / len(winners)
			remainder := h.pot - share*len(winners)
			for i, w := range winners {
				chips := share
				if i == 0 {
					chips += remainder
				}
				credit(w, chips)
			}
			h.pot = 0
			break
		}

		// Capped layer: each contribution counts up to the smallest
		// all-in depth among the winners.
		layer := 0
		for _, p := range h.players {
			take := spent[p]
			if take > smallestDepth {
				take = smallestDepth
			}
			layer += take
			spent[p] -= take
		}

		share := layer / len(winners)
		remainder := layer - share*len(winners)
		for i, w := range winners {
			chips := share
			if i == 0 {
				chips += remainder
			}
			credit(w, chips)
		}
		h.pot -= layer

		// Winners capped at this depth have been paid in full.
		remaining := contenders[:0]
		for _, p := range contenders {
			capped := false
			for _, w := range winners {
				if p == w && p.AllInDepth == smallestDepth {
					capped = true
					break
				}
			}
			if !capped {
				remaining = append(remaining, p)
			}
		}
		contenders = remaining
	}

	awards := make([]Award, 0, len(order))
	for _, p := range order {
		result := results[p]
		awards = append(awards, Award{Player: p, Chips: totals[p], Result: &result})
	}
	return awards
}

// bestHands returns every contender whose hand ties the maximum, preserving
// rotation order so the earliest-acting winner comes first.
func bestHands(contenders []*Player, results map[*Player]poker.HandResult) []*Player {
	var winners []*Player
	for _, p := range contenders {
		if len(winners) == 0 {
			winners = []*Player{p}
			continue
		}
		switch cmp := results[p].Compare(results[winners[0]]); {
		case cmp > 0:
			winners = []*Player{p}
		case cmp == 0:
			winners = append(winners, p)
		}
	}
	return winners
}
