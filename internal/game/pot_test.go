package game

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/delminho/tabletop-holdem/poker"
)

// showdownHand builds a hand frozen at showdown so settle can be exercised
// directly. Each player's pot contribution is HandChips minus Chips.
func showdownHand(players []*Player, board []poker.Card) *HandState {
	pot := 0
	for _, p := range players {
		pot += p.HandChips - p.Chips
	}
	return &HandState{
		players: players,
		stage:   Showdown,
		board:   board,
		pot:     pot,
		logger:  log.New(io.Discard),
		events:  NewEventBus(),
	}
}

func cards(s ...poker.Card) []poker.Card { return s }

func c(rank poker.Rank, suit poker.Suit) poker.Card { return poker.NewCard(rank, suit) }

func TestSettleFoldOutSkipsEvaluation(t *testing.T) {
	t.Parallel()

	winner := &Player{ID: "a", Name: "a", HandChips: 100, Chips: 90}
	folded := &Player{ID: "b", Name: "b", HandChips: 100, Chips: 80, Folded: true}

	// No hole cards dealt: settlement must not try to evaluate anything.
	h := showdownHand([]*Player{winner, folded}, nil)

	awards := h.settle()

	if h.pot != 0 {
		t.Errorf("pot should be 0 after settlement, got %d", h.pot)
	}
	if len(awards) != 1 {
		t.Fatalf("expected 1 award, got %d", len(awards))
	}
	if awards[0].Player != winner {
		t.Errorf("award went to %s, want %s", awards[0].Player.ID, winner.ID)
	}
	if awards[0].Chips != 30 {
		t.Errorf("award should be 30, got %d", awards[0].Chips)
	}
	if awards[0].Result != nil {
		t.Errorf("fold-out award should carry no hand result")
	}
	if winner.Chips != 120 {
		t.Errorf("winner balance should be 120, got %d", winner.Chips)
	}
}

func TestSettleSingleWinnerTakesAll(t *testing.T) {
	t.Parallel()

	board := cards(
		c(poker.Two, poker.Clubs),
		c(poker.Seven, poker.Diamonds),
		c(poker.Nine, poker.Hearts),
		c(poker.Jack, poker.Spades),
		c(poker.Three, poker.Diamonds),
	)
	a := &Player{ID: "a", HandChips: 100, Chips: 50, HoleCards: cards(
		c(poker.Ace, poker.Spades), c(poker.Ace, poker.Hearts))}
	b := &Player{ID: "b", HandChips: 100, Chips: 50, HoleCards: cards(
		c(poker.King, poker.Spades), c(poker.King, poker.Hearts))}

	h := showdownHand([]*Player{a, b}, board)
	awards := h.settle()

	if len(awards) != 1 {
		t.Fatalf("expected 1 award, got %d", len(awards))
	}
	if awards[0].Player != a || awards[0].Chips != 100 {
		t.Errorf("player a should win 100, got %s winning %d", awards[0].Player.ID, awards[0].Chips)
	}
	if awards[0].Result == nil || awards[0].Result.Category != poker.Pair {
		t.Errorf("winning hand should be a pair of aces")
	}
	if a.Chips != 150 || b.Chips != 50 {
		t.Errorf("balances after settlement = %d/%d, want 150/50", a.Chips, b.Chips)
	}
}

func TestSettleSplitPotOddChipToEarliestWinner(t *testing.T) {
	t.Parallel()

	// Both players play the board; the pot is 101 so an odd chip remains
	// after the even split.
	board := cards(
		c(poker.Ace, poker.Clubs),
		c(poker.King, poker.Diamonds),
		c(poker.Queen, poker.Hearts),
		c(poker.Jack, poker.Spades),
		c(poker.Ten, poker.Diamonds),
	)
	a := &Player{ID: "a", HandChips: 100, Chips: 49, HoleCards: cards(
		c(poker.Two, poker.Spades), c(poker.Three, poker.Hearts))}
	b := &Player{ID: "b", HandChips: 100, Chips: 50, HoleCards: cards(
		c(poker.Two, poker.Hearts), c(poker.Three, poker.Spades))}

	h := showdownHand([]*Player{a, b}, board)
	awards := h.settle()

	if h.pot != 0 {
		t.Errorf("pot should be 0 after settlement, got %d", h.pot)
	}
	if len(awards) != 2 {
		t.Fatalf("expected 2 awards, got %d", len(awards))
	}
	if awards[0].Player != a || awards[0].Chips != 51 {
		t.Errorf("earliest-acting winner should get the odd chip: %s got %d", awards[0].Player.ID, awards[0].Chips)
	}
	if awards[1].Player != b || awards[1].Chips != 50 {
		t.Errorf("second winner should get 50, got %d", awards[1].Chips)
	}
}

func TestSettleThreeWayAllInLayers(t *testing.T) {
	t.Parallel()

	// Stacks 100, 400 and 1000, all all-in preflop, best hand on the
	// shortest stack. Settlement peels one layer per all-in depth: the
	// short stack claims contributions up to 100, the mid stack up to 400
	// of what remains, and the deep stack keeps the rest.
	board := cards(
		c(poker.Two, poker.Clubs),
		c(poker.Seven, poker.Diamonds),
		c(poker.Nine, poker.Hearts),
		c(poker.Jack, poker.Spades),
		c(poker.Three, poker.Diamonds),
	)
	short := &Player{ID: "short", HandChips: 100, Chips: 0, AllInDepth: 100, HoleCards: cards(
		c(poker.Ace, poker.Spades), c(poker.Ace, poker.Hearts))}
	mid := &Player{ID: "mid", HandChips: 400, Chips: 0, AllInDepth: 400, HoleCards: cards(
		c(poker.King, poker.Spades), c(poker.King, poker.Hearts))}
	deep := &Player{ID: "deep", HandChips: 1000, Chips: 0, AllInDepth: 1000, HoleCards: cards(
		c(poker.Queen, poker.Spades), c(poker.Queen, poker.Hearts))}

	h := showdownHand([]*Player{short, mid, deep}, board)
	if h.pot != 1500 {
		t.Fatalf("pot should be 1500, got %d", h.pot)
	}

	awards := h.settle()

	if h.pot != 0 {
		t.Errorf("pot should be 0 after settlement, got %d", h.pot)
	}
	got := map[string]int{}
	for _, a := range awards {
		got[a.Player.ID] = a.Chips
	}
	want := map[string]int{"short": 300, "mid": 700, "deep": 500}
	for id, chips := range want {
		if got[id] != chips {
			t.Errorf("%s awarded %d, want %d", id, got[id], chips)
		}
	}

	total := short.Chips + mid.Chips + deep.Chips
	if total != 1500 {
		t.Errorf("chips not conserved: balances sum to %d, want 1500", total)
	}
}

func TestSettleAllInWinnerCappedFoldedChipsIncluded(t *testing.T) {
	t.Parallel()

	// A folded player's contribution still funds the layers of the players
	// who saw showdown.
	board := cards(
		c(poker.Two, poker.Clubs),
		c(poker.Seven, poker.Diamonds),
		c(poker.Nine, poker.Hearts),
		c(poker.Jack, poker.Spades),
		c(poker.Three, poker.Diamonds),
	)
	short := &Player{ID: "short", HandChips: 50, Chips: 0, AllInDepth: 50, HoleCards: cards(
		c(poker.Ace, poker.Spades), c(poker.Ace, poker.Hearts))}
	caller := &Player{ID: "caller", HandChips: 500, Chips: 450, HoleCards: cards(
		c(poker.King, poker.Spades), c(poker.King, poker.Hearts))}
	folder := &Player{ID: "folder", HandChips: 500, Chips: 470, Folded: true, HoleCards: cards(
		c(poker.Four, poker.Spades), c(poker.Five, poker.Hearts))}

	h := showdownHand([]*Player{short, caller, folder}, board)
	if h.pot != 130 {
		t.Fatalf("pot should be 130, got %d", h.pot)
	}

	awards := h.settle()

	got := map[string]int{}
	for _, a := range awards {
		got[a.Player.ID] = a.Chips
	}
	// Layer at depth 50 takes 50 from short, 50 from caller and 30 from
	// the folder.
	if got["short"] != 130 {
		t.Errorf("short should claim the whole 130 pot (everyone contributed within depth), got %d", got["short"])
	}
	if h.pot != 0 {
		t.Errorf("pot should be 0 after settlement, got %d", h.pot)
	}
}

func TestSettleTiedAllInsSameDepth(t *testing.T) {
	t.Parallel()

	// Two all-in winners at the same depth split the layer; the third
	// player's excess comes back to them as the final layer.
	board := cards(
		c(poker.Ace, poker.Clubs),
		c(poker.King, poker.Diamonds),
		c(poker.Queen, poker.Hearts),
		c(poker.Jack, poker.Spades),
		c(poker.Ten, poker.Diamonds),
	)
	a := &Player{ID: "a", HandChips: 100, Chips: 0, AllInDepth: 100, HoleCards: cards(
		c(poker.Two, poker.Spades), c(poker.Three, poker.Hearts))}
	b := &Player{ID: "b", HandChips: 100, Chips: 0, AllInDepth: 100, HoleCards: cards(
		c(poker.Two, poker.Hearts), c(poker.Three, poker.Spades))}
	deep := &Player{ID: "deep", HandChips: 300, Chips: 0, AllInDepth: 300, HoleCards: cards(
		c(poker.Four, poker.Clubs), c(poker.Five, poker.Clubs))}

	h := showdownHand([]*Player{a, b, deep}, board)
	awards := h.settle()

	got := map[string]int{}
	for _, aw := range awards {
		got[aw.Player.ID] = aw.Chips
	}
	// Everyone plays the board. The layer at depth 100 is 300 split three
	// ways; a and b cap out there, and deep claims their own excess 200.
	if got["a"] != 100 || got["b"] != 100 {
		t.Errorf("capped winners should get 100 each, got a=%d b=%d", got["a"], got["b"])
	}
	if got["deep"] != 300 {
		t.Errorf("deep stack should keep 300, got %d", got["deep"])
	}
	if h.pot != 0 {
		t.Errorf("pot should be 0 after settlement, got %d", h.pot)
	}
}
