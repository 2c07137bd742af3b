package poker

import "math/rand"

// Deck represents a standard 52-card deck. Cards are dealt without
// replacement until Shuffle is called again.
type Deck struct {
	cards [52]Card
	next  int
	rng   *rand.Rand
}

// NewDeck creates a new shuffled deck with an explicit RNG. The RNG is
// required to make randomness explicit and testing deterministic.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}

	i := 0
	for suit := Hearts; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards[i] = NewCard(rank, suit)
			i++
		}
	}

	d.Shuffle()
	return d
}

// Shuffle reshuffles the full deck using Fisher-Yates and rewinds dealing
// back to the top.
func (d *Deck) Shuffle() {
	d.next = 0
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal deals n cards from the deck. It returns nil when fewer than n cards
// remain.
func (d *Deck) Deal(n int) []Card {
	if d.next+n > len(d.cards) {
		return nil
	}
	cards := make([]Card, n)
	copy(cards, d.cards[d.next:d.next+n])
	d.next += n
	return cards
}

// DealOne deals a single card from the deck
func (d *Deck) DealOne() Card {
	card := d.cards[d.next]
	d.next++
	return card
}

// Burn discards the top card face down, as a live dealer would before
// revealing community cards.
func (d *Deck) Burn() {
	d.next++
}

// CardsRemaining returns the number of cards left in the deck
func (d *Deck) CardsRemaining() int {
	return len(d.cards) - d.next
}
