package poker

import "sort"

// Category represents the strength class of a five-card poker hand,
// ordered from weakest to strongest.
type Category int

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns a human-readable category description
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// HandResult is the outcome of evaluating five to seven cards: the category
// of the best five-card hand and the five cards themselves. BestFive is the
// canonical tiebreak key: paired and grouped cards come first, kickers
// follow in descending rank order, so two results compare card by card.
type HandResult struct {
	Category Category
	BestFive [5]Card
}

// Compare returns a positive value if r beats other, negative if it loses,
// and 0 when the hands tie. Categories compare first, then BestFive ranks
// lexicographically; suits never break ties.
func (r HandResult) Compare(other HandResult) int {
	if r.Category != other.Category {
		return int(r.Category) - int(other.Category)
	}
	for i := range r.BestFive {
		if d := r.BestFive[i].CompareRank(other.BestFive[i]); d != 0 {
			return d
		}
	}
	return 0
}

// Evaluate computes the best five-card poker hand from 5-7 cards. It is a
// pure function of the input multiset: card order never affects the result.
//
// Detection runs strongest-first, so each check may assume every stronger
// category has already been ruled out.
func Evaluate(cards []Card) HandResult {
	if hr, ok := evalFlush(cards); ok {
		return hr
	}
	if hr, ok := evalFourOfAKind(cards); ok {
		return hr
	}
	if hr, ok := evalFullHouse(cards); ok {
		return hr
	}
	if hr, ok := evalStraight(cards); ok {
		return hr
	}
	if hr, ok := evalThreeOfAKind(cards); ok {
		return hr
	}
	if hr, ok := evalTwoPair(cards); ok {
		return hr
	}
	if hr, ok := evalPair(cards); ok {
		return hr
	}
	return HandResult{Category: HighCard, BestFive: topFive(cards)}
}

// evalFlush handles the whole flush family. If five or more cards share a
// suit, the suited subset is independently tested for a straight: a suited
// straight is a straight flush (royal when ace-high), otherwise the five
// highest suited cards make a plain flush. A flush rules out quads and full
// houses with at most seven input cards, so the first match is final.
func evalFlush(cards []Card) (HandResult, bool) {
	for suit := Hearts; suit <= Spades; suit++ {
		suited := make([]Card, 0, len(cards))
		for _, c := range cards {
			if c.Suit == suit {
				suited = append(suited, c)
			}
		}
		if len(suited) < 5 {
			continue
		}

		if run, ok := straightCards(suited); ok {
			category := StraightFlush
			if run[0].Rank == Ace {
				category = RoyalFlush
			}
			return HandResult{Category: category, BestFive: run}, true
		}

		sortDesc(suited)
		var best [5]Card
		copy(best[:], suited[:5])
		return HandResult{Category: Flush, BestFive: best}, true
	}
	return HandResult{}, false
}

func evalFourOfAKind(cards []Card) (HandResult, bool) {
	quadRank, ok := rankWithCount(cards, 4)
	if !ok {
		return HandResult{}, false
	}

	var best [5]Card
	n := 0
	for _, c := range cards {
		if c.Rank == quadRank {
			best[n] = c
			n++
		}
	}
	best[4] = highestKicker(cards, quadRank)
	return HandResult{Category: FourOfAKind, BestFive: best}, true
}

// evalFullHouse covers the 3+2, 3+3 and 3+2+2 shapes. With two triples the
// higher-ranked one plays as the trips and the lower contributes two cards
// as the pair; with two pairs the higher-ranked pair plays.
func evalFullHouse(cards []Card) (HandResult, bool) {
	counts := rankCounts(cards)

	tripRank := Rank(0)
	pairRank := Rank(0)
	for rank, n := range counts {
		if n == 3 && rank > tripRank {
			tripRank = rank
		}
	}
	if tripRank == 0 {
		return HandResult{}, false
	}
	for rank, n := range counts {
		if rank == tripRank {
			continue
		}
		if n >= 2 && rank > pairRank {
			pairRank = rank
		}
	}
	if pairRank == 0 {
		return HandResult{}, false
	}

	var best [5]Card
	n := 0
	for _, c := range cards {
		if c.Rank == tripRank {
			best[n] = c
			n++
		}
	}
	for _, c := range cards {
		if c.Rank == pairRank && n < 5 {
			best[n] = c
			n++
		}
	}
	return HandResult{Category: FullHouse, BestFive: best}, true
}

func evalStraight(cards []Card) (HandResult, bool) {
	run, ok := straightCards(cards)
	if !ok {
		return HandResult{}, false
	}
	return HandResult{Category: Straight, BestFive: run}, true
}

// straightCards finds the highest five-rank run in the cards, if any. The
// ace may play low for the five-high straight, in which case the best five
// lead with the five and end with the ace. Among duplicate ranks any one
// real card is picked; only ranks matter for comparison.
func straightCards(cards []Card) ([5]Card, bool) {
	present := make(map[Rank]bool, len(cards))
	for _, c := range cards {
		present[c.Rank] = true
	}

	top := Rank(0)
	for rank := range present {
		if rank <= top {
			continue
		}
		if present[rank-1] && present[rank-2] && present[rank-3] && present[rank-4] {
			top = rank
		}
	}
	wheel := top == 0 && present[Ace] && present[Two] && present[Three] && present[Four] && present[Five]
	if wheel {
		top = Five
	}
	if top == 0 {
		return [5]Card{}, false
	}

	var run [5]Card
	for i := 0; i < 5; i++ {
		want := top - Rank(i)
		if wheel && i == 4 {
			want = Ace
		}
		for _, c := range cards {
			if c.Rank == want {
				run[i] = c
				break
			}
		}
	}
	return run, true
}

func evalThreeOfAKind(cards []Card) (HandResult, bool) {
	tripRank, ok := rankWithCount(cards, 3)
	if !ok {
		return HandResult{}, false
	}

	var best [5]Card
	n := 0
	rest := make([]Card, 0, len(cards))
	for _, c := range cards {
		if c.Rank == tripRank {
			best[n] = c
			n++
		} else {
			rest = append(rest, c)
		}
	}
	sortDesc(rest)
	best[3], best[4] = rest[0], rest[1]
	return HandResult{Category: ThreeOfAKind, BestFive: best}, true
}

// evalTwoPair takes the two highest pairs plus the best remaining card. A
// third pair is discarded entirely, never used as a kicker.
func evalTwoPair(cards []Card) (HandResult, bool) {
	pairRanks := make([]Rank, 0, 3)
	for rank, n := range rankCounts(cards) {
		if n == 2 {
			pairRanks = append(pairRanks, rank)
		}
	}
	if len(pairRanks) < 2 {
		return HandResult{}, false
	}
	sort.Slice(pairRanks, func(i, j int) bool { return pairRanks[i] > pairRanks[j] })
	high, low := pairRanks[0], pairRanks[1]

	var best [5]Card
	n := 0
	rest := make([]Card, 0, len(cards))
	for _, c := range cards {
		if c.Rank == high {
			best[n] = c
			n++
		} else if c.Rank != low {
			rest = append(rest, c)
		}
	}
	for _, c := range cards {
		if c.Rank == low {
			best[n] = c
			n++
		}
	}
	sortDesc(rest)
	best[4] = rest[0]
	return HandResult{Category: TwoPair, BestFive: best}, true
}

func evalPair(cards []Card) (HandResult, bool) {
	pairRank, ok := rankWithCount(cards, 2)
	if !ok {
		return HandResult{}, false
	}

	var best [5]Card
	n := 0
	rest := make([]Card, 0, len(cards))
	for _, c := range cards {
		if c.Rank == pairRank {
			best[n] = c
			n++
		} else {
			rest = append(rest, c)
		}
	}
	sortDesc(rest)
	copy(best[2:], rest[:3])
	return HandResult{Category: Pair, BestFive: best}, true
}

// rankCounts tallies how many cards hold each rank
func rankCounts(cards []Card) map[Rank]int {
	counts := make(map[Rank]int, len(cards))
	for _, c := range cards {
		counts[c.Rank]++
	}
	return counts
}

// rankWithCount returns the highest rank appearing exactly n times
func rankWithCount(cards []Card, n int) (Rank, bool) {
	found := Rank(0)
	for rank, count := range rankCounts(cards) {
		if count == n && rank > found {
			found = rank
		}
	}
	return found, found != 0
}

// highestKicker returns the highest-ranked card not holding the excluded rank
func highestKicker(cards []Card, exclude Rank) Card {
	var kicker Card
	for _, c := range cards {
		if c.Rank != exclude && c.Rank > kicker.Rank {
			kicker = c
		}
	}
	return kicker
}

func topFive(cards []Card) [5]Card {
	sorted := make([]Card, len(cards))
	copy(sorted, cards)
	sortDesc(sorted)
	var best [5]Card
	copy(best[:], sorted[:5])
	return best
}

func sortDesc(cards []Card) {
	sort.SliceStable(cards, func(i, j int) bool { return cards[i].Rank > cards[j].Rank })
}
