package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/delminho/tabletop-holdem/internal/game"
)

// Config holds configuration for running simulations
type Config struct {
	Tables        int
	HandsPerTable int
	Players       int
	SmallBlind    int
	Strategy      string
	Seed          int64
	Logger        *log.Logger
}

// Stats aggregates results across every simulated table
type Stats struct {
	Hands     int
	Showdowns int
	FoldOuts  int
	MaxPot    int
	TotalPot  int
}

func (s *Stats) merge(other Stats) {
	s.Hands += other.Hands
	s.Showdowns += other.Showdowns
	s.FoldOuts += other.FoldOuts
	s.TotalPot += other.TotalPot
	if other.MaxPot > s.MaxPot {
		s.MaxPot = other.MaxPot
	}
}

// MeanPot returns the average pot size per hand
func (s *Stats) MeanPot() float64 {
	if s.Hands == 0 {
		return 0
	}
	return float64(s.TotalPot) / float64(s.Hands)
}

// Simulator drives many tables of scripted players to shake out engine
// bugs. Tables share no state, so they run in parallel, one goroutine per
// table with its own seeded RNG. Every hand is checked for chip
// conservation before the next is dealt.
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Players < 2 {
		config.Players = 4
	}
	if config.SmallBlind < 1 {
		config.SmallBlind = 5
	}
	if config.Strategy == "" {
		config.Strategy = "rand"
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	return &Simulator{config: config}
}

// Run executes the simulation and returns aggregated statistics
func (s *Simulator) Run(ctx context.Context) (*Stats, error) {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]Stats, s.config.Tables)

	for i := 0; i < s.config.Tables; i++ {
		tableSeed := s.config.Seed + int64(i)
		g.Go(func() error {
			stats, err := s.runTable(ctx, i, tableSeed)
			if err != nil {
				return fmt.Errorf("table %d: %w", i, err)
			}
			results[i] = stats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := &Stats{}
	for _, r := range results {
		total.merge(r)
	}
	return total, nil
}

func (s *Simulator) runTable(ctx context.Context, index int, seed int64) (Stats, error) {
	rng := rand.New(rand.NewSource(seed))
	table := game.NewTable(
		game.WithStakes(s.config.SmallBlind),
		game.WithRand(rng),
		game.WithLogger(s.config.Logger.WithPrefix(fmt.Sprintf("table-%d", index))),
	)

	initial := 0
	for p := 0; p < s.config.Players; p++ {
		player, err := table.Join(fmt.Sprintf("bot-%d-%d", index, p), fmt.Sprintf("Bot%d", p))
		if err != nil {
			return Stats{}, err
		}
		initial += player.Chips
	}

	var stats Stats
	for hand := 0; hand < s.config.HandsPerTable; hand++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		h, err := table.StartHand()
		if errors.Is(err, game.ErrNotEnoughPlayers) {
			break
		}
		if err != nil {
			return stats, err
		}

		maxPot, err := s.playHand(table, h, rng)
		if err != nil {
			return stats, fmt.Errorf("hand %d: %w", hand, err)
		}

		stats.Hands++
		stats.TotalPot += maxPot
		if maxPot > stats.MaxPot {
			stats.MaxPot = maxPot
		}
		if awards := h.Awards(); len(awards) == 1 && awards[0].Result == nil {
			stats.FoldOuts++
		} else {
			stats.Showdowns++
		}

		if total := tableChips(table); total != initial {
			return stats, fmt.Errorf("chip conservation broken after hand %d: %d != %d", hand, total, initial)
		}
	}

	return stats, nil
}

// playHand feeds scripted actions until the hand completes and returns the
// largest pot observed.
func (s *Simulator) playHand(table *game.Table, h *game.HandState, rng *rand.Rand) (int, error) {
	maxPot := h.Pot()
	for steps := 0; !h.Complete(); steps++ {
		if steps > 10000 {
			return maxPot, fmt.Errorf("hand did not terminate")
		}
		p := h.PlayerToAct()
		action, amount := s.decide(h, p, rng)
		if err := table.Act(p.ID, action, amount); err != nil {
			return maxPot, fmt.Errorf("%s %v %d: %w", p.ID, action, amount, err)
		}
		if h.Pot() > maxPot {
			maxPot = h.Pot()
		}
	}
	return maxPot, nil
}

func (s *Simulator) decide(h *game.HandState, p *game.Player, rng *rand.Rand) (game.Action, int) {
	checkOrCall := func() (game.Action, int) {
		if h.PriceToCall(p) == 0 {
			return game.Check, 0
		}
		return game.Call, 0
	}

	switch s.config.Strategy {
	case "fold":
		if h.PriceToCall(p) == 0 {
			return game.Check, 0
		}
		return game.Fold, 0
	case "call":
		return checkOrCall()
	default: // rand
		switch rng.Intn(10) {
		case 0:
			return game.Fold, 0
		case 1, 2:
			return game.Raise, h.CurrentBet() + rng.Intn(3*h.CurrentBet()+10) + 1
		case 3:
			return game.AllIn, 0
		default:
			return checkOrCall()
		}
	}
}

func tableChips(table *game.Table) int {
	total := 0
	for _, p := range table.Players() {
		total += p.Chips
	}
	return total
}
