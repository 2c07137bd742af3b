package main

import (
	"bufio"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/delminho/tabletop-holdem/internal/config"
	"github.com/delminho/tabletop-holdem/internal/game"
	"github.com/delminho/tabletop-holdem/poker"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#1B5E20")).
			Padding(0, 1).
			Bold(true)

	redCardStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E53935"))
	blackCardStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	potStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD54F")).Bold(true)
	turnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#4FC3F7")).Bold(true)
)

type CLI struct {
	Config  string `short:"c" default:"holdem.hcl" help:"Path to HCL configuration file"`
	Table   string `short:"t" default:"main" help:"Table name from the configuration"`
	Name    string `short:"n" default:"You" help:"Your display name"`
	Bots    int    `short:"b" default:"2" help:"Number of bot opponents when no bots are configured"`
	Seed    int64  `default:"0" help:"RNG seed (0 for random)"`
	Verbose bool   `short:"v" help:"Verbose logging"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli)

	cfg, err := config.Load(cli.Config)
	if err != nil {
		log.Fatal("Failed to load configuration", "error", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration", "error", err)
	}

	level := log.WarnLevel
	if cli.Verbose {
		level = log.DebugLevel
	}
	if cfg.Log.Level == "debug" {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: level})

	tableCfg := cfg.TableByName(cli.Table)
	if tableCfg == nil {
		log.Fatal("Unknown table", "table", cli.Table)
	}

	if cli.Seed == 0 {
		cli.Seed = time.Now().UnixNano()
	}

	fmt.Println(titleStyle.Render(" ♠ ♥ Texas Hold'em ♦ ♣ "))
	fmt.Println()

	if err := play(cli, tableCfg, cfg.BotsForTable(tableCfg.Name), logger); err != nil {
		log.Fatal("Game ended with an error", "error", err)
	}
	kctx.Exit(0)
}

func play(cli CLI, tableCfg *config.TableConfig, botCfgs []config.BotConfig, logger *log.Logger) error {
	rng := rand.New(rand.NewSource(cli.Seed))
	bus := game.NewEventBus()
	bus.Subscribe(&renderer{})

	table := game.NewTable(
		game.WithStakes(tableCfg.SmallBlind),
		game.WithMaxSeats(tableCfg.MaxPlayers),
		game.WithRand(rng),
		game.WithLogger(logger),
		game.WithEventBus(bus),
	)

	const humanID = "human"
	if _, err := table.Join(humanID, cli.Name); err != nil {
		return err
	}

	bots := map[string]string{}
	if len(botCfgs) == 0 {
		for i := 0; i < cli.Bots; i++ {
			id := fmt.Sprintf("bot-%d", i)
			if _, err := table.Join(id, fmt.Sprintf("Bot%d", i+1)); err != nil {
				return err
			}
			bots[id] = "call"
		}
	}
	for _, bc := range botCfgs {
		if _, err := table.Join("bot-"+bc.Name, bc.Name); err != nil {
			return err
		}
		bots["bot-"+bc.Name] = bc.Strategy
	}

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	// Expiries are handed back to this goroutine over a channel so the
	// table stays single-writer.
	expired := make(chan string, 1)
	var timer *game.TurnTimer
	if tableCfg.TurnTimeout > 0 {
		timer = game.NewTurnTimer(quartz.NewReal(),
			time.Duration(tableCfg.TurnTimeout)*time.Second,
			func(playerID string) {
				select {
				case expired <- playerID:
				default:
				}
			})
	}

	for {
		h, err := table.StartHand()
		if errors.Is(err, game.ErrNotEnoughPlayers) {
			fmt.Println("Not enough players can cover the buy-in. Game over.")
			return nil
		}
		if err != nil {
			return err
		}

		if err := playHand(table, h, humanID, bots, rng, lines, expired, timer); err != nil {
			return err
		}

		fmt.Print("\nDeal another hand? [Y/n] ")
		answer, ok := <-lines
		if !ok {
			return nil
		}
		if a := strings.ToLower(strings.TrimSpace(answer)); a == "n" || a == "q" {
			return nil
		}
	}
}

func playHand(table *game.Table, h *game.HandState, humanID string, bots map[string]string, rng *rand.Rand, lines <-chan string, expired <-chan string, timer *game.TurnTimer) error {
	hole, err := table.HoleCards(humanID)
	if err == nil && len(hole) == 2 {
		fmt.Printf("Your cards: %s %s\n", styleCard(hole[0]), styleCard(hole[1]))
	}

	for !h.Complete() {
		p := h.PlayerToAct()
		if p.ID == humanID {
			if err := promptHuman(table, h, p, lines, expired, timer); err != nil {
				return err
			}
			continue
		}

		action, amount := botDecision(bots[p.ID], h, p, rng)
		if err := table.Act(p.ID, action, amount); err != nil {
			return fmt.Errorf("bot %s: %w", p.ID, err)
		}
	}
	return nil
}

func promptHuman(table *game.Table, h *game.HandState, p *game.Player, lines <-chan string, expired <-chan string, timer *game.TurnTimer) error {
	price := h.PriceToCall(p)
	fmt.Printf("\n%s  pot %s  to call %d  stack %d\n",
		turnStyle.Render("Your turn."),
		potStyle.Render(fmt.Sprintf("%d", h.Pot())), price, p.Chips)
	if price == 0 {
		fmt.Print("[c]heck, [b]et <amount>, [a]ll-in, [f]old: ")
	} else {
		fmt.Print("[c]all, [r]aise <amount>, [a]ll-in, [f]old: ")
	}

	if timer != nil {
		// Drop any expiry left over from an earlier turn before arming.
		select {
		case <-expired:
		default:
		}
		timer.Arm(p.ID)
		defer timer.Disarm()
	}

	var text string
	select {
	case line, ok := <-lines:
		if !ok {
			return fmt.Errorf("input closed")
		}
		text = line
	case id := <-expired:
		fmt.Println("\nTime is up. Folding.")
		if err := table.Act(id, game.Fold, 0); err != nil && !errors.Is(err, game.ErrNotYourTurn) {
			return err
		}
		return nil
	}
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) == 0 {
		return nil
	}

	var err error
	switch fields[0] {
	case "c", "check", "call":
		if price == 0 {
			err = table.Act(p.ID, game.Check, 0)
		} else {
			err = table.Act(p.ID, game.Call, 0)
		}
	case "b", "r", "bet", "raise":
		if len(fields) < 2 {
			fmt.Println("Amount required, e.g. 'r 40'.")
			return nil
		}
		// The raise amount flows through the same free-text path a chat
		// transport would use.
		if _, err = table.PromptBet(); err == nil {
			err = table.SubmitReply(p.ID, fields[1])
		}
	case "a", "allin":
		err = table.Act(p.ID, game.AllIn, 0)
	case "f", "fold":
		err = table.Act(p.ID, game.Fold, 0)
	case "q", "quit":
		return fmt.Errorf("quit")
	default:
		fmt.Println("Unrecognised action.")
		return nil
	}

	if errors.Is(err, game.ErrInvalidAmount) {
		fmt.Printf("Rejected: %v\n", err)
		return nil
	}
	return err
}

func botDecision(strategy string, h *game.HandState, p *game.Player, rng *rand.Rand) (game.Action, int) {
	price := h.PriceToCall(p)
	switch strategy {
	case "fold":
		if price == 0 {
			return game.Check, 0
		}
		return game.Fold, 0
	case "rand":
		if rng.Intn(5) == 0 {
			return game.Raise, h.CurrentBet() + rng.Intn(50) + 1
		}
		fallthrough
	default: // call
		if price == 0 {
			return game.Check, 0
		}
		return game.Call, 0
	}
}

// renderer prints game events as they happen. It is the only place the
// engine's state reaches the terminal.
type renderer struct{}

func (r *renderer) OnEvent(event game.GameEvent) {
	switch e := event.(type) {
	case game.HandStartEvent:
		fmt.Printf("\n--- Hand %d (blinds %d/%d) ---\n", e.HandNum, e.SmallBlind, e.BigBlind)
		for _, p := range e.Players {
			fmt.Printf("  %s: %d chips\n", p.Name, p.HandChips)
		}
	case game.PlayerActionEvent:
		switch e.Action {
		case game.Check, game.Fold:
			fmt.Printf("%s %ss.\n", e.Player.Name, e.Action)
		default:
			fmt.Printf("%s %ss %d. Pot %s.\n", e.Player.Name, e.Action, e.Amount,
				potStyle.Render(fmt.Sprintf("%d", e.PotAfter)))
		}
	case game.StageChangeEvent:
		fmt.Printf("\n%s: %s  pot %s\n", strings.ToUpper(e.Stage.String()),
			styleCards(e.CommunityCards), potStyle.Render(fmt.Sprintf("%d", e.Pot)))
	case game.HandEndEvent:
		fmt.Println()
		if e.ShowdownType == "showdown" {
			fmt.Printf("Board: %s\n", styleCards(e.FinalBoard))
		}
		for _, award := range e.Awards {
			if award.Result != nil {
				fmt.Printf("%s wins %d with %s (%s)\n", award.Player.Name, award.Chips,
					award.Result.Category, styleCards(award.Result.BestFive[:]))
			} else {
				fmt.Printf("%s wins %d. Everyone else folded.\n", award.Player.Name, award.Chips)
			}
		}
	case game.PlayerJoinedEvent:
		fmt.Printf("%s sits down with %d chips.\n", e.Player.Name, e.Player.Chips)
	case game.PlayerLeftEvent:
		fmt.Printf("%s leaves the table.\n", e.Player.Name)
	}
}

func styleCard(c poker.Card) string {
	if c.IsRed() {
		return redCardStyle.Render(c.String())
	}
	return blackCardStyle.Render(c.String())
}

func styleCards(cards []poker.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = styleCard(c)
	}
	return strings.Join(parts, " ")
}
