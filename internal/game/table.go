package game

import (
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/delminho/tabletop-holdem/internal/gameid"
	"github.com/delminho/tabletop-holdem/poker"
)

const (
	// DefaultMaxSeats is the largest table supported.
	DefaultMaxSeats = 12

	// DefaultSmallBlind is the small blind used when no stakes are set.
	DefaultSmallBlind = 5

	// defaultBalanceBlinds is the starting balance in big blinds.
	defaultBalanceBlinds = 100

	// minBuyInBlinds is the minimum balance, in big blinds, to be dealt in.
	minBuyInBlinds = 10
)

// PendingOp identifies what a table is waiting to hear back about.
type PendingOp int

const (
	// PendingBetAmount waits for a raise-to amount from the player to act.
	PendingBetAmount PendingOp = iota

	// PendingStakesAmount waits for a new small blind value.
	PendingStakesAmount

	// PendingBalanceAmount waits for a new balance value.
	PendingBalanceAmount
)

func (op PendingOp) String() string {
	return [...]string{"bet amount", "stakes amount", "balance amount"}[op]
}

// PendingInput records the single outstanding numeric prompt at a table.
// Transports that gather amounts over chat arm one of these and route the
// player's next message through SubmitReply; a reply that fails validation
// leaves the prompt armed so the player can try again.
type PendingInput struct {
	PlayerID string
	Op       PendingOp
}

// Table owns the seats, stakes and current hand for one game. A table is
// not safe for concurrent use: callers must confine each table to a single
// goroutine, the way a chat transport serialises updates per conversation.
type Table struct {
	logger *log.Logger
	events EventBus
	rng    *rand.Rand
	ids    *gameid.Generator

	sessionID string

	seats    []*Player
	maxSeats int

	smallBlind int
	bigBlind   int

	hand    *HandState
	handNum int
	pending *PendingInput
}

// TableOption configures a Table
type TableOption func(*Table)

// WithMaxSeats sets the seat limit
func WithMaxSeats(n int) TableOption {
	return func(t *Table) {
		t.maxSeats = n
	}
}

// WithStakes sets the initial small blind; the big blind is always twice it.
func WithStakes(smallBlind int) TableOption {
	return func(t *Table) {
		t.smallBlind = smallBlind
		t.bigBlind = smallBlind * 2
	}
}

// WithEventBus sets the bus game events are published to
func WithEventBus(events EventBus) TableOption {
	return func(t *Table) {
		t.events = events
	}
}

// WithLogger sets the table logger
func WithLogger(logger *log.Logger) TableOption {
	return func(t *Table) {
		t.logger = logger
	}
}

// WithRand sets the random source used to shuffle. Tests pass a seeded
// source for reproducible deals.
func WithRand(rng *rand.Rand) TableOption {
	return func(t *Table) {
		t.rng = rng
	}
}

// NewTable creates an empty table
func NewTable(opts ...TableOption) *Table {
	t := &Table{
		maxSeats:   DefaultMaxSeats,
		smallBlind: DefaultSmallBlind,
		bigBlind:   DefaultSmallBlind * 2,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = log.New(io.Discard)
	}
	if t.events == nil {
		t.events = NewEventBus()
	}
	if t.rng == nil {
		t.rng = rand.New(rand.NewSource(1))
	}
	t.ids = gameid.NewGenerator(t.rng)
	t.sessionID = t.ids.New()
	return t
}

// SessionID returns the table's identifier, fixed at creation
func (t *Table) SessionID() string {
	return t.sessionID
}

// DefaultBalance returns the balance new players sit down with
func (t *Table) DefaultBalance() int {
	return t.bigBlind * defaultBalanceBlinds
}

// MinBuyIn returns the smallest balance a player may be dealt in with
func (t *Table) MinBuyIn() int {
	return t.bigBlind * minBuyInBlinds
}

// SmallBlind returns the current small blind
func (t *Table) SmallBlind() int {
	return t.smallBlind
}

// BigBlind returns the current big blind
func (t *Table) BigBlind() int {
	return t.bigBlind
}

// HandInProgress returns true while a hand is live
func (t *Table) HandInProgress() bool {
	return t.hand != nil && !t.hand.Complete()
}

// Join seats a new player with the default balance. Players cannot join
// while a hand is live; they would have to be dealt in mid-stage.
func (t *Table) Join(id, name string) (*Player, error) {
	if t.HandInProgress() {
		return nil, ErrHandInProgress
	}
	if len(t.seats) >= t.maxSeats {
		return nil, ErrTableFull
	}
	if t.playerByID(id) != nil {
		return nil, ErrAlreadyJoined
	}

	p := &Player{ID: id, Name: name, Chips: t.DefaultBalance()}
	t.seats = append(t.seats, p)
	t.logger.Info("player joined", "player", name, "balance", p.Chips)
	t.events.Publish(NewPlayerJoinedEvent(p))
	return p, nil
}

// Leave removes a player from the table. Leaving mid-hand folds them first;
// chips already in the pot stay in the pot.
func (t *Table) Leave(id string) error {
	p := t.playerByID(id)
	if p == nil {
		return ErrUnknownPlayer
	}

	if t.HandInProgress() {
		t.hand.forceFold(p)
	}
	if t.pending != nil && t.pending.PlayerID == id {
		t.pending = nil
	}

	for i, seat := range t.seats {
		if seat == p {
			t.seats = append(t.seats[:i], t.seats[i+1:]...)
			break
		}
	}
	t.logger.Info("player left", "player", p.Name)
	t.events.Publish(NewPlayerLeftEvent(p))
	return nil
}

// SetStakes changes the blinds between hands. Players still holding exactly
// the previous default balance are topped up or down to the new one, so a
// fresh table can re-stake without everyone rejoining.
func (t *Table) SetStakes(smallBlind int) error {
	if t.HandInProgress() {
		return ErrHandInProgress
	}
	if smallBlind < 1 {
		return fmt.Errorf("%w: small blind %d", ErrInvalidStakes, smallBlind)
	}

	oldDefault := t.DefaultBalance()
	t.smallBlind = smallBlind
	t.bigBlind = smallBlind * 2
	for _, p := range t.seats {
		if p.Chips == oldDefault {
			p.Chips = t.DefaultBalance()
		}
	}
	t.logger.Info("stakes changed", "small_blind", t.smallBlind, "big_blind", t.bigBlind)
	return nil
}

// SetBalance sets a player's balance between hands. Balances below the
// minimum buy-in are rejected rather than leaving the player seated but
// unplayable.
func (t *Table) SetBalance(id string, chips int) error {
	if t.HandInProgress() {
		return ErrHandInProgress
	}
	p := t.playerByID(id)
	if p == nil {
		return ErrUnknownPlayer
	}
	if chips < t.MinBuyIn() {
		return fmt.Errorf("%w: %d is below %d", ErrBelowBuyIn, chips, t.MinBuyIn())
	}
	p.Chips = chips
	return nil
}

// StartHand rotates the blinds one seat and deals a new hand to every
// player who can cover the minimum buy-in. Short-stacked players keep their
// seats and sit the hand out.
func (t *Table) StartHand() (*HandState, error) {
	if t.HandInProgress() {
		return nil, ErrHandInProgress
	}

	// Rotate so the small blind moves left every hand.
	if len(t.seats) > 1 {
		t.seats = append(t.seats[1:], t.seats[0])
	}

	var dealt []*Player
	for _, p := range t.seats {
		if p.Chips >= t.MinBuyIn() {
			dealt = append(dealt, p)
		}
	}
	if len(dealt) < 2 {
		return nil, fmt.Errorf("%w: %d of %d seated can post the buy-in",
			ErrNotEnoughPlayers, len(dealt), len(t.seats))
	}

	t.handNum++
	t.pending = nil
	handID := t.ids.New()
	deck := poker.NewDeck(t.rng)
	t.hand = newHandState(handID, t.handNum, dealt, deck, t.smallBlind, t.bigBlind, t.logger, t.events)
	t.logger.Info("hand started", "hand_id", handID, "hand", t.handNum, "players", len(dealt),
		"small_blind", t.smallBlind, "big_blind", t.bigBlind)
	return t.hand, nil
}

// Hand returns the current hand, nil before the first deal
func (t *Table) Hand() *HandState {
	return t.hand
}

// Act forwards a betting action to the current hand. A successful action
// clears any outstanding prompt for that player.
func (t *Table) Act(id string, action Action, amount int) error {
	if !t.HandInProgress() {
		return ErrNoHandInProgress
	}
	if err := t.hand.Act(id, action, amount); err != nil {
		return err
	}
	if t.pending != nil && t.pending.PlayerID == id {
		t.pending = nil
	}
	return nil
}

// PromptBet arms a raise-to amount prompt for the player whose turn it is
func (t *Table) PromptBet() (*PendingInput, error) {
	if !t.HandInProgress() {
		return nil, ErrNoHandInProgress
	}
	p := t.hand.PlayerToAct()
	t.pending = &PendingInput{PlayerID: p.ID, Op: PendingBetAmount}
	return t.pending, nil
}

// PromptStakes arms a small blind prompt for the given player
func (t *Table) PromptStakes(id string) (*PendingInput, error) {
	if t.HandInProgress() {
		return nil, ErrHandInProgress
	}
	if t.playerByID(id) == nil {
		return nil, ErrUnknownPlayer
	}
	t.pending = &PendingInput{PlayerID: id, Op: PendingStakesAmount}
	return t.pending, nil
}

// PromptBalance arms a balance prompt for the given player
func (t *Table) PromptBalance(id string) (*PendingInput, error) {
	if t.HandInProgress() {
		return nil, ErrHandInProgress
	}
	if t.playerByID(id) == nil {
		return nil, ErrUnknownPlayer
	}
	t.pending = &PendingInput{PlayerID: id, Op: PendingBalanceAmount}
	return t.pending, nil
}

// Pending returns the outstanding prompt, nil when none is armed
func (t *Table) Pending() *PendingInput {
	return t.pending
}

// SubmitReply routes a free-form reply to the outstanding prompt. Replies
// from anyone but the prompted player get ErrNotYourTurn and should be
// treated as ordinary chat. A reply that does not parse as a valid amount
// keeps the prompt armed so the transport can ask again.
func (t *Table) SubmitReply(id, text string) error {
	if t.pending == nil || t.pending.PlayerID != id {
		return ErrNotYourTurn
	}

	amount, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || amount < 0 {
		return fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}

	op := t.pending.Op
	var opErr error
	switch op {
	case PendingBetAmount:
		opErr = t.Act(id, Raise, amount)
	case PendingStakesAmount:
		opErr = t.SetStakes(amount)
	case PendingBalanceAmount:
		opErr = t.SetBalance(id, amount)
	}
	if opErr != nil {
		return opErr
	}
	t.pending = nil
	return nil
}

// HoleCards returns the player's own hole cards. Cards are never exposed
// through Snapshot, so a transport cannot leak them to the table at large
// by accident.
func (t *Table) HoleCards(id string) ([]poker.Card, error) {
	p := t.playerByID(id)
	if p == nil {
		return nil, ErrUnknownPlayer
	}
	cards := make([]poker.Card, len(p.HoleCards))
	copy(cards, p.HoleCards)
	return cards, nil
}

// PlayerSnapshot is the public view of one seat
type PlayerSnapshot struct {
	ID       string
	Name     string
	Chips    int
	StageBet int
	Folded   bool
	AllIn    bool
	IsTurn   bool
}

// TableSnapshot is the public view of the table, safe to show every player
type TableSnapshot struct {
	Stage          Stage
	Pot            int
	CurrentBet     int
	CommunityCards []poker.Card
	SmallBlind     int
	BigBlind       int
	MinBuyIn       int
	Players        []PlayerSnapshot
}

// Snapshot returns the current public table state
func (t *Table) Snapshot() TableSnapshot {
	snap := TableSnapshot{
		Stage:      Setup,
		SmallBlind: t.smallBlind,
		BigBlind:   t.bigBlind,
		MinBuyIn:   t.MinBuyIn(),
	}

	var toAct *Player
	if t.HandInProgress() {
		snap.Stage = t.hand.Stage()
		snap.Pot = t.hand.Pot()
		snap.CurrentBet = t.hand.CurrentBet()
		snap.CommunityCards = t.hand.CommunityCards()
		toAct = t.hand.PlayerToAct()
	}

	for _, p := range t.seats {
		snap.Players = append(snap.Players, PlayerSnapshot{
			ID:       p.ID,
			Name:     p.Name,
			Chips:    p.Chips,
			StageBet: p.StageBet,
			Folded:   p.Folded,
			AllIn:    p.IsAllIn(),
			IsTurn:   p == toAct,
		})
	}
	return snap
}

// Players returns the seated players in seat order
func (t *Table) Players() []*Player {
	return t.seats
}

func (t *Table) playerByID(id string) *Player {
	for _, p := range t.seats {
		if p.ID == id {
			return p
		}
	}
	return nil
}
