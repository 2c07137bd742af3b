package game

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/delminho/tabletop-holdem/internal/gameid"
)

func newTestTable(t *testing.T, opts ...TableOption) *Table {
	t.Helper()
	opts = append([]TableOption{
		WithStakes(5),
		WithRand(rand.New(rand.NewSource(7))),
	}, opts...)
	return NewTable(opts...)
}

func TestJoinSeatsPlayerWithDefaultBalance(t *testing.T) {
	t.Parallel()

	table := newTestTable(t)
	p, err := table.Join("a", "Alice")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if p.Chips != 1000 {
		t.Errorf("default balance = %d, want 100 big blinds", p.Chips)
	}

	if _, err := table.Join("a", "Alice"); !errors.Is(err, ErrAlreadyJoined) {
		t.Errorf("duplicate join err = %v, want ErrAlreadyJoined", err)
	}
}

func TestJoinRejectedWhenFull(t *testing.T) {
	t.Parallel()

	table := newTestTable(t, WithMaxSeats(2))
	table.Join("a", "a")
	table.Join("b", "b")
	if _, err := table.Join("c", "c"); !errors.Is(err, ErrTableFull) {
		t.Errorf("err = %v, want ErrTableFull", err)
	}
}

func TestJoinRejectedMidHand(t *testing.T) {
	t.Parallel()

	table := newTestTable(t)
	table.Join("a", "a")
	table.Join("b", "b")
	if _, err := table.StartHand(); err != nil {
		t.Fatalf("start hand: %v", err)
	}
	if _, err := table.Join("c", "c"); !errors.Is(err, ErrHandInProgress) {
		t.Errorf("err = %v, want ErrHandInProgress", err)
	}
}

func TestStartHandRequiresTwoEligiblePlayers(t *testing.T) {
	t.Parallel()

	table := newTestTable(t)
	table.Join("a", "a")
	if _, err := table.StartHand(); !errors.Is(err, ErrNotEnoughPlayers) {
		t.Fatalf("err = %v, want ErrNotEnoughPlayers", err)
	}

	// A second seat does not help if the stack cannot cover the buy-in.
	p, _ := table.Join("b", "b")
	p.Chips = table.MinBuyIn() - 1
	if _, err := table.StartHand(); !errors.Is(err, ErrNotEnoughPlayers) {
		t.Fatalf("err = %v, want ErrNotEnoughPlayers", err)
	}

	p.Chips = table.MinBuyIn()
	if _, err := table.StartHand(); err != nil {
		t.Fatalf("start hand: %v", err)
	}
}

func TestShortStackSitsOutButKeepsSeat(t *testing.T) {
	t.Parallel()

	table := newTestTable(t)
	table.Join("a", "a")
	table.Join("b", "b")
	short, _ := table.Join("c", "c")
	short.Chips = 50

	h, err := table.StartHand()
	if err != nil {
		t.Fatalf("start hand: %v", err)
	}
	if len(h.players) != 2 {
		t.Errorf("dealt %d players, want 2", len(h.players))
	}
	for _, p := range h.players {
		if p.ID == "c" {
			t.Errorf("short stack should not be dealt in")
		}
	}
	if len(table.Players()) != 3 {
		t.Errorf("short stack should keep their seat")
	}
}

func TestBlindsRotateEachHand(t *testing.T) {
	t.Parallel()

	table := newTestTable(t)
	table.Join("a", "a")
	table.Join("b", "b")
	table.Join("c", "c")

	foldOut := func(h *HandState) {
		for !h.Complete() {
			if err := table.Act(h.PlayerToAct().ID, Fold, 0); err != nil {
				t.Fatalf("fold: %v", err)
			}
		}
	}

	var smallBlinds []string
	for i := 0; i < 3; i++ {
		h, err := table.StartHand()
		if err != nil {
			t.Fatalf("hand %d: %v", i, err)
		}
		smallBlinds = append(smallBlinds, h.players[0].ID)
		foldOut(h)
	}

	want := []string{"b", "c", "a"}
	for i, id := range want {
		if smallBlinds[i] != id {
			t.Errorf("hand %d small blind = %s, want %s", i, smallBlinds[i], id)
		}
	}
}

func TestSetStakesBetweenHands(t *testing.T) {
	t.Parallel()

	table := newTestTable(t)
	fresh, _ := table.Join("a", "a")
	rich, _ := table.Join("b", "b")
	rich.Chips = 5000

	if err := table.SetStakes(0); !errors.Is(err, ErrInvalidStakes) {
		t.Errorf("err = %v, want ErrInvalidStakes", err)
	}

	if err := table.SetStakes(10); err != nil {
		t.Fatalf("set stakes: %v", err)
	}
	if table.SmallBlind() != 10 || table.BigBlind() != 20 {
		t.Errorf("stakes = %d/%d, want 10/20", table.SmallBlind(), table.BigBlind())
	}
	// Untouched default balances follow the new stakes; custom ones do not.
	if fresh.Chips != 2000 {
		t.Errorf("default balance should track new stakes, got %d", fresh.Chips)
	}
	if rich.Chips != 5000 {
		t.Errorf("custom balance should be left alone, got %d", rich.Chips)
	}

	if _, err := table.StartHand(); err != nil {
		t.Fatalf("start hand: %v", err)
	}
	if err := table.SetStakes(25); !errors.Is(err, ErrHandInProgress) {
		t.Errorf("err = %v, want ErrHandInProgress", err)
	}
}

func TestSetBalanceValidation(t *testing.T) {
	t.Parallel()

	table := newTestTable(t)
	table.Join("a", "a")

	if err := table.SetBalance("ghost", 500); !errors.Is(err, ErrUnknownPlayer) {
		t.Errorf("err = %v, want ErrUnknownPlayer", err)
	}
	if err := table.SetBalance("a", table.MinBuyIn()-1); !errors.Is(err, ErrBelowBuyIn) {
		t.Errorf("err = %v, want ErrBelowBuyIn", err)
	}
	if err := table.SetBalance("a", 500); err != nil {
		t.Fatalf("set balance: %v", err)
	}
	if got := table.Players()[0].Chips; got != 500 {
		t.Errorf("balance = %d, want 500", got)
	}
}

func TestLeaveMidHandFoldsPlayer(t *testing.T) {
	t.Parallel()

	table := newTestTable(t)
	table.Join("a", "a")
	table.Join("b", "b")
	table.Join("c", "c")

	h, err := table.StartHand()
	if err != nil {
		t.Fatalf("start hand: %v", err)
	}

	// The big blind leaves mid-hand; their blind stays in the pot.
	if err := table.Leave("c"); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if len(table.Players()) != 2 {
		t.Errorf("seat count = %d, want 2", len(table.Players()))
	}
	if h.Pot() != 15 {
		t.Errorf("pot = %d, want 15", h.Pot())
	}

	mustAct(t, h, "a", Fold, 0)
	if !h.Complete() {
		t.Fatalf("hand should end with one player left")
	}
	if h.Awards()[0].Player.ID != "b" {
		t.Errorf("winner = %s, want b", h.Awards()[0].Player.ID)
	}
}

func TestLeaveUnknownPlayer(t *testing.T) {
	t.Parallel()

	table := newTestTable(t)
	if err := table.Leave("ghost"); !errors.Is(err, ErrUnknownPlayer) {
		t.Errorf("err = %v, want ErrUnknownPlayer", err)
	}
}

func TestSubmitReplyBetAmount(t *testing.T) {
	t.Parallel()

	table := newTestTable(t)
	table.Join("a", "a")
	table.Join("b", "b")
	table.Join("c", "c")
	h, err := table.StartHand()
	if err != nil {
		t.Fatalf("start hand: %v", err)
	}

	pending, err := table.PromptBet()
	if err != nil {
		t.Fatalf("prompt bet: %v", err)
	}
	if pending.PlayerID != "a" || pending.Op != PendingBetAmount {
		t.Fatalf("pending = %+v, want bet amount from a", pending)
	}

	// A reply from anyone else is ordinary chat, not an answer.
	if err := table.SubmitReply("b", "40"); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("err = %v, want ErrNotYourTurn", err)
	}
	if table.Pending() == nil {
		t.Fatalf("prompt should survive a stranger's reply")
	}

	// Unparseable and below-minimum replies keep the prompt armed.
	if err := table.SubmitReply("a", "all of it"); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("err = %v, want ErrInvalidAmount", err)
	}
	if err := table.SubmitReply("a", "3"); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("err = %v, want ErrInvalidAmount", err)
	}
	if table.Pending() == nil {
		t.Fatalf("prompt should survive an invalid amount")
	}

	if err := table.SubmitReply("a", "40"); err != nil {
		t.Fatalf("submit reply: %v", err)
	}
	if table.Pending() != nil {
		t.Errorf("prompt should clear after a valid reply")
	}
	if h.CurrentBet() != 40 {
		t.Errorf("current bet = %d, want 40", h.CurrentBet())
	}
	if h.PlayerToAct().ID != "b" {
		t.Errorf("turn should pass after the raise resolves")
	}
}

func TestSubmitReplyStakesAndBalance(t *testing.T) {
	t.Parallel()

	table := newTestTable(t)
	table.Join("a", "a")

	if _, err := table.PromptStakes("ghost"); !errors.Is(err, ErrUnknownPlayer) {
		t.Errorf("err = %v, want ErrUnknownPlayer", err)
	}

	if _, err := table.PromptStakes("a"); err != nil {
		t.Fatalf("prompt stakes: %v", err)
	}
	if err := table.SubmitReply("a", " 3 "); err != nil {
		t.Fatalf("submit reply: %v", err)
	}
	if table.SmallBlind() != 3 || table.BigBlind() != 6 {
		t.Errorf("stakes = %d/%d, want 3/6", table.SmallBlind(), table.BigBlind())
	}

	if _, err := table.PromptBalance("a"); err != nil {
		t.Fatalf("prompt balance: %v", err)
	}
	if err := table.SubmitReply("a", "10"); !errors.Is(err, ErrBelowBuyIn) {
		t.Errorf("err = %v, want ErrBelowBuyIn", err)
	}
	if table.Pending() == nil {
		t.Fatalf("prompt should survive a rejected balance")
	}
	if err := table.SubmitReply("a", "900"); err != nil {
		t.Fatalf("submit reply: %v", err)
	}
	if got := table.Players()[0].Chips; got != 900 {
		t.Errorf("balance = %d, want 900", got)
	}
}

func TestHoleCardsVisibleOnlyToOwner(t *testing.T) {
	t.Parallel()

	table := newTestTable(t)
	table.Join("a", "a")
	table.Join("b", "b")
	if _, err := table.StartHand(); err != nil {
		t.Fatalf("start hand: %v", err)
	}

	cards, err := table.HoleCards("a")
	if err != nil {
		t.Fatalf("hole cards: %v", err)
	}
	if len(cards) != 2 {
		t.Errorf("got %d hole cards, want 2", len(cards))
	}
	if _, err := table.HoleCards("ghost"); !errors.Is(err, ErrUnknownPlayer) {
		t.Errorf("err = %v, want ErrUnknownPlayer", err)
	}
}

func TestSnapshotShowsPublicState(t *testing.T) {
	t.Parallel()

	table := newTestTable(t)
	table.Join("a", "a")
	table.Join("b", "b")
	table.Join("c", "c")
	if _, err := table.StartHand(); err != nil {
		t.Fatalf("start hand: %v", err)
	}

	snap := table.Snapshot()
	if snap.Stage != PreFlop {
		t.Errorf("stage = %v, want preflop", snap.Stage)
	}
	if snap.Pot != 15 {
		t.Errorf("pot = %d, want 15", snap.Pot)
	}
	if snap.SmallBlind != 5 || snap.BigBlind != 10 {
		t.Errorf("stakes = %d/%d, want 5/10", snap.SmallBlind, snap.BigBlind)
	}
	if len(snap.Players) != 3 {
		t.Fatalf("snapshot has %d players, want 3", len(snap.Players))
	}

	turns := 0
	for _, p := range snap.Players {
		if p.IsTurn {
			turns++
			if p.ID != "a" {
				t.Errorf("turn marked on %s, want a", p.ID)
			}
		}
	}
	if turns != 1 {
		t.Errorf("exactly one player should be marked to act, got %d", turns)
	}
}

func TestEventsPublishedThroughHand(t *testing.T) {
	t.Parallel()

	bus := NewEventBus()
	rec := &recordingSubscriber{}
	bus.Subscribe(rec)

	table := newTestTable(t, WithEventBus(bus))
	table.Join("a", "a")
	table.Join("b", "b")
	h, err := table.StartHand()
	if err != nil {
		t.Fatalf("start hand: %v", err)
	}
	mustAct(t, h, "b", Fold, 0)

	want := []EventType{
		EventTypePlayerJoined,
		EventTypePlayerJoined,
		EventTypeHandStart,
		EventTypePlayerAction,
		EventTypeHandEnd,
	}
	if len(rec.types) != len(want) {
		t.Fatalf("got %d events %v, want %d", len(rec.types), rec.types, len(want))
	}
	for i, et := range want {
		if rec.types[i] != et {
			t.Errorf("event %d = %v, want %v", i, rec.types[i], et)
		}
	}

	end, ok := rec.last.(HandEndEvent)
	if !ok {
		t.Fatalf("last event is %T, want HandEndEvent", rec.last)
	}
	if end.ShowdownType != "fold" {
		t.Errorf("showdown type = %q, want fold", end.ShowdownType)
	}
	if end.PotSize != 15 {
		t.Errorf("pot size = %d, want 15", end.PotSize)
	}
	if end.HandID != h.ID() {
		t.Errorf("hand id = %q, want %q", end.HandID, h.ID())
	}
	if err := gameid.Validate(end.HandID); err != nil {
		t.Errorf("hand id %q: %v", end.HandID, err)
	}
}

type recordingSubscriber struct {
	types []EventType
	last  GameEvent
}

func (r *recordingSubscriber) OnEvent(event GameEvent) {
	r.types = append(r.types, event.EventType())
	r.last = event
}
