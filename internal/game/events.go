package game

import (
	"time"

	"github.com/delminho/tabletop-holdem/poker"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for game domain events
const (
	EventTypeHandStart    EventType = "hand_start"
	EventTypeHandEnd      EventType = "hand_end"
	EventTypeStageChange  EventType = "stage_change"
	EventTypePlayerAction EventType = "player_action"
	EventTypePlayerJoined EventType = "player_joined"
	EventTypePlayerLeft   EventType = "player_left"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any event that occurs at a table. The transport
// layer subscribes to these to render chat messages; the engine itself
// never formats text.
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// PlayerActionEvent is published when a player takes an action
type PlayerActionEvent struct {
	Player    *Player
	Action    Action
	Amount    int
	Stage     Stage
	PotAfter  int
	timestamp time.Time
}

func (e PlayerActionEvent) EventType() EventType { return EventTypePlayerAction }
func (e PlayerActionEvent) Timestamp() time.Time { return e.timestamp }

// NewPlayerActionEvent creates a new player action event
func NewPlayerActionEvent(player *Player, action Action, amount int, stage Stage, potAfter int) PlayerActionEvent {
	return PlayerActionEvent{
		Player:    player,
		Action:    action,
		Amount:    amount,
		Stage:     stage,
		PotAfter:  potAfter,
		timestamp: time.Now(),
	}
}

// StageChangeEvent is published when the betting stage advances and new
// community cards are revealed.
type StageChangeEvent struct {
	Stage          Stage
	CommunityCards []poker.Card
	Pot            int
	timestamp      time.Time
}

func (e StageChangeEvent) EventType() EventType { return EventTypeStageChange }
func (e StageChangeEvent) Timestamp() time.Time { return e.timestamp }

// NewStageChangeEvent creates a new stage change event
func NewStageChangeEvent(stage Stage, communityCards []poker.Card, pot int) StageChangeEvent {
	cards := make([]poker.Card, len(communityCards))
	copy(cards, communityCards)
	return StageChangeEvent{
		Stage:          stage,
		CommunityCards: cards,
		Pot:            pot,
		timestamp:      time.Now(),
	}
}

// HandStartEvent is published when a new hand begins
type HandStartEvent struct {
	HandID     string
	HandNum    int
	Players    []*Player
	SmallBlind int
	BigBlind   int
	timestamp  time.Time
}

func (e HandStartEvent) EventType() EventType { return EventTypeHandStart }
func (e HandStartEvent) Timestamp() time.Time { return e.timestamp }

// NewHandStartEvent creates a new hand start event
func NewHandStartEvent(handID string, handNum int, players []*Player, smallBlind, bigBlind int) HandStartEvent {
	return HandStartEvent{
		HandID:     handID,
		HandNum:    handNum,
		Players:    players,
		SmallBlind: smallBlind,
		BigBlind:   bigBlind,
		timestamp:  time.Now(),
	}
}

// HandEndEvent is published when a hand completes and the pot is awarded
type HandEndEvent struct {
	HandID       string
	HandNum      int
	Awards       []Award
	PotSize      int
	ShowdownType string // "fold" or "showdown"
	FinalBoard   []poker.Card
	timestamp    time.Time
}

func (e HandEndEvent) EventType() EventType { return EventTypeHandEnd }
func (e HandEndEvent) Timestamp() time.Time { return e.timestamp }

// NewHandEndEvent creates a new hand end event
func NewHandEndEvent(handID string, handNum int, awards []Award, potSize int, showdownType string, finalBoard []poker.Card) HandEndEvent {
	return HandEndEvent{
		HandID:       handID,
		HandNum:      handNum,
		Awards:       awards,
		PotSize:      potSize,
		ShowdownType: showdownType,
		FinalBoard:   finalBoard,
		timestamp:    time.Now(),
	}
}

// PlayerJoinedEvent is published when a player takes a seat
type PlayerJoinedEvent struct {
	Player    *Player
	timestamp time.Time
}

func (e PlayerJoinedEvent) EventType() EventType { return EventTypePlayerJoined }
func (e PlayerJoinedEvent) Timestamp() time.Time { return e.timestamp }

// NewPlayerJoinedEvent creates a new player joined event
func NewPlayerJoinedEvent(player *Player) PlayerJoinedEvent {
	return PlayerJoinedEvent{Player: player, timestamp: time.Now()}
}

// PlayerLeftEvent is published when a player gives up their seat
type PlayerLeftEvent struct {
	Player    *Player
	timestamp time.Time
}

func (e PlayerLeftEvent) EventType() EventType { return EventTypePlayerLeft }
func (e PlayerLeftEvent) Timestamp() time.Time { return e.timestamp }

// NewPlayerLeftEvent creates a new player left event
func NewPlayerLeftEvent(player *Player) PlayerLeftEvent {
	return PlayerLeftEvent{Player: player, timestamp: time.Now()}
}

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus. Delivery is synchronous
// and in subscription order, so a table pinned to one goroutine stays
// single-writer.
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
