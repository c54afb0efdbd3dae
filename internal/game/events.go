package game

import (
	"time"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for round events
const (
	EventTypeRoundStart   EventType = "round_start"
	EventTypeRoundEnd     EventType = "round_end"
	EventTypePlayerAction EventType = "player_action"
	EventTypeDealerPlay   EventType = "dealer_play"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents anything that happens during a round
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// RoundStartEvent is published once the opening cards are dealt
type RoundStartEvent struct {
	RoundID   string
	Round     int
	Snapshot  TableSnapshot
	timestamp time.Time
}

func (e RoundStartEvent) EventType() EventType { return EventTypeRoundStart }
func (e RoundStartEvent) Timestamp() time.Time { return e.timestamp }

// NewRoundStartEvent creates a new round start event
func NewRoundStartEvent(roundID string, round int, snap TableSnapshot) RoundStartEvent {
	return RoundStartEvent{
		RoundID:   roundID,
		Round:     round,
		Snapshot:  snap,
		timestamp: time.Now(),
	}
}

// PlayerActionEvent is published after an action actually ran
type PlayerActionEvent struct {
	RoundID   string
	Seat      int
	Player    string
	Action    Action
	HandIndex int
	Hand      Hand
	Bank      int
	timestamp time.Time
}

func (e PlayerActionEvent) EventType() EventType { return EventTypePlayerAction }
func (e PlayerActionEvent) Timestamp() time.Time { return e.timestamp }

// NewPlayerActionEvent creates a new player action event
func NewPlayerActionEvent(roundID string, p *Player, action Action, handIndex int) PlayerActionEvent {
	var hand Hand
	if handIndex >= 0 && handIndex < len(p.Hands) {
		hand = p.Hands[handIndex].clone()
	}
	return PlayerActionEvent{
		RoundID:   roundID,
		Seat:      p.Seat,
		Player:    p.Name,
		Action:    action,
		HandIndex: handIndex,
		Hand:      hand,
		Bank:      p.Bank,
		timestamp: time.Now(),
	}
}

// DealerPlayEvent is published when the dealer has played out the hand
type DealerPlayEvent struct {
	RoundID   string
	Hand      Hand
	Status    DealerStatus
	timestamp time.Time
}

func (e DealerPlayEvent) EventType() EventType { return EventTypeDealerPlay }
func (e DealerPlayEvent) Timestamp() time.Time { return e.timestamp }

// NewDealerPlayEvent creates a new dealer play event
func NewDealerPlayEvent(roundID string, d *Dealer) DealerPlayEvent {
	return DealerPlayEvent{
		RoundID:   roundID,
		Hand:      d.Hand.clone(),
		Status:    d.Status,
		timestamp: time.Now(),
	}
}

// RoundEndEvent is published after settlement
type RoundEndEvent struct {
	RoundID   string
	Results   []HandResult
	timestamp time.Time
}

func (e RoundEndEvent) EventType() EventType { return EventTypeRoundEnd }
func (e RoundEndEvent) Timestamp() time.Time { return e.timestamp }

// NewRoundEndEvent creates a new round end event
func NewRoundEndEvent(roundID string, results []HandResult) RoundEndEvent {
	return RoundEndEvent{
		RoundID:   roundID,
		Results:   results,
		timestamp: time.Now(),
	}
}

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventSubscriberFunc adapts a function to EventSubscriber
type EventSubscriberFunc func(event GameEvent)

// OnEvent calls f(event)
func (f EventSubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus implementation. Delivery
// is synchronous, in subscription order.
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events. Only comparable
// subscribers can be removed; never pass an EventSubscriberFunc here.
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
