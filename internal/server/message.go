package server

import (
	"encoding/json"
	"time"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/layout"
)

// MessageType identifies a WebSocket message
type MessageType string

func (t MessageType) String() string { return string(t) }

const (
	// Client → Server
	MessageTypeJoin   MessageType = "join"
	MessageTypeLeave  MessageType = "leave"
	MessageTypeAction MessageType = "action"
	MessageTypeDeal   MessageType = "deal"
	MessageTypeState  MessageType = "state" // Also sent back as the reply

	// Server → Client
	MessageTypeJoined   MessageType = "joined"
	MessageTypeRoundEnd MessageType = "round_end"
	MessageTypeTimeout  MessageType = "timeout"
	MessageTypeError    MessageType = "error"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	return &Message{
		Type:      messageType,
		Data:      raw,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type JoinData struct {
	Name string `json:"name"`
	Bank int    `json:"bank,omitempty"`
}

type ActionData struct {
	Action string `json:"action"`
}

// Server → Client Messages

type JoinedData struct {
	PlayerID string `json:"playerId"`
	Seat     int    `json:"seat"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type TimeoutData struct {
	Seat   int    `json:"seat"`
	Player string `json:"player"`
	Action string `json:"action"`
}

type HandData struct {
	Cards   []string `json:"cards"`
	Value   int      `json:"value"`
	Bet     int      `json:"bet"`
	Status  string   `json:"status"`
	Outcome string   `json:"outcome"`
	Delta   int      `json:"delta"`
}

type PlayerData struct {
	Seat   int        `json:"seat"`
	Name   string     `json:"name"`
	Bank   int        `json:"bank"`
	Bet    int        `json:"bet"`
	Active int        `json:"active"`
	Done   bool       `json:"done"`
	Hands  []HandData `json:"hands"`
}

type DealerData struct {
	Cards      []string `json:"cards"`
	HoleHidden bool     `json:"holeHidden"`
	Value      int      `json:"value"`
	Status     string   `json:"status"`
}

type ResultData struct {
	Seat        int      `json:"seat"`
	Player      string   `json:"player"`
	Hand        int      `json:"hand"`
	Cards       []string `json:"cards"`
	Value       int      `json:"value"`
	DealerValue int      `json:"dealerValue"`
	Bet         int      `json:"bet"`
	Outcome     string   `json:"outcome"`
	Delta       int      `json:"delta"`
}

type StateData struct {
	RoundID        string         `json:"roundId"`
	Round          int            `json:"round"`
	Phase          string         `json:"phase"`
	Current        int            `json:"current"`
	Players        []PlayerData   `json:"players"`
	Dealer         DealerData     `json:"dealer"`
	Results        []ResultData   `json:"results,omitempty"`
	CardsRemaining int            `json:"cardsRemaining"`
	Layout         *layout.Layout `json:"layout,omitempty"`
}

type RoundEndData struct {
	RoundID string       `json:"roundId"`
	Results []ResultData `json:"results"`
}

// StateFromSnapshot converts a table snapshot to its wire form
func StateFromSnapshot(snap game.TableSnapshot) StateData {
	state := StateData{
		RoundID:        snap.RoundID,
		Round:          snap.Round,
		Phase:          snap.Phase.String(),
		Current:        snap.Current,
		Results:        resultsData(snap.Results),
		CardsRemaining: snap.CardsRemaining,
		Dealer: DealerData{
			Cards:      cardStrings(snap.Dealer.Cards),
			HoleHidden: snap.Dealer.HoleHidden,
			Value:      snap.Dealer.Value,
			Status:     snap.Dealer.Status.String(),
		},
	}
	for _, p := range snap.Players {
		pd := PlayerData{
			Seat:   p.Seat,
			Name:   p.Name,
			Bank:   p.Bank,
			Bet:    p.Bet,
			Active: p.Active,
			Done:   p.Done,
			Hands:  make([]HandData, 0, len(p.Hands)),
		}
		for _, h := range p.Hands {
			pd.Hands = append(pd.Hands, HandData{
				Cards:   cardStrings(h.Cards),
				Value:   h.Value(),
				Bet:     h.Bet,
				Status:  h.Status.String(),
				Outcome: h.Outcome.String(),
				Delta:   h.Delta,
			})
		}
		state.Players = append(state.Players, pd)
	}
	return state
}

func resultsData(results []game.HandResult) []ResultData {
	var out []ResultData
	for _, r := range results {
		out = append(out, ResultData{
			Seat:        r.Seat,
			Player:      r.Player,
			Hand:        r.HandIndex,
			Cards:       cardStrings(r.Cards),
			Value:       r.Value,
			DealerValue: r.DealerValue,
			Bet:         r.Bet,
			Outcome:     r.Outcome.String(),
			Delta:       r.Delta,
		})
	}
	return out
}

func cardStrings(cards []deck.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}
