// Package layout places cards on a 2D surface for graphical clients. It is
// computed from a table snapshot after the fact and never feeds back into
// the game.
package layout

import (
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

const (
	// CardStep is how far each following card is nudged from the one before
	CardStep = 20
	// SplitDivisor sets the quadrant offset for split hands as width/SplitDivisor
	SplitDivisor = 25
)

// Viewport is the drawable area in pixels
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DefaultViewport is used when a client does not say how big it is
var DefaultViewport = Viewport{Width: 1280, Height: 720}

// Point is a pixel coordinate, origin top left
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Placed is a card with its position. Hidden cards are drawn face down.
type Placed struct {
	Card   string `json:"card,omitempty"`
	Hidden bool   `json:"hidden,omitempty"`
	At     Point  `json:"at"`
}

// PlayerLayout holds one player's hands in hand order
type PlayerLayout struct {
	Seat  int        `json:"seat"`
	Hands [][]Placed `json:"hands"`
}

// Layout is every visible card on the table
type Layout struct {
	Viewport Viewport       `json:"viewport"`
	Dealer   []Placed       `json:"dealer"`
	Players  []PlayerLayout `json:"players"`
}

// Positions lays out a snapshot. Players are spread along the lower part of
// the viewport in seat order and the dealer sits top centre. Player cards
// fan up and to the right, dealer cards down and to the left.
func Positions(snap game.TableSnapshot, vp Viewport) Layout {
	if vp.Width <= 0 || vp.Height <= 0 {
		vp = DefaultViewport
	}

	out := Layout{Viewport: vp}

	dealerAnchor := Point{X: vp.Width / 2, Y: vp.Height / 4}
	out.Dealer = fan(snap.Dealer.Cards, dealerAnchor, -CardStep, CardStep)
	if snap.Dealer.HoleHidden && len(out.Dealer) > 0 {
		last := out.Dealer[len(out.Dealer)-1].At
		out.Dealer = append(out.Dealer, Placed{
			Hidden: true,
			At:     Point{X: last.X - CardStep, Y: last.Y + CardStep},
		})
	}

	n := len(snap.Players)
	for i, p := range snap.Players {
		anchor := Point{
			X: vp.Width * (i + 1) / (n + 1),
			Y: vp.Height * 3 / 4,
		}
		pl := PlayerLayout{Seat: p.Seat}
		for h, hand := range p.Hands {
			pl.Hands = append(pl.Hands, fan(hand.Cards, HandAnchor(anchor, h, len(p.Hands), vp), CardStep, -CardStep))
		}
		out.Players = append(out.Players, pl)
	}
	return out
}

// HandAnchor returns where the first card of hand index sits when a player
// holds count hands. A single hand uses the seat anchor; split hands move
// into quadrants around it: bottom left, bottom right, top left, top right.
func HandAnchor(seat Point, index, count int, vp Viewport) Point {
	if count <= 1 {
		return seat
	}
	off := vp.Width / SplitDivisor
	switch index {
	case 0:
		return Point{X: seat.X - off, Y: seat.Y + off}
	case 1:
		return Point{X: seat.X + off, Y: seat.Y + off}
	case 2:
		return Point{X: seat.X - off, Y: seat.Y - off}
	default:
		return Point{X: seat.X + off, Y: seat.Y - off}
	}
}

func fan(cards []deck.Card, anchor Point, dx, dy int) []Placed {
	placed := make([]Placed, 0, len(cards)+1)
	at := anchor
	for _, c := range cards {
		placed = append(placed, Placed{Card: c.String(), At: at})
		at.X += dx
		at.Y += dy
	}
	return placed
}
