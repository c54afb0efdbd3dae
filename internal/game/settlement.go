package game

import "github.com/lox/blackjack/internal/deck"

// HandResult is the settled result of one hand
type HandResult struct {
	Seat        int
	Player      string
	HandIndex   int
	Cards       []deck.Card
	Value       int
	DealerValue int
	Bet         int
	Outcome     Outcome
	Delta       int
}

// CheckForBlackjackAndBust classifies the active hand after it changed:
// over 21 busts and forfeits the stake on the spot, a two-card 21 is a
// blackjack, and any other 21 stands.
func CheckForBlackjackAndBust(p *Player) {
	if h := p.ActiveHand(); h != nil {
		checkHand(p, h)
	}
}

func checkHand(p *Player, h *Hand) {
	if h.Status != Active {
		return
	}

	h.NormalizeAces()
	switch v := h.Value(); {
	case v > Blackjack21:
		h.Status = Bust
		UpdatePlayerWinnings(p, h, Loss, DefaultPayout)
	case v == Blackjack21 && len(h.Cards) == 2:
		h.Status = Blackjack
	case v == Blackjack21:
		h.Status = Stood
	}
}

// CheckForWinner settles every unsettled hand against the dealer. It does
// nothing and returns false while any hand is still in play, which includes
// a hand waiting on a split decision.
func CheckForWinner(players []*Player, d *Dealer, payout PayoutTable) ([]HandResult, bool) {
	for _, p := range players {
		for _, h := range p.Hands {
			if h.Status == Active {
				return nil, false
			}
		}
	}

	var results []HandResult
	for _, p := range players {
		for i, h := range p.Hands {
			if !h.Settled {
				UpdatePlayerWinnings(p, h, judge(h, d), payout)
			}
			results = append(results, HandResult{
				Seat:        p.Seat,
				Player:      p.Name,
				HandIndex:   i,
				Cards:       append([]deck.Card(nil), h.Cards...),
				Value:       h.Value(),
				DealerValue: d.Value(),
				Bet:         h.Bet,
				Outcome:     h.Outcome,
				Delta:       h.Delta,
			})
		}
	}
	return results, true
}

// judge decides a finished hand against a finished dealer.
func judge(h *Hand, d *Dealer) Outcome {
	switch {
	case h.Status == Bust:
		return Loss
	case h.Status == Blackjack && d.HasNatural():
		return Push
	case h.Status == Blackjack:
		return BlackjackWin
	case d.IsBust():
		return Win
	case d.HasNatural():
		return Loss
	}

	pv, dv := h.Value(), d.Value()
	switch {
	case pv > dv:
		return Win
	case pv < dv:
		return Loss
	default:
		return Push
	}
}

// UpdatePlayerWinnings books an outcome for a hand exactly once: the bank
// receives the escrowed stake plus winnings, or nothing on a loss.
func UpdatePlayerWinnings(p *Player, h *Hand, o Outcome, payout PayoutTable) int {
	if h.Settled {
		return h.Delta
	}
	h.Outcome = o
	h.Delta = payout.Delta(o, h.Bet)
	p.Bank += payout.Return(o, h.Bet)
	h.Settled = true
	return h.Delta
}
