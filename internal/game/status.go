package game

// HandStatus is the play state of a single hand
type HandStatus int

const (
	// Active hands can still take cards.
	Active HandStatus = iota
	// Stood hands are finished without busting, either by standing or by
	// reaching 21 with more than two cards.
	Stood
	// Bust hands went over 21 with no soft ace left to demote.
	Bust
	// Blackjack hands made 21 with their first two cards.
	Blackjack
)

// String returns the string representation of a hand status
func (s HandStatus) String() string {
	switch s {
	case Active:
		return "active"
	case Stood:
		return "stood"
	case Bust:
		return "bust"
	case Blackjack:
		return "blackjack"
	default:
		return "unknown"
	}
}

// Done reports whether the hand can no longer act
func (s HandStatus) Done() bool {
	return s != Active
}

// Outcome is the settled result of a hand against the dealer
type Outcome int

const (
	Pending Outcome = iota
	Win
	Loss
	Push
	BlackjackWin
)

// String returns the string representation of an outcome
func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Win:
		return "win"
	case Loss:
		return "loss"
	case Push:
		return "push"
	case BlackjackWin:
		return "blackjack"
	default:
		return "unknown"
	}
}

// IsWin reports whether the outcome pays the player
func (o Outcome) IsWin() bool {
	return o == Win || o == BlackjackWin
}

// DealerStatus is the play state of the dealer's hand
type DealerStatus int

const (
	// Waiting means the dealer has not drawn yet this round.
	Waiting DealerStatus = iota
	// Finished means the dealer stopped at or above the stand threshold.
	Finished
	// DealerBust means the dealer finished over 21.
	DealerBust
)

// String returns the string representation of a dealer status
func (s DealerStatus) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case Finished:
		return "finished"
	case DealerBust:
		return "bust"
	default:
		return "unknown"
	}
}

// Phase is the round lifecycle state of a table
type Phase int

const (
	Betting Phase = iota
	Dealing
	PlayerActions
	DealerTurn
	Settlement
)

// String returns the string representation of a phase
func (p Phase) String() string {
	switch p {
	case Betting:
		return "Betting"
	case Dealing:
		return "Dealing"
	case PlayerActions:
		return "Player Actions"
	case DealerTurn:
		return "Dealer Turn"
	case Settlement:
		return "Settlement"
	default:
		return "Unknown"
	}
}
