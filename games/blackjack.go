package games

import "math/rand"

// DealerStandScore is the total at which the dealer stops drawing.
const DealerStandScore = 17

// Score returns the best blackjack total for a hand. Aces count 11 until the
// hand would bust, then drop to 1 one at a time.
func Score(hand []Card) int {
	total := 0
	aces := 0
	for _, c := range hand {
		total += rankValues[c.Rank]
		if c.IsAce() {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

// IsBlackjack reports whether the hand is a natural: exactly two cards
// totalling 21. A three-card 21 is not a blackjack.
func IsBlackjack(hand []Card) bool {
	return len(hand) == 2 && Score(hand) == 21
}

// IsBust reports whether the hand's best total exceeds 21.
func IsBust(hand []Card) bool {
	return Score(hand) > 21
}

// BlackjackOutcome classifies a resolved blackjack round.
type BlackjackOutcome string

const (
	OutcomePlayerBlackjack BlackjackOutcome = "blackjack"
	OutcomePlayerWin       BlackjackOutcome = "win"
	OutcomePlayerLose      BlackjackOutcome = "lose"
	OutcomePush            BlackjackOutcome = "push"
)

// PlayDealer draws cards for the dealer until the stand score is reached.
func PlayDealer(deck *Deck, hand []Card) []Card {
	for Score(hand) < DealerStandScore {
		hand = append(hand, deck.Draw())
	}
	return hand
}

// ResolveBlackjack compares a finished player hand against the dealer's.
// The player busting loses regardless of the dealer; a natural beats any
// non-natural 21.
func ResolveBlackjack(player, dealer []Card) BlackjackOutcome {
	playerScore := Score(player)
	dealerScore := Score(dealer)

	switch {
	case playerScore > 21:
		return OutcomePlayerLose
	case IsBlackjack(player) && !IsBlackjack(dealer):
		return OutcomePlayerBlackjack
	case IsBlackjack(dealer) && !IsBlackjack(player):
		return OutcomePlayerLose
	case dealerScore > 21:
		return OutcomePlayerWin
	case playerScore > dealerScore:
		return OutcomePlayerWin
	case playerScore < dealerScore:
		return OutcomePlayerLose
	default:
		return OutcomePush
	}
}

// BlackjackSession is one in-flight blackjack round. Sessions live in memory
// only; an abandoned session forfeits its bet when it expires.
type BlackjackSession struct {
	UserID     int64
	GuildID    int64
	Bet        int64
	Deck       *Deck
	PlayerHand []Card
	DealerHand []Card
}

// NewBlackjackSession deals the opening hands for a round: two cards to the
// player, two to the dealer.
func NewBlackjackSession(rng *rand.Rand, userID, guildID, bet int64) *BlackjackSession {
	deck := NewDeck(rng)
	return &BlackjackSession{
		UserID:     userID,
		GuildID:    guildID,
		Bet:        bet,
		Deck:       deck,
		PlayerHand: deck.DrawN(2),
		DealerHand: deck.DrawN(2),
	}
}

// Hit deals the player one card and returns whether the hand busted.
func (s *BlackjackSession) Hit() bool {
	s.PlayerHand = append(s.PlayerHand, s.Deck.Draw())
	return IsBust(s.PlayerHand)
}

// Stand finishes the round: the dealer draws to the stand score and the hands
// are compared.
func (s *BlackjackSession) Stand() BlackjackOutcome {
	s.DealerHand = PlayDealer(s.Deck, s.DealerHand)
	return ResolveBlackjack(s.PlayerHand, s.DealerHand)
}
