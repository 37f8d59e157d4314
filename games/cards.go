// Package games holds the pure probability engines for the gambling commands:
// coin flips, blackjack scoring, and five-card poker evaluation. Nothing in
// this package touches the ledger; callers apply payouts themselves.
package games

import "math/rand"

// Card is a single playing card.
type Card struct {
	Rank string
	Suit string
}

func (c Card) String() string {
	return c.Rank + c.Suit
}

// IsAce reports whether the card is an ace.
func (c Card) IsAce() bool {
	return c.Rank == "A"
}

// Suits and Ranks enumerate a standard 52-card deck.
var (
	Suits = []string{"♠", "♥", "♦", "♣"}
	Ranks = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}
)

// rankValues maps ranks to blackjack values. Aces count 11 here; scoring drops
// them to 1 as needed.
var rankValues = map[string]int{
	"2": 2, "3": 3, "4": 4, "5": 5, "6": 6, "7": 7, "8": 8, "9": 9, "10": 10,
	"J": 10, "Q": 10, "K": 10, "A": 11,
}

// Deck is a shuffled 52-card deck that deals without replacement.
type Deck struct {
	cards []Card
	dealt int
}

// NewDeck builds and shuffles a standard deck using the given RNG.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{cards: make([]Card, 0, 52)}
	for _, suit := range Suits {
		for _, rank := range Ranks {
			d.cards = append(d.cards, Card{Rank: rank, Suit: suit})
		}
	}
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
	return d
}

// Draw deals the next card. Panics if the deck is exhausted; a single game
// never comes close to 52 cards.
func (d *Deck) Draw() Card {
	card := d.cards[d.dealt]
	d.dealt++
	return card
}

// DrawN deals n cards.
func (d *Deck) DrawN(n int) []Card {
	hand := make([]Card, n)
	for i := range hand {
		hand[i] = d.Draw()
	}
	return hand
}

// Remaining returns how many cards are left to deal.
func (d *Deck) Remaining() int {
	return len(d.cards) - d.dealt
}

// CoinSide is the outcome of a coin flip.
type CoinSide string

const (
	Heads CoinSide = "heads"
	Tails CoinSide = "tails"
)

// FlipCoin returns heads or tails with equal probability.
func FlipCoin(rng *rand.Rand) CoinSide {
	if rng.Intn(2) == 0 {
		return Heads
	}
	return Tails
}
