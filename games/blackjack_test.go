package games

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func card(rank, suit string) Card {
	return Card{Rank: rank, Suit: suit}
}

func TestScore_SoftAces(t *testing.T) {
	tests := []struct {
		name string
		hand []Card
		want int
	}{
		{"ace king is 21", []Card{card("A", "♠"), card("K", "♥")}, 21},
		{"ace counts 11 when safe", []Card{card("A", "♠"), card("6", "♥")}, 17},
		{"ace drops to 1 to avoid bust", []Card{card("A", "♠"), card("6", "♥"), card("9", "♦")}, 16},
		{"two aces are 12", []Card{card("A", "♠"), card("A", "♥")}, 12},
		{"aces drop one at a time", []Card{card("A", "♠"), card("A", "♥"), card("9", "♦")}, 21},
		{"all face cards", []Card{card("K", "♠"), card("Q", "♥"), card("J", "♦")}, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.hand))
		})
	}
}

func TestIsBlackjack(t *testing.T) {
	assert.True(t, IsBlackjack([]Card{card("A", "♠"), card("K", "♥")}))
	assert.True(t, IsBlackjack([]Card{card("10", "♦"), card("A", "♣")}))

	// A three-card 21 is not a natural.
	assert.False(t, IsBlackjack([]Card{card("7", "♠"), card("7", "♥"), card("7", "♦")}))
	assert.False(t, IsBlackjack([]Card{card("A", "♠"), card("9", "♥")}))
}

func TestResolveBlackjack(t *testing.T) {
	natural := []Card{card("A", "♠"), card("K", "♥")}
	twenty := []Card{card("K", "♠"), card("Q", "♦")}
	threeCard21 := []Card{card("7", "♠"), card("7", "♥"), card("7", "♦")}
	bust := []Card{card("K", "♠"), card("Q", "♥"), card("5", "♦")}

	assert.Equal(t, OutcomePlayerBlackjack, ResolveBlackjack(natural, twenty))
	assert.Equal(t, OutcomePlayerBlackjack, ResolveBlackjack(natural, threeCard21))
	assert.Equal(t, OutcomePlayerLose, ResolveBlackjack(threeCard21, natural))
	assert.Equal(t, OutcomePush, ResolveBlackjack(natural, []Card{card("A", "♦"), card("Q", "♣")}))
	assert.Equal(t, OutcomePush, ResolveBlackjack(twenty, []Card{card("10", "♥"), card("10", "♣")}))
	assert.Equal(t, OutcomePlayerWin, ResolveBlackjack(twenty, []Card{card("K", "♥"), card("9", "♣")}))
	assert.Equal(t, OutcomePlayerLose, ResolveBlackjack(bust, twenty))
	assert.Equal(t, OutcomePlayerWin, ResolveBlackjack(twenty, bust))

	// Both busting still loses for the player.
	assert.Equal(t, OutcomePlayerLose, ResolveBlackjack(bust, bust))
}

func TestPlayDealer_StandsAt17(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		deck := NewDeck(rng)
		hand := PlayDealer(deck, deck.DrawN(2))

		score := Score(hand)
		require.GreaterOrEqual(t, score, DealerStandScore, "seed %d", seed)

		// The hand before the last draw must have been below 17.
		if len(hand) > 2 {
			require.Less(t, Score(hand[:len(hand)-1]), DealerStandScore, "seed %d", seed)
		}
	}
}

func TestDeck_DealsWithoutReplacement(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	deck := NewDeck(rng)
	require.Equal(t, 52, deck.Remaining())

	seen := make(map[Card]bool)
	for deck.Remaining() > 0 {
		c := deck.Draw()
		require.False(t, seen[c], "duplicate card %s", c)
		seen[c] = true
	}
	assert.Len(t, seen, 52)
}

func TestBlackjackSession(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	session := NewBlackjackSession(rng, 1, 2, 100)

	assert.Len(t, session.PlayerHand, 2)
	assert.Len(t, session.DealerHand, 2)
	assert.Equal(t, int64(100), session.Bet)
	assert.Equal(t, 48, session.Deck.Remaining())

	before := len(session.PlayerHand)
	session.Hit()
	assert.Len(t, session.PlayerHand, before+1)

	outcome := session.Stand()
	assert.Contains(t, []BlackjackOutcome{
		OutcomePlayerBlackjack, OutcomePlayerWin, OutcomePlayerLose, OutcomePush,
	}, outcome)
	assert.GreaterOrEqual(t, Score(session.DealerHand), DealerStandScore)
}

func TestFlipCoin_BothSidesOccur(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	counts := map[CoinSide]int{}
	for i := 0; i < 1000; i++ {
		counts[FlipCoin(rng)]++
	}
	assert.Greater(t, counts[Heads], 400)
	assert.Greater(t, counts[Tails], 400)
}
