package games

import "sort"

// HandRank orders five-card poker hands from weakest to strongest.
type HandRank int

const (
	HighCard HandRank = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

var handRankNames = map[HandRank]string{
	HighCard:      "High Card",
	Pair:          "Pair",
	TwoPair:       "Two Pair",
	ThreeOfAKind:  "Three of a Kind",
	Straight:      "Straight",
	Flush:         "Flush",
	FullHouse:     "Full House",
	FourOfAKind:   "Four of a Kind",
	StraightFlush: "Straight Flush",
	RoyalFlush:    "Royal Flush",
}

func (r HandRank) String() string {
	return handRankNames[r]
}

// pokerRankOrder maps ranks to their poker ordering, ace high.
var pokerRankOrder = map[string]int{
	"2": 2, "3": 3, "4": 4, "5": 5, "6": 6, "7": 7, "8": 8, "9": 9, "10": 10,
	"J": 11, "Q": 12, "K": 13, "A": 14,
}

// EvaluatePokerHand classifies a five-card hand into one of the ten ranks.
// The ace plays high except in the A-2-3-4-5 wheel straight.
func EvaluatePokerHand(hand []Card) HandRank {
	values := make([]int, len(hand))
	suitCounts := make(map[string]int)
	valueCounts := make(map[int]int)
	for i, c := range hand {
		v := pokerRankOrder[c.Rank]
		values[i] = v
		suitCounts[c.Suit]++
		valueCounts[v]++
	}
	sort.Ints(values)

	flush := len(suitCounts) == 1
	straight := isStraight(values)

	if flush && straight {
		if values[0] == 10 {
			return RoyalFlush
		}
		return StraightFlush
	}

	counts := make([]int, 0, len(valueCounts))
	for _, n := range valueCounts {
		counts = append(counts, n)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(counts)))

	switch {
	case counts[0] == 4:
		return FourOfAKind
	case counts[0] == 3 && counts[1] == 2:
		return FullHouse
	case flush:
		return Flush
	case straight:
		return Straight
	case counts[0] == 3:
		return ThreeOfAKind
	case counts[0] == 2 && counts[1] == 2:
		return TwoPair
	case counts[0] == 2:
		return Pair
	default:
		return HighCard
	}
}

// isStraight expects sorted distinct-or-not values and reports whether they
// form five consecutive ranks, including the wheel (A-2-3-4-5).
func isStraight(sorted []int) bool {
	if len(sorted) != 5 {
		return false
	}
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			return false
		}
	}
	if sorted[4]-sorted[0] == 4 {
		return true
	}
	// Wheel: 2,3,4,5,A sorts as [2 3 4 5 14].
	return sorted[0] == 2 && sorted[3] == 5 && sorted[4] == 14
}
