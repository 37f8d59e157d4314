// Package fishing implements the catch probability engine and the in-memory
// stores backing the fishing commands.
package fishing

import "math/rand"

// Rarity buckets fish by scarcity. Gear modifiers apply per rarity.
type Rarity string

const (
	Common    Rarity = "common"
	Uncommon  Rarity = "uncommon"
	Rare      Rarity = "rare"
	Epic      Rarity = "epic"
	Legendary Rarity = "legendary"
)

// Fish is one catchable species.
type Fish struct {
	ID         string
	Name       string
	Emoji      string
	Rarity     Rarity
	BaseChance float64
	MinValue   int64
	MaxValue   int64
}

// Modifiers are the per-rarity multipliers in effect for one cast. A missing
// rarity entry means no adjustment for that bucket.
type Modifiers struct {
	Rod     map[Rarity]float64
	Weather map[Rarity]float64
	Bait    map[Rarity]float64
	Luck    float64
}

func lookup(m map[Rarity]float64, r Rarity) float64 {
	if m == nil {
		return 1
	}
	if v, ok := m[r]; ok {
		return v
	}
	return 1
}

// MinChance is the floor applied to every adjusted chance before
// normalization, so heavy negative modifiers can never zero a species out.
const MinChance = 0.1

// ComputeChances applies the modifiers to each species' base chance, floors
// the results, and normalizes them so they sum to 100. Returns one weight per
// catalog entry, in catalog order.
func ComputeChances(catalog []Fish, mods Modifiers) []float64 {
	luck := mods.Luck
	if luck <= 0 {
		luck = 1
	}

	weights := make([]float64, len(catalog))
	total := 0.0
	for i, f := range catalog {
		chance := f.BaseChance *
			lookup(mods.Rod, f.Rarity) *
			lookup(mods.Weather, f.Rarity) *
			lookup(mods.Bait, f.Rarity) *
			luck
		if chance < MinChance {
			chance = MinChance
		}
		weights[i] = chance
		total += chance
	}
	if total <= 0 {
		return weights
	}
	for i := range weights {
		weights[i] = weights[i] / total * 100
	}
	return weights
}

// Catch rolls one cast against the catalog under the given modifiers. The
// draw walks the normalized weights cumulatively; if floating point drift
// leaves the roll past the last bucket, the first common species is the
// guaranteed fallback.
func Catch(rng *rand.Rand, catalog []Fish, mods Modifiers) Fish {
	weights := ComputeChances(catalog, mods)
	roll := rng.Float64() * 100

	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if roll < cumulative {
			return catalog[i]
		}
	}
	return fallbackFish(catalog)
}

func fallbackFish(catalog []Fish) Fish {
	for _, f := range catalog {
		if f.Rarity == Common {
			return f
		}
	}
	return catalog[0]
}

// RollValue picks a sale value between the species' min and max, inclusive.
func RollValue(rng *rand.Rand, f Fish) int64 {
	if f.MaxValue <= f.MinValue {
		return f.MinValue
	}
	return f.MinValue + rng.Int63n(f.MaxValue-f.MinValue+1)
}
