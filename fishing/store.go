package fishing

import (
	"sync"
	"time"
)

// CaughtFish is one fish sitting in a user's bucket waiting to be sold.
type CaughtFish struct {
	Fish     Fish
	Value    int64
	CaughtAt time.Time
}

type userKey struct {
	guildID int64
	userID  int64
}

// InventoryStore holds caught fish between the catch and the sale. The
// process losing this state is acceptable; fish only have value once sold.
type InventoryStore interface {
	Add(guildID, userID int64, fish CaughtFish)
	List(guildID, userID int64) []CaughtFish
	// Clear empties the bucket and returns what it held, so a sale reads and
	// drains atomically.
	Clear(guildID, userID int64) []CaughtFish
}

// BaitStore tracks how much bait each user has left. New users start with the
// configured free amount.
type BaitStore interface {
	Count(guildID, userID int64) int
	// Use consumes one bait and reports whether any was left to consume.
	Use(guildID, userID int64) bool
	Add(guildID, userID int64, amount int)
}

// MemoryInventory is the in-process InventoryStore.
type MemoryInventory struct {
	mu      sync.Mutex
	buckets map[userKey][]CaughtFish
}

func NewMemoryInventory() *MemoryInventory {
	return &MemoryInventory{buckets: make(map[userKey][]CaughtFish)}
}

func (m *MemoryInventory) Add(guildID, userID int64, fish CaughtFish) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := userKey{guildID, userID}
	m.buckets[key] = append(m.buckets[key], fish)
}

func (m *MemoryInventory) List(guildID, userID int64) []CaughtFish {
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket := m.buckets[userKey{guildID, userID}]
	out := make([]CaughtFish, len(bucket))
	copy(out, bucket)
	return out
}

func (m *MemoryInventory) Clear(guildID, userID int64) []CaughtFish {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := userKey{guildID, userID}
	bucket := m.buckets[key]
	delete(m.buckets, key)
	return bucket
}

// MemoryBait is the in-process BaitStore.
type MemoryBait struct {
	mu       sync.Mutex
	counts   map[userKey]int
	starting int
}

// NewMemoryBait builds a bait store where unseen users hold starting bait.
func NewMemoryBait(starting int) *MemoryBait {
	return &MemoryBait{counts: make(map[userKey]int), starting: starting}
}

func (m *MemoryBait) get(key userKey) int {
	if n, ok := m.counts[key]; ok {
		return n
	}
	return m.starting
}

func (m *MemoryBait) Count(guildID, userID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.get(userKey{guildID, userID})
}

func (m *MemoryBait) Use(guildID, userID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := userKey{guildID, userID}
	n := m.get(key)
	if n <= 0 {
		return false
	}
	m.counts[key] = n - 1
	return true
}

func (m *MemoryBait) Add(guildID, userID int64, amount int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := userKey{guildID, userID}
	m.counts[key] = m.get(key) + amount
}
