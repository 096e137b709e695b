// package memory implements the bounded per-caller history of generated songs.
//
// The store biases future generations away from repeats: the prompt composer
// reads a caller's history and appends an avoidance clause to the model
// instruction. It is a process-lifetime cache with no persistence and no
// expiry by time, only by insertion-order bound.
package memory

import (
	"sync"

	"moodlist/internal/models"
)

const (
	// DefaultHistorySize bounds the songs kept per caller.
	DefaultHistorySize = 100
	// DefaultMaxKeys bounds the number of distinct caller keys.
	DefaultMaxKeys = 100

	anonymousKey = "anonymous"
)

// CallerKeyFromToken derives a cache partition key from a bearer credential.
//
// The last 10 characters of the token are a deliberately weak, non-cryptographic
// identity proxy carried over from the original design: collisions are
// possible and the key is not a security boundary. It only buckets traffic
// for the repetition memory.
func CallerKeyFromToken(token string) string {
	if token == "" {
		return anonymousKey
	}
	runes := []rune(token)
	if len(runes) <= 10 {
		return token
	}
	return string(runes[len(runes)-10:])
}

// Store is a bounded, mutex-guarded map of caller key to song history.
//
// Per-key histories keep the most recent historySize songs (oldest dropped
// first). The key set is capped at maxKeys; inserting a new key past the cap
// evicts the oldest-inserted key, not the least recently used; the store
// does not track access recency.
type Store struct {
	mu          sync.Mutex
	histories   map[string][]models.Song
	keyOrder    []string
	historySize int
	maxKeys     int
}

// NewStore creates a Store with the given capacities.
//
// Non-positive capacities fall back to the defaults.
func NewStore(historySize, maxKeys int) *Store {
	if historySize <= 0 {
		historySize = DefaultHistorySize
	}
	if maxKeys <= 0 {
		maxKeys = DefaultMaxKeys
	}
	return &Store{
		histories:   make(map[string][]models.Song),
		historySize: historySize,
		maxKeys:     maxKeys,
	}
}

// Record appends songs to the caller's history, truncating to the most recent
// historySize entries and evicting the oldest caller key if the key cap is
// exceeded.
func (s *Store) Record(callerKey string, songs []models.Song) {
	if len(songs) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	history, exists := s.histories[callerKey]
	history = append(history, songs...)
	if len(history) > s.historySize {
		history = history[len(history)-s.historySize:]
	}
	s.histories[callerKey] = history

	if !exists {
		s.keyOrder = append(s.keyOrder, callerKey)
		if len(s.keyOrder) > s.maxKeys {
			oldest := s.keyOrder[0]
			s.keyOrder = s.keyOrder[1:]
			delete(s.histories, oldest)
		}
	}
}

// History returns a copy of the caller's history, oldest first, or nil if absent.
func (s *Store) History(callerKey string) []models.Song {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.histories[callerKey]
	if !ok {
		return nil
	}

	out := make([]models.Song, len(history))
	copy(out, history)
	return out
}

// Len reports the number of distinct caller keys currently stored.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.histories)
}
