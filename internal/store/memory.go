package store

import "sync"

// PendingStore holds each user's images awaiting conversion, in arrival order.
// Implementations must be safe for concurrent use.
type PendingStore interface {
	// Append adds blob to the user's sequence, creating it if absent,
	// and returns the new count.
	Append(userID int64, blob []byte) int
	// Count returns the number of pending images; zero when absent.
	Count(userID int64) int
	// Get returns the user's sequence without removing it.
	Get(userID int64) [][]byte
	// Take returns the user's sequence and removes the entry in one step.
	// Callers that do not hold the user's lock drain with Take; the document
	// assembler instead uses Get and a deferred Clear so that the images stay
	// pending until its attempt has finished.
	Take(userID int64) [][]byte
	// Clear removes the entry. Clearing an absent entry is a no-op.
	Clear(userID int64)
}

// MemoryStore is a process-local PendingStore. Contents are lost on restart.
type MemoryStore struct {
	mu      sync.Mutex
	pending map[int64][][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{pending: make(map[int64][][]byte)}
}

func (s *MemoryStore) Append(userID int64, blob []byte) int {
	cp := make([]byte, len(blob))
	copy(cp, blob)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[userID] = append(s.pending[userID], cp)
	return len(s.pending[userID])
}

func (s *MemoryStore) Count(userID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending[userID])
}

func (s *MemoryStore) Get(userID int64) [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	blobs := s.pending[userID]
	if blobs == nil {
		return nil
	}
	out := make([][]byte, len(blobs))
	copy(out, blobs)
	return out
}

func (s *MemoryStore) Take(userID int64) [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	blobs := s.pending[userID]
	delete(s.pending, userID)
	return blobs
}

func (s *MemoryStore) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, userID)
}

// Has reports whether an entry exists for the user.
func (s *MemoryStore) Has(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[userID]
	return ok
}
