package user

import (
	"sync"
	"time"
)

// Pending holds a registration awaiting face verification. It lives only in
// the PendingStore between temp-upload and face-verify.
type Pending struct {
	TempID    string
	FirstName string
	LastName  string
	Email     string
	Password  string
	CardFile  string
	ExpiresAt time.Time
}

// PendingStore is a time-bounded in-memory store of registrations awaiting
// face verification. Entries are removed on verify success, verify failure,
// or expiry; a background sweep evicts whatever the happy paths missed.
type PendingStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]*Pending
	done    chan struct{}
	once    sync.Once
}

func NewPendingStore(ttl time.Duration) *PendingStore {
	s := &PendingStore{
		ttl:     ttl,
		entries: make(map[string]*Pending),
		done:    make(chan struct{}),
	}
	go s.sweep()
	return s
}

func (s *PendingStore) Put(p *Pending) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ExpiresAt = time.Now().Add(s.ttl)
	s.entries[p.TempID] = p
}

// Take removes and returns the entry; expired entries are not returned.
func (s *PendingStore) Take(tempID string) (*Pending, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.entries[tempID]
	if !ok {
		return nil, false
	}
	delete(s.entries, tempID)
	if time.Now().After(p.ExpiresAt) {
		return nil, false
	}
	return p, true
}

func (s *PendingStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *PendingStore) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *PendingStore) sweep() {
	t := time.NewTicker(time.Minute)
	defer t.Stop()
	for {
		select {
		case <-s.done:
			return
		case now := <-t.C:
			s.mu.Lock()
			for id, p := range s.entries {
				if now.After(p.ExpiresAt) {
					delete(s.entries, id)
				}
			}
			s.mu.Unlock()
		}
	}
}
