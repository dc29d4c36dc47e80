package sandbox

import (
	"sync"
	"time"
)

// Checkout is the sandbox's version of a Yoco checkout object
type Checkout struct {
	ID             string                 `json:"id"`
	RedirectURL    string                 `json:"redirectUrl"`
	Amount         int64                  `json:"amount"`
	Currency       string                 `json:"currency"`
	Status         string                 `json:"status"`
	CancelURL      string                 `json:"cancelUrl,omitempty"`
	SuccessURL     string                 `json:"successUrl,omitempty"`
	FailureURL     string                 `json:"failureUrl,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	ProcessingMode string                 `json:"processingMode"`
	CreatedAt      time.Time              `json:"createdAt"`
}

// Storage holds created checkouts in memory
type Storage struct {
	mu          sync.RWMutex
	checkouts   map[string]*Checkout
	idempotency map[string]string
}

func NewStorage() *Storage {
	return &Storage{
		checkouts:   make(map[string]*Checkout),
		idempotency: make(map[string]string),
	}
}

// SaveOnce stores the checkout built by create unless key was already used,
// in which case the earlier checkout is returned. The second result reports
// whether a new checkout was created.
func (s *Storage) SaveOnce(key string, create func() *Checkout) (*Checkout, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if key != "" {
		if id, ok := s.idempotency[key]; ok {
			return s.checkouts[id], false
		}
	}

	c := create()
	s.checkouts[c.ID] = c
	if key != "" {
		s.idempotency[key] = c.ID
	}
	return c, true
}

func (s *Storage) Get(id string) (*Checkout, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.checkouts[id]
	return c, ok
}

func (s *Storage) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.checkouts)
}
