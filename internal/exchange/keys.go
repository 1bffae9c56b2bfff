package exchange

import (
	"sync"

	"github.com/seenimoa/cryptodeck/pkg/models"
)

// KeyObserver is notified when the key pair stored for a role changes.
type KeyObserver func(role models.ApiKeyRole)

// ApiKeyStore holds the per-role API key pairs of one market and fans
// out change notifications to registered observers. Registration is
// symmetric: Subscribe returns the cancel func that removes the
// observer, and callers are expected to invoke it.
type ApiKeyStore struct {
	mu        sync.RWMutex
	keys      map[models.ApiKeyRole]models.ApiKeyPair
	observers map[int]KeyObserver
	nextID    int
}

// NewApiKeyStore creates an empty key store.
func NewApiKeyStore() *ApiKeyStore {
	return &ApiKeyStore{
		keys:      make(map[models.ApiKeyRole]models.ApiKeyPair),
		observers: make(map[int]KeyObserver),
	}
}

// Pair returns the key pair stored for a role (zero pair if none).
func (s *ApiKeyStore) Pair(role models.ApiKeyRole) models.ApiKeyPair {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.keys[role]
}

// SetPublic replaces the public key for a role and notifies observers.
func (s *ApiKeyStore) SetPublic(role models.ApiKeyRole, key models.ApiKey) {
	s.mu.Lock()
	pair := s.keys[role]
	pair.Public = key
	s.keys[role] = pair
	s.mu.Unlock()
	s.notify(role)
}

// SetSecret replaces the secret key for a role and notifies observers.
func (s *ApiKeyStore) SetSecret(role models.ApiKeyRole, key models.ApiKey) {
	s.mu.Lock()
	pair := s.keys[role]
	pair.Secret = key
	s.keys[role] = pair
	s.mu.Unlock()
	s.notify(role)
}

// Subscribe registers an observer and returns its cancel func.
func (s *ApiKeyStore) Subscribe(obs KeyObserver) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = obs
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

func (s *ApiKeyStore) notify(role models.ApiKeyRole) {
	s.mu.RLock()
	obs := make([]KeyObserver, 0, len(s.observers))
	for _, o := range s.observers {
		obs = append(obs, o)
	}
	s.mu.RUnlock()

	for _, o := range obs {
		o(role)
	}
}
