package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Zombie-01/tire/internal/domain"
)

// Store is the authoritative holder of every user's cart. State lives in
// memory and is written through to Storage after each mutation; persistence
// failures are logged and swallowed since cart continuity is a convenience,
// not a correctness requirement. All mutations are serialized by the mutex,
// so no two transitions for any user ever interleave.
type Store struct {
	mu      sync.Mutex
	states  map[string]domain.CartState
	storage Storage
	log     *logrus.Logger
}

func NewStore(storage Storage, log *logrus.Logger) *Store {
	return &Store{
		states:  make(map[string]domain.CartState),
		storage: storage,
		log:     log,
	}
}

// Get returns a copy of the user's current cart, rehydrating from storage on
// first access. A missing or corrupt persisted value degrades to an empty
// cart without error.
func (s *Store) Get(ctx context.Context, userID string) domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyState(s.load(ctx, userID))
}

func (s *Store) AddItem(ctx context.Context, userID string, item domain.LineItem) domain.CartState {
	return s.apply(ctx, userID, func(state domain.CartState) domain.CartState {
		return addItem(state, item)
	})
}

func (s *Store) RemoveItem(ctx context.Context, userID, productID string) domain.CartState {
	return s.apply(ctx, userID, func(state domain.CartState) domain.CartState {
		return removeItem(state, productID)
	})
}

func (s *Store) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) domain.CartState {
	return s.apply(ctx, userID, func(state domain.CartState) domain.CartState {
		return updateQuantity(state, productID, quantity)
	})
}

func (s *Store) Clear(ctx context.Context, userID string) domain.CartState {
	return s.apply(ctx, userID, func(domain.CartState) domain.CartState {
		return emptyState()
	})
}

func (s *Store) apply(ctx context.Context, userID string, fn func(domain.CartState) domain.CartState) domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := fn(s.load(ctx, userID))
	s.states[userID] = next
	s.persist(ctx, userID, next)
	return copyState(next)
}

// load must be called with the mutex held.
func (s *Store) load(ctx context.Context, userID string) domain.CartState {
	if state, ok := s.states[userID]; ok {
		return state
	}

	state := s.rehydrate(ctx, userID)
	s.states[userID] = state
	return state
}

func (s *Store) rehydrate(ctx context.Context, userID string) domain.CartState {
	raw, err := s.storage.Get(ctx, cartKey(userID))
	if err != nil {
		if err != ErrNotFound {
			s.log.WithError(err).WithField("user_id", userID).Warn("cart rehydrate failed, starting empty")
		}
		return emptyState()
	}

	var state domain.CartState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("corrupt persisted cart, starting empty")
		return emptyState()
	}

	// The persisted total is untrusted; the recomputed sum is authoritative.
	state.Total = state.Subtotal()
	if state.Items == nil {
		state.Items = []domain.LineItem{}
	}
	return state
}

func (s *Store) persist(ctx context.Context, userID string, state domain.CartState) {
	data, err := json.Marshal(state)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("cart serialize failed")
		return
	}
	if err := s.storage.Set(ctx, cartKey(userID), string(data)); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("cart persist failed")
	}
}

func cartKey(userID string) string {
	return fmt.Sprintf("cart:%s", userID)
}

func copyState(state domain.CartState) domain.CartState {
	out := state
	out.Items = cloneItems(state.Items)
	return out
}
