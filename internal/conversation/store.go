package conversation

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/researchmate/rag-backend/internal/entity"
	"go.uber.org/zap"
)

const cleanupInterval = 10 * time.Minute

// Store keeps conversations in memory with a sliding idle TTL: every read or
// append resets the expiry, so only abandoned conversations are evicted.
type Store struct {
	cache  *gocache.Cache
	ttl    time.Duration
	logger *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewStore(ttl time.Duration, logger *zap.Logger) *Store {
	s := &Store{
		cache:  gocache.New(ttl, cleanupInterval),
		ttl:    ttl,
		logger: logger,
		locks:  map[string]*sync.Mutex{},
	}

	s.cache.OnEvicted(func(id string, _ interface{}) {
		s.mu.Lock()
		delete(s.locks, id)
		s.mu.Unlock()
		logger.Debug("conversation evicted", zap.String("conversation_id", id))
	})

	return s
}

func (s *Store) lockFor(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// Append adds a message to the conversation, creating it if needed, and
// refreshes its TTL.
func (s *Store) Append(id string, msg entity.ConversationMessage) {
	l := s.lockFor(id)
	l.Lock()
	defer l.Unlock()

	now := time.Now().UTC()
	if msg.Timestamp.IsZero() {
		msg.Timestamp = now
	}

	var conv *entity.Conversation
	if v, ok := s.cache.Get(id); ok {
		conv = v.(*entity.Conversation)
	} else {
		conv = &entity.Conversation{
			ID:        id,
			CreatedAt: now,
		}
	}

	conv.Messages = append(conv.Messages, msg)
	conv.UpdatedAt = now
	s.cache.Set(id, conv, s.ttl)
}

// Get returns a snapshot of the conversation. Mutating the returned value
// does not affect the stored conversation. Reading refreshes the TTL.
func (s *Store) Get(id string) (entity.Conversation, bool) {
	l := s.lockFor(id)
	l.Lock()
	defer l.Unlock()

	v, ok := s.cache.Get(id)
	if !ok {
		return entity.Conversation{}, false
	}
	conv := v.(*entity.Conversation)

	snapshot := entity.Conversation{
		ID:        conv.ID,
		Messages:  make([]entity.ConversationMessage, len(conv.Messages)),
		CreatedAt: conv.CreatedAt,
		UpdatedAt: conv.UpdatedAt,
	}
	copy(snapshot.Messages, conv.Messages)

	s.cache.Set(id, conv, s.ttl)
	return snapshot, true
}

// Delete removes the conversation. Deleting an unknown id is a no-op.
func (s *Store) Delete(id string) {
	l := s.lockFor(id)
	l.Lock()
	defer l.Unlock()

	s.cache.Delete(id)
}

// Count returns the number of live conversations.
func (s *Store) Count() int {
	return s.cache.ItemCount()
}
