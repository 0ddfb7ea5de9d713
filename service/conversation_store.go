package service

import (
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/whoami669/my-bot/ai"
)

const (
	ConversationMaxMessages  = 8
	conversationCacheSize    = 5000
	cooldownTrackerCacheSize = 10000
)

type conversationKey struct {
	userID    int64
	channelID int64
}

// ConversationStore keeps the recent /ai exchanges of each user in each
// channel. Least recently used conversations are evicted past the cache size.
type ConversationStore struct {
	mu          sync.Mutex
	cache       *lru.Cache
	maxMessages int
}

func NewConversationStore(maxMessages int) (*ConversationStore, error) {
	cache, err := lru.New(conversationCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation cache: %w", err)
	}
	if maxMessages <= 0 {
		maxMessages = ConversationMaxMessages
	}
	return &ConversationStore{cache: cache, maxMessages: maxMessages}, nil
}

// History returns a copy of the stored messages, oldest first
func (s *ConversationStore) History(userID, channelID int64) []ai.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.cache.Get(conversationKey{userID, channelID})
	if !ok {
		return nil
	}
	history := value.([]ai.Message)
	out := make([]ai.Message, len(history))
	copy(out, history)
	return out
}

// Append adds messages and keeps only the newest maxMessages
func (s *ConversationStore) Append(userID, channelID int64, messages ...ai.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := conversationKey{userID, channelID}
	var history []ai.Message
	if value, ok := s.cache.Get(key); ok {
		history = value.([]ai.Message)
	}

	combined := make([]ai.Message, 0, len(history)+len(messages))
	combined = append(combined, history...)
	combined = append(combined, messages...)
	if len(combined) > s.maxMessages {
		combined = combined[len(combined)-s.maxMessages:]
	}
	s.cache.Add(key, combined)
}

// Clear forgets a conversation and reports whether one existed
func (s *ConversationStore) Clear(userID, channelID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := conversationKey{userID, channelID}
	if !s.cache.Contains(key) {
		return false
	}
	s.cache.Remove(key)
	return true
}

// CooldownTracker rate limits an action per key, such as the sassy replies
type CooldownTracker struct {
	mu     sync.Mutex
	cache  *lru.Cache
	window time.Duration
	now    func() time.Time
}

func NewCooldownTracker(window time.Duration) (*CooldownTracker, error) {
	cache, err := lru.New(cooldownTrackerCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create cooldown cache: %w", err)
	}
	return &CooldownTracker{cache: cache, window: window, now: time.Now}, nil
}

// Allow reports whether key is off cooldown and, if so, starts a new cooldown
func (c *CooldownTracker) Allow(key int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if value, ok := c.cache.Get(key); ok {
		if now.Sub(value.(time.Time)) < c.window {
			return false
		}
	}
	c.cache.Add(key, now)
	return true
}
