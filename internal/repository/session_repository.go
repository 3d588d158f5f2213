package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/noah-isme/dsa-enrollment-api/internal/models"
	appErrors "github.com/noah-isme/dsa-enrollment-api/pkg/errors"
)

const memorySweepInterval = time.Minute

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemorySessionRepository keeps form sessions in process memory. Values are stored as JSON so
// callers never share state with the store.
type MemorySessionRepository struct {
	mu        sync.Mutex
	entries   map[string]memoryEntry
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

// NewMemorySessionRepository constructs an in-memory store whose entries expire after ttl of inactivity.
func NewMemorySessionRepository(ttl time.Duration) *MemorySessionRepository {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &MemorySessionRepository{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func sessionKey(kind models.FormKind, id string) string {
	return string(kind) + ":" + id
}

// Get loads a session into dest. Missing or expired sessions yield ErrCacheMiss.
func (r *MemorySessionRepository) Get(ctx context.Context, kind models.FormKind, id string, dest interface{}) error {
	key := sessionKey(kind, id)

	r.mu.Lock()
	entry, ok := r.entries[key]
	if ok && r.now().After(entry.expiresAt) {
		delete(r.entries, key)
		ok = false
	}
	r.mu.Unlock()

	if !ok {
		return appErrors.ErrCacheMiss
	}
	if err := json.Unmarshal(entry.payload, dest); err != nil {
		return fmt.Errorf("unmarshal session %s: %w", key, err)
	}
	return nil
}

// Save stores value and refreshes its expiry.
func (r *MemorySessionRepository) Save(ctx context.Context, kind models.FormKind, id string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", sessionKey(kind, id), err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	r.entries[sessionKey(kind, id)] = memoryEntry{payload: payload, expiresAt: now.Add(r.ttl)}
	if now.Sub(r.lastSweep) >= memorySweepInterval {
		r.sweepLocked(now)
	}
	return nil
}

func (r *MemorySessionRepository) sweepLocked(now time.Time) {
	for key, entry := range r.entries {
		if now.After(entry.expiresAt) {
			delete(r.entries, key)
		}
	}
	r.lastSweep = now
}
