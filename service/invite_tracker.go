package service

import (
	"sync"

	"github.com/whoami669/my-bot/models"
)

// InviteTracker caches invite use counts per guild so a member join can be
// attributed by diffing the cache against the live invite list
type InviteTracker struct {
	mu    sync.Mutex
	cache map[int64]map[string]int
}

func NewInviteTracker() *InviteTracker {
	return &InviteTracker{cache: make(map[int64]map[string]int)}
}

// Replace overwrites the cached counts of a guild with a snapshot
func (t *InviteTracker) Replace(guildID int64, invites []models.InviteSnapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.replaceLocked(guildID, invites)
}

// Add caches a newly created invite
func (t *InviteTracker) Add(guildID int64, code string, uses int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cache[guildID] == nil {
		t.cache[guildID] = make(map[string]int)
	}
	t.cache[guildID][code] = uses
}

// Remove drops a deleted invite
func (t *InviteTracker) Remove(guildID int64, code string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.cache[guildID], code)
}

// Forget drops a guild the bot left
func (t *InviteTracker) Forget(guildID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.cache, guildID)
}

// Uses returns the cached use count of a code
func (t *InviteTracker) Uses(guildID int64, code string) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	uses, ok := t.cache[guildID][code]
	return uses, ok
}

// Attribute finds the invite used by a join and then replaces the cache with
// the live snapshot. It returns nil when no invite's use count went up.
func (t *InviteTracker) Attribute(guildID int64, live []models.InviteSnapshot) *models.InviteSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	used := FindUsedInvite(t.cache[guildID], live)
	t.replaceLocked(guildID, live)
	return used
}

func (t *InviteTracker) replaceLocked(guildID int64, invites []models.InviteSnapshot) {
	counts := make(map[string]int, len(invites))
	for _, inv := range invites {
		counts[inv.Code] = inv.Uses
	}
	t.cache[guildID] = counts
}

// FindUsedInvite returns the first live invite whose use count exceeds the
// cached one. Codes missing from the cache count as zero uses.
func FindUsedInvite(cached map[string]int, live []models.InviteSnapshot) *models.InviteSnapshot {
	for i := range live {
		if live[i].Uses > cached[live[i].Code] {
			used := live[i]
			return &used
		}
	}
	return nil
}
