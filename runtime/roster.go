package runtime

import (
	"sort"
	"sync"

	"github.com/samber/lo"

	"chatstream/domain"
	"chatstream/domain/event"
)

// Roster is the authoritative in-memory view of chat membership and
// per-user roles, reconciled from backend roster changes. A user id
// appears at most once.
type Roster struct {
	mu      sync.RWMutex
	entries map[string]domain.User
}

func NewRoster() *Roster {
	return &Roster{entries: make(map[string]domain.User)}
}

// Apply reconciles one roster change. A nil user removes the entry; a
// present user adds or updates it. The returned event describes what
// happened; emitted is false when the change is a no-op, so re-applying
// an identical change never produces a duplicate event.
func (r *Roster) Apply(userID string, user *domain.User) (event.UserEvent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, known := r.entries[userID]
	if user == nil {
		if !known {
			return event.UserEvent{}, false
		}
		delete(r.entries, userID)
		return event.UserEvent{Type: event.UserRemoved, User: existing}, true
	}

	if !known {
		r.entries[userID] = *user
		return event.UserEvent{Type: event.UserAdded, User: *user}, true
	}
	if existing.Equal(*user) {
		return event.UserEvent{}, false
	}
	r.entries[userID] = *user
	return event.UserEvent{Type: event.UserUpdated, User: *user}, true
}

func (r *Roster) Get(userID string) (domain.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.entries[userID]
	return user, ok
}

// Snapshot returns the members ordered by user id.
func (r *Roster) Snapshot() []domain.User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := lo.Values(r.entries)
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

func (r *Roster) UsersForRoleType(role domain.RoleType) []domain.User {
	return lo.Filter(r.Snapshot(), func(user domain.User, _ int) bool {
		return user.Role == role
	})
}

// RoleTypeForUser returns the member's role, or false for non-members.
func (r *Roster) RoleTypeForUser(userID string) (domain.RoleType, bool) {
	user, ok := r.Get(userID)
	return user.Role, ok
}

func (r *Roster) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func (r *Roster) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[string]domain.User)
}
