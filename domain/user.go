// This file defines User snapshots and the role taxonomy with its
// authority ordering. A User value is a point-in-time copy owned by the
// caller, never a live reference into roster state.
package domain

import "sync"

type RoleType string

const (
	RoleOwner   RoleType = "owner"
	RoleAdmin   RoleType = "admin"
	RoleMember  RoleType = "member"
	RoleWatcher RoleType = "watcher"
	RoleBanned  RoleType = "banned"
)

var roleMu sync.RWMutex

// authority maps each role to its level. A higher level outranks a lower
// one. The map is extensible through RegisterRole.
var authority = map[RoleType]int{
	RoleOwner:   5,
	RoleAdmin:   4,
	RoleMember:  3,
	RoleWatcher: 2,
	RoleBanned:  1,
}

// RegisterRole adds a custom role with the given authority level, or
// re-levels an existing one. Intended for configuration at startup.
func RegisterRole(role RoleType, level int) {
	roleMu.Lock()
	defer roleMu.Unlock()
	authority[role] = level
}

// Authority returns the role's level. Unknown roles have authority 0 and
// outrank nothing.
func (r RoleType) Authority() int {
	roleMu.RLock()
	defer roleMu.RUnlock()
	return authority[r]
}

// Outranks reports whether r has strictly greater authority than other.
func (r RoleType) Outranks(other RoleType) bool {
	return r.Authority() > other.Authority()
}

func (r RoleType) Valid() bool {
	roleMu.RLock()
	defer roleMu.RUnlock()
	_, ok := authority[r]
	return ok
}

// User is a snapshot of a roster entry.
type User struct {
	ID       string
	Name     string
	ImageURL string
	Role     RoleType
}

func (u User) Equal(other User) bool {
	return u == other
}

// RosterFields returns the wire form of the roster entry for this user.
func (u User) RosterFields() map[string]any {
	fields := map[string]any{KeyRole: string(u.Role)}
	if u.Name != "" {
		fields[KeyName] = u.Name
	}
	if u.ImageURL != "" {
		fields[KeyImageURL] = u.ImageURL
	}
	return fields
}

// UserFromRosterFields rebuilds a User from a roster entry snapshot.
// Missing or malformed optional fields degrade to their zero value.
func UserFromRosterFields(userID string, fields map[string]any) User {
	user := User{ID: userID, Role: RoleMember}
	if role, ok := asString(fields[KeyRole]); ok && role != "" {
		user.Role = RoleType(role)
	}
	if name, ok := asString(fields[KeyName]); ok {
		user.Name = name
	}
	if imageURL, ok := asString(fields[KeyImageURL]); ok {
		user.ImageURL = imageURL
	}
	return user
}
