// Package auth decides whether a caller may use privileged commands.
package auth

// Gate authorises privileged actions against a configured allow-list of user
// IDs. It is a pure predicate; the allow-list is fixed at construction.
type Gate struct {
	admins map[string]struct{}
}

// NewGate creates a new Gate from the configured admin user IDs.
func NewGate(adminIDs []string) *Gate {
	admins := make(map[string]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &Gate{
		admins: admins,
	}
}

// IsPrivileged reports whether the caller may perform a privileged action.
// A caller is privileged when it is on the admin allow-list or when it holds
// the platform's manage permission.
func (g *Gate) IsPrivileged(callerID string, hasManagePermission bool) bool {
	if hasManagePermission {
		return true
	}
	_, ok := g.admins[callerID]
	return ok
}
