package trash

import "strings"

// Policy decides which roles may run bulk irreversible operations.
type Policy struct {
	purgeRoles map[string]struct{}
}

// NewPolicy returns a policy allowing the given roles to empty the trash.
// Role names are compared case-sensitively after trimming spaces.
func NewPolicy(purgeRoles []string) Policy {
	p := Policy{purgeRoles: make(map[string]struct{}, len(purgeRoles))}
	for _, r := range purgeRoles {
		if r = strings.TrimSpace(r); r != "" {
			p.purgeRoles[r] = struct{}{}
		}
	}
	return p
}

// CanEmptyTrash reports whether role may empty the whole trash.
func (p Policy) CanEmptyTrash(role string) bool {
	_, ok := p.purgeRoles[role]
	return ok
}
