package domain

import (
	"sort"

	"github.com/harborworks/cms/internal/authz/permission"
)

// PermissionSet is the resolved effective grant for a user. The set has
// two variants: the universal grant held by super-admins, which covers
// every catalog entry without enumerating tokens, and an explicit token
// set for everyone else. The universal variant is a distinct state, not
// a sentinel token mixed into the enumeration.
type PermissionSet struct {
	all    bool
	tokens map[permission.Permission]struct{}
}

// NewPermissionSet builds an explicit set from the given tokens.
// Duplicates collapse; unknown tokens are kept out by the callers that
// assemble grants (the catalog validates on the way in, not here).
func NewPermissionSet(tokens ...permission.Permission) *PermissionSet {
	set := &PermissionSet{tokens: make(map[permission.Permission]struct{}, len(tokens))}
	for _, t := range tokens {
		set.tokens[t] = struct{}{}
	}
	return set
}

// NewUniversalSet builds the super-admin grant covering the whole catalog
func NewUniversalSet() *PermissionSet {
	return &PermissionSet{all: true}
}

// IsUniversal reports whether this is the super-admin grant
func (s *PermissionSet) IsUniversal() bool {
	return s.all
}

// Has checks whether the set grants a single permission
func (s *PermissionSet) Has(p permission.Permission) bool {
	if s.all {
		return permission.IsValid(p)
	}
	_, ok := s.tokens[p]
	return ok
}

// HasAny checks whether the set grants at least one of the permissions
func (s *PermissionSet) HasAny(perms ...permission.Permission) bool {
	for _, p := range perms {
		if s.Has(p) {
			return true
		}
	}
	return false
}

// HasAll checks whether the set grants every one of the permissions
func (s *PermissionSet) HasAll(perms ...permission.Permission) bool {
	for _, p := range perms {
		if !s.Has(p) {
			return false
		}
	}
	return true
}

// Union merges another set into a new set. A universal operand makes
// the result universal.
func (s *PermissionSet) Union(other *PermissionSet) *PermissionSet {
	if other == nil {
		return s.clone()
	}
	if s.all || other.all {
		return NewUniversalSet()
	}
	merged := &PermissionSet{tokens: make(map[permission.Permission]struct{}, len(s.tokens)+len(other.tokens))}
	for t := range s.tokens {
		merged.tokens[t] = struct{}{}
	}
	for t := range other.tokens {
		merged.tokens[t] = struct{}{}
	}
	return merged
}

// Add returns a new set with the given tokens included
func (s *PermissionSet) Add(tokens ...permission.Permission) *PermissionSet {
	if s.all {
		return NewUniversalSet()
	}
	result := s.clone()
	for _, t := range tokens {
		result.tokens[t] = struct{}{}
	}
	return result
}

// Tokens returns the enumerated grant, sorted for stable output. The
// universal set enumerates the whole catalog.
func (s *PermissionSet) Tokens() []permission.Permission {
	if s.all {
		return permission.All()
	}
	result := make([]permission.Permission, 0, len(s.tokens))
	for t := range s.tokens {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// Len returns how many tokens the set grants
func (s *PermissionSet) Len() int {
	if s.all {
		return permission.Count()
	}
	return len(s.tokens)
}

func (s *PermissionSet) clone() *PermissionSet {
	if s.all {
		return NewUniversalSet()
	}
	copied := &PermissionSet{tokens: make(map[permission.Permission]struct{}, len(s.tokens))}
	for t := range s.tokens {
		copied.tokens[t] = struct{}{}
	}
	return copied
}
