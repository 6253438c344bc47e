// Package access resolves what a member may do with a family tree.
package access

import (
	"encoding"
	"errors"
)

// AccessLevel is the level of access allowed to a tree.
type AccessLevel int // nolint: revive

const (
	// NoAccess hides the tree.
	NoAccess AccessLevel = iota

	// ReadOnlyAccess allows viewing the tree.
	ReadOnlyAccess

	// ReadWriteAccess allows viewing and editing persons and relationships.
	ReadWriteAccess

	// OwnerAccess additionally allows managing editors, visibility, and
	// deleting the tree.
	OwnerAccess
)

// String returns the string representation of the access level.
func (a AccessLevel) String() string {
	switch a {
	case NoAccess:
		return "no-access"
	case ReadOnlyAccess:
		return "read-only"
	case ReadWriteAccess:
		return "read-write"
	case OwnerAccess:
		return "owner"
	default:
		return "unknown"
	}
}

// ParseAccessLevel parses an access level string. It returns -1 for unknown
// values.
func ParseAccessLevel(s string) AccessLevel {
	switch s {
	case "no-access":
		return NoAccess
	case "read-only":
		return ReadOnlyAccess
	case "read-write":
		return ReadWriteAccess
	case "owner":
		return OwnerAccess
	default:
		return AccessLevel(-1)
	}
}

// CanView reports whether the level allows reading the tree.
func (a AccessLevel) CanView() bool {
	return a >= ReadOnlyAccess
}

// CanEdit reports whether the level allows changing persons and
// relationships.
func (a AccessLevel) CanEdit() bool {
	return a >= ReadWriteAccess
}

// IsOwner reports whether the level is the owner's.
func (a AccessLevel) IsOwner() bool {
	return a == OwnerAccess
}

// Grant is an editor row of a member on a tree.
type Grant struct {
	CanEdit bool
}

// Resolve computes the access level from the facts known about a member and
// a tree. grant is nil when the member has no editor row. Anonymous callers
// pass owner false and a nil grant.
func Resolve(owner, public bool, grant *Grant) AccessLevel {
	switch {
	case owner:
		return OwnerAccess
	case grant != nil && grant.CanEdit:
		return ReadWriteAccess
	case grant != nil, public:
		return ReadOnlyAccess
	default:
		return NoAccess
	}
}

var (
	_ encoding.TextMarshaler   = AccessLevel(0)
	_ encoding.TextUnmarshaler = (*AccessLevel)(nil)
)

// ErrInvalidAccessLevel is returned when an invalid access level is provided.
var ErrInvalidAccessLevel = errors.New("invalid access level")

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *AccessLevel) UnmarshalText(text []byte) error {
	l := ParseAccessLevel(string(text))
	if l < 0 {
		return ErrInvalidAccessLevel
	}

	*a = l

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (a AccessLevel) MarshalText() (text []byte, err error) {
	return []byte(a.String()), nil
}
