// Package perm implements the permission bit algebra used by cpmod.
//
// A file mode carries three permission triplets (read, write, execute), one
// per subject class: bits 0-2 for other, 3-5 for group and 6-8 for the owner.
// MaskFor and Extract are the only places that know about those positions;
// everything else in the module goes through them.
package perm

import (
	"errors"
	"fmt"
	"strings"
)

// Class selects one of the three permission-bearing principals of an entry.
type Class uint8

// Subject classes, ordered by their bit position in a mode value.
const (
	Other Class = iota
	Group
	Owner
)

// ErrInvalidClass indicates a string that does not name a subject class.
var ErrInvalidClass = errors.New("invalid subject class")

// Classes lists every subject class.
var Classes = []Class{Owner, Group, Other}

// ParseClass parses the chmod-style letters u, g and o as well as the long
// names owner (or user), group and other.
func ParseClass(s string) (Class, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "u", "user", "owner":
		return Owner, nil
	case "g", "group":
		return Group, nil
	case "o", "other", "others":
		return Other, nil
	default:
		return 0, fmt.Errorf("%w: %q (expected u, g or o)", ErrInvalidClass, s)
	}
}

// shift returns the bit offset of the class within a mode value.
func (c Class) shift() uint {
	switch c {
	case Other:
		return 0
	case Group:
		return 3
	case Owner:
		return 6
	}
	panic(fmt.Sprintf("perm: unknown subject class %d", uint8(c)))
}

// Valid reports whether c is one of the declared classes.
func (c Class) Valid() bool {
	switch c {
	case Other, Group, Owner:
		return true
	}
	return false
}

// Letter returns the single letter chmod uses for the class.
func (c Class) Letter() string {
	switch c {
	case Other:
		return "o"
	case Group:
		return "g"
	case Owner:
		return "u"
	}
	return "?"
}

func (c Class) String() string {
	switch c {
	case Other:
		return "other"
	case Group:
		return "group"
	case Owner:
		return "owner"
	}
	return fmt.Sprintf("Class(%d)", uint8(c))
}

// MarshalText implements encoding.TextMarshaler.
func (c Class) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidClass, uint8(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Class) UnmarshalText(text []byte) error {
	parsed, err := ParseClass(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
