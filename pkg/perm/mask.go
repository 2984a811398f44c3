package perm

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// Triplet is a 3-bit read/write/execute set for one subject class.
type Triplet uint8

// Permission bits of a triplet.
const (
	Execute Triplet = 1 << iota
	Write
	Read

	// All selects read, write and execute.
	All = Read | Write | Execute
)

// ChmodMask holds the mode bits chmod can change on unix systems.
const ChmodMask = os.ModePerm | os.ModeSetuid | os.ModeSetgid | os.ModeSticky

var (
	// ErrInvalidPermissionValue is matched by every InvalidPermissionError.
	ErrInvalidPermissionValue = errors.New("invalid permission value")
	// ErrInvalidMask indicates a scope mask outside 0-7.
	ErrInvalidMask = errors.New("invalid permission mask")
)

// InvalidPermissionError reports a triplet outside 0-7.
type InvalidPermissionError struct {
	Value Triplet
}

func (e *InvalidPermissionError) Error() string {
	return fmt.Sprintf("%v: %d is outside 0-7", ErrInvalidPermissionValue, e.Value)
}

func (e *InvalidPermissionError) Unwrap() error {
	return ErrInvalidPermissionValue
}

// Valid reports whether t fits in three bits.
func (t Triplet) Valid() bool {
	return t&All == t
}

// String renders t the way ls does, e.g. "r-x".
func (t Triplet) String() string {
	if !t.Valid() {
		return strconv.Itoa(int(t))
	}
	b := []byte("---")
	if t&Read != 0 {
		b[0] = 'r'
	}
	if t&Write != 0 {
		b[1] = 'w'
	}
	if t&Execute != 0 {
		b[2] = 'x'
	}
	return string(b)
}

// ParseMask converts an integer scope mask into a Triplet.
func ParseMask(n int) (Triplet, error) {
	if n < 0 || n > int(All) {
		return 0, fmt.Errorf("%w: %d (expected 0-7)", ErrInvalidMask, n)
	}
	return Triplet(n), nil
}

// MaskFor returns mask shifted into the bit position of class c.
// Bits of mask above the third are ignored.
func MaskFor(c Class, mask Triplet) os.FileMode {
	return os.FileMode(mask&All) << c.shift()
}

// Extract returns the triplet class c holds in mode, restricted to mask.
func Extract(mode os.FileMode, c Class, mask Triplet) Triplet {
	return Triplet((mode & MaskFor(c, mask)) >> c.shift())
}

// Apply replaces the bits of class c selected by mask with t.
// The result carries only ChmodMask bits of mode. When t is outside 0-7 the
// mode is returned untouched together with an *InvalidPermissionError.
func Apply(mode os.FileMode, c Class, mask Triplet, t Triplet) (os.FileMode, error) {
	if !t.Valid() {
		return mode, &InvalidPermissionError{Value: t}
	}
	cleared := mode & ChmodMask &^ MaskFor(c, mask)
	return cleared | MaskFor(c, t&mask), nil
}

// Octal formats the chmod-settable bits of mode the way chmod(1) accepts
// them, e.g. "0755" or "4711".
func Octal(mode os.FileMode) string {
	bits := uint32(mode.Perm())
	if mode&os.ModeSetuid != 0 {
		bits |= 0o4000
	}
	if mode&os.ModeSetgid != 0 {
		bits |= 0o2000
	}
	if mode&os.ModeSticky != 0 {
		bits |= 0o1000
	}
	return fmt.Sprintf("%04o", bits)
}

// Symbolic formats the permission bits of mode as "rwxr-xr-x".
func Symbolic(mode os.FileMode) string {
	return Extract(mode, Owner, All).String() +
		Extract(mode, Group, All).String() +
		Extract(mode, Other, All).String()
}
