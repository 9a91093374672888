// ABOUTME: Weighted placement constraints as a closed set of constraint kinds
// ABOUTME: Converts the string-tagged CLI/storage form into typed kinds and rejects unknown kinds

package album

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrUnknownKind is returned for a constraint kind name that is not atpos, adjacent or onsameside
	ErrUnknownKind = errors.New("unknown constraint kind")
	// ErrInvalidArgs is returned when a constraint kind gets the wrong arguments
	ErrInvalidArgs = errors.New("invalid constraint arguments")
)

// Kind names used on the command line
const (
	KindAtPosition = "atpos"
	KindAdjacent   = "adjacent"
	KindOnSameSide = "onsameside"
)

// Kind is one of AtPosition, Adjacent or OnSameSide.
// The unexported method closes the set to this package.
type Kind interface {
	kind()
	// Name returns the CLI name of the kind (e.g. "adjacent")
	Name() string
	// Args returns the kind's arguments in CLI order
	Args() []string
	String() string
}

// AtPosition requires Title at zero-based Position in the ordering
type AtPosition struct {
	Title    string
	Position int
}

// Adjacent requires A and B to be next to each other, in either order
type Adjacent struct {
	A, B string
}

// OnSameSide requires A and B to end up on the same side of the medium
type OnSameSide struct {
	A, B string
}

func (AtPosition) kind() {}
func (Adjacent) kind()   {}
func (OnSameSide) kind() {}

func (AtPosition) Name() string { return KindAtPosition }
func (Adjacent) Name() string   { return KindAdjacent }
func (OnSameSide) Name() string { return KindOnSameSide }

func (k AtPosition) Args() []string { return []string{k.Title, strconv.Itoa(k.Position)} }
func (k Adjacent) Args() []string   { return []string{k.A, k.B} }
func (k OnSameSide) Args() []string { return []string{k.A, k.B} }

func (k AtPosition) String() string { return fmt.Sprintf("AtPosition(%q, %d)", k.Title, k.Position) }
func (k Adjacent) String() string   { return fmt.Sprintf("Adjacent(%q, %q)", k.A, k.B) }
func (k OnSameSide) String() string { return fmt.Sprintf("OnSameSide(%q, %q)", k.A, k.B) }

// Constraint is a kind with a non-negative weight added to the score when satisfied
type Constraint struct {
	Kind   Kind
	Weight int
}

// String returns e.g. `Adjacent("A", "B") (weight 2)`
func (c Constraint) String() string {
	if c.Kind == nil {
		return fmt.Sprintf("<nil> (weight %d)", c.Weight)
	}

	return fmt.Sprintf("%s (weight %d)", c.Kind, c.Weight)
}

// Validate rejects nil kinds, negative weights and negative positions
func (c Constraint) Validate() error {
	if c.Kind == nil {
		return fmt.Errorf("%w: missing kind", ErrUnknownKind)
	}

	if c.Weight < 0 {
		return fmt.Errorf("%w: negative weight %d for %s", ErrInvalidArgs, c.Weight, c.Kind)
	}

	if p, ok := c.Kind.(AtPosition); ok && p.Position < 0 {
		return fmt.Errorf("%w: negative position %d", ErrInvalidArgs, p.Position)
	}

	return nil
}

// ParseKind converts a CLI kind name and its arguments into a typed Kind.
// Kind names are matched case-insensitively.
func ParseKind(name string, args []string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case KindAtPosition:
		if len(args) != 2 {
			return nil, fmt.Errorf("%w: atpos requires exactly 2 arguments: title pos", ErrInvalidArgs)
		}

		pos, err := strconv.Atoi(args[1])
		if err != nil || pos < 0 {
			return nil, fmt.Errorf("%w: invalid position number %q", ErrInvalidArgs, args[1])
		}

		return AtPosition{Title: args[0], Position: pos}, nil

	case KindAdjacent:
		if len(args) != 2 {
			return nil, fmt.Errorf("%w: adjacent requires exactly 2 arguments: title1 title2", ErrInvalidArgs)
		}

		return Adjacent{A: args[0], B: args[1]}, nil

	case KindOnSameSide:
		if len(args) != 2 {
			return nil, fmt.Errorf("%w: onsameside requires exactly 2 arguments: title1 title2", ErrInvalidArgs)
		}

		return OnSameSide{A: args[0], B: args[1]}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}
