// ABOUTME: Persistent context of named tracklists, media and constraints
// ABOUTME: Add/replace/remove operations on an explicit in-memory state object

// Package store persists the user's tracklists, media and constraints as a
// JSON context file. A Context is loaded once per command, mutated in memory
// and written back atomically.
package store

import (
	"errors"
	"fmt"

	"albumseq/album"
)

// DefaultContextPath is used when no --context flag is given
const DefaultContextPath = "context.json"

var (
	// ErrNotFound is returned when a named tracklist or medium does not exist
	ErrNotFound = errors.New("not found")
	// ErrIndexOutOfRange is returned by RemoveConstraint for a bad index
	ErrIndexOutOfRange = errors.New("index out of range")
)

// NamedTracklist is a tracklist stored under a name
type NamedTracklist struct {
	Name   string
	Tracks album.Tracklist
}

// Context is the whole persisted state
type Context struct {
	Tracklists  []NamedTracklist
	Media       []album.Medium
	Constraints []album.Constraint
}

// New returns an empty context
func New() *Context {
	return &Context{
		Tracklists:  []NamedTracklist{},
		Media:       []album.Medium{},
		Constraints: []album.Constraint{},
	}
}

// Change describes what an add-or-replace did
type Change int

const (
	Added Change = iota
	Replaced
)

func (c Change) String() string {
	if c == Replaced {
		return "Replaced"
	}

	return "Added"
}

// AddOrReplaceTracklist stores tracks under name, replacing a tracklist with the same name
// (case-insensitive)
func (c *Context) AddOrReplaceTracklist(name string, tracks album.Tracklist) (Change, error) {
	if name == "" {
		return Added, errors.New("tracklist name is required")
	}

	if err := tracks.Validate(); err != nil {
		return Added, fmt.Errorf("tracklist %q: %w", name, err)
	}

	entry := NamedTracklist{Name: name, Tracks: append(album.Tracklist{}, tracks...)}

	for i := range c.Tracklists {
		if album.SameTitle(c.Tracklists[i].Name, name) {
			c.Tracklists[i] = entry
			return Replaced, nil
		}
	}

	c.Tracklists = append(c.Tracklists, entry)

	return Added, nil
}

// AddOrReplaceMedium stores the medium, replacing one with the same name (case-insensitive)
func (c *Context) AddOrReplaceMedium(medium album.Medium) (Change, error) {
	if medium.Name == "" {
		return Added, errors.New("medium name is required")
	}

	if err := medium.Validate(); err != nil {
		return Added, err
	}

	for i := range c.Media {
		if album.SameTitle(c.Media[i].Name, medium.Name) {
			c.Media[i] = medium
			return Replaced, nil
		}
	}

	c.Media = append(c.Media, medium)

	return Added, nil
}

// AddOrReplaceConstraint appends the constraint, or updates the weight of an identical one
func (c *Context) AddOrReplaceConstraint(constraint album.Constraint) (Change, error) {
	if err := constraint.Validate(); err != nil {
		return Added, err
	}

	for i := range c.Constraints {
		if c.Constraints[i].Kind == constraint.Kind {
			c.Constraints[i] = constraint
			return Replaced, nil
		}
	}

	c.Constraints = append(c.Constraints, constraint)

	return Added, nil
}

// RemoveConstraint removes and returns the constraint at index
func (c *Context) RemoveConstraint(index int) (album.Constraint, error) {
	if index < 0 || index >= len(c.Constraints) {
		return album.Constraint{}, fmt.Errorf("%w: %d (have %d constraints)", ErrIndexOutOfRange, index, len(c.Constraints))
	}

	removed := c.Constraints[index]
	c.Constraints = append(c.Constraints[:index], c.Constraints[index+1:]...)

	return removed, nil
}

// Tracklist finds a tracklist by name (case-insensitive)
func (c *Context) Tracklist(name string) (NamedTracklist, error) {
	for _, tl := range c.Tracklists {
		if album.SameTitle(tl.Name, name) {
			return tl, nil
		}
	}

	return NamedTracklist{}, fmt.Errorf("tracklist %q %w", name, ErrNotFound)
}

// Medium finds a medium by name (case-insensitive)
func (c *Context) Medium(name string) (album.Medium, error) {
	for _, m := range c.Media {
		if album.SameTitle(m.Name, name) {
			return m, nil
		}
	}

	return album.Medium{}, fmt.Errorf("medium %q %w", name, ErrNotFound)
}
