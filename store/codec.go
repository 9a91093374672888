// ABOUTME: JSON wire format of the context file
// ABOUTME: Encodes constraints as {"kind":{"kind":"Adjacent","data":["A","B"]},"weight":2}

package store

import (
	"encoding/json"
	"fmt"

	"albumseq/album"
)

type fileJSON struct {
	Tracklists  []tracklistJSON  `json:"tracklists"`
	Mediums     []mediumJSON     `json:"mediums"`
	Constraints []constraintJSON `json:"constraints"`
}

type trackJSON struct {
	Title    string  `json:"title"`
	Duration float64 `json:"duration"`
	Path     string  `json:"path,omitempty"`
}

type tracklistJSON struct {
	Name   string      `json:"name"`
	Tracks []trackJSON `json:"tracks"`
}

type mediumJSON struct {
	Name               string  `json:"name"`
	Sides              int     `json:"sides"`
	MaxDurationPerSide float64 `json:"max_duration_per_side"`
}

type constraintJSON struct {
	Kind   kindJSON `json:"kind"`
	Weight int      `json:"weight"`
}

// kindJSON is the tagged form: "kind" names the variant, "data" holds its arguments
type kindJSON struct {
	Kind string            `json:"kind"`
	Data []json.RawMessage `json:"data"`
}

// Variant tags in the file
const (
	tagAtPosition = "AtPosition"
	tagAdjacent   = "Adjacent"
	tagOnSameSide = "OnSameSide"
)

// Marshal encodes the context as indented JSON
func Marshal(c *Context) ([]byte, error) {
	f := fileJSON{
		Tracklists:  make([]tracklistJSON, 0, len(c.Tracklists)),
		Mediums:     make([]mediumJSON, 0, len(c.Media)),
		Constraints: make([]constraintJSON, 0, len(c.Constraints)),
	}

	for _, tl := range c.Tracklists {
		tracks := make([]trackJSON, len(tl.Tracks))
		for i, t := range tl.Tracks {
			tracks[i] = trackJSON(t)
		}

		f.Tracklists = append(f.Tracklists, tracklistJSON{Name: tl.Name, Tracks: tracks})
	}

	for _, m := range c.Media {
		f.Mediums = append(f.Mediums, mediumJSON(m))
	}

	for _, con := range c.Constraints {
		kind, err := encodeKind(con.Kind)
		if err != nil {
			return nil, err
		}

		f.Constraints = append(f.Constraints, constraintJSON{Kind: kind, Weight: con.Weight})
	}

	return json.MarshalIndent(f, "", "  ")
}

// Unmarshal decodes a context file, rejecting unknown constraint kinds
func Unmarshal(data []byte) (*Context, error) {
	var f fileJSON
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse context: %w", err)
	}

	c := New()

	for _, tl := range f.Tracklists {
		tracks := make(album.Tracklist, len(tl.Tracks))
		for i, t := range tl.Tracks {
			tracks[i] = album.Track(t)
		}

		c.Tracklists = append(c.Tracklists, NamedTracklist{Name: tl.Name, Tracks: tracks})
	}

	for _, m := range f.Mediums {
		c.Media = append(c.Media, album.Medium(m))
	}

	for i, con := range f.Constraints {
		kind, err := decodeKind(con.Kind)
		if err != nil {
			return nil, fmt.Errorf("constraint %d: %w", i, err)
		}

		c.Constraints = append(c.Constraints, album.Constraint{Kind: kind, Weight: con.Weight})
	}

	return c, nil
}

func encodeKind(kind album.Kind) (kindJSON, error) {
	var (
		tag  string
		args []any
	)

	switch k := kind.(type) {
	case album.AtPosition:
		tag, args = tagAtPosition, []any{k.Title, k.Position}
	case album.Adjacent:
		tag, args = tagAdjacent, []any{k.A, k.B}
	case album.OnSameSide:
		tag, args = tagOnSameSide, []any{k.A, k.B}
	default:
		return kindJSON{}, fmt.Errorf("%w: %T", album.ErrUnknownKind, kind)
	}

	data := make([]json.RawMessage, len(args))
	for i, arg := range args {
		raw, err := json.Marshal(arg)
		if err != nil {
			return kindJSON{}, err
		}

		data[i] = raw
	}

	return kindJSON{Kind: tag, Data: data}, nil
}

func decodeKind(k kindJSON) (album.Kind, error) {
	switch k.Kind {
	case tagAtPosition, tagAdjacent, tagOnSameSide:
	default:
		return nil, fmt.Errorf("%w: %q", album.ErrUnknownKind, k.Kind)
	}

	if len(k.Data) != 2 {
		return nil, fmt.Errorf("%w: %s expects 2 values, got %d", album.ErrInvalidArgs, k.Kind, len(k.Data))
	}

	var first string
	if err := json.Unmarshal(k.Data[0], &first); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", album.ErrInvalidArgs, k.Kind, err)
	}

	if k.Kind == tagAtPosition {
		var pos int
		if err := json.Unmarshal(k.Data[1], &pos); err != nil || pos < 0 {
			return nil, fmt.Errorf("%w: AtPosition needs a non-negative position", album.ErrInvalidArgs)
		}

		return album.AtPosition{Title: first, Position: pos}, nil
	}

	var second string
	if err := json.Unmarshal(k.Data[1], &second); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", album.ErrInvalidArgs, k.Kind, err)
	}

	if k.Kind == tagAdjacent {
		return album.Adjacent{A: first, B: second}, nil
	}

	return album.OnSameSide{A: first, B: second}, nil
}
