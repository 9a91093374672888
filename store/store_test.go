// ABOUTME: Tests for the context store
// ABOUTME: Covers add/replace/remove semantics, the JSON wire format and atomic file updates

package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"albumseq/album"
)

func TestAddOrReplaceTracklist(t *testing.T) {
	c := New()

	change, err := c.AddOrReplaceTracklist("My Album", album.Tracklist{{Title: "A", Duration: 3}})
	if err != nil || change != Added {
		t.Fatalf("Expected Added, got %v, %v", change, err)
	}

	change, err = c.AddOrReplaceTracklist("my album", album.Tracklist{{Title: "B", Duration: 4}})
	if err != nil || change != Replaced {
		t.Fatalf("Expected Replaced, got %v, %v", change, err)
	}

	if len(c.Tracklists) != 1 || c.Tracklists[0].Tracks[0].Title != "B" {
		t.Errorf("Unexpected tracklists: %+v", c.Tracklists)
	}

	if _, err := c.AddOrReplaceTracklist("Bad", album.Tracklist{{Title: "A", Duration: 0}}); !errors.Is(err, album.ErrInvalidTrack) {
		t.Errorf("Expected ErrInvalidTrack, got %v", err)
	}

	tl, err := c.Tracklist("MY ALBUM")
	if err != nil || tl.Name != "my album" {
		t.Errorf("Lookup failed: %+v, %v", tl, err)
	}

	if _, err := c.Tracklist("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestAddOrReplaceMedium(t *testing.T) {
	c := New()

	if _, err := c.AddOrReplaceMedium(album.Medium{Name: "Vinyl", Sides: 2, MaxDurationPerSide: 22}); err != nil {
		t.Fatal(err)
	}

	change, err := c.AddOrReplaceMedium(album.Medium{Name: "VINYL", Sides: 4, MaxDurationPerSide: 18})
	if err != nil || change != Replaced {
		t.Fatalf("Expected Replaced, got %v, %v", change, err)
	}

	m, err := c.Medium("vinyl")
	if err != nil || m.Sides != 4 {
		t.Errorf("Unexpected medium %+v, %v", m, err)
	}

	if _, err := c.AddOrReplaceMedium(album.Medium{Name: "Bad", Sides: 0, MaxDurationPerSide: 10}); !errors.Is(err, album.ErrInvalidMedium) {
		t.Errorf("Expected ErrInvalidMedium, got %v", err)
	}
}

func TestConstraints(t *testing.T) {
	c := New()

	add := func(kind album.Kind, weight int) Change {
		t.Helper()

		change, err := c.AddOrReplaceConstraint(album.Constraint{Kind: kind, Weight: weight})
		if err != nil {
			t.Fatal(err)
		}

		return change
	}

	add(album.Adjacent{A: "A", B: "B"}, 2)
	add(album.AtPosition{Title: "A", Position: 0}, 1)

	if change := add(album.Adjacent{A: "A", B: "B"}, 5); change != Replaced {
		t.Errorf("Expected identical constraint to be replaced, got %v", change)
	}

	if len(c.Constraints) != 2 || c.Constraints[0].Weight != 5 {
		t.Errorf("Unexpected constraints: %v", c.Constraints)
	}

	removed, err := c.RemoveConstraint(0)
	if err != nil || removed.Kind != (album.Adjacent{A: "A", B: "B"}) {
		t.Errorf("Unexpected removal %v, %v", removed, err)
	}

	if _, err := c.RemoveConstraint(5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestWireFormat(t *testing.T) {
	c := New()
	_, _ = c.AddOrReplaceTracklist("Album", album.Tracklist{{Title: "Song1", Duration: 3.75}})
	_, _ = c.AddOrReplaceMedium(album.Medium{Name: "Vinyl", Sides: 2, MaxDurationPerSide: 22})
	_, _ = c.AddOrReplaceConstraint(album.Constraint{Kind: album.AtPosition{Title: "Song1", Position: 0}, Weight: 2})
	_, _ = c.AddOrReplaceConstraint(album.Constraint{Kind: album.OnSameSide{A: "Song1", B: "Song2"}, Weight: 1})

	data, err := Marshal(c)
	if err != nil {
		t.Fatal(err)
	}

	compact := strings.Join(strings.Fields(string(data)), "")
	for _, want := range []string{
		`"max_duration_per_side":22`,
		`"kind":{"kind":"AtPosition","data":["Song1",0]},"weight":2`,
		`"kind":{"kind":"OnSameSide","data":["Song1","Song2"]}`,
		`{"title":"Song1","duration":3.75}`,
	} {
		if !strings.Contains(compact, want) {
			t.Errorf("Encoded context missing %s:\n%s", want, data)
		}
	}

	decoded, err := Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}

	if decoded.Constraints[0].Kind != (album.AtPosition{Title: "Song1", Position: 0}) {
		t.Errorf("Unexpected decoded kind %v", decoded.Constraints[0].Kind)
	}

	if decoded.Media[0] != c.Media[0] {
		t.Errorf("Medium mismatch: %+v vs %+v", decoded.Media[0], c.Media[0])
	}
}

func TestUnmarshalRejectsUnknownKind(t *testing.T) {
	data := `{"tracklists":[],"mediums":[],"constraints":[{"kind":{"kind":"Before","data":["A","B"]},"weight":1}]}`

	if _, err := Unmarshal([]byte(data)); !errors.Is(err, album.ErrUnknownKind) {
		t.Errorf("Expected ErrUnknownKind, got %v", err)
	}

	bad := `{"constraints":[{"kind":{"kind":"AtPosition","data":["A","x"]},"weight":1}]}`
	if _, err := Unmarshal([]byte(bad)); !errors.Is(err, album.ErrInvalidArgs) {
		t.Errorf("Expected ErrInvalidArgs, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("Expected empty context, got error %v", err)
	}

	if len(c.Tracklists) != 0 || len(c.Media) != 0 || len(c.Constraints) != 0 {
		t.Errorf("Expected empty context, got %+v", c)
	}
}

func TestCreateAndUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "context.json")

	if err := Create(path, false); err != nil {
		t.Fatal(err)
	}

	if err := Create(path, false); !errors.Is(err, ErrExists) {
		t.Errorf("Expected ErrExists, got %v", err)
	}

	err := Update(path, func(c *Context) error {
		_, err := c.AddOrReplaceMedium(album.Medium{Name: "Tape", Sides: 2, MaxDurationPerSide: 30})
		return err
	})
	if err != nil {
		t.Fatal(err)
	}

	// A failing update must leave the file untouched
	sentinel := errors.New("boom")
	if err := Update(path, func(c *Context) error {
		c.Media = nil
		return sentinel
	}); !errors.Is(err, sentinel) {
		t.Errorf("Expected sentinel error, got %v", err)
	}

	c, err := View(path)
	if err != nil {
		t.Fatal(err)
	}

	if len(c.Media) != 1 || c.Media[0].Name != "Tape" {
		t.Errorf("Unexpected media after update: %+v", c.Media)
	}

	// No temp files are left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}

	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp.") {
			t.Errorf("Leftover temp file %s", e.Name())
		}
	}
}
