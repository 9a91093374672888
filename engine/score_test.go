// ABOUTME: Tests for constraint scoring
// ABOUTME: Covers each constraint kind, absent titles, self references and weight monotonicity

package engine

import (
	"testing"

	"albumseq/album"
)

func TestSatisfied(t *testing.T) {
	medium := album.Medium{Sides: 2, MaxDurationPerSide: 5}
	ordering := tl(tr("C", 2), tr("A", 3), tr("B", 4))
	partition := Allocate(ordering, medium)

	tests := []struct {
		name string
		kind album.Kind
		want bool
	}{
		{"at position match", album.AtPosition{Title: "A", Position: 1}, true},
		{"at position case-insensitive", album.AtPosition{Title: "c", Position: 0}, true},
		{"at position wrong index", album.AtPosition{Title: "A", Position: 0}, false},
		{"at position out of range", album.AtPosition{Title: "A", Position: 3}, false},
		{"at position absent", album.AtPosition{Title: "Z", Position: 0}, false},
		{"adjacent forward", album.Adjacent{A: "C", B: "A"}, true},
		{"adjacent reverse", album.Adjacent{A: "B", B: "A"}, true},
		{"adjacent apart", album.Adjacent{A: "C", B: "B"}, false},
		{"adjacent absent", album.Adjacent{A: "C", B: "Z"}, false},
		{"adjacent self", album.Adjacent{A: "A", B: "a"}, false},
		{"same side", album.OnSameSide{A: "C", B: "A"}, true},
		{"different sides", album.OnSameSide{A: "A", B: "B"}, false},
		{"same side absent", album.OnSameSide{A: "A", B: "Z"}, false},
		{"same side self", album.OnSameSide{A: "A", B: "A"}, false},
		{"nil kind", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Satisfied(ordering, partition, tt.kind); got != tt.want {
				t.Errorf("Satisfied(%v) = %v, want %v", tt.kind, got, tt.want)
			}
		})
	}
}

func TestSatisfiedDuplicateTitles(t *testing.T) {
	medium := album.Medium{Sides: 2, MaxDurationPerSide: 10}
	ordering := tl(tr("Reprise", 1), tr("A", 2), tr("Reprise", 1))
	partition := Allocate(ordering, medium)

	// First occurrence wins for every kind
	if Satisfied(ordering, partition, album.AtPosition{Title: "Reprise", Position: 2}) {
		t.Error("AtPosition should resolve the first occurrence only")
	}

	if !Satisfied(ordering, partition, album.AtPosition{Title: "Reprise", Position: 0}) {
		t.Error("AtPosition should match the first occurrence")
	}

	if !Satisfied(ordering, partition, album.Adjacent{A: "Reprise", B: "A"}) {
		t.Error("Adjacent should use the first occurrence")
	}
}

func TestOnSameSideInfeasible(t *testing.T) {
	medium := album.Medium{Sides: 1, MaxDurationPerSide: 5}
	ordering := tl(tr("A", 2), tr("B", 2), tr("C", 4))
	partition := Allocate(ordering, medium)

	if partition.Feasible {
		t.Fatal("Expected infeasible partition")
	}

	// A and B were both placed on side 0 before packing failed
	if Satisfied(ordering, partition, album.OnSameSide{A: "A", B: "B"}) {
		t.Error("OnSameSide must be unsatisfied for an infeasible ordering")
	}
}

func TestScore(t *testing.T) {
	medium := album.Medium{Sides: 2, MaxDurationPerSide: 5}
	ordering := tl(tr("C", 2), tr("A", 3), tr("B", 4))
	partition := Allocate(ordering, medium)

	constraints := []album.Constraint{
		{Kind: album.Adjacent{A: "A", B: "B"}, Weight: 10},
		{Kind: album.OnSameSide{A: "C", B: "A"}, Weight: 3},
		{Kind: album.AtPosition{Title: "B", Position: 0}, Weight: 7},
		{Kind: album.Adjacent{A: "Missing", B: "A"}, Weight: 100},
	}

	if got := Score(ordering, partition, constraints); got != 13 {
		t.Errorf("Score = %d, want 13", got)
	}

	score, satisfied := ScoreWithBreakdown(ordering, partition, constraints)
	if score != 13 {
		t.Errorf("ScoreWithBreakdown score = %d, want 13", score)
	}

	expected := []bool{true, true, false, false}
	for i := range expected {
		if satisfied[i] != expected[i] {
			t.Errorf("Constraint %d satisfied = %v, want %v", i, satisfied[i], expected[i])
		}
	}

	if Score(ordering, partition, nil) != 0 {
		t.Error("Expected zero score with no constraints")
	}
}

func TestScoreMonotonic(t *testing.T) {
	medium := album.Medium{Sides: 2, MaxDurationPerSide: 5}
	base := []album.Constraint{{Kind: album.Adjacent{A: "A", B: "B"}, Weight: 10}}
	extra := album.Constraint{Kind: album.AtPosition{Title: "C", Position: 0}, Weight: 4}
	extended := append(append([]album.Constraint{}, base...), extra)

	for ordering := range Orderings(tl(tr("A", 3), tr("B", 4), tr("C", 2))) {
		p := Allocate(ordering, medium)
		before := Score(ordering, p, base)
		after := Score(ordering, p, extended)

		want := before
		if Satisfied(ordering, p, extra.Kind) {
			want += extra.Weight
		}

		if after != want {
			t.Errorf("Ordering %v: score %d after adding constraint, want %d", ordering.Titles(), after, want)
		}
	}
}
