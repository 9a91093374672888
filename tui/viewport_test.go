// ABOUTME: Tests for the viewport manager
// ABOUTME: Verifies three-phase scrolling for single and multi-line items

package tui

import "testing"

func TestViewportManagerSingleLine(t *testing.T) {
	tests := []struct {
		name           string
		height         int
		cursor         int
		total          int
		expectedOffset int
		expectedPhase  ScrollPhase
	}{
		{name: "empty", height: 10, cursor: 0, total: 0, expectedOffset: 0, expectedPhase: TopPhase},
		{name: "top", height: 10, cursor: 3, total: 100, expectedOffset: 0, expectedPhase: TopPhase},
		{name: "middle", height: 10, cursor: 50, total: 100, expectedOffset: 45, expectedPhase: MiddlePhase},
		{name: "bottom", height: 10, cursor: 98, total: 100, expectedOffset: 90, expectedPhase: BottomPhase},
		{name: "fits on screen", height: 10, cursor: 7, total: 8, expectedOffset: 0, expectedPhase: BottomPhase},
		{name: "zero height", height: 0, cursor: 5, total: 10, expectedOffset: 0, expectedPhase: TopPhase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := NewViewportManager(tt.height, 1, tt.cursor, tt.total)

			if got := vm.CalculateOffset(); got != tt.expectedOffset {
				t.Errorf("Expected offset %d, got %d", tt.expectedOffset, got)
			}

			if got := vm.GetPhase(); got != tt.expectedPhase {
				t.Errorf("Expected phase %d, got %d", tt.expectedPhase, got)
			}
		})
	}
}

func TestViewportManagerMultiLine(t *testing.T) {
	// 4 lines per proposal, 12 lines tall: 3 proposals visible, middle is 1
	tests := []struct {
		cursor         int
		expectedOffset int
	}{
		{cursor: 0, expectedOffset: 0},
		{cursor: 1, expectedOffset: 0},
		{cursor: 2, expectedOffset: 4},
		{cursor: 5, expectedOffset: 16},
		{cursor: 9, expectedOffset: 28},
	}

	for _, tt := range tests {
		vm := NewViewportManager(12, 4, tt.cursor, 10)

		if got := vm.CalculateOffset(); got != tt.expectedOffset {
			t.Errorf("cursor %d: expected offset %d, got %d", tt.cursor, tt.expectedOffset, got)
		}
	}
}

func TestViewportManagerTallItems(t *testing.T) {
	// Items taller than the viewport still scroll one item at a time
	vm := NewViewportManager(3, 5, 2, 4)

	if got := vm.CalculateOffset(); got != 10 {
		t.Errorf("Expected offset 10, got %d", got)
	}
}
