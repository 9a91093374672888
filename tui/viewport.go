// ABOUTME: Viewport manager for cursor-to-middle scrolling over multi-line items
// ABOUTME: Implements vim/less style scrolling where each proposal spans several lines

package tui

// ViewportManager handles cursor visibility and viewport scrolling
// Implements vim/less style scrolling: cursor moves to middle, then content scrolls.
// Items are itemHeight lines tall; offsets are returned in lines.
type ViewportManager struct {
	height     int // Viewport height in lines
	itemHeight int // Lines per item, at least 1
	cursorPos  int // Current cursor position (item index)
	totalItems int // Total number of items
}

// NewViewportManager creates a new viewport manager
func NewViewportManager(height, itemHeight, cursorPos, totalItems int) *ViewportManager {
	return &ViewportManager{
		height:     height,
		itemHeight: max(itemHeight, 1),
		cursorPos:  cursorPos,
		totalItems: totalItems,
	}
}

// visibleItems is the number of whole items that fit, at least 1
func (vm *ViewportManager) visibleItems() int {
	return max(vm.height/vm.itemHeight, 1)
}

// CalculateOffset computes the viewport Y offset (in lines) to keep the cursor item visible
//
// Scrolling behavior:
// - Phase 1 (top): Cursor moves freely, viewport stays at 0
// - Phase 2 (middle): Cursor stays at middle, content scrolls
// - Phase 3 (bottom): Viewport shows end, cursor moves to bottom
func (vm *ViewportManager) CalculateOffset() int {
	if vm.totalItems == 0 || vm.height < 1 {
		return 0
	}

	visible := vm.visibleItems()
	middle := visible / 2

	switch vm.GetPhase() {
	case TopPhase:
		return 0
	case MiddlePhase:
		return (vm.cursorPos - middle) * vm.itemHeight
	default:
		return max(vm.totalItems-visible, 0) * vm.itemHeight
	}
}

// ScrollPhase returns which scrolling phase the cursor is currently in
type ScrollPhase int

// Scroll phases define viewport scrolling behavior: top (cursor moves), middle (content scrolls), bottom (cursor moves).
const (
	TopPhase    ScrollPhase = iota // Cursor moves, viewport at top
	MiddlePhase                    // Cursor at middle, content scrolls
	BottomPhase                    // Viewport at bottom, cursor moves
)

// GetPhase returns the current scrolling phase
func (vm *ViewportManager) GetPhase() ScrollPhase {
	if vm.totalItems == 0 || vm.height < 1 {
		return TopPhase
	}

	visible := vm.visibleItems()
	middle := visible / 2

	if vm.cursorPos < middle {
		return TopPhase
	}

	if vm.cursorPos < vm.totalItems-visible+middle {
		return MiddlePhase
	}

	return BottomPhase
}
