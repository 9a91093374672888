// ABOUTME: Parameter manager for tuning the ranking request
// ABOUTME: Handles integer parameter adjustments with boundary checking

package tui

import "strconv"

// Parameter is a tunable integer setting bound to a field of the model's settings
type Parameter struct {
	Name    string
	Value   *int // Pointer to the settings field
	Default int
	Min     int
	Max     int
	Step    int
	OffAt   *int // Value rendered as "off", nil if every value is meaningful
}

// Display renders the current value
func (p Parameter) Display() string {
	if p.Value == nil {
		return "N/A"
	}

	if p.OffAt != nil && *p.Value == *p.OffAt {
		return "off"
	}

	return strconv.Itoa(*p.Value)
}

// ParamManager manages parameter selection and adjustment
type ParamManager struct {
	params        []Parameter
	selectedIndex int
}

// NewParamManager creates a new parameter manager
func NewParamManager(params []Parameter) *ParamManager {
	return &ParamManager{
		params:        params,
		selectedIndex: 0,
	}
}

// Selected returns the index of the currently selected parameter
func (pm *ParamManager) Selected() int {
	return pm.selectedIndex
}

// SetSelected sets the selected parameter index
func (pm *ParamManager) SetSelected(index int) {
	if index >= 0 && index < len(pm.params) {
		pm.selectedIndex = index
	}
}

// SelectNext moves selection to the next parameter
func (pm *ParamManager) SelectNext() {
	if pm.selectedIndex < len(pm.params)-1 {
		pm.selectedIndex++
	}
}

// SelectPrevious moves selection to the previous parameter
func (pm *ParamManager) SelectPrevious() {
	if pm.selectedIndex > 0 {
		pm.selectedIndex--
	}
}

// Increase increases the selected parameter value
// Returns true if the value was changed
func (pm *ParamManager) Increase() bool {
	param := pm.GetSelected()
	if param == nil {
		return false
	}

	newVal := *param.Value + param.Step
	if newVal > param.Max {
		return false
	}

	*param.Value = newVal

	return true
}

// Decrease decreases the selected parameter value
// Returns true if the value was changed
func (pm *ParamManager) Decrease() bool {
	param := pm.GetSelected()
	if param == nil {
		return false
	}

	newVal := *param.Value - param.Step
	if newVal < param.Min {
		return false
	}

	*param.Value = newVal

	return true
}

// ResetToDefaults resets all parameters to their default values
// Returns true if any value changed
func (pm *ParamManager) ResetToDefaults() bool {
	changed := false

	for i := range pm.params {
		p := &pm.params[i]
		if *p.Value != p.Default {
			*p.Value = p.Default
			changed = true
		}
	}

	return changed
}

// Get returns the parameter at the given index
func (pm *ParamManager) Get(index int) *Parameter {
	if index >= 0 && index < len(pm.params) {
		return &pm.params[index]
	}

	return nil
}

// GetSelected returns the currently selected parameter
func (pm *ParamManager) GetSelected() *Parameter {
	return pm.Get(pm.selectedIndex)
}

// Len returns the number of parameters
func (pm *ParamManager) Len() int {
	return len(pm.params)
}

// All returns all parameters (for rendering)
func (pm *ParamManager) All() []Parameter {
	return pm.params
}
