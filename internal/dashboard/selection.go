// Package dashboard turns the loaded boundaries, stations, and a quarter's
// sales into one map render pass.
package dashboard

import "github.com/rotisserie/eris"

// Selection is one session's chosen quarter. The zero value selects the
// first quarter.
type Selection struct {
	Index int `json:"index"`
}

// NewSelection returns the initial selection.
func NewSelection() Selection { return Selection{} }

// Set moves the selection to i, which must be a valid slider position for n
// quarters. The slider is the only caller.
func (s *Selection) Set(i, n int) error {
	if i < 0 || i >= n {
		return eris.Errorf("dashboard: quarter index %d out of range [0, %d]", i, n-1)
	}
	s.Index = i
	return nil
}

// Toggles controls which optional layers are drawn.
type Toggles struct {
	Level2  bool `json:"level2"`
	Level3  bool `json:"level3"`
	Heatmap bool `json:"heatmap"`
}

// DefaultToggles shows every layer.
func DefaultToggles() Toggles {
	return Toggles{Level2: true, Level3: true, Heatmap: true}
}
