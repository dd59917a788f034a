package shape

import "fmt"

// State is the interaction mode of a node.
type State string

const (
	StateDefault  State = "default"
	StateHover    State = "hover"
	StateSelected State = "selected"
)

// ParseState parses a state name. The empty string is the default state.
func ParseState(s string) (State, error) {
	switch State(s) {
	case "", StateDefault:
		return StateDefault, nil
	case StateHover:
		return StateHover, nil
	case StateSelected:
		return StateSelected, nil
	}
	return "", fmt.Errorf("unknown state %q", s)
}

// States holds the interaction flags asserted for a node.
type States struct {
	Hover    bool
	Selected bool
}

// StatesOf returns the flags for a single state.
func StatesOf(s State) States {
	return States{Hover: s == StateHover, Selected: s == StateSelected}
}

// State collapses the flags. Selected wins over hover.
func (s States) State() State {
	switch {
	case s.Selected:
		return StateSelected
	case s.Hover:
		return StateHover
	default:
		return StateDefault
	}
}
