package lifecycle

import "time"

// State is a controller state.
type State int

const (
	Idle State = iota
	Loading
	Converted
	Rendered
	Fitted
	Failed
)

var stateNames = [...]string{
	Idle:      "idle",
	Loading:   "loading",
	Converted: "converted",
	Rendered:  "rendered",
	Fitted:    "fitted",
	Failed:    "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool { return s == Fitted || s == Failed }

// canMove reports whether from → to is a legal transition.
func canMove(from, to State) bool {
	if to == Failed {
		return !from.Terminal()
	}
	return to == from+1 && to <= Fitted
}

// Transition is one recorded state change.
type Transition struct {
	From State     `json:"from"`
	To   State     `json:"to"`
	At   time.Time `json:"at"`
}
