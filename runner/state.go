// state.go - Zustaende einer Completion-Session
package runner

import "fmt"

// EOGMarker ist die Ausgabe von Step wenn die Generierung endet
const EOGMarker = "[EOG]"

// State ist der Zustand einer Session
type State int

const (
	StateIdle State = iota
	StatePromptSubmitted
	StateDecoding
	StateEndOfGeneration
	StateContextOverflow
	StateDecodeError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePromptSubmitted:
		return "prompt submitted"
	case StateDecoding:
		return "decoding"
	case StateEndOfGeneration:
		return "end of generation"
	case StateContextOverflow:
		return "context overflow"
	case StateDecodeError:
		return "decode error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// active meldet ob ein Turn laeuft oder auf StopCompletion wartet
func (s State) active() bool {
	return s != StateIdle
}

// stepping meldet ob Step erlaubt ist
func (s State) stepping() bool {
	return s == StatePromptSubmitted || s == StateDecoding
}
