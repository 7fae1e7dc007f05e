package session

import "fmt"

// State is a phase in a document analysis. Transitions are linear; FAILED
// is terminal and reachable only before analysis begins or when something
// unrecoverable happens mid-run.
type State string

const (
	StateCreated            State = "CREATED"
	StateLoaded             State = "LOADED"
	StateClassified         State = "CLASSIFIED"
	StateAnalyzing          State = "ANALYZING"
	StateSummarizing        State = "SUMMARIZING"
	StateExtractingMetadata State = "EXTRACTING_METADATA"
	StateSaving             State = "SAVING"
	StateDone               State = "DONE"
	StateFailed             State = "FAILED"
)

var transitions = map[State][]State{
	StateCreated:            {StateLoaded},
	StateLoaded:             {StateClassified, StateFailed},
	StateClassified:         {StateAnalyzing, StateFailed},
	StateAnalyzing:          {StateSummarizing, StateFailed},
	StateSummarizing:        {StateExtractingMetadata, StateFailed},
	StateExtractingMetadata: {StateSaving, StateFailed},
	StateSaving:             {StateDone, StateFailed},
}

// CanTransition reports whether moving from one state to another is legal.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s *Session) setState(to State) error {
	if !CanTransition(s.state, to) {
		return fmt.Errorf("illegal state transition %s -> %s", s.state, to)
	}
	s.state = to
	s.logger.Debug("state transition", "state", string(to))
	s.bus.Publish(s.phaseEvent(to))
	return nil
}
