package session

import "github.com/dmitrijs2005/happyplaces/internal/client/models"

// Phase names a session state.
type Phase string

const (
	PhaseIdle            Phase = "idle"
	PhaseLocationChosen  Phase = "location_chosen"
	PhaseNoteEntered     Phase = "note_entered"
	PhaseAwaitingCapture Phase = "awaiting_capture"
	PhaseCommitting      Phase = "committing"
)

// State is one of Idle, LocationChosen, NoteEntered, AwaitingCapture or
// Committing. Each variant carries exactly the data valid in that phase.
type State interface {
	Phase() Phase
	isState()
}

// Target is the location a session is about to save.
type Target struct {
	Generation uint64
	Origin     models.Origin
	Coordinate models.Coordinate
}

type Idle struct{}

type LocationChosen struct {
	Target
}

type NoteEntered struct {
	Target
	Note string
}

type AwaitingCapture struct {
	Target
	Note string
}

// Committing means the capture result was accepted and the image and entry
// are being written. It can no longer be cancelled.
type Committing struct {
	Target
	Note string
}

func (Idle) Phase() Phase            { return PhaseIdle }
func (LocationChosen) Phase() Phase  { return PhaseLocationChosen }
func (NoteEntered) Phase() Phase     { return PhaseNoteEntered }
func (AwaitingCapture) Phase() Phase { return PhaseAwaitingCapture }
func (Committing) Phase() Phase      { return PhaseCommitting }

func (Idle) isState()            {}
func (LocationChosen) isState()  {}
func (NoteEntered) isState()     {}
func (AwaitingCapture) isState() {}
func (Committing) isState()      {}

// targetOf returns the target of any non-idle state.
func targetOf(s State) (Target, bool) {
	switch st := s.(type) {
	case LocationChosen:
		return st.Target, true
	case NoteEntered:
		return st.Target, true
	case AwaitingCapture:
		return st.Target, true
	case Committing:
		return st.Target, true
	default:
		return Target{}, false
	}
}

// Outcome is the terminal result of one session: either Committed with the
// new entry, or aborted with the reason in Err.
type Outcome struct {
	Generation uint64
	Committed  bool
	Entry      models.Entry
	Err        error
}
