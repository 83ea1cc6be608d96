package dashboard

// ViewState names the screen the client is showing.
type ViewState int

const (
	ViewUpload ViewState = iota
	ViewLoading
	ViewDashboard
	ViewError
)

func (s ViewState) String() string {
	switch s {
	case ViewLoading:
		return "loading"
	case ViewDashboard:
		return "dashboard"
	case ViewError:
		return "error"
	default:
		return "upload"
	}
}

// Event drives the view state machine.
type Event int

const (
	EventSubmit Event = iota
	EventSucceeded
	EventFailed
	EventRetry
	EventNewAnalysis
)

func (e Event) String() string {
	switch e {
	case EventSucceeded:
		return "succeeded"
	case EventFailed:
		return "failed"
	case EventRetry:
		return "retry"
	case EventNewAnalysis:
		return "new_analysis"
	default:
		return "submit"
	}
}

// Transition returns the state after applying event. Events that do not
// apply in the current state leave it unchanged and report ok=false, so
// stray completions cannot knock the view out of place.
func Transition(state ViewState, event Event) (ViewState, bool) {
	switch event {
	case EventSubmit:
		if state == ViewUpload {
			return ViewLoading, true
		}
	case EventSucceeded:
		if state == ViewLoading {
			return ViewDashboard, true
		}
	case EventFailed:
		if state == ViewLoading {
			return ViewError, true
		}
	case EventRetry:
		if state == ViewError {
			return ViewUpload, true
		}
	case EventNewAnalysis:
		if state != ViewLoading {
			return ViewUpload, true
		}
	}
	return state, false
}
