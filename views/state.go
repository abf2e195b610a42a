package views

// TrendLoaded is a custom vaxis event posted when a trend fetch settles.
// It is sent from background goroutines via PostEvent to notify the UI.
type TrendLoaded struct {
	AssetGroup string
	State      ViewState
}

// TrendUpdated is posted when the trend view changes state without a fetch
// settling, e.g. when a refresh starts. It triggers a redraw.
type TrendUpdated struct{}

// TrendState is the lifecycle phase of the trend view.
type TrendState int

const (
	StateIdle TrendState = iota
	StateLoading
	StateLoaded
	StateError
)

func (s TrendState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Error message codes carried by StateError.
const (
	CodeNoDataAvailable  = "noDataAvailable"
	CodeAPIResponseError = "apiResponseError"
	CodeInternalError    = "internalError"
)

var codeText = map[string]string{
	CodeNoDataAvailable:  "No data available",
	CodeAPIResponseError: "Could not load compliance trend from the server",
	CodeInternalError:    "Something went wrong while loading the compliance trend",
}

// ViewState is the trend view state. Message is only set for StateError and
// holds either an error code or an already formatted error.
type ViewState struct {
	State   TrendState
	Message string
}

// Idle is the state before the first refresh.
func Idle() ViewState { return ViewState{State: StateIdle} }

// Loading is the state while a fetch is in flight.
func Loading() ViewState { return ViewState{State: StateLoading} }

// Loaded is the state after a successful fetch.
func Loaded() ViewState { return ViewState{State: StateLoaded} }

// Failed is the error state carrying msg.
func Failed(msg string) ViewState { return ViewState{State: StateError, Message: msg} }

// Text returns the user-facing message for an error state.
func (v ViewState) Text() string {
	if t, ok := codeText[v.Message]; ok {
		return t
	}
	return v.Message
}
