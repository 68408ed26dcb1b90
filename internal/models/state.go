package models

// Status enumerates the phases of an upload session.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "Idle"
	case StatusLoading:
		return "Loading"
	case StatusSucceeded:
		return "Succeeded"
	case StatusFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// IsTerminal reports whether the status ends a submission.
func (s Status) IsTerminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// State is the session status together with the data only that status may carry.
//
// The zero value is Idle.
type State struct {
	status  Status
	message string
	result  *Result
}

func Idle() State    { return State{status: StatusIdle} }
func Loading() State { return State{status: StatusLoading} }

// Succeeded carries ownership of result.
func Succeeded(result *Result) State { return State{status: StatusSucceeded, result: result} }

// Failed carries the message shown to the user.
func Failed(message string) State { return State{status: StatusFailed, message: message} }

func (s State) Status() Status { return s.status }

// Message returns the failure message and whether the state is Failed.
func (s State) Message() (string, bool) {
	return s.message, s.status == StatusFailed
}

// Result returns the owned result and whether the state is Succeeded.
func (s State) Result() (*Result, bool) {
	return s.result, s.status == StatusSucceeded
}
