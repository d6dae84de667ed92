package domain

// RequestState is the lifecycle of the most recent chat request
type RequestState int

const (
	StateIdle RequestState = iota
	StateLoading
	StateError
)

func (s RequestState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// RequestStatus is a tagged request state. Only the error state carries a message.
type RequestStatus struct {
	state   RequestState
	message string
}

// Idle returns the idle status
func Idle() RequestStatus {
	return RequestStatus{state: StateIdle}
}

// Loading returns the loading status
func Loading() RequestStatus {
	return RequestStatus{state: StateLoading}
}

// Failed returns the error status with a user-facing message
func Failed(message string) RequestStatus {
	return RequestStatus{state: StateError, message: message}
}

// State returns the status tag
func (s RequestStatus) State() RequestState {
	return s.state
}

// IsLoading reports whether a request is in flight
func (s RequestStatus) IsLoading() bool {
	return s.state == StateLoading
}

// ErrorMessage returns the error message when the status is StateError
func (s RequestStatus) ErrorMessage() (string, bool) {
	if s.state != StateError {
		return "", false
	}
	return s.message, true
}

func (s RequestStatus) String() string {
	if s.state == StateError && s.message != "" {
		return s.state.String() + ": " + s.message
	}
	return s.state.String()
}
