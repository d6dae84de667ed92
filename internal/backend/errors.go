package backend

import (
	"fmt"

	"github.com/Rrens/academic-chat/internal/domain"
)

// RemoteError describes a failed backend call. It matches domain.ErrRemoteUnavailable.
type RemoteError struct {
	Op         string
	StatusCode int // zero for transport and decoding failures
	Err        error
}

func (e *RemoteError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: backend returned status %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": backend unavailable"
	}
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

func (e *RemoteError) Is(target error) bool {
	return target == domain.ErrRemoteUnavailable
}
