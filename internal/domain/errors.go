package domain

import "errors"

var (
	// ErrNotFound is returned for operations on an unknown conversation id
	ErrNotFound = errors.New("conversation not found")

	// ErrRemoteUnavailable matches every transport, status or decoding failure
	// of the chat backend
	ErrRemoteUnavailable = errors.New("chat backend unavailable")
)
