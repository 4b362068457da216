package contact

import "errors"

var (
	// ErrMessageNotFound is returned when a contact message does not exist.
	ErrMessageNotFound = errors.New("contact message not found")

	// ErrAlreadyReplied is returned when a message was already marked replied.
	ErrAlreadyReplied = errors.New("contact message already replied")
)
