package eventstream

import "errors"

var (
	// ErrNilQueryEvent indicates PublishQuery was called with a nil event.
	ErrNilQueryEvent = errors.New("eventstream: nil query event")

	// ErrPublish indicates the broker rejected or never received the event.
	ErrPublish = errors.New("eventstream: publish failed")
)
