package errors

import "fmt"

var (
	// ErrTransport marks a backend write or read that could not be
	// completed. Retry policy belongs to the caller.
	ErrTransport = fmt.Errorf("backend transport failure")
	// ErrPermission marks a role change rejected because the caller's
	// authority is insufficient. Never retried.
	ErrPermission = fmt.Errorf("insufficient role authority")
	// ErrInvalidState marks an operation issued while the chat is not
	// bound. Operations are never queued.
	ErrInvalidState = fmt.Errorf("chat is not bound")
	// ErrClosedChat marks an operation issued after the chat was left or
	// closed.
	ErrClosedChat = fmt.Errorf("chat is closed")
	// ErrReferenceMismatch marks external data whose shape does not match
	// the expected document or collection. Readers degrade to "no value".
	ErrReferenceMismatch = fmt.Errorf("reference does not match the expected shape")
)
