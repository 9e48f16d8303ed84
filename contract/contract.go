//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"

	"chatstream/domain"
)

type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeModified ChangeKind = "modified"
	ChangeRemoved  ChangeKind = "removed"
)

// Change is one backend change notification. For a subscription on a
// collection, Path is the collection and ID the affected child record.
// For a subscription on a document, Path is the document itself and ID its
// last segment. A Change with Err set reports that the upstream stream
// failed; the channel is closed right after.
type Change struct {
	Path   domain.Path
	Kind   ChangeKind
	ID     string
	Fields map[string]any
	Err    error
}

// AppendResult carries the id assigned to a new child record. The id is
// available as soon as Append returns, before the write is necessarily
// durable, so callers can render optimistically. Done yields the write
// completion exactly once.
type AppendResult struct {
	ID   string
	Done <-chan error
}

// BackendAdapter abstracts the concrete store behind chat-level paths.
// Implementations exist for structurally different storage models; chat
// logic never refers to a concrete one.
type BackendAdapter interface {
	// ReadOnce reads the record at a document path, or the id-keyed set of
	// child records at a collection path.
	ReadOnce(ctx context.Context, path domain.Path) (map[string]any, error)
	// Write merges fields into the record at path, creating it if absent.
	Write(ctx context.Context, path domain.Path, fields map[string]any) error
	// Delete removes the record at path.
	Delete(ctx context.Context, path domain.Path) error
	// SubscribeChanges streams changes below path until cancel is called
	// or the context ends. Delivery order matches backend order.
	SubscribeChanges(ctx context.Context, path domain.Path) (<-chan Change, func(), error)
	// Append writes fields under a freshly assigned child id of path.
	Append(ctx context.Context, path domain.Path, fields map[string]any) (AppendResult, error)
}
