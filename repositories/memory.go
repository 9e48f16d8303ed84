package repositories

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"chatstream/contract"
	"chatstream/domain"
)

// MemoryAdapter is a Backend Adapter over an in-memory hierarchical
// document tree. Records hold fields; collections hold child records.
// It is the reference implementation of the adapter semantics and the
// default fixture in tests.
type MemoryAdapter struct {
	mu       sync.RWMutex
	log      *slog.Logger
	root     *node
	notifier *notifier
}

type node struct {
	fields   map[string]any
	children map[string]*node
}

func newNode() *node {
	return &node{children: make(map[string]*node)}
}

func NewMemoryAdapter(log *slog.Logger) *MemoryAdapter {
	return &MemoryAdapter{log: log, root: newNode(), notifier: newNotifier(log)}
}

// lookup walks the tree without modifying it. Returns nil when the path
// does not exist.
func (a *MemoryAdapter) lookup(path domain.Path) *node {
	current := a.root
	for i := 0; i < path.Size(); i++ {
		next, ok := current.children[path.Get(i)]
		if !ok {
			return nil
		}
		current = next
	}
	return current
}

// materialize walks the tree, creating intermediate nodes as needed.
func (a *MemoryAdapter) materialize(path domain.Path) *node {
	current := a.root
	for i := 0; i < path.Size(); i++ {
		segment := path.Get(i)
		next, ok := current.children[segment]
		if !ok {
			next = newNode()
			current.children[segment] = next
		}
		current = next
	}
	return current
}

func (a *MemoryAdapter) ReadOnce(_ context.Context, path domain.Path) (map[string]any, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	target := a.lookup(path)
	if target == nil {
		return map[string]any{}, nil
	}
	if len(target.fields) > 0 {
		return copyFields(target.fields), nil
	}
	children := make(map[string]any, len(target.children))
	for id, child := range target.children {
		children[id] = copyFields(child.fields)
	}
	return children, nil
}

func (a *MemoryAdapter) Write(_ context.Context, path domain.Path, fields map[string]any) error {
	a.mu.Lock()
	target := a.materialize(path)
	kind := contract.ChangeModified
	if len(target.fields) == 0 {
		kind = contract.ChangeAdded
		target.fields = make(map[string]any)
	}
	for key, value := range fields {
		target.fields[key] = value
	}
	snapshot := copyFields(target.fields)
	a.mu.Unlock()

	a.notifier.record(path, kind, snapshot)
	return nil
}

func (a *MemoryAdapter) Delete(_ context.Context, path domain.Path) error {
	a.mu.Lock()
	parent := a.root
	if path.Size() > 1 {
		parent = a.lookup(path.Parent())
	}
	if parent == nil {
		a.mu.Unlock()
		return nil
	}
	if _, ok := parent.children[path.Last()]; !ok {
		a.mu.Unlock()
		return nil
	}
	delete(parent.children, path.Last())
	a.mu.Unlock()

	a.notifier.record(path, contract.ChangeRemoved, nil)
	return nil
}

func (a *MemoryAdapter) SubscribeChanges(ctx context.Context, path domain.Path) (<-chan contract.Change, func(), error) {
	changes, cancel := a.notifier.subscribe(ctx, path)
	return changes, cancel, nil
}

// Append writes fields under a fresh child id. The write is applied
// synchronously, so the returned completion is already resolved.
func (a *MemoryAdapter) Append(ctx context.Context, path domain.Path, fields map[string]any) (contract.AppendResult, error) {
	id := uuid.NewString()
	done := make(chan error, 1)
	err := a.Write(ctx, path.Child(id), fields)
	done <- err
	close(done)
	return contract.AppendResult{ID: id, Done: done}, nil
}

func copyFields(fields map[string]any) map[string]any {
	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		if nested, ok := value.(map[string]any); ok {
			copied[key] = copyFields(nested)
			continue
		}
		copied[key] = value
	}
	return copied
}

var _ contract.BackendAdapter = (*MemoryAdapter)(nil)
