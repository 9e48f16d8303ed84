package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cockroachdb/pebble"
	"github.com/google/uuid"

	"chatstream/contract"
	"chatstream/domain"
)

// PebbleAdapter is a Backend Adapter over a Pebble LSM store used as a
// hierarchical document store. Records are JSON documents keyed by the
// slash-joined path; collection reads iterate a bounded key range.
type PebbleAdapter struct {
	db       *pebble.DB
	log      *slog.Logger
	notifier *notifier
}

func NewPebbleAdapter(db *pebble.DB, log *slog.Logger) *PebbleAdapter {
	return &PebbleAdapter{db: db, log: log, notifier: newNotifier(log)}
}

// OpenPebbleAdapter opens (or creates) a Pebble database at path and
// wraps it. The adapter owns the handle; use Close to release it.
func OpenPebbleAdapter(path string, log *slog.Logger) (*PebbleAdapter, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("pebble open %s: %w", path, err)
	}
	return NewPebbleAdapter(db, log), nil
}

func (a *PebbleAdapter) ReadOnce(_ context.Context, path domain.Path) (map[string]any, error) {
	value, closer, err := a.db.Get([]byte(path.String()))
	if err == nil {
		defer closer.Close()
		var fields map[string]any
		if err := json.Unmarshal(value, &fields); err != nil {
			return nil, fmt.Errorf("pebble read %s: %w", path, err)
		}
		return fields, nil
	}
	if err != pebble.ErrNotFound {
		return nil, fmt.Errorf("pebble read %s: %w", path, err)
	}

	// Collection scan over the bounded child key range.
	prefix := path.String() + "/"
	iter, err := a.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(prefix),
		UpperBound: []byte(prefix + "\xff"),
	})
	if err != nil {
		return nil, fmt.Errorf("pebble scan %s: %w", path, err)
	}
	defer iter.Close()

	children := make(map[string]any)
	for iter.First(); iter.Valid(); iter.Next() {
		childID := string(iter.Key()[len(prefix):])
		if strings.Contains(childID, "/") {
			continue
		}
		var fields map[string]any
		if err := json.Unmarshal(iter.Value(), &fields); err != nil {
			return nil, fmt.Errorf("pebble scan %s: %w", path, err)
		}
		children[childID] = fields
	}
	return children, nil
}

func (a *PebbleAdapter) Write(_ context.Context, path domain.Path, fields map[string]any) error {
	key := []byte(path.String())
	kind := contract.ChangeAdded
	merged := make(map[string]any, len(fields))

	existing, closer, err := a.db.Get(key)
	switch err {
	case nil:
		kind = contract.ChangeModified
		var current map[string]any
		unmarshalErr := json.Unmarshal(existing, &current)
		closer.Close()
		if unmarshalErr != nil {
			return fmt.Errorf("pebble write %s: %w", path, unmarshalErr)
		}
		for k, v := range current {
			merged[k] = v
		}
	case pebble.ErrNotFound:
	default:
		return fmt.Errorf("pebble write %s: %w", path, err)
	}

	for k, v := range fields {
		merged[k] = v
	}
	encoded, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("pebble write %s: %w", path, err)
	}
	if err := a.db.Set(key, encoded, pebble.Sync); err != nil {
		return fmt.Errorf("pebble write %s: %w", path, err)
	}

	a.notifier.record(path, kind, merged)
	return nil
}

func (a *PebbleAdapter) Delete(_ context.Context, path domain.Path) error {
	if err := a.db.Delete([]byte(path.String()), pebble.Sync); err != nil {
		return fmt.Errorf("pebble delete %s: %w", path, err)
	}
	a.notifier.record(path, contract.ChangeRemoved, nil)
	return nil
}

func (a *PebbleAdapter) SubscribeChanges(ctx context.Context, path domain.Path) (<-chan contract.Change, func(), error) {
	changes, cancel := a.notifier.subscribe(ctx, path)
	return changes, cancel, nil
}

func (a *PebbleAdapter) Append(ctx context.Context, path domain.Path, fields map[string]any) (contract.AppendResult, error) {
	id := uuid.NewString()
	done := make(chan error, 1)
	done <- a.Write(ctx, path.Child(id), fields)
	close(done)
	return contract.AppendResult{ID: id, Done: done}, nil
}

// Close terminates active subscriptions and the underlying database.
func (a *PebbleAdapter) Close() error {
	a.notifier.fail(nil)
	return a.db.Close()
}

var _ contract.BackendAdapter = (*PebbleAdapter)(nil)
