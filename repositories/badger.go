package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"chatstream/contract"
	"chatstream/domain"
)

// BadgerAdapter is a Backend Adapter over a flat key tree in BadgerDB.
// Every record lives under a single key, the slash-joined path, with its
// fields stored as a proto-encoded struct. Collection reads are prefix
// scans: the key layout makes all children of a path share its prefix.
type BadgerAdapter struct {
	db       *badger.DB
	log      *slog.Logger
	notifier *notifier
}

func NewBadgerAdapter(db *badger.DB, log *slog.Logger) *BadgerAdapter {
	return &BadgerAdapter{db: db, log: log, notifier: newNotifier(log)}
}

func (a *BadgerAdapter) ReadOnce(_ context.Context, path domain.Path) (map[string]any, error) {
	key := []byte(path.String())

	// Record lookup first; fall back to a children scan when the path
	// addresses a collection.
	var fields map[string]any
	err := a.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == nil {
			return item.Value(func(value []byte) error {
				fields, err = decodeFields(value)
				return err
			})
		}
		if err != badger.ErrKeyNotFound {
			return err
		}

		children := make(map[string]any)
		prefix := []byte(path.String() + "/")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			childID := string(item.Key()[len(prefix):])
			if strings.Contains(childID, "/") {
				// Deeper descendant, not a direct child.
				continue
			}
			err := item.Value(func(value []byte) error {
				childFields, err := decodeFields(value)
				if err != nil {
					return err
				}
				children[childID] = childFields
				return nil
			})
			if err != nil {
				return err
			}
		}
		fields = children
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("badger read %s: %w", path, err)
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func (a *BadgerAdapter) Write(_ context.Context, path domain.Path, fields map[string]any) error {
	key := []byte(path.String())
	kind := contract.ChangeAdded
	var merged map[string]any

	err := a.db.Update(func(txn *badger.Txn) error {
		merged = make(map[string]any, len(fields))
		item, err := txn.Get(key)
		switch err {
		case nil:
			kind = contract.ChangeModified
			err = item.Value(func(value []byte) error {
				existing, err := decodeFields(value)
				if err != nil {
					return err
				}
				for k, v := range existing {
					merged[k] = v
				}
				return nil
			})
			if err != nil {
				return err
			}
		case badger.ErrKeyNotFound:
		default:
			return err
		}
		for k, v := range fields {
			merged[k] = v
		}
		encoded, err := encodeFields(merged)
		if err != nil {
			return err
		}
		return txn.Set(key, encoded)
	})
	if err != nil {
		return fmt.Errorf("badger write %s: %w", path, err)
	}

	a.notifier.record(path, kind, merged)
	return nil
}

func (a *BadgerAdapter) Delete(_ context.Context, path domain.Path) error {
	key := []byte(path.String())
	err := a.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
	if err != nil {
		return fmt.Errorf("badger delete %s: %w", path, err)
	}
	a.notifier.record(path, contract.ChangeRemoved, nil)
	return nil
}

func (a *BadgerAdapter) SubscribeChanges(ctx context.Context, path domain.Path) (<-chan contract.Change, func(), error) {
	changes, cancel := a.notifier.subscribe(ctx, path)
	return changes, cancel, nil
}

func (a *BadgerAdapter) Append(ctx context.Context, path domain.Path, fields map[string]any) (contract.AppendResult, error) {
	id := uuid.NewString()
	done := make(chan error, 1)
	done <- a.Write(ctx, path.Child(id), fields)
	close(done)
	return contract.AppendResult{ID: id, Done: done}, nil
}

// Close terminates every active subscription. The badger handle itself is
// owned by the caller.
func (a *BadgerAdapter) Close() {
	a.notifier.fail(nil)
}

func encodeFields(fields map[string]any) ([]byte, error) {
	record, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(record)
}

func decodeFields(value []byte) (map[string]any, error) {
	var record structpb.Struct
	if err := proto.Unmarshal(value, &record); err != nil {
		return nil, err
	}
	return record.AsMap(), nil
}

var _ contract.BackendAdapter = (*BadgerAdapter)(nil)
