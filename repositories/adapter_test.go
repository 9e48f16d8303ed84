package repositories

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"

	"chatstream/contract"
	"chatstream/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// openAdapters builds one instance of every adapter over a fresh store.
// The conformance tests below run the same scenario against each, since
// the chat core must behave identically over all of them.
func openAdapters(t *testing.T) map[string]contract.BackendAdapter {
	t.Helper()

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLogger(nil))
	require.NoError(t, err)
	badgerAdapter := NewBadgerAdapter(db, testLogger())
	t.Cleanup(func() {
		badgerAdapter.Close()
		require.NoError(t, db.Close())
	})

	pebbleAdapter, err := OpenPebbleAdapter(t.TempDir(), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, pebbleAdapter.Close()) })

	return map[string]contract.BackendAdapter{
		"memory": NewMemoryAdapter(testLogger()),
		"badger": badgerAdapter,
		"pebble": pebbleAdapter,
	}
}

func receiveChange(t *testing.T, changes <-chan contract.Change) contract.Change {
	t.Helper()
	select {
	case change, ok := <-changes:
		require.True(t, ok, "change stream closed early")
		return change
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for change")
		return contract.Change{}
	}
}

func TestAdapters_WriteMergesIntoExistingRecord(t *testing.T) {
	for name, adapter := range openAdapters(t) {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			ctx := context.Background()
			path := domain.ChatMetaPath("c1")

			// Given a record with a name
			req.NoError(adapter.Write(ctx, path, map[string]any{domain.KeyName: "general"}))

			// When a second write touches a different field
			req.NoError(adapter.Write(ctx, path, map[string]any{domain.KeyImageURL: "https://example.com/c1.png"}))

			// Then both fields survive, and a third write replaces one
			fields, err := adapter.ReadOnce(ctx, path)
			req.NoError(err)
			req.Equal("general", fields[domain.KeyName])
			req.Equal("https://example.com/c1.png", fields[domain.KeyImageURL])

			req.NoError(adapter.Write(ctx, path, map[string]any{domain.KeyName: "random"}))
			fields, err = adapter.ReadOnce(ctx, path)
			req.NoError(err)
			req.Equal("random", fields[domain.KeyName])
		})
	}
}

func TestAdapters_CollectionReadListsDirectChildren(t *testing.T) {
	for name, adapter := range openAdapters(t) {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			ctx := context.Background()

			// Given two roster entries
			req.NoError(adapter.Write(ctx, domain.ChatUserPath("c1", "u1"),
				map[string]any{domain.KeyRole: "owner"}))
			req.NoError(adapter.Write(ctx, domain.ChatUserPath("c1", "u2"),
				map[string]any{domain.KeyRole: "member"}))

			// When the collection is read
			entries, err := adapter.ReadOnce(ctx, domain.ChatUsersPath("c1"))
			req.NoError(err)

			// Then each child comes back with its fields
			req.Len(entries, 2)
			u1, ok := entries["u1"].(map[string]any)
			req.True(ok)
			req.Equal("owner", u1[domain.KeyRole])
		})
	}
}

func TestAdapters_ReadMissingPathYieldsEmpty(t *testing.T) {
	for name, adapter := range openAdapters(t) {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			fields, err := adapter.ReadOnce(context.Background(), domain.ChatMetaPath("nope"))
			req.NoError(err)
			req.Empty(fields)
		})
	}
}

func TestAdapters_DeleteRemovesRecord(t *testing.T) {
	for name, adapter := range openAdapters(t) {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			ctx := context.Background()
			path := domain.ChatUserPath("c1", "u1")
			req.NoError(adapter.Write(ctx, path, map[string]any{domain.KeyRole: "owner"}))

			// When the record is deleted
			req.NoError(adapter.Delete(ctx, path))

			// Then it is gone from both the record and the collection view
			fields, err := adapter.ReadOnce(ctx, path)
			req.NoError(err)
			req.Empty(fields)
			entries, err := adapter.ReadOnce(ctx, domain.ChatUsersPath("c1"))
			req.NoError(err)
			req.NotContains(entries, "u1")

			// And deleting again does not fail
			req.NoError(adapter.Delete(ctx, path))
		})
	}
}

func TestAdapters_SubscribeSeesDocumentAndCollectionChanges(t *testing.T) {
	for name, adapter := range openAdapters(t) {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			ctx := context.Background()
			docPath := domain.ChatUserPath("c1", "u1")

			docChanges, cancelDoc, err := adapter.SubscribeChanges(ctx, docPath)
			req.NoError(err)
			defer cancelDoc()
			collectionChanges, cancelCollection, err := adapter.SubscribeChanges(ctx, domain.ChatUsersPath("c1"))
			req.NoError(err)
			defer cancelCollection()

			// When the record is created
			req.NoError(adapter.Write(ctx, docPath, map[string]any{domain.KeyRole: "owner"}))

			// Then both the record watch and the collection watch see it
			change := receiveChange(t, docChanges)
			req.Equal(contract.ChangeAdded, change.Kind)
			req.Equal("u1", change.ID)
			req.Equal("owner", change.Fields[domain.KeyRole])

			change = receiveChange(t, collectionChanges)
			req.Equal(contract.ChangeAdded, change.Kind)
			req.Equal("u1", change.ID)

			// And a removal is delivered as such
			req.NoError(adapter.Delete(ctx, docPath))
			req.Equal(contract.ChangeRemoved, receiveChange(t, docChanges).Kind)
			req.Equal(contract.ChangeRemoved, receiveChange(t, collectionChanges).Kind)
		})
	}
}

func TestAdapters_CancelledSubscriptionStopsDelivering(t *testing.T) {
	for name, adapter := range openAdapters(t) {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			ctx := context.Background()
			path := domain.ChatMetaPath("c1")

			changes, cancel, err := adapter.SubscribeChanges(ctx, path)
			req.NoError(err)

			// When the watch is cancelled
			cancel()

			// Then the channel closes and later writes are not delivered
			_, open := <-changes
			req.False(open)
			req.NoError(adapter.Write(ctx, path, map[string]any{domain.KeyName: "general"}))

			// Cancelling twice is a no-op
			cancel()
		})
	}
}

func TestAdapters_AppendAssignsIDAndCompletes(t *testing.T) {
	for name, adapter := range openAdapters(t) {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			ctx := context.Background()
			path := domain.ChatMessagesPath("c1")
			fields := map[string]any{
				domain.KeyFrom: "u1",
				domain.KeyType: "message",
				domain.KeyBody: map[string]any{"text": "hi"},
			}

			// When a record is appended
			result, err := adapter.Append(ctx, path, fields)

			// Then the id is assigned synchronously and the write completes
			req.NoError(err)
			req.NotEmpty(result.ID)
			req.NoError(<-result.Done)

			// And the record is readable under that id
			entries, err := adapter.ReadOnce(ctx, path)
			req.NoError(err)
			req.Contains(entries, result.ID)

			// And distinct appends never collide
			second, err := adapter.Append(ctx, path, fields)
			req.NoError(err)
			req.NotEqual(result.ID, second.ID)
		})
	}
}
