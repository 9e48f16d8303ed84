package repositories

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"chatstream/contract"
	"chatstream/domain"
)

func TestNotifier_FailDeliversTerminalErrorOnce(t *testing.T) {
	req := require.New(t)
	n := newNotifier(testLogger())
	changes, _ := n.subscribe(context.Background(), domain.ChatMetaPath("c1"))

	// When the notifier fails
	n.fail(fmt.Errorf("store torn down"))

	// Then the watcher receives one terminal change, then the close
	change := receiveChange(t, changes)
	req.Error(change.Err)
	_, open := <-changes
	req.False(open)

	// And a second failure has nothing left to notify
	n.fail(fmt.Errorf("again"))
}

func TestNotifier_ErrorFreeCloseJustClosesWatches(t *testing.T) {
	req := require.New(t)
	n := newNotifier(testLogger())
	changes, _ := n.subscribe(context.Background(), domain.ChatMetaPath("c1"))

	// When the notifier shuts down without an error
	n.fail(nil)

	// Then no terminal change is fabricated
	change, open := <-changes
	req.False(open)
	req.NoError(change.Err)
}

func TestNotifier_ContextCancellationDropsWatch(t *testing.T) {
	req := require.New(t)
	n := newNotifier(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	changes, _ := n.subscribe(ctx, domain.ChatMetaPath("c1"))

	// When the subscriber's context ends
	cancel()

	// Then the watch channel closes
	for change := range changes {
		req.NoError(change.Err)
	}
}

func TestNotifier_PathEqualityScopesDelivery(t *testing.T) {
	req := require.New(t)
	n := newNotifier(testLogger())
	c1, _ := n.subscribe(context.Background(), domain.ChatMessagesPath("c1"))
	c2, _ := n.subscribe(context.Background(), domain.ChatMessagesPath("c2"))

	// When a record lands in c1's message collection
	n.record(domain.ChatMessagePath("c1", "m1"), contract.ChangeAdded, map[string]any{})

	// Then only c1's watcher hears about it
	req.Equal("m1", receiveChange(t, c1).ID)
	select {
	case change := <-c2:
		req.Failf("unexpected delivery", "change for %s", change.Path)
	default:
	}
}
