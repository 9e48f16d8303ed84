// Package repositories provides Backend Adapter implementations over
// embedded stores with structurally different data models: an in-memory
// hierarchical document store, a flat key tree on BadgerDB, and a
// document store on Pebble.
package repositories

import (
	"context"
	"log/slog"
	"sync"

	"chatstream/contract"
	"chatstream/domain"
)

const watchBuffer = 256

// notifier delivers change notifications for embedded stores, which have
// no listener primitive of their own. Watches match on path equality: a
// collection watch receives its children's changes, a document watch the
// document's own.
type notifier struct {
	mu      sync.RWMutex
	log     *slog.Logger
	watches map[*watch]struct{}
}

type watch struct {
	path   domain.Path
	ch     chan contract.Change
	closed bool
}

func newNotifier(log *slog.Logger) *notifier {
	return &notifier{log: log, watches: make(map[*watch]struct{})}
}

func (n *notifier) subscribe(ctx context.Context, path domain.Path) (<-chan contract.Change, func()) {
	w := &watch{path: path, ch: make(chan contract.Change, watchBuffer)}

	n.mu.Lock()
	n.watches[w] = struct{}{}
	n.mu.Unlock()

	cancel := func() { n.drop(w) }
	if ctx != nil && ctx.Done() != nil {
		go func() {
			<-ctx.Done()
			n.drop(w)
		}()
	}
	return w.ch, cancel
}

func (n *notifier) drop(w *watch) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	delete(n.watches, w)
	close(w.ch)
}

// record publishes one change about the record at docPath, both to
// watchers of the record itself and to watchers of its parent collection.
func (n *notifier) record(docPath domain.Path, kind contract.ChangeKind, fields map[string]any) {
	id := docPath.Last()
	n.publish(contract.Change{Path: docPath, Kind: kind, ID: id, Fields: fields})
	if docPath.Size() > 1 {
		n.publish(contract.Change{Path: docPath.Parent(), Kind: kind, ID: id, Fields: fields})
	}
}

func (n *notifier) publish(change contract.Change) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for w := range n.watches {
		if !w.path.Equal(change.Path) {
			continue
		}
		select {
		case w.ch <- change:
		default:
			n.log.Warn("dropping change notification", "path", change.Path.String())
		}
	}
}

// fail reports a terminal stream error to every watcher and closes them.
func (n *notifier) fail(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for w := range n.watches {
		if w.closed {
			continue
		}
		if err != nil {
			select {
			case w.ch <- contract.Change{Path: w.path, Err: err}:
			default:
			}
		}
		w.closed = true
		delete(n.watches, w)
		close(w.ch)
	}
}
