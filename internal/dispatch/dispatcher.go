// Package dispatch routes field metadata tags to handlers registered per tag
// kind.
package dispatch

import (
	"sync"

	"github.com/goliatone/go-formdescriptor/pkg/schema"
)

// Handler processes one tag against the caller-supplied context.
type Handler[C any] func(ctx C, tag schema.Tag)

// Dispatcher holds at most one handler per tag kind. Tags whose kind has no
// handler are skipped, so model types may carry tags a given dispatcher does
// not understand.
type Dispatcher[C any] struct {
	mu       sync.RWMutex
	handlers map[schema.TagKind]Handler[C]
}

// New creates an empty dispatcher.
func New[C any]() *Dispatcher[C] {
	return &Dispatcher[C]{handlers: make(map[schema.TagKind]Handler[C])}
}

// Register installs h for kind, replacing any previous handler.
func (d *Dispatcher[C]) Register(kind schema.TagKind, h Handler[C]) {
	if d == nil || h == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[kind] = h
}

// On registers a handler typed on the tag payload T.
func On[C any, T schema.Tag](d *Dispatcher[C], h func(ctx C, tag T)) {
	if d == nil || h == nil {
		return
	}
	var zero T
	d.Register(zero.Kind(), func(ctx C, tag schema.Tag) {
		if typed, ok := tag.(T); ok {
			h(ctx, typed)
		}
	})
}

// Handles reports whether a handler is registered for kind.
func (d *Dispatcher[C]) Handles(kind schema.TagKind) bool {
	if d == nil {
		return false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.handlers[kind]
	return ok
}

// Dispatch invokes the handler of every tag once, in tag order, and returns
// how many tags were handled.
func (d *Dispatcher[C]) Dispatch(ctx C, tags []schema.Tag) int {
	if d == nil || len(tags) == 0 {
		return 0
	}
	d.mu.RLock()
	handlers := make([]Handler[C], len(tags))
	for i, tag := range tags {
		if tag == nil {
			continue
		}
		handlers[i] = d.handlers[tag.Kind()]
	}
	d.mu.RUnlock()

	handled := 0
	for i, h := range handlers {
		if h == nil {
			continue
		}
		h(ctx, tags[i])
		handled++
	}
	return handled
}
