package store

import (
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	apperrors "github.com/b2p/b2p-admin/internal/errors"
	"github.com/b2p/b2p-admin/internal/logger"
)

// Status is the lifecycle of the last operation run against a container.
type Status int

const (
	Idle Status = iota
	Loading
	Succeeded
	Failed
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// State is a point-in-time copy of a container.
type State[T any] struct {
	Items  []T
	Status Status
	Error  string
}

// Container holds a list of entities and the status of the last operation.
//
// Every operation takes a ticket for its key ("fetch", "update:<id>", ...).
// A completion is applied only if no newer operation on the same key was
// started since, so a slow response can never overwrite a fresher one.
// Operations with an empty key, such as creates, are always applied.
type Container[T any] struct {
	mu     sync.Mutex
	state  State[T]
	seq    uint64
	issued map[string]uint64
	log    *log.Logger
}

func NewContainer[T any](name string) *Container[T] {
	return &Container[T]{
		issued: make(map[string]uint64),
		log:    logger.Named("store/" + name),
	}
}

// State returns a copy of the current state.
func (c *Container[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Items = slices.Clone(c.state.Items)
	return s
}

// Items returns a copy of the current items.
func (c *Container[T]) Items() []T {
	return c.State().Items
}

// Seed replaces the items without a round trip, e.g. from the local cache.
func (c *Container[T]) Seed(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Items = slices.Clone(items)
	if c.state.Status == Idle {
		c.state.Status = Succeeded
	}
}

// ClearError dismisses the last error without touching the items.
func (c *Container[T]) ClearError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Error = ""
}

func (c *Container[T]) begin(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	if key != "" {
		c.issued[key] = c.seq
	}
	c.state.Status = Loading
	c.state.Error = ""
	return c.seq
}

// finish applies the outcome of the operation holding ticket. On error the
// items are left as they are. It reports whether the outcome was applied.
func (c *Container[T]) finish(key string, ticket uint64, err error, fallback string, apply func([]T) []T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if key != "" && ticket < c.issued[key] {
		c.log.Debug("discarding stale completion", "key", key, "ticket", ticket, "latest", c.issued[key])
		return false
	}
	if err != nil {
		c.state.Status = Failed
		c.state.Error = apperrors.Message(err, fallback)
		c.log.Warn("operation failed", "key", key, "err", err)
		return true
	}
	if apply != nil {
		c.state.Items = apply(slices.Clone(c.state.Items))
	}
	c.state.Status = Succeeded
	return true
}

// replaceByID swaps the item whose id matches, leaving the rest in place.
func replaceByID[T any](items []T, id string, idOf func(T) string, v T) []T {
	for i := range items {
		if idOf(items[i]) == id {
			items[i] = v
			return items
		}
	}
	return items
}

func removeByID[T any](items []T, id string, idOf func(T) string) []T {
	return slices.DeleteFunc(items, func(v T) bool { return idOf(v) == id })
}
