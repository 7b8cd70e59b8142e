package event

import (
	"context"
	"testing"

	"github.com/nsgarcia11/bathroom-estimator/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

// mockHandler implements EventHandler for testing
type mockHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
}

func newMockHandler(eventTypes ...string) *mockHandler {
	return &mockHandler{
		eventTypes: eventTypes,
		handled:    make([]shared.DomainEvent, 0),
	}
}

func (h *mockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.handled = append(h.handled, event)
	return nil
}

func (h *mockHandler) EventTypes() []string {
	return h.eventTypes
}

func TestHandlerRegistry_Register_SpecificTypes(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newMockHandler("ProjectCreated", "ScreenSaved")

	registry.Register(handler, "ProjectCreated", "ScreenSaved")

	handlers := registry.GetHandlers("ProjectCreated")
	assert.Len(t, handlers, 1)
	assert.Equal(t, handler, handlers[0])

	handlers = registry.GetHandlers("ScreenSaved")
	assert.Len(t, handlers, 1)
	assert.Equal(t, handler, handlers[0])

	handlers = registry.GetHandlers("ProjectDeleted")
	assert.Len(t, handlers, 0)
}

func TestHandlerRegistry_Register_Wildcard(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newMockHandler() // No event types = wildcard

	registry.Register(handler)

	handlers := registry.GetHandlers("ProjectCreated")
	assert.Len(t, handlers, 1)
	assert.Equal(t, handler, handlers[0])

	handlers = registry.GetHandlers("AnyEventType")
	assert.Len(t, handlers, 1)
	assert.Equal(t, handler, handlers[0])
}

func TestHandlerRegistry_Register_MixedTypes(t *testing.T) {
	registry := NewHandlerRegistry()
	specificHandler := newMockHandler("ProjectCreated")
	wildcardHandler := newMockHandler()

	registry.Register(specificHandler, "ProjectCreated")
	registry.Register(wildcardHandler)

	handlers := registry.GetHandlers("ProjectCreated")
	assert.Len(t, handlers, 2)

	handlers = registry.GetHandlers("OtherEvent")
	assert.Len(t, handlers, 1)
	assert.Equal(t, wildcardHandler, handlers[0])
}

func TestHandlerRegistry_Unregister_SpecificHandler(t *testing.T) {
	registry := NewHandlerRegistry()
	handler1 := newMockHandler("ProjectCreated")
	handler2 := newMockHandler("ProjectCreated")

	registry.Register(handler1, "ProjectCreated")
	registry.Register(handler2, "ProjectCreated")

	handlers := registry.GetHandlers("ProjectCreated")
	assert.Len(t, handlers, 2)

	registry.Unregister(handler1)

	handlers = registry.GetHandlers("ProjectCreated")
	assert.Len(t, handlers, 1)
	assert.Equal(t, handler2, handlers[0])
}

func TestHandlerRegistry_Unregister_WildcardHandler(t *testing.T) {
	registry := NewHandlerRegistry()
	wildcardHandler := newMockHandler()

	registry.Register(wildcardHandler)

	handlers := registry.GetHandlers("AnyEvent")
	assert.Len(t, handlers, 1)

	registry.Unregister(wildcardHandler)

	handlers = registry.GetHandlers("AnyEvent")
	assert.Len(t, handlers, 0)
}

func TestHandlerRegistry_HandlerCount(t *testing.T) {
	registry := NewHandlerRegistry()
	assert.Equal(t, 0, registry.HandlerCount())

	multi := newMockHandler("ProjectCreated", "ScreenSaved")
	registry.Register(multi, "ProjectCreated", "ScreenSaved")
	registry.Register(newMockHandler("UserCreated"), "UserCreated")
	registry.Register(newMockHandler())

	assert.Equal(t, 3, registry.HandlerCount())

	registry.Unregister(multi)
	assert.Equal(t, 2, registry.HandlerCount())
}

func TestHandlerRegistry_Register_SameHandlerTwice(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newMockHandler("ProjectCreated")

	registry.Register(handler, "ProjectCreated")
	registry.Register(handler, "ProjectCreated")
	registry.Register(handler)

	handlers := registry.GetHandlers("ProjectCreated")
	assert.Len(t, handlers, 1)

	handlers = registry.GetHandlers("OtherEvent")
	assert.Len(t, handlers, 1)
}

func TestHandlerRegistry_GetHandlers_ReturnsCopy(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newMockHandler("ProjectCreated")
	registry.Register(handler, "ProjectCreated")

	handlers := registry.GetHandlers("ProjectCreated")
	handlers[0] = newMockHandler("ProjectCreated")

	assert.Equal(t, handler, registry.GetHandlers("ProjectCreated")[0])
}
