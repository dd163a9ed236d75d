package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusDeliversInOrder(t *testing.T) {
	bus := NewBus(nil)
	var got []string

	bus.On(NodeCreated, func(any) { got = append(got, "first") })
	bus.On(NodeCreated, func(any) { got = append(got, "second") })
	bus.On(NodeDeleted, func(any) { got = append(got, "other") })

	bus.Emit(NodeCreated, NodeCreatedPayload{})

	assert.Equal(t, []string{"first", "second"}, got)
}

func TestBusRecoversFromPanickingHandler(t *testing.T) {
	bus := NewBus(nil)
	called := false

	bus.On(NodeUpdated, func(any) { panic("boom") })
	bus.On(NodeUpdated, func(any) { called = true })

	require.NotPanics(t, func() { bus.Emit(NodeUpdated, NodeUpdatedPayload{}) })
	assert.True(t, called, "handler after the panicking one must still run")
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus(nil)
	count := 0

	off := bus.On(NodeDeleted, func(p any) {
		payload, ok := p.(NodeDeletedPayload)
		require.True(t, ok)
		assert.Equal(t, "n1", payload.NodeID)
		count++
	})

	bus.Emit(NodeDeleted, NodeDeletedPayload{NodeID: "n1"})
	off()
	off()
	bus.Emit(NodeDeleted, NodeDeletedPayload{NodeID: "n1"})

	assert.Equal(t, 1, count)
	assert.Empty(t, bus.Subscribed())
}

func TestBusNilHandlerIgnored(t *testing.T) {
	bus := NewBus(nil)
	off := bus.On(NodeCreated, nil)
	off()
	assert.NotPanics(t, func() { bus.Emit(NodeCreated, nil) })
}
