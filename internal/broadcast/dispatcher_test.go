package broadcast

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type flakyTransport struct {
	failOn    map[string]bool
	published []Message
}

func (t *flakyTransport) Publish(_ context.Context, channel string, msg Message) error {
	if t.failOn[channel] {
		return errors.New("publish_failed")
	}
	t.published = append(t.published, msg)
	return nil
}

func newTestDispatcher(transport Transport) *Dispatcher {
	return NewDispatcher(DispatcherParams{
		Transport: transport,
		Log:       zap.NewNop(),
	})
}

func TestDispatchFansOutToAllChannels(t *testing.T) {
	transport := &flakyTransport{}
	d := newTestDispatcher(transport)

	channels := []string{"customer.7", "admin.bookings", "admin.dashboard"}
	d.Dispatch(context.Background(), "booking.status.updated", channels, map[string]any{"booking_id": int64(42)})

	require.Len(t, transport.published, 3)
	for i, msg := range transport.published {
		assert.Equal(t, "booking.status.updated", msg.Event)
		assert.Equal(t, channels[i], msg.Channel)
	}
}

func TestDispatchAddsTimestamp(t *testing.T) {
	transport := &flakyTransport{}
	d := newTestDispatcher(transport)

	payload := map[string]any{"booking_id": int64(42)}
	d.Dispatch(context.Background(), "booking.status.updated", []string{"customer.7"}, payload)

	require.Len(t, transport.published, 1)
	assert.NotEmpty(t, transport.published[0].Data["timestamp"])
}

func TestDispatchContinuesPastFailedChannel(t *testing.T) {
	transport := &flakyTransport{failOn: map[string]bool{"admin.bookings": true}}
	d := newTestDispatcher(transport)

	d.Dispatch(context.Background(), "booking.status.updated",
		[]string{"customer.7", "admin.bookings", "admin.dashboard"},
		map[string]any{},
	)

	require.Len(t, transport.published, 2)
	assert.Equal(t, "customer.7", transport.published[0].Channel)
	assert.Equal(t, "admin.dashboard", transport.published[1].Channel)
}

func TestDispatchNilDispatcherIsNoOp(t *testing.T) {
	var d *Dispatcher
	d.Dispatch(context.Background(), "booking.status.updated", []string{"customer.7"}, map[string]any{})
}
