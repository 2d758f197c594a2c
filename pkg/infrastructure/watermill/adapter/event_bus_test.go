package adapter

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateusmacedo/go-railway/pkg/application"
	"github.com/mateusmacedo/go-railway/pkg/domain"
	zapAdapter "github.com/mateusmacedo/go-railway/pkg/infrastructure/zaplogger/adapter"
)

type seatsMoved struct {
	TrainID string `json:"trainId"`
	Seats   int    `json:"seats"`
}

type seatsEvent = domain.Event[seatsMoved]

func newTestBus(t *testing.T) (*WatermillEventBus[seatsEvent, seatsMoved], *gochannel.GoChannel) {
	t.Helper()
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	bus := NewWatermillEventBus[seatsEvent, seatsMoved](pubSub, pubSub, zapAdapter.NewNopAppLogger())
	t.Cleanup(func() {
		_ = bus.Close()
		_ = pubSub.Close()
	})
	return bus, pubSub
}

func TestWatermillEventBus_DeliversPayloadAndRequestID(t *testing.T) {
	bus, _ := newTestBus(t)

	type delivery struct {
		event     seatsEvent
		requestID string
	}
	received := make(chan delivery, 1)
	require.NoError(t, bus.RegisterHandler("SeatsReserved", application.EventHandlerFunc[seatsEvent, seatsMoved](
		func(ctx context.Context, event seatsEvent) error {
			received <- delivery{event: event, requestID: middleware.GetReqID(ctx)}
			return nil
		},
	)))

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-7")
	require.NoError(t, bus.Publish(ctx, domain.NewEvent("SeatsReserved", seatsMoved{TrainID: "t-1", Seats: 2})))

	select {
	case got := <-received:
		assert.Equal(t, "SeatsReserved", got.event.EventName())
		assert.Equal(t, seatsMoved{TrainID: "t-1", Seats: 2}, got.event.Payload())
		assert.Equal(t, "req-7", got.requestID)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestWatermillEventBus_FansOutToEveryHandler(t *testing.T) {
	bus, _ := newTestBus(t)

	var calls atomic.Int32
	handler := application.EventHandlerFunc[seatsEvent, seatsMoved](func(context.Context, seatsEvent) error {
		calls.Add(1)
		return nil
	})
	require.NoError(t, bus.RegisterHandler("SeatsReleased", handler))
	require.NoError(t, bus.RegisterHandler("SeatsReleased", handler))

	require.NoError(t, bus.Publish(context.Background(), domain.NewEvent("SeatsReleased", seatsMoved{TrainID: "t-2", Seats: 1})))

	assert.Eventually(t, func() bool { return calls.Load() == 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatermillEventBus_DropsMalformedPayload(t *testing.T) {
	bus, pubSub := newTestBus(t)

	var calls atomic.Int32
	require.NoError(t, bus.RegisterHandler("SeatsReserved", application.EventHandlerFunc[seatsEvent, seatsMoved](
		func(context.Context, seatsEvent) error {
			calls.Add(1)
			return nil
		},
	)))

	require.NoError(t, pubSub.Publish("SeatsReserved", message.NewMessage(watermill.NewUUID(), []byte("not json"))))
	require.NoError(t, bus.Publish(context.Background(), domain.NewEvent("SeatsReserved", seatsMoved{TrainID: "t-3", Seats: 1})))

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
}

type failingPublisher struct{}

func (failingPublisher) Publish(string, ...*message.Message) error { return errors.New("broker down") }
func (failingPublisher) Close() error                              { return nil }

func TestWatermillEventBus_PublishSurfacesTransportError(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()
	bus := NewWatermillEventBus[seatsEvent, seatsMoved](failingPublisher{}, pubSub, zapAdapter.NewNopAppLogger())
	defer bus.Close()

	err := bus.Publish(context.Background(), domain.NewEvent("SeatsReserved", seatsMoved{}))
	require.EqualError(t, err, "broker down")
}
