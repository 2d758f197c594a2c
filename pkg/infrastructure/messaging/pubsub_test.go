package messaging

import (
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPubSub_GoChannelSharesOneInstance(t *testing.T) {
	pubSub, err := NewPubSub(Options{Transport: TransportGoChannel}, watermill.NopLogger{})
	require.NoError(t, err)

	assert.IsType(t, &gochannel.GoChannel{}, pubSub.Publisher)
	assert.Same(t, pubSub.Publisher, pubSub.Subscriber)
	assert.NoError(t, pubSub.Close())
}

func TestNewPubSub_RejectsMisconfiguredTransports(t *testing.T) {
	_, err := NewPubSub(Options{Transport: "carrier-pigeon"}, watermill.NopLogger{})
	assert.ErrorIs(t, err, ErrUnknownTransport)

	_, err = NewPubSub(Options{Transport: TransportRedis}, watermill.NopLogger{})
	assert.ErrorContains(t, err, "redis client")

	_, err = NewPubSub(Options{Transport: TransportKafka}, watermill.NopLogger{})
	assert.ErrorContains(t, err, "broker")
}
