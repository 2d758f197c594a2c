package messaging

import (
	"errors"
	"fmt"

	"github.com/Shopify/sarama"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

const (
	TransportGoChannel = "gochannel"
	TransportRedis     = "redis"
	TransportKafka     = "kafka"
)

var ErrUnknownTransport = errors.New("unknown event transport")

// Options escolhe e configura o transporte dos eventos de domínio.
type Options struct {
	Transport string

	RedisClient        redis.UniversalClient
	RedisConsumerGroup string
	RedisConsumer      string

	KafkaBrokers       []string
	KafkaConsumerGroup string
}

// PubSub agrupa publisher e subscriber de um mesmo transporte.
type PubSub struct {
	Publisher  message.Publisher
	Subscriber message.Subscriber
	closers    []func() error
}

func (p *PubSub) Close() error {
	var errs []error
	for _, closeFn := range p.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func NewPubSub(opts Options, logger watermill.LoggerAdapter) (*PubSub, error) {
	switch opts.Transport {
	case TransportGoChannel, "":
		pubSub := gochannel.NewGoChannel(gochannel.Config{}, logger)
		return &PubSub{Publisher: pubSub, Subscriber: pubSub, closers: []func() error{pubSub.Close}}, nil
	case TransportRedis:
		return newRedisPubSub(opts, logger)
	case TransportKafka:
		return newKafkaPubSub(opts, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransport, opts.Transport)
	}
}

func newRedisPubSub(opts Options, logger watermill.LoggerAdapter) (*PubSub, error) {
	if opts.RedisClient == nil {
		return nil, errors.New("redis transport requires a redis client")
	}

	publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client: opts.RedisClient,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create redis publisher: %w", err)
	}

	subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
		Client:        opts.RedisClient,
		ConsumerGroup: opts.RedisConsumerGroup,
		Consumer:      opts.RedisConsumer,
	}, logger)
	if err != nil {
		_ = publisher.Close()
		return nil, fmt.Errorf("create redis subscriber: %w", err)
	}

	return &PubSub{
		Publisher:  publisher,
		Subscriber: subscriber,
		closers:    []func() error{subscriber.Close, publisher.Close},
	}, nil
}

func newKafkaPubSub(opts Options, logger watermill.LoggerAdapter) (*PubSub, error) {
	if len(opts.KafkaBrokers) == 0 {
		return nil, errors.New("kafka transport requires at least one broker")
	}

	marshaler := kafka.DefaultMarshaler{}

	publisher, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   opts.KafkaBrokers,
		Marshaler: marshaler,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create kafka publisher: %w", err)
	}

	saramaConfig := kafka.DefaultSaramaSubscriberConfig()
	saramaConfig.Version = sarama.V1_0_0_0
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	saramaConfig.Consumer.Return.Errors = true

	subscriber, err := kafka.NewSubscriber(kafka.SubscriberConfig{
		Brokers:               opts.KafkaBrokers,
		Unmarshaler:           marshaler,
		ConsumerGroup:         opts.KafkaConsumerGroup,
		OverwriteSaramaConfig: saramaConfig,
		InitializeTopicDetails: &sarama.TopicDetail{
			NumPartitions:     1,
			ReplicationFactor: 1,
		},
	}, logger)
	if err != nil {
		_ = publisher.Close()
		return nil, fmt.Errorf("create kafka subscriber: %w", err)
	}

	return &PubSub{
		Publisher:  publisher,
		Subscriber: subscriber,
		closers:    []func() error{subscriber.Close, publisher.Close},
	}, nil
}
