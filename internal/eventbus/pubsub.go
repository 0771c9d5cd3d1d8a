// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package eventbus

import (
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/wayfarer/internal/config"
	"github.com/tomtom215/wayfarer/internal/logging"
)

// PubSub is a connected publisher and subscriber pair for one backend.
type PubSub struct {
	Publisher  message.Publisher
	Subscriber message.Subscriber
	Backend    string

	closers []func() error
}

// NewLogger adapts the process logger for Watermill.
func NewLogger() watermill.LoggerAdapter {
	return watermill.NewSlogLogger(logging.NewSlogLogger())
}

// NewPubSub connects to the backend selected by cfg.Type. For "nats",
// natsURL overrides cfg.NATS.URL when non-empty (the embedded server's URL).
func NewPubSub(cfg config.BrokerConfig, natsURL string, logger watermill.LoggerAdapter) (*PubSub, error) {
	if logger == nil {
		logger = NewLogger()
	}

	switch cfg.Type {
	case config.BrokerMemory, "":
		return NewMemoryPubSub(logger), nil
	case config.BrokerNATS:
		if natsURL == "" {
			natsURL = cfg.NATS.URL
		}
		return NewNATSPubSub(natsURL, cfg.NATS, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBroker, cfg.Type)
	}
}

// NewMemoryPubSub returns an in-process gochannel pub/sub. Events never leave
// the process.
func NewMemoryPubSub(logger watermill.LoggerAdapter) *PubSub {
	ch := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer:            256,
		Persistent:                     false,
		BlockPublishUntilSubscriberAck: false,
	}, logger)

	return &PubSub{
		Publisher:  ch,
		Subscriber: ch,
		Backend:    config.BrokerMemory,
		closers:    []func() error{ch.Close},
	}
}

// NewNATSPubSub connects a core NATS publisher and subscriber.
//
// JetStream is disabled and the subscriber joins no queue group: every
// instance receives every event, and an instance that is down misses them.
func NewNATSPubSub(url string, cfg config.NATSConfig, logger watermill.LoggerAdapter) (*PubSub, error) {
	natsOpts := []natsgo.Option{
		natsgo.Name("wayfarer"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.DisconnectErrHandler(func(nc *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{
				"url": nc.ConnectedUrl(),
			})
		}),
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create NATS publisher: %w", err)
	}

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              url,
		QueueGroupPrefix: "",
		SubscribersCount: 1,
		AckWaitTimeout:   5 * time.Second,
		CloseTimeout:     5 * time.Second,
		NatsOptions:      natsOpts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream:        wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		_ = pub.Close()
		return nil, fmt.Errorf("create NATS subscriber: %w", err)
	}

	logger.Info("Connected to NATS", watermill.LogFields{"url": url})

	return &PubSub{
		Publisher:  pub,
		Subscriber: sub,
		Backend:    config.BrokerNATS,
		closers:    []func() error{sub.Close, pub.Close},
	}, nil
}

// Close closes the subscriber and publisher.
func (p *PubSub) Close() error {
	var errs []error
	for _, closeFn := range p.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	p.closers = nil
	return errors.Join(errs...)
}
