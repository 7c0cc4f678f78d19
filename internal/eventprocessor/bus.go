// Reelrank - Collaborative Filtering Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package eventprocessor

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Bus is the in-process pub/sub shared by the publisher and consumers.
type Bus struct {
	channel *gochannel.GoChannel
}

// NewBus creates a non-persistent gochannel bus.
func NewBus(cfg Config, logger watermill.LoggerAdapter) *Bus {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	return &Bus{
		channel: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer:            cfg.BufferSize,
			Persistent:                     false,
			BlockPublishUntilSubscriberAck: false,
		}, logger),
	}
}

// Publisher returns the bus as a Watermill publisher.
func (b *Bus) Publisher() message.Publisher {
	return b.channel
}

// Subscriber returns the bus as a Watermill subscriber.
func (b *Bus) Subscriber() message.Subscriber {
	return b.channel
}

// Close closes all subscriptions.
func (b *Bus) Close() error {
	return b.channel.Close()
}
