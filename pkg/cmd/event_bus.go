package cmd

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/mkravets/pathway/pkg/channels/gochannel"
	"github.com/mkravets/pathway/pkg/channels/kafka"
	"github.com/mkravets/pathway/pkg/eventbus"
)

// NewEventBus creates the launch event bus for the given provider.
// Kafka requires KAFKA_BROKERS; anything else gets the in-memory
// channel.
func NewEventBus(provider string, logger *slog.Logger) eventbus.EventBus {
	wmLogger := watermill.NewSlogLogger(logger)

	switch provider {
	case "kafka":
		pub, sub, err := kafka.CreateChannel(wmLogger, "pathway")
		if err != nil {
			panic(fmt.Errorf("failed to create Kafka pub/sub: %w", err))
		}

		return eventbus.NewWatermillEventBus(pub, sub)
	default:
		pub, sub, err := gochannel.CreateChannel(wmLogger)
		if err != nil {
			panic(fmt.Errorf("failed to create in-memory pub/sub: %w", err))
		}

		return eventbus.NewWatermillEventBus(pub, sub)
	}
}
