package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"clinical-synth-be/internal/config"
	"clinical-synth-be/pkg/events"
	pktNats "clinical-synth-be/pkg/nats"

	"github.com/fatih/color"
)

// Tails the record event stream off NATS. Useful for watching chat-driven
// record changes land while testing against a running instance.
func main() {
	cfg := config.Load()

	sub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Fatalf("Error: Failed to connect to NATS: %v", err)
	}
	defer sub.Close()

	handler := func(ctx context.Context, event events.Event) error {
		data := event.Payload()
		switch {
		case data["saved"] == false:
			color.Red("%s  %v", event.EventType(), data)
		default:
			color.Green("%s  %v", event.EventType(), data)
		}
		return nil
	}

	if err := sub.Subscribe("events.>", "events-tail", handler); err != nil {
		log.Fatalf("Error: Failed to subscribe: %v", err)
	}

	color.Cyan("Listening on events.> (%s). Ctrl+C to stop.", cfg.App.NatsURL)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
}
