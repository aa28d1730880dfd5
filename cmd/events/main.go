// Command events tails the survey domain events published on NATS.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"field-survey-bot/internal/config"
	"field-survey-bot/pkg/events"
	pktNats "field-survey-bot/pkg/nats"

	"github.com/fatih/color"
)

func main() {
	eventType := flag.String("type", ">", "event type to follow (SURVEY_REPORTED, SURVEY_ABORTED, > for all)")
	durable := flag.String("durable", "survey-events-tail", "durable consumer name")
	flag.Parse()

	cfg := config.Load()
	if cfg.App.NatsURL == "" {
		log.Fatal("NATS_URL is not set")
	}

	sub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Fatalf("NATS: %v", err)
	}
	defer sub.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = sub.Subscribe(ctx, *eventType, *durable, func(_ context.Context, e events.Event) error {
		raw, _ := json.Marshal(e.Payload())
		switch e.EventType() {
		case events.SurveyReported:
			color.Green("%s %s %s", e.Timestamp().Format("15:04:05"), e.EventType(), raw)
		case events.SurveyAborted:
			color.Yellow("%s %s %s", e.Timestamp().Format("15:04:05"), e.EventType(), raw)
		default:
			color.White("%s %s %s", e.Timestamp().Format("15:04:05"), e.EventType(), raw)
		}
		return nil
	})
	if err != nil {
		log.Fatalf("subscribe: %v", err)
	}

	<-ctx.Done()
}
