package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chamasoft/notify-engine/internal/domain/notification"
	kafkaRepo "github.com/chamasoft/notify-engine/internal/repository/kafka"
)

// Manual event injector for smoke-testing the dispatcher end to end.
func main() {
	var (
		brokers  = flag.String("brokers", "localhost:9094", "comma-separated kafka brokers")
		topic    = flag.String("topic", "chama.notifications.dispatch", "dispatch topic")
		userID   = flag.String("user", "", "recipient user id")
		title    = flag.String("title", "Test Notification", "notification title")
		message  = flag.String("message", "Hello from notify-publisher.", "notification body")
		typ      = flag.String("type", "general", "notification type")
		channels = flag.String("channels", "email,in_app", "comma-separated channels")
		groupID  = flag.String("group", "", "optional group id")
	)
	flag.Parse()

	if *userID == "" {
		log.Fatal("-user is required")
	}

	nt, err := notification.ParseType(*typ)
	if err != nil {
		log.Fatalf("parse type: %v", err)
	}
	var chs []notification.Channel
	for _, s := range strings.Split(*channels, ",") {
		c, err := notification.ParseChannel(strings.TrimSpace(s))
		if err != nil {
			log.Fatalf("parse channel: %v", err)
		}
		chs = append(chs, c)
	}

	ev := &notification.Event{
		UserID:   *userID,
		Title:    *title,
		Message:  *message,
		Type:     nt,
		Channels: chs,
		GroupID:  *groupID,
		Metadata: map[string]any{"eventId": uuid.NewString(), "source": "notify-publisher"},
	}
	if err := ev.Validate(); err != nil {
		log.Fatalf("invalid event: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	prod := kafkaRepo.NewProducer(strings.Split(*brokers, ","), *topic)
	defer func() { _ = prod.Close() }()

	pub := kafkaRepo.NewNotificationEventsKafka(prod)
	if err := pub.PublishDispatchRequested(ctx, ev); err != nil {
		log.Fatalf("publish: %v", err)
	}
	log.Printf("published %s event for user %s", nt, *userID)
}
