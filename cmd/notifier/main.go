package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"gite/internal/notifier"
	"gite/pkg/config"
	"gite/pkg/kafka"
)

const ServiceName = "notifier"

func main() {
	cfg := config.Load(ServiceName)

	if !cfg.KafkaEnabled() {
		cfg.Log.Fatal("Notifier requires Kafka brokers", "env", config.EnvKafkaBrokers)
	}

	var mailer notifier.Mailer
	if cfg.MailEnabled() {
		mailer = notifier.NewMailjetMailer(cfg.MailjetPublicKey, cfg.MailjetPrivateKey, cfg.MailFrom, cfg.MailFromName)
	} else {
		cfg.Log.Warn("Mailjet not configured, notifications will only be logged")
		mailer = notifier.NewLogMailer(cfg.Log)
	}
	n := notifier.New(mailer, cfg.AdminNotifyEmail, cfg.MailFromName, cfg.Log)

	kafkaCfg, err := kafka.LoadConfig(cfg.KafkaBrokers)
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	consumer, err := kafka.NewConsumer(kafkaCfg, cfg.ReservationEventsTopic, cfg.NotifierGroupID, cfg.ReservationEventsDLQTopic, n.Handle, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	consumer.Use(kafka.LoggingConsumerMiddleware(cfg.Log))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Starting notifier", "topic", cfg.ReservationEventsTopic, "group_id", cfg.NotifierGroupID)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Consumer stopped", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}
	cfg.Log.Info("Notifier stopped")
}
