package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/voyagehub/booking-backend/internal/config"
	"github.com/voyagehub/booking-backend/internal/database"
	"github.com/voyagehub/booking-backend/internal/notify"
	"github.com/voyagehub/booking-backend/internal/services"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting VoyageHub notification worker")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	if !cfg.Kafka.Enabled {
		logger.Fatal("Kafka is disabled, the worker has nothing to consume")
	}

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	store := database.NewStore(db)
	notificationService := services.NewNotificationService(store, nil, logger)
	sender := notify.NewLogSender(logger)

	consumer := notify.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.ConsumerGroup, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit
		logger.Infof("Received signal %v, shutting down", s)
		cancel()
	}()

	err = consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
		var event notify.BookingEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.WithError(err).Warn("Skipping undecodable booking event")
			return nil
		}

		providerMessageID, sendErr := sender.Send(ctx, event)
		if sendErr != nil {
			logger.WithFields(logrus.Fields{
				"notification_id": event.NotificationID,
				"error":           sendErr.Error(),
			}).Warn("Notification delivery failed")

			if err := notificationService.MarkFailed(event.NotificationID); err != nil {
				logger.WithError(err).Warn("Failed to mark notification as failed")
			}
			return nil
		}

		if err := notificationService.MarkDelivered(event.NotificationID, &providerMessageID); err != nil {
			logger.WithFields(logrus.Fields{
				"notification_id": event.NotificationID,
				"error":           err.Error(),
			}).Warn("Failed to mark notification as delivered")
		}
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Errorf("Consumer stopped: %v", err)
	}

	logger.Info("Worker exited")
}
