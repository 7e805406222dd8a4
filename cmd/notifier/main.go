package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"storefront-backend/configs"
	"storefront-backend/internal/services"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/messaging"

	"go.uber.org/zap"
)

// notifier consumes submitted orders from kafka and hands each one to staff.
func main() {
	config := configs.LoadConfig()

	zlog, err := logger.New(config.Server.Mode)
	if err != nil {
		log.Fatal("Failed to initialise logger:", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := messaging.NewKafkaConsumer(config.Kafka.Brokers, config.Kafka.GroupID, zlog)
	defer consumer.Close()

	notifications := services.NewOrderNotificationService(services.NewLogSink(zlog), zlog)

	zlog.Info("order notifier started",
		zap.Strings("brokers", config.Kafka.Brokers),
		zap.String("topic", config.Kafka.OrderTopic),
		zap.String("group_id", config.Kafka.GroupID))

	consumer.ConsumeMessages(ctx, config.Kafka.OrderTopic, notifications.HandleMessage)

	zlog.Info("order notifier stopped")
}
