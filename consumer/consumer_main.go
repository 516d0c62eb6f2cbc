package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/edushelf/edushelf-catalog/config"
	"github.com/edushelf/edushelf-catalog/consumer/worker"
	infraPkg "github.com/edushelf/edushelf-catalog/infra"
	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load("../.env")
	if err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg := config.NewConfig()
	infra := infraPkg.InitInfra(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer infra.Telemetry.Shutdown(context.Background())

	cleanupConsumer := worker.NewCleanupConsumer(infra.RabbitMQ.Channel, infra)
	if err := cleanupConsumer.Start(ctx); err != nil {
		infra.Logger.ErrorWithContextf(ctx, err, "Failed to start cleanup consumer: %v", err)
		log.Fatalf("Failed to start cleanup consumer: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	infra.Logger.InfoWithContextf(ctx, "Shutting down consumer...")
	cancel()

	infra.Logger.InfoWithContextf(ctx, "Consumer exited properly")
}
