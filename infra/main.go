package infra

import (
	"context"

	"github.com/edushelf/edushelf-catalog/config"
	"github.com/edushelf/edushelf-catalog/infra/produce"
)

type Infra struct {
	Postgres  *PostgresClient
	Redis     *RedisClient
	RabbitMQ  *RabbitMQClient
	Minio     *MinioClient
	Logger    *LoggerClient
	Telemetry *Telemetry
	Produce   *produce.Produce
}

var infraInstance *Infra

func InitInfra(cfg *config.Config) *Infra {
	if infraInstance != nil {
		return infraInstance
	}

	telemetry, err := InitTelemetry(context.Background(), cfg.EnvConfig)
	if err != nil {
		panic("Failed to initialize telemetry: " + err.Error())
	}

	logger := InitLoggerClient(cfg.EnvConfig)
	if logger == nil {
		panic("Failed to initialize Logger service")
	}

	postgres := InitPostgresClient(cfg.EnvConfig)
	if postgres == nil {
		panic("Failed to initialize Postgres service")
	}

	redis := InitRedisClient(cfg.EnvConfig)
	if redis == nil {
		panic("Failed to initialize Redis service")
	}

	rabbitMQ := InitRabbitMQClient(cfg.EnvConfig)
	if rabbitMQ == nil {
		panic("Failed to initialize RabbitMQ service")
	}

	minio := InitMinioClient(cfg.EnvConfig)
	if minio == nil {
		panic("Failed to initialize MinIO service")
	}

	if err := minio.EnsureBucket(context.Background()); err != nil {
		panic("Failed to ensure library bucket: " + err.Error())
	}

	produceService := produce.InitProduce(rabbitMQ.Channel)
	if produceService == nil {
		panic("Failed to initialize Produce service")
	}

	infraInstance = &Infra{
		Postgres:  postgres,
		Redis:     redis,
		RabbitMQ:  rabbitMQ,
		Minio:     minio,
		Logger:    logger,
		Telemetry: telemetry,
		Produce:   produceService,
	}

	return infraInstance
}

func GetClient() *Infra {
	if infraInstance == nil {
		panic("Infra not initialized. Call InitInfra() first.")
	}
	return infraInstance
}
