package config

import (
	"database/sql"

	"github.com/go-chi/chi/v5"
	"github.com/minio/minio-go/v7"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type (
	Bootstrap struct {
		Router         *chi.Mux
		Postgres       *sql.DB
		MongoDB        *mongo.Database
		Redis          *redis.Client
		RabbitMQ       *amqp.Connection
		Minio          *minio.Client
		Logger         *logrus.Logger
		ZapLogger      *zap.Logger
		DriverConfig   *DriverConfig
		InternalConfig *InternalConfig
	}

	InternalConfig struct {
		App        App
		Settlement Settlement
		Upstream   Upstream
	}

	DriverConfig struct {
		Postgres PostgresDB
		MongoDB  MongoDB
		Redis    Redis
		RabbitMQ RabbitMQ
		Minio    Minio
		Logger   Logger
	}

	App struct {
		Env                        string
		Port                       string
		Version                    string
		Address                    string
		Timezone                   string
		EndpointPrefix             string
		APIKey                     string
		MaxRequests                int
		ShutdownTimeout            int
		MaxTimeRequestsPerSeconds  int
		RequestBodyLimitInMegabyte int
	}

	Settlement struct {
		LockTTLInSeconds         int
		EmptyTimelineIsCessation bool
		ReceiptMaxBatch          int
		WorkerIntervalInSeconds  int
		QueuePrefetch            int
		ArchiveBucketName        string
	}

	Upstream struct {
		TimelineBaseUrl string
		WorkflowBaseUrl string
	}

	PostgresDB struct {
		Port     string
		Host     string
		DbName   string
		Username string
		Password string
		SSLMode  string
	}
	MongoDB struct {
		Port     string
		Host     string
		DbName   string
		Username string
		Password string
	}
	Redis struct {
		Host     string
		Port     string
		Password string
	}
	RabbitMQ struct {
		Port     string
		Host     string
		Username string
		Password string
	}
	Minio struct {
		Port       string
		Host       string
		Username   string
		Password   string
		BucketName string
	}
	Logger struct {
		Level               string
		OutputFileName      string
		OutputErrorFileName string
	}
)
