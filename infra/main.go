package infra

import (
	"github.com/aperturelog/aperture/config"
)

// Infra aggregates the external clients the service depends on. Clients are
// constructed once at startup and passed down explicitly; there is no
// package-level singleton to reach for.
type Infra struct {
	Postgres *PostgresClient
	Redis    *RedisClient
	Minio    *MinioClient
	Logger   *LoggerClient
	Geocoder *Geocoder
}

func InitInfra(cfg *config.Config) *Infra {
	logger := InitLoggerClient(cfg.EnvConfig)
	if logger == nil {
		panic("Failed to initialize logger")
	}

	postgres := InitPostgresClient(cfg.EnvConfig)
	if postgres == nil {
		panic("Failed to initialize Postgres client")
	}

	redis := InitRedisClient(cfg.EnvConfig)
	if redis == nil {
		panic("Failed to initialize Redis client")
	}

	minio := InitMinioClient(cfg.EnvConfig)
	if minio == nil {
		panic("Failed to initialize MinIO client")
	}

	geocoder := InitGeocoder(cfg.EnvConfig)

	return &Infra{
		Postgres: postgres,
		Redis:    redis,
		Minio:    minio,
		Logger:   logger,
		Geocoder: geocoder,
	}
}

// Close releases every client that holds a connection. Called on shutdown by
// the hosting process.
func (i *Infra) Close() {
	if i.Redis != nil {
		_ = i.Redis.Client.Close()
	}
	if i.Postgres != nil {
		if sqlDB, err := i.Postgres.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if i.Logger != nil {
		i.Logger.Sync()
	}
}
