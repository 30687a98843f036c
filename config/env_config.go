package config

import (
	"os"
	"strconv"
)

type EnvConfig struct {
	Postgres struct {
		Host     string
		Port     string
		Database string
		Username string
		Password string
		SSLMode  string
	}
	Redis struct {
		Host     string
		Port     string
		Password string
		Database int
	}
	Minio struct {
		Endpoint  string
		AccessKey string
		SecretKey string
		Bucket    string
		UseSSL    bool
		// Public base URL the bucket is served from (CDN or gateway).
		// Object keys are appended to it to form the stored photo URL.
		PublicURL string
	}
	JWT struct {
		SecretKey string
		Expire    int // seconds
	}
	Upload struct {
		SizeLimit     int64 // bytes
		URLExpiry     int   // seconds
		DefaultFolder string
	}
	Mapbox struct {
		Token   string
		BaseURL string
	}
	CORS struct {
		AllowDomains string
	}
	Environment struct {
		Mode string
	}
	Server struct {
		Port string
	}
}

func LoadEnvConfig() *EnvConfig {
	var config EnvConfig

	// Postgres
	config.Postgres.Host = getEnv("POSTGRES_HOST", "localhost")
	config.Postgres.Port = getEnv("POSTGRES_PORT", "5432")
	config.Postgres.Database = getEnv("POSTGRES_DB", "aperture")
	config.Postgres.Username = getEnv("POSTGRES_USER", "aperture")
	config.Postgres.Password = os.Getenv("POSTGRES_PASSWORD")
	config.Postgres.SSLMode = getEnv("POSTGRES_SSLMODE", "disable")

	// Redis
	config.Redis.Host = getEnv("REDIS_HOST", "localhost")
	config.Redis.Port = getEnv("REDIS_PORT", "6379")
	config.Redis.Password = os.Getenv("REDIS_PASSWORD")
	config.Redis.Database, _ = strconv.Atoi(os.Getenv("REDIS_DB"))

	// MinIO / object storage
	config.Minio.Endpoint = os.Getenv("MINIO_ENDPOINT")
	config.Minio.AccessKey = os.Getenv("MINIO_ACCESS_KEY")
	config.Minio.SecretKey = os.Getenv("MINIO_SECRET_KEY")
	config.Minio.Bucket = getEnv("MINIO_BUCKET", "photos")
	config.Minio.UseSSL = os.Getenv("MINIO_USE_SSL") == "true"
	config.Minio.PublicURL = os.Getenv("STORAGE_PUBLIC_URL")

	// JWT
	config.JWT.SecretKey = os.Getenv("JWT_SECRET_KEY")
	config.JWT.Expire = getEnvInt("JWT_EXPIRE", 3600*24*7)

	// Upload pipeline
	config.Upload.SizeLimit = int64(getEnvInt("UPLOAD_SIZE_LIMIT", 20*1024*1024))
	config.Upload.URLExpiry = getEnvInt("UPLOAD_URL_EXPIRY", 3600)
	config.Upload.DefaultFolder = getEnv("UPLOAD_DEFAULT_FOLDER", "photos")

	// Mapbox reverse geocoding
	config.Mapbox.Token = os.Getenv("MAPBOX_ACCESS_TOKEN")
	config.Mapbox.BaseURL = getEnv("MAPBOX_BASE_URL", "https://api.mapbox.com")

	config.CORS.AllowDomains = os.Getenv("ALLOWED_DOMAINS")

	config.Environment.Mode = getEnv("DEPLOY_ENV", "development")
	config.Server.Port = getEnv("PORT", "8080")

	return &config
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}
