package config

import (
	"os"
	"time"
)

// App captures process-level configuration. Collaborator endpoints come from
// the environment so main stays lean; defaults target local development.
type App struct {
	Addr          string
	DatabaseURL   string
	Redis         RedisConfig
	JWTSigningKey string

	// DevUserEmail/DevUserPassword seed the in-process auth provider when no
	// external provider is configured. Development only.
	DevUserEmail    string
	DevUserPassword string
}

// RedisConfig carries connection tuning for the shared redis client.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds the App config from environment variables.
func FromEnv() App {
	addr := os.Getenv("TESOURARIA_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default - must be overridden in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	devEmail := os.Getenv("DEV_USER_EMAIL")
	if devEmail == "" {
		devEmail = "tesoureiro@igreja.local"
	}
	devPassword := os.Getenv("DEV_USER_PASSWORD")
	if devPassword == "" {
		devPassword = "tesouraria"
	}

	return App{
		Addr:          addr,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSigningKey: jwtSigningKey,
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		DevUserEmail:    devEmail,
		DevUserPassword: devPassword,
	}
}
