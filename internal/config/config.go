package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port         string
	Env          string
	DatabasePath string
	JWTSecret    string
	JWTTTLHours  int
	UploadDir    string
	RedisURL     string
	CORSOrigins  string
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

// Load reads the process configuration from the environment. Every value has
// a development default so the server starts with an empty environment.
func Load() Config {
	ttlStr := getenv("JWT_TTL_HOURS", "168") // 7 days
	ttl, err := strconv.Atoi(ttlStr)
	if err != nil || ttl <= 0 {
		ttl = 168
	}
	return Config{
		Port:         getenv("PORT", "3001"),
		Env:          getenv("APP_ENV", "dev"),
		DatabasePath: getenv("DATABASE_PATH", "chat.db"),
		JWTSecret:    getenv("JWT_SECRET", "dev-secret-change-me"),
		JWTTTLHours:  ttl,
		UploadDir:    getenv("UPLOAD_DIR", "uploads"),
		RedisURL:     getenv("REDIS_URL", ""),
		CORSOrigins:  getenv("CORS_ORIGINS", "http://localhost:5173,http://localhost:8000"),
	}
}
