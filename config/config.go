package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"skirmish/session"
	"skirmish/utils"
)

// Config はプロセス全体の設定です。起動時に一度だけ解決します。
type Config struct {
	Endpoint     string
	DeviceIDPath string
	Session      session.Config
}

// Load は.env (あれば) と環境変数から設定を読み込みます。
func Load() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("config: no .env file, using environment only")
	}

	sess := session.DefaultConfig()
	sess.PushToken = os.Getenv("SKIRMISH_PUSH_TOKEN")
	sess.RespawnDelay = durationEnv("SKIRMISH_RESPAWN_DELAY", sess.RespawnDelay)
	sess.StartRetryDelay = durationEnv("SKIRMISH_START_RETRY_DELAY", sess.StartRetryDelay)
	sess.HeartbeatInterval = durationEnv("SKIRMISH_HEARTBEAT_INTERVAL", sess.HeartbeatInterval)
	sess.StaleAfter = durationEnv("SKIRMISH_STALE_AFTER", sess.StaleAfter)

	return Config{
		Endpoint:     utils.GetEnvDefault("SKIRMISH_ENDPOINT", "ws://localhost:9090/ws"),
		DeviceIDPath: utils.GetEnvDefault("SKIRMISH_DEVICE_ID_FILE", ".skirmish/device-id"),
		Session:      sess,
	}
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		slog.Warn("config: invalid duration, using default", "key", key, "value", value)
		return fallback
	}
	return d
}
