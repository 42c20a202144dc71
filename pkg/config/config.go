package config

import (
	"os"
	"strconv"
	"time"
)

// DBConfig 数据库配置
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"` // 默认 disable

	// 连接池，零值使用 pkg/db 的默认值
	MaxConns       int32         `yaml:"max_conns"`
	MinConns       int32         `yaml:"min_conns"`
	MaxConnIdle    time.Duration `yaml:"max_conn_idle"`
	SlowQuery      time.Duration `yaml:"slow_query"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// MQConfig 消息队列配置
type MQConfig struct {
	URL       string        `yaml:"url"`
	Heartbeat time.Duration `yaml:"heartbeat"` // 零值使用 amqp091 默认的 10s
}

// RedisConfig Redis配置
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// JWTConfig JWT配置
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port string `yaml:"port"`
}

// GoogleConfig holds the OAuth client used to build per-user Google API handles.
type GoogleConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

// TracingConfig OpenTelemetry 配置
type TracingConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
}

// OverrideDBFromEnv 从环境变量覆盖数据库配置
func OverrideDBFromEnv(cfg *DBConfig) {
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Port = p
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.Password = password
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Name = name
	}
	if mode := os.Getenv("DB_SSLMODE"); mode != "" {
		cfg.SSLMode = mode
	}
}

// OverrideMQFromEnv 从环境变量覆盖MQ配置
func OverrideMQFromEnv(cfg *MQConfig) {
	if url := os.Getenv("MQ_URL"); url != "" {
		cfg.URL = url
	}
}

// OverrideRedisFromEnv 从环境变量覆盖Redis配置
func OverrideRedisFromEnv(cfg *RedisConfig) {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Password = password
	}
	if db := os.Getenv("REDIS_DB"); db != "" {
		if n, err := strconv.Atoi(db); err == nil {
			cfg.DB = n
		}
	}
}

// OverrideJWTFromEnv 从环境变量覆盖JWT配置
func OverrideJWTFromEnv(cfg *JWTConfig) {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.Secret = secret
	}
}

// OverrideServerFromEnv 从环境变量覆盖服务器配置
func OverrideServerFromEnv(cfg *ServerConfig) {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Port = port
	}
}

// OverrideGoogleFromEnv reads GOOGLE_CLIENT_ID / GOOGLE_CLIENT_SECRET.
func OverrideGoogleFromEnv(cfg *GoogleConfig) {
	if id := os.Getenv("GOOGLE_CLIENT_ID"); id != "" {
		cfg.ClientID = id
	}
	if secret := os.Getenv("GOOGLE_CLIENT_SECRET"); secret != "" {
		cfg.ClientSecret = secret
	}
}

// OverrideTracingFromEnv 从环境变量覆盖 tracing 配置
func OverrideTracingFromEnv(cfg *TracingConfig) {
	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		cfg.Endpoint = endpoint
		cfg.Enabled = true
	}
}
