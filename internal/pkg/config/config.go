package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, upstream URLs), security settings
// - default: Values common across all environments (timezone, timeout, breaker tuning, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server     ServerConfig
	DB         DBConfig
	CORS       CORSConfig
	Log        LogConfig
	Inventory  InventoryConfig
	Resilience ResilienceConfig
	Async      AsyncConfig
	Kafka      KafkaConfig
	Redis      RedisConfig
	Telemetry  TelemetryConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Asia/Tokyo"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,traceparent,tracestate"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,X-Request-ID"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Tokyo"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"32400"` // 9*60*60
}

type InventoryConfig struct {
	BaseURL     string        `envconfig:"INVENTORY_SERVICE_URL" required:"true"`
	HTTPTimeout time.Duration `envconfig:"INVENTORY_HTTP_TIMEOUT" default:"5s"`
}

// Shared by the inventory-check and inventory-decrement policies.
type ResilienceConfig struct {
	SlidingWindowSize    int           `envconfig:"CB_SLIDING_WINDOW_SIZE" default:"10"`
	MinimumCalls         int           `envconfig:"CB_MINIMUM_CALLS" default:"5"`
	FailureRateThreshold float64       `envconfig:"CB_FAILURE_RATE_THRESHOLD" default:"50"`
	WaitDurationOpen     time.Duration `envconfig:"CB_WAIT_DURATION_OPEN" default:"5s"`
	HalfOpenPermits      int           `envconfig:"CB_HALF_OPEN_PERMITS" default:"3"`
	CallTimeout          time.Duration `envconfig:"CALL_TIMEOUT" default:"3s"`
	RetryMaxAttempts     int           `envconfig:"RETRY_MAX_ATTEMPTS" default:"3"`
	RetryBackoff         string        `envconfig:"RETRY_BACKOFF" default:"fixed"`
	RetryWait            time.Duration `envconfig:"RETRY_WAIT" default:"500ms"`
	RetryMultiplier      float64       `envconfig:"RETRY_MULTIPLIER" default:"2"`
	RetryMaxWait         time.Duration `envconfig:"RETRY_MAX_WAIT" default:"5s"`
}

type AsyncConfig struct {
	MaxConcurrent int64 `envconfig:"ORDER_MAX_CONCURRENT" default:"64"`
}

type KafkaConfig struct {
	Brokers           []string      `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	NotificationTopic string        `envconfig:"KAFKA_NOTIFICATION_TOPIC" default:"notificationTopic"`
	GroupID           string        `envconfig:"KAFKA_GROUP_ID" default:"notificationId"`
	BatchTimeout      time.Duration `envconfig:"KAFKA_BATCH_TIMEOUT" default:"10ms"`
	WriteTimeout      time.Duration `envconfig:"KAFKA_WRITE_TIMEOUT" default:"5s"`
	BufferSize        int           `envconfig:"EVENT_BUFFER_SIZE" default:"256"`
}

type RedisConfig struct {
	// empty disables the event spool
	URL           string        `envconfig:"REDIS_URL"`
	SpoolKey      string        `envconfig:"EVENT_SPOOL_KEY" default:"order-service:events:spool"`
	DrainInterval time.Duration `envconfig:"EVENT_SPOOL_DRAIN_INTERVAL" default:"30s"`
}

type TelemetryConfig struct {
	// empty keeps tracing in-process: IDs are generated for log correlation but nothing is exported
	OTLPEndpoint   string        `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPInsecure   bool          `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"true"`
	ServiceName    string        `envconfig:"OTEL_SERVICE_NAME" default:"order-service"`
	ServiceVersion string        `envconfig:"OTEL_SERVICE_VERSION" default:"1.0.0"`
	ExportTimeout  time.Duration `envconfig:"OTEL_EXPORT_TIMEOUT" default:"10s"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "Asia/Tokyo",
			MaxConns: 10,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Tokyo",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 32400,
		},
		Inventory: InventoryConfig{
			BaseURL:     "http://localhost:18082",
			HTTPTimeout: time.Second,
		},
		Resilience: ResilienceConfig{
			SlidingWindowSize:    10,
			MinimumCalls:         5,
			FailureRateThreshold: 50,
			WaitDurationOpen:     time.Second,
			HalfOpenPermits:      3,
			CallTimeout:          500 * time.Millisecond,
			RetryMaxAttempts:     2,
			RetryBackoff:         "fixed",
			RetryWait:            time.Millisecond,
			RetryMultiplier:      2,
			RetryMaxWait:         10 * time.Millisecond,
		},
		Async: AsyncConfig{
			MaxConcurrent: 16,
		},
		Kafka: KafkaConfig{
			Brokers:           []string{"localhost:19092"},
			NotificationTopic: "notificationTopic",
			GroupID:           "notificationId",
			BatchTimeout:      10 * time.Millisecond,
			WriteTimeout:      time.Second,
			BufferSize:        16,
		},
		Telemetry: TelemetryConfig{
			ServiceName:    "order-service-test",
			ServiceVersion: "test",
			ExportTimeout:  time.Second,
		},
	}
}
