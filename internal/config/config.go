package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverMemory = "memory"
	StoreDriverFile   = "file"
	StoreDriverCouch  = "couch"
)

type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Database  DatabaseConfig
	Notes     NotesConfig
	WebSocket WebSocketConfig
	CORS      CORSConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Port string
	Host string
	Env  string
}

// IsDevelopment reports whether error bodies may carry internal detail.
func (c ServerConfig) IsDevelopment() bool {
	return c.Env == "development"
}

type StoreConfig struct {
	Driver string
	Path   string
	Seed   bool
	Watch  bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

func (c DatabaseConfig) URL() string {
	return fmt.Sprintf("http://%s:%s@%s:%s", c.User, c.Password, c.Host, c.Port)
}

type NotesConfig struct {
	DefaultLimit int
}

type WebSocketConfig struct {
	ReadBufferSize  int
	WriteBufferSize int
	MaxMessageSize  int64
	WriteWait       time.Duration
	PongWait        time.Duration
	PingPeriod      time.Duration
	MaxConnections  int
}

type CORSConfig struct {
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	godotenv.Load()

	pongWait, err := time.ParseDuration(getEnv("WS_PONG_WAIT", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid WS_PONG_WAIT: %w", err)
	}

	env := envParser{}
	seed := env.boolValue("STORE_SEED", true)
	watch := env.boolValue("STORE_WATCH", true)
	defaultLimit := env.intValue("NOTES_DEFAULT_LIMIT", 10)
	readBufferSize := env.intValue("WS_READ_BUFFER_SIZE", 1024)
	writeBufferSize := env.intValue("WS_WRITE_BUFFER_SIZE", 1024)
	maxMessageSize := env.intValue("WS_MAX_MESSAGE_SIZE", 4096)
	maxConnections := env.intValue("WS_MAX_CONNECTIONS", 100)
	if env.err != nil {
		return nil, env.err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "0.0.0.0"),
			Env:  getEnv("ENV", "development"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getEnv("STORE_DRIVER", StoreDriverMemory)),
			Path:   getEnv("STORE_PATH", "data/notes.json"),
			Seed:   seed,
			Watch:  watch,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5984"),
			User:     getEnv("DB_USER", "admin"),
			Password: getEnv("DB_PASSWORD", "password"),
			Name:     getEnv("DB_NAME", "noteful"),
		},
		Notes: NotesConfig{
			DefaultLimit: defaultLimit,
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  readBufferSize,
			WriteBufferSize: writeBufferSize,
			MaxMessageSize:  int64(maxMessageSize),
			WriteWait:       10 * time.Second,
			PongWait:        pongWait,
			PingPeriod:      pongWait * 9 / 10,
			MaxConnections:  maxConnections,
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET,POST,PUT,OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type,X-Request-ID"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case StoreDriverMemory, StoreDriverFile, StoreDriverCouch:
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q (want memory, file or couch)", c.Store.Driver)
	}

	if c.Store.Driver == StoreDriverFile && c.Store.Path == "" {
		return fmt.Errorf("STORE_PATH is required for the file driver")
	}

	if c.Notes.DefaultLimit <= 0 {
		return fmt.Errorf("invalid NOTES_DEFAULT_LIMIT: must be positive, got %d", c.Notes.DefaultLimit)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// envParser reads typed variables and keeps the first parse failure, so a
// set but malformed value is reported instead of silently defaulted.
type envParser struct {
	err error
}

func (p *envParser) intValue(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		p.fail(key, valueStr)
		return defaultValue
	}
	return value
}

func (p *envParser) boolValue(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		p.fail(key, valueStr)
		return defaultValue
	}
	return value
}

func (p *envParser) fail(key, value string) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s: %q", key, value)
	}
}
