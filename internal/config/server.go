package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// ServerConfig holds API server settings read from API_* environment variables.
type ServerConfig struct {
	Port           string        `envconfig:"PORT" default:"8080"`
	Env            string        `envconfig:"ENV" default:"development"`
	AllowedOrigins []string      `envconfig:"ALLOWED_ORIGINS" default:"*"`
	ResultTTL      time.Duration `envconfig:"RESULT_TTL" default:"1h"`
	MaxUploadBytes int64         `envconfig:"MAX_UPLOAD_BYTES" default:"33554432"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	StaticDir      string        `envconfig:"STATIC_DIR" default:"./web/dist"`
}

func LoadServer() (*ServerConfig, error) {
	var c ServerConfig
	if err := envconfig.Process("API", &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *ServerConfig) Production() bool { return c.Env == "production" }
