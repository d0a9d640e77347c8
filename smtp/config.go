package smtp

import "time"

// Config holds SMTP connection parameters.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	Host     string        `env:"SMTP_HOST"`
	Port     int           `env:"SMTP_PORT" envDefault:"587"`
	Username string        `env:"SMTP_USERNAME"` // optional - some servers allow unauthenticated relay
	Password string        `env:"SMTP_PASSWORD"` // optional
	Timeout  time.Duration `env:"SMTP_TIMEOUT" envDefault:"30s"`
}
