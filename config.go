package mailkit

// Config holds mailer configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	DefaultSender   string `env:"MAILER_DEFAULT_SENDER"`
	FallbackSubject string `env:"MAILER_FALLBACK_SUBJECT" envDefault:"Notification"`
	DefaultLayout   string `env:"MAILER_DEFAULT_LAYOUT" envDefault:"base.html"`
	MaxEmails       int    `env:"MAILER_MAX_EMAILS" envDefault:"0"`
	Suppress        bool   `env:"MAILER_SUPPRESS_SEND" envDefault:"false"`
}
